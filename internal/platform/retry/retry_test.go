package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	kit "outreach/internal/platform/testkit"

	"github.com/cenkalti/backoff/v4"
)

// instantTimer fires immediately and records requested waits
type instantTimer struct {
	c     chan time.Time
	waits *[]time.Duration
}

func (t *instantTimer) Start(d time.Duration) {
	*t.waits = append(*t.waits, d)
	t.c = make(chan time.Time, 1)
	t.c <- time.Now()
}
func (t *instantTimer) Stop()               {}
func (t *instantTimer) C() <-chan time.Time { return t.c }

func useInstantTimer(t *testing.T) *[]time.Duration {
	t.Helper()
	kit.Serial(t)
	waits := &[]time.Duration{}
	kit.Swap(t, &newTimer, func() backoff.Timer { return &instantTimer{waits: waits} })
	return waits
}

var errTransient = errors.New("503")
var errAuth = errors.New("401")

func policy() Policy {
	return Policy{
		Attempts:  3,
		Delays:    []time.Duration{time.Second, 2 * time.Second},
		Retryable: func(err error) bool { return errors.Is(err, errTransient) },
		Name:      "test",
	}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	waits := useInstantTimer(t)
	calls := 0
	n, err := Do(context.Background(), policy(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})
	if err != nil || n != 3 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	if len(*waits) != 2 || (*waits)[0] != time.Second || (*waits)[1] != 2*time.Second {
		t.Fatalf("waits = %v", *waits)
	}
}

func TestDo_ExhaustsBudget(t *testing.T) {
	useInstantTimer(t)
	n, err := Do(context.Background(), policy(), func(context.Context) error { return errTransient })
	var ex *ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("expected ExhaustedError, got %T %v", err, err)
	}
	if n != 3 || ex.Attempts != 3 || !errors.Is(err, errTransient) {
		t.Fatalf("n=%d attempts=%d err=%v", n, ex.Attempts, err)
	}
	kit.MustContain(t, err.Error(), "after 3 attempts")
}

func TestDo_PermanentFailsFast(t *testing.T) {
	waits := useInstantTimer(t)
	n, err := Do(context.Background(), policy(), func(context.Context) error { return errAuth })
	if n != 1 || !errors.Is(err, errAuth) {
		t.Fatalf("n=%d err=%v", n, err)
	}
	var ex *ExhaustedError
	if errors.As(err, &ex) {
		t.Fatalf("permanent error must not be reported as exhaustion")
	}
	if len(*waits) != 0 {
		t.Fatalf("no waits expected, got %v", *waits)
	}
}

func TestDo_IgnoresParentCancellation(t *testing.T) {
	useInstantTimer(t)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	n, err := Do(ctx, policy(), func(opCtx context.Context) error {
		calls++
		cancel()
		if opCtx.Err() != nil {
			t.Fatalf("op context should be detached from the caller")
		}
		if calls < 2 {
			return errTransient
		}
		return nil
	})
	if err != nil || n != 2 {
		t.Fatalf("n=%d err=%v", n, err)
	}
}

func TestSteps_RepeatsLastDelay(t *testing.T) {
	t.Parallel()
	s := &steps{delays: []time.Duration{1, 2}}
	got := []time.Duration{s.NextBackOff(), s.NextBackOff(), s.NextBackOff()}
	if got[0] != 1 || got[1] != 2 || got[2] != 2 {
		t.Fatalf("got %v", got)
	}
	s.Reset()
	if s.NextBackOff() != 1 {
		t.Fatalf("reset did not rewind")
	}
}
