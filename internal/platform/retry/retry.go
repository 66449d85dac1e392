// Package retry runs an operation under a bounded attempt budget with a fixed delay sequence
package retry

import (
	"context"
	"fmt"
	"time"

	"outreach/internal/platform/logger"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds a retried operation
type Policy struct {
	// Attempts is the total budget, including the first try
	Attempts int
	// Delays are waited between attempts; the last value repeats when shorter than the budget
	Delays []time.Duration
	// Retryable reports whether an error is worth another attempt. nil retries everything
	Retryable func(error) bool
	// Name labels log lines
	Name string
}

// ExhaustedError is returned when every attempt failed with a retryable error
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// newTimer is a seam; nil selects the backoff package's real timer
var newTimer = func() backoff.Timer { return nil }

// Do runs op until it succeeds, fails permanently, or the budget is spent
// op receives a context detached from ctx cancellation, so a client disconnect does not
// abort an upload halfway through its retries. It returns the attempts made
func Do(ctx context.Context, p Policy, op func(context.Context) error) (int, error) {
	if p.Attempts <= 0 {
		p.Attempts = 1
	}
	detached := context.WithoutCancel(ctx)
	log := logger.C(ctx).With().Str("component", "retry").Str("op", p.Name).Logger()

	attempts := 0
	var last error
	permanent := false
	run := func() error {
		attempts++
		err := op(detached)
		if err == nil {
			return nil
		}
		last = err
		if p.Retryable != nil && !p.Retryable(err) {
			permanent = true
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Int("attempt", attempts).Dur("wait", wait).Msg("retrying")
	}

	b := backoff.WithMaxRetries(&steps{delays: p.Delays}, uint64(p.Attempts-1))
	if err := backoff.RetryNotifyWithTimer(run, b, notify, newTimer()); err != nil {
		if permanent {
			return attempts, err
		}
		return attempts, &ExhaustedError{Attempts: attempts, Err: last}
	}
	return attempts, nil
}

// steps is a backoff.BackOff over an explicit delay list
type steps struct {
	delays []time.Duration
	i      int
}

func (s *steps) Reset() { s.i = 0 }

func (s *steps) NextBackOff() time.Duration {
	if len(s.delays) == 0 {
		return 0
	}
	d := s.delays[len(s.delays)-1]
	if s.i < len(s.delays) {
		d = s.delays[s.i]
	}
	s.i++
	return d
}
