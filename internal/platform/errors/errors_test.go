package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	t.Parallel()

	cases := map[ErrorCode]int{
		ErrorCodeNotFound:        http.StatusNotFound,
		ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
		ErrorCodeDuplicateKey:    http.StatusConflict,
		ErrorCodeConflict:        http.StatusConflict,
		ErrorCodeValidation:      http.StatusBadRequest,
		ErrorCodeJSON:            http.StatusBadRequest,
		ErrorCodeUnauthorized:    http.StatusUnauthorized,
		ErrorCodeForbidden:       http.StatusForbidden,
		ErrorCodeTooManyRequests: http.StatusTooManyRequests,
		ErrorCodeUnavailable:     http.StatusServiceUnavailable,
		ErrorCodeTimeout:         http.StatusGatewayTimeout,
		ErrorCodeTooLarge:        http.StatusRequestEntityTooLarge,
		ErrorCodeDB:              http.StatusInternalServerError,
		ErrorCodePanic:           http.StatusInternalServerError,
		ErrorCodeUnknown:         http.StatusInternalServerError,
		9999:                     http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := HTTPStatusCode(code); got != want {
			t.Fatalf("HTTPStatusCode(%d) = %d, want %d", code, got, want)
		}
	}
}

func TestWrapKeepsCauseOutOfWire(t *testing.T) {
	t.Parallel()

	cause := stderrs.New("POST https://stt.example/v1?key=sk-live-1: 401")
	err := Wrap(cause, ErrorCodeUnavailable, "speech provider rejected credentials")

	if !stderrs.Is(err, cause) {
		t.Fatalf("cause lost from chain")
	}
	if err.Error() != "speech provider rejected credentials: "+cause.Error() {
		t.Fatalf("Error() = %q", err.Error())
	}
	w := WireFrom(fmt.Errorf("handler: %w", err))
	if w.Code != ErrorCodeUnavailable || w.Message != "speech provider rejected credentials" {
		t.Fatalf("wire = %+v", w)
	}
	if fw := WireFrom(cause); fw.Code != ErrorCodeUnknown || fw.Message != InternalMessage {
		t.Fatalf("foreign wire = %+v", fw)
	}
	if zw := WireFrom(nil); !reflect.DeepEqual(zw, Wire{}) {
		t.Fatalf("WireFrom(nil) = %+v", zw)
	}
}

func TestCodeOfAndIsCode(t *testing.T) {
	t.Parallel()

	sugar := map[ErrorCode]error{
		ErrorCodeNotFound:     NotFoundf("individual %s", "x"),
		ErrorCodeJSON:         JSONErrf("bad json"),
		ErrorCodePanic:        PanicErrf("panic"),
		ErrorCodeUnauthorized: Unauthorizedf("no token"),
		ErrorCodeConflict:     Conflictf("taken"),
		ErrorCodeUnavailable:  Unavailablef("down"),
		ErrorCodeTooLarge:     TooLargef("big"),
		ErrorCodeUnknown:      Internalf("odd"),
	}
	for code, err := range sugar {
		if !IsCode(err, code) {
			t.Fatalf("%v: code = %d want %d", err, CodeOf(err), code)
		}
	}
	if CodeOf(stderrs.New("x")) != ErrorCodeUnknown || CodeOf(nil) != ErrorCodeUnknown {
		t.Fatalf("foreign and nil errors are Unknown")
	}
	if !IsCode(fmt.Errorf("wrapped: %w", ErrNotFound), ErrorCodeNotFound) {
		t.Fatalf("IsCode must see through wrapping")
	}
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil *Error = %q", nilErr.Error())
	}
}

func TestFieldHelpers(t *testing.T) {
	t.Parallel()

	base := NotFoundf("category missing")
	named := WithField(base, "category_id")
	if e, _ := As(named); e.Field() != "category_id" {
		t.Fatalf("field = %q", e.Field())
	}
	if e, _ := As(base); e.Field() != "" {
		t.Fatalf("WithField mutated the original")
	}

	foreign := stderrs.New("strconv: bad")
	if WithField(foreign, "x") != foreign {
		t.Fatalf("WithField must pass foreign errors through")
	}
	adopted, ok := As(WithFieldChain(foreign, "age"))
	if !ok || adopted.Field() != "age" || adopted.Code() != ErrorCodeUnknown || !stderrs.Is(adopted, foreign) {
		t.Fatalf("WithFieldChain = %+v", adopted)
	}
	if e, _ := As(WithFieldChain(base, "id")); e.Code() != ErrorCodeNotFound {
		t.Fatalf("WithFieldChain recoded our error")
	}
}

func TestValidationCarriesFieldIssues(t *testing.T) {
	t.Parallel()

	err := Validation("invalid data",
		FieldIssue{Field: "height", Message: "must be between 0 and 300"},
		FieldIssue{Field: "name", Message: "required"},
	)
	if HTTPStatus(err) != http.StatusBadRequest {
		t.Fatalf("status = %d", HTTPStatus(err))
	}
	e, _ := As(err)
	w := WireFrom(err)
	if len(w.Fields) != 2 || w.Fields[1].Field != "name" || len(e.Fields()) != 2 {
		t.Fatalf("fields = %+v", w.Fields)
	}
}
