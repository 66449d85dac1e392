// Package errors is the coded error type every layer returns
// import it as perr
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode travels in the envelope's code field, so values never move.
// Append new codes at the end
type ErrorCode uint16

const (
	ErrorCodeUnknown         ErrorCode = iota // foreign or unclassified, 500
	ErrorCodePanic                            // recovered by middleware
	ErrorCodeUnavailable                      // a backend is down or not configured
	ErrorCodeTooManyRequests                  // rate limited
	ErrorCodeConflict                         // state clash other than a unique key
	ErrorCodeUnauthorized                     // missing or bad bearer token
	ErrorCodeForbidden                        // authenticated but not allowed
	ErrorCodeInvalidArgument                  // well formed but semantically wrong, 422
	ErrorCodeValidation                       // rejected fields, 400
	ErrorCodeJSON                             // body is not the expected json
	ErrorCodeNotFound                         // no such row or route param
	ErrorCodeDuplicateKey                     // unique violation
	ErrorCodeDB                               // any other database failure
	ErrorCodeTimeout                          // an upstream ran out of time
	ErrorCodeTooLarge                         // over a size limit
)

// HTTPStatusCode maps a code to the status the api answers with
func HTTPStatusCode(c ErrorCode) int {
	switch c {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeInvalidArgument:
		return http.StatusUnprocessableEntity
	case ErrorCodeDuplicateKey, ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeJSON:
		return http.StatusBadRequest
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeForbidden:
		return http.StatusForbidden
	case ErrorCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrorCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// ErrNotFound is returned by store lookups that match no row
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is a coded error. msg goes to the client, orig stays in the logs
type Error struct {
	orig   error
	msg    string
	code   ErrorCode
	field  string
	fields []FieldIssue
}

// FieldIssue names one rejected input field
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Wire is the client facing form of an error
type Wire struct {
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
	Field   string       `json:"field,omitempty"`
	Fields  []FieldIssue `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the single offending field, if any
func (e *Error) Field() string { return e.field }

// Fields returns every offending field, if any
func (e *Error) Fields() []FieldIssue { return e.fields }

// ToWire drops the wrapped cause
func (e *Error) ToWire() Wire {
	return Wire{Code: e.code, Message: e.msg, Field: e.field, Fields: e.fields}
}

// WireFrom renders any error for the client
// foreign errors become InternalMessage since they can carry hosts, keys or upstream bodies
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: InternalMessage}
}

// InternalMessage is the client text for errors that are not ours
const InternalMessage = "internal error"

// CodeOf returns err's code, Unknown for foreign errors and nil
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err carries code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus maps any error to a status
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// As finds the first *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// WithField returns a copy of err naming field, foreign errors pass through
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// WithFieldChain is WithField that also adopts foreign errors as Unknown
func WithFieldChain(err error, field string) error {
	if _, ok := As(err); ok {
		return WithField(err, field)
	}
	return &Error{code: ErrorCodeUnknown, msg: err.Error(), field: field, orig: err}
}

// New returns an error with code and msg
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with a formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap codes orig; only msg reaches the client
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Validation returns a 400 listing every offending field
func Validation(msg string, issues ...FieldIssue) error {
	return &Error{code: ErrorCodeValidation, msg: msg, fields: issues}
}

func NotFoundf(format string, a ...any) error     { return Newf(ErrorCodeNotFound, format, a...) }
func JSONErrf(format string, a ...any) error      { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error     { return Newf(ErrorCodePanic, format, a...) }
func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }
func Conflictf(format string, a ...any) error     { return Newf(ErrorCodeConflict, format, a...) }
func Unavailablef(format string, a ...any) error  { return Newf(ErrorCodeUnavailable, format, a...) }
func TooLargef(format string, a ...any) error     { return Newf(ErrorCodeTooLarge, format, a...) }
func Internalf(format string, a ...any) error     { return Newf(ErrorCodeUnknown, format, a...) }
