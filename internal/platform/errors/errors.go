// Package errors provides the coded error type shared by all services
package errors

// Import as perr everywhere outside this package

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies errors for callers that dispatch on kind, not text.
// Values are stable; append only
type ErrorCode uint16

const (
	// ErrorCodeUnknown is the zero value, for errors nobody classified
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodePanic is for recovered panics
	ErrorCodePanic

	// ErrorCodeUnavailable is for transient dependency failures where retry may succeed
	ErrorCodeUnavailable

	// ErrorCodeTooManyRequests is for upstream rate limiting
	ErrorCodeTooManyRequests

	// ErrorCodeConflict is for state conflicts beyond duplicate key
	ErrorCodeConflict

	// ErrorCodeUnauthorized is for credential failures against upstream APIs
	ErrorCodeUnauthorized

	// ErrorCodeInvalidArgument flags bad caller input
	ErrorCodeInvalidArgument

	// ErrorCodeValidation is for request payload validation failures
	ErrorCodeValidation

	// ErrorCodeJSON is for payloads that would not decode
	ErrorCodeJSON

	// ErrorCodeNotFound flags a missing row or resource
	ErrorCodeNotFound

	// ErrorCodeDuplicateKey flags unique constraint violations
	ErrorCodeDuplicateKey

	// ErrorCodeDB covers database failures with no better class
	ErrorCodeDB

	// ErrorCodeMalformed is for records that cannot be normalized
	// (missing or unparseable natural-key fields); absorbed and counted,
	// never fatal to a run
	ErrorCodeMalformed
)

// statusByCode is the trigger API's view of each class; codes not listed
// report as a 500
var statusByCode = map[ErrorCode]int{
	ErrorCodeNotFound:        http.StatusNotFound,
	ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
	ErrorCodeDuplicateKey:    http.StatusConflict,
	ErrorCodeConflict:        http.StatusConflict,
	ErrorCodeValidation:      http.StatusBadRequest,
	ErrorCodeJSON:            http.StatusBadRequest,
	ErrorCodeMalformed:       http.StatusBadRequest,
	ErrorCodeUnauthorized:    http.StatusUnauthorized,
	ErrorCodeTooManyRequests: http.StatusTooManyRequests,
	ErrorCodeUnavailable:     http.StatusServiceUnavailable,
}

// HTTPStatusCode maps an ErrorCode to the status the envelope reports
func HTTPStatusCode(c ErrorCode) int {
	if status, ok := statusByCode[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrNotFound is the shared not-found sentinel
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error carries a code, a developer-facing message, an optional field
// (validation) and op tag, and the wrapped cause
type Error struct {
	code  ErrorCode
	msg   string
	field string
	op    string
	cause error
}

// Wire is the JSON form of an error in API envelopes
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// Error renders the message, chaining the wrapped cause when present
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

// Unwrap exposes the cause to errors.Is and errors.As
func (e *Error) Unwrap() error { return e.cause }

// Code reports the machine facing classification
func (e *Error) Code() ErrorCode { return e.code }

// Field names the input field a validation failure points at
func (e *Error) Field() string { return e.field }

// Op reports the operation tag, if set
func (e *Error) Op() string { return e.op }

// ToWire keeps only the message, never the cause chain; causes are for
// logs, not API clients
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

// WireFrom converts any error to a Wire payload, Unknown for foreign errors
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	coded, ok := As(err)
	if !ok {
		return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
	}
	return coded.ToWire()
}

// As returns (*Error, true) when err wraps one of ours
func As(err error) (*Error, bool) {
	var pe *Error
	ok := stderrs.As(err, &pe)
	return pe, ok
}

// Root walks Unwrap to the deepest cause
func Root(err error) error {
	if err == nil {
		return nil
	}
	for {
		next := stderrs.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// CodeOf extracts the ErrorCode from any error, Unknown when foreign
func CodeOf(err error) ErrorCode {
	coded, ok := As(err)
	if !ok {
		return ErrorCodeUnknown
	}
	return coded.code
}

// IsCode reports whether err carries the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus maps any error straight to a status
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// mutate copies e, applies set, and returns the copy; foreign errors pass
// through untouched so annotation is always safe
func mutate(err error, set func(*Error)) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	dup := *e
	set(&dup)
	return &dup
}

// WithField attaches the offending input field
func WithField(err error, field string) error {
	return mutate(err, func(e *Error) { e.field = field })
}

// WithOp attaches an operation tag
func WithOp(err error, op string) error {
	return mutate(err, func(e *Error) { e.op = op })
}

// Constructors

// New returns an *Error with code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns an *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns an *Error carrying code and msg on top of cause
func Wrap(cause error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, cause: cause}
}

// Wrapf is Wrap with a formatted message
func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), cause: cause}
}

// Sugar

// NotFoundf formats a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

// InvalidArgf flags bad input parameters
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// Malformedf returns a malformed record error
func Malformedf(format string, a ...any) error { return Newf(ErrorCodeMalformed, format, a...) }

// DuplicateKeyf wraps unique constraint hits
func DuplicateKeyf(format string, a ...any) error { return Newf(ErrorCodeDuplicateKey, format, a...) }

// DBf is the catch-all database error
func DBf(format string, a ...any) error { return Newf(ErrorCodeDB, format, a...) }

// JSONErrf reports a payload that would not decode
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

// PanicErrf tags an error built from a recovered panic
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }

// Unauthorizedf reports rejected credentials
func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }

// Conflictf reports a state conflict beyond duplicate key
func Conflictf(format string, a ...any) error { return Newf(ErrorCodeConflict, format, a...) }

// Unavailablef reports a transient upstream failure
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }

// TooManyf returns a rate limited error
func TooManyf(format string, a ...any) error { return Newf(ErrorCodeTooManyRequests, format, a...) }

// Internalf is the unclassified fallback
func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }

// Retryable reports whether the error represents a transient condition worth
// retrying. Backed by the Postgres classifier in pg.go
func Retryable(err error) bool { return IsRetryable(err) }
