package recommender

import (
	"fmt"
	"net/http"
)

// Code is a stable, user-visible error code.
type Code string

const (
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeIntentTransport Code = "INTENT_TRANSPORT_FAILURE"
	CodeOverloaded      Code = "OVERLOADED"
	CodeInvalidFilter   Code = "INVALID_FILTER"
	CodeToolNotFound    Code = "TOOL_NOT_FOUND"
	CodeInternal        Code = "INTERNAL_ERROR"
)

// HTTPStatus maps a code to its response status.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation, CodeInvalidFilter:
		return http.StatusBadRequest
	case CodeToolNotFound:
		return http.StatusNotFound
	case CodeOverloaded:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a request-fatal failure.
type Error struct {
	Code   Code
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code, so the
// sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrValidation      = &Error{Code: CodeValidation, Detail: "user prompt is required"}
	ErrIntentTransport = &Error{Code: CodeIntentTransport, Detail: "failed to process user intent"}
	ErrOverloaded      = &Error{Code: CodeOverloaded, Detail: "too many requests in flight"}
)

func newError(code Code, detail string, err error) *Error {
	return &Error{Code: code, Detail: detail, Err: err}
}
