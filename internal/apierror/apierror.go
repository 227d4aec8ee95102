// Package apierror defines the API's error taxonomy. Every error surfaced to
// a client is one of these kinds; anything else is classified as internal and
// its detail stays server-side.
package apierror

import (
	"errors"
	"net/http"
)

type Error struct {
	Status  int    `json:"-"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Type: "BAD_REQUEST", Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Type: "UNAUTHORIZED", Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Type: "FORBIDDEN", Message: message}
}

func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Type: "NOT_FOUND", Message: message}
}

func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Type: "CONFLICT", Message: message}
}

func ValidationError(message string, details any) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Type: "VALIDATION_ERROR", Message: message, Details: details}
}

func Internal(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Type: "INTERNAL_ERROR", Message: message}
}

// From extracts the taxonomy error wrapped anywhere in err, or nil if err is
// not classified.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	return nil
}
