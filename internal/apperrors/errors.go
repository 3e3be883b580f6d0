package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the closed set of failures the API can report to a client.
// Each value carries the HTTP status it maps to, so handlers never
// inspect message text to pick a status code.
type Error struct {
	Status  int    `json:"-"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func NewValidation(field, message string) *Error {
	return &Error{Status: http.StatusBadRequest, Field: field, Message: message}
}

func NewUnauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

func NewForbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

func NewNotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// NewConflict reports an illegal state transition. The original API
// surfaced these as 400, so the status stays 400 rather than 409.
func NewConflict(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

func NewInternal(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message}
}

// As unwraps err into an *Error, or nil when err is not one.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
