package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrServer       = errors.New("server error")

	ErrTokenResponse = errors.New("invalid token response")
)

// User-facing messages.
const (
	MsgSessionExpired = "Session expired. Please sign in again."
	MsgForbidden      = "You do not have permission to perform this action."
	MsgNotFound       = "The requested resource was not found."
	MsgConflict       = "This action conflicts with the current state of the resource."
	MsgValidation     = "The request is invalid. Please check your input and try again."
	MsgServer         = "An unexpected server error occurred. Please try again later."
	MsgUnavailable    = "Unable to connect to server. Please check your connection and try again."
)

// Error is the normalized failure returned to callers. Message is always
// safe to show to the user.
type Error struct {
	Status      int
	Message     string
	FieldErrors map[string]string

	kind  error
	cause error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

// StatusError is a non-2xx HTTP response as received.
type StatusError struct {
	StatusCode int
	Method     string
	URL        string
	Header     http.Header
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}
