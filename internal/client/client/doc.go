// Package client contains the transport side of the dashboard client.
//
// # Overview
//
// The package provides:
//  1. AuthInterceptor, wrapped around every outbound request. It attaches
//     the stored bearer token and turns failed responses into one
//     normalized *Error with a user-safe Message. A 401 clears the session
//     and navigates to the sign-in route with expired=true.
//  2. HTTPClient, a small REST client for the marketplace backend that runs
//     every request through the interceptor chain.
//  3. UnaryClientInterceptor, the same policy for gRPC backends.
//
// # Error Handling
//
// Classified failures are *Error values wrapping one of the sentinels
// ErrUnavailable, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict,
// ErrValidation or ErrServer, so callers can match them with errors.Is and
// show err.Error() directly. Statuses outside that set are returned
// unchanged, for HTTP as a *StatusError. Nothing here retries.
package client
