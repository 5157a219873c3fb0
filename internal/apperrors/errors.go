// Package apperrors holds the sentinel errors shared between repositories,
// services and handlers. Repositories translate driver errors into these;
// handlers map them to HTTP status codes.
package apperrors

import "errors"

var (
	// ErrNotFound covers unknown and malformed ids alike.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden means the caller is authenticated but not allowed to act
	// on the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidOperation rejects operations that are never valid, such as
	// requesting your own book.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrDuplicateRequest surfaces the unique (book, requester) constraint.
	ErrDuplicateRequest = errors.New("request already exists")

	// ErrEmailTaken surfaces the unique email constraint on signup.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is deliberately the same for unknown email and
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnavailable marks retryable upstream failures (database or object
	// storage unreachable).
	ErrUnavailable = errors.New("service unavailable")
)
