// Package common defines the error kinds, constants and small random helpers
// shared by the client and server layers of accountkeeper. Callers should use
// errors.Is to match the error values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("username or email already exists")

	// Generic service error; the cause is logged, never returned.
	ErrorInternal = errors.New("internal error")

	// Registration and verification.
	ErrPasswordMismatch      = errors.New("password confirmation does not match")
	ErrNoPendingRegistration = errors.New("no pending registration for this email")
	ErrInvalidOtp            = errors.New("invalid otp")
	ErrAlreadyRegistered     = errors.New("user is already registered")
	ErrNotificationFailed    = errors.New("could not deliver verification code")

	// Request shape and validation.
	ErrInvalidRequest = errors.New("invalid request")
	ErrValidation     = errors.New("validation error")

	// Authentication and authorization. Unknown user and wrong password share
	// ErrInvalidCredentials.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")
)

// kinds lists every error a service operation may return to its caller.
var kinds = []error{
	ErrorNotFound,
	ErrAlreadyExists,
	ErrorInternal,
	ErrPasswordMismatch,
	ErrNoPendingRegistration,
	ErrInvalidOtp,
	ErrAlreadyRegistered,
	ErrNotificationFailed,
	ErrInvalidRequest,
	ErrValidation,
	ErrInvalidCredentials,
	ErrInvalidToken,
	ErrForbidden,
}

// IsKind reports whether err is (or wraps) one of the error kinds above.
func IsKind(err error) bool {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}
