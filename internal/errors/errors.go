package errors

import (
	"errors"
	"fmt"
)

// Common error types for the pharmacy client
var (
	// Session errors
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionExpired   = errors.New("session expired")
	ErrNoSessionCookie  = errors.New("no session cookie")

	// Token errors
	ErrUnauthorized     = errors.New("unauthorized")
	ErrRefreshFailed    = errors.New("token refresh failed")
	ErrNoRefreshToken   = errors.New("no refresh token available")
	ErrEmptyAccessToken = errors.New("empty access token")

	// Profile errors
	ErrProfileNotLoaded = errors.New("user profile not loaded")

	// Transport errors
	ErrNoResponse = errors.New("no response from server")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
