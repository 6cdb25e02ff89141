package session

import "time"

type signInOptions struct {
	expiry   time.Duration
	redirect bool
}

// SignInOption defines a function type to modify sign-in behaviour.
type SignInOption func(*signInOptions)

// WithExpiry overrides the session cookie expiry for this sign-in.
func WithExpiry(expiry time.Duration) SignInOption {
	return func(o *signInOptions) {
		o.expiry = expiry
	}
}

// WithRedirect controls whether a successful sign-in navigates to the home
// route. Token rotation passes false so a background refresh never yanks the
// user off the page they are on.
func WithRedirect(redirect bool) SignInOption {
	return func(o *signInOptions) {
		o.redirect = redirect
	}
}
