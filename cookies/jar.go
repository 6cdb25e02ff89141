// Package cookies implements the client-side cookie jar used for session
// marking. The jar is not a security boundary: the presence of the session
// cookie is a signal that a live session exists on this device, while the
// canonical refresh token lives in the preference store.
package cookies

import "time"

// Cookie is a named value with an expiry. A zero Expires means "no expiry".
type Cookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

// Expired reports whether the cookie is expired at time now.
func (c Cookie) Expired(now time.Time) bool {
	return !c.Expires.IsZero() && !now.Before(c.Expires)
}

// Jar stores cookies by name. Expired cookies are never returned by Get or
// List; implementations may drop them lazily.
type Jar interface {
	Set(cookie Cookie)
	Get(name string) (Cookie, bool)
	Delete(name string)
	List() []Cookie
	Clear()
}
