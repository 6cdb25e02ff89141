// Package appstate holds process-wide mutable client state that must be
// read at request-send time rather than captured at construction time: the
// short-lived access token and the platform role hint. Nothing here is
// persisted; an access token never survives a process restart.
package appstate

import "sync"

// Platform identifies which side of the marketplace the client is acting
// for. It is sent as a request header so the API can shape responses.
type Platform string

const (
	PlatformRetailer Platform = "retailer"
	PlatformSupplier Platform = "supplier"
)

// Holder is the in-memory access-token holder. A token written by one
// goroutine (e.g. the refresh path) is immediately visible to every
// subsequent request.
type Holder struct {
	lock        sync.RWMutex
	accessToken string
	platform    Platform
}

func NewHolder() *Holder {
	return &Holder{platform: PlatformRetailer}
}

func (h *Holder) AccessToken() string {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return h.accessToken
}

func (h *Holder) SetAccessToken(token string) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.accessToken = token
}

// ClearAccessToken drops the current access token.
func (h *Holder) ClearAccessToken() {
	h.SetAccessToken("")
}

func (h *Holder) Platform() Platform {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return h.platform
}

func (h *Holder) SetPlatform(p Platform) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.platform = p
}
