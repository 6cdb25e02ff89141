// Package device supplies the stable device identity sent with every API
// request and used as the socket-connection credential.
package device

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/pharmalink/go-pharmacy-client/prefs"
)

const deviceIDPrefKey = "device.id"

// Provider hands out a device id that is stable across restarts: read from
// the preference store, minted on first use.
type Provider struct {
	store prefs.Store

	lock sync.Mutex
	id   string
}

func NewProvider(store prefs.Store) *Provider {
	return &Provider{store: store}
}

// ID returns the device id, minting and persisting one if none exists yet.
func (p *Provider) ID() (string, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.id != "" {
		return p.id, nil
	}

	var stored string
	found, err := p.store.Get(deviceIDPrefKey, &stored)
	if err != nil {
		return "", errors.Wrap(err, "[Provider.ID] read device id")
	}
	if found && stored != "" {
		p.id = stored
		return p.id, nil
	}

	minted := uuid.New().String()
	if err := p.store.Set(deviceIDPrefKey, minted); err != nil {
		return "", errors.Wrap(err, "[Provider.ID] persist device id")
	}
	p.id = minted
	return p.id, nil
}
