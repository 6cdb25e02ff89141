package storefake

import (
	"encoding/json"
	"sync"

	"github.com/pharmalink/go-pharmacy-client/prefs"
)

var _ prefs.Store = (*FakeStore)(nil)

// FakeStore is an in-memory prefs.Store for tests. Values are round-tripped
// through JSON just like the real store, so serialization bugs still show up.
type FakeStore struct {
	values map[string]json.RawMessage
	lock   sync.RWMutex
}

func NewFakeStore() *FakeStore {
	return &FakeStore{values: make(map[string]json.RawMessage)}
}

func (fs *FakeStore) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.values[key] = raw
	return nil
}

func (fs *FakeStore) Get(key string, out any) (bool, error) {
	fs.lock.RLock()
	raw, ok := fs.values[key]
	fs.lock.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

func (fs *FakeStore) Remove(key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	delete(fs.values, key)
	return nil
}

// Corrupt replaces the raw stored bytes for key, bypassing serialization.
// Used to exercise corrupt-document recovery paths.
func (fs *FakeStore) Corrupt(key string, raw []byte) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.values[key] = raw
}

// Len reports the number of stored keys.
func (fs *FakeStore) Len() int {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return len(fs.values)
}
