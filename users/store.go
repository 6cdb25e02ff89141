package users

import "sync"

// Store holds the fetched user profile for the lifetime of a session. The
// auth core never fetches the profile itself; it only resets the store on
// sign-out. The route guard fills it lazily after authentication.
type Store struct {
	lock    sync.RWMutex
	profile Profile
	loaded  bool
}

func NewStore() *Store {
	return &Store{}
}

// Get returns the profile and whether one has been loaded this session.
func (s *Store) Get() (Profile, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.profile, s.loaded
}

func (s *Store) Set(profile Profile) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.profile = profile
	s.loaded = true
}

// Reset returns the store to its initial empty state. Safe to call when
// already empty.
func (s *Store) Reset() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.profile = Profile{}
	s.loaded = false
}
