package profile

import "sync"

// Session holds the live profile for a running assistant and persists
// every mutation through the backing store.
type Session struct {
	mu    sync.Mutex
	store *Store
	prof  *Profile
}

// NewSession loads the profile and wraps it for mutation.
func NewSession(store *Store) *Session {
	return &Session{store: store, prof: store.Load()}
}

// Name returns the current user name.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prof.Name
}

// SetName updates the user name and saves the profile immediately.
func (s *Session) SetName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prof.Name = name
	return s.store.Save(s.prof)
}

// Preference returns a stored preference value, if any.
func (s *Session) Preference(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.prof.Preferences[key]
	return v, ok
}

// SetPreference stores a preference and saves the profile.
func (s *Session) SetPreference(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prof.Preferences == nil {
		s.prof.Preferences = make(map[string]any)
	}
	s.prof.Preferences[key] = value
	return s.store.Save(s.prof)
}
