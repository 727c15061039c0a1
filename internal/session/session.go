package session

import (
	"example.com/tinysocial/internal/credstore"
	"example.com/tinysocial/internal/logger"
	"example.com/tinysocial/internal/models"
)

var logg = logger.New()

// Session is the tab-lifetime authentication state: either Anonymous (no
// token, no profile) or Authenticated (both present). It is an explicit
// object injected into the views, not ambient global state; the credential
// store is the only thing it shares with the rest of the process.
type Session struct {
	store *credstore.Store
	user  *models.User
	authd bool
}

// New restores session state from the credential store. This is a one-time
// read at startup; the state is Authenticated only when both a token and a
// profile are found.
func New(store *credstore.Store) *Session {
	s := &Session{store: store}

	token, user, err := store.Load()
	if err != nil {
		logg.Error("session", "Failed to restore stored session", err)
		return s
	}
	if token != "" && user != nil {
		s.user = user
		s.authd = true
		logg.Info("session", "Restored session for stored profile")
	}
	return s
}

// Login transitions Anonymous -> Authenticated, persisting token and profile
// together. Callers must pass both values; there is no partial session.
func (s *Session) Login(token string, user models.User) error {
	if err := s.store.Save(token, user); err != nil {
		return err
	}
	s.user = &user
	s.authd = true
	return nil
}

// Logout transitions to Anonymous and clears the store. A no-op when already
// Anonymous.
func (s *Session) Logout() error {
	s.user = nil
	s.authd = false
	return s.store.Clear()
}

// Authenticated reports whether a session is active.
func (s *Session) Authenticated() bool {
	return s.authd
}

// User returns the current profile, nil when Anonymous.
func (s *Session) User() *models.User {
	return s.user
}
