// Package state holds the per-request identity state: one slice per
// identity class, each mutated only by a wholesale login or logout.
package state

import (
	"sync"

	"momskitchen-hub/internal/domain"
)

// slice is the state of one identity class.
type slice struct {
	authenticated bool
	profile       domain.Profile
}

// SessionState carries the settled authentication state of both identity
// classes for a single request. It is built by the session resolver and
// injected into the routing layer; guards and handlers only read it.
// The user and mom slices are independent: no operation on one ever
// touches the other.
type SessionState struct {
	mu   sync.RWMutex
	user slice
	mom  slice
}

// New returns a state with both classes logged out.
func New() *SessionState {
	return &SessionState{}
}

// Login replaces the class slice wholesale. Idempotent: a second call
// overwrites, never merges.
func (s *SessionState) Login(class domain.Class, profile domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch class {
	case domain.ClassUser:
		s.user = slice{authenticated: true, profile: profile}
	case domain.ClassMom:
		s.mom = slice{authenticated: true, profile: profile}
	}
}

// Logout clears exactly the class slice.
func (s *SessionState) Logout(class domain.Class) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch class {
	case domain.ClassUser:
		s.user = slice{}
	case domain.ClassMom:
		s.mom = slice{}
	}
}

// Authenticated reports whether the class holds a resolved session.
func (s *SessionState) Authenticated(class domain.Class) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(class).authenticated
}

// Profile returns the class profile, nil when logged out.
func (s *SessionState) Profile(class domain.Class) domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(class).profile
}

// Active returns the active identity class from the UI's perspective:
// mom wins inside its namespace only because the two are never both
// admitted past the guards.
func (s *SessionState) Active() domain.Class {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.user.authenticated:
		return domain.ClassUser
	case s.mom.authenticated:
		return domain.ClassMom
	default:
		return domain.ClassAnonymous
	}
}

func (s *SessionState) get(class domain.Class) slice {
	if class == domain.ClassMom {
		return s.mom
	}
	return s.user
}
