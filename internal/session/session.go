// Package session tracks whether the current process holds a usable login.
// The token store remains the source of truth for credentials.
package session

import (
	"sync"

	"github.com/julianstephens/habitlog/internal/events"
	"github.com/julianstephens/habitlog/internal/logger"
	"github.com/julianstephens/habitlog/internal/tokens"
)

type Session struct {
	mu            sync.Mutex
	authenticated bool
	lastReason    events.Reason
	callbacks     []func(events.Reason)
	unsubscribe   func()
}

// New derives the initial state from the presence of an access token and
// subscribes to bus so that any logout marks the session unauthenticated.
func New(store tokens.Store, bus *events.Broadcaster) *Session {
	s := &Session{
		authenticated: tokens.AccessToken(store) != "",
		unsubscribe:   func() {},
	}
	if bus != nil {
		s.unsubscribe = bus.Subscribe(s.handleLogout)
	}
	return s
}

// Authenticated reports whether the session is believed to be logged in.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// MarkAuthenticated records a successful login.
func (s *Session) MarkAuthenticated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = true
	s.lastReason = ""
}

// LastLogout returns the reason of the most recent logout, or "" if none
// happened since the last login.
func (s *Session) LastLogout() events.Reason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReason
}

// OnLogout registers fn to run after the session is marked unauthenticated.
func (s *Session) OnLogout(fn func(events.Reason)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, fn)
}

// Close stops listening for logouts.
func (s *Session) Close() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = func() {}
	s.mu.Unlock()
	unsub()
}

func (s *Session) handleLogout(reason events.Reason) {
	s.mu.Lock()
	s.authenticated = false
	s.lastReason = reason
	callbacks := append([]func(events.Reason){}, s.callbacks...)
	s.mu.Unlock()

	logger.Debug("session marked unauthenticated", "reason", reason)
	for _, fn := range callbacks {
		fn(reason)
	}
}
