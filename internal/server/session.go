package server

import (
	"github.com/resign-hr/directory/internal/core/ports"
)

// Session is the per-connection authentication state: Anonymous until
// a login binds a username, Anonymous again after logout. It holds the
// identity only; accounts are re-read from the store on every
// privileged request, so a session can never act on stale permissions.
//
// A session belongs to exactly one connection goroutine; it needs no
// locking because actions within a session are strictly sequential.
type Session struct {
	username string
}

var _ ports.Session = (*Session)(nil)

// NewSession returns a fresh anonymous session.
func NewSession() *Session {
	return &Session{}
}

// IsAnonymous reports whether no identity is bound.
func (s *Session) IsAnonymous() bool {
	return s.username == ""
}

// Username returns the bound identity; ok is false when anonymous.
func (s *Session) Username() (string, bool) {
	if s.username == "" {
		return "", false
	}
	return s.username, true
}

// Authenticate binds username. Only the login handler calls this,
// after credential verification.
func (s *Session) Authenticate(username string) {
	s.username = username
}

// Deauthenticate clears the identity. Idempotent.
func (s *Session) Deauthenticate() {
	s.username = ""
}
