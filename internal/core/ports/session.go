package ports

// Session is the per-connection authentication state. A session is
// Anonymous until a successful login binds it to a username, and
// carries only the username, never a cached account, so that role
// and data changes take effect on the very next request.
type Session interface {
	// IsAnonymous reports whether no identity is bound.
	IsAnonymous() bool

	// Username returns the bound identity. ok is false when the
	// session is anonymous.
	Username() (username string, ok bool)

	// Authenticate binds username to the session. Must only be called
	// by the login handler after credential verification succeeds.
	Authenticate(username string)

	// Deauthenticate clears the identity. Idempotent.
	Deauthenticate()
}
