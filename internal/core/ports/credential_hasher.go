package ports

// CredentialHasher defines salted one-way hashing and constant-effort
// verification of passwords. Implementations must be safe for
// concurrent use.
type CredentialHasher interface {
	// Hash derives a digest for (password, salt). Deterministic for a
	// fixed pair.
	Hash(password string, salt []byte) string

	// NewCredential generates a fresh cryptographically random 16-byte
	// salt and returns it with the digest of password under that salt.
	NewCredential(password string) (salt []byte, digest string, err error)

	// Verify recomputes the digest for (password, salt) and compares
	// it to expected in constant time.
	Verify(password string, salt []byte, expected string) bool

	// VerifyDummy burns one full hash computation against a fixed
	// salt/digest pair. Called when a login targets a nonexistent
	// username so that response latency does not reveal whether an
	// account exists. The result is always false.
	VerifyDummy(password string) bool
}
