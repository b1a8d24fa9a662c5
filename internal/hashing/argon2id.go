// Package hashing implements the credential hasher on Argon2id.
//
// Digests are encoded in the standard modular crypt form
// ($argon2id$v=...$m=...,t=...,p=...$salt$key) so the parameters a
// digest was produced with travel with it.
package hashing

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const saltLength = 16

// Params tunes the Argon2id cost. The defaults exceed the OWASP
// minimum (m>=19 MiB, t>=2, p>=1).
type Params struct {
	Memory    uint32 // KiB
	Time      uint32 // iterations
	Threads   uint8
	KeyLength uint32
}

// DefaultParams is the production cost setting: 64 MiB, 3 iterations,
// 2 lanes, 32-byte key.
func DefaultParams() Params {
	return Params{
		Memory:    64 * 1024,
		Time:      3,
		Threads:   2,
		KeyLength: 32,
	}
}

// Hasher derives and verifies Argon2id password digests. Safe for
// concurrent use.
type Hasher struct {
	params Params

	// Fixed credential pair used to equalize login timing when the
	// target account does not exist. Computed once at construction.
	dummySalt   []byte
	dummyDigest string
}

// New returns a Hasher with the given cost parameters.
func New(params Params) *Hasher {
	h := &Hasher{params: params}

	// The dummy pair never matches a real password: the digest is
	// derived from a fixed sentinel, and VerifyDummy discards the
	// comparison result anyway.
	h.dummySalt = make([]byte, saltLength)
	h.dummyDigest = h.Hash("timing-equalization-dummy", h.dummySalt)
	return h
}

// Hash derives the encoded digest for (password, salt). Deterministic
// for a fixed pair.
func (h *Hasher) Hash(password string, salt []byte) string {
	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLength)
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

// NewCredential generates a fresh 16-byte salt from the CSPRNG and
// returns it with the digest of password under that salt.
func (h *Hasher) NewCredential(password string) ([]byte, string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, "", fmt.Errorf("generate salt: %w", err)
	}
	return salt, h.Hash(password, salt), nil
}

// Verify recomputes the digest for (password, salt) and compares it to
// expected in constant time.
func (h *Hasher) Verify(password string, salt []byte, expected string) bool {
	digest := h.Hash(password, salt)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(expected)) == 1
}

// VerifyDummy performs a full verification against the fixed dummy
// pair and always reports false. The computation must not be skipped:
// it exists so that a login for a nonexistent username costs the same
// as one for an existing username with a wrong password.
func (h *Hasher) VerifyDummy(password string) bool {
	h.Verify(password, h.dummySalt, h.dummyDigest)
	return false
}
