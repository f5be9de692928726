// Package cryptox holds the credential hashers and the one-time code
// generator used by account registration.
//
// Digests are self-describing strings with the salt embedded, so a digest
// produced by any hasher here can be verified later without extra state.
package cryptox

import (
	"fmt"
	"strings"
)

// Hasher is a one-way, salted password hash.
type Hasher interface {
	// Hash returns a digest embedding a fresh random salt.
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. It never panics on
	// malformed digests; they simply do not match.
	Verify(plaintext, digest string) bool
}

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// NewHasher returns a MultiHasher that hashes with the named algorithm and
// verifies digests of every supported algorithm.
func NewHasher(algorithm string, bcryptCost int) (*MultiHasher, error) {
	b := NewBcryptHasher(bcryptCost)
	a := NewArgon2Hasher()

	var primary Hasher
	switch strings.ToLower(algorithm) {
	case "", AlgorithmBcrypt:
		primary = b
	case AlgorithmArgon2id:
		primary = a
	default:
		return nil, fmt.Errorf("unknown password hash algorithm %q", algorithm)
	}

	return &MultiHasher{primary: primary, bcrypt: b, argon2: a}, nil
}

// MultiHasher lets the configured algorithm change without invalidating
// digests stored by the previous one.
type MultiHasher struct {
	primary Hasher
	bcrypt  *BcryptHasher
	argon2  *Argon2Hasher
}

func (m *MultiHasher) Hash(plaintext string) (string, error) {
	return m.primary.Hash(plaintext)
}

func (m *MultiHasher) Verify(plaintext, digest string) bool {
	switch {
	case strings.HasPrefix(digest, argon2Prefix):
		return m.argon2.Verify(plaintext, digest)
	case strings.HasPrefix(digest, "$2"):
		return m.bcrypt.Verify(plaintext, digest)
	default:
		return false
	}
}
