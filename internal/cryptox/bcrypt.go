package cryptox

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes with bcrypt; the salt and cost live in the digest.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher falls back to bcrypt.DefaultCost when cost is out of range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (b *BcryptHasher) Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify uses bcrypt's constant-time comparison.
func (b *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
