package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const argon2Prefix = "$argon2id$"

var errMalformedDigest = errors.New("malformed argon2id digest")

// Argon2Hasher produces PHC-formatted argon2id digests:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
type Argon2Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

// NewArgon2Hasher uses the same parameters the vault key derivation used:
// one pass over 64 MiB with four lanes.
func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{time: 1, memory: 64 * 1024, threads: 4, keyLen: 32, saltLen: 16}
}

func (a *Argon2Hasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, a.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(plaintext), salt, a.time, a.memory, a.threads, a.keyLen)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix, argon2.Version, a.memory, a.time, a.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (a *Argon2Hasher) Verify(plaintext, digest string) bool {
	p, salt, key, err := decodeArgon2(digest)
	if err != nil {
		return false
	}
	candidate := argon2.IDKey([]byte(plaintext), salt, p.time, p.memory, p.threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1
}

func decodeArgon2(digest string) (*Argon2Hasher, []byte, []byte, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, nil, nil, errMalformedDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, nil, errMalformedDigest
	}

	p := &Argon2Hasher{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return nil, nil, nil, errMalformedDigest
	}
	if p.time == 0 || p.threads == 0 {
		return nil, nil, nil, errMalformedDigest
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, errMalformedDigest
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return nil, nil, nil, errMalformedDigest
	}

	return p, salt, key, nil
}
