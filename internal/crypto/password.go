package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for password digests
const (
	// Argon2Time - number of iterations (time cost)
	Argon2Time = 1
	// Argon2Memory - memory in KB (64MB = 64*1024 KB)
	Argon2Memory = 64 * 1024
	// Argon2Threads - number of parallel threads
	Argon2Threads = 4
	// Argon2KeyLen - output key length in bytes
	Argon2KeyLen = 32
	// SaltSize - salt size in bytes
	SaltSize = 16
)

var (
	// ErrInvalidHash indicates that the encoded digest is not in the
	// expected $argon2id$... format
	ErrInvalidHash = errors.New("invalid password hash format")

	// ErrIncompatibleVersion indicates an argon2 version mismatch
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
)

// PasswordHasher computes and verifies one-way Argon2id password digests.
// The encoded form is the standard PHC string:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<base64 salt>$<base64 hash>
type PasswordHasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
}

// NewPasswordHasher creates a hasher with the default parameters.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{
		time:    Argon2Time,
		memory:  Argon2Memory,
		threads: Argon2Threads,
		keyLen:  Argon2KeyLen,
	}
}

// Hash computes the Argon2id digest of password with a fresh random salt.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, h.keyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

// Verify reports whether password matches the encoded digest.
// The digest's own parameters are used, so digests created with older
// parameter sets keep verifying after a parameter change.
func (h *PasswordHasher) Verify(password, encoded string) (bool, error) {
	timeCost, memory, threads, salt, key, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(password), salt, timeCost, memory, threads, uint32(len(key)))

	return subtle.ConstantTimeCompare(computed, key) == 1, nil
}

// decodeHash parses a PHC-formatted argon2id string into its components.
func decodeHash(encoded string) (timeCost, memory uint32, threads uint8, salt, key []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}
	if version != argon2.Version {
		return 0, 0, 0, nil, nil, ErrIncompatibleVersion
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &timeCost, &threads); err != nil {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}

	salt, err = base64.RawStdEncoding.Strict().DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}

	key, err = base64.RawStdEncoding.Strict().DecodeString(parts[5])
	if err != nil {
		return 0, 0, 0, nil, nil, ErrInvalidHash
	}

	return timeCost, memory, threads, salt, key, nil
}
