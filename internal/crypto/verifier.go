package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Verifier parameters. Argon2id is used for the unlock check only; it is
// deliberately a different one-way transform than the PBKDF2 key derivation,
// with its own internal salt, so a leaked verifier hash gives no path to
// the encryption key.
const (
	argonMemory  = 64 * 1024 // KiB
	argonTime    = 3
	argonThreads = 1
	argonSaltLen = 16
	argonKeyLen  = 32
)

var ErrInvalidVerifier = errors.New("invalid verifier hash")

// HashPassword creates a salted Argon2id hash of the master password in a
// self-describing encoded form:
//
//	argon2id$m=<M>,t=<T>,p=<P>$<b64(salt)>$<b64(key)>
//
// The parameters travel with the hash, so they can be raised in future
// versions without breaking existing vaults.
func HashPassword(password []byte) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate verifier salt: %w", err)
	}

	key := argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("argon2id$m=%d,t=%d,p=%d$%s$%s",
		argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword checks a master password against an encoded verifier hash.
// The comparison is constant-time. A malformed hash yields ErrInvalidVerifier,
// which callers should treat as vault corruption rather than a wrong password.
func VerifyPassword(password []byte, encoded string) (bool, error) {
	const prefix = "argon2id$"
	if !strings.HasPrefix(encoded, prefix) {
		return false, ErrInvalidVerifier
	}
	parts := strings.Split(encoded[len(prefix):], "$")
	if len(parts) != 3 {
		return false, ErrInvalidVerifier
	}

	var m, t uint32
	var p uint8
	if _, err := fmt.Sscanf(parts[0], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return false, ErrInvalidVerifier
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false, ErrInvalidVerifier
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return false, ErrInvalidVerifier
	}

	got := argon2.IDKey(password, salt, t, m, p, uint32(len(want)))
	defer ClearBytes(got)

	return ConstantTimeCompare(got, want), nil
}
