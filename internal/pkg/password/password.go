// Package password hashes passwords at rest with scrypt and encodes them in
// a PHC-style string carrying the scheme tag and cost parameters:
//
//	$scrypt$ln=15,r=8,p=1$<salt base64>$<key base64>
//
// Verification re-derives the key with the parameters embedded in the stored
// hash, so costs can be raised later without breaking existing records.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	// Default scrypt cost parameters: N=2^15 (32 MiB), r=8, p=1.
	defaultLogN = 15
	defaultR    = 8
	defaultP    = 1

	saltLen = 16
	keyLen  = 32

	// MaxLength bounds plaintext input. Overlong passwords are rejected at
	// hash time, never truncated, so hash and verify agree by construction.
	MaxLength = 512
)

var (
	ErrPasswordTooLong = errors.New("password exceeds maximum length")
	ErrEmptyPassword   = errors.New("password must not be empty")
)

// Hash derives a fresh salted scrypt key for plain and returns the encoded
// hash. Each call salts anew, so two hashes of the same password differ.
func Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	if len(plain) > MaxLength {
		return "", ErrPasswordTooLong
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key, err := scrypt.Key([]byte(plain), salt, 1<<defaultLogN, defaultR, defaultP, keyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}

	return fmt.Sprintf("$scrypt$ln=%d,r=%d,p=%d$%s$%s",
		defaultLogN, defaultR, defaultP,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// Verify reports whether plain matches the encoded stored hash. The compare
// is constant-time. A malformed or unrecognized stored hash is a verification
// failure, never an error: a corrupt record must read as a bad password, not
// crash a login.
func Verify(plain, encoded string) bool {
	if plain == "" || len(plain) > MaxLength {
		return false
	}

	logN, r, p, salt, want, ok := decode(encoded)
	if !ok {
		return false
	}

	got, err := scrypt.Key([]byte(plain), salt, 1<<logN, r, p, len(want))
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}

// decode parses the PHC-style encoding produced by Hash.
func decode(encoded string) (logN, r, p int, salt, key []byte, ok bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != "" || parts[1] != "scrypt" {
		return 0, 0, 0, nil, nil, false
	}

	if n, err := fmt.Sscanf(parts[2], "ln=%d,r=%d,p=%d", &logN, &r, &p); err != nil || n != 3 {
		return 0, 0, 0, nil, nil, false
	}
	// Bound the cost parameters so a tampered record cannot demand absurd
	// memory or loop forever.
	if logN < 10 || logN > 20 || r < 1 || r > 32 || p < 1 || p > 8 {
		return 0, 0, 0, nil, nil, false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil || len(salt) == 0 {
		return 0, 0, 0, nil, nil, false
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(key) == 0 {
		return 0, 0, 0, nil, nil, false
	}
	return logN, r, p, salt, key, true
}
