package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt cost parameters, sized for interactive logins. Verification always
// re-derives with these, so changing them only affects newly minted hashes.
const (
	scryptN = 32768
	scryptR = 8
	scryptP = 1

	saltLength = 16 // 128-bit salt, fresh per hash
	keyLength  = 64
)

// ErrHashingFailure wraps a key-derivation failure. Treat it as fatal for
// the request; it is not a "wrong password".
var ErrHashingFailure = errors.New("cryptox: password hashing failed")

// HashPassword derives an scrypt key under a fresh random salt and encodes
// the pair as "hex(salt):hex(key)" for storage.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashingFailure, err)
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashingFailure, err)
	}

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword re-derives the key with the stored salt and compares in
// constant time. The stored value is untrusted input: a missing separator,
// bad hex or a key of the wrong length is simply false, never an error.
func VerifyPassword(password, stored string) bool {
	saltHex, keyHex, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(keyHex)
	if err != nil {
		return false
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return false
	}
	if len(expected) != len(key) {
		return false
	}
	return subtle.ConstantTimeCompare(key, expected) == 1
}
