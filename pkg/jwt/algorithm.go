// Package jwt implements compact JWS tokens (header.payload.signature)
// signed with the HMAC-SHA2 family. Signing and verification always operate
// on the literal encoded segments, so a token verifies byte-for-byte as it
// was minted regardless of JSON key order.
package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"
	"hash"
)

// Algorithm names a supported JWS signing algorithm.
type Algorithm string

const (
	HS256 Algorithm = "HS256"
	HS384 Algorithm = "HS384"
	HS512 Algorithm = "HS512"
)

// Supported reports whether the algorithm is one this engine can sign
// and verify. Unknown names, "none" included, are not.
func (a Algorithm) Supported() bool {
	return a.hashFunc() != nil
}

func (a Algorithm) hashFunc() func() hash.Hash {
	switch a {
	case HS256:
		return sha256.New
	case HS384:
		return sha512.New384
	case HS512:
		return sha512.New
	default:
		return nil
	}
}

// SignBytes computes the raw MAC over signingInput with the given algorithm
// and secret. This is the primitive Sign and Verify share.
func SignBytes(alg Algorithm, secret, signingInput []byte) ([]byte, error) {
	newHash := alg.hashFunc()
	if newHash == nil {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedAlgorithm, string(alg))
	}
	mac := hmac.New(newHash, secret)
	mac.Write(signingInput)
	return mac.Sum(nil), nil
}

// ConstantTimeEqual compares two MACs without leaking where they diverge.
// On a length mismatch it still burns a fixed-cost comparison before
// returning false, so the answer takes the same time either way.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		subtle.ConstantTimeCompare(a, a)
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
