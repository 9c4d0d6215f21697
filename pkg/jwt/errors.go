package jwt

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrMissingSecret        = errors.New("jwt: secret must not be empty")
	ErrUnsupportedAlgorithm = errors.New("jwt: unsupported algorithm")
	ErrAlgorithmMismatch    = errors.New("jwt: algorithm not allowed by verifier")
	ErrMalformed            = errors.New("jwt: malformed token")
	ErrInvalidSignature     = errors.New("jwt: invalid signature")

	ErrTokenExpired     = errors.New("jwt: token expired")
	ErrTokenNotYetValid = errors.New("jwt: token not yet valid")
	ErrInvalidClaim     = errors.New("jwt: invalid claim")
)

// ExpiredError reports when the token stopped being valid, either from its
// exp claim or from the verifier's MaxAge window. Unwraps to ErrTokenExpired.
type ExpiredError struct {
	ExpiredAt time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("jwt: token expired at %s", e.ExpiredAt.UTC().Format(time.RFC3339))
}

func (e *ExpiredError) Unwrap() error { return ErrTokenExpired }

// NotYetValidError reports when the token becomes usable (its nbf claim).
// Unwraps to ErrTokenNotYetValid.
type NotYetValidError struct {
	ValidAt time.Time
}

func (e *NotYetValidError) Error() string {
	return fmt.Sprintf("jwt: token not valid before %s", e.ValidAt.UTC().Format(time.RFC3339))
}

func (e *NotYetValidError) Unwrap() error { return ErrTokenNotYetValid }

// ClaimError names the claim that failed an assertion: a mismatched iss/sub/aud,
// or a reserved temporal claim carrying a non-numeric value. Unwraps to
// ErrInvalidClaim.
type ClaimError struct {
	Claim string
}

func (e *ClaimError) Error() string {
	return fmt.Sprintf("jwt: invalid %q claim", e.Claim)
}

func (e *ClaimError) Unwrap() error { return ErrInvalidClaim }
