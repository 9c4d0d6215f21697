package jwt

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/signetlabs/signet/pkg/timespan"
)

// VerifyOptions name what a verifier demands of a token. Everything is
// opt-in; the zero value checks only the signature and the temporal claims
// the token itself carries.
type VerifyOptions struct {
	// Algorithms is the allow-list. Empty accepts any supported algorithm,
	// which is fine for single-tenant secrets but callers holding secrets
	// for several algorithms should always pin this.
	Algorithms []Algorithm

	// Issuer lists accepted iss values (any match passes). Subject must
	// match sub exactly. Audience passes when it shares at least one value
	// with the token's aud.
	Issuer   []string
	Subject  string
	Audience []string

	// MaxAge bounds token age from iat (timespan grammar), independent of
	// exp. Tokens without a numeric iat fail the check outright.
	MaxAge string

	// ClockTolerance absorbs clock skew on every temporal check. Only whole
	// seconds are meaningful.
	ClockTolerance time.Duration

	// ClockTimestamp pins "now" to an epoch second. Zero means wall clock.
	ClockTimestamp int64
}

func (o VerifyOptions) now() int64 {
	if o.ClockTimestamp != 0 {
		return o.ClockTimestamp
	}
	return time.Now().Unix()
}

// Verify checks the signature and the claim policy, returning the decoded
// claims on success. The MAC is recomputed over the literal first two
// segments as they arrived; the payload is never re-serialized.
func Verify(token string, secret []byte, opts VerifyOptions) (Claims, error) {
	if emptySecret(secret) {
		return Claims{}, ErrMissingSecret
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Claims{}, ErrMalformed
	}

	headerJSON, err := decodeSegment(parts[0])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: header segment: %v", ErrMalformed, err)
	}
	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return Claims{}, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}
	if !header.Algorithm.Supported() {
		return Claims{}, fmt.Errorf("%w %q", ErrUnsupportedAlgorithm, string(header.Algorithm))
	}
	if len(opts.Algorithms) > 0 && !slices.Contains(opts.Algorithms, header.Algorithm) {
		return Claims{}, fmt.Errorf("%w: token uses %s", ErrAlgorithmMismatch, header.Algorithm)
	}

	sig, err := decodeSegment(parts[2])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: signature segment: %v", ErrMalformed, err)
	}
	mac, err := SignBytes(header.Algorithm, secret, []byte(parts[0]+"."+parts[1]))
	if err != nil {
		return Claims{}, err
	}
	if !ConstantTimeEqual(mac, sig) {
		return Claims{}, ErrInvalidSignature
	}

	payloadJSON, err := decodeSegment(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: payload segment: %v", ErrMalformed, err)
	}
	var claims Claims
	if err := json.Unmarshal(payloadJSON, &claims); err != nil {
		return Claims{}, fmt.Errorf("%w: payload: %v", ErrMalformed, err)
	}

	if err := checkTemporal(&claims, opts); err != nil {
		return Claims{}, err
	}
	if err := checkAssertions(&claims, opts); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

func checkTemporal(c *Claims, opts VerifyOptions) error {
	now := opts.now()
	tolerance := int64(opts.ClockTolerance / time.Second)

	// nbf: inclusive boundary, a token becomes valid the second it names.
	if c.NotBefore == nil && c.hasRaw("nbf") {
		return &ClaimError{Claim: "nbf"}
	}
	if c.NotBefore != nil && now+tolerance < c.NotBefore.Unix() {
		return &NotYetValidError{ValidAt: c.NotBefore.Time()}
	}

	// exp: exclusive boundary, a token dies the second it names.
	if c.ExpiresAt == nil && c.hasRaw("exp") {
		return &ClaimError{Claim: "exp"}
	}
	if c.ExpiresAt != nil && now-tolerance >= c.ExpiresAt.Unix() {
		return &ExpiredError{ExpiredAt: c.ExpiresAt.Time()}
	}

	if opts.MaxAge != "" {
		maxAge, err := timespan.Parse(opts.MaxAge)
		if err != nil {
			return fmt.Errorf("jwt: maxAge: %w", err)
		}
		if c.IssuedAt == nil {
			return &ClaimError{Claim: "iat"}
		}
		if now-c.IssuedAt.Unix() > maxAge+tolerance {
			return &ExpiredError{ExpiredAt: time.Unix(c.IssuedAt.Unix()+maxAge, 0).UTC()}
		}
	}
	return nil
}

func checkAssertions(c *Claims, opts VerifyOptions) error {
	if len(opts.Issuer) > 0 && !slices.Contains(opts.Issuer, c.Issuer) {
		return &ClaimError{Claim: "iss"}
	}
	if opts.Subject != "" && c.Subject != opts.Subject {
		return &ClaimError{Claim: "sub"}
	}
	if len(opts.Audience) > 0 {
		match := false
		for _, want := range opts.Audience {
			if slices.Contains(c.Audience, want) {
				match = true
				break
			}
		}
		if !match {
			return &ClaimError{Claim: "aud"}
		}
	}
	return nil
}
