package jwt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/signetlabs/signet/pkg/timespan"
)

// SignOptions shape the minted token. Registered claims set here overlay
// whatever the caller put in the Claims argument.
type SignOptions struct {
	// Algorithm selects the MAC. Empty means HS256.
	Algorithm Algorithm

	// ExpiresIn and NotBefore are lifetime specs (timespan grammar),
	// relative to now. Empty means the claim is not injected.
	ExpiresIn string
	NotBefore string

	Issuer   string
	Subject  string
	Audience Audience
	JWTID    string

	// KeyID sets the kid header; Header adds arbitrary extension fields.
	KeyID  string
	Header map[string]any

	// NoTimestamp suppresses the automatic iat claim.
	NoTimestamp bool

	// ClockTimestamp pins "now" to an epoch second for deterministic
	// output. Zero means the wall clock.
	ClockTimestamp int64
}

func (o SignOptions) now() int64 {
	if o.ClockTimestamp != 0 {
		return o.ClockTimestamp
	}
	return time.Now().Unix()
}

// Sign serializes the claims and returns the three-segment compact token.
// The caller's Claims value is never mutated.
func Sign(claims Claims, secret []byte, opts SignOptions) (string, error) {
	alg := opts.Algorithm
	if alg == "" {
		alg = HS256
	}
	if !alg.Supported() {
		return "", fmt.Errorf("%w %q", ErrUnsupportedAlgorithm, string(alg))
	}
	if emptySecret(secret) {
		return "", ErrMissingSecret
	}

	now := opts.now()

	// Work on a copy. Extra is shared but only ever read.
	c := claims
	if opts.Issuer != "" {
		c.Issuer = opts.Issuer
	}
	if opts.Subject != "" {
		c.Subject = opts.Subject
	}
	if len(opts.Audience) > 0 {
		c.Audience = opts.Audience
	}
	if opts.JWTID != "" {
		c.ID = opts.JWTID
	}
	if !opts.NoTimestamp && c.IssuedAt == nil && !c.hasRaw("iat") {
		iat := NumericDate(now)
		c.IssuedAt = &iat
	}
	if opts.ExpiresIn != "" {
		secs, err := timespan.Parse(opts.ExpiresIn)
		if err != nil {
			return "", fmt.Errorf("jwt: expiresIn: %w", err)
		}
		exp := NumericDate(now + secs)
		c.ExpiresAt = &exp
	}
	if opts.NotBefore != "" {
		secs, err := timespan.Parse(opts.NotBefore)
		if err != nil {
			return "", fmt.Errorf("jwt: notBefore: %w", err)
		}
		nbf := NumericDate(now + secs)
		c.NotBefore = &nbf
	}

	header := Header{Algorithm: alg, Type: "JWT", KeyID: opts.KeyID, Extra: opts.Header}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("jwt: marshal header: %w", err)
	}
	payloadJSON, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("jwt: marshal claims: %w", err)
	}

	signingInput := encodeSegment(headerJSON) + "." + encodeSegment(payloadJSON)
	mac, err := SignBytes(alg, secret, []byte(signingInput))
	if err != nil {
		return "", err
	}
	return signingInput + "." + encodeSegment(mac), nil
}

func emptySecret(secret []byte) bool {
	return strings.TrimSpace(string(secret)) == ""
}
