package jwt

import (
	"encoding/json"
	"strings"
)

// Token is the decoded-but-unverified view of a compact token. Signature
// holds the raw third segment still encoded, empty for unsigned input.
type Token struct {
	Header    Header
	Claims    Claims
	Signature string
}

// Decode parses without verifying anything: no signature check, no claim
// policy. It exists for inspecting untrusted tokens, so instead of an error
// it returns nil for anything that doesn't parse. Two segments (unsigned)
// or three are accepted.
func Decode(token string) *Token {
	parts := strings.Split(token, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return nil
	}

	headerJSON, err := decodeSegment(parts[0])
	if err != nil {
		return nil
	}
	payloadJSON, err := decodeSegment(parts[1])
	if err != nil {
		return nil
	}

	var t Token
	if err := json.Unmarshal(headerJSON, &t.Header); err != nil {
		return nil
	}
	if err := json.Unmarshal(payloadJSON, &t.Claims); err != nil {
		return nil
	}
	if len(parts) == 3 {
		t.Signature = parts[2]
	}
	return &t
}
