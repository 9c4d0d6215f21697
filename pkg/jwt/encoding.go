package jwt

import (
	"encoding/base64"
	"strings"
)

// Segments are base64url without padding (RFC 7515 section 2). Decoding also
// tolerates padded input from sloppy producers by stripping trailing '='
// before the strict decode; anything else non-canonical is rejected.

func encodeSegment(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeSegment(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}
