package jwt

import "encoding/json"

// Header is the JOSE header. Extension fields a producer added beyond
// alg/typ/kid survive in Extra so they round-trip through Decode.
type Header struct {
	Algorithm Algorithm
	Type      string
	KeyID     string

	Extra map[string]any
}

func (h Header) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(h.Extra)+3)
	for k, v := range h.Extra {
		m[k] = v
	}
	m["alg"] = string(h.Algorithm)
	m["typ"] = h.Type
	if h.KeyID != "" {
		m["kid"] = h.KeyID
	}
	return json.Marshal(m)
}

func (h *Header) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if s, ok := m["alg"].(string); ok {
		h.Algorithm = Algorithm(s)
		delete(m, "alg")
	}
	if s, ok := m["typ"].(string); ok {
		h.Type = s
		delete(m, "typ")
	}
	if s, ok := m["kid"].(string); ok {
		h.KeyID = s
		delete(m, "kid")
	}
	if len(m) > 0 {
		h.Extra = m
	}
	return nil
}
