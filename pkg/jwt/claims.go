package jwt

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// NumericDate is a JSON numeric date: whole seconds since the Unix epoch.
// Fractional values are floored on the way in, matching how the reserved
// temporal claims are compared.
type NumericDate int64

// NewNumericDate converts a time.Time, dropping sub-second precision.
func NewNumericDate(t time.Time) *NumericDate {
	n := NumericDate(t.Unix())
	return &n
}

// Time converts back to a time.Time in UTC.
func (n NumericDate) Time() time.Time { return time.Unix(int64(n), 0).UTC() }

// Unix returns the raw epoch seconds.
func (n NumericDate) Unix() int64 { return int64(n) }

func (n *NumericDate) UnmarshalJSON(data []byte) error {
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("jwt: numeric date: %w", err)
	}
	*n = NumericDate(int64(math.Floor(f)))
	return nil
}

// Audience holds the aud claim. The wire form is a plain string when there
// is a single value and an array otherwise, so both directions accept both.
type Audience []string

func (a Audience) MarshalJSON() ([]byte, error) {
	if len(a) == 1 {
		return json.Marshal(a[0])
	}
	return json.Marshal([]string(a))
}

func (a *Audience) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*a = Audience{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*a = Audience(many)
		return nil
	}
	return fmt.Errorf("jwt: aud must be a string or an array of strings")
}

// Claims is a token payload: the reserved claims as typed fields plus Extra
// for everything else. The two views marshal into a single JSON object, with
// the typed fields winning on key collisions.
//
// Unmarshaling only lifts a reserved claim into its typed field when the
// value has its registered shape. A payload carrying, say, a string nbf keeps
// that value in Extra, where verification will find it and reject the claim
// instead of silently dropping it.
type Claims struct {
	Issuer    string
	Subject   string
	Audience  Audience
	ExpiresAt *NumericDate
	NotBefore *NumericDate
	IssuedAt  *NumericDate
	ID        string

	Extra map[string]any
}

func (c Claims) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(c.Extra)+7)
	for k, v := range c.Extra {
		m[k] = v
	}
	if c.Issuer != "" {
		m["iss"] = c.Issuer
	}
	if c.Subject != "" {
		m["sub"] = c.Subject
	}
	if len(c.Audience) > 0 {
		m["aud"] = c.Audience
	}
	if c.ExpiresAt != nil {
		m["exp"] = int64(*c.ExpiresAt)
	}
	if c.NotBefore != nil {
		m["nbf"] = int64(*c.NotBefore)
	}
	if c.IssuedAt != nil {
		m["iat"] = int64(*c.IssuedAt)
	}
	if c.ID != "" {
		m["jti"] = c.ID
	}
	return json.Marshal(m)
}

func (c *Claims) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	if s, ok := m["iss"].(string); ok {
		c.Issuer = s
		delete(m, "iss")
	}
	if s, ok := m["sub"].(string); ok {
		c.Subject = s
		delete(m, "sub")
	}
	if v, ok := m["aud"]; ok {
		if aud, ok := toAudience(v); ok {
			c.Audience = aud
			delete(m, "aud")
		}
	}
	if n, ok := toNumericDate(m["exp"]); ok {
		c.ExpiresAt = n
		delete(m, "exp")
	}
	if n, ok := toNumericDate(m["nbf"]); ok {
		c.NotBefore = n
		delete(m, "nbf")
	}
	if n, ok := toNumericDate(m["iat"]); ok {
		c.IssuedAt = n
		delete(m, "iat")
	}
	if s, ok := m["jti"].(string); ok {
		c.ID = s
		delete(m, "jti")
	}
	if len(m) > 0 {
		c.Extra = m
	}
	return nil
}

// hasRaw reports whether a claim is sitting in Extra, meaning it was present
// on the wire but didn't have its registered shape.
func (c *Claims) hasRaw(name string) bool {
	_, ok := c.Extra[name]
	return ok
}

func toNumericDate(v any) (*NumericDate, bool) {
	f, ok := v.(float64)
	if !ok {
		return nil, false
	}
	n := NumericDate(int64(math.Floor(f)))
	return &n, true
}

func toAudience(v any) (Audience, bool) {
	switch vv := v.(type) {
	case string:
		return Audience{vv}, true
	case []any:
		out := make(Audience, 0, len(vv))
		for _, e := range vv {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
