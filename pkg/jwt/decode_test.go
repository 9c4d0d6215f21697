package jwt_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/signetlabs/signet/pkg/jwt"
	"github.com/stretchr/testify/require"
)

func TestDecodeSkipsVerification(t *testing.T) {
	// Expired long ago, and we don't hold the secret. Decode doesn't care.
	token, err := jwt.Sign(jwt.Claims{
		Subject: "ghost",
		Extra:   map[string]any{"userId": 7},
	}, []byte("somebody-elses-secret"), jwt.SignOptions{
		ExpiresIn:      "1h",
		ClockTimestamp: 1000000000,
	})
	require.NoError(t, err)

	decoded := jwt.Decode(token)
	require.NotNil(t, decoded)
	require.Equal(t, "ghost", decoded.Claims.Subject)
	require.EqualValues(t, 7, decoded.Claims.Extra["userId"])
	require.Equal(t, jwt.HS256, decoded.Header.Algorithm)
	require.Equal(t, strings.Split(token, ".")[2], decoded.Signature)
}

func TestDecodeUnsignedInput(t *testing.T) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"nobody"}`))

	decoded := jwt.Decode(header + "." + payload)
	require.NotNil(t, decoded)
	require.Equal(t, "nobody", decoded.Claims.Subject)
	require.Empty(t, decoded.Signature)
}

func TestDecodeReturnsNilOnGarbage(t *testing.T) {
	valid, err := jwt.Sign(jwt.Claims{}, []byte("k"), jwt.SignOptions{})
	require.NoError(t, err)
	parts := strings.Split(valid, ".")

	bad := base64.RawURLEncoding.EncodeToString([]byte("{broken"))
	for name, token := range map[string]string{
		"empty string":     "",
		"single segment":   "justonesegment",
		"four segments":    valid + ".tail",
		"header not b64":   "!!!." + parts[1] + "." + parts[2],
		"header not json":  bad + "." + parts[1] + "." + parts[2],
		"payload not json": parts[0] + "." + bad + "." + parts[2],
	} {
		t.Run(name, func(t *testing.T) {
			require.Nil(t, jwt.Decode(token))
		})
	}
}

func TestDecodeToleratesPadding(t *testing.T) {
	header := base64.URLEncoding.EncodeToString([]byte(`{"alg":"HS512","typ":"JWT"}`))
	payload := base64.URLEncoding.EncodeToString([]byte(`{"sub":"pad"}`))

	decoded := jwt.Decode(header + "." + payload)
	require.NotNil(t, decoded)
	require.Equal(t, jwt.HS512, decoded.Header.Algorithm)
	require.Equal(t, "pad", decoded.Claims.Subject)
}

func TestDecodeHeaderExtensions(t *testing.T) {
	token, err := jwt.Sign(jwt.Claims{}, []byte("k"), jwt.SignOptions{
		KeyID:  "key-7",
		Header: map[string]any{"cty": "JWT", "b64": true},
	})
	require.NoError(t, err)

	decoded := jwt.Decode(token)
	require.NotNil(t, decoded)
	require.Equal(t, "key-7", decoded.Header.KeyID)
	require.Equal(t, "JWT", decoded.Header.Extra["cty"])
	require.Equal(t, true, decoded.Header.Extra["b64"])
}
