package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/signetlabs/signet/pkg/jwt"
)

func TestParseClaimFlags(t *testing.T) {
	claims, err := parseClaimFlags([]string{
		"username=alice",
		"userId=123",
		"admin=true",
		"scores=[1,2,3]",
		"note=just a string",
	})
	require.NoError(t, err)

	// JSON values keep their type, everything else stays a string.
	require.Equal(t, "alice", claims["username"])
	require.Equal(t, float64(123), claims["userId"])
	require.Equal(t, true, claims["admin"])
	require.Equal(t, []any{float64(1), float64(2), float64(3)}, claims["scores"])
	require.Equal(t, "just a string", claims["note"])
}

func TestParseClaimFlagsRejectsMalformed(t *testing.T) {
	_, err := parseClaimFlags([]string{"no-equals-sign"})
	require.ErrorContains(t, err, "want key=value")

	_, err = parseClaimFlags([]string{"=value"})
	require.ErrorContains(t, err, "want key=value")
}

func TestParseClaimFlagsEmpty(t *testing.T) {
	claims, err := parseClaimFlags(nil)
	require.NoError(t, err)
	require.Nil(t, claims)
}

func TestVerifyFailureReason(t *testing.T) {
	require.Equal(t, "Token has expired", verifyFailureReason(&jwt.ExpiredError{}))
	require.Equal(t, "Signature does not match", verifyFailureReason(jwt.ErrInvalidSignature))
	require.Equal(t, "Algorithm not in the allow-list", verifyFailureReason(jwt.ErrAlgorithmMismatch))
	require.Equal(t, "A claim failed the policy", verifyFailureReason(&jwt.ClaimError{Claim: "iss"}))
	require.Equal(t, "Token is not valid", verifyFailureReason(jwt.ErrMalformed))
}
