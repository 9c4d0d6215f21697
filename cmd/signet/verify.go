package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/signetlabs/signet/pkg/jwt"
)

var (
	verifySecret     string
	verifyAlgorithms []string
	verifyIssuer     []string
	verifySubject    string
	verifyAudience   []string
	verifyMaxAge     string
	verifyTolerance  time.Duration
)

var verifyCmd = &cobra.Command{
	Use:   "verify [token]",
	Short: "Verify a token's signature and claims",
	Long:  "Verifies the HMAC signature and the claim policy (expiry, not-before, and any pinned issuer, subject or audience). The secret comes from --secret or the SIGNET_SECRET environment variable.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifySecret, "secret", "", "HMAC secret (defaults to $SIGNET_SECRET)")
	verifyCmd.Flags().StringSliceVar(&verifyAlgorithms, "alg", nil, "Allowed algorithms (e.g. HS256,HS384); any supported algorithm if omitted")
	verifyCmd.Flags().StringSliceVar(&verifyIssuer, "iss", nil, "Accepted issuer values")
	verifyCmd.Flags().StringVar(&verifySubject, "sub", "", "Required subject")
	verifyCmd.Flags().StringSliceVar(&verifyAudience, "aud", nil, "Accepted audience values")
	verifyCmd.Flags().StringVar(&verifyMaxAge, "max-age", "", "Maximum token age from iat (e.g. 2h, 30m)")
	verifyCmd.Flags().DurationVar(&verifyTolerance, "tolerance", 0, "Clock tolerance for temporal checks")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	raw, err := readInput(args)
	if err != nil {
		return err
	}

	secret := verifySecret
	if secret == "" {
		secret = os.Getenv("SIGNET_SECRET")
	}
	if secret == "" {
		return fmt.Errorf("no secret provided (use --secret or set SIGNET_SECRET)")
	}

	algs := make([]jwt.Algorithm, 0, len(verifyAlgorithms))
	for _, a := range verifyAlgorithms {
		algs = append(algs, jwt.Algorithm(a))
	}

	claims, err := jwt.Verify(raw, []byte(secret), jwt.VerifyOptions{
		Algorithms:     algs,
		Issuer:         verifyIssuer,
		Subject:        verifySubject,
		Audience:       verifyAudience,
		MaxAge:         verifyMaxAge,
		ClockTolerance: verifyTolerance,
	})
	if err != nil {
		if jsonOutput {
			printJSON(map[string]any{
				"valid": false,
				"error": err.Error(),
			})
		} else {
			errorColor.Printf("✗ %s\n", verifyFailureReason(err))
			dimColor.Println(err.Error())
		}
		return fmt.Errorf("verification failed")
	}

	if jsonOutput {
		printJSON(map[string]any{
			"valid":  true,
			"claims": claimsMap(claims),
		})
		return nil
	}

	successColor.Println("✓ Signature and claims valid")

	printSection("Claims")
	printClaims(claimsMap(claims), 1)

	return nil
}

func verifyFailureReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrInvalidSignature):
		return "Signature does not match"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "Token has expired"
	case errors.Is(err, jwt.ErrTokenNotYetValid):
		return "Token is not valid yet"
	case errors.Is(err, jwt.ErrAlgorithmMismatch):
		return "Algorithm not in the allow-list"
	case errors.Is(err, jwt.ErrInvalidClaim):
		return "A claim failed the policy"
	default:
		return "Token is not valid"
	}
}
