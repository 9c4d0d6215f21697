package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signetlabs/signet/pkg/jwt"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [token]",
	Short: "Decode a token without verifying it",
	Long:  "Decodes a compact token and prints its header and claims. No signature or claim checks are performed; use 'verify' for that. Input can be a file path, the raw token, or piped via stdin.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	raw, err := readInput(args)
	if err != nil {
		return err
	}

	token := jwt.Decode(raw)
	if token == nil {
		return fmt.Errorf("not a decodable token (want two or three base64url segments separated by dots)")
	}

	if jsonOutput {
		printJSON(map[string]any{
			"header":  headerMap(token.Header),
			"claims":  claimsMap(token.Claims),
			"signed":  token.Signature != "",
			"warning": "decoded without verification",
		})
		return nil
	}

	headerColor.Println("Token (not verified)")

	printSection("Header")
	printClaims(headerMap(token.Header), 1)

	printSection("Claims")
	printClaims(claimsMap(token.Claims), 1)

	printSection("Signature")
	if token.Signature == "" {
		printKV("present", "no", 1)
	} else {
		printKV("present", "yes", 1)
		dimColor.Println("  run 'signet verify' with the secret to check it")
	}

	return nil
}
