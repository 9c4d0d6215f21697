package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signetlabs/signet/pkg/cryptox"
)

var secretBytes int

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Generate a random HMAC secret",
	Long:  "Generates a cryptographically random secret, base64url encoded, suitable for SIGNET_ACCESS_SECRET and SIGNET_REFRESH_SECRET. Generate a separate one for each.",
	Args:  cobra.NoArgs,
	RunE:  runSecret,
}

func init() {
	secretCmd.Flags().IntVar(&secretBytes, "bytes", 32, "Number of random bytes")
	rootCmd.AddCommand(secretCmd)
}

func runSecret(cmd *cobra.Command, args []string) error {
	if secretBytes < 16 {
		return fmt.Errorf("refusing to generate a secret shorter than 16 bytes")
	}

	secret, err := cryptox.GenerateSecret(secretBytes)
	if err != nil {
		return fmt.Errorf("generating secret: %w", err)
	}

	if jsonOutput {
		printJSON(map[string]any{"secret": secret})
		return nil
	}

	fmt.Println(secret)
	return nil
}
