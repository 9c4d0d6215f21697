package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signetlabs/signet/pkg/cryptox"
)

var hashVerifyAgainst string

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Hash a password with scrypt",
	Long:  "Produces a salted scrypt hash in the salt:hash format the signet service stores. With --verify, checks the password against an existing hash instead. The password can be piped via stdin.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHashPassword,
}

func init() {
	hashPasswordCmd.Flags().StringVar(&hashVerifyAgainst, "verify", "", "Verify the password against this stored hash instead of hashing")
	rootCmd.AddCommand(hashPasswordCmd)
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	password, err := readInput(args)
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("empty password")
	}

	if hashVerifyAgainst != "" {
		ok := cryptox.VerifyPassword(password, hashVerifyAgainst)
		if jsonOutput {
			printJSON(map[string]any{"match": ok})
		} else if ok {
			successColor.Println("✓ Password matches")
		} else {
			errorColor.Println("✗ Password does not match")
		}
		if !ok {
			return fmt.Errorf("verification failed")
		}
		return nil
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if jsonOutput {
		printJSON(map[string]any{"hash": hash})
		return nil
	}

	fmt.Println(hash)
	return nil
}
