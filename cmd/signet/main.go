// signet is the companion CLI for the signet service: decode and verify
// tokens while debugging, mint test tokens, prepare password hashes and
// secrets for deployment.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "signet",
	Short: "Decode, verify and mint HMAC-signed tokens",
	Long:  "A local-first CLI for working with the tokens the signet service issues: decode them without verification, verify signatures and claims, mint test tokens, and generate password hashes and secrets.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
