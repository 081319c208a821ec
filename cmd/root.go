package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "token-swap",
	Short: "A CLI for quoting and simulating currency swaps",
	Long: `token-swap is a command-line tool that quotes conversions between tokens
using a live price list and submits simulated swaps. Prices come from an HTTP
price feed, a local snapshot file, or the NEAR Intents 1Click token list.

Examples:
  token-swap list-tokens --symbol usd
  token-swap quote 2 ETH to USDC
  token-swap swap 1.5 ATOM to OSMO
  token-swap form`,
	Version: "0.1.0",
}

// Execute runs the root command; Ctrl-C cancels in-flight fetches and swaps
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}
