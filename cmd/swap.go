package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"token-swap/pkg/parser"
	"token-swap/pkg/swap"
)

var noConfirm bool

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <source-token> to <dest-token>",
	Short: "Perform a simulated token swap",
	Long: `Quote and submit a swap at current prices. Execution is simulated: it waits
for TOKEN_SWAP_EXECUTION_DELAY and succeeds with probability
TOKEN_SWAP_SUCCESS_RATE. A failed swap can be retried from the prompt.

Examples:
  token-swap swap 1 ETH to USDC
  token-swap swap 0.5 bNEO to ATOM --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runSwap(cmd *cobra.Command, args []string) {
	// Parse the command
	swapReq, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	a, err := newApp(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.close()

	c, err := a.loadCatalog(cmd.Context())
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	from, to, err := resolvePair(c, swapReq)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	display := quoteDisplay(swapReq.Amount, from, to)
	if !a.json {
		displayQuote(display)
	}

	// Ask for confirmation
	if !noConfirm && !a.json {
		if !confirm("Proceed with swap?") {
			fmt.Println("\nSwap cancelled.")
			return
		}
	}

	sim := swap.NewSimulator(a.cfg.Simulator.SuccessRate, a.cfg.Simulator.Delay)
	sub := swap.NewSubmission(sim, a.log.Named("swap"))

	for {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		if !a.json {
			s.Suffix = " Submitting swap..."
			s.Start()
		}

		out := sub.Submit(cmd.Context(), from, to, swapReq.Amount)
		if !a.json {
			s.Stop()
		}

		if !out.Accepted {
			printError(fmt.Errorf("swap not submitted: %s", out.Reason))
			os.Exit(1)
		}

		if a.json {
			printSwapJSON(out.State)
			if out.State.Phase != swap.Succeeded {
				os.Exit(1)
			}
			return
		}

		if out.State.Phase == swap.Succeeded {
			color.Green("\n✓ %s", out.State.Message)
			if r := out.State.Receipt; r != nil {
				fmt.Printf("  Receipt:        %s\n", color.CyanString(r.ID))
				fmt.Printf("  Transaction:    %s\n", color.CyanString(r.TxHash))
				if a.verbose {
					fmt.Printf("  Executed At:    %s\n", r.ExecutedAt.Format(time.RFC3339))
				}
			}
			fmt.Println()
			return
		}

		color.Red("\n✗ Swap failed: %s", out.State.Message)
		if noConfirm || !confirm("Retry swap?") {
			os.Exit(1)
		}
		sub.Reset()
	}
}

func printSwapJSON(st swap.State) {
	output := map[string]interface{}{
		"status":  st.Phase.String(),
		"message": st.Message,
		"attempt": st.Attempt,
	}
	if st.Receipt != nil {
		output["receipt"] = st.Receipt
	}
	jsonData, _ := json.MarshalIndent(output, "", "  ")
	fmt.Println(string(jsonData))
}

func confirm(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("\n%s (y/N): ", question)

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
