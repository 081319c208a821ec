package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"token-swap/pkg/catalog"
	"token-swap/pkg/parser"
	"token-swap/pkg/quote"
	"token-swap/pkg/types"
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <source-token> to <dest-token>",
	Short: "Quote a conversion without swapping",
	Long: `Quote how much of the destination token an amount of the source token buys
at current prices. Tokens without a price quote at a rate of 0.

Examples:
  token-swap quote 2 ETH to USDC
  token-swap quote .5 bNEO to ATOM --json`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) {
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
	if a.json {
		jsonData, _ := json.MarshalIndent(display, "", "  ")
		fmt.Println(string(jsonData))
		return
	}
	displayQuote(display)
}

// resolvePair looks up both tokens of a parsed request in the catalog
func resolvePair(c *catalog.Catalog, req *types.SwapRequest) (*types.TokenRecord, *types.TokenRecord, error) {
	if err := parser.ValidateSwapRequest(req); err != nil {
		return nil, nil, err
	}
	from, ok := c.Find(req.SourceToken)
	if !ok {
		return nil, nil, fmt.Errorf("token '%s' not found (try: token-swap list-tokens --symbol %s)", req.SourceToken, req.SourceToken)
	}
	to, ok := c.Find(req.DestToken)
	if !ok {
		return nil, nil, fmt.Errorf("token '%s' not found (try: token-swap list-tokens --symbol %s)", req.DestToken, req.DestToken)
	}
	return from, to, nil
}

func quoteDisplay(amount string, from, to *types.TokenRecord) types.QuoteDisplay {
	q := quote.Compute(from, to, amount)
	return types.QuoteDisplay{
		SourceAmount: amount,
		SourceToken:  from.Currency,
		DestAmount:   q.Output,
		DestToken:    to.Currency,
		Rate:         quote.FormatRate(q.Rate),
		USDValue:     q.USDValue,
	}
}

func displayQuote(q types.QuoteDisplay) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     SWAP QUOTE")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  From:              %s %s\n", q.SourceAmount, color.YellowString(q.SourceToken))
	fmt.Printf("  To:                ~%s %s\n", q.DestAmount, color.YellowString(q.DestToken))
	fmt.Printf("  Rate:              1 %s = %s %s\n", q.SourceToken, q.Rate, q.DestToken)
	if q.USDValue != "" {
		fmt.Printf("  Value:             $%s\n", q.USDValue)
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
