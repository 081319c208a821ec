package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"token-swap/pkg/catalog"
	"token-swap/pkg/filter"
	"token-swap/pkg/types"
)

var (
	filterSymbol string
	saveSnapshot string
)

var tokensCmd = &cobra.Command{
	Use:     "list-tokens",
	Aliases: []string{"tokens", "ls"},
	Short:   "List all priced tokens",
	Long: `List all tokens in the current price list, one entry per currency.

You can filter tokens by a case-insensitive symbol substring and save the
raw price list to a snapshot file usable with TOKEN_SWAP_PRICES_FILE.

Examples:
  token-swap list-tokens
  token-swap list-tokens --symbol usd
  token-swap list-tokens --save prices.json`,
	Run: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter by token symbol")
	tokensCmd.Flags().StringVar(&saveSnapshot, "save", "", "Save the fetched price list to a JSON file")
}

type tokenRow struct {
	types.TokenRecord
	Icon string `json:"icon"`
}

func runListTokens(cmd *cobra.Command, args []string) {
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

	if saveSnapshot != "" {
		if err := catalog.SaveSnapshot(saveSnapshot, snapshotOf(c)); err != nil {
			printError(err)
			os.Exit(1)
		}
		if !a.json {
			printSuccess(fmt.Sprintf("Saved %d prices to %s", c.Len(), saveSnapshot))
		}
	}

	filtered := filter.Filter(c, filterSymbol)

	rows := make([]tokenRow, 0, len(filtered))
	for _, token := range filtered {
		rows = append(rows, tokenRow{TokenRecord: token, Icon: catalog.IconURL(a.cfg.IconBaseURL, token.Currency)})
	}

	// Output
	if a.json {
		jsonData, _ := json.MarshalIndent(rows, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayTokens(rows, a.verbose)
	}
}

func snapshotOf(c *catalog.Catalog) []types.RawPrice {
	records := c.Records()
	raw := make([]types.RawPrice, 0, len(records))
	for _, r := range records {
		raw = append(raw, types.RawPrice{Currency: r.Currency, Price: r.Price})
	}
	return raw
}

func displayTokens(rows []tokenRow, showIcons bool) {
	if len(rows) == 0 {
		fmt.Println("\nNo tokens found matching the criteria.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                            PRICED TOKENS")
	fmt.Println(strings.Repeat("=", 90))

	unpriced := 0
	for _, row := range rows {
		price := color.HiBlackString("no price")
		if row.HasPrice() {
			price = "$" + strconv.FormatFloat(*row.Price, 'f', -1, 64)
		} else {
			unpriced++
		}

		if showIcons {
			fmt.Printf("  %-20s  %-24s  %s\n",
				color.YellowString(row.Currency),
				price,
				color.HiBlackString(row.Icon))
			continue
		}
		fmt.Printf("  %-20s  %s\n", color.YellowString(row.Currency), price)
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	fmt.Printf("\nTotal: %d tokens (%d without a price)\n\n", len(rows), unpriced)
}
