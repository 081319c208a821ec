package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"token-swap/pkg/catalog"
	"token-swap/pkg/form"
	"token-swap/pkg/parser"
	"token-swap/pkg/quote"
	"token-swap/pkg/selection"
	"token-swap/pkg/swap"
	"token-swap/pkg/types"
)

const formHelp = `Open an interactive swap form. Type an amount, pick tokens, and watch the
quote update. Submitted swaps run in the background; the form stays usable
while a swap is pending.

Commands:
  amount <n>          set the amount to swap (no argument clears it)
  from <token>        select the token to swap from
  to <token>          select the token to receive
  flip                exchange the from and to tokens
  search [text]       filter tokens by symbol
  pick <from|to> <t>  select a token from the search results
  quote               show the current quote
  submit              submit the swap
  reload              fetch prices again
  help                show this help
  quit                leave the form`

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
)

var formCmd = &cobra.Command{
	Use:     "form",
	Aliases: []string{"interactive", "i"},
	Short:   "Open the interactive swap form",
	Long:    formHelp,
	Run:     runForm,
}

func init() {
	rootCmd.AddCommand(formCmd)
}

func runForm(cmd *cobra.Command, args []string) {
	a, err := newApp(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.close()

	sim := swap.NewSimulator(a.cfg.Simulator.SuccessRate, a.cfg.Simulator.Delay)
	f := form.New(sim, a.log.Named("form"))

	s := &formSession{
		ctx:    cmd.Context(),
		form:   f,
		source: a.source,
		icons:  a.cfg.IconBaseURL,
		out:    &syncWriter{w: os.Stdout},
	}

	s.reload()
	s.run(os.Stdin)
}

// formSession drives a form.Form from prompt lines
type formSession struct {
	ctx    context.Context
	form   *form.Form
	source catalog.Source
	icons  string
	out    io.Writer
}

func (s *formSession) run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	s.render()
	for {
		fmt.Fprint(s.out, color.CyanString("swap> "))
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return
		}
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}

		c, err := parser.ParseFormCommand(scanner.Text())
		if err != nil {
			s.notify(errColor, "%v", err)
			continue
		}
		if c.Action == parser.ActionQuit {
			return
		}
		s.dispatch(c)
	}
}

func (s *formSession) dispatch(c parser.FormCommand) {
	switch c.Action {
	case parser.ActionAmount:
		s.form.SetAmount(c.Arg(0))
		s.form.Dismiss()
		s.render()
	case parser.ActionFrom, parser.ActionTo:
		if err := s.form.SelectCurrency(selection.Slot(c.Action), c.Arg(0)); err != nil {
			s.notify(errColor, "%v", err)
			return
		}
		s.render()
	case parser.ActionFlip:
		s.form.Swap()
		s.render()
	case parser.ActionSearch:
		s.listResults(s.form.Search(c.Arg(0)))
	case parser.ActionPick:
		slot, err := selection.ParseSlot(c.Arg(0))
		if err != nil {
			s.notify(errColor, "%v", err)
			return
		}
		if err := s.form.Pick(slot, c.Arg(1)); err != nil {
			s.notify(errColor, "%v", err)
			return
		}
		s.render()
	case parser.ActionQuote:
		s.render()
	case parser.ActionSubmit:
		s.submit()
	case parser.ActionReload:
		s.reload()
		s.render()
	case parser.ActionHelp:
		fmt.Fprintln(s.out, formHelp)
	}
}

// reload always reaches the underlying source, bypassing the price cache
func (s *formSession) reload() {
	if cached, ok := s.source.(*catalog.CachedSource); ok {
		cached.Invalidate()
	}
	if err := s.form.Load(s.ctx, s.source); err != nil {
		s.notify(errColor, "Failed to load prices: %v", err)
		s.notify(warnColor, "Type 'reload' to try again.")
		return
	}
	s.notify(okColor, "Loaded %d tokens from %s", s.form.Catalog().Len(), s.source.Name())
}

// submit runs the swap in the background and reports when it resolves
func (s *formSession) submit() {
	pair := s.form.Pair()
	switch {
	case s.form.State().Phase == swap.Pending:
		s.notify(warnColor, "%s", swap.RejectInFlight)
		return
	case !s.form.Quote().Valid:
		s.notify(warnColor, "%s", swap.RejectInvalidAmount)
		return
	case !pair.Complete():
		s.notify(warnColor, "%s", swap.RejectNoSelection)
		return
	}

	s.notify(warnColor, "Swap pending...")
	go func() {
		out := s.form.Submit(s.ctx)
		if !out.Accepted {
			s.notify(warnColor, "%s", out.Reason)
			return
		}

		switch out.State.Phase {
		case swap.Succeeded:
			s.notify(okColor, "\n✓ %s", out.State.Message)
			if r := out.State.Receipt; r != nil {
				fmt.Fprintf(s.out, "  Transaction: %s\n", color.CyanString(r.TxHash))
			}
		case swap.Failed:
			s.notify(errColor, "\n✗ Swap failed: %s", out.State.Message)
			s.notify(warnColor, "Type 'submit' to try again.")
		}
		fmt.Fprint(s.out, color.CyanString("swap> "))
	}()
}

func (s *formSession) render() {
	pair := s.form.Pair()
	q := s.form.Quote()

	fmt.Fprintln(s.out, "\n"+strings.Repeat("-", 60))
	fmt.Fprintf(s.out, "  You pay:      %s %s\n", valueOr(s.form.Amount(), "-"), tokenLabel(pair.From))
	fmt.Fprintf(s.out, "  You receive:  %s %s\n", valueOr(q.Output, "-"), tokenLabel(pair.To))
	if pair.Complete() {
		fmt.Fprintf(s.out, "  Rate:         1 %s = %s %s\n", pair.From.Currency, quote.FormatRate(q.Rate), pair.To.Currency)
	}
	if q.USDValue != "" {
		fmt.Fprintf(s.out, "  Value:        $%s\n", q.USDValue)
	}
	if pair.From != nil {
		fmt.Fprintf(s.out, "  %s\n", color.HiBlackString(catalog.IconURL(s.icons, pair.From.Currency)))
	}
	if err := s.form.LoadError(); err != nil {
		s.notify(errColor, "  Prices unavailable: %v", err)
	}
	fmt.Fprintln(s.out, strings.Repeat("-", 60))
}

func (s *formSession) listResults(results []types.TokenRecord) {
	if len(results) == 0 {
		fmt.Fprintln(s.out, "No tokens found matching the criteria.")
		return
	}
	for _, r := range results {
		price := color.HiBlackString("no price")
		if r.HasPrice() {
			price = fmt.Sprintf("$%g", *r.Price)
		}
		fmt.Fprintf(s.out, "  %-12s %s\n", color.YellowString(r.Currency), price)
	}
	fmt.Fprintf(s.out, "%d tokens. Use 'pick from|to <token>' to select.\n", len(results))
}

func (s *formSession) notify(c *color.Color, format string, a ...interface{}) {
	c.Fprintf(s.out, format+"\n", a...)
}

// syncWriter serializes prompt output with background submission reports
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}

func tokenLabel(t *types.TokenRecord) string {
	if t == nil {
		return color.HiBlackString("(select a token)")
	}
	return color.YellowString(t.Currency)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
