package form

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"token-swap/pkg/catalog"
	"token-swap/pkg/filter"
	"token-swap/pkg/quote"
	"token-swap/pkg/selection"
	"token-swap/pkg/swap"
	"token-swap/pkg/types"
)

// Form is the swap form controller. It is the single owner of the catalog,
// the token selection, the picker, and the amount text; every event goes
// through its methods so derived values always match current inputs.
type Form struct {
	log *zap.Logger
	sub *swap.Submission

	mu      sync.Mutex
	catalog *catalog.Catalog
	pair    selection.Pair
	picker  *filter.Picker
	amount  string
	loadErr error
}

// New creates an empty form submitting through exec
func New(exec swap.Executor, log *zap.Logger) *Form {
	if log == nil {
		log = zap.NewNop()
	}
	return &Form{
		log:    log,
		sub:    swap.NewSubmission(exec, log.Named("submission")),
		picker: filter.NewPicker(nil),
	}
}

// Load fetches prices from src. On success the catalog is replaced and the
// selection is re-resolved: tokens still listed keep their slot with fresh
// prices, others fall back to the catalog defaults. On failure the previous
// catalog and selection are left untouched and the error is kept for
// LoadError; the form never retries on its own.
func (f *Form) Load(ctx context.Context, src catalog.Source) error {
	c, err := catalog.Load(ctx, src)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.loadErr = err
		f.log.Error("price load failed", zap.String("source", src.Name()), zap.Error(err))
		return err
	}

	f.loadErr = nil
	first := f.catalog == nil
	f.catalog = c
	f.picker.SetCatalog(c)

	defFrom, defTo := c.Defaults()
	if first {
		f.pair = selection.Pair{From: defFrom, To: defTo}
	} else {
		f.pair = selection.Pair{From: reresolve(c, f.pair.From, defFrom), To: reresolve(c, f.pair.To, defTo)}
	}

	f.log.Info("price catalog loaded",
		zap.String("source", src.Name()),
		zap.Int("tokens", c.Len()),
		zap.String("from", currencyOf(f.pair.From)),
		zap.String("to", currencyOf(f.pair.To)))
	return nil
}

// LoadError returns the error of the last failed load, or nil
func (f *Form) LoadError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadErr
}

// Catalog returns the current catalog, nil before the first successful load
func (f *Form) Catalog() *catalog.Catalog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.catalog
}

// SetAmount records the raw amount text as typed
func (f *Form) SetAmount(raw string) {
	f.mu.Lock()
	f.amount = raw
	f.mu.Unlock()
}

// Amount returns the raw amount text
func (f *Form) Amount() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.amount
}

// Pair returns the current selection
func (f *Form) Pair() selection.Pair {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pair
}

// Select assigns token to slot
func (f *Form) Select(slot selection.Slot, token *types.TokenRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pair.Select(slot, token)
}

// SelectCurrency assigns the catalog token named currency to slot
func (f *Form) SelectCurrency(slot selection.Slot, currency string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.catalog.Find(currency)
	if !ok {
		return fmt.Errorf("token '%s' not found", currency)
	}
	return f.pair.Select(slot, rec)
}

// Swap exchanges the from and to tokens
func (f *Form) Swap() {
	f.mu.Lock()
	f.pair.Swap()
	f.mu.Unlock()
}

// Search sets the picker query and returns the matching tokens
func (f *Form) Search(query string) []types.TokenRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.picker.SetQuery(query)
	return f.picker.Results()
}

// Results returns the picker's tokens for the current query
func (f *Form) Results() []types.TokenRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.picker.Results()
}

// Query returns the picker's current search text
func (f *Form) Query() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.picker.Query()
}

// Pick selects a token from the picker into slot and clears the search
func (f *Form) Pick(slot selection.Slot, currency string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.picker.Select(currency)
	if !ok {
		return fmt.Errorf("token '%s' not found", currency)
	}
	return f.pair.Select(slot, rec)
}

// Quote derives rate, output and USD value from the current inputs
func (f *Form) Quote() quote.Quote {
	f.mu.Lock()
	defer f.mu.Unlock()
	return quote.Compute(f.pair.From, f.pair.To, f.amount)
}

// Submit swaps the current amount between the selected tokens and blocks
// until the executor resolves. The amount is cleared after a success.
func (f *Form) Submit(ctx context.Context) swap.Outcome {
	f.mu.Lock()
	from, to, amount := f.pair.From, f.pair.To, f.amount
	f.mu.Unlock()

	out := f.sub.Submit(ctx, from, to, amount)
	if out.ClearInput {
		f.mu.Lock()
		f.amount = ""
		f.mu.Unlock()
	}
	return out
}

// State returns the submission lifecycle snapshot
func (f *Form) State() swap.State {
	return f.sub.State()
}

// Dismiss clears a finished submission message
func (f *Form) Dismiss() {
	f.sub.Reset()
}

func reresolve(c *catalog.Catalog, cur, fallback *types.TokenRecord) *types.TokenRecord {
	if cur == nil {
		return fallback
	}
	if rec, ok := c.Lookup(cur.Currency); ok {
		return rec
	}
	return fallback
}

func currencyOf(t *types.TokenRecord) string {
	if t == nil {
		return ""
	}
	return t.Currency
}
