package catalog

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"token-swap/pkg/types"
)

// Currencies preferred as the initial from/to selection.
const (
	DefaultFromCurrency = "ETH"
	DefaultToCurrency   = "USD"
)

// Source yields the raw, possibly duplicated, price list.
//
//go:generate mockgen -package=mocks -destination=../mocks/source.go -source=catalog.go Source
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]types.RawPrice, error)
}

// Catalog is the deduplicated, ordered set of known token records.
// It is immutable once built; every accessor hands out its own copy of a
// record, price included.
type Catalog struct {
	records []types.TokenRecord
	index   map[string]int
}

// Load fetches the raw price list from src and builds a Catalog from it.
// Errors are always a *FetchError or a *ParseError.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	raw, err := src.Fetch(ctx)
	if err != nil {
		var fe *FetchError
		var pe *ParseError
		if errors.As(err, &fe) || errors.As(err, &pe) {
			return nil, err
		}
		return nil, &FetchError{Source: src.Name(), Err: err}
	}
	return New(raw), nil
}

// New builds a Catalog keeping the first record seen for each currency,
// in first-occurrence order.
func New(raw []types.RawPrice) *Catalog {
	c := &Catalog{
		records: make([]types.TokenRecord, 0, len(raw)),
		index:   make(map[string]int, len(raw)),
	}
	for _, r := range raw {
		if _, seen := c.index[r.Currency]; seen {
			continue
		}
		c.index[r.Currency] = len(c.records)
		c.records = append(c.records, cloneRecord(types.TokenRecord{Currency: r.Currency, Price: r.Price}))
	}
	return c
}

// Len returns the number of distinct tokens
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// Records returns a copy of the records in catalog order
func (c *Catalog) Records() []types.TokenRecord {
	if c == nil {
		return nil
	}
	out := make([]types.TokenRecord, len(c.records))
	for i, r := range c.records {
		out[i] = cloneRecord(r)
	}
	return out
}

// At returns the i-th record, or nil when out of range
func (c *Catalog) At(i int) *types.TokenRecord {
	if c == nil || i < 0 || i >= len(c.records) {
		return nil
	}
	rec := cloneRecord(c.records[i])
	return &rec
}

// Lookup finds a record by exact currency
func (c *Catalog) Lookup(currency string) (*types.TokenRecord, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.index[currency]
	if !ok {
		return nil, false
	}
	return c.At(i), true
}

// Find is Lookup with a case-insensitive fallback for typed symbols
func (c *Catalog) Find(currency string) (*types.TokenRecord, bool) {
	if rec, ok := c.Lookup(currency); ok {
		return rec, true
	}
	if c == nil {
		return nil, false
	}
	for i, r := range c.records {
		if strings.EqualFold(r.Currency, currency) {
			return c.At(i), true
		}
	}
	return nil, false
}

// Defaults resolves the initial selection: ETH or the first record for
// from, USD or the second record for to. With fewer than two records to is nil.
func (c *Catalog) Defaults() (from, to *types.TokenRecord) {
	if rec, ok := c.Lookup(DefaultFromCurrency); ok {
		from = rec
	} else {
		from = c.At(0)
	}

	if c.Len() < 2 {
		return from, nil
	}
	if rec, ok := c.Lookup(DefaultToCurrency); ok {
		to = rec
	} else {
		to = c.At(1)
	}
	return from, to
}

// IconURL builds the icon lookup key for a currency under base.
// Callers fall back to a text badge when the icon cannot be resolved.
func IconURL(base, currency string) string {
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(currency) + ".svg"
}

func cloneRecord(r types.TokenRecord) types.TokenRecord {
	if r.Price != nil {
		p := *r.Price
		r.Price = &p
	}
	return r
}
