package filter

import (
	"strings"

	"token-swap/pkg/catalog"
	"token-swap/pkg/types"
)

// Filter returns the records whose currency contains query, ignoring case,
// in catalog order. An empty query returns the whole catalog.
func Filter(c *catalog.Catalog, query string) []types.TokenRecord {
	records := c.Records()
	if query == "" {
		return records
	}

	needle := strings.ToLower(query)
	out := make([]types.TokenRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Currency), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Picker is the token picker state: a search query over a catalog with the
// filtered result memoized until either input changes.
type Picker struct {
	catalog *catalog.Catalog
	query   string

	results []types.TokenRecord
	fresh   bool
	// computations counts Filter runs.
	computations int
}

// NewPicker creates a picker over c with an empty query
func NewPicker(c *catalog.Catalog) *Picker {
	return &Picker{catalog: c}
}

// SetCatalog swaps the catalog after a refresh
func (p *Picker) SetCatalog(c *catalog.Catalog) {
	if c == p.catalog {
		return
	}
	p.catalog = c
	p.fresh = false
}

// SetQuery updates the search text
func (p *Picker) SetQuery(q string) {
	if q == p.query {
		return
	}
	p.query = q
	p.fresh = false
}

// Query returns the current search text
func (p *Picker) Query() string { return p.query }

// Results returns the filtered records, recomputing only after the catalog
// or query changed. The returned slice must not be modified.
func (p *Picker) Results() []types.TokenRecord {
	if !p.fresh {
		p.results = Filter(p.catalog, p.query)
		p.fresh = true
		p.computations++
	}
	return p.results
}

// Select resolves currency (case-insensitively) against the catalog and clears the query so the
// picker reopens unfiltered. ok is false when the currency is unknown, in
// which case the query is left as is.
func (p *Picker) Select(currency string) (*types.TokenRecord, bool) {
	rec, ok := p.catalog.Find(currency)
	if !ok {
		return nil, false
	}
	p.SetQuery("")
	return rec, true
}
