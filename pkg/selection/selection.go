package selection

import (
	"fmt"
	"strings"

	"token-swap/pkg/types"
)

// Slot names one side of the swap form.
type Slot string

const (
	From Slot = "from"
	To   Slot = "to"
)

// ParseSlot accepts "from" or "to" in any case
func ParseSlot(s string) (Slot, error) {
	switch Slot(strings.ToLower(strings.TrimSpace(s))) {
	case From:
		return From, nil
	case To:
		return To, nil
	default:
		return "", fmt.Errorf("unknown slot %q (expected 'from' or 'to')", s)
	}
}

// Pair tracks which tokens are assigned to the from and to slots.
// Either side may be nil until the catalog has loaded; both sides may hold
// the same token.
type Pair struct {
	From *types.TokenRecord
	To   *types.TokenRecord
}

// Select assigns token to slot without further validation
func (p *Pair) Select(slot Slot, token *types.TokenRecord) error {
	switch slot {
	case From:
		p.From = token
	case To:
		p.To = token
	default:
		return fmt.Errorf("unknown slot %q", slot)
	}
	return nil
}

// Swap exchanges from and to in one step
func (p *Pair) Swap() {
	p.From, p.To = p.To, p.From
}

// Get returns the token in slot
func (p *Pair) Get(slot Slot) *types.TokenRecord {
	if slot == To {
		return p.To
	}
	return p.From
}

// Complete reports whether both slots are set
func (p *Pair) Complete() bool {
	return p.From != nil && p.To != nil
}
