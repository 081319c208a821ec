package quote

import (
	"math"
	"strconv"
	"strings"

	"token-swap/pkg/types"
)

// NoOutput is returned when no quote can be produced for an amount.
const NoOutput = ""

// Quote is the derived conversion between two tokens for one input amount.
type Quote struct {
	Rate     float64
	Output   string
	USDValue string
	// Valid is false when the amount is not a finite number greater than zero.
	Valid bool
}

// Rate returns from.price / to.price, or 0 when either token or price is
// missing or zero. It never fails.
func Rate(from, to *types.TokenRecord) float64 {
	if !from.HasPrice() || !to.HasPrice() {
		return 0
	}
	r := *from.Price / *to.Price
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// ParseAmount parses raw user text. ok is false for anything that is not a
// finite number strictly greater than zero.
func ParseAmount(raw string) (amount float64, ok bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

// OutputAmount converts rawAmount at rate, formatted to six decimals.
// It returns NoOutput when rawAmount is not a valid positive amount.
func OutputAmount(rawAmount string, rate float64) string {
	amount, ok := ParseAmount(rawAmount)
	if !ok {
		return NoOutput
	}
	out := amount * rate
	if math.IsNaN(out) || math.IsInf(out, 0) || out < 0 {
		return NoOutput
	}
	return strconv.FormatFloat(out, 'f', 6, 64)
}

// USDValue is the dollar value of rawAmount of token, formatted to two
// decimals. It uses the input token's price only.
func USDValue(rawAmount string, token *types.TokenRecord) string {
	amount, ok := ParseAmount(rawAmount)
	if !ok || token == nil || token.Price == nil {
		return NoOutput
	}
	v := amount * *token.Price
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NoOutput
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Compute derives the full quote for the current inputs
func Compute(from, to *types.TokenRecord, rawAmount string) Quote {
	rate := Rate(from, to)
	_, valid := ParseAmount(rawAmount)
	return Quote{
		Rate:     rate,
		Output:   OutputAmount(rawAmount, rate),
		USDValue: USDValue(rawAmount, from),
		Valid:    valid,
	}
}

// FormatRate renders a rate for display
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 6, 64)
}
