package types

import "time"

// TokenRecord is a named asset with an optional quoted price.
// Currency is the identity key; a nil Price means the token is unquoted.
type TokenRecord struct {
	Currency string   `json:"currency"`
	Price    *float64 `json:"price"`
}

// HasPrice reports whether the record carries a usable, non-zero price
func (t *TokenRecord) HasPrice() bool {
	return t != nil && t.Price != nil && *t.Price != 0
}

// NewToken builds a quoted token record
func NewToken(currency string, price float64) TokenRecord {
	return TokenRecord{Currency: currency, Price: &price}
}

// RawPrice is a single entry as yielded by a price source, before deduplication
type RawPrice struct {
	Currency string    `json:"currency"`
	Date     time.Time `json:"date,omitempty"`
	Price    *float64  `json:"price"`
}

// SwapRequest represents a user's swap command
type SwapRequest struct {
	Amount      string
	SourceToken string
	DestToken   string
}

// QuoteDisplay holds formatted quote information for display
type QuoteDisplay struct {
	SourceAmount string `json:"source_amount"`
	SourceToken  string `json:"source_token"`
	DestAmount   string `json:"dest_amount"`
	DestToken    string `json:"dest_token"`
	Rate         string `json:"rate"`
	USDValue     string `json:"usd_value"`
}

// Receipt is what the swap execution dependency returns on success
type Receipt struct {
	ID         string    `json:"id"`
	TxHash     string    `json:"tx_hash"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Amount     string    `json:"amount"`
	ExecutedAt time.Time `json:"executed_at"`
}
