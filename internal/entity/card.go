package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SimulatedCard is a stored-value payment instrument internal to the shop.
// Balances are fictitious; there is no payment network behind them.
type SimulatedCard struct {
	ID           int             `json:"id"`
	UserID       int             `json:"user_id"`
	MaskedNumber string          `json:"masked_number"`
	Holder       string          `json:"holder"`
	ExpiryMonth  int             `json:"expiry_month"`
	ExpiryYear   int             `json:"expiry_year"`
	Balance      decimal.Decimal `json:"balance"`
}

// Expired reports whether the card's expiry month has passed as of now.
func (c SimulatedCard) Expired(now time.Time) bool {
	if c.ExpiryYear != now.Year() {
		return c.ExpiryYear < now.Year()
	}
	return time.Month(c.ExpiryMonth) < now.Month()
}
