package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type PromotionType string

const (
	PromotionPercentage PromotionType = "percentage"
	PromotionFixedPrice PromotionType = "fixed-price"
)

func (t PromotionType) Valid() bool {
	return t == PromotionPercentage || t == PromotionFixedPrice
}

// Promotion is attached to variants through a join table. A promotion only
// affects pricing while it is active and asOf falls inside [StartsAt, EndsAt].
type Promotion struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Type     PromotionType   `json:"type"`
	Value    decimal.Decimal `json:"value"`
	StartsAt time.Time       `json:"starts_at"`
	EndsAt   time.Time       `json:"ends_at"`
	Active   bool            `json:"active"`
}

// ApplicableAt reports whether the promotion affects pricing at the given time.
// Expired or not-yet-started promotions are silently inapplicable, never an error.
func (p Promotion) ApplicableAt(asOf time.Time) bool {
	if !p.Active {
		return false
	}
	return !asOf.Before(p.StartsAt) && !asOf.After(p.EndsAt)
}
