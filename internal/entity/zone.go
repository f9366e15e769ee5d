package entity

import "github.com/shopspring/decimal"

// DeliveryZone is a district with a flat delivery fee and an estimated
// delivery time in days.
type DeliveryZone struct {
	ID            int             `json:"id"`
	District      string          `json:"district"`
	Cost          decimal.Decimal `json:"cost"`
	EstimatedDays int             `json:"estimated_days"`
	Active        bool            `json:"active"`
}
