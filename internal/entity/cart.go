package entity

import "github.com/shopspring/decimal"

// CartItem is a cart line for one variant. The Promotion field is resolved at
// query time from the currently applicable promotion; it is not persisted, so
// promotion changes affect open carts live until checkout freezes them.
type CartItem struct {
	ID        int             `json:"id"`
	UserID    int             `json:"user_id"`
	VariantID int             `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	Product   string          `json:"product"`
	Label     string          `json:"label"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Promotion *Promotion      `json:"promotion,omitempty"`
}
