package entity

import "github.com/shopspring/decimal"

type Category struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Product is never hard-deleted: historical order lines reference its name,
// so removal is always a soft-deactivate.
type Product struct {
	ID          int    `json:"id"`
	CategoryID  int    `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// Variant is a purchasable size/configuration of a product with its own price.
type Variant struct {
	ID        int             `json:"id"`
	ProductID int             `json:"product_id"`
	Label     string          `json:"label"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     int             `json:"stock"`
}

// InStock reports whether the variant can currently be added to a cart.
func (v Variant) InStock() bool { return v.Stock > 0 }
