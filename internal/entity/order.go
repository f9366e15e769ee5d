package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPlaced     OrderStatus = "placed"
	OrderPreparing  OrderStatus = "preparing"
	OrderReady      OrderStatus = "ready"
	OrderDispatched OrderStatus = "dispatched"
	OrderInTransit  OrderStatus = "in_transit"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash-on-delivery"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCard || m == PaymentCash
}

// Order stores the aggregates computed at checkout. They are never recomputed
// from the live catalog: Total is always the sum of the frozen lines plus the
// delivery cost captured at creation time.
type Order struct {
	ID            int             `json:"id"`
	UserID        int             `json:"user_id"`
	ZoneID        *int            `json:"zone_id,omitempty"` // nil means pickup
	Address       string          `json:"address"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	CardID        *int            `json:"card_id,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	DeliveryCost  decimal.Decimal `json:"delivery_cost"`
	Total         decimal.Decimal `json:"total"`
	Status        OrderStatus     `json:"status"`
	Items         []OrderItem     `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderItem is a frozen copy of the catalog data at purchase time. Later
// changes to products, variants or promotions must not alter it.
type OrderItem struct {
	ID             int             `json:"id"`
	OrderID        int             `json:"order_id"`
	VariantID      int             `json:"variant_id"`
	ProductName    string          `json:"product_name"`
	VariantLabel   string          `json:"variant_label"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	Quantity       int             `json:"quantity"`
}
