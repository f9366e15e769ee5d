package service

import (
	"time"

	"github.com/shopspring/decimal"

	"craftstore/internal/entity"
)

var hundred = decimal.NewFromInt(100)

// PricedLine is one cart line with its discount resolved.
type PricedLine struct {
	VariantID      int             `json:"variant_id"`
	Product        string          `json:"product"`
	Label          string          `json:"label"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	LineTotal      decimal.Decimal `json:"line_total"`
	Promotion      *entity.Promotion `json:"promotion,omitempty"`
}

// PricedCart is the full pricing breakdown for a cart snapshot.
type PricedCart struct {
	Lines        []PricedLine    `json:"lines"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Merchandise  decimal.Decimal `json:"merchandise"`
	DeliveryCost decimal.Decimal `json:"delivery_cost"`
	Total        decimal.Decimal `json:"total"`
}

// EffectiveUnitPrice applies promo to unit at asOf. An inactive, expired or
// not-yet-started promotion leaves the price untouched; a discount can never
// raise the price above unit.
func EffectiveUnitPrice(unit decimal.Decimal, promo *entity.Promotion, asOf time.Time) decimal.Decimal {
	if promo == nil || !promo.ApplicableAt(asOf) {
		return unit
	}
	var effective decimal.Decimal
	switch promo.Type {
	case entity.PromotionPercentage:
		effective = unit.Mul(hundred.Sub(promo.Value)).Div(hundred).Round(2)
	case entity.PromotionFixedPrice:
		effective = promo.Value
	default:
		return unit
	}
	if effective.GreaterThan(unit) {
		return unit
	}
	return effective
}

// PriceCart computes the full pricing breakdown. deliveryCost is zero for
// pickup orders.
func PriceCart(items []entity.CartItem, deliveryCost decimal.Decimal, asOf time.Time) PricedCart {
	cart := PricedCart{
		Subtotal:     decimal.Zero,
		Discount:     decimal.Zero,
		DeliveryCost: deliveryCost,
	}
	for _, it := range items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		effective := EffectiveUnitPrice(it.UnitPrice, it.Promotion, asOf)
		line := PricedLine{
			VariantID:      it.VariantID,
			Product:        it.Product,
			Label:          it.Label,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			EffectivePrice: effective,
			LineTotal:      effective.Mul(qty),
			Promotion:      it.Promotion,
		}
		cart.Lines = append(cart.Lines, line)
		cart.Subtotal = cart.Subtotal.Add(it.UnitPrice.Mul(qty))
		lineDiscount := it.UnitPrice.Sub(effective).Mul(qty)
		if lineDiscount.IsNegative() {
			lineDiscount = decimal.Zero
		}
		cart.Discount = cart.Discount.Add(lineDiscount)
	}
	cart.Merchandise = cart.Subtotal.Sub(cart.Discount)
	cart.Total = cart.Merchandise.Add(deliveryCost)
	return cart
}
