package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"craftstore/internal/entity"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func percentOff(value string, from, until time.Time) *entity.Promotion {
	return &entity.Promotion{
		ID:       1,
		Name:     "test promo",
		Type:     entity.PromotionPercentage,
		Value:    dec(value),
		StartsAt: from,
		EndsAt:   until,
		Active:   true,
	}
}

func TestEffectiveUnitPricePercentage(t *testing.T) {
	now := time.Now()
	promo := percentOff("10", now.Add(-time.Hour), now.Add(time.Hour))

	got := EffectiveUnitPrice(dec("50.00"), promo, now)
	assert.True(t, dec("45.00").Equal(got), "expected 45.00, got %s", got)
}

func TestEffectiveUnitPriceFixedPrice(t *testing.T) {
	now := time.Now()
	promo := &entity.Promotion{
		Type:     entity.PromotionFixedPrice,
		Value:    dec("30.00"),
		StartsAt: now.Add(-time.Hour),
		EndsAt:   now.Add(time.Hour),
		Active:   true,
	}

	got := EffectiveUnitPrice(dec("50.00"), promo, now)
	assert.True(t, dec("30.00").Equal(got))
}

func TestEffectiveUnitPriceFixedPriceNeverRaises(t *testing.T) {
	now := time.Now()
	promo := &entity.Promotion{
		Type:     entity.PromotionFixedPrice,
		Value:    dec("80.00"),
		StartsAt: now.Add(-time.Hour),
		EndsAt:   now.Add(time.Hour),
		Active:   true,
	}

	got := EffectiveUnitPrice(dec("50.00"), promo, now)
	assert.True(t, dec("50.00").Equal(got), "a promotion must never raise the price")
}

func TestEffectiveUnitPriceIgnoresInapplicablePromotions(t *testing.T) {
	now := time.Now()
	unit := dec("50.00")

	cases := map[string]*entity.Promotion{
		"nil":         nil,
		"expired":     percentOff("10", now.Add(-48*time.Hour), now.Add(-24*time.Hour)),
		"not started": percentOff("10", now.Add(24*time.Hour), now.Add(48*time.Hour)),
	}
	inactive := percentOff("10", now.Add(-time.Hour), now.Add(time.Hour))
	inactive.Active = false
	cases["inactive"] = inactive

	for name, promo := range cases {
		t.Run(name, func(t *testing.T) {
			got := EffectiveUnitPrice(unit, promo, now)
			assert.True(t, unit.Equal(got))
		})
	}
}

func TestPriceCartBreakdown(t *testing.T) {
	now := time.Now()
	items := []entity.CartItem{
		{
			VariantID: 7,
			Quantity:  2,
			Product:   "Woven basket",
			Label:     "large",
			UnitPrice: dec("50.00"),
			Promotion: percentOff("10", now.Add(-time.Hour), now.Add(time.Hour)),
		},
	}

	priced := PriceCart(items, dec("8.00"), now)

	assert.True(t, dec("100.00").Equal(priced.Subtotal), "subtotal: %s", priced.Subtotal)
	assert.True(t, dec("10.00").Equal(priced.Discount), "discount: %s", priced.Discount)
	assert.True(t, dec("90.00").Equal(priced.Merchandise), "merchandise: %s", priced.Merchandise)
	assert.True(t, dec("8.00").Equal(priced.DeliveryCost))
	assert.True(t, dec("98.00").Equal(priced.Total), "total: %s", priced.Total)

	assert.Len(t, priced.Lines, 1)
	assert.True(t, dec("45.00").Equal(priced.Lines[0].EffectivePrice))
	assert.True(t, dec("90.00").Equal(priced.Lines[0].LineTotal))
}

func TestPriceCartMultipleLinesMixedPromotions(t *testing.T) {
	now := time.Now()
	items := []entity.CartItem{
		{VariantID: 1, Quantity: 1, UnitPrice: dec("20.00")},
		{
			VariantID: 2,
			Quantity:  3,
			UnitPrice: dec("10.00"),
			Promotion: &entity.Promotion{
				Type:     entity.PromotionFixedPrice,
				Value:    dec("7.50"),
				StartsAt: now.Add(-time.Hour),
				EndsAt:   now.Add(time.Hour),
				Active:   true,
			},
		},
	}

	priced := PriceCart(items, decimal.Zero, now)

	// 20 + 30 = 50 gross, 3 * 2.50 = 7.50 off
	assert.True(t, dec("50.00").Equal(priced.Subtotal))
	assert.True(t, dec("7.50").Equal(priced.Discount))
	assert.True(t, dec("42.50").Equal(priced.Merchandise))
	assert.True(t, dec("42.50").Equal(priced.Total))
}

func TestPriceCartEmpty(t *testing.T) {
	priced := PriceCart(nil, decimal.Zero, time.Now())

	assert.Empty(t, priced.Lines)
	assert.True(t, priced.Subtotal.IsZero())
	assert.True(t, priced.Discount.IsZero())
	assert.True(t, priced.Total.IsZero())
}

func TestPriceCartDiscountNeverNegative(t *testing.T) {
	now := time.Now()
	items := []entity.CartItem{
		{
			VariantID: 1,
			Quantity:  2,
			UnitPrice: dec("10.00"),
			Promotion: &entity.Promotion{
				Type:     entity.PromotionFixedPrice,
				Value:    dec("15.00"), // above the unit price
				StartsAt: now.Add(-time.Hour),
				EndsAt:   now.Add(time.Hour),
				Active:   true,
			},
		},
	}

	priced := PriceCart(items, decimal.Zero, now)

	assert.True(t, priced.Discount.IsZero())
	assert.True(t, dec("20.00").Equal(priced.Total))
}
