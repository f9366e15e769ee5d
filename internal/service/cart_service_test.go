package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craftstore/internal/apperr"
	"craftstore/internal/entity"
)

type cartFixture struct {
	products *memProducts
	variants *memVariants
	promos   *memPromotions
	cart     *memCart
	svc      *CartService
}

func newCartFixture() *cartFixture {
	f := &cartFixture{
		products: newMemProducts(),
		variants: newMemVariants(),
		promos:   newMemPromotions(),
	}
	f.cart = newMemCart(f.variants, f.products)
	f.svc = NewCartService(f.cart, f.variants, f.products, f.promos)
	return f
}

func (f *cartFixture) seedVariant(t *testing.T, price string, stock int) int {
	t.Helper()
	ctx := context.Background()
	p := &entity.Product{Name: "Clay mug", Active: true}
	require.NoError(t, f.products.Create(ctx, p))
	v := &entity.Variant{ProductID: p.ID, Label: "glazed", UnitPrice: dec(price), Stock: stock}
	require.NoError(t, f.variants.Create(ctx, v))
	return v.ID
}

func TestAddItemMergesQuantities(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	variantID := f.seedVariant(t, "15.00", 10)

	require.NoError(t, f.svc.AddItem(ctx, 1, variantID, 2))
	require.NoError(t, f.svc.AddItem(ctx, 1, variantID, 3))

	items, err := f.cart.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1, "same variant must merge into one line")
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddItemRejections(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	t.Run("unknown variant", func(t *testing.T) {
		err := f.svc.AddItem(ctx, 1, 999, 1)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		variantID := f.seedVariant(t, "15.00", 10)
		err := f.svc.AddItem(ctx, 1, variantID, 0)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("out of stock", func(t *testing.T) {
		variantID := f.seedVariant(t, "15.00", 0)
		err := f.svc.AddItem(ctx, 1, variantID, 1)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("deactivated product", func(t *testing.T) {
		variantID := f.seedVariant(t, "15.00", 10)
		v, err := f.variants.GetByID(ctx, variantID)
		require.NoError(t, err)
		require.NoError(t, f.products.SetActive(ctx, v.ProductID, false))
		err = f.svc.AddItem(ctx, 1, variantID, 1)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	variantID := f.seedVariant(t, "15.00", 10)

	require.NoError(t, f.svc.AddItem(ctx, 1, variantID, 2))
	require.NoError(t, f.svc.AddItem(ctx, 2, variantID, 4))
	require.NoError(t, f.svc.Clear(ctx, 1))

	items, err := f.cart.ListForUser(ctx, 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestSnapshotAttachesApplicablePromotion(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	now := time.Now()
	variantID := f.seedVariant(t, "50.00", 10)

	current := percentOff("10", now.Add(-time.Hour), now.Add(time.Hour))
	current.ID = 0
	require.NoError(t, f.promos.Create(ctx, current))
	require.NoError(t, f.promos.Attach(ctx, current.ID, variantID))

	expired := percentOff("50", now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	expired.ID = 0
	require.NoError(t, f.promos.Create(ctx, expired))
	require.NoError(t, f.promos.Attach(ctx, expired.ID, variantID))

	require.NoError(t, f.svc.AddItem(ctx, 1, variantID, 1))

	items, err := f.svc.Snapshot(ctx, 1, now)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Promotion)
	assert.Equal(t, current.ID, items[0].Promotion.ID)
	assert.Equal(t, "Clay mug", items[0].Product)
	assert.True(t, dec("50.00").Equal(items[0].UnitPrice))
}

func TestPricedCartHasNoDeliveryCost(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	variantID := f.seedVariant(t, "50.00", 10)
	require.NoError(t, f.svc.AddItem(ctx, 1, variantID, 2))

	priced, err := f.svc.PricedCart(ctx, 1)
	require.NoError(t, err)
	assert.True(t, priced.DeliveryCost.IsZero())
	assert.True(t, dec("100.00").Equal(priced.Total))
}

func TestUpdateAndRemove(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	variantID := f.seedVariant(t, "15.00", 10)
	require.NoError(t, f.svc.AddItem(ctx, 1, variantID, 2))

	require.NoError(t, f.svc.UpdateQuantity(ctx, 1, variantID, 7))
	items, err := f.cart.ListForUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, items[0].Quantity)

	err = f.svc.UpdateQuantity(ctx, 1, variantID, -1)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	require.NoError(t, f.svc.RemoveItem(ctx, 1, variantID))
	items, err = f.cart.ListForUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, items)

	err = f.svc.RemoveItem(ctx, 1, variantID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
