package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"craftstore/internal/apperr"
	"craftstore/internal/entity"
	"craftstore/internal/repository"
)

// CartService accumulates lines per user. Promotions are resolved at read
// time, so a cart's pricing follows the live catalog until checkout.
type CartService struct {
	cart       repository.CartRepository
	variants   repository.VariantRepository
	products   repository.ProductRepository
	promotions repository.PromotionRepository
}

func NewCartService(
	cart repository.CartRepository,
	variants repository.VariantRepository,
	products repository.ProductRepository,
	promotions repository.PromotionRepository,
) *CartService {
	return &CartService{cart: cart, variants: variants, products: products, promotions: promotions}
}

// AddItem merges quantity into an existing line for the same variant.
func (s *CartService) AddItem(ctx context.Context, userID, variantID, quantity int) error {
	if quantity <= 0 {
		return apperr.New(apperr.KindValidation, "quantity must be positive")
	}
	variant, err := s.variants.GetByID(ctx, variantID)
	if err != nil {
		return err
	}
	product, err := s.products.GetByID(ctx, variant.ProductID)
	if err != nil {
		return err
	}
	if !product.Active {
		return apperr.New(apperr.KindValidation, "product is no longer available")
	}
	if !variant.InStock() {
		return apperr.New(apperr.KindValidation, "variant is out of stock")
	}
	if err := s.cart.Upsert(ctx, userID, variantID, quantity); err != nil {
		logger.Error().Err(err).Msgf("Error adding variant %d to cart of user %d", variantID, userID)
		return err
	}
	return nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, variantID, quantity int) error {
	if quantity <= 0 {
		return apperr.New(apperr.KindValidation, "quantity must be positive")
	}
	return s.cart.UpdateQuantity(ctx, userID, variantID, quantity)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, variantID int) error {
	return s.cart.Remove(ctx, userID, variantID)
}

func (s *CartService) Clear(ctx context.Context, userID int) error {
	return s.cart.Clear(ctx, userID)
}

// Snapshot returns the cart lines with their currently applicable promotion
// attached. This is the input the pricing resolver works from.
func (s *CartService) Snapshot(ctx context.Context, userID int, asOf time.Time) ([]entity.CartItem, error) {
	items, err := s.cart.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		promo, err := s.promotions.ActiveForVariant(ctx, items[i].VariantID, asOf)
		if err != nil {
			return nil, err
		}
		items[i].Promotion = promo
	}
	return items, nil
}

// PricedCart prices the current snapshot without delivery cost; the storefront
// shows delivery once a zone is selected at checkout.
func (s *CartService) PricedCart(ctx context.Context, userID int) (*PricedCart, error) {
	items, err := s.Snapshot(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}
	priced := PriceCart(items, decimal.Zero, time.Now())
	return &priced, nil
}
