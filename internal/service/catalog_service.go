package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"craftstore/internal/apperr"
	"craftstore/internal/entity"
	"craftstore/internal/repository"
)

const productCacheTTL = 5 * time.Minute

// ProductDetail is a product with its variants, as served to the storefront.
type ProductDetail struct {
	entity.Product
	Variants []entity.Variant `json:"variants"`
}

// CatalogService covers categories, products, variants and promotions.
// Product detail reads go through a redis read-through cache.
type CatalogService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	variants   repository.VariantRepository
	promotions repository.PromotionRepository
	rdb        *redis.Client
}

func NewCatalogService(
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	variants repository.VariantRepository,
	promotions repository.PromotionRepository,
	rdb *redis.Client,
) *CatalogService {
	return &CatalogService{
		categories: categories,
		products:   products,
		variants:   variants,
		promotions: promotions,
		rdb:        rdb,
	}
}

// Categories

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	if name == "" {
		return nil, apperr.New(apperr.KindValidation, "category name is required")
	}
	c := &entity.Category{Name: name, Active: true}
	if err := s.categories.Create(ctx, c); err != nil {
		logger.Error().Err(err).Msg("Error creating category")
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) RenameCategory(ctx context.Context, id int, name string) (*entity.Category, error) {
	if name == "" {
		return nil, apperr.New(apperr.KindValidation, "category name is required")
	}
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = name
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeactivateCategory hides the category from active listings. It is never
// deleted: direct lookup by id keeps working.
func (s *CatalogService) DeactivateCategory(ctx context.Context, id int) error {
	return s.categories.SetActive(ctx, id, false)
}

func (s *CatalogService) ActivateCategory(ctx context.Context, id int) error {
	return s.categories.SetActive(ctx, id, true)
}

func (s *CatalogService) GetCategory(ctx context.Context, id int) (*entity.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context, activeOnly bool) ([]entity.Category, error) {
	return s.categories.List(ctx, activeOnly)
}

// Products

func (s *CatalogService) CreateProduct(ctx context.Context, p *entity.Product) (*entity.Product, error) {
	if p.Name == "" || p.CategoryID == 0 {
		return nil, apperr.New(apperr.KindValidation, "product name and category are required")
	}
	if _, err := s.categories.GetByID(ctx, p.CategoryID); err != nil {
		return nil, err
	}
	p.Active = true
	if err := s.products.Create(ctx, p); err != nil {
		logger.Error().Err(err).Msg("Error creating product")
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p *entity.Product) (*entity.Product, error) {
	if p.Name == "" {
		return nil, apperr.New(apperr.KindValidation, "product name is required")
	}
	current, err := s.products.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if p.CategoryID == 0 {
		p.CategoryID = current.CategoryID
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidateProduct(ctx, p.ID)
	return p, nil
}

// DeactivateProduct soft-deactivates: historical order lines keep referencing
// the product, so it is never removed.
func (s *CatalogService) DeactivateProduct(ctx context.Context, id int) error {
	if err := s.products.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.invalidateProduct(ctx, id)
	return nil
}

func (s *CatalogService) ActivateProduct(ctx context.Context, id int) error {
	if err := s.products.SetActive(ctx, id, true); err != nil {
		return err
	}
	s.invalidateProduct(ctx, id)
	return nil
}

// GetProduct serves product detail through the redis cache.
func (s *CatalogService) GetProduct(ctx context.Context, id int) (*ProductDetail, error) {
	key := productKey(id)
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			logger.Error().Err(err).Msgf("Error reading product %d from cache", id)
		}
		if cached != "" {
			var detail ProductDetail
			if err := json.Unmarshal([]byte(cached), &detail); err == nil {
				return &detail, nil
			}
			logger.Warn().Msgf("Discarding unreadable cache entry for product %d", id)
		}
	}

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	variants, err := s.variants.ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &ProductDetail{Product: *p, Variants: variants}

	if s.rdb != nil {
		if data, err := json.Marshal(detail); err == nil {
			if err := s.rdb.Set(ctx, key, data, productCacheTTL).Err(); err != nil {
				logger.Error().Err(err).Msgf("Error caching product %d", id)
			}
		}
	}
	return detail, nil
}

func (s *CatalogService) ListProductsByCategory(ctx context.Context, categoryID int) ([]entity.Product, error) {
	return s.products.ListByCategory(ctx, categoryID)
}

// Variants

func (s *CatalogService) CreateVariant(ctx context.Context, v *entity.Variant) (*entity.Variant, error) {
	if v.Label == "" || !v.UnitPrice.IsPositive() {
		return nil, apperr.New(apperr.KindValidation, "variant label and a positive unit price are required")
	}
	if _, err := s.products.GetByID(ctx, v.ProductID); err != nil {
		return nil, err
	}
	if err := s.variants.Create(ctx, v); err != nil {
		logger.Error().Err(err).Msg("Error creating variant")
		return nil, err
	}
	s.invalidateProduct(ctx, v.ProductID)
	return v, nil
}

func (s *CatalogService) UpdateVariant(ctx context.Context, v *entity.Variant) (*entity.Variant, error) {
	if v.Label == "" || !v.UnitPrice.IsPositive() {
		return nil, apperr.New(apperr.KindValidation, "variant label and a positive unit price are required")
	}
	current, err := s.variants.GetByID(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	v.ProductID = current.ProductID
	if err := s.variants.Update(ctx, v); err != nil {
		return nil, err
	}
	s.invalidateProduct(ctx, v.ProductID)
	return v, nil
}

// Promotions

func (s *CatalogService) CreatePromotion(ctx context.Context, p *entity.Promotion) (*entity.Promotion, error) {
	if err := validatePromotion(p); err != nil {
		return nil, err
	}
	p.Active = true
	if err := s.promotions.Create(ctx, p); err != nil {
		logger.Error().Err(err).Msg("Error creating promotion")
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) UpdatePromotion(ctx context.Context, p *entity.Promotion) (*entity.Promotion, error) {
	if err := validatePromotion(p); err != nil {
		return nil, err
	}
	if _, err := s.promotions.GetByID(ctx, p.ID); err != nil {
		return nil, err
	}
	if err := s.promotions.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) SetPromotionActive(ctx context.Context, id int, active bool) error {
	return s.promotions.SetActive(ctx, id, active)
}

func (s *CatalogService) ListPromotions(ctx context.Context) ([]entity.Promotion, error) {
	return s.promotions.List(ctx)
}

func (s *CatalogService) AttachPromotion(ctx context.Context, promotionID, variantID int) error {
	if _, err := s.promotions.GetByID(ctx, promotionID); err != nil {
		return err
	}
	if _, err := s.variants.GetByID(ctx, variantID); err != nil {
		return err
	}
	return s.promotions.Attach(ctx, promotionID, variantID)
}

func (s *CatalogService) DetachPromotion(ctx context.Context, promotionID, variantID int) error {
	return s.promotions.Detach(ctx, promotionID, variantID)
}

func validatePromotion(p *entity.Promotion) error {
	if p.Name == "" {
		return apperr.New(apperr.KindValidation, "promotion name is required")
	}
	if !p.Type.Valid() {
		return apperr.Newf(apperr.KindValidation, "invalid promotion type %q", p.Type)
	}
	if !p.Value.IsPositive() {
		return apperr.New(apperr.KindValidation, "promotion value must be positive")
	}
	if p.Type == entity.PromotionPercentage && p.Value.GreaterThan(hundred) {
		return apperr.New(apperr.KindValidation, "percentage discount cannot exceed 100")
	}
	if p.EndsAt.Before(p.StartsAt) {
		return apperr.New(apperr.KindValidation, "promotion end date precedes start date")
	}
	return nil
}

func (s *CatalogService) invalidateProduct(ctx context.Context, id int) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, productKey(id)).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error invalidating cache for product %d", id)
	}
}

func productKey(id int) string {
	return fmt.Sprintf("product:%d", id)
}
