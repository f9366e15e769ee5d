package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"craftstore/internal/entity"
)

// Interfaces the services depend on. SQL implementations live in this
// package; tests substitute in-memory fakes.

type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	SetActive(ctx context.Context, id int, active bool) error
}

type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	Update(ctx context.Context, c *entity.Category) error
	SetActive(ctx context.Context, id int, active bool) error
	GetByID(ctx context.Context, id int) (*entity.Category, error)
	List(ctx context.Context, activeOnly bool) ([]entity.Category, error)
}

type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	Update(ctx context.Context, p *entity.Product) error
	SetActive(ctx context.Context, id int, active bool) error
	GetByID(ctx context.Context, id int) (*entity.Product, error)
	ListByCategory(ctx context.Context, categoryID int) ([]entity.Product, error)
}

type VariantRepository interface {
	Create(ctx context.Context, v *entity.Variant) error
	Update(ctx context.Context, v *entity.Variant) error
	GetByID(ctx context.Context, id int) (*entity.Variant, error)
	ListByProduct(ctx context.Context, productID int) ([]entity.Variant, error)
	// DecrementStock subtracts quantity only when enough stock remains, so a
	// later restore round-trips exactly. Fails with KindValidation otherwise.
	DecrementStock(ctx context.Context, variantID, quantity int) error
	RestoreStock(ctx context.Context, variantID, quantity int) error
}

type PromotionRepository interface {
	Create(ctx context.Context, p *entity.Promotion) error
	Update(ctx context.Context, p *entity.Promotion) error
	SetActive(ctx context.Context, id int, active bool) error
	GetByID(ctx context.Context, id int) (*entity.Promotion, error)
	List(ctx context.Context) ([]entity.Promotion, error)
	Attach(ctx context.Context, promotionID, variantID int) error
	Detach(ctx context.Context, promotionID, variantID int) error
	// ActiveForVariant returns the newest promotion applicable to the variant
	// at asOf, or nil when none applies.
	ActiveForVariant(ctx context.Context, variantID int, asOf time.Time) (*entity.Promotion, error)
}

type CartRepository interface {
	Upsert(ctx context.Context, userID, variantID, quantity int) error
	UpdateQuantity(ctx context.Context, userID, variantID, quantity int) error
	Remove(ctx context.Context, userID, variantID int) error
	Clear(ctx context.Context, userID int) error
	// ListForUser joins variants and products; promotions are resolved by the
	// caller at read time.
	ListForUser(ctx context.Context, userID int) ([]entity.CartItem, error)
}

type ZoneRepository interface {
	Create(ctx context.Context, z *entity.DeliveryZone) error
	Update(ctx context.Context, z *entity.DeliveryZone) error
	SetActive(ctx context.Context, id int, active bool) error
	GetByID(ctx context.Context, id int) (*entity.DeliveryZone, error)
	List(ctx context.Context, activeOnly bool) ([]entity.DeliveryZone, error)
}

type CardRepository interface {
	Create(ctx context.Context, c *entity.SimulatedCard) error
	GetForUser(ctx context.Context, cardID, userID int) (*entity.SimulatedCard, error)
	ListForUser(ctx context.Context, userID int) ([]entity.SimulatedCard, error)
	// Debit locks the card row, checks the balance and subtracts amount.
	// Fails with KindInsufficientFunds when the balance is short.
	Debit(ctx context.Context, cardID, userID int, amount decimal.Decimal) error
	Credit(ctx context.Context, cardID int, amount decimal.Decimal) error
}

type OrderRepository interface {
	// Create inserts the order row and its frozen line items.
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id int) (*entity.Order, error)
	ListForUser(ctx context.Context, userID int) ([]entity.Order, error)
	ListByStatuses(ctx context.Context, statuses []entity.OrderStatus) ([]entity.Order, error)
	// UpdateStatusFrom flips the status only when the order is still in from,
	// so concurrent writers cannot overwrite each other's transitions. Fails
	// with KindConflict when the status moved in between.
	UpdateStatusFrom(ctx context.Context, id int, from, to entity.OrderStatus) error
}
