package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"craftstore/internal/apperr"
	"craftstore/internal/entity"
	"craftstore/internal/repository"
)

const idempotencyTTL = 24 * time.Hour

// PlaceOrderInput is what checkout receives from the storefront.
type PlaceOrderInput struct {
	ZoneID        *int                 `json:"zone_id"` // nil means pickup
	Address       string               `json:"address"`
	PaymentMethod entity.PaymentMethod `json:"payment_method"`
	CardID        *int                 `json:"card_id"`
	IdempotentKey string               `json:"-"`
}

// statusChain is the forward order lifecycle. Cancellation is handled apart.
var statusChain = []entity.OrderStatus{
	entity.OrderPlaced,
	entity.OrderPreparing,
	entity.OrderReady,
	entity.OrderDispatched,
	entity.OrderInTransit,
	entity.OrderDelivered,
}

// roleTransitions is the closed map of which role performs which step.
// Admin is handled separately: any forward move.
var roleTransitions = map[entity.Role]map[entity.OrderStatus]entity.OrderStatus{
	entity.RoleWarehouse: {
		entity.OrderPlaced:    entity.OrderPreparing,
		entity.OrderPreparing: entity.OrderReady,
	},
	entity.RoleLogistics: {entity.OrderReady: entity.OrderDispatched},
	entity.RoleDispatch:  {entity.OrderDispatched: entity.OrderInTransit},
	entity.RoleDelivery:  {entity.OrderInTransit: entity.OrderDelivered},
}

// roleQueues lists the statuses each staff role works from.
var roleQueues = map[entity.Role][]entity.OrderStatus{
	entity.RoleWarehouse: {entity.OrderPlaced, entity.OrderPreparing},
	entity.RoleLogistics: {entity.OrderReady},
	entity.RoleDispatch:  {entity.OrderDispatched},
	entity.RoleDelivery:  {entity.OrderInTransit},
	entity.RoleAdmin: {
		entity.OrderPlaced, entity.OrderPreparing, entity.OrderReady,
		entity.OrderDispatched, entity.OrderInTransit, entity.OrderDelivered,
		entity.OrderCancelled,
	},
}

// OrderService materializes priced carts into immutable orders and drives the
// role-gated fulfillment lifecycle.
type OrderService struct {
	carts    *CartService
	zones    repository.ZoneRepository
	cards    repository.CardRepository
	variants repository.VariantRepository
	orders   repository.OrderRepository
	cartRepo repository.CartRepository
	tx       repository.TxManager

	kafkaWriter *kafka.Writer
	rdb         *redis.Client
}

func NewOrderService(
	carts *CartService,
	zones repository.ZoneRepository,
	cards repository.CardRepository,
	variants repository.VariantRepository,
	orders repository.OrderRepository,
	cartRepo repository.CartRepository,
	tx repository.TxManager,
	kafkaWriter *kafka.Writer,
	rdb *redis.Client,
) *OrderService {
	return &OrderService{
		carts:       carts,
		zones:       zones,
		cards:       cards,
		variants:    variants,
		orders:      orders,
		cartRepo:    cartRepo,
		tx:          tx,
		kafkaWriter: kafkaWriter,
		rdb:         rdb,
	}
}

// PlaceOrder converts the user's cart into an order. The card debit, order
// row, frozen line items, stock decrement and cart clear happen in one
// transaction; a failure anywhere rolls back everything.
func (s *OrderService) PlaceOrder(ctx context.Context, userID int, in PlaceOrderInput) (*entity.Order, error) {
	if !in.PaymentMethod.Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "invalid payment method %q", in.PaymentMethod)
	}
	if in.PaymentMethod == entity.PaymentCard && in.CardID == nil {
		return nil, apperr.New(apperr.KindValidation, "card payment requires a card")
	}
	if in.ZoneID != nil && in.Address == "" {
		return nil, apperr.New(apperr.KindValidation, "delivery requires an address")
	}

	if err := s.claimIdempotentKey(ctx, in.IdempotentKey); err != nil {
		return nil, err
	}
	order, err := s.placeOrder(ctx, userID, in)
	if err != nil {
		// A failed checkout creates no order, so the key must stay usable
		// for a retry.
		s.releaseIdempotentKey(ctx, in.IdempotentKey)
		return nil, err
	}

	s.publishOrderEvent(ctx, order, "placed")
	return order, nil
}

func (s *OrderService) placeOrder(ctx context.Context, userID int, in PlaceOrderInput) (*entity.Order, error) {
	now := time.Now().UTC()

	deliveryCost := decimal.Zero
	if in.ZoneID != nil {
		zone, err := s.zones.GetByID(ctx, *in.ZoneID)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return nil, apperr.New(apperr.KindValidation, "unknown delivery zone")
			}
			return nil, err
		}
		if !zone.Active {
			return nil, apperr.New(apperr.KindValidation, "delivery zone is not available")
		}
		deliveryCost = zone.Cost
	}

	if in.PaymentMethod == entity.PaymentCard {
		card, err := s.cards.GetForUser(ctx, *in.CardID, userID)
		if err != nil {
			return nil, err
		}
		if card.Expired(now) {
			return nil, apperr.New(apperr.KindValidation, "card is expired")
		}
	}

	items, err := s.carts.Snapshot(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.New(apperr.KindValidation, "cart is empty")
	}

	priced := PriceCart(items, deliveryCost, now)

	order := &entity.Order{
		UserID:        userID,
		ZoneID:        in.ZoneID,
		Address:       in.Address,
		PaymentMethod: in.PaymentMethod,
		CardID:        in.CardID,
		Subtotal:      priced.Subtotal,
		Discount:      priced.Discount,
		DeliveryCost:  priced.DeliveryCost,
		Total:         priced.Total,
		Status:        entity.OrderPlaced,
		CreatedAt:     now,
	}
	for _, line := range priced.Lines {
		order.Items = append(order.Items, entity.OrderItem{
			VariantID:      line.VariantID,
			ProductName:    line.Product,
			VariantLabel:   line.Label,
			UnitPrice:      line.UnitPrice,
			EffectivePrice: line.EffectivePrice,
			Quantity:       line.Quantity,
		})
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if in.PaymentMethod == entity.PaymentCard {
			if err := s.cards.Debit(ctx, *in.CardID, userID, priced.Total); err != nil {
				return err
			}
		}
		for _, line := range priced.Lines {
			if err := s.variants.DecrementStock(ctx, line.VariantID, line.Quantity); err != nil {
				return err
			}
		}
		if err := s.orders.Create(ctx, order); err != nil {
			return err
		}
		return s.cartRepo.Clear(ctx, userID)
	})
	if err != nil {
		logger.Error().Err(err).Msgf("Error placing order for user %d", userID)
		return nil, err
	}
	return order, nil
}

// Get returns an order. Customers only see their own; staff see any.
func (s *OrderService) Get(ctx context.Context, principal entity.Principal, orderID int) (*entity.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if principal.Role == entity.RoleCustomer && order.UserID != principal.UserID {
		return nil, apperr.New(apperr.KindForbidden, "order belongs to another customer")
	}
	return order, nil
}

func (s *OrderService) ListMine(ctx context.Context, userID int) ([]entity.Order, error) {
	return s.orders.ListForUser(ctx, userID)
}

// ListQueue returns the orders a staff role currently acts on.
func (s *OrderService) ListQueue(ctx context.Context, role entity.Role) ([]entity.Order, error) {
	statuses, ok := roleQueues[role]
	if !ok {
		return nil, apperr.Newf(apperr.KindForbidden, "role %q has no order queue", role)
	}
	return s.orders.ListByStatuses(ctx, statuses)
}

// AdvanceStatus moves an order one lifecycle step, gated by role.
func (s *OrderService) AdvanceStatus(ctx context.Context, principal entity.Principal, orderID int, target entity.OrderStatus) (*entity.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := allowTransition(principal.Role, order.Status, target); err != nil {
		return nil, err
	}
	// Compare-and-set: a concurrent transition since the read above fails
	// with Conflict instead of overwriting it.
	if err := s.orders.UpdateStatusFrom(ctx, orderID, order.Status, target); err != nil {
		return nil, err
	}
	order.Status = target
	s.publishOrderEvent(ctx, order, "status-changed")
	return order, nil
}

// Cancel reverses a placed order: card refund, stock restore and the status
// flip happen in one transaction.
func (s *OrderService) Cancel(ctx context.Context, principal entity.Principal, orderID int) (*entity.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if principal.Role == entity.RoleCustomer && order.UserID != principal.UserID {
		return nil, apperr.New(apperr.KindForbidden, "order belongs to another customer")
	}
	if principal.Role != entity.RoleCustomer && principal.Role != entity.RoleAdmin {
		return nil, apperr.New(apperr.KindForbidden, "only the customer or an admin can cancel")
	}
	if order.Status != entity.OrderPlaced {
		return nil, apperr.Newf(apperr.KindConflict, "order in status %q cannot be cancelled", order.Status)
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// The status flip is the guard: two racing cancels both pass the
		// check above, but only the one that wins this compare-and-set
		// refunds and restocks.
		if err := s.orders.UpdateStatusFrom(ctx, orderID, entity.OrderPlaced, entity.OrderCancelled); err != nil {
			return err
		}
		if order.PaymentMethod == entity.PaymentCard && order.CardID != nil {
			if err := s.cards.Credit(ctx, *order.CardID, order.Total); err != nil {
				return err
			}
		}
		for _, it := range order.Items {
			if err := s.variants.RestoreStock(ctx, it.VariantID, it.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msgf("Error cancelling order %d", orderID)
		return nil, err
	}

	order.Status = entity.OrderCancelled
	s.publishOrderEvent(ctx, order, "cancelled")
	return order, nil
}

func allowTransition(role entity.Role, from, to entity.OrderStatus) error {
	if from == entity.OrderCancelled || from == entity.OrderDelivered {
		return apperr.Newf(apperr.KindConflict, "order in status %q is final", from)
	}
	if statusIndex(to) <= statusIndex(from) || statusIndex(to) == -1 {
		return apperr.Newf(apperr.KindConflict, "cannot move order from %q to %q", from, to)
	}
	if role == entity.RoleAdmin {
		return nil
	}
	if next, ok := roleTransitions[role][from]; ok && next == to {
		return nil
	}
	return apperr.Newf(apperr.KindForbidden, "role %q cannot move order from %q to %q", role, from, to)
}

func statusIndex(s entity.OrderStatus) int {
	for i, st := range statusChain {
		if st == s {
			return i
		}
	}
	return -1
}

func (s *OrderService) claimIdempotentKey(ctx context.Context, key string) error {
	if s.rdb == nil || key == "" {
		return nil
	}
	ok, err := s.rdb.SetNX(ctx, fmt.Sprintf("idempotent-key:%s", key), "1", idempotencyTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return apperr.New(apperr.KindConflict, "duplicate idempotent key")
	}
	return nil
}

func (s *OrderService) releaseIdempotentKey(ctx context.Context, key string) {
	if s.rdb == nil || key == "" {
		return
	}
	if err := s.rdb.Del(ctx, fmt.Sprintf("idempotent-key:%s", key)).Err(); err != nil {
		logger.Error().Err(err).Msg("Error releasing idempotent key")
	}
}

func (s *OrderService) publishOrderEvent(ctx context.Context, order *entity.Order, event string) {
	if s.kafkaWriter == nil {
		return
	}
	payload, err := json.Marshal(order)
	if err != nil {
		logger.Error().Err(err).Msgf("Error encoding order %d event", order.ID)
		return
	}
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%s-%d", event, order.ID)),
		Value: payload,
	}
	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Msgf("Error publishing order %d event", order.ID)
	}
}
