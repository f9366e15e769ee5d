package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"craftstore/internal/apperr"
	"craftstore/internal/entity"
	"craftstore/internal/repository"
)

// In-memory repository fakes backing the service tests.

type memTx struct{ mu sync.Mutex }

func (t *memTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

type memUsers struct {
	seq   int
	users map[int]*entity.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[int]*entity.User{}} }

func (f *memUsers) Create(ctx context.Context, u *entity.User) error {
	f.seq++
	u.ID = f.seq
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *memUsers) GetByID(ctx context.Context, id int) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	cp := *u
	return &cp, nil
}

func (f *memUsers) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, "user not found")
}

func (f *memUsers) SetActive(ctx context.Context, id int, active bool) error {
	u, ok := f.users[id]
	if !ok {
		return apperr.New(apperr.KindNotFound, "user not found")
	}
	u.Active = active
	return nil
}

type memCategories struct {
	seq        int
	categories map[int]*entity.Category
}

func newMemCategories() *memCategories { return &memCategories{categories: map[int]*entity.Category{}} }

func (f *memCategories) Create(ctx context.Context, c *entity.Category) error {
	f.seq++
	c.ID = f.seq
	cp := *c
	f.categories[c.ID] = &cp
	return nil
}

func (f *memCategories) Update(ctx context.Context, c *entity.Category) error {
	if _, ok := f.categories[c.ID]; !ok {
		return apperr.New(apperr.KindNotFound, "category not found")
	}
	cp := *c
	f.categories[c.ID] = &cp
	return nil
}

func (f *memCategories) SetActive(ctx context.Context, id int, active bool) error {
	c, ok := f.categories[id]
	if !ok {
		return apperr.New(apperr.KindNotFound, "category not found")
	}
	c.Active = active
	return nil
}

func (f *memCategories) GetByID(ctx context.Context, id int) (*entity.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "category not found")
	}
	cp := *c
	return &cp, nil
}

func (f *memCategories) List(ctx context.Context, activeOnly bool) ([]entity.Category, error) {
	var out []entity.Category
	for _, c := range f.categories {
		if activeOnly && !c.Active {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

type memProducts struct {
	seq      int
	products map[int]*entity.Product
}

func newMemProducts() *memProducts { return &memProducts{products: map[int]*entity.Product{}} }

func (f *memProducts) Create(ctx context.Context, p *entity.Product) error {
	f.seq++
	p.ID = f.seq
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *memProducts) Update(ctx context.Context, p *entity.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return apperr.New(apperr.KindNotFound, "product not found")
	}
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *memProducts) SetActive(ctx context.Context, id int, active bool) error {
	p, ok := f.products[id]
	if !ok {
		return apperr.New(apperr.KindNotFound, "product not found")
	}
	p.Active = active
	return nil
}

func (f *memProducts) GetByID(ctx context.Context, id int) (*entity.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "product not found")
	}
	cp := *p
	return &cp, nil
}

func (f *memProducts) ListByCategory(ctx context.Context, categoryID int) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range f.products {
		if p.CategoryID == categoryID && p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

type memVariants struct {
	seq      int
	variants map[int]*entity.Variant
}

func newMemVariants() *memVariants { return &memVariants{variants: map[int]*entity.Variant{}} }

func (f *memVariants) Create(ctx context.Context, v *entity.Variant) error {
	f.seq++
	v.ID = f.seq
	cp := *v
	f.variants[v.ID] = &cp
	return nil
}

func (f *memVariants) Update(ctx context.Context, v *entity.Variant) error {
	if _, ok := f.variants[v.ID]; !ok {
		return apperr.New(apperr.KindNotFound, "variant not found")
	}
	cp := *v
	f.variants[v.ID] = &cp
	return nil
}

func (f *memVariants) GetByID(ctx context.Context, id int) (*entity.Variant, error) {
	v, ok := f.variants[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "variant not found")
	}
	cp := *v
	return &cp, nil
}

func (f *memVariants) ListByProduct(ctx context.Context, productID int) ([]entity.Variant, error) {
	var out []entity.Variant
	for _, v := range f.variants {
		if v.ProductID == productID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *memVariants) DecrementStock(ctx context.Context, variantID, quantity int) error {
	v, ok := f.variants[variantID]
	if !ok {
		return apperr.New(apperr.KindNotFound, "variant not found")
	}
	if v.Stock < quantity {
		return apperr.New(apperr.KindValidation, "insufficient stock")
	}
	v.Stock -= quantity
	return nil
}

func (f *memVariants) RestoreStock(ctx context.Context, variantID, quantity int) error {
	v, ok := f.variants[variantID]
	if !ok {
		return apperr.New(apperr.KindNotFound, "variant not found")
	}
	v.Stock += quantity
	return nil
}

type memPromotions struct {
	seq        int
	promotions map[int]*entity.Promotion
	attached   map[int][]int // variantID -> promotion ids
}

func newMemPromotions() *memPromotions {
	return &memPromotions{promotions: map[int]*entity.Promotion{}, attached: map[int][]int{}}
}

func (f *memPromotions) Create(ctx context.Context, p *entity.Promotion) error {
	f.seq++
	p.ID = f.seq
	cp := *p
	f.promotions[p.ID] = &cp
	return nil
}

func (f *memPromotions) Update(ctx context.Context, p *entity.Promotion) error {
	if _, ok := f.promotions[p.ID]; !ok {
		return apperr.New(apperr.KindNotFound, "promotion not found")
	}
	cp := *p
	f.promotions[p.ID] = &cp
	return nil
}

func (f *memPromotions) SetActive(ctx context.Context, id int, active bool) error {
	p, ok := f.promotions[id]
	if !ok {
		return apperr.New(apperr.KindNotFound, "promotion not found")
	}
	p.Active = active
	return nil
}

func (f *memPromotions) GetByID(ctx context.Context, id int) (*entity.Promotion, error) {
	p, ok := f.promotions[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "promotion not found")
	}
	cp := *p
	return &cp, nil
}

func (f *memPromotions) List(ctx context.Context) ([]entity.Promotion, error) {
	var out []entity.Promotion
	for _, p := range f.promotions {
		out = append(out, *p)
	}
	return out, nil
}

func (f *memPromotions) Attach(ctx context.Context, promotionID, variantID int) error {
	f.attached[variantID] = append(f.attached[variantID], promotionID)
	return nil
}

func (f *memPromotions) Detach(ctx context.Context, promotionID, variantID int) error {
	ids := f.attached[variantID]
	for i, id := range ids {
		if id == promotionID {
			f.attached[variantID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (f *memPromotions) ActiveForVariant(ctx context.Context, variantID int, asOf time.Time) (*entity.Promotion, error) {
	var best *entity.Promotion
	for _, id := range f.attached[variantID] {
		p := f.promotions[id]
		if p == nil || !p.ApplicableAt(asOf) {
			continue
		}
		if best == nil || p.StartsAt.After(best.StartsAt) {
			cp := *p
			best = &cp
		}
	}
	return best, nil
}

type memCart struct {
	seq      int
	items    map[int]*entity.CartItem // keyed by cart item id
	variants *memVariants
	products *memProducts
}

func newMemCart(variants *memVariants, products *memProducts) *memCart {
	return &memCart{items: map[int]*entity.CartItem{}, variants: variants, products: products}
}

func (f *memCart) Upsert(ctx context.Context, userID, variantID, quantity int) error {
	for _, it := range f.items {
		if it.UserID == userID && it.VariantID == variantID {
			it.Quantity += quantity
			return nil
		}
	}
	f.seq++
	f.items[f.seq] = &entity.CartItem{ID: f.seq, UserID: userID, VariantID: variantID, Quantity: quantity}
	return nil
}

func (f *memCart) UpdateQuantity(ctx context.Context, userID, variantID, quantity int) error {
	for _, it := range f.items {
		if it.UserID == userID && it.VariantID == variantID {
			it.Quantity = quantity
			return nil
		}
	}
	return apperr.New(apperr.KindNotFound, "cart item not found")
}

func (f *memCart) Remove(ctx context.Context, userID, variantID int) error {
	for id, it := range f.items {
		if it.UserID == userID && it.VariantID == variantID {
			delete(f.items, id)
			return nil
		}
	}
	return apperr.New(apperr.KindNotFound, "cart item not found")
}

func (f *memCart) Clear(ctx context.Context, userID int) error {
	for id, it := range f.items {
		if it.UserID == userID {
			delete(f.items, id)
		}
	}
	return nil
}

func (f *memCart) ListForUser(ctx context.Context, userID int) ([]entity.CartItem, error) {
	var out []entity.CartItem
	for _, it := range f.items {
		if it.UserID != userID {
			continue
		}
		line := *it
		if v, ok := f.variants.variants[it.VariantID]; ok {
			line.Label = v.Label
			line.UnitPrice = v.UnitPrice
			if p, ok := f.products.products[v.ProductID]; ok {
				line.Product = p.Name
			}
		}
		out = append(out, line)
	}
	return out, nil
}

type memZones struct {
	seq   int
	zones map[int]*entity.DeliveryZone
}

func newMemZones() *memZones { return &memZones{zones: map[int]*entity.DeliveryZone{}} }

func (f *memZones) Create(ctx context.Context, z *entity.DeliveryZone) error {
	f.seq++
	z.ID = f.seq
	cp := *z
	f.zones[z.ID] = &cp
	return nil
}

func (f *memZones) Update(ctx context.Context, z *entity.DeliveryZone) error {
	if _, ok := f.zones[z.ID]; !ok {
		return apperr.New(apperr.KindNotFound, "delivery zone not found")
	}
	cp := *z
	f.zones[z.ID] = &cp
	return nil
}

func (f *memZones) SetActive(ctx context.Context, id int, active bool) error {
	z, ok := f.zones[id]
	if !ok {
		return apperr.New(apperr.KindNotFound, "delivery zone not found")
	}
	z.Active = active
	return nil
}

func (f *memZones) GetByID(ctx context.Context, id int) (*entity.DeliveryZone, error) {
	z, ok := f.zones[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "delivery zone not found")
	}
	cp := *z
	return &cp, nil
}

func (f *memZones) List(ctx context.Context, activeOnly bool) ([]entity.DeliveryZone, error) {
	var out []entity.DeliveryZone
	for _, z := range f.zones {
		if activeOnly && !z.Active {
			continue
		}
		out = append(out, *z)
	}
	return out, nil
}

type memCards struct {
	seq   int
	cards map[int]*entity.SimulatedCard
}

func newMemCards() *memCards { return &memCards{cards: map[int]*entity.SimulatedCard{}} }

func (f *memCards) Create(ctx context.Context, c *entity.SimulatedCard) error {
	f.seq++
	c.ID = f.seq
	cp := *c
	f.cards[c.ID] = &cp
	return nil
}

func (f *memCards) GetForUser(ctx context.Context, cardID, userID int) (*entity.SimulatedCard, error) {
	c, ok := f.cards[cardID]
	if !ok || c.UserID != userID {
		return nil, apperr.New(apperr.KindNotFound, "card not found")
	}
	cp := *c
	return &cp, nil
}

func (f *memCards) ListForUser(ctx context.Context, userID int) ([]entity.SimulatedCard, error) {
	var out []entity.SimulatedCard
	for _, c := range f.cards {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *memCards) Debit(ctx context.Context, cardID, userID int, amount decimal.Decimal) error {
	c, ok := f.cards[cardID]
	if !ok || c.UserID != userID {
		return apperr.New(apperr.KindNotFound, "card not found")
	}
	if c.Balance.LessThan(amount) {
		return apperr.New(apperr.KindInsufficientFunds, "insufficient card balance")
	}
	c.Balance = c.Balance.Sub(amount)
	return nil
}

func (f *memCards) Credit(ctx context.Context, cardID int, amount decimal.Decimal) error {
	c, ok := f.cards[cardID]
	if !ok {
		return apperr.New(apperr.KindNotFound, "card not found")
	}
	c.Balance = c.Balance.Add(amount)
	return nil
}

type memOrders struct {
	seq    int
	orders map[int]*entity.Order
}

func newMemOrders() *memOrders { return &memOrders{orders: map[int]*entity.Order{}} }

func (f *memOrders) Create(ctx context.Context, o *entity.Order) error {
	f.seq++
	o.ID = f.seq
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	for i := range cp.Items {
		cp.Items[i].OrderID = o.ID
	}
	f.orders[o.ID] = &cp
	return nil
}

func (f *memOrders) GetByID(ctx context.Context, id int) (*entity.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "order not found")
	}
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (f *memOrders) ListForUser(ctx context.Context, userID int) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *memOrders) ListByStatuses(ctx context.Context, statuses []entity.OrderStatus) ([]entity.Order, error) {
	var out []entity.Order
	for _, o := range f.orders {
		for _, s := range statuses {
			if o.Status == s {
				out = append(out, *o)
				break
			}
		}
	}
	return out, nil
}

func (f *memOrders) UpdateStatusFrom(ctx context.Context, id int, from, to entity.OrderStatus) error {
	o, ok := f.orders[id]
	if !ok {
		return apperr.New(apperr.KindNotFound, "order not found")
	}
	if o.Status != from {
		return apperr.Newf(apperr.KindConflict, "order is no longer in status %q", from)
	}
	o.Status = to
	return nil
}

// hookTx runs a callback right before delegating the transaction, letting a
// test interleave a competing write between a service's precondition read and
// its transactional section.
type hookTx struct {
	inner  repository.TxManager
	before func()
}

func (t *hookTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.before != nil {
		hook := t.before
		t.before = nil
		hook()
	}
	return t.inner.WithTransaction(ctx, fn)
}
