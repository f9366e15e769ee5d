package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"craftstore/internal/apperr"
	"craftstore/internal/entity"
)

type SQLOrderRepository struct {
	db *sql.DB
}

func NewSQLOrderRepository(db *sql.DB) *SQLOrderRepository {
	return &SQLOrderRepository{db: db}
}

// Create inserts the order row and batch-inserts its frozen line items.
// Runs inside the checkout transaction.
func (r *SQLOrderRepository) Create(ctx context.Context, o *entity.Order) error {
	q := conn(ctx, r.db)

	res, err := q.ExecContext(ctx,
		`INSERT INTO orders (user_id, zone_id, address, payment_method, card_id,
			subtotal, discount, delivery_cost, total, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.UserID, o.ZoneID, o.Address, o.PaymentMethod, o.CardID,
		o.Subtotal, o.Discount, o.DeliveryCost, o.Total, o.Status, o.CreatedAt)
	if err != nil {
		return err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = int(orderID)

	if len(o.Items) == 0 {
		return nil
	}

	query := `INSERT INTO order_items
		(order_id, variant_id, product_name, variant_label, unit_price, effective_price, quantity)
		VALUES ` + strings.TrimSuffix(strings.Repeat("(?, ?, ?, ?, ?, ?, ?),", len(o.Items)), ",")

	var values []interface{}
	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		values = append(values, o.ID, it.VariantID, it.ProductName, it.VariantLabel,
			it.UnitPrice, it.EffectivePrice, it.Quantity)
	}
	_, err = q.ExecContext(ctx, query, values...)
	return err
}

func (r *SQLOrderRepository) GetByID(ctx context.Context, id int) (*entity.Order, error) {
	q := conn(ctx, r.db)

	o := &entity.Order{}
	err := q.QueryRowContext(ctx,
		`SELECT id, user_id, zone_id, address, payment_method, card_id,
			subtotal, discount, delivery_cost, total, status, created_at
		 FROM orders WHERE id = ?`, id).
		Scan(&o.ID, &o.UserID, &o.ZoneID, &o.Address, &o.PaymentMethod, &o.CardID,
			&o.Subtotal, &o.Discount, &o.DeliveryCost, &o.Total, &o.Status, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "order not found")
	}
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id, order_id, variant_id, product_name, variant_label, unit_price, effective_price, quantity
		 FROM order_items WHERE order_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.VariantID, &it.ProductName, &it.VariantLabel,
			&it.UnitPrice, &it.EffectivePrice, &it.Quantity); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

func (r *SQLOrderRepository) ListForUser(ctx context.Context, userID int) ([]entity.Order, error) {
	return r.list(ctx,
		`SELECT id, user_id, zone_id, address, payment_method, card_id,
			subtotal, discount, delivery_cost, total, status, created_at
		 FROM orders WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

func (r *SQLOrderRepository) ListByStatuses(ctx context.Context, statuses []entity.OrderStatus) ([]entity.Order, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
	args := make([]interface{}, len(statuses))
	for i, s := range statuses {
		args[i] = s
	}
	return r.list(ctx,
		`SELECT id, user_id, zone_id, address, payment_method, card_id,
			subtotal, discount, delivery_cost, total, status, created_at
		 FROM orders WHERE status IN (`+placeholders+`) ORDER BY created_at`, args...)
}

// UpdateStatusFrom is a compare-and-set on the status column. Zero affected
// rows means the order moved on (or never existed) since the caller read it.
func (r *SQLOrderRepository) UpdateStatusFrom(ctx context.Context, id int, from, to entity.OrderStatus) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.Newf(apperr.KindConflict, "order is no longer in status %q", from)
	}
	return nil
}

func (r *SQLOrderRepository) list(ctx context.Context, query string, args ...interface{}) ([]entity.Order, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.ZoneID, &o.Address, &o.PaymentMethod, &o.CardID,
			&o.Subtotal, &o.Discount, &o.DeliveryCost, &o.Total, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
