package repository

import (
	"context"
	"database/sql"

	"craftstore/internal/entity"
)

type SQLCartRepository struct {
	db *sql.DB
}

func NewSQLCartRepository(db *sql.DB) *SQLCartRepository {
	return &SQLCartRepository{db: db}
}

// Upsert adds quantity to an existing line for the variant, or inserts one.
func (r *SQLCartRepository) Upsert(ctx context.Context, userID, variantID, quantity int) error {
	query := `INSERT INTO cart_items (user_id, variant_id, quantity) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`
	_, err := conn(ctx, r.db).ExecContext(ctx, query, userID, variantID, quantity)
	return err
}

func (r *SQLCartRepository) UpdateQuantity(ctx context.Context, userID, variantID, quantity int) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE cart_items SET quantity = ? WHERE user_id = ? AND variant_id = ?`,
		quantity, userID, variantID)
	if err != nil {
		return err
	}
	return requireRow(res, "cart item not found")
}

func (r *SQLCartRepository) Remove(ctx context.Context, userID, variantID int) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = ? AND variant_id = ?`, userID, variantID)
	if err != nil {
		return err
	}
	return requireRow(res, "cart item not found")
}

func (r *SQLCartRepository) Clear(ctx context.Context, userID int) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}

func (r *SQLCartRepository) ListForUser(ctx context.Context, userID int) ([]entity.CartItem, error) {
	query := `SELECT ci.id, ci.user_id, ci.variant_id, ci.quantity, p.name, v.label, v.unit_price
		FROM cart_items ci
		JOIN variants v ON v.id = ci.variant_id
		JOIN products p ON p.id = v.product_id
		WHERE ci.user_id = ?
		ORDER BY ci.id`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.CartItem
	for rows.Next() {
		var it entity.CartItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.VariantID, &it.Quantity, &it.Product, &it.Label, &it.UnitPrice); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
