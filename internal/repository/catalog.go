package repository

import (
	"context"
	"database/sql"
	"errors"

	"craftstore/internal/apperr"
	"craftstore/internal/entity"
)

type SQLCategoryRepository struct {
	db *sql.DB
}

func NewSQLCategoryRepository(db *sql.DB) *SQLCategoryRepository {
	return &SQLCategoryRepository{db: db}
}

func (r *SQLCategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO categories (name, active) VALUES (?, ?)`, c.Name, c.Active)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = int(id)
	return nil
}

func (r *SQLCategoryRepository) Update(ctx context.Context, c *entity.Category) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE categories SET name = ? WHERE id = ?`, c.Name, c.ID)
	return err
}

func (r *SQLCategoryRepository) SetActive(ctx context.Context, id int, active bool) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE categories SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	return requireRow(res, "category not found")
}

func (r *SQLCategoryRepository) GetByID(ctx context.Context, id int) (*entity.Category, error) {
	c := &entity.Category{}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, name, active FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "category not found")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *SQLCategoryRepository) List(ctx context.Context, activeOnly bool) ([]entity.Category, error) {
	query := `SELECT id, name, active FROM categories`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Active); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type SQLProductRepository struct {
	db *sql.DB
}

func NewSQLProductRepository(db *sql.DB) *SQLProductRepository {
	return &SQLProductRepository{db: db}
}

func (r *SQLProductRepository) Create(ctx context.Context, p *entity.Product) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO products (category_id, name, description, active) VALUES (?, ?, ?, ?)`,
		p.CategoryID, p.Name, p.Description, p.Active)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = int(id)
	return nil
}

func (r *SQLProductRepository) Update(ctx context.Context, p *entity.Product) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE products SET category_id = ?, name = ?, description = ? WHERE id = ?`,
		p.CategoryID, p.Name, p.Description, p.ID)
	return err
}

func (r *SQLProductRepository) SetActive(ctx context.Context, id int, active bool) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE products SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	return requireRow(res, "product not found")
}

func (r *SQLProductRepository) GetByID(ctx context.Context, id int) (*entity.Product, error) {
	p := &entity.Product{}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, category_id, name, description, active FROM products WHERE id = ?`, id).
		Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "product not found")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLProductRepository) ListByCategory(ctx context.Context, categoryID int) ([]entity.Product, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT id, category_id, name, description, active FROM products
		 WHERE category_id = ? AND active = TRUE`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.Active); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type SQLVariantRepository struct {
	db *sql.DB
}

func NewSQLVariantRepository(db *sql.DB) *SQLVariantRepository {
	return &SQLVariantRepository{db: db}
}

func (r *SQLVariantRepository) Create(ctx context.Context, v *entity.Variant) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO variants (product_id, label, unit_price, stock) VALUES (?, ?, ?, ?)`,
		v.ProductID, v.Label, v.UnitPrice, v.Stock)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = int(id)
	return nil
}

func (r *SQLVariantRepository) Update(ctx context.Context, v *entity.Variant) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE variants SET label = ?, unit_price = ?, stock = ? WHERE id = ?`,
		v.Label, v.UnitPrice, v.Stock, v.ID)
	return err
}

func (r *SQLVariantRepository) GetByID(ctx context.Context, id int) (*entity.Variant, error) {
	v := &entity.Variant{}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, product_id, label, unit_price, stock FROM variants WHERE id = ?`, id).
		Scan(&v.ID, &v.ProductID, &v.Label, &v.UnitPrice, &v.Stock)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "variant not found")
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *SQLVariantRepository) ListByProduct(ctx context.Context, productID int) ([]entity.Variant, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT id, product_id, label, unit_price, stock FROM variants WHERE product_id = ?`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Variant
	for rows.Next() {
		var v entity.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Label, &v.UnitPrice, &v.Stock); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// DecrementStock subtracts quantity guarded by the remaining stock, so an
// oversell fails the checkout transaction instead of silently flooring at
// zero (which a later cancel would then over-restore).
func (r *SQLVariantRepository) DecrementStock(ctx context.Context, variantID, quantity int) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE variants SET stock = stock - ? WHERE id = ? AND stock >= ?`,
		quantity, variantID, quantity)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.New(apperr.KindValidation, "insufficient stock")
	}
	return nil
}

func (r *SQLVariantRepository) RestoreStock(ctx context.Context, variantID, quantity int) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE variants SET stock = stock + ? WHERE id = ?`, quantity, variantID)
	return err
}
