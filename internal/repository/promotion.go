package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"craftstore/internal/apperr"
	"craftstore/internal/entity"
)

type SQLPromotionRepository struct {
	db *sql.DB
}

func NewSQLPromotionRepository(db *sql.DB) *SQLPromotionRepository {
	return &SQLPromotionRepository{db: db}
}

func (r *SQLPromotionRepository) Create(ctx context.Context, p *entity.Promotion) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO promotions (name, type, value, starts_at, ends_at, active) VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, p.Type, p.Value, p.StartsAt, p.EndsAt, p.Active)
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

func (r *SQLPromotionRepository) Update(ctx context.Context, p *entity.Promotion) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE promotions SET name = ?, type = ?, value = ?, starts_at = ?, ends_at = ? WHERE id = ?`,
		p.Name, p.Type, p.Value, p.StartsAt, p.EndsAt, p.ID)
	return err
}

func (r *SQLPromotionRepository) SetActive(ctx context.Context, id int, active bool) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE promotions SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	return requireRow(res, "promotion not found")
}

func (r *SQLPromotionRepository) GetByID(ctx context.Context, id int) (*entity.Promotion, error) {
	p := &entity.Promotion{}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, name, type, value, starts_at, ends_at, active FROM promotions WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Type, &p.Value, &p.StartsAt, &p.EndsAt, &p.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "promotion not found")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLPromotionRepository) List(ctx context.Context) ([]entity.Promotion, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT id, name, type, value, starts_at, ends_at, active FROM promotions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Promotion
	for rows.Next() {
		var p entity.Promotion
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.Value, &p.StartsAt, &p.EndsAt, &p.Active); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLPromotionRepository) Attach(ctx context.Context, promotionID, variantID int) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT IGNORE INTO promotion_variants (promotion_id, variant_id) VALUES (?, ?)`,
		promotionID, variantID)
	return err
}

func (r *SQLPromotionRepository) Detach(ctx context.Context, promotionID, variantID int) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`DELETE FROM promotion_variants WHERE promotion_id = ? AND variant_id = ?`,
		promotionID, variantID)
	return err
}

func (r *SQLPromotionRepository) ActiveForVariant(ctx context.Context, variantID int, asOf time.Time) (*entity.Promotion, error) {
	p := &entity.Promotion{}
	query := `SELECT p.id, p.name, p.type, p.value, p.starts_at, p.ends_at, p.active
		FROM promotions p
		JOIN promotion_variants pv ON pv.promotion_id = p.id
		WHERE pv.variant_id = ? AND p.active = TRUE AND p.starts_at <= ? AND p.ends_at >= ?
		ORDER BY p.starts_at DESC
		LIMIT 1`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, variantID, asOf, asOf).
		Scan(&p.ID, &p.Name, &p.Type, &p.Value, &p.StartsAt, &p.EndsAt, &p.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
