package repository

import (
	"context"
	"database/sql"
	"errors"

	"craftstore/internal/apperr"
	"craftstore/internal/entity"
)

type SQLZoneRepository struct {
	db *sql.DB
}

func NewSQLZoneRepository(db *sql.DB) *SQLZoneRepository {
	return &SQLZoneRepository{db: db}
}

func (r *SQLZoneRepository) Create(ctx context.Context, z *entity.DeliveryZone) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO delivery_zones (district, cost, estimated_days, active) VALUES (?, ?, ?, ?)`,
		z.District, z.Cost, z.EstimatedDays, z.Active)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	z.ID = int(id)
	return nil
}

func (r *SQLZoneRepository) Update(ctx context.Context, z *entity.DeliveryZone) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE delivery_zones SET district = ?, cost = ?, estimated_days = ? WHERE id = ?`,
		z.District, z.Cost, z.EstimatedDays, z.ID)
	return err
}

func (r *SQLZoneRepository) SetActive(ctx context.Context, id int, active bool) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE delivery_zones SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	return requireRow(res, "delivery zone not found")
}

func (r *SQLZoneRepository) GetByID(ctx context.Context, id int) (*entity.DeliveryZone, error) {
	z := &entity.DeliveryZone{}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, district, cost, estimated_days, active FROM delivery_zones WHERE id = ?`, id).
		Scan(&z.ID, &z.District, &z.Cost, &z.EstimatedDays, &z.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "delivery zone not found")
	}
	if err != nil {
		return nil, err
	}
	return z, nil
}

func (r *SQLZoneRepository) List(ctx context.Context, activeOnly bool) ([]entity.DeliveryZone, error) {
	query := `SELECT id, district, cost, estimated_days, active FROM delivery_zones`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.DeliveryZone
	for rows.Next() {
		var z entity.DeliveryZone
		if err := rows.Scan(&z.ID, &z.District, &z.Cost, &z.EstimatedDays, &z.Active); err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}
