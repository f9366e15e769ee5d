package repository

import (
	"context"
	"database/sql"
	"errors"

	"craftstore/internal/apperr"
	"craftstore/internal/entity"
)

type SQLUserRepository struct {
	db *sql.DB
}

func NewSQLUserRepository(db *sql.DB) *SQLUserRepository {
	return &SQLUserRepository{db: db}
}

func (r *SQLUserRepository) Create(ctx context.Context, u *entity.User) error {
	query := `INSERT INTO users (name, email, password, role, active) VALUES (?, ?, ?, ?, ?)`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, u.Name, u.Email, u.Password, u.Role, u.Active)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = int(id)
	return nil
}

func (r *SQLUserRepository) GetByID(ctx context.Context, id int) (*entity.User, error) {
	user := &entity.User{}
	query := `SELECT id, name, email, password, role, active FROM users WHERE id = ?`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.Role, &user.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *SQLUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	user := &entity.User{}
	query := `SELECT id, name, email, password, role, active FROM users WHERE email = ?`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.Role, &user.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *SQLUserRepository) SetActive(ctx context.Context, id int, active bool) error {
	query := `UPDATE users SET active = ? WHERE id = ?`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, active, id)
	if err != nil {
		return err
	}
	return requireRow(res, "user not found")
}

// requireRow converts a zero-row update into NotFound.
func requireRow(res sql.Result, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.New(apperr.KindNotFound, msg)
	}
	return nil
}
