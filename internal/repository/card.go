package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"craftstore/internal/apperr"
	"craftstore/internal/entity"
)

type SQLCardRepository struct {
	db *sql.DB
}

func NewSQLCardRepository(db *sql.DB) *SQLCardRepository {
	return &SQLCardRepository{db: db}
}

func (r *SQLCardRepository) Create(ctx context.Context, c *entity.SimulatedCard) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO cards (user_id, masked_number, holder, expiry_month, expiry_year, balance)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.UserID, c.MaskedNumber, c.Holder, c.ExpiryMonth, c.ExpiryYear, c.Balance)
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

func (r *SQLCardRepository) GetForUser(ctx context.Context, cardID, userID int) (*entity.SimulatedCard, error) {
	c := &entity.SimulatedCard{}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, user_id, masked_number, holder, expiry_month, expiry_year, balance
		 FROM cards WHERE id = ? AND user_id = ?`, cardID, userID).
		Scan(&c.ID, &c.UserID, &c.MaskedNumber, &c.Holder, &c.ExpiryMonth, &c.ExpiryYear, &c.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "card not found")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *SQLCardRepository) ListForUser(ctx context.Context, userID int) ([]entity.SimulatedCard, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT id, user_id, masked_number, holder, expiry_month, expiry_year, balance
		 FROM cards WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.SimulatedCard
	for rows.Next() {
		var c entity.SimulatedCard
		if err := rows.Scan(&c.ID, &c.UserID, &c.MaskedNumber, &c.Holder, &c.ExpiryMonth, &c.ExpiryYear, &c.Balance); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Debit locks the card row so concurrent checkouts against the same card
// serialize on the database, then checks and subtracts the balance. Meant to
// run inside the order transaction.
func (r *SQLCardRepository) Debit(ctx context.Context, cardID, userID int, amount decimal.Decimal) error {
	q := conn(ctx, r.db)

	var balance decimal.Decimal
	err := q.QueryRowContext(ctx,
		`SELECT balance FROM cards WHERE id = ? AND user_id = ? FOR UPDATE`, cardID, userID).
		Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.New(apperr.KindNotFound, "card not found")
	}
	if err != nil {
		return err
	}

	if balance.LessThan(amount) {
		return apperr.New(apperr.KindInsufficientFunds, "insufficient card balance")
	}

	_, err = q.ExecContext(ctx,
		`UPDATE cards SET balance = balance - ? WHERE id = ?`, amount, cardID)
	return err
}

func (r *SQLCardRepository) Credit(ctx context.Context, cardID int, amount decimal.Decimal) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE cards SET balance = balance + ? WHERE id = ?`, amount, cardID)
	if err != nil {
		return err
	}
	return requireRow(res, "card not found")
}
