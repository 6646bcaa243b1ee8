package payment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrOrderNotFound = errors.New("payment order not found")
	ErrOrderConsumed = errors.New("payment order already consumed")
)

const orderColumns = `id, reference, user_id, plan_id, amount, currency, status, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrder(ctx context.Context, reference string, userID, planID int, amount int64, currency string) (*Order, error) {
	order := &Order{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO payment_orders (reference, user_id, plan_id, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING `+orderColumns+`
	`, reference, userID, planID, amount, currency).StructScan(order)
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (r *repository) FindByReference(ctx context.Context, reference string) (*Order, error) {
	order := &Order{}
	err := r.db.GetContext(ctx, order, `
		SELECT `+orderColumns+`
		FROM payment_orders
		WHERE reference = $1
	`, reference)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	return order, nil
}

func (r *repository) MarkPaid(ctx context.Context, reference string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE payment_orders
		SET status = 'paid', updated_at = NOW()
		WHERE reference = $1 AND status = 'pending'
	`, reference)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrOrderConsumed
	}

	return nil
}
