package subscription

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrNoActiveSubscription        = errors.New("no active subscription")
	ErrSubscriptionNotFound        = errors.New("subscription not found")
	ErrDuplicateActiveSubscription = errors.New("user already has an active subscription")
)

const subscriptionColumns = `id, user_id, plan_id, status, start_date, end_date,
	payment_method, provider_order_id, provider_payment_id, amount_paid, currency,
	created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Issue(ctx context.Context, userID, planID, durationDays int, issue IssueContext) (*Subscription, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// A lapsed subscription the nightly sweep has not reached yet must not
	// block re-issuance, so it is retired here first. This also frees the
	// partial unique index slot for the insert below.
	_, err = tx.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = 'expired', updated_at = NOW()
		WHERE user_id = $1 AND status = 'active' AND end_date < NOW()
	`, userID)
	if err != nil {
		return nil, err
	}

	var orderID, paymentID *string
	if issue.OrderID != "" {
		orderID = &issue.OrderID
	}
	if issue.PaymentID != "" {
		paymentID = &issue.PaymentID
	}

	sub := &Subscription{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO subscriptions (user_id, plan_id, status, start_date, end_date,
			payment_method, provider_order_id, provider_payment_id, amount_paid, currency)
		VALUES ($1, $2, 'active', NOW(), NOW() + make_interval(days => $3), $4, $5, $6, $7, $8)
		RETURNING `+subscriptionColumns+`
	`, userID, planID, durationDays, issue.Method, orderID, paymentID, issue.AmountPaid, issue.Currency).StructScan(sub)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateActiveSubscription
		}
		return nil, err
	}

	// Membership role transitions happen only here and in ExpirePair. The
	// role guard keeps staff accounts (owner/manager/trainer) untouched.
	_, err = tx.ExecContext(ctx, `
		UPDATE users
		SET role = 'member'
		WHERE id = $1 AND role = 'user'
	`, userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return sub, nil
}

func (r *repository) ActiveForUser(ctx context.Context, userID int) (*Subscription, error) {
	sub := &Subscription{}
	err := r.db.GetContext(ctx, sub, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE user_id = $1
		  AND status = 'active'
		  AND end_date >= NOW()
		ORDER BY end_date DESC
		LIMIT 1
	`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveSubscription
		}
		return nil, err
	}

	return sub, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]SubscriptionWithPlan, error) {
	subs := []SubscriptionWithPlan{}
	err := r.db.SelectContext(ctx, &subs, `
		SELECT
			s.id, s.user_id, s.plan_id, s.status, s.start_date, s.end_date,
			s.payment_method, s.provider_order_id, s.provider_payment_id,
			s.amount_paid, s.currency, s.created_at, s.updated_at,
			p.name AS plan_name,
			p.price AS plan_price,
			p.duration_days AS plan_duration_days,
			u.name AS user_name,
			u.email AS user_email
		FROM subscriptions s
		JOIN plans p ON s.plan_id = p.id
		JOIN users u ON s.user_id = u.id
		WHERE s.user_id = $1
		ORDER BY s.start_date DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repository) ListAll(ctx context.Context, emailFilter string) ([]SubscriptionWithPlan, error) {
	query := `
		SELECT
			s.id, s.user_id, s.plan_id, s.status, s.start_date, s.end_date,
			s.payment_method, s.provider_order_id, s.provider_payment_id,
			s.amount_paid, s.currency, s.created_at, s.updated_at,
			p.name AS plan_name,
			p.price AS plan_price,
			p.duration_days AS plan_duration_days,
			u.name AS user_name,
			u.email AS user_email
		FROM subscriptions s
		JOIN plans p ON s.plan_id = p.id
		JOIN users u ON s.user_id = u.id
	`

	args := []interface{}{}
	if emailFilter != "" {
		query += ` WHERE u.email = $1`
		args = append(args, emailFilter)
	}
	query += ` ORDER BY s.start_date DESC`

	subs := []SubscriptionWithPlan{}
	err := r.db.SelectContext(ctx, &subs, query, args...)
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repository) Cancel(ctx context.Context, subscriptionID int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status = 'active'
	`, subscriptionID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

func (r *repository) ListExpiredActive(ctx context.Context) ([]ExpiredPair, error) {
	pairs := []ExpiredPair{}
	err := r.db.SelectContext(ctx, &pairs, `
		SELECT id, user_id
		FROM subscriptions
		WHERE status = 'active' AND end_date < NOW()
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	return pairs, nil
}

func (r *repository) ExpirePair(ctx context.Context, pair ExpiredPair) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Guarding on status makes a second sweep over the same row a no-op.
	result, err := tx.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = 'expired', updated_at = NOW()
		WHERE id = $1 AND status = 'active'
	`, pair.SubscriptionID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return tx.Commit()
	}

	// Downgrade only ever applies to members; staff roles are never written.
	_, err = tx.ExecContext(ctx, `
		UPDATE users
		SET role = 'user'
		WHERE id = $1 AND role = 'member'
	`, pair.UserID)
	if err != nil {
		return err
	}

	return tx.Commit()
}
