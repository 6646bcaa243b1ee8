package payment

import "context"

type Repository interface {
	CreateOrder(ctx context.Context, reference string, userID, planID int, amount int64, currency string) (*Order, error)
	FindByReference(ctx context.Context, reference string) (*Order, error)

	// MarkPaid flips a pending order to paid; an order that was already
	// consumed reports ErrOrderConsumed so a replayed verification cannot
	// issue twice.
	MarkPaid(ctx context.Context, reference string) error
}
