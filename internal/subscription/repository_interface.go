package subscription

import "context"

type Repository interface {
	// Issue creates an active subscription for the user inside a single
	// transaction and upgrades their role to member. The partial unique
	// index on (user_id) WHERE status='active' is what makes concurrent
	// issuance attempts safe; a lost race surfaces as
	// ErrDuplicateActiveSubscription.
	Issue(ctx context.Context, userID, planID, durationDays int, issue IssueContext) (*Subscription, error)

	// ActiveForUser returns the user's subscription that is active both by
	// status and by end date. Rows past their end date are not active even
	// when the sweeper has not processed them yet.
	ActiveForUser(ctx context.Context, userID int) (*Subscription, error)

	ListByUser(ctx context.Context, userID int) ([]SubscriptionWithPlan, error)
	ListAll(ctx context.Context, emailFilter string) ([]SubscriptionWithPlan, error)
	Cancel(ctx context.Context, subscriptionID int) error

	// ListExpiredActive and ExpirePair exist for the sweeper: the scan
	// filter (status=active) makes repeat runs no-ops, and each pair is
	// expired in its own transaction together with the role downgrade.
	ListExpiredActive(ctx context.Context) ([]ExpiredPair, error)
	ExpirePair(ctx context.Context, pair ExpiredPair) error
}
