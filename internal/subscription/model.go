package subscription

import "time"

type Status string
type PaymentMethod string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"

	MethodManual   PaymentMethod = "manual"
	MethodCash     PaymentMethod = "cash"
	MethodRazorpay PaymentMethod = "razorpay"
	MethodStripe   PaymentMethod = "stripe"
)

type Subscription struct {
	ID                int           `db:"id" json:"id"`
	UserID            int           `db:"user_id" json:"user_id"`
	PlanID            int           `db:"plan_id" json:"plan_id"`
	Status            Status        `db:"status" json:"status"`
	StartDate         time.Time     `db:"start_date" json:"start_date"`
	EndDate           time.Time     `db:"end_date" json:"end_date"`
	PaymentMethod     PaymentMethod `db:"payment_method" json:"payment_method"`
	ProviderOrderID   *string       `db:"provider_order_id" json:"provider_order_id,omitempty"`
	ProviderPaymentID *string       `db:"provider_payment_id" json:"provider_payment_id,omitempty"`
	AmountPaid        int64         `db:"amount_paid" json:"amount_paid"`
	Currency          string        `db:"currency" json:"currency"`
	CreatedAt         time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updated_at"`
}

type SubscriptionWithPlan struct {
	Subscription
	PlanName         string `db:"plan_name" json:"plan_name"`
	PlanPrice        int64  `db:"plan_price" json:"plan_price"`
	PlanDurationDays int    `db:"plan_duration_days" json:"plan_duration_days"`
	UserName         string `db:"user_name" json:"user_name"`
	UserEmail        string `db:"user_email" json:"user_email"`
}

// IssueContext carries the payment proof a writer presents when asking the
// ledger for a new subscription. Provider identifiers are stored verbatim for
// audit; they are never re-verified after creation.
type IssueContext struct {
	Method     PaymentMethod
	OrderID    string
	PaymentID  string
	AmountPaid int64
	Currency   string
}

type CreateSubscriptionRequest struct {
	Email         string `json:"email" binding:"required,email"`
	PlanID        int    `json:"plan_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"omitempty,oneof=manual cash"`
}

// ExpiredPair is one unit of sweeper work: a lapsed subscription and the user
// whose role may need the member downgrade.
type ExpiredPair struct {
	SubscriptionID int `db:"id"`
	UserID         int `db:"user_id"`
}
