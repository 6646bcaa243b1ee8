package payment

import "time"

type OrderStatus string

const (
	OrderPending OrderStatus = "pending"
	OrderPaid    OrderStatus = "paid"
)

// Order is the audit/idempotency record for a provider checkout. Reference is
// the opaque id handed to the frontend and echoed back by the provider.
type Order struct {
	ID        int         `db:"id" json:"id"`
	Reference string      `db:"reference" json:"reference"`
	UserID    int         `db:"user_id" json:"user_id"`
	PlanID    int         `db:"plan_id" json:"plan_id"`
	Amount    int64       `db:"amount" json:"amount"`
	Currency  string      `db:"currency" json:"currency"`
	Status    OrderStatus `db:"status" json:"status"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

type CreateOrderRequest struct {
	PlanID int `json:"plan_id" binding:"required"`
}

type CreateOrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// stripeEvent is the subset of the webhook payload this service reads.
type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID            string            `json:"id"`
			PaymentIntent string            `json:"payment_intent"`
			Metadata      map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}
