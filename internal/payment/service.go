package payment

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/Dikshant005/Titan-Strength/internal/logger"
	"github.com/Dikshant005/Titan-Strength/internal/metrics"
	"github.com/Dikshant005/Titan-Strength/internal/plan"
	"github.com/Dikshant005/Titan-Strength/internal/subscription"

	"github.com/google/uuid"
)

var (
	ErrPlanNotFound   = errors.New("plan not found")
	ErrPlanInactive   = errors.New("plan is no longer offered")
	ErrOrderOwnership = errors.New("order does not belong to this user")
	ErrBadWebhook     = errors.New("webhook payload rejected")
)

type Config struct {
	RazorpayKeyID       string
	RazorpayKeySecret   string
	StripeWebhookSecret string
}

type Service interface {
	CreateOrder(ctx context.Context, userID, planID int) (*CreateOrderResponse, error)
	VerifyRazorpay(ctx context.Context, userID int, req VerifyPaymentRequest) (*subscription.Subscription, error)
	HandleStripeWebhook(ctx context.Context, payload []byte, sigHeader string) error
}

type service struct {
	repo     Repository
	planRepo plan.Repository
	ledger   subscription.Service
	cfg      Config
	now      func() time.Time
}

func NewService(repo Repository, planRepo plan.Repository, ledger subscription.Service, cfg Config) Service {
	return &service{
		repo:     repo,
		planRepo: planRepo,
		ledger:   ledger,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *service) CreateOrder(ctx context.Context, userID, planID int) (*CreateOrderResponse, error) {
	p, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if !p.Active {
		return nil, ErrPlanInactive
	}

	// Creating an order for someone already covered would only set up a
	// guaranteed verification failure later.
	if _, err := s.ledger.GetActive(ctx, userID); err == nil {
		return nil, subscription.ErrDuplicateActiveSubscription
	} else if !errors.Is(err, subscription.ErrNoActiveSubscription) {
		return nil, err
	}

	reference := "order_" + uuid.NewString()
	order, err := s.repo.CreateOrder(ctx, reference, userID, planID, p.Price, "INR")
	if err != nil {
		return nil, err
	}

	return &CreateOrderResponse{
		OrderID:  order.Reference,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.cfg.RazorpayKeyID,
	}, nil
}

func (s *service) VerifyRazorpay(ctx context.Context, userID int, req VerifyPaymentRequest) (*subscription.Subscription, error) {
	order, err := s.repo.FindByReference(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderOwnership
	}
	if order.Status != OrderPending {
		return nil, ErrOrderConsumed
	}

	if !VerifyRazorpaySignature(s.cfg.RazorpayKeySecret, req.OrderID, req.PaymentID, req.Signature) {
		metrics.RecordPaymentVerification("razorpay", "mismatch")
		return nil, ErrSignatureMismatch
	}
	metrics.RecordPaymentVerification("razorpay", "verified")

	sub, err := s.ledger.IssueForUser(ctx, userID, order.PlanID, subscription.IssueContext{
		Method:     subscription.MethodRazorpay,
		OrderID:    req.OrderID,
		PaymentID:  req.PaymentID,
		AmountPaid: order.Amount,
		Currency:   order.Currency,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkPaid(ctx, req.OrderID); err != nil {
		// The subscription exists; a failed flag update is an audit gap,
		// not a reason to fail the member's payment.
		logger.Errorf("failed to mark order %s paid: %v", req.OrderID, err)
	}

	return sub, nil
}

func (s *service) HandleStripeWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	if err := VerifyStripeSignature(s.cfg.StripeWebhookSecret, payload, sigHeader, s.now()); err != nil {
		metrics.RecordPaymentVerification("stripe", "mismatch")
		return err
	}
	metrics.RecordPaymentVerification("stripe", "verified")

	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return ErrBadWebhook
	}

	if event.Type != "checkout.session.completed" {
		// Other event types are acknowledged and dropped.
		return nil
	}

	userID, err := strconv.Atoi(event.Data.Object.Metadata["user_id"])
	if err != nil {
		return ErrBadWebhook
	}
	planID, err := strconv.Atoi(event.Data.Object.Metadata["plan_id"])
	if err != nil {
		return ErrBadWebhook
	}

	p, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return ErrBadWebhook
	}

	_, err = s.ledger.IssueForUser(ctx, userID, planID, subscription.IssueContext{
		Method:     subscription.MethodStripe,
		OrderID:    event.Data.Object.ID,
		PaymentID:  event.Data.Object.PaymentIntent,
		AmountPaid: p.Price,
		Currency:   "USD",
	})
	return err
}
