package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dikshant005/Titan-Strength/internal/metrics"
	"github.com/Dikshant005/Titan-Strength/internal/plan"
	"github.com/Dikshant005/Titan-Strength/internal/user"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrPlanNotFound = errors.New("plan not found")
	ErrPlanInactive = errors.New("plan is no longer offered")
)

// Notifier is the fire-and-forget notification hook. Implementations must
// never propagate failures into the issuing request.
type Notifier interface {
	Notify(ctx context.Context, userID int, title, message string)
}

type Service interface {
	// IssueByEmail is the manual (cash desk) writer into the ledger.
	IssueByEmail(ctx context.Context, email string, planID int, method PaymentMethod) (*Subscription, error)

	// IssueForUser is the writer the payment adapters use after verifying a
	// payment proof.
	IssueForUser(ctx context.Context, userID, planID int, issue IssueContext) (*Subscription, error)

	GetActive(ctx context.Context, userID int) (*Subscription, error)
	ListByUser(ctx context.Context, userID int) ([]SubscriptionWithPlan, error)
	ListAll(ctx context.Context, emailFilter string) ([]SubscriptionWithPlan, error)
	Cancel(ctx context.Context, subscriptionID int) error
}

type service struct {
	repo     Repository
	planRepo plan.Repository
	userRepo user.Repository
	notifier Notifier
}

func NewService(repo Repository, planRepo plan.Repository, userRepo user.Repository, notifier Notifier) Service {
	return &service{
		repo:     repo,
		planRepo: planRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

func (s *service) IssueByEmail(ctx context.Context, email string, planID int, method PaymentMethod) (*Subscription, error) {
	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if method == "" {
		method = MethodManual
	}

	p, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	return s.issue(ctx, u.ID, p, IssueContext{
		Method:     method,
		AmountPaid: p.Price,
		Currency:   "INR",
	})
}

func (s *service) IssueForUser(ctx context.Context, userID, planID int, issue IssueContext) (*Subscription, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, ErrUserNotFound
	}

	p, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	return s.issue(ctx, userID, p, issue)
}

func (s *service) issue(ctx context.Context, userID int, p *plan.Plan, issue IssueContext) (*Subscription, error) {
	if !p.Active {
		return nil, ErrPlanInactive
	}

	// The read here only produces a friendly early rejection; the partial
	// unique index inside Issue is what actually closes the race between
	// the three writers.
	if _, err := s.repo.ActiveForUser(ctx, userID); err == nil {
		metrics.SubscriptionConflictsTotal.Inc()
		return nil, ErrDuplicateActiveSubscription
	} else if !errors.Is(err, ErrNoActiveSubscription) {
		return nil, err
	}

	sub, err := s.repo.Issue(ctx, userID, p.ID, p.DurationDays, issue)
	if err != nil {
		if errors.Is(err, ErrDuplicateActiveSubscription) {
			metrics.SubscriptionConflictsTotal.Inc()
		}
		return nil, err
	}

	metrics.RecordSubscriptionIssued(string(issue.Method))

	if s.notifier != nil {
		s.notifier.Notify(ctx, userID,
			"Membership Activated",
			fmt.Sprintf("Your %s membership is active until %s.", p.Name, sub.EndDate.Format("Jan 2, 2006")),
		)
	}

	return sub, nil
}

func (s *service) GetActive(ctx context.Context, userID int) (*Subscription, error) {
	return s.repo.ActiveForUser(ctx, userID)
}

func (s *service) ListByUser(ctx context.Context, userID int) ([]SubscriptionWithPlan, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListAll(ctx context.Context, emailFilter string) ([]SubscriptionWithPlan, error) {
	return s.repo.ListAll(ctx, emailFilter)
}

func (s *service) Cancel(ctx context.Context, subscriptionID int) error {
	return s.repo.Cancel(ctx, subscriptionID)
}
