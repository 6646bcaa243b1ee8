package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/Dikshant005/Titan-Strength/internal/metrics"
	"github.com/Dikshant005/Titan-Strength/internal/subscription"
)

var ErrNoMembership = errors.New("active membership required")

const defaultHistoryLimit = 50

type Service interface {
	// CheckIn opens a visit for the member. If a visit is already open it is
	// returned unchanged; the bool reports whether a new one was opened.
	CheckIn(ctx context.Context, userID int) (*Visit, bool, error)

	// CheckOut closes the member's open visit. With none open it is a no-op
	// and returns a nil visit.
	CheckOut(ctx context.Context, userID int) (*Visit, bool, error)

	History(ctx context.Context, userID int) ([]Visit, error)
	MonthlyVisits(ctx context.Context, userID int, now time.Time) (*MonthlySummary, error)
}

type service struct {
	repo   Repository
	ledger subscription.Service
}

func NewService(repo Repository, ledger subscription.Service) Service {
	return &service{repo: repo, ledger: ledger}
}

func (s *service) CheckIn(ctx context.Context, userID int) (*Visit, bool, error) {
	if _, err := s.ledger.GetActive(ctx, userID); err != nil {
		if errors.Is(err, subscription.ErrNoActiveSubscription) {
			return nil, false, ErrNoMembership
		}
		return nil, false, err
	}

	open, err := s.repo.FindOpenVisit(ctx, userID)
	if err == nil {
		return open, false, nil
	}
	if !errors.Is(err, ErrNoOpenVisit) {
		return nil, false, err
	}

	visit, err := s.repo.CheckIn(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	metrics.CheckInsTotal.Inc()
	return visit, true, nil
}

func (s *service) CheckOut(ctx context.Context, userID int) (*Visit, bool, error) {
	open, err := s.repo.FindOpenVisit(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoOpenVisit) {
			return nil, false, nil
		}
		return nil, false, err
	}

	visit, err := s.repo.CloseVisit(ctx, open.ID)
	if err != nil {
		if errors.Is(err, ErrNoOpenVisit) {
			// Someone closed it between the read and the update.
			return nil, false, nil
		}
		return nil, false, err
	}

	return visit, true, nil
}

func (s *service) History(ctx context.Context, userID int) ([]Visit, error) {
	return s.repo.History(ctx, userID, defaultHistoryLimit)
}

func (s *service) MonthlyVisits(ctx context.Context, userID int, now time.Time) (*MonthlySummary, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	count, err := s.repo.CountVisitsSince(ctx, userID, monthStart)
	if err != nil {
		return nil, err
	}

	return &MonthlySummary{
		Month:  monthStart.Format("2006-01"),
		Visits: count,
	}, nil
}
