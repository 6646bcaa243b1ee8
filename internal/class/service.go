package class

import (
	"context"
	"errors"
	"time"

	"github.com/Dikshant005/Titan-Strength/internal/auth"
	"github.com/Dikshant005/Titan-Strength/internal/metrics"
	"github.com/Dikshant005/Titan-Strength/internal/plan"
	"github.com/Dikshant005/Titan-Strength/internal/subscription"
	"github.com/Dikshant005/Titan-Strength/internal/user"
)

var (
	ErrNotTrainer         = errors.New("assigned user is not a trainer")
	ErrNoMembership       = errors.New("active membership required")
	ErrPlanForbidsBooking = errors.New("membership plan does not include class booking")
	ErrWeeklyLimitReached = errors.New("weekly class booking limit reached")
	ErrSessionStarted     = errors.New("class session has already started")
)

type Service interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (*Session, error)
	GetSession(ctx context.Context, id int) (*Session, error)
	ListUpcoming(ctx context.Context) ([]SessionWithAvailability, error)
	UpdateSession(ctx context.Context, id int, req UpdateSessionRequest) (*Session, error)
	CancelSession(ctx context.Context, id int) error

	Book(ctx context.Context, sessionID, userID int) (*Attendance, bool, error)
	CancelBooking(ctx context.Context, sessionID, userID int) (bool, error)
	MarkAttendance(ctx context.Context, sessionID int, req MarkAttendanceRequest, markedBy int) (*Attendance, error)

	Roster(ctx context.Context, sessionID int) ([]AttendanceWithUser, error)
	MyBookings(ctx context.Context, userID int) ([]BookingWithSession, error)
}

type service struct {
	repo     Repository
	planRepo plan.Repository
	userRepo user.Repository
	ledger   subscription.Service
	now      func() time.Time
}

func NewService(repo Repository, planRepo plan.Repository, userRepo user.Repository, ledger subscription.Service) Service {
	return &service{
		repo:     repo,
		planRepo: planRepo,
		userRepo: userRepo,
		ledger:   ledger,
		now:      time.Now,
	}
}

func (s *service) CreateSession(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	if req.TrainerID != nil {
		trainer, err := s.userRepo.FindByID(ctx, *req.TrainerID)
		if err != nil {
			return nil, ErrNotTrainer
		}
		switch trainer.Role {
		case auth.RoleTrainer, auth.RoleManager, auth.RoleOwner:
		default:
			return nil, ErrNotTrainer
		}
	}

	capacity := req.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return s.repo.CreateSession(ctx, req, capacity)
}

func (s *service) GetSession(ctx context.Context, id int) (*Session, error) {
	return s.repo.FindSessionByID(ctx, id)
}

func (s *service) ListUpcoming(ctx context.Context) ([]SessionWithAvailability, error) {
	return s.repo.ListUpcoming(ctx)
}

func (s *service) UpdateSession(ctx context.Context, id int, req UpdateSessionRequest) (*Session, error) {
	if req.TrainerID != nil {
		trainer, err := s.userRepo.FindByID(ctx, *req.TrainerID)
		if err != nil {
			return nil, ErrNotTrainer
		}
		switch trainer.Role {
		case auth.RoleTrainer, auth.RoleManager, auth.RoleOwner:
		default:
			return nil, ErrNotTrainer
		}
	}

	return s.repo.UpdateSession(ctx, id, req)
}

func (s *service) CancelSession(ctx context.Context, id int) error {
	return s.repo.CancelSession(ctx, id)
}

func (s *service) Book(ctx context.Context, sessionID, userID int) (*Attendance, bool, error) {
	session, err := s.repo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	if session.Status == SessionCancelled {
		return nil, false, ErrSessionCancelled
	}
	if session.StartsAt.Before(s.now()) {
		return nil, false, ErrSessionStarted
	}

	sub, err := s.ledger.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, subscription.ErrNoActiveSubscription) {
			metrics.RecordBooking("no_membership")
			return nil, false, ErrNoMembership
		}
		return nil, false, err
	}

	p, err := s.planRepo.FindByID(ctx, sub.PlanID)
	if err != nil {
		return nil, false, err
	}
	if !p.CanBookClasses {
		metrics.RecordBooking("plan_forbids")
		return nil, false, ErrPlanForbidsBooking
	}

	if p.MaxClassesPerWeek > 0 {
		count, err := s.repo.CountBookingsInWeek(ctx, userID, weekStart(session.StartsAt))
		if err != nil {
			return nil, false, err
		}
		if count >= p.MaxClassesPerWeek {
			metrics.RecordBooking("weekly_limit")
			return nil, false, ErrWeeklyLimitReached
		}
	}

	attendance, created, err := s.repo.Book(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, ErrSessionFull) {
			metrics.RecordBooking("full")
		}
		return nil, false, err
	}

	if created {
		metrics.RecordBooking("booked")
	}

	return attendance, created, nil
}

func (s *service) CancelBooking(ctx context.Context, sessionID, userID int) (bool, error) {
	if _, err := s.repo.FindSessionByID(ctx, sessionID); err != nil {
		return false, err
	}

	return s.repo.CancelBooking(ctx, sessionID, userID)
}

func (s *service) MarkAttendance(ctx context.Context, sessionID int, req MarkAttendanceRequest, markedBy int) (*Attendance, error) {
	if _, err := s.repo.FindSessionByID(ctx, sessionID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	return s.repo.MarkAttendance(ctx, sessionID, req.UserID, AttendanceStatus(req.Status), markedBy)
}

func (s *service) Roster(ctx context.Context, sessionID int) ([]AttendanceWithUser, error) {
	if _, err := s.repo.FindSessionByID(ctx, sessionID); err != nil {
		return nil, err
	}

	return s.repo.Roster(ctx, sessionID)
}

func (s *service) MyBookings(ctx context.Context, userID int) ([]BookingWithSession, error) {
	return s.repo.ListBookingsByUser(ctx, userID)
}

// weekStart truncates to the Monday midnight (UTC) of the week holding t, so
// weekly limits count calendar weeks rather than rolling windows.
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	day := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}
