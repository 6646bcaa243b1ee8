package notification

import (
	"context"

	"github.com/Dikshant005/Titan-Strength/internal/logger"
	"github.com/Dikshant005/Titan-Strength/internal/metrics"
	"github.com/Dikshant005/Titan-Strength/internal/user"
)

// EmailQueue is the outbound email hook. The Mailer satisfies it; a nil
// queue disables email delivery while keeping in-app notifications.
type EmailQueue interface {
	Queue(ctx context.Context, to, name, subject, body string) error
}

type Service interface {
	// Notify records an in-app notification and queues a best-effort email.
	// It never returns an error; delivery problems are logged and counted.
	Notify(ctx context.Context, userID int, title, message string)

	ListMine(ctx context.Context, userID int) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID int) error
	UnreadCount(ctx context.Context, userID int) (int, error)
}

type service struct {
	repo     Repository
	userRepo user.Repository
	mailer   EmailQueue
}

func NewService(repo Repository, userRepo user.Repository, mailer EmailQueue) Service {
	return &service{
		repo:     repo,
		userRepo: userRepo,
		mailer:   mailer,
	}
}

func (s *service) Notify(ctx context.Context, userID int, title, message string) {
	if _, err := s.repo.Create(ctx, userID, title, message); err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		logger.Errorf("failed to store notification for user %d: %v", userID, err)
		return
	}
	metrics.NotificationsTotal.WithLabelValues("created").Inc()

	if s.mailer == nil {
		return
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logger.Errorf("notification email skipped, user %d lookup failed: %v", userID, err)
		return
	}

	if err := s.mailer.Queue(ctx, u.Email, u.Name, title, message); err != nil {
		logger.Errorf("failed to queue notification email for user %d: %v", userID, err)
	}
}

func (s *service) ListMine(ctx context.Context, userID int) ([]Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) MarkRead(ctx context.Context, id, userID int) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *service) UnreadCount(ctx context.Context, userID int) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}
