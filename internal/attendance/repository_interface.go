package attendance

import (
	"context"
	"time"
)

type Repository interface {
	// FindOpenVisit returns the newest visit without a checkout time, or
	// ErrNoOpenVisit.
	FindOpenVisit(ctx context.Context, userID int) (*Visit, error)
	CheckIn(ctx context.Context, userID int) (*Visit, error)
	CloseVisit(ctx context.Context, visitID int) (*Visit, error)
	History(ctx context.Context, userID, limit int) ([]Visit, error)
	CountVisitsSince(ctx context.Context, userID int, since time.Time) (int, error)
}
