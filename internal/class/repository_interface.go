package class

import (
	"context"
	"time"
)

type Repository interface {
	CreateSession(ctx context.Context, req CreateSessionRequest, capacity int) (*Session, error)
	FindSessionByID(ctx context.Context, id int) (*Session, error)
	ListUpcoming(ctx context.Context) ([]SessionWithAvailability, error)
	UpdateSession(ctx context.Context, id int, req UpdateSessionRequest) (*Session, error)
	CancelSession(ctx context.Context, id int) error

	// Book reserves a spot under a row lock on the session. The bool reports
	// whether a new reservation was made; false means the caller already held
	// one.
	Book(ctx context.Context, sessionID, userID int) (*Attendance, bool, error)
	CancelBooking(ctx context.Context, sessionID, userID int) (bool, error)
	MarkAttendance(ctx context.Context, sessionID, userID int, status AttendanceStatus, markedBy int) (*Attendance, error)

	Roster(ctx context.Context, sessionID int) ([]AttendanceWithUser, error)
	ListBookingsByUser(ctx context.Context, userID int) ([]BookingWithSession, error)
	CountBookingsInWeek(ctx context.Context, userID int, weekStart time.Time) (int, error)
}
