package class

import "time"

type SessionStatus string
type AttendanceStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCancelled SessionStatus = "cancelled"

	AttendanceBooked  AttendanceStatus = "booked"
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"

	DefaultCapacity = 20
)

// Trainer and end time are optional: open-floor sessions run without an
// assigned trainer, and some classes have no fixed end.
type Session struct {
	ID          int           `db:"id" json:"id"`
	Title       string        `db:"title" json:"title"`
	Description string        `db:"description" json:"description"`
	TrainerID   *int          `db:"trainer_id" json:"trainer_id,omitempty"`
	Capacity    int           `db:"capacity" json:"capacity"`
	StartsAt    time.Time     `db:"starts_at" json:"starts_at"`
	EndsAt      *time.Time    `db:"ends_at" json:"ends_at,omitempty"`
	Status      SessionStatus `db:"status" json:"status"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// SessionWithAvailability adds the live headcount so clients can render
// remaining spots without a second request.
type SessionWithAvailability struct {
	Session
	TrainerName *string `db:"trainer_name" json:"trainer_name,omitempty"`
	BookedCount int     `db:"booked_count" json:"booked_count"`
}

type Attendance struct {
	ID             int              `db:"id" json:"id"`
	ClassSessionID int              `db:"class_session_id" json:"class_session_id"`
	UserID         int              `db:"user_id" json:"user_id"`
	Status         AttendanceStatus `db:"status" json:"status"`
	MarkedBy       *int             `db:"marked_by" json:"marked_by,omitempty"`
	MarkedAt       *time.Time       `db:"marked_at" json:"marked_at,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

type AttendanceWithUser struct {
	Attendance
	UserName  string `db:"user_name" json:"user_name"`
	UserEmail string `db:"user_email" json:"user_email"`
}

type BookingWithSession struct {
	Attendance
	Title    string        `db:"title" json:"title"`
	StartsAt time.Time     `db:"starts_at" json:"starts_at"`
	EndsAt   *time.Time    `db:"ends_at" json:"ends_at,omitempty"`
	Session  SessionStatus `db:"session_status" json:"session_status"`
}

type CreateSessionRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	TrainerID   *int       `json:"trainer_id"`
	Capacity    int        `json:"capacity" binding:"omitempty,min=1"`
	StartsAt    time.Time  `json:"starts_at" binding:"required"`
	EndsAt      *time.Time `json:"ends_at" binding:"omitempty,gtfield=StartsAt"`
}

type UpdateSessionRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	TrainerID   *int       `json:"trainer_id"`
	Capacity    *int       `json:"capacity" binding:"omitempty,min=1"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

type MarkAttendanceRequest struct {
	UserID int    `json:"user_id" binding:"required"`
	Status string `json:"status" binding:"required,oneof=present absent"`
}
