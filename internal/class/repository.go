package class

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrSessionNotFound  = errors.New("class session not found")
	ErrSessionCancelled = errors.New("class session is cancelled")
	ErrSessionFull      = errors.New("class session is full")
)

const sessionColumns = `id, title, description, trainer_id, capacity, starts_at, ends_at, status, created_at, updated_at`
const attendanceColumns = `id, class_session_id, user_id, status, marked_by, marked_at, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSession(ctx context.Context, req CreateSessionRequest, capacity int) (*Session, error) {
	session := &Session{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO class_sessions (title, description, trainer_id, capacity, starts_at, ends_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'scheduled')
		RETURNING `+sessionColumns+`
	`, req.Title, req.Description, req.TrainerID, capacity, req.StartsAt, req.EndsAt).StructScan(session)
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (r *repository) FindSessionByID(ctx context.Context, id int) (*Session, error) {
	session := &Session{}
	err := r.db.GetContext(ctx, session, `
		SELECT `+sessionColumns+`
		FROM class_sessions
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return session, nil
}

func (r *repository) ListUpcoming(ctx context.Context) ([]SessionWithAvailability, error) {
	sessions := []SessionWithAvailability{}
	err := r.db.SelectContext(ctx, &sessions, `
		SELECT cs.id, cs.title, cs.description, cs.trainer_id, cs.capacity,
		       cs.starts_at, cs.ends_at, cs.status, cs.created_at, cs.updated_at,
		       u.name AS trainer_name,
		       COUNT(ca.id) FILTER (WHERE ca.status IN ('booked', 'present')) AS booked_count
		FROM class_sessions cs
		LEFT JOIN users u ON u.id = cs.trainer_id
		LEFT JOIN class_attendance ca ON ca.class_session_id = cs.id
		WHERE cs.starts_at >= NOW() AND cs.status = 'scheduled'
		GROUP BY cs.id, u.name
		ORDER BY cs.starts_at ASC
	`)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *repository) UpdateSession(ctx context.Context, id int, req UpdateSessionRequest) (*Session, error) {
	session := &Session{}
	err := r.db.QueryRowxContext(ctx, `
		UPDATE class_sessions
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    trainer_id = COALESCE($4, trainer_id),
		    capacity = COALESCE($5, capacity),
		    starts_at = COALESCE($6, starts_at),
		    ends_at = COALESCE($7, ends_at),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+sessionColumns+`
	`, id, req.Title, req.Description, req.TrainerID, req.Capacity, req.StartsAt, req.EndsAt).StructScan(session)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return session, nil
}

func (r *repository) CancelSession(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE class_sessions
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status = 'scheduled'
	`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// Book locks the session row so that the capacity count and the insert behave
// as one atomic step. Concurrent bookings for the same session serialize on
// the lock; the loser re-counts and sees the spot taken.
func (r *repository) Book(ctx context.Context, sessionID, userID int) (*Attendance, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	session := &Session{}
	err = tx.GetContext(ctx, session, `
		SELECT `+sessionColumns+`
		FROM class_sessions
		WHERE id = $1
		FOR UPDATE
	`, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, ErrSessionNotFound
		}
		return nil, false, err
	}
	if session.Status == SessionCancelled {
		return nil, false, ErrSessionCancelled
	}

	existing := &Attendance{}
	err = tx.GetContext(ctx, existing, `
		SELECT `+attendanceColumns+`
		FROM class_attendance
		WHERE class_session_id = $1 AND user_id = $2
	`, sessionID, userID)
	if err == nil && (existing.Status == AttendanceBooked || existing.Status == AttendancePresent) {
		// Repeat booking is a no-op, not an error.
		return existing, false, nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	var reserved int
	err = tx.GetContext(ctx, &reserved, `
		SELECT COUNT(*)
		FROM class_attendance
		WHERE class_session_id = $1 AND status IN ('booked', 'present')
	`, sessionID)
	if err != nil {
		return nil, false, err
	}
	if reserved >= session.Capacity {
		return nil, false, ErrSessionFull
	}

	attendance := &Attendance{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO class_attendance (class_session_id, user_id, status)
		VALUES ($1, $2, 'booked')
		ON CONFLICT (class_session_id, user_id)
		DO UPDATE SET status = 'booked', updated_at = NOW()
		RETURNING `+attendanceColumns+`
	`, sessionID, userID).StructScan(attendance)
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	return attendance, true, nil
}

func (r *repository) CancelBooking(ctx context.Context, sessionID, userID int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM class_attendance
		WHERE class_session_id = $1 AND user_id = $2 AND status = 'booked'
	`, sessionID, userID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func (r *repository) MarkAttendance(ctx context.Context, sessionID, userID int, status AttendanceStatus, markedBy int) (*Attendance, error) {
	attendance := &Attendance{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO class_attendance (class_session_id, user_id, status, marked_by, marked_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (class_session_id, user_id)
		DO UPDATE SET status = $3, marked_by = $4, marked_at = NOW(), updated_at = NOW()
		RETURNING `+attendanceColumns+`
	`, sessionID, userID, status, markedBy).StructScan(attendance)
	if err != nil {
		return nil, err
	}

	return attendance, nil
}

func (r *repository) Roster(ctx context.Context, sessionID int) ([]AttendanceWithUser, error) {
	roster := []AttendanceWithUser{}
	err := r.db.SelectContext(ctx, &roster, `
		SELECT ca.id, ca.class_session_id, ca.user_id, ca.status, ca.marked_by,
		       ca.marked_at, ca.created_at, ca.updated_at,
		       u.name AS user_name, u.email AS user_email
		FROM class_attendance ca
		JOIN users u ON u.id = ca.user_id
		WHERE ca.class_session_id = $1
		ORDER BY u.name ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}

	return roster, nil
}

func (r *repository) ListBookingsByUser(ctx context.Context, userID int) ([]BookingWithSession, error) {
	bookings := []BookingWithSession{}
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT ca.id, ca.class_session_id, ca.user_id, ca.status, ca.marked_by,
		       ca.marked_at, ca.created_at, ca.updated_at,
		       cs.title, cs.starts_at, cs.ends_at, cs.status AS session_status
		FROM class_attendance ca
		JOIN class_sessions cs ON cs.id = ca.class_session_id
		WHERE ca.user_id = $1
		ORDER BY cs.starts_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) CountBookingsInWeek(ctx context.Context, userID int, weekStart time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM class_attendance ca
		JOIN class_sessions cs ON cs.id = ca.class_session_id
		WHERE ca.user_id = $1
		  AND ca.status IN ('booked', 'present')
		  AND cs.starts_at >= $2
		  AND cs.starts_at < $2::timestamptz + INTERVAL '7 days'
	`, userID, weekStart)
	if err != nil {
		return 0, err
	}

	return count, nil
}
