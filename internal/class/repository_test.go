package class

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	return repo, mock, func() { sqlxDB.Close() }
}

func sessionRows(id, capacity int, status SessionStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "title", "description", "trainer_id", "capacity",
		"starts_at", "ends_at", "status", "created_at", "updated_at",
	}).AddRow(id, "Morning Yoga", "desc", 2, capacity, now.Add(time.Hour), now.Add(2*time.Hour), status, now, now)
}

func attendanceRows(id, sessionID, userID int, status AttendanceStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "class_session_id", "user_id", "status", "marked_by", "marked_at",
		"created_at", "updated_at",
	}).AddRow(id, sessionID, userID, status, nil, nil, now, now)
}

func TestBookReservesSpot(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(5).
		WillReturnRows(sessionRows(5, 20, SessionScheduled))
	mock.ExpectQuery("FROM class_attendance").
		WithArgs(5, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\)").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery("INSERT INTO class_attendance").
		WithArgs(5, 7).
		WillReturnRows(attendanceRows(1, 5, 7, AttendanceBooked))
	mock.ExpectCommit()

	attendance, created, err := repo.Book(context.Background(), 5, 7)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, AttendanceBooked, attendance.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookFullSession(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(5).
		WillReturnRows(sessionRows(5, 20, SessionScheduled))
	mock.ExpectQuery("FROM class_attendance").
		WithArgs(5, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\)").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(20))
	mock.ExpectRollback()

	_, _, err := repo.Book(context.Background(), 5, 7)
	require.ErrorIs(t, err, ErrSessionFull)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookAlreadyBookedIsNoOp(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(5).
		WillReturnRows(sessionRows(5, 20, SessionScheduled))
	mock.ExpectQuery("FROM class_attendance").
		WithArgs(5, 7).
		WillReturnRows(attendanceRows(1, 5, 7, AttendanceBooked))
	mock.ExpectRollback()

	attendance, created, err := repo.Book(context.Background(), 5, 7)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, 1, attendance.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookCancelledSession(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(5).
		WillReturnRows(sessionRows(5, 20, SessionCancelled))
	mock.ExpectRollback()

	_, _, err := repo.Book(context.Background(), 5, 7)
	require.ErrorIs(t, err, ErrSessionCancelled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingIdempotent(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec("DELETE FROM class_attendance").
		WithArgs(5, 7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := repo.CancelBooking(context.Background(), 5, 7)
	require.NoError(t, err)
	require.False(t, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingRemovesReservation(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec("DELETE FROM class_attendance").
		WithArgs(5, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	removed, err := repo.CancelBooking(context.Background(), 5, 7)
	require.NoError(t, err)
	require.True(t, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAttendanceUpserts(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery("INSERT INTO class_attendance").
		WithArgs(5, 7, AttendancePresent, 2).
		WillReturnRows(attendanceRows(1, 5, 7, AttendancePresent))

	attendance, err := repo.MarkAttendance(context.Background(), 5, 7, AttendancePresent, 2)
	require.NoError(t, err)
	require.Equal(t, AttendancePresent, attendance.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelSessionNotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec("UPDATE class_sessions").
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.CancelSession(context.Background(), 99)
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountBookingsInWeek(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	weekStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\)").
		WithArgs(7, weekStart).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountBookingsInWeek(context.Background(), 7, weekStart)
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
