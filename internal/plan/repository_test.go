package plan

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	return repo, mock, func() { sqlxDB.Close() }
}

func planRows(id int, name string, price int64, durationDays int, active bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "description", "price", "duration_days", "can_book_classes",
		"max_classes_per_week", "access_all_branches", "includes_personal_training",
		"active", "created_at", "updated_at",
	}).AddRow(id, name, "desc", price, durationDays, true, 3, false, false, active, now, now)
}

func TestCreatePlanAppliesDefaults(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery("INSERT INTO plans").
		WithArgs("Gold", "Full access", int64(100), 30, true, 3, false, false).
		WillReturnRows(planRows(1, "Gold", 100, 30, true))

	p, err := repo.Create(context.Background(), CreatePlanRequest{
		Name: "Gold", Description: "Full access", Price: 100, DurationDays: 30,
	})
	require.NoError(t, err)
	require.Equal(t, "Gold", p.Name)
	require.Equal(t, 30, p.DurationDays)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePlanDuplicateName(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery("INSERT INTO plans").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), CreatePlanRequest{
		Name: "Gold", Description: "dup", Price: 100, DurationDays: 30,
	})
	require.ErrorIs(t, err, ErrDuplicateName)
}

func TestFindByIDNotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery("SELECT .+ FROM plans WHERE id").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), 99)
	require.ErrorIs(t, err, ErrPlanNotFound)
}

func TestListActiveOnly(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery("SELECT .+ FROM plans WHERE active = true ORDER BY price ASC").
		WillReturnRows(planRows(1, "Basic", 50, 30, true))

	plans, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, plans, 1)
}

func TestDeactivateIdempotence(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec("UPDATE plans").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Deactivate(context.Background(), 1))

	// already deactivated rows are reported as not found
	mock.ExpectExec("UPDATE plans").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, repo.Deactivate(context.Background(), 1), ErrPlanNotFound)
}
