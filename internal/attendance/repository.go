package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrNoOpenVisit = errors.New("no open visit")

const visitColumns = `id, user_id, checked_in_at, checked_out_at, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindOpenVisit(ctx context.Context, userID int) (*Visit, error) {
	visit := &Visit{}
	err := r.db.GetContext(ctx, visit, `
		SELECT `+visitColumns+`
		FROM attendance
		WHERE user_id = $1 AND checked_out_at IS NULL
		ORDER BY checked_in_at DESC
		LIMIT 1
	`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoOpenVisit
		}
		return nil, err
	}

	return visit, nil
}

func (r *repository) CheckIn(ctx context.Context, userID int) (*Visit, error) {
	visit := &Visit{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO attendance (user_id, checked_in_at)
		VALUES ($1, NOW())
		RETURNING `+visitColumns+`
	`, userID).StructScan(visit)
	if err != nil {
		return nil, err
	}

	return visit, nil
}

func (r *repository) CloseVisit(ctx context.Context, visitID int) (*Visit, error) {
	visit := &Visit{}
	err := r.db.QueryRowxContext(ctx, `
		UPDATE attendance
		SET checked_out_at = NOW()
		WHERE id = $1 AND checked_out_at IS NULL
		RETURNING `+visitColumns+`
	`, visitID).StructScan(visit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoOpenVisit
		}
		return nil, err
	}

	return visit, nil
}

func (r *repository) History(ctx context.Context, userID, limit int) ([]Visit, error) {
	visits := []Visit{}
	err := r.db.SelectContext(ctx, &visits, `
		SELECT `+visitColumns+`
		FROM attendance
		WHERE user_id = $1
		ORDER BY checked_in_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}

	return visits, nil
}

func (r *repository) CountVisitsSince(ctx context.Context, userID int, since time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM attendance
		WHERE user_id = $1 AND checked_in_at >= $2
	`, userID, since)
	if err != nil {
		return 0, err
	}

	return count, nil
}
