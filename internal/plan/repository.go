package plan

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrPlanNotFound  = errors.New("plan not found")
	ErrDuplicateName = errors.New("plan name already exists")
)

const planColumns = `id, name, description, price, duration_days, can_book_classes,
	max_classes_per_week, access_all_branches, includes_personal_training,
	active, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req CreatePlanRequest) (*Plan, error) {
	canBook := true
	if req.CanBookClasses != nil {
		canBook = *req.CanBookClasses
	}
	maxPerWeek := 3
	if req.MaxClassesPerWeek != nil {
		maxPerWeek = *req.MaxClassesPerWeek
	}
	allBranches := false
	if req.AccessAllBranches != nil {
		allBranches = *req.AccessAllBranches
	}
	personalTraining := false
	if req.IncludesPersonalTraining != nil {
		personalTraining = *req.IncludesPersonalTraining
	}

	query := `
		INSERT INTO plans (name, description, price, duration_days, can_book_classes,
			max_classes_per_week, access_all_branches, includes_personal_training)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + planColumns

	var p Plan
	err := r.db.GetContext(ctx, &p, query,
		req.Name, req.Description, req.Price, req.DurationDays,
		canBook, maxPerWeek, allBranches, personalTraining,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateName
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*Plan, error) {
	var p Plan
	err := r.db.GetContext(ctx, &p, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY price ASC`

	plans := []Plan{}
	err := r.db.SelectContext(ctx, &plans, query)
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repository) Update(ctx context.Context, id int, req UpdatePlanRequest) (*Plan, error) {
	query := `
		UPDATE plans SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			price = COALESCE($4, price),
			duration_days = COALESCE($5, duration_days),
			can_book_classes = COALESCE($6, can_book_classes),
			max_classes_per_week = COALESCE($7, max_classes_per_week),
			access_all_branches = COALESCE($8, access_all_branches),
			includes_personal_training = COALESCE($9, includes_personal_training),
			active = COALESCE($10, active),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + planColumns

	var p Plan
	err := r.db.GetContext(ctx, &p, query, id,
		req.Name, req.Description, req.Price, req.DurationDays,
		req.CanBookClasses, req.MaxClassesPerWeek, req.AccessAllBranches,
		req.IncludesPersonalTraining, req.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateName
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) Deactivate(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE plans
		SET active = false, updated_at = NOW()
		WHERE id = $1 AND active = true
	`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPlanNotFound
	}

	return nil
}
