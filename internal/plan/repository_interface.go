package plan

import "context"

type Repository interface {
	Create(ctx context.Context, req CreatePlanRequest) (*Plan, error)
	FindByID(ctx context.Context, id int) (*Plan, error)
	List(ctx context.Context, activeOnly bool) ([]Plan, error)
	Update(ctx context.Context, id int, req UpdatePlanRequest) (*Plan, error)
	Deactivate(ctx context.Context, id int) error
}
