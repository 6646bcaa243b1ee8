package plan

import "time"

// Plan is gym membership reference data. Deleting a plan only flips Active;
// rows stay behind for subscriptions that already reference them.
type Plan struct {
	ID                       int       `db:"id" json:"id"`
	Name                     string    `db:"name" json:"name"`
	Description              string    `db:"description" json:"description"`
	Price                    int64     `db:"price" json:"price"`
	DurationDays             int       `db:"duration_days" json:"duration_days"`
	CanBookClasses           bool      `db:"can_book_classes" json:"can_book_classes"`
	MaxClassesPerWeek        int       `db:"max_classes_per_week" json:"max_classes_per_week"`
	AccessAllBranches        bool      `db:"access_all_branches" json:"access_all_branches"`
	IncludesPersonalTraining bool      `db:"includes_personal_training" json:"includes_personal_training"`
	Active                   bool      `db:"active" json:"active"`
	CreatedAt                time.Time `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time `db:"updated_at" json:"updated_at"`
}

type CreatePlanRequest struct {
	Name                     string `json:"name" binding:"required"`
	Description              string `json:"description" binding:"required"`
	Price                    int64  `json:"price" binding:"min=0"`
	DurationDays             int    `json:"duration_days" binding:"required,min=1"`
	CanBookClasses           *bool  `json:"can_book_classes"`
	MaxClassesPerWeek        *int   `json:"max_classes_per_week"`
	AccessAllBranches        *bool  `json:"access_all_branches"`
	IncludesPersonalTraining *bool  `json:"includes_personal_training"`
}

type UpdatePlanRequest struct {
	Name                     *string `json:"name"`
	Description              *string `json:"description"`
	Price                    *int64  `json:"price" binding:"omitempty,min=0"`
	DurationDays             *int    `json:"duration_days" binding:"omitempty,min=1"`
	CanBookClasses           *bool   `json:"can_book_classes"`
	MaxClassesPerWeek        *int    `json:"max_classes_per_week"`
	AccessAllBranches        *bool   `json:"access_all_branches"`
	IncludesPersonalTraining *bool   `json:"includes_personal_training"`
	Active                   *bool   `json:"active"`
}
