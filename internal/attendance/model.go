package attendance

import "time"

// Visit is one gym floor entry. An open visit has no checkout time yet; a
// user holds at most one open visit at a time.
type Visit struct {
	ID           int        `db:"id" json:"id"`
	UserID       int        `db:"user_id" json:"user_id"`
	CheckedInAt  time.Time  `db:"checked_in_at" json:"checked_in_at"`
	CheckedOutAt *time.Time `db:"checked_out_at" json:"checked_out_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

type MonthlySummary struct {
	Month  string `json:"month"`
	Visits int    `json:"visits"`
}
