package budget

import (
	"errors"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/period"
)

var (
	ErrNotFound         = errors.New("budget not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidLimit     = errors.New("monthly limit must not be negative")
	ErrYearMismatch     = errors.New("year does not match period")
	ErrInvalid          = errors.New("invalid budget")
)

// Budget is the spending limit of one category for one month. There is at
// most one Budget per (category, month).
type Budget struct {
	ID           int64
	Name         string
	MonthlyLimit int64 // Cents
	Month        period.Period
	Year         int
	Category     category.Ref
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// UpdateFields carries a partial update. Only non-nil fields are sent to the
// store; the id is never changed.
type UpdateFields struct {
	Name         *string
	MonthlyLimit *int64
	Month        *period.Period
	Year         *int
	CategoryID   *int64
}

// UpsertParams identifies the budget to create or update and its new limit.
// A zero Year is derived from Period.
type UpsertParams struct {
	CategoryName string
	MonthlyLimit int64
	Period       period.Period
	Year         int
}

// DisplayName is the derived name stored on new budgets.
func DisplayName(categoryName string, p period.Period) string {
	return categoryName + " - " + p.String()
}
