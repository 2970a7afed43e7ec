package autosave

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/period"
)

// ValidationError reports a field that blocked a save. It is recorded on the
// form but never surfaced as a save failure.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var maxCents = decimal.NewFromInt(math.MaxInt64)

// ParseLimit converts a user-entered amount in major units ("12.50") to cents.
// An empty input is the placeholder limit 0; anything else must be a positive
// number.
func ParseLimit(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return 0, &ValidationError{Field: "monthly_limit", Reason: "not a number"}
	}

	if !d.IsPositive() {
		return 0, &ValidationError{Field: "monthly_limit", Reason: "must be greater than zero"}
	}

	cents := d.Shift(2).Round(0)
	if !cents.IsPositive() {
		return 0, &ValidationError{Field: "monthly_limit", Reason: "must be at least one cent"}
	}

	if cents.GreaterThan(maxCents) {
		return 0, &ValidationError{Field: "monthly_limit", Reason: "too large"}
	}

	return cents.IntPart(), nil
}

// validate turns the raw fields into upsert parameters for p.
func validate(f Fields, p period.Period) (budget.UpsertParams, error) {
	name := strings.TrimSpace(f.Category)
	if name == "" {
		return budget.UpsertParams{}, &ValidationError{Field: "category", Reason: "is required"}
	}

	limit, err := ParseLimit(f.Limit)
	if err != nil {
		return budget.UpsertParams{}, err
	}

	return budget.UpsertParams{
		CategoryName: name,
		MonthlyLimit: limit,
		Period:       p,
		Year:         p.Year(),
	}, nil
}
