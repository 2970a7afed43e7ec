package budget

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/tally/internal/category"
)

// Upsert creates the budget of (category, period) or updates its limit when
// one already exists. Calls for the same pair are serialised, so concurrent
// callers never create duplicates.
func (s *Service) Upsert(ctx context.Context, params UpsertParams) (*Budget, error) {
	if params.CategoryName == "" {
		return nil, fmt.Errorf("%w: category is required", ErrInvalid)
	}

	if params.Period.IsZero() {
		return nil, fmt.Errorf("%w: period is required", ErrInvalid)
	}

	if params.MonthlyLimit < 0 {
		return nil, ErrInvalidLimit
	}

	year := params.Period.Year()
	if params.Year != 0 && params.Year != year {
		return nil, fmt.Errorf("%w: %d vs %s", ErrYearMismatch, params.Year, params.Period)
	}

	cat, err := s.resolveCategory(ctx, params.CategoryName)
	if err != nil {
		return nil, err
	}

	ctx, unlock, err := s.locker.Lock(ctx, LockKey(cat.ID, params.Period))
	if err != nil {
		return nil, fmt.Errorf("acquiring budget lock: %w", err)
	}
	defer unlock()

	existing, err := s.repo.FindByCategoryAndPeriod(ctx, cat.ID, params.Period)
	if err != nil {
		return nil, fmt.Errorf("finding budget: %w", err)
	}

	if existing != nil {
		b, err := s.repo.UpdateBudget(ctx, existing.ID, UpdateFields{
			MonthlyLimit: &params.MonthlyLimit,
			Month:        &params.Period,
			Year:         &year,
			CategoryID:   &cat.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("updating budget %d: %w", existing.ID, err)
		}

		slog.InfoContext(ctx, "budget updated",
			"id", b.ID, "category", cat.Name, "month", params.Period.String(), "monthly_limit", params.MonthlyLimit)

		return b, nil
	}

	b, err := s.repo.CreateBudget(ctx, &Budget{
		Name:         DisplayName(params.CategoryName, params.Period),
		MonthlyLimit: params.MonthlyLimit,
		Month:        params.Period,
		Year:         year,
		Category:     category.RefOf(cat),
	})
	if err != nil {
		return nil, fmt.Errorf("creating budget: %w", err)
	}

	slog.InfoContext(ctx, "budget created",
		"id", b.ID, "category", cat.Name, "month", params.Period.String(), "monthly_limit", params.MonthlyLimit)

	return b, nil
}

// resolveCategory looks up an expense category by exact name. Duplicate names
// are a data-quality problem, not a failure: the first match wins.
func (s *Service) resolveCategory(ctx context.Context, name string) (*category.Category, error) {
	expense := category.TypeExpense

	matches, err := s.categories.FindByName(ctx, name, &expense)
	if err != nil {
		return nil, fmt.Errorf("resolving category %q: %w", name, err)
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrCategoryNotFound, name)
	}

	if len(matches) > 1 {
		slog.WarnContext(ctx, "duplicate category names, using first match",
			"category", name, "matches", len(matches), "id", matches[0].ID)
	}

	return matches[0], nil
}
