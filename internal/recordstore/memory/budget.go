package memory

import (
	"context"
	"sort"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/period"
	"github.com/MrJamesThe3rd/tally/internal/recordstore"
)

// FindByCategoryAndPeriod returns the budget with the lowest id when several
// exist. The store does not prevent duplicates.
func (s *Store) FindByCategoryAndPeriod(ctx context.Context, categoryID int64, p period.Period) (*budget.Budget, error) {
	if err := s.enter(ctx, "FindByCategoryAndPeriod"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *budget.Budget

	for _, b := range s.budgets {
		if b.Category.ID != categoryID || b.Month != p {
			continue
		}

		if found == nil || b.ID < found.ID {
			found = b
		}
	}

	if found == nil {
		return nil, nil
	}

	return s.joinBudget(found), nil
}

func (s *Store) CreateBudget(ctx context.Context, b *budget.Budget) (*budget.Budget, error) {
	if err := s.enter(ctx, "CreateBudget"); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkBudget("create budget", b.MonthlyLimit, b.Category.ID); err != nil {
		return nil, err
	}

	cp := *b
	cp.ID = s.id()
	cp.CreatedAt = s.now()
	cp.UpdatedAt = nil
	s.budgets[cp.ID] = &cp

	return s.joinBudget(&cp), nil
}

func (s *Store) UpdateBudget(ctx context.Context, id int64, fields budget.UpdateFields) (*budget.Budget, error) {
	if err := s.enter(ctx, "UpdateBudget"); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.budgets[id]
	if !ok {
		return nil, budget.ErrNotFound
	}

	b := *existing

	if fields.Name != nil {
		b.Name = *fields.Name
	}

	if fields.MonthlyLimit != nil {
		b.MonthlyLimit = *fields.MonthlyLimit
	}

	if fields.Month != nil {
		b.Month = *fields.Month
	}

	if fields.Year != nil {
		b.Year = *fields.Year
	}

	if fields.CategoryID != nil {
		b.Category.ID = *fields.CategoryID
	}

	if err := s.checkBudget("update budget", b.MonthlyLimit, b.Category.ID); err != nil {
		return nil, err
	}

	now := s.now()
	b.UpdatedAt = &now
	s.budgets[id] = &b

	return s.joinBudget(&b), nil
}

func (s *Store) GetBudget(ctx context.Context, id int64) (*budget.Budget, error) {
	if err := s.enter(ctx, "GetBudget"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.budgets[id]
	if !ok {
		return nil, budget.ErrNotFound
	}

	return s.joinBudget(b), nil
}

func (s *Store) ListBudgets(ctx context.Context, p period.Period) ([]*budget.Budget, error) {
	if err := s.enter(ctx, "ListBudgets"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*budget.Budget

	for _, b := range s.budgets {
		if b.Month == p {
			out = append(out, s.joinBudget(b))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Category.Name != out[j].Category.Name {
			return out[i].Category.Name < out[j].Category.Name
		}

		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (s *Store) DeleteBudget(ctx context.Context, id int64) error {
	if err := s.enter(ctx, "DeleteBudget"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.budgets[id]; !ok {
		return budget.ErrNotFound
	}

	delete(s.budgets, id)

	return nil
}

// checkBudget mirrors the constraints of the budgets table. Callers hold s.mu.
func (s *Store) checkBudget(op string, limit, categoryID int64) error {
	if limit < 0 {
		return recordstore.Rejected(op, "monthly_limit must not be negative")
	}

	if _, ok := s.categories[categoryID]; !ok {
		return recordstore.Rejected(op, "category does not exist")
	}

	return nil
}

// joinBudget copies b and resolves its category name. Callers hold s.mu.
func (s *Store) joinBudget(b *budget.Budget) *budget.Budget {
	cp := *b
	if c, ok := s.categories[b.Category.ID]; ok {
		cp.Category.Name = c.Name
	}

	return &cp
}
