package budget

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/period"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// Item is the display state of one budget.
type Item struct {
	Budget       *Budget
	CategoryName string
	Limit        int64
	Spent        int64
	Progress     Progress
}

// Overview is the display state of every budget in a period.
type Overview struct {
	Period     period.Period
	Items      []Item
	Available  []*category.Category // Expense categories without a budget this period
	TotalLimit int64
	TotalSpent int64
	Progress   Progress
}

// Overview loads budgets, expense categories and transactions of p and
// derives spent totals and alert levels.
func (s *Service) Overview(ctx context.Context, p period.Period) (*Overview, error) {
	var (
		budgets    []*Budget
		categories []*category.Category
		txs        []*transaction.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		budgets, err = s.repo.ListBudgets(gctx, p)
		if err != nil {
			return fmt.Errorf("listing budgets: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		var err error

		categories, err = s.categories.ListByType(gctx, category.TypeExpense)
		if err != nil {
			return fmt.Errorf("listing categories: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		var err error

		txs, err = s.transactions.ListByPeriod(gctx, p)
		if err != nil {
			return fmt.Errorf("listing transactions: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return compose(p, budgets, categories, txs), nil
}

func compose(p period.Period, budgets []*Budget, categories []*category.Category, txs []*transaction.Transaction) *Overview {
	byID := make(map[int64]*category.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	expenses := make([]*transaction.Transaction, 0, len(txs))

	for _, tx := range txs {
		if tx == nil || tx.Type != transaction.TypeExpense {
			continue
		}

		expenses = append(expenses, withCategoryName(tx, byID))
	}

	spent := IndexSpent(expenses)

	ov := &Overview{
		Period: p,
		Items:  make([]Item, 0, len(budgets)),
	}

	for _, b := range budgets {
		name := b.Category.Label()
		if c, ok := byID[b.Category.ID]; ok {
			name = c.Name
		}

		item := Item{
			Budget:       b,
			CategoryName: name,
			Limit:        b.MonthlyLimit,
			Spent:        spent[name],
		}
		item.Progress = Evaluate(item.Spent, item.Limit)

		ov.Items = append(ov.Items, item)
		ov.TotalLimit += item.Limit
		ov.TotalSpent += item.Spent
	}

	ov.Progress = Evaluate(ov.TotalSpent, ov.TotalLimit)
	ov.Available = available(categories, budgets)

	return ov
}

// available returns the categories no budget points at.
func available(categories []*category.Category, budgets []*Budget) []*category.Category {
	out := make([]*category.Category, 0, len(categories))

	for _, c := range categories {
		taken := false

		for _, b := range budgets {
			if b.Category.Matches(c) {
				taken = true
				break
			}
		}

		if !taken {
			out = append(out, c)
		}
	}

	return out
}

// withCategoryName fills in the category name of a transaction that only
// carries the id, without mutating the original.
func withCategoryName(tx *transaction.Transaction, byID map[int64]*category.Category) *transaction.Transaction {
	if tx.Category.Name != "" || tx.Category.ID == 0 {
		return tx
	}

	c, ok := byID[tx.Category.ID]
	if !ok {
		return tx
	}

	cp := *tx
	cp.Category.Name = c.Name

	return &cp
}
