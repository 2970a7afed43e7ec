package budget_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/period"
	"github.com/MrJamesThe3rd/tally/internal/recordstore/memory"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func TestService_Overview(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	groceries := seedCategory(t, store, "Groceries", category.TypeExpense)
	rent := seedCategory(t, store, "Rent", category.TypeExpense)
	transport := seedCategory(t, store, "Transport", category.TypeExpense)
	salary := seedCategory(t, store, "Salary", category.TypeIncome)

	may := period.New(2024, time.May)

	for _, tx := range []*transaction.Transaction{
		{Amount: -6000, Type: transaction.TypeExpense, Date: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), Category: category.Ref{ID: groceries.ID}},
		{Amount: -2000, Type: transaction.TypeExpense, Date: time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), Category: category.Ref{ID: groceries.ID}},
		{Amount: -9000, Type: transaction.TypeExpense, Date: time.Date(2024, 4, 28, 0, 0, 0, 0, time.UTC), Category: category.Ref{ID: groceries.ID}},
		{Amount: -95000, Type: transaction.TypeExpense, Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Category: category.Ref{ID: rent.ID}},
		{Amount: 250000, Type: transaction.TypeIncome, Date: time.Date(2024, 5, 25, 0, 0, 0, 0, time.UTC), Category: category.Ref{ID: salary.ID}},
	} {
		require.NoError(t, store.CreateTransaction(ctx, tx))
	}

	svc := newMemoryService(store)

	_, err := svc.Upsert(ctx, budget.UpsertParams{CategoryName: "Groceries", MonthlyLimit: 10000, Period: may})
	require.NoError(t, err)

	_, err = svc.Upsert(ctx, budget.UpsertParams{CategoryName: "Rent", MonthlyLimit: 100000, Period: may})
	require.NoError(t, err)

	ov, err := svc.Overview(ctx, may)
	require.NoError(t, err)

	assert.Equal(t, may, ov.Period)
	require.Len(t, ov.Items, 2)

	items := make(map[string]budget.Item)
	for _, it := range ov.Items {
		items[it.CategoryName] = it
	}

	g := items["Groceries"]
	assert.Equal(t, int64(8000), g.Spent)
	assert.Equal(t, int64(10000), g.Limit)
	assert.Equal(t, 80.0, g.Progress.Percentage)
	assert.Equal(t, budget.AlertWarning, g.Progress.Level)
	assert.Equal(t, int64(2000), g.Progress.Remaining)

	r := items["Rent"]
	assert.Equal(t, int64(95000), r.Spent)
	assert.Equal(t, budget.AlertCritical, r.Progress.Level)
	assert.False(t, r.Progress.Exceeded)

	assert.Equal(t, int64(110000), ov.TotalLimit)
	assert.Equal(t, int64(103000), ov.TotalSpent)

	require.Len(t, ov.Available, 1)
	assert.Equal(t, transport.ID, ov.Available[0].ID)
}

func TestService_Overview_EmptyPeriod(t *testing.T) {
	store := memory.New()
	seedCategory(t, store, "Groceries", category.TypeExpense)

	ov, err := newMemoryService(store).Overview(context.Background(), period.New(2030, time.January))
	require.NoError(t, err)

	assert.Empty(t, ov.Items)
	assert.Len(t, ov.Available, 1)
	assert.Zero(t, ov.TotalSpent)
	assert.Equal(t, budget.AlertOK, ov.Progress.Level)
}

func TestService_Overview_FillsMissingCategoryNames(t *testing.T) {
	svc, m := newMocks(t)
	p := period.New(2024, time.March)

	m.repo.EXPECT().ListBudgets(gomock.Any(), p).Return([]*budget.Budget{
		{ID: 1, MonthlyLimit: 1000, Month: p, Category: category.Ref{ID: 4}},
	}, nil)
	m.categories.EXPECT().ListByType(gomock.Any(), category.TypeExpense).Return([]*category.Category{
		{ID: 4, Name: "Books", Type: category.TypeExpense},
		{ID: 5, Name: "Games", Type: category.TypeExpense},
	}, nil)
	m.transactions.EXPECT().ListByPeriod(gomock.Any(), p).Return([]*transaction.Transaction{
		{Amount: -300, Type: transaction.TypeExpense, Category: category.Ref{ID: 4}},
		{Amount: -200, Type: transaction.TypeExpense, Category: category.Ref{Name: "Books"}},
		{Amount: 900, Type: transaction.TypeIncome, Category: category.Ref{ID: 4}},
	}, nil)

	ov, err := svc.Overview(context.Background(), p)
	require.NoError(t, err)

	require.Len(t, ov.Items, 1)
	assert.Equal(t, "Books", ov.Items[0].CategoryName)
	assert.Equal(t, int64(500), ov.Items[0].Spent)

	require.Len(t, ov.Available, 1)
	assert.Equal(t, "Games", ov.Available[0].Name)
}

func TestService_Overview_LoadError(t *testing.T) {
	svc, m := newMocks(t)
	p := period.New(2024, time.March)

	m.repo.EXPECT().ListBudgets(gomock.Any(), p).Return(nil, errors.New("boom"))
	m.categories.EXPECT().ListByType(gomock.Any(), category.TypeExpense).Return(nil, nil).AnyTimes()
	m.transactions.EXPECT().ListByPeriod(gomock.Any(), p).Return(nil, nil).AnyTimes()

	ov, err := svc.Overview(context.Background(), p)
	require.Error(t, err)
	assert.Nil(t, ov)
	assert.Contains(t, err.Error(), "listing budgets")
}
