package store_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/budget/store"
	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/period"
)

var budgetColumns = []string{
	"id", "name", "monthly_limit", "month", "year",
	"category_id", "category_name", "created_at", "updated_at",
}

func newAdvisoryService(t *testing.T) (*budget.Service, sqlmock.Sqlmock, *budget.MockCategoryStore) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Anything that goes back to the pool while the lock is held blocks.
	db.SetMaxOpenConns(1)

	categories := budget.NewMockCategoryStore(gomock.NewController(t))
	svc := budget.NewService(store.New(db), categories, nil, store.NewAdvisoryLocker(db))

	return svc, mock, categories
}

func TestAdvisoryLocker_UpsertRunsOnLockedConnection(t *testing.T) {
	svc, mock, categories := newAdvisoryService(t)

	created := time.Date(2024, time.May, 2, 10, 0, 0, 0, time.UTC)

	categories.EXPECT().
		FindByName(gomock.Any(), "Groceries", gomock.Any()).
		Return([]*category.Category{{ID: 3, Name: "Groceries", Type: category.TypeExpense}}, nil)

	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_lock($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("b.category_id = $1 AND b.month = $2")).
		WithArgs(int64(3), "2024-05").
		WillReturnRows(sqlmock.NewRows(budgetColumns))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO budgets")).
		WithArgs("Groceries - 2024-05", int64(50000), "2024-05", 2024, int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(regexp.QuoteMeta("b.id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(budgetColumns).
			AddRow(int64(7), "Groceries - 2024-05", int64(50000), "2024-05", int64(2024), int64(3), "Groceries", created, nil))
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_unlock($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	b, err := svc.Upsert(ctx, budget.UpsertParams{
		CategoryName: "Groceries",
		MonthlyLimit: 50000,
		Period:       period.New(2024, time.May),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), b.ID)
	assert.Equal(t, int64(50000), b.MonthlyLimit)
	assert.Equal(t, "Groceries", b.Category.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvisoryLocker_LockFailureReleasesConnection(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	db.SetMaxOpenConns(1)

	locker := store.NewAdvisoryLocker(db)

	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_lock($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectQuery(regexp.QuoteMeta("b.id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(budgetColumns))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, _, err = locker.Lock(ctx, budget.LockKey(3, period.New(2024, time.May)))
	require.Error(t, err)

	_, err = store.New(db).GetBudget(ctx, 1)
	require.ErrorIs(t, err, budget.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
