package importer_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/period"
	"github.com/MrJamesThe3rd/tally/internal/recordstore"
	"github.com/MrJamesThe3rd/tally/internal/recordstore/memory"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

const statement = `date,description,category,amount
2024-05-03,Weekly shop,Groceries,-84.20
2024-05-10,Corner shop,Groceries,-15.80
2024-05-12,Cinema,Fun,-12.00
2024-05-25,May salary,Salary,2500
`

func newImportService(t *testing.T) (*importer.Service, *transaction.Service, map[string]int64) {
	t.Helper()

	store := memory.New()
	ids := make(map[string]int64)

	for _, c := range []*category.Category{
		{Name: "Groceries", Type: category.TypeExpense},
		{Name: "Salary", Type: category.TypeIncome},
	} {
		require.NoError(t, store.CreateCategory(context.Background(), c))
		ids[c.Name] = c.ID
	}

	txs := transaction.NewService(store)

	return importer.NewService(category.NewService(store), txs), txs, ids
}

func TestService_Import(t *testing.T) {
	svc, txs, ids := newImportService(t)

	res, err := svc.Import(context.Background(), importer.FormatTally, strings.NewReader(statement))
	require.NoError(t, err)

	require.Len(t, res.Imported, 4)
	assert.Equal(t, []int{4}, res.Uncategorized)

	assert.Equal(t, ids["Groceries"], res.Imported[0].Category.ID)
	assert.Equal(t, int64(-8420), res.Imported[0].Amount)
	assert.Zero(t, res.Imported[2].Category.ID)
	assert.Equal(t, ids["Salary"], res.Imported[3].Category.ID)
	assert.Equal(t, int64(250000), res.Imported[3].Amount)

	stored, err := txs.ListByPeriod(context.Background(), period.New(2024, time.May))
	require.NoError(t, err)
	assert.Len(t, stored, 4)
}

func TestService_Import_CategoryTypeMustMatch(t *testing.T) {
	svc, _, _ := newImportService(t)

	csv := "date,description,category,amount\n2024-05-03,Refund,Groceries,30\n"

	res, err := svc.Import(context.Background(), importer.FormatTally, strings.NewReader(csv))
	require.NoError(t, err)

	require.Len(t, res.Imported, 1)
	assert.Equal(t, transaction.TypeIncome, res.Imported[0].Type)
	assert.Zero(t, res.Imported[0].Category.ID)
	assert.Equal(t, []int{2}, res.Uncategorized)
}

func TestService_Import_StoreFailure(t *testing.T) {
	store := memory.New()
	svc := importer.NewService(category.NewService(store), transaction.NewService(store))

	store.FailNext("CreateTransaction", recordstore.Unavailable("create transaction", assert.AnError))

	csv := "date,description,amount\n2024-05-03,Coffee,-3\n2024-05-04,Tea,-2\n"

	res, err := svc.Import(context.Background(), importer.FormatTally, strings.NewReader(csv))
	require.Error(t, err)
	assert.ErrorIs(t, err, recordstore.ErrUnavailable)
	assert.Contains(t, err.Error(), "line 2")
	assert.Empty(t, res.Imported)
}

func TestService_Import_Errors(t *testing.T) {
	svc, _, _ := newImportService(t)

	_, err := svc.Import(context.Background(), "qif", strings.NewReader(statement))
	assert.ErrorIs(t, err, importer.ErrUnknownFormat)

	_, err = svc.Import(context.Background(), importer.FormatCGD, strings.NewReader(statement))
	assert.ErrorIs(t, err, importer.ErrMalformed)
}
