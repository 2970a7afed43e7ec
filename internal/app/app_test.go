package app_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/app"
	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/period"
)

func TestNew_Memory(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{Store: config.StoreMemory}

	a, err := app.New(ctx, cfg)
	require.NoError(t, err)

	defer a.Close()

	expense, err := a.Categories.ListByType(ctx, category.TypeExpense)
	require.NoError(t, err)
	assert.Len(t, expense, 8)

	b, err := a.Budgets.Upsert(ctx, budget.UpsertParams{
		CategoryName: "Groceries",
		MonthlyLimit: 100,
		Period:       period.New(2024, time.May),
	})
	require.NoError(t, err)
	assert.Equal(t, "Groceries", b.Category.Name)

	res, err := a.Imports.Import(ctx, importer.FormatTally,
		strings.NewReader("date,description,category,amount\n2024-05-02,Market,Groceries,-40\n"))
	require.NoError(t, err)
	require.Len(t, res.Imported, 1)

	ov, err := a.Budgets.Overview(ctx, period.New(2024, time.May))
	require.NoError(t, err)
	require.Len(t, ov.Items, 1)
	assert.Equal(t, int64(4000), ov.Items[0].Spent)
	assert.True(t, ov.Items[0].Progress.Exceeded)
}
