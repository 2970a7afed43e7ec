// Package app wires services to the record store selected in the config.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/tally/internal/budget/store"
	"github.com/MrJamesThe3rd/tally/internal/category"
	categoryStore "github.com/MrJamesThe3rd/tally/internal/category/store"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/recordstore/memory"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	txStore "github.com/MrJamesThe3rd/tally/internal/transaction/store"
)

type App struct {
	Categories   *category.Service
	Transactions *transaction.Service
	Budgets      *budget.Service
	Imports      *importer.Service

	close func() error
}

func (a *App) Close() error {
	if a.close == nil {
		return nil
	}

	return a.close()
}

// New opens the configured record store and builds the services on top of it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return newMemory(ctx)
	default:
		return newPostgres(ctx, cfg)
	}
}

func newPostgres(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	var locker budget.Locker = budget.NewKeyedMutex()
	if cfg.Budget.Lock == config.LockAdvisory {
		locker = budgetStore.NewAdvisoryLocker(db)
	}

	var (
		categories   = category.NewService(categoryStore.New(db))
		transactions = transaction.NewService(txStore.New(db))
		budgets      = budget.NewService(budgetStore.New(db), categories, transactions, locker)
	)

	slog.Info("using postgres record store", "host", cfg.DB.Host, "database", cfg.DB.Name, "budget_lock", cfg.Budget.Lock)

	return &App{
		Categories:   categories,
		Transactions: transactions,
		Budgets:      budgets,
		Imports:      importer.NewService(categories, transactions),
		close:        db.Close,
	}, nil
}

var defaultCategories = []category.Category{
	{Name: "Groceries", Type: category.TypeExpense, Color: "#4caf50"},
	{Name: "Rent", Type: category.TypeExpense, Color: "#795548"},
	{Name: "Utilities", Type: category.TypeExpense, Color: "#ff9800"},
	{Name: "Transport", Type: category.TypeExpense, Color: "#2196f3"},
	{Name: "Dining Out", Type: category.TypeExpense, Color: "#e91e63"},
	{Name: "Health", Type: category.TypeExpense, Color: "#f44336"},
	{Name: "Entertainment", Type: category.TypeExpense, Color: "#9c27b0"},
	{Name: "Shopping", Type: category.TypeExpense, Color: "#00bcd4"},
	{Name: "Salary", Type: category.TypeIncome, Color: "#8bc34a"},
	{Name: "Freelance", Type: category.TypeIncome, Color: "#cddc39"},
	{Name: "Investments", Type: category.TypeIncome, Color: "#009688"},
}

// newMemory builds an in-process store seeded with the same system
// categories as the database migrations.
func newMemory(ctx context.Context) (*App, error) {
	store := memory.New()

	for _, c := range defaultCategories {
		if err := store.CreateCategory(ctx, &c); err != nil {
			return nil, fmt.Errorf("seeding category %q: %w", c.Name, err)
		}
	}

	var (
		categories   = category.NewService(store)
		transactions = transaction.NewService(store)
		budgets      = budget.NewService(store, categories, transactions, budget.NewKeyedMutex())
	)

	slog.Warn("using in-memory record store, data is lost on exit")

	return &App{
		Categories:   categories,
		Transactions: transactions,
		Budgets:      budgets,
		Imports:      importer.NewService(categories, transactions),
	}, nil
}
