package budget

import (
	"context"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/period"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget

// Repository persists budgets. It offers per-record atomic writes only; it
// does not enforce (category, month) uniqueness.
type Repository interface {
	// FindByCategoryAndPeriod returns nil, nil when no budget exists.
	FindByCategoryAndPeriod(ctx context.Context, categoryID int64, p period.Period) (*Budget, error)
	CreateBudget(ctx context.Context, b *Budget) (*Budget, error)
	UpdateBudget(ctx context.Context, id int64, fields UpdateFields) (*Budget, error)
	GetBudget(ctx context.Context, id int64) (*Budget, error)
	ListBudgets(ctx context.Context, p period.Period) ([]*Budget, error)
	DeleteBudget(ctx context.Context, id int64) error
}

// CategoryStore is the read side of categories the reconciler needs.
type CategoryStore interface {
	FindByName(ctx context.Context, name string, typ *category.Type) ([]*category.Category, error)
	ListByType(ctx context.Context, typ category.Type) ([]*category.Category, error)
}

// TransactionStore is the read side of transactions the view model needs.
type TransactionStore interface {
	ListByPeriod(ctx context.Context, p period.Period) ([]*transaction.Transaction, error)
}

type Service struct {
	repo         Repository
	categories   CategoryStore
	transactions TransactionStore
	locker       Locker
}

func NewService(repo Repository, categories CategoryStore, transactions TransactionStore, locker Locker) *Service {
	if locker == nil {
		locker = NewKeyedMutex()
	}

	return &Service{
		repo:         repo,
		categories:   categories,
		transactions: transactions,
		locker:       locker,
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*Budget, error) {
	return s.repo.GetBudget(ctx, id)
}

func (s *Service) ListByPeriod(ctx context.Context, p period.Period) ([]*Budget, error) {
	return s.repo.ListBudgets(ctx, p)
}

// Delete removes a budget. Nothing else deletes budgets.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteBudget(ctx, id)
}
