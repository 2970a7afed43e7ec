package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/period"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id int64) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error

	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Amount      int64 // Cents; the sign is derived from Type
	Type        Type
	Description string
	Date        time.Time
	CategoryID  int64
}

type ListFilter struct {
	Period     *period.Period
	CategoryID *int64
	Type       *Type
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := validate(params.Type, params.Amount); err != nil {
		return nil, err
	}

	tx := &Transaction{
		Amount:      Signed(params.Type, params.Amount),
		Type:        params.Type,
		Description: params.Description,
		Date:        params.Date,
		Category:    category.Ref{ID: params.CategoryID},
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// ListByPeriod returns every transaction dated inside p.
func (s *Service) ListByPeriod(ctx context.Context, p period.Period) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, ListFilter{Period: &p})
}

func (s *Service) ListByCategory(ctx context.Context, categoryID int64) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, ListFilter{CategoryID: &categoryID})
}

// Update persists tx, re-deriving the amount sign from its type.
func (s *Service) Update(ctx context.Context, tx *Transaction) error {
	if err := validate(tx.Type, tx.Amount); err != nil {
		return err
	}

	tx.Amount = Signed(tx.Type, tx.Amount)

	return s.repo.UpdateTransaction(ctx, tx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteTransaction(ctx, id)
}

func validate(typ Type, amount int64) error {
	if !typ.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalid, typ)
	}

	if amount == 0 {
		return fmt.Errorf("%w: amount must not be zero", ErrInvalid)
	}

	return nil
}
