package memory

import (
	"context"
	"sort"

	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	if err := s.enter(ctx, "CreateTransaction"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	tx.ID = s.id()
	tx.CreatedAt = now
	tx.UpdatedAt = &now

	cp := *tx
	cp.Category.Name = ""
	s.transactions[tx.ID] = &cp

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id int64) (*transaction.Transaction, error) {
	if err := s.enter(ctx, "GetTransaction"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.transactions[id]
	if !ok || tx.DeletedAt != nil {
		return nil, transaction.ErrNotFound
	}

	return s.joinCategory(tx), nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	if err := s.enter(ctx, "ListTransactions"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*transaction.Transaction

	for _, tx := range s.transactions {
		if tx.DeletedAt != nil {
			continue
		}

		if filter.Period != nil && !filter.Period.Contains(tx.Date) {
			continue
		}

		if filter.CategoryID != nil && tx.Category.ID != *filter.CategoryID {
			continue
		}

		if filter.Type != nil && tx.Type != *filter.Type {
			continue
		}

		out = append(out, s.joinCategory(tx))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}

		return out[i].ID > out[j].ID
	})

	return out, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	if err := s.enter(ctx, "UpdateTransaction"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.transactions[tx.ID]
	if !ok || existing.DeletedAt != nil {
		return transaction.ErrNotFound
	}

	now := s.now()

	cp := *tx
	cp.Category.Name = ""
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = &now
	s.transactions[tx.ID] = &cp

	return nil
}

// DeleteTransaction soft-deletes, like the Postgres store.
func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.enter(ctx, "DeleteTransaction"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if tx, ok := s.transactions[id]; ok && tx.DeletedAt == nil {
		now := s.now()
		tx.DeletedAt = &now
	}

	return nil
}

// joinCategory copies tx and resolves its category name. Callers hold s.mu.
func (s *Store) joinCategory(tx *transaction.Transaction) *transaction.Transaction {
	cp := *tx
	if c, ok := s.categories[tx.Category.ID]; ok {
		cp.Category.Name = c.Name
	}

	return &cp
}
