package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type CategoryFinder interface {
	FindByName(ctx context.Context, name string, typ *category.Type) ([]*category.Category, error)
}

type TransactionCreator interface {
	Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
}

type Service struct {
	categories   CategoryFinder
	transactions TransactionCreator
}

func NewService(categories CategoryFinder, transactions TransactionCreator) *Service {
	return &Service{categories: categories, transactions: transactions}
}

type Result struct {
	Imported []*transaction.Transaction
	// Lines whose category name matched no category of the row's type.
	// They are imported uncategorised.
	Uncategorized []int
}

// Import parses r and stores every row as a transaction. Category names are
// resolved within the row's type. On a store failure the rows imported so
// far are returned alongside the error.
func (s *Service) Import(ctx context.Context, format Format, r io.Reader) (*Result, error) {
	parser, err := NewParser(format)
	if err != nil {
		return nil, err
	}

	rows, err := parser.Parse(r)
	if err != nil {
		return nil, err
	}

	res := &Result{Imported: make([]*transaction.Transaction, 0, len(rows))}
	resolved := make(map[string]int64)

	for _, row := range rows {
		params := row.Params

		if row.Category != "" {
			id, err := s.resolve(ctx, resolved, row.Category, category.Type(params.Type))
			if err != nil {
				return res, fmt.Errorf("line %d: %w", row.Line, err)
			}

			if id == 0 {
				res.Uncategorized = append(res.Uncategorized, row.Line)
			}

			params.CategoryID = id
		}

		tx, err := s.transactions.Create(ctx, params)
		if err != nil {
			return res, fmt.Errorf("line %d: %w", row.Line, err)
		}

		res.Imported = append(res.Imported, tx)
	}

	slog.InfoContext(ctx, "imported statement", "format", format, "rows", len(res.Imported), "uncategorized", len(res.Uncategorized))

	return res, nil
}

// resolve returns the id of the category named name, or 0 when there is none.
func (s *Service) resolve(ctx context.Context, cache map[string]int64, name string, typ category.Type) (int64, error) {
	key := string(typ) + "/" + name
	if id, ok := cache[key]; ok {
		return id, nil
	}

	matches, err := s.categories.FindByName(ctx, name, &typ)
	if err != nil {
		return 0, fmt.Errorf("finding category %q: %w", name, err)
	}

	var id int64
	if len(matches) > 0 {
		id = matches[0].ID
	}

	cache[key] = id

	return id, nil
}
