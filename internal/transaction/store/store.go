package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/tally/internal/recordstore"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row from the scanner and returns a populated Transaction.
// Expected column order: id, amount, type, description, date, category_id, category_name, created_at, updated_at, deleted_at
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr string

	var categoryID sql.NullInt64

	var categoryName sql.NullString

	if err := s.Scan(
		&tx.ID, &tx.Amount, &typeStr, &tx.Description, &tx.Date,
		&categoryID, &categoryName,
		&tx.CreatedAt, &tx.UpdatedAt, &tx.DeletedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.Category.ID = categoryID.Int64
	tx.Category.Name = categoryName.String

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.amount, t.type, t.description, t.date,
	t.category_id, c.name as category_name, t.created_at, t.updated_at, t.deleted_at
`

func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (amount, type, description, date, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.Amount,
		tx.Type,
		tx.Description,
		tx.Date,
		nullableID(tx.Category.ID),
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return recordstore.Classify("create transaction", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id int64) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.id = $1 AND t.deleted_at IS NULL`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, recordstore.Unavailable("get transaction", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.Period != nil {
		query += fmt.Sprintf(" AND t.date >= $%d AND t.date < $%d", argIdx, argIdx+1)

		args = append(args, filter.Period.Start(), filter.Period.End())
		argIdx += 2
	}

	if filter.CategoryID != nil {
		query += fmt.Sprintf(" AND t.category_id = $%d", argIdx)

		args = append(args, *filter.CategoryID)
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND t.type = $%d", argIdx)

		args = append(args, *filter.Type)
	}

	query += " ORDER BY t.date DESC, t.id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, recordstore.Unavailable("list transactions", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, recordstore.Unavailable("scan transaction", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, recordstore.Unavailable("iterate transactions", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET amount = $1, type = $2, description = $3, date = $4, category_id = $5, updated_at = NOW()
		WHERE id = $6 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query,
		tx.Amount,
		tx.Type,
		tx.Description,
		tx.Date,
		nullableID(tx.Category.ID),
		tx.ID,
	)
	if err != nil {
		return recordstore.Classify("update transaction", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	query := `
		UPDATE transactions
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return recordstore.Classify("delete transaction", err)
	}

	return nil
}
