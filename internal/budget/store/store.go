package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/period"
	"github.com/MrJamesThe3rd/tally/internal/recordstore"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// conn returns the connection an AdvisoryLocker bound to ctx, or the pool.
func (s *Store) conn(ctx context.Context) querier {
	if c, ok := ctx.Value(connKey{}).(*sql.Conn); ok {
		return c
	}

	return s.db
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, name, monthly_limit, month, year, category_id, category_name, created_at, updated_at
const selectBudgetColumns = `
	b.id, b.name, b.monthly_limit, b.month, b.year,
	b.category_id, c.name AS category_name, b.created_at, b.updated_at
`

const fromBudgets = `
	FROM budgets b
	LEFT JOIN categories c ON b.category_id = c.id
`

func scanBudget(s scanner) (*budget.Budget, error) {
	var b budget.Budget

	var categoryName sql.NullString

	if err := s.Scan(
		&b.ID, &b.Name, &b.MonthlyLimit, &b.Month, &b.Year,
		&b.Category.ID, &categoryName, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	b.Category.Name = categoryName.String

	return &b, nil
}

func (s *Store) getBudget(ctx context.Context, op, where string, args ...any) (*budget.Budget, error) {
	query := `SELECT ` + selectBudgetColumns + fromBudgets + ` WHERE ` + where

	b, err := scanBudget(s.conn(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, budget.ErrNotFound
		}

		return nil, recordstore.Unavailable(op, err)
	}

	return b, nil
}

// FindByCategoryAndPeriod returns nil, nil when the pair has no budget. If
// duplicates slipped in, the oldest wins.
func (s *Store) FindByCategoryAndPeriod(ctx context.Context, categoryID int64, p period.Period) (*budget.Budget, error) {
	b, err := s.getBudget(ctx, "find budget",
		`b.category_id = $1 AND b.month = $2 ORDER BY b.id ASC LIMIT 1`, categoryID, p)
	if errors.Is(err, budget.ErrNotFound) {
		return nil, nil
	}

	return b, err
}

func (s *Store) GetBudget(ctx context.Context, id int64) (*budget.Budget, error) {
	return s.getBudget(ctx, "get budget", `b.id = $1`, id)
}

func (s *Store) CreateBudget(ctx context.Context, b *budget.Budget) (*budget.Budget, error) {
	query := `
		INSERT INTO budgets (name, monthly_limit, month, year, category_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id
	`

	var id int64

	err := s.conn(ctx).QueryRowContext(ctx, query,
		b.Name,
		b.MonthlyLimit,
		b.Month,
		b.Year,
		b.Category.ID,
	).Scan(&id)
	if err != nil {
		return nil, recordstore.Classify("create budget", err)
	}

	return s.GetBudget(ctx, id)
}

// UpdateBudget writes only the non-nil fields.
func (s *Store) UpdateBudget(ctx context.Context, id int64, fields budget.UpdateFields) (*budget.Budget, error) {
	var (
		sets []string
		args []any
	)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if fields.Name != nil {
		add("name", *fields.Name)
	}

	if fields.MonthlyLimit != nil {
		add("monthly_limit", *fields.MonthlyLimit)
	}

	if fields.Month != nil {
		add("month", *fields.Month)
	}

	if fields.Year != nil {
		add("year", *fields.Year)
	}

	if fields.CategoryID != nil {
		add("category_id", *fields.CategoryID)
	}

	if len(sets) == 0 {
		return s.GetBudget(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE budgets SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	res, err := s.conn(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return nil, recordstore.Classify("update budget", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, budget.ErrNotFound
	}

	return s.GetBudget(ctx, id)
}

func (s *Store) ListBudgets(ctx context.Context, p period.Period) ([]*budget.Budget, error) {
	query := `SELECT ` + selectBudgetColumns + fromBudgets + `
		WHERE b.month = $1
		ORDER BY c.name ASC NULLS LAST, b.id ASC`

	rows, err := s.conn(ctx).QueryContext(ctx, query, p)
	if err != nil {
		return nil, recordstore.Unavailable("list budgets", err)
	}
	defer rows.Close()

	var out []*budget.Budget

	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, recordstore.Unavailable("scan budget", err)
		}

		out = append(out, b)
	}

	if err := rows.Err(); err != nil {
		return nil, recordstore.Unavailable("iterate budgets", err)
	}

	return out, nil
}

func (s *Store) DeleteBudget(ctx context.Context, id int64) error {
	res, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return recordstore.Classify("delete budget", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return budget.ErrNotFound
	}

	return nil
}
