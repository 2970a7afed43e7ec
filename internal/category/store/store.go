package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/recordstore"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectCategoryColumns = `id, name, type, color, is_custom, created_at`

func scanCategory(s scanner) (*category.Category, error) {
	var c category.Category

	var typeStr string

	if err := s.Scan(&c.ID, &c.Name, &typeStr, &c.Color, &c.Custom, &c.CreatedAt); err != nil {
		return nil, err
	}

	c.Type = category.Type(typeStr)

	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (name, type, color, is_custom, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, c.Name, c.Type, c.Color, c.Custom).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return recordstore.Classify("create category", err)
	}

	return nil
}

func (s *Store) GetCategory(ctx context.Context, id int64) (*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + ` FROM categories WHERE id = $1`

	c, err := scanCategory(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, category.ErrNotFound
		}

		return nil, recordstore.Unavailable("get category", err)
	}

	return c, nil
}

func (s *Store) ListCategories(ctx context.Context, filter category.ListFilter) ([]*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + ` FROM categories WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Name != nil {
		query += fmt.Sprintf(" AND name = $%d", argIdx)

		args = append(args, *filter.Name)
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argIdx)

		args = append(args, *filter.Type)
	}

	query += " ORDER BY name ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, recordstore.Unavailable("list categories", err)
	}
	defer rows.Close()

	var out []*category.Category

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, recordstore.Unavailable("scan category", err)
		}

		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, recordstore.Unavailable("iterate categories", err)
	}

	return out, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id int64, fields category.UpdateFields) (*category.Category, error) {
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

	if fields.Type != nil {
		add("type", *fields.Type)
	}

	if fields.Color != nil {
		add("color", *fields.Color)
	}

	if len(sets) == 0 {
		return s.GetCategory(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE categories SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), selectCategoryColumns)

	c, err := scanCategory(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, category.ErrNotFound
		}

		return nil, recordstore.Classify("update category", err)
	}

	return c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return recordstore.Classify("delete category", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return category.ErrNotFound
	}

	return nil
}
