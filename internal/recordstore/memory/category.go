package memory

import (
	"context"
	"sort"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/recordstore"
)

func (s *Store) CreateCategory(ctx context.Context, c *category.Category) error {
	if err := s.enter(ctx, "CreateCategory"); err != nil {
		return err
	}

	if !c.Type.Valid() {
		return recordstore.Rejected("create category", "invalid category type")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.id()
	c.CreatedAt = s.now()

	cp := *c
	s.categories[c.ID] = &cp

	return nil
}

func (s *Store) GetCategory(ctx context.Context, id int64) (*category.Category, error) {
	if err := s.enter(ctx, "GetCategory"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, category.ErrNotFound
	}

	cp := *c

	return &cp, nil
}

func (s *Store) ListCategories(ctx context.Context, filter category.ListFilter) ([]*category.Category, error) {
	if err := s.enter(ctx, "ListCategories"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*category.Category, 0, len(s.categories))

	for _, c := range s.categories {
		if filter.Name != nil && c.Name != *filter.Name {
			continue
		}

		if filter.Type != nil && c.Type != *filter.Type {
			continue
		}

		cp := *c
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}

		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id int64, fields category.UpdateFields) (*category.Category, error) {
	if err := s.enter(ctx, "UpdateCategory"); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, category.ErrNotFound
	}

	if fields.Name != nil {
		c.Name = *fields.Name
	}

	if fields.Type != nil {
		c.Type = *fields.Type
	}

	if fields.Color != nil {
		c.Color = *fields.Color
	}

	cp := *c

	return &cp, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.enter(ctx, "DeleteCategory"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return category.ErrNotFound
	}

	delete(s.categories, id)

	return nil
}
