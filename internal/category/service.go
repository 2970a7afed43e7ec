package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalid = errors.New("invalid category")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, id int64) (*Category, error)
	UpdateCategory(ctx context.Context, id int64, fields UpdateFields) (*Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	ListCategories(ctx context.Context, filter ListFilter) ([]*Category, error)
}

// ListFilter narrows ListCategories. A nil field does not filter.
type ListFilter struct {
	Name *string
	Type *Type
}

// UpdateFields carries a partial update. Only non-nil fields are written.
type UpdateFields struct {
	Name  *string
	Type  *Type
	Color *string
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name  string
	Type  Type
	Color string
}

// Create stores a user-defined category.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Category, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}

	if !params.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalid, params.Type)
	}

	c := &Category{
		Name:   name,
		Type:   params.Type,
		Color:  params.Color,
		Custom: true,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Category, error) {
	return s.repo.GetCategory(ctx, id)
}

// FindByName returns categories whose name equals name exactly, optionally
// restricted to a type. No match is an empty result, not an error.
func (s *Service) FindByName(ctx context.Context, name string, typ *Type) ([]*Category, error) {
	return s.repo.ListCategories(ctx, ListFilter{Name: &name, Type: typ})
}

func (s *Service) ListByType(ctx context.Context, typ Type) ([]*Category, error) {
	return s.repo.ListCategories(ctx, ListFilter{Type: &typ})
}

func (s *Service) List(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx, ListFilter{})
}

func (s *Service) Update(ctx context.Context, id int64, fields UpdateFields) (*Category, error) {
	if fields.Name != nil && strings.TrimSpace(*fields.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalid)
	}

	if fields.Type != nil && !fields.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalid, *fields.Type)
	}

	return s.repo.UpdateCategory(ctx, id, fields)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteCategory(ctx, id)
}
