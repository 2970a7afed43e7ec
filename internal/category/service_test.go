package category_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/category"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    category.CreateParams
		setupMock func(m *category.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: category.CreateParams{Name: "  Groceries ", Type: category.TypeExpense, Color: "green"},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().
					CreateCategory(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *category.Category) error {
						assert.Equal(t, "Groceries", c.Name)
						assert.True(t, c.Custom)
						c.ID = 7
						return nil
					})
			},
		},
		{
			name:    "EmptyName",
			params:  category.CreateParams{Name: " ", Type: category.TypeExpense},
			wantErr: category.ErrInvalid,
		},
		{
			name:    "UnknownType",
			params:  category.CreateParams{Name: "Rent", Type: "transfer"},
			wantErr: category.ErrInvalid,
		},
		{
			name:   "RepoError",
			params: category.CreateParams{Name: "Rent", Type: category.TypeExpense},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().
					CreateCategory(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := category.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := category.NewService(repo).Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, got)

				if errors.Is(tt.wantErr, category.ErrInvalid) {
					assert.ErrorIs(t, err, category.ErrInvalid)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(7), got.ID)
		})
	}
}

func TestService_FindByName(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := category.NewMockRepository(ctrl)

	typ := category.TypeExpense
	name := "Groceries"

	repo.EXPECT().
		ListCategories(gomock.Any(), category.ListFilter{Name: &name, Type: &typ}).
		Return([]*category.Category{{ID: 1, Name: name, Type: typ}}, nil)

	got, err := category.NewService(repo).FindByName(context.Background(), name, &typ)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestService_Update_RejectsEmptyName(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := category.NewMockRepository(ctrl)

	empty := ""
	_, err := category.NewService(repo).Update(context.Background(), 1, category.UpdateFields{Name: &empty})
	assert.ErrorIs(t, err, category.ErrInvalid)
}
