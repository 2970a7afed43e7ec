package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/period"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func TestService_Create(t *testing.T) {
	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name       string
		args       args
		setupMock  func(m *transaction.MockRepository)
		wantAmount int64
		wantErr    bool
	}

	tests := []testCase{
		{
			name: "ExpenseIsStoredNegative",
			args: args{
				params: transaction.CreateParams{
					Amount:      1000,
					Type:        transaction.TypeExpense,
					Description: "Test Transaction",
					Date:        time.Date(2023, 10, 27, 0, 0, 0, 0, time.UTC),
					CategoryID:  3,
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = 42
						tx.CreatedAt = time.Now()
						return nil
					})
			},
			wantAmount: -1000,
		},
		{
			name: "IncomeWithNegativeInputIsStoredPositive",
			args: args{
				params: transaction.CreateParams{Amount: -250, Type: transaction.TypeIncome},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = 43
						return nil
					})
			},
			wantAmount: 250,
		},
		{
			name:    "ZeroAmount",
			args:    args{params: transaction.CreateParams{Type: transaction.TypeExpense}},
			wantErr: true,
		},
		{
			name:    "UnknownType",
			args:    args{params: transaction.CreateParams{Amount: 10, Type: "transfer"}},
			wantErr: true,
		},
		{
			name: "RepoError",
			args: args{
				params: transaction.CreateParams{
					Amount: 500,
					Type:   transaction.TypeExpense,
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			require.NotNil(t, got)
			assert.NotZero(t, got.ID)
			assert.Equal(t, tt.wantAmount, got.Amount)
			assert.Equal(t, tt.args.params.CategoryID, got.Category.ID)
		})
	}
}

func TestService_List(t *testing.T) {
	type args struct {
		filter transaction.ListFilter
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return([]*transaction.Transaction{
						{ID: 1},
						{ID: 2},
					}, nil)
			},
			wantLen: 2,
			wantErr: false,
		},
		{
			name: "Error",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return(nil, errors.New("list error"))
			},
			wantLen: 0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.List(context.Background(), tt.args.filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_ListByPeriod(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	p := period.New(2024, time.May)

	repo.EXPECT().
		ListTransactions(gomock.Any(), transaction.ListFilter{Period: &p}).
		Return([]*transaction.Transaction{{ID: 9}}, nil)

	got, err := transaction.NewService(repo).ListByPeriod(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_Update_NormalizesSign(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)

	tx := &transaction.Transaction{ID: 5, Amount: 700, Type: transaction.TypeExpense}

	repo.EXPECT().
		UpdateTransaction(gomock.Any(), tx).
		DoAndReturn(func(_ context.Context, got *transaction.Transaction) error {
			assert.Equal(t, int64(-700), got.Amount)
			return nil
		})

	require.NoError(t, transaction.NewService(repo).Update(context.Background(), tx))
}

func TestTransaction_Magnitude(t *testing.T) {
	assert.Equal(t, int64(300), (&transaction.Transaction{Amount: -300}).Magnitude())
	assert.Equal(t, int64(300), (&transaction.Transaction{Amount: 300}).Magnitude())
	assert.Equal(t, int64(-40), transaction.Signed(transaction.TypeExpense, 40))
	assert.Equal(t, int64(40), transaction.Signed(transaction.TypeIncome, -40))
}
