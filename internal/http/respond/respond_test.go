package respond_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/budget/autosave"
	"github.com/MrJamesThe3rd/tally/internal/http/respond"
	"github.com/MrJamesThe3rd/tally/internal/period"
	"github.com/MrJamesThe3rd/tally/internal/recordstore"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func TestStatus(t *testing.T) {
	_, periodErr := period.Parse("May")

	type testCase struct {
		name string
		err  error
		want int
	}

	tests := []testCase{
		{name: "CategoryNotFound", err: fmt.Errorf("%w: %q", budget.ErrCategoryNotFound, "x"), want: http.StatusUnprocessableEntity},
		{name: "BudgetNotFound", err: budget.ErrNotFound, want: http.StatusNotFound},
		{name: "TransactionNotFound", err: transaction.ErrNotFound, want: http.StatusNotFound},
		{name: "FormNotFound", err: autosave.ErrFormNotFound, want: http.StatusNotFound},
		{name: "InvalidLimit", err: budget.ErrInvalidLimit, want: http.StatusBadRequest},
		{name: "InvalidPeriod", err: periodErr, want: http.StatusBadRequest},
		{name: "Rejected", err: fmt.Errorf("creating budget: %w", recordstore.Rejected("create budget", "bad")), want: http.StatusConflict},
		{name: "Unavailable", err: recordstore.Unavailable("list budgets", errors.New("eof")), want: http.StatusServiceUnavailable},
		{name: "Unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, respond.Status(tt.err))
		})
	}
}

func TestError_HidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	respond.Error(rec, req, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error\n", rec.Body.String())
}
