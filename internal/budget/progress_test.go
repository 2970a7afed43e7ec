package budget_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tally/internal/budget"
)

func TestEvaluate(t *testing.T) {
	type testCase struct {
		name  string
		spent int64
		limit int64
		want  budget.Progress
	}

	tests := []testCase{
		{
			name:  "ZeroLimit",
			spent: 50,
			limit: 0,
			want:  budget.Progress{Percentage: 0, Remaining: 0, Level: budget.AlertOK, Exceeded: true},
		},
		{
			name:  "NegativeLimit",
			spent: 0,
			limit: -10,
			want:  budget.Progress{Percentage: 0, Remaining: 0, Level: budget.AlertOK, Exceeded: true},
		},
		{
			name:  "Overspent",
			spent: 150,
			limit: 100,
			want:  budget.Progress{Percentage: 100, Remaining: 0, Level: budget.AlertCritical, Exceeded: true},
		},
		{
			name:  "Warning",
			spent: 80,
			limit: 100,
			want:  budget.Progress{Percentage: 80, Remaining: 20, Level: budget.AlertWarning, Exceeded: false},
		},
		{
			name:  "OK",
			spent: 50,
			limit: 100,
			want:  budget.Progress{Percentage: 50, Remaining: 50, Level: budget.AlertOK, Exceeded: false},
		},
		{
			name:  "WarningBoundary",
			spent: 75,
			limit: 100,
			want:  budget.Progress{Percentage: 75, Remaining: 25, Level: budget.AlertWarning, Exceeded: false},
		},
		{
			name:  "CriticalBoundary",
			spent: 90,
			limit: 100,
			want:  budget.Progress{Percentage: 90, Remaining: 10, Level: budget.AlertCritical, Exceeded: false},
		},
		{
			name:  "ExactlyAtLimit",
			spent: 100,
			limit: 100,
			want:  budget.Progress{Percentage: 100, Remaining: 0, Level: budget.AlertCritical, Exceeded: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, budget.Evaluate(tt.spent, tt.limit))
		})
	}
}
