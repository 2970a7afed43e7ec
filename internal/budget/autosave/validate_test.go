package autosave_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/budget/autosave"
)

func TestParseLimit(t *testing.T) {
	type testCase struct {
		name    string
		raw     string
		want    int64
		wantErr bool
	}

	tests := []testCase{
		{name: "Whole", raw: "100", want: 10000},
		{name: "Decimal", raw: "12.50", want: 1250},
		{name: "CommaSeparator", raw: "12,5", want: 1250},
		{name: "Rounds", raw: "0.015", want: 2},
		{name: "Exponent", raw: "1e2", want: 10000},
		{name: "Padded", raw: "  7 ", want: 700},
		{name: "Empty", raw: "", want: 0},
		{name: "Blank", raw: "   ", want: 0},
		{name: "Negative", raw: "-5", wantErr: true},
		{name: "Zero", raw: "0", wantErr: true},
		{name: "NotANumber", raw: "abc", wantErr: true},
		{name: "BelowOneCent", raw: "0.001", wantErr: true},
		{name: "LargestCents", raw: "92233720368547758.07", want: 9223372036854775807},
		{name: "OverflowsCents", raw: "92233720368547758.08", wantErr: true},
		{name: "HugeExponent", raw: "1e30", wantErr: true},
		{name: "HugeWhole", raw: "200000000000000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := autosave.ParseLimit(tt.raw)

			if tt.wantErr {
				var verr *autosave.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "monthly_limit", verr.Field)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
