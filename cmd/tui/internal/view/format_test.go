package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tally/cmd/tui/internal/view"
)

func TestFormatAmount(t *testing.T) {
	type testCase struct {
		name      string
		cents     int64
		wantFixed string
		wantLimit string
	}

	tests := []testCase{
		{name: "Zero", cents: 0, wantFixed: "0.00", wantLimit: "0"},
		{name: "WholeUnits", cents: 50000, wantFixed: "500.00", wantLimit: "500"},
		{name: "Cents", cents: 12345, wantFixed: "123.45", wantLimit: "123.45"},
		{name: "SingleCent", cents: 1, wantFixed: "0.01", wantLimit: "0.01"},
		{name: "Negative", cents: -2550, wantFixed: "-25.50", wantLimit: "-25.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantFixed, view.FormatAmount(tt.cents))
			assert.Equal(t, tt.wantLimit, view.FormatLimit(tt.cents))
		})
	}
}

func TestParseAmount(t *testing.T) {
	type testCase struct {
		name    string
		raw     string
		want    int64
		wantErr bool
	}

	tests := []testCase{
		{name: "Whole", raw: "12", want: 1200},
		{name: "Decimal", raw: "12.5", want: 1250},
		{name: "Comma", raw: " 12,34 ", want: 1234},
		{name: "RoundsHalfCent", raw: "0.005", want: 1},
		{name: "Empty", raw: "", wantErr: true},
		{name: "Zero", raw: "0", wantErr: true},
		{name: "Negative", raw: "-3", wantErr: true},
		{name: "Garbage", raw: "abc", wantErr: true},
		{name: "TooLarge", raw: "1e30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := view.ParseAmount(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
