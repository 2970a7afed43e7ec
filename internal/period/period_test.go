package period_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/period"
)

func TestParse(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    period.Period
		wantErr bool
	}

	tests := []testCase{
		{name: "Valid", input: "2024-05", want: period.New(2024, time.May)},
		{name: "December", input: "2023-12", want: period.New(2023, time.December)},
		{name: "MonthOutOfRange", input: "2024-13", wantErr: true},
		{name: "FullDate", input: "2024-05-01", wantErr: true},
		{name: "Garbage", input: "may", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := period.Parse(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, period.ErrInvalid)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestPeriod_Bounds(t *testing.T) {
	p := period.New(2024, time.December)

	assert.Equal(t, 2024, p.Year())
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), p.Start())
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), p.End())
	assert.Equal(t, "2025-01", p.Next().String())
	assert.Equal(t, "2024-11", p.Prev().String())
	assert.True(t, p.Contains(time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPeriod_JSONAndScan(t *testing.T) {
	var payload struct {
		Month period.Period `json:"month"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"month":"2024-05"}`), &payload))
	assert.Equal(t, period.New(2024, time.May), payload.Month)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"month":"2024-05"}`, string(out))

	var scanned period.Period
	require.NoError(t, scanned.Scan([]byte("2023-01")))
	assert.Equal(t, "2023-01", scanned.String())

	assert.Error(t, scanned.Scan(42))
}
