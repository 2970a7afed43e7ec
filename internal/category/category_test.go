package category_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/category"
)

func TestRef_UnmarshalJSON(t *testing.T) {
	type testCase struct {
		name  string
		input string
		want  category.Ref
	}

	tests := []testCase{
		{name: "Number", input: `12`, want: category.Ref{ID: 12}},
		{name: "NumericString", input: `"12"`, want: category.Ref{ID: 12}},
		{name: "NameString", input: `"Groceries"`, want: category.Ref{Name: "Groceries"}},
		{name: "LowerObject", input: `{"id": 3, "name": "Rent"}`, want: category.Ref{ID: 3, Name: "Rent"}},
		{name: "UpperObject", input: `{"Id": 4, "Name": "Fuel"}`, want: category.Ref{ID: 4, Name: "Fuel"}},
		{name: "ObjectNameOnly", input: `{"Name": "Fuel"}`, want: category.Ref{Name: "Fuel"}},
		{name: "Null", input: `null`, want: category.Ref{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got category.Ref
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("Invalid", func(t *testing.T) {
		var got category.Ref
		assert.Error(t, json.Unmarshal([]byte(`true`), &got))
	})
}

func TestRef_LabelAndMatches(t *testing.T) {
	groceries := &category.Category{ID: 5, Name: "Groceries"}

	assert.Equal(t, "Groceries", category.Ref{ID: 5, Name: "Groceries"}.Label())
	assert.Equal(t, "5", category.Ref{ID: 5}.Label())
	assert.Empty(t, category.Ref{}.Label())

	assert.True(t, category.Ref{ID: 5}.Matches(groceries))
	assert.False(t, category.Ref{ID: 6, Name: "Groceries"}.Matches(groceries))
	assert.True(t, category.Ref{Name: "Groceries"}.Matches(groceries))
	assert.False(t, category.Ref{}.Matches(groceries))
	assert.Equal(t, category.Ref{ID: 5, Name: "Groceries"}, category.RefOf(groceries))
}
