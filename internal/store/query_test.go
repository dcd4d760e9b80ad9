package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogFixture() []Product {
	return []Product{
		{SKU: 3, Name: "Trail Runner", Price: 120, Available: true},
		{SKU: 1, Name: "City Loafer", Price: 80, Available: false},
		{SKU: 2, Name: "trail walker", Price: 80, Available: true},
		{SKU: 4, Name: "Sandal", Price: 25.5, Available: true},
	}
}

func skus(products []Product) []int64 {
	out := make([]int64, len(products))
	for i, p := range products {
		out[i] = p.SKU
	}
	return out
}

func Test_ParseSortKey(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expected    SortKey
		expectError bool
	}{
		{name: "empty means no sorting", input: "", expected: SortNone},
		{name: "sku", input: "sku", expected: SortBySKU},
		{name: "price is case-insensitive", input: "Price", expected: SortByPrice},
		{name: "unknown key", input: "name", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			key, err := ParseSortKey(tc.input)
			// then
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, key)
		})
	}
}

func Test_Query_Apply(t *testing.T) {
	available := true
	testCases := []struct {
		name     string
		query    Query
		expected []int64
	}{
		{name: "no filters keeps input order", query: Query{}, expected: []int64{3, 1, 2, 4}},
		{name: "sort by sku", query: Query{Sort: SortBySKU}, expected: []int64{1, 2, 3, 4}},
		{name: "sort by price breaks ties by sku", query: Query{Sort: SortByPrice}, expected: []int64{4, 1, 2, 3}},
		{name: "inclusive price range", query: WithPriceRange(25.5, 80), expected: []int64{1, 2, 4}},
		{name: "price range with no match", query: WithPriceRange(200, 300), expected: []int64{}},
		{name: "availability", query: WithAvailability(false), expected: []int64{1}},
		{name: "name substring ignores case", query: Query{Name: "TRAIL"}, expected: []int64{3, 2}},
		{
			name:     "name, availability and sort combined",
			query:    Query{Name: "trail", Available: &available, Sort: SortByPrice},
			expected: []int64{2, 3},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			input := catalogFixture()
			// when
			result := tc.query.Apply(input)
			// then
			assert.Equal(t, tc.expected, skus(result))
			assert.Equal(t, []int64{3, 1, 2, 4}, skus(input), "input must not be reordered")
		})
	}
}
