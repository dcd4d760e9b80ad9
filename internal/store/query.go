package store

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortKey selects the ordering of a listing.
type SortKey int

const (
	// SortNone keeps the store-native order.
	SortNone SortKey = iota
	SortBySKU
	SortByPrice
)

// ParseSortKey converts the external name of a sort key.
// An empty string means no sorting.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(s) {
	case "":
		return SortNone, nil
	case "sku":
		return SortBySKU, nil
	case "price":
		return SortByPrice, nil
	default:
		return SortNone, fmt.Errorf("unknown sort key %q", s)
	}
}

func (k SortKey) String() string {
	switch k {
	case SortBySKU:
		return "sku"
	case SortByPrice:
		return "price"
	default:
		return ""
	}
}

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min float64
	Max float64
}

// Query is the closed set of filters a store understands.
// Zero-valued fields do not filter.
type Query struct {
	Price     *PriceRange
	Available *bool
	// Name is matched as a case-insensitive substring.
	Name string
	Sort SortKey
}

// Matches reports whether p satisfies every filter of the query.
func (q Query) Matches(p Product) bool {
	if q.Price != nil && (p.Price < q.Price.Min || p.Price > q.Price.Max) {
		return false
	}
	if q.Available != nil && p.Available != *q.Available {
		return false
	}
	if q.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Name)) {
		return false
	}
	return true
}

// Compare orders two products by the query sort key, ascending.
// Price ties are broken by sku.
func (q Query) Compare(a, b Product) int {
	switch q.Sort {
	case SortBySKU:
		return cmp.Compare(a.SKU, b.SKU)
	case SortByPrice:
		if c := cmp.Compare(a.Price, b.Price); c != 0 {
			return c
		}
		return cmp.Compare(a.SKU, b.SKU)
	default:
		return 0
	}
}

// Apply filters and sorts products in memory.
func (q Query) Apply(products []Product) []Product {
	result := make([]Product, 0, len(products))
	for _, p := range products {
		if q.Matches(p) {
			result = append(result, p)
		}
	}
	if q.Sort != SortNone {
		slices.SortStableFunc(result, q.Compare)
	}
	return result
}

// WithPriceRange returns a query filtering on the inclusive range [minPrice, maxPrice].
func WithPriceRange(minPrice, maxPrice float64) Query {
	return Query{Price: &PriceRange{Min: minPrice, Max: maxPrice}}
}

// WithAvailability returns a query filtering on the availability flag.
func WithAvailability(available bool) Query {
	return Query{Available: &available}
}
