package footprint

import (
	"math"
	"slices"
)

// Breakdown is the result of a footprint computation.
type Breakdown struct {
	Total      float64
	Categories CategoryTotals
}

// Calculator turns raw inputs into a footprint breakdown using a factor table.
type Calculator struct {
	table *FactorTable
}

// NewCalculator creates a calculator over the given table.
func NewCalculator(table *FactorTable) *Calculator {
	return &Calculator{table: table}
}

// Table returns the factor table used by the calculator.
func (c *Calculator) Table() *FactorTable {
	return c.table
}

// Compute sums value × factor per category in table order.
//
// Each reported category value is floored at zero on its own, while the
// overall total is the floor of the sum of the unfloored category sums. When
// a category nets out negative the total can therefore be lower than the sum
// of the reported categories. Existing totals depend on this, keep it.
//
// Compute fails only for inputs that name unknown categories or fields or
// carry non-finite values; range checks belong to ValidateInputs.
func (c *Calculator) Compute(raw RawInputs) (*Breakdown, error) {
	if err := c.checkShape(raw); err != nil {
		return nil, err
	}

	categories := make(CategoryTotals, len(categoryOrder))
	var total float64

	for _, cat := range categoryOrder {
		var sum float64
		for _, spec := range c.table.fields[cat] {
			sum += raw.Value(cat, spec.Field) * spec.Factor
		}
		categories[cat] = math.Max(0, sum)
		total += sum
	}

	return &Breakdown{
		Total:      math.Max(0, total),
		Categories: categories,
	}, nil
}

func (c *Calculator) checkShape(raw RawInputs) error {
	var errs []*InvalidInputError
	for _, cat := range sortedCategoryKeys(raw) {
		if !cat.Valid() {
			errs = append(errs, &InvalidInputError{Category: cat, Reason: "unknown category"})
			continue
		}
		for _, field := range sortedFieldKeys(raw[cat]) {
			v := raw[cat][field]
			if _, ok := c.table.Spec(cat, field); !ok {
				errs = append(errs, &InvalidInputError{Category: cat, Field: field, Value: v, Reason: "unknown field"})
				continue
			}
			if !isFinite(v) {
				errs = append(errs, &InvalidInputError{Category: cat, Field: field, Value: v, Reason: "must be a finite number"})
			}
		}
	}
	return validationErrorOrNil(errs)
}

func sortedCategoryKeys(raw RawInputs) []Category {
	return sortedKeys(raw)
}

func sortedFieldKeys(fields map[string]float64) []string {
	return sortedKeys(fields)
}

func sortedStringKeys[V any](m map[string]V) []string {
	return sortedKeys(m)
}

// sortedKeys returns the map keys in ascending order (Go 1.21 equivalent of
// slices.Sorted(maps.Keys(m))).
func sortedKeys[M ~map[K]V, K ~string, V any](m M) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
