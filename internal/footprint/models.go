// Package footprint computes carbon footprint estimates from lifestyle inputs,
// derives recommendations from them, and aggregates stored estimates into
// personal and community statistics.
package footprint

import (
	"time"
)

// Category is one of the fixed life domains that partition a footprint.
type Category string

const (
	CategoryTransport   Category = "transport"
	CategoryEnergy      Category = "energy"
	CategoryFood        Category = "food"
	CategoryConsumption Category = "consumption"
)

// categoryOrder is the fixed display and summation order.
var categoryOrder = []Category{
	CategoryTransport,
	CategoryEnergy,
	CategoryFood,
	CategoryConsumption,
}

// Categories returns all categories in their fixed order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range categoryOrder {
		if c == k {
			return true
		}
	}
	return false
}

// RawInputs maps each category to its field values as reported by the user.
// Missing fields count as zero.
type RawInputs map[Category]map[string]float64

// Value returns the value of a field, or 0 when it was not reported.
func (r RawInputs) Value(category Category, field string) float64 {
	fields, ok := r[category]
	if !ok {
		return 0
	}
	return fields[field]
}

// CategoryTotals maps each category to its non-negative footprint contribution.
type CategoryTotals map[Category]float64

// Sum adds up the reported per-category values.
func (t CategoryTotals) Sum() float64 {
	var sum float64
	for _, c := range categoryOrder {
		sum += t[c]
	}
	return sum
}

func (t CategoryTotals) clone() CategoryTotals {
	out := make(CategoryTotals, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Record is a single scored footprint estimate. Records are immutable once
// created; a correction is a new record.
type Record struct {
	ID              string
	OwnerID         string
	TotalFootprint  float64
	Categories      CategoryTotals
	Recommendations []string
	CreatedAt       time.Time
}

// Band classifies the record's total footprint.
func (r *Record) Band() Band {
	return ClassifyBand(r.TotalFootprint)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	cpy := *r
	cpy.Categories = r.Categories.clone()
	if r.Recommendations != nil {
		cpy.Recommendations = make([]string, len(r.Recommendations))
		copy(cpy.Recommendations, r.Recommendations)
	}
	return &cpy
}

// TrendPoint is one entry of a chronological footprint series.
type TrendPoint struct {
	Date       string
	RecordedAt time.Time
	Total      float64
	Categories CategoryTotals
}

// CategoryShare is the summed contribution of one category across records.
type CategoryShare struct {
	Category Category
	Total    float64
	Share    float64
}

// PersonalStats summarizes one user's records.
type PersonalStats struct {
	Latest       *Record
	Average      float64
	Count        int
	Trend        []TrendPoint
	Distribution []CategoryShare
}

// CommunityStats summarizes every record in the system.
type CommunityStats struct {
	AverageFootprint  float64
	TotalCalculations int
}

// Comparison contrasts a user's average with the community average.
type Comparison struct {
	UserAverage      float64
	CommunityAverage float64
	Difference       float64
}

// Analytics bundles everything the analytics view needs for one user.
type Analytics struct {
	Personal   *PersonalStats
	Community  *CommunityStats
	Comparison Comparison
}
