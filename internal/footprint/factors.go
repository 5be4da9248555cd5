package footprint

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// FieldSpec is the linear emission factor and valid input range of one field.
// Negative factors model mitigating actions such as recycling.
type FieldSpec struct {
	Category Category
	Field    string
	Factor   float64
	Min      float64
	Max      float64
}

// InRange reports whether v lies inside the field's valid range.
func (s FieldSpec) InRange(v float64) bool {
	return v >= s.Min && v <= s.Max
}

// FactorTable is the immutable set of field specs used for computations.
// Build one with DefaultFactorTable, NewFactorTable, or LoadFactorTable at
// process start and share it; it is never mutated afterwards.
type FactorTable struct {
	fields map[Category][]FieldSpec
	index  map[Category]map[string]FieldSpec
}

// Factor table errors.
var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrDuplicateField  = errors.New("duplicate field")
	ErrInvalidRange    = errors.New("invalid range")
	ErrEmptyCategory   = errors.New("category has no fields")
	ErrMissingKey      = errors.New("missing required key")
)

// NewFactorTable validates specs and builds a table from them. Field order
// within a category is preserved and used for summation.
func NewFactorTable(specs []FieldSpec) (*FactorTable, error) {
	t := &FactorTable{
		fields: make(map[Category][]FieldSpec, len(categoryOrder)),
		index:  make(map[Category]map[string]FieldSpec, len(categoryOrder)),
	}

	for _, s := range specs {
		if !s.Category.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, s.Category)
		}
		if s.Field == "" {
			return nil, fmt.Errorf("%s: field name is required", s.Category)
		}
		if !isFinite(s.Factor) || !isFinite(s.Min) || !isFinite(s.Max) || s.Min > s.Max {
			return nil, fmt.Errorf("%w: %s.%s", ErrInvalidRange, s.Category, s.Field)
		}
		if _, ok := t.index[s.Category][s.Field]; ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateField, s.Category, s.Field)
		}
		if t.index[s.Category] == nil {
			t.index[s.Category] = make(map[string]FieldSpec)
		}
		t.index[s.Category][s.Field] = s
		t.fields[s.Category] = append(t.fields[s.Category], s)
	}

	for _, c := range categoryOrder {
		if len(t.fields[c]) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyCategory, c)
		}
	}

	return t, nil
}

// DefaultFactorTable returns the built-in factor table.
//
// foodWaste carries a zero factor: it only drives a recommendation, and the
// published reference totals do not count it.
func DefaultFactorTable() *FactorTable {
	t, err := NewFactorTable(defaultSpecs)
	if err != nil {
		panic(fmt.Sprintf("footprint: invalid default factor table: %v", err))
	}
	return t
}

var defaultSpecs = []FieldSpec{
	{Category: CategoryTransport, Field: "carKm", Factor: 0.21, Min: 0, Max: 500},
	{Category: CategoryTransport, Field: "publicTransport", Factor: 2.5, Min: 0, Max: 20},
	{Category: CategoryTransport, Field: "flights", Factor: 500, Min: 0, Max: 10},

	{Category: CategoryEnergy, Field: "electricity", Factor: 0.2, Min: 0, Max: 500},
	{Category: CategoryEnergy, Field: "gas", Factor: 15, Min: 0, Max: 5},
	{Category: CategoryEnergy, Field: "airConditioning", Factor: 0.4, Min: 0, Max: 24},

	{Category: CategoryFood, Field: "meat", Factor: 6.0, Min: 0, Max: 21},
	{Category: CategoryFood, Field: "dairy", Factor: 1.5, Min: 0, Max: 5},
	{Category: CategoryFood, Field: "foodWaste", Factor: 0, Min: 0, Max: 5},

	{Category: CategoryConsumption, Field: "shopping", Factor: 10, Min: 0, Max: 20},
	{Category: CategoryConsumption, Field: "waste", Factor: 5, Min: 0, Max: 10},
	{Category: CategoryConsumption, Field: "recycling", Factor: -2, Min: 0, Max: 5},
}

// Fields returns the specs of a category in summation order.
func (t *FactorTable) Fields(category Category) []FieldSpec {
	src := t.fields[category]
	out := make([]FieldSpec, len(src))
	copy(out, src)
	return out
}

// Spec looks up a single field spec.
func (t *FactorTable) Spec(category Category, field string) (FieldSpec, bool) {
	s, ok := t.index[category][field]
	return s, ok
}

// Specs returns every spec in category then field order.
func (t *FactorTable) Specs() []FieldSpec {
	var out []FieldSpec
	for _, c := range categoryOrder {
		out = append(out, t.fields[c]...)
	}
	return out
}

// ValidateInputs checks every reported value against the table. Unknown
// categories or fields, non-finite values, and out-of-range values are all
// reported together.
func (t *FactorTable) ValidateInputs(raw RawInputs) error {
	var errs []*InvalidInputError

	for _, c := range sortedCategoryKeys(raw) {
		if !c.Valid() {
			errs = append(errs, &InvalidInputError{Category: c, Reason: "unknown category"})
			continue
		}
		for _, field := range sortedFieldKeys(raw[c]) {
			v := raw[c][field]
			spec, ok := t.Spec(c, field)
			switch {
			case !ok:
				errs = append(errs, &InvalidInputError{Category: c, Field: field, Value: v, Reason: "unknown field"})
			case !isFinite(v):
				errs = append(errs, &InvalidInputError{Category: c, Field: field, Value: v, Reason: "must be a finite number"})
			case !spec.InRange(v):
				errs = append(errs, &InvalidInputError{
					Category: c,
					Field:    field,
					Value:    v,
					Reason:   fmt.Sprintf("must be between %g and %g", spec.Min, spec.Max),
				})
			}
		}
	}

	return validationErrorOrNil(errs)
}

// ParseInputs converts loosely typed decoded input (e.g. from JSON) into
// RawInputs. Values that are not numbers are reported as InvalidInputError
// naming the offending field. Ranges are not checked here.
func ParseInputs(in map[string]map[string]interface{}) (RawInputs, error) {
	raw := make(RawInputs, len(in))
	var errs []*InvalidInputError

	for _, ck := range sortedStringKeys(in) {
		c := Category(ck)
		fields := make(map[string]float64, len(in[ck]))
		for _, field := range sortedStringKeys(in[ck]) {
			switch v := in[ck][field].(type) {
			case float64:
				fields[field] = v
			case nil:
				// Explicit null counts as not reported.
			default:
				errs = append(errs, &InvalidInputError{Category: c, Field: field, Value: v, Reason: "must be a number"})
			}
		}
		raw[c] = fields
	}

	if err := validationErrorOrNil(errs); err != nil {
		return nil, err
	}
	return raw, nil
}

type factorFile struct {
	Categories map[string][]factorFileField `yaml:"categories"`
}

type factorFileField struct {
	Field  string   `yaml:"field"`
	Factor *float64 `yaml:"factor"`
	Min    *float64 `yaml:"min"`
	Max    *float64 `yaml:"max"`
}

func (ff factorFileField) spec(c Category) (FieldSpec, error) {
	missing := func(key string) error {
		return fmt.Errorf("%w: %s.%s has no %s", ErrMissingKey, c, ff.Field, key)
	}
	switch {
	case ff.Field == "":
		return FieldSpec{}, fmt.Errorf("%w: %s entry has no field", ErrMissingKey, c)
	case ff.Factor == nil:
		return FieldSpec{}, missing("factor")
	case ff.Min == nil:
		return FieldSpec{}, missing("min")
	case ff.Max == nil:
		return FieldSpec{}, missing("max")
	}
	return FieldSpec{Category: c, Field: ff.Field, Factor: *ff.Factor, Min: *ff.Min, Max: *ff.Max}, nil
}

// ParseFactorTable builds a table from its YAML representation:
//
//	categories:
//	  transport:
//	    - {field: carKm, factor: 0.21, min: 0, max: 500}
//
// Unknown keys are rejected and every entry must set field, factor, min and max.
func ParseFactorTable(data []byte) (*FactorTable, error) {
	var f factorFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode factor table: %w", err)
	}

	for name := range f.Categories {
		if !Category(name).Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
		}
	}

	var specs []FieldSpec
	for _, c := range categoryOrder {
		for _, ff := range f.Categories[string(c)] {
			spec, err := ff.spec(c)
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		}
	}

	return NewFactorTable(specs)
}

// LoadFactorTable reads a YAML factor table from disk.
func LoadFactorTable(path string) (*FactorTable, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("read factor table: %w", err)
	}
	return ParseFactorTable(data)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
