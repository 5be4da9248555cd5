package models

// FieldFactor describes one input field and its emission factor.
type FieldFactor struct {
	Field  string  `json:"field"`
	Factor float64 `json:"factor"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// CategoryFactors lists a category's fields in evaluation order.
type CategoryFactors struct {
	Category string        `json:"category"`
	Fields   []FieldFactor `json:"fields"`
}

// BandThreshold gives the half-open total range [MinTotal, MaxTotal) of a
// band. MaxTotal is omitted for the open-ended top band.
type BandThreshold struct {
	Band     string   `json:"band"`
	MinTotal float64  `json:"minTotal"`
	MaxTotal *float64 `json:"maxTotal,omitempty"`
}

// FactorMetadata is the factor table and band thresholds in effect.
type FactorMetadata struct {
	Unit       string            `json:"unit"`
	Categories []CategoryFactors `json:"categories"`
	Bands      []BandThreshold   `json:"bands"`
}
