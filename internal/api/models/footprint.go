package models

// FootprintRequest is the body of a compute or submit request. Inputs maps
// category to field to value, e.g. {"transport": {"carKm": 120}}. Missing
// fields count as zero.
type FootprintRequest struct {
	Inputs map[string]map[string]interface{} `json:"inputs"`
}

// CategoryBreakdown holds per-category emissions in kg CO2e.
type CategoryBreakdown struct {
	Transport   float64 `json:"transport"`
	Energy      float64 `json:"energy"`
	Food        float64 `json:"food"`
	Consumption float64 `json:"consumption"`
}

// FootprintRecord is a computed footprint. ID and CreatedAt are omitted for
// unsaved computations.
type FootprintRecord struct {
	ID              string            `json:"id,omitempty"`
	TotalFootprint  float64           `json:"totalFootprint"`
	Band            string            `json:"band"`
	Categories      CategoryBreakdown `json:"categories"`
	Recommendations []string          `json:"recommendations"`
	CreatedAt       *Timestamp        `json:"createdAt,omitempty"`
}

// FootprintHistory lists a user's records, newest first.
type FootprintHistory struct {
	Items []FootprintRecord `json:"items"`
	Meta  ListMeta          `json:"meta"`
}

// TrendPoint is one record in a chronological trend series.
type TrendPoint struct {
	Date       string            `json:"date"`
	RecordedAt Timestamp         `json:"recordedAt"`
	Total      float64           `json:"total"`
	Categories CategoryBreakdown `json:"categories"`
}

// CategoryShare is one category's summed emissions and share of the whole.
type CategoryShare struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Share    float64 `json:"share"`
}

// PersonalStats summarises one user's history.
type PersonalStats struct {
	Latest            *FootprintRecord `json:"latest"`
	AverageFootprint  float64          `json:"averageFootprint"`
	TotalCalculations int              `json:"totalCalculations"`
	Trend             []TrendPoint     `json:"trend"`
	Distribution      []CategoryShare  `json:"distribution"`
}

// CommunityStats summarises every stored record.
type CommunityStats struct {
	AverageFootprint  float64 `json:"averageFootprint"`
	TotalCalculations int     `json:"totalCalculations"`
}

// Comparison contrasts a user's average with the community's.
type Comparison struct {
	UserAverage      float64 `json:"userAverage"`
	CommunityAverage float64 `json:"communityAverage"`
	Difference       float64 `json:"difference"`
}

// Analytics combines personal and community statistics.
type Analytics struct {
	Personal   PersonalStats  `json:"personal"`
	Community  CommunityStats `json:"community"`
	Comparison Comparison     `json:"comparison"`
}
