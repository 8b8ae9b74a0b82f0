package model

// PropertyType is the coarse classification of a property
type PropertyType string

const (
	TypeMultifamily  PropertyType = "Multifamily"
	TypeCommercial   PropertyType = "Commercial"
	TypeSingleFamily PropertyType = "Single Family"
	TypeUnknown      PropertyType = "Unknown"
)

// Address is a raw property address plus what could be derived from it.
// Built once by the classifier and never mutated afterwards.
type Address struct {
	Raw        string       `json:"raw"`                 // As supplied by the caller
	Normalized string       `json:"normalized"`          // Lowercased, whitespace-squeezed
	Hint       PropertyType `json:"hint"`                // Lexical property-type hint
	UnitHint   int          `json:"unit_hint,omitempty"` // Largest embedded unit number (0 = none)
}

// MarketData carries market-level context for a property. Rate fields are
// percentages (6.5 means 6.5%), matching how sources report them.
type MarketData struct {
	RentPerUnit      float64 `json:"rent_per_unit,omitempty"`     // Monthly, per unit
	CapRateEstimate  float64 `json:"cap_rate_estimate,omitempty"` // Percent
	AnnualRentIncome float64 `json:"annual_rent_income,omitempty"`
}

// Demographics describes the census tract around a property
type Demographics struct {
	MedianIncome       float64 `json:"median_income,omitempty"`
	CollegeEducatedPct float64 `json:"college_educated_pct,omitempty"`
	UnemploymentRate   float64 `json:"unemployment_rate,omitempty"`
	MedianAge          float64 `json:"median_age,omitempty"`
}

// PropertyRecord is the resolved description of one property.
//
// Invariants:
//   - IsEstimated implies Confidence <= 30 and Provenance holds only the
//     estimator's name
//   - a records-provider hit implies Confidence >= 75
//   - Units >= 1 whenever PropertyType != Unknown
//
// A record is created once per analysis request and never mutated; a new
// resolution always produces a new record.
type PropertyRecord struct {
	Address        Address       `json:"address"`
	PropertyType   PropertyType  `json:"property_type"`
	Units          int           `json:"units,omitempty"`
	SquareFootage  int           `json:"square_footage,omitempty"`
	YearBuilt      int           `json:"year_built,omitempty"`
	EstimatedValue float64       `json:"estimated_value,omitempty"`
	MarketData     *MarketData   `json:"market_data,omitempty"`
	Demographics   *Demographics `json:"demographics,omitempty"`
	Provenance     []string      `json:"provenance"` // Ordered source names that contributed
	Confidence     int           `json:"confidence"` // 0-100
	IsEstimated    bool          `json:"is_estimated"`
	Disclaimer     string        `json:"disclaimer,omitempty"`
}
