package model

// InvestmentCriteria is the user-owned "buy box": the thresholds a deal must
// clear. Threshold rates are written the way investors write them, as
// percentages (MinCapRate 6 means 6%); MinDSCR is a plain ratio. The
// criteria set is created with defaults, mutated only by an explicit user
// save, and read-only during evaluation.
type InvestmentCriteria struct {
	MinCapRate    float64 `json:"min_cap_rate" yaml:"min_cap_rate"`
	MinCashOnCash float64 `json:"min_cash_on_cash" yaml:"min_cash_on_cash"`
	MinIRR        float64 `json:"min_irr" yaml:"min_irr"`
	MinDSCR       float64 `json:"min_dscr" yaml:"min_dscr"`

	MinPrice float64 `json:"min_price,omitempty" yaml:"min_price"`
	MaxPrice float64 `json:"max_price,omitempty" yaml:"max_price"`
	MinUnits int     `json:"min_units,omitempty" yaml:"min_units"`
	MaxUnits int     `json:"max_units,omitempty" yaml:"max_units"`

	MaxYearBuilt     int `json:"max_year_built,omitempty" yaml:"max_year_built"`
	MinSquareFootage int `json:"min_square_footage,omitempty" yaml:"min_square_footage"`

	PreferredMarkets []string `json:"preferred_markets,omitempty" yaml:"preferred_markets"`
	RiskTolerance    string   `json:"risk_tolerance,omitempty" yaml:"risk_tolerance"`
}

// DefaultCriteria returns the standard buy box
func DefaultCriteria() InvestmentCriteria {
	return InvestmentCriteria{
		MinCapRate:    6.0,
		MinCashOnCash: 8.0,
		MinIRR:        12.0,
		MinDSCR:       1.2,
		MaxPrice:      5_000_000,
		MinUnits:      20,
		MaxUnits:      100,
		RiskTolerance: "medium",
	}
}
