package model

// FinancialInputs is the structured financial picture of a deal, produced
// upstream by document extraction and read-only to the pipeline. Rate fields
// are fractions (0.065, not 6.5).
type FinancialInputs struct {
	GrossRentalIncome float64 `json:"gross_rental_income" yaml:"gross_rental_income"`
	VacancyLoss       float64 `json:"vacancy_loss,omitempty" yaml:"vacancy_loss"`
	OperatingExpenses float64 `json:"operating_expenses" yaml:"operating_expenses"`

	PurchasePrice float64 `json:"purchase_price" yaml:"purchase_price"`
	ClosingCosts  float64 `json:"closing_costs,omitempty" yaml:"closing_costs"`

	// Financing terms
	LoanAmount        float64 `json:"loan_amount,omitempty" yaml:"loan_amount"`
	InterestRate      float64 `json:"interest_rate,omitempty" yaml:"interest_rate"`
	AmortizationYears int     `json:"amortization_years,omitempty" yaml:"amortization_years"`

	// Hold and exit assumptions
	HoldingPeriodYears int     `json:"holding_period_years,omitempty" yaml:"holding_period_years"`
	ExitCapRate        float64 `json:"exit_cap_rate,omitempty" yaml:"exit_cap_rate"`
	AnnualRentGrowth   float64 `json:"annual_rent_growth,omitempty" yaml:"annual_rent_growth"`
	DiscountRate       float64 `json:"discount_rate,omitempty" yaml:"discount_rate"`
}

// ComputedMetrics are the derived return metrics for a deal. Every field is
// a deterministic function of FinancialInputs and is recomputed fresh on
// every request. Ratio fields are fractions; formatting to percent happens
// at presentation time.
type ComputedMetrics struct {
	NetOperatingIncome       float64 `json:"net_operating_income"`
	AnnualDebtService        float64 `json:"annual_debt_service"`
	CashFlow                 float64 `json:"cash_flow"`
	CapRate                  float64 `json:"cap_rate"`
	CashOnCashReturn         float64 `json:"cash_on_cash_return"`
	InternalRateOfReturn     float64 `json:"internal_rate_of_return"`
	DebtServiceCoverageRatio float64 `json:"debt_service_coverage_ratio"`
	NetPresentValue          float64 `json:"net_present_value"`

	// PurchasePrice is echoed from the inputs so threshold checks and
	// reports are self-describing.
	PurchasePrice float64 `json:"purchase_price"`
}
