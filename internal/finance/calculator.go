// Package finance computes deal-level underwriting metrics from financial
// inputs. Rates are fractions internally (0.065 means 6.5%); translation to
// the percentage thresholds users write happens at the evaluation boundary,
// not here.
package finance

import (
	"fmt"
	"math"

	"github.com/proppulse/proppulse/internal/model"
)

// InsufficientDataError reports inputs that cannot support the calculation
type InsufficientDataError struct {
	Field  string
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %s: %s", e.Field, e.Reason)
}

// Calculator computes the metric set for one deal
type Calculator struct{}

// NewCalculator creates a metrics calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Compute derives the full metric set from the inputs. It validates the
// inputs first and returns InsufficientDataError rather than emitting
// garbage metrics. An IRR that fails to converge surfaces as
// ConvergenceError; no partial metric set is returned in that case.
func (c *Calculator) Compute(in model.FinancialInputs) (*model.ComputedMetrics, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	noi := in.GrossRentalIncome - in.VacancyLoss - in.OperatingExpenses
	ads := annualDebtService(in.LoanAmount, in.InterestRate, in.AmortizationYears)
	cashFlow := noi - ads
	equity := in.PurchasePrice - in.LoanAmount + in.ClosingCosts

	metrics := &model.ComputedMetrics{
		NetOperatingIncome: noi,
		AnnualDebtService:  ads,
		CashFlow:           cashFlow,
		CapRate:            noi / in.PurchasePrice,
		PurchasePrice:      in.PurchasePrice,
	}

	if equity > 0 {
		metrics.CashOnCashReturn = cashFlow / equity
	}

	// DSCR is undefined for an unlevered deal; zero debt service leaves it
	// at zero and the evaluator treats the criterion as satisfied.
	if ads > 0 {
		metrics.DebtServiceCoverageRatio = noi / ads
	}

	series := cashFlowSeries(in, noi, cashFlow)

	irr, err := SolveIRR(series)
	if err != nil {
		return nil, err
	}
	metrics.InternalRateOfReturn = irr

	if in.DiscountRate > 0 {
		metrics.NetPresentValue = NPV(in.DiscountRate, series)
	}

	return metrics, nil
}

func validate(in model.FinancialInputs) error {
	switch {
	case in.PurchasePrice <= 0:
		return &InsufficientDataError{Field: "purchase_price", Reason: "must be positive"}
	case in.GrossRentalIncome <= 0:
		return &InsufficientDataError{Field: "gross_rental_income", Reason: "must be positive"}
	case in.VacancyLoss < 0 || in.OperatingExpenses < 0:
		return &InsufficientDataError{Field: "expenses", Reason: "cannot be negative"}
	case in.LoanAmount < 0:
		return &InsufficientDataError{Field: "loan_amount", Reason: "cannot be negative"}
	case in.LoanAmount >= in.PurchasePrice:
		return &InsufficientDataError{Field: "loan_amount", Reason: "must be below purchase price"}
	case in.LoanAmount > 0 && in.AmortizationYears <= 0:
		return &InsufficientDataError{Field: "amortization_years", Reason: "required with a loan"}
	case in.HoldingPeriodYears <= 0:
		return &InsufficientDataError{Field: "holding_period_years", Reason: "must be positive"}
	case in.ExitCapRate <= 0:
		return &InsufficientDataError{Field: "exit_cap_rate", Reason: "must be positive"}
	}
	return nil
}

// annualDebtService is the standard mortgage payment formula, annualized.
// A zero rate amortizes linearly.
func annualDebtService(loan, rate float64, years int) float64 {
	if loan <= 0 || years <= 0 {
		return 0
	}

	n := float64(years * 12)
	if rate == 0 {
		return loan / n * 12
	}

	r := rate / 12
	monthly := loan * r * math.Pow(1+r, n) / (math.Pow(1+r, n) - 1)
	return monthly * 12
}

// cashFlowSeries builds the holding-period cash flows for IRR and NPV.
// Index 0 is the equity outlay; the final year adds net sale proceeds at
// the exit cap rate.
func cashFlowSeries(in model.FinancialInputs, noi, cashFlow float64) []float64 {
	years := in.HoldingPeriodYears
	series := make([]float64, years+1)
	series[0] = -(in.PurchasePrice - in.LoanAmount + in.ClosingCosts)

	g := in.AnnualRentGrowth
	for t := 1; t <= years; t++ {
		growth := math.Pow(1+g, float64(t-1))
		series[t] = cashFlow * growth
	}

	exitNOI := noi * math.Pow(1+g, float64(years))
	saleProceeds := exitNOI/in.ExitCapRate - in.LoanAmount
	series[years] += saleProceeds

	return series
}
