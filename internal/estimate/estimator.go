// Package estimate produces heuristic property records when no external
// source can resolve an address. Estimates are clearly marked and carry low
// confidence; they exist so the pipeline can always proceed to underwriting.
package estimate

import (
	"github.com/proppulse/proppulse/internal/model"
)

// Disclaimer is attached to every estimated record
const Disclaimer = "Estimated from address characteristics; verify with county records before underwriting."

// Policy holds the tunable assumptions behind heuristic estimates
type Policy struct {
	// Multifamily assumptions
	DefaultUnits    int
	MinUnits        int
	MaxUnits        int
	UnitHintMargin  int
	SqftPerUnit     int
	ValuePerUnit    float64
	RentPerUnit     float64 // Monthly rent per unit, scaled by unit count
	CapRateEstimate float64

	// Commercial assumptions
	CommercialSqft     int
	CommercialValuePSF float64

	// Single-family fallback
	SingleFamilySqft  int
	SingleFamilyValue float64

	Confidence int
}

// DefaultPolicy returns assumptions calibrated against mid-market
// multifamily stock.
func DefaultPolicy() Policy {
	return Policy{
		DefaultUnits:       48,
		MinUnits:           20,
		MaxUnits:           100,
		UnitHintMargin:     10,
		SqftPerUnit:        850,
		ValuePerUnit:       55_000,
		RentPerUnit:        18,
		CapRateEstimate:    6.5,
		CommercialSqft:     5_000,
		CommercialValuePSF: 250,
		SingleFamilySqft:   2_000,
		SingleFamilyValue:  450_000,
		Confidence:         25,
	}
}

// Estimator builds heuristic records from classified addresses
type Estimator struct {
	policy Policy
}

// NewEstimator creates an estimator with the given policy
func NewEstimator(policy Policy) *Estimator {
	return &Estimator{policy: policy}
}

// Estimate returns a heuristic record for the address, or nil when the
// address carries no usable type hint and force is false. With force set,
// an unhinted address gets the single-family fallback so underwriting is
// never blocked on missing data.
func (e *Estimator) Estimate(addr model.Address, force bool) *model.PropertyRecord {
	switch addr.Hint {
	case model.TypeMultifamily:
		return e.multifamily(addr)
	case model.TypeCommercial:
		return e.commercial(addr)
	default:
		if !force {
			return nil
		}
		return e.singleFamily(addr)
	}
}

func (e *Estimator) multifamily(addr model.Address) *model.PropertyRecord {
	units := e.policy.DefaultUnits
	if addr.UnitHint > 0 {
		// The unit number names one unit inside a larger building, so
		// the margin sizes the building past it; the clamp keeps an
		// "Apt 4" from implying a fourplex.
		units = clamp(addr.UnitHint+e.policy.UnitHintMargin, e.policy.MinUnits, e.policy.MaxUnits)
	}

	rent := float64(units) * e.policy.RentPerUnit

	record := e.base(addr, model.TypeMultifamily)
	record.Units = units
	record.SquareFootage = units * e.policy.SqftPerUnit
	record.EstimatedValue = float64(units) * e.policy.ValuePerUnit
	record.MarketData = &model.MarketData{
		RentPerUnit:      rent,
		CapRateEstimate:  e.policy.CapRateEstimate,
		AnnualRentIncome: rent * float64(units) * 12,
	}
	return record
}

func (e *Estimator) commercial(addr model.Address) *model.PropertyRecord {
	record := e.base(addr, model.TypeCommercial)
	record.Units = 1
	record.SquareFootage = e.policy.CommercialSqft
	record.EstimatedValue = float64(e.policy.CommercialSqft) * e.policy.CommercialValuePSF
	return record
}

func (e *Estimator) singleFamily(addr model.Address) *model.PropertyRecord {
	record := e.base(addr, model.TypeSingleFamily)
	record.Units = 1
	record.SquareFootage = e.policy.SingleFamilySqft
	record.EstimatedValue = e.policy.SingleFamilyValue
	return record
}

func (e *Estimator) base(addr model.Address, t model.PropertyType) *model.PropertyRecord {
	return &model.PropertyRecord{
		Address:      addr,
		PropertyType: t,
		Provenance:   []string{"heuristic-estimate"},
		Confidence:   e.policy.Confidence,
		IsEstimated:  true,
		Disclaimer:   Disclaimer,
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
