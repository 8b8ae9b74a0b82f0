package finance

import (
	"fmt"
	"math"
)

const (
	irrTolerance  = 1e-6
	newtonMaxIter = 100
	bisectMaxIter = 200
	irrLowerBound = -0.95
	irrUpperBound = 10.0
)

// ConvergenceError reports an IRR solve that found no root within bounds
type ConvergenceError struct {
	Method string
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("irr did not converge (%s)", e.Method)
}

// SolveIRR finds the internal rate of return for a cash-flow series where
// index 0 is the initial outlay. Newton-Raphson is tried first for speed;
// when it diverges or leaves the bracket, bisection over [-95%, 1000%]
// takes over.
func SolveIRR(series []float64) (float64, error) {
	if len(series) < 2 {
		return 0, &InsufficientDataError{Field: "cash_flows", Reason: "need an outlay and at least one period"}
	}

	if rate, ok := newton(series); ok {
		return rate, nil
	}
	return bisect(series)
}

// NPV discounts the series at the given rate. Index 0 is undiscounted.
func NPV(rate float64, series []float64) float64 {
	total := 0.0
	for t, cf := range series {
		total += cf / math.Pow(1+rate, float64(t))
	}
	return total
}

func newton(series []float64) (float64, bool) {
	rate := 0.1
	for i := 0; i < newtonMaxIter; i++ {
		value := NPV(rate, series)
		if math.Abs(value) < irrTolerance {
			return rate, true
		}

		deriv := npvDerivative(rate, series)
		if deriv == 0 || math.IsNaN(deriv) {
			return 0, false
		}

		next := rate - value/deriv
		if next <= irrLowerBound || next >= irrUpperBound || math.IsNaN(next) {
			return 0, false
		}
		rate = next
	}
	return 0, false
}

func npvDerivative(rate float64, series []float64) float64 {
	deriv := 0.0
	for t := 1; t < len(series); t++ {
		deriv -= float64(t) * series[t] / math.Pow(1+rate, float64(t+1))
	}
	return deriv
}

func bisect(series []float64) (float64, error) {
	lo, hi := irrLowerBound, irrUpperBound
	fLo, fHi := NPV(lo, series), NPV(hi, series)

	if fLo*fHi > 0 {
		// No sign change in the bracket means no root to find, which
		// happens for all-positive or all-negative series.
		return 0, &ConvergenceError{Method: "bisection"}
	}

	for i := 0; i < bisectMaxIter; i++ {
		mid := (lo + hi) / 2
		fMid := NPV(mid, series)

		if math.Abs(fMid) < irrTolerance || (hi-lo)/2 < irrTolerance {
			return mid, nil
		}

		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}

	return 0, &ConvergenceError{Method: "bisection"}
}
