// Package buybox evaluates computed deal metrics against user investment
// criteria. Evaluation is transparent: every criterion emits a breakdown
// entry with its inputs and formula, and the score is just the sum of the
// weighted contributions.
package buybox

import (
	"fmt"
	"math"
	"strings"

	"github.com/proppulse/proppulse/internal/model"
)

// Criterion weights sum to 100 so the deal score lands on a 0-100 scale
const (
	weightCapRate    = 25.0
	weightCashOnCash = 25.0
	weightIRR        = 30.0
	weightDSCR       = 20.0
)

// Evaluator scores deals against a buy box
type Evaluator struct{}

// NewEvaluator creates an evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate applies the criteria to the metrics and property. The verdict
// and the score are independent: the verdict is a hard AND over the binding
// criteria, while the score rewards partial strength. Nil metrics mean the
// deal cannot be judged yet and come back Incomplete with a zero score.
//
// Binding criteria are cap rate, cash-on-cash, IRR, DSCR, the price band
// and the unit band. Year built, square footage and preferred markets are
// reported in the breakdown but never flip the verdict.
func (e *Evaluator) Evaluate(metrics *model.ComputedMetrics, record *model.PropertyRecord, criteria model.InvestmentCriteria) (model.Verdict, int, []model.CriterionScore) {
	if metrics == nil {
		return model.VerdictIncomplete, 0, nil
	}

	var breakdown []model.CriterionScore
	pass := true
	total := 0.0

	// Metric ratios are fractions; criteria thresholds are the percentages
	// investors write. Convert at this boundary only.
	for _, c := range []struct {
		name      string
		actual    float64
		threshold float64
		weight    float64
	}{
		{"cap_rate", metrics.CapRate * 100, criteria.MinCapRate, weightCapRate},
		{"cash_on_cash", metrics.CashOnCashReturn * 100, criteria.MinCashOnCash, weightCashOnCash},
		{"irr", metrics.InternalRateOfReturn * 100, criteria.MinIRR, weightIRR},
	} {
		entry := weighted(c.name, c.actual, c.threshold, c.weight)
		breakdown = append(breakdown, entry)
		total += entry.Contribution
		pass = pass && entry.Passed
	}

	dscr := e.dscrScore(metrics, criteria)
	breakdown = append(breakdown, dscr)
	total += dscr.Contribution
	pass = pass && dscr.Passed

	for _, bound := range e.hardBounds(metrics, record, criteria) {
		breakdown = append(breakdown, bound)
		pass = pass && bound.Passed
	}

	breakdown = append(breakdown, e.informational(record, criteria)...)

	verdict := model.VerdictPass
	if !pass {
		verdict = model.VerdictFail
	}
	return verdict, int(math.Round(total)), breakdown
}

// weighted builds a standard ratio-capped contribution entry
func weighted(name string, actual, threshold, weight float64) model.CriterionScore {
	contribution := weight
	if threshold > 0 {
		contribution = math.Min(actual/threshold, 1.0) * weight
		if contribution < 0 {
			contribution = 0
		}
	}

	return model.CriterionScore{
		Criterion:    name,
		Actual:       actual,
		Threshold:    threshold,
		Weight:       weight,
		Contribution: contribution,
		Passed:       actual >= threshold,
		Formula:      fmt.Sprintf("min(actual / %.2f, 1.0) * %.0f", threshold, weight),
	}
}

// dscrScore handles the unlevered special case: with no debt service there
// is nothing to cover, so the criterion is satisfied at full weight.
func (e *Evaluator) dscrScore(metrics *model.ComputedMetrics, criteria model.InvestmentCriteria) model.CriterionScore {
	if metrics.AnnualDebtService == 0 {
		return model.CriterionScore{
			Criterion:    "dscr",
			Actual:       0,
			Threshold:    criteria.MinDSCR,
			Weight:       weightDSCR,
			Contribution: weightDSCR,
			Passed:       true,
			Formula:      "no debt service, criterion satisfied",
		}
	}
	return weighted("dscr", metrics.DebtServiceCoverageRatio, criteria.MinDSCR, weightDSCR)
}

// hardBounds are pass/fail gates that carry no score weight
func (e *Evaluator) hardBounds(metrics *model.ComputedMetrics, record *model.PropertyRecord, criteria model.InvestmentCriteria) []model.CriterionScore {
	var bounds []model.CriterionScore

	if criteria.MinPrice > 0 || criteria.MaxPrice > 0 {
		passed := metrics.PurchasePrice >= criteria.MinPrice &&
			(criteria.MaxPrice == 0 || metrics.PurchasePrice <= criteria.MaxPrice)
		bounds = append(bounds, model.CriterionScore{
			Criterion: "price_band",
			Actual:    metrics.PurchasePrice,
			Threshold: criteria.MaxPrice,
			Passed:    passed,
		})
	}

	if record != nil && (criteria.MinUnits > 0 || criteria.MaxUnits > 0) {
		if record.Units == 0 {
			// An absent unit count is unknown, not zero; the band cannot
			// judge what no source reported.
			bounds = append(bounds, model.CriterionScore{
				Criterion: "unit_band",
				Threshold: float64(criteria.MaxUnits),
				Passed:    true,
				Formula:   "unit count unknown, band not applied",
			})
		} else {
			passed := record.Units >= criteria.MinUnits &&
				(criteria.MaxUnits == 0 || record.Units <= criteria.MaxUnits)
			bounds = append(bounds, model.CriterionScore{
				Criterion: "unit_band",
				Actual:    float64(record.Units),
				Threshold: float64(criteria.MaxUnits),
				Passed:    passed,
			})
		}
	}

	return bounds
}

// informational entries describe fit without affecting verdict or score
func (e *Evaluator) informational(record *model.PropertyRecord, criteria model.InvestmentCriteria) []model.CriterionScore {
	if record == nil {
		return nil
	}

	var entries []model.CriterionScore

	if criteria.MaxYearBuilt > 0 && record.YearBuilt > 0 {
		entries = append(entries, model.CriterionScore{
			Criterion: "year_built",
			Actual:    float64(record.YearBuilt),
			Threshold: float64(criteria.MaxYearBuilt),
			Passed:    record.YearBuilt <= criteria.MaxYearBuilt,
		})
	}

	if criteria.MinSquareFootage > 0 && record.SquareFootage > 0 {
		entries = append(entries, model.CriterionScore{
			Criterion: "square_footage",
			Actual:    float64(record.SquareFootage),
			Threshold: float64(criteria.MinSquareFootage),
			Passed:    record.SquareFootage >= criteria.MinSquareFootage,
		})
	}

	if len(criteria.PreferredMarkets) > 0 {
		entries = append(entries, model.CriterionScore{
			Criterion: "preferred_market",
			Passed:    inPreferredMarket(record.Address.Normalized, criteria.PreferredMarkets),
		})
	}

	return entries
}

func inPreferredMarket(normalized string, markets []string) bool {
	for _, m := range markets {
		if m != "" && strings.Contains(normalized, strings.ToLower(m)) {
			return true
		}
	}
	return false
}
