package llm

import (
	"fmt"

	"github.com/proppulse/proppulse/internal/model"
)

// Fallback builds deterministic commentary straight from the metrics. It is
// the floor every analysis gets, and the base a model-backed commentator
// enhances. The recommendation ladder reads percentage values.
func Fallback(req CommentaryRequest) *model.Commentary {
	m := req.Metrics
	if m == nil {
		return &model.Commentary{
			Recommendation: "PASS",
			MarketInsight:  "No financial documents supplied; underwriting metrics are unavailable.",
		}
	}

	cap := m.CapRate * 100
	coc := m.CashOnCashReturn * 100
	irr := m.InternalRateOfReturn * 100
	dscr := m.DebtServiceCoverageRatio
	unlevered := m.AnnualDebtService == 0

	c := &model.Commentary{
		Recommendation: recommend(cap, coc, dscr, unlevered),
		MarketInsight: fmt.Sprintf(
			"At a %.1f%% cap rate and %.1f%% cash-on-cash return, the deal prices near its income; projected IRR over the hold is %.1f%%.",
			cap, coc, irr),
	}

	if cap >= 7 {
		c.Strengths = append(c.Strengths, fmt.Sprintf("Cap rate of %.1f%% is well above typical market pricing", cap))
	}
	if coc >= 10 {
		c.Strengths = append(c.Strengths, fmt.Sprintf("Cash-on-cash return of %.1f%% provides strong current yield", coc))
	}
	if irr >= 15 {
		c.Strengths = append(c.Strengths, fmt.Sprintf("Projected IRR of %.1f%% exceeds institutional hurdle rates", irr))
	}
	if !unlevered && dscr >= 1.4 {
		c.Strengths = append(c.Strengths, fmt.Sprintf("DSCR of %.2f leaves substantial cushion over debt service", dscr))
	}

	if cap < 5 {
		c.Concerns = append(c.Concerns, fmt.Sprintf("Cap rate of %.1f%% is thin for this asset class", cap))
	}
	if coc < 6 {
		c.Concerns = append(c.Concerns, fmt.Sprintf("Cash-on-cash return of %.1f%% trails passive alternatives", coc))
	}
	if irr < 10 {
		c.Concerns = append(c.Concerns, fmt.Sprintf("Projected IRR of %.1f%% may not compensate for execution risk", irr))
	}
	if !unlevered && dscr < 1.2 {
		c.Concerns = append(c.Concerns, fmt.Sprintf("DSCR of %.2f offers little margin against vacancy or expense shocks", dscr))
	}
	if req.Record.IsEstimated {
		c.Concerns = append(c.Concerns, "Property data is heuristically estimated; verify with county records")
	}

	c.RiskNote = riskNote(dscr, unlevered)
	return c
}

// recommend is the deterministic ladder. It never sees the verdict; it is a
// second opinion derived from the same metrics.
func recommend(cap, coc, dscr float64, unlevered bool) string {
	debtOK := func(min float64) bool { return unlevered || dscr >= min }

	switch {
	case cap >= 7 && coc >= 10 && debtOK(1.3):
		return "BUY"
	case cap >= 6 && coc >= 8 && debtOK(1.2):
		return "BUY"
	case cap >= 5 && coc >= 6:
		return "HOLD"
	default:
		return "PASS"
	}
}

func riskNote(dscr float64, unlevered bool) string {
	switch {
	case unlevered:
		return "All-cash acquisition; no refinancing or rate risk."
	case dscr < 1.0:
		return "Income does not cover debt service; the deal requires capital infusions from day one."
	case dscr < 1.2:
		return "Coverage is thin; a modest vacancy increase could push cash flow negative."
	case dscr >= 1.5:
		return "Debt coverage is comfortable across plausible downside scenarios."
	default:
		return "Debt coverage is adequate but warrants stress testing against rent softness."
	}
}
