// Package llm generates deal commentary. Commentary is narrative only; the
// verdict and score are decided before any commentator runs and nothing
// here can change them. A deterministic metrics-based commentator always
// exists, so the pipeline never depends on an external model being up.
package llm

import (
	"context"
	"fmt"

	"github.com/proppulse/proppulse/internal/model"
)

// Commentator produces a narrative read on an evaluated deal
type Commentator interface {
	// Name returns the commentator name
	Name() string

	// Comment generates commentary for the request. Implementations backed
	// by external models return an error on failure; callers fall back to
	// the deterministic commentator.
	Comment(ctx context.Context, req CommentaryRequest) (*model.Commentary, error)
}

// CommentaryRequest carries everything a commentator may draw on
type CommentaryRequest struct {
	Record   model.PropertyRecord
	Metrics  *model.ComputedMetrics
	Verdict  model.Verdict
	Score    int
	Criteria model.InvestmentCriteria
}

// BuildPrompt renders the deal into a prompt for model-backed commentators.
// The metric values are stated explicitly so the model describes the deal
// in front of it instead of inventing one.
func BuildPrompt(req CommentaryRequest) string {
	m := req.Metrics
	prompt := fmt.Sprintf(`You are a commercial real-estate analyst reviewing an underwritten deal.

RULES:
1. Comment ONLY on the figures below. Do not invent comparables, rents, or market statistics.
2. Do not recommend buying or passing; the verdict is already decided.
3. Keep the market insight to 2-3 sentences.

Deal:
- Address: %s
- Property type: %s, %d units
- Purchase price: $%.0f
- Cap rate: %.2f%%
- Cash-on-cash return: %.2f%%
- IRR over hold: %.2f%%
- DSCR: %.2f
- Verdict: %s (score %d/100)

Respond with JSON: {"market_insight": "...", "strengths": ["..."], "concerns": ["..."], "risk_note": "..."}`,
		req.Record.Address.Raw,
		req.Record.PropertyType,
		req.Record.Units,
		m.PurchasePrice,
		m.CapRate*100,
		m.CashOnCashReturn*100,
		m.InternalRateOfReturn*100,
		m.DebtServiceCoverageRatio,
		req.Verdict,
		req.Score,
	)
	return prompt
}
