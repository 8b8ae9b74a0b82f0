package model

import "time"

// Verdict is the pass/fail outcome of a buy-box evaluation
type Verdict string

const (
	VerdictPass       Verdict = "PASS"
	VerdictFail       Verdict = "FAIL"
	VerdictIncomplete Verdict = "INCOMPLETE" // No financial documents supplied yet
)

// CriterionScore is one criterion's contribution to the deal score. Weighted
// criteria carry their normalization inputs so the score stays explainable;
// hard bounds carry only the pass flag.
type CriterionScore struct {
	Criterion    string  `json:"criterion"`
	Actual       float64 `json:"actual"`
	Threshold    float64 `json:"threshold"`
	Weight       float64 `json:"weight,omitempty"`
	Contribution float64 `json:"contribution"`
	Passed       bool    `json:"passed"`
	Formula      string  `json:"formula,omitempty"`
}

// Commentary is an optional narrative read on the deal. It is generated
// after scoring and never feeds back into the verdict or the score.
type Commentary struct {
	Recommendation string   `json:"recommendation"` // BUY, HOLD or PASS
	MarketInsight  string   `json:"market_insight"`
	Strengths      []string `json:"strengths,omitempty"`
	Concerns       []string `json:"concerns,omitempty"`
	RiskNote       string   `json:"risk_note,omitempty"`
	Provider       string   `json:"provider,omitempty"` // Empty for the metrics-based fallback
	Model          string   `json:"model,omitempty"`
}

// AnalysisResult is the terminal artifact of one pipeline run. Created once,
// immutable; re-running an analysis produces a new result.
type AnalysisResult struct {
	PropertyRecord PropertyRecord   `json:"property_record"`
	Metrics        *ComputedMetrics `json:"metrics,omitempty"` // Absent without financial documents
	Verdict        Verdict          `json:"verdict"`
	Score          int              `json:"score"` // 0-100
	ScoreBreakdown []CriterionScore `json:"score_breakdown,omitempty"`
	Commentary     *Commentary      `json:"commentary,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}
