package buybox

import (
	"math"
	"testing"

	"github.com/proppulse/proppulse/internal/model"
)

func passingMetrics() *model.ComputedMetrics {
	return &model.ComputedMetrics{
		NetOperatingIncome:       217_000,
		AnnualDebtService:        161_940,
		CashFlow:                 55_060,
		CapRate:                  0.062,
		CashOnCashReturn:         0.084,
		InternalRateOfReturn:     0.147,
		DebtServiceCoverageRatio: 1.34,
		PurchasePrice:            3_500_000,
	}
}

func multifamilyRecord(units int) *model.PropertyRecord {
	return &model.PropertyRecord{
		Address:      model.Address{Normalized: "1234 wilshire blvd, los angeles, ca"},
		PropertyType: model.TypeMultifamily,
		Units:        units,
	}
}

func TestEvaluate_PassingDeal(t *testing.T) {
	verdict, score, breakdown := NewEvaluator().Evaluate(passingMetrics(), multifamilyRecord(48), model.DefaultCriteria())

	if verdict != model.VerdictPass {
		t.Fatalf("verdict = %v, want PASS; breakdown: %+v", verdict, breakdown)
	}
	// Every weighted criterion clears its threshold, so each contributes
	// its full weight and the score maxes out.
	if score <= 80 {
		t.Errorf("score = %d, want > 80 for a deal beating every threshold", score)
	}
	if score > 100 {
		t.Errorf("score = %d, exceeds 100", score)
	}
}

func TestEvaluate_ScoreIsSumOfContributions(t *testing.T) {
	_, score, breakdown := NewEvaluator().Evaluate(passingMetrics(), multifamilyRecord(48), model.DefaultCriteria())

	sum := 0.0
	for _, entry := range breakdown {
		sum += entry.Contribution
	}
	if int(math.Round(sum)) != score {
		t.Errorf("score %d != rounded contribution sum %v", score, sum)
	}
}

func TestEvaluate_FailsOnSingleCriterion(t *testing.T) {
	metrics := passingMetrics()
	metrics.DebtServiceCoverageRatio = 1.05 // below the 1.2 floor

	verdict, score, _ := NewEvaluator().Evaluate(metrics, multifamilyRecord(48), model.DefaultCriteria())

	if verdict != model.VerdictFail {
		t.Fatalf("verdict = %v, want FAIL on DSCR miss", verdict)
	}
	// Score still rewards the rest of the deal
	if score < 60 {
		t.Errorf("score = %d, want partial credit despite the failed criterion", score)
	}
}

func TestEvaluate_PriceBand(t *testing.T) {
	metrics := passingMetrics()
	metrics.PurchasePrice = 6_000_000 // above the 5M cap

	verdict, _, breakdown := NewEvaluator().Evaluate(metrics, multifamilyRecord(48), model.DefaultCriteria())

	if verdict != model.VerdictFail {
		t.Fatalf("verdict = %v, want FAIL above the price cap", verdict)
	}
	for _, entry := range breakdown {
		if entry.Criterion == "price_band" && entry.Passed {
			t.Error("price_band marked passed for an over-budget deal")
		}
	}
}

func TestEvaluate_UnitBand(t *testing.T) {
	verdict, _, _ := NewEvaluator().Evaluate(passingMetrics(), multifamilyRecord(8), model.DefaultCriteria())
	if verdict != model.VerdictFail {
		t.Errorf("verdict = %v, want FAIL below the unit floor", verdict)
	}

	verdict, _, _ = NewEvaluator().Evaluate(passingMetrics(), multifamilyRecord(150), model.DefaultCriteria())
	if verdict != model.VerdictFail {
		t.Errorf("verdict = %v, want FAIL above the unit ceiling", verdict)
	}
}

func TestEvaluate_UnknownUnitCountSkipsBand(t *testing.T) {
	// The public provider verifies an address without learning its unit
	// count; the band must not read the absent count as zero.
	record := &model.PropertyRecord{
		Address:      model.Address{Normalized: "200 elm st, plainville, ks"},
		PropertyType: model.TypeUnknown,
		Units:        0,
		Confidence:   80,
	}

	verdict, _, breakdown := NewEvaluator().Evaluate(passingMetrics(), record, model.DefaultCriteria())

	if verdict != model.VerdictPass {
		t.Fatalf("verdict = %v, want PASS; an unknown unit count must not fail the deal", verdict)
	}
	for _, entry := range breakdown {
		if entry.Criterion == "unit_band" && !entry.Passed {
			t.Errorf("unit_band failed on an absent unit count: %+v", entry)
		}
	}
}

func TestEvaluate_UnleveredDSCRSatisfied(t *testing.T) {
	metrics := passingMetrics()
	metrics.AnnualDebtService = 0
	metrics.DebtServiceCoverageRatio = 0

	verdict, _, breakdown := NewEvaluator().Evaluate(metrics, multifamilyRecord(48), model.DefaultCriteria())

	if verdict != model.VerdictPass {
		t.Fatalf("verdict = %v, want PASS for unlevered deal", verdict)
	}
	for _, entry := range breakdown {
		if entry.Criterion == "dscr" {
			if !entry.Passed {
				t.Error("dscr should be satisfied with no debt service")
			}
			if entry.Contribution != weightDSCR {
				t.Errorf("dscr contribution = %v, want full weight %v", entry.Contribution, weightDSCR)
			}
		}
	}
}

func TestEvaluate_NilMetricsIncomplete(t *testing.T) {
	verdict, score, breakdown := NewEvaluator().Evaluate(nil, multifamilyRecord(48), model.DefaultCriteria())

	if verdict != model.VerdictIncomplete {
		t.Errorf("verdict = %v, want INCOMPLETE", verdict)
	}
	if score != 0 {
		t.Errorf("score = %d, want 0 without metrics", score)
	}
	if breakdown != nil {
		t.Errorf("breakdown = %+v, want nil", breakdown)
	}
}

func TestEvaluate_InformationalEntriesNeverFlipVerdict(t *testing.T) {
	criteria := model.DefaultCriteria()
	criteria.MaxYearBuilt = 1980
	criteria.PreferredMarkets = []string{"Austin"}

	record := multifamilyRecord(48)
	record.YearBuilt = 2005 // newer than preferred, informational only

	verdict, _, breakdown := NewEvaluator().Evaluate(passingMetrics(), record, criteria)

	if verdict != model.VerdictPass {
		t.Fatalf("verdict = %v, want PASS; informational misses must not fail a deal", verdict)
	}

	var sawYearBuilt, sawMarket bool
	for _, entry := range breakdown {
		switch entry.Criterion {
		case "year_built":
			sawYearBuilt = true
			if entry.Passed {
				t.Error("year_built should report the miss")
			}
		case "preferred_market":
			sawMarket = true
			if entry.Passed {
				t.Error("preferred_market should report the miss for an LA deal")
			}
		}
	}
	if !sawYearBuilt || !sawMarket {
		t.Errorf("breakdown missing informational entries: year_built=%v market=%v", sawYearBuilt, sawMarket)
	}
}

func TestEvaluate_WeightsSumToHundred(t *testing.T) {
	if total := weightCapRate + weightCashOnCash + weightIRR + weightDSCR; total != 100 {
		t.Fatalf("criterion weights sum to %v, want 100", total)
	}
}
