package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/proppulse/proppulse/internal/finance"
	"github.com/proppulse/proppulse/internal/model"
)

// testConfig points every provider at a server that has nothing, so
// resolution falls through to the heuristic estimator.
func testConfig(t *testing.T) *model.Config {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	cfg := model.DefaultConfig()
	cfg.Providers.Public.GeocoderURL = server.URL + "/geocode"
	cfg.Providers.Public.TractURL = server.URL + "/tract"
	cfg.Providers.Public.BenchmarkURL = server.URL + "/fmr"
	cfg.Providers.Public.HostRPS = 1000
	cfg.Cache.Enabled = false
	return cfg
}

func testInputs() model.FinancialInputs {
	return model.FinancialInputs{
		GrossRentalIncome:  500_000,
		VacancyLoss:        25_000,
		OperatingExpenses:  175_000,
		PurchasePrice:      3_500_000,
		ClosingCosts:       70_000,
		LoanAmount:         2_450_000,
		InterestRate:       0.065,
		AmortizationYears:  30,
		HoldingPeriodYears: 5,
		ExitCapRate:        0.07,
		AnnualRentGrowth:   0.03,
		DiscountRate:       0.08,
	}
}

func TestQuickLookup(t *testing.T) {
	p := NewPipeline(testConfig(t))

	result, err := p.QuickLookup(context.Background(), "Wilshire Apartment Complex, Los Angeles, CA")
	if err != nil {
		t.Fatalf("QuickLookup: %v", err)
	}

	if result.Verdict != model.VerdictIncomplete {
		t.Errorf("Verdict = %v, want INCOMPLETE for lookup-only", result.Verdict)
	}
	if result.Metrics != nil {
		t.Error("lookup must not compute metrics")
	}
	if result.PropertyRecord.PropertyType != model.TypeMultifamily {
		t.Errorf("PropertyType = %v, want Multifamily from estimator", result.PropertyRecord.PropertyType)
	}
	if !result.PropertyRecord.IsEstimated {
		t.Error("with no live sources the record should be estimated")
	}
	if result.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestQuickLookup_EmptyAddress(t *testing.T) {
	p := NewPipeline(testConfig(t))
	if _, err := p.QuickLookup(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty address")
	}
}

func TestUnderwrite_FullAnalysis(t *testing.T) {
	p := NewPipeline(testConfig(t))

	result, err := p.Underwrite(context.Background(),
		"Wilshire Apartment Complex, Los Angeles, CA", testInputs(), model.DefaultCriteria())
	if err != nil {
		t.Fatalf("Underwrite: %v", err)
	}

	if result.Metrics == nil {
		t.Fatal("expected computed metrics")
	}
	if result.Metrics.NetOperatingIncome != 300_000 {
		t.Errorf("NOI = %v, want 300000", result.Metrics.NetOperatingIncome)
	}
	if result.Verdict != model.VerdictPass && result.Verdict != model.VerdictFail {
		t.Errorf("Verdict = %v, want a decided verdict", result.Verdict)
	}
	if len(result.ScoreBreakdown) == 0 {
		t.Error("expected a score breakdown")
	}
	if result.Commentary == nil {
		t.Fatal("every underwrite gets commentary")
	}
	if result.Commentary.Provider != "" {
		t.Errorf("Commentary.Provider = %q, want deterministic fallback", result.Commentary.Provider)
	}
	if result.Commentary.Recommendation == "" {
		t.Error("commentary missing recommendation")
	}
}

func TestUnderwrite_InvalidRequest(t *testing.T) {
	p := NewPipeline(testConfig(t))

	if _, err := p.Underwrite(context.Background(), "", testInputs(), model.DefaultCriteria()); err == nil {
		t.Error("expected error for empty address")
	}

	bad := testInputs()
	bad.PurchasePrice = 0
	if _, err := p.Underwrite(context.Background(), "123 Main St", bad, model.DefaultCriteria()); err == nil {
		t.Error("expected error for non-positive price")
	}
}

func TestUnderwrite_InsufficientFinancials(t *testing.T) {
	p := NewPipeline(testConfig(t))

	in := testInputs()
	in.GrossRentalIncome = 0

	result, err := p.Underwrite(context.Background(),
		"Wilshire Apartment Complex, Los Angeles, CA", in, model.DefaultCriteria())

	var insufficient *finance.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if result == nil {
		t.Fatal("result should still carry the resolved record")
	}
	if result.Verdict != model.VerdictIncomplete {
		t.Errorf("Verdict = %v, want INCOMPLETE", result.Verdict)
	}
	if result.Metrics != nil {
		t.Error("metrics must be nil when computation failed")
	}
	if result.PropertyRecord.PropertyType != model.TypeMultifamily {
		t.Errorf("resolved record missing: %+v", result.PropertyRecord)
	}
}
