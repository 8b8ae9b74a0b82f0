package pipeline

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/proppulse/proppulse/internal/model"
)

// Renderer writes analysis results to files and the terminal
type Renderer struct {
	verbose bool
}

// NewRenderer creates a renderer
func NewRenderer(verbose bool) *Renderer {
	return &Renderer{verbose: verbose}
}

// RenderJSON writes the result as indented JSON
func (r *Renderer) RenderJSON(result *model.AnalysisResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// RenderSummary prints the human-readable summary to stdout
func (r *Renderer) RenderSummary(result *model.AnalysisResult) {
	record := result.PropertyRecord
	line := strings.Repeat("═", 60)

	fmt.Println(line)
	fmt.Printf("  %s\n", record.Address.Raw)
	fmt.Println(line)

	fmt.Printf("Property:    %s", record.PropertyType)
	if record.Units > 0 {
		fmt.Printf(", %d units", record.Units)
	}
	if record.SquareFootage > 0 {
		fmt.Printf(", %s sqft", formatInt(record.SquareFootage))
	}
	if record.YearBuilt > 0 {
		fmt.Printf(", built %d", record.YearBuilt)
	}
	fmt.Println()

	if record.EstimatedValue > 0 {
		fmt.Printf("Est. value:  $%s\n", formatMoney(record.EstimatedValue))
	}
	fmt.Printf("Data:        %s (confidence %d/100)\n",
		strings.Join(record.Provenance, " → "), record.Confidence)
	if record.IsEstimated {
		fmt.Printf("Note:        %s\n", record.Disclaimer)
	}

	if result.Metrics != nil {
		m := result.Metrics
		fmt.Println()
		fmt.Printf("NOI:         $%s\n", formatMoney(m.NetOperatingIncome))
		fmt.Printf("Cap rate:    %.2f%%\n", m.CapRate*100)
		fmt.Printf("CoC return:  %.2f%%\n", m.CashOnCashReturn*100)
		fmt.Printf("IRR:         %.2f%%\n", m.InternalRateOfReturn*100)
		if m.AnnualDebtService > 0 {
			fmt.Printf("DSCR:        %.2f\n", m.DebtServiceCoverageRatio)
		} else {
			fmt.Printf("DSCR:        n/a (all cash)\n")
		}
	}

	fmt.Println()
	fmt.Printf("Verdict:     %s", result.Verdict)
	if result.Verdict != model.VerdictIncomplete {
		fmt.Printf("  (score %d/100)", result.Score)
	}
	fmt.Println()

	if r.verbose && len(result.ScoreBreakdown) > 0 {
		fmt.Println()
		for _, entry := range result.ScoreBreakdown {
			status := "✓"
			if !entry.Passed {
				status = "✗"
			}
			if entry.Weight > 0 {
				fmt.Printf("  %s %-16s %.2f (threshold %.2f, +%.1f pts)\n",
					status, entry.Criterion, entry.Actual, entry.Threshold, entry.Contribution)
			} else {
				fmt.Printf("  %s %-16s %.0f\n", status, entry.Criterion, entry.Actual)
			}
		}
	}

	if c := result.Commentary; c != nil {
		fmt.Println()
		fmt.Printf("Analyst take: %s\n", c.Recommendation)
		fmt.Printf("  %s\n", c.MarketInsight)
		for _, s := range c.Strengths {
			fmt.Printf("  + %s\n", s)
		}
		for _, concern := range c.Concerns {
			fmt.Printf("  - %s\n", concern)
		}
		if c.RiskNote != "" {
			fmt.Printf("  Risk: %s\n", c.RiskNote)
		}
	}

	fmt.Println(line)
}

func formatMoney(v float64) string {
	return formatInt(int(math.Round(v)))
}

// formatInt renders 2640000 as 2,640,000
func formatInt(n int) string {
	if n < 0 {
		return "-" + formatInt(-n)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
