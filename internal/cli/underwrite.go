package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/proppulse/proppulse/internal/model"
	"github.com/proppulse/proppulse/internal/pipeline"
)

var (
	financialsPath string
	criteriaPath   string
	llmEnabled     bool
	llmProvider    string
	llmModel       string
)

// underwriteCmd represents the underwrite command
var underwriteCmd = &cobra.Command{
	Use:   "underwrite <address>",
	Short: "Run a full deal analysis against your buy box",
	Long: `Underwrite resolves the address, computes the metric set from your
financials (NOI, cap rate, cash-on-cash, IRR, DSCR, NPV), evaluates the
deal against your investment criteria, and prints the verdict with a
transparent score breakdown.

The financials file is YAML:

  gross_rental_income: 500000
  vacancy_loss: 25000
  operating_expenses: 175000
  purchase_price: 3500000
  closing_costs: 70000
  loan_amount: 2450000
  interest_rate: 0.065
  amortization_years: 30
  holding_period_years: 5
  exit_cap_rate: 0.07
  annual_rent_growth: 0.03
  discount_rate: 0.08

Example:
  proppulse underwrite "1234 Wilshire Blvd, Los Angeles, CA" --financials deal.yaml
  proppulse underwrite "1234 Wilshire Blvd, Los Angeles, CA" --financials deal.yaml --criteria buybox.yaml
  proppulse underwrite "1234 Wilshire Blvd, Los Angeles, CA" --financials deal.yaml --llm`,
	Args: cobra.ExactArgs(1),
	RunE: runUnderwrite,
}

func init() {
	rootCmd.AddCommand(underwriteCmd)

	underwriteCmd.Flags().StringVar(&financialsPath, "financials", "", "YAML file with the deal financials (required)")
	underwriteCmd.Flags().StringVar(&criteriaPath, "criteria", "", "YAML file with investment criteria (default: ~/.proppulse/criteria.yaml, then built-in)")
	underwriteCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	underwriteCmd.Flags().DurationVar(&timeout, "timeout", 90*time.Second, "overall analysis timeout")
	underwriteCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh resolution)")

	// Commentary flags
	underwriteCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enhance commentary with a language model")
	underwriteCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "commentary provider (openai)")
	underwriteCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "commentary model name")

	_ = underwriteCmd.MarkFlagRequired("financials")
}

func runUnderwrite(cmd *cobra.Command, args []string) error {
	address := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	inputs, err := loadFinancials(financialsPath)
	if err != nil {
		return err
	}

	criteria, err := loadCriteria(criteriaPath)
	if err != nil {
		return err
	}

	cfg := buildConfig()
	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Underwriting: %s\n", address)
		fmt.Fprintf(os.Stderr, "Financials: %s\n", financialsPath)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg)

	result, err := p.Underwrite(ctx, address, inputs, criteria)
	if err != nil {
		// A resolved record may still be worth showing even when the
		// financials could not be computed.
		if result != nil {
			if renderErr := p.RenderResult(result, outJSON); renderErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: render failed: %v\n", renderErr)
			}
		}
		return fmt.Errorf("underwrite failed: %w", err)
	}

	if err := p.RenderResult(result, outJSON); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

func loadFinancials(path string) (model.FinancialInputs, error) {
	var inputs model.FinancialInputs

	data, err := os.ReadFile(path)
	if err != nil {
		return inputs, fmt.Errorf("read financials: %w", err)
	}
	if err := yaml.Unmarshal(data, &inputs); err != nil {
		return inputs, fmt.Errorf("parse financials: %w", err)
	}
	return inputs, nil
}

// loadCriteria resolves the criteria in priority order: explicit flag,
// saved ~/.proppulse/criteria.yaml, built-in defaults.
func loadCriteria(path string) (model.InvestmentCriteria, error) {
	if path == "" {
		saved, err := savedCriteriaPath()
		if err == nil {
			if _, statErr := os.Stat(saved); statErr == nil {
				path = saved
			}
		}
	}
	if path == "" {
		return model.DefaultCriteria(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.InvestmentCriteria{}, fmt.Errorf("read criteria: %w", err)
	}

	criteria := model.DefaultCriteria()
	if err := yaml.Unmarshal(data, &criteria); err != nil {
		return model.InvestmentCriteria{}, fmt.Errorf("parse criteria: %w", err)
	}
	return criteria, nil
}
