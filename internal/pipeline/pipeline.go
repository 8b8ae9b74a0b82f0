// Package pipeline orchestrates property analysis: address resolution,
// metric computation, buy-box evaluation and commentary, in that order.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/proppulse/proppulse/internal/buybox"
	"github.com/proppulse/proppulse/internal/cache"
	"github.com/proppulse/proppulse/internal/estimate"
	"github.com/proppulse/proppulse/internal/finance"
	"github.com/proppulse/proppulse/internal/llm"
	"github.com/proppulse/proppulse/internal/model"
	"github.com/proppulse/proppulse/internal/provider"
	"github.com/proppulse/proppulse/internal/resolve"
	"github.com/proppulse/proppulse/internal/worker"
)

// Pipeline wires the analysis stages together
type Pipeline struct {
	resolver    *resolve.Resolver
	calculator  *finance.Calculator
	evaluator   *buybox.Evaluator
	commentator llm.Commentator // Optional, nil when disabled
	renderer    *Renderer
	config      *model.Config
}

// NewPipeline creates a pipeline from configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	providers := []provider.Provider{
		provider.NewRecordsProvider(cfg.Providers.Records, cfg.HTTP),
		provider.NewPublicProvider(cfg.Providers.Public, cfg.HTTP,
			worker.NewLimiter(cfg.Providers.Public.HostRPS, 2)),
	}

	estimator := estimate.NewEstimator(estimate.DefaultPolicy())

	var opts []resolve.Option
	if cfg.Cache.Enabled {
		if c := buildCache(cfg.Cache); c != nil {
			opts = append(opts, resolve.WithCache(c, cfg.Cache.MemoryTTL))
		}
	}

	var commentator llm.Commentator
	if cfg.LLM.Provider != "" {
		c, err := llm.NewCommentator(cfg.LLM)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: commentary provider disabled: %v\n", err)
		} else {
			commentator = c
		}
	}

	return &Pipeline{
		resolver:    resolve.NewResolver(providers, estimator, opts...),
		calculator:  finance.NewCalculator(),
		evaluator:   buybox.NewEvaluator(),
		commentator: commentator,
		renderer:    NewRenderer(cfg.Output.Verbose),
		config:      cfg,
	}
}

func buildCache(cfg model.CacheConfig) cache.Cache {
	dir := cfg.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: disk cache unavailable, using memory only: %v\n", err)
			return cache.NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
		}
		dir = filepath.Join(home, ".proppulse", "cache")
	}
	return cache.NewLayeredCache(cfg.MemoryTTL, dir, cfg.DiskTTL)
}

// QuickLookup resolves an address without underwriting it. The result is
// always Incomplete; it exists so users can inspect what the sources know
// before gathering financials.
func (p *Pipeline) QuickLookup(ctx context.Context, address string) (*model.AnalysisResult, error) {
	if strings.TrimSpace(address) == "" {
		return nil, fmt.Errorf("address is required")
	}

	record := p.resolver.Resolve(ctx, address)

	return &model.AnalysisResult{
		PropertyRecord: *record,
		Verdict:        model.VerdictIncomplete,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// Underwrite runs the full analysis: resolve, compute, evaluate, comment.
// When the financials cannot support the metric computation the result
// still carries the resolved record with an Incomplete verdict, alongside
// the error describing what was wrong.
func (p *Pipeline) Underwrite(ctx context.Context, address string, inputs model.FinancialInputs, criteria model.InvestmentCriteria) (*model.AnalysisResult, error) {
	if strings.TrimSpace(address) == "" {
		return nil, fmt.Errorf("address is required")
	}
	if inputs.PurchasePrice <= 0 {
		return nil, fmt.Errorf("purchase price must be positive")
	}

	record := p.resolver.Resolve(ctx, address)

	result := &model.AnalysisResult{
		PropertyRecord: *record,
		Verdict:        model.VerdictIncomplete,
		CreatedAt:      time.Now().UTC(),
	}

	metrics, err := p.calculator.Compute(inputs)
	if err != nil {
		return result, fmt.Errorf("compute metrics: %w", err)
	}
	result.Metrics = metrics

	verdict, score, breakdown := p.evaluator.Evaluate(metrics, record, criteria)
	result.Verdict = verdict
	result.Score = score
	result.ScoreBreakdown = breakdown

	// Commentary runs after evaluation and cannot change it
	result.Commentary = p.comment(ctx, record, metrics, verdict, score, criteria)

	return result, nil
}

func (p *Pipeline) comment(ctx context.Context, record *model.PropertyRecord, metrics *model.ComputedMetrics, verdict model.Verdict, score int, criteria model.InvestmentCriteria) *model.Commentary {
	req := llm.CommentaryRequest{
		Record:   *record,
		Metrics:  metrics,
		Verdict:  verdict,
		Score:    score,
		Criteria: criteria,
	}

	if p.commentator != nil {
		commentary, err := p.commentator.Comment(ctx, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: commentary generation failed, using metrics summary: %v\n", err)
		} else {
			return commentary
		}
	}
	return llm.Fallback(req)
}

// RenderResult writes the result to the configured outputs and prints the
// stdout summary.
func (p *Pipeline) RenderResult(result *model.AnalysisResult, jsonPath string) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(result, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if p.config.Output.Verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	p.renderer.RenderSummary(result)
	return nil
}
