package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/proppulse/proppulse/internal/model"
)

// Analyzer is the pipeline capability batch processing needs. Declared here
// so the worker package does not depend on the pipeline package.
type Analyzer interface {
	QuickLookup(ctx context.Context, address string) (*model.AnalysisResult, error)
}

// LookupJob resolves one address
type LookupJob struct {
	Address  string
	Analyzer Analyzer
}

// Execute runs the lookup
func (j *LookupJob) Execute(ctx context.Context) Result {
	result, err := j.Analyzer.QuickLookup(ctx, j.Address)
	if err != nil {
		return &LookupResult{Address: j.Address, Error: err}
	}
	return &LookupResult{Address: j.Address, Analysis: result}
}

// LookupResult is the outcome of one address lookup
type LookupResult struct {
	Address  string
	Analysis *model.AnalysisResult
	Error    error
}

// GetError returns the error from the lookup result
func (r *LookupResult) GetError() error {
	return r.Error
}

// BatchProcessor resolves many addresses concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessAddresses resolves the addresses concurrently. Result order is not
// guaranteed to match input order.
func (b *BatchProcessor) ProcessAddresses(ctx context.Context, addresses []string) []*LookupResult {
	if len(addresses) == 0 {
		return []*LookupResult{}
	}

	jobs := make([]Job, len(addresses))
	for i, address := range addresses {
		jobs[i] = &LookupJob{
			Address:  address,
			Analyzer: b.analyzer,
		}
	}

	results := ProcessJobs(ctx, b.concurrency, jobs)

	lookupResults := make([]*LookupResult, len(results))
	for i, result := range results {
		lookupResults[i] = result.(*LookupResult)
	}
	return lookupResults
}

// ProcessFile reads addresses from a file and resolves them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*LookupResult, error) {
	addresses, err := ReadAddressesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read addresses: %w", err)
	}

	return b.ProcessAddresses(ctx, addresses), nil
}

// ReadAddressesFromFile reads addresses from a file, one per line. Blank
// lines and # comments are skipped, duplicates dropped.
func ReadAddressesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var addresses []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key := strings.ToLower(line)
		if !seen[key] {
			seen[key] = true
			addresses = append(addresses, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return addresses, nil
}
