package worker

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/proppulse/proppulse/internal/model"
)

// MockAnalyzer implements the Analyzer interface
type MockAnalyzer struct {
	ShouldError bool
}

func (m *MockAnalyzer) QuickLookup(ctx context.Context, address string) (*model.AnalysisResult, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.ShouldError {
		return nil, errors.New("lookup error")
	}
	return &model.AnalysisResult{
		PropertyRecord: model.PropertyRecord{
			Address:      model.Address{Raw: address},
			PropertyType: model.TypeMultifamily,
		},
		Verdict: model.VerdictIncomplete,
	}, nil
}

func TestBatchProcessor_ProcessAddresses(t *testing.T) {
	processor := NewBatchProcessor(&MockAnalyzer{}, 2)

	addresses := []string{
		"Wilshire Apartment Complex, Los Angeles, CA",
		"4500 Commerce Plaza, Austin, TX",
		"550 Oak St #7, Portland, OR",
	}

	results := processor.ProcessAddresses(context.Background(), addresses)

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	successCount := 0
	for _, res := range results {
		if res.Error == nil {
			successCount++
			if res.Analysis == nil {
				t.Error("expected analysis for successful lookup")
			}
		} else {
			t.Errorf("unexpected error for %s: %v", res.Address, res.Error)
		}
	}

	if successCount != 3 {
		t.Errorf("expected 3 successes, got %d", successCount)
	}
}

func TestBatchProcessor_ProcessAddresses_Error(t *testing.T) {
	processor := NewBatchProcessor(&MockAnalyzer{ShouldError: true}, 2)

	results := processor.ProcessAddresses(context.Background(), []string{"123 Main St"})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Analysis != nil {
		t.Error("expected nil analysis on error")
	}
}

func TestBatchProcessor_ProcessAddresses_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockAnalyzer{}, 2)

	results := processor.ProcessAddresses(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestReadAddressesFromFile(t *testing.T) {
	content := `Wilshire Apartment Complex, Los Angeles, CA
# comment
4500 Commerce Plaza, Austin, TX

550 Oak St #7, Portland, OR   `

	tmpfile, err := os.CreateTemp("", "addresses")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.Remove(tmpfile.Name())
	}()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	addresses, err := ReadAddressesFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadAddressesFromFile failed: %v", err)
	}

	expected := []string{
		"Wilshire Apartment Complex, Los Angeles, CA",
		"4500 Commerce Plaza, Austin, TX",
		"550 Oak St #7, Portland, OR",
	}
	if len(addresses) != len(expected) {
		t.Fatalf("expected %d addresses, got %d", len(expected), len(addresses))
	}

	for i, address := range addresses {
		if address != expected[i] {
			t.Errorf("expected %q at index %d, got %q", expected[i], i, address)
		}
	}
}

func TestReadAddressesFromFile_NonExistent(t *testing.T) {
	if _, err := ReadAddressesFromFile("non_existent_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestReadAddressesFromFile_Deduplication(t *testing.T) {
	content := `123 Main St, Anytown USA
123 MAIN ST, Anytown USA`

	tmpfile, err := os.CreateTemp("", "addresses_dedup")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.Remove(tmpfile.Name())
	}()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	addresses, err := ReadAddressesFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadAddressesFromFile failed: %v", err)
	}

	if len(addresses) != 1 {
		t.Errorf("expected 1 address after case-insensitive deduplication, got %d", len(addresses))
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	content := "123 Main St\n456 Oak Ave\n# comment\n\n789 Elm Blvd\n"

	tmpfile, err := os.CreateTemp("", "batch_addresses")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	processor := NewBatchProcessor(&MockAnalyzer{}, 2)

	results, err := processor.ProcessFile(context.Background(), tmpfile.Name())
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&MockAnalyzer{}, 2)

	if _, err := processor.ProcessFile(context.Background(), "no_such_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestLookupResult_GetError(t *testing.T) {
	r1 := &LookupResult{Address: "123 Main St"}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("lookup failed")
	r2 := &LookupResult{Address: "123 Main St", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}
