package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/proppulse/proppulse/internal/model"
)

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:   5 * time.Second,
		UserAgent: "test-agent",
	}
}

func TestRecordsProvider_NoCredential(t *testing.T) {
	p := NewRecordsProvider(model.RecordsConfig{}, testHTTPConfig())

	_, err := p.Resolve(context.Background(), model.Address{Raw: "123 Main St"})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestRecordsProvider_Resolve(t *testing.T) {
	var gotKey, gotAddress1, gotAddress2 string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("apikey")
		gotAddress1 = r.URL.Query().Get("address1")
		gotAddress2 = r.URL.Query().Get("address2")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"property": [{
				"identifier": {"attomId": 184713191},
				"summary": {"proptype": "APARTMENT", "yearbuilt": 1987},
				"building": {
					"size": {"bldgsize": 40800},
					"units": {"unitsCount": 48}
				},
				"assessment": {"market": {"mktttlvalue": 2640000}}
			}]
		}`))
	}))
	defer server.Close()

	p := NewRecordsProvider(model.RecordsConfig{APIKey: "k", BaseURL: server.URL}, testHTTPConfig())

	record, err := p.Resolve(context.Background(), model.Address{
		Raw: "1234 Wilshire Blvd, Los Angeles, CA",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if gotKey != "k" {
		t.Errorf("apikey header = %q, want %q", gotKey, "k")
	}
	if gotAddress1 != "1234 Wilshire Blvd" {
		t.Errorf("address1 = %q", gotAddress1)
	}
	if gotAddress2 != "Los Angeles, CA" {
		t.Errorf("address2 = %q", gotAddress2)
	}

	if record.PropertyType != model.TypeMultifamily {
		t.Errorf("PropertyType = %v, want Multifamily", record.PropertyType)
	}
	if record.Units != 48 {
		t.Errorf("Units = %d, want 48", record.Units)
	}
	if record.SquareFootage != 40800 {
		t.Errorf("SquareFootage = %d, want 40800", record.SquareFootage)
	}
	if record.YearBuilt != 1987 {
		t.Errorf("YearBuilt = %d, want 1987", record.YearBuilt)
	}
	if record.EstimatedValue != 2640000 {
		t.Errorf("EstimatedValue = %v, want 2640000", record.EstimatedValue)
	}
	// Fully populated record: 85 + 5 fields * 2
	if record.Confidence != 95 {
		t.Errorf("Confidence = %d, want 95", record.Confidence)
	}
	if len(record.Provenance) != 1 || record.Provenance[0] != "records" {
		t.Errorf("Provenance = %v, want [records]", record.Provenance)
	}
}

func TestRecordsProvider_EmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"property": []}`))
	}))
	defer server.Close()

	p := NewRecordsProvider(model.RecordsConfig{APIKey: "k", BaseURL: server.URL}, testHTTPConfig())

	_, err := p.Resolve(context.Background(), model.Address{Raw: "99 Nowhere Rd"})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData for empty result, got %v", err)
	}
}

func TestRecordsProvider_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream failure", http.StatusBadGateway)
	}))
	defer server.Close()

	p := NewRecordsProvider(model.RecordsConfig{APIKey: "k", BaseURL: server.URL}, testHTTPConfig())

	_, err := p.Resolve(context.Background(), model.Address{Raw: "123 Main St"})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData for server error, got %v", err)
	}
}

func TestRecordsProvider_TypedPropertyHasUnits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"property": [{
				"identifier": {"attomId": 7},
				"summary": {"proptype": "SFR"},
				"building": {"size": {}, "units": {}},
				"assessment": {"market": {}}
			}]
		}`))
	}))
	defer server.Close()

	p := NewRecordsProvider(model.RecordsConfig{APIKey: "k", BaseURL: server.URL}, testHTTPConfig())

	record, err := p.Resolve(context.Background(), model.Address{Raw: "5 Elm St"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if record.PropertyType != model.TypeSingleFamily {
		t.Errorf("PropertyType = %v, want SingleFamily", record.PropertyType)
	}
	if record.Units != 1 {
		t.Errorf("Units = %d, want 1 for typed property", record.Units)
	}
}

func TestMapRecordsType(t *testing.T) {
	tests := []struct {
		in   string
		want model.PropertyType
	}{
		{"APARTMENT", model.TypeMultifamily},
		{"duplex", model.TypeMultifamily},
		{"OFFICE", model.TypeCommercial},
		{"SFR", model.TypeSingleFamily},
		{"AGRICULTURAL", model.TypeUnknown},
		{"", model.TypeUnknown},
	}

	for _, tt := range tests {
		if got := mapRecordsType(tt.in); got != tt.want {
			t.Errorf("mapRecordsType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
