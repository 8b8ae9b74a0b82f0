package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/proppulse/proppulse/internal/model"
	"github.com/proppulse/proppulse/internal/util"
)

// RecordsProvider queries the authoritative property-records API. It is
// keyed by an API credential; without one it reports ErrNoData and the
// waterfall moves on. It never fabricates values for fields the source
// does not return.
type RecordsProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewRecordsProvider creates the records provider from configuration
func NewRecordsProvider(cfg model.RecordsConfig, httpCfg model.HTTPConfig) *RecordsProvider {
	return &RecordsProvider{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: httpCfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
		},
	}
}

// Name returns the provenance name for this source
func (p *RecordsProvider) Name() string { return "records" }

// recordsResponse mirrors the basicprofile payload of the records API
type recordsResponse struct {
	Property []struct {
		Identifier struct {
			AttomID int64 `json:"attomId"`
		} `json:"identifier"`
		Summary struct {
			PropType  string `json:"proptype"`
			YearBuilt int    `json:"yearbuilt"`
		} `json:"summary"`
		Building struct {
			Size struct {
				BldgSize int `json:"bldgsize"`
			} `json:"size"`
			Units struct {
				UnitsCount int `json:"unitsCount"`
			} `json:"units"`
		} `json:"building"`
		Assessment struct {
			Market struct {
				MktTtlValue float64 `json:"mktttlvalue"`
			} `json:"market"`
		} `json:"assessment"`
	} `json:"property"`
}

// Resolve looks the address up in the records source. Confidence lands in
// 85-95 depending on how complete the returned record is.
func (p *RecordsProvider) Resolve(ctx context.Context, addr model.Address) (*model.PropertyRecord, error) {
	if p.apiKey == "" {
		return nil, noData("records credential not configured")
	}

	street, locality := splitAddress(addr.Raw)

	params := url.Values{}
	params.Set("address1", street)
	if locality != "" {
		params.Set("address2", locality)
	}

	reqURL := p.baseURL + "/property/basicprofile?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, noData("create request: %v", err)
	}
	req.Header.Set("apikey", p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, noData("records request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, noData("records status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, noData("read body: %v", err)
	}

	var parsed recordsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, noData("decode response: %v", err)
	}
	if len(parsed.Property) == 0 || parsed.Property[0].Identifier.AttomID == 0 {
		return nil, noData("no record for address")
	}

	prop := parsed.Property[0]
	record := &model.PropertyRecord{
		Address:        addr,
		PropertyType:   mapRecordsType(prop.Summary.PropType),
		Units:          prop.Building.Units.UnitsCount,
		SquareFootage:  prop.Building.Size.BldgSize,
		YearBuilt:      prop.Summary.YearBuilt,
		EstimatedValue: prop.Assessment.Market.MktTtlValue,
		Provenance:     []string{p.Name()},
	}

	// A typed property always has at least one unit
	if record.Units == 0 && record.PropertyType != model.TypeUnknown {
		record.Units = 1
	}

	record.Confidence = recordsConfidence(record)
	return record, nil
}

// recordsConfidence maps record completeness to the 85-95 band
func recordsConfidence(r *model.PropertyRecord) int {
	confidence := 85
	if r.Units > 0 {
		confidence += 2
	}
	if r.SquareFootage > 0 {
		confidence += 2
	}
	if r.YearBuilt > 0 {
		confidence += 2
	}
	if r.EstimatedValue > 0 {
		confidence += 2
	}
	if r.PropertyType != model.TypeUnknown {
		confidence += 2
	}
	if confidence > 95 {
		confidence = 95
	}
	return confidence
}

func mapRecordsType(propType string) model.PropertyType {
	switch strings.ToUpper(propType) {
	case "APARTMENT", "MULTI FAMILY", "MULTIFAMILY", "DUPLEX", "TRIPLEX":
		return model.TypeMultifamily
	case "COMMERCIAL", "OFFICE", "RETAIL", "INDUSTRIAL", "COMMERCIAL BUILDING":
		return model.TypeCommercial
	case "SFR", "SINGLE FAMILY", "RESIDENTIAL", "CONDOMINIUM", "TOWNHOUSE":
		return model.TypeSingleFamily
	default:
		return model.TypeUnknown
	}
}

// splitAddress separates the street line from the locality at the first
// comma, the shape the records API expects.
func splitAddress(raw string) (street, locality string) {
	parts := strings.SplitN(raw, ",", 2)
	street = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		locality = strings.TrimSpace(parts[1])
	}
	return street, locality
}

var _ Provider = (*RecordsProvider)(nil)
