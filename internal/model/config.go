package model

import "time"

// Config is the full pipeline configuration. Values come from, in priority
// order: CLI flags, PROPPULSE_* environment variables, the config file,
// then DefaultConfig.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Providers   ProvidersConfig   `yaml:"providers"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	LLM         LLMConfig         `yaml:"llm"`
	Output      OutputConfig      `yaml:"output"`
}

// HTTPConfig controls outbound HTTP behavior shared by all providers
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	UserAgent  string        `yaml:"user_agent"`
	HTTPProxy  string        `yaml:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy"`
	NoProxy    string        `yaml:"no_proxy"`
}

// RecordsConfig configures the authoritative property-records provider.
// An empty APIKey disables the provider (it reports no data rather than
// erroring the waterfall).
type RecordsConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// PublicConfig configures the free public-data provider
type PublicConfig struct {
	GeocoderURL  string  `yaml:"geocoder_url"`
	TractURL     string  `yaml:"tract_url"`
	BenchmarkURL string  `yaml:"benchmark_url"`
	HostRPS      float64 `yaml:"host_rps"` // Per-host request rate toward public APIs
}

// ProvidersConfig groups the ranked source providers
type ProvidersConfig struct {
	Records RecordsConfig `yaml:"records"`
	Public  PublicConfig  `yaml:"public"`
}

// CacheConfig controls the resolved-record cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ConcurrencyConfig bounds parallel work
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers"`
}

// LLMConfig configures the optional commentary provider. Empty Provider
// means the deterministic metrics-based commentary is used.
type LLMConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Timeout   int    `yaml:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:   15 * time.Second,
			UserAgent: "PropPulse/0.2 (+https://github.com/proppulse/proppulse)",
		},
		Providers: ProvidersConfig{
			Records: RecordsConfig{
				BaseURL: "https://api.gateway.attomdata.com/propertyapi/v1.0.0",
			},
			Public: PublicConfig{
				GeocoderURL:  "https://geocoding.geo.census.gov/geocoder/locations/onelineaddress",
				TractURL:     "https://geocoding.geo.census.gov/geocoder/geographies/coordinates",
				BenchmarkURL: "https://www.huduser.gov/hudapi/public/fmr/data",
				HostRPS:      1.0,
			},
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "", // Resolved to ~/.proppulse/cache at startup
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 500,
		},
	}
}
