package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/proppulse/proppulse/internal/model"
	"github.com/proppulse/proppulse/internal/pipeline"
)

var (
	outJSON   string
	timeout   time.Duration
	userAgent string
	noCache   bool
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup <address>",
	Short: "Resolve a property address without underwriting it",
	Long: `Lookup resolves an address through the ranked data sources and prints
what is known about the property: type, units, square footage, value,
demographics and market context, with provenance and a confidence level.

No financials are needed; the result carries no verdict. Use it to vet an
address before gathering documents for a full underwrite.

Example:
  proppulse lookup "Wilshire Apartment Complex, Los Angeles, CA"
  proppulse lookup "4500 Commerce Plaza, Austin, TX" --json property.json`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	lookupCmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "overall lookup timeout")
	lookupCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
	lookupCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh resolution)")
}

func runLookup(cmd *cobra.Command, args []string) error {
	address := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := buildConfig()

	if verbose {
		fmt.Fprintf(os.Stderr, "Resolving: %s\n", address)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg)

	result, err := p.QuickLookup(ctx, address)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if err := p.RenderResult(result, outJSON); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// buildConfig assembles the pipeline config from defaults, environment and
// shared flags.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()

	if timeout > 0 {
		cfg.HTTP.Timeout = timeout
	}
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose

	// Records credential comes from the environment or the config file,
	// never from a flag.
	if key := os.Getenv("ATTOM_API_KEY"); key != "" {
		cfg.Providers.Records.APIKey = key
	} else if key := viper.GetString("records_api_key"); key != "" {
		cfg.Providers.Records.APIKey = key
	}

	return cfg
}
