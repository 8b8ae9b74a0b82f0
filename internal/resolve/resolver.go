// Package resolve walks the ranked data sources for an address and always
// produces a property record. External sources are tried in priority order;
// when all of them miss, the heuristic estimator steps in so downstream
// underwriting is never blocked.
package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/proppulse/proppulse/internal/cache"
	"github.com/proppulse/proppulse/internal/classify"
	"github.com/proppulse/proppulse/internal/estimate"
	"github.com/proppulse/proppulse/internal/model"
	"github.com/proppulse/proppulse/internal/provider"
)

// Resolver runs the source waterfall. Providers are consulted in slice
// order; the first record wins.
type Resolver struct {
	providers []provider.Provider
	estimator *estimate.Estimator
	cache     cache.Cache
	cacheTTL  time.Duration
}

// Option configures a Resolver
type Option func(*Resolver)

// WithCache enables record caching keyed by normalized address
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(r *Resolver) {
		r.cache = c
		r.cacheTTL = ttl
	}
}

// NewResolver creates a resolver over the given ranked providers
func NewResolver(providers []provider.Provider, estimator *estimate.Estimator, opts ...Option) *Resolver {
	r := &Resolver{
		providers: providers,
		estimator: estimator,
		cacheTTL:  15 * time.Minute,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve turns a raw address into a property record. It never returns an
// error: provider misses fall through to the estimator, and an address with
// no type hint still yields a forced estimate. The returned record's
// Confidence and IsEstimated fields tell the caller how much to trust it.
func (r *Resolver) Resolve(ctx context.Context, rawAddress string) *model.PropertyRecord {
	addr := classify.Classify(rawAddress)

	if cached := r.fromCache(addr); cached != nil {
		return cached
	}

	for _, p := range r.providers {
		record, err := p.Resolve(ctx, addr)
		if err != nil {
			if !errors.Is(err, provider.ErrNoData) {
				fmt.Fprintf(os.Stderr, "Warning: provider %s: %v\n", p.Name(), err)
			}
			continue
		}
		if record == nil {
			continue
		}
		r.toCache(addr, record)
		return record
	}

	if record := r.estimator.Estimate(addr, true); record != nil {
		r.toCache(addr, record)
		return record
	}

	// Unreachable with a forced estimator, kept as a floor so callers
	// always get a record.
	fmt.Fprintf(os.Stderr, "Warning: no source resolved %q, returning minimal record\n", rawAddress)
	return &model.PropertyRecord{
		Address:      addr,
		PropertyType: model.TypeUnknown,
		Confidence:   0,
	}
}

func (r *Resolver) fromCache(addr model.Address) *model.PropertyRecord {
	if r.cache == nil {
		return nil
	}

	data, found := r.cache.Get(cache.CacheKey(addr.Normalized))
	if !found {
		return nil
	}

	var record model.PropertyRecord
	if err := json.Unmarshal(data, &record); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: discarding corrupt cache entry for %q: %v\n", addr.Raw, err)
		_ = r.cache.Delete(cache.CacheKey(addr.Normalized))
		return nil
	}
	return &record
}

func (r *Resolver) toCache(addr model.Address, record *model.PropertyRecord) {
	if r.cache == nil {
		return
	}

	data, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := r.cache.Set(cache.CacheKey(addr.Normalized), data, r.cacheTTL); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cache write failed for %q: %v\n", addr.Raw, err)
	}
}
