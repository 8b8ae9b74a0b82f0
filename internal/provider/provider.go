// Package provider holds the ranked external property-data sources. Each
// provider either returns a resolved record or reports ErrNoData; the
// resolver walks them in priority order and stops at the first hit.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/proppulse/proppulse/internal/model"
)

// ErrNoData is the expected miss: the source has nothing for this address,
// its credential is absent, or the call failed in a way the waterfall
// recovers from (timeout, network error). It never aborts a resolution.
var ErrNoData = errors.New("no property data")

// Provider is the capability shared by all ranked data sources
type Provider interface {
	// Name identifies the source in provenance lists
	Name() string

	// Resolve returns a property record for the address, or an error
	// matching ErrNoData when the source cannot contribute. Providers
	// never substitute defaults for fields their source does not supply.
	Resolve(ctx context.Context, addr model.Address) (*model.PropertyRecord, error)
}

// noData wraps a cause so the resolver can match the ErrNoData sentinel and
// still log what actually happened.
func noData(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNoData, fmt.Sprintf(format, args...))
}
