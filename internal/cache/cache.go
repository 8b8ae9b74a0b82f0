// Package cache stores resolved property records so repeated lookups of the
// same address skip the provider waterfall.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

var addressWhitespace = regexp.MustCompile(`\s+`)

// CacheKey generates a cache key from an address. Case and spacing variants
// of the same address map to the same key.
func CacheKey(address string) string {
	normalized := addressWhitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(address)), " ")
	hash := sha256.Sum256([]byte(normalized))
	return "proppulse:v1:" + hex.EncodeToString(hash[:])
}
