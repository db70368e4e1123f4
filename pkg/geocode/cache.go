package geocode

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"
)

// CacheTTL is how long a provider response stays valid in the persistent
// cache. Geodata drifts slowly, so 90 days is a comfortable default.
const CacheTTL = 90 * 24 * time.Hour

// Cache is the persistent key/value store for raw provider responses. The
// store package satisfies it with the geocoding_cache table. Get must treat
// expired entries as misses; Put upserts by key, replacing the prior payload
// entirely.
type Cache interface {
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)
	Put(ctx context.Context, key, source string, direction Direction, response json.RawMessage, ttl time.Duration) error
}

// NopCache never hits and discards writes. Used when no persistent cache is
// wired, e.g. one-off lookups in tooling.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (json.RawMessage, bool, error) {
	return nil, false, nil
}

func (NopCache) Put(context.Context, string, string, Direction, json.RawMessage, time.Duration) error {
	return nil
}

// cacheKey builds the deterministic cache key for a query and its request
// parameters: "<query>:<md5 of canonical JSON params>". encoding/json sorts
// map keys, so parameter order cannot produce distinct keys.
func cacheKey(query string, params map[string]any) string {
	encoded, err := json.Marshal(params)
	if err != nil {
		// Params are strings and ints only; this cannot fail in practice.
		encoded = []byte("{}")
	}
	return fmt.Sprintf("%s:%x", query, md5.Sum(encoded))
}
