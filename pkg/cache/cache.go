// Package cache stores computed layouts and rendered artifacts.
//
// Packing is deterministic, so a layout is fully determined by the input
// sizes, the candidate list, and the border. The pipeline hashes those inputs
// into a key (see [Keyer]) and stores the serialized layout under it, which
// lets repeated CLI runs and API requests skip packing.
//
// # Backends
//
//   - [FileCache]: JSON files under ~/.cache/texatlas (CLI default)
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: caching disabled (--no-cache, tests)
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Default TTLs per entry type.
const (
	// TTLLayout is how long packed layouts are kept. Layouts never go stale,
	// the TTL only bounds disk and memory use.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered artifacts (PNG, JSON) are kept.
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired key returns
	// (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// GetJSON reads key from c and decodes it into v. A miss returns
// ErrCacheMiss; a value that does not decode is reported as an error.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !hit {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
