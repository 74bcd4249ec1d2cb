// Package cache provides artifact caching for rendered diagrams.
//
// Rendering shells out to external tools (mmdc, plantuml) or runs Graphviz
// in-process, both of which are slow relative to a hash lookup. The cache
// stores finished artifacts keyed by a digest of the tool, format, source
// content, and renderer config, so re-rendering an unchanged diagram is a
// read instead of a subprocess.
//
// Three backends are provided:
//   - FileCache: JSON entry files under a directory, for CLI usage
//   - RedisCache: shared cache for server deployments
//   - NullCache: no-op, for tests or --no-cache runs
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with per-entry TTLs.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// found; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration; a negative ttl
	// stores an already-expired entry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any backend resources.
	Close() error
}

// DefaultTTL is the default lifetime of cached render artifacts.
const DefaultTTL = 7 * 24 * time.Hour
