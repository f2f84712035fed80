// Package cache stores rendered artifacts between runs.
//
// Rendering a card is deterministic: the same spec, layout configuration,
// fonts and foreground image always produce the same pixels. The pipeline
// therefore keys rendered card PNGs by a content fingerprint and skips the
// compositor on a hit. The HTTP server also keeps generated sheets (page
// images and PDFs) in a cache so clients can fetch them after the request
// that produced them.
//
// Backends:
//   - [FileCache]: sharded files under the user cache directory (CLI)
//   - [MemoryCache]: process-local map (server default, tests)
//   - [RedisCache]: shared cache for multi-instance servers
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Default lifetimes for cached entries.
const (
	// TTLCard is how long a rendered card stays valid. Keys are content
	// hashes, so entries never go stale; the TTL only bounds disk usage.
	TTLCard = 30 * 24 * time.Hour

	// TTLSheet is how long a generated sheet can be downloaded.
	TTLSheet = time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys for the artifacts cardpress stores.
type Keyer interface {
	// CardKey returns the key for a rendered card with the given fingerprint.
	CardKey(fingerprint string) string
	// SheetKey returns the key for one part ("meta", "pdf", "page-1", ...)
	// of a generated sheet.
	SheetKey(id, part string) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// CardKey implements Keyer.
func (DefaultKeyer) CardKey(fingerprint string) string {
	return "card:" + fingerprint
}

// SheetKey implements Keyer.
func (DefaultKeyer) SheetKey(id, part string) string {
	return "sheet:" + id + ":" + part
}
