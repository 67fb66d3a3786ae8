// Package cache provides byte-level caching backends and the key scheme
// used across the poster pipeline.
package cache

import (
	"context"
	"time"
)

// TTLs per data class. Cover art is immutable once published, catalog
// lookups drift as new volumes appear, and rendered artifacts are tied to
// an exact config hash so they never go stale.
const (
	CoverTTL    = 30 * 24 * time.Hour
	CatalogTTL  = 24 * time.Hour
	ArtifactTTL = 0
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get retrieves a value. A miss is (nil, false, nil); errors are
	// reserved for backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the pipeline's data classes. Keeping key
// construction behind an interface lets multi-tenant deployments prefix
// keys per scope without touching call sites.
type Keyer interface {
	// HTTPKey keys a raw HTTP response body.
	HTTPKey(namespace, url string) string

	// CoverKey keys downloaded cover art by source URL.
	CoverKey(url string) string

	// CatalogKey keys a catalog title lookup.
	CatalogKey(title string) string

	// ArtifactKey keys a rendered poster by config hash and format.
	ArtifactKey(configHash, format string) string
}

// DefaultKeyer hashes key components with SHA-256 under a class prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

func (k *DefaultKeyer) HTTPKey(namespace, url string) string {
	return hashKey("http:"+namespace, url)
}

func (k *DefaultKeyer) CoverKey(url string) string {
	return hashKey("cover", url)
}

func (k *DefaultKeyer) CatalogKey(title string) string {
	return hashKey("catalog", title)
}

func (k *DefaultKeyer) ArtifactKey(configHash, format string) string {
	return hashKey("artifact", configHash, format)
}
