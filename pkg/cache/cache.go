// Package cache stores computed layouts, rendered artifacts and downloaded
// manifests behind a small key/value interface.
//
// Three backends are provided:
//   - [FileCache]: JSON entries under the XDG cache directory, for the CLI
//   - [RedisCache]: shared storage for multi-instance API deployments
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys are produced by a [Keyer] so every backend agrees on the namespace
// layout. [ScopedKeyer] adds a tenant prefix on top of any Keyer.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is the storage interface used by the pipeline and the API.
type Cache interface {
	// Get returns the data stored under key. A missing or expired key is
	// reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default time-to-live per entry kind.
const (
	// TTLHTTP applies to downloaded item manifests.
	TTLHTTP = 24 * time.Hour

	// TTLLayout applies to computed layouts. Layouts are a pure function of
	// their key, so they are kept for a week.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact applies to rendered SVG/JSON output.
	TTLArtifact = 7 * 24 * time.Hour
)

// keyType returns the namespace of a key ("layout", "artifact", "http")
// for observability hooks, ignoring any scope prefix.
func keyType(key string) string {
	best, kind := -1, "unknown"
	for _, kt := range [...]string{prefixLayout, prefixArtifact, prefixHTTP} {
		if i := strings.Index(key, kt+":"); i >= 0 && (best < 0 || i < best) {
			best, kind = i, kt
		}
	}
	return kind
}
