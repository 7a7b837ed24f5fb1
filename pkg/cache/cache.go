// Package cache provides pluggable result caching for analysis reports.
//
// Analyzing a module is deterministic: the same module content under the
// same analysis configuration always yields the same report. Reports are
// therefore cached under a key derived from both content hashes (see
// [ReportKey]) and re-served on repeat runs.
//
// Four backends implement the [Cache] interface: a file cache for CLI use,
// Redis and MongoDB backends for server deployments, and a null cache that
// disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// ReportKey returns the cache key for one module's analysis report.
// moduleHash is the module's content fingerprint and configHash the
// analysis configuration fingerprint; a change to either yields a
// different key.
func ReportKey(moduleHash, configHash string) string {
	return hashKey("report", moduleHash, configHash)
}
