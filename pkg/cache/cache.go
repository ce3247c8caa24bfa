// Package cache stores computed layouts and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a local directory (CLI)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// [Open] picks a backend from [Options].
//
// # Keys
//
// A [Keyer] turns a content hash plus the options that influenced a result
// into a key. Options are hashed together with the content, so changing any
// parameter yields a new key:
//
//	k := cache.NewDefaultKeyer()
//	key := k.LayoutKey(cache.Hash(snapshotJSON), cache.LayoutKeyOpts{Width: 800, Height: 600})
//
// [NewScopedKeyer] prefixes every key, which isolates deployments sharing one
// Redis or Mongo instance.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// =============================================================================
// Keys
// =============================================================================

// Keyer generates cache keys.
type Keyer interface {
	LayoutKey(snapshotHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs that change a computed layout.
type LayoutKeyOpts struct {
	Width    float64 `json:"w"`
	Height   float64 `json:"h"`
	MaxSteps int     `json:"steps"`
	Config   string  `json:"cfg"` // Hash of the simulation parameters
}

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"fmt"`
	Scale      float64 `json:"scale,omitempty"`
	Padding    float64 `json:"pad,omitempty"`
	LinkLabels bool    `json:"labels"`
	Background string  `json:"bg,omitempty"`
	Style      string  `json:"style,omitempty"` // Hash of the primitive styling
}

// DefaultKeyer hashes options with the content hash.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns the key of a layout computed from a snapshot.
func (DefaultKeyer) LayoutKey(snapshotHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", snapshotHash, opts)
}

// ArtifactKey returns the key of an artifact rendered from a layout.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
