// Package cache provides caching for parse results and rendered
// artifacts, so re-running the local pipeline on an unchanged diagram
// skips the expensive work.
//
// Backends: FileCache for CLI usage, RedisCache for long-running
// workers, NullCache to disable caching.
package cache

import (
	"context"
	"time"
)

// TTLs for the pipeline's cacheable stages. Parsed topologies are
// keyed by source file hash so they never go stale; the TTL just
// bounds disk usage.
const (
	TTLTopology = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented cache with TTL support.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was
	// found; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the pipeline's cacheable stages.
type Keyer interface {
	// TopologyKey keys a parsed topology by the source file hash.
	TopologyKey(fileHash string) string

	// ArtifactKey keys a rendered artifact by topology hash and output
	// format.
	ArtifactKey(topologyHash, format string) string
}

// DefaultKeyer generates unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// TopologyKey generates a key for a parsed topology.
func (k *DefaultKeyer) TopologyKey(fileHash string) string {
	return hashKey("topology", fileHash)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(topologyHash, format string) string {
	return hashKey("artifact", topologyHash, format)
}

// ScopedKeyer wraps a Keyer with a prefix so separate projects or
// documents get separate cache namespaces.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix prepended to all
// generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TopologyKey generates a prefixed topology key.
func (k *ScopedKeyer) TopologyKey(fileHash string) string {
	return k.prefix + k.inner.TopologyKey(fileHash)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(topologyHash, format string) string {
	return k.prefix + k.inner.ArtifactKey(topologyHash, format)
}
