// Package cache provides pluggable byte caching for expensive pipeline
// stages: decoded graphs and analysis results, keyed by content hash.
//
// Backends implement the [Cache] interface: a local [FileCache] for CLI use,
// [RedisCache] and [MongoCache] for shared deployments, and [NullCache] to
// disable caching entirely. Keys are produced by a [Keyer] so every consumer
// derives them the same way; [ScopedKeyer] adds a namespace prefix for
// multi-tenant setups.
package cache

import (
	"context"
	"time"
)

// Default TTLs per cached stage. Graph decodes and analysis results are pure
// functions of their inputs, so the TTLs exist to bound storage, not to
// manage staleness.
const (
	// TTLGraph applies to decoded graph payloads.
	TTLGraph = 7 * 24 * time.Hour

	// TTLAnalysis applies to score vectors, community assignments, and
	// betweenness results.
	TTLAnalysis = 24 * time.Hour
)

// Cache is the storage interface all backends implement.
// Get returns (data, hit, error): a miss is (nil, false, nil), not an error.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources (connections, file handles).
	Close() error
}

// ScoreKeyOpts are the parameters that distinguish one centrality run from
// another over the same graph bytes.
type ScoreKeyOpts struct {
	Iterations int
	Damping    float64
}

// Keyer derives cache keys for the pipeline stages. All keys incorporate the
// content hash of the wire payload, so a changed input never aliases a stale
// entry.
type Keyer interface {
	// GraphKey keys a decoded graph by its payload hash.
	GraphKey(contentHash string) string

	// ScoreKey keys a centrality result by payload hash and run parameters.
	ScoreKey(contentHash string, opts ScoreKeyOpts) string

	// CommunityKey keys a community-detection result by payload hash.
	CommunityKey(contentHash string) string

	// BetweennessKey keys a betweenness result by payload hash.
	BetweennessKey(contentHash string) string
}

// DefaultKeyer is the standard key derivation: a stage prefix plus a SHA-256
// over the JSON-encoded key parts.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey generates a key for a decoded graph.
func (k *DefaultKeyer) GraphKey(contentHash string) string {
	return hashKey("graph", contentHash)
}

// ScoreKey generates a key for a centrality result.
func (k *DefaultKeyer) ScoreKey(contentHash string, opts ScoreKeyOpts) string {
	return hashKey("scores", contentHash, opts.Iterations, opts.Damping)
}

// CommunityKey generates a key for a community-detection result.
func (k *DefaultKeyer) CommunityKey(contentHash string) string {
	return hashKey("communities", contentHash)
}

// BetweennessKey generates a key for a betweenness result.
func (k *DefaultKeyer) BetweennessKey(contentHash string) string {
	return hashKey("betweenness", contentHash)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
