// Package cache provides content-addressed caching of built graphs.
//
// Building a graph for a full state is geometry-heavy; the cache lets
// repeated builds over the same input and parameters return instantly.
// Keys combine the SHA-256 hash of the input bytes with the build
// parameters, so any change to either produces a different key.
package cache

import (
	"context"
	"time"

	"github.com/statecraft/precinctgraph/pkg/adjacency"
)

// TTLGraph is how long cached graphs stay valid. Inputs are content
// addressed, so a long TTL is safe; it only bounds disk growth.
const TTLGraph = 30 * 24 * time.Hour

// Cache stores serialized graphs keyed by content hash.
// Implementations must treat a missing key as a miss, not an error.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// GraphKey derives the cache key for a built graph from the input content
// hash and the build parameters. Workers does not affect the produced
// graph and is not part of the key.
func GraphKey(inputHash string, cfg adjacency.Config) string {
	return hashKey("graph", inputHash,
		cfg.MinSharedBoundaryFeet,
		cfg.ProximityToleranceFeet,
		cfg.FuzzMeters,
		cfg.IDAttribute,
	)
}
