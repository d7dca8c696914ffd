// Package cache stores computed frames keyed by the inputs that produced them.
//
// Every backend implements [Cache]:
//
//   - [NullCache]: stores nothing (caching disabled)
//   - [FileCache]: one file per entry under a local directory (CLI default)
//   - [RedisCache]: a shared Redis instance (API server)
//   - [MongoCache]: a MongoDB collection with a TTL index
//
// Keys come from a [Keyer]. Frame keys hash the configuration fingerprint,
// screen size and the finishing-phase options that change the output. Block
// count, worker count and shuffle seed are deliberately absent: they never
// change the resulting frame.
//
// Cache errors never fail a render. Callers log them and treat them as a miss.
package cache

import (
	"context"
	"time"
)

// TTLFrame is how long computed frames are kept.
const TTLFrame = 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is reported
	// as hit == false with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// FrameKey returns the key of a frame computed from the configuration
	// with the given hash.
	FrameKey(configHash string, opts FrameKeyOpts) string
}

// FrameKeyOpts holds the inputs besides the configuration that change a frame.
type FrameKeyOpts struct {
	Width               int  `json:"width"`
	Height              int  `json:"height"`
	EstimatePDF         bool `json:"pdf"`
	LeaveSeedUnassigned bool `json:"legacy_roots"`
}

// DefaultKeyer produces unscoped keys of the form "frame:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// FrameKey implements Keyer.
func (DefaultKeyer) FrameKey(configHash string, opts FrameKeyOpts) string {
	return hashKey("frame", configHash, opts)
}
