package domain

import "time"

// ==== WebSocket Constants ====

// MaxMessageSize is the maximum allowed WebSocket message size in bytes
const MaxMessageSize = 4096

// ==== Relay Constants ====

const (
	// RelayWindowLength is the fixed rate-limit window per connection
	RelayWindowLength = time.Second

	// DefaultRelayLimit is the maximum messages accepted per window
	DefaultRelayLimit = 10

	// MaxRoomIDLength bounds the externally supplied room identifier
	MaxRoomIDLength = 64
)

// ==== Pairing Constants ====

const (
	// DefaultPairTTL is how long a pairing entry lives when no ttl is given
	DefaultPairTTL = 300 * time.Second

	// SweepGrace is added to an entry's expiry when scheduling a sweep,
	// so the sweep always runs after the entry is logically gone
	SweepGrace = time.Second

	// MinPairCodeLength and MaxPairCodeLength bound a pairing code
	MinPairCodeLength = 3
	MaxPairCodeLength = 20
)

// ==== Lifecycle Constants ====

const (
	// DefaultRoomTTL is how long an empty room survives before the idle
	// sweep may discard it
	DefaultRoomTTL = 60 * time.Second
)

// ==== Boundary Rate Limit Constants ====

const (
	// DefaultRateLimitAPI is the per-IP rate limit for the pairing endpoints (req/sec)
	DefaultRateLimitAPI = 10

	// DefaultRateLimitWS is the per-IP rate limit for WebSocket upgrades (req/sec)
	DefaultRateLimitWS = 5
)
