package cache

// config.go defines the functional options accepted by New and
// NewWithTestCapacity. A generic Option[K,V] closure over an internal
// config struct gates every optional knob; sharding, TTL rotation,
// weight accounting and metrics export are all out of scope for this
// policy-only cache, so WithLogger is the only knob with a referent
// today — but the pattern is kept because it is how any future knob
// would be added without breaking New's signature.
//
// © 2025 clockpro-cache authors. MIT License.

import "go.uber.org/zap"

// Option configures a Cache at construction time.
type Option[K comparable, V any] func(*config[K, V])

type config[K comparable, V any] struct {
	logger *zap.Logger
}

func defaultConfig[K comparable, V any]() *config[K, V] {
	return &config[K, V]{
		logger: zap.NewNop(),
	}
}

// WithLogger plugs an external zap.Logger. The cache never logs on the
// hot path; the logger is only ever consulted immediately before a
// fatal invariant-violation panic, to capture a structured snapshot of
// the corrupted state alongside the crash.
func WithLogger[K comparable, V any](l *zap.Logger) Option[K, V] {
	return func(c *config[K, V]) {
		if l != nil {
			c.logger = l
		}
	}
}

func applyOptions[K comparable, V any](cfg *config[K, V], opts []Option[K, V]) {
	for _, opt := range opts {
		opt(cfg)
	}
}
