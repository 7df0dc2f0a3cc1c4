// Package cache is the public façade over the CLOCK-Pro policy engine
// in internal/clockpro. It owns construction, functional options and
// the public operations: New, NewWithTestCapacity, Get, GetMut,
// ContainsKey, Insert — plus the GetOrLoad convenience wrapper.
//
// Cache is single-owner: every method mutates internal state (even Get,
// which sets the REFERENCE bit) and none of them synchronise with each
// other. Callers needing concurrent access must wrap a Cache in their
// own mutex; this package does not prescribe one.
//
// © 2025 clockpro-cache authors. MIT License.
package cache

import (
	"context"

	"go.uber.org/zap"

	"github.com/clockprolabs/clockpro/internal/clockpro"
	"github.com/clockprolabs/clockpro/internal/slab"
)

// Cache is a fixed-capacity, in-memory associative cache implementing
// the CLOCK-Pro replacement policy for keys K and values V.
type Cache[K comparable, V any] struct {
	engine *clockpro.Clock[K, V]
	logger *zap.Logger
}

// New constructs a Cache with the given resident capacity and a test
// (non-resident) capacity equal to capacity. Returns ErrCapacityTooSmall
// if capacity < MinCapacity.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	return NewWithTestCapacity[K, V](capacity, capacity, opts...)
}

// NewWithTestCapacity constructs a Cache with independently sized
// resident and test capacities. Returns ErrCapacityTooSmall if capacity
// < MinCapacity; testCapacity may be any non-negative value.
func NewWithTestCapacity[K comparable, V any](capacity, testCapacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity < MinCapacity {
		return nil, capacityError(capacity)
	}
	if testCapacity < 0 {
		testCapacity = 0
	}

	cfg := defaultConfig[K, V]()
	applyOptions(cfg, opts)

	c := &Cache[K, V]{logger: cfg.logger}
	c.engine = clockpro.New[K, V](capacity, testCapacity, c.onFatal)
	return c, nil
}

// onFatal is handed to the policy engine so a broken invariant is
// logged with structured context before the engine panics.
func (c *Cache[K, V]) onFatal(msg string, token int, state slab.State) {
	c.logger.Error("clockpro: invariant violation",
		zap.String("reason", msg),
		zap.Int("token", token),
		zap.Uint8("state", uint8(state)),
	)
}

// Get returns the resident value for key and true, or the zero value
// and false if key is absent or non-resident. Sets the REFERENCE bit on
// a hit; never advances any hand.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.engine.Get(key)
}

// GetMut returns a pointer to the resident value for key so the caller
// may mutate it in place, or nil and false if key is absent or
// non-resident. Sets REFERENCE identically to Get and updates no
// adaptive counters beyond that — an in-place mutation is not treated
// as a fresh admission.
func (c *Cache[K, V]) GetMut(key K) (*V, bool) {
	return c.engine.GetMut(key)
}

// ContainsKey reports whether key currently maps to a resident entry.
// It does not set REFERENCE.
func (c *Cache[K, V]) ContainsKey(key K) bool {
	return c.engine.ContainsKey(key)
}

// Insert inserts or overwrites key with value, returning true iff key
// was not already present in the cache in any form (resident or
// non-resident). May evict other entries per the CLOCK-Pro rules.
func (c *Cache[K, V]) Insert(key K, value V) bool {
	return c.engine.Insert(key, value)
}

// GetOrLoad returns the resident value for key if present; otherwise it
// calls loader, inserts the result, and returns it. loader is invoked
// at most once per call and runs synchronously on the caller's
// goroutine — there is no de-duplication across concurrent callers,
// since the cache itself has no concurrency story of its own. If ctx is
// already done, or loader returns an error, nothing is inserted and the
// error is returned.
func (c *Cache[K, V]) GetOrLoad(ctx context.Context, key K, loader LoaderFunc[K, V]) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	var zero V
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	v, err := loader(ctx, key)
	if err != nil {
		return zero, err
	}
	c.Insert(key, v)
	return v, nil
}

// Len returns the number of tokens currently tracked by the policy
// engine, resident or test (hot + cold + test).
func (c *Cache[K, V]) Len() int {
	return c.engine.Len()
}

// Counts returns the current resident-hot, resident-cold and
// non-resident-test entry counts, for callers (and tests) that want to
// check the sizing invariants directly.
func (c *Cache[K, V]) Counts() (hot, cold, test int) {
	return c.engine.Counts()
}

// ColdTarget returns the current adaptive cold-partition target Kc,
// always bounded to [1, capacity].
func (c *Cache[K, V]) ColdTarget() int {
	return c.engine.ColdTarget()
}
