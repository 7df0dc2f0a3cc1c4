// Package clockpro implements the CLOCK-Pro replacement policy: the
// three-hand sweep over a token ring that keeps cache entries classified
// as HOT, COLD or (non-resident) TEST, with an adaptively sized cold
// partition.
//
// Reference: Qingqing He, Jun Wang, "CLOCK-Pro: An Effective Improvement
// of the CLOCK Replacement", USENIX 2005.
//
// The ring and the slot table are external collaborators (internal/ring,
// internal/slab) whose contracts this package consumes but does not
// own. Clock itself is single-threaded — the caller (package cache) already
// holds exclusive ownership for the duration of any public method, so
// this package is free of any explicit locking.
//
// ⛔ This package is internal and MUST NOT be imported outside this
// module.
//
// © 2025 clockpro-cache authors. MIT License.
package clockpro

import (
	"github.com/clockprolabs/clockpro/internal/ring"
	"github.com/clockprolabs/clockpro/internal/slab"
)

// FatalFunc is invoked immediately before a panic triggered by a broken
// invariant — a reachable state where the bookkeeping no longer matches
// reality is a program bug, not a recoverable condition. It exists
// purely so the caller can attach forensic logging; it must not attempt
// to recover or alter state.
type FatalFunc func(msg string, token int, state slab.State)

// Clock is the CLOCK-Pro policy engine for keys K and values V.
type Clock[K comparable, V any] struct {
	ring  *ring.Ring
	slots *slab.Slab[K, V]
	index map[K]int

	capacity     int // C: max resident (hot+cold) entries
	testCapacity int // T: max non-resident (test) entries
	coldTarget   int // Kc: adaptive target size of the cold partition

	handHot, handCold, handTest int
	handsValid                  bool

	countHot, countCold, countTest int

	onFatal FatalFunc
}

// New constructs a Clock with resident capacity and non-resident
// (test) capacity. Both the ring and slot table are pre-sized to
// capacity+testCapacity so no hand or insert path ever allocates.
// Callers (package cache) are responsible for validating capacity >= 3
// before calling New — this package assumes it.
func New[K comparable, V any](capacity, testCapacity int, onFatal FatalFunc) *Clock[K, V] {
	total := capacity + testCapacity
	return &Clock[K, V]{
		ring:         ring.New(total),
		slots:        slab.New[K, V](total),
		index:        make(map[K]int, total),
		capacity:     capacity,
		testCapacity: testCapacity,
		coldTarget:   capacity,
		onFatal:      onFatal,
	}
}

func (c *Clock[K, V]) fatal(msg string, token int) {
	var st slab.State
	if token >= 0 {
		st = c.slots.At(token).State
	}
	if c.onFatal != nil {
		c.onFatal(msg, token, st)
	}
	panic("clockpro: " + msg)
}

// Get returns the resident value for key, setting its REFERENCE bit.
// Lookups never advance hands.
func (c *Clock[K, V]) Get(key K) (V, bool) {
	var zero V
	token, ok := c.index[key]
	if !ok {
		return zero, false
	}
	s := c.slots.At(token)
	if !s.HasValue {
		return zero, false
	}
	s.State |= slab.Reference
	return s.Value, true
}

// GetMut returns a pointer to the resident value for key so the caller
// may mutate it in place, setting REFERENCE exactly as Get does.
func (c *Clock[K, V]) GetMut(key K) (*V, bool) {
	token, ok := c.index[key]
	if !ok {
		return nil, false
	}
	s := c.slots.At(token)
	if !s.HasValue {
		return nil, false
	}
	s.State |= slab.Reference
	return &s.Value, true
}

// ContainsKey reports whether key currently maps to a resident entry.
// It does not set REFERENCE.
func (c *Clock[K, V]) ContainsKey(key K) bool {
	token, ok := c.index[key]
	if !ok {
		return false
	}
	return c.slots.At(token).HasValue
}

// Insert admits key/value and returns true iff the key was not already
// present in any form (resident or TEST) — i.e. "newly admitted". It
// may trigger eviction.
func (c *Clock[K, V]) Insert(key K, value V) bool {
	token, present := c.index[key]
	if present {
		s := c.slots.At(token)
		if s.HasValue {
			// Rule 1: overwrite a resident entry.
			s.Value = value
			s.State |= slab.Reference
			return false
		}
		// Rule 3: re-insertion of a TEST (non-resident) key — promote to HOT.
		if c.coldTarget < c.capacity {
			c.coldTarget++
		}
		c.countTest--
		c.metaDel(token)
		c.metaAdd(key, value, slab.Hot)
		c.countHot++
		return false
	}
	// Rule 2: a genuinely new key, admitted as COLD.
	c.metaAdd(key, value, slab.Cold)
	c.countCold++
	return true
}

// metaAdd evicts until there is room, allocates a token just behind
// handHot, and nudges handCold out of the way if it had been sitting on
// handHot.
func (c *Clock[K, V]) metaAdd(key K, value V, state slab.State) {
	c.evict()

	var token int
	if !c.handsValid {
		token = c.ring.InsertAfter(0)
		c.handHot, c.handCold, c.handTest = token, token, token
		c.handsValid = true
	} else {
		token = c.ring.InsertAfter(c.handHot)
		if c.handCold == c.handHot {
			c.handCold = c.ring.Prev(c.handCold)
		}
	}

	s := c.slots.At(token)
	s.Key = key
	s.Value = value
	s.HasValue = true
	s.State = state
	c.index[key] = token
}

// evict runs hand_cold until resident occupancy is back under capacity.
func (c *Clock[K, V]) evict() {
	for c.countHot+c.countCold >= c.capacity {
		c.runHandCold()
	}
}

// runHandCold promotes a referenced cold entry to HOT, or demotes an
// unreferenced one to TEST (trimming TEST back down to capacity if
// needed), then advances the hand and rebalances handHot if the hot
// partition now exceeds its target.
func (c *Clock[K, V]) runHandCold() {
	if !c.handsValid {
		c.fatal("runHandCold called on empty ring", -1)
	}
	s := c.slots.At(c.handCold)
	if s.State.Base() == slab.Cold {
		if s.State.Referenced() {
			s.State = slab.Hot
			c.countCold--
			c.countHot++
		} else {
			s.State = slab.Test
			s.HasValue = false
			var zero V
			s.Value = zero
			c.countCold--
			c.countTest++
			for c.countTest > c.testCapacity {
				c.runHandTest()
			}
		}
	}
	c.handCold = c.ring.Next(c.handCold)

	for c.countHot > c.capacity-c.coldTarget {
		c.runHandHot()
	}
}

// runHandHot clears the reference bit on a referenced hot entry (giving
// it another lap), or demotes an unreferenced one to COLD. Defers to
// handTest first if the two hands coincide, so advancing one hand never
// strands the other on a token it is about to invalidate.
func (c *Clock[K, V]) runHandHot() {
	if c.handHot == c.handTest {
		c.runHandTest()
	}
	s := c.slots.At(c.handHot)
	if s.State.Base() == slab.Hot {
		if s.State.Referenced() {
			s.State &^= slab.Reference
		} else {
			s.State = slab.Cold
			c.countHot--
			c.countCold++
		}
	}
	c.handHot = c.ring.Next(c.handHot)
}

// runHandTest reclaims a TEST entry that made it all the way around
// without being re-referenced, shrinking coldTarget since the probation
// window proved too long. Defers to handCold first if the two hands
// coincide.
func (c *Clock[K, V]) runHandTest() {
	if c.handTest == c.handCold {
		c.runHandCold()
	}
	s := c.slots.At(c.handTest)
	if s.State.Base() == slab.Test {
		prev := c.ring.Prev(c.handTest)
		c.metaDel(c.handTest)
		c.handTest = prev
		c.countTest--
		if c.coldTarget > 1 {
			c.coldTarget--
		}
	}
	c.handTest = c.ring.Next(c.handTest)
}

// metaDel scrubs the slot, drops it from the key index, nudges any hand
// sitting on this token back to its predecessor so it remains valid
// after removal, then removes the token from the ring.
func (c *Clock[K, V]) metaDel(token int) {
	s := c.slots.At(token)
	key := s.Key
	c.slots.Clear(token)
	delete(c.index, key)

	if token == c.handHot {
		c.handHot = c.ring.Prev(c.handHot)
	}
	if token == c.handCold {
		c.handCold = c.ring.Prev(c.handCold)
	}
	if token == c.handTest {
		c.handTest = c.ring.Prev(c.handTest)
	}
	c.ring.Remove(token)
}

// Counts returns the current resident-hot, resident-cold and
// non-resident-test counts — exposed through the cache package's Counts
// and used by tests for invariant checks. It reports exactly the accounting the hand rules already
// maintain, nothing more.
func (c *Clock[K, V]) Counts() (hot, cold, test int) {
	return c.countHot, c.countCold, c.countTest
}

// ColdTarget returns the current adaptive cold-partition target Kc.
func (c *Clock[K, V]) ColdTarget() int { return c.coldTarget }

// Len returns the number of tokens currently tracked (resident + test).
func (c *Clock[K, V]) Len() int { return c.ring.Len() }
