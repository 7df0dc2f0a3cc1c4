// Package ring implements the fixed-capacity intrusive circular
// doubly-linked list that CLOCK-Pro sweeps with its three hands.
//
// Node identity is a stable integer "token" assigned on insertion rather
// than a pointer: tokens never change once handed out, so a caller (the
// policy engine) may cache a token across removals of unrelated tokens
// and use it to address the co-allocated slot table directly. This is
// an arena-plus-index idiom: a dense token space backed by a flat slice,
// with freed tokens recycled through a LIFO free list instead of being
// garbage collected.
//
// Ring itself is unaware of keys, values or CLOCK-Pro states; it only
// maintains next/prev adjacency over a pre-sized token space. All
// mutation assumes a single caller — there is no internal locking; the
// caller is responsible for external synchronisation if needed.
//
// © 2025 clockpro-cache authors. MIT License.
package ring

// none is the sentinel value meaning "no token" — used only for the
// empty-ring hand position, which callers must not dereference.
const none = -1

type node struct {
	prev, next int
	used       bool
}

// Ring is a fixed-capacity circular doubly-linked list addressed by
// small integer tokens in [0, capacity). It never grows past the
// capacity given to New.
type Ring struct {
	nodes []node
	free  []int // token slots not currently in the ring, LIFO reuse
	head  int   // any token in the ring, or none if empty
	size  int
}

// New constructs a Ring with storage for exactly capacity tokens.
// capacity must be >= 1.
func New(capacity int) *Ring {
	if capacity < 1 {
		panic("ring: capacity must be >= 1")
	}
	r := &Ring{
		nodes: make([]node, capacity),
		free:  make([]int, capacity),
		head:  none,
	}
	for i := range r.free {
		r.free[i] = capacity - 1 - i
	}
	return r
}

// Len returns the number of tokens currently in the ring.
func (r *Ring) Len() int { return r.size }

// Empty reports whether the ring holds no tokens.
func (r *Ring) Empty() bool { return r.size == 0 }

// InsertAfter allocates a fresh token and splices it in immediately
// ahead of anchor in allocation order — that is, anchor becomes the new
// token's successor (Next(new) == anchor), so the new token is the last
// one anchor's predecessor chain reaches on a forward sweep starting
// anywhere else in the ring. This mirrors the original token_ring's
// insert_after(to), whose name refers to allocation order rather than
// traversal order: despite the name, the freshly allocated node is
// linked as to's immediate predecessor, not its successor. If the ring
// is currently empty, anchor is ignored and the new token becomes the
// sole element (and the head). Panics if the ring is already at
// capacity.
func (r *Ring) InsertAfter(anchor int) int {
	if len(r.free) == 0 {
		panic("ring: capacity exceeded")
	}
	t := r.free[len(r.free)-1]
	r.free = r.free[:len(r.free)-1]
	r.nodes[t].used = true

	if r.head == none {
		r.nodes[t].next = t
		r.nodes[t].prev = t
		r.head = t
		r.size = 1
		return t
	}

	b := &r.nodes[anchor]
	prevTok := b.prev
	r.nodes[t].next = anchor
	r.nodes[t].prev = prevTok
	b.prev = t
	r.nodes[prevTok].next = t
	r.size++
	return t
}

// Remove detaches token from the ring. The token may be reused by a
// later InsertAfter call; callers must not reference it afterwards.
func (r *Ring) Remove(token int) {
	n := &r.nodes[token]
	if !n.used {
		panic("ring: remove of token not in ring")
	}
	if n.next == token {
		// sole element
		r.head = none
	} else {
		r.nodes[n.prev].next = n.next
		r.nodes[n.next].prev = n.prev
		if r.head == token {
			r.head = n.next
		}
	}
	n.used = false
	n.prev, n.next = 0, 0
	r.size--
	r.free = append(r.free, token)
}

// Next returns the token following t, wrapping around the ring. t must
// currently be in the ring.
func (r *Ring) Next(t int) int { return r.nodes[t].next }

// Prev returns the token preceding t, wrapping around the ring. t must
// currently be in the ring.
func (r *Ring) Prev(t int) int { return r.nodes[t].prev }

// Head returns a token currently in the ring, or (0, false) if the ring
// is empty. The returned token is only meaningful as a starting point
// for Next/Prev traversal — it carries no ordering significance.
func (r *Ring) Head() (int, bool) {
	if r.head == none {
		return 0, false
	}
	return r.head, true
}
