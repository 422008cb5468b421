// Package pairheap implements a mergeable minheap with an efficient
// decrease-key operation (a pairing heap).
//
// Unlike an array-backed binary heap, any element may have any number of
// children, and rebalancing happens lazily: most operations just link trees
// together in O(1) and leave the real work to the two-pass combination that
// runs on deletion. This gives constant-time insertion and merging, an
// amortized constant-time [Heap.DecreaseKey], and amortized logarithmic
// deletion, which is what makes the structure useful as the ready-queue of
// schedulers and shortest-path searches.
//
// The heap is not goroutine-safe, users must implement mutexes on their end.
// Iterators only detect concurrent mutation (see [Heap.Iterator]), they
// don't prevent it.
package pairheap

import (
	"cmp"
	"errors"
)

// Errors returned by heap operations. All of them are recoverable: the heap
// stays valid and usable after any of them.
var (
	// ErrNoElement is returned when an element is asked of an empty heap or
	// an exhausted iterator.
	ErrNoElement = errors.New("pairheap: no element")

	// ErrKeyIncrease is returned by [Heap.DecreaseKey] when the new key is
	// strictly greater than the current one. Increasing a key has to go
	// through [Heap.ChangeKey].
	ErrKeyIncrease = errors.New("pairheap: new key is greater than the current key")

	// ErrSelfMerge is returned by [Heap.Merge] when a heap is merged into
	// itself.
	ErrSelfMerge = errors.New("pairheap: cannot merge a heap into itself")

	// ErrModified is returned by iterators whose backing heap was
	// structurally modified behind their back.
	ErrModified = errors.New("pairheap: heap modified during iteration")
)

// An Element is a single key/value entry of a [Heap]. Elements are created
// by [Heap.Insert] and act as handles for [Heap.DecreaseKey],
// [Heap.ChangeKey] and [Heap.Delete]. A removed element must not be reused.
type Element[K, V any] struct {
	key   K
	value V

	// Intrusive links. `prev` is dual-purpose: the left sibling if there is
	// one, otherwise (for a leftmost child) the parent. The two cases are
	// told apart by checking prev.child == e.
	child *Element[K, V]
	next  *Element[K, V]
	prev  *Element[K, V]
}

// Key returns the element's current key.
func (e *Element[K, V]) Key() K { return e.key }

// Value returns the element's payload.
func (e *Element[K, V]) Value() V { return e.value }

// SetValue replaces the element's payload. Payloads take no part in the
// ordering, so this never restructures the heap.
func (e *Element[K, V]) SetValue(v V) { e.value = v }

// parent returns the element's parent, walking left through the sibling
// list until the back-pointer flips from "left sibling" to "parent".
func (e *Element[K, V]) parent() *Element[K, V] {
	p := e
	for p.prev.child != p {
		p = p.prev
	}
	return p.prev
}

// A Heap is a pairing heap ordered by its elements' keys.
// The zero value is not usable, make one with [New] or [NewFunc].
type Heap[K, V any] struct {
	root *Element[K, V]
	size int
	less func(a, b K) bool

	// Bumped by every operation that changes the shape of the tree, never
	// by reads. Iterators use it to fail fast.
	mods uint64
}

// New makes an empty [Heap] ordered by the natural order of the key type.
func New[K cmp.Ordered, V any]() *Heap[K, V] {
	return NewFunc[K, V](cmp.Less[K])
}

// NewFunc makes an empty [Heap] ordered by the passed comparison function.
// `less` must describe a total order. It is resolved once, here: every
// operation of the heap goes through this one function, whether the order
// is natural or not. A nil `less` is only caught at the first comparison.
func NewFunc[K, V any](less func(a, b K) bool) *Heap[K, V] {
	return &Heap[K, V]{less: less}
}

// Len returns the number of elements in the heap.
// The time complexity is O(1).
func (h *Heap[K, V]) Len() int { return h.size }

// IsEmpty reports whether the heap has no elements.
func (h *Heap[K, V]) IsEmpty() bool { return h.size == 0 }

// Insert adds a new key/value entry and returns its [Element] handle.
// The time complexity is O(1).
func (h *Heap[K, V]) Insert(key K, value V) *Element[K, V] {
	e := &Element[K, V]{key: key, value: value}
	h.root = h.join(h.root, e)
	h.size++
	h.mods++
	return e
}

// Min returns the element with the smallest key, without removing it.
// It returns false if the heap is empty.
// The time complexity is O(1).
func (h *Heap[K, V]) Min() (*Element[K, V], bool) {
	return h.root, h.root != nil
}

// Merge moves every element of `other` into h and leaves `other` valid but
// empty. The two heaps must use the same ordering. Merging a heap into
// itself returns [ErrSelfMerge].
// The time complexity is O(1).
func (h *Heap[K, V]) Merge(other *Heap[K, V]) error {
	if other == h {
		return ErrSelfMerge
	}
	h.root = h.join(h.root, other.root)
	h.size += other.size
	other.root = nil
	other.size = 0
	other.mods++
	h.mods++
	return nil
}

// DecreaseKey lowers the key of `e` to `newKey` and returns the old key.
// If `newKey` is strictly greater than the current key, nothing changes and
// [ErrKeyIncrease] is returned - increasing must go through
// [Heap.ChangeKey], since it can push `e` below its own children.
// The time complexity is amortized O(1); the work is deferred to a later
// deletion.
func (h *Heap[K, V]) DecreaseKey(e *Element[K, V], newKey K) (K, error) {
	old := e.key
	if h.less(old, newKey) {
		return old, ErrKeyIncrease
	}
	// The children were >= the old key, so they are >= the new, smaller
	// key too: the subtree can move to the top as one piece.
	e.key = newKey
	if e != h.root {
		h.unlink(e)
		h.root = h.join(h.root, e)
	}
	h.mods++
	return old, nil
}

// ChangeKey sets the key of `e` to `newKey` and returns the old key. A key
// that doesn't increase takes the [Heap.DecreaseKey] path. An increasing
// key may order `e` below its own children, so `e` is fully removed - its
// children combined and spliced into its place - and then reinserted.
// The time complexity is amortized O(1) for the decrease path and amortized
// O(log n) (worst case O(n)) for the increase path.
func (h *Heap[K, V]) ChangeKey(e *Element[K, V], newKey K) K {
	old := e.key
	e.key = newKey
	if !h.less(old, newKey) {
		// Same move as DecreaseKey.
		if e != h.root {
			h.unlink(e)
			h.root = h.join(h.root, e)
		}
		h.mods++
		return old
	}
	if e == h.root {
		sub := h.combine(e.child)
		e.child = nil
		h.root = h.join(sub, e)
	} else {
		h.replaceWithChildren(e)
		h.root = h.join(h.root, e)
	}
	h.mods++
	return old
}

// Delete removes `e` from the heap and returns it. Deleting the minimum is
// the same as [Heap.DeleteMin].
// The time complexity is amortized O(log n), worst case O(n).
func (h *Heap[K, V]) Delete(e *Element[K, V]) *Element[K, V] {
	h.removeElement(e)
	return e
}

// DeleteMin removes and returns the element with the smallest key.
// Returns [ErrNoElement] if the heap is empty.
// The time complexity is amortized O(log n), worst case O(n).
func (h *Heap[K, V]) DeleteMin() (*Element[K, V], error) {
	if h.root == nil {
		return nil, ErrNoElement
	}
	min := h.root
	h.removeElement(min)
	return min, nil
}

// Clear drops every element. Memory is released lazily, there is nothing to
// free per element. Clearing an empty heap is a no-op apart from the
// modification count.
// The time complexity is O(1).
func (h *Heap[K, V]) Clear() {
	h.root = nil
	h.size = 0
	h.mods++
}

// ContainsKey reports whether some element has exactly the key `key`.
// Heap order lets the search skip whole subtrees: nothing below an element
// can have a smaller key than the element itself.
// The time complexity is O(n) in the worst case.
func (h *Heap[K, V]) ContainsKey(key K) bool {
	if h.root == nil {
		return false
	}
	stack := []*Element[K, V]{h.root}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for ; e != nil; e = e.next {
			if h.less(key, e.key) {
				// The whole subtree exceeds the sought key.
				continue
			}
			if !h.less(e.key, key) {
				return true
			}
			if e.child != nil {
				stack = append(stack, e.child)
			}
		}
	}
	return false
}

// ContainsValue reports whether some element's payload compares equal to
// `value` under `eq`. Payloads are unordered, so unlike [Heap.ContainsKey]
// this always has to look at every element.
// The time complexity is O(n).
func (h *Heap[K, V]) ContainsValue(value V, eq func(a, b V) bool) bool {
	found := false
	h.walk(func(e *Element[K, V]) bool {
		if eq(e.value, value) {
			found = true
			return false
		}
		return true
	})
	return found
}

// join merges two detached trees in O(1): the root with the larger key
// becomes the new leftmost child of the other, pushed in front of any
// children the winner already had. On equal keys `b` loses.
func (h *Heap[K, V]) join(a, b *Element[K, V]) *Element[K, V] {
	if b == nil {
		return a
	}
	if a == nil {
		return b
	}
	if h.less(b.key, a.key) {
		a, b = b, a
	}
	b.prev = a
	b.next = a.child
	if a.child != nil {
		a.child.prev = b
	}
	a.child = b
	a.next = nil
	a.prev = nil
	return a
}

// combine merges a list of parentless sibling trees (given by the leftmost
// one) into a single tree with the two-pass strategy: adjacent pairs are
// joined left to right, then the resulting trees are folded into one from
// the rightmost back to the leftmost. The pass order matters - it is what
// gives deletion its amortized O(log n) bound, a plain left-to-right fold
// degrades to amortized O(n).
func (h *Heap[K, V]) combine(first *Element[K, V]) *Element[K, V] {
	if first == nil {
		return nil
	}
	if first.next == nil {
		first.prev = nil
		return first
	}

	var pairs []*Element[K, V]
	cur := first
	for cur != nil {
		a := cur
		b := a.next
		if b == nil {
			// Odd tree out, carried into the second pass as is.
			a.next, a.prev = nil, nil
			pairs = append(pairs, a)
			break
		}
		cur = b.next
		a.next, a.prev = nil, nil
		b.next, b.prev = nil, nil
		pairs = append(pairs, h.join(a, b))
	}

	merged := pairs[len(pairs)-1]
	for i := len(pairs) - 2; i >= 0; i-- {
		merged = h.join(pairs[i], merged)
	}
	return merged
}

// unlink detaches e from its parent and siblings, leaving e's own subtree
// hanging off of it. e must not be the root.
func (h *Heap[K, V]) unlink(e *Element[K, V]) {
	if e.prev.child == e {
		e.prev.child = e.next
	} else {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	e.next, e.prev = nil, nil
}

// replaceWithChildren takes e (not the root) out of the tree, combines its
// orphaned children into one tree and splices that tree into e's former
// position. Returns the spliced tree, or nil if e had no children.
// This is the one place that heals the hole left by a removal - ChangeKey,
// Delete and the iterators all go through it.
func (h *Heap[K, V]) replaceWithChildren(e *Element[K, V]) *Element[K, V] {
	prev, next := e.prev, e.next
	var sub *Element[K, V]
	if e.child != nil {
		sub = h.combine(e.child)
		e.child = nil
	}
	repl := sub
	if repl == nil {
		repl = next
	}
	if prev.child == e {
		prev.child = repl
	} else {
		prev.next = repl
	}
	if sub != nil {
		sub.prev = prev
		sub.next = next
		if next != nil {
			next.prev = sub
		}
	} else if next != nil {
		next.prev = prev
	}
	e.next, e.prev = nil, nil
	return sub
}

// removeElement takes e out of the heap, healing the hole with the two-pass
// combination of e's children. Returns the tree that took e's place (nil if
// e was a leaf off the root path with no children).
func (h *Heap[K, V]) removeElement(e *Element[K, V]) *Element[K, V] {
	var sub *Element[K, V]
	if e == h.root {
		sub = h.combine(e.child)
		e.child = nil
		h.root = sub
	} else {
		sub = h.replaceWithChildren(e)
	}
	h.size--
	h.mods++
	return sub
}

// walk visits every element in depth-first order and stops early when
// `visit` returns false. It keeps an explicit stack of unexplored sibling
// branches instead of recursing, so a degenerate (deep) heap cannot
// overflow the call stack.
func (h *Heap[K, V]) walk(visit func(*Element[K, V]) bool) {
	if h.root == nil {
		return
	}
	stack := []*Element[K, V]{h.root}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for ; e != nil; e = e.next {
			if !visit(e) {
				return
			}
			if e.child != nil {
				stack = append(stack, e.child)
			}
		}
	}
}
