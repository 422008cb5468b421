package pairheap

// An Entry is a key/value snapshot of one element.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// The view methods below are all snapshots built from one depth-first
// traversal. None of them are backed by the heap: mutating the heap after
// taking a view does not update the view, and mutating a view does nothing
// to the heap. Keeping live views consistent under heap restructuring
// isn't worth the bookkeeping.

// Entries returns a snapshot of all key/value pairs, in no particular
// order.
func (h *Heap[K, V]) Entries() []Entry[K, V] {
	entries := make([]Entry[K, V], 0, h.size)
	h.walk(func(e *Element[K, V]) bool {
		entries = append(entries, Entry[K, V]{Key: e.key, Value: e.value})
		return true
	})
	return entries
}

// Keys returns a snapshot of all keys, in no particular order.
func (h *Heap[K, V]) Keys() []K {
	keys := make([]K, 0, h.size)
	h.walk(func(e *Element[K, V]) bool {
		keys = append(keys, e.key)
		return true
	})
	return keys
}

// Values returns a snapshot of all payloads, in no particular order.
func (h *Heap[K, V]) Values() []V {
	values := make([]V, 0, h.size)
	h.walk(func(e *Element[K, V]) bool {
		values = append(values, e.value)
		return true
	})
	return values
}

// Elements returns a snapshot of all element handles, in no particular
// order. The handles themselves stay live: they can still be passed to
// [Heap.DecreaseKey] and friends.
func (h *Heap[K, V]) Elements() []*Element[K, V] {
	els := make([]*Element[K, V], 0, h.size)
	h.walk(func(e *Element[K, V]) bool {
		els = append(els, e)
		return true
	})
	return els
}
