package pairheap

import "sort"

// An Iterator walks a heap's elements in depth-first (unordered) fashion.
//
// Iterators are fail-fast: they remember the heap's modification count and
// refuse to continue with [ErrModified] once the heap has been structurally
// changed by anything other than their own [Iterator.Remove]. This is a
// best-effort safety net against forgotten mutations, not a correctness
// guarantee under actual concurrent use.
type Iterator[K, V any] struct {
	h *Heap[K, V]

	// Each entry is the leftmost of an unexplored branch: the entry itself,
	// its right siblings and all their descendants are still unvisited.
	stack []*Element[K, V]
	last  *Element[K, V]
	mods  uint64
}

// Iterator returns a new depth-first iterator over the heap. The order of
// the elements follows the current shape of the tree and has no meaning to
// callers. A step is amortized O(1), worst case O(n).
func (h *Heap[K, V]) Iterator() *Iterator[K, V] {
	it := &Iterator[K, V]{h: h, mods: h.mods}
	if h.root != nil {
		it.stack = append(it.stack, h.root)
	}
	return it
}

// HasNext reports whether another element remains.
func (it *Iterator[K, V]) HasNext() bool {
	return len(it.stack) > 0
}

// Next returns the next element. It returns [ErrModified] if the heap was
// changed since the last call, and [ErrNoElement] when the iteration is
// exhausted.
func (it *Iterator[K, V]) Next() (*Element[K, V], error) {
	if it.mods != it.h.mods {
		return nil, ErrModified
	}
	if len(it.stack) == 0 {
		return nil, ErrNoElement
	}
	e := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	if e.next != nil {
		it.stack = append(it.stack, e.next)
	}
	if e.child != nil {
		it.stack = append(it.stack, e.child)
	}
	it.last = e
	return e, nil
}

// Remove deletes the element last returned by [Iterator.Next] from the heap
// and keeps the iteration valid: the removed element's children are
// combined into one tree and will still be visited, in their new order.
// Returns [ErrModified] if the heap changed in between, and [ErrNoElement]
// if there is no element to remove.
func (it *Iterator[K, V]) Remove() error {
	if it.mods != it.h.mods {
		return ErrModified
	}
	if it.last == nil {
		return ErrNoElement
	}
	e := it.last

	// Next pushed e's child and sibling branches on top of the stack. Drop
	// them before the removal restructures them, then push whatever tree
	// takes e's place - it covers exactly the same elements.
	if e.child != nil {
		it.stack = it.stack[:len(it.stack)-1]
	}
	if e.next != nil {
		it.stack = it.stack[:len(it.stack)-1]
	}
	next := e.next
	sub := it.h.removeElement(e)
	switch {
	case sub != nil:
		it.stack = append(it.stack, sub)
	case next != nil:
		it.stack = append(it.stack, next)
	}
	it.last = nil
	it.mods = it.h.mods
	return nil
}

// A SortedIterator walks a heap's elements in ascending key order.
// Like [Iterator], it is fail-fast.
type SortedIterator[K, V any] struct {
	h    *Heap[K, V]
	els  []*Element[K, V]
	pos  int
	last *Element[K, V]
	mods uint64
}

// SortedIterator returns an iterator over the heap in ascending key order.
// Building it collects and sorts every element, which costs O(n log n);
// each following [SortedIterator.Next] is O(1).
func (h *Heap[K, V]) SortedIterator() *SortedIterator[K, V] {
	els := h.Elements()
	sort.Slice(els, func(i, j int) bool {
		return h.less(els[i].key, els[j].key)
	})
	return &SortedIterator[K, V]{h: h, els: els, mods: h.mods}
}

// HasNext reports whether another element remains.
func (it *SortedIterator[K, V]) HasNext() bool {
	return it.pos < len(it.els)
}

// Next returns the element with the next-smallest key. It returns
// [ErrModified] if the heap was changed since the last call, and
// [ErrNoElement] when the iteration is exhausted.
func (it *SortedIterator[K, V]) Next() (*Element[K, V], error) {
	if it.mods != it.h.mods {
		return nil, ErrModified
	}
	if it.pos >= len(it.els) {
		return nil, ErrNoElement
	}
	e := it.els[it.pos]
	it.pos++
	it.last = e
	return e, nil
}

// Remove deletes the element last returned by [SortedIterator.Next] from
// the heap. The cost is that of [Heap.Delete], amortized O(log n).
func (it *SortedIterator[K, V]) Remove() error {
	if it.mods != it.h.mods {
		return ErrModified
	}
	if it.last == nil {
		return ErrNoElement
	}
	it.h.Delete(it.last)
	it.last = nil
	it.mods = it.h.mods
	return nil
}
