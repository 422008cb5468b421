package pairheap

import (
	"errors"
	"fmt"
	"io"
)

// Direction markers of the persisted depth-first layout.
const (
	markChild   byte = 0 // descend to the first child
	markSibling byte = 1 // move to the right sibling
	markAscend  byte = 2 // go back up to the parent
)

// Encode writes the heap's tree to `w` as an interleaved stream of
// key/value pairs and one-byte direction markers: the root's pair comes
// first, then every marker 0 ("descend to child") or 1 ("move to right
// sibling") is followed by the pair of the element stepped to, and marker 2
// ascends without a pair. The stream ends when the traversal has ascended
// back to the root. An empty heap writes nothing.
//
// The layout is bit-exact, so heaps written by one build can be read back
// by any other as long as `writePair` and the matching `readPair` agree.
// Pair framing is the caller's: `writePair` must serialize one key and one
// payload in a way its counterpart in [Decode] can read back.
func (h *Heap[K, V]) Encode(w io.Writer, writePair func(w io.Writer, key K, value V) error) error {
	if h.root == nil {
		return nil
	}
	cur := h.root
	if err := writePair(w, cur.key, cur.value); err != nil {
		return fmt.Errorf("pairheap: couldn't write pair: %w", err)
	}

	mark := func(m byte) error {
		if _, err := w.Write([]byte{m}); err != nil {
			return fmt.Errorf("pairheap: couldn't write direction marker: %w", err)
		}
		return nil
	}

	descending := true
	for {
		if descending && cur.child != nil {
			cur = cur.child
			if err := mark(markChild); err != nil {
				return err
			}
			if err := writePair(w, cur.key, cur.value); err != nil {
				return fmt.Errorf("pairheap: couldn't write pair: %w", err)
			}
			continue
		}
		descending = false
		if cur == h.root {
			return nil
		}
		if cur.next != nil {
			cur = cur.next
			descending = true
			if err := mark(markSibling); err != nil {
				return err
			}
			if err := writePair(w, cur.key, cur.value); err != nil {
				return fmt.Errorf("pairheap: couldn't write pair: %w", err)
			}
			continue
		}
		cur = cur.parent()
		if err := mark(markAscend); err != nil {
			return err
		}
	}
}

// Decode reads a heap written by [Heap.Encode] back from `r`. The new heap
// is ordered by `less` (see [NewFunc]); `readPair` must undo the framing of
// the `writePair` the stream was written with. An empty stream decodes to
// an empty heap.
//
// The stream is trusted to describe a tree that actually satisfies the
// heap order - Decode rebuilds the shape, it does not re-verify it.
func Decode[K, V any](r io.Reader, less func(a, b K) bool, readPair func(r io.Reader) (K, V, error)) (*Heap[K, V], error) {
	h := NewFunc[K, V](less)
	key, value, err := readPair(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return h, nil
		}
		return nil, fmt.Errorf("pairheap: couldn't read pair: %w", err)
	}
	h.root = &Element[K, V]{key: key, value: value}
	h.size = 1

	cur := h.root
	var mark [1]byte
	for {
		if _, err := io.ReadFull(r, mark[:]); err != nil {
			if errors.Is(err, io.EOF) && cur == h.root {
				return h, nil
			}
			return nil, fmt.Errorf("pairheap: truncated layout: %w", err)
		}
		switch mark[0] {
		case markChild, markSibling:
			key, value, err := readPair(r)
			if err != nil {
				return nil, fmt.Errorf("pairheap: couldn't read pair: %w", err)
			}
			e := &Element[K, V]{key: key, value: value, prev: cur}
			if mark[0] == markChild {
				cur.child = e
			} else {
				if cur == h.root {
					return nil, errors.New("pairheap: bad layout: sibling of the root")
				}
				cur.next = e
			}
			cur = e
			h.size++
		case markAscend:
			if cur == h.root {
				return nil, errors.New("pairheap: bad layout: ascended past the root")
			}
			cur = cur.parent()
		default:
			return nil, fmt.Errorf("pairheap: bad direction marker %d", mark[0])
		}
	}
}
