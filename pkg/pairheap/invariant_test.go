package pairheap

import (
	"math/rand"
	"testing"
)

// checkHeap walks the whole tree and verifies the structural invariants:
// the root is detached, every link is mutually consistent, every parent's
// key is <= its children's keys, and the element count matches Len.
func checkHeap[K, V any](t *testing.T, h *Heap[K, V]) {
	t.Helper()
	if h.root == nil {
		if h.size != 0 {
			t.Fatalf("empty root but size = %d", h.size)
		}
		return
	}
	if h.root.prev != nil || h.root.next != nil {
		t.Fatalf("root has siblings or a parent attached")
	}

	count := 0
	var walk func(e, parent *Element[K, V])
	walk = func(e, parent *Element[K, V]) {
		for ; e != nil; e = e.next {
			count++
			if parent != nil && h.less(e.key, parent.key) {
				t.Fatalf("heap order violated: child key %v < parent key %v", e.key, parent.key)
			}
			if e.next != nil && e.next.prev != e {
				t.Fatalf("broken sibling link at key %v", e.key)
			}
			if e.child != nil {
				if e.child.prev != e {
					t.Fatalf("child of key %v does not point back to it", e.key)
				}
				walk(e.child, e)
			}
		}
	}
	walk(h.root, nil)

	if count != h.size {
		t.Fatalf("traversal found %d elements, Len() = %d", count, h.size)
	}
}

// Runs a long random mix of mutating operations, checking the full set of
// invariants after every single one.
func TestInvariantsUnderRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(0x5eed))
	h := New[int, int]()
	var handles []*Element[int, int]

	for i := 0; i < 2000; i++ {
		switch op := rng.Intn(10); {
		case op < 4: // insert
			e := h.Insert(rng.Intn(500), i)
			handles = append(handles, e)
		case op < 6: // deleteMin
			if e, err := h.DeleteMin(); err == nil {
				handles = remove(handles, e)
			}
		case op < 8: // decreaseKey
			if len(handles) > 0 {
				e := handles[rng.Intn(len(handles))]
				if _, err := h.DecreaseKey(e, e.Key()-rng.Intn(50)); err != nil {
					t.Fatalf("DecreaseKey with smaller key failed: %v", err)
				}
			}
		case op < 9: // changeKey, both directions
			if len(handles) > 0 {
				e := handles[rng.Intn(len(handles))]
				h.ChangeKey(e, e.Key()+rng.Intn(100)-50)
			}
		default: // delete
			if len(handles) > 0 {
				i := rng.Intn(len(handles))
				e := handles[i]
				h.Delete(e)
				handles = remove(handles, e)
			}
		}
		checkHeap(t, h)
		if h.Len() != len(handles) {
			t.Fatalf("Len() = %d, but %d live handles", h.Len(), len(handles))
		}
	}
}

// Min must always match a linear scan over the live handles.
func TestMinMatchesScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	h := New[int, struct{}]()
	var keys []int

	for i := 0; i < 500; i++ {
		if rng.Intn(3) == 0 && len(keys) > 0 {
			e, err := h.DeleteMin()
			if err != nil {
				t.Fatalf("DeleteMin failed: %v", err)
			}
			keys = removeKey(keys, e.Key())
		} else {
			k := rng.Intn(1000)
			h.Insert(k, struct{}{})
			keys = append(keys, k)
		}

		min, ok := h.Min()
		if !ok {
			if len(keys) != 0 {
				t.Fatalf("Min reported empty with %d keys live", len(keys))
			}
			continue
		}
		want := keys[0]
		for _, k := range keys {
			if k < want {
				want = k
			}
		}
		if min.Key() != want {
			t.Fatalf("Min() = %d, want %d", min.Key(), want)
		}
	}
}

// The iterator's Remove has to keep both the pending traversal and the
// tree itself consistent.
func TestIteratorRemoveKeepsInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	h := New[int, int]()
	for i := 0; i < 300; i++ {
		h.Insert(rng.Intn(100), i)
	}

	it := h.Iterator()
	seen := make(map[*Element[int, int]]bool)
	for it.HasNext() {
		e, err := it.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if seen[e] {
			t.Fatalf("element with key %d visited twice", e.Key())
		}
		seen[e] = true
		if rng.Intn(3) == 0 {
			if err := it.Remove(); err != nil {
				t.Fatalf("Remove failed: %v", err)
			}
			checkHeap(t, h)
		}
	}
	if len(seen) != 300 {
		t.Fatalf("visited %d elements, want 300", len(seen))
	}
}

func remove[K, V any](els []*Element[K, V], e *Element[K, V]) []*Element[K, V] {
	for i, el := range els {
		if el == e {
			return append(els[:i], els[i+1:]...)
		}
	}
	return els
}

func removeKey(keys []int, k int) []int {
	for i, key := range keys {
		if key == k {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}
