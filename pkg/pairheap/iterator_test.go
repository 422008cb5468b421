package pairheap_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/lambdcalculus/pairq/pkg/pairheap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIteratorVisitsEverything(t *testing.T) {
	h := pairheap.New[int, struct{}]()
	want := map[int]int{}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		k := rng.Intn(50)
		h.Insert(k, struct{}{})
		want[k]++
	}

	got := map[int]int{}
	it := h.Iterator()
	for it.HasNext() {
		e, err := it.Next()
		require.NoError(t, err)
		got[e.Key()]++
	}
	assert.Equal(t, want, got)

	// Walking off the end is an error, not a panic.
	_, err := it.Next()
	assert.ErrorIs(t, err, pairheap.ErrNoElement)
}

func TestIteratorFailFast(t *testing.T) {
	mutations := []struct {
		name   string
		mutate func(h *pairheap.Heap[int, struct{}], e *pairheap.Element[int, struct{}])
	}{
		{"insert", func(h *pairheap.Heap[int, struct{}], _ *pairheap.Element[int, struct{}]) {
			h.Insert(99, struct{}{})
		}},
		{"deleteMin", func(h *pairheap.Heap[int, struct{}], _ *pairheap.Element[int, struct{}]) {
			_, _ = h.DeleteMin()
		}},
		{"decreaseKey", func(h *pairheap.Heap[int, struct{}], e *pairheap.Element[int, struct{}]) {
			_, _ = h.DecreaseKey(e, e.Key()-1)
		}},
		{"clear", func(h *pairheap.Heap[int, struct{}], _ *pairheap.Element[int, struct{}]) {
			h.Clear()
		}},
		{"merge", func(h *pairheap.Heap[int, struct{}], _ *pairheap.Element[int, struct{}]) {
			other := pairheap.New[int, struct{}]()
			other.Insert(1, struct{}{})
			_ = h.Merge(other)
		}},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			h := pairheap.New[int, struct{}]()
			var e *pairheap.Element[int, struct{}]
			for _, k := range []int{5, 3, 8, 1} {
				e = h.Insert(k, struct{}{})
			}

			it := h.Iterator()
			_, err := it.Next()
			require.NoError(t, err)

			tt.mutate(h, e)

			_, err = it.Next()
			assert.ErrorIs(t, err, pairheap.ErrModified)
			// Remove must refuse too.
			assert.ErrorIs(t, it.Remove(), pairheap.ErrModified)
		})
	}
}

func TestIteratorRemove(t *testing.T) {
	h := pairheap.New[int, struct{}]()
	for _, k := range []int{6, 4, 10, 1, 5, 7} {
		h.Insert(k, struct{}{})
	}

	// Remove the odd keys mid-iteration.
	it := h.Iterator()
	for it.HasNext() {
		e, err := it.Next()
		require.NoError(t, err)
		if e.Key()%2 == 1 {
			require.NoError(t, it.Remove())
		}
	}

	assert.Equal(t, []int{4, 6, 10}, drain(t, h))
}

func TestIteratorRemoveWithoutNext(t *testing.T) {
	h := pairheap.New[int, struct{}]()
	h.Insert(1, struct{}{})

	it := h.Iterator()
	assert.ErrorIs(t, it.Remove(), pairheap.ErrNoElement)

	_, err := it.Next()
	require.NoError(t, err)
	require.NoError(t, it.Remove())
	// The element was already handed back: a second Remove is an error.
	assert.ErrorIs(t, it.Remove(), pairheap.ErrNoElement)
}

func TestSortedIterator(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	h := pairheap.New[int, struct{}]()
	want := make([]int, 100)
	for i := range want {
		want[i] = rng.Intn(1000)
		h.Insert(want[i], struct{}{})
	}
	sort.Ints(want)

	var got []int
	it := h.SortedIterator()
	for it.HasNext() {
		e, err := it.Next()
		require.NoError(t, err)
		got = append(got, e.Key())
	}
	assert.Equal(t, want, got)

	// Sorting is a snapshot: the heap itself is untouched.
	assert.Equal(t, len(want), h.Len())
}

func TestSortedIteratorRemove(t *testing.T) {
	h := pairheap.New[int, string]()
	for _, k := range []int{3, 1, 4, 1, 5} {
		h.Insert(k, "")
	}

	// Drop everything below 4 in sorted order.
	it := h.SortedIterator()
	for it.HasNext() {
		e, err := it.Next()
		require.NoError(t, err)
		if e.Key() < 4 {
			require.NoError(t, it.Remove())
		}
	}

	assert.Equal(t, []int{4, 5}, drain(t, h))
}

func TestSortedIteratorFailFast(t *testing.T) {
	h := pairheap.New[int, struct{}]()
	h.Insert(2, struct{}{})
	h.Insert(1, struct{}{})

	it := h.SortedIterator()
	h.Insert(0, struct{}{})

	_, err := it.Next()
	assert.ErrorIs(t, err, pairheap.ErrModified)
}

func TestSnapshotViews(t *testing.T) {
	h := pairheap.New[int, string]()
	h.Insert(2, "two")
	h.Insert(1, "one")
	h.Insert(3, "three")

	entries := h.Entries()
	keys := h.Keys()
	values := h.Values()
	els := h.Elements()

	assert.ElementsMatch(t, []pairheap.Entry[int, string]{
		{Key: 1, Value: "one"},
		{Key: 2, Value: "two"},
		{Key: 3, Value: "three"},
	}, entries)
	assert.ElementsMatch(t, []int{1, 2, 3}, keys)
	assert.ElementsMatch(t, []string{"one", "two", "three"}, values)
	require.Len(t, els, 3)

	// Views are snapshots, not live: mutating the heap afterwards must not
	// change what was captured.
	_, err := h.DeleteMin()
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Len(t, keys, 3)

	// Element handles from the snapshot stay usable against the heap.
	for _, e := range els {
		if e.Key() == 3 {
			_, err := h.DecreaseKey(e, 0)
			require.NoError(t, err)
		}
	}
	min, ok := h.Min()
	require.True(t, ok)
	assert.Equal(t, 0, min.Key())
}
