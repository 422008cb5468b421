package pairheap_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/rand"
	"sort"
	"testing"

	"github.com/lambdcalculus/pairq/pkg/pairheap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A minimal pair codec for the tests: key as a little-endian int64, value
// as a single byte.
func writePair(w io.Writer, key int64, value byte) error {
	if err := binary.Write(w, binary.LittleEndian, key); err != nil {
		return err
	}
	_, err := w.Write([]byte{value})
	return err
}

func readPair(r io.Reader) (int64, byte, error) {
	var key int64
	if err := binary.Read(r, binary.LittleEndian, &key); err != nil {
		return 0, 0, err
	}
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, 0, err
	}
	return key, b[0], nil
}

func lessInt64(a, b int64) bool { return a < b }

func TestCodecRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	h := pairheap.New[int64, byte]()
	want := make([]int64, 500)
	for i := range want {
		want[i] = int64(rng.Intn(10000))
		h.Insert(want[i], byte(i))
	}
	// Restructure a little so the tree isn't insertion-shaped.
	for i := 0; i < 50; i++ {
		_, err := h.DeleteMin()
		require.NoError(t, err)
	}
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
	want = want[50:]

	var buf bytes.Buffer
	require.NoError(t, h.Encode(&buf, writePair))

	decoded, err := pairheap.Decode(&buf, lessInt64, readPair)
	require.NoError(t, err)
	require.Equal(t, len(want), decoded.Len())
	assert.Equal(t, want, drain(t, decoded))
}

func TestCodecExactLayout(t *testing.T) {
	// Inserting 2 then 1 makes 1 the root with 2 as its only child. The
	// layout is then: pair(1), descend marker, pair(2), ascend marker.
	h := pairheap.New[int64, byte]()
	h.Insert(2, 'b')
	h.Insert(1, 'a')

	var buf bytes.Buffer
	require.NoError(t, h.Encode(&buf, writePair))

	want := []byte{
		1, 0, 0, 0, 0, 0, 0, 0, 'a',
		0, // descend to child
		2, 0, 0, 0, 0, 0, 0, 0, 'b',
		2, // ascend back to the root
	}
	assert.Equal(t, want, buf.Bytes())
}

func TestCodecEmptyHeap(t *testing.T) {
	h := pairheap.New[int64, byte]()

	var buf bytes.Buffer
	require.NoError(t, h.Encode(&buf, writePair))
	assert.Zero(t, buf.Len())

	decoded, err := pairheap.Decode(&buf, lessInt64, readPair)
	require.NoError(t, err)
	assert.True(t, decoded.IsEmpty())
}

func TestCodecSingleElement(t *testing.T) {
	h := pairheap.New[int64, byte]()
	h.Insert(7, 'x')

	var buf bytes.Buffer
	require.NoError(t, h.Encode(&buf, writePair))
	// A lone root is just its pair, no markers.
	assert.Equal(t, 9, buf.Len())

	decoded, err := pairheap.Decode(&buf, lessInt64, readPair)
	require.NoError(t, err)
	require.Equal(t, 1, decoded.Len())
	min, ok := decoded.Min()
	require.True(t, ok)
	assert.Equal(t, int64(7), min.Key())
	assert.Equal(t, byte('x'), min.Value())
}

func TestCodecBadInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"truncated pair", []byte{1, 0, 0}},
		{"truncated after marker", []byte{1, 0, 0, 0, 0, 0, 0, 0, 'a', 0}},
		{"bad marker", []byte{1, 0, 0, 0, 0, 0, 0, 0, 'a', 9}},
		{"ascend past root", []byte{1, 0, 0, 0, 0, 0, 0, 0, 'a', 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pairheap.Decode(bytes.NewReader(tt.data), lessInt64, readPair)
			assert.Error(t, err)
		})
	}
}
