package alloc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

// ============================================================================
// Test Helpers
// ============================================================================

// layoutBlock describes one block for newAllocatorWithLayout.
type layoutBlock struct {
	size int
	busy bool
}

func free(size int) layoutBlock { return layoutBlock{size: size} }
func busy(size int) layoutBlock { return layoutBlock{size: size, busy: true} }

// newTestAllocator returns an allocator over a freshly formatted Go-backed
// heap of size bytes.
func newTestAllocator(t testing.TB, size int, opts *Options) *Allocator {
	t.Helper()
	h, err := heap.New(size, &heap.Options{Backing: heap.BackingGo})
	require.NoError(t, err)
	a, err := New(h, opts)
	require.NoError(t, err)
	return a
}

// newAllocatorWithLayout writes blocks back to back starting at HeapStart,
// followed by the end marker, and loads an allocator over the result. Flags
// and footers are derived from the busy states. Returns the allocator and
// the header offset of each block.
func newAllocatorWithLayout(t testing.TB, blocks []layoutBlock, opts *Options) (*Allocator, []int) {
	t.Helper()
	total := 0
	for _, b := range blocks {
		require.True(t, format.ValidBlockSize(b.size), "invalid layout size %d", b.size)
		total += b.size
	}
	region := make([]byte, format.HeapStart+total+format.EndMarkerSize)
	offsets := writeLayout(region, blocks)

	h, err := heap.FromBytes(region)
	require.NoError(t, err)
	a, err := Load(h, opts)
	require.NoError(t, err)
	return a, offsets
}

// writeLayout encodes blocks into region without validation.
func writeLayout(region []byte, blocks []layoutBlock) []int {
	offsets := make([]int, len(blocks))
	off := format.HeapStart
	prevBusy := true
	for i, b := range blocks {
		offsets[i] = off
		format.PutHeader(region, off, format.MakeHeader(b.size, b.busy, prevBusy))
		if !b.busy {
			format.PutFooter(region, off, b.size)
		}
		prevBusy = b.busy
		off += b.size
	}
	format.PutHeader(region, off, format.EndMarker(prevBusy))
	return offsets
}

// assertInvariants fails the test when any layout invariant is broken.
func assertInvariants(t testing.TB, a *Allocator) {
	t.Helper()
	require.NoError(t, a.Check())
}

// snapshot returns the block map or fails the test.
func snapshot(t testing.TB, a *Allocator) []Block {
	t.Helper()
	blocks, err := a.Snapshot()
	require.NoError(t, err)
	return blocks
}

// cloneRegion copies the raw heap bytes for before/after comparisons.
func cloneRegion(a *Allocator) []byte {
	return bytes.Clone(a.Heap().Bytes())
}

// requireUnchanged asserts the raw heap bytes equal before.
func requireUnchanged(t testing.TB, a *Allocator, before []byte, msgAndArgs ...any) {
	t.Helper()
	require.True(t, bytes.Equal(before, a.Heap().Bytes()), msgAndArgs...)
}

// blockAt returns the block whose header is at off.
func blockAt(t testing.TB, a *Allocator, off int) Block {
	t.Helper()
	for _, b := range snapshot(t, a) {
		if b.Offset == off {
			return b
		}
	}
	t.Fatalf("no block at 0x%x", off)
	return Block{}
}

// requireSingleFreeBlock asserts the heap is back to one free block spanning
// the whole capacity.
func requireSingleFreeBlock(t testing.TB, a *Allocator) {
	t.Helper()
	blocks := snapshot(t, a)
	require.Len(t, blocks, 1, "expected a single block, got %+v", blocks)
	require.False(t, blocks[0].Busy)
	require.True(t, blocks[0].PrevBusy)
	require.Equal(t, format.HeapStart, blocks[0].Offset)
	require.Equal(t, a.Capacity(), blocks[0].Size)
	assertInvariants(t, a)
}

// headerOf returns the header offset for a payload pointer.
func headerOf(p Ptr) int { return int(p) - format.HeaderSize }
