package alloc

import (
	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

// Alloc returns a pointer to a payload of at least size bytes and the payload
// itself. The payload slice is clipped to the block, so appending to it
// reallocates instead of overwriting the next header.
//
// Returns ErrInvalidSize when size <= 0 and ErrNoSpace when no free block is
// large enough; in both cases the heap is unchanged.
func (a *Allocator) Alloc(size int) (Ptr, []byte, error) {
	a.stats.AllocCalls++
	if a.h.Closed() {
		a.stats.AllocFailures++
		return Nil, nil, heap.ErrClosed
	}
	if size <= 0 {
		a.stats.AllocFailures++
		return Nil, nil, ErrInvalidSize
	}
	// Nothing larger than the whole region can fit, and the bound keeps the
	// footprint arithmetic from overflowing.
	if size > len(a.data) {
		a.stats.AllocFailures++
		a.log.Debug("alloc: request exceeds heap", "size", size, "capacity", a.Capacity())
		return Nil, nil, ErrNoSpace
	}
	need := format.Footprint(size)

	off, blockSize := a.bestFit(need)
	if off < 0 {
		a.stats.AllocFailures++
		a.log.Debug("alloc: no fit", "size", size, "need", need)
		return Nil, nil, ErrNoSpace
	}

	hdr := a.header(off)
	granted := blockSize
	if rem := blockSize - need; rem >= format.MinBlockSize {
		// Split: head is granted, tail stays free. The tail's predecessor is
		// the new allocation, and the block after the tail already records a
		// free predecessor.
		a.stats.SplitCount++
		tail := off + need
		a.setHeader(tail, format.MakeHeader(rem, false, true))
		a.setFooter(tail, rem)
		granted = need
		a.log.Debug("alloc: split", "off", off, "block", blockSize, "need", need, "tail", rem)
	} else {
		a.setPrevBusy(off+blockSize, true)
	}

	a.setHeader(off, format.MakeHeader(granted, true, hdr.PrevBusy()))
	a.stats.BytesAllocated += int64(granted)

	return Ptr(off + format.HeaderSize), a.payload(off, granted), nil
}

// bestFit walks every block and returns the offset and size of the smallest
// free block of at least need bytes, or -1 when none fits. Only a strictly
// smaller candidate replaces the current best, so ties go to the lowest
// address.
func (a *Allocator) bestFit(need int) (int, int) {
	best, bestSize := -1, 0
	for off := format.HeapStart; off < a.end; {
		hdr := a.header(off)
		size := hdr.Size()
		if size == 0 {
			// A zero size before the end marker means a corrupt layout;
			// stopping here keeps the scan finite.
			break
		}
		if !hdr.Busy() && size >= need && (best < 0 || size < bestSize) {
			best, bestSize = off, size
		}
		off += size
	}
	return best, bestSize
}
