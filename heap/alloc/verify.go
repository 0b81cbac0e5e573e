package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

// Check walks the heap and verifies the layout invariants:
//
//   - every block size is a multiple of 16 and at least 16
//   - blocks tile the area between the first header and the end marker
//   - every free block's footer matches its header
//   - PREV_BUSY matches the predecessor's BUSY flag (true for the first block)
//   - no two free blocks are adjacent
//   - the end marker is present, busy, and tracks the last block
//
// The first violation is returned wrapped in ErrCorrupt.
func (a *Allocator) Check() error {
	if a.h.Closed() {
		return heap.ErrClosed
	}

	off := format.HeapStart
	prevBusy := true
	total := 0
	for off < a.end {
		hdr := a.header(off)
		size := hdr.Size()
		if !format.ValidBlockSize(size) {
			return corruptf(off, "invalid size %d", size)
		}
		if size > a.end-off {
			return corruptf(off, "size %d runs past end marker at 0x%x", size, a.end)
		}
		if hdr.PrevBusy() != prevBusy {
			return corruptf(off, "PREV_BUSY=%t but predecessor busy=%t", hdr.PrevBusy(), prevBusy)
		}
		if !hdr.Busy() {
			if !prevBusy {
				return corruptf(off, "adjacent free blocks")
			}
			if footer := format.ReadFooter(a.data, off, size); footer != size {
				return corruptf(off, "footer %d does not match size %d", footer, size)
			}
		}
		prevBusy = hdr.Busy()
		total += size
		off += size
	}

	marker := a.header(a.end)
	if !marker.IsEndMarker() || !marker.Busy() {
		return corruptf(a.end, "end marker missing (found %v)", marker)
	}
	if marker.PrevBusy() != prevBusy {
		return corruptf(a.end, "end marker PREV_BUSY=%t but last block busy=%t", marker.PrevBusy(), prevBusy)
	}
	if total != a.Capacity() {
		return corruptf(a.end, "blocks cover %d bytes, capacity is %d", total, a.Capacity())
	}
	return nil
}

func corruptf(off int, msg string, args ...any) error {
	return fmt.Errorf("%w: block at 0x%x: %s", ErrCorrupt, off, fmt.Sprintf(msg, args...))
}
