package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

// Free releases the block whose payload starts at p and merges it with any
// free neighbor. Free(Nil) is a no-op.
//
// p must have been returned by Alloc and not yet released. Depending on the
// Validation level a violation is reported as ErrBadPtr; a second release of
// the same pointer returns ErrNotBusy. Neither error modifies the heap.
func (a *Allocator) Free(p Ptr) error {
	if p == Nil {
		return nil
	}
	a.stats.FreeCalls++
	if a.h.Closed() {
		a.stats.FreeRejected++
		return heap.ErrClosed
	}

	off := int(p) - format.HeaderSize
	if err := a.validate(p, off); err != nil {
		a.stats.FreeRejected++
		a.log.Debug("free: rejected pointer", "ptr", p, "err", err)
		return err
	}

	hdr := a.header(off)
	if !hdr.Busy() {
		a.stats.FreeRejected++
		a.log.Debug("free: block already free", "ptr", p)
		return ErrNotBusy
	}
	size := hdr.Size()
	hdr = hdr.WithBusy(false)
	a.setHeader(off, hdr)
	a.stats.BytesFreed += int64(size)

	start, total := off, size
	prevBusy := hdr.PrevBusy()

	if prev, prevSize, ok := a.freePredecessor(off, hdr); ok {
		a.stats.CoalescePrev++
		start = prev
		total += prevSize
		prevBusy = a.header(prev).PrevBusy()
	}

	next := off + size
	if nh := a.header(next); !nh.IsEndMarker() && !nh.Busy() {
		a.stats.CoalesceNext++
		total += nh.Size()
	}

	// One header and one footer describe the merged block whatever the case:
	// previous+current+next, previous+current, current+next, or current alone.
	a.setHeader(start, format.MakeHeader(total, false, prevBusy))
	a.setFooter(start, total)
	a.setPrevBusy(start+total, false)

	if start != off || total != size {
		a.log.Debug("free: coalesced", "ptr", p, "start", start, "size", total)
	}
	return nil
}

// freePredecessor locates the block before off when it is free. The footer
// just before off is only trusted when PREV_BUSY is clear, a previous block
// exists, the recorded size is a valid block size, and the header it leads
// to agrees.
func (a *Allocator) freePredecessor(off int, hdr format.Header) (int, int, bool) {
	if hdr.PrevBusy() || off <= format.HeapStart {
		return 0, 0, false
	}
	prevSize := format.PrevFooter(a.data, off)
	if !format.ValidBlockSize(prevSize) || off-prevSize < format.HeapStart {
		return 0, 0, false
	}
	prev := off - prevSize
	ph := a.header(prev)
	if ph.Busy() || ph.Size() != prevSize {
		return 0, 0, false
	}
	return prev, prevSize, true
}

// validate applies the configured pointer checks.
func (a *Allocator) validate(p Ptr, off int) error {
	switch a.validation {
	case ValidateNone:
		return nil
	case ValidateStrict:
		if err := a.checkBounds(p, off); err != nil {
			return err
		}
		if !a.isBlockStart(off) {
			return fmt.Errorf("%w: %v is not the start of a block", ErrBadPtr, p)
		}
		return nil
	default:
		return a.checkBounds(p, off)
	}
}

// checkBounds rejects pointers that cannot name a block: misaligned, outside
// the block area, or whose header size is malformed or runs past the end
// marker.
func (a *Allocator) checkBounds(p Ptr, off int) error {
	if int(p)%format.Alignment != 0 {
		return fmt.Errorf("%w: %v is not %d-byte aligned", ErrBadPtr, p, format.Alignment)
	}
	if off < format.HeapStart || off >= a.end {
		return fmt.Errorf("%w: %v outside heap", ErrBadPtr, p)
	}
	size := a.header(off).Size()
	if !format.ValidBlockSize(size) || size > a.end-off {
		return fmt.Errorf("%w: %v has malformed header (size %d)", ErrBadPtr, p, size)
	}
	return nil
}

// isBlockStart reports whether a walk from the first block lands on off.
func (a *Allocator) isBlockStart(off int) bool {
	cur := format.HeapStart
	for cur < off {
		size := a.header(cur).Size()
		if size == 0 {
			return false
		}
		cur += size
	}
	return cur == off
}
