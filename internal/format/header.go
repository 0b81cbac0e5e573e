package format

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
)

// Header is a decoded block header word. The size occupies the high bits and
// the flags occupy the bits below Alignment.
type Header uint64

const (
	// FlagBusy marks a block as allocated.
	FlagBusy Header = 1 << 0

	// FlagPrevBusy records that the block immediately before this one is
	// allocated and therefore has no footer to read.
	FlagPrevBusy Header = 1 << 1

	flagMask Header = AlignmentMask
)

// MakeHeader packs a block size and its flags into a header word.
func MakeHeader(size int, busy, prevBusy bool) Header {
	h := Header(size) &^ flagMask
	return h.WithBusy(busy).WithPrevBusy(prevBusy)
}

// EndMarker returns the terminating header. It has size zero and is always
// busy so it is never coalesced; prevBusy tracks the last block.
func EndMarker(prevBusy bool) Header {
	return MakeHeader(0, true, prevBusy)
}

// Size returns the total block size in bytes.
func (h Header) Size() int { return int(h &^ flagMask) }

// Busy reports whether the block is allocated.
func (h Header) Busy() bool { return h&FlagBusy != 0 }

// PrevBusy reports whether the preceding block is allocated.
func (h Header) PrevBusy() bool { return h&FlagPrevBusy != 0 }

// IsEndMarker reports whether h terminates the heap.
func (h Header) IsEndMarker() bool { return h.Size() == 0 }

// WithBusy returns h with the BUSY flag set to busy.
func (h Header) WithBusy(busy bool) Header {
	if busy {
		return h | FlagBusy
	}
	return h &^ FlagBusy
}

// WithPrevBusy returns h with the PREV_BUSY flag set to prevBusy.
func (h Header) WithPrevBusy(prevBusy bool) Header {
	if prevBusy {
		return h | FlagPrevBusy
	}
	return h &^ FlagPrevBusy
}

// WithSize returns h with its size replaced and its flags preserved.
func (h Header) WithSize(size int) Header {
	return (Header(size) &^ flagMask) | (h & flagMask)
}

func (h Header) String() string {
	if h.IsEndMarker() {
		return fmt.Sprintf("end(prevBusy=%t)", h.PrevBusy())
	}
	state := "free"
	if h.Busy() {
		state = "busy"
	}
	return fmt.Sprintf("%s(size=%d, prevBusy=%t)", state, h.Size(), h.PrevBusy())
}

// ReadHeader decodes the header at off. Offsets outside b decode as zero,
// which reads as an end marker with no flags.
func ReadHeader(b []byte, off int) Header {
	return Header(buf.Word(b, off))
}

// PutHeader encodes h at off, reporting whether it fit.
func PutHeader(b []byte, off int, h Header) bool {
	return buf.PutWord(b, off, uint64(h))
}

// FooterOffset returns where the footer of the block at off with the given
// size lives.
func FooterOffset(off, size int) int {
	return off + size - FooterSize
}

// ReadFooter returns the size recorded in the footer of the block at off.
func ReadFooter(b []byte, off, size int) int {
	return footerValue(buf.Word(b, FooterOffset(off, size)))
}

// PutFooter writes size into the footer of the block at off.
func PutFooter(b []byte, off, size int) bool {
	return buf.PutWord(b, FooterOffset(off, size), uint64(size))
}

// PrevFooter returns the size stored in the word immediately before the
// header at off. The value is only meaningful when the preceding block is
// free; callers check PREV_BUSY first.
func PrevFooter(b []byte, off int) int {
	return footerValue(buf.Word(b, off-FooterSize))
}

// footerValue maps footer words that cannot be a block size to zero.
func footerValue(w uint64) int {
	if w > uint64(^uint(0)>>1) {
		return 0
	}
	return int(w)
}

// InitRegion writes the initial layout into b: one free block spanning every
// usable byte, followed by the end marker. It returns the end marker offset.
// Regions smaller than MinHeapSize yield ErrTruncated.
func InitRegion(b []byte) (int, error) {
	end, usable, ok := Layout(len(b))
	if !ok {
		return 0, ErrTruncated
	}
	if usable == 0 {
		PutHeader(b, end, EndMarker(true))
		return end, nil
	}
	PutHeader(b, HeapStart, MakeHeader(usable, false, true))
	PutFooter(b, HeapStart, usable)
	PutHeader(b, end, EndMarker(false))
	return end, nil
}
