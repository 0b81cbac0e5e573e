package alloc

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// Allocator manages the blocks of one heap region.
type Allocator struct {
	h    *heap.Heap
	data []byte
	end  int // offset of the end marker header

	validation Validation
	log        *slog.Logger

	stats Stats
}

// New formats the region of h as a single free block followed by the end
// marker and returns an allocator over it. Any previous contents are lost.
func New(h *heap.Heap, opts *Options) (*Allocator, error) {
	a, err := attach(h, opts)
	if err != nil {
		return nil, err
	}
	if _, err := format.InitRegion(a.data); err != nil {
		return nil, fmt.Errorf("alloc: format region: %w", err)
	}
	a.log.Debug("alloc: formatted region",
		"size", len(a.data), "usable", a.Capacity(), "end", a.end)
	return a, nil
}

// Load returns an allocator over a region that already holds a block layout,
// for example one produced by a previous allocator over the same bytes. The
// layout must pass Check.
func Load(h *heap.Heap, opts *Options) (*Allocator, error) {
	a, err := attach(h, opts)
	if err != nil {
		return nil, err
	}
	if err := a.Check(); err != nil {
		return nil, err
	}
	return a, nil
}

func attach(h *heap.Heap, opts *Options) (*Allocator, error) {
	if h.Closed() {
		return nil, heap.ErrClosed
	}
	if opts == nil {
		opts = &Options{}
	}
	end, _, ok := format.Layout(h.Size())
	if !ok {
		return nil, fmt.Errorf("alloc: %w", heap.ErrTooSmall)
	}
	log := opts.Logger
	if log == nil {
		log = defaultLogger()
	}
	return &Allocator{
		h:          h,
		data:       h.Bytes(),
		end:        end,
		validation: opts.Validation,
		log:        log,
	}, nil
}

// Heap returns the region the allocator manages.
func (a *Allocator) Heap() *heap.Heap { return a.h }

// Capacity returns the bytes between the first block and the end marker.
func (a *Allocator) Capacity() int { return a.end - format.HeapStart }

// EndMarker returns the offset of the end marker header.
func (a *Allocator) EndMarker() int { return a.end }

// Validation returns the pointer validation level in effect.
func (a *Allocator) Validation() Validation { return a.validation }

// Payload returns the payload bytes of the busy block at p. Pointers are
// always bounds-checked here, whatever the Validation level.
func (a *Allocator) Payload(p Ptr) ([]byte, error) {
	if a.h.Closed() {
		return nil, heap.ErrClosed
	}
	off := int(p) - format.HeaderSize
	if err := a.checkBounds(p, off); err != nil {
		return nil, err
	}
	hdr := a.header(off)
	if !hdr.Busy() {
		return nil, ErrNotBusy
	}
	return a.payload(off, hdr.Size()), nil
}

// Metadata accessors. All reads and writes of block words go through these.

func (a *Allocator) header(off int) format.Header {
	return format.ReadHeader(a.data, off)
}

func (a *Allocator) setHeader(off int, h format.Header) {
	format.PutHeader(a.data, off, h)
}

func (a *Allocator) setFooter(off, size int) {
	format.PutFooter(a.data, off, size)
}

func (a *Allocator) setPrevBusy(off int, prevBusy bool) {
	a.setHeader(off, a.header(off).WithPrevBusy(prevBusy))
}

func (a *Allocator) payload(off, size int) []byte {
	b, _ := buf.Slice(a.data, off+format.HeaderSize, size-format.HeaderSize)
	return b
}
