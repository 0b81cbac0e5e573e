package alloc

import (
	"fmt"
	"io"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

// BlockIterator walks the heap in address order.
type BlockIterator struct {
	a    *Allocator
	off  int
	done bool
}

// Blocks returns an iterator positioned at the first block.
func (a *Allocator) Blocks() *BlockIterator {
	return &BlockIterator{a: a, off: format.HeapStart}
}

// Next returns the next block, io.EOF once the end marker is reached, or an
// error wrapping ErrCorrupt when a header cannot be decoded as a block.
func (it *BlockIterator) Next() (Block, error) {
	if it.done {
		return Block{}, io.EOF
	}
	a := it.a
	if a.h.Closed() {
		it.done = true
		return Block{}, heap.ErrClosed
	}
	if it.off >= a.end {
		it.done = true
		return Block{}, io.EOF
	}

	hdr := a.header(it.off)
	size := hdr.Size()
	if !format.ValidBlockSize(size) || size > a.end-it.off {
		it.done = true
		return Block{}, fmt.Errorf("%w: block at 0x%x has size %d", ErrCorrupt, it.off, size)
	}

	b := Block{
		Offset:   it.off,
		Size:     size,
		Busy:     hdr.Busy(),
		PrevBusy: hdr.PrevBusy(),
	}
	it.off += size
	return b, nil
}

// Walk calls fn for every block in address order. It stops at the first
// error from fn or from the iterator.
func (a *Allocator) Walk(fn func(Block) error) error {
	it := a.Blocks()
	for {
		b, err := it.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(b); err != nil {
			return err
		}
	}
}

// Snapshot returns every block in address order.
func (a *Allocator) Snapshot() ([]Block, error) {
	var blocks []Block
	err := a.Walk(func(b Block) error {
		blocks = append(blocks, b)
		return nil
	})
	return blocks, err
}
