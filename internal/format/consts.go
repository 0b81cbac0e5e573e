// Package format describes the on-region layout of heap blocks: the sizing
// constants, the rounding rules, and the encode/decode helpers for block
// headers and footers. Every other package reads and writes block metadata
// through this package so the bit packing lives in one place.
//
// Region layout (all words little-endian uint64):
//
//	Offset          Size  Description
//	0x00            8     Padding so that payloads land on 16-byte boundaries
//	HeapStart       ...   Blocks, each a multiple of Alignment bytes
//	end             8     End marker header (size 0, BUSY set)
//
// Block layout:
//
//	+0          8     Header: size | PREV_BUSY<<1 | BUSY
//	+8          ...   Payload
//	+size-8     8     Footer: size (free blocks only; payload while busy)
package format

import "github.com/joshuapare/heapkit/internal/buf"

const (
	// WordSize is the width of a header or footer word.
	WordSize = buf.WordSize

	// HeaderSize is the per-block overhead carried by every block.
	HeaderSize = WordSize

	// FooterSize is the boundary tag written at the end of free blocks.
	FooterSize = WordSize

	// Alignment is the granularity of every block size and payload offset.
	Alignment = 16

	// AlignmentMask is Alignment - 1. The low bits of a header word are free
	// for flags because sizes are always multiples of Alignment.
	AlignmentMask = Alignment - 1

	// MinBlockSize is the smallest block that can hold a header and, once
	// freed, a footer.
	MinBlockSize = 16

	// HeapStart is the offset of the first block header. Placing the header
	// one word before an Alignment boundary puts the payload on the boundary.
	HeapStart = Alignment - HeaderSize

	// EndMarkerSize is the space reserved for the terminating header.
	EndMarkerSize = HeaderSize

	// MinHeapSize is the smallest region that can hold the end marker.
	MinHeapSize = HeapStart + EndMarkerSize
)
