// Package alloc implements a best-fit allocator with boundary-tag coalescing
// over a single fixed-size heap region.
//
// # Overview
//
// The allocator keeps no index of free blocks. Every block in the region
// starts with an 8-byte header holding its size and two flags, and free blocks
// end with an 8-byte footer repeating the size. Allocation walks the headers
// from the start of the region to the end marker; release reads the footer of
// the previous block and the header of the next block to find neighbors.
//
// # Allocator Interface
//
//   - Alloc(size): best-fit allocation of at least size payload bytes
//   - Free(ptr): release a pointer returned by Alloc and coalesce neighbors
//   - Blocks(): iterate the block map in address order
//   - Check(): verify every layout invariant
//
// # Usage Example
//
//	h, err := heap.New(64*1024, nil)
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	a, err := alloc.New(h, nil)
//	if err != nil {
//	    return err
//	}
//
//	p, payload, err := a.Alloc(100)
//	if errors.Is(err, alloc.ErrNoSpace) {
//	    // caller decides: free something and retry, or give up
//	}
//	copy(payload, data)
//
//	err = a.Free(p)
//
// # Block Layout
//
// Sizes are multiples of 16 and include the header. A request of n bytes
// occupies Footprint(n) = roundUp(n+8, 16) bytes. Payload offsets are always
// multiples of 16.
//
//	Header bit 0: BUSY       block is allocated
//	Header bit 1: PREV_BUSY  preceding block is allocated (it has no footer)
//
// # Best Fit
//
// Alloc scans every block and picks the smallest free block large enough for
// the footprint. Equal candidates resolve to the lowest address. When the
// chosen block is at least 16 bytes larger than the footprint it is split and
// the tail stays free; otherwise the whole block is granted.
//
// # Coalescing
//
// Free merges the released block with a free predecessor, a free successor,
// or both, so no two free blocks are ever adjacent.
//
// # Pointer Validation
//
// Passing Free a pointer that Alloc did not return is a precondition
// violation. Options.Validation selects how much of that is detected:
// ValidateNone trusts the caller, ValidateBounds (the default) rejects
// pointers that are misaligned, out of range, or whose header is malformed,
// and ValidateStrict also walks the heap to confirm the pointer names a block.
// A release of an already free block returns ErrNotBusy and leaves the heap
// untouched at every level.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must serialize access
// externally.
//
// # Debug Logging
//
// Set HEAPKIT_LOG_ALLOC=1 to send debug records for splits, merges and
// failures to stderr, or pass a logger in Options.
package alloc
