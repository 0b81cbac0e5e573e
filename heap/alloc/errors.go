package alloc

import "errors"

var (
	// ErrInvalidSize indicates a non-positive allocation request.
	ErrInvalidSize = errors.New("alloc: size must be positive")

	// ErrNoSpace indicates that no free block large enough was found.
	ErrNoSpace = errors.New("alloc: no free block large enough")

	// ErrNotBusy indicates a release of a block that is already free.
	ErrNotBusy = errors.New("alloc: block is not allocated")

	// ErrBadPtr indicates a pointer that does not name a block in this heap.
	ErrBadPtr = errors.New("alloc: bad pointer")

	// ErrCorrupt indicates the block layout violates an allocator invariant.
	ErrCorrupt = errors.New("alloc: heap corrupt")
)
