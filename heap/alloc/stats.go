package alloc

import "github.com/joshuapare/heapkit/internal/format"

// Stats counts allocator activity since construction.
type Stats struct {
	AllocCalls     int   // Alloc calls, including failures
	AllocFailures  int   // Alloc calls that returned an error
	SplitCount     int   // Allocations that split a larger free block
	FreeCalls      int   // Free calls with a non-nil pointer
	FreeRejected   int   // Free calls that returned an error
	CoalescePrev   int   // Releases merged into a free predecessor
	CoalesceNext   int   // Releases that absorbed a free successor
	BytesAllocated int64 // Total block bytes granted (headers included)
	BytesFreed     int64 // Total block bytes released
}

// Stats returns a copy of the activity counters.
func (a *Allocator) Stats() Stats { return a.stats }

// Usage summarizes the current block map.
type Usage struct {
	Capacity    int // Bytes between the first block and the end marker
	Blocks      int
	BusyBlocks  int
	FreeBlocks  int
	BusyBytes   int
	FreeBytes   int
	LargestFree int // Largest single free block; the biggest footprint Alloc can serve
}

// Fragmentation returns 1 - LargestFree/FreeBytes: 0 when all free space is
// one block, approaching 1 as it splinters.
func (u Usage) Fragmentation() float64 {
	if u.FreeBytes == 0 {
		return 0
	}
	return 1 - float64(u.LargestFree)/float64(u.FreeBytes)
}

// MaxRequest returns the largest payload size Alloc can currently satisfy.
func (u Usage) MaxRequest() int {
	return maxPayload(u.LargestFree)
}

// Usage walks the heap and tallies busy and free space.
func (a *Allocator) Usage() (Usage, error) {
	u := Usage{Capacity: a.Capacity()}
	err := a.Walk(func(b Block) error {
		u.Blocks++
		if b.Busy {
			u.BusyBlocks++
			u.BusyBytes += b.Size
			return nil
		}
		u.FreeBlocks++
		u.FreeBytes += b.Size
		u.LargestFree = max(u.LargestFree, b.Size)
		return nil
	})
	return u, err
}

// maxPayload returns the payload bytes a block of size bytes can serve.
func maxPayload(size int) int {
	if size < format.MinBlockSize {
		return 0
	}
	return size - format.HeaderSize
}
