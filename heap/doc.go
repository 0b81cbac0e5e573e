// Package heap reserves the fixed-size memory region that an allocator manages.
//
// # Overview
//
// A Heap is a single contiguous byte range set once at construction and never
// resized. It is the hand-off point between the operating environment and the
// allocator in the alloc package: the allocator formats the bytes and from then
// on owns every metadata word inside them.
//
// # Backings
//
//   - BackingMmap: anonymous private mapping (mmap on Unix, VirtualAlloc on
//     Windows). Pages are returned to the OS on Close.
//   - BackingGo: a Go byte slice from make. Close only drops the reference.
//   - BackingAuto: BackingMmap where the platform supports it, BackingGo
//     elsewhere.
//
// Callers that already own a region can wrap it with FromBytes.
//
// # Files
//
// OpenFile maps a file shared (BackingFile, Unix only). Writes through the
// region reach the page cache immediately; Flush msyncs the whole mapping and
// syncs the file. A heap formatted in a file can be reopened later with
// OpenFile(path, 0) and reattached with alloc.Load.
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
// # Thread Safety
//
// Heap instances are not thread-safe. The region is shared mutable state with
// a single logical owner.
package heap
