package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/alloc"
)

const defaultHeapSize = "64KiB"

// heapFlags are the flags shared by commands that build a heap.
type heapFlags struct {
	size     string
	backing  string
	validate string
	prefault bool
	file     string
}

// parseHeapSize accepts byte counts like "4096", "64KiB" or "1MB".
func parseHeapSize(s string) (int, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --size %q: %w", s, err)
	}
	if n > uint64(^uint(0)>>1) {
		return 0, fmt.Errorf("invalid --size %q: too large", s)
	}
	return int(n), nil
}

// newAllocator reserves a heap per f and formats it. With --file set, an
// existing non-empty file is reattached instead of formatted.
func newAllocator(f heapFlags) (*alloc.Allocator, error) {
	validation, err := alloc.ParseValidation(f.validate)
	if err != nil {
		return nil, err
	}
	opts := &alloc.Options{Validation: validation, Logger: newLogger()}

	if f.file != "" {
		return openFileAllocator(f, opts)
	}

	size, err := parseHeapSize(f.size)
	if err != nil {
		return nil, err
	}
	backing, err := heap.ParseBacking(f.backing)
	if err != nil {
		return nil, err
	}

	printVerbose("Reserving %s heap (backing=%s)\n", humanize.IBytes(uint64(size)), backing)
	h, err := heap.New(size, &heap.Options{Backing: backing, Prefault: f.prefault})
	if err != nil {
		return nil, fmt.Errorf("failed to reserve heap: %w", err)
	}

	a, err := alloc.New(h, opts)
	if err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("failed to format heap: %w", err)
	}
	return a, nil
}

func openFileAllocator(f heapFlags, opts *alloc.Options) (*alloc.Allocator, error) {
	if fi, err := os.Stat(f.file); err == nil && fi.Size() > 0 {
		return loadFileAllocator(f.file, opts)
	}

	size, err := parseHeapSize(f.size)
	if err != nil {
		return nil, err
	}
	printVerbose("Creating %s heap file: %s\n", humanize.IBytes(uint64(size)), f.file)
	h, err := heap.OpenFile(f.file, size)
	if err != nil {
		return nil, fmt.Errorf("failed to create heap file: %w", err)
	}
	a, err := alloc.New(h, opts)
	if err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("failed to format heap: %w", err)
	}
	return a, nil
}

// existingAllocator reattaches the heap file named by f. The file must
// already hold a heap; nothing is created or formatted.
func existingAllocator(f heapFlags) (*alloc.Allocator, error) {
	validation, err := alloc.ParseValidation(f.validate)
	if err != nil {
		return nil, err
	}
	return loadFileAllocator(f.file, &alloc.Options{Validation: validation, Logger: newLogger()})
}

func loadFileAllocator(path string, opts *alloc.Options) (*alloc.Allocator, error) {
	printVerbose("Reattaching heap file: %s\n", path)
	h, err := heap.OpenFile(path, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open heap file: %w", err)
	}
	a, err := alloc.Load(h, opts)
	if err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("failed to load heap file: %w", err)
	}
	return a, nil
}

// closeAllocator flushes file-backed heaps before releasing the region.
func closeAllocator(a *alloc.Allocator) error {
	h := a.Heap()
	if err := h.Flush(context.Background()); err != nil {
		_ = h.Close()
		return fmt.Errorf("failed to flush heap: %w", err)
	}
	return h.Close()
}
