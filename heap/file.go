package heap

import (
	"errors"
	"fmt"
	"os"
)

// ErrSizeMismatch indicates an existing heap file has a different length than requested.
var ErrSizeMismatch = errors.New("heap: file size mismatch")

// OpenFile maps the file at path as a shared, writable region. Writes to the
// region reach the file; Flush makes them durable.
//
// With size > 0 the file is created if missing and an empty file is extended
// to size bytes. A non-empty file must already be exactly size bytes long.
// With size == 0 the file must exist and its current length is used.
func OpenFile(path string, size int) (*Heap, error) {
	if size < 0 {
		return nil, fmt.Errorf("heap: negative size %d", size)
	}

	if uint64(size) > MaxHeapSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, size, uint64(MaxHeapSize))
	}

	flags := os.O_RDWR
	if size > 0 {
		flags |= os.O_CREATE
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("heap: open %s: %w", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("heap: stat %s: %w", path, err)
	}
	existing := fi.Size()

	switch {
	case size == 0:
		if existing > MaxHeapSize {
			_ = f.Close()
			return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrTooLarge, path, existing, uint64(MaxHeapSize))
		}
		size = int(existing)
	case existing == 0:
		if err := f.Truncate(int64(size)); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("heap: truncate %s: %w", path, err)
		}
	case existing != int64(size):
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s is %d bytes, want %d", ErrSizeMismatch, path, existing, size)
	}

	if err := checkSize(size); err != nil {
		_ = f.Close()
		return nil, err
	}

	data, release, sync, err := mapFile(f, size)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Heap{data: data, backing: BackingFile, release: release, sync: sync}, nil
}
