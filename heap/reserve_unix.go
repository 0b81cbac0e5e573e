//go:build linux || darwin || freebsd

package heap

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

const mmapSupported = true

// reserve maps size bytes of anonymous, private, zero-filled memory.
func reserve(size int) ([]byte, func() error, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, nil, fmt.Errorf("heap: mmap %d bytes: %w", size, err)
	}
	release := func() error {
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		if err != nil {
			return fmt.Errorf("heap: munmap: %w", err)
		}
		return nil
	}
	return data, release, nil
}
