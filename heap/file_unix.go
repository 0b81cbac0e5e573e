//go:build linux || darwin || freebsd

package heap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const fileSupported = true

// mapFile maps the first size bytes of f shared and read/write. The returned
// release unmaps and closes f; sync flushes the whole mapping.
func mapFile(f *os.File, size int) ([]byte, func() error, func() error, error) {
	fd := int(f.Fd())
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("heap: mmap %s: %w", f.Name(), err)
	}

	release := func() error {
		err := unix.Munmap(data)
		if cerr := f.Close(); err == nil && cerr != nil {
			return fmt.Errorf("heap: close %s: %w", f.Name(), cerr)
		}
		if err != nil {
			return fmt.Errorf("heap: munmap: %w", err)
		}
		return nil
	}

	// msync needs the original mapping address on some kernels, so the
	// whole region is synced and the kernel skips clean pages.
	sync := func() error {
		if err := unix.Msync(data, unix.MS_SYNC); err != nil {
			return fmt.Errorf("heap: msync: %w", err)
		}
		if err := fdatasync(fd); err != nil {
			return fmt.Errorf("heap: sync %s: %w", f.Name(), err)
		}
		return nil
	}
	return data, release, sync, nil
}
