//go:build darwin

package heap

import "golang.org/x/sys/unix"

// fdatasync uses F_FULLFSYNC so the data leaves the drive cache.
// macOS has no fdatasync.
func fdatasync(fd int) error {
	_, err := unix.FcntlInt(uintptr(fd), unix.F_FULLFSYNC, 0)
	return err
}
