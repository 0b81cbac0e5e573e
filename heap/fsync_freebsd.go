//go:build freebsd

package heap

import "golang.org/x/sys/unix"

// fdatasync falls back to fsync; x/sys/unix has no fdatasync on FreeBSD.
func fdatasync(fd int) error {
	return unix.Fsync(fd)
}
