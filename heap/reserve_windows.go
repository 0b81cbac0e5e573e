//go:build windows

package heap

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const mmapSupported = true

// reserve commits size bytes of zero-filled read/write pages.
func reserve(size int) ([]byte, func() error, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return nil, nil, fmt.Errorf("heap: VirtualAlloc %d bytes: %w", size, err)
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	release := func() error {
		if err := windows.VirtualFree(addr, 0, windows.MEM_RELEASE); err != nil {
			return fmt.Errorf("heap: VirtualFree: %w", err)
		}
		return nil
	}
	return data, release, nil
}

// prefault is a no-op: MEM_COMMIT already backs every page.
func prefault([]byte) error { return nil }
