//go:build !linux && !darwin && !freebsd && !windows

package heap

const mmapSupported = false

func reserve(int) ([]byte, func() error, error) {
	return nil, nil, ErrUnsupported
}

func prefault([]byte) error { return nil }
