//go:build !linux && !darwin && !freebsd

package heap

import "os"

const fileSupported = false

func mapFile(*os.File, int) ([]byte, func() error, func() error, error) {
	return nil, nil, nil, ErrUnsupported
}
