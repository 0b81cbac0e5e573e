//go:build darwin || freebsd

package heap

func prefault(data []byte) error {
	touchPages(data)
	return nil
}
