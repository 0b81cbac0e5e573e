package heap

import "os"

// touchPages writes one byte per page. The region is freshly reserved and
// zero-filled, so writing zero leaves the contents unchanged.
func touchPages(data []byte) {
	page := os.Getpagesize()
	for off := 0; off < len(data); off += page {
		data[off] = 0
	}
}
