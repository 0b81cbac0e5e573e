package format

// Align16 returns n aligned up to the next 16-byte boundary.
//
// Example:
//
//	Align16(1)  = 16
//	Align16(16) = 16
//	Align16(17) = 32
func Align16(n int) int {
	return (n + AlignmentMask) &^ AlignmentMask
}

// AlignDown16 returns n truncated to a 16-byte boundary.
func AlignDown16(n int) int {
	return n &^ AlignmentMask
}

// Footprint returns the total block size needed to serve a payload of size
// bytes: the payload plus one header, rounded up to Alignment. Allocation,
// splitting and verification all derive block sizes from this function.
//
// Example:
//
//	Footprint(1)  = 16
//	Footprint(8)  = 16
//	Footprint(9)  = 32
//	Footprint(24) = 32
//	Footprint(25) = 48
//
// The caller must bound size; values near math.MaxInt overflow.
func Footprint(size int) int {
	return max(Align16(size+HeaderSize), MinBlockSize)
}

// ValidBlockSize reports whether size can describe a non-terminal block.
func ValidBlockSize(size int) bool {
	return size >= MinBlockSize && size&AlignmentMask == 0
}

// Layout computes where the end marker lives in a region of n bytes and how
// many bytes are available for blocks. The trailing n%16 bytes are unused.
// ok is false when n cannot hold the end marker.
func Layout(n int) (end, usable int, ok bool) {
	if n < MinHeapSize {
		return 0, 0, false
	}
	end = AlignDown16(n) - EndMarkerSize
	return end, end - HeapStart, true
}
