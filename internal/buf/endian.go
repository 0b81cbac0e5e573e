// Package buf contains bounds-aware helpers for reading and writing machine
// words inside a heap region.
package buf

import "encoding/binary"

// WordSize is the width in bytes of every metadata word stored in a region.
const WordSize = 8

// U64LE reads a little-endian uint64 from b. Returns 0 when b is too short.
func U64LE(b []byte) uint64 {
	if len(b) < WordSize {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// PutU64LE writes v to b in little-endian order. It reports false and leaves b
// untouched when b is too short.
func PutU64LE(b []byte, v uint64) bool {
	if len(b) < WordSize {
		return false
	}
	binary.LittleEndian.PutUint64(b, v)
	return true
}

// Word reads the word at off. Returns 0 when the word does not fit in b.
func Word(b []byte, off int) uint64 {
	w, ok := Slice(b, off, WordSize)
	if !ok {
		return 0
	}
	return U64LE(w)
}

// PutWord writes v at off, reporting whether the word fit in b.
func PutWord(b []byte, off int, v uint64) bool {
	w, ok := Slice(b, off, WordSize)
	if !ok {
		return false
	}
	return PutU64LE(w, v)
}
