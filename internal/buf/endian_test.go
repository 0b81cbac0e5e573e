package buf

import "testing"

func TestWordHelpers(t *testing.T) {
	data := []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}

	if got := U64LE(data); got != 0xefcdab8967452301 {
		t.Fatalf("U64LE = 0x%x, want 0xefcdab8967452301", got)
	}

	short := []byte{0xAA}
	if U64LE(short) != 0 {
		t.Fatalf("U64LE short should be 0")
	}
	if PutU64LE(short, 1) {
		t.Fatalf("PutU64LE short should fail")
	}
	if short[0] != 0xAA {
		t.Fatalf("PutU64LE short modified input: 0x%x", short[0])
	}
}

func TestWordAtOffset(t *testing.T) {
	region := make([]byte, 24)

	if !PutWord(region, 8, 0x1122334455667788) {
		t.Fatalf("PutWord at 8 should fit")
	}
	if got := Word(region, 8); got != 0x1122334455667788 {
		t.Fatalf("Word(8) = 0x%x", got)
	}
	if region[8] != 0x88 || region[15] != 0x11 {
		t.Fatalf("word not little-endian: % x", region[8:16])
	}

	if PutWord(region, 17, 1) {
		t.Fatalf("PutWord past end should fail")
	}
	if PutWord(region, -1, 1) {
		t.Fatalf("PutWord at negative offset should fail")
	}
	if got := Word(region, 20); got != 0 {
		t.Fatalf("Word past end = 0x%x, want 0", got)
	}
}
