package alloc

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

func TestParseValidation(t *testing.T) {
	for _, v := range []Validation{ValidateNone, ValidateBounds, ValidateStrict} {
		got, err := ParseValidation(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	got, err := ParseValidation("")
	require.NoError(t, err)
	assert.Equal(t, ValidateBounds, got)

	_, err = ParseValidation("paranoid")
	require.Error(t, err)
	assert.Equal(t, "Validation(9)", Validation(9).String())
}

// TestFree_BoundsRejectsBadPointers feeds pointers Alloc never returned.
func TestFree_BoundsRejectsBadPointers(t *testing.T) {
	for _, validation := range []Validation{ValidateBounds, ValidateStrict} {
		t.Run(validation.String(), func(t *testing.T) {
			a := newTestAllocator(t, 1024, &Options{Validation: validation})
			p, _, err := a.Alloc(100)
			require.NoError(t, err)
			before := cloneRegion(a)

			cases := map[string]Ptr{
				"misaligned by one":  p + 1,
				"misaligned by word": p + 8,
				"inside payload":     p + 16, // header word is payload zeros
				"before heap":        Ptr(format.HeapStart),
				"negative":           Ptr(-16),
				"end marker":         Ptr(a.EndMarker() + format.HeaderSize),
				"past region":        Ptr(1 << 40),
			}
			for name, bad := range cases {
				require.ErrorIs(t, a.Free(bad), ErrBadPtr, name)
				requireUnchanged(t, a, before, name)
			}
			assert.Equal(t, len(cases), a.Stats().FreeRejected)
			assertInvariants(t, a)

			require.NoError(t, a.Free(p))
			requireSingleFreeBlock(t, a)
		})
	}
}

// TestFree_NoValidationSurvivesWildPointers verifies that without pointer
// checks, wild pointers whose header word reads as zero are reported as not
// busy rather than crashing or writing.
func TestFree_NoValidationSurvivesWildPointers(t *testing.T) {
	a := newTestAllocator(t, 1024, &Options{Validation: ValidateNone})
	p, _, err := a.Alloc(100)
	require.NoError(t, err)
	before := cloneRegion(a)

	for _, bad := range []Ptr{p + 16, Ptr(-16), Ptr(1 << 40)} {
		require.ErrorIs(t, a.Free(bad), ErrNotBusy, "ptr %v", bad)
		requireUnchanged(t, a, before)
	}
	assertInvariants(t, a)
}

// TestFree_ForgedInteriorHeader writes a plausible busy header inside a
// payload and releases it. Only strict validation can tell it apart from a
// real block; the weaker levels corrupt the heap, which Check reports.
func TestFree_ForgedInteriorHeader(t *testing.T) {
	for _, tc := range []struct {
		validation  Validation
		wantFreeErr error
		corrupts    bool
	}{
		{ValidateNone, nil, true},
		{ValidateBounds, nil, true},
		{ValidateStrict, ErrBadPtr, false},
	} {
		t.Run(tc.validation.String(), func(t *testing.T) {
			a := newTestAllocator(t, 1024, &Options{Validation: tc.validation})
			p, payload, err := a.Alloc(40) // 48-byte block at HeapStart
			require.NoError(t, err)

			// A busy 32-byte "block" ending exactly where the real one ends.
			binary.LittleEndian.PutUint64(payload[8:], uint64(format.MakeHeader(32, true, true)))
			forged := p + 16
			assertInvariants(t, a)
			before := cloneRegion(a)

			err = a.Free(forged)
			if tc.wantFreeErr != nil {
				require.ErrorIs(t, err, tc.wantFreeErr)
				requireUnchanged(t, a, before)
			} else {
				require.NoError(t, err)
			}

			if tc.corrupts {
				require.ErrorIs(t, a.Check(), ErrCorrupt)
			} else {
				assertInvariants(t, a)
			}
		})
	}
}

// TestPayload_AlwaysBoundsChecked verifies Payload validates pointers even
// when Free does not.
func TestPayload_AlwaysBoundsChecked(t *testing.T) {
	a := newTestAllocator(t, 1024, &Options{Validation: ValidateNone})
	assert.Equal(t, ValidateNone, a.Validation())

	_, err := a.Payload(Ptr(1 << 40))
	require.ErrorIs(t, err, ErrBadPtr)
	_, err = a.Payload(Ptr(format.HeapStart + 1))
	require.ErrorIs(t, err, ErrBadPtr)
}
