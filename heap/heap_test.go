package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

func TestNew_GoBacking(t *testing.T) {
	h, err := New(4096, &Options{Backing: BackingGo})
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, BackingGo, h.Backing())
	assert.Equal(t, 4096, h.Size())
	require.Len(t, h.Bytes(), 4096)
	for i, b := range h.Bytes() {
		if b != 0 {
			t.Fatalf("byte %d not zero: 0x%x", i, b)
		}
	}
}

func TestNew_AutoBacking(t *testing.T) {
	h, err := New(8192, nil)
	require.NoError(t, err)
	defer h.Close()

	if mmapSupported {
		assert.Equal(t, BackingMmap, h.Backing())
	} else {
		assert.Equal(t, BackingGo, h.Backing())
	}

	// The region must be writable end to end.
	data := h.Bytes()
	data[0] = 0xAA
	data[len(data)-1] = 0x55
	assert.Equal(t, byte(0xAA), h.Bytes()[0])
	assert.Equal(t, byte(0x55), h.Bytes()[8191])
}

func TestNew_MmapBacking(t *testing.T) {
	if !mmapSupported {
		_, err := New(4096, &Options{Backing: BackingMmap})
		require.ErrorIs(t, err, ErrUnsupported)
		return
	}

	h, err := New(3*4096+100, &Options{Backing: BackingMmap, Prefault: true})
	require.NoError(t, err)
	assert.Equal(t, 3*4096+100, h.Size())
	h.Bytes()[h.Size()-1] = 1

	require.NoError(t, h.Close())
	assert.True(t, h.Closed())
	assert.Nil(t, h.Bytes())
	require.NoError(t, h.Close(), "second Close should be a no-op")
}

func TestNew_TooSmall(t *testing.T) {
	_, err := New(format.MinHeapSize-1, nil)
	require.ErrorIs(t, err, ErrTooSmall)

	h, err := New(format.MinHeapSize, &Options{Backing: BackingGo})
	require.NoError(t, err)
	assert.Equal(t, format.MinHeapSize, h.Size())
}

func TestNew_TooLarge(t *testing.T) {
	for _, b := range []Backing{BackingGo, BackingMmap, BackingAuto} {
		t.Run(b.String(), func(t *testing.T) {
			_, err := New(1<<62, &Options{Backing: b})
			require.ErrorIs(t, err, ErrTooLarge)

			_, err = New(MaxHeapSize+1, &Options{Backing: b})
			require.ErrorIs(t, err, ErrTooLarge)
		})
	}
}

func TestNew_RejectsCallerBacking(t *testing.T) {
	_, err := New(4096, &Options{Backing: BackingCaller})
	require.Error(t, err)
}

func TestFromBytes(t *testing.T) {
	region := make([]byte, 256)
	h, err := FromBytes(region)
	require.NoError(t, err)
	assert.Equal(t, BackingCaller, h.Backing())
	assert.Equal(t, 256, h.Size())

	h.Bytes()[10] = 7
	assert.Equal(t, byte(7), region[10], "FromBytes must not copy")

	require.NoError(t, h.Close())
	assert.Equal(t, byte(7), region[10], "Close must leave caller storage alone")

	_, err = FromBytes(make([]byte, 8))
	require.ErrorIs(t, err, ErrTooSmall)
}

func TestNilHeap(t *testing.T) {
	var h *Heap
	assert.Nil(t, h.Bytes())
	assert.Equal(t, 0, h.Size())
	assert.True(t, h.Closed())
	require.NoError(t, h.Close())
}

func TestParseBacking(t *testing.T) {
	tests := []struct {
		in      string
		want    Backing
		wantErr bool
	}{
		{"", BackingAuto, false},
		{"auto", BackingAuto, false},
		{"mmap", BackingMmap, false},
		{"go", BackingGo, false},
		{"shm", BackingAuto, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBacking(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got.String())
		})
	}
}
