package printer

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/alloc"
)

// newTestAllocator returns a 4 KiB allocator holding [free 112][busy 16][free tail].
func newTestAllocator(t *testing.T) *alloc.Allocator {
	t.Helper()

	h, err := heap.New(4096, &heap.Options{Backing: heap.BackingGo})
	require.NoError(t, err)
	a, err := alloc.New(h, nil)
	require.NoError(t, err)

	p1, _, err := a.Alloc(100)
	require.NoError(t, err)
	_, _, err = a.Alloc(8)
	require.NoError(t, err)
	require.NoError(t, a.Free(p1))
	return a
}

func TestPrinter_Text(t *testing.T) {
	a := newTestAllocator(t)

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, a, DefaultOptions()))

	output := buf.String()
	t.Logf("Text output:\n%s", output)

	require.Contains(t, output, "OFFSET")
	require.Contains(t, output, "0x000008")
	require.Contains(t, output, "0x000078")
	require.Contains(t, output, "busy")
	require.Contains(t, output, "free")
	require.Contains(t, output, "Capacity:      4,080 B (4.0 KiB)")
	require.Contains(t, output, "Blocks:        3 (1 busy, 2 free)")
	require.Contains(t, output, "Coalesced:     0 with previous, 0 with next")
	require.Contains(t, output, "Alloc calls:   2 (0 failed, 2 split)")
}

func TestPrinter_Text_MaxBlocks(t *testing.T) {
	a := newTestAllocator(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.MaxBlocks = 1
	opts.ShowStats = false
	require.NoError(t, Print(&buf, a, opts))

	output := buf.String()
	require.Contains(t, output, "... 2 more blocks")
	require.NotContains(t, output, "0x000078")
	require.NotContains(t, output, "Alloc calls")
}

func TestPrinter_Text_Map(t *testing.T) {
	a := newTestAllocator(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.ShowBlocks = false
	opts.ShowMap = true
	opts.MapWidth = 16
	require.NoError(t, Print(&buf, a, opts))

	output := buf.String()
	t.Logf("Map output:\n%s", output)
	require.Contains(t, output, "[#...............]")
	require.NotContains(t, output, "OFFSET")
}

func TestPrinter_Text_Grouping(t *testing.T) {
	h, err := heap.New(1<<20, &heap.Options{Backing: heap.BackingGo})
	require.NoError(t, err)
	a, err := alloc.New(h, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Language = language.German
	opts.HumanSizes = false
	require.NoError(t, Print(&buf, a, opts))
	require.Contains(t, buf.String(), "1.048.560 B")
	require.NotContains(t, buf.String(), "MiB")
}

func TestPrinter_JSON(t *testing.T) {
	a := newTestAllocator(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON
	require.NoError(t, Print(&buf, a, opts))

	t.Logf("JSON output:\n%s", buf.String())

	var report struct {
		Capacity  int    `json:"capacity"`
		EndMarker int    `json:"end_marker"`
		Backing   string `json:"backing"`
		Blocks    []struct {
			Offset int    `json:"offset"`
			Size   int    `json:"size"`
			Busy   bool   `json:"busy"`
			Ptr    string `json:"ptr"`
		} `json:"blocks"`
		Usage struct {
			FreeBlocks  int `json:"free_blocks"`
			LargestFree int `json:"largest_free"`
		} `json:"usage"`
		Stats map[string]any `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))

	require.Equal(t, 4080, report.Capacity)
	require.Equal(t, 4088, report.EndMarker)
	require.Equal(t, "go", report.Backing)
	require.Len(t, report.Blocks, 3)
	require.Equal(t, 8, report.Blocks[0].Offset)
	require.False(t, report.Blocks[0].Busy)
	require.Empty(t, report.Blocks[0].Ptr)
	require.True(t, report.Blocks[1].Busy)
	require.Equal(t, "0x80", report.Blocks[1].Ptr)
	require.Equal(t, 2, report.Usage.FreeBlocks)
	require.Equal(t, 3952, report.Usage.LargestFree)
	require.Contains(t, report.Stats, "alloc_calls")
}

func TestPrinter_JSON_NoStats(t *testing.T) {
	a := newTestAllocator(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON
	opts.ShowStats = false
	opts.MaxBlocks = 2
	require.NoError(t, Print(&buf, a, opts))

	var result map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.NotContains(t, result, "stats")
	require.Len(t, result["blocks"], 2)
	require.EqualValues(t, 1, result["truncated_blocks"])
}

func TestPrinter_CorruptHeap(t *testing.T) {
	a := newTestAllocator(t)
	clear(a.Heap().Bytes())

	var buf bytes.Buffer
	err := Print(&buf, a, DefaultOptions())
	require.ErrorIs(t, err, alloc.ErrCorrupt)
}

func TestSegments(t *testing.T) {
	blocks := []alloc.Block{
		{Offset: 8, Size: 64, Busy: true, PrevBusy: true},
		{Offset: 72, Size: 64, Busy: false, PrevBusy: true},
	}

	require.Equal(t, []Segment{{Busy: true, Width: 4}, {Busy: false, Width: 4}}, Segments(blocks, 128, 8))
	require.Equal(t, "####....", MapString(blocks, 128, 8))
	require.Equal(t, "#.", MapString(blocks, 128, 2))

	// More cells than bytes per block still covers every cell.
	require.Len(t, MapString(blocks, 128, 100), 100)

	require.Nil(t, Segments(nil, 128, 8))
	require.Nil(t, Segments(blocks, 0, 8))
	require.Nil(t, Segments(blocks, 128, 0))
}

func TestBuildReport(t *testing.T) {
	a := newTestAllocator(t)

	opts := DefaultOptions()
	opts.ShowBlocks = false
	report, err := BuildReport(a, opts)
	require.NoError(t, err)
	require.Equal(t, 4080, report.Capacity)
	require.Empty(t, report.Blocks)
	require.NotNil(t, report.Stats)
	require.Equal(t, 1, report.Usage.BusyBlocks)
}
