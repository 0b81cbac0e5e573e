package printer

import (
	"encoding/json"
	"fmt"

	"github.com/joshuapare/heapkit/heap/alloc"
)

// Report is the JSON document describing one allocator.
type Report struct {
	Capacity  int         `json:"capacity"`
	EndMarker int         `json:"end_marker"`
	Backing   string      `json:"backing"`
	Blocks    []jsonBlock `json:"blocks,omitempty"`
	Truncated int         `json:"truncated_blocks,omitempty"`
	Usage     jsonUsage   `json:"usage"`
	Stats     *jsonStats  `json:"stats,omitempty"`
}

type jsonBlock struct {
	Offset   int    `json:"offset"`
	Size     int    `json:"size"`
	Busy     bool   `json:"busy"`
	PrevBusy bool   `json:"prev_busy"`
	Ptr      string `json:"ptr,omitempty"`
}

type jsonUsage struct {
	Blocks        int     `json:"blocks"`
	BusyBlocks    int     `json:"busy_blocks"`
	FreeBlocks    int     `json:"free_blocks"`
	BusyBytes     int     `json:"busy_bytes"`
	FreeBytes     int     `json:"free_bytes"`
	LargestFree   int     `json:"largest_free"`
	MaxRequest    int     `json:"max_request"`
	Fragmentation float64 `json:"fragmentation"`
}

type jsonStats struct {
	AllocCalls     int   `json:"alloc_calls"`
	AllocFailures  int   `json:"alloc_failures"`
	SplitCount     int   `json:"splits"`
	FreeCalls      int   `json:"free_calls"`
	FreeRejected   int   `json:"free_rejected"`
	CoalescePrev   int   `json:"coalesce_prev"`
	CoalesceNext   int   `json:"coalesce_next"`
	BytesAllocated int64 `json:"bytes_allocated"`
	BytesFreed     int64 `json:"bytes_freed"`
}

// printJSON prints the whole report as one indented JSON document.
func (p *Printer) printJSON(blocks []alloc.Block, u alloc.Usage) error {
	data, err := json.MarshalIndent(p.report(blocks, u), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

// BuildReport collects the JSON report for a without writing it, for callers
// that embed it in a larger document.
func BuildReport(a *alloc.Allocator, opts Options) (*Report, error) {
	blocks, err := a.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("walk heap: %w", err)
	}
	u, err := a.Usage()
	if err != nil {
		return nil, fmt.Errorf("usage: %w", err)
	}
	return New(a, nil, opts).report(blocks, u), nil
}

func (p *Printer) report(blocks []alloc.Block, u alloc.Usage) *Report {
	report := &Report{
		Capacity:  u.Capacity,
		EndMarker: p.alloc.EndMarker(),
		Backing:   p.alloc.Heap().Backing().String(),
		Usage: jsonUsage{
			Blocks:        u.Blocks,
			BusyBlocks:    u.BusyBlocks,
			FreeBlocks:    u.FreeBlocks,
			BusyBytes:     u.BusyBytes,
			FreeBytes:     u.FreeBytes,
			LargestFree:   u.LargestFree,
			MaxRequest:    u.MaxRequest(),
			Fragmentation: u.Fragmentation(),
		},
	}

	if p.opts.ShowBlocks {
		shown := blocks
		if p.opts.MaxBlocks > 0 && len(shown) > p.opts.MaxBlocks {
			shown = shown[:p.opts.MaxBlocks]
			report.Truncated = len(blocks) - len(shown)
		}
		report.Blocks = make([]jsonBlock, 0, len(shown))
		for _, b := range shown {
			jb := jsonBlock{Offset: b.Offset, Size: b.Size, Busy: b.Busy, PrevBusy: b.PrevBusy}
			if b.Busy {
				jb.Ptr = b.Ptr().String()
			}
			report.Blocks = append(report.Blocks, jb)
		}
	}

	if p.opts.ShowStats {
		s := p.alloc.Stats()
		report.Stats = &jsonStats{
			AllocCalls:     s.AllocCalls,
			AllocFailures:  s.AllocFailures,
			SplitCount:     s.SplitCount,
			FreeCalls:      s.FreeCalls,
			FreeRejected:   s.FreeRejected,
			CoalescePrev:   s.CoalescePrev,
			CoalesceNext:   s.CoalesceNext,
			BytesAllocated: s.BytesAllocated,
			BytesFreed:     s.BytesFreed,
		}
	}

	return report
}
