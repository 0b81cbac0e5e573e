package printer

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/joshuapare/heapkit/heap/alloc"
)

const (
	busyCell = '#'
	freeCell = '.'
)

// printText prints the block table, the optional map, and the summaries.
func (p *Printer) printText(blocks []alloc.Block, u alloc.Usage) error {
	if p.opts.ShowBlocks {
		if err := p.printBlocksText(blocks); err != nil {
			return err
		}
		fmt.Fprintln(p.writer)
	}

	if p.opts.ShowMap {
		fmt.Fprintf(p.writer, "[%s]\n\n", MapString(blocks, u.Capacity, p.opts.MapWidth))
	}

	p.printUsageText(u)

	if p.opts.ShowStats {
		fmt.Fprintln(p.writer)
		p.printStatsText(p.alloc.Stats())
	}
	return nil
}

func (p *Printer) printBlocksText(blocks []alloc.Block) error {
	tw := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "OFFSET\tSIZE\tSTATE\tPREV\tPAYLOAD\t")

	shown := blocks
	if p.opts.MaxBlocks > 0 && len(shown) > p.opts.MaxBlocks {
		shown = shown[:p.opts.MaxBlocks]
	}
	for _, b := range shown {
		payload := "-"
		if b.Busy {
			payload = b.Ptr().String()
		}
		fmt.Fprintf(tw, "0x%06x\t%s\t%s\t%s\t%s\t\n",
			b.Offset, p.num.Sprintf("%d", b.Size), state(b.Busy), state(b.PrevBusy), payload)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if hidden := len(blocks) - len(shown); hidden > 0 {
		fmt.Fprintf(p.writer, "... %s more blocks\n", p.num.Sprintf("%d", hidden))
	}
	return nil
}

func (p *Printer) printUsageText(u alloc.Usage) {
	fmt.Fprintf(p.writer, "Capacity:      %s\n", p.bytes(u.Capacity))
	fmt.Fprintf(p.writer, "Blocks:        %s (%s busy, %s free)\n",
		p.num.Sprintf("%d", u.Blocks), p.num.Sprintf("%d", u.BusyBlocks), p.num.Sprintf("%d", u.FreeBlocks))
	fmt.Fprintf(p.writer, "Busy:          %s\n", p.bytes(u.BusyBytes))
	fmt.Fprintf(p.writer, "Free:          %s\n", p.bytes(u.FreeBytes))
	fmt.Fprintf(p.writer, "Largest free:  %s\n", p.bytes(u.LargestFree))
	fmt.Fprintf(p.writer, "Max request:   %s\n", p.bytes(u.MaxRequest()))
	fmt.Fprintf(p.writer, "Fragmentation: %.1f%%\n", u.Fragmentation()*100)
}

func (p *Printer) printStatsText(s alloc.Stats) {
	fmt.Fprintf(p.writer, "Alloc calls:   %s (%s failed, %s split)\n",
		p.num.Sprintf("%d", s.AllocCalls), p.num.Sprintf("%d", s.AllocFailures), p.num.Sprintf("%d", s.SplitCount))
	fmt.Fprintf(p.writer, "Free calls:    %s (%s rejected)\n",
		p.num.Sprintf("%d", s.FreeCalls), p.num.Sprintf("%d", s.FreeRejected))
	fmt.Fprintf(p.writer, "Coalesced:     %s with previous, %s with next\n",
		p.num.Sprintf("%d", s.CoalescePrev), p.num.Sprintf("%d", s.CoalesceNext))
	fmt.Fprintf(p.writer, "Bytes:         %s allocated, %s freed\n",
		p.bytes64(s.BytesAllocated), p.bytes64(s.BytesFreed))
}

// bytes formats n as a grouped byte count, with an IEC size when enabled.
func (p *Printer) bytes(n int) string {
	return p.bytes64(int64(n))
}

func (p *Printer) bytes64(n int64) string {
	s := p.num.Sprintf("%d B", n)
	if p.opts.HumanSizes && n >= 1024 {
		s += " (" + humanize.IBytes(uint64(n)) + ")"
	}
	return s
}

func state(busy bool) string {
	if busy {
		return "busy"
	}
	return "free"
}

// MapString renders Segments as '#' for busy and '.' for free cells.
func MapString(blocks []alloc.Block, capacity, width int) string {
	var sb strings.Builder
	for _, seg := range Segments(blocks, capacity, width) {
		c := freeCell
		if seg.Busy {
			c = busyCell
		}
		sb.WriteString(strings.Repeat(string(c), seg.Width))
	}
	return sb.String()
}
