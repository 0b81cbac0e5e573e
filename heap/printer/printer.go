// Package printer renders the state of an allocator: its block map, a
// proportional occupancy map, and usage and activity summaries.
package printer

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/internal/format"
)

const (
	DefaultMaxBlocks = 0
	DefaultMapWidth  = 64
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs a human-readable table and summary.
	FormatText Format = "text"

	// FormatJSON outputs a single JSON document.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// ShowBlocks includes one row per block.
	// Default: true
	ShowBlocks bool

	// MaxBlocks limits how many block rows are printed (0 = unlimited).
	// Default: 0
	MaxBlocks int

	// ShowMap includes a proportional occupancy map (text format only).
	// Default: false
	ShowMap bool

	// MapWidth is the number of cells in the occupancy map.
	// Default: 64
	MapWidth int

	// ShowStats includes the allocator's activity counters.
	// Default: true
	ShowStats bool

	// HumanSizes appends IEC sizes (e.g. "4.0 KiB") to byte counts.
	// Default: true
	HumanSizes bool

	// Language selects digit grouping for counts.
	// Default: language.English
	Language language.Tag
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:     FormatText,
		ShowBlocks: true,
		MaxBlocks:  DefaultMaxBlocks,
		ShowMap:    false,
		MapWidth:   DefaultMapWidth,
		ShowStats:  true,
		HumanSizes: true,
		Language:   language.English,
	}
}

// Printer handles formatted output of one allocator.
type Printer struct {
	opts   Options
	writer io.Writer
	alloc  *alloc.Allocator
	num    *message.Printer
}

// New creates a new Printer.
//
// Example:
//
//	p := printer.New(a, os.Stdout, printer.DefaultOptions())
//	p.Print()
func New(a *alloc.Allocator, w io.Writer, opts Options) *Printer {
	if opts.MapWidth <= 0 {
		opts.MapWidth = DefaultMapWidth
	}
	if opts.Language == language.Und {
		opts.Language = language.English
	}
	return &Printer{
		opts:   opts,
		writer: w,
		alloc:  a,
		num:    message.NewPrinter(opts.Language),
	}
}

// Print renders a with opts to w.
func Print(w io.Writer, a *alloc.Allocator, opts Options) error {
	return New(a, w, opts).Print()
}

// Print renders the allocator in the configured format.
func (p *Printer) Print() error {
	blocks, err := p.alloc.Snapshot()
	if err != nil {
		return fmt.Errorf("walk heap: %w", err)
	}
	usage, err := p.alloc.Usage()
	if err != nil {
		return fmt.Errorf("usage: %w", err)
	}

	switch p.opts.Format {
	case FormatJSON:
		return p.printJSON(blocks, usage)
	case FormatText:
		return p.printText(blocks, usage)
	default:
		return p.printText(blocks, usage)
	}
}

// Segment is a run of map cells sharing one state.
type Segment struct {
	Busy  bool
	Width int
}

// Segments scales blocks onto width cells. Each cell takes the state of the
// block holding the byte at its midpoint, and adjacent cells with the same
// state are merged.
func Segments(blocks []alloc.Block, capacity, width int) []Segment {
	if capacity <= 0 || width <= 0 || len(blocks) == 0 {
		return nil
	}
	var segs []Segment
	bi := 0
	for i := range width {
		mid := format.HeapStart + (2*i+1)*capacity/(2*width)
		for bi < len(blocks)-1 && blocks[bi].End() <= mid {
			bi++
		}
		busy := blocks[bi].Busy
		if n := len(segs); n > 0 && segs[n-1].Busy == busy {
			segs[n-1].Width++
			continue
		}
		segs = append(segs, Segment{Busy: busy, Width: 1})
	}
	return segs
}
