package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/printer"
)

var (
	// Color palette
	busyColor  = lipgloss.Color("#7D56F4")
	freeColor  = lipgloss.Color("#04B575")
	mutedColor = lipgloss.Color("#666666")
	errorColor = lipgloss.Color("#FF4B4B")

	busyStyle = lipgloss.NewStyle().Foreground(busyColor)
	freeStyle = lipgloss.NewStyle().Foreground(freeColor)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(busyColor)

	legendStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	failStyle = lipgloss.NewStyle().
			Foreground(errorColor)
)

const (
	busyGlyph = "█"
	freeGlyph = "░"
)

// renderMap draws the occupancy bar. With --no-color it falls back to the
// plain '#'/'.' rendering.
func renderMap(blocks []alloc.Block, capacity, width int) string {
	if noColor {
		return "[" + printer.MapString(blocks, capacity, width) + "]"
	}
	var sb strings.Builder
	for _, seg := range printer.Segments(blocks, capacity, width) {
		if seg.Busy {
			sb.WriteString(busyStyle.Render(strings.Repeat(busyGlyph, seg.Width)))
		} else {
			sb.WriteString(freeStyle.Render(strings.Repeat(freeGlyph, seg.Width)))
		}
	}
	legend := legendStyle.Render(busyGlyph + " busy  " + freeGlyph + " free")
	return sb.String() + "\n" + legend
}

// styled applies s unless color is disabled.
func styled(s lipgloss.Style, text string) string {
	if noColor {
		return text
	}
	return s.Render(text)
}
