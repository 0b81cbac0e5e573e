package alloc

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/heapkit/internal/format"
)

// Ptr is a payload offset within the heap region. Payloads never start at
// offset 0, so the zero value is the null pointer.
type Ptr int

// Nil is the null pointer. Free(Nil) is a no-op.
const Nil Ptr = 0

func (p Ptr) String() string {
	if p == Nil {
		return "nil"
	}
	return fmt.Sprintf("0x%x", int(p))
}

// Block describes one block of the heap in address order.
type Block struct {
	Offset   int  // Header offset within the region
	Size     int  // Total size including header (and footer when free)
	Busy     bool // Allocated
	PrevBusy bool // Preceding block is allocated
}

// Ptr returns the payload pointer of the block.
func (b Block) Ptr() Ptr { return Ptr(b.Offset + format.HeaderSize) }

// PayloadSize returns the bytes available to the caller while the block is busy.
func (b Block) PayloadSize() int { return b.Size - format.HeaderSize }

// End returns the offset one past the block.
func (b Block) End() int { return b.Offset + b.Size }

// Validation selects how thoroughly Free checks its pointer argument.
type Validation uint8

const (
	// ValidateBounds rejects pointers that are misaligned, outside the block
	// area, or whose header does not decode to a block that fits.
	ValidateBounds Validation = iota

	// ValidateNone only checks the BUSY flag. A pointer Alloc did not return
	// is a precondition violation and may corrupt the heap.
	ValidateNone

	// ValidateStrict adds a walk from the start of the heap to confirm the
	// pointer names the start of a block. O(n) per Free.
	ValidateStrict
)

func (v Validation) String() string {
	switch v {
	case ValidateBounds:
		return "bounds"
	case ValidateNone:
		return "none"
	case ValidateStrict:
		return "strict"
	default:
		return fmt.Sprintf("Validation(%d)", uint8(v))
	}
}

// ParseValidation maps a flag value ("none", "bounds", "strict") to a Validation.
func ParseValidation(s string) (Validation, error) {
	switch s {
	case "", "bounds":
		return ValidateBounds, nil
	case "none":
		return ValidateNone, nil
	case "strict":
		return ValidateStrict, nil
	default:
		return ValidateBounds, fmt.Errorf("alloc: unknown validation %q", s)
	}
}

// Options configures an Allocator.
type Options struct {
	// Validation controls pointer checks in Free.
	// Default: ValidateBounds
	Validation Validation

	// Logger receives debug records for splits, merges and failures.
	// Default: discard, or stderr when HEAPKIT_LOG_ALLOC is set
	Logger *slog.Logger
}
