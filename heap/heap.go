package heap

import (
	"context"
	"errors"
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

var (
	// ErrTooSmall indicates the region cannot hold even the end marker.
	ErrTooSmall = errors.New("heap: region too small")

	// ErrUnsupported indicates the requested backing is unavailable on this platform.
	ErrUnsupported = errors.New("heap: backing not supported on this platform")

	// ErrClosed indicates the heap was used after Close.
	ErrClosed = errors.New("heap: closed")

	// ErrTooLarge indicates a requested size above MaxHeapSize.
	ErrTooLarge = errors.New("heap: region too large")
)

// MaxHeapSize is the largest region New and OpenFile will reserve (1 TiB).
const MaxHeapSize = 1 << 40

// Backing selects where the region's bytes come from.
type Backing uint8

const (
	// BackingAuto uses BackingMmap where available and BackingGo otherwise.
	BackingAuto Backing = iota
	// BackingMmap reserves an anonymous private mapping from the OS.
	BackingMmap
	// BackingGo allocates the region as a Go byte slice.
	BackingGo
	// BackingCaller marks regions wrapped with FromBytes.
	BackingCaller
	// BackingFile marks regions mapped shared from a file with OpenFile.
	BackingFile
)

func (b Backing) String() string {
	switch b {
	case BackingAuto:
		return "auto"
	case BackingMmap:
		return "mmap"
	case BackingGo:
		return "go"
	case BackingCaller:
		return "caller"
	case BackingFile:
		return "file"
	default:
		return fmt.Sprintf("Backing(%d)", uint8(b))
	}
}

// ParseBacking maps a flag value ("auto", "mmap", "go") to a Backing.
func ParseBacking(s string) (Backing, error) {
	switch s {
	case "", "auto":
		return BackingAuto, nil
	case "mmap":
		return BackingMmap, nil
	case "go":
		return BackingGo, nil
	default:
		return BackingAuto, fmt.Errorf("heap: unknown backing %q", s)
	}
}

// Options configures region reservation.
type Options struct {
	// Backing selects the memory source.
	// Default: BackingAuto
	Backing Backing

	// Prefault touches every page right after reservation so that first-use
	// page faults do not land inside allocator calls. Only meaningful for
	// BackingMmap.
	// Default: false
	Prefault bool
}

// Heap is a reserved, fixed-size region.
type Heap struct {
	data    []byte
	backing Backing
	release func() error
	sync    func() error
}

// New reserves a region of size bytes.
func New(size int, opts *Options) (*Heap, error) {
	if opts == nil {
		opts = &Options{}
	}
	if err := checkSize(size); err != nil {
		return nil, err
	}

	backing := opts.Backing
	if backing == BackingAuto {
		backing = BackingGo
		if mmapSupported {
			backing = BackingMmap
		}
	}

	switch backing {
	case BackingMmap:
		data, release, err := reserve(size)
		if err != nil {
			return nil, err
		}
		if opts.Prefault {
			if err := prefault(data); err != nil {
				_ = release()
				return nil, fmt.Errorf("heap: prefault: %w", err)
			}
		}
		return &Heap{data: data, backing: BackingMmap, release: release}, nil
	case BackingGo:
		return &Heap{data: make([]byte, size), backing: BackingGo}, nil
	default:
		return nil, fmt.Errorf("heap: cannot reserve with backing %s", backing)
	}
}

func checkSize(size int) error {
	if size < format.MinHeapSize {
		return fmt.Errorf("%w: %d bytes (need at least %d)", ErrTooSmall, size, format.MinHeapSize)
	}
	if uint64(size) > MaxHeapSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, size, uint64(MaxHeapSize))
	}
	return nil
}

// FromBytes wraps a caller-owned region. The caller keeps ownership of b's
// storage; Close does not release it.
func FromBytes(b []byte) (*Heap, error) {
	if len(b) < format.MinHeapSize {
		return nil, fmt.Errorf("%w: %d bytes (need at least %d)", ErrTooSmall, len(b), format.MinHeapSize)
	}
	return &Heap{data: b, backing: BackingCaller}, nil
}

// Bytes returns the whole region. Nil after Close.
func (h *Heap) Bytes() []byte {
	if h == nil {
		return nil
	}
	return h.data
}

// Size returns the region length in bytes.
func (h *Heap) Size() int {
	if h == nil {
		return 0
	}
	return len(h.data)
}

// Backing reports where the region came from.
func (h *Heap) Backing() Backing { return h.backing }

// Closed reports whether Close has run.
func (h *Heap) Closed() bool { return h == nil || h.data == nil }

// Flush writes a file-backed region to its file and waits for the device.
// It is a no-op for every other backing.
func (h *Heap) Flush(ctx context.Context) error {
	if h.Closed() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if h.sync == nil {
		return nil
	}
	return h.sync()
}

// Close returns OS-backed memory and drops the region. Calling Close more
// than once is a no-op.
func (h *Heap) Close() error {
	if h == nil || h.data == nil {
		return nil
	}
	var err error
	if h.release != nil {
		err = h.release()
		h.release = nil
	}
	h.sync = nil
	h.data = nil
	return err
}
