package trace

import (
	"errors"
	"fmt"

	"github.com/joshuapare/heapkit/heap/alloc"
)

var (
	// ErrNameInUse indicates an alloc named a pointer that is still live.
	ErrNameInUse = errors.New("trace: name already allocated")

	// ErrUnknownName indicates a free named no live pointer.
	ErrUnknownName = errors.New("trace: unknown name")
)

// Allocator is the allocator surface Replay drives. *alloc.Allocator
// satisfies it.
type Allocator interface {
	Alloc(size int) (alloc.Ptr, []byte, error)
	Free(p alloc.Ptr) error
	Check() error
}

// OpResult records the outcome of one operation.
type OpResult struct {
	Op  Op
	Ptr alloc.Ptr // OpAlloc: the returned pointer; OpFree: the released pointer
	Err error     // ErrNoSpace or ErrInvalidSize for a failed alloc
}

// Result summarizes a replay.
type Result struct {
	Ops    []OpResult
	Allocs int // successful allocations
	Failed int // allocations that returned an error
	Frees  int
	Checks int

	// Live maps names to pointers not yet freed when the script ended.
	Live map[string]alloc.Ptr
}

// Replay runs s against a in order. Allocation failures are recorded in the
// result and do not stop the replay; a failed alloc leaves its name unbound.
// Misused names, rejected frees, and failed checks stop the replay and return
// the partial result with an error naming the line.
func Replay(a Allocator, s *Script) (*Result, error) {
	res := &Result{
		Ops:  make([]OpResult, 0, len(s.Ops)),
		Live: make(map[string]alloc.Ptr),
	}

	for _, op := range s.Ops {
		r := OpResult{Op: op}

		switch op.Kind {
		case OpAlloc:
			if _, ok := res.Live[op.Name]; ok {
				return res, fmt.Errorf("trace: line %d: %w: %q", op.Line, ErrNameInUse, op.Name)
			}
			p, _, err := a.Alloc(op.Size)
			switch {
			case err == nil:
				res.Live[op.Name] = p
				res.Allocs++
				r.Ptr = p
			case errors.Is(err, alloc.ErrNoSpace), errors.Is(err, alloc.ErrInvalidSize):
				res.Failed++
				r.Err = err
			default:
				return res, fmt.Errorf("trace: line %d: alloc %q: %w", op.Line, op.Name, err)
			}

		case OpFree:
			p, ok := res.Live[op.Name]
			if !ok {
				return res, fmt.Errorf("trace: line %d: %w: %q", op.Line, ErrUnknownName, op.Name)
			}
			if err := a.Free(p); err != nil {
				return res, fmt.Errorf("trace: line %d: free %q: %w", op.Line, op.Name, err)
			}
			delete(res.Live, op.Name)
			res.Frees++
			r.Ptr = p

		case OpCheck:
			if err := a.Check(); err != nil {
				return res, fmt.Errorf("trace: line %d: %w", op.Line, err)
			}
			res.Checks++

		default:
			return res, fmt.Errorf("trace: line %d: unsupported operation %v", op.Line, op.Kind)
		}

		res.Ops = append(res.Ops, r)
	}
	return res, nil
}
