// Package trace parses and replays allocation scripts.
//
// A script is plain text with one operation per line:
//
//	alloc <name> <size>   # aliases: a, malloc
//	free <name>           # aliases: f
//	check                 # verify heap invariants
//
// Sizes are decimal byte counts or humanized sizes such as "4KiB". Text after
// '#' is a comment and blank lines are ignored.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

const commentPrefix = "#"

// OpKind identifies a script operation.
type OpKind uint8

const (
	OpAlloc OpKind = iota
	OpFree
	OpCheck
)

func (k OpKind) String() string {
	switch k {
	case OpAlloc:
		return "alloc"
	case OpFree:
		return "free"
	case OpCheck:
		return "check"
	default:
		return fmt.Sprintf("OpKind(%d)", uint8(k))
	}
}

// Op is one parsed script line.
type Op struct {
	Kind OpKind
	Name string // empty for OpCheck
	Size int    // OpAlloc only; may be zero or negative
	Line int    // 1-based source line
}

// Script is a parsed trace.
type Script struct {
	Ops []Op
}

// ParseError reports a malformed script line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("trace: line %d: %s", e.Line, e.Msg)
}

// ParseFile reads and parses the script at path.
func ParseFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a script from r.
func Parse(r io.Reader) (*Script, error) {
	scanner := bufio.NewScanner(r)
	s := &Script{}
	line := 0

	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.Index(text, commentPrefix); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		op, err := parseOp(fields, line)
		if err != nil {
			return nil, err
		}
		s.Ops = append(s.Ops, op)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

func parseOp(fields []string, line int) (Op, error) {
	verb := strings.ToLower(fields[0])
	args := fields[1:]

	switch verb {
	case "alloc", "a", "malloc":
		if len(args) != 2 {
			return Op{}, &ParseError{Line: line, Msg: fmt.Sprintf("%s takes <name> <size>, got %d arguments", verb, len(args))}
		}
		size, err := parseSize(args[1])
		if err != nil {
			return Op{}, &ParseError{Line: line, Msg: fmt.Sprintf("bad size %q", args[1])}
		}
		return Op{Kind: OpAlloc, Name: args[0], Size: size, Line: line}, nil

	case "free", "f":
		if len(args) != 1 {
			return Op{}, &ParseError{Line: line, Msg: fmt.Sprintf("%s takes <name>, got %d arguments", verb, len(args))}
		}
		return Op{Kind: OpFree, Name: args[0], Line: line}, nil

	case "check":
		if len(args) != 0 {
			return Op{}, &ParseError{Line: line, Msg: "check takes no arguments"}
		}
		return Op{Kind: OpCheck, Line: line}, nil

	default:
		return Op{}, &ParseError{Line: line, Msg: fmt.Sprintf("unknown operation %q", fields[0])}
	}
}

// parseSize accepts signed decimal integers, so invalid requests can be
// scripted, and falls back to humanized sizes.
func parseSize(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	if n > uint64(^uint(0)>>1) {
		return 0, strconv.ErrRange
	}
	return int(n), nil
}
