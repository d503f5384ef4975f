// Package token defines source position types shared by the AST and the
// binder. It mirrors the FileSet/Pos design of go/token (and of the
// teacher's lang/token package, whose tests this package's API is shaped
// to satisfy): a Pos is a small integer that is meaningless on its own and
// must be resolved against the FileSet that produced it.
package token

import "fmt"

// Pos is an opaque, comparable handle to a source location. Within a single
// FileSet, Pos values increase monotonically with file offset across all
// files registered in the set (each file reserves a contiguous range of Pos
// values starting at its base).
type Pos int

// NoPos is the zero value of Pos; it means "no position is known".
const NoPos Pos = 0

// IsValid reports whether p designates a valid position.
func (p Pos) IsValid() bool { return p != NoPos }

// Range is a half-open [Start, End) text range within one file.
type Range struct {
	Start, End Pos
}

// PosInside reports whether test is entirely inside ref (inclusive bounds),
// i.e. ref.Start <= test.Start && test.End <= ref.End.
func PosInside(ref, test interface{ Span() (Pos, Pos) }) bool {
	rs, re := ref.Span()
	ts, te := test.Span()
	return rs <= ts && te <= re
}

// PosAdjacent reports whether ref and test are on the same line, or on
// lines immediately following one another, according to f's line table.
// Order between ref and test does not matter.
func PosAdjacent(ref, test interface{ Span() (Pos, Pos) }, f *File) bool {
	rs, re := ref.Span()
	ts, te := test.Span()
	if rs > ts {
		rs, re, ts, te = ts, te, rs, re
	}
	_ = re // the end line of the earlier span is compared with the start line of the later one below
	reLine := f.Line(re)
	tsLine := f.Line(ts)
	if reLine == tsLine {
		return true
	}
	return tsLine-reLine == 1
}

// PosMode controls how FormatPos renders a position.
type PosMode int

// List of supported position formatting modes.
const (
	PosNone    PosMode = iota // render nothing
	PosRaw                    // render the raw Pos integer
	PosOffsets                // render the 0-based byte offset within its file
	PosLong                   // render "filename:line:col"
)

func (m PosMode) String() string {
	switch m {
	case PosNone:
		return "none"
	case PosRaw:
		return "raw"
	case PosOffsets:
		return "offsets"
	case PosLong:
		return "long"
	default:
		return fmt.Sprintf("PosMode(%d)", int(m))
	}
}

// FormatPos renders pos according to mode. withFilename controls whether
// PosLong includes the filename prefix.
func FormatPos(mode PosMode, f *File, pos Pos, withFilename bool) string {
	switch mode {
	case PosRaw:
		return fmt.Sprintf("%d", int(pos))
	case PosOffsets:
		if pos == NoPos {
			return "-"
		}
		return fmt.Sprintf("%d", f.Offset(pos))
	case PosLong:
		if pos == NoPos {
			if withFilename {
				return fmt.Sprintf("%s:-:-", f.Name())
			}
			return ":-:-"
		}
		line, col := f.Position(pos)
		if withFilename {
			return fmt.Sprintf("%s:%d:%d", f.Name(), line, col)
		}
		return fmt.Sprintf(":%d:%d", line, col)
	default:
		return ""
	}
}
