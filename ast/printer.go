package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/mna/pybind/token"
)

// Printer pretty-prints an AST as an indented tree of node kinds and
// positions, the same debugging role the teacher's ast.Printer plays for
// the resolved Lua-like AST.
type Printer struct {
	// Output is the writer to print to.
	Output io.Writer

	// Pos controls how node positions are rendered; PosNone omits them.
	Pos token.PosMode
}

// Print walks n and writes an indented dump to p.Output. file is required
// unless p.Pos == token.PosNone.
func (p *Printer) Print(n Node, file *token.File) error {
	pp := &printer{w: p.Output, pos: p.Pos, file: file}
	Walk(pp, n)
	return pp.err
}

type printer struct {
	w     io.Writer
	pos   token.PosMode
	file  *token.File
	depth int
	err   error
}

func (p *printer) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitExit || p.err != nil {
		p.depth--
		return nil
	}
	p.depth++

	indent := strings.Repeat("  ", p.depth-1)
	start, _ := n.Span()
	posStr := ""
	if p.pos != token.PosNone {
		posStr = " @" + token.FormatPos(p.pos, p.file, start, false)
	}
	if _, err := fmt.Fprintf(p.w, "%s%s%s\n", indent, n.Kind(), posStr); err != nil {
		p.err = err
		return nil
	}
	return p
}
