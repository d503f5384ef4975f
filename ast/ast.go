// Package ast defines the abstract syntax tree fed to the binder. The
// tokenizer and parser that produce it are external collaborators (see
// spec.md §1, §6) and are not part of this module; this package only
// declares the node shapes the binder walks, in the same Node/Span/Walk
// style as the teacher's lang/ast package.
package ast

import (
	"github.com/mna/pybind/token"
)

// ID is a small integer assigned to every node at construction time. The
// binder's side table is keyed by ID rather than by pointer identity so
// that it can use a flat, open-addressed map instead of chasing pointers.
type ID int

// idGen is process-wide so that fixtures built across multiple test files
// never collide; it is not reset between binder runs because the same
// node ID uniqueness guarantee the spec asks of flow-node IDs (§5) applies
// here too — monotonic increase is all that's required.
var idGen int

// NewID returns a fresh node ID. Parsers (and, in this module, test
// fixtures standing in for a parser) call this once per node.
func NewID() ID {
	idGen++
	return ID(idGen)
}

// Node is implemented by every AST node.
type Node interface {
	// NodeID returns the node's unique identifier.
	NodeID() ID

	// Kind returns a short, human-readable label for the node's concrete
	// type, e.g. "if", "call", "name". Used by debug printing only.
	Kind() string

	// Span reports the node's start and end position.
	Span() (start, end token.Pos)

	// Walk calls v.Visit for each direct child of the node, in source order.
	Walk(v Visitor)
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmt()

	// BlockEnding reports whether this statement can only be the last one in
	// its block (return, break, continue, raise).
	BlockEnding() bool
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	expr()
}

// Pattern is implemented by every match/case pattern node.
type Pattern interface {
	Node
	pattern()
}

// base is embedded by every concrete node to provide ID and Span without
// repeating the boilerplate, the same role the teacher's per-node Span
// method plays, just factored into one struct instead of being hand
// written per node.
type base struct {
	ID         ID
	Start, End token.Pos
}

func (b *base) NodeID() ID                   { return b.ID }
func (b *base) Span() (start, end token.Pos) { return b.Start, b.End }

func newBase(start, end token.Pos) base { return base{ID: NewID(), Start: start, End: end} }

// VisitDirection indicates whether a call to Visit enters or exits a node.
type VisitDirection int

// List of visit directions.
const (
	VisitEnter VisitDirection = iota
	VisitExit
)

// Visitor defines the method to implement to walk an AST. A node's
// children can be skipped by returning a nil Visitor from the call to
// Visit, identical to the teacher's ast.Visitor contract.
type Visitor interface {
	Visit(n Node, dir VisitDirection) (w Visitor)
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(n Node, dir VisitDirection) Visitor

// Visit implements Visitor.
func (f VisitorFunc) Visit(n Node, dir VisitDirection) Visitor { return f(n, dir) }

// Walk visits node and its descendants with v.
func Walk(v Visitor, node Node) {
	if node == nil {
		return
	}
	if v = v.Visit(node, VisitEnter); v == nil {
		return
	}
	node.Walk(v)
	v.Visit(node, VisitExit)
}
