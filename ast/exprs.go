package ast

import "github.com/mna/pybind/token"

// Name is a bare identifier reference, e.g. `x`. The binder fills in
// nothing on the node itself (unlike the teacher's IdentExpr.Binding
// field) — resolution results live in the side table, keyed by node ID,
// per spec.md §3 "AST side-table" / "Side table, not monkey-patching".
type Name struct {
	base
	Value string
}

func (n *Name) Kind() string   { return "name" }
func (n *Name) expr()          {}
func (n *Name) Walk(Visitor)   {}

func NewName(start, end token.Pos, value string) *Name {
	return &Name{base: newBase(start, end), Value: value}
}

// Attribute represents `left.attr`.
type Attribute struct {
	base
	Left Expr
	Attr string
}

func (n *Attribute) Kind() string   { return "attribute" }
func (n *Attribute) expr()          {}
func (n *Attribute) Walk(v Visitor) { Walk(v, n.Left) }

// Subscript represents `prefix[index]`.
type Subscript struct {
	base
	Prefix Expr
	Index  Expr
}

func (n *Subscript) Kind() string { return "subscript" }
func (n *Subscript) expr()        {}
func (n *Subscript) Walk(v Visitor) {
	Walk(v, n.Prefix)
	Walk(v, n.Index)
}

// Arg is one positional or keyword call argument.
type Arg struct {
	base
	Name  string // empty for positional args
	Value Expr
	Star  bool // *args unpack
	Star2 bool // **kwargs unpack
}

func (n *Arg) Kind() string   { return "arg" }
func (n *Arg) Walk(v Visitor) { Walk(v, n.Value) }

// Call represents `fn(args...)`.
type Call struct {
	base
	Fn   Expr
	Args []*Arg
}

func (n *Call) Kind() string { return "call" }
func (n *Call) expr()        {}
func (n *Call) Walk(v Visitor) {
	Walk(v, n.Fn)
	for _, a := range n.Args {
		Walk(v, a)
	}
}

// BinOp represents `left op right`, including comparisons and boolean
// `and`/`or`. Op is one of the textual operator spellings ("+", "==",
// "is", "is not", "in", "not in", "and", "or", ...); this is a deliberate
// simplification over a full token-kind enum, since the narrowing
// analyzer (spec.md §4.4) and the binder's short-circuit handling
// (§4.3) only ever switch on the operator's textual identity.
type BinOp struct {
	base
	Op    string
	Left  Expr
	Right Expr
}

func (n *BinOp) Kind() string { return "binop" }
func (n *BinOp) expr()        {}
func (n *BinOp) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}

// UnaryOp represents `op operand`, e.g. `not x`, `-x`.
type UnaryOp struct {
	base
	Op      string
	Operand Expr
}

func (n *UnaryOp) Kind() string   { return "unaryop" }
func (n *UnaryOp) expr()          {}
func (n *UnaryOp) Walk(v Visitor) { Walk(v, n.Operand) }

// IfExp represents the ternary `body if test else orelse`.
type IfExp struct {
	base
	Test   Expr
	Body   Expr
	Orelse Expr
}

func (n *IfExp) Kind() string { return "ifexp" }
func (n *IfExp) expr()        {}
func (n *IfExp) Walk(v Visitor) {
	Walk(v, n.Test)
	Walk(v, n.Body)
	Walk(v, n.Orelse)
}

// SequenceKind distinguishes the bracket kind of a Sequence expression.
type SequenceKind uint8

// List of supported SequenceKind values.
const (
	TupleSeq SequenceKind = iota
	ListSeq
	SetSeq
)

func (k SequenceKind) String() string {
	switch k {
	case TupleSeq:
		return "tuple"
	case ListSeq:
		return "list"
	case SetSeq:
		return "set"
	default:
		return "sequence"
	}
}

// Sequence represents a tuple/list/set display, e.g. `(a, b)`, `[a, b]`,
// `{a, b}`.
type Sequence struct {
	base
	SeqKind SequenceKind
	Items   []Expr
}

func (n *Sequence) Kind() string { return n.SeqKind.String() }
func (n *Sequence) expr()        {}
func (n *Sequence) Walk(v Visitor) {
	for _, it := range n.Items {
		Walk(v, it)
	}
}

// DictItem is one `key: value` entry of a dict display, or `**value` if Key
// is nil (dict unpack).
type DictItem struct {
	base
	Key   Expr // nil for ** unpack
	Value Expr
}

func (n *DictItem) Kind() string { return "dictitem" }
func (n *DictItem) Walk(v Visitor) {
	if n.Key != nil {
		Walk(v, n.Key)
	}
	Walk(v, n.Value)
}

// Dict represents a dict display `{k: v, ...}`.
type Dict struct {
	base
	Items []*DictItem
}

func (n *Dict) Kind() string { return "dict" }
func (n *Dict) expr()        {}
func (n *Dict) Walk(v Visitor) {
	for _, it := range n.Items {
		Walk(v, it)
	}
}

// StringLit represents one (possibly implicitly concatenated) string
// literal. Raw holds the literal source text, Value the best-effort
// decoded value (unused by the binder except where __all__/__slots__
// recognition requires literal string values, spec.md §4.5-§4.6).
type StringLit struct {
	base
	Raw, Value string
	IsBytes    bool
	IsFString  bool
}

func (n *StringLit) Kind() string { return "string" }
func (n *StringLit) expr()        {}
func (n *StringLit) Walk(Visitor) {}

// NumberLit represents an int or float literal.
type NumberLit struct {
	base
	Raw string
}

func (n *NumberLit) Kind() string { return "number" }
func (n *NumberLit) expr()        {}
func (n *NumberLit) Walk(Visitor) {}

// ConstKind distinguishes the handful of Python keyword constants.
type ConstKind uint8

// List of supported ConstKind values.
const (
	ConstTrue ConstKind = iota
	ConstFalse
	ConstNone
	ConstEllipsis
)

// Const represents `True`, `False`, `None` or `...`.
type Const struct {
	base
	ConstKind ConstKind
}

func (n *Const) Kind() string { return "const" }
func (n *Const) expr()        {}
func (n *Const) Walk(Visitor) {}

// Lambda represents `lambda params: body`.
type Lambda struct {
	base
	Params []*Parameter
	Body   Expr
}

func (n *Lambda) Kind() string { return "lambda" }
func (n *Lambda) expr()        {}
func (n *Lambda) Walk(v Visitor) {
	for _, p := range n.Params {
		Walk(v, p)
	}
	Walk(v, n.Body)
}

// CompForClause is one `for target in iter [if cond]*` clause of a
// comprehension.
type CompForClause struct {
	base
	Target  Expr
	Iter    Expr
	Ifs     []Expr
	IsAsync bool
}

func (n *CompForClause) Kind() string { return "compfor" }
func (n *CompForClause) Walk(v Visitor) {
	Walk(v, n.Iter)
	Walk(v, n.Target)
	for _, c := range n.Ifs {
		Walk(v, c)
	}
}

// ComprehensionKind distinguishes the four Python comprehension shapes.
type ComprehensionKind uint8

// List of supported ComprehensionKind values.
const (
	ListComp ComprehensionKind = iota
	SetComp
	DictComp
	GeneratorExp
)

// Comprehension represents a list/set/dict comprehension or a generator
// expression. For DictComp, Value holds the key expression and ValueKey
// holds the value expression (both are required); for the others only
// Value is used.
type Comprehension struct {
	base
	CompKind ComprehensionKind
	Value    Expr
	ValueKey Expr // only set when CompKind == DictComp (Value is the key there)
	Clauses  []*CompForClause
}

func (n *Comprehension) Kind() string {
	switch n.CompKind {
	case ListComp:
		return "listcomp"
	case SetComp:
		return "setcomp"
	case DictComp:
		return "dictcomp"
	default:
		return "generatorexp"
	}
}
func (n *Comprehension) expr() {}
func (n *Comprehension) Walk(v Visitor) {
	// The first clause's Iter is evaluated in the enclosing scope (spec.md
	// §4.3 "Comprehensions"); the binder special-cases this, the AST walk
	// order here is purely textual (first clause first).
	for _, c := range n.Clauses {
		Walk(v, c)
	}
	Walk(v, n.Value)
	if n.ValueKey != nil {
		Walk(v, n.ValueKey)
	}
}

// NamedExpr represents the walrus operator `target := value`.
type NamedExpr struct {
	base
	Target *Name
	Value  Expr
}

func (n *NamedExpr) Kind() string { return "namedexpr" }
func (n *NamedExpr) expr()        {}
func (n *NamedExpr) Walk(v Visitor) {
	Walk(v, n.Value)
	Walk(v, n.Target)
}

// Yield represents `yield [value]`.
type Yield struct {
	base
	Value Expr // optional
}

func (n *Yield) Kind() string { return "yield" }
func (n *Yield) expr()        {}
func (n *Yield) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}

// YieldFrom represents `yield from value`.
type YieldFrom struct {
	base
	Value Expr
}

func (n *YieldFrom) Kind() string   { return "yieldfrom" }
func (n *YieldFrom) expr()          {}
func (n *YieldFrom) Walk(v Visitor) { Walk(v, n.Value) }

// Await represents `await value`.
type Await struct {
	base
	Value Expr
}

func (n *Await) Kind() string   { return "await" }
func (n *Await) expr()          {}
func (n *Await) Walk(v Visitor) { Walk(v, n.Value) }

// Starred represents `*value`, used as an assignment target or call/display
// unpack.
type Starred struct {
	base
	Value Expr
}

func (n *Starred) Kind() string   { return "starred" }
func (n *Starred) expr()          {}
func (n *Starred) Walk(v Visitor) { Walk(v, n.Value) }
