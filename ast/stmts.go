package ast

import "github.com/mna/pybind/token"

// Block is a sequence of statements sharing one lexical suite, the
// equivalent of Python's indented block. It plays the role the teacher's
// ast.Block plays for Lua chunks.
type Block struct {
	base
	Stmts []Stmt
}

func (n *Block) Kind() string { return "block" }
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}

// NewBlock builds a Block fixture; parsers (and test fixtures) set Start/End
// to the span of the first and last statement.
func NewBlock(start, end token.Pos, stmts ...Stmt) *Block {
	return &Block{base: newBase(start, end), Stmts: stmts}
}

// Module is the root node of one file.
type Module struct {
	base
	Name string // dotted module name, e.g. "pkg.sub"
	Body *Block
}

func (n *Module) Kind() string { return "module" }
func (n *Module) stmt()        {}
func (n *Module) BlockEnding() bool { return false }
func (n *Module) Walk(v Visitor) {
	if n.Body != nil {
		Walk(v, n.Body)
	}
}

func NewModule(name string, body *Block) *Module {
	start, end := token.NoPos, token.NoPos
	if body != nil {
		start, end = body.Span()
	}
	return &Module{base: newBase(start, end), Name: name, Body: body}
}

// Parameter is one formal parameter of a function.
type Parameter struct {
	base
	Name       *Name
	Annotation Expr // optional
	Default    Expr // optional
	IsVarArg   bool // *args
	IsKwArg    bool // **kwargs
	KeywordOnly bool
	PosOnly    bool
}

func (n *Parameter) Kind() string { return "param" }
func (n *Parameter) Walk(v Visitor) {
	if n.Name != nil {
		Walk(v, n.Name)
	}
	if n.Annotation != nil {
		Walk(v, n.Annotation)
	}
	if n.Default != nil {
		Walk(v, n.Default)
	}
}

// TypeParam is one entry of a PEP-695 `[P]`, `[P: Bound]` or `[P = Default]`
// type-parameter list on a function, class or type alias.
type TypeParam struct {
	base
	Name    *Name
	Bound   Expr // optional, from `P: Bound`
	Default Expr // optional, from `P = Default`
	IsVarArg bool // `*Ts`
	IsVarKw  bool // `**Kw`
}

func (n *TypeParam) Kind() string { return "typeparam" }
func (n *TypeParam) Walk(v Visitor) {
	if n.Name != nil {
		Walk(v, n.Name)
	}
	if n.Bound != nil {
		Walk(v, n.Bound)
	}
	if n.Default != nil {
		Walk(v, n.Default)
	}
}

// FunctionDef represents `def name(...): ...` or `async def name(...): ...`.
type FunctionDef struct {
	base
	Name        *Name
	Params      []*Parameter
	TypeParams  []*TypeParam
	Returns     Expr // optional return annotation
	Body        *Block
	Decorators  []Expr
	IsAsync     bool
	DocString   string // empty if none
}

func (n *FunctionDef) Kind() string { return "funcdef" }
func (n *FunctionDef) stmt()        {}
func (n *FunctionDef) BlockEnding() bool { return false }
func (n *FunctionDef) Walk(v Visitor) {
	for _, d := range n.Decorators {
		Walk(v, d)
	}
	if n.Name != nil {
		Walk(v, n.Name)
	}
	for _, tp := range n.TypeParams {
		Walk(v, tp)
	}
	for _, p := range n.Params {
		Walk(v, p)
	}
	if n.Returns != nil {
		Walk(v, n.Returns)
	}
	if n.Body != nil {
		Walk(v, n.Body)
	}
}

// ClassDef represents `class Name(bases, **kwargs): ...`.
type ClassDef struct {
	base
	Name       *Name
	Bases      []Expr
	Keywords   []*Keyword
	TypeParams []*TypeParam
	Body       *Block
	Decorators []Expr
	DocString  string
}

func (n *ClassDef) Kind() string { return "classdef" }
func (n *ClassDef) stmt()        {}
func (n *ClassDef) BlockEnding() bool { return false }
func (n *ClassDef) Walk(v Visitor) {
	for _, d := range n.Decorators {
		Walk(v, d)
	}
	if n.Name != nil {
		Walk(v, n.Name)
	}
	for _, tp := range n.TypeParams {
		Walk(v, tp)
	}
	for _, b := range n.Bases {
		Walk(v, b)
	}
	for _, k := range n.Keywords {
		Walk(v, k)
	}
	if n.Body != nil {
		Walk(v, n.Body)
	}
}

// Keyword is a `name=value` keyword argument or base-class keyword.
type Keyword struct {
	base
	Name  string // empty for **kwargs unpack
	Value Expr
}

func (n *Keyword) Kind() string   { return "keyword" }
func (n *Keyword) Walk(v Visitor) { Walk(v, n.Value) }

// Assign represents `targets = value` (possibly chained: `a = b = value`).
type Assign struct {
	base
	Targets    []Expr
	Value      Expr
	Annotation Expr // non-nil for `name: T = value`
}

func (n *Assign) Kind() string { return "assign" }
func (n *Assign) stmt()        {}
func (n *Assign) BlockEnding() bool { return false }
func (n *Assign) Walk(v Visitor) {
	Walk(v, n.Value)
	if n.Annotation != nil {
		Walk(v, n.Annotation)
	}
	for _, t := range n.Targets {
		Walk(v, t)
	}
}

// AnnAssign represents a bare annotation `name: T` with no value.
type AnnAssign struct {
	base
	Target     Expr
	Annotation Expr
}

func (n *AnnAssign) Kind() string { return "annassign" }
func (n *AnnAssign) stmt()        {}
func (n *AnnAssign) BlockEnding() bool { return false }
func (n *AnnAssign) Walk(v Visitor) {
	Walk(v, n.Annotation)
	Walk(v, n.Target)
}

// AugAssign represents `target op= value`, e.g. `x += 1`.
type AugAssign struct {
	base
	Target Expr
	Op     string // "+", "-", "*", ...
	Value  Expr
}

func (n *AugAssign) Kind() string { return "augassign" }
func (n *AugAssign) stmt()        {}
func (n *AugAssign) BlockEnding() bool { return false }
func (n *AugAssign) Walk(v Visitor) {
	Walk(v, n.Value)
	Walk(v, n.Target)
}

// TypeAliasStmt represents `type X[P] = expr` (PEP 695).
type TypeAliasStmt struct {
	base
	Name       *Name
	TypeParams []*TypeParam
	Value      Expr
}

func (n *TypeAliasStmt) Kind() string { return "typealias" }
func (n *TypeAliasStmt) stmt()        {}
func (n *TypeAliasStmt) BlockEnding() bool { return false }
func (n *TypeAliasStmt) Walk(v Visitor) {
	Walk(v, n.Name)
	for _, tp := range n.TypeParams {
		Walk(v, tp)
	}
	Walk(v, n.Value)
}

// If represents `if test: body else: orelse`; elif chains are modeled as a
// single-statement Block containing a nested If in Orelse, exactly like
// Python's own grammar desugars them.
type If struct {
	base
	Test   Expr
	Body   *Block
	Orelse *Block // nil if no else/elif
}

func (n *If) Kind() string { return "if" }
func (n *If) stmt()        {}
func (n *If) BlockEnding() bool { return false }
func (n *If) Walk(v Visitor) {
	Walk(v, n.Test)
	Walk(v, n.Body)
	if n.Orelse != nil {
		Walk(v, n.Orelse)
	}
}

// While represents `while test: body else: orelse`.
type While struct {
	base
	Test   Expr
	Body   *Block
	Orelse *Block
}

func (n *While) Kind() string { return "while" }
func (n *While) stmt()        {}
func (n *While) BlockEnding() bool { return false }
func (n *While) Walk(v Visitor) {
	Walk(v, n.Test)
	Walk(v, n.Body)
	if n.Orelse != nil {
		Walk(v, n.Orelse)
	}
}

// For represents `for target in iter: body else: orelse`.
type For struct {
	base
	Target  Expr
	Iter    Expr
	Body    *Block
	Orelse  *Block
	IsAsync bool
}

func (n *For) Kind() string { return "for" }
func (n *For) stmt()        {}
func (n *For) BlockEnding() bool { return false }
func (n *For) Walk(v Visitor) {
	Walk(v, n.Iter)
	Walk(v, n.Target)
	Walk(v, n.Body)
	if n.Orelse != nil {
		Walk(v, n.Orelse)
	}
}

// WithItem is one `expr as target` clause of a with statement.
type WithItem struct {
	base
	Context Expr
	Target  Expr // optional
}

func (n *WithItem) Kind() string { return "withitem" }
func (n *WithItem) Walk(v Visitor) {
	Walk(v, n.Context)
	if n.Target != nil {
		Walk(v, n.Target)
	}
}

// With represents `with item, item2: body`.
type With struct {
	base
	Items   []*WithItem
	Body    *Block
	IsAsync bool
}

func (n *With) Kind() string { return "with" }
func (n *With) stmt()        {}
func (n *With) BlockEnding() bool { return false }
func (n *With) Walk(v Visitor) {
	for _, it := range n.Items {
		Walk(v, it)
	}
	Walk(v, n.Body)
}

// ExceptHandler is one `except E as name: body` clause.
type ExceptHandler struct {
	base
	Type  Expr // optional
	Name  *Name
	Body  *Block
	Star  bool // except* (exception groups)
}

func (n *ExceptHandler) Kind() string { return "except" }
func (n *ExceptHandler) Walk(v Visitor) {
	if n.Type != nil {
		Walk(v, n.Type)
	}
	if n.Name != nil {
		Walk(v, n.Name)
	}
	Walk(v, n.Body)
}

// Try represents `try: body except ...: ... else: ... finally: ...`.
type Try struct {
	base
	Body    *Block
	Handlers []*ExceptHandler
	Orelse  *Block
	Finally *Block
}

func (n *Try) Kind() string { return "try" }
func (n *Try) stmt()        {}
func (n *Try) BlockEnding() bool { return false }
func (n *Try) Walk(v Visitor) {
	Walk(v, n.Body)
	for _, h := range n.Handlers {
		Walk(v, h)
	}
	if n.Orelse != nil {
		Walk(v, n.Orelse)
	}
	if n.Finally != nil {
		Walk(v, n.Finally)
	}
}

// MatchCase is one `case pattern if guard: body` clause.
type MatchCase struct {
	base
	Pattern Pattern
	Guard   Expr // optional
	Body    *Block
}

func (n *MatchCase) Kind() string { return "case" }
func (n *MatchCase) Walk(v Visitor) {
	Walk(v, n.Pattern)
	if n.Guard != nil {
		Walk(v, n.Guard)
	}
	Walk(v, n.Body)
}

// Match represents `match subject: case ...`.
type Match struct {
	base
	Subject Expr
	Cases   []*MatchCase
}

func (n *Match) Kind() string { return "match" }
func (n *Match) stmt()        {}
func (n *Match) BlockEnding() bool { return false }
func (n *Match) Walk(v Visitor) {
	Walk(v, n.Subject)
	for _, c := range n.Cases {
		Walk(v, c)
	}
}

// blockEnding statements ---------------------------------------------------

// Return represents `return [value]`.
type Return struct {
	base
	Value Expr // optional
}

func (n *Return) Kind() string       { return "return" }
func (n *Return) stmt()              {}
func (n *Return) BlockEnding() bool  { return true }
func (n *Return) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}

// Raise represents `raise [exc [from cause]]`.
type Raise struct {
	base
	Exc   Expr // optional
	Cause Expr // optional
}

func (n *Raise) Kind() string      { return "raise" }
func (n *Raise) stmt()             {}
func (n *Raise) BlockEnding() bool { return true }
func (n *Raise) Walk(v Visitor) {
	if n.Exc != nil {
		Walk(v, n.Exc)
	}
	if n.Cause != nil {
		Walk(v, n.Cause)
	}
}

// Break represents `break`.
type Break struct{ base }

func (n *Break) Kind() string      { return "break" }
func (n *Break) stmt()             {}
func (n *Break) BlockEnding() bool { return true }
func (n *Break) Walk(Visitor)      {}

// Continue represents `continue`.
type Continue struct{ base }

func (n *Continue) Kind() string      { return "continue" }
func (n *Continue) stmt()             {}
func (n *Continue) BlockEnding() bool { return true }
func (n *Continue) Walk(Visitor)      {}

// non-block-ending simple statements ---------------------------------------

// Assert represents `assert test[, msg]`.
type Assert struct {
	base
	Test Expr
	Msg  Expr // optional
}

func (n *Assert) Kind() string      { return "assert" }
func (n *Assert) stmt()             {}
func (n *Assert) BlockEnding() bool { return false }
func (n *Assert) Walk(v Visitor) {
	Walk(v, n.Test)
	if n.Msg != nil {
		Walk(v, n.Msg)
	}
}

// Del represents `del target, target2`.
type Del struct {
	base
	Targets []Expr
}

func (n *Del) Kind() string      { return "del" }
func (n *Del) stmt()             {}
func (n *Del) BlockEnding() bool { return false }
func (n *Del) Walk(v Visitor) {
	for _, t := range n.Targets {
		Walk(v, t)
	}
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	base
	Expr Expr
}

func (n *ExprStmt) Kind() string      { return "exprstmt" }
func (n *ExprStmt) stmt()             {}
func (n *ExprStmt) BlockEnding() bool { return false }
func (n *ExprStmt) Walk(v Visitor)    { Walk(v, n.Expr) }

// Pass represents `pass`.
type Pass struct{ base }

func (n *Pass) Kind() string      { return "pass" }
func (n *Pass) stmt()             {}
func (n *Pass) BlockEnding() bool { return false }
func (n *Pass) Walk(Visitor)      {}

// Global represents `global name, name2`.
type Global struct {
	base
	Names []*Name
}

func (n *Global) Kind() string      { return "global" }
func (n *Global) stmt()             {}
func (n *Global) BlockEnding() bool { return false }
func (n *Global) Walk(v Visitor) {
	for _, nm := range n.Names {
		Walk(v, nm)
	}
}

// Nonlocal represents `nonlocal name, name2`.
type Nonlocal struct {
	base
	Names []*Name
}

func (n *Nonlocal) Kind() string      { return "nonlocal" }
func (n *Nonlocal) stmt()             {}
func (n *Nonlocal) BlockEnding() bool { return false }
func (n *Nonlocal) Walk(v Visitor) {
	for _, nm := range n.Names {
		Walk(v, nm)
	}
}

// ImportAlias is one `module [as alias]` / `name [as alias]` entry.
type ImportAlias struct {
	base
	// Path is the dotted module name parts, e.g. ["a", "b", "c"] for
	// `import a.b.c`. For ImportFrom entries Path has a single element: the
	// imported name (or "*" for a wildcard import).
	Path  []string
	Alias *Name // optional
}

func (n *ImportAlias) Kind() string      { return "importalias" }
func (n *ImportAlias) Walk(v Visitor) {
	if n.Alias != nil {
		Walk(v, n.Alias)
	}
}

// Import represents `import a.b.c [as d], e.f [as g]`.
type Import struct {
	base
	Names []*ImportAlias
}

func (n *Import) Kind() string      { return "import" }
func (n *Import) stmt()             {}
func (n *Import) BlockEnding() bool { return false }
func (n *Import) Walk(v Visitor) {
	for _, nm := range n.Names {
		Walk(v, nm)
	}
}

// ImportFrom represents `from [dots] module import name [as alias], ...` or
// `from . import *`.
type ImportFrom struct {
	base
	LeadingDots int // number of leading dots, 0 for an absolute import
	Module      string // may be empty (e.g. "from . import x")
	Names       []*ImportAlias
	IsWildcard  bool // true for `from m import *`
}

func (n *ImportFrom) Kind() string      { return "importfrom" }
func (n *ImportFrom) stmt()             {}
func (n *ImportFrom) BlockEnding() bool { return false }
func (n *ImportFrom) Walk(v Visitor) {
	for _, nm := range n.Names {
		Walk(v, nm)
	}
}
