// Package binder builds per-scope symbol tables and a per-file
// control-flow graph from an already-parsed Python AST (spec.md
// OVERVIEW). It never evaluates types; it only decides where names are
// declared, which declaration(s) a reference can see, and how control
// can flow between them.
package binder

import (
	"strings"

	"github.com/mna/pybind/ast"
	"github.com/mna/pybind/diag"
	"github.com/mna/pybind/token"
)

// loopContext tracks the labels `break`/`continue` jump to while binding
// one enclosing `while`/`for` loop (spec.md §4.3).
type loopContext struct {
	breakLabel    *FlowNode // BranchLabel; antecedents are `break`s and (for `for`) the exhausted-iterator edge
	continueLabel *FlowNode // LoopLabel; antecedents are `continue`s and the loop's back-edge
}

// finallyContext tracks the gate/target a `try`'s `finally` clause binds
// against, so nested `return`/`break`/`continue`/`raise` inside the `try`
// or its handlers can still reach the `finally` body before leaving
// (spec.md §4.3 "try/except/finally").
type finallyContext struct {
	gate *FlowNode // BranchLabel in front of the finally clause's PreFinallyGate; every early exit adds itself here first
}

// Binder binds one file. Create one per file per bind; it is not
// goroutine-safe and not meant to be reused across files (a fresh Binder
// is cheap: its state is a handful of slices and maps).
type Binder struct {
	Diag     diag.Sink
	Resolver ImportResolver
	Lookup   ImportLookup
	File     FileInfo
	Env      *ExecutionEnvironment

	Side *SideTable

	flow         *flowGraph
	deferred     deferredQueue
	nextSymbolID int

	BuiltinScope *Scope
	ModuleScope  *Scope

	loopStack    []*loopContext
	finallyStack []*finallyContext
	complexity   map[*Scope]*float64

	// currentClassScope/currentMethodSelf track the innermost enclosing
	// class body and, within it, the binding parameter of the method
	// currently being bound, for member-access disambiguation (spec.md
	// §4.7). Both are saved/restored by declareFunction/declareClass around
	// recursing into a nested scope.
	currentClassScope *Scope
	currentMethodSelf methodSelfInfo

	// execStack tracks the function or lambda body currently being bound
	// (deferred-task time): its FunctionInfo (nil for a lambda, which has
	// no Declaration of its own) and whether it is async, so a `yield`/
	// `await` expression reached deep inside nested blocks can validate
	// and back-patch itself without threading this through every
	// bindStmt/bindExpr call (spec.md §3 FunctionInfo.YieldExprs, §7
	// yield/await placement errors).
	execStack []execContext

	// inGeneratorExpr counts the generator expressions currently being
	// bound; `await` is allowed inside one regardless of enclosing
	// function, since its execution is deferred to iteration time (spec.md
	// §7 "inside a generator expression because its execution is
	// deferred").
	inGeneratorExpr int

	// dunderAll accumulates the module's recognized __all__ contents as
	// assignments/augmented-assignments/calls against it are bound at
	// module scope (spec.md §4.5).
	dunderAll dunderAllState

	// potentialPrivate/potentialHidden hold symbols whose final
	// private/hidden flag depends on whether they end up listed in
	// `__all__`, reconciled once the whole module has been bound (spec.md
	// §4.2, §4.5 "potential private"/"potential hidden" maps).
	potentialPrivate map[string]*Symbol
	potentialHidden  map[string]*Symbol
}

// execContext is one entry of execStack; see its doc for details.
type execContext struct {
	FuncInfo *FunctionInfo
	IsAsync  bool
}

// New creates a Binder ready to bind one file's Module node.
func New(sink diag.Sink, resolver ImportResolver, lookup ImportLookup, file FileInfo, env *ExecutionEnvironment) *Binder {
	b := &Binder{
		Diag:       sink,
		Resolver:   resolver,
		Lookup:     lookup,
		File:       file,
		Env:        env,
		Side:       NewSideTable(256),
		flow:       newFlowGraph(),
		complexity: map[*Scope]*float64{},

		potentialPrivate: map[string]*Symbol{},
		potentialHidden:  map[string]*Symbol{},
	}
	b.BuiltinScope = newScope(ScopeBuiltin, nil, &b.nextSymbolID)
	b.ModuleScope = newScope(ScopeModule, b.BuiltinScope, &b.nextSymbolID)
	return b
}

func (b *Binder) scopeComplexity(s *Scope) *float64 {
	c, ok := b.complexity[s]
	if !ok {
		c = new(float64)
		b.complexity[s] = c
	}
	return c
}

func (b *Binder) report(sev diag.Severity, rule diag.RuleID, msg string, rng token.Range) {
	if b.Diag == nil || sev == diag.SeverityNone {
		return
	}
	b.Diag.Report(diag.Diagnostic{Severity: sev, Rule: rule, Message: msg, Range: rng})
}

func rangeOf(n ast.Node) token.Range {
	s, e := n.Span()
	return token.Range{Start: s, End: e}
}

// BindModule binds the whole file starting from its Module node and
// returns the module scope, now fully populated (spec.md §4.2 "Top-level
// driver").
func (b *Binder) BindModule(mod *ast.Module) *Scope {
	b.Side.SetScope(mod, b.ModuleScope)
	start := b.flow.createStart()
	b.Side.SetFlowNodes(mod, start, start)
	end := start
	if mod.Body != nil {
		end = b.bindBlock(b.ModuleScope, mod.Body, start)
	}
	b.Side.SetFlowNodes(mod.Body, start, end)
	b.drainDeferred()
	b.finalizeDunderAll(mod)
	return b.ModuleScope
}

func (b *Binder) drainDeferred() {
	for {
		task, ok := b.deferred.pop()
		if !ok {
			return
		}
		b.runDeferredTask(task)
	}
}

func (b *Binder) runDeferredTask(t *deferredTask) {
	start := b.flow.createStart()
	switch {
	case t.FuncBody != nil:
		b.Side.SetScope(t.FuncBody, t.Scope)
		var fi *FunctionInfo
		if d := b.Side.Declaration(t.FuncBody); d != nil {
			fi = d.Function
		}
		b.execStack = append(b.execStack, execContext{FuncInfo: fi, IsAsync: fi != nil && fi.IsAsync})
		savedClass, savedSelf := b.currentClassScope, b.currentMethodSelf
		b.currentClassScope, b.currentMethodSelf = t.ClassScope, t.Self
		end := start
		if t.FuncBody.Body != nil {
			end = b.bindBlock(t.Scope, t.FuncBody.Body, start)
		}
		b.currentClassScope, b.currentMethodSelf = savedClass, savedSelf
		b.execStack = b.execStack[:len(b.execStack)-1]
		b.Side.SetFlowNodes(t.FuncBody, start, end)
		if fi != nil {
			fi.ReturnStmts, fi.RaiseStmts = collectBlockEndingStmts(t.FuncBody.Body)
		}
	case t.LambdaBody != nil:
		b.Side.SetScope(t.LambdaBody, t.Scope)
		b.execStack = append(b.execStack, execContext{}) // a lambda body is never async
		end := b.bindExpr(t.Scope, t.LambdaBody.Body, start)
		b.execStack = b.execStack[:len(b.execStack)-1]
		b.Side.SetFlowNodes(t.LambdaBody, start, end)
	}
}

// bindBlock binds each statement of block in order, threading flow
// through them, and returns the flow node in effect after the last
// statement (or Unreachable if control cannot fall off the end, per
// spec.md §8 invariant 3 "a block-ending statement makes everything after
// it in the same block unreachable").
func (b *Binder) bindBlock(scope *Scope, block *ast.Block, entry *FlowNode) *FlowNode {
	cur := entry
	unreachableFromHere := false
	for _, stmt := range block.Stmts {
		if unreachableFromHere || cur == b.flow.Unreachable() {
			bindUnreachableSubtree(b, scope, &ast.Block{Stmts: []ast.Stmt{stmt}})
			continue
		}
		pre := cur
		cur = b.bindStmt(scope, stmt, cur)
		b.Side.SetFlowNodes(stmt, pre, cur)
		if s, ok := stmt.(ast.Stmt); ok && s.BlockEnding() {
			unreachableFromHere = true
		}
	}
	if unreachableFromHere {
		return b.flow.Unreachable()
	}
	return cur
}

// declareDummy creates scopes/symbols for a statement known to be
// unreachable, without threading real flow (spec.md §8, see
// bindUnreachableSubtree's doc).
func (b *Binder) declareDummy(scope *Scope, stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.FunctionDef:
		b.declareFunction(scope, s, b.flow.Unreachable())
	case *ast.ClassDef:
		b.declareClass(scope, s, b.flow.Unreachable())
	case *ast.Assign:
		for _, t := range s.Targets {
			b.declareAssignTarget(scope, t, nil)
		}
	case *ast.If:
		for _, st := range s.Body.Stmts {
			b.declareDummy(scope, st)
		}
		if s.Orelse != nil {
			for _, st := range s.Orelse.Stmts {
				b.declareDummy(scope, st)
			}
		}
	}
}

// bindStmt binds one statement, returning the flow node in effect after
// it (spec.md §4.3 lists every construct handled here).
func (b *Binder) bindStmt(scope *Scope, stmt ast.Stmt, cur *FlowNode) *FlowNode {
	switch s := stmt.(type) {
	case *ast.Pass, *ast.Assert, *ast.Del:
		return b.bindSimpleExprHolder(scope, s, cur)
	case *ast.ExprStmt:
		cur = b.bindExpr(scope, s.Expr, cur)
		if scope.Kind == ScopeModule {
			if call, ok := s.Expr.(*ast.Call); ok {
				b.recognizeDunderAllCall(call, rangeOf(s))
			}
		}
		return cur
	case *ast.Assign:
		return b.bindAssign(scope, s, cur)
	case *ast.AnnAssign:
		return b.bindAnnAssign(scope, s, cur)
	case *ast.AugAssign:
		return b.bindAugAssign(scope, s, cur)
	case *ast.TypeAliasStmt:
		return b.bindTypeAlias(scope, s, cur)
	case *ast.Global:
		b.bindGlobalStmt(s, scope)
		return cur
	case *ast.Nonlocal:
		b.bindNonlocalStmt(s, scope)
		return cur
	case *ast.Import:
		return b.bindImport(scope, s, cur)
	case *ast.ImportFrom:
		return b.bindImportFrom(scope, s, cur)
	case *ast.FunctionDef:
		return b.declareFunction(scope, s, cur)
	case *ast.ClassDef:
		return b.declareClass(scope, s, cur)
	case *ast.Return:
		return b.bindReturn(scope, s, cur)
	case *ast.Raise:
		return b.bindRaise(scope, s, cur)
	case *ast.Break:
		return b.bindBreak(s, cur)
	case *ast.Continue:
		return b.bindContinue(s, cur)
	case *ast.If:
		return b.bindIf(scope, s, cur)
	case *ast.While:
		return b.bindWhile(scope, s, cur)
	case *ast.For:
		return b.bindFor(scope, s, cur)
	case *ast.With:
		return b.bindWith(scope, s, cur)
	case *ast.Try:
		return b.bindTry(scope, s, cur)
	case *ast.Match:
		return b.bindMatch(scope, s, cur)
	default:
		return cur
	}
}

func (b *Binder) bindSimpleExprHolder(scope *Scope, stmt ast.Stmt, cur *FlowNode) *FlowNode {
	switch s := stmt.(type) {
	case *ast.Assert:
		cur = b.bindExpr(scope, s.Test, cur)
		if s.Msg != nil {
			cur = b.bindExpr(scope, s.Msg, cur)
		}
		pos, neg := analyzeNarrowingExpression(s.Test)
		_ = neg // only the success edge continues past an assert
		for _, c := range pos {
			b.Side.AddNarrowingConstraint(s, c)
		}
	case *ast.Del:
		for _, t := range s.Targets {
			cur = b.bindExpr(scope, t, cur)
		}
	}
	return cur
}

// --- assignment family -----------------------------------------------------

func (b *Binder) bindAssign(scope *Scope, s *ast.Assign, cur *FlowNode) *FlowNode {
	cur = b.bindExpr(scope, s.Value, cur)
	for _, t := range s.Targets {
		cur = b.bindAssignTargetFlow(scope, t, cur)
	}
	if scope.Kind == ScopeModule {
		for _, t := range s.Targets {
			if n, ok := t.(*ast.Name); ok && n.Value == "__all__" {
				b.recognizeDunderAllAssign(s.Value, rangeOf(s))
			}
		}
	}
	return cur
}

func (b *Binder) bindAnnAssign(scope *Scope, s *ast.AnnAssign, cur *FlowNode) *FlowNode {
	cur = b.bindExpr(scope, s.Annotation, cur)
	d := b.declareAssignTarget(scope, s.Target, s)
	if d != nil && d.Variable != nil {
		d.Variable.TypeAnnotationNode = s.Annotation
	}
	b.applyAnnotationFlags(scope, d, s.Target, s.Annotation)
	cur = b.flow.createVariableAnnotation(cur)
	b.Side.SetDeclaration(s.Target, d)
	return cur
}

func (b *Binder) bindAugAssign(scope *Scope, s *ast.AugAssign, cur *FlowNode) *FlowNode {
	cur = b.bindExpr(scope, s.Target, cur)
	cur = b.bindExpr(scope, s.Value, cur)
	if scope.Kind == ScopeModule && s.Op == "+" {
		if n, ok := s.Target.(*ast.Name); ok && n.Value == "__all__" {
			b.recognizeDunderAllAugAssign(s.Value, rangeOf(s))
		}
	}
	return b.bindAssignTargetFlow(scope, s.Target, cur)
}

func (b *Binder) bindTypeAlias(scope *Scope, s *ast.TypeAliasStmt, cur *FlowNode) *FlowNode {
	sym := b.bindNameToScope(scope, s.Name.Value, 0)
	d := &Declaration{Kind: DeclTypeAlias, Node: s, FileURI: b.File.URI, Range: rangeOf(s), TypeAlias: &TypeAliasInfo{Node: s}}
	sym.AddDeclaration(d)
	b.Side.SetDeclaration(s, d)
	b.Side.SetResolvedSymbol(s.Name, sym.ID)
	return b.bindExpr(scope, s.Value, cur)
}

// bindAssignTargetFlow binds one assignment target expression: recurses
// through tuple/list unpacking and starred targets, and for each leaf
// Name/Attribute/Subscript creates the Declaration (if a leaf Name) and
// threads an Assignment flow node.
func (b *Binder) bindAssignTargetFlow(scope *Scope, target ast.Expr, cur *FlowNode) *FlowNode {
	switch t := target.(type) {
	case *ast.Sequence:
		for _, it := range t.Items {
			cur = b.bindAssignTargetFlow(scope, it, cur)
		}
		return cur
	case *ast.Starred:
		return b.bindAssignTargetFlow(scope, t.Value, cur)
	case *ast.Name:
		d := b.declareAssignTarget(scope, t, nil)
		sym, _ := scope.LookUpRecursive(t.Value)
		var symID SymbolID
		if sym != nil {
			symID = sym.ID
		}
		n := b.flow.createFlowAssignment(cur, symID, t, false)
		b.Side.SetDeclaration(t, d)
		b.Side.SetResolvedSymbol(t, symID)
		return n
	case *ast.Attribute, *ast.Subscript:
		cur = b.bindExpr(scope, target, cur)
		b.declareAssignTarget(scope, target, nil)
		return b.flow.createFlowAssignment(cur, 0, target, false)
	default:
		return cur
	}
}

// declareAssignTarget creates the Declaration for a single assignment
// target leaf (spec.md §3 "Variable" declaration, §4.7 member-access
// disambiguation). annAssign is the AnnAssign statement the target comes
// from, if any; the declarations built here do not record it.
func (b *Binder) declareAssignTarget(scope *Scope, target ast.Expr, annAssign *ast.AnnAssign) *Declaration {
	switch t := target.(type) {
	case *ast.Name:
		sym := b.bindNameToScope(scope, t.Value, 0)
		d := &Declaration{Kind: DeclVariable, Node: t, FileURI: b.File.URI, Range: rangeOf(t), Variable: &VariableInfo{IsExplicitBinding: true}}
		sym.AddDeclaration(d)
		return d
	case *ast.Attribute:
		self := b.currentMethodSelf
		kind := classifyMemberAccess(t, self, scope)
		if kind == memberAccessNone {
			return nil
		}
		classScope := b.currentClassScope
		if classScope == nil {
			return nil
		}
		flags := SymbolFlags(0)
		if kind == memberAccessInstance {
			flags = FlagInstanceMember
		} else {
			flags = FlagClassMember
		}
		sym := classScope.AddSymbol(t.Attr, flags)
		d := &Declaration{Kind: DeclVariable, Node: t, FileURI: b.File.URI, Range: rangeOf(t), Variable: &VariableInfo{IsDefinedByMemberAccess: true}}
		sym.AddDeclaration(d)
		return d
	default:
		return nil
	}
}

// --- private-name marking (spec.md §4.2) -----------------------------------

// bindNameToScope resolves name against any enclosing global/nonlocal
// declaration, gets-or-creates its symbol there, and on first introduction
// applies the private/hidden marking state machine. Every binder call site
// that introduces a new top-level-reachable name (assignment, def, class,
// import, type alias) must go through here instead of calling
// Scope.AddSymbol directly.
func (b *Binder) bindNameToScope(scope *Scope, name string, flags SymbolFlags) *Symbol {
	resolved := resolvedTargetScope(scope, name)
	preexisting := resolved.LookUp(name) != nil
	sym := resolved.AddSymbol(name, flags)
	if !preexisting {
		b.markFirstIntroduction(resolved, sym)
	}
	return sym
}

// markFirstIntroduction applies spec.md §4.2's underscore-based marking the
// first time a name is bound in scope: a dunder name is held as
// "potentially hidden" until __all__ is known; a single-underscore name is
// held as "potentially private" when the file is a stub or part of a
// typed package, else marked private immediately; every other name
// introduced directly at module/builtin scope is marked private, subject to
// being lifted back out by finalizeDunderAll if it ends up in __all__.
func (b *Binder) markFirstIntroduction(scope *Scope, sym *Symbol) {
	name := sym.Name
	switch {
	case isDoubleUnderscoreName(name):
		if scope.Kind == ScopeClass {
			sym.Set(FlagExternallyHidden)
		} else if scope.Kind == ScopeModule || scope.Kind == ScopeBuiltin {
			b.potentialHidden[name] = sym
		}
	case isSingleUnderscoreName(name) && (scope.Kind == ScopeModule || scope.Kind == ScopeBuiltin):
		if b.File.IsStub || b.File.IsTypedPackage {
			b.potentialPrivate[name] = sym
		} else {
			sym.Set(FlagPrivateMember)
		}
	case scope.Kind == ScopeModule || scope.Kind == ScopeBuiltin:
		sym.Set(FlagPrivateMember)
	}
}

func isSingleUnderscoreName(name string) bool {
	return strings.HasPrefix(name, "_") && !strings.HasPrefix(name, "__")
}

func isDoubleUnderscoreName(name string) bool {
	return strings.HasPrefix(name, "__") && !strings.HasSuffix(name, "__")
}

// annotationWrapperName returns the name of the subscript prefix used on an
// annotation, e.g. "Final" for `Final[int]` or "ClassVar" for
// `typing.ClassVar[int]`.
func annotationWrapperName(annotation ast.Expr) string {
	sub, ok := annotation.(*ast.Subscript)
	if !ok {
		return ""
	}
	switch p := sub.Prefix.(type) {
	case *ast.Name:
		return p.Value
	case *ast.Attribute:
		return p.Attr
	default:
		return ""
	}
}

// applyAnnotationFlags recognizes the Final/ClassVar/InitVar/Annotated
// annotation forms on a variable declaration (spec.md §4.2) and sets the
// corresponding Declaration/Symbol flags.
func (b *Binder) applyAnnotationFlags(scope *Scope, d *Declaration, target ast.Expr, annotation ast.Expr) {
	if d == nil || annotation == nil {
		return
	}
	name, ok := target.(*ast.Name)
	if !ok {
		return
	}
	sym, _ := scope.LookUpRecursive(name.Value)
	if sym == nil {
		return
	}
	wrapper := annotationWrapperName(annotation)
	if wrapper == "Annotated" {
		if sub, ok := annotation.(*ast.Subscript); ok {
			if inner, ok := sub.Index.(*ast.Sequence); ok && len(inner.Items) > 0 {
				wrapper = annotationWrapperName(inner.Items[0])
			}
		}
	}
	switch wrapper {
	case "Final":
		if d.Variable != nil {
			d.Variable.IsFinal = true
		}
		if scope.Kind == ScopeClass {
			sym.Set(FlagFinalVarInClassBody)
		}
	case "ClassVar":
		if d.Variable != nil {
			d.Variable.IsClassVar = true
		}
		sym.Set(FlagClassVar)
	case "InitVar":
		sym.Set(FlagInitVar)
	}
}

// finalizeDunderAll reconciles the potential-private/potential-hidden maps
// against the recognized __all__ contents once the whole module has been
// bound (spec.md §4.2, §4.5), and records __all__ on the module node via
// the side table (spec.md §6).
func (b *Binder) finalizeDunderAll(mod *ast.Module) {
	b.Side.SetDunderAll(mod, b.dunderAll.names, b.dunderAll.nodes, b.dunderAll.unsupported)

	listed := make(map[string]bool, len(b.dunderAll.names))
	for _, n := range b.dunderAll.names {
		listed[n] = true
	}
	for name, sym := range b.ModuleScope.Symbols() {
		if listed[name] {
			sym.Set(FlagInDunderAll)
		}
	}
	for name, sym := range b.potentialHidden {
		if listed[name] {
			continue
		}
		if b.File.IsStub {
			sym.Set(FlagExternallyHidden)
		} else {
			sym.Set(FlagPrivatePyTypedImport)
		}
	}
	for name, sym := range b.potentialPrivate {
		if listed[name] {
			continue
		}
		sym.Set(FlagPrivateMember)
	}
}
