package binder

import (
	"github.com/mna/pybind/ast"
	"github.com/mna/pybind/diag"
)

// decoratorNames returns the bare names of decorator expressions that are
// simple `@name` references (the only shape detectMethodSelf needs to
// recognize `@classmethod`/`@staticmethod`); anything more complex
// (`@app.route(...)`) is simply not one of those two, which is always the
// correct answer for member-access disambiguation purposes.
func decoratorNames(decorators []ast.Expr) []string {
	var out []string
	for _, d := range decorators {
		if n, ok := d.(*ast.Name); ok {
			out = append(out, n.Value)
		}
	}
	return out
}

// declareFunction binds a `def`/`async def` statement: declares the
// function symbol and a Function declaration in scope, binds parameter
// defaults/annotations eagerly in scope, creates the function's own
// Scope, and defers binding its body until the rest of the enclosing
// scope is bound (spec.md §4.3 "Function definitions", §4.9 "Deferred
// binding").
func (b *Binder) declareFunction(scope *Scope, fn *ast.FunctionDef, cur *FlowNode) *FlowNode {
	for _, d := range fn.Decorators {
		cur = b.bindExpr(scope, d, cur)
	}
	for _, tp := range fn.TypeParams {
		cur = b.bindExpr(scope, tp.Bound, cur)
	}
	for _, p := range fn.Params {
		if p.Annotation != nil {
			cur = b.bindExpr(scope, p.Annotation, cur)
		}
		if p.Default != nil {
			cur = b.bindExpr(scope, p.Default, cur)
		}
	}
	if fn.Returns != nil {
		cur = b.bindExpr(scope, fn.Returns, cur)
	}

	sym := b.bindNameToScope(scope, fn.Name.Value, 0)
	d := &Declaration{
		Kind: DeclFunction, Node: fn, FileURI: b.File.URI, Range: rangeOf(fn),
		Function: &FunctionInfo{Node: fn, IsAsync: fn.IsAsync},
	}
	sym.AddDeclaration(d)
	b.Side.SetDeclaration(fn, d)
	b.Side.SetResolvedSymbol(fn.Name, sym.ID)

	fnScope := b.newFunctionScope(scope, fn.TypeParams)
	b.Side.SetScope(fn, fnScope)

	isMethod := b.currentClassScope != nil && scope == b.currentClassScope
	self := detectMethodSelf(fn, isMethod, decoratorNames(fn.Decorators))

	for i, p := range fn.Params {
		pd := &Declaration{
			Kind: DeclParam, Node: p, FileURI: b.File.URI, Range: rangeOf(p),
			Param: &ParamInfo{Index: i, IsVarArg: p.IsVarArg, IsKwArg: p.IsKwArg, KeywordOnly: p.KeywordOnly},
		}
		if p.Name != nil {
			psym := fnScope.AddSymbol(p.Name.Value, 0)
			psym.AddDeclaration(pd)
			b.Side.SetDeclaration(p, pd)
			b.Side.SetResolvedSymbol(p.Name, psym.ID)
		}
	}

	var classScope *Scope
	if isMethod {
		classScope = b.currentClassScope
	}
	b.deferred.push(&deferredTask{FuncBody: fn, Scope: fnScope, Enclosing: scope, Self: self, ClassScope: classScope})

	return cur
}

// newFunctionScope creates a function body's own Scope, interposing a
// ScopeTypeParameter proxy scope when the function declares PEP-695 type
// parameters (spec.md §4.1).
func (b *Binder) newFunctionScope(parent *Scope, typeParams []*ast.TypeParam) *Scope {
	effectiveParent := parent
	if len(typeParams) > 0 {
		tpScope := newScope(ScopeTypeParameter, parent, &b.nextSymbolID)
		tpScope.Proxy = parent
		for _, tp := range typeParams {
			if tpScope.LookUp(tp.Name.Value) != nil {
				b.report(diag.SeverityError, diag.RuleNone, "duplicate type parameter name \""+tp.Name.Value+"\"", rangeOf(tp))
			}
			sym := tpScope.AddSymbol(tp.Name.Value, 0)
			d := &Declaration{Kind: DeclTypeParam, Node: tp, FileURI: b.File.URI, Range: rangeOf(tp), TypeParam: &TypeParamInfo{Node: tp}}
			sym.AddDeclaration(d)
			b.Side.SetDeclaration(tp, d)
		}
		effectiveParent = tpScope
	}
	return newScope(ScopeFunction, effectiveParent, &b.nextSymbolID)
}

// declareClass binds a `class` statement: declares the class symbol and a
// Class declaration, binds bases/keywords/decorators in the enclosing
// scope, and binds the class body immediately (unlike a function body, a
// class body is not deferred, since its own members must be fully known
// before any nested method can disambiguate `self`/`cls` access against
// them — spec.md §4.3 "Class definitions").
func (b *Binder) declareClass(scope *Scope, cls *ast.ClassDef, cur *FlowNode) *FlowNode {
	for _, d := range cls.Decorators {
		cur = b.bindExpr(scope, d, cur)
	}
	for _, base := range cls.Bases {
		cur = b.bindExpr(scope, base, cur)
	}
	for _, kw := range cls.Keywords {
		cur = b.bindExpr(scope, kw.Value, cur)
	}

	sym := b.bindNameToScope(scope, cls.Name.Value, 0)
	d := &Declaration{Kind: DeclClass, Node: cls, FileURI: b.File.URI, Range: rangeOf(cls), Class: &ClassInfo{Node: cls}}
	sym.AddDeclaration(d)
	b.Side.SetDeclaration(cls, d)
	b.Side.SetResolvedSymbol(cls.Name, sym.ID)

	classScope := b.newFunctionScope(scope, cls.TypeParams) // same type-param proxying rule applies
	classScope.Kind = ScopeClass
	b.Side.SetScope(cls, classScope)

	savedClass, savedSelf := b.currentClassScope, b.currentMethodSelf
	b.currentClassScope = classScope
	b.currentMethodSelf = methodSelfInfo{}

	end := cur
	if cls.Body != nil {
		end = b.bindBlock(classScope, cls.Body, cur)
	}
	b.Side.SetFlowNodes(cls.Body, cur, end)
	b.recognizeSlotsInClassBody(classScope, cls.Body)

	b.currentClassScope, b.currentMethodSelf = savedClass, savedSelf
	if end == b.flow.Unreachable() {
		return end
	}
	return b.flow.createCallFlowNode(end, cls)
}

// recognizeSlotsInClassBody looks for a top-level `__slots__ = ...`
// assignment in a just-bound class body and records its recognized names
// on the class scope (spec.md §4.6). A `__dict__` entry means instances
// keep their normal dict after all, so the slots restriction itself isn't
// recorded on the scope, though the declared members are still created.
// Underscore-prefixed slot names get the same private marking an ordinary
// class-body assignment would (spec.md §4.2), and since a private slot
// can't satisfy a public protocol's attribute requirement, it's also
// excluded from protocol matching.
func (b *Binder) recognizeSlotsInClassBody(classScope *Scope, body *ast.Block) {
	if body == nil {
		return
	}
	for _, stmt := range body.Stmts {
		assign, ok := stmt.(*ast.Assign)
		if !ok || len(assign.Targets) != 1 {
			continue
		}
		name, ok := assign.Targets[0].(*ast.Name)
		if !ok || name.Value != "__slots__" {
			continue
		}
		names, recognized := recognizeSlots(assign.Value)
		if !recognized {
			continue
		}
		if !slotsContainDict(names) {
			classScope.SetSlotsNames(names)
		}
		for _, n := range names {
			flags := FlagDefinedBySlots | FlagInstanceMember
			if isSingleUnderscoreName(n) || isDoubleUnderscoreName(n) {
				flags |= FlagPrivateMember | FlagIgnoredForProtocolMatch
			}
			sym := classScope.AddSymbol(n, flags)
			sym.AddDeclaration(&Declaration{
				Kind: DeclVariable, Node: assign, FileURI: b.File.URI, Range: rangeOf(assign),
				Variable: &VariableInfo{IsDefinedBySlots: true},
			})
		}
	}
}

func slotsContainDict(names []string) bool {
	for _, n := range names {
		if n == "__dict__" {
			return true
		}
	}
	return false
}

// --- imports -----------------------------------------------------------

func (b *Binder) bindImport(scope *Scope, s *ast.Import, cur *FlowNode) *FlowNode {
	var names []string
	for _, entry := range s.Names {
		bindName, info := bindImportAlias(b.Resolver, b.File.URI, entry)
		if bindName == "" {
			continue
		}
		sym := b.bindNameToScope(scope, bindName, 0)
		if entry.Alias != nil && len(entry.Path) == 1 && (entry.Path[0] == "typing" || entry.Path[0] == "dataclasses") {
			sym.TypingSymbolAlias = entry.Path[0]
		}
		d := &Declaration{Kind: DeclAlias, Node: entry, FileURI: b.File.URI, Range: rangeOf(entry), Alias: info}
		sym.AddDeclaration(d)
		b.Side.SetDeclaration(entry, d)
		b.Side.SetResolvedSymbol(entry, sym.ID)
		names = append(names, bindName)
		if info.ResolvedURI == "" {
			b.report(diag.SeverityWarning, diag.RuleMissingImport, "import \""+joinDotted(entry.Path)+"\" could not be resolved", rangeOf(entry))
		}
	}
	return b.flow.createCallFlowNode(cur, s)
}

func (b *Binder) bindImportFrom(scope *Scope, s *ast.ImportFrom, cur *FlowNode) *FlowNode {
	if s.IsWildcard {
		if scope.Kind != ScopeModule {
			b.report(diag.SeverityError, diag.RuleNone, "wildcard import not allowed inside a function or class", rangeOf(s))
		}
		uri, ok := b.Resolver.ResolveImport(b.File.URI, splitDotted(s.Module), s.LeadingDots)
		if !ok {
			b.report(diag.SeverityWarning, diag.RuleMissingImport, "import \""+s.Module+"\" could not be resolved", rangeOf(s))
			return b.flow.createCallFlowNode(cur, s)
		}
		names := wildcardImportNames(b.Lookup, uri)
		for _, n := range names {
			sym := b.bindNameToScope(scope, n, 0)
			sym.AddDeclaration(&Declaration{
				Kind: DeclAlias, Node: s, FileURI: b.File.URI, Range: rangeOf(s),
				Alias: &AliasInfo{ResolvedURI: uri, LoadSymbolsFromURI: true, SymbolName: n},
			})
		}
		return b.flow.createWildcardImport(cur, s, names)
	}
	for _, entry := range s.Names {
		bindName, info := bindFromImportAlias(b.Resolver, b.File.URI, s.Module, s.LeadingDots, entry)
		if bindName == "" {
			continue
		}
		sym := b.bindNameToScope(scope, bindName, 0)
		d := &Declaration{Kind: DeclAlias, Node: entry, FileURI: b.File.URI, Range: rangeOf(entry), Alias: info}
		sym.AddDeclaration(d)
		b.Side.SetDeclaration(entry, d)
		b.Side.SetResolvedSymbol(entry, sym.ID)
		if info.ResolvedURI == "" {
			b.report(diag.SeverityWarning, diag.RuleMissingImport, "import \""+s.Module+"\" could not be resolved", rangeOf(entry))
		}
	}
	return b.flow.createCallFlowNode(cur, s)
}

func splitDotted(module string) []string {
	if module == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(module); i++ {
		if i == len(module) || module[i] == '.' {
			out = append(out, module[start:i])
			start = i + 1
		}
	}
	return out
}

func joinDotted(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}
