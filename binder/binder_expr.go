package binder

import (
	"github.com/mna/pybind/ast"
	"github.com/mna/pybind/diag"
	"github.com/mna/pybind/token"
)

// bindExpr binds one expression, threading and returning the flow node in
// effect after it evaluates (spec.md §4.3 "and/or/not", "walrus",
// "comprehensions", "lambda"). Most expression shapes are flow-neutral
// (they cannot themselves terminate control), so the common case simply
// threads cur through each subexpression in evaluation order; Call sites
// get their own flow node since an arbitrary call can itself be a
// narrowing type-guard site or (eventually) a side-effecting boundary.
func (b *Binder) bindExpr(scope *Scope, e ast.Expr, cur *FlowNode) *FlowNode {
	if e == nil {
		return cur
	}
	switch n := e.(type) {
	case *ast.Name:
		b.resolveName(scope, n)
		return cur
	case *ast.Attribute:
		return b.bindExpr(scope, n.Left, cur)
	case *ast.Subscript:
		cur = b.bindExpr(scope, n.Prefix, cur)
		return b.bindExpr(scope, n.Index, cur)
	case *ast.Call:
		cur = b.bindExpr(scope, n.Fn, cur)
		for _, a := range n.Args {
			cur = b.bindExpr(scope, a.Value, cur)
		}
		return b.flow.createCallFlowNode(cur, n)
	case *ast.BinOp:
		return b.bindBinOp(scope, n, cur)
	case *ast.UnaryOp:
		return b.bindExpr(scope, n.Operand, cur)
	case *ast.IfExp:
		return b.bindIfExp(scope, n, cur)
	case *ast.Sequence:
		for _, it := range n.Items {
			cur = b.bindExpr(scope, it, cur)
		}
		return cur
	case *ast.Dict:
		for _, it := range n.Items {
			if it.Key != nil {
				cur = b.bindExpr(scope, it.Key, cur)
			}
			cur = b.bindExpr(scope, it.Value, cur)
		}
		return cur
	case *ast.StringLit, *ast.NumberLit, *ast.Const:
		return cur
	case *ast.Lambda:
		return b.bindLambda(scope, n, cur)
	case *ast.Comprehension:
		return b.bindComprehension(scope, n, cur)
	case *ast.NamedExpr:
		return b.bindNamedExpr(scope, n, cur)
	case *ast.Yield:
		if n.Value != nil {
			cur = b.bindExpr(scope, n.Value, cur)
		}
		b.recordYield(n, false)
		return cur
	case *ast.YieldFrom:
		cur = b.bindExpr(scope, n.Value, cur)
		b.recordYield(n, true)
		return cur
	case *ast.Await:
		b.checkAsyncContext("await", rangeOf(n))
		return b.bindExpr(scope, n.Value, cur)
	case *ast.Starred:
		return b.bindExpr(scope, n.Value, cur)
	default:
		return cur
	}
}

// recordYield appends a yield expression to the innermost function
// currently being bound (spec.md §3 FunctionInfo.YieldExprs), identifying
// a generator. It diagnoses the spec.md §7 placement errors: `yield`
// reached with no enclosing function/lambda, and `yield from` reached
// inside an `async def` (a CPython SyntaxError).
func (b *Binder) recordYield(n ast.Expr, isFrom bool) {
	if len(b.execStack) == 0 {
		b.report(diag.SeverityError, diag.RuleNone, "yield outside a function or lambda", rangeOf(n))
		return
	}
	top := b.execStack[len(b.execStack)-1]
	if isFrom && top.IsAsync {
		b.report(diag.SeverityError, diag.RuleNone, "yield from not allowed inside an async def", rangeOf(n))
	}
	if top.FuncInfo != nil {
		top.FuncInfo.YieldExprs = append(top.FuncInfo.YieldExprs, n)
	}
}

// checkAsyncContext diagnoses the spec.md §7 "await/async for/async with
// outside an async function" error. It tolerates two exceptions: any of
// these constructs outside every function and lambda body when
// ExecutionEnvironment.NotebookMode is set (an IPython/Jupyter cell's
// top level), and any of these constructs inside a generator
// expression, since the expression's body only actually runs once iterated
// — deferred exactly like a function body.
func (b *Binder) checkAsyncContext(what string, rng token.Range) {
	if b.inGeneratorExpr > 0 {
		return
	}
	if len(b.execStack) == 0 {
		if b.Env != nil && b.Env.NotebookMode {
			return
		}
		b.report(diag.SeverityError, diag.RuleNone, what+" outside an async function", rng)
		return
	}
	if !b.execStack[len(b.execStack)-1].IsAsync {
		b.report(diag.SeverityError, diag.RuleNone, what+" outside an async function", rng)
	}
}

// resolveName resolves a bare name reference against scope and records
// the result in the side table, honoring any `global`/`nonlocal`
// override first (spec.md §4.1, §4.8).
func (b *Binder) resolveName(scope *Scope, n *ast.Name) {
	target := resolvedTargetScope(scope, n.Value)
	sym, _ := target.LookUpRecursive(n.Value)
	if sym == nil {
		return
	}
	b.Side.SetResolvedSymbol(n, sym.ID)
}

// bindBinOp implements short-circuit threading for `and`/`or` (spec.md
// §4.3 "and/or/not"): the right operand's entry flow carries the
// narrowing implied by the left operand having been truthy (for `and`)
// or falsy (for `or`); other binary operators are flow-neutral.
func (b *Binder) bindBinOp(scope *Scope, n *ast.BinOp, cur *FlowNode) *FlowNode {
	cur = b.bindExpr(scope, n.Left, cur)
	switch n.Op {
	case "and":
		pos, _ := analyzeNarrowingExpression(n.Left)
		ref := ""
		if len(pos) > 0 {
			ref = pos[0].Reference
		}
		rightAnte := b.flow.createFlowConditional(cur, TrueCondition, n.Left, ref, evaluateStaticBoolLikeExpression(n.Left, b.Env))
		rightEnd := b.bindExpr(scope, n.Right, rightAnte)
		label := b.flow.createBranchLabel(nil)
		b.flow.addAntecedent(label, rightEnd)
		b.flow.addAntecedent(label, cur)
		return b.flow.finishFlowLabel(label, b.complexityFor(scope))
	case "or":
		_, neg := analyzeNarrowingExpression(n.Left)
		ref := ""
		if len(neg) > 0 {
			ref = neg[0].Reference
		}
		rightAnte := b.flow.createFlowConditional(cur, FalseCondition, n.Left, ref, evaluateStaticBoolLikeExpression(n.Left, b.Env))
		rightEnd := b.bindExpr(scope, n.Right, rightAnte)
		label := b.flow.createBranchLabel(nil)
		b.flow.addAntecedent(label, rightEnd)
		b.flow.addAntecedent(label, cur)
		return b.flow.finishFlowLabel(label, b.complexityFor(scope))
	default:
		return b.bindExpr(scope, n.Right, cur)
	}
}

func (b *Binder) bindIfExp(scope *Scope, n *ast.IfExp, cur *FlowNode) *FlowNode {
	cur = b.bindExpr(scope, n.Test, cur)
	static := evaluateStaticBoolLikeExpression(n.Test, b.Env)
	pos, neg := analyzeNarrowingExpression(n.Test)
	thenRef, elseRef := "", ""
	if len(pos) > 0 {
		thenRef = pos[0].Reference
	}
	if len(neg) > 0 {
		elseRef = neg[0].Reference
	}
	thenAnte := b.flow.createFlowConditional(cur, TrueCondition, n.Test, thenRef, static)
	elseAnte := b.flow.createFlowConditional(cur, FalseCondition, n.Test, elseRef, static)
	thenEnd := b.bindExpr(scope, n.Body, thenAnte)
	elseEnd := b.bindExpr(scope, n.Orelse, elseAnte)
	label := b.flow.createBranchLabel(cur)
	b.flow.addAntecedent(label, thenEnd)
	b.flow.addAntecedent(label, elseEnd)
	return b.flow.finishFlowLabel(label, b.complexityFor(scope))
}

// bindNamedExpr implements the walrus operator: the target binds in the
// nearest enclosing non-comprehension scope, not the comprehension scope
// the expression textually sits in (spec.md §4.3 "Assignment expression
// (walrus)", an explicit deviation from ordinary assignment-target
// scoping rules that PEP 572 mandates).
func (b *Binder) bindNamedExpr(scope *Scope, n *ast.NamedExpr, cur *FlowNode) *FlowNode {
	cur = b.bindExpr(scope, n.Value, cur)
	for s := scope; s != nil && s.Kind == ScopeComprehension; s = s.effectiveParent() {
		if s.LookUp(n.Target.Value) != nil {
			b.report(diag.SeverityError, diag.RuleNone, "assignment expression target \""+n.Target.Value+"\" collides with a comprehension for-target of the same name", rangeOf(n))
			break
		}
	}
	targetScope := scope.nearestNonComprehension()
	if targetScope == nil {
		targetScope = scope
	}
	return b.bindAssignTargetFlow(targetScope, n.Target, cur)
}

// bindLambda defers a lambda's body exactly like a function body (spec.md
// §4.9), after eagerly binding parameter defaults in scope.
func (b *Binder) bindLambda(scope *Scope, n *ast.Lambda, cur *FlowNode) *FlowNode {
	for _, p := range n.Params {
		if p.Default != nil {
			cur = b.bindExpr(scope, p.Default, cur)
		}
	}
	lambdaScope := newScope(ScopeFunction, scope, &b.nextSymbolID)
	b.Side.SetScope(n, lambdaScope)
	for i, p := range n.Params {
		if p.Name == nil {
			continue
		}
		sym := lambdaScope.AddSymbol(p.Name.Value, 0)
		sym.AddDeclaration(&Declaration{
			Kind: DeclParam, Node: p, FileURI: b.File.URI, Range: rangeOf(p),
			Param: &ParamInfo{Index: i, IsVarArg: p.IsVarArg, IsKwArg: p.IsKwArg, KeywordOnly: p.KeywordOnly},
		})
	}
	b.deferred.push(&deferredTask{LambdaBody: n, Scope: lambdaScope, Enclosing: scope})
	return cur
}

// bindComprehension implements spec.md §4.3 "Comprehensions": a fresh
// Comprehension scope hosts every `for`/`if` clause and the element
// expression, except the outermost `for`'s iterable, which Python
// evaluates in the enclosing scope before the comprehension's own scope
// even exists.
func (b *Binder) bindComprehension(scope *Scope, n *ast.Comprehension, cur *FlowNode) *FlowNode {
	if len(n.Clauses) == 0 {
		return cur
	}
	cur = b.bindExpr(scope, n.Clauses[0].Iter, cur)

	parent := scope
	if parent.Kind == ScopeClass {
		if nc := parent.nearestNonClass(); nc != nil {
			parent = nc
		}
	}
	compScope := newScope(ScopeComprehension, parent, &b.nextSymbolID)
	b.Side.SetScope(n, compScope)

	isGenExp := n.CompKind == ast.GeneratorExp
	if isGenExp {
		b.inGeneratorExpr++
	}

	start := b.flow.createStart()
	inner := start
	inner = b.bindAssignTargetFlow(compScope, n.Clauses[0].Target, inner)
	for _, ifExpr := range n.Clauses[0].Ifs {
		inner = b.bindExpr(compScope, ifExpr, inner)
	}
	for _, clause := range n.Clauses[1:] {
		inner = b.bindExpr(compScope, clause.Iter, inner)
		inner = b.bindAssignTargetFlow(compScope, clause.Target, inner)
		for _, ifExpr := range clause.Ifs {
			inner = b.bindExpr(compScope, ifExpr, inner)
		}
	}
	inner = b.bindExpr(compScope, n.Value, inner)
	if n.ValueKey != nil {
		inner = b.bindExpr(compScope, n.ValueKey, inner)
	}
	if isGenExp {
		b.inGeneratorExpr--
	}
	b.Side.SetFlowNodes(n, start, inner)
	return cur
}
