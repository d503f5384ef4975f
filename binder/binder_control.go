package binder

import "github.com/mna/pybind/ast"

// nearestExecutionScope returns the nearest enclosing scope that owns its
// own control-flow graph and complexity counter (spec.md GLOSSARY
// "Execution scope").
func nearestExecutionScope(s *Scope) *Scope {
	for cur := s; cur != nil; cur = cur.effectiveParent() {
		if cur.Kind.IsExecutionScope() {
			return cur
		}
	}
	return s
}

func (b *Binder) complexityFor(scope *Scope) *float64 {
	return b.scopeComplexity(nearestExecutionScope(scope))
}

// bindIf implements spec.md §4.3 "if/elif/else": the test is evaluated
// once, narrowing constraints recorded on both edges, statically-decided
// tests prune the dead branch via createFlowConditional, and the two
// branch ends rejoin at a BranchLabel.
func (b *Binder) bindIf(scope *Scope, s *ast.If, cur *FlowNode) *FlowNode {
	cur = b.bindExpr(scope, s.Test, cur)
	static := evaluateStaticBoolLikeExpression(s.Test, b.Env)
	pos, neg := analyzeNarrowingExpression(s.Test)
	thenRef, elseRef := "", ""
	if len(pos) > 0 {
		thenRef = pos[0].Reference
	}
	if len(neg) > 0 {
		elseRef = neg[0].Reference
	}
	for _, c := range pos {
		b.Side.AddNarrowingConstraint(s, c)
	}
	for _, c := range neg {
		b.Side.AddNarrowingConstraint(s, c)
	}

	thenAnte := b.flow.createFlowConditional(cur, TrueCondition, s.Test, thenRef, static)
	elseAnte := b.flow.createFlowConditional(cur, FalseCondition, s.Test, elseRef, static)

	label := b.flow.createBranchLabel(cur)
	if s.Body != nil {
		b.flow.addAntecedent(label, b.bindBlock(scope, s.Body, thenAnte))
	} else {
		b.flow.addAntecedent(label, thenAnte)
	}
	if s.Orelse != nil {
		b.flow.addAntecedent(label, b.bindBlock(scope, s.Orelse, elseAnte))
	} else {
		b.flow.addAntecedent(label, elseAnte)
	}
	return b.flow.finishFlowLabel(label, b.complexityFor(scope))
}

// bindWhile implements spec.md §4.3 "while/else": the loop label is the
// join point for the initial entry, every `continue`, and the loop's own
// back edge; `break` and the statically-false exit both feed the label
// that follows the loop (and its optional `else` clause).
func (b *Binder) bindWhile(scope *Scope, s *ast.While, cur *FlowNode) *FlowNode {
	loopLabel := b.flow.createLoopLabel()
	b.flow.addAntecedent(loopLabel, cur)

	testFlow := b.bindExpr(scope, s.Test, loopLabel)
	static := evaluateStaticBoolLikeExpression(s.Test, b.Env)
	pos, neg := analyzeNarrowingExpression(s.Test)
	thenRef, elseRef := "", ""
	if len(pos) > 0 {
		thenRef = pos[0].Reference
	}
	if len(neg) > 0 {
		elseRef = neg[0].Reference
	}
	bodyAnte := b.flow.createFlowConditional(testFlow, TrueCondition, s.Test, thenRef, static)
	exitAnte := b.flow.createFlowConditional(testFlow, FalseCondition, s.Test, elseRef, static)

	exitLabel := b.flow.createBranchLabel(nil)
	lc := &loopContext{breakLabel: exitLabel, continueLabel: loopLabel}
	b.loopStack = append(b.loopStack, lc)
	if s.Body != nil {
		b.flow.addAntecedent(loopLabel, b.bindBlock(scope, s.Body, bodyAnte))
	}
	b.loopStack = b.loopStack[:len(b.loopStack)-1]

	if s.Orelse != nil {
		b.flow.addAntecedent(exitLabel, b.bindBlock(scope, s.Orelse, exitAnte))
	} else {
		b.flow.addAntecedent(exitLabel, exitAnte)
	}
	return b.flow.finishFlowLabel(exitLabel, b.complexityFor(scope))
}

// bindFor implements spec.md §4.3 "for/else": the iterable is evaluated
// once in the outer flow, the loop variable is (re)assigned on every
// iteration, and exhaustion of the iterator joins with `break` exactly
// like bindWhile's false-test edge.
func (b *Binder) bindFor(scope *Scope, s *ast.For, cur *FlowNode) *FlowNode {
	if s.IsAsync {
		b.checkAsyncContext("async for", rangeOf(s))
	}
	cur = b.bindExpr(scope, s.Iter, cur)

	loopLabel := b.flow.createLoopLabel()
	b.flow.addAntecedent(loopLabel, cur)
	bodyAnte := b.bindAssignTargetFlow(scope, s.Target, loopLabel)

	exitLabel := b.flow.createBranchLabel(nil)
	lc := &loopContext{breakLabel: exitLabel, continueLabel: loopLabel}
	b.loopStack = append(b.loopStack, lc)
	if s.Body != nil {
		b.flow.addAntecedent(loopLabel, b.bindBlock(scope, s.Body, bodyAnte))
	}
	b.loopStack = b.loopStack[:len(b.loopStack)-1]

	if s.Orelse != nil {
		b.flow.addAntecedent(exitLabel, b.bindBlock(scope, s.Orelse, loopLabel))
	} else {
		b.flow.addAntecedent(exitLabel, loopLabel)
	}
	return b.flow.finishFlowLabel(exitLabel, b.complexityFor(scope))
}

// bindWith implements spec.md §4.3 "with": every context-manager
// expression is bound in sequence, then a PostContextManager node
// records that control only continues past the block if none of them
// swallowed an exception (blockIfSwallows is decided from the static
// `__exit__`-return shape, which this binder cannot evaluate, so it
// conservatively assumes context managers do not swallow exceptions
// unless collaborating type information says otherwise — recorded as a
// simplification in DESIGN.md).
func (b *Binder) bindWith(scope *Scope, s *ast.With, cur *FlowNode) *FlowNode {
	if s.IsAsync {
		b.checkAsyncContext("async with", rangeOf(s))
	}
	var exprs []ast.Expr
	for _, item := range s.Items {
		cur = b.bindExpr(scope, item.Context, cur)
		exprs = append(exprs, item.Context)
		if item.Target != nil {
			cur = b.bindAssignTargetFlow(scope, item.Target, cur)
		}
	}
	if s.Body != nil {
		cur = b.bindBlock(scope, s.Body, cur)
	}
	label := b.flow.createContextManagerLabel(exprs, s.IsAsync, false)
	b.flow.addAntecedent(label, cur)
	return label
}

// bindTry implements spec.md §4.3 "try/except/finally": the body's
// partial-completion points (every statement boundary, approximated here
// as the final flow position of the body, of each handler and of the
// else clause, plus every early exit routed through finallyStack) all
// feed into a pre-finally BranchLabel that the `finally` clause enters
// through a PreFinallyGate, so a `finally` clause runs whichever way the
// body exited, and PostFinally resumes along the original exit path
// afterward — unless the `finally` clause itself block-ends (a `return`
// in `finally` permanently overrides the original exit, which the binder
// models simply by returning the finally clause's own end position,
// Unreachable, in that case).
func (b *Binder) bindTry(scope *Scope, s *ast.Try, cur *FlowNode) *FlowNode {
	preFinally := b.flow.createBranchLabel(nil)
	fc := &finallyContext{gate: preFinally}
	if s.Finally != nil {
		b.finallyStack = append(b.finallyStack, fc)
	}

	bodyEnd := cur
	if s.Body != nil {
		bodyEnd = b.bindBlock(scope, s.Body, cur)
	}
	joinLabel := b.flow.createBranchLabel(nil)
	b.flow.addAntecedent(joinLabel, bodyEnd)
	b.flow.addAntecedent(preFinally, bodyEnd)

	for _, h := range s.Handlers {
		handlerScope := scope
		if h.Name != nil {
			sym := handlerScope.AddSymbol(h.Name.Value, 0)
			sym.AddDeclaration(&Declaration{
				Kind: DeclVariable, Node: h, FileURI: b.File.URI, Range: rangeOf(h),
				IsInExceptSuite: true,
				Variable:        &VariableInfo{IsExplicitBinding: true},
			})
		}
		hAnte := cur
		if h.Type != nil {
			hAnte = b.bindExpr(scope, h.Type, hAnte)
		}
		hEnd := hAnte
		if h.Body != nil {
			hEnd = b.bindBlock(handlerScope, h.Body, hAnte)
		}
		b.flow.addAntecedent(joinLabel, hEnd)
		b.flow.addAntecedent(preFinally, hEnd)
	}

	if s.Finally != nil {
		b.finallyStack = b.finallyStack[:len(b.finallyStack)-1]
	}

	result := b.flow.finishFlowLabel(joinLabel, b.complexityFor(scope))
	if s.Orelse != nil {
		result = b.bindBlock(scope, s.Orelse, result)
		b.flow.addAntecedent(preFinally, result)
	}

	if s.Finally == nil {
		return result
	}
	gate := b.flow.createPreFinallyGate(b.flow.finishFlowLabel(preFinally, b.complexityFor(scope)))
	finallyEnd := b.bindBlock(scope, s.Finally, gate)
	if finallyEnd == b.flow.Unreachable() {
		return finallyEnd
	}
	return b.flow.createPostFinally(result, gate, finallyEnd)
}

// bindMatch implements spec.md §4.3 "match", scenario 6: every case's
// pattern and guard are bound against the subject's flow, bodies rejoin
// at a BranchLabel, and an ExhaustedMatch edge feeds the label too unless
// some case is statically irrefutable (spec.md §8 "exhaustiveness").
func (b *Binder) bindMatch(scope *Scope, s *ast.Match, cur *FlowNode) *FlowNode {
	cur = b.bindExpr(scope, s.Subject, cur)
	label := b.flow.createBranchLabel(nil)
	exhaustive := false
	for _, c := range s.Cases {
		caseAnte := b.bindPattern(scope, c.Pattern, cur)
		if c.Guard != nil {
			caseAnte = b.bindExpr(scope, c.Guard, caseAnte)
		} else if ast.Irrefutable(c.Pattern) {
			exhaustive = true
		}
		caseEnd := caseAnte
		if c.Body != nil {
			caseEnd = b.bindBlock(scope, c.Body, caseAnte)
		}
		b.flow.addAntecedent(label, caseEnd)
	}
	if !exhaustive {
		b.flow.addAntecedent(label, b.flow.createExhaustedMatch(cur, s, s.Subject))
	}
	return b.flow.finishFlowLabel(label, b.complexityFor(scope))
}

// bindPattern declares capture names and binds any embedded value
// expressions of a match pattern (spec.md §4.3 "Match").
func (b *Binder) bindPattern(scope *Scope, p ast.Pattern, cur *FlowNode) *FlowNode {
	switch pat := p.(type) {
	case *ast.CapturePattern:
		sym := scope.AddSymbol(pat.Name.Value, 0)
		sym.AddDeclaration(&Declaration{Kind: DeclVariable, Node: pat, FileURI: b.File.URI, Range: rangeOf(pat), Variable: &VariableInfo{IsExplicitBinding: true}})
		b.Side.SetResolvedSymbol(pat.Name, sym.ID)
		return cur
	case *ast.WildcardPattern:
		return cur
	case *ast.ValuePattern:
		return b.bindExpr(scope, pat.Value, cur)
	case *ast.ClassPattern:
		cur = b.bindExpr(scope, pat.Class, cur)
		for _, sub := range pat.Positional {
			cur = b.bindPattern(scope, sub, cur)
		}
		for _, kw := range pat.Keywords {
			cur = b.bindPattern(scope, kw.Pattern, cur)
		}
		return cur
	case *ast.MappingPattern:
		for _, it := range pat.Items {
			cur = b.bindExpr(scope, it.Key, cur)
			cur = b.bindPattern(scope, it.Pattern, cur)
		}
		if pat.Rest != nil {
			sym := scope.AddSymbol(pat.Rest.Value, 0)
			sym.AddDeclaration(&Declaration{Kind: DeclVariable, Node: pat.Rest, FileURI: b.File.URI, Range: rangeOf(pat.Rest), Variable: &VariableInfo{IsExplicitBinding: true}})
		}
		return cur
	case *ast.SequencePattern:
		for _, it := range pat.Items {
			cur = b.bindPattern(scope, it, cur)
		}
		return cur
	case *ast.StarPattern:
		if pat.Name != nil {
			sym := scope.AddSymbol(pat.Name.Value, 0)
			sym.AddDeclaration(&Declaration{Kind: DeclVariable, Node: pat, FileURI: b.File.URI, Range: rangeOf(pat), Variable: &VariableInfo{IsExplicitBinding: true}})
			_ = sym
		}
		return cur
	case *ast.OrPattern:
		for _, alt := range pat.Alternatives {
			cur = b.bindPattern(scope, alt, cur)
		}
		return cur
	case *ast.AsPattern:
		cur = b.bindPattern(scope, pat.Pattern, cur)
		sym := scope.AddSymbol(pat.Name.Value, 0)
		sym.AddDeclaration(&Declaration{Kind: DeclVariable, Node: pat, FileURI: b.File.URI, Range: rangeOf(pat), Variable: &VariableInfo{IsExplicitBinding: true}})
		return cur
	default:
		return cur
	}
}

// --- terminal statements -----------------------------------------------

func (b *Binder) bindReturn(scope *Scope, s *ast.Return, cur *FlowNode) *FlowNode {
	if s.Value != nil {
		cur = b.bindExpr(scope, s.Value, cur)
	}
	if len(b.finallyStack) > 0 {
		b.flow.addAntecedent(b.finallyStack[len(b.finallyStack)-1].gate, cur)
	}
	return b.flow.Unreachable()
}

func (b *Binder) bindRaise(scope *Scope, s *ast.Raise, cur *FlowNode) *FlowNode {
	if s.Exc != nil {
		cur = b.bindExpr(scope, s.Exc, cur)
	}
	if s.Cause != nil {
		cur = b.bindExpr(scope, s.Cause, cur)
	}
	if len(b.finallyStack) > 0 {
		b.flow.addAntecedent(b.finallyStack[len(b.finallyStack)-1].gate, cur)
	}
	return b.flow.Unreachable()
}

func (b *Binder) bindBreak(s *ast.Break, cur *FlowNode) *FlowNode {
	if len(b.loopStack) > 0 {
		b.flow.addAntecedent(b.loopStack[len(b.loopStack)-1].breakLabel, cur)
	}
	return b.flow.Unreachable()
}

func (b *Binder) bindContinue(s *ast.Continue, cur *FlowNode) *FlowNode {
	if len(b.loopStack) > 0 {
		b.flow.addAntecedent(b.loopStack[len(b.loopStack)-1].continueLabel, cur)
	}
	return b.flow.Unreachable()
}
