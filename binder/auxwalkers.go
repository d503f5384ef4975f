package binder

import "github.com/mna/pybind/ast"

// containsYield reports whether body contains a `yield`/`yield from`
// expression not nested inside a further function/lambda boundary (spec.md
// §3 FunctionInfo.YieldExprs / §4.3 "a function containing yield is a
// generator"). Walk stops descending into nested FunctionDef/Lambda nodes
// since a yield there belongs to the nested function, not this one.
func containsYield(body *ast.Block) bool {
	found := false
	var v ast.VisitorFunc
	v = func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
		if dir != ast.VisitEnter || found {
			return nil
		}
		switch n.(type) {
		case *ast.FunctionDef, *ast.Lambda:
			return nil // nested function/lambda owns its own yields
		case *ast.Yield, *ast.YieldFrom:
			found = true
			return nil
		}
		return v
	}
	ast.Walk(v, body)
	return found
}

// collectBlockEndingStmts walks body (again stopping at nested function
// boundaries) collecting every Return/Raise reachable syntactically, used
// to populate FunctionInfo.ReturnStmts/RaiseStmts after a function body is
// bound (spec.md §3 "function declarations collect return ... statement
// references after the body is bound").
func collectBlockEndingStmts(body *ast.Block) (returns []*ast.Return, raises []*ast.Raise) {
	var v ast.VisitorFunc
	v = func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
		if dir != ast.VisitEnter {
			return nil
		}
		switch s := n.(type) {
		case *ast.FunctionDef, *ast.Lambda, *ast.ClassDef:
			return nil
		case *ast.Return:
			returns = append(returns, s)
		case *ast.Raise:
			raises = append(raises, s)
		}
		return v
	}
	ast.Walk(v, body)
	return returns, raises
}

// bindUnreachableSubtree walks a statement subtree that the flow analysis
// has determined is unreachable (e.g. code following an unconditional
// `raise`, or a branch pruned by static bool evaluation) and still
// creates scopes and symbols for every declaration in it, but threads
// every flow node through the shared Unreachable singleton (spec.md §8
// invariant: "unreachable code still gets a scope and symbols, for IDE
// features like rename and go-to-definition, but its flow nodes all
// collapse to Unreachable"). The binder driver calls this instead of its
// normal statement-binding path once importantly it detects the current
// flow position is already Unreachable; it is intentionally a best-effort
// walk, not a full copy of the live binding logic, because no downstream
// decision is ever made conditional on an unreachable declaration's flow
// position.
func bindUnreachableSubtree(b *Binder, scope *Scope, body *ast.Block) {
	if body == nil {
		return
	}
	for _, stmt := range body.Stmts {
		b.declareDummy(scope, stmt)
	}
}
