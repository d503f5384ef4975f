package binder

import (
	"github.com/mna/pybind/ast"
	"github.com/mna/pybind/diag"
)

// bindGlobalStmt processes a `global name, ...` statement (spec.md §4.8
// "global/nonlocal state machine"): each named symbol is recorded as a
// BindingGlobal override in the current scope, and a corresponding symbol
// is ensured to exist in the module scope so later/earlier module-level
// declarations have somewhere to attach. It diagnoses the spec.md §7
// collisions: a name already declared `nonlocal` in this scope, and a name
// already assigned in this scope before the global declaration.
func (b *Binder) bindGlobalStmt(stmt *ast.Global, cur *Scope) {
	moduleScope := cur.GetGlobalScope()
	for _, n := range stmt.Names {
		if bt, ok := cur.GetBindingType(n.Value); ok && bt == BindingNonlocal {
			b.report(diag.SeverityError, diag.RuleNone, "name \""+n.Value+"\" is nonlocal and global", rangeOf(stmt))
		} else if cur.LookUp(n.Value) != nil {
			b.report(diag.SeverityError, diag.RuleNone, "name \""+n.Value+"\" is assigned before global declaration", rangeOf(stmt))
		}
		cur.SetBindingType(n.Value, BindingGlobal)
		if moduleScope != nil {
			moduleScope.AddSymbol(n.Value, 0)
		}
	}
}

// bindNonlocalStmt processes a `nonlocal name, ...` statement. Each name
// receives a BindingNonlocal override in the current scope and is looked
// up in the enclosing function scopes (skipping class scopes, spec.md
// §4.8 "nearest enclosing non-class, non-module parent").
// It diagnoses the spec.md §7 collisions: `nonlocal` at module level, a
// name already declared `global` in this scope, a name already assigned in
// this scope before the nonlocal declaration, and a name with no binding
// in any enclosing function scope.
func (b *Binder) bindNonlocalStmt(stmt *ast.Nonlocal, cur *Scope) {
	if cur.Kind == ScopeModule || cur.Kind == ScopeBuiltin {
		b.report(diag.SeverityError, diag.RuleNone, "nonlocal declaration not allowed at module level", rangeOf(stmt))
	}
	for _, n := range stmt.Names {
		if bt, ok := cur.GetBindingType(n.Value); ok && bt == BindingGlobal {
			b.report(diag.SeverityError, diag.RuleNone, "name \""+n.Value+"\" is nonlocal and global", rangeOf(stmt))
		} else if cur.LookUp(n.Value) != nil {
			b.report(diag.SeverityError, diag.RuleNone, "name \""+n.Value+"\" is assigned before nonlocal declaration", rangeOf(stmt))
		}
		cur.SetBindingType(n.Value, BindingNonlocal)
		target := cur.nearestNonClass()
		found := false
		for s := target; s != nil && s.Kind != ScopeModule && s.Kind != ScopeBuiltin; s = s.nearestNonClass() {
			if s.LookUp(n.Value) != nil {
				found = true
				break
			}
		}
		if !found {
			b.report(diag.SeverityError, diag.RuleNone, "no binding for nonlocal \""+n.Value+"\" found in any enclosing scope", rangeOf(stmt))
		}
	}
}

// resolvedTargetScope returns the scope a name reference in cur should
// actually bind/resolve against, honoring any `global`/`nonlocal`
// override recorded for name in cur (spec.md §4.8). When no override
// applies, cur itself is returned.
func resolvedTargetScope(cur *Scope, name string) *Scope {
	bt, ok := cur.GetBindingType(name)
	if !ok {
		return cur
	}
	switch bt {
	case BindingGlobal:
		if g := cur.GetGlobalScope(); g != nil {
			return g
		}
	case BindingNonlocal:
		if nc := cur.nearestNonClass(); nc != nil {
			if _, found := nc.LookUpRecursive(name); found != nil {
				return found
			}
		}
	}
	return cur
}
