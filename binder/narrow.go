package binder

import "github.com/mna/pybind/ast"

// narrowingKind classifies the shape of test expression a narrowing
// constraint was derived from (spec.md §4.4 "Narrowing-expression
// analysis").
type narrowingKind uint8

// List of supported narrowingKind values.
const (
	narrowTruthy narrowingKind = iota
	narrowIsNone
	narrowIsNotNone
	narrowEquality
	narrowInequality
	narrowIsInstance
	narrowMembership
	narrowTypeGuard
)

// narrowingConstraint records one fact proven about reference at a given
// point in the flow graph by a conditional test (spec.md §4.4). It is
// stored in the side table against the statement whose test produced it
// (SideTable.AddNarrowingConstraint), while the Condition flow node(s)
// created for that test carry only its reference key, so that a
// downstream type evaluator (out of scope for this module, spec.md
// Non-goals) can later apply it; the binder itself only computes and
// records which reference is constrained and how, never the resulting
// type.
type narrowingConstraint struct {
	Kind       narrowingKind
	Reference  string // the dotted reference key the constraint applies to
	Expression ast.Expr
	IsPositive bool // true on the "if" edge, false on the implicit "else" edge
}

// referenceKeyOf returns the dotted-path key used to identify a
// narrowable reference (a bare name or a chain of attribute accesses
// rooted at one, e.g. "self.x", "a.b.c"), or "" if expr is not a
// narrowable reference shape (spec.md §4.4: "only simple reference
// expressions are tracked; arbitrary call results are not"). Subscript
// expressions such as `a[0]` are not keyed and yield "".
func referenceKeyOf(expr ast.Expr) string {
	switch n := expr.(type) {
	case *ast.Name:
		return n.Value
	case *ast.Attribute:
		base := referenceKeyOf(n.Left)
		if base == "" {
			return ""
		}
		return base + "." + n.Attr
	default:
		return ""
	}
}

// analyzeNarrowingExpression inspects a boolean test expression and
// returns the positive-edge and negative-edge constraints it implies
// (spec.md §4.4). Compound `and`/`or`/`not` tests are decomposed
// recursively; anything unrecognized yields no constraints (not an
// error — most expressions simply narrow nothing).
func analyzeNarrowingExpression(test ast.Expr) (pos, neg []*narrowingConstraint) {
	switch n := test.(type) {
	case *ast.UnaryOp:
		if n.Op == "not" {
			innerPos, innerNeg := analyzeNarrowingExpression(n.Operand)
			return innerNeg, innerPos
		}
	case *ast.BinOp:
		switch n.Op {
		case "and":
			lp, _ := analyzeNarrowingExpression(n.Left)
			rp, _ := analyzeNarrowingExpression(n.Right)
			return append(lp, rp...), nil
		case "or":
			_, ln := analyzeNarrowingExpression(n.Left)
			_, rn := analyzeNarrowingExpression(n.Right)
			return nil, append(ln, rn...)
		case "is", "==":
			if ref, isNone := refAndNoneLiteral(n.Left, n.Right); ref != "" && isNone {
				return []*narrowingConstraint{{Kind: narrowIsNone, Reference: ref, Expression: test, IsPositive: true}},
					[]*narrowingConstraint{{Kind: narrowIsNotNone, Reference: ref, Expression: test, IsPositive: false}}
			}
			if ref := referenceKeyOf(n.Left); ref != "" {
				return []*narrowingConstraint{{Kind: narrowEquality, Reference: ref, Expression: test, IsPositive: true}}, nil
			}
		case "is not", "!=":
			if ref, isNone := refAndNoneLiteral(n.Left, n.Right); ref != "" && isNone {
				return []*narrowingConstraint{{Kind: narrowIsNotNone, Reference: ref, Expression: test, IsPositive: true}},
					[]*narrowingConstraint{{Kind: narrowIsNone, Reference: ref, Expression: test, IsPositive: false}}
			}
			if ref := referenceKeyOf(n.Left); ref != "" {
				return []*narrowingConstraint{{Kind: narrowInequality, Reference: ref, Expression: test, IsPositive: true}}, nil
			}
		case "in":
			if ref := referenceKeyOf(n.Left); ref != "" {
				return []*narrowingConstraint{{Kind: narrowMembership, Reference: ref, Expression: test, IsPositive: true}}, nil
			}
		}
	case *ast.Call:
		if name, ok := n.Fn.(*ast.Name); ok {
			switch name.Value {
			case "isinstance", "issubclass":
				if len(n.Args) >= 1 {
					if ref := referenceKeyOf(n.Args[0].Value); ref != "" {
						c := &narrowingConstraint{Kind: narrowIsInstance, Reference: ref, Expression: test, IsPositive: true}
						return []*narrowingConstraint{c}, nil
					}
				}
			}
		}
		// A call that is itself a recognized user-defined type guard is
		// deferred to the collaborator-supplied type information; the binder
		// cannot decide that on AST shape alone, so it records nothing here.
	}
	if ref := referenceKeyOf(test); ref != "" {
		return []*narrowingConstraint{{Kind: narrowTruthy, Reference: ref, Expression: test, IsPositive: true}},
			[]*narrowingConstraint{{Kind: narrowTruthy, Reference: ref, Expression: test, IsPositive: false}}
	}
	return nil, nil
}

func refAndNoneLiteral(a, b ast.Expr) (ref string, isNone bool) {
	if isNoneConst(b) {
		return referenceKeyOf(a), true
	}
	if isNoneConst(a) {
		return referenceKeyOf(b), true
	}
	return "", false
}

func isNoneConst(e ast.Expr) bool {
	c, ok := e.(*ast.Const)
	return ok && c.ConstKind == ast.ConstNone
}
