package binder

import (
	"strconv"
	"strings"

	"github.com/mna/pybind/ast"
)

// staticBoolResult is the outcome of evaluateStaticBoolLikeExpression
// (spec.md §9): most expressions are not statically decidable, so
// staticUnknown is the common case and callers must treat it as "cannot
// prune".
type staticBoolResult uint8

// List of supported staticBoolResult values.
const (
	staticUnknown staticBoolResult = iota
	staticTrue
	staticFalse
)

// evaluateStaticBoolLikeExpression recognizes the narrow family of
// expressions pyright-style binders special-case for unconditional
// branch pruning (spec.md §9): literal booleans, None, numeric/string
// literals (truthy iff non-zero/non-empty), `not <static>`, and a
// `TYPE_CHECKING` name or attribute, reduced to "always true" for binding
// purposes (type-checking-only code is bound). `sys.version_info` and
// `sys.platform` comparisons are not evaluated and stay unknown; the
// evaluation does not read env.
func evaluateStaticBoolLikeExpression(e ast.Expr, env *ExecutionEnvironment) staticBoolResult {
	switch n := e.(type) {
	case *ast.Const:
		switch n.ConstKind {
		case ast.ConstTrue:
			return staticTrue
		case ast.ConstFalse:
			return staticFalse
		case ast.ConstNone:
			return staticFalse
		}
	case *ast.NumberLit:
		raw := strings.TrimSuffix(strings.ToLower(strings.ReplaceAll(n.Raw, "_", "")), "j")
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v == 0 {
			return staticFalse
		}
		if v, err := strconv.ParseInt(raw, 0, 64); err == nil && v == 0 {
			return staticFalse
		}
		return staticTrue
	case *ast.StringLit:
		if n.Value == "" {
			return staticFalse
		}
		return staticTrue
	case *ast.UnaryOp:
		if n.Op == "not" {
			switch evaluateStaticBoolLikeExpression(n.Operand, env) {
			case staticTrue:
				return staticFalse
			case staticFalse:
				return staticTrue
			}
		}
	case *ast.Name:
		if n.Value == "TYPE_CHECKING" {
			return staticTrue
		}
	case *ast.Attribute:
		if n.Attr == "TYPE_CHECKING" {
			return staticTrue
		}
	}
	return staticUnknown
}
