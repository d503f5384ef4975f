package binder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mna/pybind/ast"
)

func TestEvaluateStaticBoolLikeExpression(t *testing.T) {
	env := &ExecutionEnvironment{}
	cases := []struct {
		name string
		expr ast.Expr
		want staticBoolResult
	}{
		{"true const", &ast.Const{ConstKind: ast.ConstTrue}, staticTrue},
		{"false const", &ast.Const{ConstKind: ast.ConstFalse}, staticFalse},
		{"none const", &ast.Const{ConstKind: ast.ConstNone}, staticFalse},
		{"nonzero number", &ast.NumberLit{Raw: "1"}, staticTrue},
		{"zero number", &ast.NumberLit{Raw: "0"}, staticFalse},
		{"nonempty string", strLit("x"), staticTrue},
		{"empty string", strLit(""), staticFalse},
		{"not true", &ast.UnaryOp{Op: "not", Operand: &ast.Const{ConstKind: ast.ConstTrue}}, staticFalse},
		{"not false", &ast.UnaryOp{Op: "not", Operand: &ast.Const{ConstKind: ast.ConstFalse}}, staticTrue},
		{"TYPE_CHECKING name", &ast.Name{Value: "TYPE_CHECKING"}, staticTrue},
		{"TYPE_CHECKING attribute", &ast.Attribute{Left: &ast.Name{Value: "typing"}, Attr: "TYPE_CHECKING"}, staticTrue},
		{"arbitrary name", &ast.Name{Value: "whatever"}, staticUnknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, evaluateStaticBoolLikeExpression(c.expr, env))
		})
	}
}
