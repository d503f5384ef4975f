package binder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/pybind/ast"
)

func name(v string) *ast.Name { return &ast.Name{Value: v} }

func TestAnalyzeNarrowingExpression_Truthy(t *testing.T) {
	pos, neg := analyzeNarrowingExpression(name("x"))
	require.Len(t, pos, 1)
	require.Len(t, neg, 1)
	assert.Equal(t, narrowTruthy, pos[0].Kind)
	assert.Equal(t, "x", pos[0].Reference)
	assert.True(t, pos[0].IsPositive)
	assert.False(t, neg[0].IsPositive)
}

func TestAnalyzeNarrowingExpression_IsNone(t *testing.T) {
	test := &ast.BinOp{Op: "is", Left: name("x"), Right: &ast.Const{ConstKind: ast.ConstNone}}
	pos, neg := analyzeNarrowingExpression(test)
	require.Len(t, pos, 1)
	require.Len(t, neg, 1)
	assert.Equal(t, narrowIsNone, pos[0].Kind)
	assert.Equal(t, narrowIsNotNone, neg[0].Kind)
	assert.Equal(t, "x", pos[0].Reference)
}

func TestAnalyzeNarrowingExpression_IsNotNone(t *testing.T) {
	test := &ast.BinOp{Op: "is not", Left: name("x"), Right: &ast.Const{ConstKind: ast.ConstNone}}
	pos, neg := analyzeNarrowingExpression(test)
	require.Len(t, pos, 1)
	assert.Equal(t, narrowIsNotNone, pos[0].Kind)
	assert.Equal(t, narrowIsNone, neg[0].Kind)
}

func TestAnalyzeNarrowingExpression_IsInstance(t *testing.T) {
	test := &ast.Call{Fn: name("isinstance"), Args: []*ast.Arg{
		{Value: name("x")},
		{Value: name("str")},
	}}
	pos, neg := analyzeNarrowingExpression(test)
	require.Len(t, pos, 1)
	assert.Equal(t, narrowIsInstance, pos[0].Kind)
	assert.Equal(t, "x", pos[0].Reference)
	assert.Nil(t, neg)
}

func TestAnalyzeNarrowingExpression_And(t *testing.T) {
	test := &ast.BinOp{Op: "and", Left: name("a"), Right: name("b")}
	pos, neg := analyzeNarrowingExpression(test)
	require.Len(t, pos, 2)
	assert.Equal(t, "a", pos[0].Reference)
	assert.Equal(t, "b", pos[1].Reference)
	assert.Nil(t, neg)
}

func TestAnalyzeNarrowingExpression_Or(t *testing.T) {
	test := &ast.BinOp{Op: "or", Left: name("a"), Right: name("b")}
	pos, neg := analyzeNarrowingExpression(test)
	require.Len(t, neg, 2)
	assert.Nil(t, pos)
}

func TestAnalyzeNarrowingExpression_Not(t *testing.T) {
	test := &ast.UnaryOp{Op: "not", Operand: name("x")}
	pos, neg := analyzeNarrowingExpression(test)
	require.Len(t, pos, 1)
	require.Len(t, neg, 1)
	assert.False(t, pos[0].IsPositive)
	assert.True(t, neg[0].IsPositive)
}

func TestReferenceKeyOf_AttributeChain(t *testing.T) {
	expr := &ast.Attribute{Left: &ast.Attribute{Left: name("self"), Attr: "a"}, Attr: "b"}
	assert.Equal(t, "self.a.b", referenceKeyOf(expr))
}

func TestReferenceKeyOf_UnsupportedShape(t *testing.T) {
	assert.Equal(t, "", referenceKeyOf(&ast.Call{Fn: name("f")}))
}
