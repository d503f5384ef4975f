package binder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mna/pybind/ast"
)

func strLit(v string) *ast.StringLit { return &ast.StringLit{Value: v} }

func TestRecognizeDunderAll_ListOfStrings(t *testing.T) {
	val := &ast.Sequence{SeqKind: ast.ListSeq, Items: []ast.Expr{strLit("a"), strLit("b")}}
	names, ok := recognizeDunderAll(val)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestRecognizeDunderAll_TupleOfStrings(t *testing.T) {
	val := &ast.Sequence{SeqKind: ast.TupleSeq, Items: []ast.Expr{strLit("a")}}
	names, ok := recognizeDunderAll(val)
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, names)
}

func TestRecognizeDunderAll_RejectsNonLiteralItem(t *testing.T) {
	val := &ast.Sequence{SeqKind: ast.ListSeq, Items: []ast.Expr{&ast.Name{Value: "dynamic"}}}
	_, ok := recognizeDunderAll(val)
	assert.False(t, ok)
}

func TestRecognizeDunderAll_RejectsBareName(t *testing.T) {
	_, ok := recognizeDunderAll(&ast.Name{Value: "other_list"})
	assert.False(t, ok)
}
