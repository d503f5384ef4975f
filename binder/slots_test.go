package binder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mna/pybind/ast"
)

func TestRecognizeSlots_SingleString(t *testing.T) {
	names, ok := recognizeSlots(strLit("x"))
	assert.True(t, ok)
	assert.Equal(t, []string{"x"}, names)
}

func TestRecognizeSlots_TupleOfStrings(t *testing.T) {
	val := &ast.Sequence{SeqKind: ast.TupleSeq, Items: []ast.Expr{strLit("x"), strLit("y")}}
	names, ok := recognizeSlots(val)
	assert.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, names)
}

func TestRecognizeSlots_SetOfStrings(t *testing.T) {
	val := &ast.Sequence{SeqKind: ast.SetSeq, Items: []ast.Expr{strLit("x")}}
	names, ok := recognizeSlots(val)
	assert.True(t, ok)
	assert.Equal(t, []string{"x"}, names)
}

func TestRecognizeSlots_DictKeysAreNames(t *testing.T) {
	val := &ast.Dict{Items: []*ast.DictItem{
		{Key: strLit("x"), Value: strLit("doc for x")},
	}}
	names, ok := recognizeSlots(val)
	assert.True(t, ok)
	assert.Equal(t, []string{"x"}, names)
}

func TestRecognizeSlots_RejectsDynamicExpression(t *testing.T) {
	_, ok := recognizeSlots(&ast.Name{Value: "computed"})
	assert.False(t, ok)
}
