package binder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mna/pybind/ast"
)

func TestDetectMethodSelf_PlainMethod(t *testing.T) {
	fn := &ast.FunctionDef{Params: []*ast.Parameter{{Name: name("self")}}}
	info := detectMethodSelf(fn, true, nil)
	assert.Equal(t, "self", info.ParamName)
	assert.False(t, info.IsClassmethod)
	assert.False(t, info.IsStaticmethod)
}

func TestDetectMethodSelf_Classmethod(t *testing.T) {
	fn := &ast.FunctionDef{Params: []*ast.Parameter{{Name: name("cls")}}}
	info := detectMethodSelf(fn, true, []string{"classmethod"})
	assert.Equal(t, "cls", info.ParamName)
	assert.True(t, info.IsClassmethod)
}

func TestDetectMethodSelf_Staticmethod(t *testing.T) {
	fn := &ast.FunctionDef{Params: []*ast.Parameter{{Name: name("x")}}}
	info := detectMethodSelf(fn, true, []string{"staticmethod"})
	assert.True(t, info.IsStaticmethod)
	assert.Equal(t, "", info.ParamName)
}

func TestDetectMethodSelf_NotAMethod(t *testing.T) {
	fn := &ast.FunctionDef{Params: []*ast.Parameter{{Name: name("self")}}}
	info := detectMethodSelf(fn, false, nil)
	assert.Equal(t, "", info.ParamName)
}

func TestClassifyMemberAccess_InstanceAttribute(t *testing.T) {
	scope := newScope(ScopeFunction, nil, new(int))
	scope.AddSymbol("self", 0)
	self := methodSelfInfo{ParamName: "self"}
	attr := &ast.Attribute{Left: name("self"), Attr: "x"}
	assert.Equal(t, memberAccessInstance, classifyMemberAccess(attr, self, scope))
}

func TestClassifyMemberAccess_ClassmethodAttribute(t *testing.T) {
	scope := newScope(ScopeFunction, nil, new(int))
	scope.AddSymbol("cls", 0)
	self := methodSelfInfo{ParamName: "cls", IsClassmethod: true}
	attr := &ast.Attribute{Left: name("cls"), Attr: "x"}
	assert.Equal(t, memberAccessClass, classifyMemberAccess(attr, self, scope))
}

func TestClassifyMemberAccess_StaticmethodNeverMatches(t *testing.T) {
	self := methodSelfInfo{IsStaticmethod: true}
	attr := &ast.Attribute{Left: name("self"), Attr: "x"}
	assert.Equal(t, memberAccessNone, classifyMemberAccess(attr, self, nil))
}

func TestClassifyMemberAccess_OtherObjectAttribute(t *testing.T) {
	self := methodSelfInfo{ParamName: "self"}
	attr := &ast.Attribute{Left: name("other"), Attr: "x"}
	assert.Equal(t, memberAccessNone, classifyMemberAccess(attr, self, nil))
}

func TestClassifyMemberAccess_BindingParamNotDeclaredInScope(t *testing.T) {
	scope := newScope(ScopeFunction, nil, new(int))
	self := methodSelfInfo{ParamName: "self"}
	attr := &ast.Attribute{Left: name("self"), Attr: "x"}
	assert.Equal(t, memberAccessNone, classifyMemberAccess(attr, self, scope))
}
