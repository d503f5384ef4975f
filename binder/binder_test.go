package binder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/pybind/ast"
	"github.com/mna/pybind/binder"
	"github.com/mna/pybind/diag"
)

type stubLookup struct {
	public map[string][]string
}

func (s stubLookup) PublicSymbols(uri string) []string { return s.public[uri] }
func (s stubLookup) HasSymbol(uri, name string) bool {
	for _, n := range s.public[uri] {
		if n == name {
			return true
		}
	}
	return false
}

type stubResolver struct{ uris map[string]string }

func (s stubResolver) ResolveImport(fromURI string, dotted []string, level int) (string, bool) {
	key := ""
	for i, p := range dotted {
		if i > 0 {
			key += "."
		}
		key += p
	}
	uri, ok := s.uris[key]
	return uri, ok
}

func mustBind(t *testing.T, src string) (*binder.Scope, *diag.List) {
	t.Helper()
	mod, err := ast.DecodeModule([]byte(src))
	require.NoError(t, err)

	var sink diag.List
	b := binder.New(&sink, stubResolver{}, stubLookup{}, binder.FileInfo{URI: "test.py", ModuleName: "test"}, &binder.ExecutionEnvironment{})
	scope := b.BindModule(mod)
	return scope, &sink
}

func TestBindModule_SimpleAssignment(t *testing.T) {
	scope, diags := mustBind(t, `{
		"kind": "module", "start": 0, "end": 0, "name": "test",
		"body": [
			{"kind": "assign", "start": 0, "end": 0,
			 "targets": [{"kind": "name", "start": 0, "end": 0, "value": "x"}],
			 "value": {"kind": "number", "start": 0, "end": 0, "raw": "1"}}
		]
	}`)
	require.Equal(t, 0, diags.Len())
	require.Equal(t, binder.ScopeModule, scope.Kind)
	sym := scope.LookUp("x")
	require.NotNil(t, sym)
	assert.Equal(t, "x", sym.Name)
}

func TestBindModule_FunctionDeclaresOwnScope(t *testing.T) {
	scope, diags := mustBind(t, `{
		"kind": "module", "start": 0, "end": 0, "name": "test",
		"body": [
			{"kind": "funcdef", "start": 0, "end": 0,
			 "name": {"kind": "name", "start": 0, "end": 0, "value": "f"},
			 "params": [
				{"name": {"kind": "name", "start": 0, "end": 0, "value": "a"}}
			 ],
			 "body": [
				{"kind": "return", "start": 0, "end": 0,
				 "value": {"kind": "name", "start": 0, "end": 0, "value": "a"}}
			 ]}
		]
	}`)
	require.Equal(t, 0, diags.Len())
	fnSym := scope.LookUp("f")
	require.NotNil(t, fnSym)
}

func TestBindModule_ModuleAndFunctionAssignSameName(t *testing.T) {
	scope, diags := mustBind(t, `{
		"kind": "module", "start": 0, "end": 0, "name": "test",
		"body": [
			{"kind": "assign", "start": 0, "end": 0,
			 "targets": [{"kind": "name", "start": 0, "end": 0, "value": "counter"}],
			 "value": {"kind": "number", "start": 0, "end": 0, "raw": "0"}},
			{"kind": "funcdef", "start": 0, "end": 0,
			 "name": {"kind": "name", "start": 0, "end": 0, "value": "bump"},
			 "params": [],
			 "body": [
				{"kind": "assign", "start": 0, "end": 0,
				 "targets": [{"kind": "name", "start": 0, "end": 0, "value": "counter"}],
				 "value": {"kind": "number", "start": 0, "end": 0, "raw": "1"}}
			 ]}
		]
	}`)
	require.Equal(t, 0, diags.Len())
	require.NotNil(t, scope.LookUp("counter"))
}

func TestBindModule_IfElseBothBranchesSeeDeclaration(t *testing.T) {
	scope, diags := mustBind(t, `{
		"kind": "module", "start": 0, "end": 0, "name": "test",
		"body": [
			{"kind": "if", "start": 0, "end": 0,
			 "test": {"kind": "name", "start": 0, "end": 0, "value": "cond"},
			 "body": [
				{"kind": "assign", "start": 0, "end": 0,
				 "targets": [{"kind": "name", "start": 0, "end": 0, "value": "y"}],
				 "value": {"kind": "number", "start": 0, "end": 0, "raw": "1"}}
			 ],
			 "orelse": [
				{"kind": "assign", "start": 0, "end": 0,
				 "targets": [{"kind": "name", "start": 0, "end": 0, "value": "y"}],
				 "value": {"kind": "number", "start": 0, "end": 0, "raw": "2"}}
			 ]}
		]
	}`)
	require.Equal(t, 0, diags.Len())
	require.NotNil(t, scope.LookUp("y"))
}

func TestBindModule_ClassDeclaresMemberAndSelf(t *testing.T) {
	scope, diags := mustBind(t, `{
		"kind": "module", "start": 0, "end": 0, "name": "test",
		"body": [
			{"kind": "classdef", "start": 0, "end": 0,
			 "name": {"kind": "name", "start": 0, "end": 0, "value": "C"},
			 "bases": [],
			 "body": [
				{"kind": "funcdef", "start": 0, "end": 0,
				 "name": {"kind": "name", "start": 0, "end": 0, "value": "__init__"},
				 "params": [
					{"name": {"kind": "name", "start": 0, "end": 0, "value": "self"}}
				 ],
				 "body": [
					{"kind": "assign", "start": 0, "end": 0,
					 "targets": [{"kind": "attribute", "start": 0, "end": 0,
						"left": {"kind": "name", "start": 0, "end": 0, "value": "self"},
						"attr": "x"}],
					 "value": {"kind": "number", "start": 0, "end": 0, "raw": "1"}}
				 ]}
			 ]}
		]
	}`)
	require.Equal(t, 0, diags.Len())
	require.NotNil(t, scope.LookUp("C"))
}

func TestBindModule_Import(t *testing.T) {
	scope, diags := mustBind(t, `{
		"kind": "module", "start": 0, "end": 0, "name": "test",
		"body": [
			{"kind": "import", "start": 0, "end": 0,
			 "names": [{"path": ["os", "path"], "alias": null}]}
		]
	}`)
	// stubResolver{} resolves nothing, so the import draws one missing-import warning.
	require.Equal(t, 1, diags.Len())
	assert.Equal(t, diag.RuleMissingImport, diags.Items()[0].Rule)
	require.NotNil(t, scope.LookUp("os"))
}

func TestBindModule_ImportFromWithAlias(t *testing.T) {
	scope, diags := mustBind(t, `{
		"kind": "module", "start": 0, "end": 0, "name": "test",
		"body": [
			{"kind": "importfrom", "start": 0, "end": 0, "leading_dots": 0,
			 "module": "os.path", "is_wildcard": false,
			 "names": [{"path": ["join"], "alias": {"kind": "name", "start": 0, "end": 0, "value": "j"}}]}
		]
	}`)
	// stubResolver{} resolves nothing, so the import draws one missing-import warning.
	require.Equal(t, 1, diags.Len())
	assert.Equal(t, diag.RuleMissingImport, diags.Items()[0].Rule)
	assert.NotNil(t, scope.LookUp("j"))
	assert.Nil(t, scope.LookUp("join"))
}
