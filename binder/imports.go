package binder

import (
	"strings"

	"github.com/mna/pybind/ast"
)

// buildLoaderActions constructs the multi-part loader-action tree for one
// `import a.b.c [as alias]` entry (spec.md §4.8, and Declaration's
// LoaderAction field doc): each dotted segment from "a" through "a.b.c"
// gets its own node so that partial prefixes become available as a side
// effect of the import, matching Python's actual import-system behavior
// (`import a.b.c` binds the name `a` in the importing scope, with `a.b`
// and `a.b.c` reachable through attribute access even though only `c`'s
// defining module was the "target").
func buildLoaderActions(resolver ImportResolver, fromURI string, dotted []string, level int) *LoaderAction {
	if len(dotted) == 0 {
		return nil
	}
	var root, cur *LoaderAction
	for i, part := range dotted {
		uri, _ := resolver.ResolveImport(fromURI, dotted[:i+1], level)
		node := &LoaderAction{NamePart: part, URI: uri}
		if root == nil {
			root = node
		} else {
			if cur.Children == nil {
				cur.Children = map[string]*LoaderAction{}
			}
			cur.Children[part] = node
		}
		cur = node
	}
	return root
}

// bindImportAlias builds the Alias declaration for one `import` statement
// entry, choosing the symbol name that the statement binds in the current
// scope: the alias if given, otherwise the first dotted segment (spec.md
// §4.8 — `import a.b.c` binds `a`, not `c`; `import a.b.c as x` binds
// `x` directly to the `c` submodule).
func bindImportAlias(resolver ImportResolver, fromURI string, entry *ast.ImportAlias) (bindName string, info *AliasInfo) {
	actions := buildLoaderActions(resolver, fromURI, entry.Path, 0)
	leafURI := ""
	if actions != nil {
		leaf := actions
		for leaf.Children != nil {
			// descend to the final segment's node to report its resolved URI
			var next *LoaderAction
			for _, part := range entry.Path[1:] {
				if n, ok := leaf.Children[part]; ok {
					next = n
				}
			}
			if next == nil {
				break
			}
			leaf = next
		}
		leafURI = leaf.URI
	}
	info = &AliasInfo{ResolvedURI: leafURI, LoaderActions: actions}
	if entry.Alias != nil {
		return entry.Alias.Value, info
	}
	if len(entry.Path) > 0 {
		return entry.Path[0], info
	}
	return "", info
}

// bindFromImportAlias builds the Alias declaration for one
// `from module import name [as alias]` entry; unlike a plain `import`,
// the bound name always refers directly to the imported symbol (or
// submodule), never to a dotted prefix (spec.md §4.8).
func bindFromImportAlias(resolver ImportResolver, fromURI, module string, leadingDots int, entry *ast.ImportAlias) (bindName string, info *AliasInfo) {
	var dotted []string
	if module != "" {
		dotted = strings.Split(module, ".")
	}
	uri, _ := resolver.ResolveImport(fromURI, dotted, leadingDots)
	name := ""
	if len(entry.Path) > 0 {
		name = entry.Path[0]
	}
	info = &AliasInfo{
		ResolvedURI:        uri,
		LoadSymbolsFromURI: true,
		SymbolName:         name,
	}
	if entry.Alias != nil {
		return entry.Alias.Value, info
	}
	return name, info
}

// wildcardImportNames resolves the set of names a `from module import *`
// statement introduces (spec.md §4.8): PublicSymbols already applies the
// right policy (the target's recognized __all__ list if any, else every
// non-underscore symbol), so this just forwards the call.
func wildcardImportNames(lookup ImportLookup, uri string) []string {
	return lookup.PublicSymbols(uri)
}
