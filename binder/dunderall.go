package binder

import (
	"github.com/mna/pybind/ast"
	"github.com/mna/pybind/diag"
	"github.com/mna/pybind/token"
)

// dunderAllState accumulates one module's recognized __all__ contents as
// its assignment/aug-assignment/call forms are bound in source order
// (spec.md §4.5). unsupported latches once any manipulation form isn't
// recognized, since at that point the final contents can no longer be
// statically determined.
type dunderAllState struct {
	names       []string
	nodes       []*ast.StringLit
	unsupported bool
}

// recognizeDunderAllLiterals recognizes a literal list/tuple of string
// literals, returning the individual StringLit nodes (spec.md §6 "the
// __all__ names and their string nodes").
func recognizeDunderAllLiterals(value ast.Expr) (nodes []*ast.StringLit, recognized bool) {
	n, ok := value.(*ast.Sequence)
	if !ok || (n.SeqKind != ast.TupleSeq && n.SeqKind != ast.ListSeq) {
		return nil, false
	}
	out := make([]*ast.StringLit, 0, len(n.Items))
	for _, item := range n.Items {
		s, ok := item.(*ast.StringLit)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// recognizeDunderAll inspects a module-level assignment/aug-assignment
// target named `__all__` and, if its value is a statically recognizable
// sequence of string literals, returns the list of exported names (spec.md
// §4.5 "__all__ recognition").
func recognizeDunderAll(value ast.Expr) (names []string, recognized bool) {
	nodes, ok := recognizeDunderAllLiterals(value)
	if !ok {
		return nil, false
	}
	names = make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Value
	}
	return names, true
}

// dunderAllOtherModule recognizes the `other.__all__` shape used by
// `__all__ += other.__all__` and `__all__.extend(other.__all__)`.
func dunderAllOtherModule(expr ast.Expr) (other string, ok bool) {
	attr, ok := expr.(*ast.Attribute)
	if !ok || attr.Attr != "__all__" {
		return "", false
	}
	name, ok := attr.Left.(*ast.Name)
	if !ok {
		return "", false
	}
	return name.Value, true
}

// dunderAllCallTarget reports whether call is shaped like
// `__all__.<attrName>(...)`.
func dunderAllCallTarget(call *ast.Call) (attrName string, isDunderAllCall bool) {
	attr, ok := call.Fn.(*ast.Attribute)
	if !ok {
		return "", false
	}
	recv, ok := attr.Left.(*ast.Name)
	if !ok || recv.Value != "__all__" {
		return "", false
	}
	return attr.Attr, true
}

// recognizeDunderAllAssign handles `__all__ = <value>` at module scope
// (spec.md §4.5).
func (b *Binder) recognizeDunderAllAssign(value ast.Expr, rng token.Range) {
	if other, ok := dunderAllOtherModule(value); ok {
		b.appendDunderAllFromOther(other, rng)
		return
	}
	nodes, ok := recognizeDunderAllLiterals(value)
	if !ok {
		b.reportUnsupportedDunderAll(rng)
		return
	}
	b.dunderAll.nodes = append(b.dunderAll.nodes[:0:0], nodes...)
	b.dunderAll.names = b.dunderAll.names[:0]
	for _, n := range nodes {
		b.dunderAll.names = append(b.dunderAll.names, n.Value)
	}
}

// recognizeDunderAllAugAssign handles `__all__ += <value>` at module scope
// (spec.md §4.5).
func (b *Binder) recognizeDunderAllAugAssign(value ast.Expr, rng token.Range) {
	if other, ok := dunderAllOtherModule(value); ok {
		b.appendDunderAllFromOther(other, rng)
		return
	}
	nodes, ok := recognizeDunderAllLiterals(value)
	if !ok {
		b.reportUnsupportedDunderAll(rng)
		return
	}
	b.dunderAll.nodes = append(b.dunderAll.nodes, nodes...)
	for _, n := range nodes {
		b.dunderAll.names = append(b.dunderAll.names, n.Value)
	}
}

// recognizeDunderAllCall handles `__all__.append(...)`/`.extend(...)`/
// `.remove(...)` call-statements at module scope (spec.md §4.5).
func (b *Binder) recognizeDunderAllCall(call *ast.Call, rng token.Range) {
	attrName, ok := dunderAllCallTarget(call)
	if !ok {
		return
	}
	switch attrName {
	case "append":
		if len(call.Args) != 1 {
			b.reportUnsupportedDunderAll(rng)
			return
		}
		s, ok := call.Args[0].Value.(*ast.StringLit)
		if !ok {
			b.reportUnsupportedDunderAll(rng)
			return
		}
		b.dunderAll.nodes = append(b.dunderAll.nodes, s)
		b.dunderAll.names = append(b.dunderAll.names, s.Value)
	case "extend":
		if len(call.Args) != 1 {
			b.reportUnsupportedDunderAll(rng)
			return
		}
		if other, ok := dunderAllOtherModule(call.Args[0].Value); ok {
			b.appendDunderAllFromOther(other, rng)
			return
		}
		nodes, ok := recognizeDunderAllLiterals(call.Args[0].Value)
		if !ok {
			b.reportUnsupportedDunderAll(rng)
			return
		}
		b.dunderAll.nodes = append(b.dunderAll.nodes, nodes...)
		for _, n := range nodes {
			b.dunderAll.names = append(b.dunderAll.names, n.Value)
		}
	case "remove":
		if len(call.Args) != 1 {
			b.reportUnsupportedDunderAll(rng)
			return
		}
		s, ok := call.Args[0].Value.(*ast.StringLit)
		if !ok {
			b.reportUnsupportedDunderAll(rng)
			return
		}
		b.removeDunderAllName(s.Value)
	default:
		b.reportUnsupportedDunderAll(rng)
	}
}

// removeDunderAllName implements `__all__.remove("x")`: the name no longer
// counts as exported, and the first node record for it (if any) is
// dropped as well.
func (b *Binder) removeDunderAllName(name string) {
	for i, n := range b.dunderAll.names {
		if n == name {
			b.dunderAll.names = append(b.dunderAll.names[:i], b.dunderAll.names[i+1:]...)
			break
		}
	}
	for i, n := range b.dunderAll.nodes {
		if n.Value == name {
			b.dunderAll.nodes = append(b.dunderAll.nodes[:i], b.dunderAll.nodes[i+1:]...)
			break
		}
	}
}

// appendDunderAllFromOther implements `__all__ += other.__all__` and
// `__all__.extend(other.__all__)`: the contents of another module's
// __all__ aren't known to the binder (it binds one file at a time), so the
// names can't be statically resolved here; this is still a recognized
// form, just one with no further diagnosable content, per spec.md §4.5.
func (b *Binder) appendDunderAllFromOther(other string, rng token.Range) {
	_ = other
	_ = rng
}

// reportUnsupportedDunderAll flags the accumulated __all__ as no longer
// statically determinable and emits the spec.md §7 "unsupported __all__
// manipulation" diagnostic.
func (b *Binder) reportUnsupportedDunderAll(rng token.Range) {
	b.dunderAll.unsupported = true
	b.report(diag.SeverityWarning, diag.RuleUnsupportedDunderAll, "unsupported __all__ manipulation", rng)
}
