package binder

import "github.com/mna/pybind/ast"

// recognizeSlots inspects a class-body assignment target named
// `__slots__` and, if its value is a statically recognizable string or
// sequence-of-strings, returns the slot names (spec.md §4.6 "__slots__
// recognition"). A single bare string is a one-element slots list (a
// common Python gotcha this binder must match: `__slots__ = "x"` means
// one slot named "x", not three slots "x", " ", nothing).
func recognizeSlots(value ast.Expr) (names []string, recognized bool) {
	switch n := value.(type) {
	case *ast.StringLit:
		return []string{n.Value}, true
	case *ast.Sequence:
		if n.SeqKind != ast.TupleSeq && n.SeqKind != ast.ListSeq && n.SeqKind != ast.SetSeq {
			return nil, false
		}
		out := make([]string, 0, len(n.Items))
		for _, item := range n.Items {
			s, ok := item.(*ast.StringLit)
			if !ok {
				return nil, false
			}
			out = append(out, s.Value)
		}
		return out, true
	case *ast.Dict:
		// `__slots__ = {"x": "docstring for x"}` is also valid Python; the
		// keys are the slot names.
		out := make([]string, 0, len(n.Items))
		for _, item := range n.Items {
			if item.Key == nil {
				return nil, false
			}
			s, ok := item.Key.(*ast.StringLit)
			if !ok {
				return nil, false
			}
			out = append(out, s.Value)
		}
		return out, true
	default:
		return nil, false
	}
}
