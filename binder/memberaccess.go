package binder

import "github.com/mna/pybind/ast"

// memberAccessKind classifies what an `x.attr` assignment target inside a
// method body represents, for the purposes of synthesizing an implicit
// member declaration on the enclosing class (spec.md §4.7 "Member-access
// disambiguation").
type memberAccessKind uint8

// List of supported memberAccessKind values.
const (
	memberAccessNone memberAccessKind = iota
	memberAccessInstance
	memberAccessClass
)

// methodSelfInfo describes the binding parameter of the method currently
// being bound (spec.md §4.7): its name (usually "self" or "cls", but
// Python does not require either spelling) and whether it is the
// classmethod-style first parameter.
type methodSelfInfo struct {
	ParamName   string
	IsClassmethod bool
	IsStaticmethod bool
}

// classifyMemberAccess decides whether attr is an `instance.attr = ...`
// / `cls.attr = ...` assignment against the method's binding parameter,
// returning memberAccessNone for anything else (an arbitrary object's
// attribute, a staticmethod with no binding parameter at all, or a
// methodScope that declares no symbol named after the binding parameter).
// A local reassignment such as `self = other_obj` adds a declaration to
// the parameter's own symbol, so it is not told apart from the parameter.
func classifyMemberAccess(attr *ast.Attribute, self methodSelfInfo, methodScope *Scope) memberAccessKind {
	if self.IsStaticmethod || self.ParamName == "" {
		return memberAccessNone
	}
	name, ok := attr.Left.(*ast.Name)
	if !ok || name.Value != self.ParamName {
		return memberAccessNone
	}
	// The binding parameter's name must be declared directly in the method
	// scope (LookUp, no parent walk); a nil methodScope skips this check.
	if methodScope != nil {
		if sym := methodScope.LookUp(self.ParamName); sym == nil {
			return memberAccessNone
		}
	}
	if self.IsClassmethod {
		return memberAccessClass
	}
	return memberAccessInstance
}

// detectMethodSelf inspects a FunctionDef's parameter list and its
// decorators (by name only — the binder does not evaluate decorator
// expressions) to build the methodSelfInfo used for member-access
// disambiguation. isMethod should be false for functions not directly
// nested in a class body, in which case detectMethodSelf always reports
// no binding parameter.
func detectMethodSelf(fn *ast.FunctionDef, isMethod bool, decoratorNames []string) methodSelfInfo {
	if !isMethod {
		return methodSelfInfo{}
	}
	var info methodSelfInfo
	for _, d := range decoratorNames {
		switch d {
		case "classmethod":
			info.IsClassmethod = true
		case "staticmethod":
			info.IsStaticmethod = true
		}
	}
	if info.IsStaticmethod {
		return info
	}
	if len(fn.Params) == 0 || fn.Params[0].Name == nil {
		return methodSelfInfo{}
	}
	info.ParamName = fn.Params[0].Name.Value
	return info
}
