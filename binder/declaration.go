package binder

import (
	"github.com/mna/pybind/ast"
	"github.com/mna/pybind/token"
)

// DeclarationKind tags the variant payload carried by a Declaration.
// spec.md §9 calls for "tagged unions, not class hierarchies" for exactly
// this type; a single struct with a Kind tag and per-variant pointer
// fields (all nil except the one matching Kind) gives cheap switch-based
// dispatch without virtual calls, mirroring how FlowNode is modeled too.
type DeclarationKind uint8

// List of supported DeclarationKind values (spec.md §3 "Declaration").
const (
	DeclVariable DeclarationKind = iota
	DeclParam
	DeclFunction
	DeclClass
	DeclAlias
	DeclTypeAlias
	DeclTypeParam
	DeclIntrinsic
	DeclSpecialBuiltInClass
)

func (k DeclarationKind) String() string {
	switch k {
	case DeclVariable:
		return "variable"
	case DeclParam:
		return "param"
	case DeclFunction:
		return "function"
	case DeclClass:
		return "class"
	case DeclAlias:
		return "alias"
	case DeclTypeAlias:
		return "typealias"
	case DeclTypeParam:
		return "typeparam"
	case DeclIntrinsic:
		return "intrinsic"
	case DeclSpecialBuiltInClass:
		return "specialbuiltinclass"
	default:
		return "unknown"
	}
}

// Declaration is a tagged variant record describing one introduction of a
// symbol (spec.md §3). Shared fields always apply; exactly one of the
// variant payload pointers is non-nil, selected by Kind.
type Declaration struct {
	Kind            DeclarationKind
	Node            ast.Node
	FileURI         string
	Module          string
	Range           token.Range
	IsInExceptSuite bool

	Variable  *VariableInfo
	Param     *ParamInfo
	Function  *FunctionInfo
	Class     *ClassInfo
	Alias     *AliasInfo
	TypeAlias *TypeAliasInfo
	TypeParam *TypeParamInfo
}

// VariableInfo carries the Variable-declaration-specific fields of
// spec.md §3.
type VariableInfo struct {
	IsConstant              bool
	IsFinal                 bool
	IsClassVar              bool
	IsDefinedBySlots        bool
	IsDefinedByMemberAccess bool
	IsExplicitBinding       bool
	TypeAnnotationNode      ast.Node // optional
	DocString               string   // optional
	InferredTypeSource      ast.Node // optional
	TypeAliasNameNode       ast.Node // optional
}

// ParamInfo carries the Param-declaration-specific fields.
type ParamInfo struct {
	Index       int // position within the function's parameter list
	IsVarArg    bool
	IsKwArg     bool
	KeywordOnly bool
}

// FunctionInfo carries the Function-declaration-specific fields,
// including the back-patch lists spec.md §3 calls out explicitly: "function
// declarations collect return, yield, raise statement references after the
// body is bound".
type FunctionInfo struct {
	Node        *ast.FunctionDef
	IsAsync     bool
	ReturnStmts []*ast.Return
	YieldExprs  []ast.Expr // *ast.Yield or *ast.YieldFrom
	RaiseStmts  []*ast.Raise
}

// ClassInfo carries the Class-declaration-specific fields.
type ClassInfo struct {
	Node *ast.ClassDef
}

// LoaderAction is one node of the multi-part import loader-actions tree
// built for `import a.b.c` (spec.md §4.8). Each level from the first name
// part to the last gets its own action so that partial imports
// (`import a.b` without importing `c`) still make `a` and `a.b` available.
type LoaderAction struct {
	NamePart string
	URI      string
	Children map[string]*LoaderAction
}

// AliasInfo carries the Alias-declaration-specific fields.
type AliasInfo struct {
	ResolvedURI             string
	LoadSymbolsFromURI      bool
	SymbolName              string // optional: name imported from ResolvedURI
	SubmoduleFallbackAlias  string // optional
	LoaderActions           *LoaderAction
}

// TypeAliasInfo carries the TypeAlias-declaration-specific fields.
type TypeAliasInfo struct {
	Node *ast.TypeAliasStmt
}

// TypeParamInfo carries the TypeParam-declaration-specific fields.
type TypeParamInfo struct {
	Node *ast.TypeParam
}
