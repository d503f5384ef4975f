package ast

import (
	"encoding/json"
	"fmt"

	"github.com/mna/pybind/token"
)

// rawNode is the wire shape every JSON-encoded fixture node starts with:
// a Kind discriminator (matching the Kind() strings nodes already report)
// plus a Start/End span, followed by kind-specific fields left in
// json.RawMessage for a second decode pass. This is the shape the
// debug CLI (cmd/pybind) expects its input fixtures in, standing in for
// a real parser's output (spec.md §1, §6 treat the parser as an external
// collaborator this module does not implement).
type rawNode struct {
	Kind  string          `json:"kind"`
	Start int             `json:"start"`
	End   int             `json:"end"`
	Data  json.RawMessage `json:"-"`
}

// DecodeModule decodes one JSON-encoded fixture file into a *Module. It
// only supports the node shapes test fixtures and the debug CLI actually
// exercise; an unrecognized "kind" is a decode error, not a silent no-op,
// since a dropped node would otherwise look like a binder bug.
func DecodeModule(data []byte) (*Module, error) {
	n, err := decodeAny(data)
	if err != nil {
		return nil, err
	}
	m, ok := n.(*Module)
	if !ok {
		return nil, fmt.Errorf("ast: top-level fixture node must be a module, got %T", n)
	}
	return m, nil
}

func decodeAny(data []byte) (Node, error) {
	if data == nil || string(data) == "null" {
		return nil, nil
	}
	var head rawNode
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	head.Data = data
	b := newBaseAt(token.Pos(head.Start), token.Pos(head.End))

	switch head.Kind {
	case "module":
		var v struct {
			Name string          `json:"name"`
			Body json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		body, err := decodeBlock(v.Body)
		if err != nil {
			return nil, err
		}
		return &Module{base: b, Name: v.Name, Body: body}, nil
	case "name":
		var v struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &Name{base: b, Value: v.Value}, nil
	case "number":
		var v struct {
			Raw string `json:"raw"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &NumberLit{base: b, Raw: v.Raw}, nil
	case "string":
		var v struct {
			Raw, Value         string
			IsBytes, IsFString bool
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &StringLit{base: b, Raw: v.Raw, Value: v.Value, IsBytes: v.IsBytes, IsFString: v.IsFString}, nil
	case "const":
		var v struct {
			Value string `json:"value"` // "true"|"false"|"none"|"ellipsis"
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		var ck ConstKind
		switch v.Value {
		case "true":
			ck = ConstTrue
		case "false":
			ck = ConstFalse
		case "none":
			ck = ConstNone
		case "ellipsis":
			ck = ConstEllipsis
		default:
			return nil, fmt.Errorf("ast: unknown const value %q", v.Value)
		}
		return &Const{base: b, ConstKind: ck}, nil
	case "attribute":
		var v struct {
			Left json.RawMessage `json:"left"`
			Attr string          `json:"attr"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		left, err := decodeExpr(v.Left)
		if err != nil {
			return nil, err
		}
		return &Attribute{base: b, Left: left, Attr: v.Attr}, nil
	case "call":
		var v struct {
			Fn   json.RawMessage   `json:"fn"`
			Args []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		fn, err := decodeExpr(v.Fn)
		if err != nil {
			return nil, err
		}
		args := make([]*Arg, 0, len(v.Args))
		for _, raw := range v.Args {
			var av struct {
				Name  string          `json:"name"`
				Value json.RawMessage `json:"value"`
				Star  bool            `json:"star"`
				Star2 bool            `json:"star2"`
			}
			if err := json.Unmarshal(raw, &av); err != nil {
				return nil, err
			}
			val, err := decodeExpr(av.Value)
			if err != nil {
				return nil, err
			}
			args = append(args, &Arg{base: newBaseAt(0, 0), Name: av.Name, Value: val, Star: av.Star, Star2: av.Star2})
		}
		return &Call{base: b, Fn: fn, Args: args}, nil
	case "binop":
		var v struct {
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		left, err := decodeExpr(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(v.Right)
		if err != nil {
			return nil, err
		}
		return &BinOp{base: b, Op: v.Op, Left: left, Right: right}, nil
	case "assign":
		var v struct {
			Targets []json.RawMessage `json:"targets"`
			Value   json.RawMessage   `json:"value"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		value, err := decodeExpr(v.Value)
		if err != nil {
			return nil, err
		}
		targets := make([]Expr, 0, len(v.Targets))
		for _, raw := range v.Targets {
			t, err := decodeExpr(raw)
			if err != nil {
				return nil, err
			}
			targets = append(targets, t)
		}
		return &Assign{base: b, Targets: targets, Value: value}, nil
	case "exprstmt":
		var v struct {
			Expr json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		e, err := decodeExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return &ExprStmt{base: b, Expr: e}, nil
	case "return":
		var v struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		val, err := decodeExpr(v.Value)
		if err != nil {
			return nil, err
		}
		return &Return{base: b, Value: val}, nil
	case "pass":
		return &Pass{base: b}, nil
	case "if":
		var v struct {
			Test           json.RawMessage `json:"test"`
			Body, Orelse   json.RawMessage
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		test, err := decodeExpr(v.Test)
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(v.Body)
		if err != nil {
			return nil, err
		}
		orelse, err := decodeBlock(v.Orelse)
		if err != nil {
			return nil, err
		}
		return &If{base: b, Test: test, Body: body, Orelse: orelse}, nil
	case "funcdef":
		var v struct {
			Name   json.RawMessage   `json:"name"`
			Params []json.RawMessage `json:"params"`
			Body   json.RawMessage   `json:"body"`
			IsAsync bool             `json:"is_async"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		name, err := decodeExpr(v.Name)
		if err != nil {
			return nil, err
		}
		params := make([]*Parameter, 0, len(v.Params))
		for _, raw := range v.Params {
			var pv struct {
				Name        json.RawMessage `json:"name"`
				IsVarArg    bool            `json:"is_var_arg"`
				IsKwArg     bool            `json:"is_kw_arg"`
				KeywordOnly bool            `json:"keyword_only"`
			}
			if err := json.Unmarshal(raw, &pv); err != nil {
				return nil, err
			}
			pname, err := decodeExpr(pv.Name)
			if err != nil {
				return nil, err
			}
			params = append(params, &Parameter{base: newBaseAt(0, 0), Name: pname.(*Name), IsVarArg: pv.IsVarArg, IsKwArg: pv.IsKwArg, KeywordOnly: pv.KeywordOnly})
		}
		body, err := decodeBlock(v.Body)
		if err != nil {
			return nil, err
		}
		return &FunctionDef{base: b, Name: name.(*Name), Params: params, Body: body, IsAsync: v.IsAsync}, nil
	case "classdef":
		var v struct {
			Name  json.RawMessage   `json:"name"`
			Bases []json.RawMessage `json:"bases"`
			Body  json.RawMessage   `json:"body"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		name, err := decodeExpr(v.Name)
		if err != nil {
			return nil, err
		}
		bases := make([]Expr, 0, len(v.Bases))
		for _, raw := range v.Bases {
			be, err := decodeExpr(raw)
			if err != nil {
				return nil, err
			}
			bases = append(bases, be)
		}
		body, err := decodeBlock(v.Body)
		if err != nil {
			return nil, err
		}
		return &ClassDef{base: b, Name: name.(*Name), Bases: bases, Body: body}, nil
	case "import":
		var v struct {
			Names []json.RawMessage `json:"names"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		aliases, err := decodeImportAliases(v.Names)
		if err != nil {
			return nil, err
		}
		return &Import{base: b, Names: aliases}, nil
	case "importfrom":
		var v struct {
			LeadingDots int               `json:"leading_dots"`
			Module      string            `json:"module"`
			Names       []json.RawMessage `json:"names"`
			IsWildcard  bool              `json:"is_wildcard"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		aliases, err := decodeImportAliases(v.Names)
		if err != nil {
			return nil, err
		}
		return &ImportFrom{base: b, LeadingDots: v.LeadingDots, Module: v.Module, Names: aliases, IsWildcard: v.IsWildcard}, nil
	default:
		return nil, fmt.Errorf("ast: unsupported fixture node kind %q", head.Kind)
	}
}

func decodeImportAliases(raws []json.RawMessage) ([]*ImportAlias, error) {
	out := make([]*ImportAlias, 0, len(raws))
	for _, raw := range raws {
		var av struct {
			Path  []string        `json:"path"`
			Alias json.RawMessage `json:"alias"`
		}
		if err := json.Unmarshal(raw, &av); err != nil {
			return nil, err
		}
		var alias *Name
		if len(av.Alias) > 0 && string(av.Alias) != "null" {
			n, err := decodeExpr(av.Alias)
			if err != nil {
				return nil, err
			}
			alias, _ = n.(*Name)
		}
		out = append(out, &ImportAlias{base: newBaseAt(0, 0), Path: av.Path, Alias: alias})
	}
	return out, nil
}

func decodeExpr(data json.RawMessage) (Expr, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	n, err := decodeAny(data)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	e, ok := n.(Expr)
	if !ok {
		return nil, fmt.Errorf("ast: expected expression node, got %T", n)
	}
	return e, nil
}

func decodeBlock(data json.RawMessage) (*Block, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var stmts []json.RawMessage
	if err := json.Unmarshal(data, &stmts); err != nil {
		return nil, err
	}
	out := make([]Stmt, 0, len(stmts))
	for _, raw := range stmts {
		n, err := decodeAny(raw)
		if err != nil {
			return nil, err
		}
		s, ok := n.(Stmt)
		if !ok {
			return nil, fmt.Errorf("ast: expected statement node, got %T", n)
		}
		out = append(out, s)
	}
	return &Block{base: newBaseAt(0, 0), Stmts: out}, nil
}

func newBaseAt(start, end token.Pos) base {
	return base{ID: NewID(), Start: start, End: end}
}
