package binder

import (
	"github.com/mna/pybind/ast"
	swiss "github.com/dolthub/swiss"
)

// nodeInfo is everything the side table records against one AST node ID
// (spec.md §3 "AST side-table, not monkey-patching"). Not every field
// applies to every node; zero value means "not recorded".
type nodeInfo struct {
	scope         *Scope
	preFlowNode   *FlowNode // flow node in effect entering this node
	postFlowNode  *FlowNode // flow node in effect leaving this node
	symbolID      SymbolID  // resolved symbol for a Name/Attribute reference
	declaration   *Declaration
	narrowing     []*narrowingConstraint
	dunderAll     *dunderAllInfo
}

// dunderAllInfo is recorded once per module node (spec.md §6 "On the
// module node: the __all__ names and their string nodes, the
// unsupported-form flag").
type dunderAllInfo struct {
	names       []string
	nodes       []*ast.StringLit
	unsupported bool
}

// SideTable is the per-file lookaside store mapping ast.ID to binder
// results (spec.md §3). Keying by the small integer ast.ID rather than
// mutating AST nodes lets the same immutable AST be bound more than once
// (e.g. under different execution environments) without cloning it, and
// keeps the ast package free of any binder-specific fields.
//
// The table is backed by a swiss.Map, the open-addressing hash map the
// rest of the binder's de-duplication sets use (spec.md domain stack:
// flow-node id sets, side table), since ast.ID is a dense-ish integer key
// and swiss.Map's flat layout avoids the bucket-chasing of a plain Go
// map for this access pattern.
type SideTable struct {
	m *swiss.Map[ast.ID, *nodeInfo]
}

// NewSideTable creates an empty SideTable sized for roughly capacityHint
// nodes.
func NewSideTable(capacityHint int) *SideTable {
	if capacityHint < 8 {
		capacityHint = 8
	}
	return &SideTable{m: swiss.NewMap[ast.ID, *nodeInfo](uint32(capacityHint))}
}

func (t *SideTable) entry(n ast.Node) *nodeInfo {
	id := n.NodeID()
	info, ok := t.m.Get(id)
	if !ok {
		info = &nodeInfo{}
		t.m.Put(id, info)
	}
	return info
}

func (t *SideTable) lookup(n ast.Node) (*nodeInfo, bool) {
	return t.m.Get(n.NodeID())
}

// SetScope records the Scope a node was bound within.
func (t *SideTable) SetScope(n ast.Node, s *Scope) { t.entry(n).scope = s }

// Scope returns the Scope recorded for n, or nil.
func (t *SideTable) Scope(n ast.Node) *Scope {
	if info, ok := t.lookup(n); ok {
		return info.scope
	}
	return nil
}

// SetFlowNodes records the pre/post flow nodes bracketing n's evaluation
// (spec.md §3 "flow node in effect at this point").
func (t *SideTable) SetFlowNodes(n ast.Node, pre, post *FlowNode) {
	info := t.entry(n)
	info.preFlowNode, info.postFlowNode = pre, post
}

// FlowNodes returns the pre/post flow nodes recorded for n.
func (t *SideTable) FlowNodes(n ast.Node) (pre, post *FlowNode) {
	if info, ok := t.lookup(n); ok {
		return info.preFlowNode, info.postFlowNode
	}
	return nil, nil
}

// SetResolvedSymbol records the symbol a Name/Attribute reference node
// resolved to.
func (t *SideTable) SetResolvedSymbol(n ast.Node, id SymbolID) { t.entry(n).symbolID = id }

// ResolvedSymbol returns the symbol id recorded for a reference node, and
// whether one was recorded at all.
func (t *SideTable) ResolvedSymbol(n ast.Node) (SymbolID, bool) {
	info, ok := t.lookup(n)
	if !ok || info.symbolID == 0 {
		return 0, false
	}
	return info.symbolID, true
}

// SetDeclaration records the Declaration produced for a declaring node
// (a FunctionDef, ClassDef, assignment target, import alias, ...).
func (t *SideTable) SetDeclaration(n ast.Node, d *Declaration) { t.entry(n).declaration = d }

// Declaration returns the Declaration recorded for n, or nil.
func (t *SideTable) Declaration(n ast.Node) *Declaration {
	if info, ok := t.lookup(n); ok {
		return info.declaration
	}
	return nil
}

// AddNarrowingConstraint appends one narrowing constraint recorded at n
// (spec.md §4.4).
func (t *SideTable) AddNarrowingConstraint(n ast.Node, c *narrowingConstraint) {
	info := t.entry(n)
	info.narrowing = append(info.narrowing, c)
}

// NarrowingConstraints returns the narrowing constraints recorded at n.
func (t *SideTable) NarrowingConstraints(n ast.Node) []*narrowingConstraint {
	if info, ok := t.lookup(n); ok {
		return info.narrowing
	}
	return nil
}

// SetDunderAll records a module's recognized __all__ contents (spec.md §6).
func (t *SideTable) SetDunderAll(n ast.Node, names []string, nodes []*ast.StringLit, unsupported bool) {
	t.entry(n).dunderAll = &dunderAllInfo{names: names, nodes: nodes, unsupported: unsupported}
}

// DunderAll returns the __all__ contents recorded for n (typically a
// Module node), or nil, nil, false if none were recorded.
func (t *SideTable) DunderAll(n ast.Node) (names []string, nodes []*ast.StringLit, unsupported bool) {
	if info, ok := t.lookup(n); ok && info.dunderAll != nil {
		return info.dunderAll.names, info.dunderAll.nodes, info.dunderAll.unsupported
	}
	return nil, nil, false
}

// Len reports how many distinct nodes have an entry.
func (t *SideTable) Len() int { return t.m.Count() }
