package binder

import (
	"sync/atomic"

	"github.com/mna/pybind/ast"
	swiss "github.com/dolthub/swiss"
)

// FlowNodeID is a globally unique, process-wide monotonically increasing
// identifier for a FlowNode (spec.md §5, §9 "Global counter for flow-node
// ids"). Monotonicity across concurrently running Binder instances is all
// invariant 4 (antecedent dedup) requires, so a single atomic counter
// shared by the whole process is sufficient and needs no other
// synchronization.
type FlowNodeID int64

var nextFlowNodeID int64

func newFlowNodeID() FlowNodeID {
	return FlowNodeID(atomic.AddInt64(&nextFlowNodeID, 1))
}

// FlowKind tags the variant payload carried by a FlowNode (spec.md §3
// "FlowNode"), the same tagged-union approach used for Declaration.
type FlowKind uint8

// List of supported FlowKind values.
const (
	FlowStart FlowKind = iota
	FlowAssignment
	FlowCall
	FlowBranchLabel
	FlowLoopLabel
	FlowCondition
	FlowPreFinallyGate
	FlowPostFinally
	FlowPostContextManager
	FlowWildcardImport
	FlowNarrowForPattern
	FlowExhaustedMatch
	FlowVariableAnnotation
	FlowUnreachable
)

func (k FlowKind) String() string {
	names := [...]string{
		"start", "assignment", "call", "branchlabel", "looplabel",
		"condition", "prefinallygate", "postfinally", "postcontextmanager",
		"wildcardimport", "narrowforpattern", "exhaustedmatch",
		"variableannotation", "unreachable",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// ConditionFlags distinguishes the four polarities a Condition flow node
// can carry (spec.md §3).
type ConditionFlags uint8

// List of supported ConditionFlags values.
const (
	TrueCondition ConditionFlags = 1 << iota
	FalseCondition
	TrueNeverCondition
	FalseNeverCondition
)

// FlowNode is one vertex of the control-flow graph (spec.md §3). Exactly
// one variant payload pointer is non-nil, selected by Kind; FlowUnreachable
// carries none (it is a shared, parameterless singleton).
type FlowNode struct {
	ID   FlowNodeID
	Kind FlowKind

	Assignment         *FlowAssignmentInfo
	Call               *FlowCallInfo
	BranchLabel        *FlowLabelInfo
	LoopLabel          *FlowLabelInfo
	Condition          *FlowConditionInfo
	PreFinallyGate     *FlowPreFinallyGateInfo
	PostFinally        *FlowPostFinallyInfo
	PostContextManager *FlowPostContextManagerInfo
	WildcardImport     *FlowWildcardImportInfo
	NarrowForPattern   *FlowNarrowForPatternInfo
	ExhaustedMatch     *FlowExhaustedMatchInfo
	VariableAnnotation *FlowVariableAnnotationInfo
}

// FlowAssignmentInfo backs a FlowAssignment node.
type FlowAssignmentInfo struct {
	Node           ast.Node
	TargetSymbolID SymbolID
	Antecedent     *FlowNode
	Unbind         bool
}

// FlowCallInfo backs a FlowCall node.
type FlowCallInfo struct {
	Node       ast.Node
	Antecedent *FlowNode
}

// FlowLabelInfo backs both FlowBranchLabel and FlowLoopLabel nodes (they
// share the same shape; only interpretation differs, per spec.md §3).
type FlowLabelInfo struct {
	Antecedents         []*FlowNode
	PreBranchAntecedent *FlowNode // only meaningful for branch labels
	AffectedExpressions map[string]bool

	seen *swiss.Map[FlowNodeID, struct{}]
}

// FlowConditionInfo backs a FlowCondition node.
type FlowConditionInfo struct {
	Flags      ConditionFlags
	Reference  string // reference key, empty if the expression has none
	Expression ast.Expr
	Antecedent *FlowNode
}

// FlowPreFinallyGateInfo backs a FlowPreFinallyGate node.
type FlowPreFinallyGateInfo struct {
	Antecedent *FlowNode
}

// FlowPostFinallyInfo backs a FlowPostFinally node.
type FlowPostFinallyInfo struct {
	Antecedent     *FlowNode
	PreFinallyGate *FlowNode
	FinallyNode    *FlowNode
}

// FlowPostContextManagerInfo backs a FlowPostContextManager node.
type FlowPostContextManagerInfo struct {
	Antecedents               []*FlowNode
	Expressions               []ast.Expr
	IsAsync                   bool
	BlockIfSwallowsExceptions bool

	seen *swiss.Map[FlowNodeID, struct{}]
}

// FlowWildcardImportInfo backs a FlowWildcardImport node.
type FlowWildcardImportInfo struct {
	Node       ast.Node
	Names      []string
	Antecedent *FlowNode
}

// FlowNarrowForPatternInfo backs a FlowNarrowForPattern node.
type FlowNarrowForPatternInfo struct {
	Subject    ast.Expr
	Statement  ast.Node
	Antecedent *FlowNode
}

// FlowExhaustedMatchInfo backs an FlowExhaustedMatch node.
type FlowExhaustedMatchInfo struct {
	Node       ast.Node
	Subject    ast.Expr
	Antecedent *FlowNode
}

// FlowVariableAnnotationInfo backs a FlowVariableAnnotation node.
type FlowVariableAnnotationInfo struct {
	Antecedent *FlowNode
}

// flowGraph is the per-binder arena that owns every FlowNode allocated
// while binding one file (spec.md §9 "Arena ownership for the flow
// graph"). Intra-graph edges are plain pointers into the arena; there are
// no ownership cycles, only upward/across back-references (antecedent
// chains), so no reference counting is needed.
type flowGraph struct {
	nodes       []*FlowNode
	unreachable *FlowNode
}

func newFlowGraph() *flowGraph {
	g := &flowGraph{}
	g.unreachable = &FlowNode{ID: newFlowNodeID(), Kind: FlowUnreachable}
	return g
}

func (g *flowGraph) alloc(n *FlowNode) *FlowNode {
	n.ID = newFlowNodeID()
	g.nodes = append(g.nodes, n)
	return n
}

// Unreachable returns this graph's shared Unreachable singleton (spec.md
// §3 "the Unreachable node is absorbing").
func (g *flowGraph) Unreachable() *FlowNode { return g.unreachable }

func (g *flowGraph) createStart() *FlowNode {
	return g.alloc(&FlowNode{Kind: FlowStart})
}

func (g *flowGraph) createBranchLabel(preBranch *FlowNode) *FlowNode {
	return g.alloc(&FlowNode{Kind: FlowBranchLabel, BranchLabel: &FlowLabelInfo{
		PreBranchAntecedent: preBranch,
		AffectedExpressions: map[string]bool{},
		seen:                swiss.NewMap[FlowNodeID, struct{}](4),
	}})
}

func (g *flowGraph) createLoopLabel() *FlowNode {
	return g.alloc(&FlowNode{Kind: FlowLoopLabel, LoopLabel: &FlowLabelInfo{
		AffectedExpressions: map[string]bool{},
		seen:                swiss.NewMap[FlowNodeID, struct{}](4),
	}})
}

func (g *flowGraph) createContextManagerLabel(exprs []ast.Expr, isAsync, blockIfSwallows bool) *FlowNode {
	return g.alloc(&FlowNode{Kind: FlowPostContextManager, PostContextManager: &FlowPostContextManagerInfo{
		Expressions:               exprs,
		IsAsync:                   isAsync,
		BlockIfSwallowsExceptions: blockIfSwallows,
		seen:                      swiss.NewMap[FlowNodeID, struct{}](4),
	}})
}

func labelInfo(label *FlowNode) *FlowLabelInfo {
	switch label.Kind {
	case FlowBranchLabel:
		return label.BranchLabel
	case FlowLoopLabel:
		return label.LoopLabel
	default:
		panic("binder: addAntecedent on a non-label flow node")
	}
}

// addAntecedent appends node to label's antecedent list unless node is the
// Unreachable singleton or is already present (spec.md §4.3, §8 invariant
// 4 "antecedent deduplication").
func (g *flowGraph) addAntecedent(label, node *FlowNode) {
	if node == g.unreachable || node.Kind == FlowUnreachable {
		return
	}
	if label.Kind == FlowPostContextManager {
		info := label.PostContextManager
		if info.seen.Has(node.ID) {
			return
		}
		info.seen.Put(node.ID, struct{}{})
		info.Antecedents = append(info.Antecedents, node)
		return
	}
	info := labelInfo(label)
	if info.seen.Has(node.ID) {
		return
	}
	info.seen.Put(node.ID, struct{}{})
	info.Antecedents = append(info.Antecedents, node)
}

// finishFlowLabel finalizes a branch/loop label (spec.md §4.3
// finishFlowLabel, §8 invariant 5): an empty label becomes Unreachable; a
// BranchLabel with exactly one antecedent is elided to that antecedent
// directly; otherwise the label is kept and complexity grows by
// antecedents-1.
func (g *flowGraph) finishFlowLabel(label *FlowNode, complexity *float64) *FlowNode {
	info := labelInfo(label)
	n := len(info.Antecedents)
	if n == 0 {
		return g.unreachable
	}
	if n == 1 && label.Kind == FlowBranchLabel {
		return info.Antecedents[0]
	}
	if complexity != nil {
		*complexity += float64(n - 1)
	}
	return label
}

// createFlowAssignment emits an Assignment node (spec.md §4.3) for the
// target symbol, marked as an unbinding when unbind is set. It does not
// chain to any except targets: antecedent is the node's only predecessor.
func (g *flowGraph) createFlowAssignment(antecedent *FlowNode, targetSym SymbolID, node ast.Node, unbind bool) *FlowNode {
	return g.alloc(&FlowNode{Kind: FlowAssignment, Assignment: &FlowAssignmentInfo{
		Node: node, TargetSymbolID: targetSym, Antecedent: antecedent, Unbind: unbind,
	}})
}

// createCallFlowNode emits a Call node (spec.md §4.3).
func (g *flowGraph) createCallFlowNode(antecedent *FlowNode, node ast.Node) *FlowNode {
	return g.alloc(&FlowNode{Kind: FlowCall, Call: &FlowCallInfo{Node: node, Antecedent: antecedent}})
}

// createVariableAnnotation emits a VariableAnnotation node.
func (g *flowGraph) createVariableAnnotation(antecedent *FlowNode) *FlowNode {
	return g.alloc(&FlowNode{Kind: FlowVariableAnnotation, VariableAnnotation: &FlowVariableAnnotationInfo{Antecedent: antecedent}})
}

// createWildcardImport emits a WildcardImport node.
func (g *flowGraph) createWildcardImport(antecedent *FlowNode, node ast.Node, names []string) *FlowNode {
	return g.alloc(&FlowNode{Kind: FlowWildcardImport, WildcardImport: &FlowWildcardImportInfo{
		Node: node, Names: names, Antecedent: antecedent,
	}})
}

// createNarrowForPattern emits a NarrowForPattern node.
func (g *flowGraph) createNarrowForPattern(antecedent *FlowNode, subject ast.Expr, stmt ast.Node) *FlowNode {
	return g.alloc(&FlowNode{Kind: FlowNarrowForPattern, NarrowForPattern: &FlowNarrowForPatternInfo{
		Subject: subject, Statement: stmt, Antecedent: antecedent,
	}})
}

// createExhaustedMatch emits an ExhaustedMatch node.
func (g *flowGraph) createExhaustedMatch(antecedent *FlowNode, node ast.Node, subject ast.Expr) *FlowNode {
	return g.alloc(&FlowNode{Kind: FlowExhaustedMatch, ExhaustedMatch: &FlowExhaustedMatchInfo{
		Node: node, Subject: subject, Antecedent: antecedent,
	}})
}

// createPreFinallyGate emits a PreFinallyGate node.
func (g *flowGraph) createPreFinallyGate(antecedent *FlowNode) *FlowNode {
	return g.alloc(&FlowNode{Kind: FlowPreFinallyGate, PreFinallyGate: &FlowPreFinallyGateInfo{Antecedent: antecedent}})
}

// createPostFinally emits a PostFinally node.
func (g *flowGraph) createPostFinally(antecedent, gate, finallyNode *FlowNode) *FlowNode {
	return g.alloc(&FlowNode{Kind: FlowPostFinally, PostFinally: &FlowPostFinallyInfo{
		Antecedent: antecedent, PreFinallyGate: gate, FinallyNode: finallyNode,
	}})
}

// createFlowConditional implements spec.md §4.3 createFlowConditional:
// propagates Unreachable, prunes statically-contradicted branches,
// returns antecedent unchanged when ref is empty (nothing to narrow), and
// otherwise allocates a Condition node recording the narrowing reference.
func (g *flowGraph) createFlowConditional(antecedent *FlowNode, flags ConditionFlags, expr ast.Expr, ref string, staticValue staticBoolResult) *FlowNode {
	if antecedent == g.unreachable {
		return g.unreachable
	}
	if staticValue != staticUnknown {
		wantTrue := flags&(TrueCondition|TrueNeverCondition) != 0
		actualTrue := staticValue == staticTrue
		if wantTrue != actualTrue {
			return g.unreachable
		}
	}
	if ref == "" {
		return antecedent
	}
	return g.alloc(&FlowNode{Kind: FlowCondition, Condition: &FlowConditionInfo{
		Flags: flags, Reference: ref, Expression: expr, Antecedent: antecedent,
	}})
}
