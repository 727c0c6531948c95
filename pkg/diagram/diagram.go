// Package diagram implements the MultiDiagram: a labeled multi-graph of
// Match and Output nodes connected by Root, Match and Refute edges (spec
// §3 "Diagram (MultiDiagram)"). Nodes live in a dense arena indexed by
// NodeIndex; "removed" nodes are never freed, only recorded on a
// per-diagram deletion list so their index can be reused by a later insert
// (arena + free-list), keeping NodeIndex stable across mutation.
package diagram

import (
	"fmt"

	"github.com/zentner-kyle/matchdiagram/pkg/relation"
)

// NodeIndex addresses a node in a MultiDiagram's arena.
type NodeIndex int

// NodeKind distinguishes the two Node variants.
type NodeKind uint8

const (
	// Match nodes test facts of a predicate against term constraints.
	Match NodeKind = iota
	// Output nodes emit one fact per incoming binding.
	Output
)

// ConstraintKind distinguishes the three MatchTerm constraint variants.
type ConstraintKind uint8

const (
	// Free imposes no constraint on the matched column.
	Free ConstraintKind = iota
	// ConstConstraint requires the column to equal a fixed value.
	ConstConstraint
	// RegConstraint requires the column to equal the value already bound
	// in a register.
	RegConstraint
)

// MatchConstraint is the constraint half of a MatchTerm: Free, Constant(v)
// or Register(i).
type MatchConstraint struct {
	Kind     ConstraintKind
	Value    relation.Value
	Register int
}

// FreeConstraint returns the Free constraint.
func FreeConstraint() MatchConstraint { return MatchConstraint{Kind: Free} }

// ConstantConstraint returns a Constant(v) constraint.
func ConstantConstraint(v relation.Value) MatchConstraint {
	return MatchConstraint{Kind: ConstConstraint, Value: v}
}

// RegisterConstraint returns a Register(r) constraint.
func RegisterConstraint(r int) MatchConstraint {
	return MatchConstraint{Kind: RegConstraint, Register: r}
}

// MatchTerm is one column of a Match node: a constraint on the incoming
// fact's value at this position, and an optional register to bind it to.
type MatchTerm struct {
	Constraint MatchConstraint
	// Target is the register index bound from this column, or -1 if the
	// column is not captured.
	Target int
}

// HasTarget reports whether this term binds a register.
func (t MatchTerm) HasTarget() bool { return t.Target >= 0 }

// NoTarget is the sentinel meaning "this match term does not bind a
// register".
const NoTarget = -1

// OutputTermKind distinguishes the two OutputTerm variants.
type OutputTermKind uint8

const (
	// OutputConstant emits a fixed value.
	OutputConstant OutputTermKind = iota
	// OutputRegister emits the current value of a register.
	OutputRegister
)

// OutputTerm is one column of an Output node's emitted fact.
type OutputTerm struct {
	Kind     OutputTermKind
	Value    relation.Value
	Register int
}

// ConstantTerm returns a Constant(v) output term.
func ConstantTerm(v relation.Value) OutputTerm {
	return OutputTerm{Kind: OutputConstant, Value: v}
}

// RegisterTerm returns a Register(r) output term.
func RegisterTerm(r int) OutputTerm {
	return OutputTerm{Kind: OutputRegister, Register: r}
}

// Node is a Match or Output node. Exactly one of MatchTerms/OutputTerms is
// meaningful, selected by Kind.
type Node struct {
	Kind        NodeKind
	Predicate   relation.Predicate
	MatchTerms  []MatchTerm
	OutputTerms []OutputTerm
}

// NewMatchNode builds a Match node over predicate with the given terms.
func NewMatchNode(predicate relation.Predicate, terms []MatchTerm) Node {
	return Node{Kind: Match, Predicate: predicate, MatchTerms: terms}
}

// NewOutputNode builds an Output node over predicate with the given terms.
func NewOutputNode(predicate relation.Predicate, terms []OutputTerm) Node {
	return Node{Kind: Output, Predicate: predicate, OutputTerms: terms}
}

// IsMatch reports whether n is a Match node.
func (n Node) IsMatch() bool { return n.Kind == Match }

// Clone returns a deep copy of n (used when duplicating nodes for
// mutations such as DuplicateTarget).
func (n Node) Clone() Node {
	clone := n
	clone.MatchTerms = append([]MatchTerm(nil), n.MatchTerms...)
	clone.OutputTerms = append([]OutputTerm(nil), n.OutputTerms...)
	return clone
}

// EdgeTag distinguishes the three edge classes.
type EdgeTag uint8

const (
	// RootTag marks a diagram entry point.
	RootTag EdgeTag = iota
	// MatchTag connects a node's match output to a target.
	MatchTag
	// RefuteTag connects a node's refute output to a target.
	RefuteTag
)

// Edge is one of Root(target), Match{source,target} or
// Refute{source,target}. Source is meaningless (and HasSource is false)
// for a Root edge.
type Edge struct {
	Tag       EdgeTag
	HasSource bool
	Source    NodeIndex
	Target    NodeIndex
}

// RootEdge returns a Root(target) edge.
func RootEdge(target NodeIndex) Edge {
	return Edge{Tag: RootTag, Target: target}
}

// MatchEdge returns a Match{source,target} edge.
func MatchEdge(source, target NodeIndex) Edge {
	return Edge{Tag: MatchTag, HasSource: true, Source: source, Target: target}
}

// RefuteEdge returns a Refute{source,target} edge.
func RefuteEdge(source, target NodeIndex) Edge {
	return Edge{Tag: RefuteTag, HasSource: true, Source: source, Target: target}
}

// String renders e for debugging.
func (e Edge) String() string {
	switch e.Tag {
	case RootTag:
		return fmt.Sprintf("Root(%d)", e.Target)
	case MatchTag:
		return fmt.Sprintf("Match{%d -> %d}", e.Source, e.Target)
	case RefuteTag:
		return fmt.Sprintf("Refute{%d -> %d}", e.Source, e.Target)
	default:
		return "Edge(?)"
	}
}
