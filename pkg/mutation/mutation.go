// Package mutation implements the mutation algebra (spec §4.4): a closed
// set of pure-data edits to a diagram, each applied by Apply and reporting
// whether the diagram's output could have changed and which node (if any)
// the evaluator should restart incremental re-evaluation from.
package mutation

import (
	"github.com/zentner-kyle/matchdiagram/pkg/diagram"
	"github.com/zentner-kyle/matchdiagram/pkg/relation"
)

// Kind distinguishes the mutation variants.
type Kind uint8

const (
	SetConstraintRegister Kind = iota
	SetConstraintConstant
	SetConstraintFree
	SetTarget
	SetOutputRegister
	SetOutputConstant
	SetPredicate
	InsertEdge
	RemoveNode
	InsertOutputNode
	InsertMatchNode
	// DuplicateTarget is a supplemented mutation not in the table: when a
	// node's match-arm and refute-arm share a target, clone that target and
	// retarget the match-arm at the clone. Always phenotype-neutral.
	DuplicateTarget
)

// SourceGroup identifies the edge an InsertOutputNode/InsertMatchNode
// mutation wires its new node's incoming edge from: a tag and, for
// anything but a Root edge, a source node.
type SourceGroup struct {
	Tag       diagram.EdgeTag
	HasSource bool
	Source    diagram.NodeIndex
}

// RootGroup returns the Root source group.
func RootGroup() SourceGroup { return SourceGroup{Tag: diagram.RootTag} }

// MatchGroup returns the Match source group rooted at source.
func MatchGroup(source diagram.NodeIndex) SourceGroup {
	return SourceGroup{Tag: diagram.MatchTag, HasSource: true, Source: source}
}

// RefuteGroup returns the Refute source group rooted at source.
func RefuteGroup(source diagram.NodeIndex) SourceGroup {
	return SourceGroup{Tag: diagram.RefuteTag, HasSource: true, Source: source}
}

func (g SourceGroup) edgeTo(target diagram.NodeIndex) diagram.Edge {
	switch g.Tag {
	case diagram.MatchTag:
		return diagram.MatchEdge(g.Source, target)
	case diagram.RefuteTag:
		return diagram.RefuteEdge(g.Source, target)
	default:
		return diagram.RootEdge(target)
	}
}

func (g SourceGroup) wellFormed(d *diagram.MultiDiagram) bool {
	if g.Tag == diagram.RootTag {
		return true
	}
	return g.HasSource && d.NodeExists(g.Source)
}

// Mutation is a tagged record naming one edit from the algebra. Only the
// fields relevant to Kind are meaningful; see the table in spec §4.4.
type Mutation struct {
	Kind Kind

	Node NodeIndex // n: the node most mutations target

	Term     int            // i: term index within Node
	Register int            // r
	Value    relation.Value // v

	// OptTarget is the register a SetTarget mutation binds the term to, or
	// diagram.NoTarget to clear it.
	OptTarget int

	Predicate relation.Predicate // p: SetPredicate / InsertOutputNode / InsertMatchNode

	Edge diagram.Edge // e: InsertEdge / InsertMatchNode's edge

	Group       SourceGroup // InsertOutputNode's group
	OutputTerms []diagram.OutputTerm
	MatchTerms  []diagram.MatchTerm
}

// NodeIndex is an alias kept local to this package's literal API surface
// (it is exactly diagram.NodeIndex) so constructors read like the spec
// table without an extra import qualifier at every call site.
type NodeIndex = diagram.NodeIndex

func SetConstraintRegisterMutation(n NodeIndex, term int, r int) Mutation {
	return Mutation{Kind: SetConstraintRegister, Node: n, Term: term, Register: r}
}

func SetConstraintConstantMutation(n NodeIndex, term int, v relation.Value) Mutation {
	return Mutation{Kind: SetConstraintConstant, Node: n, Term: term, Value: v}
}

func SetConstraintFreeMutation(n NodeIndex, term int) Mutation {
	return Mutation{Kind: SetConstraintFree, Node: n, Term: term}
}

func SetTargetMutation(n NodeIndex, term int, optRegister int) Mutation {
	return Mutation{Kind: SetTarget, Node: n, Term: term, OptTarget: optRegister}
}

func SetOutputRegisterMutation(n NodeIndex, term int, r int) Mutation {
	return Mutation{Kind: SetOutputRegister, Node: n, Term: term, Register: r}
}

func SetOutputConstantMutation(n NodeIndex, term int, v relation.Value) Mutation {
	return Mutation{Kind: SetOutputConstant, Node: n, Term: term, Value: v}
}

func SetPredicateMutation(n NodeIndex, p relation.Predicate) Mutation {
	return Mutation{Kind: SetPredicate, Node: n, Predicate: p}
}

func InsertEdgeMutation(e diagram.Edge) Mutation {
	return Mutation{Kind: InsertEdge, Edge: e}
}

func RemoveNodeMutation(n NodeIndex) Mutation {
	return Mutation{Kind: RemoveNode, Node: n}
}

func InsertOutputNodeMutation(group SourceGroup, p relation.Predicate, terms []diagram.OutputTerm) Mutation {
	return Mutation{Kind: InsertOutputNode, Group: group, Predicate: p, OutputTerms: terms}
}

func InsertMatchNodeMutation(edge diagram.Edge, p relation.Predicate, terms []diagram.MatchTerm) Mutation {
	return Mutation{Kind: InsertMatchNode, Edge: edge, Predicate: p, MatchTerms: terms}
}

func DuplicateTargetMutation(n NodeIndex) Mutation {
	return Mutation{Kind: DuplicateTarget, Node: n}
}

// Result is what a successful Apply reports: whether the diagram's
// observable output could have changed, and which node the evaluator
// should restart from (HasRestart false means None — the caller must pass
// an empty restart list, forcing a full rebuild).
type Result struct {
	PhenotypeCouldHaveChanged bool
	NodeToRestart             NodeIndex
	HasRestart                bool
}

func restartAt(n NodeIndex) Result {
	return Result{PhenotypeCouldHaveChanged: true, NodeToRestart: n, HasRestart: true}
}
