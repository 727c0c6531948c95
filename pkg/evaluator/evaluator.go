// Package evaluator runs a diagram against an input database: a worklist
// fixpoint propagation over the match/refute graph with per-node register
// snapshots, depth bounding, fact weights, and incremental re-evaluation
// after a targeted invalidation (spec §4.3).
package evaluator

import (
	"github.com/hashicorp/go-hclog"

	"github.com/zentner-kyle/matchdiagram/pkg/diagram"
	"github.com/zentner-kyle/matchdiagram/pkg/register"
	"github.com/zentner-kyle/matchdiagram/pkg/relation"
)

// DefaultMaxDepth bounds the shortest-derivation depth the evaluator will
// keep propagating through Match nodes, guaranteeing termination on
// cyclic diagrams (spec §4.3).
const DefaultMaxDepth = 8

// NodeState is the evaluator's per-node accumulated state. Exactly one of
// (Matches, Refutes) or OutputDB is populated, depending on the node kind.
type NodeState struct {
	// Input is every register file ever delivered to this node. RerunFrom
	// does not read it: a restarted node's input is rebuilt from its
	// surviving sources' Matches and Refutes.
	Input *register.Set
	// Matches and Refutes hold a Match node's accumulated match/refute
	// outputs.
	Matches *register.Set
	Refutes *register.Set
	// OutputDB holds an Output node's accumulated emitted facts.
	OutputDB *relation.Database
}

func freshMatchState(width int) NodeState {
	return NodeState{
		Input:   register.NewSet(width),
		Matches: register.NewSet(width),
		Refutes: register.NewSet(width),
	}
}

func freshOutputState(width int) NodeState {
	return NodeState{
		Input:    register.NewSet(width),
		OutputDB: relation.NewDatabase(),
	}
}

func freshState(d *diagram.MultiDiagram, idx diagram.NodeIndex) NodeState {
	width := d.NumRegisters()
	if d.GetNode(idx).IsMatch() {
		return freshMatchState(width)
	}
	return freshOutputState(width)
}

// Evaluation is the cached per-diagram computation state: per-node inputs
// and outputs plus the unioned total output database.
type Evaluation struct {
	Diagram  *diagram.MultiDiagram
	MaxDepth int
	States   []NodeState
	TotalDB  *relation.Database
	Logger   hclog.Logger
}

func safeLogger(logger hclog.Logger) hclog.Logger {
	if logger == nil {
		return hclog.NewNullLogger()
	}
	return logger
}

// propagateMatch applies a Match node's term constraints to every fact of
// its predicate, for every register file in delta. Constraint checks read
// the incoming (unmodified) register file; target bindings are written
// into a working copy. Members whose depth has already reached maxDepth do
// not propagate further (spec §4.3 depth bound).
func propagateMatch(db *relation.Database, node diagram.Node, delta *register.Set, maxDepth int) (matches, refutes *register.Set) {
	width := delta.NumRegisters()
	matches = register.NewSet(width)
	refutes = register.NewSet(width)
	for _, member := range delta.Members() {
		if member.Depth >= maxDepth {
			continue
		}
		it := db.FactsForPredicate(node.Predicate)
		for {
			fact, ok := it.Next()
			if !ok {
				break
			}
			if len(fact.Values) != len(node.MatchTerms) {
				continue
			}
			result := member.File
			refuted := false
			for i, term := range node.MatchTerms {
				value := fact.Values[i]
				switch term.Constraint.Kind {
				case diagram.Free:
					// no constraint
				case diagram.ConstConstraint:
					if term.Constraint.Value != value {
						refuted = true
					}
				case diagram.RegConstraint:
					bound, isBound := member.File.Get(term.Constraint.Register)
					if !isBound || bound != value {
						refuted = true
					}
				}
				if term.HasTarget() {
					result = result.With(term.Target, value)
				}
			}
			if refuted {
				refutes.Push(result, member.Weight, member.Depth+1)
			} else {
				matches.Push(result, member.Weight, member.Depth+1)
			}
		}
	}
	return matches, refutes
}

// propagateOutput builds one fact per register file in delta, per spec
// §4.2: a Register term referencing an index beyond the file's width is
// omitted rather than defaulted, which can yield a fact whose arity
// disagrees with other facts of the same predicate (a documented source
// quirk, preserved here).
func propagateOutput(node diagram.Node, delta *register.Set) *relation.Database {
	out := relation.NewDatabase()
	for _, member := range delta.Members() {
		values := make([]relation.Value, 0, len(node.OutputTerms))
		for _, term := range node.OutputTerms {
			switch term.Kind {
			case diagram.OutputConstant:
				values = append(values, term.Value)
			case diagram.OutputRegister:
				if term.Register < member.File.Len() {
					if v, bound := member.File.Get(term.Register); bound {
						values = append(values, v)
					} else {
						values = append(values, relation.Nil)
					}
				}
			}
		}
		out.InsertFactWithWeight(relation.NewFact(node.Predicate, values...), member.Weight)
	}
	return out
}
