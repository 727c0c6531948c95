package mutagen

import (
	"github.com/zentner-kyle/matchdiagram/pkg/diagram"
	"github.com/zentner-kyle/matchdiagram/pkg/mutation"
)

// candidates enumerates every Mutation this generator considers worth
// proposing for d's current shape. Some entries may still turn out to be
// inapplicable at Apply time (e.g. DuplicateTarget without a shared
// target, or an InsertEdge that already exists) — that's fine per spec §7:
// an inapplicable mutation is a normal skip signal, and the search loop is
// expected to just ask the generator again.
func (g *Generator) candidates(d *diagram.MultiDiagram) []mutation.Mutation {
	live := liveNodes(d)
	if len(live) == 0 {
		return nil
	}

	var out []mutation.Mutation
	for _, n := range live {
		node := d.GetNode(n)
		out = append(out, mutation.RemoveNodeMutation(n))
		out = append(out, mutation.DuplicateTargetMutation(n))
		out = append(out, mutation.SetPredicateMutation(n, g.randomPredicate()))

		if node.IsMatch() {
			out = append(out, g.matchNodeCandidates(d, n, node, live)...)
		} else {
			out = append(out, g.outputNodeCandidates(d, n, node)...)
		}
	}

	for _, n := range live {
		out = append(out, mutation.InsertEdgeMutation(diagram.RootEdge(n)))
	}
	out = append(out, mutation.InsertOutputNodeMutation(mutation.RootGroup(), g.randomPredicate(), g.randomOutputTerms(d, g.smallArity())))

	return out
}

func (g *Generator) matchNodeCandidates(d *diagram.MultiDiagram, n diagram.NodeIndex, node diagram.Node, live []diagram.NodeIndex) []mutation.Mutation {
	var out []mutation.Mutation
	for i := range node.MatchTerms {
		out = append(out,
			mutation.SetConstraintFreeMutation(n, i),
			mutation.SetConstraintConstantMutation(n, i, g.randomValue()),
			mutation.SetConstraintRegisterMutation(n, i, g.randomRegister(d)),
			mutation.SetTargetMutation(n, i, diagram.NoTarget),
			mutation.SetTargetMutation(n, i, g.randomRegister(d)),
		)
	}

	arity := g.smallArity()
	out = append(out,
		mutation.InsertOutputNodeMutation(mutation.MatchGroup(n), g.randomPredicate(), g.randomOutputTerms(d, arity)),
		mutation.InsertOutputNodeMutation(mutation.RefuteGroup(n), g.randomPredicate(), g.randomOutputTerms(d, arity)),
	)

	for _, t := range live {
		matchEdge := diagram.MatchEdge(n, t)
		refuteEdge := diagram.RefuteEdge(n, t)
		out = append(out,
			mutation.InsertEdgeMutation(matchEdge),
			mutation.InsertEdgeMutation(refuteEdge),
			mutation.InsertMatchNodeMutation(matchEdge, g.randomPredicate(), g.randomMatchTerms(d, arity)),
			mutation.InsertMatchNodeMutation(refuteEdge, g.randomPredicate(), g.randomMatchTerms(d, arity)),
		)
	}
	return out
}

func (g *Generator) outputNodeCandidates(d *diagram.MultiDiagram, n diagram.NodeIndex, node diagram.Node) []mutation.Mutation {
	var out []mutation.Mutation
	for i := range node.OutputTerms {
		out = append(out,
			mutation.SetOutputConstantMutation(n, i, g.randomValue()),
			mutation.SetOutputRegisterMutation(n, i, g.randomRegister(d)),
		)
	}
	return out
}

func (g *Generator) smallArity() int {
	return 1 + g.rng.IntN(3)
}

func liveNodes(d *diagram.MultiDiagram) []diagram.NodeIndex {
	var out []diagram.NodeIndex
	for i := 0; i < d.Len(); i++ {
		idx := diagram.NodeIndex(i)
		if d.NodeExists(idx) {
			out = append(out, idx)
		}
	}
	return out
}
