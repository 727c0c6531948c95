package mutation

import (
	"github.com/hashicorp/go-hclog"

	"github.com/zentner-kyle/matchdiagram/pkg/diagram"
)

// Apply applies m to d. ok is false if m is inapplicable (its precondition
// failed), matching the source's `None` — a normal skip signal for the
// search loop, never an error.
func Apply(d *diagram.MultiDiagram, m Mutation, logger hclog.Logger) (Result, bool) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	switch m.Kind {
	case SetConstraintRegister:
		return applyTermEdit(d, m, func(t *diagram.MatchTerm) {
			t.Constraint = diagram.RegisterConstraint(m.Register)
		})
	case SetConstraintConstant:
		return applyTermEdit(d, m, func(t *diagram.MatchTerm) {
			t.Constraint = diagram.ConstantConstraint(m.Value)
		})
	case SetConstraintFree:
		return applyTermEdit(d, m, func(t *diagram.MatchTerm) {
			t.Constraint = diagram.FreeConstraint()
		})
	case SetTarget:
		return applyTermEdit(d, m, func(t *diagram.MatchTerm) {
			t.Target = m.OptTarget
		})
	case SetOutputRegister:
		return applyOutputTermEdit(d, m, diagram.RegisterTerm(m.Register))
	case SetOutputConstant:
		return applyOutputTermEdit(d, m, diagram.ConstantTerm(m.Value))
	case SetPredicate:
		if !d.NodeExists(m.Node) {
			return Result{}, false
		}
		d.MutateNode(m.Node, func(n *diagram.Node) { n.Predicate = m.Predicate })
		logger.Debug("applied SetPredicate", "node", m.Node)
		return restartAt(m.Node), true
	case InsertEdge:
		return applyInsertEdge(d, m)
	case RemoveNode:
		return applyRemoveNode(d, m, logger)
	case InsertOutputNode:
		return applyInsertOutputNode(d, m)
	case InsertMatchNode:
		return applyInsertMatchNode(d, m)
	case DuplicateTarget:
		return applyDuplicateTarget(d, m)
	default:
		return Result{}, false
	}
}

func applyTermEdit(d *diagram.MultiDiagram, m Mutation, edit func(*diagram.MatchTerm)) (Result, bool) {
	if !d.NodeExists(m.Node) {
		return Result{}, false
	}
	node := d.GetNode(m.Node)
	if !node.IsMatch() || m.Term < 0 || m.Term >= len(node.MatchTerms) {
		return Result{}, false
	}
	d.MutateNode(m.Node, func(n *diagram.Node) { edit(&n.MatchTerms[m.Term]) })
	return restartAt(m.Node), true
}

func applyOutputTermEdit(d *diagram.MultiDiagram, m Mutation, term diagram.OutputTerm) (Result, bool) {
	if !d.NodeExists(m.Node) {
		return Result{}, false
	}
	node := d.GetNode(m.Node)
	if node.IsMatch() || m.Term < 0 || m.Term >= len(node.OutputTerms) {
		return Result{}, false
	}
	d.MutateNode(m.Node, func(n *diagram.Node) { n.OutputTerms[m.Term] = term })
	return restartAt(m.Node), true
}

func applyInsertEdge(d *diagram.MultiDiagram, m Mutation) (Result, bool) {
	e := m.Edge
	if e.Tag != diagram.RootTag && !d.NodeExists(e.Source) {
		return Result{}, false
	}
	if !d.NodeExists(e.Target) {
		return Result{}, false
	}
	inserted := d.InsertEdge(e)
	if e.HasSource {
		return Result{PhenotypeCouldHaveChanged: inserted, NodeToRestart: e.Source, HasRestart: inserted}, true
	}
	return Result{PhenotypeCouldHaveChanged: inserted}, true
}

func applyRemoveNode(d *diagram.MultiDiagram, m Mutation, logger hclog.Logger) (Result, bool) {
	n := m.Node
	if !d.NodeExists(n) {
		return Result{}, false
	}

	ms := filterSelf(d.MatchSources(n), n)
	mt := filterSelf(d.MatchTargets(n), n)
	rs := filterSelf(d.RefuteSources(n), n)
	rt := filterSelf(d.RefuteTargets(n), n)
	wasRoot := contains(d.Roots(), n)

	for t := range union(mt, rt) {
		for _, s := range ms {
			d.InsertEdge(diagram.MatchEdge(s, t))
		}
		for _, s := range rs {
			d.InsertEdge(diagram.RefuteEdge(s, t))
		}
	}
	if wasRoot {
		for t := range union(mt, rt) {
			d.InsertEdge(diagram.RootEdge(t))
		}
		d.RemoveEdge(diagram.RootEdge(n))
	}

	// Remove every remaining incident edge of n, including self-loops.
	for _, t := range d.MatchTargets(n) {
		d.RemoveEdge(diagram.MatchEdge(n, t))
	}
	for _, t := range d.RefuteTargets(n) {
		d.RemoveEdge(diagram.RefuteEdge(n, t))
	}
	for _, s := range d.MatchSources(n) {
		d.RemoveEdge(diagram.MatchEdge(s, n))
	}
	for _, s := range d.RefuteSources(n) {
		d.RemoveEdge(diagram.RefuteEdge(s, n))
	}

	d.FreeNode(n)
	logger.Debug("applied RemoveNode", "node", n, "was_root", wasRoot)

	changed := wasRoot || len(ms) > 0 || len(rs) > 0
	return Result{PhenotypeCouldHaveChanged: changed}, true
}

func applyInsertOutputNode(d *diagram.MultiDiagram, m Mutation) (Result, bool) {
	if !m.Group.wellFormed(d) {
		return Result{}, false
	}
	n := d.InsertNode(diagram.NewOutputNode(m.Predicate, m.OutputTerms))
	d.InsertEdge(m.Group.edgeTo(n))
	if m.Group.HasSource {
		return Result{PhenotypeCouldHaveChanged: true, NodeToRestart: m.Group.Source, HasRestart: true}, true
	}
	return Result{PhenotypeCouldHaveChanged: true}, true
}

func applyInsertMatchNode(d *diagram.MultiDiagram, m Mutation) (Result, bool) {
	if !d.EdgeExists(m.Edge) {
		return Result{}, false
	}
	group := SourceGroup{Tag: m.Edge.Tag, HasSource: m.Edge.HasSource, Source: m.Edge.Source}
	target := m.Edge.Target

	n := d.InsertNode(diagram.NewMatchNode(m.Predicate, m.MatchTerms))
	d.InsertEdge(group.edgeTo(n))
	d.InsertEdge(diagram.MatchEdge(n, target))
	d.InsertEdge(diagram.RefuteEdge(n, target))

	if group.HasSource {
		return Result{PhenotypeCouldHaveChanged: true, NodeToRestart: group.Source, HasRestart: true}, true
	}
	return Result{PhenotypeCouldHaveChanged: true}, true
}

// applyDuplicateTarget finds a target shared by n's match-arm and
// refute-arm, clones it (keeping its own outgoing edges), and retargets
// only the match-arm at the clone. Always phenotype-neutral: the clone's
// behavior is identical to the original's, so total_db cannot change.
func applyDuplicateTarget(d *diagram.MultiDiagram, m Mutation) (Result, bool) {
	n := m.Node
	if !d.NodeExists(n) {
		return Result{}, false
	}
	target, ok := sharedTarget(d.MatchTargets(n), d.RefuteTargets(n))
	if !ok {
		return Result{}, false
	}

	clone := d.GetNode(target).Clone()
	newTarget := d.InsertNode(clone)
	for _, t := range d.MatchTargets(target) {
		d.InsertEdge(diagram.MatchEdge(newTarget, t))
	}
	for _, t := range d.RefuteTargets(target) {
		d.InsertEdge(diagram.RefuteEdge(newTarget, t))
	}

	d.RemoveEdge(diagram.MatchEdge(n, target))
	d.InsertEdge(diagram.MatchEdge(n, newTarget))

	return Result{PhenotypeCouldHaveChanged: false, NodeToRestart: n, HasRestart: true}, true
}

func filterSelf(group []diagram.NodeIndex, self diagram.NodeIndex) []diagram.NodeIndex {
	out := make([]diagram.NodeIndex, 0, len(group))
	for _, n := range group {
		if n != self {
			out = append(out, n)
		}
	}
	return out
}

func contains(group []diagram.NodeIndex, n diagram.NodeIndex) bool {
	for _, x := range group {
		if x == n {
			return true
		}
	}
	return false
}

func union(a, b []diagram.NodeIndex) map[diagram.NodeIndex]struct{} {
	out := make(map[diagram.NodeIndex]struct{}, len(a)+len(b))
	for _, n := range a {
		out[n] = struct{}{}
	}
	for _, n := range b {
		out[n] = struct{}{}
	}
	return out
}

func sharedTarget(matchTargets, refuteTargets []diagram.NodeIndex) (diagram.NodeIndex, bool) {
	for _, t := range matchTargets {
		if contains(refuteTargets, t) {
			return t, true
		}
	}
	return 0, false
}
