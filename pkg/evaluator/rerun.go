package evaluator

import (
	"github.com/zentner-kyle/matchdiagram/pkg/diagram"
	"github.com/zentner-kyle/matchdiagram/pkg/register"
	"github.com/zentner-kyle/matchdiagram/pkg/relation"
)

// forwardClosure returns every node reachable from starts by one or more
// Match/Refute edges (not including the starts themselves), and reports
// whether any start node is itself reachable — a cycle through the start
// set, which makes incremental rerun unsound.
func forwardClosure(d *diagram.MultiDiagram, starts []diagram.NodeIndex) (closure map[diagram.NodeIndex]bool, cyclic bool) {
	closure = make(map[diagram.NodeIndex]bool)
	isStart := make(map[diagram.NodeIndex]bool, len(starts))
	visited := make(map[diagram.NodeIndex]bool, len(starts))
	queue := make([]diagram.NodeIndex, 0, len(starts))
	for _, s := range starts {
		isStart[s] = true
		visited[s] = true
		queue = append(queue, s)
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		successors := append(append([]diagram.NodeIndex(nil), d.MatchTargets(n)...), d.RefuteTargets(n)...)
		for _, t := range successors {
			if isStart[t] {
				cyclic = true
			}
			if !visited[t] {
				visited[t] = true
				closure[t] = true
				queue = append(queue, t)
			}
		}
	}
	return closure, cyclic
}

// RerunFrom incrementally re-evaluates e's diagram after a mutation that
// may have invalidated the nodes in startNodes, reusing the accumulated
// state of every node not reachable from them. Per the mutation contract,
// an empty startNodes forces a full rebuild (Run from scratch).
//
// If the forward closure of startNodes loops back to one of the starts,
// incremental rerun cannot soundly reuse any state (the invalidated
// region would need to observe its own updated output), so this falls
// back to a full rebuild too.
func (e *Evaluation) RerunFrom(d *diagram.MultiDiagram, input *relation.Database, startNodes []diagram.NodeIndex) *Evaluation {
	if len(startNodes) == 0 {
		e.Logger.Debug("rerun forced full rebuild: no restart node")
		return Run(d, input, e.MaxDepth, e.Logger)
	}

	closure, cyclic := forwardClosure(d, startNodes)
	if cyclic {
		e.Logger.Debug("rerun falling back to full rebuild: cycle through restart set")
		return Run(d, input, e.MaxDepth, e.Logger)
	}

	states := e.grownStates(d)

	// Snapshot the surviving sources' outputs before any resets touch them.
	survivingMatches := make(map[diagram.NodeIndex]*register.Set)
	survivingRefutes := make(map[diagram.NodeIndex]*register.Set)
	for i := range states {
		idx := diagram.NodeIndex(i)
		if closure[idx] || containsIndex(startNodes, idx) {
			continue
		}
		if d.NodeExists(idx) && d.GetNode(idx).IsMatch() {
			survivingMatches[idx] = states[idx].Matches
			survivingRefutes[idx] = states[idx].Refutes
		}
	}

	toReset := make(map[diagram.NodeIndex]bool, len(closure)+len(startNodes))
	for idx := range closure {
		toReset[idx] = true
	}
	for _, idx := range startNodes {
		toReset[idx] = true
	}
	for idx := range toReset {
		if d.NodeExists(idx) {
			states[idx] = freshState(d, idx)
		}
	}

	wl := newWorklist(d, input, e.MaxDepth, e.Logger, states)
	width := d.NumRegisters()
	for _, start := range startNodes {
		if !d.NodeExists(start) {
			continue
		}
		rebuilt := register.NewSet(width)
		if containsIndex(d.Roots(), start) {
			rebuilt.Push(register.New(width), 1, 0)
		}
		for _, s := range d.MatchSources(start) {
			if !closure[s] && !containsIndex(startNodes, s) {
				if m, ok := survivingMatches[s]; ok {
					rebuilt.MergeFrom(m)
				}
			}
		}
		for _, s := range d.RefuteSources(start) {
			if !closure[s] && !containsIndex(startNodes, s) {
				if r, ok := survivingRefutes[s]; ok {
					rebuilt.MergeFrom(r)
				}
			}
		}
		wl.enqueue(start, rebuilt)
	}
	wl.run()

	eval := &Evaluation{
		Diagram:  d,
		MaxDepth: e.MaxDepth,
		States:   states,
		Logger:   e.Logger,
	}
	eval.TotalDB = eval.rebuildTotalDB()
	return eval
}

// grownStates returns a copy of e.States extended (with fresh per-kind
// state) to cover any nodes diagram has gained since e was computed.
func (e *Evaluation) grownStates(d *diagram.MultiDiagram) []NodeState {
	states := make([]NodeState, d.Len())
	copy(states, e.States)
	for i := len(e.States); i < d.Len(); i++ {
		idx := diagram.NodeIndex(i)
		if d.NodeExists(idx) {
			states[i] = freshState(d, idx)
		}
	}
	return states
}

func containsIndex(group []diagram.NodeIndex, idx diagram.NodeIndex) bool {
	for _, n := range group {
		if n == idx {
			return true
		}
	}
	return false
}
