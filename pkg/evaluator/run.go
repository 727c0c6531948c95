package evaluator

import (
	"github.com/hashicorp/go-hclog"

	"github.com/zentner-kyle/matchdiagram/pkg/diagram"
	"github.com/zentner-kyle/matchdiagram/pkg/register"
	"github.com/zentner-kyle/matchdiagram/pkg/relation"
)

// worklist drives the forward fixpoint. pending holds each node's
// not-yet-processed contribution to its input (its delta), so multiple
// arrivals before a node is next dequeued get coalesced into one
// propagation step.
type worklist struct {
	diagram *diagram.MultiDiagram
	input   *relation.Database
	maxDepth int
	logger   hclog.Logger

	states  []NodeState
	pending map[diagram.NodeIndex]*register.Set
	queue   []diagram.NodeIndex
	queued  map[diagram.NodeIndex]bool
}

func newWorklist(d *diagram.MultiDiagram, input *relation.Database, maxDepth int, logger hclog.Logger, states []NodeState) *worklist {
	return &worklist{
		diagram:  d,
		input:    input,
		maxDepth: maxDepth,
		logger:   logger,
		states:   states,
		pending:  make(map[diagram.NodeIndex]*register.Set),
		queued:   make(map[diagram.NodeIndex]bool),
	}
}

func (w *worklist) enqueue(n diagram.NodeIndex, rs *register.Set) {
	if rs == nil || rs.Len() == 0 {
		return
	}
	d, ok := w.pending[n]
	if !ok {
		d = register.NewSet(w.diagram.NumRegisters())
		w.pending[n] = d
	}
	d.MergeFrom(rs)
	if !w.queued[n] {
		w.queued[n] = true
		w.queue = append(w.queue, n)
	}
}

// run drains the worklist to quiescence, mutating w.states in place.
func (w *worklist) run() {
	for len(w.queue) > 0 {
		n := w.queue[0]
		w.queue = w.queue[1:]
		w.queued[n] = false

		delta := w.pending[n]
		delete(w.pending, n)
		if delta == nil || delta.Len() == 0 {
			continue
		}

		state := &w.states[n]
		state.Input.MergeFrom(delta)

		node := w.diagram.GetNode(n)
		if node.IsMatch() {
			matchDelta, refuteDelta := propagateMatch(w.input, node, delta, w.maxDepth)
			state.Matches.MergeFrom(matchDelta)
			state.Refutes.MergeFrom(refuteDelta)
			for _, t := range w.diagram.MatchTargets(n) {
				w.enqueue(t, matchDelta)
			}
			for _, t := range w.diagram.RefuteTargets(n) {
				w.enqueue(t, refuteDelta)
			}
			w.logger.Trace("propagated match node", "node", n, "matches", matchDelta.Len(), "refutes", refuteDelta.Len())
		} else {
			outDelta := propagateOutput(node, delta)
			state.OutputDB.Merge(outDelta)
			w.logger.Trace("propagated output node", "node", n, "facts", len(outDelta.AllFacts()))
		}
	}
}

// Run evaluates diagram against input from scratch, up to maxDepth.
func Run(d *diagram.MultiDiagram, input *relation.Database, maxDepth int, logger hclog.Logger) *Evaluation {
	logger = safeLogger(logger)
	states := make([]NodeState, d.Len())
	for i := range states {
		if d.NodeExists(diagram.NodeIndex(i)) {
			states[i] = freshState(d, diagram.NodeIndex(i))
		}
	}

	wl := newWorklist(d, input, maxDepth, logger, states)
	seed := register.NewSet(d.NumRegisters())
	seed.Push(register.New(d.NumRegisters()), 1, 0)
	for _, root := range d.Roots() {
		wl.enqueue(root, seed)
	}
	wl.run()

	eval := &Evaluation{
		Diagram:  d,
		MaxDepth: maxDepth,
		States:   states,
		Logger:   logger,
	}
	eval.TotalDB = eval.rebuildTotalDB()
	return eval
}

// rebuildTotalDB unions every live Output node's accumulated database. It
// is always recomputed from scratch rather than tracked incrementally, so
// it stays correct across a RerunFrom that resets a subset of nodes.
func (e *Evaluation) rebuildTotalDB() *relation.Database {
	total := relation.NewDatabase()
	for i, state := range e.States {
		idx := diagram.NodeIndex(i)
		if !e.Diagram.NodeExists(idx) {
			continue
		}
		if e.Diagram.GetNode(idx).IsMatch() {
			continue
		}
		if state.OutputDB != nil {
			total.Merge(state.OutputDB)
		}
	}
	return total
}
