package fitness

import (
	"github.com/hashicorp/go-hclog"

	"github.com/zentner-kyle/matchdiagram/pkg/diagram"
	"github.com/zentner-kyle/matchdiagram/pkg/evaluator"
	"github.com/zentner-kyle/matchdiagram/pkg/mutation"
)

// Individual owns one diagram together with its per-sample cached
// Evaluation, exactly as spec §5 requires: no state is shared across
// individuals, so they can be scored in parallel.
type Individual struct {
	Diagram     *diagram.MultiDiagram
	Evaluations []*evaluator.Evaluation
	MaxDepth    int
	Logger      hclog.Logger
}

// NewIndividual evaluates d against every sample from scratch.
func NewIndividual(d *diagram.MultiDiagram, samples SampleSet, maxDepth int, logger hclog.Logger) *Individual {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	evals := make([]*evaluator.Evaluation, len(samples))
	for i, s := range samples {
		evals[i] = evaluator.Run(d, s.Input, maxDepth, logger)
	}
	return &Individual{Diagram: d, Evaluations: evals, MaxDepth: maxDepth, Logger: logger}
}

// Fitness scores the individual's current evaluations against samples.
func (ind *Individual) Fitness(samples SampleSet) int {
	total := 0
	for i, s := range samples {
		total += Cost(s.Expected, ind.Evaluations[i].TotalDB)
	}
	return -total
}

// ApplyMutation applies m to the individual's diagram and, if its
// phenotype could have changed, rescores every sample's cached evaluation
// incrementally from the reported restart node (spec §4.5 steps 1-4).
// It reports whether the mutation was applicable at all.
func (ind *Individual) ApplyMutation(m mutation.Mutation, samples SampleSet) bool {
	res, ok := mutation.Apply(ind.Diagram, m, ind.Logger)
	if !ok {
		return false
	}
	if !res.PhenotypeCouldHaveChanged {
		return true
	}
	var starts []diagram.NodeIndex
	if res.HasRestart {
		starts = []diagram.NodeIndex{res.NodeToRestart}
	}
	for i, s := range samples {
		ind.Evaluations[i] = ind.Evaluations[i].RerunFrom(ind.Diagram, s.Input, starts)
	}
	return true
}

// Clone returns an independent copy of ind, suitable as a mutation
// offspring's starting point: the diagram is cloned node-by-node and its
// edges copied, then freshly evaluated against samples (cheaper than
// trying to deep-copy the cached Evaluation's internal register sets,
// and just as correct since evaluation is pure over (diagram, input)).
func (ind *Individual) Clone(samples SampleSet) *Individual {
	clonedDiagram := diagram.New(ind.Diagram.NumRegisters())
	var placeholders []diagram.NodeIndex
	for i := 0; i < ind.Diagram.Len(); i++ {
		idx := diagram.NodeIndex(i)
		if ind.Diagram.NodeExists(idx) {
			clonedDiagram.InsertNode(ind.Diagram.GetNode(idx).Clone())
		} else {
			placeholders = append(placeholders, clonedDiagram.InsertNode(diagram.NewOutputNode(0, nil)))
		}
	}
	// Placeholders are freed only after every slot is filled, so no later
	// InsertNode above reuses one and shifts the remaining indices.
	for _, idx := range placeholders {
		clonedDiagram.FreeNode(idx)
	}
	copyEdges(ind.Diagram, clonedDiagram)
	return NewIndividual(clonedDiagram, samples, ind.MaxDepth, ind.Logger)
}

func copyEdges(src, dst *diagram.MultiDiagram) {
	for _, t := range src.Roots() {
		dst.InsertEdge(diagram.RootEdge(t))
	}
	for i := 0; i < src.Len(); i++ {
		s := diagram.NodeIndex(i)
		if !src.NodeExists(s) {
			continue
		}
		for _, t := range src.MatchTargets(s) {
			dst.InsertEdge(diagram.MatchEdge(s, t))
		}
		for _, t := range src.RefuteTargets(s) {
			dst.InsertEdge(diagram.RefuteEdge(s, t))
		}
	}
}
