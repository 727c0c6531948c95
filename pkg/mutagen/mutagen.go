// Package mutagen is a minimal, uniform-random Mutation generator. Spec §6
// treats the generator as an external collaborator to the core mutation
// algebra (pkg/mutation only validates and applies what it is handed); this
// package is a concrete-enough implementation to exercise pkg/fitness and
// internal/evolve end to end in tests and the CLI.
package mutagen

import (
	"math/rand/v2"

	"github.com/zentner-kyle/matchdiagram/pkg/diagram"
	"github.com/zentner-kyle/matchdiagram/pkg/mutation"
	"github.com/zentner-kyle/matchdiagram/pkg/relation"
)

// Generator samples a Mutation uniformly from the candidate mutations a
// diagram snapshot admits.
type Generator struct {
	rng           *rand.Rand
	numSymbols    uint64
	numPredicates uint64
}

// NewGenerator builds a Generator whose random constants and predicates
// are drawn from [0, numSymbols) and [0, numPredicates); seed1/seed2 seed
// the underlying PCG source.
func NewGenerator(numSymbols, numPredicates, seed1, seed2 uint64) *Generator {
	if numSymbols == 0 {
		numSymbols = 1
	}
	if numPredicates == 0 {
		numPredicates = 1
	}
	return &Generator{
		rng:           rand.New(rand.NewPCG(seed1, seed2)),
		numSymbols:    numSymbols,
		numPredicates: numPredicates,
	}
}

// Next samples one Mutation uniformly from every candidate d's current
// shape admits. ok is false only if d has no live nodes at all, in which
// case there is nothing to mutate.
func (g *Generator) Next(d *diagram.MultiDiagram) (mutation.Mutation, bool) {
	cands := g.candidates(d)
	if len(cands) == 0 {
		return mutation.Mutation{}, false
	}
	return cands[g.rng.IntN(len(cands))], true
}

func (g *Generator) randomValue() relation.Value {
	return relation.Symbol(g.rng.Uint64N(g.numSymbols))
}

func (g *Generator) randomPredicate() relation.Predicate {
	return relation.Predicate(g.rng.Uint64N(g.numPredicates))
}

func (g *Generator) randomRegister(d *diagram.MultiDiagram) int {
	if d.NumRegisters() == 0 {
		return 0
	}
	return g.rng.IntN(d.NumRegisters())
}

func (g *Generator) randomMatchTerm(d *diagram.MultiDiagram) diagram.MatchTerm {
	target := diagram.NoTarget
	if d.NumRegisters() > 0 && g.rng.IntN(2) == 0 {
		target = g.randomRegister(d)
	}
	switch g.rng.IntN(3) {
	case 0:
		return diagram.MatchTerm{Constraint: diagram.FreeConstraint(), Target: target}
	case 1:
		return diagram.MatchTerm{Constraint: diagram.ConstantConstraint(g.randomValue()), Target: target}
	default:
		return diagram.MatchTerm{Constraint: diagram.RegisterConstraint(g.randomRegister(d)), Target: target}
	}
}

func (g *Generator) randomOutputTerm(d *diagram.MultiDiagram) diagram.OutputTerm {
	if g.rng.IntN(2) == 0 {
		return diagram.ConstantTerm(g.randomValue())
	}
	return diagram.RegisterTerm(g.randomRegister(d))
}

func (g *Generator) randomMatchTerms(d *diagram.MultiDiagram, n int) []diagram.MatchTerm {
	terms := make([]diagram.MatchTerm, n)
	for i := range terms {
		terms[i] = g.randomMatchTerm(d)
	}
	return terms
}

func (g *Generator) randomOutputTerms(d *diagram.MultiDiagram, n int) []diagram.OutputTerm {
	terms := make([]diagram.OutputTerm, n)
	for i := range terms {
		terms[i] = g.randomOutputTerm(d)
	}
	return terms
}
