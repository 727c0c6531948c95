package evolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zentner-kyle/matchdiagram/pkg/diagram"
	"github.com/zentner-kyle/matchdiagram/pkg/fitness"
	"github.com/zentner-kyle/matchdiagram/pkg/mutagen"
	"github.com/zentner-kyle/matchdiagram/pkg/relation"
)

func buildImperfectCopyDiagram() *diagram.MultiDiagram {
	d := diagram.New(2)
	match := d.InsertNode(diagram.NewMatchNode(1, []diagram.MatchTerm{
		{Constraint: diagram.FreeConstraint(), Target: 0},
		{Constraint: diagram.FreeConstraint(), Target: 1},
	}))
	out := d.InsertNode(diagram.NewOutputNode(2, []diagram.OutputTerm{
		diagram.ConstantTerm(relation.Symbol(99)), // wrong on purpose
		diagram.RegisterTerm(1),
	}))
	d.InsertEdge(diagram.RootEdge(match))
	d.InsertEdge(diagram.MatchEdge(match, out))
	return d
}

func TestStrategy_RunNeverDecreasesBestFitnessAcrossGenerations(t *testing.T) {
	samples := fitness.SampleSet{{
		Input:    relation.DatabaseFromFacts([]relation.Fact{relation.NewFact(1, relation.Symbol(1), relation.Symbol(2))}),
		Expected: relation.DatabaseFromFacts([]relation.Fact{relation.NewFact(2, relation.Symbol(1), relation.Symbol(2))}),
	}}

	seed := buildImperfectCopyDiagram()
	baseline := fitness.NewIndividual(seed, samples, 8, nil).Fitness(samples)

	gen := mutagen.NewGenerator(4, 4, 1, 2)
	strategy := NewStrategy(Config{
		Mu:                    4,
		Lambda:                4,
		Generations:           6,
		MutationsPerOffspring: 1,
		MaxDepth:              8,
		Workers:               2,
	}, gen, samples)

	result, err := strategy.Run(seed)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.BestFitness, baseline)
	assert.Equal(t, 6, result.Generations)
}

func TestStrategy_RunWithZeroGenerationsReturnsSeedFitness(t *testing.T) {
	samples := fitness.SampleSet{{
		Input:    relation.DatabaseFromFacts([]relation.Fact{relation.NewFact(1, relation.Symbol(1))}),
		Expected: relation.DatabaseFromFacts([]relation.Fact{relation.NewFact(1, relation.Symbol(1))}),
	}}
	seed := diagram.New(0)
	out := seed.InsertNode(diagram.NewOutputNode(1, []diagram.OutputTerm{diagram.ConstantTerm(relation.Symbol(1))}))
	seed.InsertEdge(diagram.RootEdge(out))

	gen := mutagen.NewGenerator(2, 2, 5, 6)
	strategy := NewStrategy(Config{Mu: 2, Lambda: 1, Generations: 0, MutationsPerOffspring: 1, MaxDepth: 4}, gen, samples)

	result, err := strategy.Run(seed)
	require.NoError(t, err)
	assert.Equal(t, 0, result.BestFitness)
}
