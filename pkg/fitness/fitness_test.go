package fitness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zentner-kyle/matchdiagram/pkg/diagram"
	"github.com/zentner-kyle/matchdiagram/pkg/mutation"
	"github.com/zentner-kyle/matchdiagram/pkg/relation"
)

func TestCost_ExactMatchIsZero(t *testing.T) {
	db := relation.DatabaseFromFacts([]relation.Fact{relation.NewFact(1, relation.Symbol(1))})
	assert.Equal(t, 0, Cost(db, db))
}

func TestCost_WeightsFactorMembershipOnly(t *testing.T) {
	expected := relation.DatabaseFromFacts([]relation.Fact{relation.NewFact(1, relation.Symbol(1))})
	actual := relation.NewDatabase()
	actual.InsertFactWithWeight(relation.NewFact(1, relation.Symbol(1)), 5)
	assert.Equal(t, 0, Cost(expected, actual), "duplicate weight must not change membership-based cost")
}

func TestCost_PenalizesExtraAndMissingDifferently(t *testing.T) {
	expected := relation.DatabaseFromFacts([]relation.Fact{
		relation.NewFact(1, relation.Symbol(1)),
		relation.NewFact(1, relation.Symbol(2)),
	})
	actual := relation.DatabaseFromFacts([]relation.Fact{
		relation.NewFact(1, relation.Symbol(1)),
		relation.NewFact(1, relation.Symbol(3)),
	})
	// extra :3 (not in expected) + 2 * missing :2 (not in actual) = 1 + 2 = 3
	assert.Equal(t, 3, Cost(expected, actual))
}

func buildCopyDiagram() *diagram.MultiDiagram {
	d := diagram.New(2)
	match := d.InsertNode(diagram.NewMatchNode(1, []diagram.MatchTerm{
		{Constraint: diagram.FreeConstraint(), Target: 0},
		{Constraint: diagram.FreeConstraint(), Target: 1},
	}))
	out := d.InsertNode(diagram.NewOutputNode(2, []diagram.OutputTerm{
		diagram.RegisterTerm(0),
		diagram.RegisterTerm(1),
	}))
	d.InsertEdge(diagram.RootEdge(match))
	d.InsertEdge(diagram.MatchEdge(match, out))
	return d
}

func TestIndividual_FitnessZeroForPerfectCopy(t *testing.T) {
	d := buildCopyDiagram()
	samples := SampleSet{{
		Input:    relation.DatabaseFromFacts([]relation.Fact{relation.NewFact(1, relation.Symbol(1), relation.Symbol(2))}),
		Expected: relation.DatabaseFromFacts([]relation.Fact{relation.NewFact(2, relation.Symbol(1), relation.Symbol(2))}),
	}}

	ind := NewIndividual(d, samples, 8, nil)
	assert.Equal(t, 0, ind.Fitness(samples))
}

func TestIndividual_ApplyMutationRescoresIncrementally(t *testing.T) {
	d := buildCopyDiagram()
	samples := SampleSet{{
		Input:    relation.DatabaseFromFacts([]relation.Fact{relation.NewFact(1, relation.Symbol(1), relation.Symbol(2))}),
		Expected: relation.DatabaseFromFacts([]relation.Fact{relation.NewFact(2, relation.Symbol(9), relation.Symbol(2))}),
	}}

	ind := NewIndividual(d, samples, 8, nil)
	// actual {2:(1,2)} vs expected {2:(9,2)}: disjoint facts, 1 extra + 1 missing => cost 3.
	require.Equal(t, -3, ind.Fitness(samples))

	ok := ind.ApplyMutation(mutation.SetOutputConstantMutation(diagram.NodeIndex(1), 0, relation.Symbol(9)), samples)
	require.True(t, ok)

	assert.Equal(t, 0, ind.Fitness(samples))
}

func TestLoadSampleSet_ParsesFactsAndNilSentinel(t *testing.T) {
	doc := []byte(`
- input:
    - predicate: 1
      values: ["1", "nil"]
  expected:
    - predicate: 2
      values: ["1"]
`)
	samples, err := LoadSampleSet(doc)
	require.NoError(t, err)
	require.Len(t, samples, 1)

	inputFacts := samples[0].Input.AllFacts()
	require.Len(t, inputFacts, 1)
	assert.Equal(t, relation.Symbol(1), inputFacts[0].Values[0])
	assert.True(t, inputFacts[0].Values[1].IsNil())
}

func TestLoadSampleSet_InvalidTokenAccumulatesError(t *testing.T) {
	doc := []byte(`
- input:
    - predicate: 1
      values: ["not-a-number"]
  expected: []
`)
	_, err := LoadSampleSet(doc)
	assert.Error(t, err)
}
