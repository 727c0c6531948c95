package mutagen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zentner-kyle/matchdiagram/pkg/diagram"
	"github.com/zentner-kyle/matchdiagram/pkg/mutation"
)

func buildFixture() *diagram.MultiDiagram {
	d := diagram.New(2)
	match := d.InsertNode(diagram.NewMatchNode(0, []diagram.MatchTerm{
		{Constraint: diagram.FreeConstraint(), Target: 0},
		{Constraint: diagram.FreeConstraint(), Target: 1},
	}))
	out := d.InsertNode(diagram.NewOutputNode(1, []diagram.OutputTerm{
		diagram.RegisterTerm(0),
		diagram.RegisterTerm(1),
	}))
	d.InsertEdge(diagram.RootEdge(match))
	d.InsertEdge(diagram.MatchEdge(match, out))
	return d
}

func TestGenerator_NextReturnsApplicableMutationEventually(t *testing.T) {
	d := buildFixture()
	g := NewGenerator(4, 4, 1, 2)

	// Not every sampled candidate is guaranteed applicable (e.g.
	// DuplicateTarget without a shared target), but across many draws at
	// least one Apply must succeed since plenty of candidates (term edits,
	// RemoveNode) are always well-formed on this fixture.
	for i := 0; i < 200; i++ {
		m, ok := g.Next(d)
		require.True(t, ok)
		clone := cloneForApply(d)
		if _, applied := mutation.Apply(clone, m, nil); applied {
			return
		}
	}
	t.Fatal("no sampled mutation was applicable across 200 draws")
}

func TestGenerator_NextOnEmptyDiagramReportsNotOK(t *testing.T) {
	d := diagram.New(0)
	g := NewGenerator(2, 2, 1, 2)
	_, ok := g.Next(d)
	assert.False(t, ok)
}

func TestGenerator_IsDeterministicForFixedSeed(t *testing.T) {
	d := buildFixture()
	g1 := NewGenerator(4, 4, 7, 9)
	g2 := NewGenerator(4, 4, 7, 9)

	for i := 0; i < 20; i++ {
		m1, ok1 := g1.Next(d)
		m2, ok2 := g2.Next(d)
		require.Equal(t, ok1, ok2)
		assert.Equal(t, m1, m2)
	}
}

func cloneForApply(d *diagram.MultiDiagram) *diagram.MultiDiagram {
	clone := diagram.New(d.NumRegisters())
	for i := 0; i < d.Len(); i++ {
		idx := diagram.NodeIndex(i)
		if d.NodeExists(idx) {
			clone.InsertNode(d.GetNode(idx).Clone())
		} else {
			placeholder := clone.InsertNode(diagram.NewOutputNode(0, nil))
			clone.FreeNode(placeholder)
		}
	}
	for _, t := range d.Roots() {
		clone.InsertEdge(diagram.RootEdge(t))
	}
	for i := 0; i < d.Len(); i++ {
		s := diagram.NodeIndex(i)
		if !d.NodeExists(s) {
			continue
		}
		for _, t := range d.MatchTargets(s) {
			clone.InsertEdge(diagram.MatchEdge(s, t))
		}
		for _, t := range d.RefuteTargets(s) {
			clone.InsertEdge(diagram.RefuteEdge(s, t))
		}
	}
	return clone
}
