package diagramtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zentner-kyle/matchdiagram/pkg/diagram"
	"github.com/zentner-kyle/matchdiagram/pkg/relation"
)

func TestParse_GrammarExampleMatchesHandBuiltDiagram(t *testing.T) {
	src := `
root: @0(_ -> %0, _ -> %1) {
  a: @1(:2, %0) {
    b: output @2(%0, %1)
  } { b }           # refute arm
} { a }             # refute arm of root
`
	got, err := Parse(src)
	require.NoError(t, err)

	require.Len(t, got.Roots(), 1)
	root := got.Roots()[0]
	rootNode := got.GetNode(root)
	require.True(t, rootNode.IsMatch())
	assert.Equal(t, relation.Predicate(0), rootNode.Predicate)
	require.Len(t, rootNode.MatchTerms, 2)
	assert.Equal(t, diagram.MatchTerm{Constraint: diagram.FreeConstraint(), Target: 0}, rootNode.MatchTerms[0])
	assert.Equal(t, diagram.MatchTerm{Constraint: diagram.FreeConstraint(), Target: 1}, rootNode.MatchTerms[1])

	require.Len(t, got.MatchTargets(root), 1)
	a := got.MatchTargets(root)[0]
	assert.Equal(t, []diagram.NodeIndex{a}, got.RefuteTargets(root), "root's refute arm also targets a")

	aNode := got.GetNode(a)
	require.True(t, aNode.IsMatch())
	assert.Equal(t, relation.Predicate(1), aNode.Predicate)
	require.Len(t, aNode.MatchTerms, 2)
	assert.Equal(t, diagram.MatchTerm{Constraint: diagram.ConstantConstraint(relation.Symbol(2)), Target: diagram.NoTarget}, aNode.MatchTerms[0])
	assert.Equal(t, diagram.MatchTerm{Constraint: diagram.RegisterConstraint(0), Target: diagram.NoTarget}, aNode.MatchTerms[1])

	require.Len(t, got.MatchTargets(a), 1)
	b := got.MatchTargets(a)[0]
	assert.Equal(t, []diagram.NodeIndex{b}, got.RefuteTargets(a), "a's refute arm also targets b")

	bNode := got.GetNode(b)
	require.False(t, bNode.IsMatch())
	assert.Equal(t, relation.Predicate(2), bNode.Predicate)
	assert.Equal(t, []diagram.OutputTerm{diagram.RegisterTerm(0), diagram.RegisterTerm(1)}, bNode.OutputTerms)

	assert.Equal(t, 2, got.NumRegisters())
}

func TestParse_SelfLoopReference(t *testing.T) {
	src := `m: @0(_ -> %0) { m }`
	d, err := Parse(src)
	require.NoError(t, err)

	require.Len(t, d.Roots(), 1)
	root := d.Roots()[0]
	assert.Equal(t, []diagram.NodeIndex{root}, d.MatchTargets(root))
}

func TestParse_OutputWithConstantAndRegisterTerms(t *testing.T) {
	src := `output @0(:1, %2)`
	d, err := Parse(src)
	require.NoError(t, err)

	require.Len(t, d.Roots(), 1)
	n := d.GetNode(d.Roots()[0])
	require.False(t, n.IsMatch())
	require.Len(t, n.OutputTerms, 2)
	assert.Equal(t, diagram.ConstantTerm(relation.Symbol(1)), n.OutputTerms[0])
	assert.Equal(t, diagram.RegisterTerm(2), n.OutputTerms[1])
}

func TestParse_MultipleItemsInOneArmFanOut(t *testing.T) {
	src := `
m: @0(_ -> %0) {
  x: output @1(%0)
  y: output @2(%0)
}
`
	d, err := Parse(src)
	require.NoError(t, err)

	root := d.Roots()[0]
	assert.Len(t, d.MatchTargets(root), 2)
}

func TestParse_UndefinedReferenceIsAnError(t *testing.T) {
	_, err := Parse(`m: @0(_ -> %0) { missing }`)
	assert.Error(t, err)
}

func TestParse_RejectsUnterminatedBlock(t *testing.T) {
	_, err := Parse(`m: @0(_ -> %0) { m`)
	assert.Error(t, err)
}

func TestParse_CommentsAreIgnored(t *testing.T) {
	src := `
# a leading comment
output @0(:1) # trailing comment
`
	_, err := Parse(src)
	require.NoError(t, err)
}
