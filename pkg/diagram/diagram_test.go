package diagram

import (
	"testing"

	"github.com/zentner-kyle/matchdiagram/pkg/relation"
)

func TestInsertNode_ReusesDeletedSlot(t *testing.T) {
	d := New(1)
	a := d.InsertNode(NewOutputNode(0, nil))
	d.FreeNode(a)
	b := d.InsertNode(NewOutputNode(1, nil))

	if b != a {
		t.Fatalf("expected reused index %d, got %d", a, b)
	}
	if d.Len() != 1 {
		t.Fatalf("expected arena not to grow on reuse, got len %d", d.Len())
	}
}

func TestInsertNode_GrowsWhenNoDeletedSlots(t *testing.T) {
	d := New(1)
	a := d.InsertNode(NewOutputNode(0, nil))
	b := d.InsertNode(NewOutputNode(1, nil))
	if a == b {
		t.Fatal("expected distinct indices")
	}
	if d.Len() != 2 {
		t.Fatalf("expected arena len 2, got %d", d.Len())
	}
}

func TestNodeExists(t *testing.T) {
	d := New(1)
	a := d.InsertNode(NewOutputNode(0, nil))
	if !d.NodeExists(a) {
		t.Fatal("expected freshly inserted node to exist")
	}
	d.FreeNode(a)
	if d.NodeExists(a) {
		t.Fatal("expected freed node not to exist")
	}
	if d.NodeExists(NodeIndex(99)) {
		t.Fatal("expected out-of-range node not to exist")
	}
}

func TestInsertEdge_IsIdempotentAndBidirectional(t *testing.T) {
	d := New(1)
	a := d.InsertNode(NewOutputNode(0, nil))
	b := d.InsertNode(NewOutputNode(1, nil))

	if !d.InsertEdge(MatchEdge(a, b)) {
		t.Fatal("expected first insert to report new edge")
	}
	if d.InsertEdge(MatchEdge(a, b)) {
		t.Fatal("expected duplicate insert to report no change")
	}
	if !d.EdgeExists(MatchEdge(a, b)) {
		t.Fatal("expected edge to exist")
	}
	if got := d.MatchTargets(a); len(got) != 1 || got[0] != b {
		t.Fatalf("expected match target %d, got %v", b, got)
	}
	if got := d.MatchSources(b); len(got) != 1 || got[0] != a {
		t.Fatalf("expected match source %d, got %v", a, got)
	}
}

func TestRemoveEdge_ClearsBothDirections(t *testing.T) {
	d := New(1)
	a := d.InsertNode(NewOutputNode(0, nil))
	b := d.InsertNode(NewOutputNode(1, nil))
	d.InsertEdge(RefuteEdge(a, b))
	d.RemoveEdge(RefuteEdge(a, b))

	if d.EdgeExists(RefuteEdge(a, b)) {
		t.Fatal("expected edge to be gone")
	}
	if len(d.RefuteTargets(a)) != 0 {
		t.Fatal("expected empty refute target group")
	}
	if len(d.RefuteSources(b)) != 0 {
		t.Fatal("expected empty refute source group")
	}
}

func TestRemoveEdge_AbsentEdgeIsNoOp(t *testing.T) {
	d := New(1)
	a := d.InsertNode(NewOutputNode(0, nil))
	b := d.InsertNode(NewOutputNode(1, nil))
	d.RemoveEdge(MatchEdge(a, b)) // should not panic
	if d.EdgeExists(MatchEdge(a, b)) {
		t.Fatal("edge should not exist")
	}
}

func TestRootEdges(t *testing.T) {
	d := New(0)
	a := d.InsertNode(NewOutputNode(0, []OutputTerm{ConstantTerm(relation.Symbol(1))}))
	d.InsertEdge(RootEdge(a))
	if got := d.Roots(); len(got) != 1 || got[0] != a {
		t.Fatalf("expected root %d, got %v", a, got)
	}
}

func TestMultipleMatchTargetsFanOut(t *testing.T) {
	// A MultiDiagram allows more than one Match edge out of the same
	// source, to distinct targets: this is what distinguishes it from the
	// single-target graph used by earlier revisions of the source system.
	d := New(1)
	src := d.InsertNode(NewMatchNode(0, []MatchTerm{{Constraint: FreeConstraint(), Target: NoTarget}}))
	t1 := d.InsertNode(NewOutputNode(1, nil))
	t2 := d.InsertNode(NewOutputNode(2, nil))
	d.InsertEdge(MatchEdge(src, t1))
	d.InsertEdge(MatchEdge(src, t2))

	targets := d.MatchTargets(src)
	if len(targets) != 2 {
		t.Fatalf("expected 2 match targets, got %d", len(targets))
	}
}
