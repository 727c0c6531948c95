package diagramtext

import "github.com/zentner-kyle/matchdiagram/pkg/relation"

// astItem is one entry in a block (or the top-level document): either a
// fresh node definition, optionally labelled, or a bare reference to a
// node labelled earlier or later in the source.
type astItem struct {
	label string
	isRef bool
	ref   string
	node  *astNode
	line  int
}

// astNode is a parsed node definition, before it has been wired into a
// diagram.MultiDiagram.
type astNode struct {
	isOutput    bool
	predicate   relation.Predicate
	matchTerms  []astMatchTerm
	outputTerms []astOutputTerm
	matchArm    []astItem
	refuteArm   []astItem
	hasRefute   bool
}

type astMatchTerm struct {
	free      bool
	isConst   bool
	constVal  relation.Value
	isReg     bool
	reg       int
	hasTarget bool
	target    int
}

type astOutputTerm struct {
	isConst bool
	constVal relation.Value
	reg      int
}
