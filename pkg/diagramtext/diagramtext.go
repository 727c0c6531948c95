// Package diagramtext parses the textual diagram format from spec §6 into
// a *diagram.MultiDiagram. Label resolution follows the two-pass strategy
// original_source/src/parse.rs uses: a first pass walks the parsed tree
// collecting every label's defining node, and a second pass builds the
// diagram, resolving bare-name references (forward or backward) against
// that table and memoizing each node definition so it is only inserted
// once no matter how many edges point at it.
package diagramtext

import (
	"fmt"

	"github.com/zentner-kyle/matchdiagram/pkg/diagram"
)

// Parse builds a MultiDiagram from source text. Every top-level item
// becomes the target of a Root edge.
func Parse(src string) (*diagram.MultiDiagram, error) {
	toks, err := newLexer(src).lexAll()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	items, err := p.parseDocument()
	if err != nil {
		return nil, err
	}

	labels := make(map[string]*astNode)
	maxReg := -1
	collect(items, labels, &maxReg)

	d := diagram.New(maxReg + 1)
	b := &builder{d: d, labels: labels, built: make(map[*astNode]diagram.NodeIndex)}
	for _, item := range items {
		idx, err := b.resolve(item)
		if err != nil {
			return nil, err
		}
		d.InsertEdge(diagram.RootEdge(idx))
	}
	return d, nil
}

// collect walks every node definition reachable from items, recording its
// label (if any) and the highest register index referenced anywhere, so
// the diagram can be sized before any node is inserted.
func collect(items []astItem, labels map[string]*astNode, maxReg *int) {
	for _, item := range items {
		if item.node == nil {
			continue
		}
		if item.label != "" {
			labels[item.label] = item.node
		}
		n := item.node
		for _, t := range n.matchTerms {
			if t.isReg && t.reg > *maxReg {
				*maxReg = t.reg
			}
			if t.hasTarget && t.target > *maxReg {
				*maxReg = t.target
			}
		}
		for _, t := range n.outputTerms {
			if !t.isConst && t.reg > *maxReg {
				*maxReg = t.reg
			}
		}
		collect(n.matchArm, labels, maxReg)
		if n.hasRefute {
			collect(n.refuteArm, labels, maxReg)
		}
	}
}

// builder wires the AST into a MultiDiagram, inserting each distinct
// astNode exactly once.
type builder struct {
	d      *diagram.MultiDiagram
	labels map[string]*astNode
	built  map[*astNode]diagram.NodeIndex
}

func (b *builder) resolve(item astItem) (diagram.NodeIndex, error) {
	if item.isRef {
		n, ok := b.labels[item.ref]
		if !ok {
			return 0, fmt.Errorf("diagramtext: line %d: reference to undefined label %q", item.line, item.ref)
		}
		return b.buildNode(n)
	}
	return b.buildNode(item.node)
}

func (b *builder) buildNode(n *astNode) (diagram.NodeIndex, error) {
	if idx, ok := b.built[n]; ok {
		return idx, nil
	}

	var node diagram.Node
	if n.isOutput {
		terms := make([]diagram.OutputTerm, len(n.outputTerms))
		for i, t := range n.outputTerms {
			if t.isConst {
				terms[i] = diagram.ConstantTerm(t.constVal)
			} else {
				terms[i] = diagram.RegisterTerm(t.reg)
			}
		}
		node = diagram.NewOutputNode(n.predicate, terms)
	} else {
		terms := make([]diagram.MatchTerm, len(n.matchTerms))
		for i, t := range n.matchTerms {
			var c diagram.MatchConstraint
			switch {
			case t.free:
				c = diagram.FreeConstraint()
			case t.isConst:
				c = diagram.ConstantConstraint(t.constVal)
			case t.isReg:
				c = diagram.RegisterConstraint(t.reg)
			}
			target := diagram.NoTarget
			if t.hasTarget {
				target = t.target
			}
			terms[i] = diagram.MatchTerm{Constraint: c, Target: target}
		}
		node = diagram.NewMatchNode(n.predicate, terms)
	}

	idx := b.d.InsertNode(node)
	// Registered before recursing into the arms so a node can reference
	// itself (a self-loop, needed for cyclic diagrams).
	b.built[n] = idx

	if !n.isOutput {
		for _, item := range n.matchArm {
			target, err := b.resolve(item)
			if err != nil {
				return 0, err
			}
			b.d.InsertEdge(diagram.MatchEdge(idx, target))
		}
		if n.hasRefute {
			for _, item := range n.refuteArm {
				target, err := b.resolve(item)
				if err != nil {
					return 0, err
				}
				b.d.InsertEdge(diagram.RefuteEdge(idx, target))
			}
		}
	}
	return idx, nil
}
