package diagramtext

import (
	"fmt"

	"github.com/zentner-kyle/matchdiagram/pkg/relation"
)

// parser is a hand-written recursive-descent parser over the token stream,
// following the grammar in spec §6. No parser-generator or combinator
// library is used — the grammar is small enough that none of the pack's
// examples would reach for one either.
type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) peekAt(offset int) token {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[idx]
}

func (p *parser) advance() token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.peek()
	if tok.kind != kind {
		return token{}, fmt.Errorf("diagramtext: line %d: unexpected token", tok.line)
	}
	return p.advance(), nil
}

// parseDocument parses the top level: one or more items, each of which is
// wired as a Root edge's target by the caller.
func (p *parser) parseDocument() ([]astItem, error) {
	var items []astItem
	for p.peek().kind != tokEOF {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("diagramtext: empty document")
	}
	return items, nil
}

// parseItem parses one block/document entry: a (possibly labelled) fresh
// node definition, or a bare reference to a node labelled elsewhere.
func (p *parser) parseItem() (astItem, error) {
	tok := p.peek()
	line := tok.line

	if tok.kind == tokIdent {
		if p.peekAt(1).kind == tokColon {
			label := tok.text
			p.advance()
			p.advance()
			node, err := p.parseNodeBody()
			if err != nil {
				return astItem{}, err
			}
			return astItem{label: label, node: node, line: line}, nil
		}
		if tok.text == "output" {
			node, err := p.parseNodeBody()
			if err != nil {
				return astItem{}, err
			}
			return astItem{node: node, line: line}, nil
		}
		p.advance()
		return astItem{isRef: true, ref: tok.text, line: line}, nil
	}

	if tok.kind == tokAt {
		node, err := p.parseNodeBody()
		if err != nil {
			return astItem{}, err
		}
		return astItem{node: node, line: line}, nil
	}

	return astItem{}, fmt.Errorf("diagramtext: line %d: expected a node or a reference", line)
}

func (p *parser) parseNodeBody() (*astNode, error) {
	n := &astNode{}
	tok := p.peek()

	if tok.kind == tokIdent && tok.text == "output" {
		p.advance()
		n.isOutput = true
		at, err := p.expect(tokAt)
		if err != nil {
			return nil, err
		}
		n.predicate = relation.Predicate(at.num)
		if _, err := p.expect(tokLParen); err != nil {
			return nil, err
		}
		terms, err := p.parseOutputTerms()
		if err != nil {
			return nil, err
		}
		n.outputTerms = terms
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return n, nil
	}

	at, err := p.expect(tokAt)
	if err != nil {
		return nil, fmt.Errorf("diagramtext: line %d: expected '@' or 'output'", tok.line)
	}
	n.predicate = relation.Predicate(at.num)
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	terms, err := p.parseMatchTerms()
	if err != nil {
		return nil, err
	}
	n.matchTerms = terms
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}

	matchArm, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	n.matchArm = matchArm

	if p.peek().kind == tokLBrace {
		refuteArm, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		n.refuteArm = refuteArm
		n.hasRefute = true
	}
	return n, nil
}

func (p *parser) parseBlock() ([]astItem, error) {
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	var items []astItem
	for p.peek().kind != tokRBrace {
		if p.peek().kind == tokEOF {
			return nil, fmt.Errorf("diagramtext: unterminated block")
		}
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	p.advance()
	return items, nil
}

func (p *parser) parseMatchTerms() ([]astMatchTerm, error) {
	var terms []astMatchTerm
	if p.peek().kind == tokRParen {
		return terms, nil
	}
	for {
		term, err := p.parseMatchTerm()
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
		if p.peek().kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	return terms, nil
}

func (p *parser) parseMatchTerm() (astMatchTerm, error) {
	tok := p.peek()
	var term astMatchTerm
	switch tok.kind {
	case tokUnderscore:
		p.advance()
		term.free = true
	case tokSymbol:
		p.advance()
		term.isConst = true
		term.constVal = relation.Symbol(tok.num)
	case tokPercent:
		p.advance()
		term.isReg = true
		term.reg = int(tok.num)
	default:
		return astMatchTerm{}, fmt.Errorf("diagramtext: line %d: expected a match term ('_', ':N' or '%%N')", tok.line)
	}
	if p.peek().kind == tokArrow {
		p.advance()
		reg, err := p.expect(tokPercent)
		if err != nil {
			return astMatchTerm{}, fmt.Errorf("diagramtext: line %d: expected '%%N' after '->'", tok.line)
		}
		term.hasTarget = true
		term.target = int(reg.num)
	}
	return term, nil
}

func (p *parser) parseOutputTerms() ([]astOutputTerm, error) {
	var terms []astOutputTerm
	if p.peek().kind == tokRParen {
		return terms, nil
	}
	for {
		tok := p.peek()
		var term astOutputTerm
		switch tok.kind {
		case tokPercent:
			p.advance()
			term.reg = int(tok.num)
		case tokSymbol:
			p.advance()
			term.isConst = true
			term.constVal = relation.Symbol(tok.num)
		default:
			return nil, fmt.Errorf("diagramtext: line %d: expected an output term (':N' or '%%N')", tok.line)
		}
		terms = append(terms, term)
		if p.peek().kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	return terms, nil
}
