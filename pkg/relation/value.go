// Package relation implements the relational store: values, predicates,
// facts, weighted tables, and the database that maps predicates to tables.
package relation

import "fmt"

// ValueKind distinguishes the two variants of Value.
type ValueKind uint8

const (
	// KindSymbol marks a Value holding a symbol id.
	KindSymbol ValueKind = iota
	// KindNil marks the absent-value constant.
	KindNil
)

// Value is the atomic term stored in a fact: a tagged sum of Symbol(u64) and
// Nil. Equality is structural, so Value is safe to use as a map key (it
// backs RegisterFile, which must hash and compare by value).
type Value struct {
	Kind ValueKind
	Sym  uint64
}

// Symbol constructs a Value holding the given symbol id.
func Symbol(id uint64) Value {
	return Value{Kind: KindSymbol, Sym: id}
}

// Nil is the distinguished absent-value constant, produced when an output
// term references an unbound register (see spec §4.2).
var Nil = Value{Kind: KindNil}

// IsNil reports whether v is the Nil constant.
func (v Value) IsNil() bool {
	return v.Kind == KindNil
}

// SymbolID returns v's symbol id and true if v is a Symbol, or (0, false)
// for Nil.
func (v Value) SymbolID() (uint64, bool) {
	if v.Kind != KindSymbol {
		return 0, false
	}
	return v.Sym, true
}

// String renders v for debugging.
func (v Value) String() string {
	if v.Kind == KindNil {
		return "nil"
	}
	return fmt.Sprintf(":%d", v.Sym)
}
