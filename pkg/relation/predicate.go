package relation

// Predicate is an opaque relation identifier. Each predicate has a fixed
// arity once a table is created for it; storing a tuple of a different
// arity under the same predicate is a programming error (see Table.Push).
type Predicate uint64

// Fact is a ground tuple: a predicate together with its argument values.
// Fact.Values is always len == arity(Predicate) for facts that have
// actually been inserted into a Table.
type Fact struct {
	Predicate Predicate
	Values    []Value
}

// NewFact constructs a Fact from a predicate and its values.
func NewFact(predicate Predicate, values ...Value) Fact {
	return Fact{Predicate: predicate, Values: values}
}

// Equal reports whether two facts have the same predicate and values.
func (f Fact) Equal(other Fact) bool {
	if f.Predicate != other.Predicate || len(f.Values) != len(other.Values) {
		return false
	}
	for i, v := range f.Values {
		if v != other.Values[i] {
			return false
		}
	}
	return true
}
