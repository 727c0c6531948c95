package relation

// Database maps predicates to their tables. It is deliberately unindexed:
// earlier designs of the system this module reimplements kept
// per-(predicate, column, value) indices, but the evaluator always walks
// every fact of a predicate because match-term constraints are checked
// against registers that are not known ahead of time — an index keyed on
// column value would only help a fraction of match terms.
type Database struct {
	tables map[Predicate]*Table
}

// NewDatabase returns an empty database.
func NewDatabase() *Database {
	return &Database{tables: make(map[Predicate]*Table)}
}

// DatabaseFromFacts builds a database from a literal list of facts, in the
// style of the source system's `database_literal` test helper. Useful for
// constructing fixtures concisely.
func DatabaseFromFacts(facts []Fact) *Database {
	db := NewDatabase()
	for _, f := range facts {
		db.InsertFact(f)
	}
	return db
}

// InsertFact inserts a fact with weight 1. See InsertFactWithWeight.
func (db *Database) InsertFact(f Fact) int {
	return db.InsertFactWithWeight(f, 1)
}

// InsertFactWithWeight appends f as a new row of its predicate's table,
// creating the table (with arity len(f.Values)) on first use. It does not
// dedupe: inserting the same fact twice produces two rows. Arity mismatches
// against an existing table are a programming error (Table.Push panics).
func (db *Database) InsertFactWithWeight(f Fact, weight Weight) int {
	table, ok := db.tables[f.Predicate]
	if !ok {
		table = NewTable(len(f.Values))
		db.tables[f.Predicate] = table
	}
	return table.Push(f.Values, weight)
}

// Table returns the table for a predicate, or nil if no fact of that
// predicate has ever been inserted.
func (db *Database) Table(p Predicate) *Table {
	return db.tables[p]
}

// FactsForPredicate iterates the facts of one predicate in insertion order.
func (db *Database) FactsForPredicate(p Predicate) *PredicateIter {
	table := db.tables[p]
	if table == nil {
		return &PredicateIter{predicate: p}
	}
	return &PredicateIter{predicate: p, inner: table.Iter()}
}

// PredicateIter is a cursor over one predicate's facts.
type PredicateIter struct {
	predicate Predicate
	inner     *RowIter
}

// Next advances the cursor.
func (it *PredicateIter) Next() (Fact, bool) {
	if it.inner == nil {
		return Fact{}, false
	}
	values, _, ok := it.inner.Next()
	if !ok {
		return Fact{}, false
	}
	return Fact{Predicate: it.predicate, Values: values}, true
}

// AllFacts returns every row of every table, in an unspecified predicate
// order but insertion order within a predicate. Facts are yielded
// regardless of net weight: a row whose weight has been reduced to (or
// past) zero by later retractions is still visible here. This is a
// documented source quirk (see DESIGN.md / spec §9): iteration is
// multiset-based, not net-weight-based.
func (db *Database) AllFacts() []Fact {
	facts := make([]Fact, 0)
	for p, table := range db.tables {
		it := table.Iter()
		for {
			values, _, ok := it.Next()
			if !ok {
				break
			}
			facts = append(facts, Fact{Predicate: p, Values: values})
		}
	}
	return facts
}

// Contains reports whether any row of f.Predicate equals f.Values,
// ignoring weight.
func (db *Database) Contains(f Fact) bool {
	table := db.tables[f.Predicate]
	if table == nil {
		return false
	}
	it := table.Iter()
	for {
		values, _, ok := it.Next()
		if !ok {
			return false
		}
		if valuesEqual(values, f.Values) {
			return true
		}
	}
}

// WeightOf sums the weights of every row of f.Predicate equal to f.Values.
func (db *Database) WeightOf(f Fact) Weight {
	table := db.tables[f.Predicate]
	if table == nil {
		return 0
	}
	var total Weight
	it := table.Iter()
	for {
		values, weight, ok := it.Next()
		if !ok {
			break
		}
		if valuesEqual(values, f.Values) {
			total += weight
		}
	}
	return total
}

// Merge inserts every fact of other into db, preserving weights.
func (db *Database) Merge(other *Database) {
	for p, table := range other.tables {
		it := table.Iter()
		for {
			values, weight, ok := it.Next()
			if !ok {
				break
			}
			db.InsertFactWithWeight(Fact{Predicate: p, Values: values}, weight)
		}
	}
}

func valuesEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
