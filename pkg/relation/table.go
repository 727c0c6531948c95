package relation

import "fmt"

// Table is an append-only, column-count-typed row store with a parallel
// per-row Weight. Rows are addressed by a stable row id in [0, NumRows());
// iteration order is insertion order. The backing storage is a single flat
// slice of values (row*arity addressing), mirroring the layout used by the
// system this module reimplements.
type Table struct {
	arity   int
	values  []Value
	weights []Weight
}

// NewTable creates an empty table for the given arity.
func NewTable(arity int) *Table {
	return &Table{arity: arity}
}

// Arity returns the table's fixed column count.
func (t *Table) Arity() int {
	return t.arity
}

// NumRows returns the number of rows pushed so far.
func (t *Table) NumRows() int {
	return len(t.weights)
}

// Row returns the values of the given row id. Panics if rowID is out of
// range, matching the panic-on-bug policy for programming invariants.
func (t *Table) Row(rowID int) []Value {
	start := rowID * t.arity
	return t.values[start : start+t.arity]
}

// Weight returns the weight of the given row id.
func (t *Table) Weight(rowID int) Weight {
	return t.weights[rowID]
}

// Push appends a new row with the given values and weight, returning its
// row id. Panics if len(values) != Arity(): arity mismatches are a
// programming error, not a recoverable condition.
func (t *Table) Push(values []Value, weight Weight) int {
	if len(values) != t.arity {
		panic(fmt.Sprintf("relation: arity mismatch pushing row: table has arity %d, row has %d", t.arity, len(values)))
	}
	t.values = append(t.values, values...)
	t.weights = append(t.weights, weight)
	return len(t.weights) - 1
}

// RowIter is a cursor over a table's rows, advanced with Next. It avoids
// allocating a copy of every row when a caller only needs to scan.
type RowIter struct {
	table *Table
	row   int
}

// Iter returns a fresh cursor positioned before the first row.
func (t *Table) Iter() *RowIter {
	return &RowIter{table: t}
}

// Next advances the cursor and reports whether a row was available.
func (it *RowIter) Next() (values []Value, weight Weight, ok bool) {
	if it.row >= it.table.NumRows() {
		return nil, 0, false
	}
	values = it.table.Row(it.row)
	weight = it.table.weights[it.row]
	it.row++
	return values, weight, true
}
