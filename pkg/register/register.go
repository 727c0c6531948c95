// Package register implements RegisterFile (a fixed-width row of optional
// bindings) and RegisterSet (a weighted, depth-tracked multiset of register
// files) used by the diagram evaluator's propagation.
package register

import (
	"strconv"
	"strings"

	"github.com/zentner-kyle/matchdiagram/pkg/relation"
)

// slot is the logical view of one register: a value plus whether it is
// bound at all ("None" vs "Some(value)" in the source terminology).
type slot struct {
	value relation.Value
	bound bool
}

// File is a fixed-size ordered sequence of optional bindings. Equality is
// structural over the sequence: two files with the same width and the same
// bindings in the same slots have the same Key. File itself holds a slice
// and so cannot be a Go map key; RegisterSet keys its map by Key instead.
// Internally the slots are kept both as a decoded slice (for fast Get/With)
// and as a canonical string key (for comparability, since Go slices cannot
// be map keys directly).
type File struct {
	key   string
	slots []slot
}

// New creates a register file of the given width with every slot unbound.
func New(width int) *File {
	return newFileFromSlots(make([]slot, width))
}

func newFileFromSlots(slots []slot) *File {
	return &File{key: encodeSlots(slots), slots: slots}
}

// Len returns the file's width.
func (f *File) Len() int {
	return len(f.slots)
}

// Get returns the value bound at index i and whether it is bound. Panics
// if i is out of range — callers must check Len() first, as the evaluator
// does when an output term references a register.
func (f *File) Get(i int) (relation.Value, bool) {
	s := f.slots[i]
	return s.value, s.bound
}

// With returns a new File equal to f but with index i set to value. The
// original is left unmodified; register files are treated as immutable
// snapshots once pushed into a Set.
func (f *File) With(i int, value relation.Value) *File {
	slots := make([]slot, len(f.slots))
	copy(slots, f.slots)
	slots[i] = slot{value: value, bound: true}
	return newFileFromSlots(slots)
}

// Key returns the canonical comparable key for f. Two files with equal Key
// have identical bindings; used by RegisterSet as its map key.
func (f *File) Key() string {
	return f.key
}

// String renders f for debugging.
func (f *File) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, s := range f.slots {
		if i > 0 {
			b.WriteByte(' ')
		}
		if s.bound {
			b.WriteString(s.value.String())
		} else {
			b.WriteByte('_')
		}
	}
	b.WriteByte(']')
	return b.String()
}

func encodeSlots(slots []slot) string {
	var b strings.Builder
	for _, s := range slots {
		switch {
		case !s.bound:
			b.WriteByte('_')
		case s.value.IsNil():
			b.WriteByte('N')
		default:
			b.WriteByte('S')
			id, _ := s.value.SymbolID()
			b.WriteString(strconv.FormatUint(id, 10))
		}
		b.WriteByte(',')
	}
	return b.String()
}
