package register

import "github.com/zentner-kyle/matchdiagram/pkg/relation"

// entry is the (weight, depth) pair a Set tracks per distinct File.
type entry struct {
	file   *File
	weight relation.Weight
	depth  int
}

// Set is a weighted multiset of register files keyed by their bindings.
// Depth is the shortest derivation depth at which a binding was produced;
// weight accumulates additively, and an entry whose weight nets to zero is
// removed (spec §3 "RegisterSet").
type Set struct {
	numRegisters int
	entries      map[string]*entry
}

// NewSet returns an empty set over register files of the given width.
func NewSet(numRegisters int) *Set {
	return &Set{numRegisters: numRegisters, entries: make(map[string]*entry)}
}

// NumRegisters returns the width every member File must have.
func (s *Set) NumRegisters() int {
	return s.numRegisters
}

// Len returns the number of distinct register files currently in the set.
func (s *Set) Len() int {
	return len(s.entries)
}

// Push inserts (file, weight, depth), merging with any existing entry for
// the same bindings: depth is the min of the two, weight is the sum. If the
// merged weight nets to zero, the entry is removed. Push reports whether a
// previously-absent File became present (i.e. the set's membership, not
// just its weight, changed). The evaluator's worklist does not consult it:
// it forwards every non-empty delta to a node's successors.
//
// Panics if file.Len() != s.NumRegisters(): every file pushed into a set
// must share the diagram's fixed register width.
func (s *Set) Push(file *File, weight relation.Weight, depth int) (introducedNew bool) {
	if file.Len() != s.numRegisters {
		panic("register: pushed file width does not match set's NumRegisters")
	}
	key := file.Key()
	existing, ok := s.entries[key]
	if !ok {
		if weight.IsZero() {
			return false
		}
		s.entries[key] = &entry{file: file, weight: weight, depth: depth}
		return true
	}
	existing.weight += weight
	if depth < existing.depth {
		existing.depth = depth
	}
	if existing.weight.IsZero() {
		delete(s.entries, key)
	}
	return false
}

// Get reports the current (weight, depth) recorded for file, and whether
// any entry exists for it.
func (s *Set) Get(file *File) (weight relation.Weight, depth int, ok bool) {
	e, present := s.entries[file.Key()]
	if !present {
		return 0, 0, false
	}
	return e.weight, e.depth, true
}

// Member is one (file, weight, depth) triple yielded while iterating a Set.
type Member struct {
	File   *File
	Weight relation.Weight
	Depth  int
}

// Members returns every entry currently in the set. Order is unspecified
// (backed by a Go map) but stable within a single call; callers that need
// determinism should sort by File.Key().
func (s *Set) Members() []Member {
	members := make([]Member, 0, len(s.entries))
	for _, e := range s.entries {
		members = append(members, Member{File: e.file, Weight: e.weight, Depth: e.depth})
	}
	return members
}

// Equal reports whether s and other contain the same files with the same
// weights and depths.
func (s *Set) Equal(other *Set) bool {
	if len(s.entries) != len(other.entries) {
		return false
	}
	for key, e := range s.entries {
		oe, ok := other.entries[key]
		if !ok || oe.weight != e.weight || oe.depth != e.depth {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of s.
func (s *Set) Clone() *Set {
	clone := NewSet(s.numRegisters)
	for key, e := range s.entries {
		copied := *e
		clone.entries[key] = &copied
	}
	return clone
}

// MergeFrom pushes every member of other into s, returning whether any
// previously-absent file became present in s.
func (s *Set) MergeFrom(other *Set) (introducedNew bool) {
	for _, m := range other.Members() {
		if s.Push(m.File, m.Weight, m.Depth) {
			introducedNew = true
		}
	}
	return introducedNew
}
