// Package fitness implements the fitness shell (spec §4.5): scoring a
// diagram's evaluated output against labeled samples, and the per-
// individual mutate-then-rescore generation workflow.
package fitness

import (
	"fmt"
	"strings"

	"github.com/zentner-kyle/matchdiagram/pkg/relation"
)

// Sample is one labeled (input, expected) pair a diagram is scored
// against.
type Sample struct {
	Input    *relation.Database
	Expected *relation.Database
}

// SampleSet is an ordered collection of samples.
type SampleSet []Sample

// Cost computes |actual \ expected| + 2*|expected \ actual|, counting each
// distinct fact by membership rather than weight (spec §4.5).
func Cost(expected, actual *relation.Database) int {
	e := factSet(expected)
	a := factSet(actual)

	var extra, missing int
	for k := range a {
		if _, ok := e[k]; !ok {
			extra++
		}
	}
	for k := range e {
		if _, ok := a[k]; !ok {
			missing++
		}
	}
	return extra + 2*missing
}

// Fitness returns the negated sum of Cost across every sample, given the
// diagram's actual output database for each (same order as samples).
func Fitness(samples SampleSet, actuals []*relation.Database) int {
	total := 0
	for i, s := range samples {
		total += Cost(s.Expected, actuals[i])
	}
	return -total
}

func factSet(db *relation.Database) map[string]struct{} {
	set := make(map[string]struct{})
	for _, f := range db.AllFacts() {
		set[factKey(f)] = struct{}{}
	}
	return set
}

func factKey(f relation.Fact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|", f.Predicate)
	for _, v := range f.Values {
		if v.IsNil() {
			b.WriteString("N,")
			continue
		}
		id, _ := v.SymbolID()
		fmt.Fprintf(&b, "S%d,", id)
	}
	return b.String()
}
