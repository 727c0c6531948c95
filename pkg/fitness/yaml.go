package fitness

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/zentner-kyle/matchdiagram/pkg/relation"
)

// yamlFact is the on-disk shape of one fact: a predicate id and a column
// of value tokens, each either a decimal symbol id or the literal "nil".
type yamlFact struct {
	Predicate uint64   `yaml:"predicate"`
	Values    []string `yaml:"values"`
}

type yamlSample struct {
	Input    []yamlFact `yaml:"input"`
	Expected []yamlFact `yaml:"expected"`
}

// LoadSampleSet parses a YAML document (spec_full §8) into a SampleSet.
// Malformed samples accumulate into a single combined error rather than
// failing on the first one, so a fixture author sees every problem at
// once.
func LoadSampleSet(data []byte) (SampleSet, error) {
	var raw []yamlSample
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("fitness: parsing sample set: %w", err)
	}

	var errs *multierror.Error
	samples := make(SampleSet, 0, len(raw))
	for i, rs := range raw {
		input, err := factsFromYAML(rs.Input)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("sample %d input: %w", i, err))
			continue
		}
		expected, err := factsFromYAML(rs.Expected)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("sample %d expected: %w", i, err))
			continue
		}
		samples = append(samples, Sample{
			Input:    relation.DatabaseFromFacts(input),
			Expected: relation.DatabaseFromFacts(expected),
		})
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return samples, nil
}

func factsFromYAML(raw []yamlFact) ([]relation.Fact, error) {
	facts := make([]relation.Fact, 0, len(raw))
	for _, rf := range raw {
		values := make([]relation.Value, 0, len(rf.Values))
		for _, tok := range rf.Values {
			v, err := parseValueToken(tok)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		facts = append(facts, relation.NewFact(relation.Predicate(rf.Predicate), values...))
	}
	return facts, nil
}

func parseValueToken(tok string) (relation.Value, error) {
	if tok == "nil" {
		return relation.Nil, nil
	}
	id, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return relation.Value{}, fmt.Errorf("fitness: invalid value token %q: %w", tok, err)
	}
	return relation.Symbol(id), nil
}
