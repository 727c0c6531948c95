package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/zentner-kyle/matchdiagram/pkg/relation"
)

// factYAML mirrors pkg/fitness's yamlFact shape (SPEC_FULL §8): a
// predicate id plus a column of decimal-or-"nil" value tokens. Duplicated
// here because pkg/fitness keeps its yamlFact type and token parser
// unexported; the CLI is the only place that needs to load a bare input
// database rather than a full (input, expected) sample pair.
type factYAML struct {
	Predicate uint64   `yaml:"predicate"`
	Values    []string `yaml:"values"`
}

// loadDatabase reads path as a YAML list of facts into a fresh Database.
func loadDatabase(path string) (*relation.Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("matchdiagram: reading input database %s: %w", path, err)
	}
	var raw []factYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("matchdiagram: parsing input database %s: %w", path, err)
	}
	db := relation.NewDatabase()
	for _, rf := range raw {
		values := make([]relation.Value, 0, len(rf.Values))
		for _, tok := range rf.Values {
			v, err := parseValueToken(tok)
			if err != nil {
				return nil, fmt.Errorf("matchdiagram: %s: %w", path, err)
			}
			values = append(values, v)
		}
		db.InsertFact(relation.NewFact(relation.Predicate(rf.Predicate), values...))
	}
	return db, nil
}

func parseValueToken(tok string) (relation.Value, error) {
	if tok == "nil" {
		return relation.Nil, nil
	}
	id, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return relation.Value{}, fmt.Errorf("invalid value token %q: %w", tok, err)
	}
	return relation.Symbol(id), nil
}
