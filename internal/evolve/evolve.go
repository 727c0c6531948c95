// Package evolve implements the outer evolutionary-search loop spec §6
// treats as an external collaborator: a (mu, lambda) strategy that mutates
// each surviving parent into lambda offspring per generation, rescores
// with pkg/fitness, and keeps the best mu for the next generation. It is a
// minimal reference implementation so pkg/fitness, pkg/mutagen and
// internal/parallel are exercised end to end by the CLI and tests.
package evolve

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/zentner-kyle/matchdiagram/internal/parallel"
	"github.com/zentner-kyle/matchdiagram/pkg/diagram"
	"github.com/zentner-kyle/matchdiagram/pkg/fitness"
	"github.com/zentner-kyle/matchdiagram/pkg/mutagen"
)

// maxMutationAttemptFactor bounds how many inapplicable mutations an
// offspring will tolerate before giving up early, per applied mutation it
// still needs (an inapplicable mutation is a normal skip signal, spec §7,
// not a reason to retry forever).
const maxMutationAttemptFactor = 8

// Config controls one Strategy run. Per spec §5, individuals never share
// state, so Workers only bounds how many of them are scored concurrently.
type Config struct {
	Mu                    int
	Lambda                int
	Generations           int
	MutationsPerOffspring int
	MaxDepth              int
	Workers               int
	Logger                hclog.Logger
}

// Strategy drives a (mu, lambda) evolutionary search over diagrams scored
// against a fixed sample set.
type Strategy struct {
	cfg     Config
	gen     *mutagen.Generator
	samples fitness.SampleSet
	logger  hclog.Logger
}

// NewStrategy builds a Strategy. gen supplies mutation candidates; samples
// is the fixed fitness target every individual is scored against.
func NewStrategy(cfg Config, gen *mutagen.Generator, samples fitness.SampleSet) *Strategy {
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Strategy{cfg: cfg, gen: gen, samples: samples, logger: logger}
}

// Result is what Run reports once the configured number of generations has
// elapsed.
type Result struct {
	Best        *fitness.Individual
	BestFitness int
	Generations int
}

// Run seeds Mu parents from seed and advances the search for Generations
// generations, returning the best individual found.
func (s *Strategy) Run(seed *diagram.MultiDiagram) (*Result, error) {
	runID := uuid.NewString()
	logger := s.logger.With("run_id", runID)

	parents := make([]*fitness.Individual, s.cfg.Mu)
	for i := range parents {
		parents[i] = fitness.NewIndividual(seed, s.samples, s.cfg.MaxDepth, logger)
	}

	pool := parallel.NewWorkerPool(s.cfg.Workers)
	defer pool.Shutdown()
	ctx := context.Background()

	for gen := 0; gen < s.cfg.Generations; gen++ {
		offspring := make([]*fitness.Individual, s.cfg.Mu*s.cfg.Lambda)
		var wg sync.WaitGroup

		for pi, parent := range parents {
			for li := 0; li < s.cfg.Lambda; li++ {
				idx := pi*s.cfg.Lambda + li
				parent := parent
				wg.Add(1)
				task := func() {
					defer wg.Done()
					offspring[idx] = s.spawnOffspring(parent)
				}
				if err := pool.Submit(ctx, task); err != nil {
					wg.Done()
					return nil, fmt.Errorf("evolve: submitting offspring task: %w", err)
				}
			}
		}
		wg.Wait()

		population := make([]*fitness.Individual, 0, len(parents)+len(offspring))
		population = append(population, parents...)
		population = append(population, offspring...)
		sortByFitnessDesc(population, s.samples)
		parents = population[:s.cfg.Mu]

		logger.Info("generation complete", "generation", gen, "best_fitness", parents[0].Fitness(s.samples))
	}

	return &Result{
		Best:        parents[0],
		BestFitness: parents[0].Fitness(s.samples),
		Generations: s.cfg.Generations,
	}, nil
}

// spawnOffspring clones parent and applies up to MutationsPerOffspring
// mutations, skipping inapplicable draws per spec §7's retry policy.
func (s *Strategy) spawnOffspring(parent *fitness.Individual) *fitness.Individual {
	child := parent.Clone(s.samples)
	applied := 0
	maxAttempts := s.cfg.MutationsPerOffspring * maxMutationAttemptFactor
	for attempts := 0; applied < s.cfg.MutationsPerOffspring && attempts < maxAttempts; attempts++ {
		m, ok := s.gen.Next(child.Diagram)
		if !ok {
			break
		}
		if child.ApplyMutation(m, s.samples) {
			applied++
		}
	}
	return child
}

type scoredIndividual struct {
	ind   *fitness.Individual
	score int
}

func sortByFitnessDesc(pop []*fitness.Individual, samples fitness.SampleSet) {
	scored := make([]scoredIndividual, len(pop))
	for i, ind := range pop {
		scored[i] = scoredIndividual{ind: ind, score: ind.Fitness(samples)}
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	for i, s := range scored {
		pop[i] = s.ind
	}
}
