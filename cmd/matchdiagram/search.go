package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zentner-kyle/matchdiagram/internal/evolve"
	"github.com/zentner-kyle/matchdiagram/pkg/diagramtext"
	"github.com/zentner-kyle/matchdiagram/pkg/fitness"
	"github.com/zentner-kyle/matchdiagram/pkg/mutagen"
)

func searchCmd() *cobra.Command {
	var (
		samplesPath string
		mu          int
		lambda      int
		generations int
		mutations   int
		workers     int
		numSymbols  uint64
		numPreds    uint64
		seed1       uint64
		seed2       uint64
	)
	cmd := &cobra.Command{
		Use:   "search <seed-diagram-file>",
		Short: "Run a (mu, lambda) evolutionary search seeded from a diagram against labeled samples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("matchdiagram: reading seed diagram %s: %w", args[0], err)
			}
			seed, err := diagramtext.Parse(string(src))
			if err != nil {
				return fmt.Errorf("matchdiagram: parsing seed diagram %s: %w", args[0], err)
			}

			samplePath := samplesPath
			if samplePath == "" {
				samplePath = cfg.SampleFile
			}
			if samplePath == "" {
				return fmt.Errorf("matchdiagram: no sample file given (use --samples or config sample_file)")
			}
			data, err := os.ReadFile(samplePath)
			if err != nil {
				return fmt.Errorf("matchdiagram: reading samples %s: %w", samplePath, err)
			}
			samples, err := fitness.LoadSampleSet(data)
			if err != nil {
				return fmt.Errorf("matchdiagram: loading samples %s: %w", samplePath, err)
			}

			gen := mutagen.NewGenerator(numSymbols, numPreds, seed1, seed2)
			strategy := evolve.NewStrategy(evolve.Config{
				Mu:                    mu,
				Lambda:                lambda,
				Generations:           generations,
				MutationsPerOffspring: mutations,
				MaxDepth:              cfg.MaxDepth,
				Workers:               workers,
				Logger:                logger,
			}, gen, samples)

			result, err := strategy.Run(seed)
			if err != nil {
				return fmt.Errorf("matchdiagram: search: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "best fitness: %d (after %d generations)\n", result.BestFitness, result.Generations)
			return nil
		},
	}
	cmd.Flags().StringVar(&samplesPath, "samples", "", "path to a YAML sample set (overrides config sample_file)")
	cmd.Flags().IntVar(&mu, "mu", 8, "number of surviving parents per generation")
	cmd.Flags().IntVar(&lambda, "lambda", 4, "offspring per parent per generation")
	cmd.Flags().IntVar(&generations, "generations", 50, "number of generations to run")
	cmd.Flags().IntVar(&mutations, "mutations", 1, "mutations applied per offspring")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker pool size (0 = number of CPUs)")
	cmd.Flags().Uint64Var(&numSymbols, "num-symbols", 8, "universe size for randomly generated symbol constants")
	cmd.Flags().Uint64Var(&numPreds, "num-predicates", 4, "universe size for randomly generated predicates")
	cmd.Flags().Uint64Var(&seed1, "seed1", 1, "first PCG seed word for the mutation generator")
	cmd.Flags().Uint64Var(&seed2, "seed2", 2, "second PCG seed word for the mutation generator")
	return cmd
}
