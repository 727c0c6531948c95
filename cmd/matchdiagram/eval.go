package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zentner-kyle/matchdiagram/pkg/diagramtext"
	"github.com/zentner-kyle/matchdiagram/pkg/evaluator"
	"github.com/zentner-kyle/matchdiagram/pkg/relation"
)

func evalCmd() *cobra.Command {
	var inputPath string
	cmd := &cobra.Command{
		Use:   "eval <diagram-file>",
		Short: "Evaluate a diagram against an input database and print the resulting facts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("matchdiagram: reading diagram %s: %w", args[0], err)
			}
			d, err := diagramtext.Parse(string(src))
			if err != nil {
				return fmt.Errorf("matchdiagram: parsing diagram %s: %w", args[0], err)
			}

			input := relation.NewDatabase()
			if inputPath != "" {
				input, err = loadDatabase(inputPath)
				if err != nil {
					return err
				}
			}

			eval := evaluator.Run(d, input, cfg.MaxDepth, logger)
			printFacts(cmd.OutOrStdout(), eval.TotalDB.AllFacts())
			return nil
		},
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "path to a YAML input database (defaults to empty)")
	return cmd
}

func printFacts(w interface{ Write([]byte) (int, error) }, facts []relation.Fact) {
	for _, f := range facts {
		fmt.Fprintf(w, "@%d(", f.Predicate)
		for i, v := range f.Values {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprint(w, v.String())
		}
		fmt.Fprintln(w, ")")
	}
}
