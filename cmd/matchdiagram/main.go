// Command matchdiagram is the CLI driver for the core packages: it parses a
// diagram written in the textual format (pkg/diagramtext), either evaluates
// it once against an input database and prints the resulting facts, or runs
// an evolutionary search (internal/evolve) over a labeled sample set loaded
// from YAML. Spec §1 scopes both the parser and the search loop as
// out-of-core external collaborators; this binary is the minimal reference
// wiring that exercises them end to end, grounded on
// theRebelliousNerd-codenerd's cobra-based `cmd/nerd` entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     Config
	logger  hclog.Logger
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "matchdiagram",
		Short: "Evaluate and search diagrams over a relational store",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			cfg = loaded
			logger = hclog.New(&hclog.LoggerOptions{
				Name:  "matchdiagram",
				Level: hclog.LevelFromString(cfg.LogLevel),
			})
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file")
	root.AddCommand(evalCmd(), searchCmd())
	return root
}
