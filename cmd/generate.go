package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/plantfloor/floorsim/sim/workload"
)

var (
	genSpec   = workload.DefaultGeneratorSpec()
	genOutDir string // Directory receiving articles.csv and workstations.csv
)

// generateCmd writes a reproducible synthetic floor as CSV input files
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic articles/workstations pair for experiments",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := workload.Generate(genSpec)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(genOutDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		articles := filepath.Join(genOutDir, "articles.csv")
		workstations := filepath.Join(genOutDir, "workstations.csv")
		if err := writeFile(articles, func(f *os.File) error { return workload.WriteArticles(f, in.Jobs) }); err != nil {
			return err
		}
		if err := writeFile(workstations, func(f *os.File) error { return workload.WriteWorkstations(f, in.Resources) }); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d articles to %s and %d workstations to %s\n",
			len(in.Jobs), articles, len(in.Resources), workstations)
		return nil
	},
}

func init() {
	generateCmd.Flags().Int64Var(&genSpec.Seed, "seed", genSpec.Seed, "Seed for the generated floor")
	generateCmd.Flags().IntVar(&genSpec.Jobs, "jobs", genSpec.Jobs, "Number of articles")
	generateCmd.Flags().IntVar(&genSpec.Operations, "operations", genSpec.Operations, "Number of distinct operations")
	generateCmd.Flags().IntVar(&genSpec.MaxResourcesPerOp, "max-workstations", genSpec.MaxResourcesPerOp, "Maximum workstations per operation")
	generateCmd.Flags().Int64Var(&genSpec.MinDuration, "min-time", genSpec.MinDuration, "Minimum workstation processing time (s)")
	generateCmd.Flags().Int64Var(&genSpec.MaxDuration, "max-time", genSpec.MaxDuration, "Maximum workstation processing time (s)")
	generateCmd.Flags().IntVar(&genSpec.MaxRouteLength, "max-route", genSpec.MaxRouteLength, "Maximum operations per article")
	generateCmd.Flags().StringVar(&genOutDir, "out", ".", "Output directory")
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
