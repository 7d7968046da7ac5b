package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plantfloor/floorsim/sim/report"
	"github.com/plantfloor/floorsim/sim/store"
)

var (
	historyDB    string // SQLite history database
	historyLimit int    // Number of runs to list
	historyRun   string // Run id whose average operation times are shown
)

// historyCmd lists stored runs or the average operation times of one run
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored runs and their average operation times",
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyDB == "" {
			return errors.New("--db is required")
		}
		db, err := store.Open(historyDB)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if historyRun != "" {
			return printAverages(cmd, db, historyRun)
		}
		return printRuns(cmd, db, historyLimit)
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyDB, "db", "", "SQLite database written by run --db")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of most recent runs to list (0 = all)")
	historyCmd.Flags().StringVar(&historyRun, "run", "", "Show the average operation times of this run")
}

func printRuns(cmd *cobra.Command, db *store.Store, limit int) error {
	runs, err := db.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No stored runs")
		return err
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID, r.CreatedAt.Format("2006-01-02T15:04:05Z"), r.Policy,
			fmt.Sprintf("%d/%d", r.CompletedJobs, r.Jobs), fmt.Sprintf("%d s", r.TotalProductionTime),
		})
	}
	return (&report.TextReporter{}).Table(w, "Stored Runs",
		[]string{"RUN", "CREATED", "POLICY", "COMPLETED", "TIME"}, rows)
}

func printAverages(cmd *cobra.Command, db *store.Store, runID string) error {
	avgs, err := db.AverageTimes(cmd.Context(), runID)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(avgs))
	for _, a := range avgs {
		rows = append(rows, []string{a.Operation, fmt.Sprintf("%.2f", a.AverageTime), fmt.Sprint(a.Executions)})
	}
	return (&report.TextReporter{}).Table(cmd.OutOrStdout(), "Average Operation Times "+runID,
		[]string{"OPERATION", "AVERAGE", "RUNS"}, rows)
}
