package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/plantfloor/floorsim/sim"
	"github.com/plantfloor/floorsim/sim/report"
	"github.com/plantfloor/floorsim/sim/store"
	"github.com/plantfloor/floorsim/sim/trace"
	"github.com/plantfloor/floorsim/sim/workload"
)

// errDoubleBooked is returned by --verify when a workstation served two jobs at once.
var errDoubleBooked = errors.New("workstation double-booked")

// runOptions holds the flags shared by run and watch.
type runOptions struct {
	articles     string        // Articles file (CSV or XLSX)
	workstations string        // Workstations file (CSV or XLSX)
	scenario     string        // YAML scenario file
	policy       string        // Dispatch policy; overrides the scenario
	workers      int           // Start-transition pool size; 0 means scenario value or GOMAXPROCS
	drainTimeout time.Duration // Grace period for workers after interruption
	format       string        // Output format
	events       bool          // Include the processing log in the report
	dbPath       string        // SQLite history database; empty disables persistence
	progress     bool          // Show a progress bar on stderr
	verify       bool          // Fail if any workstation served overlapping intervals
}

var runOpts runOptions

// runCmd executes one simulation using the input files from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the production simulation",
	Example: `  floorsim run --articles articles.csv --workstations workstations.csv
  floorsim run --scenario line.yaml --policy priority --format json
  floorsim run --articles floor.xlsx --workstations floor.xlsx --db history.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := simulate(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), runOpts)
		return err
	},
}

func addRunFlags(cmd *cobra.Command, o *runOptions) {
	cmd.Flags().StringVar(&o.articles, "articles", "", "Articles file: id;priority;op1;op2;... (CSV or XLSX)")
	cmd.Flags().StringVar(&o.workstations, "workstations", "", "Workstations file: id;operation;time (CSV or XLSX)")
	cmd.Flags().StringVar(&o.scenario, "scenario", "", "YAML scenario file (inline jobs/resources or file references)")
	cmd.Flags().StringVar(&o.policy, "policy", "", "Dispatch policy: fifo, priority (default fifo)")
	cmd.Flags().IntVar(&o.workers, "workers", 0, "Start-transition worker pool size (0 = GOMAXPROCS)")
	cmd.Flags().DurationVar(&o.drainTimeout, "drain-timeout", 0, "Grace period for in-flight workers after interruption (0 = 60s)")
	cmd.Flags().StringVar(&o.format, "format", "text", "Output format: text, json, yaml")
	cmd.Flags().BoolVar(&o.events, "events", true, "Include the processing log in the report")
	cmd.Flags().StringVar(&o.dbPath, "db", "", "SQLite database to store the run and average operation times")
	cmd.Flags().BoolVar(&o.progress, "progress", false, "Show a progress bar on stderr")
	cmd.Flags().BoolVar(&o.verify, "verify", false, "Fail if any workstation processed overlapping jobs")
}

func init() {
	addRunFlags(runCmd, &runOpts)
}

// loadInput resolves jobs, resources and engine settings from the options.
// Explicit flags take precedence over scenario settings.
func loadInput(o runOptions) (*workload.Input, sim.Config, error) {
	var (
		in  *workload.Input
		cfg sim.Config
		err error
	)
	switch {
	case o.scenario != "":
		sc, err := workload.LoadScenario(o.scenario)
		if err != nil {
			return nil, cfg, err
		}
		if in, err = sc.Resolve(); err != nil {
			return nil, cfg, err
		}
		cfg = sc.Config()
	case o.articles != "" && o.workstations != "":
		if in, err = workload.Load(o.articles, o.workstations); err != nil {
			return nil, cfg, err
		}
	default:
		return nil, cfg, errors.New("either --scenario or both --articles and --workstations are required")
	}

	if o.policy != "" {
		cfg.Policy = sim.DispatchPolicy(o.policy)
	}
	if o.workers > 0 {
		cfg.Workers = o.workers
	}
	if o.drainTimeout > 0 {
		cfg.DrainTimeout = o.drainTimeout
	}
	return in, cfg, nil
}

// inputFiles lists the files a run reads, for watching.
func inputFiles(o runOptions) ([]string, error) {
	if o.scenario == "" {
		return []string{o.articles, o.workstations}, nil
	}
	sc, err := workload.LoadScenario(o.scenario)
	if err != nil {
		return nil, err
	}
	return append([]string{o.scenario}, sc.Files()...), nil
}

// simulate runs one simulation and writes the report to out. Progress and
// persistence notices go to status.
func simulate(ctx context.Context, out, status io.Writer, o runOptions) (*report.Run, error) {
	reporter, err := report.New(o.format)
	if err != nil {
		return nil, err
	}
	in, cfg, err := loadInput(o)
	if err != nil {
		return nil, err
	}

	st := trace.NewSimulationTrace()
	cfg.Trace = st
	if o.progress {
		bar := newProgressBar(totalOperations(in.Jobs), status)
		cfg.OnFinish = func(sim.FinishNotice) { _ = bar.Add(1) }
		defer func() { _ = bar.Finish() }()
	}

	s, err := sim.NewSimulator(in.Jobs, in.Resources, cfg)
	if err != nil {
		return nil, err
	}
	started := time.Now()
	if err := s.Run(ctx); err != nil {
		return nil, fmt.Errorf("simulation interrupted: %w", err)
	}
	logrus.Infof("Simulated %d jobs on %d workstations in %s", len(in.Jobs), len(in.Resources), time.Since(started))
	if ts := trace.Summarize(st); ts.TotalIntervals > 0 {
		logrus.Debugf("Trace: %d intervals over [%d,%d], busiest workstation %s (%d s)",
			ts.TotalIntervals, ts.FirstStart, ts.LastFinish, ts.BusiestResource, ts.BusyByResource[ts.BusiestResource])
	}

	if o.verify {
		if overlaps := st.Overlaps(); len(overlaps) > 0 {
			for _, ov := range overlaps {
				logrus.Errorf("Workstation %s: job %s [%d,%d] overlaps job %s [%d,%d]", ov.ResourceID,
					ov.First.JobID, ov.First.Start, ov.First.Finish, ov.Second.JobID, ov.Second.Start, ov.Second.Finish)
			}
			return nil, fmt.Errorf("%w: %d overlap(s)", errDoubleBooked, len(overlaps))
		}
	}

	var shown *trace.SimulationTrace
	if o.events {
		shown = st
	}
	run := report.NewRun(s, shown)
	if err := reporter.Report(out, run); err != nil {
		return nil, err
	}

	if o.dbPath != "" {
		if err := persistRun(ctx, o.dbPath, run.Summary, status); err != nil {
			return nil, err
		}
	}
	return run, nil
}

func persistRun(ctx context.Context, dbPath string, sum *sim.Summary, status io.Writer) error {
	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	rec, err := db.SaveRun(ctx, sum)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(status, "Stored run %s in %s\n", rec.ID, dbPath)
	return nil
}

func totalOperations(jobs []sim.JobSpec) int64 {
	var n int64
	for _, j := range jobs {
		n += int64(len(j.Operations))
	}
	return n
}
