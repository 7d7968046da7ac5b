// Package report renders the result of a simulation run: the processing log,
// usage tables sorted by usage, the flow table and any starved jobs.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/plantfloor/floorsim/sim"
	"github.com/plantfloor/floorsim/sim/trace"
)

// Run is what a Reporter renders.
type Run struct {
	Summary *sim.Summary `json:"summary" yaml:"summary"`
	// Intervals is the processing log, ordered by start then resource. Optional.
	Intervals []trace.IntervalRecord `json:"intervals,omitempty" yaml:"intervals,omitempty"`
}

// NewRun assembles a Run from a finished simulator and its optional trace.
func NewRun(s *sim.Simulator, st *trace.SimulationTrace) *Run {
	run := &Run{Summary: s.Summary()}
	if st != nil {
		run.Intervals = st.Intervals()
	}
	return run
}

// Reporter writes a Run to w.
type Reporter interface {
	Report(w io.Writer, run *Run) error
}

// ValidFormats maps output format names to validity.
var ValidFormats = map[string]bool{
	"text": true,
	"json": true,
	"yaml": true,
}

// IsValidFormat returns true if name is a known output format.
func IsValidFormat(name string) bool {
	return ValidFormats[name]
}

// FormatNames returns the valid format names, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for n := range ValidFormats {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New returns the Reporter for a format name.
func New(format string) (Reporter, error) {
	switch format {
	case "", "text":
		return &TextReporter{}, nil
	case "json":
		return JSONReporter{}, nil
	case "yaml":
		return YAMLReporter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q; valid: %s", format, strings.Join(FormatNames(), ", "))
	}
}
