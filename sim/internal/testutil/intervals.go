// Package testutil provides shared test infrastructure for the floorsim engine.
// It holds assertion helpers used across sim/ and its sub-package tests and
// depends only on sim/trace, so package sim's own tests can import it.
package testutil

import (
	"testing"

	"github.com/plantfloor/floorsim/sim/trace"
)

// AssertNoOverlap fails the test if any resource in st served two intersecting
// intervals, i.e. finish[i] > start[i+1] for consecutive intervals.
func AssertNoOverlap(t *testing.T, st *trace.SimulationTrace) {
	t.Helper()
	for _, o := range st.Overlaps() {
		t.Errorf("resource %s: interval %s [%d,%d] overlaps %s [%d,%d]",
			o.ResourceID, o.First.JobID, o.First.Start, o.First.Finish,
			o.Second.JobID, o.Second.Start, o.Second.Finish)
	}
}

// AssertMakespan fails the test unless want equals the last finish minus the
// first start over every recorded interval.
func AssertMakespan(t *testing.T, st *trace.SimulationTrace, want int64) {
	t.Helper()
	s := trace.Summarize(st)
	if got := s.LastFinish - s.FirstStart; got != want {
		t.Errorf("makespan from trace = %d, want %d", got, want)
	}
}

// Sum returns the sum of the map's values.
func Sum(m map[string]int64) int64 {
	var total int64
	for _, v := range m {
		total += v
	}
	return total
}

// IntervalOf returns the first interval of jobID at operation, failing the test if absent.
func IntervalOf(t *testing.T, st *trace.SimulationTrace, jobID, operation string) trace.IntervalRecord {
	t.Helper()
	for _, r := range st.Intervals() {
		if r.JobID == jobID && r.Operation == operation {
			return r
		}
	}
	t.Fatalf("no interval for job %s at operation %q", jobID, operation)
	return trace.IntervalRecord{}
}
