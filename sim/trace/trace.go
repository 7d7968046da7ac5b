package trace

import (
	"sort"
	"sync"
)

// SimulationTrace collects interval records during a simulation.
// RecordInterval is safe for concurrent use by start workers.
type SimulationTrace struct {
	mu        sync.Mutex
	intervals []IntervalRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace() *SimulationTrace {
	return &SimulationTrace{
		intervals: make([]IntervalRecord, 0),
	}
}

// RecordInterval appends an interval record.
func (st *SimulationTrace) RecordInterval(record IntervalRecord) {
	st.mu.Lock()
	st.intervals = append(st.intervals, record)
	st.mu.Unlock()
}

// Len returns the number of recorded intervals.
func (st *SimulationTrace) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.intervals)
}

// Intervals returns a copy of the records ordered by start, resource, job.
// Recording order depends on worker scheduling; this order does not.
func (st *SimulationTrace) Intervals() []IntervalRecord {
	st.mu.Lock()
	out := append([]IntervalRecord(nil), st.intervals...)
	st.mu.Unlock()
	SortIntervals(out)
	return out
}

// ByResource groups the records per resource, each group ordered by start.
func (st *SimulationTrace) ByResource() map[string][]IntervalRecord {
	out := make(map[string][]IntervalRecord)
	for _, r := range st.Intervals() {
		out[r.ResourceID] = append(out[r.ResourceID], r)
	}
	return out
}

// Overlaps returns every pair of consecutive intervals on the same resource
// where the first finishes after the second starts. A correct run has none.
func (st *SimulationTrace) Overlaps() []Overlap {
	var found []Overlap
	byRes := st.ByResource()
	ids := make([]string, 0, len(byRes))
	for id := range byRes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		recs := byRes[id]
		for i := 1; i < len(recs); i++ {
			if recs[i-1].Finish > recs[i].Start {
				found = append(found, Overlap{ResourceID: id, First: recs[i-1], Second: recs[i]})
			}
		}
	}
	return found
}

// SortIntervals orders records by start, then resource id, then job id.
func SortIntervals(recs []IntervalRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Start != recs[j].Start {
			return recs[i].Start < recs[j].Start
		}
		if recs[i].ResourceID != recs[j].ResourceID {
			return recs[i].ResourceID < recs[j].ResourceID
		}
		return recs[i].JobID < recs[j].JobID
	})
}
