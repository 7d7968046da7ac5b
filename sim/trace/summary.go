package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalIntervals  int
	UniqueJobs      int
	UniqueResources int
	FirstStart      int64
	LastFinish      int64
	BusiestResource string           // resource with the largest busy time; ties broken by id
	BusyByResource  map[string]int64 // resource ID → summed interval durations
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		BusyByResource: make(map[string]int64),
	}
	if st == nil {
		return summary
	}

	recs := st.Intervals()
	summary.TotalIntervals = len(recs)
	if len(recs) == 0 {
		return summary
	}

	jobs := make(map[string]bool)
	summary.FirstStart = recs[0].Start
	summary.LastFinish = recs[0].Finish
	for _, r := range recs {
		jobs[r.JobID] = true
		summary.BusyByResource[r.ResourceID] += r.Duration()
		summary.FirstStart = min(summary.FirstStart, r.Start)
		summary.LastFinish = max(summary.LastFinish, r.Finish)
	}
	summary.UniqueJobs = len(jobs)
	summary.UniqueResources = len(summary.BusyByResource)

	var best int64 = -1
	for id, busy := range summary.BusyByResource {
		if busy > best || (busy == best && id < summary.BusiestResource) {
			best = busy
			summary.BusiestResource = id
		}
	}

	return summary
}
