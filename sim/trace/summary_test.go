package trace

import "testing"

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalIntervals != 0 || summary.BusiestResource != "" {
		t.Errorf("expected zero summary, got %+v", summary)
	}
	if summary.BusyByResource == nil {
		t.Error("expected non-nil BusyByResource map")
	}
}

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace()

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero
	if summary.TotalIntervals != 0 {
		t.Errorf("expected 0 intervals, got %d", summary.TotalIntervals)
	}
	if summary.UniqueJobs != 0 || summary.UniqueResources != 0 {
		t.Errorf("expected no jobs or resources, got %d/%d", summary.UniqueJobs, summary.UniqueResources)
	}
	if summary.FirstStart != 0 || summary.LastFinish != 0 {
		t.Errorf("expected zero window, got [%d,%d]", summary.FirstStart, summary.LastFinish)
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a two-operation line for two jobs
	st := NewSimulationTrace()
	st.RecordInterval(IntervalRecord{JobID: "1", Operation: "CUT", ResourceID: "ws1", Start: 0, Finish: 10})
	st.RecordInterval(IntervalRecord{JobID: "2", Operation: "CUT", ResourceID: "ws1", Start: 10, Finish: 20})
	st.RecordInterval(IntervalRecord{JobID: "1", Operation: "POLISH", ResourceID: "ws2", Start: 10, Finish: 25})
	st.RecordInterval(IntervalRecord{JobID: "2", Operation: "POLISH", ResourceID: "ws2", Start: 25, Finish: 40})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts, window and busy time match
	if summary.TotalIntervals != 4 {
		t.Errorf("expected 4 intervals, got %d", summary.TotalIntervals)
	}
	if summary.UniqueJobs != 2 || summary.UniqueResources != 2 {
		t.Errorf("expected 2 jobs and 2 resources, got %d/%d", summary.UniqueJobs, summary.UniqueResources)
	}
	if summary.FirstStart != 0 || summary.LastFinish != 40 {
		t.Errorf("expected window [0,40], got [%d,%d]", summary.FirstStart, summary.LastFinish)
	}
	if summary.BusyByResource["ws2"] != 30 {
		t.Errorf("expected ws2 busy 30, got %d", summary.BusyByResource["ws2"])
	}
	if summary.BusiestResource != "ws2" {
		t.Errorf("expected busiest ws2, got %s", summary.BusiestResource)
	}
}

func TestSummarize_BusiestResource_TieBrokenByID(t *testing.T) {
	st := NewSimulationTrace()
	st.RecordInterval(IntervalRecord{JobID: "1", ResourceID: "zeta", Start: 0, Finish: 5})
	st.RecordInterval(IntervalRecord{JobID: "2", ResourceID: "alpha", Start: 0, Finish: 5})

	summary := Summarize(st)

	if summary.BusiestResource != "alpha" {
		t.Errorf("expected alpha on tie, got %s", summary.BusiestResource)
	}
}
