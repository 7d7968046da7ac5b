// Tracks simulation-wide busy-time and flow statistics such as:
// per-operation busy time, per-resource busy time, job visits per resource,
// and the makespan window.

package sim

import (
	"sort"
	"sync"
)

// Stats aggregates busy time and flow records from concurrent start
// transitions. All counters only grow during a run; after Run returns
// they form a stable snapshot.
type Stats struct {
	mu sync.Mutex

	operationBusy map[string]int64          // operation -> busy seconds
	operationRuns map[string]int            // operation -> executions
	resourceBusy  map[string]int64          // resource id -> busy seconds
	flow          map[string]map[string]int // resource id -> job id -> visits

	started       bool
	makespanStart int64
	makespanEnd   int64
}

// NewStats creates an empty aggregator.
func NewStats() *Stats {
	return &Stats{
		operationBusy: make(map[string]int64),
		operationRuns: make(map[string]int),
		resourceBusy:  make(map[string]int64),
		flow:          make(map[string]map[string]int),
	}
}

// RecordInterval merges one processed interval into every counter.
func (s *Stats) RecordInterval(operation, resourceID, jobID string, start, finish int64) {
	busy := finish - start
	s.mu.Lock()
	defer s.mu.Unlock()

	s.operationBusy[operation] += busy
	s.operationRuns[operation]++
	s.resourceBusy[resourceID] += busy

	visits, ok := s.flow[resourceID]
	if !ok {
		visits = make(map[string]int)
		s.flow[resourceID] = visits
	}
	visits[jobID]++

	if !s.started {
		s.started = true
		s.makespanStart, s.makespanEnd = start, finish
		return
	}
	s.makespanStart = min(s.makespanStart, start)
	s.makespanEnd = max(s.makespanEnd, finish)
}

// TotalMakespan returns last finish minus first start, or 0 if nothing ran.
func (s *Stats) TotalMakespan() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.makespanEnd - s.makespanStart
}

// Window returns the first start and last finish observed.
func (s *Stats) Window() (start, end int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.makespanStart, s.makespanEnd
}

// OperationBusyTime returns a copy of the per-operation busy time.
func (s *Stats) OperationBusyTime() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCounts(s.operationBusy)
}

// ResourceBusyTime returns a copy of the per-resource busy time.
func (s *Stats) ResourceBusyTime() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCounts(s.resourceBusy)
}

// OperationExecutions returns how many intervals were attributed to operation.
func (s *Stats) OperationExecutions(operation string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.operationRuns[operation]
}

// AverageOperationTime returns busy time per execution of operation, or 0.
func (s *Stats) AverageOperationTime(operation string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	runs := s.operationRuns[operation]
	if runs == 0 {
		return 0
	}
	return float64(s.operationBusy[operation]) / float64(runs)
}

// FlowTable returns a deep copy of resource id -> job id -> visit count.
func (s *Stats) FlowTable() map[string]map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]map[string]int, len(s.flow))
	for res, visits := range s.flow {
		inner := make(map[string]int, len(visits))
		for job, n := range visits {
			inner[job] = n
		}
		out[res] = inner
	}
	return out
}

// OperationUsagePercent returns 100 * busy(operation) / makespan, or 0 for an empty makespan.
func (s *Stats) OperationUsagePercent(operation string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return percentOf(s.operationBusy[operation], s.makespanEnd-s.makespanStart)
}

// ResourceUsagePercent returns 100 * busy(resource) / makespan, or 0 for an empty makespan.
func (s *Stats) ResourceUsagePercent(resourceID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return percentOf(s.resourceBusy[resourceID], s.makespanEnd-s.makespanStart)
}

func percentOf(busy, makespan int64) float64 {
	if makespan == 0 {
		return 0
	}
	return 100 * float64(busy) / float64(makespan)
}

func copyCounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
