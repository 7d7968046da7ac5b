package sim

import "sort"

// UsageRow is one line of a usage table.
type UsageRow struct {
	Name         string  `json:"name" yaml:"name"`
	BusyTime     int64   `json:"busy_time" yaml:"busy_time"`
	Executions   int     `json:"executions,omitempty" yaml:"executions,omitempty"`
	AverageTime  float64 `json:"average_time,omitempty" yaml:"average_time,omitempty"`
	UsagePercent float64 `json:"usage_percent" yaml:"usage_percent"`
}

// Summary is the reporting-side snapshot of a finished run.
type Summary struct {
	Policy              DispatchPolicy `json:"policy" yaml:"policy"`
	Jobs                int            `json:"jobs" yaml:"jobs"`
	CompletedJobs       int            `json:"completed_jobs" yaml:"completed_jobs"`
	TotalProductionTime int64          `json:"total_production_time" yaml:"total_production_time"`

	// Operations and Resources are sorted by usage percentage ascending, then name.
	Operations []UsageRow                `json:"operations" yaml:"operations"`
	Resources  []UsageRow                `json:"resources" yaml:"resources"`
	Flow       map[string]map[string]int `json:"flow" yaml:"flow"`

	// Starved lists jobs left waiting for an operation no resource serves.
	Starved map[string][]string `json:"starved,omitempty" yaml:"starved,omitempty"`
}

// OperationBusyTime returns the busy time per operation as a map.
func (s *Summary) OperationBusyTime() map[string]int64 {
	return rowsToMap(s.Operations)
}

// ResourceBusyTime returns the busy time per resource as a map.
func (s *Summary) ResourceBusyTime() map[string]int64 {
	return rowsToMap(s.Resources)
}

func rowsToMap(rows []UsageRow) map[string]int64 {
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Name] = r.BusyTime
	}
	return out
}

func sortUsage(rows []UsageRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].UsagePercent != rows[j].UsagePercent {
			return rows[i].UsagePercent < rows[j].UsagePercent
		}
		return rows[i].Name < rows[j].Name
	})
}
