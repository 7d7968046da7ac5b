// Package trace provides the processing log of a simulation run: one record
// per start transition.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// IntervalRecord captures a single start transition: which job occupied which
// resource, for which operation, and when.
type IntervalRecord struct {
	JobID             string `json:"job_id" yaml:"job_id"`
	Operation         string `json:"operation" yaml:"operation"`
	ResourceID        string `json:"resource_id" yaml:"resource_id"`
	ResourceOperation string `json:"resource_operation" yaml:"resource_operation"`
	Start             int64  `json:"start" yaml:"start"`
	Finish            int64  `json:"finish" yaml:"finish"`
}

// Duration returns the busy time of the interval.
func (r IntervalRecord) Duration() int64 {
	return r.Finish - r.Start
}

// Overlap captures two intervals served by the same resource that intersect.
type Overlap struct {
	ResourceID string
	First      IntervalRecord
	Second     IntervalRecord
}
