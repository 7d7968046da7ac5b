package sim

import (
	"fmt"
	"strings"
	"sync"
)

// ResourceSpec is the ingestion-side description of a workstation.
type ResourceSpec struct {
	ID        string `yaml:"id" json:"id"`
	Operation string `yaml:"operation" json:"operation"`
	Duration  int64  `yaml:"duration" json:"duration"`
}

// Resource is a single-capacity workstation bound to one operation with a
// fixed processing duration (seconds).
//
// nextFreeTime and usage are guarded by mu and only mutated inside a start
// transition. reserved belongs to the polling goroutine: it is set when a
// Start event is emitted for the resource and cleared when the matching
// Finish is handled.
type Resource struct {
	ID        string
	Operation string
	Duration  int64

	mu           sync.Mutex
	nextFreeTime int64
	usage        int64

	reserved bool
}

func newResource(spec ResourceSpec) (*Resource, error) {
	id := strings.TrimSpace(spec.ID)
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidResourceID)
	}
	op := strings.TrimSpace(spec.Operation)
	if op == "" {
		return nil, fmt.Errorf("resource %s: %w", id, ErrInvalidOperation)
	}
	if spec.Duration < 0 {
		return nil, fmt.Errorf("resource %s: %w (%d)", id, ErrNegativeDuration, spec.Duration)
	}
	return &Resource{ID: id, Operation: op, Duration: spec.Duration}, nil
}

// NextFreeTime returns the earliest time the resource can start new work.
func (r *Resource) NextFreeTime() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nextFreeTime
}

// Usage returns the resource's cumulative busy time.
func (r *Resource) Usage() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.usage
}

// freeAt reports whether the resource can accept a job at time now.
// Polling goroutine only.
func (r *Resource) freeAt(now int64) bool {
	return !r.reserved && r.NextFreeTime() <= now
}
