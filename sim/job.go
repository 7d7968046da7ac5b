// Defines the Job struct that models an article flowing through its ordered operations.
// Tracks identity, priority and the operation cursor advanced by finish transitions.

package sim

import (
	"fmt"
	"strings"
)

// Priority is a job's dispatch rank. Higher ranks are dispatched first
// under the priority policy.
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityNormal Priority = 2
	PriorityHigh   Priority = 3
)

// ParsePriority maps a case-insensitive priority name to its rank.
// Unrecognized names default to PriorityLow.
func ParsePriority(name string) Priority {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "high":
		return PriorityHigh
	case "normal":
		return PriorityNormal
	default:
		return PriorityLow
	}
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "HIGH"
	case PriorityNormal:
		return "NORMAL"
	default:
		return "LOW"
	}
}

// JobSpec is the ingestion-side description of a job.
type JobSpec struct {
	ID         string   `yaml:"id" json:"id"`
	Priority   string   `yaml:"priority" json:"priority"`
	Operations []string `yaml:"operations" json:"operations"`
}

// Job models a single article's trip through the floor.
// The operation list is fixed at creation. The cursor is only ever advanced
// by the polling goroutine's finish transition, so it needs no lock.
type Job struct {
	ID       string
	Priority Priority

	operations []string
	cursor     int
}

func newJob(spec JobSpec) (*Job, error) {
	id := strings.TrimSpace(spec.ID)
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidJobID)
	}
	ops := make([]string, 0, len(spec.Operations))
	for i, op := range spec.Operations {
		op = strings.TrimSpace(op)
		if op == "" {
			return nil, fmt.Errorf("job %s operation[%d]: %w", id, i, ErrInvalidOperation)
		}
		ops = append(ops, op)
	}
	return &Job{
		ID:         id,
		Priority:   ParsePriority(spec.Priority),
		operations: ops,
	}, nil
}

// Operations returns a copy of the job's operation sequence.
func (j *Job) Operations() []string {
	return append([]string(nil), j.operations...)
}

// Cursor returns the index of the job's current operation.
func (j *Job) Cursor() int {
	return j.cursor
}

// CurrentOperation returns the operation the job is waiting for or being processed by.
// ok is false once the job is terminal.
func (j *Job) CurrentOperation() (op string, ok bool) {
	if j.cursor >= len(j.operations) {
		return "", false
	}
	return j.operations[j.cursor], true
}

// Terminal reports whether the job has completed every operation.
func (j *Job) Terminal() bool {
	return j.cursor >= len(j.operations)
}

// advance marks the current operation complete and reports whether
// another operation remains.
func (j *Job) advance() bool {
	if j.Terminal() {
		panic(fmt.Sprintf("advance: job %s is already terminal", j.ID))
	}
	j.cursor++
	return !j.Terminal()
}

func (j *Job) String() string {
	return fmt.Sprintf("%s(%s %d/%d)", j.ID, j.Priority, j.cursor, len(j.operations))
}
