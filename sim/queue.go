// Implements the per-operation waiting lines. Jobs are enqueued when they
// reach an operation and dequeued when a resource serving it is free.

package sim

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// OperationQueue holds the jobs waiting for one operation.
// Under PolicyFIFO jobs keep arrival order; under PolicyPriority they are kept
// sorted by rank descending, stable by arrival among equal ranks.
type OperationQueue struct {
	Operation string
	policy    DispatchPolicy
	jobs      []*Job
}

// NewOperationQueue creates an empty queue for operation.
func NewOperationQueue(operation string, policy DispatchPolicy) *OperationQueue {
	return &OperationQueue{Operation: operation, policy: policy}
}

// Enqueue adds a job according to the queue's discipline.
func (q *OperationQueue) Enqueue(j *Job) {
	if j == nil {
		panic("Enqueue: job must not be nil")
	}
	if q.policy != PolicyPriority {
		q.jobs = append(q.jobs, j)
		return
	}
	// first position holding a strictly lower rank; equal ranks stay ahead
	idx := sort.Search(len(q.jobs), func(i int) bool {
		return q.jobs[i].Priority < j.Priority
	})
	q.jobs = append(q.jobs, nil)
	copy(q.jobs[idx+1:], q.jobs[idx:])
	q.jobs[idx] = j
}

// Dequeue removes the head job. ok is false if the queue is empty.
func (q *OperationQueue) Dequeue() (j *Job, ok bool) {
	if len(q.jobs) == 0 {
		return nil, false
	}
	j = q.jobs[0]
	q.jobs[0] = nil
	q.jobs = q.jobs[1:]
	return j, true
}

// Peek returns the head job without removing it, or nil.
func (q *OperationQueue) Peek() *Job {
	if len(q.jobs) == 0 {
		return nil
	}
	return q.jobs[0]
}

// Len returns the number of waiting jobs.
func (q *OperationQueue) Len() int {
	return len(q.jobs)
}

// IDs returns the waiting job ids in dispatch order.
func (q *OperationQueue) IDs() []string {
	ids := make([]string, len(q.jobs))
	for i, j := range q.jobs {
		ids[i] = j.ID
	}
	return ids
}

func (q *OperationQueue) String() string {
	return fmt.Sprintf("%s[%s]", q.Operation, strings.Join(q.IDs(), " "))
}

// QueueManager owns one OperationQueue per operation name. Queues are created
// lazily the first time an operation is referenced and never removed.
type QueueManager struct {
	mu     sync.Mutex
	policy DispatchPolicy
	queues map[string]*OperationQueue
	order  []string // creation order, for deterministic iteration
}

// NewQueueManager creates a manager whose queues all use policy.
func NewQueueManager(policy DispatchPolicy) *QueueManager {
	return &QueueManager{
		policy: policy,
		queues: make(map[string]*OperationQueue),
	}
}

// Policy returns the discipline shared by every queue.
func (m *QueueManager) Policy() DispatchPolicy {
	return m.policy
}

// queue returns the queue for op, creating it if needed. Caller holds m.mu.
func (m *QueueManager) queue(op string) *OperationQueue {
	q, ok := m.queues[op]
	if !ok {
		logrus.Infof("Creating %s queue for operation %q", m.policy, op)
		q = NewOperationQueue(op, m.policy)
		m.queues[op] = q
		m.order = append(m.order, op)
	}
	return q
}

// Enqueue adds job to the waiting line of op.
func (m *QueueManager) Enqueue(op string, j *Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue(op).Enqueue(j)
	logrus.Debugf("Job %s added to the queue of operation %q", j.ID, op)
}

// DequeueIfAny removes and returns the head job of op's queue.
func (m *QueueManager) DequeueIfAny(op string) (*Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queues[op]
	if !ok {
		return nil, false
	}
	return q.Dequeue()
}

// IsEmpty reports whether no job waits for op.
func (m *QueueManager) IsEmpty(op string) bool {
	return m.Len(op) == 0
}

// Len returns the number of jobs waiting for op.
func (m *QueueManager) Len(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queues[op]
	if !ok {
		return 0
	}
	return q.Len()
}

// Operations returns the known operation names in creation order.
func (m *QueueManager) Operations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}

// Waiting returns the ids of every job still queued, keyed by operation.
// Operations with empty queues are omitted.
func (m *QueueManager) Waiting() map[string][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]string)
	for op, q := range m.queues {
		if q.Len() > 0 {
			out[op] = q.IDs()
		}
	}
	return out
}
