package sim

import "fmt"

// EventKind distinguishes the two transitions the engine knows about.
type EventKind int

const (
	EventStart EventKind = iota
	EventFinish
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "Start"
	case EventFinish:
		return "Finish"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// EventKindPriority defines ordering for simultaneous events.
// Lower values are processed first: finishing work frees resources before
// the starts queued at the same instant are executed.
var EventKindPriority = map[EventKind]int{
	EventFinish: 1,
	EventStart:  2,
}

// Event is a timestamped Start or Finish transition for a (job, resource) pair.
// Events are immutable once created.
type Event struct {
	time int64  // simulation time (seconds)
	seq  uint64 // submission sequence, deterministic tie-breaker

	Kind      EventKind
	Job       *Job
	Resource  *Resource
	Operation string
}

// NewStartEvent creates a Start event. seq orders it among events sharing the
// same timestamp and kind.
func NewStartEvent(time int64, seq uint64, job *Job, res *Resource, operation string) *Event {
	return &Event{
		time:      time,
		seq:       seq,
		Kind:      EventStart,
		Job:       job,
		Resource:  res,
		Operation: operation,
	}
}

// finishAt derives the Finish event of a Start. It inherits the Start's
// sequence number so the order of concurrent workers' pushes cannot leak
// into the timeline.
func (e *Event) finishAt(time int64) *Event {
	return &Event{
		time:      time,
		seq:       e.seq,
		Kind:      EventFinish,
		Job:       e.Job,
		Resource:  e.Resource,
		Operation: e.Operation,
	}
}

// Timestamp returns the scheduled time of the event.
func (e *Event) Timestamp() int64 {
	return e.time
}

// Seq returns the event's submission sequence number.
func (e *Event) Seq() uint64 {
	return e.seq
}

func (e *Event) String() string {
	jobID, resID := "<nil>", "<nil>"
	if e.Job != nil {
		jobID = e.Job.ID
	}
	if e.Resource != nil {
		resID = e.Resource.ID
	}
	return fmt.Sprintf("%s@%d[%s %s on %s #%d]", e.Kind, e.time, jobID, e.Operation, resID, e.seq)
}
