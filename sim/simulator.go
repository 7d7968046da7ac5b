// sim/simulator.go
package sim

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/plantfloor/floorsim/sim/trace"
)

// Simulator is the core object that holds the event clock, the waiting lines,
// the resources and the statistics of one run.
type Simulator struct {
	cfg Config

	// Clock has all pending Start and Finish events
	Clock *EventClock
	// Queues holds one waiting line per operation name
	Queues *QueueManager
	Stats  *Stats

	jobs      []*Job
	resources []*Resource
	// resources per operation, fastest first (duration asc, then id)
	byOperation map[string][]*Resource

	completed int // terminal jobs; polling goroutine only
	ran       atomic.Bool
}

// NewSimulator validates the ingestion output and builds a ready-to-run simulator.
// Job and resource ids must be non-empty and unique; durations must be non-negative.
func NewSimulator(jobs []JobSpec, resources []ResourceSpec, cfg Config) (*Simulator, error) {
	policy, err := ParseDispatchPolicy(string(cfg.Policy))
	if err != nil {
		return nil, err
	}
	cfg.Policy = policy

	s := &Simulator{
		cfg:         cfg,
		Clock:       NewEventClock(),
		Queues:      NewQueueManager(policy),
		Stats:       NewStats(),
		jobs:        make([]*Job, 0, len(jobs)),
		resources:   make([]*Resource, 0, len(resources)),
		byOperation: make(map[string][]*Resource),
	}

	seenJobs := make(map[string]bool, len(jobs))
	for i, spec := range jobs {
		j, err := newJob(spec)
		if err != nil {
			return nil, fmt.Errorf("job[%d]: %w", i, err)
		}
		if seenJobs[j.ID] {
			return nil, fmt.Errorf("job[%d]: %w %q", i, ErrDuplicateJobID, j.ID)
		}
		seenJobs[j.ID] = true
		s.jobs = append(s.jobs, j)
	}

	seenRes := make(map[string]bool, len(resources))
	for i, spec := range resources {
		r, err := newResource(spec)
		if err != nil {
			return nil, fmt.Errorf("resource[%d]: %w", i, err)
		}
		if seenRes[r.ID] {
			return nil, fmt.Errorf("resource[%d]: %w %q", i, ErrDuplicateResourceID, r.ID)
		}
		seenRes[r.ID] = true
		s.resources = append(s.resources, r)
		s.byOperation[r.Operation] = append(s.byOperation[r.Operation], r)
		logrus.Debugf("Resource %s registered for operation %q, processing time %ds", r.ID, r.Operation, r.Duration)
	}
	for _, rs := range s.byOperation {
		sort.SliceStable(rs, func(a, b int) bool {
			if rs[a].Duration != rs[b].Duration {
				return rs[a].Duration < rs[b].Duration
			}
			return rs[a].ID < rs[b].ID
		})
	}

	logrus.Infof("Simulation initialized with %d jobs and %d resources (policy=%s)", len(s.jobs), len(s.resources), policy)
	return s, nil
}

// Jobs returns the simulator's jobs in input order.
func (s *Simulator) Jobs() []*Job {
	return append([]*Job(nil), s.jobs...)
}

// Resources returns the simulator's resources in input order.
func (s *Simulator) Resources() []*Resource {
	return append([]*Resource(nil), s.resources...)
}

// Policy returns the dispatch policy in effect.
func (s *Simulator) Policy() DispatchPolicy {
	return s.cfg.Policy
}

// Run drives the simulation until the clock is empty and no start worker is
// active. A Simulator runs at most once.
//
// If ctx is cancelled, Run stops popping events, submits no further work and
// waits up to Config.DrainTimeout for in-flight workers; it then returns
// ctx.Err(), joined with ErrDrainTimeout if the workers did not drain.
func (s *Simulator) Run(ctx context.Context) error {
	if !s.ran.CompareAndSwap(false, true) {
		return ErrAlreadyRun
	}
	logrus.Info("Starting production simulation")
	s.seed()

	var g errgroup.Group
	g.SetLimit(s.cfg.workers())

	for {
		batch, err := s.Clock.Next(ctx)
		if err != nil {
			return s.drain(&g, err)
		}
		if batch == nil {
			break
		}
		logrus.Debugf("[t=%d] Executing %d %s event(s)", s.Clock.Now(), len(batch), batch[0].Kind)
		for _, ev := range batch {
			switch ev.Kind {
			case EventStart:
				s.Clock.begin()
				g.Go(func() error {
					defer s.Clock.done()
					s.startTransition(ev)
					return nil
				})
			case EventFinish:
				s.finishTransition(ev)
			}
		}
	}
	_ = g.Wait()

	s.warnStarvation()
	logrus.Infof("[t=%d] Simulation completed. Total production time: %d seconds", s.Clock.Now(), s.Stats.TotalMakespan())
	return nil
}

func (s *Simulator) drain(g *errgroup.Group, cause error) error {
	logrus.Warnf("[t=%d] Simulation interrupted: %v; draining %d start worker(s)", s.Clock.Now(), cause, s.Clock.Active())
	drained := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(drained)
	}()
	timer := time.NewTimer(s.cfg.drainTimeout())
	defer timer.Stop()
	select {
	case <-drained:
		return cause
	case <-timer.C:
		return errors.Join(cause, ErrDrainTimeout)
	}
}

// seed queues every job at its first operation, then hands one job to each
// resource of a non-empty queue, fastest resource first.
func (s *Simulator) seed() {
	for _, j := range s.jobs {
		op, ok := j.CurrentOperation()
		if !ok {
			s.completed++
			logrus.Debugf("Job %s has no operations; terminal from the start", j.ID)
			continue
		}
		s.Queues.Enqueue(op, j)
	}
	for _, op := range s.Queues.Operations() {
		for _, r := range s.byOperation[op] {
			j, ok := s.Queues.DequeueIfAny(op)
			if !ok {
				break
			}
			s.dispatch(j, r, r.NextFreeTime())
		}
	}
}

// dispatch reserves r for j and emits the Start event. Polling goroutine only.
func (s *Simulator) dispatch(j *Job, r *Resource, at int64) {
	r.reserved = true
	op, _ := j.CurrentOperation()
	s.Clock.Push(NewStartEvent(at, s.Clock.nextSeq(), j, r, op))
	logrus.Debugf("[t=%d] Job %s scheduled on resource %s for operation %q", at, j.ID, r.ID, op)
}

// startTransition runs on a pool worker under the resource's lock.
func (s *Simulator) startTransition(e *Event) {
	r := e.Resource
	r.mu.Lock()
	defer r.mu.Unlock()

	start := max(r.nextFreeTime, e.time)
	finish := start + r.Duration
	r.nextFreeTime = finish
	r.usage += r.Duration

	s.Stats.RecordInterval(e.Operation, r.ID, e.Job.ID, start, finish)
	if s.cfg.Trace != nil {
		s.cfg.Trace.RecordInterval(trace.IntervalRecord{
			JobID:             e.Job.ID,
			Operation:         e.Operation,
			ResourceID:        r.ID,
			ResourceOperation: r.Operation,
			Start:             start,
			Finish:            finish,
		})
	}
	logrus.Infof("[t=%d] Job %s assigned to resource %s for operation %q. Start: %d, Finish: %d",
		e.time, e.Job.ID, r.ID, e.Operation, start, finish)

	s.Clock.Push(e.finishAt(finish))
}

// finishTransition runs on the polling goroutine only.
func (s *Simulator) finishTransition(e *Event) {
	now := e.time
	j, r := e.Job, e.Resource
	r.reserved = false
	logrus.Infof("[t=%d] Job %s completed operation %q at resource %s", now, j.ID, e.Operation, r.ID)

	more := j.advance()
	if more {
		next, _ := j.CurrentOperation()
		s.Queues.Enqueue(next, j)
		if len(s.byOperation[next]) == 0 {
			logrus.Debugf("[t=%d] No resource serves operation %q; job %s waits", now, next, j.ID)
		}
		s.tryDispatch(next, now)
	} else {
		s.completed++
		logrus.Debugf("[t=%d] Job %s has completed all operations", now, j.ID)
	}

	if s.cfg.OnFinish != nil {
		s.cfg.OnFinish(FinishNotice{
			Time:       now,
			JobID:      j.ID,
			Operation:  e.Operation,
			ResourceID: r.ID,
			JobDone:    !more,
		})
	}

	s.tryDispatch(r.Operation, now)
}

// tryDispatch hands waiting jobs of op to every resource free at now.
func (s *Simulator) tryDispatch(op string, now int64) {
	for _, r := range s.byOperation[op] {
		if s.Queues.IsEmpty(op) {
			return
		}
		if !r.freeAt(now) {
			continue
		}
		j, ok := s.Queues.DequeueIfAny(op)
		if !ok {
			return
		}
		s.dispatch(j, r, now)
	}
}

func (s *Simulator) warnStarvation() {
	for op, ids := range s.starved() {
		logrus.Warnf("%d job(s) left waiting for operation %q, which no resource serves: %v", len(ids), op, ids)
	}
}

// starved returns the queued jobs of operations that no resource serves.
// Jobs still queued for a served operation after an interrupted run are not
// starved and are left out.
func (s *Simulator) starved() map[string][]string {
	waiting := s.Queues.Waiting()
	for op := range waiting {
		if len(s.byOperation[op]) > 0 {
			delete(waiting, op)
		}
	}
	return waiting
}

// CompletedJobs returns the number of terminal jobs.
// Only meaningful once Run has returned.
func (s *Simulator) CompletedJobs() int {
	return s.completed
}

// TotalProductionTime returns the makespan in seconds.
func (s *Simulator) TotalProductionTime() int64 {
	return s.Stats.TotalMakespan()
}

// Summary builds the reporting snapshot. Call after Run returns.
func (s *Simulator) Summary() *Summary {
	opBusy := s.Stats.OperationBusyTime()
	resBusy := s.Stats.ResourceBusyTime()

	for op := range s.byOperation {
		if _, ok := opBusy[op]; !ok {
			opBusy[op] = 0
		}
	}
	for _, r := range s.resources {
		if _, ok := resBusy[r.ID]; !ok {
			resBusy[r.ID] = 0
		}
	}

	ops := make([]UsageRow, 0, len(opBusy))
	for _, op := range sortedKeys(opBusy) {
		ops = append(ops, UsageRow{
			Name:         op,
			BusyTime:     opBusy[op],
			Executions:   s.Stats.OperationExecutions(op),
			AverageTime:  s.Stats.AverageOperationTime(op),
			UsagePercent: s.Stats.OperationUsagePercent(op),
		})
	}
	sortUsage(ops)

	res := make([]UsageRow, 0, len(resBusy))
	for _, id := range sortedKeys(resBusy) {
		res = append(res, UsageRow{
			Name:         id,
			BusyTime:     resBusy[id],
			UsagePercent: s.Stats.ResourceUsagePercent(id),
		})
	}
	sortUsage(res)

	starved := s.starved()
	if len(starved) == 0 {
		starved = nil
	}

	return &Summary{
		Policy:              s.cfg.Policy,
		Jobs:                len(s.jobs),
		CompletedJobs:       s.completed,
		TotalProductionTime: s.Stats.TotalMakespan(),
		Operations:          ops,
		Resources:           res,
		Flow:                s.Stats.FlowTable(),
		Starved:             starved,
	}
}
