package sim

import (
	"context"
	"fmt"
	"sync"
)

// EventClock is the single source of truth for simulated time ordering.
// Push is safe from any goroutine. Next is called by the polling goroutine only.
//
// The clock also counts in-flight start workers: a worker may still be about
// to push a Finish, so Next never pops while one is active. Workers signal
// completion through done(), which wakes the poller; there is no timed recheck.
type EventClock struct {
	mu     sync.Mutex
	cond   *sync.Cond
	pending pendingEvents
	now    int64
	active int
	seq    uint64
}

// NewEventClock creates an empty clock at time 0.
func NewEventClock() *EventClock {
	c := &EventClock{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Push inserts an event into the timeline.
func (c *EventClock) Push(e *Event) {
	if e == nil {
		panic("Push: event must not be nil")
	}
	c.mu.Lock()
	c.pending.push(e)
	c.mu.Unlock()
}

// Now returns the timestamp of the most recently popped event.
func (c *EventClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Len returns the number of pending events.
func (c *EventClock) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Active returns the number of start workers currently executing.
func (c *EventClock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Idle reports the termination predicate: no pending events and no active worker.
func (c *EventClock) Idle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending) == 0 && c.active == 0
}

func (c *EventClock) nextSeq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

func (c *EventClock) begin() {
	c.mu.Lock()
	c.active++
	c.mu.Unlock()
}

func (c *EventClock) done() {
	c.mu.Lock()
	c.active--
	if c.active < 0 {
		c.mu.Unlock()
		panic("done: active worker count went negative")
	}
	if c.active == 0 {
		c.cond.Broadcast()
	}
	c.mu.Unlock()
}

// Next waits until no start worker is active, then removes the earliest event.
// If that event is a Start, every other Start sharing its timestamp is removed
// with it so the batch can execute in parallel. Finish events are returned one
// at a time.
//
// Next returns (nil, nil) when the clock is idle and ctx.Err() if ctx is done
// while waiting. The clock's current time advances to the batch's timestamp.
func (c *EventClock) Next(ctx context.Context) ([]*Event, error) {
	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		c.cond.Broadcast()
		c.mu.Unlock()
	})
	defer stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	for c.active > 0 && ctx.Err() == nil {
		c.cond.Wait()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	first := c.pending.pop()
	if first == nil {
		return nil, nil
	}
	if first.time < c.now {
		panic(fmt.Sprintf("Clock went backwards: %d < %d", first.time, c.now))
	}
	c.now = first.time

	batch := []*Event{first}
	if first.Kind == EventStart {
		for {
			next := c.pending.peek()
			if next == nil || next.Kind != EventStart || next.time != first.time {
				break
			}
			batch = append(batch, c.pending.pop())
		}
	}
	return batch, nil
}
