package sim

import (
	"runtime"
	"time"

	"github.com/plantfloor/floorsim/sim/trace"
)

// DefaultDrainTimeout bounds how long an interrupted run waits for in-flight
// start workers before giving up.
const DefaultDrainTimeout = 60 * time.Second

// FinishNotice is passed to Config.OnFinish after each finish transition.
type FinishNotice struct {
	Time       int64
	JobID      string
	Operation  string
	ResourceID string
	JobDone    bool // the job has no operation left
}

// Config groups engine knobs for NewSimulator. The zero value is usable:
// fifo dispatch, GOMAXPROCS workers, DefaultDrainTimeout, no trace.
type Config struct {
	Policy       DispatchPolicy         // "fifo" (default) or "priority"
	Workers      int                    // start-transition pool size (<= 0 means GOMAXPROCS)
	DrainTimeout time.Duration          // grace period for workers on interruption (<= 0 means default)
	Trace        *trace.SimulationTrace // optional processing log
	OnFinish     func(FinishNotice)     // optional hook, called on the polling goroutine
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c Config) drainTimeout() time.Duration {
	if c.DrainTimeout > 0 {
		return c.DrainTimeout
	}
	return DefaultDrainTimeout
}
