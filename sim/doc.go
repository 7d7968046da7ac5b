// Package sim provides the core discrete-event simulation engine for floorsim.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - job.go: Job lifecycle (queued → processing → terminal) and the operation cursor
//   - event.go: the two event kinds (Start, Finish) and their ordering
//   - clock.go: the shared event timeline and worker accounting
//   - simulator.go: the polling loop, seeding, start/finish transitions and dispatch
//
// # Concurrency
//
// A single polling goroutine owns the EventClock and performs every finish
// transition. Start transitions run on a bounded errgroup pool, each holding
// its target Resource's mutex for the whole transition body. The polling loop
// only pops events once no start worker is in flight, so a Finish pushed by a
// worker can never land before the clock's current time.
//
// # Architecture
//
// The sim package defines the engine and its value types; collaborators live in
// sub-packages:
//   - sim/trace/: processing log (one record per start transition)
//   - sim/workload/: CSV, XLSX and YAML scenario ingestion, synthetic floor generation
//   - sim/report/: reporting port and text/json/yaml sinks
//   - sim/store/: SQLite persistence of run summaries and average operation times
package sim
