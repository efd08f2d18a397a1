// Package sim provides the discrete-event simulation engine for measuring
// how retry/backoff policies affect latency and server load in a remote
// OCC (optimistic concurrency control) system.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - event.go: the closed set of protocol message events
//   - occ.go: the OCC server and the client retry state machine
//   - simulator.go: the event queue, the clock, and the run loop
//
// # Model
//
// One run simulates a single versioned row and N clients, each performing
// exactly one read-modify-write. A write commits only if the client read the
// latest version; on contention the client retries after a wait chosen by
// its backoff policy (backoff.go). Message latency comes from a folded
// normal delay model (network.go). Execution is single-threaded and strictly
// time-ordered: concurrency is wholly simulated via interleaved event
// scheduling.
//
// All randomness flows through a seedable partitioned RNG (rng.go), so runs
// are reproducible and independent runs never contend on a shared source.
// The experiment driver (experiment.go) repeats runs across policies and
// population sizes and aggregates the results; sim/trace records commit
// timestamps for auxiliary analysis.
package sim
