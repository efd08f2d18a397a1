// Tracks per-run statistics and the aggregated sweep outputs.

package sim

import "fmt"

// Stats aggregates the write traffic of one run. It is shared by the server
// and every client of that run; single-threaded event-ordered execution
// makes the bare increments safe. Runs never share a Stats value.
type Stats struct {
	Calls     int64 // write attempts received by the server
	Failures  int64 // write attempts rejected for version mismatch
	Abandoned int64 // clients that gave up at MaxAttempts (0 unless a cap is set)
}

// RunResult is the engine's output for a single run.
type RunResult struct {
	ElapsedTime   float64 // simulated time at which the run's last event executed
	WriteCalls    int64
	WriteFailures int64
	Abandoned     int64
	FinalVersion  int64 // committed writes; equals WriteCalls - WriteFailures
}

// Print displays the result of a single run.
func (r RunResult) Print() {
	fmt.Println("=== Run Result ===")
	fmt.Printf("Elapsed time     : %.2f ticks\n", r.ElapsedTime)
	fmt.Printf("Write calls      : %d\n", r.WriteCalls)
	fmt.Printf("Write failures   : %d\n", r.WriteFailures)
	fmt.Printf("Final version    : %d\n", r.FinalVersion)
	if r.Abandoned > 0 {
		fmt.Printf("Abandoned clients: %d\n", r.Abandoned)
	}
}

// SweepRow is one aggregated cell of an experiment sweep: one backoff policy
// at one client population, averaged over the sweep's repetitions.
type SweepRow struct {
	Clients    int
	Policy     string
	AvgElapsed float64
	AvgCalls   float64
}
