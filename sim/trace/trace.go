// Package trace records the commit timestamps emitted by the OCC server for
// post-run analysis. This package has no dependencies on sim/ — it stores
// pure data and knows how to write it out.
package trace

import (
	"bufio"
	"fmt"
	"io"
)

// CommitTrace collects the simulated timestamps of successful writes for one
// backoff policy. Within a single run the sequence is non-decreasing; a
// trace shared across runs restarts near zero with each run, and a sweep
// feeds one trace per policy, mixing every repetition and client population
// of that policy.
type CommitTrace struct {
	Policy     string
	Timestamps []float64
}

// NewCommitTrace creates an empty trace for the named policy.
func NewCommitTrace(policy string) *CommitTrace {
	return &CommitTrace{
		Policy:     policy,
		Timestamps: make([]float64, 0),
	}
}

// RecordCommit appends one commit timestamp. Implements sim.CommitRecorder.
func (ct *CommitTrace) RecordCommit(tm float64) {
	ct.Timestamps = append(ct.Timestamps, tm)
}

// Len returns the number of recorded commits.
func (ct *CommitTrace) Len() int {
	return len(ct.Timestamps)
}

// Dump writes the trace to w, one timestamp per line. Any write error is
// returned so the caller can abort rather than report a partial trace.
func (ct *CommitTrace) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, tm := range ct.Timestamps {
		if _, err := fmt.Fprintf(bw, "%.3f\n", tm); err != nil {
			return fmt.Errorf("writing trace for %s: %w", ct.Policy, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing trace for %s: %w", ct.Policy, err)
	}
	return nil
}
