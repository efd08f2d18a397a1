package trace

// TraceSummary aggregates statistics from a CommitTrace.
type TraceSummary struct {
	Commits      int
	FirstCommit  float64
	LastCommit   float64
	MeanInterval float64 // mean gap between consecutive commits (0 with < 2 commits)
}

// Summarize computes aggregate statistics from a CommitTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(ct *CommitTrace) *TraceSummary {
	summary := &TraceSummary{}
	if ct == nil || len(ct.Timestamps) == 0 {
		return summary
	}

	summary.Commits = len(ct.Timestamps)
	summary.FirstCommit = ct.Timestamps[0]
	summary.LastCommit = ct.Timestamps[len(ct.Timestamps)-1]

	if summary.Commits > 1 {
		total := 0.0
		for i := 1; i < len(ct.Timestamps); i++ {
			total += ct.Timestamps[i] - ct.Timestamps[i-1]
		}
		summary.MeanInterval = total / float64(summary.Commits-1)
	}

	return summary
}
