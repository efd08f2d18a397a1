// The experiment driver: builds runs from configuration, executes them, and
// aggregates repeated runs into sweep rows. Runs are fully independent; the
// reference driver executes them sequentially.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// RunOne executes a single simulation run: it builds the server, the clients
// and the event queue from cfg, seeds one StartEvent per client at t=0, and
// drains the loop. commits receives the timestamp of every committed write
// and may be nil.
func RunOne(cfg RunConfig, commits CommitRecorder) (RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return RunResult{}, fmt.Errorf("invalid run config: %w", err)
	}

	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	net := NewNetwork(cfg.DelayMean, cfg.DelayStdDev, rng.ForSubsystem(SubsystemNetwork))
	s := NewSimulator(cfg.Horizon)
	server := NewOccServer(net, s.Stats, commits)

	backoffSrc := rng.ForSubsystem(SubsystemBackoff)
	for i := 0; i < cfg.Clients; i++ {
		policy := NewBackoffPolicy(cfg.BackoffPolicy, cfg.BackoffBase, cfg.BackoffCap, backoffSrc)
		client := NewOccClient(i, server, net, policy, s.Stats, cfg.MaxAttempts)
		s.Schedule(&StartEvent{time: 0, Client: client})
	}

	elapsed := s.Run()
	return RunResult{
		ElapsedTime:   elapsed,
		WriteCalls:    s.Stats.Calls,
		WriteFailures: s.Stats.Failures,
		Abandoned:     s.Stats.Abandoned,
		FinalVersion:  server.Version(),
	}, nil
}

// TraceFactory returns the commit recorder to use for a policy name, or nil
// to disable tracing for that policy. The same recorder is reused for every
// run of that policy, so a trace accumulates across repetitions AND client
// populations: the sink is keyed by policy name alone, a wider scope than
// one sweep cell.
type TraceFactory func(policy string) CommitRecorder

// Sweep runs the full experiment grid sequentially and returns one
// aggregated row per (client count, policy) cell.
func Sweep(cfg SweepConfig, traces TraceFactory) ([]SweepRow, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sweep config: %w", err)
	}

	rows := make([]SweepRow, 0, len(cfg.ClientCounts)*len(cfg.Policies))
	for _, clients := range cfg.ClientCounts {
		for _, policy := range cfg.Policies {
			var rec CommitRecorder
			if traces != nil {
				rec = traces(policy)
			}

			var sumElapsed, sumCalls float64
			for rep := 0; rep < cfg.Repetitions; rep++ {
				res, err := RunOne(cfg.runConfig(policy, clients, rep), rec)
				if err != nil {
					return nil, fmt.Errorf("run %s/clients=%d/rep=%d: %w", policy, clients, rep, err)
				}
				sumElapsed += res.ElapsedTime
				sumCalls += float64(res.WriteCalls)
			}

			row := SweepRow{
				Clients:    clients,
				Policy:     policy,
				AvgElapsed: sumElapsed / float64(cfg.Repetitions),
				AvgCalls:   sumCalls / float64(cfg.Repetitions),
			}
			rows = append(rows, row)
			logrus.Infof("swept policy=%s clients=%d: avg elapsed %.1f ticks, avg calls %.1f",
				policy, clients, row.AvgElapsed, row.AvgCalls)
		}
	}
	return rows, nil
}
