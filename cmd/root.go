package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/backoff-sim/backoff-sim/sim"
	"github.com/backoff-sim/backoff-sim/sim/trace"
)

var (
	// CLI flags shared by run and sweep
	logLevel    string  // Log verbosity level
	seed        int64   // Master seed for random streams
	backoffBase float64 // Backoff base (ticks)
	backoffCap  float64 // Backoff ceiling (ticks)
	delayMean   float64 // Mean network delay (ticks)
	delayStdDev float64 // Network delay standard deviation (ticks)
	maxAttempts int     // Failed writes before a client gives up (0 = never)
	horizon     float64 // Simulated-time safety bound (0 = unbounded)

	// CLI flags for `run`
	clients       int    // Client population size
	backoffPolicy string // Backoff policy name

	// CLI flags for `sweep`
	clientCounts []int    // Client populations to sweep
	policies     []string // Backoff policies to sweep
	repetitions  int      // Runs averaged per sweep cell
	outputCSV    string   // Report destination
	traceDir     string   // Directory for per-policy commit traces ("" disables)
	configPath   string   // Optional YAML sweep config
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "backoff-sim",
	Short: "Discrete-event simulator for OCC retry/backoff strategies",
}

// setupLogging parses the --log flag; an invalid level is fatal.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// runCmd executes a single simulation run using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation and print its result",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg := sim.RunConfig{
			Clients:       clients,
			BackoffPolicy: backoffPolicy,
			BackoffBase:   backoffBase,
			BackoffCap:    backoffCap,
			DelayMean:     delayMean,
			DelayStdDev:   delayStdDev,
			MaxAttempts:   maxAttempts,
			Horizon:       horizon,
			Seed:          seed,
		}

		logrus.Infof("Starting run: %d clients, policy=%s, delay N(%g, %g)",
			cfg.Clients, cfg.BackoffPolicy, cfg.DelayMean, cfg.DelayStdDev)

		result, err := sim.RunOne(cfg, nil)
		if err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}
		result.Print()
	},
}

// sweepCmd executes the full experiment grid and writes the CSV report
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the full policy/population sweep and write a CSV report",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg := sim.DefaultSweepConfig()
		if configPath != "" {
			loaded, err := sim.LoadSweepConfig(configPath)
			if err != nil {
				logrus.Fatalf("Unable to read sweep config: %v", err)
			}
			cfg = *loaded
		}
		// Explicit flags win over both defaults and the config file.
		applySweepFlags(cmd, &cfg)

		logrus.Infof("Starting sweep: clients=%v policies=%v repetitions=%d",
			cfg.ClientCounts, cfg.Policies, cfg.Repetitions)
		startTime := time.Now()

		traces := make(map[string]*trace.CommitTrace)
		var factory sim.TraceFactory
		if traceDir != "" {
			factory = func(policy string) sim.CommitRecorder {
				ct, ok := traces[policy]
				if !ok {
					ct = trace.NewCommitTrace(policy)
					traces[policy] = ct
				}
				return ct
			}
		}

		rows, err := sim.Sweep(cfg, factory)
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}

		if err := writeReportFile(outputCSV, rows); err != nil {
			logrus.Fatalf("Unable to write report: %v", err)
		}
		if traceDir != "" {
			if err := dumpTraces(traceDir, traces); err != nil {
				logrus.Fatalf("Unable to write traces: %v", err)
			}
		}

		logrus.Infof("Sweep complete in %v: %d rows written to %s",
			time.Since(startTime).Round(time.Millisecond), len(rows), outputCSV)
	},
}

// applySweepFlags overrides cfg with any sweep flags the user set explicitly.
func applySweepFlags(cmd *cobra.Command, cfg *sim.SweepConfig) {
	if cmd.Flags().Changed("clients") {
		cfg.ClientCounts = clientCounts
	}
	if cmd.Flags().Changed("policies") {
		cfg.Policies = policies
	}
	if cmd.Flags().Changed("repetitions") {
		cfg.Repetitions = repetitions
	}
	if cmd.Flags().Changed("backoff-base") {
		cfg.BackoffBase = backoffBase
	}
	if cmd.Flags().Changed("backoff-cap") {
		cfg.BackoffCap = backoffCap
	}
	if cmd.Flags().Changed("delay-mean") {
		cfg.DelayMean = delayMean
	}
	if cmd.Flags().Changed("delay-stddev") {
		cfg.DelayStdDev = delayStdDev
	}
	if cmd.Flags().Changed("max-attempts") {
		cfg.MaxAttempts = maxAttempts
	}
	if cmd.Flags().Changed("horizon") {
		cfg.Horizon = horizon
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
}

// dumpTraces writes one ts_<policy> file per recorded trace. Each file spans
// the whole sweep for that policy: commits from every repetition and client
// population, in execution order.
func dumpTraces(dir string, traces map[string]*trace.CommitTrace) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for policy, ct := range traces {
		f, err := os.Create(filepath.Join(dir, "ts_"+policy))
		if err != nil {
			return err
		}
		if err := ct.Dump(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, sweepCmd} {
		c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
		c.Flags().Int64Var(&seed, "seed", 42, "Master seed for random streams")
		c.Flags().Float64Var(&backoffBase, "backoff-base", 5, "Backoff base (ticks)")
		c.Flags().Float64Var(&backoffCap, "backoff-cap", 2000, "Backoff ceiling (ticks)")
		c.Flags().Float64Var(&delayMean, "delay-mean", 10, "Mean network delay (ticks)")
		c.Flags().Float64Var(&delayStdDev, "delay-stddev", 2, "Network delay standard deviation (ticks)")
		c.Flags().IntVar(&maxAttempts, "max-attempts", 0, "Failed writes before a client gives up (0 = retry until success)")
		c.Flags().Float64Var(&horizon, "horizon", 0, "Simulated-time safety bound (0 = unbounded)")
	}

	runCmd.Flags().IntVar(&clients, "clients", 10, "Client population size")
	runCmd.Flags().StringVar(&backoffPolicy, "policy", sim.PolicyFullJitter, "Backoff policy (none, expo, equal-jitter, full-jitter, decorr)")

	sweepCmd.Flags().IntSliceVar(&clientCounts, "clients", []int{10, 20, 30, 40, 50}, "Comma-separated client populations")
	sweepCmd.Flags().StringSliceVar(&policies, "policies", sim.AllBackoffPolicies, "Comma-separated backoff policies")
	sweepCmd.Flags().IntVar(&repetitions, "repetitions", 100, "Runs averaged per sweep cell")
	sweepCmd.Flags().StringVar(&outputCSV, "output", "backoff_results.csv", "CSV report destination")
	sweepCmd.Flags().StringVar(&traceDir, "trace-dir", "", "Directory for per-policy commit traces spanning the whole sweep (empty disables)")
	sweepCmd.Flags().StringVar(&configPath, "config", "", "YAML sweep config file (flags override it)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
}
