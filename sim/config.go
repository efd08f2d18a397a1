package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig fully describes one simulation run.
type RunConfig struct {
	Clients       int     // client population size (must be > 0)
	BackoffPolicy string  // one of AllBackoffPolicies
	BackoffBase   float64 // backoff base in ticks (must be > 0)
	BackoffCap    float64 // backoff ceiling in ticks (must be >= base)
	DelayMean     float64 // mean network delay in ticks
	DelayStdDev   float64 // network delay standard deviation (must be >= 0)
	MaxAttempts   int     // failed writes before a client gives up; 0 = retry until success
	Horizon       float64 // simulated-time bound; 0 = unbounded
	Seed          int64   // master seed for the run's random streams
}

// Validate checks the configuration before a run is built from it.
func (c RunConfig) Validate() error {
	if c.Clients < 1 {
		return fmt.Errorf("clients must be positive, got %d", c.Clients)
	}
	if !IsValidBackoffPolicy(c.BackoffPolicy) {
		return fmt.Errorf("unknown backoff policy %q", c.BackoffPolicy)
	}
	if c.BackoffBase <= 0 {
		return fmt.Errorf("backoff base must be positive, got %g", c.BackoffBase)
	}
	if c.BackoffCap < c.BackoffBase {
		return fmt.Errorf("backoff cap %g must be >= base %g", c.BackoffCap, c.BackoffBase)
	}
	if c.DelayStdDev < 0 {
		return fmt.Errorf("delay stddev must be non-negative, got %g", c.DelayStdDev)
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("max attempts must be non-negative, got %d", c.MaxAttempts)
	}
	if c.Horizon < 0 {
		return fmt.Errorf("horizon must be non-negative, got %g", c.Horizon)
	}
	return nil
}

// SweepConfig describes a full experiment: every (client count, policy) cell
// is simulated Repetitions times and averaged. Loadable from a YAML file.
type SweepConfig struct {
	ClientCounts []int    `yaml:"client_counts"`
	Policies     []string `yaml:"policies"`
	Repetitions  int      `yaml:"repetitions"`
	BackoffBase  float64  `yaml:"backoff_base"`
	BackoffCap   float64  `yaml:"backoff_cap"`
	DelayMean    float64  `yaml:"delay_mean"`
	DelayStdDev  float64  `yaml:"delay_stddev"`
	MaxAttempts  int      `yaml:"max_attempts"`
	Horizon      float64  `yaml:"horizon"`
	Seed         int64    `yaml:"seed"`
}

// DefaultSweepConfig mirrors the canonical experiment: populations 10..50,
// every policy, 100 repetitions, base 5 / cap 2000 backoff over a
// N(10, 2) network.
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		ClientCounts: []int{10, 20, 30, 40, 50},
		Policies:     AllBackoffPolicies,
		Repetitions:  100,
		BackoffBase:  5,
		BackoffCap:   2000,
		DelayMean:    10,
		DelayStdDev:  2,
		Seed:         42,
	}
}

// LoadSweepConfig reads and parses a YAML sweep configuration file.
func LoadSweepConfig(path string) (*SweepConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sweep config: %w", err)
	}
	var cfg SweepConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing sweep config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the sweep grid before it is run.
func (c SweepConfig) Validate() error {
	if len(c.ClientCounts) == 0 {
		return fmt.Errorf("client_counts must not be empty")
	}
	for _, n := range c.ClientCounts {
		if n < 1 {
			return fmt.Errorf("client counts must be positive, got %d", n)
		}
	}
	if len(c.Policies) == 0 {
		return fmt.Errorf("policies must not be empty")
	}
	if c.Repetitions < 1 {
		return fmt.Errorf("repetitions must be positive, got %d", c.Repetitions)
	}
	// Remaining fields share RunConfig's constraints.
	probe := c.runConfig(c.Policies[0], c.ClientCounts[0], 0)
	return probe.Validate()
}

// runConfig builds the RunConfig for one cell repetition, deriving the
// per-run seed from the sweep seed and the cell label.
func (c SweepConfig) runConfig(policy string, clients, rep int) RunConfig {
	key := NewSimulationKey(c.Seed).ForRun(policy, clients, rep)
	return RunConfig{
		Clients:       clients,
		BackoffPolicy: policy,
		BackoffBase:   c.BackoffBase,
		BackoffCap:    c.BackoffCap,
		DelayMean:     c.DelayMean,
		DelayStdDev:   c.DelayStdDev,
		MaxAttempts:   c.MaxAttempts,
		Horizon:       c.Horizon,
		Seed:          int64(key),
	}
}
