package sim

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// BackoffPolicy computes how long a client waits before retrying a failed
// write. attempt is the number of failed writes the client has seen so far
// (1 on the first retry). Implementations return a non-negative wait in
// simulated ticks and never fail.
//
// A policy instance belongs to exactly one client: DecorrBackoff carries
// state across calls, so instances are never shared.
type BackoffPolicy interface {
	Backoff(attempt int) float64
}

// Recognized backoff policy names, shared by config validation and
// NewBackoffPolicy.
const (
	PolicyNone        = "none"
	PolicyExpo        = "expo"
	PolicyEqualJitter = "equal-jitter"
	PolicyFullJitter  = "full-jitter"
	PolicyDecorr      = "decorr"
)

// AllBackoffPolicies lists every policy name in sweep order.
var AllBackoffPolicies = []string{
	PolicyNone, PolicyExpo, PolicyEqualJitter, PolicyFullJitter, PolicyDecorr,
}

// ValidBackoffPolicies is the set of recognized backoff policy names.
var ValidBackoffPolicies = map[string]bool{
	PolicyNone:        true,
	PolicyExpo:        true,
	PolicyEqualJitter: true,
	PolicyFullJitter:  true,
	PolicyDecorr:      true,
}

// IsValidBackoffPolicy returns true if name is a recognized backoff policy.
func IsValidBackoffPolicy(name string) bool {
	return ValidBackoffPolicies[name]
}

// expoBase holds the base/cap parameters and the clamped exponential that
// every variant builds on.
type expoBase struct {
	base float64
	cap  float64
}

// expo is the clamped exponential: min(cap, base * 2^attempt).
func (b expoBase) expo(attempt int) float64 {
	return math.Min(b.cap, b.base*math.Exp2(float64(attempt)))
}

// NoBackoff retries immediately; the retry pays only the network delay.
type NoBackoff struct{}

func (NoBackoff) Backoff(int) float64 { return 0 }

// ExpoBackoff waits the full clamped exponential.
type ExpoBackoff struct {
	expoBase
}

func (p *ExpoBackoff) Backoff(attempt int) float64 {
	return p.expo(attempt)
}

// EqualJitterBackoff keeps half of the exponential window and jitters the
// other half.
type EqualJitterBackoff struct {
	expoBase
	src rand.Source
}

func (p *EqualJitterBackoff) Backoff(attempt int) float64 {
	v := p.expo(attempt)
	return v/2 + uniform(0, v/2, p.src)
}

// FullJitterBackoff jitters over the whole exponential window.
type FullJitterBackoff struct {
	expoBase
	src rand.Source
}

func (p *FullJitterBackoff) Backoff(attempt int) float64 {
	return uniform(0, p.expo(attempt), p.src)
}

// DecorrBackoff implements decorrelated jitter: each wait is drawn from
// [base, 3*lastSleep] and clamped to cap, so the sequence depends on its own
// history rather than on the attempt number. lastSleep starts at base.
type DecorrBackoff struct {
	expoBase
	src       rand.Source
	lastSleep float64
}

func (p *DecorrBackoff) Backoff(int) float64 {
	p.lastSleep = math.Min(p.cap, uniform(p.base, p.lastSleep*3, p.src))
	return p.lastSleep
}

// uniform draws from [min, max). A degenerate window collapses to min.
func uniform(min, max float64, src rand.Source) float64 {
	if max <= min {
		return min
	}
	return distuv.Uniform{Min: min, Max: max, Src: src}.Rand()
}

// NewBackoffPolicy creates a BackoffPolicy by name with the given base and
// cap (both in ticks). src feeds the jittered variants and may be nil only
// for "none" and "expo". Panics on an unrecognized name; callers validate
// with IsValidBackoffPolicy first.
func NewBackoffPolicy(name string, base, cap float64, src rand.Source) BackoffPolicy {
	if !IsValidBackoffPolicy(name) {
		panic(fmt.Sprintf("unknown backoff policy %q", name))
	}
	eb := expoBase{base: base, cap: cap}
	switch name {
	case PolicyNone:
		return NoBackoff{}
	case PolicyExpo:
		return &ExpoBackoff{expoBase: eb}
	case PolicyEqualJitter:
		return &EqualJitterBackoff{expoBase: eb, src: src}
	case PolicyFullJitter:
		return &FullJitterBackoff{expoBase: eb, src: src}
	case PolicyDecorr:
		return &DecorrBackoff{expoBase: eb, src: src, lastSleep: base}
	default:
		panic(fmt.Sprintf("unhandled backoff policy %q", name))
	}
}
