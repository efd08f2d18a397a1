package sim

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Network models the natural delay and variance of the network between the
// clients and the server. Samples are drawn from a normal distribution and
// folded to be non-negative. Real network delays are closer to a Weibull
// model, but a folded normal is close enough for comparing backoff policies.
//
// A Network is shared read-only by every sender in a run; only the random
// source advances.
type Network struct {
	dist distuv.Normal
}

// NewNetwork returns a delay model with the given mean and standard
// deviation, drawing from src. src must not be nil: delay sampling never
// falls back to the process-global random source.
func NewNetwork(mean, stddev float64, src rand.Source) *Network {
	if src == nil {
		panic("NewNetwork: src must not be nil")
	}
	return &Network{dist: distuv.Normal{Mu: mean, Sigma: stddev, Src: src}}
}

// Delay samples one network traversal time. The result is always >= 0: the
// left tail of the normal is folded, not rejection-sampled.
func (n *Network) Delay() float64 {
	return math.Abs(n.dist.Rand())
}

// Mean returns the configured mean delay.
func (n *Network) Mean() float64 {
	return n.dist.Mu
}

// StdDev returns the configured delay standard deviation.
func (n *Network) StdDev() float64 {
	return n.dist.Sigma
}
