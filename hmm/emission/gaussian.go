package emission

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Gaussian is a univariate continuous emission, B_i(O_t) for a
// real-valued observation at state i.
type Gaussian struct {
	mean, stddev float64
	dist         distuv.Normal
}

// NewGaussian builds a Gaussian emission with the given mean and standard
// deviation. rng is accepted for API symmetry with NewMultivariateGaussian
// but is unused: LogPdf is a pure computation and Sample
// takes its own rng argument per call, so no random source needs to be
// fixed at construction time.
func NewGaussian(mean, stddev float64, rng *rand.Rand) *Gaussian {
	return &Gaussian{
		mean:   mean,
		stddev: stddev,
		dist:   distuv.Normal{Mu: mean, Sigma: stddev},
	}
}

// LogPdf returns the log-density of o under this Gaussian. o must be a
// float64; any other type returns -Inf.
func (g *Gaussian) LogPdf(o Observation) float64 {
	x, ok := o.(float64)
	if !ok {
		return math.Inf(-1)
	}
	return g.dist.LogProb(x)
}

// Dimension is always 1 for a univariate emission.
func (g *Gaussian) Dimension() int { return 1 }

// Sample draws a value from this Gaussian using rng via the standard
// scale-and-shift transform: a standard normal draw scaled by the
// standard deviation and shifted by the mean.
func (g *Gaussian) Sample(rng *rand.Rand) Observation {
	return rng.NormFloat64()*g.stddev + g.mean
}

// Mode returns the mean, the mode of a Gaussian.
func (g *Gaussian) Mode() Observation {
	return g.mean
}

// Mean exposes the Gaussian's mean directly, useful when a caller wants
// the raw float64 without an Observation round trip.
func (g *Gaussian) Mean() float64 { return g.mean }

// StdDev exposes the Gaussian's standard deviation.
func (g *Gaussian) StdDev() float64 { return g.stddev }
