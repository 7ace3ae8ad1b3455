package emission

import (
	"math"
	"math/rand"

	"github.com/lattice-hmm/hmm/hmm/logmath"
)

// Bimodal is a discrete-valued emission with two Gaussian modes, useful
// for states whose observations cluster around two distinct magnitudes
// (e.g. small header-sized readings mixed with large bulk-sized ones)
// rather than a single peak.
type Bimodal struct {
	mode1Mean, mode1StdDev, mode1Weight float64
	mode2Mean, mode2StdDev              float64
	floor                               int
}

// NewBimodal builds a Bimodal emission from two (mean, stddev) components
// and the mixture weight of the first. floor is the minimum value any
// sample or Mode() report can take; values are clamped to it.
func NewBimodal(mode1Mean, mode1StdDev, mode1Weight, mode2Mean, mode2StdDev float64, floor int) *Bimodal {
	return &Bimodal{
		mode1Mean:   mode1Mean,
		mode1StdDev: mode1StdDev,
		mode1Weight: mode1Weight,
		mode2Mean:   mode2Mean,
		mode2StdDev: mode2StdDev,
		floor:       floor,
	}
}

// LogPdf returns the log-density of o, an int-valued observation, under
// the weighted mixture of the two Gaussian modes. Any non-int o returns
// -Inf.
func (b *Bimodal) LogPdf(o Observation) float64 {
	x, ok := o.(int)
	if !ok {
		return logmath.NegInf
	}
	fx := float64(x)
	p1 := b.mode1Weight * normalDensity(fx, b.mode1Mean, b.mode1StdDev)
	p2 := (1 - b.mode1Weight) * normalDensity(fx, b.mode2Mean, b.mode2StdDev)
	sum := p1 + p2
	if sum <= 0 {
		return logmath.NegInf
	}
	return math.Log(sum)
}

// Dimension is always 1 for a scalar mixture emission.
func (b *Bimodal) Dimension() int { return 1 }

// Sample draws from mode 1 with probability mode1Weight, otherwise mode
// 2, clamping the result to floor.
func (b *Bimodal) Sample(rng *rand.Rand) Observation {
	var v float64
	if rng.Float64() < b.mode1Weight {
		v = rng.NormFloat64()*b.mode1StdDev + b.mode1Mean
	} else {
		v = rng.NormFloat64()*b.mode2StdDev + b.mode2Mean
	}
	return clampFloor(int(v), b.floor)
}

// Mode returns the mean of whichever component carries the larger
// mixture weight.
func (b *Bimodal) Mode() Observation {
	if b.mode1Weight >= 0.5 {
		return clampFloor(int(b.mode1Mean), b.floor)
	}
	return clampFloor(int(b.mode2Mean), b.floor)
}

func clampFloor(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}

func normalDensity(x, mean, stddev float64) float64 {
	if stddev <= 0 {
		return 0
	}
	z := (x - mean) / stddev
	return math.Exp(-0.5*z*z) / (stddev * math.Sqrt(2*math.Pi))
}
