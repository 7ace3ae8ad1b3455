package emission

import (
	"math"
	"math/rand"

	"github.com/lattice-hmm/hmm/hmm/logmath"
)

// Pareto is a heavy-tailed discrete-valued emission, useful for states
// whose observations are dominated by a few very large outliers (bulk
// transfers, long-tail durations) rather than clustering near a mean.
type Pareto struct {
	alpha, xm float64
	floor     int
}

// NewPareto builds a Pareto emission with shape alpha and scale xm. floor
// is the minimum value any sample or Mode() report can take.
func NewPareto(alpha, xm float64, floor int) *Pareto {
	return &Pareto{alpha: alpha, xm: xm, floor: floor}
}

// LogPdf returns the log-density of o, an int-valued observation, under
// the Pareto(alpha, xm) distribution. Values below xm, and any non-int o,
// return -Inf.
func (p *Pareto) LogPdf(o Observation) float64 {
	x, ok := o.(int)
	if !ok {
		return logmath.NegInf
	}
	fx := float64(x)
	if fx < p.xm {
		return logmath.NegInf
	}
	return math.Log(p.alpha) + p.alpha*math.Log(p.xm) - (p.alpha+1)*math.Log(fx)
}

// Dimension is always 1 for a scalar emission.
func (p *Pareto) Dimension() int { return 1 }

// Sample draws from the Pareto distribution via inverse-CDF sampling,
// clamping the result to floor.
func (p *Pareto) Sample(rng *rand.Rand) Observation {
	u := rng.Float64()
	v := p.xm / math.Pow(u, 1/p.alpha)
	return clampFloor(int(v), p.floor)
}

// Mode returns xm, the Pareto distribution's mode.
func (p *Pareto) Mode() Observation {
	return clampFloor(int(p.xm), p.floor)
}
