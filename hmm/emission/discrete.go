package emission

import (
	"math"
	"math/rand"

	"github.com/lattice-hmm/hmm/hmm/logmath"
)

// Discrete is a symbol emission over the finite alphabet {0..K-1}, the
// B_i(O_t) term for the discrete observation case. It is the direct
// analogue of a weighted-bucket distribution: constructed once from a
// probability vector, then queried by symbol index on every timestep.
type Discrete struct {
	logProbs []float64
}

// NewDiscrete builds a Discrete emission from a probability vector that
// sums to (approximately) 1. The vector is taken elementwise to log; a
// zero entry becomes an emission that forbids that symbol.
func NewDiscrete(probs []float64) *Discrete {
	return &Discrete{logProbs: logmath.LogVector(probs)}
}

// NewDiscreteLog builds a Discrete emission directly from a log-probability
// vector, skipping the log conversion.
func NewDiscreteLog(logProbs []float64) *Discrete {
	cp := make([]float64, len(logProbs))
	copy(cp, logProbs)
	return &Discrete{logProbs: cp}
}

// LogPdf returns the log-mass of symbol o. A symbol outside
// [0, len(alphabet)) or an o that is not an int returns -Inf: an invalid
// symbol is surfaced as a total function rather than an error, since
// LogPdf has no error return.
func (d *Discrete) LogPdf(o Observation) float64 {
	symbol, ok := o.(int)
	if !ok || symbol < 0 || symbol >= len(d.logProbs) {
		return logmath.NegInf
	}
	return d.logProbs[symbol]
}

// Dimension is always 1 for a discrete emission.
func (d *Discrete) Dimension() int { return 1 }

// Sample draws a symbol from this emission's distribution.
func (d *Discrete) Sample(rng *rand.Rand) Observation {
	u := rng.Float64()
	cumulative := 0.0
	last := len(d.logProbs) - 1
	for i, lp := range d.logProbs {
		p := expClamped(lp)
		cumulative += p
		if u <= cumulative {
			return i
		}
		last = i
	}
	return last
}

// Mode returns the symbol with the highest probability mass, breaking ties
// toward the lowest index.
func (d *Discrete) Mode() Observation {
	best, bestLP := 0, logmath.NegInf
	for i, lp := range d.logProbs {
		if lp > bestLP {
			best, bestLP = i, lp
		}
	}
	return best
}

// AlphabetSize reports K, the size of the alphabet {0..K-1}, counting
// symbols whose mass is zero.
func (d *Discrete) AlphabetSize() int { return len(d.logProbs) }

func expClamped(logP float64) float64 {
	if math.IsInf(logP, -1) {
		return 0
	}
	return math.Exp(logP)
}
