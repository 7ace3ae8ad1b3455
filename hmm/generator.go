package hmm

import (
	"math"
	"math/rand"

	"github.com/lattice-hmm/hmm/hmm/emission"
)

// GenerateResult holds a sampled observation sequence, its generating
// state path, and the joint log-likelihood of that path and sequence.
type GenerateResult struct {
	Observations  []emission.Observation
	Path          []int
	LogLikelihood float64
}

// Generate samples an observation sequence of the given length from
// model. Every state's emission must implement emission.Sampler; a state
// missing Sample returns CapabilityMissing.
//
// LogLikelihood accumulates additively starting from 0 (the initial
// log-probability on step 0, a transition log-probability thereafter).
// This is the correct joint log-probability of the sampled path — not a
// variant that initializes to -Inf and folds with logSum, which would
// always produce -Inf for a nonempty sequence.
func Generate(model *Model, samples int, rng *rand.Rand) (*GenerateResult, error) {
	if err := checkModel(model); err != nil {
		return nil, err
	}
	samplers := make([]emission.Sampler, model.N)
	for i, b := range model.B {
		s, ok := emission.AsSampler(b)
		if !ok {
			return nil, newErrorf(CapabilityMissing, "state %d emission has no Sample()", i)
		}
		samplers[i] = s
	}
	if samples <= 0 {
		return &GenerateResult{LogLikelihood: 0}, nil
	}

	observations := make([]emission.Observation, samples)
	path := make([]int, samples)
	logLikelihood := 0.0

	state := sampleDiscrete(rng, expAll(model.LogPi))
	logLikelihood += model.LogPi[state]
	for t := 0; t < samples; t++ {
		if t > 0 {
			state = sampleDiscrete(rng, expAll(model.LogA[path[t-1]]))
			logLikelihood += model.LogA[path[t-1]][state]
		}
		path[t] = state

		o := samplers[state].Sample(rng)
		observations[t] = o
		logLikelihood += model.emissionLogPdf(state, o)
	}

	return &GenerateResult{Observations: observations, Path: path, LogLikelihood: logLikelihood}, nil
}

func expAll(logRow []float64) []float64 {
	out := make([]float64, len(logRow))
	for i, lp := range logRow {
		if math.IsInf(lp, -1) {
			out[i] = 0
			continue
		}
		out[i] = math.Exp(lp)
	}
	return out
}

// sampleDiscrete draws an index from a probability vector (which need not
// be perfectly normalized; the last index absorbs any residual mass from
// floating-point error, matching the Discrete emission's own sampler).
func sampleDiscrete(rng *rand.Rand, probs []float64) int {
	u := rng.Float64()
	cumulative := 0.0
	last := len(probs) - 1
	for i, p := range probs {
		cumulative += p
		if u <= cumulative {
			return i
		}
		last = i
	}
	return last
}
