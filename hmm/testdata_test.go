package hmm_test

import (
	"math"

	"github.com/lattice-hmm/hmm/hmm"
	"github.com/lattice-hmm/hmm/hmm/emission"
)

// wikipediaModel builds the two-state, three-symbol HMM from the
// Wikipedia Viterbi algorithm example, used across several tests to
// cross-check known literal results for that example.
func wikipediaModel() *hmm.Model {
	pi := []float64{0.6, 0.4}
	a := [][]float64{
		{0.7, 0.3},
		{0.4, 0.6},
	}
	b := []emission.Capability{
		emission.NewDiscrete([]float64{0.1, 0.4, 0.5}),
		emission.NewDiscrete([]float64{0.6, 0.3, 0.1}),
	}
	m, err := hmm.NewModelFromProbabilities(pi, a, b, hmm.AlgorithmForward)
	if err != nil {
		panic(err)
	}
	return m
}

func wikipediaObs() []emission.Observation {
	return []emission.Observation{0, 1, 2}
}

// deterministicChainModel builds an N=2, identity-transition chain with a
// Gaussian-shaped log-pdf of -|o-state|^2 standing in for a delta-like
// emission, so the correct decoded path is unambiguous from the model
// structure alone.
func deterministicChainModel() *hmm.Model {
	pi := []float64{1, 0}
	a := [][]float64{
		{1, 0},
		{0, 1},
	}
	b := []emission.Capability{
		deltaEmission{center: 0},
		deltaEmission{center: 1},
	}
	m, err := hmm.NewModelFromProbabilities(pi, a, b, hmm.AlgorithmViterbi)
	if err != nil {
		panic(err)
	}
	return m
}

// deltaEmission implements emission.Capability with LogPdf(o) = -(o-center)^2,
// concentrating mass sharply at center; it returns -Inf only for an
// observation that is not a float64.
type deltaEmission struct {
	center float64
}

func (d deltaEmission) LogPdf(o emission.Observation) float64 {
	x, ok := o.(float64)
	if !ok {
		return math.Inf(-1)
	}
	diff := x - d.center
	return -(diff * diff)
}

func (d deltaEmission) Dimension() int { return 1 }
