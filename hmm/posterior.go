package hmm

import (
	"math"

	"github.com/lattice-hmm/hmm/hmm/emission"
)

// Posterior computes gamma(t,i), the smoothed state posteriors, from the
// log-domain forward and backward lattices:
//
//	gamma_t[i] = exp(lnAlpha_t[i] + lnBeta_t[i] - L)
//
// where L is the forward sequence log-likelihood. Every row of the
// result sums to 1 within floating-point tolerance.
func Posterior(model *Model, obs []emission.Observation) ([][]float64, error) {
	if err := checkModel(model); err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, nil
	}

	fwd, err := Forward(model, obs, Log)
	if err != nil {
		return nil, err
	}
	beta, err := Backward(model, obs, Log, nil)
	if err != nil {
		return nil, err
	}

	t, n := len(obs), model.N
	gamma := make([][]float64, t)
	for step := 0; step < t; step++ {
		gamma[step] = make([]float64, n)
		for i := 0; i < n; i++ {
			gamma[step][i] = math.Exp(fwd.Alpha[step][i] + beta[step][i] - fwd.LogLikelihood)
		}
	}
	return gamma, nil
}

// PosteriorMaxPath decodes argmax_i gamma_t[i] independently at every
// timestep. Unlike Viterbi, the resulting path need not be a valid
// transition sequence under the model: each timestep is optimized in
// isolation, with no constraint that consecutive states be reachable
// from one another.
func PosteriorMaxPath(gamma [][]float64) []int {
	path := make([]int, len(gamma))
	for t, row := range gamma {
		best, bestP := 0, row[0]
		for i := 1; i < len(row); i++ {
			if row[i] > bestP {
				best, bestP = i, row[i]
			}
		}
		path[t] = best
	}
	return path
}
