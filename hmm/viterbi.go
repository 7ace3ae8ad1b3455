package hmm

import (
	"github.com/lattice-hmm/hmm/hmm/emission"
	"github.com/lattice-hmm/hmm/hmm/logmath"
)

// ViterbiResult holds the decoded state path and its log-likelihood.
type ViterbiResult struct {
	Path          []int
	LogLikelihood float64
}

// Viterbi runs the max-product dynamic program over state paths and
// returns the most likely state path along with its log-likelihood. An
// empty obs returns an empty path and LogLikelihood -Inf. Ties are broken
// by strict greater-than, so the first-seen maximizing predecessor wins;
// this determinism is part of the contract.
func Viterbi(model *Model, obs []emission.Observation) (*ViterbiResult, error) {
	if err := checkModel(model); err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return &ViterbiResult{LogLikelihood: logmath.NegInf}, nil
	}

	n, t := model.N, len(obs)
	w := make([][]float64, t)
	s := make([][]int, t)
	for step := range w {
		w[step] = make([]float64, n)
		s[step] = make([]int, n)
	}

	for i := 0; i < n; i++ {
		w[0][i] = model.LogPi[i] + model.emissionLogPdf(i, obs[0])
	}

	for step := 1; step < t; step++ {
		for j := 0; j < n; j++ {
			maxState := 0
			maxWeight := w[step-1][0] + model.LogA[0][j]
			for i := 1; i < n; i++ {
				weight := w[step-1][i] + model.LogA[i][j]
				if weight > maxWeight {
					maxState, maxWeight = i, weight
				}
			}
			w[step][j] = maxWeight + model.emissionLogPdf(j, obs[step])
			s[step][j] = maxState
		}
	}

	bestLast := 0
	bestWeight := w[t-1][0]
	for i := 1; i < n; i++ {
		if w[t-1][i] > bestWeight {
			bestLast, bestWeight = i, w[t-1][i]
		}
	}

	path := make([]int, t)
	path[t-1] = bestLast
	for step := t - 2; step >= 0; step-- {
		path[step] = s[step+1][path[step+1]]
	}

	return &ViterbiResult{Path: path, LogLikelihood: bestWeight}, nil
}

// EvaluatePath scores an externally supplied state path against model and
// obs, without running the max-product search:
//
//	L = logPi[p0] + logB_p0(O0) + sum_{t>=1} (logA[p_{t-1},p_t] + logB_pt(Ot))
//
// It returns StateOutOfRange if path contains an index not in [0, N), and
// ShapeMismatch if len(path) != len(obs).
func EvaluatePath(model *Model, obs []emission.Observation, path []int) (float64, error) {
	if err := checkModel(model); err != nil {
		return 0, err
	}
	if len(path) != len(obs) {
		return 0, newErrorf(ShapeMismatch, "path has %d states, obs has %d observations", len(path), len(obs))
	}
	if len(obs) == 0 {
		return logmath.NegInf, nil
	}
	for _, state := range path {
		if state < 0 || state >= model.N {
			return 0, newErrorf(StateOutOfRange, "state %d outside [0, %d)", state, model.N)
		}
	}

	l := model.LogPi[path[0]] + model.emissionLogPdf(path[0], obs[0])
	for step := 1; step < len(obs); step++ {
		l += model.LogA[path[step-1]][path[step]] + model.emissionLogPdf(path[step], obs[step])
	}
	return l, nil
}
