package hmm

import (
	"github.com/lattice-hmm/hmm/hmm/emission"
	"github.com/lattice-hmm/hmm/hmm/logmath"
)

// PredictResult holds a k-step prediction.
type PredictResult struct {
	// Predictions holds, for each of the k steps, the mode observation
	// of the most likely next state.
	Predictions []emission.Observation
	// LogLikelihood is replaced at every step by that step's maximum
	// forward weight, not accumulated across the whole extended
	// sequence. This is intentional: callers wanting the true joint
	// log-likelihood of the original sequence plus predictions should
	// sum EvaluatePath-style terms themselves.
	LogLikelihood float64
	// NextMixture is the posterior predictive distribution over the
	// very next observation: exp(F[1]) used as mixture weights over
	// model.B's components. It is only populated when k >= 1.
	NextMixture []float64
}

// Predict runs a k-step forward extension of the model. Every state's
// emission must implement emission.Modal; a state missing Mode returns
// CapabilityMissing.
func Predict(model *Model, obs []emission.Observation, k int) (*PredictResult, error) {
	if err := checkModel(model); err != nil {
		return nil, err
	}
	if k < 1 {
		return nil, newErrorf(ShapeMismatch, "k must be >= 1, got %d", k)
	}

	modes := make([]emission.Observation, model.N)
	for i, b := range model.B {
		m, ok := emission.AsModal(b)
		if !ok {
			return nil, newErrorf(CapabilityMissing, "state %d emission has no Mode()", i)
		}
		modes[i] = m.Mode()
	}

	// F[0] is the last column of the log-domain forward lattice over
	// obs (or logPi if obs is empty — there is nothing to extend from).
	f0 := make([]float64, model.N)
	if len(obs) == 0 {
		copy(f0, model.LogPi)
	} else {
		fwd, err := Forward(model, obs, Log)
		if err != nil {
			return nil, err
		}
		copy(f0, fwd.Alpha[len(fwd.Alpha)-1])
	}

	predictions := make([]emission.Observation, k)
	var logLikelihood float64
	var nextMixture []float64

	current := f0
	for step := 0; step < k; step++ {
		next := make([]float64, model.N)
		for i := 0; i < model.N; i++ {
			stream := logmath.NewStream()
			for j := 0; j < model.N; j++ {
				stream.Add(current[j] + model.LogA[j][i])
			}
			next[i] = stream.Value() + model.emissionLogPdf(i, modes[i])
		}

		norm := logmath.RowLogSumExp(next)
		normalized := make([]float64, model.N)
		for i := range next {
			normalized[i] = next[i] - norm
		}

		best, bestW := 0, normalized[0]
		for i := 1; i < model.N; i++ {
			if normalized[i] > bestW {
				best, bestW = i, normalized[i]
			}
		}
		predictions[step] = modes[best]
		logLikelihood = bestW

		if step == 0 {
			nextMixture = logmath.ExpVector(normalized)
		}

		current = normalized
	}

	return &PredictResult{
		Predictions:   predictions,
		LogLikelihood: logLikelihood,
		NextMixture:   nextMixture,
	}, nil
}
