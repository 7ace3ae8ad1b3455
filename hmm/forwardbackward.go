package hmm

import (
	"math"

	"github.com/lattice-hmm/hmm/hmm/emission"
	"github.com/lattice-hmm/hmm/hmm/logmath"
)

// Domain selects which numerical representation Forward/Backward operate
// in: scaled probabilities (fast, but loses the per-timestep log scores)
// or the log domain (slightly more arithmetic per cell, but every
// intermediate value is directly usable).
type Domain int

const (
	// Scaled runs the forward/backward recurrences in rescaled
	// probability space.
	Scaled Domain = iota
	// Log runs the forward/backward recurrences entirely in log space.
	Log
)

// ForwardResult holds the output of a Forward call, regardless of domain.
// Alpha holds the T×N lattice in whichever domain the call was asked to
// run in; Scaling holds the scaling coefficients c_t when Domain is
// Scaled, and is nil for Log. LogLikelihood is always the sequence
// log-likelihood, computed consistently across both domains.
type ForwardResult struct {
	Domain        Domain
	Alpha         [][]float64
	Scaling       []float64
	LogLikelihood float64
}

// Forward computes the forward lattice for obs under model, in the
// requested domain. An empty obs returns an empty Alpha and
// LogLikelihood -Inf; this is not an error.
func Forward(model *Model, obs []emission.Observation, domain Domain) (*ForwardResult, error) {
	if err := checkModel(model); err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return &ForwardResult{Domain: domain, LogLikelihood: logmath.NegInf}, nil
	}
	if domain == Scaled {
		return forwardScaled(model, obs)
	}
	return forwardLog(model, obs)
}

func forwardScaled(model *Model, obs []emission.Observation) (*ForwardResult, error) {
	n, t := model.N, len(obs)
	alpha := make([][]float64, t)
	c := make([]float64, t)

	alpha[0] = make([]float64, n)
	for i := 0; i < n; i++ {
		alpha[0][i] = math.Exp(model.LogPi[i]) * math.Exp(model.emissionLogPdf(i, obs[0]))
		c[0] += alpha[0][i]
	}
	if c[0] != 0 {
		for i := 0; i < n; i++ {
			alpha[0][i] /= c[0]
		}
	}

	for step := 1; step < t; step++ {
		alpha[step] = make([]float64, n)
		for i := 0; i < n; i++ {
			sum := 0.0
			for j := 0; j < n; j++ {
				sum += alpha[step-1][j] * math.Exp(model.LogA[j][i])
			}
			alpha[step][i] = sum * math.Exp(model.emissionLogPdf(i, obs[step]))
			c[step] += alpha[step][i]
		}
		if c[step] != 0 {
			for i := 0; i < n; i++ {
				alpha[step][i] /= c[step]
			}
		}
	}

	logLikelihood := 0.0
	for _, ct := range c {
		logLikelihood += math.Log(ct)
	}

	return &ForwardResult{Domain: Scaled, Alpha: alpha, Scaling: c, LogLikelihood: logLikelihood}, nil
}

func forwardLog(model *Model, obs []emission.Observation) (*ForwardResult, error) {
	n, t := model.N, len(obs)
	alpha := make([][]float64, t)

	alpha[0] = make([]float64, n)
	for i := 0; i < n; i++ {
		alpha[0][i] = model.LogPi[i] + model.emissionLogPdf(i, obs[0])
	}

	for step := 1; step < t; step++ {
		alpha[step] = make([]float64, n)
		for i := 0; i < n; i++ {
			stream := logmath.NewStream()
			for j := 0; j < n; j++ {
				stream.Add(alpha[step-1][j] + model.LogA[j][i])
			}
			alpha[step][i] = stream.Value() + model.emissionLogPdf(i, obs[step])
		}
	}

	logLikelihood := logmath.RowLogSumExp(alpha[t-1])

	return &ForwardResult{Domain: Log, Alpha: alpha, LogLikelihood: logLikelihood}, nil
}

// Backward computes the backward lattice for obs under model. When domain
// is Scaled, scaling must be the coefficients returned by a prior Forward
// call over the same obs (the scaled recurrence reuses the forward
// scaling, it does not recompute its own). When domain is Log, scaling is
// ignored and may be nil.
func Backward(model *Model, obs []emission.Observation, domain Domain, scaling []float64) ([][]float64, error) {
	if err := checkModel(model); err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, nil
	}
	if domain == Scaled {
		return backwardScaled(model, obs, scaling)
	}
	return backwardLog(model, obs)
}

func backwardScaled(model *Model, obs []emission.Observation, c []float64) ([][]float64, error) {
	n, t := model.N, len(obs)
	if len(c) != t {
		return nil, newErrorf(ShapeMismatch, "scaling has %d entries, want %d", len(c), t)
	}
	beta := make([][]float64, t)
	for i := range beta {
		beta[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		if c[t-1] != 0 {
			beta[t-1][i] = 1.0 / c[t-1]
		}
	}

	for step := t - 2; step >= 0; step-- {
		for i := 0; i < n; i++ {
			sum := 0.0
			for j := 0; j < n; j++ {
				sum += math.Exp(model.LogA[i][j]) * math.Exp(model.emissionLogPdf(j, obs[step+1])) * beta[step+1][j]
			}
			// Assignment, not accumulation: beta is freshly allocated
			// per call and starts at zero, so there is nothing to
			// accumulate onto.
			if c[step] != 0 {
				beta[step][i] = sum / c[step]
			}
		}
	}
	return beta, nil
}

func backwardLog(model *Model, obs []emission.Observation) ([][]float64, error) {
	n, t := model.N, len(obs)
	beta := make([][]float64, t)
	for i := range beta {
		beta[i] = make([]float64, n)
	}
	// beta[T-1] = 0 in log domain (probability 1), already the zero value.

	for step := t - 2; step >= 0; step-- {
		for i := 0; i < n; i++ {
			stream := logmath.NewStream()
			for j := 0; j < n; j++ {
				stream.Add(beta[step+1][j] + model.LogA[i][j] + model.emissionLogPdf(j, obs[step+1]))
			}
			beta[step][i] = stream.Value()
		}
	}
	return beta, nil
}

// BackwardLogLikelihood recomputes the sequence log-likelihood from a
// log-domain backward lattice alone. It is provided mainly to verify that
// the scaled, log-forward, and log-backward recurrences agree,
// independently of Forward's own bookkeeping.
func BackwardLogLikelihood(model *Model, obs []emission.Observation, beta [][]float64) (float64, error) {
	if err := checkModel(model); err != nil {
		return 0, err
	}
	if len(obs) == 0 {
		return logmath.NegInf, nil
	}
	stream := logmath.NewStream()
	for i := 0; i < model.N; i++ {
		stream.Add(beta[0][i] + model.LogPi[i] + model.emissionLogPdf(i, obs[0]))
	}
	return stream.Value(), nil
}

func checkModel(model *Model) error {
	if model == nil {
		return newError(ShapeMismatch, "model is nil")
	}
	if model.N <= 0 {
		return newError(ShapeMismatch, "model has no states")
	}
	return nil
}
