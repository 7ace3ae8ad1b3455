// Package hmm implements Hidden Markov Model inference: likelihood
// evaluation, Viterbi decoding, forward/backward posterior smoothing,
// short-horizon prediction, sequence generation, and a multi-class
// sequence classifier built on top. Training and persistence are out of
// scope — a Model is constructed once from already-estimated parameters
// and is read-only for the rest of its life.
package hmm

import (
	"fmt"

	"github.com/lattice-hmm/hmm/hmm/emission"
	"github.com/lattice-hmm/hmm/hmm/logmath"
)

// Algorithm selects which quantity SequenceClassifier uses as a Model's
// log-likelihood of a sequence.
type Algorithm int

const (
	// AlgorithmViterbi reports the best-path log-likelihood.
	AlgorithmViterbi Algorithm = iota
	// AlgorithmForward reports the full forward sequence log-likelihood.
	AlgorithmForward
)

// Model holds an immutable set of HMM parameters: a log-initial
// distribution, a log-transition matrix, and one emission capability per
// state. Once constructed, a Model is safe for concurrent use by any
// number of readers — every inference call allocates its own lattices and
// never mutates the Model.
type Model struct {
	N         int
	LogPi     []float64
	LogA      [][]float64
	B         []emission.Capability
	Algorithm Algorithm
}

// NewModel constructs a Model directly from log-domain parameters.
func NewModel(logPi []float64, logA [][]float64, b []emission.Capability, algorithm Algorithm) (*Model, error) {
	n := len(logPi)
	if err := validateShapes(n, logA, b); err != nil {
		return nil, err
	}
	m := &Model{
		N:         n,
		LogPi:     append([]float64(nil), logPi...),
		LogA:      copyMatrix(logA),
		B:         append([]emission.Capability(nil), b...),
		Algorithm: algorithm,
	}
	return m, nil
}

// NewModelFromProbabilities constructs a Model from probability-domain
// parameters, taking pi and a elementwise to log.
func NewModelFromProbabilities(pi []float64, a [][]float64, b []emission.Capability, algorithm Algorithm) (*Model, error) {
	return NewModel(logmath.LogVector(pi), logmath.LogMatrix(a), b, algorithm)
}

func validateShapes(n int, logA [][]float64, b []emission.Capability) error {
	if n == 0 {
		return newError(ShapeMismatch, "N must be >= 1")
	}
	if len(logA) != n {
		return newErrorf(ShapeMismatch, "logA has %d rows, want %d", len(logA), n)
	}
	for i, row := range logA {
		if len(row) != n {
			return newErrorf(ShapeMismatch, "logA row %d has %d columns, want %d", i, len(row), n)
		}
	}
	if len(b) != n {
		return newErrorf(ShapeMismatch, "B has %d entries, want %d", len(b), n)
	}
	return nil
}

func copyMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Validate returns non-fatal, human-readable diagnostics about this
// Model's parameters — most importantly, rows of LogPi/LogA that do not
// log-sum-exp to (approximately) zero. Construction never renormalizes
// silently; a mis-normalized Model is the caller's problem, surfaced here
// as a warning rather than a construction error.
func (m *Model) Validate() []string {
	var warnings []string
	const tol = 1e-6

	if !logmath.SumsToZero(m.LogPi, tol) {
		warnings = append(warnings, fmt.Sprintf("logPi does not sum to 1 (log-sum-exp = %v)", logmath.RowLogSumExp(m.LogPi)))
	}
	for i, row := range m.LogA {
		if !logmath.SumsToZero(row, tol) {
			warnings = append(warnings, fmt.Sprintf("logA row %d does not sum to 1 (log-sum-exp = %v)", i, logmath.RowLogSumExp(row)))
		}
	}
	return warnings
}

// emissionLogPdf returns B[state].LogPdf(o). It caches nothing across
// calls: each call is one interface dispatch, and the inference loops call
// it once per lattice cell.
func (m *Model) emissionLogPdf(state int, o emission.Observation) float64 {
	return m.B[state].LogPdf(o)
}
