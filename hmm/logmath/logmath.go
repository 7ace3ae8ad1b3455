// Package logmath provides numerically stable log-domain arithmetic shared
// by the forward/backward recurrences, Viterbi, and the running filter.
package logmath

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// NegInf is the log-domain representation of probability zero.
var NegInf = math.Inf(-1)

// LogSum computes a numerically stable log(exp(a) + exp(b)).
//
// It returns b when a is -Inf, a when b is -Inf, and otherwise
// max(a,b) + log1p(exp(-|a-b|)).
func LogSum(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	max, min := a, b
	if b > a {
		max, min = b, a
	}
	return max + math.Log1p(math.Exp(min-max))
}

// Stream folds a sequence of log-domain values into their log-sum-exp,
// one value at a time, without materializing the slice.
type Stream struct {
	acc float64
}

// NewStream returns a Stream primed to -Inf, the log-domain additive
// identity.
func NewStream() *Stream {
	return &Stream{acc: NegInf}
}

// Add folds x into the running log-sum-exp.
func (s *Stream) Add(x float64) {
	s.acc = LogSum(s.acc, x)
}

// Value returns the accumulated log-sum-exp.
func (s *Stream) Value() float64 {
	return s.acc
}

// RowLogSumExp reduces a single row to its log-sum-exp. It wraps
// gonum's floats.LogSumExp, which applies the same max-shift trick as
// LogSum but over an arbitrary number of terms in one pass.
func RowLogSumExp(row []float64) float64 {
	if len(row) == 0 {
		return NegInf
	}
	return floats.LogSumExp(row)
}

// LogMatrix takes the elementwise natural log of m, preserving shape.
// Zero entries map to NegInf.
func LogMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			if v <= 0 {
				out[i][j] = NegInf
				continue
			}
			out[i][j] = math.Log(v)
		}
	}
	return out
}

// ExpMatrix takes the elementwise exp of m, preserving shape.
func ExpMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = math.Exp(v)
		}
	}
	return out
}

// LogVector takes the elementwise natural log of v.
func LogVector(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		if x <= 0 {
			out[i] = NegInf
			continue
		}
		out[i] = math.Log(x)
	}
	return out
}

// ExpVector takes the elementwise exp of v.
func ExpVector(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = math.Exp(x)
	}
	return out
}

// SumsToZero reports whether the log-sum-exp of row is within tol of 0,
// i.e. whether row is a valid log-probability distribution.
func SumsToZero(row []float64, tol float64) bool {
	return math.Abs(RowLogSumExp(row)) <= tol
}
