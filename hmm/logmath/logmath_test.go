package logmath_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattice-hmm/hmm/hmm/logmath"
)

func TestLogSumIdentity(t *testing.T) {
	require.Equal(t, 3.0, logmath.LogSum(logmath.NegInf, 3.0))
	require.Equal(t, 3.0, logmath.LogSum(3.0, logmath.NegInf))
	require.True(t, math.IsInf(logmath.LogSum(logmath.NegInf, logmath.NegInf), -1))
}

func TestLogSumCommutative(t *testing.T) {
	a, b := -1.2, 3.4
	require.InDelta(t, logmath.LogSum(a, b), logmath.LogSum(b, a), 1e-12)
}

func TestLogSumMatchesDirect(t *testing.T) {
	a, b := -2.0, -5.0
	got := logmath.LogSum(a, b)
	want := math.Log(math.Exp(a) + math.Exp(b))
	require.InDelta(t, want, got, 1e-9)
}

func TestStreamMatchesPairwiseFold(t *testing.T) {
	xs := []float64{-1.0, -2.0, -0.5, -10.0}
	s := logmath.NewStream()
	for _, x := range xs {
		s.Add(x)
	}

	want := logmath.NegInf
	for _, x := range xs {
		want = logmath.LogSum(want, x)
	}
	require.InDelta(t, want, s.Value(), 1e-9)
}

func TestRowLogSumExpEmpty(t *testing.T) {
	require.True(t, math.IsInf(logmath.RowLogSumExp(nil), -1))
}

func TestRowLogSumExpMatchesStream(t *testing.T) {
	row := []float64{-1.0, -2.0, -0.5, -10.0}
	s := logmath.NewStream()
	for _, x := range row {
		s.Add(x)
	}
	require.InDelta(t, s.Value(), logmath.RowLogSumExp(row), 1e-9)
}

func TestLogExpMatrixRoundTrip(t *testing.T) {
	m := [][]float64{{0.25, 0.75}, {0.6, 0.4}}
	logged := logmath.LogMatrix(m)
	back := logmath.ExpMatrix(logged)
	for i := range m {
		for j := range m[i] {
			require.InDelta(t, m[i][j], back[i][j], 1e-9)
		}
	}
}

func TestLogMatrixZeroIsNegInf(t *testing.T) {
	logged := logmath.LogMatrix([][]float64{{0, 1}})
	require.True(t, math.IsInf(logged[0][0], -1))
}

func TestSumsToZero(t *testing.T) {
	logRow := logmath.LogVector([]float64{0.3, 0.3, 0.4})
	require.True(t, logmath.SumsToZero(logRow, 1e-9))

	bad := logmath.LogVector([]float64{0.3, 0.3, 0.3})
	require.False(t, logmath.SumsToZero(bad, 1e-9))
}
