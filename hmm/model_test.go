package hmm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattice-hmm/hmm/hmm"
	"github.com/lattice-hmm/hmm/hmm/emission"
)

func TestNewModelRejectsShapeMismatch(t *testing.T) {
	pi := []float64{0.5, 0.5}
	a := [][]float64{{1, 0}} // wrong row count
	b := []emission.Capability{emission.NewDiscrete([]float64{1}), emission.NewDiscrete([]float64{1})}

	_, err := hmm.NewModelFromProbabilities(pi, a, b, hmm.AlgorithmForward)
	require.Error(t, err)
	require.True(t, hmm.IsKind(err, hmm.ShapeMismatch))
}

func TestModelValidateFlagsBadRows(t *testing.T) {
	model := wikipediaModel()
	require.Empty(t, model.Validate())

	bad, err := hmm.NewModelFromProbabilities(
		[]float64{0.5, 0.5},
		[][]float64{{0.5, 0.6}, {0.4, 0.6}},
		[]emission.Capability{emission.NewDiscrete([]float64{1}), emission.NewDiscrete([]float64{1})},
		hmm.AlgorithmForward,
	)
	require.NoError(t, err)
	require.NotEmpty(t, bad.Validate())
}

func TestModelIsReadOnlyAcrossConcurrentCalls(t *testing.T) {
	model := wikipediaModel()
	obs := wikipediaObs()

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := hmm.Viterbi(model, obs)
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-done)
	}
}
