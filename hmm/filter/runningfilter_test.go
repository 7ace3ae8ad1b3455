package filter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattice-hmm/hmm/hmm"
	"github.com/lattice-hmm/hmm/hmm/emission"
	"github.com/lattice-hmm/hmm/hmm/filter"
)

func wikipediaModel(t *testing.T) *hmm.Model {
	t.Helper()
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
	require.NoError(t, err)
	return m
}

func TestRunningFilterMatchesBatchForward(t *testing.T) {
	model := wikipediaModel(t)
	obs := []emission.Observation{0, 1, 2}

	f := filter.NewRunningFilter(model)
	for _, o := range obs {
		require.NoError(t, f.Push(o))
	}

	batch, err := hmm.Forward(model, obs, hmm.Log)
	require.NoError(t, err)

	require.InDelta(t, batch.LogLikelihood, f.LogForward(), 1e-9)
	require.InDelta(t, -3.3928721329161653, f.LogForward(), 1e-9)
}

func TestRunningFilterPeekDoesNotMutate(t *testing.T) {
	model := wikipediaModel(t)
	f := filter.NewRunningFilter(model)

	require.NoError(t, f.Push(0))
	before := f.LogForward()

	_ = f.Peek(1)
	after := f.LogForward()

	require.Equal(t, before, after)
}

func TestRunningFilterClearReturnsToFresh(t *testing.T) {
	model := wikipediaModel(t)
	f := filter.NewRunningFilter(model)

	require.NoError(t, f.Push(0))
	require.NoError(t, f.Push(1))
	f.Clear()

	require.NoError(t, f.Push(0))
	batch, err := hmm.Forward(model, []emission.Observation{0}, hmm.Log)
	require.NoError(t, err)
	require.InDelta(t, batch.LogLikelihood, f.LogForward(), 1e-9)
}

func TestRunningFilterCurrentStateWithinRange(t *testing.T) {
	model := wikipediaModel(t)
	f := filter.NewRunningFilter(model)
	require.NoError(t, f.Push(0))
	require.NoError(t, f.Push(1))

	state := f.CurrentState()
	require.GreaterOrEqual(t, state, 0)
	require.Less(t, state, model.N)
}

func TestRunningFilterResetSameSizeReusesBuffers(t *testing.T) {
	model := wikipediaModel(t)
	f := filter.NewRunningFilter(model)
	require.NoError(t, f.Push(0))

	other := wikipediaModel(t)
	require.Zero(t, testing.AllocsPerRun(10, func() { f.Reset(other) }))

	require.NoError(t, f.Push(0))
	batch, err := hmm.Forward(other, []emission.Observation{0}, hmm.Log)
	require.NoError(t, err)
	require.InDelta(t, batch.LogLikelihood, f.LogForward(), 1e-9)
}
