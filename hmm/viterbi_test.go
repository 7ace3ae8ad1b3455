package hmm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattice-hmm/hmm/hmm"
)

func TestViterbiWikipediaExample(t *testing.T) {
	model := wikipediaModel()
	res, err := hmm.Viterbi(model, wikipediaObs())
	require.NoError(t, err)
	require.Equal(t, []int{1, 0, 0}, res.Path)
	require.InDelta(t, -4.3095199438871337, res.LogLikelihood, 1e-9)
}

func TestViterbiDeterministicChain(t *testing.T) {
	model := deterministicChainModel()
	obs := []interface{}{0.0, 0.0, 0.0}
	res, err := hmm.Viterbi(model, obs)
	require.NoError(t, err)
	require.Equal(t, []int{0, 0, 0}, res.Path)
	require.InDelta(t, 0.0, res.LogLikelihood, 1e-9)
}

func TestViterbiEmptySequence(t *testing.T) {
	model := wikipediaModel()
	res, err := hmm.Viterbi(model, nil)
	require.NoError(t, err)
	require.Empty(t, res.Path)
	require.True(t, isNegInf(res.LogLikelihood))
}

func TestViterbiDominatesOtherPaths(t *testing.T) {
	model := wikipediaModel()
	obs := wikipediaObs()

	best, err := hmm.Viterbi(model, obs)
	require.NoError(t, err)

	alternatives := [][]int{
		{0, 0, 0},
		{0, 1, 0},
		{1, 1, 1},
		{0, 0, 1},
	}
	for _, path := range alternatives {
		ll, err := hmm.EvaluatePath(model, obs, path)
		require.NoError(t, err)
		require.GreaterOrEqual(t, best.LogLikelihood, ll)
	}
}

func TestEvaluatePathMatchesViterbiOnItsOwnPath(t *testing.T) {
	model := wikipediaModel()
	obs := wikipediaObs()

	best, err := hmm.Viterbi(model, obs)
	require.NoError(t, err)

	ll, err := hmm.EvaluatePath(model, obs, best.Path)
	require.NoError(t, err)
	require.InDelta(t, best.LogLikelihood, ll, 1e-9)
}

func TestEvaluatePathRejectsStateOutOfRange(t *testing.T) {
	model := wikipediaModel()
	obs := wikipediaObs()

	_, err := hmm.EvaluatePath(model, obs, []int{0, 5, 0})
	require.Error(t, err)
	require.True(t, hmm.IsKind(err, hmm.StateOutOfRange))
}

func TestEvaluatePathRejectsShapeMismatch(t *testing.T) {
	model := wikipediaModel()
	obs := wikipediaObs()

	_, err := hmm.EvaluatePath(model, obs, []int{0, 1})
	require.Error(t, err)
	require.True(t, hmm.IsKind(err, hmm.ShapeMismatch))
}
