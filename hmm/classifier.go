package hmm

import (
	"math"
	"sync"

	"github.com/lattice-hmm/hmm/hmm/emission"
	"github.com/lattice-hmm/hmm/hmm/logmath"
)

// SequenceClassifier composes K per-class Models with log-class-priors
// into a multi-class sequence classifier, optionally backed by a
// rejection threshold model. It scores a sequence against K independent
// per-class HMMs and picks the best, or rejects it if an attached
// threshold model scores higher than every class.
type SequenceClassifier struct {
	mu sync.Mutex

	models         []*Model
	logPriors      []float64
	thresholdModel *Model
}

// NewSequenceClassifier builds a classifier from one Model per class. If
// priors is nil, a uniform prior is used. priors are probability-domain
// weights; they are taken to log internally.
func NewSequenceClassifier(models []*Model, priors []float64) (*SequenceClassifier, error) {
	if len(models) == 0 {
		return nil, newError(ShapeMismatch, "at least one class model is required")
	}
	if priors == nil {
		priors = make([]float64, len(models))
		uniform := 1.0 / float64(len(models))
		for i := range priors {
			priors[i] = uniform
		}
	}
	if len(priors) != len(models) {
		return nil, newErrorf(ShapeMismatch, "priors has %d entries, want %d", len(priors), len(models))
	}

	return &SequenceClassifier{
		models:    append([]*Model(nil), models...),
		logPriors: logmath.LogVector(priors),
	}, nil
}

// WithThreshold attaches a rejection threshold model and returns the
// receiver, for chained construction.
func (c *SequenceClassifier) WithThreshold(m *Model) *SequenceClassifier {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.thresholdModel = m
	return c
}

// NumClasses reports the number of classes this classifier was built
// with.
func (c *SequenceClassifier) NumClasses() int {
	return len(c.models)
}

// classLogLikelihood scores obs against class i's model under that
// model's configured Algorithm (Viterbi or Forward).
func classLogLikelihood(model *Model, obs []emission.Observation) (float64, error) {
	switch model.Algorithm {
	case AlgorithmViterbi:
		res, err := Viterbi(model, obs)
		if err != nil {
			return 0, err
		}
		return res.LogLikelihood, nil
	default:
		res, err := Forward(model, obs, Log)
		if err != nil {
			return 0, err
		}
		return res.LogLikelihood, nil
	}
}

// LogLikelihoodPerClass returns, for each class c, logPrior_c +
// model_c.LogLikelihood(obs).
func (c *SequenceClassifier) LogLikelihoodPerClass(obs []emission.Observation) ([]float64, error) {
	c.mu.Lock()
	models := append([]*Model(nil), c.models...)
	priors := append([]float64(nil), c.logPriors...)
	c.mu.Unlock()

	out := make([]float64, len(models))
	for i, m := range models {
		ll, err := classLogLikelihood(m, obs)
		if err != nil {
			return nil, err
		}
		out[i] = priors[i] + ll
	}
	return out, nil
}

// Probabilities returns the softmax of LogLikelihoodPerClass. When a
// threshold model is attached, the result has one extra trailing entry
// for the rejection class, and the whole vector (including rejection)
// sums to 1.
func (c *SequenceClassifier) Probabilities(obs []emission.Observation) ([]float64, error) {
	perClass, err := c.LogLikelihoodPerClass(obs)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	threshold := c.thresholdModel
	c.mu.Unlock()

	logScores := perClass
	if threshold != nil {
		thresholdLL, err := classLogLikelihood(threshold, obs)
		if err != nil {
			return nil, err
		}
		logScores = append(append([]float64(nil), perClass...), thresholdLL)
	}

	norm := logmath.RowLogSumExp(logScores)
	probs := make([]float64, len(logScores))
	for i, ls := range logScores {
		probs[i] = expOrZero(ls - norm)
	}
	return probs, nil
}

// Decide returns the index of the most probable class, or -1 if the
// rejection (threshold) entry wins.
func (c *SequenceClassifier) Decide(obs []emission.Observation) (int, error) {
	probs, err := c.Probabilities(obs)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	hasThreshold := c.thresholdModel != nil
	numClasses := len(c.models)
	c.mu.Unlock()

	best, bestP := 0, probs[0]
	for i := 1; i < len(probs); i++ {
		if probs[i] > bestP {
			best, bestP = i, probs[i]
		}
	}
	if hasThreshold && best == numClasses {
		return -1, nil
	}
	return best, nil
}

// BatchLogLikelihood holds both the per-sequence log-likelihoods and
// their sum, so a batch score is never ambiguous about which "total" it
// means.
type BatchLogLikelihood struct {
	PerSequence []float64
	Total       float64
}

// LogLikelihoodBatch scores each sequence in obsBatch against class
// classIdx's model.
func (c *SequenceClassifier) LogLikelihoodBatch(classIdx int, obsBatch [][]emission.Observation) (*BatchLogLikelihood, error) {
	c.mu.Lock()
	if classIdx < 0 || classIdx >= len(c.models) {
		c.mu.Unlock()
		return nil, newErrorf(ShapeMismatch, "class index %d outside [0, %d)", classIdx, len(c.models))
	}
	model := c.models[classIdx]
	c.mu.Unlock()

	perSequence := make([]float64, len(obsBatch))
	total := 0.0
	for i, obs := range obsBatch {
		ll, err := classLogLikelihood(model, obs)
		if err != nil {
			return nil, err
		}
		perSequence[i] = ll
		total += ll
	}
	return &BatchLogLikelihood{PerSequence: perSequence, Total: total}, nil
}

func expOrZero(logP float64) float64 {
	if math.IsInf(logP, -1) {
		return 0
	}
	return math.Exp(logP)
}
