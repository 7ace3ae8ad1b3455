// Package filter provides an online, per-observation HMM filter: the
// streaming counterpart to a one-shot Forward/Viterbi call. It is not
// safe for concurrent Push/Peek/Clear — exactly one logical stream owns a
// RunningFilter, and that stream must call Push in observation order.
package filter

import (
	"sync"

	"github.com/lattice-hmm/hmm/hmm"
	"github.com/lattice-hmm/hmm/hmm/emission"
	"github.com/lattice-hmm/hmm/hmm/logmath"
)

// lifecycleState tags whether a filter has seen its first observation
// yet, encoded as an enum rather than a bool-plus-sentinels so the zero
// value has a name and the state transition is explicit at every call
// site.
type lifecycleState int

const (
	fresh lifecycleState = iota
	running
)

// RunningFilter holds a model's current log-forward vector and updates it
// one observation at a time, in O(N²) per Push. It caches CurrentState,
// LogViterbi, and LogForward, invalidating them on every mutating call.
type RunningFilter struct {
	mu sync.Mutex

	model *hmm.Model
	state lifecycleState

	current  []float64
	previous []float64
	scratch  []float64

	cacheValid   bool
	currentState int
	logViterbi   float64
	logForward   float64
}

// NewRunningFilter builds a RunningFilter bound to model, starting Fresh.
func NewRunningFilter(model *hmm.Model) *RunningFilter {
	f := &RunningFilter{}
	f.bind(model)
	return f
}

func (f *RunningFilter) bind(model *hmm.Model) {
	f.model = model
	f.state = fresh
	f.current = make([]float64, model.N)
	f.previous = make([]float64, model.N)
	f.scratch = make([]float64, model.N)
	f.cacheValid = false
}

// Push folds observation o into the running log-forward vector. The
// first Push after construction or Clear uses logPi + logB; every
// subsequent Push snapshots the current vector into previous and extends
// it through one transition step.
func (f *RunningFilter) Push(o emission.Observation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == fresh {
		for i := 0; i < f.model.N; i++ {
			f.current[i] = f.model.LogPi[i] + f.model.B[i].LogPdf(o)
		}
		f.state = running
	} else {
		copy(f.previous, f.current)
		for i := 0; i < f.model.N; i++ {
			stream := logmath.NewStream()
			for j := 0; j < f.model.N; j++ {
				stream.Add(f.previous[j] + f.model.LogA[j][i])
			}
			f.current[i] = stream.Value() + f.model.B[i].LogPdf(o)
		}
	}
	f.cacheValid = false
	return nil
}

// Peek computes what Push(o) would produce, without mutating the
// filter's state, and returns the resulting logForward value. It reuses
// a single scratch vector of length N and never touches current.
func (f *RunningFilter) Peek(o emission.Observation) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == fresh {
		for i := 0; i < f.model.N; i++ {
			f.scratch[i] = f.model.LogPi[i] + f.model.B[i].LogPdf(o)
		}
	} else {
		for i := 0; i < f.model.N; i++ {
			stream := logmath.NewStream()
			for j := 0; j < f.model.N; j++ {
				stream.Add(f.current[j] + f.model.LogA[j][i])
			}
			f.scratch[i] = stream.Value() + f.model.B[i].LogPdf(o)
		}
	}
	return logmath.RowLogSumExp(f.scratch)
}

// ensureCache recomputes CurrentState/LogViterbi/LogForward from current
// if they were invalidated by a mutating call.
func (f *RunningFilter) ensureCache() {
	if f.cacheValid {
		return
	}
	best, bestW := 0, f.current[0]
	for i := 1; i < len(f.current); i++ {
		if f.current[i] > bestW {
			best, bestW = i, f.current[i]
		}
	}
	f.currentState = best
	f.logViterbi = bestW
	f.logForward = logmath.RowLogSumExp(f.current)
	f.cacheValid = true
}

// CurrentState returns argmax_i current[i]. It is meaningless before the
// first Push (state is Fresh and current is all zero).
func (f *RunningFilter) CurrentState() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureCache()
	return f.currentState
}

// LogViterbi returns the max of the current forward column — an
// admissible online approximation to the true Viterbi path
// log-likelihood, not that score itself, since the running filter never
// retains per-step backpointers. LogBestStateForward is the more accurate
// name for this value; LogViterbi is kept for interface parity with the
// one-shot Viterbi call.
func (f *RunningFilter) LogViterbi() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureCache()
	return f.logViterbi
}

// LogBestStateForward is an alias for LogViterbi under its more accurate
// name.
func (f *RunningFilter) LogBestStateForward() float64 {
	return f.LogViterbi()
}

// LogForward returns logSum_i current[i], the running sequence
// log-likelihood under the forward algorithm.
func (f *RunningFilter) LogForward() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureCache()
	return f.logForward
}

// Clear resets the filter to Fresh, zeroing current. The bound model is
// unchanged.
func (f *RunningFilter) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = fresh
	for i := range f.current {
		f.current[i] = 0
	}
	f.cacheValid = false
}

// Reset rebinds the filter to a different model and returns it to Fresh.
// When the new model has the same state count, the existing scratch
// buffers are reused rather than reallocated, so swapping a model on a
// hot path does not force new allocations.
func (f *RunningFilter) Reset(model *hmm.Model) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if model.N == len(f.current) {
		f.model = model
		f.state = fresh
		for i := range f.current {
			f.current[i] = 0
		}
		f.cacheValid = false
		return
	}
	f.bind(model)
}
