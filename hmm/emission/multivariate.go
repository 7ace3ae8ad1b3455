package emission

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// MultivariateGaussian is a vector-valued continuous emission, used when
// an observation is a point in ℝ^d rather than a scalar or a symbol.
type MultivariateGaussian struct {
	dist *distmv.Normal
	cov  *mat.SymDense
	chol mat.TriDense
	dim  int
	mean []float64
}

// errCovarianceNotPosDef is returned when the supplied covariance matrix
// fails gonum's positive-definiteness check during construction.
var errCovarianceNotPosDef = errCovariance{}

type errCovariance struct{}

func (errCovariance) Error() string {
	return "emission: covariance matrix is not positive-definite"
}

// NewMultivariateGaussian builds a multivariate Gaussian emission from a
// mean vector and a symmetric covariance matrix. It returns an error if
// the covariance is not positive-definite, mirroring gonum's own
// construction failure mode for distmv.Normal. rng is accepted for API
// symmetry with NewGaussian but is unused: LogPdf never
// samples, and Sample draws its own randomness per call via a Cholesky
// factor computed once here.
func NewMultivariateGaussian(mean []float64, covariance *mat.SymDense, rng *rand.Rand) (*MultivariateGaussian, error) {
	dist, ok := distmv.NewNormal(mean, covariance, nil)
	if !ok {
		return nil, errCovarianceNotPosDef
	}
	meanCopy := make([]float64, len(mean))
	copy(meanCopy, mean)

	var chol mat.Cholesky
	if ok := chol.Factorize(covariance); !ok {
		return nil, errCovarianceNotPosDef
	}
	var l mat.TriDense
	chol.LTo(&l)

	return &MultivariateGaussian{dist: dist, cov: covariance, chol: l, dim: len(mean), mean: meanCopy}, nil
}

// LogPdf returns the log-density of o under this Gaussian. o must be a
// []float64 of the right dimension; any other shape returns -Inf.
func (g *MultivariateGaussian) LogPdf(o Observation) float64 {
	x, ok := o.([]float64)
	if !ok || len(x) != g.dim {
		return math.Inf(-1)
	}
	return g.dist.LogProb(x)
}

// Dimension reports the dimensionality of this emission's observation
// space.
func (g *MultivariateGaussian) Dimension() int { return g.dim }

// Sample draws a vector from this Gaussian using rng: z ~ N(0, I), then
// mean + L*z where L is the Cholesky factor of the covariance computed at
// construction time.
func (g *MultivariateGaussian) Sample(rng *rand.Rand) Observation {
	z := mat.NewVecDense(g.dim, nil)
	for i := 0; i < g.dim; i++ {
		z.SetVec(i, rng.NormFloat64())
	}
	lz := mat.NewVecDense(g.dim, nil)
	lz.MulVec(&g.chol, z)

	out := make([]float64, g.dim)
	for i := 0; i < g.dim; i++ {
		out[i] = g.mean[i] + lz.AtVec(i)
	}
	return out
}

// Mode returns the mean vector, the mode of a multivariate Gaussian.
func (g *MultivariateGaussian) Mode() Observation {
	out := make([]float64, g.dim)
	copy(out, g.mean)
	return out
}
