package uslfit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// ModelFunc evaluates a parametric model at one point.
type ModelFunc func(params []float64, x float64) float64

// FitResult is the outcome of one fitting stage. It is created once per
// stage and never mutated afterwards.
type FitResult struct {
	Params    map[string]float64
	StdErrors map[string]float64
	Converged bool
	RSquared  float64
}

// Solver fits a parametric model to (x, y) points by least squares. The
// narrow interface keeps the numerical backend swappable: tests substitute a
// scripted solver to exercise convergence-failure paths deterministically.
type Solver interface {
	Fit(model ModelFunc, names []string, init []float64, xs, ys []float64) (FitResult, error)
}

// LeastSquares is the production solver: Nelder-Mead minimization of the
// residual sum of squares (gonum/optimize), with parameter standard errors
// estimated from the numeric Jacobian at the solution.
//
// Degenerate inputs - fewer than two points, or an all-zero target - report
// Converged: false rather than an error, so callers can attribute the failure
// to the stage that produced the data.
type LeastSquares struct{}

// Fit implements Solver.
func (LeastSquares) Fit(model ModelFunc, names []string, init []float64, xs, ys []float64) (FitResult, error) {
	if len(xs) != len(ys) {
		return FitResult{}, fmt.Errorf("%w: %d x values against %d y values", ErrBadInput, len(xs), len(ys))
	}
	if len(names) != len(init) {
		return FitResult{}, fmt.Errorf("%w: %d parameter names against %d initial values", ErrBadInput, len(names), len(init))
	}
	if len(xs) < 2 || allZero(ys) {
		return FitResult{Converged: false}, nil
	}

	sse := func(p []float64) float64 {
		var sum float64
		for i, x := range xs {
			r := ys[i] - model(p, x)
			sum += r * r
		}
		return sum
	}

	x0 := make([]float64, len(init))
	copy(x0, init)

	problem := optimize.Problem{Func: sse}
	result, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err != nil || !finiteAll(result.X) || math.IsNaN(result.F) || math.IsInf(result.F, 0) {
		return FitResult{Converged: false}, nil
	}

	fit := FitResult{
		Params:    make(map[string]float64, len(names)),
		StdErrors: make(map[string]float64, len(names)),
		Converged: true,
	}
	for i, name := range names {
		fit.Params[name] = result.X[i]
	}

	for name, se := range standardErrors(model, result.X, names, xs, ys, result.F) {
		fit.StdErrors[name] = se
	}

	return fit, nil
}

// standardErrors estimates parameter standard errors from the model Jacobian
// at the solution: cov = s²(JᵀJ)⁻¹ with s² = SSE/(n-p). Returns zeros when
// JᵀJ is singular or there are no residual degrees of freedom.
func standardErrors(model ModelFunc, params []float64, names []string, xs, ys []float64, sse float64) map[string]float64 {
	n, p := len(xs), len(params)
	out := make(map[string]float64, p)
	for _, name := range names {
		out[name] = 0
	}
	if n <= p {
		return out
	}

	jac := mat.NewDense(n, p, nil)
	for i, x := range xs {
		for j := range params {
			jac.Set(i, j, partial(model, params, j, x))
		}
	}

	var jtj mat.Dense
	jtj.Mul(jac.T(), jac)

	var cov mat.Dense
	if err := cov.Inverse(&jtj); err != nil {
		return out
	}

	s2 := sse / float64(n-p)
	for j, name := range names {
		v := s2 * cov.At(j, j)
		if v > 0 {
			out[name] = math.Sqrt(v)
		}
	}
	return out
}

// partial is the central-difference derivative of the model with respect to
// parameter j at point x.
func partial(model ModelFunc, params []float64, j int, x float64) float64 {
	h := 1e-6 * math.Max(math.Abs(params[j]), 1)
	shifted := make([]float64, len(params))

	copy(shifted, params)
	shifted[j] += h
	hi := model(shifted, x)

	shifted[j] = params[j] - h
	lo := model(shifted, x)

	return (hi - lo) / (2 * h)
}

func allZero(vs []float64) bool {
	for _, v := range vs {
		if v != 0 {
			return false
		}
	}
	return true
}

func finiteAll(vs []float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
