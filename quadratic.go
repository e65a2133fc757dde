package uslfit

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// FitQuadraticSeed fits the deviation-from-linearity curve to obtain seed
// parameters for the full USL refit.
//
// Each sample is transformed to
//
//	x = N - 1
//	y = N/(C/C(1)) - 1
//
// and y = ax² + bx is fitted by least squares. Samples with non-positive
// throughput cannot be transformed and are skipped. R² is computed against
// the raw Σy² (the curve is constrained through the origin, so the usual
// about-the-mean total sum does not apply).
//
// Non-convergence here is fatal: every later stage depends on these seeds.
func FitQuadraticSeed(ds Dataset, c1 float64, solver Solver) (FitResult, error) {
	var xs, ys []float64
	for _, s := range ds {
		if s.C <= 0 {
			continue
		}
		xs = append(xs, s.N-1)
		ys = append(ys, s.N/(s.C/c1)-1)
	}

	fit, err := solver.Fit(quadraticModel, []string{"a", "b"}, []float64{0.01, 0.01}, xs, ys)
	if err != nil {
		return FitResult{}, fmt.Errorf("quadratic seed fit: %w", err)
	}
	if !fit.Converged {
		return FitResult{}, &ConvergenceError{Stage: "quadratic seed"}
	}

	fit.RSquared = quadraticRSquared(fit, xs, ys)
	return fit, nil
}

func quadraticModel(p []float64, x float64) float64 {
	return p[0]*x*x + p[1]*x
}

func quadraticRSquared(fit FitResult, xs, ys []float64) float64 {
	params := []float64{fit.Params["a"], fit.Params["b"]}

	res := make([]float64, len(xs))
	for i, x := range xs {
		res[i] = ys[i] - quadraticModel(params, x)
	}

	total := floats.Dot(ys, ys)
	if total == 0 {
		return 0
	}
	return 1 - floats.Dot(res, res)/total
}

// QuadraticResiduals returns the transformed points and their residuals
// against the fitted seed curve, for the residual chart series.
func QuadraticResiduals(ds Dataset, c1 float64, fit FitResult) []Point {
	params := []float64{fit.Params["a"], fit.Params["b"]}

	var pts []Point
	for _, s := range ds {
		if s.C <= 0 {
			continue
		}
		x := s.N - 1
		y := s.N/(s.C/c1) - 1
		pts = append(pts, Point{X: x, Y: y - quadraticModel(params, x)})
	}
	return pts
}
