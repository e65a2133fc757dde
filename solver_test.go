package uslfit

import (
	"math"
	"testing"
)

// stubSolver returns a scripted FitResult, for exercising convergence-failure
// paths deterministically.
type stubSolver struct {
	result FitResult
	err    error
}

func (s stubSolver) Fit(ModelFunc, []string, []float64, []float64, []float64) (FitResult, error) {
	return s.result, s.err
}

// TestLeastSquares_Quadratic verifies the production solver recovers exact
// polynomial coefficients from noise-free data.
func TestLeastSquares_Quadratic(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 2*x*x + 3*x
	}

	fit, err := LeastSquares{}.Fit(quadraticModel, []string{"a", "b"}, []float64{0.5, 0.5}, xs, ys)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	AssertConverged(t, fit, "quadratic")
	AssertParamWithin(t, fit, "a", 2, 0.01)
	AssertParamWithin(t, fit, "b", 3, 0.05)

	// Exact data: residual variance ~0, so the standard errors must be tiny.
	for name, se := range fit.StdErrors {
		if se > 0.01 {
			t.Errorf("stderr(%s) = %v, want ~0 for exact data", name, se)
		}
	}
}

// TestLeastSquares_Degenerate verifies degenerate inputs report
// Converged: false instead of an unrelated error.
func TestLeastSquares_Degenerate(t *testing.T) {
	cases := []struct {
		name   string
		xs, ys []float64
	}{
		{"single point", []float64{1}, []float64{2}},
		{"no points", nil, nil},
		{"all-zero target", []float64{0, 1, 2, 3}, []float64{0, 0, 0, 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fit, err := LeastSquares{}.Fit(quadraticModel, []string{"a", "b"}, []float64{0, 0}, tc.xs, tc.ys)
			if err != nil {
				t.Fatalf("Fit errored: %v", err)
			}
			if fit.Converged {
				t.Error("degenerate data reported Converged = true")
			}
		})
	}
}

// TestLeastSquares_Mismatched verifies shape errors are reported as input
// errors, not swallowed as non-convergence.
func TestLeastSquares_Mismatched(t *testing.T) {
	_, err := LeastSquares{}.Fit(quadraticModel, []string{"a", "b"}, []float64{0, 0},
		[]float64{1, 2, 3}, []float64{1, 2})
	if err == nil {
		t.Fatal("expected error for mismatched x/y lengths")
	}
}

// TestStandardErrors_Noisy verifies standard errors come out positive when
// residuals exist.
func TestStandardErrors_Noisy(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5}
	ys := make([]float64, len(xs))
	noise := []float64{0.3, -0.2, 0.25, -0.3, 0.2, -0.25}
	for i, x := range xs {
		ys[i] = 2*x*x + 3*x + noise[i]
	}

	fit, err := LeastSquares{}.Fit(quadraticModel, []string{"a", "b"}, []float64{1, 1}, xs, ys)
	if err != nil || !fit.Converged {
		t.Fatalf("Fit: converged=%v err=%v", fit.Converged, err)
	}

	for name, se := range fit.StdErrors {
		if se <= 0 || math.IsNaN(se) {
			t.Errorf("stderr(%s) = %v, want positive", name, se)
		}
	}
	t.Logf("a=%.4f±%.4f, b=%.4f±%.4f",
		fit.Params["a"], fit.StdErrors["a"], fit.Params["b"], fit.StdErrors["b"])
}
