package uslfit

import (
	"math"
	"testing"
)

// Test helpers for model properties. They live in the package proper so
// downstream users can assert on their own fitted models the same way the
// package tests do.

// AssertConverged fails the test when a fit stage did not converge.
func AssertConverged(t *testing.T, fit FitResult, stage string) {
	t.Helper()

	if !fit.Converged {
		t.Fatalf("%s fit did not converge\n"+
			"Parameters so far: %v", stage, fit.Params)
	}
	t.Logf("✓ %s fit converged (R² = %.4f)", stage, fit.RSquared)
}

// AssertParamWithin verifies a fitted parameter against an expected value to
// an absolute tolerance.
func AssertParamWithin(t *testing.T, fit FitResult, name string, want, tol float64) {
	t.Helper()

	got, ok := fit.Params[name]
	if !ok {
		t.Fatalf("fit has no parameter %q (have %v)", name, fit.Params)
	}
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %.6f, want %.6f ± %.6f", name, got, want, tol)
		return
	}
	t.Logf("✓ %s = %.6f (want %.6f ± %.6f)", name, got, want, tol)
}

// AssertFinitePeak verifies the model predicts a usable peak: N* > 0 and a
// finite C*.
func AssertFinitePeak(t *testing.T, m Model) {
	t.Helper()

	if m.PeakN <= 0 {
		t.Errorf("peak N* = %d, want > 0 (σ=%.4f, κ=%.6f)", m.PeakN, m.Sigma, m.Kappa)
	}
	if math.IsNaN(m.PeakC) || math.IsInf(m.PeakC, 0) || m.PeakC <= 0 {
		t.Errorf("peak C* = %v, want finite and positive", m.PeakC)
	}
	t.Logf("✓ peak: N*=%d, C*=%.2f", m.PeakN, m.PeakC)
}

// AssertSeriesFinite verifies that no chart series contains NaN or infinite
// values - degenerate numerics must surface as errors upstream, never leak
// into plotter input.
func AssertSeriesFinite(t *testing.T, series []Series) {
	t.Helper()

	for _, s := range series {
		for _, p := range s.Points {
			if !finite(p.X) || !finite(p.Y) {
				t.Errorf("series %s: non-finite point (%v, %v)", s.Name, p.X, p.Y)
			}
		}
		for _, p := range s.Curve {
			if !finite(p.X) || !finite(p.Y) {
				t.Errorf("series %s: non-finite curve point (%v, %v)", s.Name, p.X, p.Y)
			}
		}
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
