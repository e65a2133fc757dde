package uslfit

import (
	"fmt"
)

// USLThroughput is the closed-form Universal Scalability Law:
//
//	C(N) = N·C(1) / (1 + σ(N-1) + κN(N-1))
func USLThroughput(n, c1, sigma, kappa float64) float64 {
	return n * c1 / (1 + sigma*(n-1) + kappa*n*(n-1))
}

// USLFitOptions controls the refit stage.
type USLFitOptions struct {
	// SkipRefit takes σ = b - a, κ = a directly from the seed stage with
	// zero reported standard errors instead of running the second
	// regression.
	SkipRefit bool

	// FitC1 treats C(1) as a third free parameter of the refit rather than
	// holding the anchor estimate fixed. It never affects the seed stage.
	FitC1 bool
}

// FitUSL refits the full USL model from the quadratic seed parameters.
//
// The fit runs over the dataset extended with the explicit anchor sample
// (1, C(1)), seeded with κ = a and σ = b - a. Non-convergence is fatal; the
// pipeline never falls back to the seed values unless SkipRefit asked for
// that up front. R² is recomputed over the extended dataset.
func FitUSL(ds Dataset, c1 float64, seed FitResult, opts USLFitOptions, solver Solver) (FitResult, error) {
	a, b := seed.Params["a"], seed.Params["b"]
	sigma0, kappa0 := b-a, a

	extended := make(Dataset, 0, len(ds)+1)
	extended = append(extended, ds...)
	extended = append(extended, Sample{N: 1, C: c1})

	if opts.SkipRefit {
		fit := FitResult{
			Params:    map[string]float64{"sigma": sigma0, "kappa": kappa0, "c1": c1},
			StdErrors: map[string]float64{"sigma": 0, "kappa": 0, "c1": 0},
			Converged: true,
		}
		fit.RSquared = uslRSquared(extended, c1, sigma0, kappa0)
		return fit, nil
	}

	xs := make([]float64, len(extended))
	ys := make([]float64, len(extended))
	for i, s := range extended {
		xs[i], ys[i] = s.N, s.C
	}

	var (
		names []string
		init  []float64
		model ModelFunc
	)
	if opts.FitC1 {
		names = []string{"sigma", "kappa", "c1"}
		init = []float64{sigma0, kappa0, c1}
		model = func(p []float64, n float64) float64 {
			return USLThroughput(n, p[2], p[0], p[1])
		}
	} else {
		names = []string{"sigma", "kappa"}
		init = []float64{sigma0, kappa0}
		model = func(p []float64, n float64) float64 {
			return USLThroughput(n, c1, p[0], p[1])
		}
	}

	fit, err := solver.Fit(model, names, init, xs, ys)
	if err != nil {
		return FitResult{}, fmt.Errorf("usl fit: %w", err)
	}
	if !fit.Converged {
		return FitResult{}, &ConvergenceError{Stage: "usl"}
	}

	fitC1 := c1
	if opts.FitC1 {
		fitC1 = fit.Params["c1"]
	} else {
		fit.Params["c1"] = c1
		fit.StdErrors["c1"] = 0
	}
	fit.RSquared = uslRSquared(extended, fitC1, fit.Params["sigma"], fit.Params["kappa"])
	return fit, nil
}

// uslRSquared is the conventional coefficient of determination of the USL
// curve over a dataset.
func uslRSquared(ds Dataset, c1, sigma, kappa float64) float64 {
	var mean float64
	for _, s := range ds {
		mean += s.C
	}
	mean /= float64(len(ds))

	var ssRes, ssTot float64
	for _, s := range ds {
		r := s.C - USLThroughput(s.N, c1, sigma, kappa)
		ssRes += r * r
		d := s.C - mean
		ssTot += d * d
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}
