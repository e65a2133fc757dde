package uslfit

// Analyze runs the full modeling pipeline over a dataset: estimate the anchor
// C(1), fit the quadratic seed, refit the USL model, and assemble the report.
//
// The run is a pure function of the dataset and configuration. Every failure
// is fatal - there are no partial results: either a validated model comes
// back, or the error from the failing stage does.
func Analyze(ds Dataset, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ds = ds.Adjusted(cfg.ConcurrencyAdjustment, cfg.MaxValidConcurrency)

	c1Raw, err := EstimateC1(ds)
	if err != nil {
		return nil, err
	}
	c1 := c1Raw
	if cfg.C1ScaleFactor > 0 {
		c1 = c1Raw * cfg.C1ScaleFactor
	}

	solver := cfg.Solver
	if solver == nil {
		solver = LeastSquares{}
	}

	quad, err := FitQuadraticSeed(ds, c1, solver)
	if err != nil {
		return nil, err
	}

	usl, err := FitUSL(ds, c1, quad, USLFitOptions{SkipRefit: cfg.SkipRefit, FitC1: cfg.FitC1}, solver)
	if err != nil {
		return nil, err
	}

	return NewReport(ds, c1Raw, c1, quad, usl, cfg), nil
}
