// Package uslfit models the scalability of a request-serving system using
// Dr. Neil Gunther's Universal Scalability Law (USL).
//
// # Overview
//
// Given paired observations of concurrency N and throughput C, uslfit
// estimates the USL parameters
//
//	C(N) = N·C(1) / (1 + σ(N-1) + κN(N-1))
//
// Where:
//   - C(1): single-user throughput (the anchor point)
//   - σ (sigma): contention coefficient (serialization cost)
//   - κ (kappa): coherency-delay coefficient (crosstalk cost, the term
//     responsible for retrograde throughput)
//   - N: concurrency driving the system
//
// From the fitted parameters it predicts the peak capacity
//
//	N* = ⌊√((1-σ)/κ)⌋
//
// and produces the numeric series an external plotter needs: efficiency,
// deviation from linearity, residuals at both fit stages, and the modeled
// throughput curve against the measurements.
//
// # Architecture
//
// The pipeline, leaf first:
//
//   - tabulate.go  - packet-trace tabulation (per-client request matching)
//   - window.go    - time-windowed aggregation of tabulated records
//   - counter.go   - counter-snapshot conversion (periodic status output)
//   - dataset.go   - (N, C) samples, parsing, statistics, anchor estimation
//   - solver.go    - nonlinear least-squares solver behind a narrow interface
//   - quadratic.go - seed fit of the transformed deviation curve
//   - usl.go       - full USL refit from the seed parameters
//   - report.go    - diagnostics, peak prediction, chart series
//   - pipeline.go  - anchor → seed fit → refit → report
//
// # Quick Start
//
// Fit a dataset of (N, C) measurements:
//
//	ds, err := uslfit.ParseDataset(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := uslfit.Analyze(ds, uslfit.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Contention (σ):  %.4f\n", report.Model.Sigma)
//	fmt.Printf("Coherency (κ):   %.4f\n", report.Model.Kappa)
//	fmt.Printf("Peak capacity:   N*=%d, C*=%.2f\n", report.Model.PeakN, report.Model.PeakC)
//
// # The two-stage fit
//
// The USL least-squares surface has local minima, so fitting proceeds in two
// stages. First the data is transformed to the deviation-from-linearity form
//
//	x = N - 1
//	y = N/(C/C(1)) - 1
//
// and y = ax² + bx is fitted to obtain seed parameters. The full USL model is
// then refitted from κ = a, σ = b - a over the dataset extended with the
// explicit anchor sample (1, C(1)). Either stage failing to converge aborts
// the run: the pipeline never substitutes defaults for an unconverged fit.
//
// # Data sources
//
// Besides precomputed (N, C) files, two converters produce datasets from raw
// captures:
//
//   - Tabulator consumes a captured request/response packet trace for one
//     watched service port and tracks in-flight requests per client;
//     WindowAggregator folds the tabulated stream into per-second samples.
//   - CounterConverter consumes periodic absolute-counter snapshots (a query
//     counter, a threads-running gauge, an uptime counter, as printed by
//     `mysqladmin ext -i`) and emits one sample per aggregation interval.
//
// Each run is a pure function of its inputs: no state crosses invocations.
package uslfit
