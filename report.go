package uslfit

import (
	"fmt"
	"math"
	"strings"
)

// Point is one (x, y) value of a chart series.
type Point struct {
	X, Y float64
}

// Series is the numeric data behind one named chart. The pipeline produces
// the points; rendering is left to an external plotter.
type Series struct {
	Name   string
	XLabel string
	YLabel string
	Points []Point // Measured/derived values
	Curve  []Point // Fitted model overlay, when the chart has one
}

// Model is the deliverable of the whole pipeline: the fitted USL parameters
// and the capacity prediction derived from them.
type Model struct {
	Sigma    float64 // Contention coefficient
	Kappa    float64 // Coherency-delay coefficient
	C1       float64 // Single-user throughput used by the refit
	RSquared float64 // Fit quality of the refit over the extended dataset
	PeakN    int     // Concurrency at peak capacity, ⌊√((1-σ)/κ)⌋
	PeakC    float64 // Predicted throughput at PeakN
}

// Report assembles the diagnostics of one run: dataset statistics, both fit
// stages, the final model, and the chart series selected by the
// configuration.
type Report struct {
	MinN float64
	MaxN float64
	MaxC float64

	C1Raw float64 // Anchor estimate before the scale factor
	C1    float64 // Anchor actually used for fitting

	Quadratic FitResult
	USL       FitResult
	Model     Model

	Series []Series
}

// NewReport computes the peak prediction and chart series for a completed
// pair of fits.
func NewReport(ds Dataset, c1Raw, c1 float64, quad, usl FitResult, cfg Config) *Report {
	sigma, kappa := usl.Params["sigma"], usl.Params["kappa"]
	modelC1 := usl.Params["c1"]

	r := &Report{
		MinN:      ds.MinN(),
		MaxN:      ds.MaxN(),
		MaxC:      ds.MaxC(),
		C1Raw:     c1Raw,
		C1:        c1,
		Quadratic: quad,
		USL:       usl,
		Model: Model{
			Sigma:    sigma,
			Kappa:    kappa,
			C1:       modelC1,
			RSquared: usl.RSquared,
		},
	}

	if kappa > 0 && sigma < 1 {
		peakN := math.Floor(math.Sqrt((1 - sigma) / kappa))
		if peakN >= 1 {
			r.Model.PeakN = int(peakN)
			r.Model.PeakC = USLThroughput(peakN, modelC1, sigma, kappa)
		}
	}

	r.Series = buildSeries(ds, c1, quad, r.Model, cfg)
	return r
}

func buildSeries(ds Dataset, c1 float64, quad FitResult, m Model, cfg Config) []Series {
	var out []Series
	add := func(s Series) {
		if cfg.wantChart(s.Name) {
			out = append(out, s)
		}
	}

	xLabel := cfg.AxisLabel

	// Relative efficiency: measured throughput per user against C(1).
	eff := Series{Name: ChartEfficiency, XLabel: xLabel, YLabel: "efficiency"}
	for _, s := range ds {
		if s.N > 0 {
			eff.Points = append(eff.Points, Point{X: s.N, Y: s.C / s.N / c1})
		}
	}
	add(eff)

	// Deviation from linearity, with the fitted seed curve overlaid.
	dev := Series{Name: ChartDeviation, XLabel: xLabel + " - 1", YLabel: "deviation from linearity"}
	a, b := quad.Params["a"], quad.Params["b"]
	for _, s := range ds {
		if s.C <= 0 {
			continue
		}
		x := s.N - 1
		dev.Points = append(dev.Points, Point{X: x, Y: s.N/(s.C/c1) - 1})
		dev.Curve = append(dev.Curve, Point{X: x, Y: a*x*x + b*x})
	}
	add(dev)

	quadRes := QuadraticResiduals(ds, c1, quad)
	add(Series{Name: ChartQuadResiduals, XLabel: xLabel + " - 1", YLabel: "residual", Points: quadRes})

	sq := make([]Point, len(quadRes))
	for i, p := range quadRes {
		sq[i] = Point{X: p.X, Y: p.Y * p.Y}
	}
	add(Series{Name: ChartQuadResidualsSq, XLabel: xLabel + " - 1", YLabel: "residual²", Points: sq})

	uslSq := Series{Name: ChartUSLResidualsSq, XLabel: xLabel, YLabel: "residual²"}
	for _, s := range ds {
		r := s.C - USLThroughput(s.N, m.C1, m.Sigma, m.Kappa)
		uslSq.Points = append(uslSq.Points, Point{X: s.N, Y: r * r})
	}
	add(uslSq)

	mva := Series{Name: ChartModelVsActual, XLabel: xLabel, YLabel: "throughput"}
	for _, s := range ds {
		mva.Points = append(mva.Points, Point{X: s.N, Y: s.C})
	}
	mva.Curve = modelCurve(m, ds.MaxN(), cfg.XAxisLimit)
	add(mva)

	return out
}

// modelCurve samples the fitted USL curve from N=1 out to the axis limit
// (default: past the measured range and the predicted peak). Non-finite
// values are dropped rather than emitted.
func modelCurve(m Model, maxN, limit float64) []Point {
	if limit <= 0 {
		limit = math.Max(maxN, float64(m.PeakN))
		limit = math.Max(limit*1.25, 2)
	}
	step := (limit - 1) / 128
	if step <= 0 {
		step = 1
	}

	var pts []Point
	for n := 1.0; n <= limit; n += step {
		c := USLThroughput(n, m.C1, m.Sigma, m.Kappa)
		if math.IsNaN(c) || math.IsInf(c, 0) {
			continue
		}
		pts = append(pts, Point{X: n, Y: c})
	}
	return pts
}

// Text renders the report as key/value lines in the order the original
// diagnostics print them.
func (r *Report) Text() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "min(N)            %.6g\n", r.MinN)
	fmt.Fprintf(&sb, "max(N)            %.6g\n", r.MaxN)
	fmt.Fprintf(&sb, "max(C)            %.6g\n", r.MaxC)
	fmt.Fprintf(&sb, "C(1) estimated    %.6g\n", r.C1Raw)
	fmt.Fprintf(&sb, "C(1) adjusted     %.6g\n", r.C1)

	sb.WriteString("\nquadratic seed fit\n")
	writeParams(&sb, r.Quadratic, []string{"a", "b"})
	fmt.Fprintf(&sb, "  R^2             %.6f\n", r.Quadratic.RSquared)

	sb.WriteString("\nusl fit\n")
	writeParams(&sb, r.USL, []string{"sigma", "kappa", "c1"})
	fmt.Fprintf(&sb, "  R^2             %.6f\n", r.USL.RSquared)

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "peak N*           %d\n", r.Model.PeakN)
	fmt.Fprintf(&sb, "peak C*           %.6g\n", r.Model.PeakC)

	return sb.String()
}

func writeParams(sb *strings.Builder, fit FitResult, order []string) {
	for _, name := range order {
		v, ok := fit.Params[name]
		if !ok {
			continue
		}
		se := fit.StdErrors[name]
		pct := 0.0
		if v != 0 {
			pct = math.Abs(se/v) * 100
		}
		fmt.Fprintf(sb, "  %-8s %14.6g  +/- %-12.6g (%.2f%%)\n", name, v, se, pct)
	}
}
