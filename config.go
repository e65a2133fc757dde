package uslfit

// Conversion modes for turning raw input into a dataset.
const (
	ConvertNone     = "none"     // Input is already (N, C) pairs
	ConvertCounters = "counters" // Periodic counter snapshots (counter.go)
	ConvertTrace    = "trace"    // Captured packet trace (tabulate.go)
)

// Image formats an external plotter may be asked to produce. The pipeline
// validates the choice but renders nothing itself.
const (
	FormatPNG = "png" // Raster
	FormatEPS = "eps" // Vector (Encapsulated PostScript)
	FormatPDF = "pdf" // Vector
)

// Axis labels for the concurrency axis.
const (
	AxisConcurrency = "concurrency"
	AxisNodeCount   = "node count"
)

// Chart names recognized by Config.OnlyOutputs and Report.Series.
const (
	ChartEfficiency      = "efficiency"
	ChartDeviation       = "deviation"
	ChartQuadResiduals   = "quadratic-residuals"
	ChartQuadResidualsSq = "quadratic-residuals-squared"
	ChartUSLResidualsSq  = "usl-residuals-squared"
	ChartModelVsActual   = "model-vs-actual"
)

// AllCharts lists every chart series the report can expose, in output order.
var AllCharts = []string{
	ChartEfficiency,
	ChartDeviation,
	ChartQuadResiduals,
	ChartQuadResidualsSq,
	ChartUSLResidualsSq,
	ChartModelVsActual,
}

// Config is the explicit configuration record passed through the pipeline.
// There is no global configuration state; every stage receives what it needs
// from this record.
type Config struct {
	// Data conversion.
	ConversionMode        string  // ConvertNone, ConvertCounters, ConvertTrace
	AggregationInterval   float64 // Seconds per aggregation window
	WatchPort             int     // Service port observed in packet traces
	ReservedThreads       float64 // Non-workload connections excluded from the gauge
	MaxValidConcurrency   float64 // Concurrency outlier cap, 0 = unlimited
	ConcurrencyAdjustment float64 // Offset added to every N before fitting

	// Fitting.
	C1ScaleFactor float64 // Multiplier applied to the estimated C(1)
	SkipRefit     bool    // Take USL parameters directly from the seed stage
	FitC1         bool    // Treat C(1) as a free parameter of the refit
	Solver        Solver  // nil selects LeastSquares

	// Output selection and presentation (consumed by the external plotter;
	// the pipeline validates values and tags the series it emits).
	AxisLabel             string
	ImageFormat           string
	XAxisLimit            float64
	PointColor            string
	PointType             string
	DrawErrorBand         bool
	ColorOutput           bool
	OnlyOutputs           []string // Empty = all charts
	OutputPrefix          string
	KeepIntermediateFiles bool
	KeepDatasetPath       string
}

// DefaultConfig returns the defaults: no conversion, one-second windows,
// the well-known database port, fixed C(1), full two-stage fit, all charts.
func DefaultConfig() Config {
	return Config{
		ConversionMode:      ConvertNone,
		AggregationInterval: 1,
		WatchPort:           3306,
		C1ScaleFactor:       1,
		AxisLabel:           AxisConcurrency,
		ImageFormat:         FormatPNG,
		OutputPrefix:        "usl",
	}
}

// Validate rejects unsupported option values.
func (c Config) Validate() error {
	switch c.ConversionMode {
	case ConvertNone, ConvertCounters, ConvertTrace:
	default:
		return &ConfigError{Option: "conversion mode", Value: c.ConversionMode}
	}

	switch c.ImageFormat {
	case FormatPNG, FormatEPS, FormatPDF:
	default:
		return &ConfigError{Option: "image format", Value: c.ImageFormat}
	}

	switch c.AxisLabel {
	case AxisConcurrency, AxisNodeCount:
	default:
		return &ConfigError{Option: "axis label", Value: c.AxisLabel}
	}

	for _, name := range c.OnlyOutputs {
		if !knownChart(name) {
			return &ConfigError{Option: "output", Value: name}
		}
	}
	return nil
}

// wantChart reports whether a chart survives the OnlyOutputs filter.
func (c Config) wantChart(name string) bool {
	if len(c.OnlyOutputs) == 0 {
		return true
	}
	for _, n := range c.OnlyOutputs {
		if n == name {
			return true
		}
	}
	return false
}

func knownChart(name string) bool {
	for _, n := range AllCharts {
		if n == name {
			return true
		}
	}
	return false
}
