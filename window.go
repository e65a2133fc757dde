package uslfit

// WindowAggregator folds a tabulated completion stream into fixed-length time
// windows, one (N, C) sample per window. Concurrency is the ratio of the
// weighted-busy delta to the busy delta across the window; throughput is the
// number of completions per busy second.
//
// Windows whose busy-time delta is zero produce no sample (nothing was in
// flight, the ratio is undefined).
type WindowAggregator struct {
	interval float64 // Window length in seconds

	started       bool
	startTime     float64
	startBusy     float64
	startWeighted float64
	events        int
}

// NewWindowAggregator creates an aggregator with the given window length in
// seconds. Lengths of zero or below fall back to one second.
func NewWindowAggregator(interval float64) *WindowAggregator {
	if interval <= 0 {
		interval = 1
	}
	return &WindowAggregator{interval: interval}
}

// Observe feeds one record. When the record closes a window it returns the
// window's sample and true; otherwise the zero sample and false. Records must
// arrive with non-decreasing timestamps (the tabulator guarantees this).
func (w *WindowAggregator) Observe(rec Record) (Sample, bool) {
	if !w.started {
		w.started = true
		w.anchor(rec)
		return Sample{}, false
	}

	if rec.Time < w.startTime+w.interval {
		w.events++
		return Sample{}, false
	}

	busyDelta := rec.BusyTime - w.startBusy
	weightedDelta := rec.WeightedTime - w.startWeighted
	events := w.events
	w.anchor(rec)

	if busyDelta <= 0 {
		return Sample{}, false
	}
	return Sample{
		N: weightedDelta / busyDelta,
		C: float64(events) / busyDelta,
	}, true
}

func (w *WindowAggregator) anchor(rec Record) {
	w.startTime = rec.Time
	w.startBusy = rec.BusyTime
	w.startWeighted = rec.WeightedTime
	w.events = 0
}

// AggregateRecords folds a complete record stream into a dataset.
func AggregateRecords(records []Record, interval float64) Dataset {
	agg := NewWindowAggregator(interval)
	var ds Dataset
	for _, rec := range records {
		if s, ok := agg.Observe(rec); ok {
			ds = append(ds, s)
		}
	}
	return ds
}
