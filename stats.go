package uslfit

import (
	"math"
	"sort"
)

// ResponseTimeStats summarizes the response-time distribution of a tabulated
// trace. A P99 far above P50 is the usual sign the capture spans a
// saturation episode, worth knowing before trusting the fitted model.
type ResponseTimeStats struct {
	Count  int
	Mean   float64
	Stddev float64
	P50    float64
	P95    float64
	P99    float64
}

// SummarizeResponseTimes computes percentile statistics over the response
// times of a record stream.
func SummarizeResponseTimes(records []Record) ResponseTimeStats {
	if len(records) == 0 {
		return ResponseTimeStats{}
	}

	sorted := make([]float64, len(records))
	for i, r := range records {
		sorted[i] = r.ResponseTime
	}
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	var variance float64
	for _, v := range sorted {
		d := v - mean
		variance += d * d
	}

	return ResponseTimeStats{
		Count:  len(sorted),
		Mean:   mean,
		Stddev: math.Sqrt(variance / float64(len(sorted))),
		P50:    sorted[len(sorted)*50/100],
		P95:    sorted[len(sorted)*95/100],
		P99:    sorted[len(sorted)*99/100],
	}
}
