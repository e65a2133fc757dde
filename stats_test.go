package uslfit

import (
	"math"
	"testing"
)

// TestSummarizeResponseTimes verifies percentile calculations.
func TestSummarizeResponseTimes(t *testing.T) {
	records := []Record{
		{ResponseTime: 0.1},
		{ResponseTime: 0.2},
		{ResponseTime: 0.3},
		{ResponseTime: 0.4},
		{ResponseTime: 0.5},
	}

	stats := SummarizeResponseTimes(records)

	if stats.Count != 5 {
		t.Errorf("Count = %d, want 5", stats.Count)
	}
	if math.Abs(stats.Mean-0.3) > 1e-9 {
		t.Errorf("Mean = %v, want 0.3", stats.Mean)
	}
	if math.Abs(stats.P50-0.3) > 1e-9 {
		t.Errorf("P50 = %v, want 0.3", stats.P50)
	}

	t.Logf("mean=%.3f p50=%.3f p95=%.3f p99=%.3f", stats.Mean, stats.P50, stats.P95, stats.P99)
}

// TestSummarizeResponseTimes_Empty verifies the zero value comes back for an
// empty trace.
func TestSummarizeResponseTimes_Empty(t *testing.T) {
	if stats := SummarizeResponseTimes(nil); stats != (ResponseTimeStats{}) {
		t.Errorf("empty trace produced %+v", stats)
	}
}
