package uslfit

import (
	"math"
	"strings"
	"testing"

	"github.com/markphelps/optional"
)

func snap(questions, threads, uptime float64) CounterSnapshot {
	s := CounterSnapshot{}
	if questions >= 0 {
		s.Questions = optional.NewFloat64(questions)
	}
	if threads >= 0 {
		s.ThreadsRunning = optional.NewFloat64(threads)
	}
	if uptime >= 0 {
		s.Uptime = optional.NewFloat64(uptime)
	}
	return s
}

// TestCounterConverter_ThreadAdjustment verifies the gauge adjustment: with
// one reserved thread, a gauge of 9 counts as 7 workload threads (the -1
// excludes the monitoring connection).
func TestCounterConverter_ThreadAdjustment(t *testing.T) {
	cv := NewCounterConverter(1, 1, 0)

	if _, ok := cv.Observe(snap(100, 9, 0)); ok {
		t.Fatal("first uptime reading must only anchor the window")
	}

	s, ok := cv.Observe(snap(150, 9, 2))
	if !ok {
		t.Fatal("second window did not emit")
	}

	// Window sum = carried seed 7 + observed 7; denominator obs-skipped+1 = 2.
	if math.Abs(s.N-7.0) > 1e-9 {
		t.Errorf("concurrency = %v, want 7 (gauge 9 - 1 - 1 reserved)", s.N)
	}
	if math.Abs(s.C-25.0) > 1e-9 {
		t.Errorf("throughput = %v, want 25 ((150-100)/2s)", s.C)
	}
}

// TestCounterConverter_OutlierCap verifies readings above MaxThreads are
// excluded from the running sum and counted as skipped.
func TestCounterConverter_OutlierCap(t *testing.T) {
	cv := NewCounterConverter(1, 1, 5)

	cv.Observe(snap(100, 9, 0)) // threads 7 > cap 5: skipped
	if cv.Skipped() != 1 {
		t.Fatalf("Skipped = %d, want 1", cv.Skipped())
	}

	// Only skipped observations in the window: nothing to emit.
	if s, ok := cv.Observe(snap(150, 9, 2)); ok {
		t.Fatalf("window of skipped readings emitted %+v", s)
	}
}

// TestCounterConverter_CarryForwardCapped verifies the seed carried into the
// next window is capped at MaxThreads.
func TestCounterConverter_CarryForwardCapped(t *testing.T) {
	cv := NewCounterConverter(1, 0, 5)

	cv.Observe(snap(100, 10, 0)) // threads 9, capped seed 5
	s, ok := cv.Observe(snap(200, 4, 2))
	if !ok {
		t.Fatal("window did not emit")
	}

	// Sum = seed 5 + observed 3; denominator = 1 observation + 1.
	if math.Abs(s.N-4.0) > 1e-9 {
		t.Errorf("concurrency = %v, want 4", s.N)
	}
}

// TestCounterConverter_IntervalGate verifies windows shorter than the
// configured interval never emit.
func TestCounterConverter_IntervalGate(t *testing.T) {
	cv := NewCounterConverter(10, 0, 0)

	cv.Observe(snap(100, 3, 0))
	if s, ok := cv.Observe(snap(120, 3, 5)); ok {
		t.Fatalf("5s window emitted %+v before the 10s interval", s)
	}

	s, ok := cv.Observe(snap(200, 3, 10))
	if !ok {
		t.Fatal("10s window did not emit")
	}
	if math.Abs(s.C-10.0) > 1e-9 {
		t.Errorf("throughput = %v, want 10 ((200-100)/10s)", s.C)
	}
}

// TestParseCounterLog verifies table-format status output parsing end to end.
func TestParseCounterLog(t *testing.T) {
	log := `+-----------------+-------+
| Variable_name   | Value |
+-----------------+-------+
| Questions       | 100   |
| Threads_running | 5     |
| Uptime          | 0     |
| Questions       | 150   |
| Threads_running | 5     |
| Uptime          | 2     |
| Not_a_counter   | 99    |
+-----------------+-------+
`
	cv := NewCounterConverter(1, 0, 0)
	ds, err := ParseCounterLog(strings.NewReader(log), cv)
	if err != nil {
		t.Fatalf("ParseCounterLog failed: %v", err)
	}

	if len(ds) != 1 {
		t.Fatalf("Expected 1 sample, got %d", len(ds))
	}
	// Window sum = seed 4 + observed 4, denominator 2; throughput 50/2.
	if math.Abs(ds[0].N-4.0) > 1e-9 {
		t.Errorf("concurrency = %v, want 4", ds[0].N)
	}
	if math.Abs(ds[0].C-25.0) > 1e-9 {
		t.Errorf("throughput = %v, want 25", ds[0].C)
	}
}
