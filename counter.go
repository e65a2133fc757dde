package uslfit

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/markphelps/optional"
)

// CounterSnapshot is one periodic observation of the server's absolute
// counters. Any field may be absent from a given snapshot; status output
// interleaves the variables, so each is optional.
type CounterSnapshot struct {
	Questions      optional.Float64 // Running query counter
	ThreadsRunning optional.Float64 // Current worker-thread gauge
	Uptime         optional.Float64 // Running uptime counter, seconds
}

// CounterConverter turns periodic counter snapshots into (N, C) samples, one
// per aggregation window.
//
// Concurrency is the mean adjusted thread gauge across the window. The gauge
// is adjusted by -1 for the monitoring connection itself and by the number of
// reserved (non-workload) threads; readings above MaxThreads are excluded as
// outliers and counted as skipped. Throughput is the query-counter delta over
// the uptime delta. The most recent thread reading seeds the next window's
// running sum, so a window never starts from an empty estimate.
type CounterConverter struct {
	Interval        float64 // Minimum seconds per aggregation window
	ReservedThreads float64 // Known non-workload connections to subtract
	MaxThreads      float64 // Concurrency outlier cap, 0 = unlimited

	started        bool
	startUptime    float64
	startQuestions float64

	questions    float64 // Most recent query-counter reading
	sum          float64 // Running thread sum for the open window
	obs          int     // Thread observations in the open window
	skipped      int     // Observations excluded by the cap, this window
	totalSkipped int     // Observations excluded across the whole run
	lastThreads  float64 // Seed for the next window
}

// NewCounterConverter creates a converter with the given window length in
// seconds, reserved-thread count, and outlier cap (0 disables the cap).
func NewCounterConverter(interval, reservedThreads, maxThreads float64) *CounterConverter {
	if interval <= 0 {
		interval = 1
	}
	return &CounterConverter{
		Interval:        interval,
		ReservedThreads: reservedThreads,
		MaxThreads:      maxThreads,
	}
}

// Skipped reports how many thread readings the outlier cap has excluded
// since the converter was created.
func (cv *CounterConverter) Skipped() int { return cv.totalSkipped }

// Observe feeds one snapshot. When an uptime reading closes a window it
// returns the window's sample and true; otherwise the zero sample and false.
func (cv *CounterConverter) Observe(snap CounterSnapshot) (Sample, bool) {
	snap.Questions.If(func(q float64) { cv.questions = q })

	snap.ThreadsRunning.If(func(gauge float64) {
		threads := gauge - 1 - cv.ReservedThreads
		cv.obs++
		if cv.MaxThreads > 0 && threads > cv.MaxThreads {
			cv.skipped++
			cv.totalSkipped++
			cv.lastThreads = cv.MaxThreads
			return
		}
		cv.sum += threads
		cv.lastThreads = threads
	})

	uptime, err := snap.Uptime.Get()
	if err != nil {
		return Sample{}, false
	}

	if !cv.started {
		cv.started = true
		cv.reset(uptime)
		return Sample{}, false
	}

	elapsed := uptime - cv.startUptime
	if elapsed < cv.Interval || cv.obs-cv.skipped < 1 {
		return Sample{}, false
	}

	s := Sample{
		N: cv.sum / float64(cv.obs-cv.skipped+1),
		C: (cv.questions - cv.startQuestions) / elapsed,
	}
	cv.reset(uptime)
	return s, true
}

// reset re-anchors the window at the given uptime, seeding the thread sum
// with the most recent reading.
func (cv *CounterConverter) reset(uptime float64) {
	cv.startUptime = uptime
	cv.startQuestions = cv.questions
	cv.sum = cv.lastThreads
	cv.obs = 0
	cv.skipped = 0
}

// Counter variable names recognized in status output.
const (
	varQuestions      = "Questions"
	varThreadsRunning = "Threads_running"
	varUptime         = "Uptime"
)

// ParseCounterLog reads `mysqladmin ext -i`-style status output, a table of
//
//	| Variable_name | Value |
//
// rows (bare "name value" rows are accepted too), feeding each recognized
// variable through the converter and collecting the emitted samples.
func ParseCounterLog(r io.Reader, cv *CounterConverter) (Dataset, error) {
	var ds Dataset

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name, value, ok := splitCounterLine(scanner.Text())
		if !ok {
			continue
		}

		var snap CounterSnapshot
		switch name {
		case varQuestions:
			snap.Questions = optional.NewFloat64(value)
		case varThreadsRunning:
			snap.ThreadsRunning = optional.NewFloat64(value)
		case varUptime:
			snap.Uptime = optional.NewFloat64(value)
		default:
			continue
		}

		if s, ok := cv.Observe(snap); ok {
			ds = append(ds, s)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadInput, err)
	}

	return ds, nil
}

// splitCounterLine extracts (name, numeric value) from one status row.
func splitCounterLine(line string) (string, float64, bool) {
	line = strings.Trim(strings.TrimSpace(line), "|")
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == '|' || r == ' ' || r == '\t'
	})
	if len(fields) != 2 {
		return "", 0, false
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return "", 0, false
	}
	return fields[0], v, true
}
