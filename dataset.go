package uslfit

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Sample is one paired observation of concurrency and throughput.
type Sample struct {
	N float64 // Concurrency (simultaneous requests/users)
	C float64 // Throughput (completed operations per second)
}

// Dataset is an ordered sequence of samples. Order is order of arrival;
// N values need not be unique or sorted. A Dataset is built once per run and
// not mutated afterwards.
type Dataset []Sample

// ParseDataset reads whitespace-separated (N, C) pairs, one per line.
// Lines whose first non-blank character is '#' are comments. Extra columns
// beyond the first two are ignored.
func ParseDataset(r io.Reader) (Dataset, error) {
	var ds Dataset

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: line %d: expected 2 columns, got %d", ErrBadInput, lineNo, len(fields))
		}

		n, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad concurrency %q", ErrBadInput, lineNo, fields[0])
		}
		c, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad throughput %q", ErrBadInput, lineNo, fields[1])
		}

		ds = append(ds, Sample{N: n, C: c})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadInput, err)
	}

	return ds, nil
}

// MinN returns the smallest positive concurrency in the dataset, or 0 when
// no sample has positive concurrency.
func (ds Dataset) MinN() float64 {
	min := 0.0
	for _, s := range ds {
		if s.N <= 0 {
			continue
		}
		if min == 0 || s.N < min {
			min = s.N
		}
	}
	return min
}

// MaxN returns the largest concurrency in the dataset.
func (ds Dataset) MaxN() float64 {
	max := 0.0
	for _, s := range ds {
		if s.N > max {
			max = s.N
		}
	}
	return max
}

// MaxC returns the largest throughput in the dataset.
func (ds Dataset) MaxC() float64 {
	max := 0.0
	for _, s := range ds {
		if s.C > max {
			max = s.C
		}
	}
	return max
}

// Adjusted returns a copy of the dataset with the configured concurrency
// offset added to every N, dropping samples above the validity cap
// (maxValid 0 = unlimited). The receiver is not modified.
func (ds Dataset) Adjusted(offset, maxValid float64) Dataset {
	out := make(Dataset, 0, len(ds))
	for _, s := range ds {
		n := s.N + offset
		if maxValid > 0 && n > maxValid {
			continue
		}
		out = append(out, Sample{N: n, C: s.C})
	}
	return out
}

// EstimateC1 finds or extrapolates the single-user throughput C(1).
//
// If any sample has N exactly 1, C(1) is the mean of C over those samples.
// Otherwise it is the mean of C at the smallest positive N, divided by that N
// (linear extrapolation back to one user). Returns ErrInsufficientData when
// the dataset holds no sample with positive concurrency.
func EstimateC1(ds Dataset) (float64, error) {
	sum, count := 0.0, 0
	for _, s := range ds {
		if s.N == 1 {
			sum += s.C
			count++
		}
	}
	if count > 0 {
		return sum / float64(count), nil
	}

	minN := ds.MinN()
	if minN == 0 {
		return 0, fmt.Errorf("%w: no samples with positive concurrency", ErrInsufficientData)
	}

	sum, count = 0.0, 0
	for _, s := range ds {
		if s.N == minN {
			sum += s.C
			count++
		}
	}
	return sum / float64(count) / minN, nil
}
