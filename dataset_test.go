package uslfit

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// TestParseDataset verifies comment handling and column parsing.
func TestParseDataset(t *testing.T) {
	input := `# concurrency throughput
1 100
2 190.5

# trailing columns are ignored
4 330 extra
`
	ds, err := ParseDataset(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseDataset failed: %v", err)
	}

	want := Dataset{{1, 100}, {2, 190.5}, {4, 330}}
	if len(ds) != len(want) {
		t.Fatalf("Expected %d samples, got %d", len(want), len(ds))
	}
	for i, s := range want {
		if ds[i] != s {
			t.Errorf("sample %d: got %+v, want %+v", i, ds[i], s)
		}
	}
}

// TestParseDataset_Malformed verifies malformed rows surface as input errors.
func TestParseDataset_Malformed(t *testing.T) {
	for _, input := range []string{"1\n", "one 100\n", "1 fast\n"} {
		_, err := ParseDataset(strings.NewReader(input))
		if !errors.Is(err, ErrBadInput) {
			t.Errorf("input %q: expected ErrBadInput, got %v", input, err)
		}
	}
}

// TestDatasetStats verifies min(N), max(N), max(C) ignore non-positive N.
func TestDatasetStats(t *testing.T) {
	ds := Dataset{{0, 50}, {2, 190}, {8, 480}, {4, 330}}

	if got := ds.MinN(); got != 2 {
		t.Errorf("MinN = %v, want 2 (N=0 excluded)", got)
	}
	if got := ds.MaxN(); got != 8 {
		t.Errorf("MaxN = %v, want 8", got)
	}
	if got := ds.MaxC(); got != 480 {
		t.Errorf("MaxC = %v, want 480", got)
	}
}

// TestDatasetAdjusted verifies the concurrency offset and validity cap.
func TestDatasetAdjusted(t *testing.T) {
	ds := Dataset{{1, 100}, {2, 190}, {8, 480}}

	adj := ds.Adjusted(1, 5)
	if len(adj) != 2 {
		t.Fatalf("Expected 2 samples after cap, got %d", len(adj))
	}
	if adj[0].N != 2 || adj[1].N != 3 {
		t.Errorf("Offset not applied: %+v", adj)
	}

	// The receiver must stay untouched.
	if ds[0].N != 1 {
		t.Errorf("Adjusted mutated the original dataset: %+v", ds)
	}
}

// TestEstimateC1_ExactAnchor verifies C(1) is the mean over samples at N=1,
// never the min-N extrapolation, when N=1 is present.
func TestEstimateC1_ExactAnchor(t *testing.T) {
	ds := Dataset{{1, 90}, {1, 110}, {2, 190}, {4, 330}}

	c1, err := EstimateC1(ds)
	if err != nil {
		t.Fatalf("EstimateC1 failed: %v", err)
	}
	if c1 != 100 {
		t.Errorf("C(1) = %v, want 100 (mean of 90 and 110)", c1)
	}
}

// TestEstimateC1_Extrapolated verifies linear extrapolation from min(N) when
// no sample sits at N=1.
func TestEstimateC1_Extrapolated(t *testing.T) {
	ds := Dataset{{2, 180}, {2, 220}, {4, 330}}

	c1, err := EstimateC1(ds)
	if err != nil {
		t.Fatalf("EstimateC1 failed: %v", err)
	}
	// mean(C at N=2) = 200, divided by N=2.
	if math.Abs(c1-100) > 1e-12 {
		t.Errorf("C(1) = %v, want 100", c1)
	}
}

// TestEstimateC1_Insufficient verifies the error when no positive N exists.
func TestEstimateC1_Insufficient(t *testing.T) {
	for _, ds := range []Dataset{nil, {{0, 50}, {-1, 10}}} {
		_, err := EstimateC1(ds)
		if !errors.Is(err, ErrInsufficientData) {
			t.Errorf("dataset %+v: expected ErrInsufficientData, got %v", ds, err)
		}
	}
}
