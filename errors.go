package uslfit

import (
	"errors"
	"fmt"
)

// Sentinel errors for the input side of the pipeline. Wrap with %w so callers
// can classify failures with errors.Is.
var (
	// ErrBadInput marks unreadable or malformed input data (dataset files,
	// packet traces, counter logs).
	ErrBadInput = errors.New("malformed input")

	// ErrInsufficientData marks a dataset that cannot support anchor
	// estimation or fitting (no samples with positive concurrency).
	ErrInsufficientData = errors.New("insufficient data")
)

// ConfigError reports an unsupported configuration value, such as an unknown
// conversion mode or image format.
type ConfigError struct {
	Option string
	Value  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("unsupported value %q for option %s", e.Value, e.Option)
}

// ConvergenceError reports that a regression stage failed to converge.
//
// Both fitting stages are fatal on non-convergence: the seed parameters feed
// the refit, and an unconverged refit would otherwise leak meaningless σ and
// κ into the capacity prediction. The pipeline surfaces this error instead of
// substituting defaults.
type ConvergenceError struct {
	Stage  string // "quadratic seed" or "usl"
	Reason string
}

func (e *ConvergenceError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s fit did not converge", e.Stage)
	}
	return fmt.Sprintf("%s fit did not converge: %s", e.Stage, e.Reason)
}
