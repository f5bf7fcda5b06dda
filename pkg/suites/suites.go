// Package suites implements the behavioral test-suite runners. Each runner
// drives a provider adapter and produces scored results; a failing
// individual test never aborts its suite.
package suites

import (
	"context"
	"fmt"
	"time"
)

// Prompt-driven runners share one call shape: moderate temperature and a
// fixed output budget.
const (
	promptTemperature = 0.7
	promptMaxTokens   = 500
)

// Suite names accepted by the audit engine.
const (
	SuiteCensorship  = "censorship"
	SuiteBias        = "bias"
	SuiteSideChannel = "sidechannel"
	SuiteEdgeCases   = "edge-cases"
)

// Valid returns the fixed set of runnable suite names, in run order.
func Valid() []string {
	return []string{SuiteCensorship, SuiteBias, SuiteSideChannel, SuiteEdgeCases}
}

// IsValid reports whether name is a runnable suite.
func IsValid(name string) bool {
	for _, s := range Valid() {
		if s == name {
			return true
		}
	}
	return false
}

// Options tunes runner pacing. Pacing is a rate-limit courtesy to upstream
// providers, not a correctness requirement.
type Options struct {
	// PromptDelay is the pause between individual prompt calls.
	PromptDelay time.Duration
	// ProbeDelay is the pause between successive side-channel probes.
	ProbeDelay time.Duration
}

// DefaultOptions returns the default pacing.
func DefaultOptions() Options {
	return Options{
		PromptDelay: 500 * time.Millisecond,
		ProbeDelay:  time.Second,
	}
}

// SuiteError wraps a whole-runner failure: the runner threw before
// producing any result.
type SuiteError struct {
	Suite string
	Err   error
}

func (e *SuiteError) Error() string {
	return fmt.Sprintf("suite %s failed: %v", e.Suite, e.Err)
}

func (e *SuiteError) Unwrap() error { return e.Err }

// pause sleeps for d unless the context ends first.
func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
