// Package telemetry tracks the operator-visible counters: invalid_sieve_array,
// unable_to_output, unable_to_solve_system, and cant_factor.
package telemetry

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// Name identifies one of the well-known counters.
type Name int

const (
	InvalidSieveArray Name = iota
	UnableToOutput
	UnableToSolveSystem
	CantFactor

	numCounters
)

func (n Name) String() string {
	switch n {
	case InvalidSieveArray:
		return "invalid_sieve_array"
	case UnableToOutput:
		return "unable_to_output"
	case UnableToSolveSystem:
		return "unable_to_solve_system"
	case CantFactor:
		return "cant_factor"
	default:
		return "unknown"
	}
}

// Counters is a small fixed set of atomic counters, safe to share across
// sieve-phase goroutines and the single-worker combine phase.
type Counters struct {
	values [numCounters]int64
}

// New returns a zeroed counter set.
func New() *Counters {
	return &Counters{}
}

// Inc increments the named counter by one.
func (c *Counters) Inc(n Name) {
	atomic.AddInt64(&c.values[n], 1)
}

// Get reads the current value of the named counter.
func (c *Counters) Get(n Name) int64 {
	return atomic.LoadInt64(&c.values[n])
}

// LogSummary emits every counter at info level, skipping zero values to
// keep routine-path output quiet.
func (c *Counters) LogSummary(logger *zap.SugaredLogger) {
	for n := Name(0); n < numCounters; n++ {
		if v := c.Get(n); v > 0 {
			logger.Infow("counter", "name", n.String(), "value", v)
		}
	}
}
