// Package qerrors defines the error taxonomy shared across the sieve
// pipeline. Every failure mode named in the design is a Kind; callers that
// need to branch on failure type recover it with KindOf rather than string
// matching.
package qerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure so callers can decide whether to count-and-skip
// or abort the run.
type Kind int

const (
	// Unknown is returned by KindOf for errors this package didn't produce.
	Unknown Kind = iota
	InvalidArgument
	ParseError
	ArithmeticInconsistency
	Inconsistent
	FactorizationFailed
	IOFailure
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case ParseError:
		return "ParseError"
	case ArithmeticInconsistency:
		return "ArithmeticInconsistency"
	case Inconsistent:
		return "Inconsistent"
	case FactorizationFailed:
		return "FactorizationFailed"
	case IOFailure:
		return "IOFailure"
	default:
		return "Unknown"
	}
}

// kindError carries a Kind alongside the wrapped cause.
type kindError struct {
	kind  Kind
	cause error
}

func (e *kindError) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.cause)
}

func (e *kindError) Unwrap() error { return e.cause }

// New creates an error of the given kind with a plain message.
func New(kind Kind, msg string) error {
	return &kindError{kind: kind, cause: errors.New(msg)}
}

// Wrap attaches a kind to an existing cause, preserving its stack via
// pkg/errors.
func Wrap(kind Kind, cause error, msg string) error {
	if cause == nil {
		return nil
	}
	return &kindError{kind: kind, cause: errors.Wrap(cause, msg)}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(kind Kind, cause error, format string, args ...interface{}) error {
	if cause == nil {
		return nil
	}
	return &kindError{kind: kind, cause: errors.Wrapf(cause, format, args...)}
}

// KindOf walks the error chain looking for a Kind this package attached.
// Returns Unknown if none is found.
func KindOf(err error) Kind {
	for err != nil {
		if ke, ok := err.(*kindError); ok {
			return ke.kind
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

// Is reports whether err carries the given Kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
