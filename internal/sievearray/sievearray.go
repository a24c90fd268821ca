// Package sievearray holds the paired (x, x^2-N) sequences that flow
// through every stage of the pipeline: the full sieve interval, each
// shard, and the concatenated set of smooth relations.
package sievearray

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/tordable/mapreduce-integer-factorization/internal/qerrors"
)

// SieveArray is a pair of equal-length sequences: Ints[i] is the candidate
// x, Evals[i] is x^2 - N. The two slices are never reordered independently.
type SieveArray struct {
	Ints  []*big.Int
	Evals []*big.Int
}

// New returns an empty SieveArray.
func New() *SieveArray {
	return &SieveArray{}
}

// FromSlices builds a SieveArray from equal-length integer and evaluation
// slices.
func FromSlices(ints, evals []*big.Int) (*SieveArray, error) {
	if len(ints) != len(evals) {
		return nil, qerrors.New(qerrors.InvalidArgument, "sievearray: ints and evals must have the same length")
	}
	return &SieveArray{Ints: ints, Evals: evals}, nil
}

// Len returns the number of (x, eval) pairs.
func (s *SieveArray) Len() int { return len(s.Ints) }

// Append adds a single (x, eval) pair.
func (s *SieveArray) Append(x, eval *big.Int) {
	s.Ints = append(s.Ints, x)
	s.Evals = append(s.Evals, eval)
}

// AppendArray concatenates another SieveArray onto the end of this one.
func (s *SieveArray) AppendArray(other *SieveArray) {
	s.Ints = append(s.Ints, other.Ints...)
	s.Evals = append(s.Evals, other.Evals...)
}

// Serialize renders the array as "[[x0,e0],[x1,e1],...]"; the empty array
// serializes to "[]".
func (s *SieveArray) Serialize() string {
	if s.Len() == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < s.Len(); i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('[')
		b.WriteString(s.Ints[i].String())
		b.WriteByte(',')
		b.WriteString(s.Evals[i].String())
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}

// Deserialize parses the double-bracket wrapped form produced by Serialize.
// The empty array "[]" decodes to a zero-length SieveArray.
func Deserialize(s string) (*SieveArray, error) {
	if s == "[]" {
		return New(), nil
	}
	if !strings.HasPrefix(s, "[[") || !strings.HasSuffix(s, "]]") {
		return nil, qerrors.New(qerrors.ParseError, "sievearray: missing opening or closing bracket wrapper")
	}

	inner := s[1 : len(s)-1]
	pairs := strings.Split(inner, "],[")
	// Split leaves the outer brackets of the first/last element behind;
	// strip them explicitly.
	result := New()
	for i, pair := range pairs {
		pair = strings.TrimPrefix(pair, "[")
		pair = strings.TrimSuffix(pair, "]")
		tokens := strings.Split(pair, ",")
		if len(tokens) != 2 {
			return nil, qerrors.New(qerrors.ParseError, "sievearray: every pair must have exactly two integers")
		}
		x, ok := new(big.Int).SetString(strings.TrimSpace(tokens[0]), 10)
		if !ok {
			return nil, qerrors.New(qerrors.ParseError, "sievearray: invalid integer at pair "+strconv.Itoa(i))
		}
		e, ok := new(big.Int).SetString(strings.TrimSpace(tokens[1]), 10)
		if !ok {
			return nil, qerrors.New(qerrors.ParseError, "sievearray: invalid integer at pair "+strconv.Itoa(i))
		}
		result.Append(x, e)
	}
	return result, nil
}
