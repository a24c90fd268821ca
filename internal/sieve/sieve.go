// Package sieve performs the smoothness sieve: per shard, it reduces each
// entry's residue by repeated division by factor-base primes and emits the
// subset whose residue collapses to +-1.
package sieve

import (
	"math/big"

	"github.com/tordable/mapreduce-integer-factorization/internal/factorbase"
	"github.com/tordable/mapreduce-integer-factorization/internal/sievearray"
)

var big1 = big.NewInt(1)

// FirstMultipleIndex locates a start offset for sieving p within array.
// solutionIndex selects which of the (up to two) roots of x^2 = N (mod p)
// to return: 0 for the first index i with p | evals[i], 1 for the second
// one, unless the two candidates fall in the same residue class mod p (in
// which case the first is returned again). Returns -1 if no such index
// exists.
func FirstMultipleIndex(p *big.Int, array *sievearray.SieveArray, solutionIndex int) int {
	first := -1
	i := 0
	for ; i < array.Len(); i++ {
		rem := new(big.Int).Mod(array.Evals[i], p)
		if rem.Sign() == 0 {
			first = i
			break
		}
	}

	if solutionIndex == 0 {
		return first
	}
	if first == -1 {
		return -1
	}

	second := -1
	for j := i + 1; j < array.Len(); j++ {
		rem := new(big.Int).Mod(array.Evals[j], p)
		if rem.Sign() == 0 {
			second = j
			break
		}
	}
	if second == -1 {
		return -1
	}

	diff := big.NewInt(int64(second - first))
	if new(big.Int).Mod(diff, p).Sign() == 0 {
		// Same solution class as the first root; nothing new to sieve.
		return first
	}
	return second
}

// Sieve reduces every residue in array by repeated division by each prime
// in factorBase (both roots, per FirstMultipleIndex), and returns the
// subset whose residue collapsed to exactly +-1 — the smooth relations.
func Sieve(array *sievearray.SieveArray, fb *factorbase.FactorBase) *sievearray.SieveArray {
	n := array.Len()
	quotients := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		quotients[i] = new(big.Int).Set(array.Evals[i])
	}

	for fi := 0; fi < fb.Len(); fi++ {
		p := fb.At(fi)
		if p.Sign() == 0 {
			continue
		}
		// p larger than the shard can't recur within it; math/big ints
		// always fit the stride computation below since we only use p's
		// int64 value as a loop stride, never as the modulus itself.
		stride := p.Int64()

		for solution := 0; solution < 2; solution++ {
			start := FirstMultipleIndex(p, array, solution)
			if start == -1 {
				continue
			}
			for j := int64(start); j < int64(n); j += stride {
				q := quotients[j]
				for new(big.Int).Mod(q, p).Sign() == 0 {
					q = new(big.Int).Div(q, p)
				}
				quotients[j] = q
			}
		}
	}

	result := sievearray.New()
	for i := 0; i < n; i++ {
		abs := new(big.Int).Abs(quotients[i])
		if abs.Cmp(big1) == 0 {
			result.Append(array.Ints[i], array.Evals[i])
		}
	}
	return result
}
