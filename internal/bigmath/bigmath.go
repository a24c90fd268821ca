// Package bigmath contains the big-integer utilities the rest of the sieve
// relies on: floor square root, perfect-square testing, and the naive
// primality test used for factor-base construction.
package bigmath

import (
	"math/big"

	"github.com/tordable/mapreduce-integer-factorization/internal/qerrors"
)

// decimalScale is the fixed-point precision used while iterating Newton's
// method for Sqrt. half-even rounding to this many places keeps the
// adjustment term from oscillating once it drops below 1.
const decimalScale = 10

var (
	big0 = big.NewInt(0)
	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
)

// Sqrt returns floor(sqrt(a)) for a >= 0. It seeds the Newton iteration from
// 2^(bitlen(a)/2) and iterates q <- q + (a - q^2)/(2q) in fixed-precision
// rationals until the adjustment's absolute value is <= 1.
func Sqrt(a *big.Int) (*big.Int, error) {
	if a.Sign() < 0 {
		return nil, qerrors.New(qerrors.InvalidArgument, "sqrt: negative argument")
	}
	if a.Sign() == 0 {
		return big.NewInt(0), nil
	}

	estimate := new(big.Int).Lsh(big1, uint(a.BitLen()/2))

	square := new(big.Rat).SetInt(a)
	solution := new(big.Rat).SetInt(estimate)
	two := new(big.Rat).SetInt(big2)

	for {
		solutionSq := new(big.Rat).Mul(solution, solution)
		adjustment := new(big.Rat).Sub(square, solutionSq)
		adjustment.Quo(adjustment, solution)
		adjustment.Quo(adjustment, two)
		adjustment = roundHalfEven(adjustment, decimalScale)

		solution.Add(solution, adjustment)

		if withinUnit(adjustment) {
			break
		}
	}

	q := new(big.Int).Quo(solution.Num(), solution.Denom())

	// The fixed-precision iteration above stops as soon as the adjustment's
	// magnitude drops to <= 1, which can leave q one unit away from the true
	// floor. Nudge it back onto q^2 <= a < (q+1)^2.
	for {
		next := new(big.Int).Add(q, big1)
		if new(big.Int).Mul(next, next).Cmp(a) <= 0 {
			q = next
			continue
		}
		break
	}
	for q.Sign() > 0 && new(big.Int).Mul(q, q).Cmp(a) > 0 {
		q.Sub(q, big1)
	}

	return q, nil
}

// withinUnit reports whether |r| <= 1.
func withinUnit(r *big.Rat) bool {
	abs := new(big.Rat).Abs(r)
	one := big.NewRat(1, 1)
	return abs.Cmp(one) <= 0
}

// roundHalfEven rounds r to `scale` decimal digits using round-half-to-even,
// mirroring java.math.BigDecimal's HALF_EVEN mode used by the reference
// implementation this algorithm is ported from.
func roundHalfEven(r *big.Rat, scale int) *big.Rat {
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)
	scaled := new(big.Rat).Mul(r, new(big.Rat).SetInt(pow))

	num := scaled.Num()
	den := scaled.Denom()

	quot, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	twiceRem := new(big.Int).Mul(rem, big2)
	twiceRem.Abs(twiceRem)

	cmp := twiceRem.Cmp(den)
	roundUp := false
	switch {
	case cmp > 0:
		roundUp = true
	case cmp == 0:
		// Exactly halfway: round to even.
		roundUp = quot.Bit(0) == 1
	}
	if roundUp {
		if rem.Sign() >= 0 {
			quot.Add(quot, big1)
		} else {
			quot.Sub(quot, big1)
		}
	}

	result := new(big.Rat).SetFrac(quot, pow)
	return result
}

// IsSquare reports whether a is a non-negative perfect square.
func IsSquare(a *big.Int) (bool, error) {
	if a.Sign() < 0 {
		return false, nil
	}
	root, err := Sqrt(a)
	if err != nil {
		return false, err
	}
	squared := new(big.Int).Mul(root, root)
	return squared.Cmp(a) == 0, nil
}

// IsPrimeTrial trial-divides a by every integer in [2, a-1]. It is used only
// for factor-base construction, where candidates stay small (a few hundred
// thousand at most for the target sizes), so quadratic behavior is
// acceptable.
func IsPrimeTrial(a *big.Int) bool {
	if a.Cmp(big2) < 0 {
		return false
	}
	i := new(big.Int).Set(big2)
	rem := new(big.Int)
	for i.Cmp(a) < 0 {
		rem.Rem(a, i)
		if rem.Sign() == 0 {
			return false
		}
		i.Add(i, big1)
	}
	return true
}

// GCD delegates to math/big's GCD implementation, per the design's
// instruction not to reinvent Euclid's algorithm.
func GCD(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
}
