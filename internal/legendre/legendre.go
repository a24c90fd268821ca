// Package legendre computes the Legendre symbol (a/p) for odd prime p via
// Euler's criterion.
package legendre

import (
	"math/big"

	"github.com/tordable/mapreduce-integer-factorization/internal/qerrors"
)

var (
	big1 = big.NewInt(1)
	big2 = big.NewInt(2)
)

// Symbol returns (a/p) in {-1, 0, 1} for p an odd prime. It returns 0 when
// p divides a. Any other residue of Euler's criterion indicates p is not
// actually prime, or misuse of the function, and is reported as
// ArithmeticInconsistency.
func Symbol(a, p *big.Int) (int, error) {
	rem := new(big.Int).Mod(a, p)
	if rem.Sign() == 0 {
		return 0, nil
	}

	exponent := new(big.Int).Sub(p, big1)
	exponent.Div(exponent, big2)

	result := new(big.Int).Exp(a, exponent, p) // 1 <= result <= p-1

	pMinus1 := new(big.Int).Sub(p, big1)
	switch {
	case result.Cmp(big1) == 0:
		return 1, nil
	case result.Cmp(pMinus1) == 0:
		return -1, nil
	default:
		return 0, qerrors.New(qerrors.ArithmeticInconsistency,
			"legendre: euler criterion residue outside {1, p-1}, p is likely not prime")
	}
}
