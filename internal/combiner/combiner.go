// Package combiner performs the single-worker combine phase: it builds the
// GF(2) exponent-parity matrix from all smooth relations, walks candidate
// kernel vectors, forms a congruence of squares, and extracts a factor of
// N by GCD.
package combiner

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/tordable/mapreduce-integer-factorization/internal/bigmath"
	"github.com/tordable/mapreduce-integer-factorization/internal/bitmatrix"
	"github.com/tordable/mapreduce-integer-factorization/internal/factorbase"
	"github.com/tordable/mapreduce-integer-factorization/internal/qerrors"
	"github.com/tordable/mapreduce-integer-factorization/internal/sievearray"
	"github.com/tordable/mapreduce-integer-factorization/internal/telemetry"
)

// DefaultMaxMaskAttempts bounds the kernel walk in Combine when the caller
// doesn't override it.
const DefaultMaxMaskAttempts = 1_000_000

// smoothFactor returns the exponent of each factor-base prime in a's
// decomposition. a is assumed smooth over fb (guaranteed by the sieve
// phase), so this always terminates with an exact decomposition.
func smoothFactor(a *big.Int, fb *factorbase.FactorBase) []int {
	exponents := make([]int, fb.Len())
	for i := 0; i < fb.Len(); i++ {
		p := fb.At(i)
		power := new(big.Int).Set(p)
		for new(big.Int).Mod(a, power).Sign() == 0 {
			exponents[i]++
			power.Mul(power, p)
		}
	}
	return exponents
}

// buildSystemMatrix builds the rows x (len(relations)+1) augmented matrix
// whose column j holds the mod-2 exponent vector of relations[j]'s eval;
// the last column (the augmented/independent term) stays zero.
func buildSystemMatrix(relations *sievearray.SieveArray, fb *factorbase.FactorBase) (*bitmatrix.BitMatrix, error) {
	rows := fb.Len()
	columns := relations.Len() + 1
	m, err := bitmatrix.New(rows, columns)
	if err != nil {
		return nil, err
	}
	for j := 0; j < relations.Len(); j++ {
		exponents := smoothFactor(relations.Evals[j], fb)
		for i := 0; i < rows; i++ {
			m.Set(i, j, exponents[i]%2)
		}
	}
	return m, nil
}

// indeterminatesFromMask converts mask's low bits into the free-variable
// assignment vector the solver expects (low bit -> first free variable).
func indeterminatesFromMask(mask int) []int {
	if mask == 0 {
		return []int{0}
	}
	var bits []int
	for v := mask; v != 0; v >>= 1 {
		bits = append(bits, v&1)
	}
	return bits
}

// findSquare solves the system for the given mask and returns the subset
// of relations whose product is a perfect square, or nil if that subset
// turns out not to be square (a sign of a degenerate selection, not a
// bug in the solver).
func findSquare(relations *sievearray.SieveArray, fb *factorbase.FactorBase, mask int, logger *zap.SugaredLogger) (*sievearray.SieveArray, error) {
	system, err := buildSystemMatrix(relations, fb)
	if err != nil {
		return nil, err
	}
	selection, err := system.Solve(indeterminatesFromMask(mask))
	if err != nil {
		return nil, err
	}

	squareFactors := sievearray.New()
	product := big.NewInt(1)
	for i, bit := range selection {
		if bit != 1 {
			continue
		}
		squareFactors.Append(relations.Ints[i], relations.Evals[i])
		product.Mul(product, relations.Evals[i])
	}

	isSquare, err := bigmath.IsSquare(product)
	if err != nil {
		return nil, err
	}
	if !isSquare {
		logger.Warnw("selected relation product is not a perfect square, skipping",
			"mask", mask, "count", squareFactors.Len())
		return nil, nil
	}
	return squareFactors, nil
}

// tryFactor attempts to extract a non-trivial factor of N from the
// congruence of squares formed by squareFactors.
func tryFactor(N *big.Int, squareFactors *sievearray.SieveArray) (*big.Int, error) {
	productInts := big.NewInt(1)
	productEvals := big.NewInt(1)
	for i := 0; i < squareFactors.Len(); i++ {
		productInts.Mul(productInts, squareFactors.Ints[i])
		productEvals.Mul(productEvals, squareFactors.Evals[i])
	}

	root, err := bigmath.Sqrt(productEvals)
	if err != nil {
		return nil, err
	}

	diff := new(big.Int).Sub(root, productInts)
	if f := bigmath.GCD(N, diff); f.Cmp(big.NewInt(1)) != 0 && f.Cmp(N) != 0 {
		return f, nil
	}

	sum := new(big.Int).Add(root, productInts)
	if f := bigmath.GCD(N, sum); f.Cmp(big.NewInt(1)) != 0 && f.Cmp(N) != 0 {
		return f, nil
	}

	return nil, nil
}

// Combine aggregates the smooth relations emitted by every shard, and
// tries candidate kernel masks (starting at 1; mask 0 is usually the
// homogeneous solution) up to maxMaskAttempts, returning the first
// non-trivial factor pair found.
func Combine(N *big.Int, relations *sievearray.SieveArray, fb *factorbase.FactorBase, maxMaskAttempts int, counters *telemetry.Counters, logger *zap.SugaredLogger) (f1, f2 *big.Int, err error) {
	for mask := 1; mask <= maxMaskAttempts; mask++ {
		squareFactors, ferr := findSquare(relations, fb, mask, logger)
		if ferr != nil {
			if qerrors.Is(ferr, qerrors.Inconsistent) {
				counters.Inc(telemetry.UnableToSolveSystem)
				logger.Warnw("kernel solve reported an inconsistent system", "mask", mask, "err", ferr)
				continue
			}
			return nil, nil, ferr
		}
		if squareFactors == nil {
			continue
		}

		factor, terr := tryFactor(N, squareFactors)
		if terr != nil {
			return nil, nil, terr
		}
		if factor == nil {
			counters.Inc(telemetry.CantFactor)
			continue
		}

		other := new(big.Int).Div(N, factor)
		return factor, other, nil
	}

	return nil, nil, qerrors.New(qerrors.FactorizationFailed,
		"combiner: exhausted mask budget without finding a non-trivial factor")
}
