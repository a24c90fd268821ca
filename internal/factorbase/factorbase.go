// Package factorbase builds and (de)serializes the factor base: the
// ordered set of primes p with (N/p) in {0, 1} that relations must factor
// over to be considered smooth.
package factorbase

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/tordable/mapreduce-integer-factorization/internal/bigmath"
	"github.com/tordable/mapreduce-integer-factorization/internal/legendre"
	"github.com/tordable/mapreduce-integer-factorization/internal/qerrors"
)

// FactorBase is the frozen, strictly increasing sequence of primes
// broadcast read-only to sieve and combine workers.
type FactorBase struct {
	primes []*big.Int
}

// bigIntComparator orders two *big.Int values for the backing TreeSet, so
// that insertion order never matters and Values() always comes out sorted.
func bigIntComparator(a, b interface{}) int {
	return a.(*big.Int).Cmp(b.(*big.Int))
}

// Size returns the optimal factor-base size B for N:
// B = ceil(exp(sqrt(ln N * ln ln N))^(sqrt(2)/4)).
func Size(N *big.Int) int {
	// N = mant * 2^exp with mant in [0.5, 1), so ln N = ln mant + exp*ln 2.
	mant := new(big.Float)
	exp := new(big.Float).SetInt(N).MantExp(mant)
	m, _ := mant.Float64()
	lnN := math.Log(m) + float64(exp)*math.Ln2
	lnlnN := math.Log(lnN)
	base := math.Exp(math.Sqrt(lnN * lnlnN))
	exponent := math.Sqrt2 / 4
	size := math.Pow(base, exponent)
	return int(math.Ceil(size))
}

// Build constructs the factor base for N: starting from p=2, every prime p
// with (N/p) in {0, 1} is included until the target size is reached. p=2
// is always admitted (the Legendre symbol is undefined there, but
// Symbol's p|a check on an odd N never fires for p=2, so it always passes);
// primes dividing N are also admitted (Symbol returns 0), which can hand
// the combiner an easy factor for free.
func Build(N *big.Int) (*FactorBase, error) {
	target := Size(N)

	set := treeset.NewWith(bigIntComparator)
	p := big.NewInt(2)
	for set.Size() < target {
		if bigmath.IsPrimeTrial(p) {
			// For p=2 the exponent (p-1)/2 is 0, so Symbol returns 1 for odd
			// N (and 0 for even N): p=2 is admitted as a side effect of the
			// formula, not a special case.
			sym, err := legendre.Symbol(N, p)
			if err != nil {
				return nil, err
			}
			if sym == 0 || sym == 1 {
				set.Add(new(big.Int).Set(p))
			}
		}
		p = new(big.Int).Add(p, big.NewInt(1))
	}

	primes := make([]*big.Int, 0, set.Size())
	for _, v := range set.Values() {
		primes = append(primes, v.(*big.Int))
	}
	return &FactorBase{primes: primes}, nil
}

// Len returns the number of primes in the factor base.
func (f *FactorBase) Len() int { return len(f.primes) }

// At returns the prime at index i.
func (f *FactorBase) At(i int) *big.Int { return f.primes[i] }

// Primes returns the underlying slice. Callers must not mutate it; the
// factor base is published read-only once built.
func (f *FactorBase) Primes() []*big.Int { return f.primes }

// Serialize renders the factor base as "[p0,p1,...,p_{B-1}]".
func (f *FactorBase) Serialize() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, p := range f.primes {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Deserialize parses the bracketed, comma-separated form produced by
// Serialize.
func Deserialize(s string) (*FactorBase, error) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, qerrors.New(qerrors.ParseError, "factorbase: missing opening or closing bracket")
	}
	inner := s[1 : len(s)-1]
	if inner == "" {
		return &FactorBase{primes: nil}, nil
	}

	parts := strings.Split(inner, ",")
	primes := make([]*big.Int, 0, len(parts))
	for _, part := range parts {
		n, ok := new(big.Int).SetString(strings.TrimSpace(part), 10)
		if !ok {
			return nil, qerrors.New(qerrors.ParseError, "factorbase: invalid integer token "+strconv.Quote(part))
		}
		primes = append(primes, n)
	}
	return &FactorBase{primes: primes}, nil
}
