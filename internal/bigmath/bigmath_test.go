package bigmath

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordable/mapreduce-integer-factorization/internal/qerrors"
)

func TestSqrt(t *testing.T) {
	cases := []struct {
		a    int64
		want int64
	}{
		{0, 0},
		{1, 1},
		{16, 4},
		{17, 4},
		{24, 4},
		{25, 5},
		{5959, 77},
		{1000000, 1000},
	}

	for _, c := range cases {
		got, err := Sqrt(big.NewInt(c.a))
		require.NoError(t, err)
		assert.Equalf(t, big.NewInt(c.want), got, "sqrt(%d)", c.a)
	}
}

func TestSqrt_Invariant(t *testing.T) {
	for _, a := range []int64{0, 1, 2, 3, 10, 99, 1023, 123456789} {
		N := big.NewInt(a)
		q, err := Sqrt(N)
		require.NoError(t, err)

		qSq := new(big.Int).Mul(q, q)
		assert.LessOrEqualf(t, qSq.Cmp(N), 0, "sqrt(%d)^2 should be <= %d", a, a)

		qPlus1 := new(big.Int).Add(q, big.NewInt(1))
		qPlus1Sq := new(big.Int).Mul(qPlus1, qPlus1)
		assert.Greaterf(t, qPlus1Sq.Cmp(N), 0, "(sqrt(%d)+1)^2 should be > %d", a, a)
	}
}

func TestSqrt_NegativeIsInvalidArgument(t *testing.T) {
	_, err := Sqrt(big.NewInt(-1))
	require.Error(t, err)
	assert.Equal(t, qerrors.InvalidArgument, qerrors.KindOf(err))
}

func TestIsSquare(t *testing.T) {
	yes := []int64{0, 1, 4, 9, 16, 25, 5041}
	no := []int64{2, 3, 5, 17, 24, 26}

	for _, a := range yes {
		got, err := IsSquare(big.NewInt(a))
		require.NoError(t, err)
		assert.Truef(t, got, "%d should be square", a)
	}
	for _, a := range no {
		got, err := IsSquare(big.NewInt(a))
		require.NoError(t, err)
		assert.Falsef(t, got, "%d should not be square", a)
	}
}

func TestIsPrimeTrial(t *testing.T) {
	primes := []int64{2, 3, 5, 7, 11, 13, 97, 7919}
	composites := []int64{1, 4, 6, 8, 9, 100, 7921}

	for _, p := range primes {
		assert.Truef(t, IsPrimeTrial(big.NewInt(p)), "%d should be prime", p)
	}
	for _, c := range composites {
		assert.Falsef(t, IsPrimeTrial(big.NewInt(c)), "%d should not be prime", c)
	}
}

func TestGCD(t *testing.T) {
	got := GCD(big.NewInt(5959), big.NewInt(59))
	assert.Equal(t, big.NewInt(59), got)

	got = GCD(big.NewInt(17), big.NewInt(5))
	assert.Equal(t, big.NewInt(1), got)
}
