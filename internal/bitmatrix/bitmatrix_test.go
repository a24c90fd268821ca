package bitmatrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordable/mapreduce-integer-factorization/internal/qerrors"
)

func fromBits(t *testing.T, rows [][]int) *BitMatrix {
	t.Helper()
	m, err := New(len(rows), len(rows[0]))
	require.NoError(t, err)
	for i, row := range rows {
		for j, v := range row {
			m.Set(i, j, v)
		}
	}
	return m
}

func TestGetSet(t *testing.T) {
	m, err := New(2, 40) // spans more than one word
	require.NoError(t, err)
	m.Set(0, 0, 1)
	m.Set(0, 39, 1)
	m.Set(1, 20, 1)

	assert.Equal(t, 1, m.Get(0, 0))
	assert.Equal(t, 1, m.Get(0, 39))
	assert.Equal(t, 1, m.Get(1, 20))
	assert.Equal(t, 0, m.Get(0, 1))
	assert.Equal(t, 0, m.Get(1, 0))
}

func TestNew_RejectsZeroSize(t *testing.T) {
	_, err := New(0, 1)
	require.Error(t, err)
	assert.Equal(t, qerrors.InvalidArgument, qerrors.KindOf(err))

	_, err = New(1, 0)
	require.Error(t, err)
}

func TestTranspose(t *testing.T) {
	m := fromBits(t, [][]int{
		{1, 0, 1},
		{0, 1, 1},
	})
	tr, err := m.Transpose()
	require.NoError(t, err)
	require.Equal(t, 3, tr.Rows())
	require.Equal(t, 2, tr.Columns())

	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Columns(); j++ {
			assert.Equal(t, m.Get(i, j), tr.Get(j, i))
		}
	}
}

func TestExchangeRows(t *testing.T) {
	m := fromBits(t, [][]int{
		{1, 1, 0, 1},
		{0, 0, 1, 1},
	})
	m.ExchangeRows(0, 1, 0)
	assert.Equal(t, 0, m.Get(0, 0))
	assert.Equal(t, 0, m.Get(0, 1))
	assert.Equal(t, 1, m.Get(0, 2))
	assert.Equal(t, 1, m.Get(0, 3))
	assert.Equal(t, 1, m.Get(1, 0))
	assert.Equal(t, 1, m.Get(1, 1))
	assert.Equal(t, 0, m.Get(1, 2))
	assert.Equal(t, 1, m.Get(1, 3))
}

func TestExchangeRows_PartialFromColumn(t *testing.T) {
	m := fromBits(t, [][]int{
		{1, 1, 0, 1},
		{0, 0, 1, 1},
	})
	// Only columns [2, 4) should swap; column 0,1 untouched.
	m.ExchangeRows(0, 1, 2)
	assert.Equal(t, 1, m.Get(0, 0))
	assert.Equal(t, 1, m.Get(0, 1))
	assert.Equal(t, 1, m.Get(0, 2))
	assert.Equal(t, 1, m.Get(0, 3))
	assert.Equal(t, 0, m.Get(1, 0))
	assert.Equal(t, 0, m.Get(1, 1))
	assert.Equal(t, 0, m.Get(1, 2))
	assert.Equal(t, 1, m.Get(1, 3))
}

func TestReduceRow(t *testing.T) {
	m := fromBits(t, [][]int{
		{1, 1, 0},
		{1, 0, 1},
	})
	m.ReduceRow(0, 1, 0)
	assert.Equal(t, 0, m.Get(1, 0))
	assert.Equal(t, 1, m.Get(1, 1))
	assert.Equal(t, 1, m.Get(1, 2))
}

func TestReduceRow_NoOpWhenLeadingBitZero(t *testing.T) {
	m := fromBits(t, [][]int{
		{1, 1, 0},
		{0, 1, 1},
	})
	m.ReduceRow(0, 1, 0)
	assert.Equal(t, 0, m.Get(1, 0))
	assert.Equal(t, 1, m.Get(1, 1))
	assert.Equal(t, 1, m.Get(1, 2))
}

// TestSolve_KnownSystem solves [[1,1,0,1],[0,1,1,0],[0,0,1,1]] with empty
// indeterminates and expects (0,1,1).
func TestSolve_KnownSystem(t *testing.T) {
	m := fromBits(t, [][]int{
		{1, 1, 0, 1},
		{0, 1, 1, 0},
		{0, 0, 1, 1},
	})
	res, err := m.Solve(nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1}, res)
}

func TestSolve_Soundness(t *testing.T) {
	// A·v = aug must hold for every row, re-derived from a fresh copy
	// since Solve mutates m in place during elimination.
	original := [][]int{
		{1, 1, 0, 1},
		{0, 1, 1, 0},
		{0, 0, 1, 1},
	}
	m := fromBits(t, original)
	res, err := m.Solve([]int{1})
	require.NoError(t, err)

	check := fromBits(t, original)
	for i := 0; i < check.Rows(); i++ {
		sum := 0
		for j := 0; j < len(res); j++ {
			sum ^= check.Get(i, j) & res[j]
		}
		assert.Equalf(t, check.Get(i, check.Columns()-1), sum, "row %d", i)
	}
}

func TestStringParse_RoundTrip(t *testing.T) {
	m := fromBits(t, [][]int{
		{0, 0, 1, 0},
		{1, 1, 0, 0},
		{0, 0, 1, 1},
	})
	s := m.String()
	assert.Equal(t, "[0010]\n[1100]\n[0011]\n", s)

	back, err := Parse(s)
	require.NoError(t, err)
	require.Equal(t, m.Rows(), back.Rows())
	require.Equal(t, m.Columns(), back.Columns())
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Columns(); j++ {
			assert.Equal(t, m.Get(i, j), back.Get(i, j))
		}
	}
}

func TestParse_InvalidCharacter(t *testing.T) {
	_, err := Parse("[001x]\n")
	require.Error(t, err)
	assert.Equal(t, qerrors.ParseError, qerrors.KindOf(err))
}

func TestParse_RowLengthMismatch(t *testing.T) {
	_, err := Parse("[001]\n[01]\n")
	require.Error(t, err)
	assert.Equal(t, qerrors.ParseError, qerrors.KindOf(err))
}

func TestSolve_Inconsistent(t *testing.T) {
	// Row 1 is all zero in the coefficient columns but has a 1 in the
	// augmented column: no assignment can satisfy it.
	m := fromBits(t, [][]int{
		{1, 0, 0, 0},
		{0, 0, 0, 1},
	})
	_, err := m.Solve(nil)
	require.Error(t, err)
	assert.Equal(t, qerrors.Inconsistent, qerrors.KindOf(err))
}
