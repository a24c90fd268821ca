// Package bitmatrix implements a dense GF(2) matrix, word-packed for
// compact storage and fast row operations, plus a full-pivoting
// Gauss-Jordan solver over the kernel. Every system in the quadratic sieve
// is solved here; no floating-point or wide-integer arithmetic is used
// anywhere in this package, since rounding would silently corrupt parity.
package bitmatrix

import (
	"fmt"
	"strings"

	"github.com/tordable/mapreduce-integer-factorization/internal/qerrors"
)

const (
	wordSize         = 32
	wordShift        = 5
	displacementMask = wordSize - 1
)

// BitMatrix is a dense rows x columns matrix over GF(2), packed row-major
// into uint32 words. All access goes through Get/Set; callers never see
// the word layout directly.
type BitMatrix struct {
	rows, columns int
	words         [][]uint32
}

// New allocates a zeroed rows x columns matrix.
func New(rows, columns int) (*BitMatrix, error) {
	if rows < 1 || columns < 1 {
		return nil, qerrors.New(qerrors.InvalidArgument, "bitmatrix: rows and columns must be >= 1")
	}
	wordCols := columns / wordSize
	if columns%wordSize != 0 {
		wordCols++
	}
	words := make([][]uint32, rows)
	for i := range words {
		words[i] = make([]uint32, wordCols)
	}
	return &BitMatrix{rows: rows, columns: columns, words: words}, nil
}

// Rows returns the row count.
func (m *BitMatrix) Rows() int { return m.rows }

// Columns returns the column count.
func (m *BitMatrix) Columns() int { return m.columns }

// Get returns the bit at (row, column), 0 or 1.
func (m *BitMatrix) Get(row, column int) int {
	wordCol := column >> wordShift
	word := m.words[row][wordCol]
	disp := uint(column & displacementMask)
	return int((word >> disp) & 1)
}

// Set writes v (0 or 1, only the low bit is honored) at (row, column).
func (m *BitMatrix) Set(row, column, v int) {
	wordCol := column >> wordShift
	disp := uint(column & displacementMask)
	if v&1 == 0 {
		m.words[row][wordCol] &^= 1 << disp
	} else {
		m.words[row][wordCol] |= 1 << disp
	}
}

// Transpose returns a new columns x rows matrix that is the transpose of m.
func (m *BitMatrix) Transpose() (*BitMatrix, error) {
	result, err := New(m.columns, m.rows)
	if err != nil {
		return nil, err
	}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.columns; j++ {
			result.Set(j, i, m.Get(i, j))
		}
	}
	return result, nil
}

// ExchangeRows swaps rows a and b in columns [firstCol, columns), word-wise,
// masking the partially touched leading word.
func (m *BitMatrix) ExchangeRows(a, b, firstCol int) {
	wordCol := firstCol >> wordShift
	disp := uint(firstCol & displacementMask)
	mask := uint32(0xFFFFFFFF) << disp

	rowA := m.words[a]
	rowB := m.words[b]

	firstA := rowA[wordCol]
	firstB := rowB[wordCol]
	keepA := firstA &^ mask
	keepB := firstB &^ mask
	rowA[wordCol] = keepA | (firstB & mask)
	rowB[wordCol] = keepB | (firstA & mask)

	for i := wordCol + 1; i < len(rowA); i++ {
		rowA[i], rowB[i] = rowB[i], rowA[i]
	}
}

// ReduceRow XORs pivotRow into target, word-wise from firstCol onward, but
// only if target already has a 1 at firstCol (otherwise it's already
// reduced and this is a no-op).
func (m *BitMatrix) ReduceRow(pivotRow, target, firstCol int) {
	if m.Get(target, firstCol) != 1 {
		return
	}
	wordCol := firstCol >> wordShift
	pivot := m.words[pivotRow]
	row := m.words[target]
	for i := wordCol; i < len(row); i++ {
		row[i] ^= pivot[i]
	}
}

// reduceToTriangular performs Gauss-Jordan elimination with full pivoting
// on columns [0, columns-1) (the last column, the augmented vector, is
// never permuted). It returns the permutation applied to the variable
// columns (perm[newPos] = originalPos) and the rank.
func (m *BitMatrix) reduceToTriangular() (perm []int, rank int) {
	maxColumn := m.columns - 1 // never touch the augmented column

	perm = make([]int, maxColumn)
	for i := range perm {
		perm[i] = i
	}

	r, c := 0, 0
	for r < m.rows && c < maxColumn {
		pivotRow, pivotCol, found := -1, -1, false
		for i := r; i < m.rows && !found; i++ {
			for j := c; j < maxColumn && !found; j++ {
				if m.Get(i, j) == 1 {
					pivotRow, pivotCol, found = i, j, true
				}
			}
		}
		if !found {
			break
		}

		if pivotRow != r {
			m.ExchangeRows(pivotRow, r, c)
		}
		if pivotCol != c {
			for k := 0; k < m.rows; k++ {
				a, b := m.Get(k, c), m.Get(k, pivotCol)
				m.Set(k, c, b)
				m.Set(k, pivotCol, a)
			}
			perm[c], perm[pivotCol] = perm[pivotCol], perm[c]
		}

		for i := r + 1; i < m.rows; i++ {
			m.ReduceRow(r, i, c)
		}

		r++
		c++
	}

	rank = 0
	for i := 0; i < m.rows && i < m.columns; i++ {
		if m.Get(i, i) != 0 {
			rank++
		}
	}
	return perm, rank
}

// Solve solves the GF(2) linear system encoded by m (the last column is the
// augmented vector), assigning indeterminates[i] to the i-th free variable
// (low index first) and 0 to any free variable beyond len(indeterminates).
// It returns the full solution vector, length columns-1, in the original
// variable ordering.
func (m *BitMatrix) Solve(indeterminates []int) ([]int, error) {
	perm, rank := m.reduceToTriangular()

	lastCol := m.columns - 1
	for i := rank; i < m.rows; i++ {
		if m.Get(i, lastCol) == 1 {
			return nil, qerrors.New(qerrors.Inconsistent,
				"bitmatrix: augmented system has higher rank than coefficient system")
		}
	}

	numVars := m.columns - 1
	res := make([]int, numVars)
	for i := rank; i < numVars; i++ {
		if i-rank < len(indeterminates) {
			res[i] = indeterminates[i-rank] & 1
		} else {
			res[i] = 0
		}
	}

	for i := rank - 1; i >= 0; i-- {
		otherFactors := 0
		for j := i + 1; j < numVars; j++ {
			otherFactors ^= m.Get(i, j) & res[j]
		}
		res[i] = m.Get(i, lastCol) ^ otherFactors
	}

	// Un-permute: perm[newPos] = oldPos after the column swaps above, so
	// walk positions and swap values back into their original slots.
	for newPos := 0; newPos < numVars; newPos++ {
		oldPos := -1
		for k, p := range perm {
			if p == newPos {
				oldPos = k
				break
			}
		}
		if oldPos != newPos && oldPos != -1 {
			res[oldPos], res[newPos] = res[newPos], res[oldPos]
			perm[oldPos], perm[newPos] = perm[newPos], perm[oldPos]
		}
	}

	return res, nil
}

// String renders the matrix as bracketed, newline-separated rows of '0'/'1'
// characters, e.g. "[0010]\n[1100]\n[0011]\n".
func (m *BitMatrix) String() string {
	var b strings.Builder
	for i := 0; i < m.rows; i++ {
		b.WriteByte('[')
		for j := 0; j < m.columns; j++ {
			if m.Get(i, j) == 1 {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		b.WriteByte(']')
		b.WriteByte('\n')
	}
	return b.String()
}

// Parse reconstructs a BitMatrix from the format produced by String. Empty
// splits (the separators between rows) are ignored; all non-empty row
// strings must share the same length; any character other than '0'/'1'
// fails with ParseError.
func Parse(s string) (*BitMatrix, error) {
	lines := strings.FieldsFunc(s, func(r rune) bool {
		return r == '[' || r == ']' || r == '\n'
	})
	var rows []string
	for _, l := range lines {
		if l != "" {
			rows = append(rows, l)
		}
	}
	if len(rows) == 0 {
		return nil, qerrors.New(qerrors.ParseError, "bitmatrix: no rows found")
	}

	columns := len(rows[0])
	for i, row := range rows {
		if len(row) != columns {
			return nil, qerrors.New(qerrors.ParseError,
				fmt.Sprintf("bitmatrix: row %d does not have the same length as row 0", i))
		}
	}

	m, err := New(len(rows), columns)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		for j, ch := range row {
			switch ch {
			case '0':
				m.Set(i, j, 0)
			case '1':
				m.Set(i, j, 1)
			default:
				return nil, qerrors.New(qerrors.ParseError,
					"bitmatrix: invalid character at row/column, expected '0' or '1'")
			}
		}
	}
	return m, nil
}
