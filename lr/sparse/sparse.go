/*
Package sparse implements a simple type for sparse integer matrices.
It is used for the parser tables (GOTO-table and ACTION-table) of the table
generator. Every entry in the table is either a single int32 or a pair
(int32,int32), the latter signalling a conflict.

This implementation uses a row-wise variant of the COO algorithm (a.k.a.
triplet-encoding): every row holds its cells ordered by column.

   https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sparse

import (
	"fmt"
	"sort"
)

// IntMatrix is a type for a sparse matrix of integer values. Construct with
//
//     M := NewIntMatrix(10, 10, -1)  // last parameter is M's null-value
//
// Now
//
//     M.Set(2, 3, 4711)              // set a value
//     v := M.Value(2, 3)             // returns 4711
//     M.Add(2, 3, 123)               // add a second value
//     cnt := M.ValueCount()          // still returns 1 (one position set)
//     v = M.Value(10, 10)            // returns -1, i.e. the null-value
//
// Values cannot be deleted, but may be overwritten with the null-value.
type IntMatrix struct {
	rows    map[int][]cell
	rowcnt  int
	colcnt  int
	count   int
	nullval int32
}

type cell struct {
	col   int
	value intPair
}

// NewIntMatrix creates a new matrix for int, size m x n. The 3rd argument is a null-value,
// indicating empty entries (use DefaultNullValue if you haven't any specific
// requirements).
func NewIntMatrix(m, n int, nullValue int32) *IntMatrix {
	return &IntMatrix{
		rows:    make(map[int][]cell),
		rowcnt:  m,
		colcnt:  n,
		nullval: nullValue,
	}
}

// DefaultNullValue is the default empty-value for matrices (min int32).
const DefaultNullValue = -2147483648

// M returns the row count.
func (m *IntMatrix) M() int {
	return m.rowcnt
}

// N returns the column count.
func (m *IntMatrix) N() int {
	return m.colcnt
}

// NullValue returns this matrix' null value
func (m *IntMatrix) NullValue() int32 {
	return m.nullval
}

// ValueCount returns the number of positions set in the matrix.
func (m *IntMatrix) ValueCount() int {
	return m.count
}

// Value returns the primary value at position (i,j), or NullValue
func (m *IntMatrix) Value(i, j int) int32 {
	a, _ := m.Values(i, j)
	return a
}

// Values returns the pair of values at position (i,j), or (NullValue, NullValue)
func (m *IntMatrix) Values(i, j int) (int32, int32) {
	row := m.rows[i]
	k := sort.Search(len(row), func(k int) bool { return row[k].col >= j })
	if k < len(row) && row[k].col == j {
		return row[k].value.a, row[k].value.b
	}
	return m.nullval, m.nullval
}

// Set a value in the matrix at position (i,j), replacing all values present.
func (m *IntMatrix) Set(i, j int, value int32) *IntMatrix {
	return m.setOrAdd(i, j, value, false)
}

// Add a value in the matrix at position (i,j). If two values are present
// already, the second one is overwritten.
func (m *IntMatrix) Add(i, j int, value int32) *IntMatrix {
	return m.setOrAdd(i, j, value, true)
}

func (m *IntMatrix) setOrAdd(i, j int, value int32, doAdd bool) *IntMatrix {
	if i < 0 || i >= m.rowcnt || j < 0 || j >= m.colcnt {
		panic(fmt.Sprintf("sparse.IntMatrix index (%d,%d) out of range %dx%d", i, j, m.rowcnt, m.colcnt))
	}
	row := m.rows[i]
	k := sort.Search(len(row), func(k int) bool { return row[k].col >= j })
	if k < len(row) && row[k].col == j { // value already present
		if doAdd {
			row[k].value = addIntValue(row[k].value, value, m.nullval)
		} else {
			row[k].value = intPair{value, m.nullval}
		}
		return m
	}
	row = append(row, cell{})
	copy(row[k+1:], row[k:])
	row[k] = cell{col: j, value: intPair{value, m.nullval}}
	m.rows[i] = row
	m.count++
	return m
}

// Each calls f for every position set, ordered by row, then by column.
// b is NullValue unless two values are stored at (i,j).
func (m *IntMatrix) Each(f func(i, j int, a, b int32)) {
	rows := make([]int, 0, len(m.rows))
	for i := range m.rows {
		rows = append(rows, i)
	}
	sort.Ints(rows)
	for _, i := range rows {
		for _, c := range m.rows[i] {
			f(i, c.col, c.value.a, c.value.b)
		}
	}
}

func addIntValue(v intPair, n int32, nullval int32) intPair {
	if v.a == nullval {
		v.a = n
	} else if v.b == nullval {
		v.b = n
	} else {
		v.b = n // entry is full, overwrite second
	}
	return v
}

// we will store 2 int32 in one position
type intPair struct {
	a int32
	b int32
}

func (pr intPair) String() string {
	return fmt.Sprintf("[%d,%d]", pr.a, pr.b)
}
