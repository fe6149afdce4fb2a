// Package testing provides helpers for building and comparing Tables in tests.
package testing

import (
	stdtesting "testing"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/table"
	"github.com/stretchr/testify/require"
)

// CreateTable builds a Table from a DDL schema and rows of values, coercing
// values to their declared types, and fails the test if that is not possible
func CreateTable(t stdtesting.TB, ddl string, rows ...[]interface{}) tabula.Table {
	t.Helper()
	tbl, err := table.CreateWithDDL(rows, ddl)
	require.Nil(t, err)
	return tbl
}

// RequireRows fails the test unless a Table holds exactly the given rows, in order.
// Expected values are normalized, so that 1 matches int64(1).
func RequireRows(t stdtesting.TB, expected [][]interface{}, actual tabula.Table) {
	t.Helper()
	normalized := make([][]interface{}, len(expected))
	for i, row := range expected {
		normalized[i] = make([]interface{}, len(row))
		for j, v := range row {
			nv, ok := tabula.NormalizeValue(v)
			require.True(t, ok, "unsupported expected value %v", v)
			normalized[i][j] = nv
		}
	}
	require.Equal(t, normalized, actual.Rows())
}

// RequireEqual fails the test unless two Tables have equal Schemas and rows, in order
func RequireEqual(t stdtesting.TB, expected tabula.Table, actual tabula.Table) {
	t.Helper()
	require.Nil(t, table.Equal(expected, actual))
}

// RequireEqualUnordered fails the test unless two Tables have equal Schemas and
// the same rows, in any order
func RequireEqualUnordered(t stdtesting.TB, expected tabula.Table, actual tabula.Table) {
	t.Helper()
	require.Nil(t, table.EqualUnordered(expected, actual))
}
