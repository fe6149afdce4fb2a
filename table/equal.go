package table

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-sif/tabula"
	itable "github.com/go-sif/tabula/internal/table"
)

// Equal returns nil iff two Tables have equal Schemas and equal rows, in order
func Equal(a tabula.Table, b tabula.Table) error {
	if err := a.Schema().Equals(b.Schema()); err != nil {
		return err
	}
	return rowsEqual(itable.RawRows(a), itable.RawRows(b))
}

// EqualUnordered returns nil iff two Tables have equal Schemas and the same
// multiset of rows, regardless of order
func EqualUnordered(a tabula.Table, b tabula.Table) error {
	if err := a.Schema().Equals(b.Schema()); err != nil {
		return err
	}
	return rowsEqual(sortedRows(a), sortedRows(b))
}

func sortedRows(t tabula.Table) [][]interface{} {
	rows := append([][]interface{}{}, itable.RawRows(t)...)
	sort.SliceStable(rows, func(i, j int) bool {
		return tabula.CompareValues(rows[i], rows[j]) < 0
	})
	return rows
}

func rowsEqual(a [][]interface{}, b [][]interface{}) error {
	if len(a) != len(b) {
		return fmt.Errorf("tables have %d and %d rows", len(a), len(b))
	}
	for i := range a {
		for j := range a[i] {
			if !tabula.ValuesEqual(a[i][j], b[i][j]) || kindsDiffer(a[i][j], b[i][j]) {
				return fmt.Errorf("row %d differs: %s != %s", i, format(a[i]), format(b[i]))
			}
		}
	}
	return nil
}

// ValuesEqual treats 1 and 1.0 as equal, which Table equality must not
func kindsDiffer(a interface{}, b interface{}) bool {
	return fmt.Sprintf("%T", a) != fmt.Sprintf("%T", b)
}

func format(row []interface{}) string {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = tabula.FormatValue(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
