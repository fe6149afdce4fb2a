package transform

import (
	"sort"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	itable "github.com/go-sif/tabula/internal/table"
)

// A SortKey names a column to sort by, and the direction of the sort
type SortKey struct {
	Column     string
	Descending bool
}

// Asc sorts by a column in ascending order, with nils first
func Asc(colName string) SortKey {
	return SortKey{Column: colName}
}

// Desc sorts by a column in descending order, with nils last
func Desc(colName string) SortKey {
	return SortKey{Column: colName, Descending: true}
}

type resolvedKey struct {
	idx        int
	descending bool
}

func resolveSortKeys(schema tabula.Schema, keys []SortKey) ([]resolvedKey, error) {
	res := make([]resolvedKey, len(keys))
	for i, k := range keys {
		col, err := schema.GetOffset(k.Column)
		if err != nil {
			return nil, err
		}
		res[i] = resolvedKey{col.Index(), k.Descending}
	}
	return res, nil
}

// compareRows orders two rows by a sequence of keys
func compareRows(a []interface{}, b []interface{}, keys []resolvedKey) int {
	for _, k := range keys {
		c := tabula.CompareValues(a[k.idx], b[k.idx])
		if c != 0 {
			if k.descending {
				return -c
			}
			return c
		}
	}
	return 0
}

// sortIndices stably sorts a slice of row indices by a sequence of keys
func sortIndices(rows [][]interface{}, idxs []int, keys []resolvedKey) {
	sort.SliceStable(idxs, func(i, j int) bool {
		return compareRows(rows[idxs[i]], rows[idxs[j]], keys) < 0
	})
}

// Sort orders Rows by one or more columns. The sort is stable: Rows which
// compare equal on every key keep their original relative order.
func Sort(keys ...SortKey) tabula.TableOperation {
	return func(t tabula.Table) (tabula.Table, error) {
		if len(keys) == 0 {
			return nil, errors.InvalidArgumentError{Argument: "keys", Reason: "sort requires at least one key"}
		}
		resolved, err := resolveSortKeys(t.Schema(), keys)
		if err != nil {
			return nil, err
		}
		rows := itable.RawRows(t)
		idxs := itable.Indices(len(rows))
		sortIndices(rows, idxs, resolved)
		res := make([][]interface{}, len(rows))
		for i, idx := range idxs {
			res[i] = rows[idx]
		}
		return itable.CreateTable(t.Schema(), res), nil
	}
}

// OrderBy is an alias for Sort
func OrderBy(keys ...SortKey) tabula.TableOperation {
	return Sort(keys...)
}

// Limit retains the first n Rows
func Limit(n int) tabula.TableOperation {
	return func(t tabula.Table) (tabula.Table, error) {
		if n < 0 {
			return nil, errors.InvalidArgumentError{Argument: "n", Reason: "limit must not be negative"}
		}
		rows := itable.RawRows(t)
		m := n
		if m > len(rows) {
			m = len(rows)
		}
		return itable.CreateTable(t.Schema(), rows[:m:m]), nil
	}
}
