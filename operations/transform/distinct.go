package transform

import (
	"github.com/go-sif/tabula"
	itable "github.com/go-sif/tabula/internal/table"
)

// Distinct removes duplicate Rows, retaining the first occurrence of each
func Distinct() tabula.TableOperation {
	return DropDuplicates()
}

// DropDuplicates removes Rows whose values in a subset of columns duplicate
// those of an earlier Row. The first occurrence of each key is retained, in
// its original order. An empty subset considers every column.
func DropDuplicates(subset ...string) tabula.TableOperation {
	return func(t tabula.Table) (tabula.Table, error) {
		idxs, err := subsetIndices(t.Schema(), subset)
		if err != nil {
			return nil, err
		}
		seen := itable.NewKeyIndex()
		rows := itable.RawRows(t)
		res := make([][]interface{}, 0, len(rows))
		for _, values := range rows {
			if _, isNew := seen.Insert(values, idxs); isNew {
				res = append(res, values)
			}
		}
		return itable.CreateTable(t.Schema(), res), nil
	}
}
