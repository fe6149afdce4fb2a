package transform

import (
	"github.com/go-sif/tabula"
	itable "github.com/go-sif/tabula/internal/table"
)

// RemoveColumn removes existing columns. Names which do not exist are ignored.
func RemoveColumn(oldNames ...string) tabula.TableOperation {
	return func(t tabula.Table) (tabula.Table, error) {
		newSchema := t.Schema()
		for _, oldName := range oldNames {
			newSchema, _ = newSchema.RemoveColumn(oldName)
		}
		keep := make([]int, 0, newSchema.NumColumns())
		for _, name := range newSchema.ColumnNames() {
			col, err := t.Schema().GetOffset(name)
			if err != nil {
				return nil, err
			}
			keep = append(keep, col.Index())
		}
		rows := itable.RawRows(t)
		res := make([][]interface{}, len(rows))
		for i, values := range rows {
			newValues := make([]interface{}, len(keep))
			for j, idx := range keep {
				newValues[j] = values[idx]
			}
			res[i] = newValues
		}
		return itable.CreateTable(newSchema, res), nil
	}
}

// Drop is an alias for RemoveColumn
func Drop(oldNames ...string) tabula.TableOperation {
	return RemoveColumn(oldNames...)
}
