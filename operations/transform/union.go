package transform

import (
	"fmt"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	itable "github.com/go-sif/tabula/internal/table"
)

// Union appends the Rows of another Table. Both Tables must have the same
// column names and types, in the same order. A column of the result is
// nullable if it is nullable in either input.
func Union(other tabula.Table) tabula.TableOperation {
	return func(t tabula.Table) (tabula.Table, error) {
		left, right := t.Schema(), other.Schema()
		if left.NumColumns() != right.NumColumns() {
			return nil, errors.SchemaMismatchError{Row: -1, Reason: fmt.Sprintf("union requires the same number of columns, but found %d and %d", left.NumColumns(), right.NumColumns())}
		}
		rightCols := right.Columns()
		newSchema := left
		for i, col := range left.Columns() {
			rc := rightCols[i]
			if col.Name() != rc.Name() {
				return nil, errors.SchemaMismatchError{Column: col.Name(), Row: -1, Reason: fmt.Sprintf("column %d is named %s in the other table", i, rc.Name())}
			}
			if !tabula.TypesEqual(col.Type(), rc.Type()) {
				return nil, errors.SchemaMismatchError{Column: col.Name(), Row: -1, Reason: fmt.Sprintf("types %s and %s do not match", col.Type().Name(), rc.Type().Name())}
			}
			if rc.Nullable() && !col.Nullable() {
				var err error
				newSchema, err = newSchema.ReplaceColumn(col.Name(), col.Type(), true)
				if err != nil {
					return nil, err
				}
			}
		}
		leftRows, rightRows := itable.RawRows(t), itable.RawRows(other)
		res := make([][]interface{}, 0, len(leftRows)+len(rightRows))
		res = append(append(res, leftRows...), rightRows...)
		return itable.CreateTable(newSchema, res), nil
	}
}

// UnionByName appends the Rows of another Table, matching columns by name.
// Both Tables must have the same set of column names, with the same type for
// each name. The result has the column order of the receiving Table.
func UnionByName(other tabula.Table) tabula.TableOperation {
	return func(t tabula.Table) (tabula.Table, error) {
		left, right := t.Schema(), other.Schema()
		if left.NumColumns() != right.NumColumns() {
			return nil, errors.SchemaMismatchError{Row: -1, Reason: fmt.Sprintf("unionByName requires the same columns, but found %d and %d", left.NumColumns(), right.NumColumns())}
		}
		positions := make([]int, left.NumColumns())
		newSchema := left
		for i, col := range left.Columns() {
			rc, err := right.GetOffset(col.Name())
			if err != nil {
				return nil, errors.SchemaMismatchError{Column: col.Name(), Row: -1, Reason: "column is missing from the other table"}
			}
			if !tabula.TypesEqual(col.Type(), rc.Type()) {
				return nil, errors.SchemaMismatchError{Column: col.Name(), Row: -1, Reason: fmt.Sprintf("types %s and %s do not match", col.Type().Name(), rc.Type().Name())}
			}
			if rc.Nullable() && !col.Nullable() {
				newSchema, err = newSchema.ReplaceColumn(col.Name(), col.Type(), true)
				if err != nil {
					return nil, err
				}
			}
			positions[i] = rc.Index()
		}
		leftRows, rightRows := itable.RawRows(t), itable.RawRows(other)
		res := make([][]interface{}, 0, len(leftRows)+len(rightRows))
		res = append(res, leftRows...)
		for _, values := range rightRows {
			reordered := make([]interface{}, len(positions))
			for i, p := range positions {
				reordered[i] = values[p]
			}
			res = append(res, reordered)
		}
		return itable.CreateTable(newSchema, res), nil
	}
}
