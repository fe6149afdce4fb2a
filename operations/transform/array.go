package transform

import (
	"fmt"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/expr"
	itable "github.com/go-sif/tabula/internal/table"
)

// SplitColumn replaces a String column with an Array<String> column, by splitting
// each value around a literal delimiter
func SplitColumn(colName string, delimiter string) tabula.TableOperation {
	return WithColumn(colName, expr.Split(expr.Col(colName), delimiter))
}

// ArrayContains stores, in outCol, whether the Array in colName contains a value
func ArrayContains(colName string, value interface{}, outCol string) tabula.TableOperation {
	return WithColumn(outCol, expr.ArrayContains(expr.Col(colName), value))
}

// Explode produces one Row per element of an Array column, duplicating the
// values of every other column. The column takes on the element type of the
// Array, in place. Rows whose Array is nil or empty are dropped.
func Explode(colName string) tabula.TableOperation {
	return func(t tabula.Table) (tabula.Table, error) {
		col, err := t.Schema().GetOffset(colName)
		if err != nil {
			return nil, err
		}
		arrType, ok := col.Type().(*tabula.ArrayColumnType)
		if !ok {
			return nil, errors.TypeError{Column: colName, Expected: "ARRAY", Actual: col.Type().Name()}
		}
		newSchema, err := t.Schema().ReplaceColumn(colName, arrType.Elem, true)
		if err != nil {
			return nil, err
		}
		idx := col.Index()
		rows := itable.RawRows(t)
		res := make([][]interface{}, 0, len(rows))
		for i, values := range rows {
			if values[idx] == nil {
				continue
			}
			arr, ok := values[idx].([]interface{})
			if !ok {
				return nil, fmt.Errorf("row %d: value of %s is not an array", i, colName)
			}
			for _, elem := range arr {
				newValues := append([]interface{}{}, values...)
				newValues[idx] = elem
				res = append(res, newValues)
			}
		}
		return itable.CreateTable(newSchema, res), nil
	}
}
