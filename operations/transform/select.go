package transform

import (
	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/expr"
	itable "github.com/go-sif/tabula/internal/table"
	"github.com/go-sif/tabula/schema"
)

// Select evaluates Expressions against every Row, producing a Table with one
// column per Expression, in order. expr.All() expands to every input column.
func Select(exprs ...tabula.Expression) tabula.TableOperation {
	return func(t tabula.Table) (tabula.Table, error) {
		if len(exprs) == 0 {
			return nil, errors.InvalidArgumentError{Argument: "exprs", Reason: "select requires at least one expression"}
		}
		expanded := expandStar(t.Schema(), exprs)
		var newSchema tabula.Schema = schema.CreateSchema()
		for _, e := range expanded {
			col, err := resolve(t.Schema(), e)
			if err != nil {
				return nil, err
			}
			newSchema, err = newSchema.CreateColumn(col.name, col.colType, col.nullable)
			if err != nil {
				return nil, err
			}
		}
		rows, err := evaluateRows(t, expanded)
		if err != nil {
			return nil, err
		}
		return itable.CreateTable(newSchema, rows), nil
	}
}

// SelectColumns is a convenience which selects columns by name
func SelectColumns(names ...string) tabula.TableOperation {
	return Select(expr.Cols(names...)...)
}
