// Package transform provides TableOperations, which are chained onto Tables
// via Table.To. Every operation validates its arguments against the Schema
// of its input before touching any Row, and fails atomically.
package transform

import (
	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/expr"
	itable "github.com/go-sif/tabula/internal/table"
	iutil "github.com/go-sif/tabula/internal/util"
)

// resolvedColumn is the output column produced by an Expression
type resolvedColumn struct {
	name     string
	colType  tabula.ColumnType
	nullable bool
}

func resolve(schema tabula.Schema, e tabula.Expression) (resolvedColumn, error) {
	colType, err := e.Resolve(schema)
	if err != nil {
		return resolvedColumn{}, err
	}
	return resolvedColumn{e.Name(), colType, e.Nullable(schema)}, nil
}

// expandStar replaces every * with a reference to each column of the schema
func expandStar(schema tabula.Schema, exprs []tabula.Expression) []tabula.Expression {
	res := make([]tabula.Expression, 0, len(exprs))
	for _, e := range exprs {
		if _, isStar := e.(*expr.StarExpr); isStar {
			res = append(res, expr.Cols(schema.ColumnNames()...)...)
		} else {
			res = append(res, e)
		}
	}
	return res
}

// evaluateRows evaluates several Expressions against every Row of a Table,
// in parallel for large Tables, returning one slice of results per Row.
func evaluateRows(t tabula.Table, exprs []tabula.Expression) ([][]interface{}, error) {
	fns := make([]func(row tabula.Row) (interface{}, error), len(exprs))
	for i, e := range exprs {
		fns[i] = iutil.SafeRowOperation(e.Name(), e.Evaluate)
	}
	results, err := itable.MapRows(t, func(row tabula.Row) (interface{}, error) {
		values := make([]interface{}, len(fns))
		for i, fn := range fns {
			v, err := fn(row)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return values, nil
	})
	if err != nil {
		return nil, err
	}
	rows := make([][]interface{}, len(results))
	for i, r := range results {
		rows[i] = r.([]interface{})
	}
	return rows, nil
}

// columnIndices returns the index of each named column, failing with ColumnNotFound
func columnIndices(schema tabula.Schema, names []string) ([]int, error) {
	idxs := make([]int, len(names))
	for i, name := range names {
		col, err := schema.GetOffset(name)
		if err != nil {
			return nil, err
		}
		idxs[i] = col.Index()
	}
	return idxs, nil
}

// subsetIndices behaves like columnIndices, except that an empty subset means every column
func subsetIndices(schema tabula.Schema, subset []string) ([]int, error) {
	if len(subset) == 0 {
		return itable.Indices(schema.NumColumns()), nil
	}
	return columnIndices(schema, subset)
}
