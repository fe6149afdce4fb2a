package transform

import (
	"github.com/go-sif/tabula"
	itable "github.com/go-sif/tabula/internal/table"
)

// WithColumn evaluates an Expression against every Row, storing the result in
// a column. An existing column with the same name is replaced in place;
// otherwise the column is appended.
func WithColumn(colName string, e tabula.Expression) tabula.TableOperation {
	return func(t tabula.Table) (tabula.Table, error) {
		col, err := resolve(t.Schema(), e)
		if err != nil {
			return nil, err
		}
		return withValues(t, colName, col.colType, col.nullable, e)
	}
}

// withValues evaluates a single Expression and stores its value in a (new or replaced) column
func withValues(t tabula.Table, colName string, colType tabula.ColumnType, nullable bool, e tabula.Expression) (tabula.Table, error) {
	schema := t.Schema()
	var newSchema tabula.Schema
	var err error
	idx := schema.NumColumns()
	if existing, lookupErr := schema.GetOffset(colName); lookupErr == nil {
		idx = existing.Index()
		newSchema, err = schema.ReplaceColumn(colName, colType, nullable)
	} else {
		newSchema, err = schema.CreateColumn(colName, colType, nullable)
	}
	if err != nil {
		return nil, err
	}
	results, err := evaluateRows(t, []tabula.Expression{e})
	if err != nil {
		return nil, err
	}
	rows := itable.RawRows(t)
	res := make([][]interface{}, len(rows))
	for i, values := range rows {
		newValues := make([]interface{}, newSchema.NumColumns())
		copy(newValues, values)
		newValues[idx] = results[i][0]
		res[i] = newValues
	}
	return itable.CreateTable(newSchema, res), nil
}
