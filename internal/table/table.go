package table

import (
	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
)

// A tableImpl implements Table internally for Tabula
type tableImpl struct {
	schema tabula.Schema
	rows   [][]interface{}
}

// CreateTable is a factory for Tables. It takes ownership of rows without
// validating them, and is therefore not intended to be used directly:
// Tables are created via the table package, loaders and operations,
// all of which guarantee that rows conform to the schema.
func CreateTable(schema tabula.Schema, rows [][]interface{}) tabula.Table {
	if rows == nil {
		rows = [][]interface{}{}
	}
	return &tableImpl{schema: schema, rows: rows}
}

// Schema returns the Schema of a Table
func (t *tableImpl) Schema() tabula.Schema {
	return t.schema
}

// NumRows returns the number of Rows in a Table
func (t *tableImpl) NumRows() int {
	return len(t.rows)
}

// GetRow retrieves a specific Row from a Table
func (t *tableImpl) GetRow(idx int) (tabula.Row, error) {
	if idx < 0 || idx >= len(t.rows) {
		return nil, errors.InvalidArgumentError{Argument: "idx", Reason: "row index out of range"}
	}
	return CreateRow(idx, t.rows[idx], t.schema), nil
}

// ForEachRow iterates over the Rows of a Table, in order, stopping at the first error
func (t *tableImpl) ForEachRow(fn func(row tabula.Row) error) error {
	for i, values := range t.rows {
		if err := fn(CreateRow(i, values, t.schema)); err != nil {
			return err
		}
	}
	return nil
}

// Rows returns a copy of the values of every Row
func (t *tableImpl) Rows() [][]interface{} {
	res := make([][]interface{}, len(t.rows))
	for i, values := range t.rows {
		res[i] = copyValues(values)
	}
	return res
}

// Column returns a copy of the values of a single column
func (t *tableImpl) Column(colName string) ([]interface{}, error) {
	offset, err := t.schema.GetOffset(colName)
	if err != nil {
		return nil, err
	}
	res := make([]interface{}, len(t.rows))
	for i, values := range t.rows {
		res[i] = tabula.CopyValue(values[offset.Index()])
	}
	return res, nil
}

// To is a "functional operations" factory method for Tables,
// chaining operations onto the current one.
func (t *tableImpl) To(ops ...tabula.TableOperation) (tabula.Table, error) {
	var next tabula.Table = t
	// See https://dave.cheney.net/2014/10/17/functional-options-for-friendly-apis for details of approach
	for _, op := range ops {
		result, err := op(next)
		if err != nil {
			return nil, err
		}
		next = result
	}
	return next, nil
}

// RawRows exposes the internal rows of a Table created by this package,
// without copying. Callers must not modify the result. Tables from
// elsewhere are copied.
func RawRows(t tabula.Table) [][]interface{} {
	if impl, ok := t.(*tableImpl); ok {
		return impl.rows
	}
	return t.Rows()
}
