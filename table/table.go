// Package table provides factories for Tables built from in-memory values.
package table

import (
	"fmt"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/internal/cast"
	itable "github.com/go-sif/tabula/internal/table"
	"github.com/go-sif/tabula/schema"
	"github.com/hashicorp/go-multierror"
)

// Create builds an immutable Table from rows of Go values, validating every
// row against the given Schema. Go integers, floats, times and slices are
// normalized to their canonical representations, but no other conversion takes
// place: a value whose type disagrees with its column, a row of the wrong width,
// or a nil in a non-nullable column are all SchemaMismatchErrors. Every failing
// row is reported.
func Create(rows [][]interface{}, s tabula.Schema) (tabula.Table, error) {
	return build(rows, s, false)
}

// CreateWithDDL builds an immutable Table from rows of Go values and an untyped,
// textual DDL schema such as "ID STRING, NAME STRING". Scalar values are coerced
// to their declared column types where a conversion is defined, so 1 may populate
// a STRING column and "10" an INT column.
func CreateWithDDL(rows [][]interface{}, ddl string) (tabula.Table, error) {
	s, err := schema.ParseDDL(ddl)
	if err != nil {
		return nil, err
	}
	return build(rows, s, true)
}

// Empty creates a Table with a Schema but no rows
func Empty(s tabula.Schema) tabula.Table {
	return itable.CreateTable(s, nil)
}

func build(rows [][]interface{}, s tabula.Schema, coerce bool) (tabula.Table, error) {
	if s == nil {
		return nil, errors.InvalidArgumentError{Argument: "schema", Reason: "a schema is required"}
	}
	var multierr *multierror.Error
	cols := s.Columns()
	result := make([][]interface{}, len(rows))
	for i, row := range rows {
		if len(row) != len(cols) {
			multierr = multierror.Append(multierr, errors.SchemaMismatchError{
				Row:    i,
				Reason: fmt.Sprintf("row has %d fields, schema has %d columns", len(row), len(cols)),
			})
			continue
		}
		values := make([]interface{}, len(cols))
		for j, col := range cols {
			v, err := checkValue(row[j], col, coerce)
			if err != nil {
				multierr = multierror.Append(multierr, errors.SchemaMismatchError{Column: col.Name(), Row: i, Reason: err.Error()})
				continue
			}
			values[j] = v
		}
		result[i] = values
	}
	if err := multierr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return itable.CreateTable(s, result), nil
}

func checkValue(raw interface{}, col tabula.Column, coerce bool) (interface{}, error) {
	v, ok := tabula.NormalizeValue(raw)
	if !ok {
		return nil, fmt.Errorf("unsupported value %#v", raw)
	}
	if v == nil {
		if !col.Nullable() {
			return nil, fmt.Errorf("nil value in non-nullable column")
		}
		return nil, nil
	}
	if col.Type().Accepts(v) {
		return v, nil
	}
	if coerce {
		if from, ok := tabula.TypeOf(v); ok && cast.Defined(from, col.Type()) {
			cv, err := cast.Value(v, col.Type())
			if err != nil {
				return nil, fmt.Errorf("cannot coerce %s to %s: %w", tabula.FormatValue(v), col.Type().Name(), err)
			}
			return cv, nil
		}
	}
	actual := "unknown"
	if t, ok := tabula.TypeOf(v); ok {
		actual = t.Name()
	}
	return nil, fmt.Errorf("value %s of type %s does not match column type %s", tabula.FormatValue(v), actual, col.Type().Name())
}
