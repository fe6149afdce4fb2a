package table

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
)

// Row is a representation of a single row of a Table, along with
// a reference to the Schema for that row. In practice, users of Row
// will call its typed getters to retrieve data.
type rowImpl struct {
	idx    int
	values []interface{} // shared with the owning Table, never modified
	schema tabula.Schema
}

// CreateRow builds a read-only Row over a slice of values
func CreateRow(idx int, values []interface{}, schema tabula.Schema) tabula.Row {
	return &rowImpl{idx: idx, values: values, schema: schema}
}

// Schema returns the schema for a row
func (r *rowImpl) Schema() tabula.Schema {
	return r.schema
}

// Index returns the position of this row within its Table
func (r *rowImpl) Index() int {
	return r.idx
}

// Value returns the value at a column index
func (r *rowImpl) Value(idx int) interface{} {
	if idx < 0 || idx >= len(r.values) {
		return nil
	}
	return r.values[idx]
}

// Values returns a copy of all values in this row
func (r *rowImpl) Values() []interface{} {
	return copyValues(r.values)
}

// ToString returns a string representation of this row
func (r *rowImpl) ToString() string {
	var res strings.Builder
	fmt.Fprint(&res, "{")
	r.schema.ForEachColumn(func(name string, col tabula.Column) error {
		if col.Index() > 0 {
			fmt.Fprint(&res, ", ")
		}
		v := r.values[col.Index()]
		if _, isString := v.(string); isString {
			fmt.Fprintf(&res, "\"%s\": %q", name, v)
		} else {
			fmt.Fprintf(&res, "\"%s\": %s", name, col.Type().ToString(v))
		}
		return nil
	})
	fmt.Fprint(&res, "}")
	return res.String()
}

// Get returns the value of any column as an interface{}, if it exists
func (r *rowImpl) Get(colName string) (interface{}, error) {
	offset, err := r.schema.GetOffset(colName)
	if err != nil {
		return nil, err
	}
	return r.values[offset.Index()], nil
}

// IsNil returns true iff the given column value is nil in this row
func (r *rowImpl) IsNil(colName string) (bool, error) {
	v, err := r.Get(colName)
	if err != nil {
		return false, err
	}
	return v == nil, nil
}

func (r *rowImpl) getTyped(colName string, expected tabula.ColumnType) (interface{}, error) {
	offset, err := r.schema.GetOffset(colName)
	if err != nil {
		return nil, err
	}
	v := r.values[offset.Index()]
	if v == nil {
		return nil, errors.NilValueError{Name: colName}
	}
	if !expected.Accepts(v) {
		return nil, errors.TypeError{Column: colName, Expected: expected.Name(), Actual: offset.Type().Name()}
	}
	return v, nil
}

// GetString retrieves a single String value from the column with the given name.
func (r *rowImpl) GetString(colName string) (string, error) {
	v, err := r.getTyped(colName, &tabula.StringColumnType{})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// GetInteger retrieves a single Integer value from the column with the given name.
func (r *rowImpl) GetInteger(colName string) (int64, error) {
	v, err := r.getTyped(colName, &tabula.IntegerColumnType{})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// GetDouble retrieves a single Double value from the column with the given name.
// Integer columns are widened.
func (r *rowImpl) GetDouble(colName string) (float64, error) {
	if iv, err := r.getTyped(colName, &tabula.IntegerColumnType{}); err == nil {
		return float64(iv.(int64)), nil
	}
	v, err := r.getTyped(colName, &tabula.DoubleColumnType{})
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

// GetBool retrieves a single Boolean value from the column with the given name.
func (r *rowImpl) GetBool(colName string) (bool, error) {
	v, err := r.getTyped(colName, &tabula.BooleanColumnType{})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// GetDate retrieves a single Date value from the column with the given name.
func (r *rowImpl) GetDate(colName string) (time.Time, error) {
	v, err := r.getTyped(colName, &tabula.DateColumnType{})
	if err != nil {
		return time.Time{}, err
	}
	return v.(time.Time), nil
}

// GetArray retrieves a copy of a single Array value from the column with the given name.
func (r *rowImpl) GetArray(colName string) ([]interface{}, error) {
	offset, err := r.schema.GetOffset(colName)
	if err != nil {
		return nil, err
	}
	v := r.values[offset.Index()]
	if v == nil {
		return nil, errors.NilValueError{Name: colName}
	}
	arr, ok := v.([]interface{})
	if !ok {
		return nil, errors.TypeError{Column: colName, Expected: "ARRAY", Actual: offset.Type().Name()}
	}
	return tabula.CopyValue(arr).([]interface{}), nil
}

func copyValues(values []interface{}) []interface{} {
	res := make([]interface{}, len(values))
	for i, v := range values {
		res[i] = tabula.CopyValue(v)
	}
	return res
}
