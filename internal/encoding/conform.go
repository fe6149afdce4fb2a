package encoding

import (
	"fmt"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/internal/cast"
)

// Conform rearranges rows read with one Schema into the column order of
// another, converting values where the types differ but a conversion exists.
// Columns missing from the source, impossible conversions and nil values in
// non-nullable columns are reported as a SchemaMismatch.
func Conform(from tabula.Schema, rows [][]interface{}, to tabula.Schema) ([][]interface{}, error) {
	if from.Equals(to) == nil {
		return rows, nil
	}
	targets := to.Columns()
	sources := make([]tabula.Column, len(targets))
	for i, col := range targets {
		src, err := from.GetOffset(col.Name())
		if err != nil {
			return nil, errors.SchemaMismatchError{Column: col.Name(), Row: -1, Reason: "column is missing from the source data"}
		}
		if !cast.Defined(src.Type(), col.Type()) {
			return nil, errors.SchemaMismatchError{Column: col.Name(), Row: -1, Reason: fmt.Sprintf("source type %s cannot be read as %s", src.Type().Name(), col.Type().Name())}
		}
		sources[i] = src
	}
	res := make([][]interface{}, len(rows))
	for r, values := range rows {
		conformed := make([]interface{}, len(targets))
		for i, col := range targets {
			v, err := cast.Value(values[sources[i].Index()], col.Type())
			if err != nil {
				return nil, errors.SchemaMismatchError{Column: col.Name(), Row: r, Reason: err.Error()}
			}
			if v == nil && !col.Nullable() {
				return nil, errors.SchemaMismatchError{Column: col.Name(), Row: r, Reason: "nil value in a non-nullable column"}
			}
			conformed[i] = v
		}
		res[r] = conformed
	}
	return res, nil
}
