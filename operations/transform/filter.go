package transform

import (
	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	itable "github.com/go-sif/tabula/internal/table"
	iutil "github.com/go-sif/tabula/internal/util"
)

// Filter retains the Rows for which a Boolean predicate is true. Rows for
// which it is false or nil are removed.
func Filter(predicate tabula.Expression) tabula.TableOperation {
	return func(t tabula.Table) (tabula.Table, error) {
		colType, err := predicate.Resolve(t.Schema())
		if err != nil {
			return nil, err
		}
		if _, isBool := colType.(*tabula.BooleanColumnType); !isBool {
			return nil, errors.TypeError{Column: predicate.Name(), Expected: "BOOLEAN", Actual: colType.Name()}
		}
		keep, err := itable.MapRows(t, iutil.SafeRowOperation("filter", predicate.Evaluate))
		if err != nil {
			return nil, err
		}
		rows := itable.RawRows(t)
		res := make([][]interface{}, 0, len(rows))
		for i, k := range keep {
			if k == true {
				res = append(res, rows[i])
			}
		}
		return itable.CreateTable(t.Schema(), res), nil
	}
}

// Where is an alias for Filter
func Where(predicate tabula.Expression) tabula.TableOperation {
	return Filter(predicate)
}
