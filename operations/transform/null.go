package transform

import (
	"fmt"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	itable "github.com/go-sif/tabula/internal/table"
)

// DropMode determines when DropNA removes a Row
type DropMode int

const (
	// DropAny removes Rows in which any considered column is nil
	DropAny DropMode = iota
	// DropAll removes Rows in which every considered column is nil
	DropAll
)

// ParseDropMode parses "any" or "all"
func ParseDropMode(mode string) (DropMode, error) {
	switch mode {
	case "any":
		return DropAny, nil
	case "all":
		return DropAll, nil
	}
	return DropAny, errors.InvalidArgumentError{Argument: "mode", Reason: fmt.Sprintf("unknown dropna mode %q", mode)}
}

// DropNA removes Rows containing nil values in a subset of columns. An empty
// subset considers every column.
func DropNA(mode DropMode, subset ...string) tabula.TableOperation {
	return func(t tabula.Table) (tabula.Table, error) {
		idxs, err := subsetIndices(t.Schema(), subset)
		if err != nil {
			return nil, err
		}
		minNonNil := len(idxs)
		if mode == DropAll {
			minNonNil = 1
		}
		return dropWhereFewer(t, idxs, minNonNil), nil
	}
}

// DropNAThreshold removes Rows with fewer than minNonNil non-nil values in a
// subset of columns. An empty subset considers every column.
func DropNAThreshold(minNonNil int, subset ...string) tabula.TableOperation {
	return func(t tabula.Table) (tabula.Table, error) {
		if minNonNil < 0 {
			return nil, errors.InvalidArgumentError{Argument: "minNonNil", Reason: "threshold must not be negative"}
		}
		idxs, err := subsetIndices(t.Schema(), subset)
		if err != nil {
			return nil, err
		}
		return dropWhereFewer(t, idxs, minNonNil), nil
	}
}

func dropWhereFewer(t tabula.Table, idxs []int, minNonNil int) tabula.Table {
	rows := itable.RawRows(t)
	res := make([][]interface{}, 0, len(rows))
	for _, values := range rows {
		nonNil := 0
		for _, idx := range idxs {
			if values[idx] != nil {
				nonNil++
			}
		}
		if nonNil >= minNonNil {
			res = append(res, values)
		}
	}
	return itable.CreateTable(t.Schema(), res)
}

// fillValueFor converts a fill value to the representation of a column type,
// returning false if the column type does not accept the value's type
func fillValueFor(value interface{}, colType tabula.ColumnType) (interface{}, bool) {
	switch v := value.(type) {
	case int64:
		switch colType.(type) {
		case *tabula.IntegerColumnType:
			return v, true
		case *tabula.DoubleColumnType:
			return float64(v), true
		}
		return nil, false
	case []interface{}:
		return nil, false
	}
	return value, colType.Accepts(value)
}

// FillNA replaces nil values in a subset of columns. Only columns whose type
// accepts the value are filled: strings fill String columns, integers fill
// Integer and Double columns, floats fill Double columns, booleans fill Boolean
// columns and times fill Date columns. An empty subset considers every column.
func FillNA(value interface{}, subset ...string) tabula.TableOperation {
	return func(t tabula.Table) (tabula.Table, error) {
		idxs, err := subsetIndices(t.Schema(), subset)
		if err != nil {
			return nil, err
		}
		fills := make(map[int]interface{}, len(idxs))
		if err := addFills(t.Schema(), fills, idxs, value); err != nil {
			return nil, err
		}
		return fill(t, fills), nil
	}
}

// FillNAMap replaces nil values in each named column with the corresponding
// value, subject to the same type rules as FillNA
func FillNAMap(values map[string]interface{}) tabula.TableOperation {
	return func(t tabula.Table) (tabula.Table, error) {
		fills := make(map[int]interface{}, len(values))
		for name, value := range values {
			col, err := t.Schema().GetOffset(name)
			if err != nil {
				return nil, err
			}
			if err := addFills(t.Schema(), fills, []int{col.Index()}, value); err != nil {
				return nil, err
			}
		}
		return fill(t, fills), nil
	}
}

func addFills(schema tabula.Schema, fills map[int]interface{}, idxs []int, value interface{}) error {
	nv, ok := tabula.NormalizeValue(value)
	if !ok || nv == nil {
		return errors.InvalidArgumentError{Argument: "value", Reason: fmt.Sprintf("cannot fill with %T", value)}
	}
	cols := schema.Columns()
	for _, idx := range idxs {
		if fv, accepted := fillValueFor(nv, cols[idx].Type()); accepted {
			fills[idx] = fv
		}
	}
	return nil
}

func fill(t tabula.Table, fills map[int]interface{}) tabula.Table {
	rows := itable.RawRows(t)
	res := make([][]interface{}, len(rows))
	for i, values := range rows {
		res[i] = values
		copied := false
		for idx, fv := range fills {
			if values[idx] != nil {
				continue
			}
			if !copied {
				res[i] = append([]interface{}{}, values...)
				copied = true
			}
			res[i][idx] = fv
		}
	}
	return itable.CreateTable(t.Schema(), res)
}
