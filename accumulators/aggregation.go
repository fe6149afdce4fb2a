// Package accumulators provides Accumulators, which reduce many Rows to a single
// value, and Aggregations, which describe a named, typed use of an Accumulator
// over a column for grouped aggregation, pivots and window functions.
package accumulators

import (
	"fmt"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/expr"
)

type aggKind int

const (
	aggSum aggKind = iota
	aggAvg
	aggCount
	aggCountAll
	aggMin
	aggMax
	aggFirst
	aggCollectList
	aggCollectSet
)

var aggNames = [...]string{"sum", "avg", "count", "count", "min", "max", "first", "collect_list", "collect_set"}

// An Aggregation describes an aggregate function applied to a column, along with
// the name of the resulting column. Aggregations are immutable; As and Round
// return modified copies.
type Aggregation struct {
	kind    aggKind
	colName string
	alias   string
	round   bool
	scale   int
}

// Sum adds up the non-nil values of a numeric column. Integer columns sum to an Integer.
func Sum(colName string) *Aggregation {
	return &Aggregation{kind: aggSum, colName: colName}
}

// Avg computes the mean of the non-nil values of a numeric column, as a Double
func Avg(colName string) *Aggregation {
	return &Aggregation{kind: aggAvg, colName: colName}
}

// Mean is an alias for Avg
func Mean(colName string) *Aggregation {
	return Avg(colName)
}

// Count counts the non-nil values of a column
func Count(colName string) *Aggregation {
	return &Aggregation{kind: aggCount, colName: colName}
}

// CountAll counts Rows
func CountAll() *Aggregation {
	return &Aggregation{kind: aggCountAll}
}

// Min finds the least non-nil value of a column
func Min(colName string) *Aggregation {
	return &Aggregation{kind: aggMin, colName: colName}
}

// Max finds the greatest non-nil value of a column
func Max(colName string) *Aggregation {
	return &Aggregation{kind: aggMax, colName: colName}
}

// FirstValue keeps the value of a column in the first Row of each group
func FirstValue(colName string) *Aggregation {
	return &Aggregation{kind: aggFirst, colName: colName}
}

// CollectList gathers the non-nil values of a column into an Array, in Row order
func CollectList(colName string) *Aggregation {
	return &Aggregation{kind: aggCollectList, colName: colName}
}

// CollectSet gathers the distinct non-nil values of a column into an Array, in order of first occurrence
func CollectSet(colName string) *Aggregation {
	return &Aggregation{kind: aggCollectSet, colName: colName}
}

// As names the column produced by this Aggregation
func (a *Aggregation) As(alias string) *Aggregation {
	res := *a
	res.alias = alias
	return &res
}

// Round rounds the (numeric) result of this Aggregation to scale decimal places, half away from zero
func (a *Aggregation) Round(scale int) *Aggregation {
	res := *a
	res.round = true
	res.scale = scale
	return &res
}

// ColumnName returns the name of the column being aggregated, which is empty for CountAll
func (a *Aggregation) ColumnName() string {
	return a.colName
}

// Name returns the name of the column produced by this Aggregation, such as sum(Item_MRP)
func (a *Aggregation) Name() string {
	if len(a.alias) > 0 {
		return a.alias
	}
	col := a.colName
	if a.kind == aggCountAll {
		col = "1"
	}
	name := fmt.Sprintf("%s(%s)", aggNames[a.kind], col)
	if a.round {
		name = fmt.Sprintf("round(%s, %d)", name, a.scale)
	}
	return name
}

// Resolve type-checks this Aggregation against a Schema, returning its result type
// and whether the result may be nil
func (a *Aggregation) Resolve(schema tabula.Schema) (tabula.ColumnType, bool, error) {
	if a.kind == aggCountAll {
		return &tabula.IntegerColumnType{}, false, nil
	}
	col, err := schema.GetOffset(a.colName)
	if err != nil {
		return nil, false, err
	}
	colType := col.Type()
	var result tabula.ColumnType
	nullable := true
	switch a.kind {
	case aggSum:
		if !tabula.IsNumeric(colType) {
			return nil, false, errors.TypeError{Column: a.colName, Expected: "INT or DOUBLE", Actual: colType.Name()}
		}
		result = colType
	case aggAvg:
		if !tabula.IsNumeric(colType) {
			return nil, false, errors.TypeError{Column: a.colName, Expected: "INT or DOUBLE", Actual: colType.Name()}
		}
		result = &tabula.DoubleColumnType{}
	case aggCount:
		result, nullable = &tabula.IntegerColumnType{}, false
	case aggMin, aggMax:
		result = colType
	case aggFirst:
		result, nullable = colType, col.Nullable()
	case aggCollectList, aggCollectSet:
		result, nullable = &tabula.ArrayColumnType{Elem: colType}, false
	}
	if a.round && !tabula.IsNumeric(result) {
		return nil, false, errors.TypeError{Column: a.Name(), Expected: "INT or DOUBLE", Actual: result.Name()}
	}
	return result, nullable, nil
}

// Factory returns an AccumulatorFactory which computes this Aggregation,
// after checking it against a Schema
func (a *Aggregation) Factory(schema tabula.Schema) (tabula.AccumulatorFactory, error) {
	if _, _, err := a.Resolve(schema); err != nil {
		return nil, err
	}
	switch a.kind {
	case aggSum:
		return Adder(a.colName), nil
	case aggAvg:
		return Averager(a.colName), nil
	case aggCount:
		return Counter(a.colName), nil
	case aggCountAll:
		return Counter(""), nil
	case aggMin:
		return Minimum(a.colName), nil
	case aggMax:
		return Maximum(a.colName), nil
	case aggFirst:
		return Firster(a.colName), nil
	case aggCollectList:
		return Collector(a.colName, false), nil
	default:
		return Collector(a.colName, true), nil
	}
}

// Finish converts the value of an Accumulator produced by this Aggregation's
// factory into the final result, applying rounding
func (a *Aggregation) Finish(v interface{}) interface{} {
	if !a.round {
		return v
	}
	switch tv := v.(type) {
	case float64:
		return expr.RoundHalfUp(tv, a.scale)
	case int64:
		if a.scale < 0 {
			return int64(expr.RoundHalfUp(float64(tv), a.scale))
		}
	}
	return v
}
