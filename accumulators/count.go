package accumulators

import (
	"fmt"

	"github.com/go-sif/tabula"
)

// Counter returns a factory for CountAccumulators. If colName is empty, every
// Row is counted; otherwise only Rows with a non-nil value in that column.
func Counter(colName string) tabula.AccumulatorFactory {
	return func() tabula.Accumulator {
		return &CountAccumulator{colName: colName}
	}
}

// CountAccumulator counts records
type CountAccumulator struct {
	colName string
	count   int64
}

// GetCount returns the row count from this Accumulator
func (a *CountAccumulator) GetCount() int64 {
	return a.count
}

// Accumulate adds a row to this Accumulator
func (a *CountAccumulator) Accumulate(row tabula.Row) error {
	if len(a.colName) > 0 {
		isNil, err := row.IsNil(a.colName)
		if err != nil {
			return err
		} else if isNil {
			return nil
		}
	}
	a.count++
	return nil
}

// Merge merges another Accumulator into this one
func (a *CountAccumulator) Merge(o tabula.Accumulator) error {
	ca, ok := o.(*CountAccumulator)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not a Count Accumulator")
	}
	a.count += ca.count
	return nil
}

// Value returns the count, as an int64
func (a *CountAccumulator) Value() interface{} {
	return a.count
}
