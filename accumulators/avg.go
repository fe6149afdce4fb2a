package accumulators

import (
	"fmt"

	"github.com/go-sif/tabula"
)

// Averager returns a factory for AvgAccumulators over a numeric column
func Averager(colName string) tabula.AccumulatorFactory {
	return func() tabula.Accumulator {
		return &AvgAccumulator{colName: colName}
	}
}

// AvgAccumulator computes the arithmetic mean of the non-nil values of a numeric column
type AvgAccumulator struct {
	colName string
	sum     float64
	count   int64
}

// Accumulate adds a row to this Accumulator
func (a *AvgAccumulator) Accumulate(row tabula.Row) error {
	v, err := row.Get(a.colName)
	if err != nil {
		return err
	}
	switch tv := v.(type) {
	case nil:
		return nil
	case int64:
		a.sum += float64(tv)
	case float64:
		a.sum += tv
	default:
		return fmt.Errorf("Cannot average value of type %T in column %s", v, a.colName)
	}
	a.count++
	return nil
}

// Merge merges another Accumulator into this one
func (a *AvgAccumulator) Merge(o tabula.Accumulator) error {
	aa, ok := o.(*AvgAccumulator)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not an Avg Accumulator")
	}
	a.sum += aa.sum
	a.count += aa.count
	return nil
}

// Value returns the mean as a float64, or nil if no values were seen
func (a *AvgAccumulator) Value() interface{} {
	if a.count == 0 {
		return nil
	}
	return a.sum / float64(a.count)
}
