package accumulators

import (
	"fmt"

	"github.com/go-sif/tabula"
)

// Minimum returns a factory for Extremum Accumulators which find the least value of a column
func Minimum(colName string) tabula.AccumulatorFactory {
	return func() tabula.Accumulator {
		return &Extremum{colName: colName, sign: -1}
	}
}

// Maximum returns a factory for Extremum Accumulators which find the greatest value of a column
func Maximum(colName string) tabula.AccumulatorFactory {
	return func() tabula.Accumulator {
		return &Extremum{colName: colName, sign: 1}
	}
}

// Extremum tracks the least or greatest non-nil value of a column
type Extremum struct {
	colName string
	sign    int
	value   interface{}
}

func (a *Extremum) offer(v interface{}) {
	if v == nil {
		return
	}
	if a.value == nil || tabula.CompareValues(v, a.value)*a.sign > 0 {
		a.value = v
	}
}

// Accumulate adds a row to this Accumulator
func (a *Extremum) Accumulate(row tabula.Row) error {
	v, err := row.Get(a.colName)
	if err != nil {
		return err
	}
	a.offer(v)
	return nil
}

// Merge merges another Accumulator into this one
func (a *Extremum) Merge(o tabula.Accumulator) error {
	ea, ok := o.(*Extremum)
	if !ok || ea.sign != a.sign {
		return fmt.Errorf("Incoming accumulator is not a matching Extremum Accumulator")
	}
	a.offer(ea.value)
	return nil
}

// Value returns the extreme value, or nil if no values were seen
func (a *Extremum) Value() interface{} {
	return tabula.CopyValue(a.value)
}
