package accumulators

import (
	"fmt"

	"github.com/go-sif/tabula"
)

// Firster returns a factory for First Accumulators
func Firster(colName string) tabula.AccumulatorFactory {
	return func() tabula.Accumulator {
		return &First{colName: colName}
	}
}

// First keeps the value of a column in the first Row it sees, even if that value is nil
type First struct {
	colName string
	seen    bool
	value   interface{}
}

// Accumulate adds a row to this Accumulator
func (a *First) Accumulate(row tabula.Row) error {
	if a.seen {
		return nil
	}
	v, err := row.Get(a.colName)
	if err != nil {
		return err
	}
	a.seen = true
	a.value = v
	return nil
}

// Merge merges another Accumulator, which saw later Rows, into this one
func (a *First) Merge(o tabula.Accumulator) error {
	fa, ok := o.(*First)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not a First Accumulator")
	}
	if !a.seen && fa.seen {
		a.seen = true
		a.value = fa.value
	}
	return nil
}

// Value returns the first value, or nil if no Rows were seen
func (a *First) Value() interface{} {
	return tabula.CopyValue(a.value)
}
