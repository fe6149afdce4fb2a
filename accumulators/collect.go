package accumulators

import (
	"fmt"

	"github.com/go-sif/tabula"
	itable "github.com/go-sif/tabula/internal/table"
)

// Collector returns a factory for Collect Accumulators which keep every non-nil
// value of a column, in Row order. If distinct is true, only the first
// occurrence of each value is kept.
func Collector(colName string, distinct bool) tabula.AccumulatorFactory {
	return func() tabula.Accumulator {
		c := &Collect{colName: colName, values: []interface{}{}}
		if distinct {
			c.seen = itable.NewKeyIndex()
		}
		return c
	}
}

// Collect gathers the non-nil values of a column into an array
type Collect struct {
	colName string
	values  []interface{}
	seen    *itable.KeyIndex
}

func (a *Collect) add(v interface{}) {
	if v == nil {
		return
	}
	if a.seen != nil {
		if _, isNew := a.seen.Insert([]interface{}{v}, []int{0}); !isNew {
			return
		}
	}
	a.values = append(a.values, v)
}

// Accumulate adds a row to this Accumulator
func (a *Collect) Accumulate(row tabula.Row) error {
	v, err := row.Get(a.colName)
	if err != nil {
		return err
	}
	a.add(v)
	return nil
}

// Merge merges another Accumulator, which saw later Rows, into this one
func (a *Collect) Merge(o tabula.Accumulator) error {
	ca, ok := o.(*Collect)
	if !ok || (ca.seen == nil) != (a.seen == nil) {
		return fmt.Errorf("Incoming accumulator is not a matching Collect Accumulator")
	}
	for _, v := range ca.values {
		a.add(v)
	}
	return nil
}

// Value returns a copy of the collected values, as a []interface{}
func (a *Collect) Value() interface{} {
	return tabula.CopyValue(a.values)
}
