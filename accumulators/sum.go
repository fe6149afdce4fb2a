package accumulators

import (
	"fmt"

	"github.com/go-sif/tabula"
)

// Adder returns a factory for SumAccumulators over a numeric column
func Adder(colName string) tabula.AccumulatorFactory {
	return func() tabula.Accumulator {
		return &SumAccumulator{colName: colName}
	}
}

// SumAccumulator sums the non-nil values of a numeric column. The sum of Integers is an
// Integer; if any Double is encountered the sum becomes a Double. The sum of
// no values is nil.
type SumAccumulator struct {
	colName  string
	seen     bool
	isDouble bool
	intSum   int64
	sum      float64
}

// GetSum returns the sum from this Accumulator, as a float64
func (a *SumAccumulator) GetSum() float64 {
	if a.isDouble {
		return a.sum
	}
	return float64(a.intSum)
}

// Accumulate adds a row to this Accumulator
func (a *SumAccumulator) Accumulate(row tabula.Row) error {
	v, err := row.Get(a.colName)
	if err != nil {
		return err
	}
	switch tv := v.(type) {
	case nil:
		return nil
	case int64:
		a.addInt(tv)
	case float64:
		a.addDouble(tv)
	default:
		return fmt.Errorf("Cannot sum value of type %T in column %s", v, a.colName)
	}
	a.seen = true
	return nil
}

func (a *SumAccumulator) addInt(v int64) {
	if a.isDouble {
		a.sum += float64(v)
	} else {
		a.intSum += v
	}
}

func (a *SumAccumulator) addDouble(v float64) {
	if !a.isDouble {
		a.isDouble = true
		a.sum = float64(a.intSum)
	}
	a.sum += v
}

// Merge merges another Accumulator into this one
func (a *SumAccumulator) Merge(o tabula.Accumulator) error {
	sa, ok := o.(*SumAccumulator)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not a Sum Accumulator")
	}
	if !sa.seen {
		return nil
	}
	if sa.isDouble {
		a.addDouble(sa.sum)
	} else {
		a.addInt(sa.intSum)
	}
	a.seen = true
	return nil
}

// Value returns the sum as an int64 or float64, or nil if no values were summed
func (a *SumAccumulator) Value() interface{} {
	if !a.seen {
		return nil
	} else if a.isDouble {
		return a.sum
	}
	return a.intSum
}
