package accumulators

import (
	"fmt"

	"github.com/go-sif/tabula"
)

// Compose returns a new Composed Accumulator
func Compose(faccs ...tabula.AccumulatorFactory) tabula.AccumulatorFactory {
	return func() tabula.Accumulator {
		accs := make([]tabula.Accumulator, len(faccs))
		for i, f := range faccs {
			accs[i] = f()
		}
		return &Composed{accs: accs}
	}
}

// Composed composes other Accumulators
type Composed struct {
	accs []tabula.Accumulator
}

// GetResults returns the contained Accumulators, so that their results may be accessed
func (c *Composed) GetResults() []tabula.Accumulator {
	return c.accs
}

// Accumulate adds a row to all contained Accumulators
func (c *Composed) Accumulate(row tabula.Row) error {
	for _, a := range c.accs {
		err := a.Accumulate(row)
		if err != nil {
			return err
		}
	}
	return nil
}

// Merge merges another Composed Accumulator into this one, merging all contained Accumulators
func (c *Composed) Merge(o tabula.Accumulator) error {
	compa, ok := o.(*Composed)
	if !ok || len(compa.accs) != len(c.accs) {
		return fmt.Errorf("Incoming accumulator is not a matching Composed Accumulator")
	}
	for i, a := range c.accs {
		err := a.Merge(compa.accs[i])
		if err != nil {
			return err
		}
	}
	return nil
}

// Value returns the values of all contained Accumulators, as a []interface{}
func (c *Composed) Value() interface{} {
	res := make([]interface{}, len(c.accs))
	for i, a := range c.accs {
		res[i] = a.Value()
	}
	return res
}
