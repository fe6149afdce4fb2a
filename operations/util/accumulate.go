package util

import (
	"fmt"

	"github.com/go-sif/tabula"
	itable "github.com/go-sif/tabula/internal/table"
)

// Accumulate combines every Row of a Table using a user-provided data structure.
// Chunks of large Tables are accumulated in parallel, each into its own
// Accumulator, and the results are merged in Row order.
func Accumulate(t tabula.Table, facc tabula.AccumulatorFactory) (tabula.Accumulator, error) {
	rows := itable.RawRows(t)
	schema := t.Schema()
	accs := make([]tabula.Accumulator, len(itable.Chunks(len(rows))))
	err := itable.ParallelChunks(len(rows), func(chunk int, start int, end int) error {
		acc := facc()
		for i := start; i < end; i++ {
			if err := acc.Accumulate(itable.CreateRow(i, rows[i], schema)); err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
		}
		accs[chunk] = acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(accs) == 0 {
		return facc(), nil
	}
	for _, acc := range accs[1:] {
		if err := accs[0].Merge(acc); err != nil {
			return nil, err
		}
	}
	return accs[0], nil
}
