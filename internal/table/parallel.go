package table

import (
	"github.com/go-sif/tabula"
	"golang.org/x/sync/errgroup"
)

// minChunkSize is the smallest number of rows worth handing to a goroutine
const minChunkSize = 1024

// Chunks divides n rows into contiguous [start, end) ranges, one per unit of
// parallelism, each at least minChunkSize rows long (except possibly the last).
func Chunks(n int) [][2]int {
	workers := tabula.Parallelism()
	size := (n + workers - 1) / workers
	if size < minChunkSize {
		size = minChunkSize
	}
	var res [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		res = append(res, [2]int{start, end})
	}
	return res
}

// ParallelChunks runs fn over every chunk of n rows, concurrently when there is
// more than one chunk. All goroutines have returned by the time ParallelChunks
// does. The reported error is the one from the lowest failing chunk, so that
// errors are deterministic regardless of scheduling.
func ParallelChunks(n int, fn func(chunk int, start int, end int) error) error {
	chunks := Chunks(n)
	if len(chunks) <= 1 {
		for i, c := range chunks {
			if err := fn(i, c[0], c[1]); err != nil {
				return err
			}
		}
		return nil
	}
	errs := make([]error, len(chunks))
	var g errgroup.Group
	g.SetLimit(tabula.Parallelism())
	for i, c := range chunks {
		i, c := i, c
		g.Go(func() error {
			errs[i] = fn(i, c[0], c[1])
			return nil
		})
	}
	g.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// MapRows evaluates fn over every Row of a Table, in parallel for large
// Tables, returning one result per Row in Row order. If any evaluation
// fails, the error for the lowest failing Row index is returned.
func MapRows(t tabula.Table, fn func(row tabula.Row) (interface{}, error)) ([]interface{}, error) {
	rows := RawRows(t)
	schema := t.Schema()
	results := make([]interface{}, len(rows))
	err := ParallelChunks(len(rows), func(_ int, start int, end int) error {
		for i := start; i < end; i++ {
			v, err := fn(CreateRow(i, rows[i], schema))
			if err != nil {
				return err
			}
			results[i] = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
