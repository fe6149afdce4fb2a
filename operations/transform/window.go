package transform

import (
	"fmt"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/accumulators"
	"github.com/go-sif/tabula/errors"
	itable "github.com/go-sif/tabula/internal/table"
)

// Frame determines which Rows of a partition contribute to a windowed aggregate
type Frame int

const (
	// FrameDefault is FrameRangeUnboundedToCurrent if the window is ordered, otherwise FrameEntirePartition
	FrameDefault Frame = iota
	// FrameRowsUnboundedToCurrent includes every Row from the start of the partition up to the current Row
	FrameRowsUnboundedToCurrent
	// FrameRangeUnboundedToCurrent is FrameRowsUnboundedToCurrent, plus any later Rows with equal ordering values
	FrameRangeUnboundedToCurrent
	// FrameEntirePartition includes every Row of the partition
	FrameEntirePartition
)

// A WindowSpec describes how Rows are partitioned and ordered for a window function
type WindowSpec struct {
	PartitionBy []string
	OrderBy     []SortKey
	Frame       Frame
}

// PartitionBy creates a WindowSpec which partitions Rows by a set of columns
func PartitionBy(cols ...string) WindowSpec {
	return WindowSpec{PartitionBy: cols}
}

// OrderWindowBy creates an unpartitioned WindowSpec which orders Rows by a set of keys
func OrderWindowBy(keys ...SortKey) WindowSpec {
	return WindowSpec{OrderBy: keys}
}

// OrderedBy returns a copy of this WindowSpec which orders Rows by a set of keys
func (w WindowSpec) OrderedBy(keys ...SortKey) WindowSpec {
	w.OrderBy = keys
	return w
}

// WithFrame returns a copy of this WindowSpec with a specific Frame
func (w WindowSpec) WithFrame(frame Frame) WindowSpec {
	w.Frame = frame
	return w
}

// A window is a resolved WindowSpec
type window struct {
	rows       [][]interface{}
	schema     tabula.Schema
	orderKeys  []resolvedKey
	frame      Frame
	partitions [][]int // row indices of each partition, sorted by orderKeys
}

// peers returns true iff two Rows have equal ordering values
func (w *window) peers(a int, b int) bool {
	return compareRows(w.rows[a], w.rows[b], w.orderKeys) == 0
}

// A WindowFunction computes a value for every Row of a partition
type WindowFunction interface {
	Name() string
	bind(schema tabula.Schema, spec WindowSpec) (*boundWindowFunction, error)
}

// boundWindowFunction is a WindowFunction resolved against a Schema
type boundWindowFunction struct {
	colType  tabula.ColumnType
	nullable bool
	apply    func(w *window, partition []int, out []interface{}) error
}

type rankingFunc struct {
	name string
	rank func(w *window, partition []int, out []interface{})
}

func (f *rankingFunc) Name() string {
	return f.name + "()"
}

func (f *rankingFunc) bind(schema tabula.Schema, spec WindowSpec) (*boundWindowFunction, error) {
	if len(spec.OrderBy) == 0 {
		return nil, errors.InvalidArgumentError{Argument: "spec", Reason: fmt.Sprintf("%s requires an ordered window", f.name)}
	}
	return &boundWindowFunction{&tabula.IntegerColumnType{}, false, func(w *window, partition []int, out []interface{}) error {
		f.rank(w, partition, out)
		return nil
	}}, nil
}

// RowNumber numbers the Rows of each partition 1, 2, 3... in order, with no ties
func RowNumber() WindowFunction {
	return &rankingFunc{"row_number", func(w *window, partition []int, out []interface{}) {
		for pos, idx := range partition {
			out[idx] = int64(pos + 1)
		}
	}}
}

// Rank numbers the Rows of each partition in order. Rows with equal ordering
// values share a rank, and the following rank skips accordingly.
func Rank() WindowFunction {
	return &rankingFunc{"rank", func(w *window, partition []int, out []interface{}) {
		var rank int64
		for pos, idx := range partition {
			if pos == 0 || !w.peers(partition[pos-1], idx) {
				rank = int64(pos + 1)
			}
			out[idx] = rank
		}
	}}
}

// DenseRank numbers the Rows of each partition in order. Rows with equal
// ordering values share a rank, and the following rank is one greater.
func DenseRank() WindowFunction {
	return &rankingFunc{"dense_rank", func(w *window, partition []int, out []interface{}) {
		var rank int64
		for pos, idx := range partition {
			if pos == 0 || !w.peers(partition[pos-1], idx) {
				rank++
			}
			out[idx] = rank
		}
	}}
}

type offsetFunc struct {
	name    string
	colName string
	offset  int
}

// Lag produces the value of a column n Rows before the current Row within its
// partition, or nil if there is no such Row
func Lag(colName string, n int) WindowFunction {
	return &offsetFunc{name: "lag", colName: colName, offset: -n}
}

// Lead produces the value of a column n Rows after the current Row within its
// partition, or nil if there is no such Row
func Lead(colName string, n int) WindowFunction {
	return &offsetFunc{name: "lead", colName: colName, offset: n}
}

func (f *offsetFunc) Name() string {
	n := f.offset
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("%s(%s, %d)", f.name, f.colName, n)
}

func (f *offsetFunc) bind(schema tabula.Schema, spec WindowSpec) (*boundWindowFunction, error) {
	if len(spec.OrderBy) == 0 {
		return nil, errors.InvalidArgumentError{Argument: "spec", Reason: fmt.Sprintf("%s requires an ordered window", f.name)}
	}
	col, err := schema.GetOffset(f.colName)
	if err != nil {
		return nil, err
	}
	colIdx := col.Index()
	return &boundWindowFunction{col.Type(), true, func(w *window, partition []int, out []interface{}) error {
		for pos, idx := range partition {
			target := pos + f.offset
			if target >= 0 && target < len(partition) {
				out[idx] = w.rows[partition[target]][colIdx]
			}
		}
		return nil
	}}, nil
}

type aggregateFunc struct {
	agg *accumulators.Aggregation
}

// WindowAggregate computes an Aggregation over the frame of each Row, such as
// a running total
func WindowAggregate(agg *accumulators.Aggregation) WindowFunction {
	return &aggregateFunc{agg: agg}
}

func (f *aggregateFunc) Name() string {
	return f.agg.Name()
}

func (f *aggregateFunc) bind(schema tabula.Schema, spec WindowSpec) (*boundWindowFunction, error) {
	colType, nullable, err := f.agg.Resolve(schema)
	if err != nil {
		return nil, err
	}
	facc, err := f.agg.Factory(schema)
	if err != nil {
		return nil, err
	}
	return &boundWindowFunction{colType, nullable, func(w *window, partition []int, out []interface{}) error {
		return f.apply(facc(), w, partition, out)
	}}, nil
}

func (f *aggregateFunc) apply(acc tabula.Accumulator, w *window, partition []int, out []interface{}) error {
	accumulate := func(idx int) error {
		if err := acc.Accumulate(itable.CreateRow(idx, w.rows[idx], w.schema)); err != nil {
			return fmt.Errorf("row %d: %w", idx, err)
		}
		return nil
	}
	switch w.frame {
	case FrameEntirePartition:
		for _, idx := range partition {
			if err := accumulate(idx); err != nil {
				return err
			}
		}
		v := acc.Value()
		for _, idx := range partition {
			out[idx] = f.agg.Finish(tabula.CopyValue(v))
		}
	case FrameRowsUnboundedToCurrent:
		for _, idx := range partition {
			if err := accumulate(idx); err != nil {
				return err
			}
			out[idx] = f.agg.Finish(acc.Value())
		}
	default:
		for start := 0; start < len(partition); {
			end := start + 1
			for end < len(partition) && w.peers(partition[start], partition[end]) {
				end++
			}
			for _, idx := range partition[start:end] {
				if err := accumulate(idx); err != nil {
					return err
				}
			}
			v := acc.Value()
			for _, idx := range partition[start:end] {
				out[idx] = f.agg.Finish(tabula.CopyValue(v))
			}
			start = end
		}
	}
	return nil
}

// Window applies a WindowFunction to every Row, storing the result in a column.
// Rows are partitioned and ordered according to a WindowSpec, but the output
// keeps the order of the input. An existing column with the same name is
// replaced in place; otherwise the column is appended.
func Window(colName string, fn WindowFunction, spec WindowSpec) tabula.TableOperation {
	return func(t tabula.Table) (tabula.Table, error) {
		bound, err := fn.bind(t.Schema(), spec)
		if err != nil {
			return nil, err
		}
		partIdxs, err := columnIndices(t.Schema(), spec.PartitionBy)
		if err != nil {
			return nil, err
		}
		orderKeys, err := resolveSortKeys(t.Schema(), spec.OrderBy)
		if err != nil {
			return nil, err
		}
		frame := spec.Frame
		if frame == FrameDefault {
			frame = FrameEntirePartition
			if len(orderKeys) > 0 {
				frame = FrameRangeUnboundedToCurrent
			}
		}
		w := &window{rows: itable.RawRows(t), schema: t.Schema(), orderKeys: orderKeys, frame: frame}
		keys := itable.NewKeyIndex()
		for i, values := range w.rows {
			id, isNew := keys.Insert(values, partIdxs)
			if isNew {
				w.partitions = append(w.partitions, nil)
			}
			w.partitions[id] = append(w.partitions[id], i)
		}
		out := make([]interface{}, len(w.rows))
		err = itable.ParallelChunks(len(w.partitions), func(_ int, start int, end int) error {
			for _, partition := range w.partitions[start:end] {
				sortIndices(w.rows, partition, orderKeys)
				if err := bound.apply(w, partition, out); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return withValues(t, colName, bound.colType, bound.nullable, &precomputed{name: fn.Name(), values: out})
	}
}

// precomputed is an Expression whose values have already been computed for each Row
type precomputed struct {
	name   string
	values []interface{}
}

func (e *precomputed) Name() string {
	return e.name
}

func (e *precomputed) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	return nil, errors.InvalidArgumentError{Argument: e.name, Reason: "precomputed values cannot be resolved"}
}

func (e *precomputed) Nullable(schema tabula.Schema) bool {
	return true
}

func (e *precomputed) Evaluate(row tabula.Row) (interface{}, error) {
	return e.values[row.Index()], nil
}
