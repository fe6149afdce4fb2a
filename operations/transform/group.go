package transform

import (
	"fmt"
	"sort"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/accumulators"
	"github.com/go-sif/tabula/errors"
	itable "github.com/go-sif/tabula/internal/table"
	"github.com/go-sif/tabula/schema"
)

// A Grouping partitions Rows by equality on a set of key columns. nil keys
// are grouped together.
type Grouping struct {
	keys []string
}

// GroupBy partitions Rows by equality on a set of key columns, for aggregation
func GroupBy(keys ...string) *Grouping {
	return &Grouping{keys: keys}
}

// Aggregate is a convenience for GroupBy(keys...).Agg(aggs...)
func Aggregate(keys []string, aggs ...*accumulators.Aggregation) tabula.TableOperation {
	return GroupBy(keys...).Agg(aggs...)
}

// groupSchema creates the output Schema of a grouped aggregation: the key columns
// followed by the given aggregate columns
func groupSchema(in tabula.Schema, keys []string) (tabula.Schema, []int, error) {
	idxs, err := columnIndices(in, keys)
	if err != nil {
		return nil, nil, err
	}
	var out tabula.Schema = schema.CreateSchema()
	for _, k := range keys {
		col, err := in.GetOffset(k)
		if err != nil {
			return nil, nil, err
		}
		out, err = out.CreateColumn(col.Name(), col.Type(), col.Nullable())
		if err != nil {
			return nil, nil, err
		}
	}
	return out, idxs, nil
}

// groupState holds one Accumulator per distinct key, in order of first occurrence
type groupState struct {
	keys *itable.KeyIndex
	accs []tabula.Accumulator
}

func (g *groupState) accumulate(values []interface{}, idxs []int, row tabula.Row, facc tabula.AccumulatorFactory) error {
	id, isNew := g.keys.Insert(values, idxs)
	if isNew {
		g.accs = append(g.accs, facc())
	}
	return g.accs[id].Accumulate(row)
}

// accumulateGroups accumulates every Row of a Table into per-key Accumulators.
// Chunks of large Tables are accumulated in parallel, then merged in order, so
// that the order of first occurrence is preserved.
func accumulateGroups(t tabula.Table, idxs []int, facc tabula.AccumulatorFactory) (*groupState, error) {
	rows := itable.RawRows(t)
	schema := t.Schema()
	chunks := itable.Chunks(len(rows))
	states := make([]*groupState, len(chunks))
	err := itable.ParallelChunks(len(rows), func(chunk int, start int, end int) error {
		state := &groupState{keys: itable.NewKeyIndex()}
		for i := start; i < end; i++ {
			if err := state.accumulate(rows[i], idxs, itable.CreateRow(i, rows[i], schema), facc); err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
		}
		states[chunk] = state
		return nil
	})
	if err != nil {
		return nil, err
	}
	merged := &groupState{keys: itable.NewKeyIndex()}
	keyIdxs := itable.Indices(len(idxs))
	for _, state := range states {
		if state == nil {
			continue
		}
		for id := 0; id < state.keys.Len(); id++ {
			gid, isNew := merged.keys.Insert(state.keys.Key(id), keyIdxs)
			if isNew {
				merged.accs = append(merged.accs, state.accs[id])
			} else if err := merged.accs[gid].Merge(state.accs[id]); err != nil {
				return nil, err
			}
		}
	}
	return merged, nil
}

// Agg computes Aggregations over each group, producing one Row per distinct key
// with the key columns followed by one column per Aggregation. Groups appear in
// order of first occurrence. If there are no keys, a single Row aggregates the
// entire Table.
func (g *Grouping) Agg(aggs ...*accumulators.Aggregation) tabula.TableOperation {
	return func(t tabula.Table) (tabula.Table, error) {
		if len(aggs) == 0 {
			return nil, errors.InvalidArgumentError{Argument: "aggs", Reason: "agg requires at least one aggregation"}
		}
		out, idxs, err := groupSchema(t.Schema(), g.keys)
		if err != nil {
			return nil, err
		}
		faccs := make([]tabula.AccumulatorFactory, len(aggs))
		for i, agg := range aggs {
			colType, nullable, err := agg.Resolve(t.Schema())
			if err != nil {
				return nil, err
			}
			if out, err = out.CreateColumn(agg.Name(), colType, nullable); err != nil {
				return nil, err
			}
			if faccs[i], err = agg.Factory(t.Schema()); err != nil {
				return nil, err
			}
		}
		state, err := accumulateGroups(t, idxs, accumulators.Compose(faccs...))
		if err != nil {
			return nil, err
		}
		if len(g.keys) == 0 && state.keys.Len() == 0 {
			state.accs = append(state.accs, accumulators.Compose(faccs...)())
			state.keys.Insert(nil, nil)
		}
		rows := make([][]interface{}, state.keys.Len())
		for id := range rows {
			values := append([]interface{}{}, state.keys.Key(id)...)
			for i, v := range state.accs[id].Value().([]interface{}) {
				values = append(values, aggs[i].Finish(v))
			}
			rows[id] = values
		}
		return itable.CreateTable(out, rows), nil
	}
}

// A PivotedGrouping partitions Rows by a set of key columns, and spreads the
// distinct values of a pivot column into separate result columns
type PivotedGrouping struct {
	keys     []string
	pivotCol string
	values   []interface{}
}

// Pivot spreads the values of a column into separate result columns. If no
// values are given, the distinct values of the column are used, sorted
// ascending; a nil value becomes a column named "null".
func (g *Grouping) Pivot(pivotCol string, values ...interface{}) *PivotedGrouping {
	return &PivotedGrouping{keys: g.keys, pivotCol: pivotCol, values: values}
}

// Pivot is a convenience for GroupBy(keys...).Pivot(pivotCol, values...).Agg(agg)
func Pivot(keys []string, pivotCol string, agg *accumulators.Aggregation, values ...interface{}) tabula.TableOperation {
	return GroupBy(keys...).Pivot(pivotCol, values...).Agg(agg)
}

func (p *PivotedGrouping) pivotValues(t tabula.Table, pivotIdx int) ([]interface{}, error) {
	pivotType := t.Schema().Columns()[pivotIdx].Type()
	if len(p.values) > 0 {
		res := make([]interface{}, len(p.values))
		for i, v := range p.values {
			nv, ok := tabula.NormalizeValue(v)
			if !ok {
				return nil, errors.InvalidArgumentError{Argument: "values", Reason: fmt.Sprintf("unsupported pivot value %v", v)}
			}
			if nv != nil {
				vt, ok := tabula.TypeOf(nv)
				if !ok || !(tabula.TypesEqual(vt, pivotType) || tabula.IsNumeric(vt) && tabula.IsNumeric(pivotType)) {
					return nil, errors.TypeError{Column: p.pivotCol, Expected: pivotType.Name(), Actual: fmt.Sprintf("%T", v)}
				}
			}
			res[i] = nv
		}
		return res, nil
	}
	distinct := itable.NewKeyIndex()
	for _, values := range itable.RawRows(t) {
		distinct.Insert(values, []int{pivotIdx})
	}
	res := make([]interface{}, distinct.Len())
	for i := range res {
		res[i] = distinct.Key(i)[0]
	}
	sort.SliceStable(res, func(i, j int) bool {
		return tabula.CompareValues(res[i], res[j]) < 0
	})
	return res, nil
}

// Agg computes Aggregations for each (group, pivot value) pair. With a single
// Aggregation, result columns are named by pivot value; otherwise they are
// named value_aggregation. Cells with no matching Rows are nil.
func (p *PivotedGrouping) Agg(aggs ...*accumulators.Aggregation) tabula.TableOperation {
	return func(t tabula.Table) (tabula.Table, error) {
		if len(aggs) == 0 {
			return nil, errors.InvalidArgumentError{Argument: "aggs", Reason: "agg requires at least one aggregation"}
		}
		out, idxs, err := groupSchema(t.Schema(), p.keys)
		if err != nil {
			return nil, err
		}
		pivot, err := t.Schema().GetOffset(p.pivotCol)
		if err != nil {
			return nil, err
		}
		pivotValues, err := p.pivotValues(t, pivot.Index())
		if err != nil {
			return nil, err
		}
		faccs := make([]tabula.AccumulatorFactory, len(aggs))
		for _, v := range pivotValues {
			for i, agg := range aggs {
				colType, _, err := agg.Resolve(t.Schema())
				if err != nil {
					return nil, err
				}
				name := tabula.FormatValue(v)
				if len(aggs) > 1 {
					name = name + "_" + agg.Name()
				}
				if out, err = out.CreateColumn(name, colType, true); err != nil {
					return nil, err
				}
				if faccs[i], err = agg.Factory(t.Schema()); err != nil {
					return nil, err
				}
			}
		}
		if len(pivotValues) == 0 {
			for _, agg := range aggs {
				if _, _, err := agg.Resolve(t.Schema()); err != nil {
					return nil, err
				}
			}
		}
		pivotIndex := itable.NewKeyIndex()
		for _, v := range pivotValues {
			pivotIndex.Insert([]interface{}{v}, []int{0})
		}
		groups := itable.NewKeyIndex()
		var cells [][]tabula.Accumulator
		facc := accumulators.Compose(faccs...)
		pivotIdxs := []int{pivot.Index()}
		for i, values := range itable.RawRows(t) {
			gid, isNew := groups.Insert(values, idxs)
			if isNew {
				cells = append(cells, make([]tabula.Accumulator, len(pivotValues)))
			}
			pid, found := pivotIndex.Find(values, pivotIdxs)
			if !found {
				continue
			}
			if cells[gid][pid] == nil {
				cells[gid][pid] = facc()
			}
			if err := cells[gid][pid].Accumulate(itable.CreateRow(i, values, t.Schema())); err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
		}
		rows := make([][]interface{}, groups.Len())
		for gid := range rows {
			values := append([]interface{}{}, groups.Key(gid)...)
			for _, acc := range cells[gid] {
				if acc == nil {
					for range aggs {
						values = append(values, nil)
					}
					continue
				}
				for i, v := range acc.Value().([]interface{}) {
					values = append(values, aggs[i].Finish(v))
				}
			}
			rows[gid] = values
		}
		return itable.CreateTable(out, rows), nil
	}
}
