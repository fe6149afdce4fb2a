package accumulators

import (
	"testing"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	itable "github.com/go-sif/tabula/internal/table"
	"github.com/go-sif/tabula/schema"
	"github.com/stretchr/testify/require"
)

func createTestRows(t *testing.T) (tabula.Schema, []tabula.Row) {
	s, err := schema.ParseDDL("item STRING, qty INT, price DOUBLE")
	require.Nil(t, err)
	values := [][]interface{}{
		{"a", int64(2), 1.5},
		{"b", nil, 2.0},
		{"a", int64(3), nil},
		{nil, int64(5), 4.25},
	}
	rows := make([]tabula.Row, len(values))
	for i, v := range values {
		rows[i] = itable.CreateRow(i, v, s)
	}
	return s, rows
}

func accumulate(t *testing.T, s tabula.Schema, rows []tabula.Row, agg *Aggregation) interface{} {
	facc, err := agg.Factory(s)
	require.Nil(t, err)
	acc := facc()
	for _, r := range rows {
		require.Nil(t, acc.Accumulate(r))
	}
	return agg.Finish(acc.Value())
}

func TestAggregations(t *testing.T) {
	s, rows := createTestRows(t)
	tests := []struct {
		agg      *Aggregation
		name     string
		expected interface{}
	}{
		{Sum("qty"), "sum(qty)", int64(10)},
		{Sum("price"), "sum(price)", 7.75},
		{Avg("price"), "avg(price)", 7.75 / 3},
		{Avg("price").Round(2), "round(avg(price), 2)", 2.58},
		{Count("qty"), "count(qty)", int64(3)},
		{CountAll(), "count(1)", int64(4)},
		{Min("item"), "min(item)", "a"},
		{Max("price"), "max(price)", 4.25},
		{FirstValue("item"), "first(item)", "a"},
		{CollectList("item"), "collect_list(item)", []interface{}{"a", "b", "a"}},
		{CollectSet("item").As("items"), "items", []interface{}{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.name, tt.agg.Name())
			require.Equal(t, tt.expected, accumulate(t, s, rows, tt.agg))
		})
	}
}

func TestAggregationOverNoValues(t *testing.T) {
	s, rows := createTestRows(t)
	require.Nil(t, accumulate(t, s, rows[1:2], Sum("qty")))
	require.Nil(t, accumulate(t, s, nil, Avg("qty")))
	require.Equal(t, int64(0), accumulate(t, s, rows[1:2], Count("qty")))
	require.Equal(t, []interface{}{}, accumulate(t, s, nil, CollectList("qty")))
}

func TestAggregationResolve(t *testing.T) {
	s, _ := createTestRows(t)
	colType, nullable, err := Sum("qty").Resolve(s)
	require.Nil(t, err)
	require.Equal(t, "INT", colType.Name())
	require.True(t, nullable)

	colType, nullable, err = CollectList("item").Resolve(s)
	require.Nil(t, err)
	require.Equal(t, "ARRAY<STRING>", colType.Name())
	require.False(t, nullable)

	_, _, err = Sum("item").Resolve(s)
	require.True(t, errors.IsTypeError(err))
	_, _, err = Avg("missing").Resolve(s)
	require.True(t, errors.IsColumnNotFound(err))
	_, _, err = Min("item").Round(1).Resolve(s)
	require.True(t, errors.IsTypeError(err))
}

func TestMergeMatchesSequentialAccumulation(t *testing.T) {
	s, rows := createTestRows(t)
	for _, agg := range []*Aggregation{Sum("qty"), Sum("price"), Avg("qty"), Count("price"), Min("qty"), Max("item"), FirstValue("qty"), CollectList("item"), CollectSet("item")} {
		facc, err := agg.Factory(s)
		require.Nil(t, err)
		left, right := facc(), facc()
		for _, r := range rows[:2] {
			require.Nil(t, left.Accumulate(r))
		}
		for _, r := range rows[2:] {
			require.Nil(t, right.Accumulate(r))
		}
		require.Nil(t, left.Merge(right))
		require.Equal(t, accumulate(t, s, rows, agg), agg.Finish(left.Value()), agg.Name())
	}
}

func TestComposed(t *testing.T) {
	_, rows := createTestRows(t)
	facc := Compose(Counter(""), Adder("qty"))
	a, b := facc(), facc()
	require.Nil(t, a.Accumulate(rows[0]))
	require.Nil(t, b.Accumulate(rows[2]))
	require.Nil(t, a.Merge(b))
	require.Equal(t, []interface{}{int64(2), int64(5)}, a.Value())
	require.NotNil(t, a.Merge(Counter("")()))
}

func TestAccumulatorTypes(t *testing.T) {
	_, rows := createTestRows(t)
	sum, ok := Adder("qty")().(*SumAccumulator)
	require.True(t, ok)
	count, ok := Counter("")().(*CountAccumulator)
	require.True(t, ok)
	avg, ok := Averager("qty")().(*AvgAccumulator)
	require.True(t, ok)
	require.Nil(t, sum.Accumulate(rows[0]))
	require.Nil(t, count.Accumulate(rows[0]))
	require.Nil(t, avg.Accumulate(rows[0]))
	require.Equal(t, int64(2), sum.Value())
	require.Equal(t, 2.0, sum.GetSum())
	require.Equal(t, 2.0, avg.Value())
	require.Equal(t, int64(1), count.GetCount())
	require.NotNil(t, sum.Merge(count))
	require.NotNil(t, count.Merge(avg))
	require.NotNil(t, avg.Merge(sum))
}
