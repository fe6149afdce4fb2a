package transform

import (
	"fmt"
	"testing"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/accumulators"
	"github.com/go-sif/tabula/errors"
	ttest "github.com/go-sif/tabula/testing"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestGroupBySum(t *testing.T) {
	tbl := ttest.CreateTable(t, "Item_Type STRING, Item_MRP DOUBLE",
		[]interface{}{"Drinks", 10},
		[]interface{}{"Drinks", 20},
		[]interface{}{"Food", 5},
	)
	res, err := tbl.To(GroupBy("Item_Type").Agg(accumulators.Sum("Item_MRP")))
	require.Nil(t, err)
	require.Equal(t, []string{"Item_Type", "sum(Item_MRP)"}, res.Schema().ColumnNames())
	expected := ttest.CreateTable(t, "Item_Type STRING, `sum(Item_MRP)` DOUBLE",
		[]interface{}{"Food", 5},
		[]interface{}{"Drinks", 30},
	)
	ttest.RequireEqualUnordered(t, expected, res)
}

func TestGroupByManyAggregations(t *testing.T) {
	items := createItems(t)
	res, err := items.To(
		Aggregate([]string{"Item_Fat_Content"},
			accumulators.CountAll(),
			accumulators.Count("Item_Weight"),
			accumulators.Avg("Item_Weight").Round(2).As("avg_weight"),
			accumulators.Max("Item_MRP"),
			accumulators.Min("Item_Type"),
			accumulators.CollectSet("Item_Identifier"),
		),
	)
	require.Nil(t, err)
	require.Equal(t, []string{
		"Item_Fat_Content", "count(1)", "count(Item_Weight)", "avg_weight", "max(Item_MRP)", "min(Item_Type)", "collect_set(Item_Identifier)",
	}, res.Schema().ColumnNames())
	ttest.RequireRows(t, [][]interface{}{
		{"Low Fat", 3, 3, 12.03, 249.8, "Dairy", []interface{}{"FDA15", "FDN15"}},
		{"Regular", 2, 1, 5.92, 182.1, "Fruits and Vegetables", []interface{}{"DRC01", "FDX07"}},
		{"LF", 1, 1, 8.93, 53.86, "Household", []interface{}{"NCD19"}},
	}, res)
}

func TestAggregateWithoutKeys(t *testing.T) {
	items := createItems(t)
	res, err := items.To(GroupBy().Agg(accumulators.CountAll(), accumulators.Sum("Item_MRP").Round(0)))
	require.Nil(t, err)
	ttest.RequireRows(t, [][]interface{}{{6, 925.0}}, res)

	empty, err := items.To(Limit(0), GroupBy().Agg(accumulators.CountAll(), accumulators.Sum("Item_MRP")))
	require.Nil(t, err)
	ttest.RequireRows(t, [][]interface{}{{0, nil}}, empty)

	grouped, err := items.To(Limit(0), GroupBy("Item_Type").Agg(accumulators.CountAll()))
	require.Nil(t, err)
	require.Equal(t, 0, grouped.NumRows())
}

func TestGroupByNilKeys(t *testing.T) {
	tbl := ttest.CreateTable(t, "k STRING, v INT",
		[]interface{}{nil, 1},
		[]interface{}{"a", 2},
		[]interface{}{nil, 3},
	)
	res, err := tbl.To(GroupBy("k").Agg(accumulators.Sum("v"), accumulators.CollectList("v")))
	require.Nil(t, err)
	ttest.RequireRows(t, [][]interface{}{
		{nil, 4, []interface{}{int64(1), int64(3)}},
		{"a", 2, []interface{}{int64(2)}},
	}, res)
}

func TestGroupByErrors(t *testing.T) {
	items := createItems(t)
	_, err := items.To(GroupBy("missing").Agg(accumulators.CountAll()))
	require.True(t, errors.IsColumnNotFound(err))
	_, err = items.To(GroupBy("Item_Type").Agg())
	require.True(t, errors.IsInvalidArgument(err))
	_, err = items.To(GroupBy("Item_Type").Agg(accumulators.Sum("Item_Identifier")))
	require.True(t, errors.IsTypeError(err))
	_, err = items.To(GroupBy("Item_Type").Agg(accumulators.Avg("nope")))
	require.True(t, errors.IsColumnNotFound(err))
}

func TestGroupByParallel(t *testing.T) {
	defer goleak.VerifyNone(t)
	rows := make([][]interface{}, 10000)
	for i := range rows {
		rows[i] = []interface{}{fmt.Sprintf("g%d", i%13), i}
	}
	tbl := ttest.CreateTable(t, "g STRING, n INT", rows...)
	res, err := tbl.To(GroupBy("g").Agg(accumulators.CountAll(), accumulators.Sum("n"), accumulators.FirstValue("n")))
	require.Nil(t, err)
	require.Equal(t, 13, res.NumRows())
	for gid, values := range res.Rows() {
		require.Equal(t, fmt.Sprintf("g%d", gid), values[0])
		var count, sum int64
		for n := gid; n < len(rows); n += 13 {
			count++
			sum += int64(n)
		}
		require.Equal(t, count, values[1])
		require.Equal(t, sum, values[2])
		require.Equal(t, int64(gid), values[3])
	}
}

func TestPivot(t *testing.T) {
	tbl := ttest.CreateTable(t, "year INT, quarter STRING, revenue DOUBLE",
		[]interface{}{2023, "Q1", 10},
		[]interface{}{2023, "Q2", 20},
		[]interface{}{2024, "Q1", 5},
		[]interface{}{2024, "Q1", 1},
		[]interface{}{2023, nil, 3},
	)
	res, err := tbl.To(Pivot([]string{"year"}, "quarter", accumulators.Sum("revenue")))
	require.Nil(t, err)
	require.Equal(t, []string{"year", "null", "Q1", "Q2"}, res.Schema().ColumnNames())
	ttest.RequireRows(t, [][]interface{}{
		{2023, 3.0, 10.0, 20.0},
		{2024, nil, 6.0, nil},
	}, res)

	res, err = tbl.To(GroupBy("year").Pivot("quarter", "Q2", "Q3").Agg(accumulators.Sum("revenue"), accumulators.CountAll()))
	require.Nil(t, err)
	require.Equal(t, []string{"year", "Q2_sum(revenue)", "Q2_count(1)", "Q3_sum(revenue)", "Q3_count(1)"}, res.Schema().ColumnNames())
	ttest.RequireRows(t, [][]interface{}{
		{2023, 20.0, 1, nil, nil},
		{2024, nil, nil, nil, nil},
	}, res)

	_, err = tbl.To(GroupBy("year").Pivot("quarter", 1).Agg(accumulators.CountAll()))
	require.True(t, errors.IsTypeError(err))
	_, err = tbl.To(GroupBy("year").Pivot("missing").Agg(accumulators.CountAll()))
	require.True(t, errors.IsColumnNotFound(err))
}

func TestAggregationNullability(t *testing.T) {
	items := createItems(t)
	res, err := items.To(GroupBy("Item_Type").Agg(accumulators.Count("Item_Weight"), accumulators.Sum("Item_Weight")))
	require.Nil(t, err)
	cols := res.Schema().Columns()
	require.False(t, cols[1].Nullable())
	require.True(t, cols[2].Nullable())
	require.IsType(t, &tabula.DoubleColumnType{}, cols[2].Type())
}
