package stats

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/expr"
	"github.com/go-sif/tabula/operations/transform"
	ttest "github.com/go-sif/tabula/testing"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	tbl := ttest.CreateTable(t, "n INT", []interface{}{1}, []interface{}{2}, []interface{}{3}, []interface{}{4})
	res, rs, err := Run(tbl,
		transform.Filter(expr.Gt(expr.Col("n"), expr.Lit(1))),
		transform.Limit(2),
	)
	require.Nil(t, err)
	ttest.RequireRows(t, [][]interface{}{{2}, {3}}, res)

	stages := rs.Stages()
	require.Len(t, stages, 2)
	require.Equal(t, 4, stages[0].RowsIn)
	require.Equal(t, 3, stages[0].RowsOut)
	require.Equal(t, 3, stages[1].RowsIn)
	require.Equal(t, 2, stages[1].RowsOut)
	require.Equal(t, []int{4, 3}, rs.GetNumRowsProcessed())
	require.Len(t, rs.GetStageRuntimes(), 2)
	require.False(t, rs.GetStartTime().IsZero())
	require.Equal(t, rs.totalRuntime, rs.GetRuntime())

	var buf bytes.Buffer
	slog.New(slog.NewTextHandler(&buf, nil)).Info("done", "stats", rs)
	require.Contains(t, buf.String(), "stats.stages=2")
	require.Contains(t, buf.String(), "stats.stage1.rows_out=2")
}

func TestRunError(t *testing.T) {
	tbl := ttest.CreateTable(t, "n INT", []interface{}{1})
	_, rs, err := Run(tbl, transform.Limit(1), transform.SelectColumns("missing"))
	require.True(t, errors.IsColumnNotFound(err))
	require.Equal(t, 1, rs.Stages()[0].RowsOut)
	require.Equal(t, StageStatistics{}, rs.Stages()[1])
}
