package util

import (
	"testing"

	"github.com/go-sif/tabula/accumulators"
	"github.com/go-sif/tabula/errors"
	ttest "github.com/go-sif/tabula/testing"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestAccumulate(t *testing.T) {
	defer goleak.VerifyNone(t)
	rows := make([][]interface{}, 3000)
	for i := range rows {
		rows[i] = []interface{}{i}
	}
	tbl := ttest.CreateTable(t, "n INT", rows...)
	acc, err := Accumulate(tbl, accumulators.Compose(accumulators.Adder("n"), accumulators.Firster("n")))
	require.Nil(t, err)
	require.Equal(t, []interface{}{int64(3000 * 2999 / 2), int64(0)}, acc.Value())

	empty, err := Accumulate(ttest.CreateTable(t, "n INT"), accumulators.Counter(""))
	require.Nil(t, err)
	require.Equal(t, int64(0), empty.Value())

	_, err = Accumulate(tbl, accumulators.Adder("missing"))
	require.True(t, errors.IsColumnNotFound(err))
}

func TestCollect(t *testing.T) {
	tbl := ttest.CreateTable(t, "n INT, s STRING", []interface{}{1, "a"}, []interface{}{2, "b"}, []interface{}{3, nil})
	rows, err := Collect(tbl, 2)
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{{int64(1), "a"}, {int64(2), "b"}}, rows)
	rows, err = Collect(tbl, -1)
	require.Nil(t, err)
	require.Len(t, rows, 3)

	col, err := CollectColumn(tbl, "s")
	require.Nil(t, err)
	require.Equal(t, []interface{}{"a", "b", nil}, col)
	_, err = CollectColumn(tbl, "x")
	require.True(t, errors.IsColumnNotFound(err))
}
