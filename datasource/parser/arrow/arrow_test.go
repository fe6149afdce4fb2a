package arrow

import (
	"bytes"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/schema"
	"github.com/go-sif/tabula/table"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	tbl, err := table.CreateWithDDL([][]interface{}{
		{"FDA15", 9.3, 1999, true, "2020-01-02", []interface{}{"a", nil, "b"}, []interface{}{[]int{1}, nil}},
		{"DRC01", nil, nil, false, "1950-06-30", []string{}, nil},
	}, "id STRING NOT NULL, weight DOUBLE, year INT, open BOOLEAN, opened DATE, tags ARRAY<STRING>, m ARRAY<ARRAY<INT>>")
	require.Nil(t, err)

	var buf bytes.Buffer
	require.Nil(t, CreateWriter().Write(&buf, tbl))
	s, rows, err := CreateParser().Parse(&buf, nil)
	require.Nil(t, err)
	res, err := table.Create(rows, s)
	require.Nil(t, err)
	require.Nil(t, table.Equal(tbl, res))
}

func TestRoundTripEmpty(t *testing.T) {
	s, err := schema.ParseDDL("a INT NOT NULL, b ARRAY<DATE>")
	require.Nil(t, err)
	var buf bytes.Buffer
	require.Nil(t, CreateWriter().Write(&buf, table.Empty(s)))
	parsed, rows, err := CreateParser().Parse(&buf, nil)
	require.Nil(t, err)
	require.Nil(t, s.Equals(parsed))
	require.Len(t, rows, 0)
}

func TestParseForeignStream(t *testing.T) {
	as := arrow.NewSchema([]arrow.Field{
		{Name: "n", Type: arrow.PrimitiveTypes.Int32, Nullable: true},
		{Name: "f", Type: arrow.PrimitiveTypes.Float32},
		{Name: "d", Type: arrow.FixedWidthTypes.Date32, Nullable: true},
	}, nil)
	nb := array.NewInt32Builder(memory.DefaultAllocator)
	defer nb.Release()
	nb.AppendValues([]int32{4, 0}, []bool{true, false})
	fb := array.NewFloat32Builder(memory.DefaultAllocator)
	defer fb.Release()
	fb.AppendValues([]float32{0.5, 2}, nil)
	db := array.NewDate32Builder(memory.DefaultAllocator)
	defer db.Release()
	db.Append(arrow.Date32FromTime(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	db.AppendNull()
	cols := []arrow.Array{nb.NewArray(), fb.NewArray(), db.NewArray()}
	rec := array.NewRecord(as, cols, 2)
	for _, col := range cols {
		col.Release()
	}
	defer rec.Release()

	var buf bytes.Buffer
	writer := ipc.NewWriter(&buf, ipc.WithSchema(as))
	require.Nil(t, writer.Write(rec))
	require.Nil(t, writer.Close())

	s, rows, err := CreateParser().Parse(&buf, nil)
	require.Nil(t, err)
	require.Equal(t, "n INT, f DOUBLE NOT NULL, d DATE", s.ToDDL())
	require.Equal(t, [][]interface{}{
		{int64(4), 0.5, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{nil, 2.0, nil},
	}, rows)
}

func TestParseWithSchema(t *testing.T) {
	tbl, err := table.CreateWithDDL([][]interface{}{{1, "x"}}, "id INT, name STRING")
	require.Nil(t, err)
	var buf bytes.Buffer
	require.Nil(t, CreateWriter().Write(&buf, tbl))
	target, err := schema.ParseDDL("name STRING, id STRING")
	require.Nil(t, err)
	_, rows, err := CreateParser().Parse(bytes.NewReader(buf.Bytes()), target)
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{{"x", "1"}}, rows)

	missing, err := schema.ParseDDL("other STRING")
	require.Nil(t, err)
	_, _, err = CreateParser().Parse(bytes.NewReader(buf.Bytes()), missing)
	require.True(t, errors.IsSchemaMismatch(err))
}
