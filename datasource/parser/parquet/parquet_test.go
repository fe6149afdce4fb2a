package parquet

import (
	"bytes"
	"testing"

	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/schema"
	"github.com/go-sif/tabula/table"
	pq "github.com/segmentio/parquet-go"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	tbl, err := table.CreateWithDDL([][]interface{}{
		{"FDA15", 9.3, 1999, true, "2020-01-02", []interface{}{"a", nil, "b"}, []int{1}},
		{"DRC01", nil, nil, false, "1950-06-30", []string{}, nil},
		{"FDN15", 0.0, -3, nil, nil, nil, []int{2, 3}},
	}, "z_id STRING NOT NULL, weight DOUBLE, year INT, open BOOLEAN, opened DATE, tags ARRAY<STRING>, counts ARRAY<INT>")
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
	s, err := schema.ParseDDL("a INT, b ARRAY<DATE>")
	require.Nil(t, err)
	var buf bytes.Buffer
	require.Nil(t, CreateWriter().Write(&buf, table.Empty(s)))
	parsed, rows, err := CreateParser().Parse(&buf, nil)
	require.Nil(t, err)
	require.Nil(t, s.Equals(parsed))
	require.Len(t, rows, 0)
}

func TestParseWithSchema(t *testing.T) {
	tbl, err := table.CreateWithDDL([][]interface{}{{1, "x"}, {2, "y"}}, "id INT, name STRING")
	require.Nil(t, err)
	var buf bytes.Buffer
	require.Nil(t, CreateWriter().Write(&buf, tbl))
	target, err := schema.ParseDDL("name STRING, id DOUBLE")
	require.Nil(t, err)
	s, rows, err := CreateParser().Parse(bytes.NewReader(buf.Bytes()), target)
	require.Nil(t, err)
	require.Nil(t, target.Equals(s))
	require.Equal(t, [][]interface{}{{"x", 1.0}, {"y", 2.0}}, rows)

	missing, err := schema.ParseDDL("other STRING")
	require.Nil(t, err)
	_, _, err = CreateParser().Parse(bytes.NewReader(buf.Bytes()), missing)
	require.True(t, errors.IsSchemaMismatch(err))
}

type reading struct {
	Name  string  `parquet:"name"`
	Score float32 `parquet:"score"`
	Day   int32   `parquet:"day"`
}

func TestParseForeignFile(t *testing.T) {
	var buf bytes.Buffer
	writer := pq.NewGenericWriter[reading](&buf)
	_, err := writer.Write([]reading{{"a", 1.5, 7}, {"b", -2, 8}})
	require.Nil(t, err)
	require.Nil(t, writer.Close())

	s, rows, err := CreateParser().Parse(&buf, nil)
	require.Nil(t, err)
	require.Equal(t, "name STRING NOT NULL, score DOUBLE NOT NULL, day INT NOT NULL", s.ToDDL())
	require.Equal(t, [][]interface{}{{"a", 1.5, int64(7)}, {"b", -2.0, int64(8)}}, rows)
}

func TestWriteNestedArray(t *testing.T) {
	tbl, err := table.CreateWithDDL([][]interface{}{}, "m ARRAY<ARRAY<INT>>")
	require.Nil(t, err)
	err = CreateWriter().Write(&bytes.Buffer{}, tbl)
	require.True(t, errors.IsTypeError(err))
}
