package jsonl

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/schema"
	"github.com/go-sif/tabula/table"
	"github.com/stretchr/testify/require"
)

const people = `{"name": "Sean", "meta": { "index": 1, "first": "Sean", "last": "McIntyre"}}
{"name": "Chris", "meta": { "index": 3, "first": "Chris", "last": "Dickson"}}

{"name": "Phil", "meta": { "index": 2, "first": "Phil", "last": "Laliberté"}}
{"name": "Fahd", "meta": { "index": 4, "first": "Fahd", "last": "Husain"}}
`

func TestParseWithPaths(t *testing.T) {
	s, err := schema.ParseDDL("name STRING NOT NULL, `meta.index` INT, `meta.last` STRING, `meta.missing` DOUBLE")
	require.Nil(t, err)
	_, rows, err := CreateParser(&ParserConf{}).Parse(strings.NewReader(people), s)
	require.Nil(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, []interface{}{"Phil", int64(2), "Laliberté", nil}, rows[2])
}

func TestParseInferSchema(t *testing.T) {
	data := `{"b": 1, "a": "x", "c": null, "d": [1, 2.5], "e": "2024-01-02"}
{"b": 2.5, "a.b": true, "d": [3]}
`
	s, rows, err := CreateParser(&ParserConf{}).Parse(strings.NewReader(data), nil)
	require.Nil(t, err)
	require.Equal(t, "a STRING, `a.b` BOOLEAN, b DOUBLE, c STRING, d ARRAY<DOUBLE>, e STRING", s.ToDDL())
	require.Equal(t, [][]interface{}{
		{"x", nil, 1.0, nil, []interface{}{1.0, 2.5}, "2024-01-02"},
		{nil, true, 2.5, nil, []interface{}{3.0}, nil},
	}, rows)
}

func TestParseMultiline(t *testing.T) {
	s, err := schema.ParseDDL("id INT, joined DATE")
	require.Nil(t, err)
	parser := CreateParser(&ParserConf{Multiline: true, DateFormat: "dd/MM/yyyy"})
	_, rows, err := parser.Parse(strings.NewReader("[\n  {\"id\": 1, \"joined\": \"02/01/2024\"},\n  {\"id\": \"2\"}\n]"), s)
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{
		{int64(1), time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{int64(2), nil},
	}, rows)

	_, rows, err = parser.Parse(strings.NewReader("{\n\"id\": 7\n}"), s)
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{{int64(7), nil}}, rows)
}

func TestParseErrors(t *testing.T) {
	s, err := schema.ParseDDL("id INT NOT NULL")
	require.Nil(t, err)
	parser := CreateParser(&ParserConf{})
	_, _, err = parser.Parse(strings.NewReader(`{"id": "abc"}`), s)
	require.True(t, errors.IsSchemaMismatch(err))
	_, _, err = parser.Parse(strings.NewReader(`{"other": 1}`), s)
	require.True(t, errors.IsSchemaMismatch(err))
	_, _, err = parser.Parse(strings.NewReader(`{"id": 1`), s)
	require.True(t, errors.IsSchemaMismatch(err))
	_, _, err = parser.Parse(strings.NewReader(`[1, 2]`), s)
	require.True(t, errors.IsSchemaMismatch(err))
	_, _, err = CreateParser(&ParserConf{Multiline: true}).Parse(strings.NewReader(`"text"`), s)
	require.True(t, errors.IsSchemaMismatch(err))
}

func TestWriteRoundTrip(t *testing.T) {
	tbl, err := table.CreateWithDDL([][]interface{}{
		{"FDA15", 9.3, 1999, true, "2020-01-02", []string{"a", "b"}},
		{"DRC01", nil, nil, false, nil, []string{}},
	}, "id STRING, weight DOUBLE, year INT, open BOOLEAN, opened DATE, tags ARRAY<STRING>")
	require.Nil(t, err)

	var buf bytes.Buffer
	require.Nil(t, CreateWriter(&WriterConf{}).Write(&buf, tbl))
	require.Equal(t, `{"id":"FDA15","weight":9.3,"year":1999,"open":true,"opened":"2020-01-02","tags":["a","b"]}
{"id":"DRC01","weight":null,"year":null,"open":false,"opened":null,"tags":[]}
`, buf.String())

	s, rows, err := CreateParser(&ParserConf{}).Parse(bytes.NewReader(buf.Bytes()), tbl.Schema())
	require.Nil(t, err)
	res, err := table.Create(rows, s)
	require.Nil(t, err)
	require.Nil(t, table.Equal(tbl, res))

	buf.Reset()
	require.Nil(t, CreateWriter(&WriterConf{OmitNil: true}).Write(&buf, tbl))
	require.Equal(t, `{"id":"FDA15","weight":9.3,"year":1999,"open":true,"opened":"2020-01-02","tags":["a","b"]}
{"id":"DRC01","open":false,"tags":[]}
`, buf.String())
}
