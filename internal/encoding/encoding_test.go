package encoding

import (
	"testing"
	"time"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/schema"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestDecodeJSON(t *testing.T) {
	doc := gjson.Parse(`{"s": "x", "i": 3, "f": 2.5, "b": true, "d": "2024-03-01", "a": [1, null, 2], "n": null, "o": {"k": 1}}`)
	tests := []struct {
		path     string
		colType  tabula.ColumnType
		expected interface{}
	}{
		{"s", &tabula.StringColumnType{}, "x"},
		{"i", &tabula.IntegerColumnType{}, int64(3)},
		{"i", &tabula.DoubleColumnType{}, 3.0},
		{"f", &tabula.DoubleColumnType{}, 2.5},
		{"b", &tabula.BooleanColumnType{}, true},
		{"d", &tabula.DateColumnType{}, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"a", &tabula.ArrayColumnType{Elem: &tabula.IntegerColumnType{}}, []interface{}{int64(1), nil, int64(2)}},
		{"n", &tabula.IntegerColumnType{}, nil},
		{"missing", &tabula.StringColumnType{}, nil},
		{"o", &tabula.StringColumnType{}, `{"k": 1}`},
		{"i", &tabula.StringColumnType{}, "3"},
	}
	for _, tt := range tests {
		t.Run(tt.path+" as "+tt.colType.Name(), func(t *testing.T) {
			v, err := DecodeJSON(doc.Get(tt.path), tt.colType, tabula.DateFormat)
			require.Nil(t, err)
			require.Equal(t, tt.expected, v)
		})
	}
	_, err := DecodeJSON(doc.Get("f"), &tabula.IntegerColumnType{}, tabula.DateFormat)
	require.NotNil(t, err)
	_, err = DecodeJSON(doc.Get("s"), &tabula.BooleanColumnType{}, tabula.DateFormat)
	require.NotNil(t, err)
}

func TestInferAndWiden(t *testing.T) {
	doc := gjson.Parse(`{"i": 3, "f": 1e3, "a": [1, 2.5], "e": [], "o": {}}`)
	require.Equal(t, "INT", InferJSON(doc.Get("i")).Name())
	require.Equal(t, "DOUBLE", InferJSON(doc.Get("f")).Name())
	require.Equal(t, "ARRAY<DOUBLE>", InferJSON(doc.Get("a")).Name())
	require.Equal(t, "ARRAY<STRING>", InferJSON(doc.Get("e")).Name())
	require.Equal(t, "STRING", InferJSON(doc.Get("o")).Name())
	require.Nil(t, InferJSON(doc.Get("missing")))
	require.Equal(t, "STRING", Widen(&tabula.BooleanColumnType{}, &tabula.IntegerColumnType{}).Name())
}

func TestMarshalValue(t *testing.T) {
	b, err := MarshalValue([]interface{}{"a", nil, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}, tabula.DateFormat)
	require.Nil(t, err)
	require.Equal(t, `["a",null,"2024-01-02"]`, string(b))
}

func TestConform(t *testing.T) {
	from, err := schema.ParseDDL("b STRING, a INT")
	require.Nil(t, err)
	to, err := schema.ParseDDL("a DOUBLE NOT NULL, b STRING")
	require.Nil(t, err)
	rows, err := Conform(from, [][]interface{}{{"x", int64(1)}}, to)
	require.Nil(t, err)
	require.Equal(t, [][]interface{}{{1.0, "x"}}, rows)

	_, err = Conform(from, [][]interface{}{{"x", nil}}, to)
	require.True(t, errors.IsSchemaMismatch(err))

	missing, err := schema.ParseDDL("c STRING")
	require.Nil(t, err)
	_, err = Conform(from, nil, missing)
	require.True(t, errors.IsSchemaMismatch(err))
}
