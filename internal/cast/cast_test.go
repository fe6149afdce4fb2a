package cast

import (
	"testing"
	"time"

	"github.com/go-sif/tabula"
	"github.com/stretchr/testify/require"
)

func TestDefined(t *testing.T) {
	str := &tabula.StringColumnType{}
	integer := &tabula.IntegerColumnType{}
	double := &tabula.DoubleColumnType{}
	date := &tabula.DateColumnType{}
	boolean := &tabula.BooleanColumnType{}
	strArr := &tabula.ArrayColumnType{Elem: str}
	intArr := &tabula.ArrayColumnType{Elem: integer}

	require.True(t, Defined(integer, str))
	require.True(t, Defined(str, double))
	require.True(t, Defined(integer, double))
	require.True(t, Defined(double, integer))
	require.True(t, Defined(str, date))
	require.True(t, Defined(boolean, integer))
	require.True(t, Defined(strArr, str))
	require.True(t, Defined(strArr, intArr))
	require.False(t, Defined(date, integer))
	require.False(t, Defined(double, boolean))
	require.False(t, Defined(str, strArr))
}

func TestValue(t *testing.T) {
	tests := []struct {
		name     string
		in       interface{}
		to       tabula.ColumnType
		expected interface{}
	}{
		{"int to string", int64(10), &tabula.StringColumnType{}, "10"},
		{"double to string", 10.0, &tabula.StringColumnType{}, "10.0"},
		{"string to int", " 42 ", &tabula.IntegerColumnType{}, int64(42)},
		{"integral decimal to int", "10.0", &tabula.IntegerColumnType{}, int64(10)},
		{"double to int truncates", 3.9, &tabula.IntegerColumnType{}, int64(3)},
		{"string to double", "2.5", &tabula.DoubleColumnType{}, 2.5},
		{"string to bool", "TRUE", &tabula.BooleanColumnType{}, true},
		{"string to date", "2024-02-29", &tabula.DateColumnType{}, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"array elements", []interface{}{"1", nil}, &tabula.ArrayColumnType{Elem: &tabula.IntegerColumnType{}}, []interface{}{int64(1), nil}},
		{"nil", nil, &tabula.IntegerColumnType{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Value(tt.in, tt.to)
			require.Nil(t, err)
			require.Equal(t, tt.expected, res)
		})
	}
}

func TestValueErrors(t *testing.T) {
	_, err := Value("abc", &tabula.IntegerColumnType{})
	require.NotNil(t, err)
	_, err = Value("yes", &tabula.BooleanColumnType{})
	require.NotNil(t, err)
	_, err = Value("02/29/2024", &tabula.DateColumnType{})
	require.NotNil(t, err)
}
