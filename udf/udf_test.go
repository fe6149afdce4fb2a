package udf

import (
	goerrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/expr"
	itable "github.com/go-sif/tabula/internal/table"
	"github.com/go-sif/tabula/schema"
	"github.com/stretchr/testify/require"
)

func createTestRow(t *testing.T, idx int, name interface{}) tabula.Row {
	s, err := schema.ParseDDL("name STRING")
	require.Nil(t, err)
	return itable.CreateRow(idx, []interface{}{name}, s)
}

func TestRegisterAndCall(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register("name_length", func(v interface{}) (interface{}, error) {
		if v == nil {
			return nil, nil
		}
		return len(v.(string)), nil
	}, &tabula.IntegerColumnType{})
	require.Nil(t, err)
	require.Equal(t, []string{"name_length"}, reg.Names())

	e := reg.Call("name_length", expr.Col("name"))
	require.Equal(t, "name_length(name)", e.Name())
	row := createTestRow(t, 0, "Ada")
	colType, err := e.Resolve(row.Schema())
	require.Nil(t, err)
	require.Equal(t, "INT", colType.Name())
	v, err := e.Evaluate(row)
	require.Nil(t, err)
	require.Equal(t, int64(3), v)

	v, err = e.Evaluate(createTestRow(t, 1, nil))
	require.Nil(t, err)
	require.Nil(t, v)
}

func TestRegisterErrors(t *testing.T) {
	reg := NewRegistry()
	upper := func(v interface{}) (interface{}, error) { return strings.ToUpper(v.(string)), nil }
	require.True(t, errors.IsInvalidArgument(reg.Register("", upper, &tabula.StringColumnType{})))
	require.Nil(t, reg.Register("upper", upper, &tabula.StringColumnType{}))
	require.True(t, errors.IsInvalidArgument(reg.Register("upper", upper, &tabula.StringColumnType{})))

	_, err := reg.Call("missing", expr.Col("name")).Resolve(createTestRow(t, 0, "a").Schema())
	require.True(t, errors.IsInvalidArgument(err))
}

func TestCallReportsRowOfFailure(t *testing.T) {
	reg := NewRegistry()
	cause := fmt.Errorf("bad name")
	require.Nil(t, reg.Register("fails", func(v interface{}) (interface{}, error) {
		return nil, cause
	}, &tabula.StringColumnType{}))
	require.Nil(t, reg.Register("panics", func(v interface{}) (interface{}, error) {
		return v.(string) + "!", nil
	}, &tabula.StringColumnType{}))
	require.Nil(t, reg.Register("wrong_type", func(v interface{}) (interface{}, error) {
		return 1, nil
	}, &tabula.StringColumnType{}))

	_, err := reg.Call("fails", expr.Col("name")).Evaluate(createTestRow(t, 4, "a"))
	require.True(t, errors.IsUDFError(err))
	require.True(t, goerrors.Is(err, cause))
	var udfErr errors.UDFError
	require.True(t, goerrors.As(err, &udfErr))
	require.Equal(t, 4, udfErr.Row)

	_, err = reg.Call("panics", expr.Col("name")).Evaluate(createTestRow(t, 9, nil))
	require.True(t, errors.IsUDFError(err))
	require.Contains(t, err.Error(), "row 9")
	require.Contains(t, err.Error(), "Panic")

	_, err = reg.Call("wrong_type", expr.Col("name")).Evaluate(createTestRow(t, 2, "a"))
	require.True(t, errors.IsUDFError(err))
}
