package warehouse

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	ttest "github.com/go-sif/tabula/testing"
	"github.com/go-sif/tabula/writer"
	"github.com/stretchr/testify/require"
)

func createEmployees(t *testing.T) tabula.Table {
	return ttest.CreateTable(t, "name STRING NOT NULL, age INT, salary DOUBLE, active BOOLEAN, hired DATE, skills ARRAY<STRING>",
		[]interface{}{"Alice", 30, 100.5, true, "2020-01-15", []interface{}{"go", "sql"}},
		[]interface{}{"Bob", nil, 90.0, false, nil, []interface{}{}},
		[]interface{}{"Carol", 41, nil, nil, "2018-03-10", nil},
	)
}

func openWarehouse(t *testing.T) *Warehouse {
	w, err := Open(filepath.Join(t.TempDir(), "warehouse.db"))
	require.Nil(t, err)
	t.Cleanup(func() {
		require.Nil(t, w.Close())
	})
	return w
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	w := openWarehouse(t)
	employees := createEmployees(t)
	require.Nil(t, w.SaveAsTable(ctx, "Employees", employees, writer.ModeErrorIfExists))

	loaded, err := w.LoadTable(ctx, "employees")
	require.Nil(t, err)
	require.Nil(t, employees.Schema().Equals(loaded.Schema()))
	ttest.RequireEqual(t, employees, loaded)

	names, err := w.Tables(ctx)
	require.Nil(t, err)
	require.Equal(t, []string{"Employees"}, names)
}

func TestSaveModes(t *testing.T) {
	ctx := context.Background()
	w := openWarehouse(t)
	employees := createEmployees(t)
	require.Nil(t, w.SaveAsTable(ctx, "people", employees, writer.ModeAppend))

	err := w.SaveAsTable(ctx, "people", employees, writer.ModeErrorIfExists)
	require.True(t, errors.IsDestinationExists(err))

	require.Nil(t, w.SaveAsTable(ctx, "people", employees, writer.ModeAppend))
	loaded, err := w.LoadTable(ctx, "people")
	require.Nil(t, err)
	require.Equal(t, 6, loaded.NumRows())

	require.Nil(t, w.SaveAsTable(ctx, "people", employees, writer.ModeIgnore))
	loaded, err = w.LoadTable(ctx, "people")
	require.Nil(t, err)
	require.Equal(t, 6, loaded.NumRows())

	ids := ttest.CreateTable(t, "id INT", []interface{}{1})
	err = w.SaveAsTable(ctx, "people", ids, writer.ModeAppend)
	require.True(t, errors.IsSchemaMismatch(err))

	require.Nil(t, w.SaveAsTable(ctx, "people", ids, writer.ModeOverwrite))
	loaded, err = w.LoadTable(ctx, "people")
	require.Nil(t, err)
	ttest.RequireEqual(t, ids, loaded)
}

func TestDropTable(t *testing.T) {
	ctx := context.Background()
	w := openWarehouse(t)
	require.Nil(t, w.SaveAsTable(ctx, "a", createEmployees(t), writer.ModeErrorIfExists))
	dropped, err := w.DropTable(ctx, "A")
	require.Nil(t, err)
	require.True(t, dropped)
	dropped, err = w.DropTable(ctx, "a")
	require.Nil(t, err)
	require.False(t, dropped)

	_, err = w.LoadTable(ctx, "a")
	require.True(t, errors.IsSourceNotFound(err))
	names, err := w.Tables(ctx)
	require.Nil(t, err)
	require.Empty(t, names)
}

func TestInMemoryWarehouse(t *testing.T) {
	ctx := context.Background()
	w, err := Open(":memory:")
	require.Nil(t, err)
	defer w.Close()
	empty := ttest.CreateTable(t, "`odd \"name\"` STRING")
	require.Nil(t, w.SaveAsTable(ctx, `quoted "table"`, empty, writer.ModeErrorIfExists))
	loaded, err := w.LoadTable(ctx, `QUOTED "TABLE"`)
	require.Nil(t, err)
	require.Equal(t, 0, loaded.NumRows())
	require.Equal(t, []string{`odd "name"`}, loaded.Schema().ColumnNames())

	err = w.SaveAsTable(ctx, " ", empty, writer.ModeAppend)
	require.True(t, errors.IsInvalidArgument(err))
}
