package schema

import (
	"testing"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	"github.com/stretchr/testify/require"
)

func createTestSchema(t *testing.T) tabula.Schema {
	schema := CreateSchema()
	schema, err := schema.CreateColumn("col1", &tabula.IntegerColumnType{}, false)
	require.Nil(t, err)
	schema, err = schema.CreateColumn("col2", &tabula.StringColumnType{}, true)
	require.Nil(t, err)
	schema, err = schema.CreateColumn("col3", &tabula.ArrayColumnType{Elem: &tabula.StringColumnType{}}, true)
	require.Nil(t, err)
	return schema
}

func TestSchemaEqualityBasic(t *testing.T) {
	schema1 := createTestSchema(t)
	schema2 := createTestSchema(t)
	require.Nil(t, schema1.Equals(schema2))
}

func TestSchemaEqualityDifferentType(t *testing.T) {
	schema1 := createTestSchema(t)
	schema2, err := createTestSchema(t).ReplaceColumn("col3", &tabula.ArrayColumnType{Elem: &tabula.IntegerColumnType{}}, true)
	require.Nil(t, err)
	err = schema1.Equals(schema2)
	require.NotNil(t, err)
	require.True(t, errors.IsSchemaMismatch(err))
}

func TestSchemaEqualityOrder(t *testing.T) {
	schema1, err := Build(
		ColumnSpec{"col1", &tabula.IntegerColumnType{}, true},
		ColumnSpec{"col2", &tabula.DoubleColumnType{}, true},
	)
	require.Nil(t, err)
	schema2, err := Build(
		ColumnSpec{"col2", &tabula.DoubleColumnType{}, true},
		ColumnSpec{"col1", &tabula.IntegerColumnType{}, true},
	)
	require.Nil(t, err)
	require.NotNil(t, schema1.Equals(schema2))
}

func TestSchemaEqualityNullability(t *testing.T) {
	schema1 := createTestSchema(t)
	schema2, err := createTestSchema(t).ReplaceColumn("col1", &tabula.IntegerColumnType{}, true)
	require.Nil(t, err)
	require.NotNil(t, schema1.Equals(schema2))
}

func TestSchemaIsImmutable(t *testing.T) {
	schema := createTestSchema(t)
	renamed, err := schema.RenameColumn("col2", "name")
	require.Nil(t, err)
	require.Equal(t, []string{"col1", "col2", "col3"}, schema.ColumnNames())
	require.Equal(t, []string{"col1", "name", "col3"}, renamed.ColumnNames())

	removed, wasRemoved := schema.RemoveColumn("col1")
	require.True(t, wasRemoved)
	require.Equal(t, []string{"col2", "col3"}, removed.ColumnNames())
	require.Equal(t, 3, schema.NumColumns())
	col, err := removed.GetOffset("col3")
	require.Nil(t, err)
	require.Equal(t, 1, col.Index())
}

func TestSchemaColumnErrors(t *testing.T) {
	schema := createTestSchema(t)
	_, err := schema.CreateColumn("col1", &tabula.StringColumnType{}, true)
	require.True(t, errors.IsSchemaMismatch(err))

	_, err = schema.RenameColumn("missing", "other")
	require.True(t, errors.IsColumnNotFound(err))

	_, err = schema.RenameColumn("col1", "col2")
	require.True(t, errors.IsSchemaMismatch(err))

	_, err = schema.GetOffset("missing")
	require.True(t, errors.IsColumnNotFound(err))

	_, wasRemoved := schema.RemoveColumn("missing")
	require.False(t, wasRemoved)
}

func TestForEachColumnOrder(t *testing.T) {
	schema := createTestSchema(t)
	var names []string
	err := schema.ForEachColumn(func(name string, col tabula.Column) error {
		require.Equal(t, len(names), col.Index())
		names = append(names, name)
		return nil
	})
	require.Nil(t, err)
	require.Equal(t, schema.ColumnNames(), names)
}
