package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-sif/tabula/errors"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runWithStderr(t, args...)
	return out, err
}

func runWithStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, stderr bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), stderr.String(), err
}

func writePeople(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.Nil(t, os.WriteFile(path, []byte("name,age\nAlice,34\nBob,28\n"), 0o600))
	return path
}

func TestShowAndSchema(t *testing.T) {
	people := writePeople(t)
	out, err := run(t, "show", people, "--infer-schema")
	require.Nil(t, err)
	require.Contains(t, out, "Alice")
	require.Contains(t, out, "28")

	out, err = run(t, "show", people, "-n", "1")
	require.Nil(t, err)
	require.NotContains(t, out, "Bob")
	require.Contains(t, out, "only showing top 1 row")

	out, err = run(t, "schema", people, "--infer-schema")
	require.Nil(t, err)
	require.Equal(t, "root\n |-- name: string (nullable = true)\n |-- age: int (nullable = true)\n", out)

	out, err = run(t, "schema", people, "--schema", "name STRING NOT NULL, age DOUBLE")
	require.Nil(t, err)
	require.Contains(t, out, "age: double")

	_, err = run(t, "show", filepath.Join(t.TempDir(), "missing.csv"))
	require.True(t, errors.IsSourceNotFound(err))
}

func TestSQL(t *testing.T) {
	people := writePeople(t)
	out, err := run(t, "sql", "--infer-schema", "--view", "people="+people+":csv", "SELECT name, age + 1 AS next FROM people WHERE age > 30")
	require.Nil(t, err)
	require.Contains(t, out, "Alice")
	require.Contains(t, out, "35")
	require.NotContains(t, out, "Bob")

	out, stderr, err := runWithStderr(t, "sql", "--stats", "--view", "people="+people, "SELECT name FROM people LIMIT 1")
	require.Nil(t, err)
	require.Contains(t, out, "Alice")
	require.Contains(t, stderr, "query statistics")
	require.Contains(t, stderr, "stats.stage1.rows_out=1")

	_, err = run(t, "sql", "SELECT name FROM people")
	require.True(t, errors.IsSourceNotFound(err))
	_, err = run(t, "sql", "--view", "people", "SELECT 1 FROM people")
	require.NotNil(t, err)
}

func TestConvert(t *testing.T) {
	people := writePeople(t)
	dest := filepath.Join(t.TempDir(), "people")
	_, err := run(t, "convert", people, dest, "--infer-schema")
	require.Nil(t, err)

	out, err := run(t, "show", dest, "--format", "parquet")
	require.Nil(t, err)
	require.Contains(t, out, "Alice")

	_, err = run(t, "convert", people, dest)
	require.True(t, errors.IsDestinationExists(err))
	_, err = run(t, "convert", people, dest, "--to", "csv", "--compression", "lz4", "--mode", "overwrite")
	require.Nil(t, err)
	out, err = run(t, "show", dest, "--format", "csv")
	require.Nil(t, err)
	require.Contains(t, out, "Bob")
}

func TestWarehouseTables(t *testing.T) {
	t.Setenv("TABULA_WAREHOUSE", filepath.Join(t.TempDir(), "warehouse.db"))
	people := writePeople(t)
	_, err := run(t, "table", "save", people, "people", "--infer-schema")
	require.Nil(t, err)

	out, err := run(t, "table", "list")
	require.Nil(t, err)
	require.Equal(t, "people\n", out)

	out, err = run(t, "table", "show", "PEOPLE")
	require.Nil(t, err)
	require.Contains(t, out, "Alice")

	_, err = run(t, "table", "drop", "people")
	require.Nil(t, err)
	_, err = run(t, "table", "drop", "people")
	require.NotNil(t, err)
}

func TestInvalidConfiguration(t *testing.T) {
	people := writePeople(t)
	_, err := run(t, "show", people, "--log-level", "loud")
	require.True(t, errors.IsInvalidArgument(err))

	path := filepath.Join(t.TempDir(), "tabula.yaml")
	require.Nil(t, os.WriteFile(path, []byte("writer:\n  format: xml\n"), 0o600))
	_, err = run(t, "show", people, "--config", path)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "invalid configuration")
}

func TestViewsFlag(t *testing.T) {
	var v viewsFlag
	require.Nil(t, v.Set("a=data/a.csv:json"))
	require.Nil(t, v.Set("b=C:\\data\\b.csv"))
	require.NotNil(t, v.Set("missing-path"))
	require.NotNil(t, v.Set("=x.csv"))
	require.Equal(t, []viewSource{
		{name: "a", path: "data/a.csv", format: "json"},
		{name: "b", path: "C:\\data\\b.csv"},
	}, v.views)
	require.Equal(t, "[a=data/a.csv:json,b=C:\\data\\b.csv]", v.String())
}
