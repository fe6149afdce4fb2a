package display

import (
	"bytes"
	"strings"
	"testing"

	ttest "github.com/go-sif/tabula/testing"
	"github.com/stretchr/testify/require"
)

func TestShow(t *testing.T) {
	tbl := ttest.CreateTable(t, "name STRING, bio STRING, score DOUBLE",
		[]interface{}{"Alice", "writes parsers for a living", 1},
		[]interface{}{"Bob", nil, 2.5},
		[]interface{}{"Carol", "short", nil},
	)
	var buf bytes.Buffer
	require.Nil(t, Show(&buf, tbl, 2, true))
	out := buf.String()
	require.Contains(t, out, "name")
	require.Contains(t, out, "Alice")
	require.Contains(t, out, "writes parsers fo...")
	require.NotContains(t, out, "for a living")
	require.Contains(t, out, "null")
	require.Contains(t, out, "1.0")
	require.NotContains(t, out, "Carol")
	require.True(t, strings.HasSuffix(out, "only showing top 2 rows\n"))

	buf.Reset()
	require.Nil(t, Show(&buf, tbl, 0, false))
	out = buf.String()
	require.Contains(t, out, "writes parsers for a living")
	require.Contains(t, out, "Carol")
	require.NotContains(t, out, "only showing")
}

func TestPrintSchema(t *testing.T) {
	tbl := ttest.CreateTable(t, "name STRING NOT NULL, scores ARRAY<ARRAY<DOUBLE>>, hired DATE")
	var buf bytes.Buffer
	require.Nil(t, PrintSchema(&buf, tbl.Schema()))
	require.Equal(t, `root
 |-- name: string (nullable = false)
 |-- scores: array (nullable = true)
 |    |-- element: array (containsNull = true)
 |    |    |-- element: double (containsNull = true)
 |-- hired: date (nullable = true)
`, buf.String())
}
