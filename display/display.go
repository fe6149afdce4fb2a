// Package display renders Tables and Schemas as text.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/operations/util"
	"github.com/olekukonko/tablewriter"
)

// DefaultRows is the number of rows Show renders when given a non-positive limit
const DefaultRows = 20

// maxCellWidth is the width beyond which truncated cells are cut short
const maxCellWidth = 20

// Show renders up to n rows of t as a grid. When truncate is set, cells wider
// than 20 characters are shortened and end in "...".
func Show(w io.Writer, t tabula.Table, n int, truncate bool) error {
	if n <= 0 {
		n = DefaultRows
	}
	rows, err := util.Collect(t, n)
	if err != nil {
		return err
	}

	grid := tablewriter.NewWriter(w)
	grid.SetHeader(t.Schema().ColumnNames())
	grid.SetAutoFormatHeaders(false)
	grid.SetAutoWrapText(false)
	grid.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, values := range rows {
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = formatCell(v, truncate)
		}
		grid.Append(cells)
	}
	grid.Render()

	if t.NumRows() > len(rows) {
		s := "s"
		if len(rows) == 1 {
			s = ""
		}
		_, err = fmt.Fprintf(w, "only showing top %d row%s\n", len(rows), s)
	}
	return err
}

func formatCell(v interface{}, truncate bool) string {
	cell := tabula.FormatValue(v)
	if !truncate {
		return cell
	}
	runes := []rune(cell)
	if len(runes) <= maxCellWidth {
		return cell
	}
	return string(runes[:maxCellWidth-3]) + "..."
}

// PrintSchema renders a Schema as a tree of column names, types and nullability
func PrintSchema(w io.Writer, s tabula.Schema) error {
	var b strings.Builder
	b.WriteString("root\n")
	names := s.ColumnNames()
	for i, col := range s.Columns() {
		writeField(&b, 1, names[i], col.Type(), "nullable", col.Nullable())
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeField(b *strings.Builder, depth int, name string, colType tabula.ColumnType, label string, nullable bool) {
	b.WriteString(strings.Repeat(" |   ", depth-1))
	fmt.Fprintf(b, " |-- %s: %s (%s = %t)\n", name, typeName(colType), label, nullable)
	if arr, ok := colType.(*tabula.ArrayColumnType); ok {
		writeField(b, depth+1, "element", arr.Elem, "containsNull", true)
	}
}

func typeName(colType tabula.ColumnType) string {
	if _, ok := colType.(*tabula.ArrayColumnType); ok {
		return "array"
	}
	return strings.ToLower(colType.Name())
}
