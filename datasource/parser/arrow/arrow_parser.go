package arrow

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/internal/encoding"
)

// Parser produces rows from Arrow IPC streams
type Parser struct{}

// CreateParser returns a new Arrow Parser
func CreateParser() *Parser {
	return &Parser{}
}

// Parse reads every record batch of an Arrow IPC stream. If s is supplied,
// the rows are conformed to it.
func (p *Parser) Parse(r io.Reader, s tabula.Schema) (tabula.Schema, [][]interface{}, error) {
	rdr, err := ipc.NewReader(r, ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open arrow stream: %w", err)
	}
	defer rdr.Release()
	streamSchema, err := fromArrowSchema(rdr.Schema())
	if err != nil {
		return nil, nil, err
	}
	rows := [][]interface{}{}
	for rdr.Next() {
		rec := rdr.Record()
		for i := 0; i < int(rec.NumRows()); i++ {
			values := make([]interface{}, rec.NumCols())
			for j, col := range rec.Columns() {
				v, err := decodeValue(col, i)
				if err != nil {
					return nil, nil, fmt.Errorf("row %d, column %s: %w", len(rows), rec.ColumnName(j), err)
				}
				values[j] = v
			}
			rows = append(rows, values)
		}
	}
	if err := rdr.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read arrow stream: %w", err)
	}
	if s == nil {
		return streamSchema, rows, nil
	}
	rows, err = encoding.Conform(streamSchema, rows, s)
	if err != nil {
		return nil, nil, err
	}
	return s, rows, nil
}

func decodeValue(arr arrow.Array, i int) (interface{}, error) {
	if arr.IsNull(i) {
		return nil, nil
	}
	switch a := arr.(type) {
	case *array.String:
		return a.Value(i), nil
	case *array.LargeString:
		return a.Value(i), nil
	case *array.Int64:
		return a.Value(i), nil
	case *array.Int32:
		return int64(a.Value(i)), nil
	case *array.Int16:
		return int64(a.Value(i)), nil
	case *array.Int8:
		return int64(a.Value(i)), nil
	case *array.Uint32:
		return int64(a.Value(i)), nil
	case *array.Uint16:
		return int64(a.Value(i)), nil
	case *array.Uint8:
		return int64(a.Value(i)), nil
	case *array.Float64:
		return a.Value(i), nil
	case *array.Float32:
		return float64(a.Value(i)), nil
	case *array.Boolean:
		return a.Value(i), nil
	case *array.Date32:
		return tabula.ToDate(a.Value(i).ToTime()), nil
	case *array.List:
		start, end := a.ValueOffsets(i)
		values := a.ListValues()
		res := make([]interface{}, 0, end-start)
		for j := start; j < end; j++ {
			v, err := decodeValue(values, int(j))
			if err != nil {
				return nil, err
			}
			res = append(res, v)
		}
		return res, nil
	}
	return nil, fmt.Errorf("unsupported arrow type %s", arr.DataType())
}
