package arrow

import (
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/go-sif/tabula"
)

// Writer encodes Tables as Arrow IPC streams
type Writer struct{}

// CreateWriter returns a new Arrow Writer
func CreateWriter() *Writer {
	return &Writer{}
}

// Write encodes a Table as a single record batch
func (aw *Writer) Write(w io.Writer, t tabula.Table) error {
	as := toArrowSchema(t.Schema())
	builders := make([]array.Builder, len(as.Fields()))
	for i, f := range as.Fields() {
		builders[i] = array.NewBuilder(memory.DefaultAllocator, f.Type)
	}
	defer func() {
		for _, b := range builders {
			b.Release()
		}
	}()
	err := t.ForEachRow(func(row tabula.Row) error {
		for i, b := range builders {
			if err := appendValue(b, row.Value(i)); err != nil {
				return fmt.Errorf("row %d, column %s: %w", row.Index(), as.Field(i).Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	cols := make([]arrow.Array, len(builders))
	for i, b := range builders {
		cols[i] = b.NewArray()
	}
	record := array.NewRecord(as, cols, int64(t.NumRows()))
	for _, col := range cols {
		col.Release()
	}
	defer record.Release()

	writer := ipc.NewWriter(w, ipc.WithSchema(as), ipc.WithAllocator(memory.DefaultAllocator))
	if t.NumRows() > 0 {
		if err := writer.Write(record); err != nil {
			writer.Close()
			return err
		}
	}
	return writer.Close()
}

func appendValue(b array.Builder, v interface{}) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	ok := false
	switch tb := b.(type) {
	case *array.StringBuilder:
		var s string
		if s, ok = v.(string); ok {
			tb.Append(s)
		}
	case *array.Int64Builder:
		var n int64
		if n, ok = v.(int64); ok {
			tb.Append(n)
		}
	case *array.Float64Builder:
		var f float64
		if f, ok = v.(float64); ok {
			tb.Append(f)
		}
	case *array.BooleanBuilder:
		var bv bool
		if bv, ok = v.(bool); ok {
			tb.Append(bv)
		}
	case *array.Date32Builder:
		var d time.Time
		if d, ok = v.(time.Time); ok {
			tb.Append(arrow.Date32FromTime(d))
		}
	case *array.ListBuilder:
		var elems []interface{}
		if elems, ok = v.([]interface{}); ok {
			tb.Append(true)
			for _, e := range elems {
				if err := appendValue(tb.ValueBuilder(), e); err != nil {
					return err
				}
			}
		}
	}
	if !ok {
		return fmt.Errorf("cannot append %T to %s", v, b.Type())
	}
	return nil
}
