package parquet

import (
	"fmt"
	"io"
	"time"

	"github.com/go-sif/tabula"
	pq "github.com/segmentio/parquet-go"
)

const secondsPerDay = 24 * 60 * 60

// Writer encodes Tables as Parquet files
type Writer struct{}

// CreateWriter returns a new Parquet Writer
func CreateWriter() *Writer {
	return &Writer{}
}

// Write encodes every Row of a Table as a single Parquet file. Nested arrays
// cannot be written.
func (pw *Writer) Write(w io.Writer, t tabula.Table) error {
	ps, err := toParquetSchema(t.Schema())
	if err != nil {
		return err
	}
	writer := pq.NewWriter(w, ps, pq.KeyValueMetadata(SchemaKey, t.Schema().ToDDL()))
	indices := leafIndices(ps)
	cols := t.Schema().Columns()
	leaves := make([]int, len(cols))
	for i, col := range cols {
		leaves[i] = indices[col.Name()]
	}
	batch := make([]pq.Row, 0, rowBatchSize)
	err = t.ForEachRow(func(row tabula.Row) error {
		byLeaf := make([][]pq.Value, len(cols))
		for i, col := range cols {
			values, err := encodeValue(row.Value(i), col.Type(), leaves[i])
			if err != nil {
				return fmt.Errorf("row %d, column %s: %w", row.Index(), col.Name(), err)
			}
			byLeaf[leaves[i]] = values
		}
		var prow pq.Row
		for _, values := range byLeaf {
			prow = append(prow, values...)
		}
		batch = append(batch, prow)
		if len(batch) == rowBatchSize {
			if _, err := writer.WriteRows(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(batch) > 0 {
		if _, err := writer.WriteRows(batch); err != nil {
			return err
		}
	}
	return writer.Close()
}

// encodeValue produces the leaf values of a single cell. Scalars are optional
// (definition level 1 when present). Arrays are optional lists of optional
// elements, with a maximum definition level of 3.
func encodeValue(v interface{}, colType tabula.ColumnType, leaf int) ([]pq.Value, error) {
	arr, isArray := colType.(*tabula.ArrayColumnType)
	if !isArray {
		if v == nil {
			return []pq.Value{pq.NullValue().Level(0, 0, leaf)}, nil
		}
		pv, err := scalarValue(v)
		if err != nil {
			return nil, err
		}
		return []pq.Value{pv.Level(0, 1, leaf)}, nil
	}
	if v == nil {
		return []pq.Value{pq.NullValue().Level(0, 0, leaf)}, nil
	}
	elems, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%T is not an %s", v, arr.Name())
	}
	if len(elems) == 0 {
		return []pq.Value{pq.NullValue().Level(0, 1, leaf)}, nil
	}
	values := make([]pq.Value, len(elems))
	for i, e := range elems {
		rep := 1
		if i == 0 {
			rep = 0
		}
		if e == nil {
			values[i] = pq.NullValue().Level(rep, 2, leaf)
			continue
		}
		pv, err := scalarValue(e)
		if err != nil {
			return nil, err
		}
		values[i] = pv.Level(rep, 3, leaf)
	}
	return values, nil
}

func scalarValue(v interface{}) (pq.Value, error) {
	switch tv := v.(type) {
	case string:
		return pq.ByteArrayValue([]byte(tv)), nil
	case int64:
		return pq.Int64Value(tv), nil
	case float64:
		return pq.DoubleValue(tv), nil
	case bool:
		return pq.BooleanValue(tv), nil
	case time.Time:
		return pq.Int32Value(int32(tv.Unix() / secondsPerDay)), nil
	}
	return pq.Value{}, fmt.Errorf("cannot encode %T", v)
}
