package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/internal/cast"
	"github.com/go-sif/tabula/internal/encoding"
)

// WriterConf configures a JSONL Writer
type WriterConf struct {
	DateFormat string // The pattern of Date values. Defaults to yyyy-MM-dd.
	OmitNil    bool   // Whether nil values are left out of each object, rather than written as null
}

// Writer encodes Tables as JSON lines, one object per Row with keys in column order
type Writer struct {
	conf   *WriterConf
	layout string
}

// CreateWriter returns a new JSONL Writer
func CreateWriter(conf *WriterConf) *Writer {
	layout := tabula.DateFormat
	if len(conf.DateFormat) > 0 {
		layout = cast.JavaLayout(conf.DateFormat)
	}
	return &Writer{conf: conf, layout: layout}
}

// Write encodes every Row of a Table
func (jw *Writer) Write(w io.Writer, t tabula.Table) error {
	keys := make([][]byte, t.Schema().NumColumns())
	for i, name := range t.Schema().ColumnNames() {
		key, err := json.Marshal(name)
		if err != nil {
			return err
		}
		keys[i] = key
	}
	bw := bufio.NewWriter(w)
	err := t.ForEachRow(func(row tabula.Row) error {
		bw.WriteByte('{')
		first := true
		for i, key := range keys {
			v := row.Value(i)
			if v == nil && jw.conf.OmitNil {
				continue
			}
			value, err := encoding.MarshalValue(v, jw.layout)
			if err != nil {
				return fmt.Errorf("row %d: %w", row.Index(), err)
			}
			if !first {
				bw.WriteByte(',')
			}
			first = false
			bw.Write(key)
			bw.WriteByte(':')
			bw.Write(value)
		}
		bw.WriteByte('}')
		return bw.WriteByte('\n')
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}
