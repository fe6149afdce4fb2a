package dsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/internal/cast"
	"github.com/go-sif/tabula/internal/encoding"
)

// WriterConf configures a DSV Writer
type WriterConf struct {
	Header     bool   // Whether to write a line of column names first
	Delimiter  rune   // The delimiter separating columns. Defaults to ,
	NilValue   string // The string written for nil values. Defaults to the empty string.
	DateFormat string // The pattern of Date values. Defaults to yyyy-MM-dd.
}

// Writer encodes Tables as DSV data. Arrays are written as JSON text.
type Writer struct {
	conf   *WriterConf
	layout string
}

// CreateWriter returns a new DSV Writer
func CreateWriter(conf *WriterConf) *Writer {
	if conf.Delimiter == 0 {
		conf.Delimiter = ','
	}
	layout := tabula.DateFormat
	if len(conf.DateFormat) > 0 {
		layout = cast.JavaLayout(conf.DateFormat)
	}
	return &Writer{conf: conf, layout: layout}
}

// Write encodes every Row of a Table
func (dw *Writer) Write(w io.Writer, t tabula.Table) error {
	writer := csv.NewWriter(w)
	writer.Comma = dw.conf.Delimiter
	if dw.conf.Header {
		if err := writer.Write(t.Schema().ColumnNames()); err != nil {
			return err
		}
	}
	record := make([]string, t.Schema().NumColumns())
	err := t.ForEachRow(func(row tabula.Row) error {
		for i := range record {
			s, err := dw.format(row.Value(i))
			if err != nil {
				return fmt.Errorf("row %d: %w", row.Index(), err)
			}
			record[i] = s
		}
		return writer.Write(record)
	})
	if err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func (dw *Writer) format(v interface{}) (string, error) {
	switch tv := v.(type) {
	case nil:
		return dw.conf.NilValue, nil
	case time.Time:
		return tv.Format(dw.layout), nil
	case []interface{}:
		b, err := encoding.MarshalValue(tv, dw.layout)
		return string(b), err
	}
	return tabula.FormatValue(v), nil
}
