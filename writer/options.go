package writer

import (
	"log/slog"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/datasource"
	"github.com/go-sif/tabula/datasource/parser/arrow"
	"github.com/go-sif/tabula/datasource/parser/dsv"
	"github.com/go-sif/tabula/datasource/parser/jsonl"
	"github.com/go-sif/tabula/datasource/parser/parquet"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/internal/compress"
)

// Options configures a write
type Options struct {
	Header      bool         // Whether delimited output begins with a line of column names. Defaults to true.
	Delimiter   rune         // The delimiter of delimited output. Defaults to ,
	NilValue    string       // The string written for nil in delimited output. Defaults to the empty string.
	DateFormat  string       // The pattern of Date values in text formats. Defaults to yyyy-MM-dd.
	Compression string       // none, lz4 or zstd. Only delimited and JSON output may be compressed.
	Logger      *slog.Logger // Receives a message about each write. Defaults to discarding them.
}

// DefaultOptions returns the Options used when none are specified
func DefaultOptions() Options {
	return Options{Header: true}
}

func (o Options) codec(format datasource.Format) (compress.Codec, error) {
	codec, err := compress.ParseCodec(o.Compression)
	if err != nil {
		return compress.None, err
	}
	if codec != compress.None && !format.Compressible() {
		return compress.None, errors.InvalidArgumentError{Argument: "compression", Reason: string(format) + " output cannot be compressed"}
	}
	return codec, nil
}

func (o Options) writer(format datasource.Format) (tabula.DataSourceWriter, error) {
	switch format {
	case datasource.FormatDelimited:
		return dsv.CreateWriter(&dsv.WriterConf{
			Header:     o.Header,
			Delimiter:  o.Delimiter,
			NilValue:   o.NilValue,
			DateFormat: o.DateFormat,
		}), nil
	case datasource.FormatJSON:
		return jsonl.CreateWriter(&jsonl.WriterConf{DateFormat: o.DateFormat}), nil
	case datasource.FormatColumnar:
		return parquet.CreateWriter(), nil
	case datasource.FormatArrow:
		return arrow.CreateWriter(), nil
	}
	return nil, errors.InvalidArgumentError{Argument: "format", Reason: "unknown format " + string(format)}
}
