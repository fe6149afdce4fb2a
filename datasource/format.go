package datasource

import (
	"path/filepath"
	"strings"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/datasource/parser/arrow"
	"github.com/go-sif/tabula/datasource/parser/dsv"
	"github.com/go-sif/tabula/datasource/parser/jsonl"
	"github.com/go-sif/tabula/datasource/parser/parquet"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/internal/compress"
)

// Format identifies a file format
type Format string

const (
	// FormatDelimited is delimiter-separated text, such as CSV
	FormatDelimited Format = "csv"
	// FormatJSON is JSON lines, one object per line
	FormatJSON Format = "json"
	// FormatColumnar is Apache Parquet
	FormatColumnar Format = "parquet"
	// FormatArrow is an Apache Arrow IPC stream
	FormatArrow Format = "arrow"
)

// ParseFormat parses a format name, accepting common aliases
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv", "tsv", "dsv", "delimited", "text":
		return FormatDelimited, nil
	case "json", "jsonl", "ndjson":
		return FormatJSON, nil
	case "parquet", "columnar":
		return FormatColumnar, nil
	case "arrow", "ipc", "arrows":
		return FormatArrow, nil
	}
	return "", errors.InvalidArgumentError{Argument: "format", Reason: "unknown format " + name}
}

// FormatFromPath determines a format from a file extension, ignoring any
// compression extension
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(compress.TrimExtension(path))
	if len(ext) == 0 {
		return "", errors.InvalidArgumentError{Argument: "format", Reason: "cannot determine the format of " + path}
	}
	return ParseFormat(ext[1:])
}

// Extension returns the file extension of a format
func (f Format) Extension() string {
	return "." + string(f)
}

// Compressible returns true if files of this format may be compressed as a whole
func (f Format) Compressible() bool {
	return f == FormatDelimited || f == FormatJSON
}

// Parser returns the parser for this format, configured by opts
func (f Format) Parser(opts Options) (tabula.DataSourceParser, error) {
	switch f {
	case FormatDelimited:
		return dsv.CreateParser(&dsv.ParserConf{
			Header:      opts.Header,
			Delimiter:   opts.Delimiter,
			Comment:     opts.Comment,
			NilValue:    opts.NilValue,
			InferSchema: opts.InferSchema,
			DateFormat:  opts.DateFormat,
		}), nil
	case FormatJSON:
		return jsonl.CreateParser(&jsonl.ParserConf{
			Multiline:  opts.Multiline,
			DateFormat: opts.DateFormat,
		}), nil
	case FormatColumnar:
		return parquet.CreateParser(), nil
	case FormatArrow:
		return arrow.CreateParser(), nil
	}
	return nil, errors.InvalidArgumentError{Argument: "format", Reason: "unknown format " + string(f)}
}
