package datasource

import (
	"io"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/datasource/file"
	"github.com/go-sif/tabula/datasource/memory"
	"github.com/go-sif/tabula/logging"
	"github.com/go-sif/tabula/table"
)

// Load reads a Table from a file, a directory of files or a glob. Files
// compressed with lz4 or zstd are decompressed according to their extension.
func Load(path string, format Format, opts Options) (tabula.Table, error) {
	logger := logging.OrDiscard(opts.Logger)
	parser, err := format.Parser(opts)
	if err != nil {
		return nil, err
	}
	s, err := opts.schema()
	if err != nil {
		return nil, err
	}
	s, rows, files, err := file.Parse(path, parser, s)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded table", "path", path, "format", string(format), "files", len(files), "rows", len(rows))
	return table.Create(rows, s)
}

// Read reads a Table from a single stream of uncompressed data
func Read(r io.Reader, format Format, opts Options) (tabula.Table, error) {
	parser, err := format.Parser(opts)
	if err != nil {
		return nil, err
	}
	s, err := opts.schema()
	if err != nil {
		return nil, err
	}
	s, rows, err := parser.Parse(r, s)
	if err != nil {
		return nil, err
	}
	return table.Create(rows, s)
}

// ReadAll reads a Table from in-memory data, with each buffer treated as a
// separate file
func ReadAll(data [][]byte, format Format, opts Options) (tabula.Table, error) {
	parser, err := format.Parser(opts)
	if err != nil {
		return nil, err
	}
	s, err := opts.schema()
	if err != nil {
		return nil, err
	}
	return memory.CreateTable(data, parser, s)
}
