// Package memory parses data held in byte buffers, each treated as one file.
package memory

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"strconv"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/internal/source"
	"github.com/go-sif/tabula/table"
)

// CreateTable parses each buffer in order and combines the results into a Table
func CreateTable(data [][]byte, parser tabula.DataSourceParser, s tabula.Schema) (tabula.Table, error) {
	names := make([]string, len(data))
	for i := range data {
		names[i] = strconv.Itoa(i)
	}
	open := func(name string) (io.ReadCloser, error) {
		idx, err := strconv.Atoi(name)
		if err != nil || idx < 0 || idx >= len(data) {
			return nil, fmt.Errorf("no buffer %s", name)
		}
		return ioutil.NopCloser(bytes.NewReader(data[idx])), nil
	}
	s, rows, err := source.Collect(names, open, parser, s)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("cannot determine a schema without any data")
	}
	return table.Create(rows, s)
}
