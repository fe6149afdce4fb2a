package parquet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"time"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/internal/encoding"
	pq "github.com/segmentio/parquet-go"
)

const rowBatchSize = 256

var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// Parser produces rows from Parquet files
type Parser struct{}

// CreateParser returns a new Parquet Parser
func CreateParser() *Parser {
	return &Parser{}
}

// Parse reads an entire Parquet file. If s is supplied, the rows are
// conformed to it.
func (p *Parser) Parse(r io.Reader, s tabula.Schema) (tabula.Schema, [][]interface{}, error) {
	// Parquet footers are at the end of a file, so it must be buffered
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	pf, err := pq.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	ddl, _ := pf.Lookup(SchemaKey)
	fileSchema, readers, err := fieldReaders(pf.Schema(), ddl)
	if err != nil {
		return nil, nil, err
	}
	rows, err := readRows(pf, readers)
	if err != nil {
		return nil, nil, err
	}
	if s == nil {
		return fileSchema, rows, nil
	}
	rows, err = encoding.Conform(fileSchema, rows, s)
	if err != nil {
		return nil, nil, err
	}
	return s, rows, nil
}

func readRows(pf *pq.File, readers []*fieldReader) ([][]interface{}, error) {
	reader := pq.NewReader(pf)
	defer reader.Close()
	numLeaves := len(pf.Schema().Columns())
	rows := [][]interface{}{}
	buf := make([]pq.Row, rowBatchSize)
	for {
		n, err := reader.ReadRows(buf)
		for _, row := range buf[:n] {
			byLeaf := make([][]pq.Value, numLeaves)
			for _, v := range row {
				byLeaf[v.Column()] = append(byLeaf[v.Column()], v)
			}
			values := make([]interface{}, len(readers))
			for i, fr := range readers {
				v, derr := fr.decode(byLeaf[fr.leaf])
				if derr != nil {
					return nil, fmt.Errorf("row %d, column %s: %w", len(rows), fr.name, derr)
				}
				values[i] = v
			}
			rows = append(rows, values)
		}
		if errors.Is(err, io.EOF) {
			return rows, nil
		} else if err != nil {
			return nil, fmt.Errorf("failed to read rows: %w", err)
		}
	}
}

func (fr *fieldReader) decode(values []pq.Value) (interface{}, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if !fr.isList {
		return fr.scalar(values[0])
	}
	if first := values[0]; first.IsNull() {
		if first.DefinitionLevel() < fr.listDef {
			return nil, nil
		} else if first.DefinitionLevel() < fr.elemDef {
			return []interface{}{}, nil
		}
	}
	res := make([]interface{}, len(values))
	for i, v := range values {
		e, err := fr.scalar(v)
		if err != nil {
			return nil, err
		}
		res[i] = e
	}
	return res, nil
}

func (fr *fieldReader) scalar(v pq.Value) (interface{}, error) {
	if v.IsNull() {
		return nil, nil
	}
	colType := fr.colType
	if arr, ok := colType.(*tabula.ArrayColumnType); ok {
		colType = arr.Elem
	}
	switch colType.(type) {
	case *tabula.DateColumnType:
		return epoch.AddDate(0, 0, int(v.Int32())), nil
	case *tabula.StringColumnType:
		return string(v.ByteArray()), nil
	case *tabula.BooleanColumnType:
		return v.Boolean(), nil
	}
	switch fr.kind {
	case pq.Int32:
		return int64(v.Int32()), nil
	case pq.Int64:
		return v.Int64(), nil
	case pq.Float:
		return float64(v.Float()), nil
	case pq.Double:
		return v.Double(), nil
	}
	return nil, fmt.Errorf("cannot decode %s value as %s", fr.kind, colType.Name())
}
