package dsv

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/internal/cast"
	"github.com/go-sif/tabula/schema"
)

// ParserConf configures a DSV Parser
type ParserConf struct {
	Header      bool   // Whether the first line of the data names the columns. Defaults to false.
	Delimiter   rune   // The delimiter separating columns in the file. Defaults to ,
	Comment     rune   // Lines beginning with the comment character are ignored. Cannot be equal to the Delimiter. Defaults to no comment character.
	NilValue    string // A special string which represents nil values in the dataset, in addition to the empty string.
	InferSchema bool   // Whether column types are inferred from the data when no Schema is supplied. Otherwise, every column is a String. Defaults to false.
	DateFormat  string // The pattern of Date values, such as yyyy-MM-dd or dd/MM/yyyy. Defaults to yyyy-MM-dd.
}

// Parser produces rows from DSV data
type Parser struct {
	conf   *ParserConf
	layout string
}

// CreateParser returns a new DSV Parser
func CreateParser(conf *ParserConf) *Parser {
	if conf.Delimiter == 0 {
		conf.Delimiter = ','
	}
	layout := tabula.DateFormat
	if len(conf.DateFormat) > 0 {
		layout = cast.JavaLayout(conf.DateFormat)
	}
	return &Parser{conf: conf, layout: layout}
}

// Parse parses DSV data. If s is nil, the Schema is determined from the data:
// column names come from the header line, or are _c0, _c1... without one.
func (p *Parser) Parse(r io.Reader, s tabula.Schema) (tabula.Schema, [][]interface{}, error) {
	// start parsing by creating a reader
	reader := csv.NewReader(r)
	reader.Comma = p.conf.Delimiter
	reader.Comment = p.conf.Comment
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read delimited data: %w", err)
	}
	var header []string
	if p.conf.Header && len(records) > 0 {
		header, records = records[0], records[1:]
	}
	if s == nil {
		s, err = p.detectSchema(header, records)
		if err != nil {
			return nil, nil, err
		}
	} else if header != nil && len(header) != s.NumColumns() {
		return nil, nil, errors.SchemaMismatchError{Row: -1, Reason: fmt.Sprintf("header has %d columns but the schema has %d", len(header), s.NumColumns())}
	}
	cols := s.Columns()
	rows := make([][]interface{}, len(records))
	for i, record := range records {
		if len(record) != len(cols) {
			return nil, nil, errors.SchemaMismatchError{Row: i, Reason: fmt.Sprintf("expected %d fields but found %d", len(cols), len(record))}
		}
		values, err := scanRow(p.conf, p.layout, cols, record, i)
		if err != nil {
			return nil, nil, err
		}
		rows[i] = values
	}
	return s, rows, nil
}

func (p *Parser) detectSchema(header []string, records [][]string) (tabula.Schema, error) {
	names := header
	if names == nil {
		width := 0
		if len(records) > 0 {
			width = len(records[0])
		}
		names = make([]string, width)
		for i := range names {
			names[i] = fmt.Sprintf("_c%d", i)
		}
	}
	var s tabula.Schema = schema.CreateSchema()
	var err error
	for i, name := range names {
		var colType tabula.ColumnType = &tabula.StringColumnType{}
		if p.conf.InferSchema {
			colType = inferColumn(p.conf, p.layout, records, i)
		}
		if s, err = s.CreateColumn(name, colType, true); err != nil {
			return nil, err
		}
	}
	return s, nil
}
