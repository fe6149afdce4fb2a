package jsonl

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"sort"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/internal/cast"
	"github.com/go-sif/tabula/internal/encoding"
	"github.com/go-sif/tabula/schema"
	"github.com/tidwall/gjson"
)

// ParserConf configures a JSONL Parser, suitable for JSON lines data
type ParserConf struct {
	Multiline     bool   // Whether the data is a single JSON document holding an array of objects (or one object), rather than one object per line. Defaults to false.
	MaxBufferSize int    // Maximum size in bytes of the buffer used to read lines from the file
	DateFormat    string // The pattern of Date values, such as yyyy-MM-dd. Defaults to yyyy-MM-dd.
}

// Parser produces rows from JSONL data
type Parser struct {
	conf   *ParserConf
	layout string
}

// CreateParser returns a new JSONL Parser. Columns are parsed from each row of JSON using their column name, which should be a gjson path. Values within the JSON which do not correspond to a Schema column are ignored.
func CreateParser(conf *ParserConf) *Parser {
	if conf.MaxBufferSize == 0 {
		conf.MaxBufferSize = bufio.MaxScanTokenSize
	}
	layout := tabula.DateFormat
	if len(conf.DateFormat) > 0 {
		layout = cast.JavaLayout(conf.DateFormat)
	}
	return &Parser{conf: conf, layout: layout}
}

// Parse parses JSONL data. If s is nil, the Schema is inferred from the
// union of the top-level keys of every object, ordered by name.
func (p *Parser) Parse(r io.Reader, s tabula.Schema) (tabula.Schema, [][]interface{}, error) {
	objects, err := p.readObjects(r)
	if err != nil {
		return nil, nil, err
	}
	var paths []string
	if s == nil {
		if s, paths, err = inferSchema(objects); err != nil {
			return nil, nil, err
		}
	} else {
		paths = s.ColumnNames()
	}
	cols := s.Columns()
	rows := make([][]interface{}, len(objects))
	for i, obj := range objects {
		values := make([]interface{}, len(cols))
		for j, col := range cols {
			v, err := encoding.DecodeJSON(obj.Get(paths[j]), col.Type(), p.layout)
			if err != nil {
				return nil, nil, errors.SchemaMismatchError{Column: col.Name(), Row: i, Reason: err.Error()}
			} else if v == nil && !col.Nullable() {
				return nil, nil, errors.SchemaMismatchError{Column: col.Name(), Row: i, Reason: "nil value in a non-nullable column"}
			}
			values[j] = v
		}
		rows[i] = values
	}
	return s, rows, nil
}

func (p *Parser) readObjects(r io.Reader) ([]gjson.Result, error) {
	var objects []gjson.Result
	if p.conf.Multiline {
		data, err := ioutil.ReadAll(r)
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return objects, nil
		}
		if !gjson.ValidBytes(data) {
			return nil, errors.SchemaMismatchError{Row: -1, Reason: "data is not a valid JSON document"}
		}
		doc := gjson.ParseBytes(data)
		if doc.IsObject() {
			return []gjson.Result{doc}, nil
		} else if !doc.IsArray() {
			return nil, errors.SchemaMismatchError{Row: -1, Reason: "JSON document is neither an array nor an object"}
		}
		for i, obj := range doc.Array() {
			if !obj.IsObject() {
				return nil, errors.SchemaMismatchError{Row: i, Reason: fmt.Sprintf("%s is not a JSON object", obj.Raw)}
			}
			objects = append(objects, obj)
		}
		return objects, nil
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), p.conf.MaxBufferSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if !gjson.ValidBytes(line) {
			return nil, errors.SchemaMismatchError{Row: len(objects), Reason: "line is not valid JSON"}
		}
		// the scanner reuses its buffer
		obj := gjson.Parse(string(line))
		if !obj.IsObject() {
			return nil, errors.SchemaMismatchError{Row: len(objects), Reason: fmt.Sprintf("%s is not a JSON object", obj.Raw)}
		}
		objects = append(objects, obj)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return objects, nil
}

// inferSchema returns a Schema, and the gjson path of each of its columns
func inferSchema(objects []gjson.Result) (tabula.Schema, []string, error) {
	types := make(map[string]tabula.ColumnType)
	for _, obj := range objects {
		obj.ForEach(func(key gjson.Result, value gjson.Result) bool {
			// keys which only ever hold null are kept, with a nil type
			types[key.Str] = encoding.Widen(types[key.Str], encoding.InferJSON(value))
			return true
		})
	}
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)
	var s tabula.Schema = schema.CreateSchema()
	paths := make([]string, len(names))
	var err error
	for i, name := range names {
		colType := types[name]
		if colType == nil {
			colType = &tabula.StringColumnType{}
		}
		if s, err = s.CreateColumn(name, colType, true); err != nil {
			return nil, nil, err
		}
		paths[i] = escapePath(name)
	}
	return s, paths, nil
}
