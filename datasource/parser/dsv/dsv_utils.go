package dsv

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/internal/cast"
	"github.com/go-sif/tabula/internal/encoding"
	"github.com/tidwall/gjson"
)

func isNil(conf *ParserConf, colVal string) bool {
	return len(colVal) == 0 || (len(conf.NilValue) > 0 && colVal == conf.NilValue)
}

// Parses a slice of strings into row values, according to a schema
func scanRow(conf *ParserConf, layout string, cols []tabula.Column, rowStrings []string, rowIdx int) ([]interface{}, error) {
	values := make([]interface{}, len(rowStrings))
	for i, colVal := range rowStrings {
		// check for a nil value
		if isNil(conf, colVal) {
			if !cols[i].Nullable() {
				return nil, errors.SchemaMismatchError{Column: cols[i].Name(), Row: rowIdx, Reason: "nil value in a non-nullable column"}
			}
			continue
		}
		v, err := scanValue(cols[i].Type(), colVal, layout)
		if err != nil {
			return nil, errors.SchemaMismatchError{Column: cols[i].Name(), Row: rowIdx, Reason: err.Error()}
		}
		values[i] = v
	}
	return values, nil
}

// otherwise, parse type
func scanValue(colType tabula.ColumnType, colVal string, layout string) (interface{}, error) {
	switch colType.(type) {
	case *tabula.StringColumnType:
		return colVal, nil
	case *tabula.IntegerColumnType:
		return cast.ParseInteger(colVal)
	case *tabula.DoubleColumnType:
		return strconv.ParseFloat(strings.TrimSpace(colVal), 64)
	case *tabula.BooleanColumnType:
		return cast.ParseBoolean(colVal)
	case *tabula.DateColumnType:
		return cast.ParseDate(colVal, layout)
	case *tabula.ArrayColumnType:
		if !gjson.Valid(colVal) {
			return nil, fmt.Errorf("%q is not a JSON array", colVal)
		}
		return encoding.DecodeJSON(gjson.Parse(colVal), colType, layout)
	}
	return nil, fmt.Errorf("DSV parsing does not support column type %s", colType.Name())
}

type inferred int

const (
	inferredNothing inferred = iota
	inferredInteger
	inferredDouble
	inferredBoolean
	inferredDate
	inferredString
)

// inferValue returns the narrowest type a value parses as, trying Integer,
// Double, Boolean and Date in turn
func inferValue(colVal string, layout string) inferred {
	s := strings.TrimSpace(colVal)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return inferredInteger
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return inferredDouble
	}
	if _, err := cast.ParseBoolean(s); err == nil {
		return inferredBoolean
	}
	if _, err := cast.ParseDate(s, layout); err == nil {
		return inferredDate
	}
	return inferredString
}

func merge(a inferred, b inferred) inferred {
	switch {
	case a == inferredNothing || a == b:
		return b
	case b == inferredNothing:
		return a
	case (a == inferredInteger && b == inferredDouble) || (a == inferredDouble && b == inferredInteger):
		return inferredDouble
	}
	return inferredString
}

// inferColumn determines the type of a column from every non-nil value in it.
// Columns with no values are Strings.
func inferColumn(conf *ParserConf, layout string, records [][]string, col int) tabula.ColumnType {
	result := inferredNothing
	for _, record := range records {
		if col >= len(record) || isNil(conf, record[col]) {
			continue
		}
		if result = merge(result, inferValue(record[col], layout)); result == inferredString {
			break
		}
	}
	switch result {
	case inferredInteger:
		return &tabula.IntegerColumnType{}
	case inferredDouble:
		return &tabula.DoubleColumnType{}
	case inferredBoolean:
		return &tabula.BooleanColumnType{}
	case inferredDate:
		return &tabula.DateColumnType{}
	}
	return &tabula.StringColumnType{}
}
