// Package encoding holds the value conversions shared by tabula's file formats.
package encoding

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/internal/cast"
	"github.com/tidwall/gjson"
)

// JSONValue converts a canonical value into one which encoding/json renders
// faithfully. Dates become strings in the given Go layout.
func JSONValue(v interface{}, layout string) interface{} {
	switch tv := v.(type) {
	case time.Time:
		return tv.Format(layout)
	case []interface{}:
		res := make([]interface{}, len(tv))
		for i, e := range tv {
			res[i] = JSONValue(e, layout)
		}
		return res
	}
	return v
}

// MarshalValue renders a canonical value as JSON text
func MarshalValue(v interface{}, layout string) ([]byte, error) {
	return json.Marshal(JSONValue(v, layout))
}

// DecodeJSON converts a parsed JSON value into the canonical value of a
// ColumnType. Missing values and JSON nulls become nil. Strings are accepted
// for every scalar type, and parsed; dates are parsed with a Go layout.
func DecodeJSON(res gjson.Result, colType tabula.ColumnType, layout string) (interface{}, error) {
	if !res.Exists() || res.Type == gjson.Null {
		return nil, nil
	}
	switch ct := colType.(type) {
	case *tabula.StringColumnType:
		switch res.Type {
		case gjson.String:
			return res.Str, nil
		case gjson.True, gjson.False:
			return strconv.FormatBool(res.Bool()), nil
		}
		return res.Raw, nil
	case *tabula.IntegerColumnType:
		switch res.Type {
		case gjson.Number:
			return cast.ParseInteger(res.Raw)
		case gjson.String:
			return cast.ParseInteger(res.Str)
		}
	case *tabula.DoubleColumnType:
		switch res.Type {
		case gjson.Number:
			return res.Float(), nil
		case gjson.String:
			return strconv.ParseFloat(strings.TrimSpace(res.Str), 64)
		}
	case *tabula.BooleanColumnType:
		switch res.Type {
		case gjson.True, gjson.False:
			return res.Bool(), nil
		case gjson.String:
			return cast.ParseBoolean(res.Str)
		}
	case *tabula.DateColumnType:
		if res.Type == gjson.String {
			return cast.ParseDate(res.Str, layout)
		}
	case *tabula.ArrayColumnType:
		if res.IsArray() {
			elems := res.Array()
			values := make([]interface{}, len(elems))
			for i, elem := range elems {
				v, err := DecodeJSON(elem, ct.Elem, layout)
				if err != nil {
					return nil, err
				}
				values[i] = v
			}
			return values, nil
		}
	}
	return nil, fmt.Errorf("cannot read %s as %s", res.Raw, colType.Name())
}

// InferJSON returns the ColumnType best describing a parsed JSON value, or nil
// for JSON null. Objects are read as their raw JSON text.
func InferJSON(res gjson.Result) tabula.ColumnType {
	switch {
	case !res.Exists() || res.Type == gjson.Null:
		return nil
	case res.Type == gjson.True || res.Type == gjson.False:
		return &tabula.BooleanColumnType{}
	case res.Type == gjson.Number:
		if strings.ContainsAny(res.Raw, ".eE") {
			return &tabula.DoubleColumnType{}
		}
		return &tabula.IntegerColumnType{}
	case res.IsArray():
		var elem tabula.ColumnType
		for _, e := range res.Array() {
			elem = Widen(elem, InferJSON(e))
		}
		if elem == nil {
			elem = &tabula.StringColumnType{}
		}
		return &tabula.ArrayColumnType{Elem: elem}
	}
	return &tabula.StringColumnType{}
}

// Widen returns a ColumnType which can represent values of both a and b. nil
// represents an unknown type. Integers widen to Doubles; other conflicts widen
// to Strings.
func Widen(a tabula.ColumnType, b tabula.ColumnType) tabula.ColumnType {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case tabula.TypesEqual(a, b):
		return a
	case tabula.IsNumeric(a) && tabula.IsNumeric(b):
		return &tabula.DoubleColumnType{}
	}
	aa, aIsArray := a.(*tabula.ArrayColumnType)
	ba, bIsArray := b.(*tabula.ArrayColumnType)
	if aIsArray && bIsArray {
		return &tabula.ArrayColumnType{Elem: Widen(aa.Elem, ba.Elem)}
	}
	return &tabula.StringColumnType{}
}
