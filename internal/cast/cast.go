// Package cast implements conversions between canonical values of different ColumnTypes.
package cast

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-sif/tabula"
)

// Defined returns true iff a conversion from one ColumnType to another exists.
// Numeric types convert to and from String and each other; String converts to and
// from every scalar type; Boolean converts to and from Integer; Arrays convert to
// String, and to other Arrays whose elements are convertible.
func Defined(from tabula.ColumnType, to tabula.ColumnType) bool {
	if tabula.TypesEqual(from, to) {
		return true
	}
	switch tt := to.(type) {
	case *tabula.StringColumnType:
		return true
	case *tabula.IntegerColumnType, *tabula.DoubleColumnType:
		switch from.(type) {
		case *tabula.StringColumnType, *tabula.IntegerColumnType, *tabula.DoubleColumnType, *tabula.BooleanColumnType:
			return true
		}
	case *tabula.BooleanColumnType:
		switch from.(type) {
		case *tabula.StringColumnType, *tabula.IntegerColumnType:
			return true
		}
	case *tabula.DateColumnType:
		_, ok := from.(*tabula.StringColumnType)
		return ok
	case *tabula.ArrayColumnType:
		if af, ok := from.(*tabula.ArrayColumnType); ok {
			return Defined(af.Elem, tt.Elem)
		}
	}
	return false
}

// Value converts a canonical value to the given ColumnType. nil converts to nil.
// Dates in strings are expected in the tabula.DateFormat layout.
func Value(v interface{}, to tabula.ColumnType) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if to.Accepts(v) {
		return v, nil
	}
	switch tt := to.(type) {
	case *tabula.StringColumnType:
		return tabula.FormatValue(v), nil
	case *tabula.IntegerColumnType:
		switch tv := v.(type) {
		case string:
			return ParseInteger(tv)
		case float64:
			if math.IsNaN(tv) || math.IsInf(tv, 0) {
				return nil, fmt.Errorf("%v has no integer representation", tv)
			}
			return int64(tv), nil
		case bool:
			if tv {
				return int64(1), nil
			}
			return int64(0), nil
		}
	case *tabula.DoubleColumnType:
		switch tv := v.(type) {
		case string:
			return strconv.ParseFloat(strings.TrimSpace(tv), 64)
		case int64:
			return float64(tv), nil
		case bool:
			if tv {
				return float64(1), nil
			}
			return float64(0), nil
		}
	case *tabula.BooleanColumnType:
		switch tv := v.(type) {
		case string:
			return ParseBoolean(tv)
		case int64:
			return tv != 0, nil
		}
	case *tabula.DateColumnType:
		if tv, ok := v.(string); ok {
			return ParseDate(tv, tabula.DateFormat)
		}
	case *tabula.ArrayColumnType:
		if tv, ok := v.([]interface{}); ok {
			res := make([]interface{}, len(tv))
			for i, e := range tv {
				ce, err := Value(e, tt.Elem)
				if err != nil {
					return nil, err
				}
				res[i] = ce
			}
			return res, nil
		}
	}
	return nil, fmt.Errorf("no conversion from %T to %s", v, to.Name())
}

// ParseInteger parses a base-10 integer, tolerating surrounding whitespace
// and an integral decimal representation such as "10.0"
func ParseInteger(s string) (int64, error) {
	s = strings.TrimSpace(s)
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return i, nil
	}
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
		return int64(f), nil
	}
	return 0, err
}

// ParseBoolean parses true or false, case-insensitively
func ParseBoolean(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", s)
}

// ParseDate parses a date with a Go layout, returning midnight UTC of that date
func ParseDate(s string, layout string) (time.Time, error) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return tabula.ToDate(t), nil
}
