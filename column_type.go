package tabula

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the layout used to represent Date values as text
const DateFormat = "2006-01-02"

// ColumnType is an interface which is implemented to define the supported column types.
// Tabula provides a small, closed set of built-in types: String, Integer, Double,
// Date, Boolean and Array.
type ColumnType interface {
	Name() string                  // returns the DDL name of a column type, e.g. STRING or ARRAY<INT>
	ToString(v interface{}) string // produces a string representation of a value of this type
	Accepts(v interface{}) bool    // returns true iff v is a canonical, non-nil value of this type
}

// StringColumnType is a column type which stores a string value
type StringColumnType struct{}

// Name returns the DDL name of StringColumnType
func (b *StringColumnType) Name() string {
	return "STRING"
}

// ToString produces a string representation of a value of a StringColumnType value
func (b *StringColumnType) ToString(v interface{}) string {
	return FormatValue(v)
}

// Accepts returns true iff v is a string
func (b *StringColumnType) Accepts(v interface{}) bool {
	_, ok := v.(string)
	return ok
}

// IntegerColumnType is a column type which stores an int64 value
type IntegerColumnType struct{}

// Name returns the DDL name of IntegerColumnType
func (b *IntegerColumnType) Name() string {
	return "INT"
}

// ToString produces a string representation of a value of a IntegerColumnType value
func (b *IntegerColumnType) ToString(v interface{}) string {
	return FormatValue(v)
}

// Accepts returns true iff v is an int64
func (b *IntegerColumnType) Accepts(v interface{}) bool {
	_, ok := v.(int64)
	return ok
}

// DoubleColumnType is a column type which stores a float64 value
type DoubleColumnType struct{}

// Name returns the DDL name of DoubleColumnType
func (b *DoubleColumnType) Name() string {
	return "DOUBLE"
}

// ToString produces a string representation of a value of a DoubleColumnType value
func (b *DoubleColumnType) ToString(v interface{}) string {
	return FormatValue(v)
}

// Accepts returns true iff v is a float64
func (b *DoubleColumnType) Accepts(v interface{}) bool {
	_, ok := v.(float64)
	return ok
}

// DateColumnType is a column type which stores a calendar date, as a time.Time at midnight UTC
type DateColumnType struct{}

// Name returns the DDL name of DateColumnType
func (b *DateColumnType) Name() string {
	return "DATE"
}

// ToString produces a string representation of a value of a DateColumnType value
func (b *DateColumnType) ToString(v interface{}) string {
	return FormatValue(v)
}

// Accepts returns true iff v is a time.Time
func (b *DateColumnType) Accepts(v interface{}) bool {
	_, ok := v.(time.Time)
	return ok
}

// BooleanColumnType is a column type which stores a bool value
type BooleanColumnType struct{}

// Name returns the DDL name of BooleanColumnType
func (b *BooleanColumnType) Name() string {
	return "BOOLEAN"
}

// ToString produces a string representation of a value of a BooleanColumnType value
func (b *BooleanColumnType) ToString(v interface{}) string {
	return FormatValue(v)
}

// Accepts returns true iff v is a bool
func (b *BooleanColumnType) Accepts(v interface{}) bool {
	_, ok := v.(bool)
	return ok
}

// ArrayColumnType is a column type which stores an ordered sequence of values of
// another column type. Elements may be nil.
type ArrayColumnType struct {
	Elem ColumnType
}

// Name returns the DDL name of ArrayColumnType
func (b *ArrayColumnType) Name() string {
	return fmt.Sprintf("ARRAY<%s>", b.Elem.Name())
}

// ToString produces a string representation of a value of a ArrayColumnType value
func (b *ArrayColumnType) ToString(v interface{}) string {
	return FormatValue(v)
}

// Accepts returns true iff v is a slice whose elements are all nil or accepted by Elem
func (b *ArrayColumnType) Accepts(v interface{}) bool {
	arr, ok := v.([]interface{})
	if !ok {
		return false
	}
	for _, e := range arr {
		if e != nil && !b.Elem.Accepts(e) {
			return false
		}
	}
	return true
}

// TypesEqual returns true iff two ColumnTypes describe the same type
func TypesEqual(a ColumnType, b ColumnType) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name() == b.Name()
}

// IsNumeric returns true iff values of a ColumnType support arithmetic
func IsNumeric(colType ColumnType) bool {
	switch colType.(type) {
	case *IntegerColumnType, *DoubleColumnType:
		return true
	}
	return false
}

// IsArray returns true iff colType is an ArrayColumnType
func IsArray(colType ColumnType) (isArray bool) {
	_, isArray = colType.(*ArrayColumnType)
	return
}

// TypeOf returns the ColumnType for a canonical value, or false if none exists.
// Arrays take their element type from their first non-nil element, defaulting
// to String.
func TypeOf(v interface{}) (ColumnType, bool) {
	switch tv := v.(type) {
	case string:
		return &StringColumnType{}, true
	case int64:
		return &IntegerColumnType{}, true
	case float64:
		return &DoubleColumnType{}, true
	case bool:
		return &BooleanColumnType{}, true
	case time.Time:
		return &DateColumnType{}, true
	case []interface{}:
		for _, e := range tv {
			if e == nil {
				continue
			}
			elem, ok := TypeOf(e)
			if !ok {
				return nil, false
			}
			return &ArrayColumnType{Elem: elem}, true
		}
		return &ArrayColumnType{Elem: &StringColumnType{}}, true
	}
	return nil, false
}

// FormatValue produces the canonical textual representation of a value.
// nil is rendered as "null".
func FormatValue(v interface{}) string {
	switch tv := v.(type) {
	case nil:
		return "null"
	case string:
		return tv
	case int64:
		return strconv.FormatInt(tv, 10)
	case float64:
		return formatDouble(tv)
	case bool:
		return strconv.FormatBool(tv)
	case time.Time:
		return tv.Format(DateFormat)
	case []interface{}:
		parts := make([]string, len(tv))
		for i, e := range tv {
			parts[i] = FormatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatDouble(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.ContainsAny(s, ".eEnN") {
		return s
	}
	return s + ".0"
}
