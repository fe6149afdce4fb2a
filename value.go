package tabula

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// NormalizeValue converts a Go value into the canonical representation used
// within Tables: integers become int64, floats become float64, times are
// truncated to a UTC date and slices become []interface{}. It returns false
// if the value has no canonical representation.
func NormalizeValue(v interface{}) (interface{}, bool) {
	switch tv := v.(type) {
	case nil:
		return nil, true
	case string, int64, float64, bool:
		return v, true
	case int:
		return int64(tv), true
	case int8:
		return int64(tv), true
	case int16:
		return int64(tv), true
	case int32:
		return int64(tv), true
	case uint8:
		return int64(tv), true
	case uint16:
		return int64(tv), true
	case uint32:
		return int64(tv), true
	case uint:
		if uint64(tv) > math.MaxInt64 {
			return nil, false
		}
		return int64(tv), true
	case uint64:
		if tv > math.MaxInt64 {
			return nil, false
		}
		return int64(tv), true
	case float32:
		return float64(tv), true
	case time.Time:
		return ToDate(tv), true
	case *time.Time:
		if tv == nil {
			return nil, true
		}
		return ToDate(*tv), true
	case []interface{}:
		res := make([]interface{}, len(tv))
		for i, e := range tv {
			ne, ok := NormalizeValue(e)
			if !ok {
				return nil, false
			}
			res[i] = ne
		}
		return res, true
	case []string:
		res := make([]interface{}, len(tv))
		for i, e := range tv {
			res[i] = e
		}
		return res, true
	case []int64:
		res := make([]interface{}, len(tv))
		for i, e := range tv {
			res[i] = e
		}
		return res, true
	case []int:
		res := make([]interface{}, len(tv))
		for i, e := range tv {
			res[i] = int64(e)
		}
		return res, true
	case []float64:
		res := make([]interface{}, len(tv))
		for i, e := range tv {
			res[i] = e
		}
		return res, true
	case []bool:
		res := make([]interface{}, len(tv))
		for i, e := range tv {
			res[i] = e
		}
		return res, true
	}
	return nil, false
}

// ToDate truncates a time.Time to midnight UTC of its calendar date
func ToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CopyValue returns a deep copy of a canonical value. Only arrays are mutable,
// so everything else is returned as-is.
func CopyValue(v interface{}) interface{} {
	arr, ok := v.([]interface{})
	if !ok || arr == nil {
		return v
	}
	res := make([]interface{}, len(arr))
	for i, e := range arr {
		res[i] = CopyValue(e)
	}
	return res
}

func kindRank(v interface{}) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case int64, float64:
		return 2
	case time.Time:
		return 3
	case string:
		return 4
	case []interface{}:
		return 5
	}
	return 6
}

// CompareValues orders two canonical values, returning a negative number if
// a < b, zero if they are equal and a positive number if a > b. nil sorts
// before every other value, Integers and Doubles are mutually comparable, and
// arrays compare lexicographically.
func CompareValues(a interface{}, b interface{}) int {
	ra, rb := kindRank(a), kindRank(b)
	if ra != rb {
		return ra - rb
	}
	switch ta := a.(type) {
	case nil:
		return 0
	case bool:
		tb := b.(bool)
		if ta == tb {
			return 0
		} else if !ta {
			return -1
		}
		return 1
	case int64:
		if tb, ok := b.(int64); ok {
			return compareOrdered(ta, tb)
		}
		return compareFloats(float64(ta), b.(float64))
	case float64:
		if tb, ok := b.(int64); ok {
			return compareFloats(ta, float64(tb))
		}
		return compareFloats(ta, b.(float64))
	case time.Time:
		return ta.Compare(b.(time.Time))
	case string:
		return strings.Compare(ta, b.(string))
	case []interface{}:
		tb := b.([]interface{})
		for i := 0; i < len(ta) && i < len(tb); i++ {
			if c := CompareValues(ta[i], tb[i]); c != 0 {
				return c
			}
		}
		return len(ta) - len(tb)
	}
	return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
}

// ValuesEqual returns true iff two canonical values are equal. Two nil values are equal.
func ValuesEqual(a interface{}, b interface{}) bool {
	return CompareValues(a, b) == 0
}

func compareOrdered[T int64 | string](a, b T) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

// NaN sorts after every other number
func compareFloats(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
