package expr

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
)

// StringFuncExpr applies a function to the value of a String Expression. nil stays nil.
type StringFuncExpr struct {
	name   string
	args   string
	inner  tabula.Expression
	result tabula.ColumnType
	fn     func(s string) interface{}
	err    error
}

func stringFunc(name string, e tabula.Expression, result tabula.ColumnType, fn func(s string) interface{}) *StringFuncExpr {
	return &StringFuncExpr{name: name, inner: e, result: result, fn: fn}
}

// Initcap capitalizes the first letter of each whitespace-separated word, lower-casing the rest
func Initcap(e tabula.Expression) *StringFuncExpr {
	return stringFunc("initcap", e, &tabula.StringColumnType{}, func(s string) interface{} {
		var b strings.Builder
		b.Grow(len(s))
		startOfWord := true
		for _, r := range s {
			if startOfWord {
				b.WriteRune(unicode.ToUpper(r))
			} else {
				b.WriteRune(unicode.ToLower(r))
			}
			startOfWord = unicode.IsSpace(r)
		}
		return b.String()
	})
}

// Lower converts a String Expression to lower case
func Lower(e tabula.Expression) *StringFuncExpr {
	return stringFunc("lower", e, &tabula.StringColumnType{}, func(s string) interface{} {
		return strings.ToLower(s)
	})
}

// Upper converts a String Expression to upper case
func Upper(e tabula.Expression) *StringFuncExpr {
	return stringFunc("upper", e, &tabula.StringColumnType{}, func(s string) interface{} {
		return strings.ToUpper(s)
	})
}

// Trim removes leading and trailing whitespace from a String Expression
func Trim(e tabula.Expression) *StringFuncExpr {
	return stringFunc("trim", e, &tabula.StringColumnType{}, func(s string) interface{} {
		return strings.TrimSpace(s)
	})
}

// Length returns the number of characters in a String Expression
func Length(e tabula.Expression) *StringFuncExpr {
	return stringFunc("length", e, &tabula.IntegerColumnType{}, func(s string) interface{} {
		return int64(utf8.RuneCountInString(s))
	})
}

// Substring returns up to length characters of a String Expression, starting at
// the 1-based position pos. A negative pos counts from the end of the string.
func Substring(e tabula.Expression, pos int, length int) *StringFuncExpr {
	res := stringFunc("substring", e, &tabula.StringColumnType{}, func(s string) interface{} {
		runes := []rune(s)
		start := pos - 1
		if pos < 0 {
			start = len(runes) + pos
		} else if pos == 0 {
			start = 0
		}
		if start < 0 {
			start = 0
		}
		if start >= len(runes) || length <= 0 {
			return ""
		}
		end := start + length
		if end > len(runes) {
			end = len(runes)
		}
		return string(runes[start:end])
	})
	res.args = fmt.Sprintf(", %d, %d", pos, length)
	return res
}

// RegexpReplace replaces every match of a regular expression within a String
// Expression. The replacement may refer to capture groups as $1 or ${1}. An
// invalid pattern is reported as an InvalidArgumentError when the Expression
// is resolved.
func RegexpReplace(e tabula.Expression, pattern string, replacement string) *StringFuncExpr {
	re, err := regexp.Compile(pattern)
	res := stringFunc("regexp_replace", e, &tabula.StringColumnType{}, func(s string) interface{} {
		return re.ReplaceAllString(s, replacement)
	})
	res.args = fmt.Sprintf(", %s, %s", pattern, replacement)
	if err != nil {
		res.err = errors.InvalidArgumentError{Argument: "pattern", Reason: err.Error()}
	}
	return res
}

// Split splits a String Expression around every occurrence of a literal delimiter, producing an Array<String>
func Split(e tabula.Expression, delimiter string) *StringFuncExpr {
	res := stringFunc("split", e, &tabula.ArrayColumnType{Elem: &tabula.StringColumnType{}}, func(s string) interface{} {
		parts := strings.Split(s, delimiter)
		arr := make([]interface{}, len(parts))
		for i, p := range parts {
			arr[i] = p
		}
		return arr
	})
	res.args = ", " + delimiter
	if len(delimiter) == 0 {
		res.err = errors.InvalidArgumentError{Argument: "delimiter", Reason: "delimiter must not be empty"}
	}
	return res
}

// Name returns a textual form of this Expression
func (e *StringFuncExpr) Name() string {
	return fmt.Sprintf("%s(%s%s)", e.name, e.inner.Name(), e.args)
}

// Resolve checks that the operand is a String
func (e *StringFuncExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	if e.err != nil {
		return nil, e.err
	}
	t, err := e.inner.Resolve(schema)
	if err != nil {
		return nil, err
	}
	if err := expectType(e.inner, t, &tabula.StringColumnType{}); err != nil {
		return nil, err
	}
	return e.result, nil
}

// Nullable returns the nullability of the operand
func (e *StringFuncExpr) Nullable(schema tabula.Schema) bool {
	return e.inner.Nullable(schema)
}

// Evaluate applies the function for a Row
func (e *StringFuncExpr) Evaluate(row tabula.Row) (interface{}, error) {
	v, err := e.inner.Evaluate(row)
	if err != nil || v == nil {
		return nil, err
	}
	s, ok := v.(string)
	if !ok {
		return nil, errors.TypeError{Column: e.inner.Name(), Expected: "STRING", Actual: fmt.Sprintf("%T", v)}
	}
	return e.fn(s), nil
}

// ConcatExpr joins the textual forms of several Expressions
type ConcatExpr struct {
	operands  []tabula.Expression
	separator string
	ws        bool
}

// Concat joins the textual forms of several Expressions. If any is nil, the result is nil.
func Concat(operands ...tabula.Expression) *ConcatExpr {
	return &ConcatExpr{operands: operands}
}

// ConcatWs joins the textual forms of several Expressions with a separator, skipping nil values
func ConcatWs(separator string, operands ...tabula.Expression) *ConcatExpr {
	return &ConcatExpr{operands: operands, separator: separator, ws: true}
}

// Name returns a textual form of this Expression
func (e *ConcatExpr) Name() string {
	names := make([]string, len(e.operands))
	for i, o := range e.operands {
		names[i] = o.Name()
	}
	if e.ws {
		return fmt.Sprintf("concat_ws(%s, %s)", e.separator, strings.Join(names, ", "))
	}
	return fmt.Sprintf("concat(%s)", strings.Join(names, ", "))
}

// Resolve resolves every operand
func (e *ConcatExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	if len(e.operands) == 0 {
		return nil, errors.InvalidArgumentError{Argument: "operands", Reason: "at least one operand is required"}
	}
	if _, err := resolveAll(schema, e.operands...); err != nil {
		return nil, err
	}
	return &tabula.StringColumnType{}, nil
}

// Nullable returns true iff any operand is nullable. concat_ws is never nil.
func (e *ConcatExpr) Nullable(schema tabula.Schema) bool {
	return !e.ws && anyNullable(schema, e.operands...)
}

// Evaluate joins the operands for a Row
func (e *ConcatExpr) Evaluate(row tabula.Row) (interface{}, error) {
	parts := make([]string, 0, len(e.operands))
	for _, o := range e.operands {
		v, err := o.Evaluate(row)
		if err != nil {
			return nil, err
		} else if v == nil && e.ws {
			continue
		} else if v == nil {
			return nil, nil
		}
		parts = append(parts, tabula.FormatValue(v))
	}
	return strings.Join(parts, e.separator), nil
}
