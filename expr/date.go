package expr

import (
	"fmt"
	"time"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/internal/cast"
)

// CurrentDateExpr is the date on which it was created. It is constant for
// the lifetime of the Expression, so every Row observes the same date.
type CurrentDateExpr struct {
	date time.Time
}

// CurrentDate creates an Expression whose value is today's date, in UTC
func CurrentDate() *CurrentDateExpr {
	return &CurrentDateExpr{date: tabula.ToDate(time.Now().UTC())}
}

// Name returns current_date()
func (e *CurrentDateExpr) Name() string {
	return "current_date()"
}

// Resolve returns the Date type
func (e *CurrentDateExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	return &tabula.DateColumnType{}, nil
}

// Nullable returns false
func (e *CurrentDateExpr) Nullable(schema tabula.Schema) bool {
	return false
}

// Evaluate returns the date
func (e *CurrentDateExpr) Evaluate(row tabula.Row) (interface{}, error) {
	return e.date, nil
}

// DateFuncExpr applies a function to the value of a Date Expression. String
// operands are accepted and parsed as dates in the yyyy-MM-dd format, yielding
// nil when they cannot be parsed.
type DateFuncExpr struct {
	name   string
	args   string
	inner  tabula.Expression
	result tabula.ColumnType
	fn     func(d time.Time) interface{}
}

// DateAdd adds a number of days to a Date Expression
func DateAdd(e tabula.Expression, days int) *DateFuncExpr {
	return &DateFuncExpr{"date_add", fmt.Sprintf(", %d", days), e, &tabula.DateColumnType{}, func(d time.Time) interface{} {
		return d.AddDate(0, 0, days)
	}}
}

// DateSub subtracts a number of days from a Date Expression
func DateSub(e tabula.Expression, days int) *DateFuncExpr {
	return &DateFuncExpr{"date_sub", fmt.Sprintf(", %d", days), e, &tabula.DateColumnType{}, func(d time.Time) interface{} {
		return d.AddDate(0, 0, -days)
	}}
}

// DateFormat renders a Date Expression as a String, using a pattern such as
// dd-MM-yyyy. Go layouts are also accepted.
func DateFormat(e tabula.Expression, pattern string) *DateFuncExpr {
	layout := cast.JavaLayout(pattern)
	return &DateFuncExpr{"date_format", ", " + pattern, e, &tabula.StringColumnType{}, func(d time.Time) interface{} {
		return d.Format(layout)
	}}
}

// Year extracts the year of a Date Expression
func Year(e tabula.Expression) *DateFuncExpr {
	return &DateFuncExpr{"year", "", e, &tabula.IntegerColumnType{}, func(d time.Time) interface{} {
		return int64(d.Year())
	}}
}

// Month extracts the month (1-12) of a Date Expression
func Month(e tabula.Expression) *DateFuncExpr {
	return &DateFuncExpr{"month", "", e, &tabula.IntegerColumnType{}, func(d time.Time) interface{} {
		return int64(d.Month())
	}}
}

// DayOfMonth extracts the day of the month of a Date Expression
func DayOfMonth(e tabula.Expression) *DateFuncExpr {
	return &DateFuncExpr{"dayofmonth", "", e, &tabula.IntegerColumnType{}, func(d time.Time) interface{} {
		return int64(d.Day())
	}}
}

// Name returns a textual form of this Expression
func (e *DateFuncExpr) Name() string {
	return fmt.Sprintf("%s(%s%s)", e.name, e.inner.Name(), e.args)
}

// Resolve checks that the operand is a Date or a String
func (e *DateFuncExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	t, err := e.inner.Resolve(schema)
	if err != nil {
		return nil, err
	}
	if err := expectDateLike(e.inner, t); err != nil {
		return nil, err
	}
	return e.result, nil
}

// Nullable returns true, since String operands may not parse as dates
func (e *DateFuncExpr) Nullable(schema tabula.Schema) bool {
	return true
}

// Evaluate applies the function for a Row
func (e *DateFuncExpr) Evaluate(row tabula.Row) (interface{}, error) {
	d, ok, err := evaluateDate(e.inner, row)
	if err != nil || !ok {
		return nil, err
	}
	return e.fn(d), nil
}

// DateDiffExpr computes the number of days from one date to another
type DateDiffExpr struct {
	end   tabula.Expression
	start tabula.Expression
}

// DateDiff returns the number of days from start to end, as an Integer
func DateDiff(end tabula.Expression, start tabula.Expression) *DateDiffExpr {
	return &DateDiffExpr{end: end, start: start}
}

// Name returns a textual form of this Expression
func (e *DateDiffExpr) Name() string {
	return fmt.Sprintf("datediff(%s, %s)", e.end.Name(), e.start.Name())
}

// Resolve checks that both operands are Dates or Strings
func (e *DateDiffExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	types, err := resolveAll(schema, e.end, e.start)
	if err != nil {
		return nil, err
	}
	for i, operand := range []tabula.Expression{e.end, e.start} {
		if err := expectDateLike(operand, types[i]); err != nil {
			return nil, err
		}
	}
	return &tabula.IntegerColumnType{}, nil
}

// Nullable returns true
func (e *DateDiffExpr) Nullable(schema tabula.Schema) bool {
	return true
}

// Evaluate computes the difference for a Row
func (e *DateDiffExpr) Evaluate(row tabula.Row) (interface{}, error) {
	end, ok, err := evaluateDate(e.end, row)
	if err != nil || !ok {
		return nil, err
	}
	start, ok, err := evaluateDate(e.start, row)
	if err != nil || !ok {
		return nil, err
	}
	return int64(end.Sub(start).Hours() / 24), nil
}

// ToDateExpr parses a String Expression as a Date
type ToDateExpr struct {
	inner   tabula.Expression
	pattern string
	layout  string
}

// ToDate parses a String Expression as a Date using a pattern such as
// dd-MM-yyyy. Values which do not match the pattern become nil.
func ToDate(e tabula.Expression, pattern string) *ToDateExpr {
	return &ToDateExpr{inner: e, pattern: pattern, layout: cast.JavaLayout(pattern)}
}

// Name returns a textual form of this Expression
func (e *ToDateExpr) Name() string {
	return fmt.Sprintf("to_date(%s, %s)", e.inner.Name(), e.pattern)
}

// Resolve checks that the operand is a String
func (e *ToDateExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	t, err := e.inner.Resolve(schema)
	if err != nil {
		return nil, err
	}
	if err := expectType(e.inner, t, &tabula.StringColumnType{}); err != nil {
		return nil, err
	}
	return &tabula.DateColumnType{}, nil
}

// Nullable returns true
func (e *ToDateExpr) Nullable(schema tabula.Schema) bool {
	return true
}

// Evaluate parses the operand for a Row
func (e *ToDateExpr) Evaluate(row tabula.Row) (interface{}, error) {
	v, err := e.inner.Evaluate(row)
	if err != nil || v == nil {
		return nil, err
	}
	d, err := cast.ParseDate(v.(string), e.layout)
	if err != nil {
		return nil, nil
	}
	return d, nil
}

func expectDateLike(e tabula.Expression, t tabula.ColumnType) error {
	switch t.(type) {
	case *tabula.DateColumnType, *tabula.StringColumnType:
		return nil
	}
	return errors.TypeError{Column: e.Name(), Expected: "DATE", Actual: t.Name()}
}

func evaluateDate(e tabula.Expression, row tabula.Row) (time.Time, bool, error) {
	v, err := e.Evaluate(row)
	if err != nil || v == nil {
		return time.Time{}, false, err
	}
	switch tv := v.(type) {
	case time.Time:
		return tv, true, nil
	case string:
		d, err := cast.ParseDate(tv, tabula.DateFormat)
		if err != nil {
			return time.Time{}, false, nil
		}
		return d, true, nil
	}
	return time.Time{}, false, errors.TypeError{Column: e.Name(), Expected: "DATE", Actual: fmt.Sprintf("%T", v)}
}
