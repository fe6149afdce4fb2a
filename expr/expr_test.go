package expr

import (
	"testing"
	"time"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	itable "github.com/go-sif/tabula/internal/table"
	"github.com/go-sif/tabula/schema"
	"github.com/stretchr/testify/require"
)

func createTestRow(t *testing.T, values ...interface{}) tabula.Row {
	s, err := schema.ParseDDL("name STRING, age INT, salary DOUBLE, hired DATE, active BOOLEAN, skills ARRAY<STRING>, note STRING")
	require.Nil(t, err)
	require.Len(t, values, s.NumColumns())
	return itable.CreateRow(7, values, s)
}

func testRow(t *testing.T) tabula.Row {
	return createTestRow(t, "ada lovelace", int64(36), 1200.5, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), true, []interface{}{"math", nil, "poetry"}, nil)
}

func eval(t *testing.T, e tabula.Expression, row tabula.Row) interface{} {
	_, err := e.Resolve(row.Schema())
	require.Nil(t, err)
	v, err := e.Evaluate(row)
	require.Nil(t, err)
	return v
}

func TestColumnRefAndLiteral(t *testing.T) {
	row := testRow(t)
	require.Equal(t, int64(36), eval(t, Col("age"), row))
	require.Equal(t, int64(5), eval(t, Lit(5), row))
	require.Nil(t, eval(t, Lit(nil), row))
	require.Equal(t, "years", Col("age").As("years").Name())

	_, err := Col("missing").Resolve(row.Schema())
	require.True(t, errors.IsColumnNotFound(err))

	_, err = Lit(struct{}{}).Resolve(row.Schema())
	require.True(t, errors.IsInvalidArgument(err))

	colType, err := Null(&tabula.DateColumnType{}).Resolve(row.Schema())
	require.Nil(t, err)
	require.Equal(t, "DATE", colType.Name())
}

func TestArithmetic(t *testing.T) {
	row := testRow(t)
	tests := []struct {
		name     string
		e        tabula.Expression
		expected interface{}
		typeName string
	}{
		{"int add", Add(Col("age"), Lit(4)), int64(40), "INT"},
		{"mixed mul", Mul(Col("age"), Lit(0.5)), 18.0, "DOUBLE"},
		{"int div", Div(Col("age"), Lit(8)), 4.5, "DOUBLE"},
		{"div by zero", Div(Col("age"), Lit(0)), nil, "DOUBLE"},
		{"mod", Mod(Col("age"), Lit(5)), int64(1), "INT"},
		{"mod by zero", Mod(Col("age"), Lit(0)), nil, "INT"},
		{"nil operand", Sub(Col("age"), Null(&tabula.IntegerColumnType{})), nil, "INT"},
		{"round", Round(Col("salary"), 0), 1201.0, "DOUBLE"},
		{"round negative", Round(Lit(-2.5), 0), -3.0, "DOUBLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			colType, err := tt.e.Resolve(row.Schema())
			require.Nil(t, err)
			require.Equal(t, tt.typeName, colType.Name())
			v, err := tt.e.Evaluate(row)
			require.Nil(t, err)
			require.Equal(t, tt.expected, v)
		})
	}
}

func TestArithmeticTypeError(t *testing.T) {
	row := testRow(t)
	_, err := Add(Col("name"), Lit(1)).Resolve(row.Schema())
	require.True(t, errors.IsTypeError(err))
	require.Contains(t, err.Error(), "name")
}

func TestComparisonAndLogic(t *testing.T) {
	row := testRow(t)
	require.Equal(t, true, eval(t, Gt(Col("age"), Lit(30)), row))
	require.Equal(t, true, eval(t, Eq(Col("age"), Lit(36.0)), row))
	require.Equal(t, false, eval(t, Ne(Col("name"), Lit("ada lovelace")), row))
	require.Nil(t, eval(t, Eq(Col("note"), Lit("x")), row))

	// three-valued logic
	unknown := Eq(Col("note"), Lit("x"))
	require.Nil(t, eval(t, And(Lit(true), unknown), row))
	require.Equal(t, false, eval(t, And(Lit(false), unknown), row))
	require.Equal(t, true, eval(t, Or(unknown, Lit(true)), row))
	require.Nil(t, eval(t, Or(unknown, Lit(false)), row))
	require.Nil(t, eval(t, Not(unknown), row))

	_, err := Lt(Col("name"), Col("age")).Resolve(row.Schema())
	require.True(t, errors.IsTypeError(err))
	_, err = And(Col("age")).Resolve(row.Schema())
	require.True(t, errors.IsTypeError(err))
}

func TestIsInAndNullChecks(t *testing.T) {
	row := testRow(t)
	require.Equal(t, true, eval(t, IsIn(Col("age"), 1, 36), row))
	require.Equal(t, false, eval(t, IsIn(Col("age"), 1, 2), row))
	require.Nil(t, eval(t, IsIn(Col("age"), 1, nil), row))
	require.Nil(t, eval(t, IsIn(Col("note"), "a"), row))
	require.Equal(t, true, eval(t, IsNull(Col("note")), row))
	require.Equal(t, false, eval(t, IsNotNull(Col("note")), row))

	_, err := IsIn(Col("age"), "a").Resolve(row.Schema())
	require.True(t, errors.IsTypeError(err))
}

func TestStringFunctions(t *testing.T) {
	row := testRow(t)
	require.Equal(t, "Ada Lovelace", eval(t, Initcap(Col("name")), row))
	require.Equal(t, "ADA LOVELACE", eval(t, Upper(Col("name")), row))
	require.Equal(t, "abc", eval(t, Lower(Trim(Lit("  ABC "))), row))
	require.Equal(t, int64(12), eval(t, Length(Col("name")), row))
	require.Equal(t, "ada", eval(t, Substring(Col("name"), 1, 3), row))
	require.Equal(t, "lace", eval(t, Substring(Col("name"), -4, 10), row))
	require.Equal(t, "ada_lovelace", eval(t, RegexpReplace(Col("name"), `\s+`, "_"), row))
	require.Equal(t, []interface{}{"ada", "lovelace"}, eval(t, Split(Col("name"), " "), row))
	require.Equal(t, "ada lovelace-36", eval(t, ConcatWs("-", Col("name"), Col("note"), Col("age")), row))
	require.Nil(t, eval(t, Concat(Col("name"), Col("note")), row))
	require.Nil(t, eval(t, Upper(Col("note")), row))
	require.Equal(t, "initcap(name)", Initcap(Col("name")).Name())

	_, err := RegexpReplace(Col("name"), "(", "").Resolve(row.Schema())
	require.True(t, errors.IsInvalidArgument(err))
	_, err = Split(Col("name"), "").Resolve(row.Schema())
	require.True(t, errors.IsInvalidArgument(err))
	_, err = Upper(Col("age")).Resolve(row.Schema())
	require.True(t, errors.IsTypeError(err))
}

func TestDateFunctions(t *testing.T) {
	row := testRow(t)
	require.Equal(t, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), eval(t, DateAdd(Col("hired"), 2), row))
	require.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), eval(t, DateSub(Col("hired"), 31), row))
	require.Equal(t, int64(30), eval(t, DateDiff(Col("hired"), Lit("2024-01-01")), row))
	require.Equal(t, "31-01-2024", eval(t, DateFormat(Col("hired"), "dd-MM-yyyy"), row))
	require.Equal(t, time.Date(2022, 3, 4, 0, 0, 0, 0, time.UTC), eval(t, ToDate(Lit("04/03/2022"), "dd/MM/yyyy"), row))
	require.Nil(t, eval(t, ToDate(Lit("not a date"), "dd/MM/yyyy"), row))
	require.Equal(t, int64(2024), eval(t, Year(Col("hired")), row))
	require.Equal(t, int64(1), eval(t, Month(Col("hired")), row))
	require.Equal(t, int64(31), eval(t, DayOfMonth(Col("hired")), row))

	today := eval(t, CurrentDate(), row).(time.Time)
	require.Equal(t, tabula.ToDate(today), today)

	_, err := Year(Col("age")).Resolve(row.Schema())
	require.True(t, errors.IsTypeError(err))
}

func TestCast(t *testing.T) {
	row := testRow(t)
	require.Equal(t, "36", eval(t, Cast(Col("age"), &tabula.StringColumnType{}), row))
	require.Equal(t, int64(1200), eval(t, Cast(Col("salary"), &tabula.IntegerColumnType{}), row))
	require.Equal(t, int64(42), eval(t, Cast(Lit("42"), &tabula.IntegerColumnType{}), row))
	require.Equal(t, "[math, null, poetry]", eval(t, Cast(Col("skills"), &tabula.StringColumnType{}), row))

	// undefined type pair fails before evaluation
	_, err := Cast(Col("hired"), &tabula.IntegerColumnType{}).Resolve(row.Schema())
	require.True(t, errors.IsCastError(err))

	// unparseable value fails naming the row
	e := Cast(Col("name"), &tabula.IntegerColumnType{})
	_, err = e.Resolve(row.Schema())
	require.Nil(t, err)
	_, err = e.Evaluate(row)
	require.True(t, errors.IsCastError(err))
	require.Contains(t, err.Error(), "7")
}

func TestWhen(t *testing.T) {
	row := testRow(t)
	level := When(Lt(Col("age"), Lit(30)), Lit("junior")).
		When(Lt(Col("age"), Lit(40)), Lit("mid")).
		Otherwise(Lit("senior"))
	require.Equal(t, "mid", eval(t, level, row))

	noMatch := When(Lt(Col("age"), Lit(30)), Lit("junior"))
	require.Nil(t, eval(t, noMatch, row))
	require.True(t, noMatch.Nullable(row.Schema()))

	widened := When(Col("active"), Lit(1)).Otherwise(Lit(2.5))
	colType, err := widened.Resolve(row.Schema())
	require.Nil(t, err)
	require.Equal(t, "DOUBLE", colType.Name())
	require.Equal(t, 1.0, eval(t, widened, row))

	_, err = When(Col("active"), Lit(1)).Otherwise(Lit("x")).Resolve(row.Schema())
	require.True(t, errors.IsTypeError(err))
	_, err = When(Col("age"), Lit(1)).Resolve(row.Schema())
	require.True(t, errors.IsTypeError(err))

	require.Equal(t, "none", eval(t, Coalesce(Col("note"), Lit("none")), row))
}

// countingExpr counts how often an Expression is resolved
type countingExpr struct {
	tabula.Expression
	resolves int
}

func (e *countingExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	e.resolves++
	return e.Expression.Resolve(schema)
}

func TestConditionalsResolveOncePerSchema(t *testing.T) {
	row := testRow(t)
	value := &countingExpr{Expression: Col("salary")}
	level := When(Lt(Col("age"), Lit(30)), Lit(0)).
		When(Lt(Col("age"), Lit(40)), value).
		Otherwise(Lit(1))
	fallback := &countingExpr{Expression: Col("note")}
	note := Coalesce(fallback, Lit("none"))
	for i := 0; i < 100; i++ {
		require.Equal(t, 1200.5, eval(t, level, row))
		require.Equal(t, "none", eval(t, note, row))
	}
	require.Equal(t, 1, value.resolves)
	require.Equal(t, 1, fallback.resolves)

	other := createTestRow(t, "b", int64(20), nil, nil, nil, nil, "x")
	require.Equal(t, 0.0, eval(t, level, other))
	require.Equal(t, "x", eval(t, note, other))
	require.Equal(t, 2, value.resolves)
	require.Equal(t, 2, fallback.resolves)
}

func TestArrayFunctions(t *testing.T) {
	row := testRow(t)
	require.Equal(t, "poetry", eval(t, GetItem(Col("skills"), 2), row))
	require.Nil(t, eval(t, GetItem(Col("skills"), 3), row))
	require.Equal(t, true, eval(t, ArrayContains(Col("skills"), "math"), row))
	require.Nil(t, eval(t, ArrayContains(Col("skills"), "art"), row))
	require.Equal(t, int64(3), eval(t, Size(Col("skills")), row))

	_, err := GetItem(Col("name"), 0).Resolve(row.Schema())
	require.True(t, errors.IsTypeError(err))
	_, err = ArrayContains(Col("skills"), 1).Resolve(row.Schema())
	require.True(t, errors.IsTypeError(err))
}
