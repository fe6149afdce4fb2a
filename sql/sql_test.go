package sql

import (
	"testing"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/catalog"
	"github.com/go-sif/tabula/errors"
	ttest "github.com/go-sif/tabula/testing"
	"github.com/stretchr/testify/require"
)

func createCatalog(t *testing.T) *catalog.Catalog {
	employees := ttest.CreateTable(t, "name STRING, dept STRING, salary DOUBLE, hired DATE, manager STRING",
		[]interface{}{"Alice", "eng", 120.0, "2020-01-15", "Carol"},
		[]interface{}{"Bob", "eng", 95.5, "2021-06-01", nil},
		[]interface{}{"Carol", "sales", 150.0, "2018-03-10", nil},
		[]interface{}{"Dan", "sales", 80.0, "2022-11-20", "Carol"},
		[]interface{}{"eve", "hr", nil, "2023-02-01", "Carol"},
	)
	cat := catalog.New()
	require.Nil(t, cat.RegisterView(employees, "employees"))
	return cat
}

func runQuery(t *testing.T, query string) tabula.Table {
	res, err := Execute(createCatalog(t), query)
	require.Nil(t, err)
	return res
}

func TestExecuteMatchesCompiledQuery(t *testing.T) {
	cat := createCatalog(t)
	text := "SELECT name, salary * 2 AS double_salary FROM employees WHERE dept = 'eng' ORDER BY name DESC LIMIT 1"
	q, err := Parse(text)
	require.Nil(t, err)
	require.IsType(t, &Query{}, q)
	view, err := cat.View(q.From)
	require.Nil(t, err)
	ops, err := q.Compile(view.Schema())
	require.Nil(t, err)
	compiled, err := view.To(ops...)
	require.Nil(t, err)

	res, err := Execute(cat, text)
	require.Nil(t, err)
	ttest.RequireEqual(t, compiled, res)
	ttest.RequireRows(t, [][]interface{}{{"Bob", 191.0}}, res)
}

func TestSelectWhereOrderBy(t *testing.T) {
	res := runQuery(t, "SELECT name, salary * 2 AS double_pay FROM employees WHERE dept = 'eng' ORDER BY salary DESC")
	require.Equal(t, []string{"name", "double_pay"}, res.Schema().ColumnNames())
	ttest.RequireRows(t, [][]interface{}{
		{"Alice", 240.0},
		{"Bob", 191.0},
	}, res)
}

func TestOrderByAlias(t *testing.T) {
	res := runQuery(t, "select upper(name) n from employees where hired >= '2021-01-01' and salary is not null order by n")
	require.Equal(t, []string{"n"}, res.Schema().ColumnNames())
	ttest.RequireRows(t, [][]interface{}{{"BOB"}, {"DAN"}}, res)
}

func TestDistinctLimit(t *testing.T) {
	res := runQuery(t, "SELECT DISTINCT dept FROM employees ORDER BY dept LIMIT 2")
	ttest.RequireRows(t, [][]interface{}{{"eng"}, {"hr"}}, res)
}

func TestSelectStar(t *testing.T) {
	res := runQuery(t, "SELECT * FROM employees WHERE manager IS NULL")
	require.Equal(t, []string{"name", "dept", "salary", "hired", "manager"}, res.Schema().ColumnNames())
	require.Equal(t, 2, res.NumRows())
}

func TestInAndNot(t *testing.T) {
	res := runQuery(t, "SELECT name FROM employees WHERE dept NOT IN ('eng', 'hr') AND NOT (salary < 100)")
	ttest.RequireRows(t, [][]interface{}{{"Carol"}}, res)
}

func TestFunctions(t *testing.T) {
	res := runQuery(t, "SELECT name, coalesce(manager, 'none') AS boss, round(salary / 3, 1) AS third FROM employees ORDER BY name LIMIT 2")
	ttest.RequireRows(t, [][]interface{}{
		{"Alice", "Carol", 40.0},
		{"Bob", "none", 31.8},
	}, res)
}

func TestComparisonWithNull(t *testing.T) {
	res := runQuery(t, "SELECT name FROM employees WHERE manager = NULL")
	require.Equal(t, 0, res.NumRows())
}

func TestQueryErrors(t *testing.T) {
	cat := createCatalog(t)
	tests := []struct {
		name  string
		query string
		check func(error) bool
	}{
		{"missing projection", "SELECT FROM employees", errors.IsInvalidArgument},
		{"missing limit", "SELECT name FROM employees LIMIT", errors.IsInvalidArgument},
		{"trailing tokens", "SELECT name FROM employees name", errors.IsInvalidArgument},
		{"unterminated string", "SELECT name FROM employees WHERE name = 'abc", errors.IsInvalidArgument},
		{"unknown function", "SELECT foo(name) FROM employees", errors.IsInvalidArgument},
		{"bad round scale", "SELECT round(salary, 'x') FROM employees", errors.IsInvalidArgument},
		{"unknown view", "SELECT name FROM nope", errors.IsSourceNotFound},
		{"unknown column", "SELECT missing FROM employees", errors.IsColumnNotFound},
		{"bad operands", "SELECT name FROM employees WHERE salary + 'x' > 1", errors.IsTypeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Execute(cat, tt.query)
			require.NotNil(t, err)
			require.True(t, tt.check(err), err.Error())
		})
	}
}

func TestParse(t *testing.T) {
	q, err := Parse("select a, b as c, * from t where a > -1.5 order by b desc, a limit 5")
	require.Nil(t, err)
	require.Equal(t, "t", q.From)
	require.Len(t, q.Items, 3)
	require.Equal(t, &ColumnNode{Name: "a"}, q.Items[0].Expr)
	require.Equal(t, "c", q.Items[1].Alias)
	require.True(t, q.Items[2].Star)
	require.Equal(t, &BinaryNode{
		Op:    TokenGreater,
		Left:  &ColumnNode{Name: "a"},
		Right: &LiteralNode{Value: -1.5},
	}, q.Where)
	require.Equal(t, []OrderItem{{Column: "b", Desc: true}, {Column: "a"}}, q.OrderBy)
	require.Equal(t, 5, q.Limit)
}

func TestParsePrecedence(t *testing.T) {
	q, err := Parse("SELECT x FROM t WHERE a = 1 OR b = 2 AND NOT c IS NULL")
	require.Nil(t, err)
	or, ok := q.Where.(*BinaryNode)
	require.True(t, ok)
	require.Equal(t, TokenOr, or.Op)
	and, ok := or.Right.(*BinaryNode)
	require.True(t, ok)
	require.Equal(t, TokenAnd, and.Op)
	require.Equal(t, &NotNode{Operand: &IsNullNode{Operand: &ColumnNode{Name: "c"}}}, and.Right)

	q, err = Parse("SELECT 1 + 2 * 3 FROM t")
	require.Nil(t, err)
	require.Equal(t, &BinaryNode{
		Op:   TokenPlus,
		Left: &LiteralNode{Value: int64(1)},
		Right: &BinaryNode{
			Op:    TokenStar,
			Left:  &LiteralNode{Value: int64(2)},
			Right: &LiteralNode{Value: int64(3)},
		},
	}, q.Items[0].Expr)
	require.Equal(t, -1, q.Limit)
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("a <> 'it''s' AND `odd name` >= 1e3")
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	require.Equal(t, []TokenType{
		TokenIdent, TokenNotEqual, TokenString, TokenAnd, TokenIdent, TokenGreaterEqual, TokenNumber, TokenEOF,
	}, types)
	require.Equal(t, "it's", tokens[2].Value)
	require.Equal(t, "odd name", tokens[4].Value)
	require.Equal(t, "1e3", tokens[6].Value)
}
