package transform

import (
	"testing"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/expr"
	ttest "github.com/go-sif/tabula/testing"
	"github.com/stretchr/testify/require"
)

func createJoinTables(t *testing.T) (tabula.Table, tabula.Table) {
	employees := ttest.CreateTable(t, "id INT, name STRING, dept_id STRING",
		[]interface{}{1, "ana", "d01"},
		[]interface{}{2, "bo", "d02"},
		[]interface{}{3, "cy", nil},
	)
	departments := ttest.CreateTable(t, "dept_id STRING, dept_name STRING",
		[]interface{}{"d01", "HR"},
		[]interface{}{"d03", "Ops"},
		[]interface{}{nil, "Nobody"},
	)
	return employees, departments
}

func TestJoinScenario(t *testing.T) {
	left := ttest.CreateTable(t, "id STRING, dept_id STRING", []interface{}{"1", "d01"})
	right := ttest.CreateTable(t, "dept_id STRING, dept_name STRING", []interface{}{"d01", "HR"})
	res, err := left.To(Join(right, Using("dept_id"), JoinInner))
	require.Nil(t, err)
	require.Equal(t, []string{"id", "dept_id", "dept_name"}, res.Schema().ColumnNames())
	ttest.RequireRows(t, [][]interface{}{{"1", "d01", "HR"}}, res)

	res, err = left.To(Join(right, Using("dept_id"), JoinAnti))
	require.Nil(t, err)
	require.Equal(t, 0, res.NumRows())
}

func TestJoinTypes(t *testing.T) {
	employees, departments := createJoinTables(t)
	tests := []struct {
		how      JoinType
		expected [][]interface{}
	}{
		{JoinInner, [][]interface{}{{1, "ana", "d01", "HR"}}},
		{JoinLeft, [][]interface{}{
			{1, "ana", "d01", "HR"},
			{2, "bo", "d02", nil},
			{3, "cy", nil, nil},
		}},
		{JoinRight, [][]interface{}{
			{1, "ana", "d01", "HR"},
			{nil, nil, "d03", "Ops"},
			{nil, nil, nil, "Nobody"},
		}},
		{JoinFull, [][]interface{}{
			{1, "ana", "d01", "HR"},
			{2, "bo", "d02", nil},
			{3, "cy", nil, nil},
			{nil, nil, "d03", "Ops"},
			{nil, nil, nil, "Nobody"},
		}},
		{JoinSemi, [][]interface{}{{1, "ana", "d01"}}},
		{JoinAnti, [][]interface{}{{2, "bo", "d02"}, {3, "cy", nil}}},
	}
	for _, tt := range tests {
		t.Run(tt.how.String(), func(t *testing.T) {
			res, err := employees.To(Join(departments, Using("dept_id"), tt.how))
			require.Nil(t, err)
			ttest.RequireRows(t, tt.expected, res)
		})
	}
}

func TestJoinNullability(t *testing.T) {
	employees, departments := createJoinTables(t)
	employees, err := employees.To(DropNA(DropAny))
	require.Nil(t, err)
	strict, err := employees.Schema().ReplaceColumn("id", &tabula.IntegerColumnType{}, false)
	require.Nil(t, err)
	employees = ttest.CreateTable(t, strict.ToDDL(), employees.Rows()...)

	res, err := employees.To(Join(departments, Using("dept_id"), JoinLeft))
	require.Nil(t, err)
	col, err := res.Schema().GetOffset("id")
	require.Nil(t, err)
	require.False(t, col.Nullable())

	res, err = employees.To(Join(departments, Using("dept_id"), JoinRight))
	require.Nil(t, err)
	col, err = res.Schema().GetOffset("id")
	require.Nil(t, err)
	require.True(t, col.Nullable())
}

func TestJoinOnRetainsBothColumns(t *testing.T) {
	employees, departments := createJoinTables(t)
	res, err := employees.To(Join(departments, On("dept_id", "dept_id"), JoinInner))
	require.Nil(t, err)
	require.Equal(t, []string{"id", "name", "dept_id", "dept_id_right", "dept_name"}, res.Schema().ColumnNames())
	ttest.RequireRows(t, [][]interface{}{{1, "ana", "d01", "d01", "HR"}}, res)

	byExpr, err := employees.To(Join(departments, OnExpr(expr.Eq(expr.Col("dept_id"), expr.Col("dept_id_right"))), JoinInner))
	require.Nil(t, err)
	ttest.RequireEqual(t, res, byExpr)

	res, err = employees.To(Join(departments, OnExpr(expr.Ne(expr.Col("dept_id"), expr.Col("dept_id_right"))), JoinLeft))
	require.Nil(t, err)
	ttest.RequireRows(t, [][]interface{}{
		{1, "ana", "d01", "d03", "Ops"},
		{2, "bo", "d02", "d01", "HR"},
		{2, "bo", "d02", "d03", "Ops"},
		{3, "cy", nil, nil, nil},
	}, res)
}

func TestJoinErrors(t *testing.T) {
	employees, departments := createJoinTables(t)
	_, err := employees.To(Join(departments, Using("name"), JoinInner))
	require.True(t, errors.IsColumnNotFound(err))
	_, err = employees.To(Join(departments, On("id", "dept_id"), JoinInner))
	require.True(t, errors.IsTypeError(err))
	_, err = employees.To(Join(departments, Using(), JoinInner))
	require.True(t, errors.IsInvalidArgument(err))
	_, err = employees.To(Join(departments, OnExpr(expr.Col("dept_name")), JoinInner))
	require.True(t, errors.IsTypeError(err))
}

func TestParseJoinType(t *testing.T) {
	for name, expected := range map[string]JoinType{
		"inner":      JoinInner,
		"left_outer": JoinLeft,
		"RIGHT":      JoinRight,
		"outer":      JoinFull,
		"full_outer": JoinFull,
		"leftsemi":   JoinSemi,
		"left_anti":  JoinAnti,
	} {
		how, err := ParseJoinType(name)
		require.Nil(t, err)
		require.Equal(t, expected, how, name)
	}
	_, err := ParseJoinType("sideways")
	require.True(t, errors.IsInvalidArgument(err))
	_, err = ParseJoinType("CROSS")
	require.True(t, errors.IsInvalidArgument(err))
}
