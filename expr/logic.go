package expr

import (
	"fmt"
	"strings"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
)

// CompareOp is a binary comparison operator
type CompareOp int

const (
	// OpEq tests equality
	OpEq CompareOp = iota
	// OpNe tests inequality
	OpNe
	// OpLt tests whether the left value is less than the right
	OpLt
	// OpLe tests whether the left value is less than or equal to the right
	OpLe
	// OpGt tests whether the left value is greater than the right
	OpGt
	// OpGe tests whether the left value is greater than or equal to the right
	OpGe
)

func (op CompareOp) String() string {
	return [...]string{"=", "!=", "<", "<=", ">", ">="}[op]
}

// CompareExpr compares two Expressions of comparable types, producing a
// Boolean. If either side is nil, the result is nil.
type CompareExpr struct {
	op    CompareOp
	left  tabula.Expression
	right tabula.Expression
}

// Compare creates a comparison between two Expressions
func Compare(op CompareOp, left tabula.Expression, right tabula.Expression) *CompareExpr {
	return &CompareExpr{op, left, right}
}

// Eq tests whether two Expressions are equal
func Eq(left tabula.Expression, right tabula.Expression) *CompareExpr {
	return Compare(OpEq, left, right)
}

// Ne tests whether two Expressions are not equal
func Ne(left tabula.Expression, right tabula.Expression) *CompareExpr {
	return Compare(OpNe, left, right)
}

// Lt tests whether left < right
func Lt(left tabula.Expression, right tabula.Expression) *CompareExpr {
	return Compare(OpLt, left, right)
}

// Le tests whether left <= right
func Le(left tabula.Expression, right tabula.Expression) *CompareExpr {
	return Compare(OpLe, left, right)
}

// Gt tests whether left > right
func Gt(left tabula.Expression, right tabula.Expression) *CompareExpr {
	return Compare(OpGt, left, right)
}

// Ge tests whether left >= right
func Ge(left tabula.Expression, right tabula.Expression) *CompareExpr {
	return Compare(OpGe, left, right)
}

// Name returns a textual form of this Expression
func (e *CompareExpr) Name() string {
	return fmt.Sprintf("(%s %s %s)", e.left.Name(), e.op, e.right.Name())
}

// Resolve checks that both operands have comparable types
func (e *CompareExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	types, err := resolveAll(schema, e.left, e.right)
	if err != nil {
		return nil, err
	}
	if !canCompare(types[0], types[1]) && !isNullLiteral(e.left) && !isNullLiteral(e.right) {
		return nil, errors.TypeError{Column: e.right.Name(), Expected: types[0].Name(), Actual: types[1].Name()}
	}
	return &tabula.BooleanColumnType{}, nil
}

// Nullable returns true iff either operand is nullable
func (e *CompareExpr) Nullable(schema tabula.Schema) bool {
	return anyNullable(schema, e.left, e.right)
}

// Evaluate compares the operands for a Row
func (e *CompareExpr) Evaluate(row tabula.Row) (interface{}, error) {
	l, err := e.left.Evaluate(row)
	if err != nil || l == nil {
		return nil, err
	}
	r, err := e.right.Evaluate(row)
	if err != nil || r == nil {
		return nil, err
	}
	c := tabula.CompareValues(l, r)
	switch e.op {
	case OpEq:
		return c == 0, nil
	case OpNe:
		return c != 0, nil
	case OpLt:
		return c < 0, nil
	case OpLe:
		return c <= 0, nil
	case OpGt:
		return c > 0, nil
	default:
		return c >= 0, nil
	}
}

// canCompare returns true iff values of two types may be compared
func canCompare(a tabula.ColumnType, b tabula.ColumnType) bool {
	if tabula.IsNumeric(a) && tabula.IsNumeric(b) {
		return true
	}
	aa, aIsArray := a.(*tabula.ArrayColumnType)
	ba, bIsArray := b.(*tabula.ArrayColumnType)
	if aIsArray && bIsArray {
		return canCompare(aa.Elem, ba.Elem)
	}
	return tabula.TypesEqual(a, b)
}

type logicOp int

const (
	opAnd logicOp = iota
	opOr
)

// LogicExpr combines Boolean Expressions with SQL three-valued logic
type LogicExpr struct {
	op       logicOp
	operands []tabula.Expression
}

// And is true iff all operands are true, false if any operand is false, and nil otherwise
func And(operands ...tabula.Expression) *LogicExpr {
	return &LogicExpr{opAnd, operands}
}

// Or is true if any operand is true, false iff all operands are false, and nil otherwise
func Or(operands ...tabula.Expression) *LogicExpr {
	return &LogicExpr{opOr, operands}
}

// Name returns a textual form of this Expression
func (e *LogicExpr) Name() string {
	sep := " AND "
	if e.op == opOr {
		sep = " OR "
	}
	names := make([]string, len(e.operands))
	for i, o := range e.operands {
		names[i] = o.Name()
	}
	return "(" + strings.Join(names, sep) + ")"
}

// Resolve checks that every operand is Boolean
func (e *LogicExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	if len(e.operands) == 0 {
		return nil, errors.InvalidArgumentError{Argument: "operands", Reason: "at least one operand is required"}
	}
	types, err := resolveAll(schema, e.operands...)
	if err != nil {
		return nil, err
	}
	for i, t := range types {
		if err := expectType(e.operands[i], t, &tabula.BooleanColumnType{}); err != nil {
			return nil, err
		}
	}
	return &tabula.BooleanColumnType{}, nil
}

// Nullable returns true iff any operand is nullable
func (e *LogicExpr) Nullable(schema tabula.Schema) bool {
	return anyNullable(schema, e.operands...)
}

// Evaluate combines the operands for a Row, short-circuiting where possible
func (e *LogicExpr) Evaluate(row tabula.Row) (interface{}, error) {
	sawNil := false
	decisive := e.op == opOr // true decides an OR, false decides an AND
	for _, o := range e.operands {
		v, err := o.Evaluate(row)
		if err != nil {
			return nil, err
		}
		if v == nil {
			sawNil = true
			continue
		}
		if v.(bool) == decisive {
			return decisive, nil
		}
	}
	if sawNil {
		return nil, nil
	}
	return !decisive, nil
}

// NotExpr negates a Boolean Expression. nil stays nil.
type NotExpr struct {
	inner tabula.Expression
}

// Not negates a Boolean Expression
func Not(e tabula.Expression) *NotExpr {
	return &NotExpr{inner: e}
}

// Name returns a textual form of this Expression
func (e *NotExpr) Name() string {
	return fmt.Sprintf("(NOT %s)", e.inner.Name())
}

// Resolve checks that the operand is Boolean
func (e *NotExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	t, err := e.inner.Resolve(schema)
	if err != nil {
		return nil, err
	}
	if err := expectType(e.inner, t, &tabula.BooleanColumnType{}); err != nil {
		return nil, err
	}
	return t, nil
}

// Nullable returns the nullability of the operand
func (e *NotExpr) Nullable(schema tabula.Schema) bool {
	return e.inner.Nullable(schema)
}

// Evaluate negates the operand for a Row
func (e *NotExpr) Evaluate(row tabula.Row) (interface{}, error) {
	v, err := e.inner.Evaluate(row)
	if err != nil || v == nil {
		return nil, err
	}
	return !v.(bool), nil
}

// IsInExpr tests membership of a value in a list of literals
type IsInExpr struct {
	inner  tabula.Expression
	values []*Literal
}

// IsIn tests whether an Expression's value is one of the given values. If the
// Expression is nil the result is nil; if no value matches and the list
// contains nil, the result is also nil.
func IsIn(e tabula.Expression, values ...interface{}) *IsInExpr {
	lits := make([]*Literal, len(values))
	for i, v := range values {
		lits[i] = Lit(v)
	}
	return &IsInExpr{inner: e, values: lits}
}

// Name returns a textual form of this Expression
func (e *IsInExpr) Name() string {
	names := make([]string, len(e.values))
	for i, v := range e.values {
		names[i] = v.Name()
	}
	return fmt.Sprintf("(%s IN (%s))", e.inner.Name(), strings.Join(names, ", "))
}

// Resolve checks that every listed value is comparable with the Expression
func (e *IsInExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	t, err := e.inner.Resolve(schema)
	if err != nil {
		return nil, err
	}
	for _, v := range e.values {
		vt, err := v.Resolve(schema)
		if err != nil {
			return nil, err
		}
		if v.value != nil && !canCompare(t, vt) {
			return nil, errors.TypeError{Column: v.Name(), Expected: t.Name(), Actual: vt.Name()}
		}
	}
	return &tabula.BooleanColumnType{}, nil
}

// Nullable returns true iff the Expression is nullable or the list contains nil
func (e *IsInExpr) Nullable(schema tabula.Schema) bool {
	if e.inner.Nullable(schema) {
		return true
	}
	for _, v := range e.values {
		if v.value == nil {
			return true
		}
	}
	return false
}

// Evaluate tests membership for a Row
func (e *IsInExpr) Evaluate(row tabula.Row) (interface{}, error) {
	v, err := e.inner.Evaluate(row)
	if err != nil || v == nil {
		return nil, err
	}
	sawNil := false
	for _, lit := range e.values {
		if lit.value == nil {
			sawNil = true
		} else if tabula.ValuesEqual(v, lit.value) {
			return true, nil
		}
	}
	if sawNil {
		return nil, nil
	}
	return false, nil
}

// NullCheckExpr tests whether an Expression is (or is not) nil. It is never nil itself.
type NullCheckExpr struct {
	inner  tabula.Expression
	negate bool
}

// IsNull tests whether an Expression is nil
func IsNull(e tabula.Expression) *NullCheckExpr {
	return &NullCheckExpr{inner: e}
}

// IsNotNull tests whether an Expression is not nil
func IsNotNull(e tabula.Expression) *NullCheckExpr {
	return &NullCheckExpr{inner: e, negate: true}
}

// Name returns a textual form of this Expression
func (e *NullCheckExpr) Name() string {
	if e.negate {
		return fmt.Sprintf("(%s IS NOT NULL)", e.inner.Name())
	}
	return fmt.Sprintf("(%s IS NULL)", e.inner.Name())
}

// Resolve resolves the tested Expression
func (e *NullCheckExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	if _, err := e.inner.Resolve(schema); err != nil {
		return nil, err
	}
	return &tabula.BooleanColumnType{}, nil
}

// Nullable returns false
func (e *NullCheckExpr) Nullable(schema tabula.Schema) bool {
	return false
}

// Evaluate tests the Expression for a Row
func (e *NullCheckExpr) Evaluate(row tabula.Row) (interface{}, error) {
	v, err := e.inner.Evaluate(row)
	if err != nil {
		return nil, err
	}
	return (v == nil) != e.negate, nil
}
