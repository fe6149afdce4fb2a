package expr

import (
	"fmt"
	"math"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
)

// ArithmeticOp is a binary arithmetic operator
type ArithmeticOp int

const (
	// OpAdd adds two numbers
	OpAdd ArithmeticOp = iota
	// OpSub subtracts the right number from the left
	OpSub
	// OpMul multiplies two numbers
	OpMul
	// OpDiv divides the left number by the right, always producing a Double
	OpDiv
	// OpMod produces the remainder of dividing the left number by the right
	OpMod
)

func (op ArithmeticOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "%"
	}
}

// ArithmeticExpr applies an ArithmeticOp to two numeric Expressions. Integer
// operands produce an Integer, except for division. Mixed operands produce a
// Double. nil operands, and division by zero, produce nil.
type ArithmeticExpr struct {
	op    ArithmeticOp
	left  tabula.Expression
	right tabula.Expression
}

// Add creates an Expression which adds two numeric Expressions
func Add(left tabula.Expression, right tabula.Expression) *ArithmeticExpr {
	return &ArithmeticExpr{OpAdd, left, right}
}

// Sub creates an Expression which subtracts right from left
func Sub(left tabula.Expression, right tabula.Expression) *ArithmeticExpr {
	return &ArithmeticExpr{OpSub, left, right}
}

// Mul creates an Expression which multiplies two numeric Expressions
func Mul(left tabula.Expression, right tabula.Expression) *ArithmeticExpr {
	return &ArithmeticExpr{OpMul, left, right}
}

// Div creates an Expression which divides left by right
func Div(left tabula.Expression, right tabula.Expression) *ArithmeticExpr {
	return &ArithmeticExpr{OpDiv, left, right}
}

// Mod creates an Expression which produces the remainder of left divided by right
func Mod(left tabula.Expression, right tabula.Expression) *ArithmeticExpr {
	return &ArithmeticExpr{OpMod, left, right}
}

// Name returns a textual form of this Expression
func (e *ArithmeticExpr) Name() string {
	return fmt.Sprintf("(%s %s %s)", e.left.Name(), e.op, e.right.Name())
}

// Resolve checks that both operands are numeric
func (e *ArithmeticExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	types, err := resolveAll(schema, e.left, e.right)
	if err != nil {
		return nil, err
	}
	for i, operand := range []tabula.Expression{e.left, e.right} {
		if !tabula.IsNumeric(types[i]) {
			return nil, errors.TypeError{Column: operand.Name(), Expected: "INT or DOUBLE", Actual: types[i].Name()}
		}
	}
	_, leftInt := types[0].(*tabula.IntegerColumnType)
	_, rightInt := types[1].(*tabula.IntegerColumnType)
	if leftInt && rightInt && e.op != OpDiv {
		return &tabula.IntegerColumnType{}, nil
	}
	return &tabula.DoubleColumnType{}, nil
}

// Nullable returns true iff either operand is nullable, or the operation may divide by zero
func (e *ArithmeticExpr) Nullable(schema tabula.Schema) bool {
	return e.op == OpDiv || e.op == OpMod || anyNullable(schema, e.left, e.right)
}

// Evaluate computes the result of this operation for a Row
func (e *ArithmeticExpr) Evaluate(row tabula.Row) (interface{}, error) {
	l, err := e.left.Evaluate(row)
	if err != nil || l == nil {
		return nil, err
	}
	r, err := e.right.Evaluate(row)
	if err != nil || r == nil {
		return nil, err
	}
	li, leftInt := l.(int64)
	ri, rightInt := r.(int64)
	if leftInt && rightInt && e.op != OpDiv {
		switch e.op {
		case OpAdd:
			return li + ri, nil
		case OpSub:
			return li - ri, nil
		case OpMul:
			return li * ri, nil
		case OpMod:
			if ri == 0 {
				return nil, nil
			}
			return li % ri, nil
		}
	}
	lf, ok := toFloat(l)
	if !ok {
		return nil, errors.TypeError{Column: e.left.Name(), Expected: "INT or DOUBLE", Actual: fmt.Sprintf("%T", l)}
	}
	rf, ok := toFloat(r)
	if !ok {
		return nil, errors.TypeError{Column: e.right.Name(), Expected: "INT or DOUBLE", Actual: fmt.Sprintf("%T", r)}
	}
	switch e.op {
	case OpAdd:
		return lf + rf, nil
	case OpSub:
		return lf - rf, nil
	case OpMul:
		return lf * rf, nil
	case OpDiv:
		if rf == 0 {
			return nil, nil
		}
		return lf / rf, nil
	default:
		if rf == 0 {
			return nil, nil
		}
		return math.Mod(lf, rf), nil
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch tv := v.(type) {
	case int64:
		return float64(tv), true
	case float64:
		return tv, true
	}
	return 0, false
}

// RoundExpr rounds a numeric Expression to a number of decimal places, rounding half away from zero
type RoundExpr struct {
	inner tabula.Expression
	scale int
}

// Round creates an Expression which rounds a numeric Expression to scale decimal places
func Round(e tabula.Expression, scale int) *RoundExpr {
	return &RoundExpr{inner: e, scale: scale}
}

// Name returns a textual form of this Expression
func (e *RoundExpr) Name() string {
	return fmt.Sprintf("round(%s, %d)", e.inner.Name(), e.scale)
}

// Resolve checks that the rounded Expression is numeric, and returns its type
func (e *RoundExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	t, err := e.inner.Resolve(schema)
	if err != nil {
		return nil, err
	}
	if !tabula.IsNumeric(t) {
		return nil, errors.TypeError{Column: e.inner.Name(), Expected: "INT or DOUBLE", Actual: t.Name()}
	}
	return t, nil
}

// Nullable returns the nullability of the rounded Expression
func (e *RoundExpr) Nullable(schema tabula.Schema) bool {
	return e.inner.Nullable(schema)
}

// Evaluate rounds the value of the inner Expression
func (e *RoundExpr) Evaluate(row tabula.Row) (interface{}, error) {
	v, err := e.inner.Evaluate(row)
	if err != nil || v == nil {
		return nil, err
	}
	switch tv := v.(type) {
	case int64:
		if e.scale >= 0 {
			return tv, nil
		}
		return int64(RoundHalfUp(float64(tv), e.scale)), nil
	case float64:
		return RoundHalfUp(tv, e.scale), nil
	}
	return nil, errors.TypeError{Column: e.inner.Name(), Expected: "INT or DOUBLE", Actual: fmt.Sprintf("%T", v)}
}

// RoundHalfUp rounds f to scale decimal places, rounding half away from zero
func RoundHalfUp(f float64, scale int) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	pow := math.Pow(10, float64(scale))
	rounded := math.Round(f*pow) / pow
	if math.IsInf(rounded, 0) || math.IsNaN(rounded) {
		return f
	}
	return rounded
}
