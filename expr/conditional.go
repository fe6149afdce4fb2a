package expr

import (
	"strings"
	"sync/atomic"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
)

// resolution is the result of resolving an Expression against one Schema
type resolution struct {
	schema  tabula.Schema
	colType tabula.ColumnType
	err     error
}

// resolvedType remembers the most recent resolution of an Expression
type resolvedType struct {
	last atomic.Pointer[resolution]
}

func (c *resolvedType) get(schema tabula.Schema, resolve func(tabula.Schema) (tabula.ColumnType, error)) (tabula.ColumnType, error) {
	if r := c.last.Load(); r != nil && r.schema == schema {
		return r.colType, r.err
	}
	colType, err := resolve(schema)
	c.last.Store(&resolution{schema: schema, colType: colType, err: err})
	return colType, err
}

type whenBranch struct {
	predicate tabula.Expression
	value     tabula.Expression
}

// WhenExpr evaluates a series of predicates top-to-bottom, producing the value
// paired with the first one which is true. If none is true, it produces the
// Otherwise value, or nil if there is none.
type WhenExpr struct {
	branches  []whenBranch
	otherwise tabula.Expression
	resolved  resolvedType
}

// When begins a conditional Expression
func When(predicate tabula.Expression, value tabula.Expression) *WhenExpr {
	return &WhenExpr{branches: []whenBranch{{predicate, value}}}
}

// When adds another branch to a conditional Expression, returning a new WhenExpr
func (e *WhenExpr) When(predicate tabula.Expression, value tabula.Expression) *WhenExpr {
	branches := append(append([]whenBranch{}, e.branches...), whenBranch{predicate, value})
	return &WhenExpr{branches: branches, otherwise: e.otherwise}
}

// Otherwise sets the value produced when no predicate is true, returning a new WhenExpr
func (e *WhenExpr) Otherwise(value tabula.Expression) *WhenExpr {
	return &WhenExpr{branches: e.branches, otherwise: value}
}

// Name returns a textual form of this Expression
func (e *WhenExpr) Name() string {
	var b strings.Builder
	b.WriteString("CASE")
	for _, br := range e.branches {
		b.WriteString(" WHEN ")
		b.WriteString(br.predicate.Name())
		b.WriteString(" THEN ")
		b.WriteString(br.value.Name())
	}
	if e.otherwise != nil {
		b.WriteString(" ELSE ")
		b.WriteString(e.otherwise.Name())
	}
	b.WriteString(" END")
	return b.String()
}

func (e *WhenExpr) values() []tabula.Expression {
	res := make([]tabula.Expression, 0, len(e.branches)+1)
	for _, br := range e.branches {
		res = append(res, br.value)
	}
	if e.otherwise != nil {
		res = append(res, e.otherwise)
	}
	return res
}

// Resolve checks that every predicate is Boolean, and that every value has a
// common type. Integer and Double values widen to Double.
func (e *WhenExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	return e.resolved.get(schema, e.resolve)
}

func (e *WhenExpr) resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	for _, br := range e.branches {
		t, err := br.predicate.Resolve(schema)
		if err != nil {
			return nil, err
		}
		if err := expectType(br.predicate, t, &tabula.BooleanColumnType{}); err != nil {
			return nil, err
		}
	}
	var result tabula.ColumnType
	for _, v := range e.values() {
		t, err := v.Resolve(schema)
		if err != nil {
			return nil, err
		}
		if isNullLiteral(v) {
			continue
		}
		if result == nil || tabula.TypesEqual(result, t) {
			result = t
		} else if tabula.IsNumeric(result) && tabula.IsNumeric(t) {
			result = &tabula.DoubleColumnType{}
		} else {
			return nil, errors.TypeError{Column: v.Name(), Expected: result.Name(), Actual: t.Name()}
		}
	}
	if result == nil {
		return &tabula.StringColumnType{}, nil
	}
	return result, nil
}

// Nullable returns true iff there is no Otherwise value, or any value is nullable
func (e *WhenExpr) Nullable(schema tabula.Schema) bool {
	return e.otherwise == nil || anyNullable(schema, e.values()...)
}

// Evaluate selects and evaluates a value for a Row
func (e *WhenExpr) Evaluate(row tabula.Row) (interface{}, error) {
	result, err := e.Resolve(row.Schema())
	if err != nil {
		return nil, err
	}
	for _, br := range e.branches {
		p, err := br.predicate.Evaluate(row)
		if err != nil {
			return nil, err
		}
		if p == true {
			return widen(br.value.Evaluate(row))(result)
		}
	}
	if e.otherwise != nil {
		return widen(e.otherwise.Evaluate(row))(result)
	}
	return nil, nil
}

// widen converts Integer results to Double where the conditional's type is Double
func widen(v interface{}, err error) func(tabula.ColumnType) (interface{}, error) {
	return func(t tabula.ColumnType) (interface{}, error) {
		if err != nil {
			return nil, err
		}
		if i, ok := v.(int64); ok {
			if _, isDouble := t.(*tabula.DoubleColumnType); isDouble {
				return float64(i), nil
			}
		}
		return v, nil
	}
}

// CoalesceExpr produces the first non-nil value among several Expressions
type CoalesceExpr struct {
	operands []tabula.Expression
	resolved resolvedType
}

// Coalesce produces the first non-nil value among several Expressions of a common type
func Coalesce(operands ...tabula.Expression) *CoalesceExpr {
	return &CoalesceExpr{operands: operands}
}

// Name returns a textual form of this Expression
func (e *CoalesceExpr) Name() string {
	names := make([]string, len(e.operands))
	for i, o := range e.operands {
		names[i] = o.Name()
	}
	return "coalesce(" + strings.Join(names, ", ") + ")"
}

// Resolve checks that every operand has a common type
func (e *CoalesceExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	return e.resolved.get(schema, e.resolve)
}

func (e *CoalesceExpr) resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	if len(e.operands) == 0 {
		return nil, errors.InvalidArgumentError{Argument: "operands", Reason: "at least one operand is required"}
	}
	branches := make([]whenBranch, 0, len(e.operands))
	for _, o := range e.operands {
		branches = append(branches, whenBranch{Lit(true), o})
	}
	return (&WhenExpr{branches: branches}).Resolve(schema)
}

// Nullable returns true iff every operand is nullable
func (e *CoalesceExpr) Nullable(schema tabula.Schema) bool {
	for _, o := range e.operands {
		if !o.Nullable(schema) {
			return false
		}
	}
	return true
}

// Evaluate produces the first non-nil operand value for a Row
func (e *CoalesceExpr) Evaluate(row tabula.Row) (interface{}, error) {
	result, err := e.Resolve(row.Schema())
	if err != nil {
		return nil, err
	}
	for _, o := range e.operands {
		v, err := o.Evaluate(row)
		if err != nil {
			return nil, err
		}
		if v != nil {
			return widen(v, nil)(result)
		}
	}
	return nil, nil
}
