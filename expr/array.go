package expr

import (
	"fmt"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
)

// GetItemExpr retrieves an element of an Array Expression
type GetItemExpr struct {
	inner tabula.Expression
	index int
}

// GetItem retrieves the element at a zero-based index of an Array Expression.
// An index outside the Array produces nil.
func GetItem(e tabula.Expression, index int) *GetItemExpr {
	return &GetItemExpr{inner: e, index: index}
}

// Name returns a textual form of this Expression
func (e *GetItemExpr) Name() string {
	return fmt.Sprintf("%s[%d]", e.inner.Name(), e.index)
}

// Resolve returns the element type of the Array
func (e *GetItemExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	t, err := e.inner.Resolve(schema)
	if err != nil {
		return nil, err
	}
	at, ok := t.(*tabula.ArrayColumnType)
	if !ok {
		return nil, errors.TypeError{Column: e.inner.Name(), Expected: "ARRAY", Actual: t.Name()}
	}
	return at.Elem, nil
}

// Nullable returns true
func (e *GetItemExpr) Nullable(schema tabula.Schema) bool {
	return true
}

// Evaluate retrieves the element for a Row
func (e *GetItemExpr) Evaluate(row tabula.Row) (interface{}, error) {
	v, err := e.inner.Evaluate(row)
	if err != nil || v == nil {
		return nil, err
	}
	arr := v.([]interface{})
	if e.index < 0 || e.index >= len(arr) {
		return nil, nil
	}
	return tabula.CopyValue(arr[e.index]), nil
}

// ArrayContainsExpr tests whether an Array Expression contains a value
type ArrayContainsExpr struct {
	inner tabula.Expression
	value *Literal
}

// ArrayContains tests whether an Array Expression contains a value. The result
// is nil for a nil Array, and for an Array without the value which contains nil.
func ArrayContains(e tabula.Expression, value interface{}) *ArrayContainsExpr {
	return &ArrayContainsExpr{inner: e, value: Lit(value)}
}

// Name returns a textual form of this Expression
func (e *ArrayContainsExpr) Name() string {
	return fmt.Sprintf("array_contains(%s, %s)", e.inner.Name(), e.value.Name())
}

// Resolve checks that the operand is an Array whose elements are comparable with the value
func (e *ArrayContainsExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	t, err := e.inner.Resolve(schema)
	if err != nil {
		return nil, err
	}
	at, ok := t.(*tabula.ArrayColumnType)
	if !ok {
		return nil, errors.TypeError{Column: e.inner.Name(), Expected: "ARRAY", Actual: t.Name()}
	}
	vt, err := e.value.Resolve(schema)
	if err != nil {
		return nil, err
	}
	if e.value.value == nil {
		return nil, errors.InvalidArgumentError{Argument: "value", Reason: "array_contains requires a non-nil value"}
	}
	if !canCompare(at.Elem, vt) {
		return nil, errors.TypeError{Column: e.value.Name(), Expected: at.Elem.Name(), Actual: vt.Name()}
	}
	return &tabula.BooleanColumnType{}, nil
}

// Nullable returns the nullability of the Array
func (e *ArrayContainsExpr) Nullable(schema tabula.Schema) bool {
	return e.inner.Nullable(schema)
}

// Evaluate tests membership for a Row
func (e *ArrayContainsExpr) Evaluate(row tabula.Row) (interface{}, error) {
	v, err := e.inner.Evaluate(row)
	if err != nil || v == nil {
		return nil, err
	}
	sawNil := false
	for _, elem := range v.([]interface{}) {
		if elem == nil {
			sawNil = true
		} else if tabula.ValuesEqual(elem, e.value.value) {
			return true, nil
		}
	}
	if sawNil {
		return nil, nil
	}
	return false, nil
}

// SizeExpr is the number of elements in an Array Expression
type SizeExpr struct {
	inner tabula.Expression
}

// Size returns the number of elements in an Array Expression, as an Integer
func Size(e tabula.Expression) *SizeExpr {
	return &SizeExpr{inner: e}
}

// Name returns a textual form of this Expression
func (e *SizeExpr) Name() string {
	return fmt.Sprintf("size(%s)", e.inner.Name())
}

// Resolve checks that the operand is an Array
func (e *SizeExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	t, err := e.inner.Resolve(schema)
	if err != nil {
		return nil, err
	}
	if !tabula.IsArray(t) {
		return nil, errors.TypeError{Column: e.inner.Name(), Expected: "ARRAY", Actual: t.Name()}
	}
	return &tabula.IntegerColumnType{}, nil
}

// Nullable returns the nullability of the Array
func (e *SizeExpr) Nullable(schema tabula.Schema) bool {
	return e.inner.Nullable(schema)
}

// Evaluate counts elements for a Row
func (e *SizeExpr) Evaluate(row tabula.Row) (interface{}, error) {
	v, err := e.inner.Evaluate(row)
	if err != nil || v == nil {
		return nil, err
	}
	return int64(len(v.([]interface{}))), nil
}
