package expr

import (
	"fmt"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/internal/cast"
)

// CastExpr converts the value of an Expression to another ColumnType
type CastExpr struct {
	inner tabula.Expression
	to    tabula.ColumnType
}

// Cast converts an Expression to another type. Numeric types convert to and
// from String and each other; String converts to and from Date and Boolean;
// Boolean converts to and from Integer; Arrays convert to String. Other type
// pairs fail with a CastError when resolved, and values which cannot be
// converted (such as "abc" to INT) fail with a CastError naming the Row.
func Cast(e tabula.Expression, to tabula.ColumnType) *CastExpr {
	return &CastExpr{inner: e, to: to}
}

// Name returns a textual form of this Expression
func (e *CastExpr) Name() string {
	return fmt.Sprintf("CAST(%s AS %s)", e.inner.Name(), e.to.Name())
}

// Resolve checks that a conversion is defined between the operand's type and the target type
func (e *CastExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	from, err := e.inner.Resolve(schema)
	if err != nil {
		return nil, err
	}
	if !cast.Defined(from, e.to) && !isNullLiteral(e.inner) {
		return nil, errors.CastError{From: from.Name(), To: e.to.Name(), Row: -1}
	}
	return e.to, nil
}

// Nullable returns the nullability of the operand
func (e *CastExpr) Nullable(schema tabula.Schema) bool {
	return e.inner.Nullable(schema)
}

// Evaluate converts the operand for a Row
func (e *CastExpr) Evaluate(row tabula.Row) (interface{}, error) {
	v, err := e.inner.Evaluate(row)
	if err != nil || v == nil {
		return nil, err
	}
	res, err := cast.Value(v, e.to)
	if err != nil {
		from := "unknown"
		if t, ok := tabula.TypeOf(v); ok {
			from = t.Name()
		}
		return nil, errors.CastError{Value: tabula.FormatValue(v), From: from, To: e.to.Name(), Row: row.Index()}
	}
	return res, nil
}
