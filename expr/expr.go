// Package expr provides typed column expressions: column references, literals,
// arithmetic, comparison and boolean logic, string and date functions, casts and
// conditionals. Expressions are resolved against a Schema before evaluation, so
// that ColumnNotFound and TypeError problems surface before any Row is touched.
package expr

import (
	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
)

// ColumnRef is a reference to a named column
type ColumnRef struct {
	name string
}

// Col creates a reference to the column with the given name
func Col(name string) *ColumnRef {
	return &ColumnRef{name: name}
}

// Name returns the name of the referenced column
func (e *ColumnRef) Name() string {
	return e.name
}

// Resolve returns the type of the referenced column
func (e *ColumnRef) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	col, err := schema.GetOffset(e.name)
	if err != nil {
		return nil, err
	}
	return col.Type(), nil
}

// Nullable returns the nullability of the referenced column
func (e *ColumnRef) Nullable(schema tabula.Schema) bool {
	col, err := schema.GetOffset(e.name)
	if err != nil {
		return true
	}
	return col.Nullable()
}

// Evaluate returns the value of the referenced column
func (e *ColumnRef) Evaluate(row tabula.Row) (interface{}, error) {
	return row.Get(e.name)
}

// As renames the referenced column in the output of a projection
func (e *ColumnRef) As(alias string) tabula.Expression {
	return Alias(e, alias)
}

// Literal is a constant value
type Literal struct {
	value   interface{}
	colType tabula.ColumnType
	err     error
}

// Lit creates a literal from a Go value, which is normalized to its canonical
// representation. The literal nil takes on the String type; use Null to create
// a typed nil.
func Lit(v interface{}) *Literal {
	nv, ok := tabula.NormalizeValue(v)
	if !ok {
		return &Literal{err: errors.InvalidArgumentError{Argument: "literal", Reason: "unsupported literal value"}}
	}
	if nv == nil {
		return &Literal{colType: &tabula.StringColumnType{}}
	}
	colType, ok := tabula.TypeOf(nv)
	if !ok {
		return &Literal{err: errors.InvalidArgumentError{Argument: "literal", Reason: "unsupported literal value"}}
	}
	return &Literal{value: nv, colType: colType}
}

// Null creates a nil literal of a specific type
func Null(colType tabula.ColumnType) *Literal {
	return &Literal{colType: colType}
}

// Value returns the constant value of this Literal
func (e *Literal) Value() interface{} {
	return e.value
}

// Name returns the textual form of the literal
func (e *Literal) Name() string {
	return tabula.FormatValue(e.value)
}

// Resolve returns the type of the literal
func (e *Literal) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.colType, nil
}

// Nullable returns true iff the literal is nil
func (e *Literal) Nullable(schema tabula.Schema) bool {
	return e.value == nil
}

// Evaluate returns the literal value
func (e *Literal) Evaluate(row tabula.Row) (interface{}, error) {
	return tabula.CopyValue(e.value), nil
}

func isNullLiteral(e tabula.Expression) bool {
	lit, ok := e.(*Literal)
	return ok && lit.err == nil && lit.value == nil
}

// AliasExpr renames the output of another Expression
type AliasExpr struct {
	inner tabula.Expression
	alias string
}

// Alias gives an Expression a new output name
func Alias(e tabula.Expression, alias string) *AliasExpr {
	return &AliasExpr{inner: e, alias: alias}
}

// Name returns the alias
func (e *AliasExpr) Name() string {
	return e.alias
}

// Resolve resolves the aliased Expression
func (e *AliasExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	if len(e.alias) == 0 {
		return nil, errors.InvalidArgumentError{Argument: "alias", Reason: "aliases must not be empty"}
	}
	return e.inner.Resolve(schema)
}

// Nullable returns the nullability of the aliased Expression
func (e *AliasExpr) Nullable(schema tabula.Schema) bool {
	return e.inner.Nullable(schema)
}

// Evaluate evaluates the aliased Expression
func (e *AliasExpr) Evaluate(row tabula.Row) (interface{}, error) {
	return e.inner.Evaluate(row)
}

// StarExpr stands for every column of a Schema, in order. It is only
// meaningful within a projection, which expands it.
type StarExpr struct{}

// All creates an Expression which a projection expands to every column
func All() *StarExpr {
	return &StarExpr{}
}

// Name returns *
func (e *StarExpr) Name() string {
	return "*"
}

// Resolve fails, since * has no single type
func (e *StarExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	return nil, errors.InvalidArgumentError{Argument: "*", Reason: "* may only be used as a projection"}
}

// Nullable returns true
func (e *StarExpr) Nullable(schema tabula.Schema) bool {
	return true
}

// Evaluate fails, since * has no single value
func (e *StarExpr) Evaluate(row tabula.Row) (interface{}, error) {
	return nil, errors.InvalidArgumentError{Argument: "*", Reason: "* may only be used as a projection"}
}

// Cols is a convenience which creates a ColumnRef for each name
func Cols(names ...string) []tabula.Expression {
	res := make([]tabula.Expression, len(names))
	for i, n := range names {
		res[i] = Col(n)
	}
	return res
}

// resolveAll resolves several Expressions, failing on the first error
func resolveAll(schema tabula.Schema, exprs ...tabula.Expression) ([]tabula.ColumnType, error) {
	res := make([]tabula.ColumnType, len(exprs))
	for i, e := range exprs {
		t, err := e.Resolve(schema)
		if err != nil {
			return nil, err
		}
		res[i] = t
	}
	return res, nil
}

func anyNullable(schema tabula.Schema, exprs ...tabula.Expression) bool {
	for _, e := range exprs {
		if e.Nullable(schema) {
			return true
		}
	}
	return false
}

// expectType fails with a TypeError unless actual is the same type as expected
func expectType(e tabula.Expression, actual tabula.ColumnType, expected tabula.ColumnType) error {
	if !tabula.TypesEqual(actual, expected) {
		return errors.TypeError{Column: e.Name(), Expected: expected.Name(), Actual: actual.Name()}
	}
	return nil
}
