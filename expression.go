package tabula

// An Expression is a typed tree of column references, literals and operators.
// Expressions are resolved against a Schema before they are evaluated, so that
// missing columns and incompatible operand types are reported before any Row
// is touched.
type Expression interface {
	Name() string                              // Name returns the default output column name for this Expression
	Resolve(schema Schema) (ColumnType, error) // Resolve type-checks this Expression against a Schema, returning its result type
	Nullable(schema Schema) bool               // Nullable returns true iff this Expression may evaluate to nil against the given Schema
	Evaluate(row Row) (interface{}, error)     // Evaluate computes the value of this Expression for a Row
}
