package sql

// Node is an expression in a parsed query
type Node interface {
	node()
}

// ColumnNode references a column of the queried view
type ColumnNode struct {
	Name string
}

// LiteralNode is a constant. Value is nil, int64, float64, bool or string.
type LiteralNode struct {
	Value interface{}
}

// BinaryNode applies a comparison, arithmetic or logical operator
type BinaryNode struct {
	Op    TokenType
	Left  Node
	Right Node
}

// NotNode negates a predicate
type NotNode struct {
	Operand Node
}

// InNode tests membership in a list of literals
type InNode struct {
	Operand Node
	Values  []interface{}
	Negated bool
}

// IsNullNode is IS NULL or IS NOT NULL
type IsNullNode struct {
	Operand Node
	Negated bool
}

// FuncNode is a scalar function call. Name is upper case.
type FuncNode struct {
	Name string
	Args []Node
}

func (*ColumnNode) node()  {}
func (*LiteralNode) node() {}
func (*BinaryNode) node()  {}
func (*NotNode) node()     {}
func (*InNode) node()      {}
func (*IsNullNode) node()  {}
func (*FuncNode) node()    {}
