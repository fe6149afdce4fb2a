package sql

import (
	"fmt"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/expr"
	"github.com/go-sif/tabula/operations/transform"
)

// Compile turns a Query into the operations which evaluate it against a view with the given Schema
func (q *Query) Compile(s tabula.Schema) ([]tabula.TableOperation, error) {
	var ops []tabula.TableOperation
	if q.Where != nil {
		predicate, err := compileNode(q.Where, s)
		if err != nil {
			return nil, err
		}
		ops = append(ops, transform.Filter(predicate))
	}

	projection, err := q.projection(s)
	if err != nil {
		return nil, err
	}

	keys := make([]transform.SortKey, len(q.OrderBy))
	sortFirst := true
	for i, item := range q.OrderBy {
		if item.Desc {
			keys[i] = transform.Desc(item.Column)
		} else {
			keys[i] = transform.Asc(item.Column)
		}
		if _, err := s.GetOffset(item.Column); err != nil {
			sortFirst = false
		}
	}

	// ORDER BY may reference output aliases, which only exist after projection
	if len(keys) > 0 && sortFirst {
		ops = append(ops, transform.Sort(keys...))
	}
	if projection != nil {
		ops = append(ops, transform.Select(projection...))
	}
	if q.Distinct {
		ops = append(ops, transform.Distinct())
	}
	if len(keys) > 0 && !sortFirst {
		ops = append(ops, transform.Sort(keys...))
	}
	if q.Limit >= 0 {
		ops = append(ops, transform.Limit(q.Limit))
	}
	return ops, nil
}

// projection returns nil for a bare SELECT *
func (q *Query) projection(s tabula.Schema) ([]tabula.Expression, error) {
	if len(q.Items) == 1 && q.Items[0].Star {
		return nil, nil
	}
	exprs := make([]tabula.Expression, 0, len(q.Items))
	for _, item := range q.Items {
		if item.Star {
			exprs = append(exprs, expr.All())
			continue
		}
		e, err := compileNode(item.Expr, s)
		if err != nil {
			return nil, err
		}
		if len(item.Alias) > 0 {
			e = expr.Alias(e, item.Alias)
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

func compileNode(n Node, s tabula.Schema) (tabula.Expression, error) {
	switch n := n.(type) {
	case *ColumnNode:
		return expr.Col(n.Name), nil
	case *LiteralNode:
		return expr.Lit(n.Value), nil
	case *NotNode:
		operand, err := compileNode(n.Operand, s)
		if err != nil {
			return nil, err
		}
		return expr.Not(operand), nil
	case *IsNullNode:
		operand, err := compileNode(n.Operand, s)
		if err != nil {
			return nil, err
		}
		if n.Negated {
			return expr.IsNotNull(operand), nil
		}
		return expr.IsNull(operand), nil
	case *InNode:
		operand, err := compileNode(n.Operand, s)
		if err != nil {
			return nil, err
		}
		var in tabula.Expression = expr.IsIn(operand, n.Values...)
		if n.Negated {
			in = expr.Not(in)
		}
		return in, nil
	case *BinaryNode:
		return compileBinary(n, s)
	case *FuncNode:
		return compileFunc(n, s)
	}
	return nil, errors.InvalidArgumentError{Argument: "query", Reason: fmt.Sprintf("unsupported expression %T", n)}
}

func compileBinary(n *BinaryNode, s tabula.Schema) (tabula.Expression, error) {
	left, err := compileNode(n.Left, s)
	if err != nil {
		return nil, err
	}
	right, err := compileNode(n.Right, s)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case TokenAnd:
		return expr.And(left, right), nil
	case TokenOr:
		return expr.Or(left, right), nil
	case TokenPlus:
		return expr.Add(left, right), nil
	case TokenMinus:
		return expr.Sub(left, right), nil
	case TokenStar:
		return expr.Mul(left, right), nil
	case TokenSlash:
		return expr.Div(left, right), nil
	case TokenPercent:
		return expr.Mod(left, right), nil
	}

	left = coerceLiteral(n.Left, left, right, s)
	right = coerceLiteral(n.Right, right, left, s)
	switch n.Op {
	case TokenEqual:
		return expr.Eq(left, right), nil
	case TokenNotEqual:
		return expr.Ne(left, right), nil
	case TokenLess:
		return expr.Lt(left, right), nil
	case TokenLessEqual:
		return expr.Le(left, right), nil
	case TokenGreater:
		return expr.Gt(left, right), nil
	case TokenGreaterEqual:
		return expr.Ge(left, right), nil
	}
	return nil, errors.InvalidArgumentError{Argument: "query", Reason: fmt.Sprintf("unsupported operator %s", n.Op)}
}

// coerceLiteral adapts a literal operand of a comparison to the type of the
// other operand: NULL takes on that type, and string literals compared with
// dates are parsed as dates.
func coerceLiteral(n Node, e tabula.Expression, other tabula.Expression, s tabula.Schema) tabula.Expression {
	lit, ok := n.(*LiteralNode)
	if !ok {
		return e
	}
	otherType, err := other.Resolve(s)
	if err != nil {
		return e
	}
	switch v := lit.Value.(type) {
	case nil:
		return expr.Null(otherType)
	case string:
		if _, isDate := otherType.(*tabula.DateColumnType); isDate {
			return expr.Cast(expr.Lit(v), &tabula.DateColumnType{})
		}
	}
	return e
}

func compileArgs(n *FuncNode, s tabula.Schema, min int, max int) ([]tabula.Expression, error) {
	if len(n.Args) < min || (max >= 0 && len(n.Args) > max) {
		expected := fmt.Sprintf("%d", min)
		if max < 0 {
			expected = fmt.Sprintf("at least %d", min)
		} else if max != min {
			expected = fmt.Sprintf("%d to %d", min, max)
		}
		return nil, errors.InvalidArgumentError{
			Argument: "query",
			Reason:   fmt.Sprintf("%s expects %s argument(s), got %d", n.Name, expected, len(n.Args)),
		}
	}
	args := make([]tabula.Expression, len(n.Args))
	for i, arg := range n.Args {
		e, err := compileNode(arg, s)
		if err != nil {
			return nil, err
		}
		args[i] = e
	}
	return args, nil
}

func compileFunc(n *FuncNode, s tabula.Schema) (tabula.Expression, error) {
	unary := map[string]func(tabula.Expression) *expr.StringFuncExpr{
		"UPPER":   expr.Upper,
		"LOWER":   expr.Lower,
		"INITCAP": expr.Initcap,
		"TRIM":    expr.Trim,
		"LENGTH":  expr.Length,
	}
	if fn, ok := unary[n.Name]; ok {
		args, err := compileArgs(n, s, 1, 1)
		if err != nil {
			return nil, err
		}
		return fn(args[0]), nil
	}
	switch n.Name {
	case "CONCAT":
		args, err := compileArgs(n, s, 1, -1)
		if err != nil {
			return nil, err
		}
		return expr.Concat(args...), nil
	case "COALESCE":
		args, err := compileArgs(n, s, 1, -1)
		if err != nil {
			return nil, err
		}
		return expr.Coalesce(args...), nil
	case "ROUND":
		args, err := compileArgs(n, s, 1, 2)
		if err != nil {
			return nil, err
		}
		scale := 0
		if len(n.Args) == 2 {
			var v interface{}
			if lit, ok := n.Args[1].(*LiteralNode); ok {
				v = lit.Value
			}
			digits, isInt := v.(int64)
			if !isInt {
				return nil, errors.InvalidArgumentError{Argument: "query", Reason: "ROUND scale must be an integer literal"}
			}
			scale = int(digits)
		}
		return expr.Round(args[0], scale), nil
	}
	return nil, errors.InvalidArgumentError{Argument: "query", Reason: fmt.Sprintf("unknown function %s", n.Name)}
}
