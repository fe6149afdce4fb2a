package transform

import (
	"fmt"
	"strings"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	itable "github.com/go-sif/tabula/internal/table"
	"github.com/go-sif/tabula/schema"
)

// JoinType determines which Rows a join produces
type JoinType int

const (
	// JoinInner produces a Row for every matching pair of Rows
	JoinInner JoinType = iota
	// JoinLeft is JoinInner, plus every unmatched left Row padded with nils
	JoinLeft
	// JoinRight is JoinInner, plus every unmatched right Row padded with nils
	JoinRight
	// JoinFull is JoinInner, plus every unmatched Row from either side padded with nils
	JoinFull
	// JoinSemi produces every left Row with at least one match, without right columns
	JoinSemi
	// JoinAnti produces every left Row with no match, without right columns
	JoinAnti
)

func (j JoinType) String() string {
	return [...]string{"inner", "left", "right", "full", "semi", "anti"}[j]
}

// ParseJoinType parses a join type name, accepting the common aliases such as
// left_outer, outer, full_outer, leftsemi and left_anti
func ParseJoinType(name string) (JoinType, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "")) {
	case "inner":
		return JoinInner, nil
	case "cross":
		return JoinInner, errors.InvalidArgumentError{Argument: "how", Reason: "cross joins are not supported; every join requires a condition"}
	case "left", "leftouter":
		return JoinLeft, nil
	case "right", "rightouter":
		return JoinRight, nil
	case "full", "outer", "fullouter":
		return JoinFull, nil
	case "semi", "leftsemi":
		return JoinSemi, nil
	case "anti", "leftanti":
		return JoinAnti, nil
	}
	return JoinInner, errors.InvalidArgumentError{Argument: "how", Reason: fmt.Sprintf("unknown join type %q", name)}
}

// A JoinCondition determines which pairs of Rows match in a join
type JoinCondition interface {
	String() string
}

// UsingCondition matches Rows with equal values in identically named columns.
// Each such column appears once in the output.
type UsingCondition struct {
	cols []string
}

// Using joins on equality of identically named columns
func Using(cols ...string) *UsingCondition {
	return &UsingCondition{cols: cols}
}

func (c *UsingCondition) String() string {
	return "USING (" + strings.Join(c.cols, ", ") + ")"
}

// EquiCondition matches Rows with equal values in pairs of columns. Both
// columns of each pair appear in the output.
type EquiCondition struct {
	left  []string
	right []string
}

// On joins on equality of a left column and a right column
func On(leftCol string, rightCol string) *EquiCondition {
	return &EquiCondition{left: []string{leftCol}, right: []string{rightCol}}
}

// And adds another pair of columns to an EquiCondition, returning a new EquiCondition
func (c *EquiCondition) And(leftCol string, rightCol string) *EquiCondition {
	return &EquiCondition{
		left:  append(append([]string{}, c.left...), leftCol),
		right: append(append([]string{}, c.right...), rightCol),
	}
}

func (c *EquiCondition) String() string {
	pairs := make([]string, len(c.left))
	for i := range c.left {
		pairs[i] = fmt.Sprintf("%s = %s", c.left[i], c.right[i])
	}
	return strings.Join(pairs, " AND ")
}

// ExprCondition matches Rows for which a Boolean Expression is true. The
// Expression is evaluated against the combined Row: the left columns followed
// by the right columns, where right columns whose names collide with left
// columns are suffixed with _right.
type ExprCondition struct {
	predicate tabula.Expression
}

// OnExpr joins on an arbitrary Boolean Expression over the combined Row
func OnExpr(predicate tabula.Expression) *ExprCondition {
	return &ExprCondition{predicate: predicate}
}

func (c *ExprCondition) String() string {
	return c.predicate.Name()
}

// joinPlan is a resolved join
type joinPlan struct {
	how       JoinType
	left      tabula.Schema
	right     tabula.Schema
	out       tabula.Schema
	leftKeys  []int
	rightKeys []int
	merged    map[int]int // left key index -> right key index, for USING joins
	rightKeep []int       // right column indices present in the output
	combined  tabula.Schema
	predicate tabula.Expression
}

func suffixed(s tabula.Schema, name string) string {
	for s.HasColumn(name) {
		name += "_right"
	}
	return name
}

func planJoin(left tabula.Schema, right tabula.Schema, cond JoinCondition, how JoinType) (*joinPlan, error) {
	p := &joinPlan{how: how, left: left, right: right, merged: map[int]int{}}
	var err error
	switch c := cond.(type) {
	case *UsingCondition:
		if len(c.cols) == 0 {
			return nil, errors.InvalidArgumentError{Argument: "cond", Reason: "USING requires at least one column"}
		}
		if p.leftKeys, err = columnIndices(left, c.cols); err != nil {
			return nil, err
		}
		if p.rightKeys, err = columnIndices(right, c.cols); err != nil {
			return nil, err
		}
		for i := range p.leftKeys {
			p.merged[p.leftKeys[i]] = p.rightKeys[i]
		}
	case *EquiCondition:
		if len(c.left) == 0 || len(c.left) != len(c.right) {
			return nil, errors.InvalidArgumentError{Argument: "cond", Reason: "ON requires pairs of columns"}
		}
		if p.leftKeys, err = columnIndices(left, c.left); err != nil {
			return nil, err
		}
		if p.rightKeys, err = columnIndices(right, c.right); err != nil {
			return nil, err
		}
	case *ExprCondition:
		p.predicate = c.predicate
	default:
		return nil, errors.InvalidArgumentError{Argument: "cond", Reason: fmt.Sprintf("unsupported join condition %T", cond)}
	}
	leftCols, rightCols := left.Columns(), right.Columns()
	for i := range p.leftKeys {
		lt, rt := leftCols[p.leftKeys[i]].Type(), rightCols[p.rightKeys[i]].Type()
		if !tabula.TypesEqual(lt, rt) && !(tabula.IsNumeric(lt) && tabula.IsNumeric(rt)) {
			return nil, errors.TypeError{Column: rightCols[p.rightKeys[i]].Name(), Expected: lt.Name(), Actual: rt.Name()}
		}
	}
	if err := p.buildSchemas(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *joinPlan) buildSchemas() error {
	leftNullable := p.how == JoinRight || p.how == JoinFull
	rightNullable := p.how == JoinLeft || p.how == JoinFull
	var out tabula.Schema = schema.CreateSchema()
	var combined tabula.Schema = schema.CreateSchema()
	var err error
	rightCols := p.right.Columns()
	for _, col := range p.left.Columns() {
		nullable := col.Nullable() || leftNullable
		if ri, isMerged := p.merged[col.Index()]; isMerged {
			rc := rightCols[ri]
			switch p.how {
			case JoinRight:
				nullable = rc.Nullable()
			case JoinFull:
				nullable = col.Nullable() || rc.Nullable()
			default:
				nullable = col.Nullable()
			}
		}
		if out, err = out.CreateColumn(col.Name(), col.Type(), nullable); err != nil {
			return err
		}
		if combined, err = combined.CreateColumn(col.Name(), col.Type(), col.Nullable()); err != nil {
			return err
		}
	}
	for _, rc := range rightCols {
		if combined, err = combined.CreateColumn(suffixed(combined, rc.Name()), rc.Type(), rc.Nullable()); err != nil {
			return err
		}
	}
	p.combined = combined
	if p.how == JoinSemi || p.how == JoinAnti {
		p.out = p.left
		return nil
	}
	mergedRight := map[int]bool{}
	for _, ri := range p.merged {
		mergedRight[ri] = true
	}
	for _, rc := range rightCols {
		if mergedRight[rc.Index()] {
			continue
		}
		if out, err = out.CreateColumn(suffixed(out, rc.Name()), rc.Type(), rc.Nullable() || rightNullable); err != nil {
			return err
		}
		p.rightKeep = append(p.rightKeep, rc.Index())
	}
	p.out = out
	return nil
}

// matches returns, for each left Row, the indices of the matching right Rows in right order
func (p *joinPlan) matches(leftRows [][]interface{}, rightRows [][]interface{}) ([][]int, error) {
	res := make([][]int, len(leftRows))
	if p.predicate != nil {
		colType, err := p.predicate.Resolve(p.combined)
		if err != nil {
			return nil, err
		}
		if _, isBool := colType.(*tabula.BooleanColumnType); !isBool {
			return nil, errors.TypeError{Column: p.predicate.Name(), Expected: "BOOLEAN", Actual: colType.Name()}
		}
		err = itable.ParallelChunks(len(leftRows), func(_ int, start int, end int) error {
			combined := make([]interface{}, p.combined.NumColumns())
			for li := start; li < end; li++ {
				copy(combined, leftRows[li])
				for ri, rv := range rightRows {
					copy(combined[len(leftRows[li]):], rv)
					v, err := p.predicate.Evaluate(itable.CreateRow(li, combined, p.combined))
					if err != nil {
						return err
					}
					if v == true {
						res[li] = append(res[li], ri)
					}
				}
			}
			return nil
		})
		return res, err
	}
	index := itable.NewKeyIndex()
	var buckets [][]int
	for ri, values := range rightRows {
		if hasNil(values, p.rightKeys) {
			continue
		}
		id, isNew := index.Insert(values, p.rightKeys)
		if isNew {
			buckets = append(buckets, nil)
		}
		buckets[id] = append(buckets[id], ri)
	}
	for li, values := range leftRows {
		if hasNil(values, p.leftKeys) {
			continue
		}
		if id, found := index.Find(values, p.leftKeys); found {
			res[li] = buckets[id]
		}
	}
	return res, nil
}

func hasNil(values []interface{}, idxs []int) bool {
	for _, idx := range idxs {
		if values[idx] == nil {
			return true
		}
	}
	return false
}

func (p *joinPlan) row(left []interface{}, right []interface{}) []interface{} {
	values := make([]interface{}, 0, p.out.NumColumns())
	for i := 0; i < p.left.NumColumns(); i++ {
		var v interface{}
		if left != nil {
			v = left[i]
		}
		if ri, isMerged := p.merged[i]; isMerged && v == nil && right != nil {
			v = right[ri]
		}
		values = append(values, v)
	}
	for _, ri := range p.rightKeep {
		var v interface{}
		if right != nil {
			v = right[ri]
		}
		values = append(values, v)
	}
	return values
}

// Join combines the Rows of this Table with those of another Table, according
// to a JoinCondition and a JoinType. The output has the left columns followed
// by the right columns; right column names which collide with left column
// names are suffixed with _right. Rows with a nil key never match. Output Rows
// follow the order of the left Table, with matches in the order of the right
// Table; unmatched right Rows of right and full joins follow, in right order.
func Join(right tabula.Table, cond JoinCondition, how JoinType) tabula.TableOperation {
	return func(t tabula.Table) (tabula.Table, error) {
		p, err := planJoin(t.Schema(), right.Schema(), cond, how)
		if err != nil {
			return nil, err
		}
		leftRows, rightRows := itable.RawRows(t), itable.RawRows(right)
		matches, err := p.matches(leftRows, rightRows)
		if err != nil {
			return nil, err
		}
		var res [][]interface{}
		matchedRight := make([]bool, len(rightRows))
		for li, values := range leftRows {
			m := matches[li]
			switch how {
			case JoinSemi:
				if len(m) > 0 {
					res = append(res, values)
				}
				continue
			case JoinAnti:
				if len(m) == 0 {
					res = append(res, values)
				}
				continue
			}
			for _, ri := range m {
				matchedRight[ri] = true
				res = append(res, p.row(values, rightRows[ri]))
			}
			if len(m) == 0 && (how == JoinLeft || how == JoinFull) {
				res = append(res, p.row(values, nil))
			}
		}
		if how == JoinRight || how == JoinFull {
			for ri, values := range rightRows {
				if !matchedRight[ri] {
					res = append(res, p.row(nil, values))
				}
			}
		}
		return itable.CreateTable(p.out, res), nil
	}
}
