package schema

import (
	"fmt"
	"strings"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
)

// column describes the position, type and nullability of a field in a Row.
type column struct {
	idx      int
	name     string
	colType  tabula.ColumnType
	nullable bool
}

// Clone returns a copy of this Column
func (c *column) Clone() tabula.Column {
	return &column{c.idx, c.name, c.colType, c.nullable}
}

// Index returns the index of this Column within a Schema
func (c *column) Index() int {
	return c.idx
}

// Name returns the name of this Column
func (c *column) Name() string {
	return c.name
}

// Type returns the ColumnType of this Column
func (c *column) Type() tabula.ColumnType {
	return c.colType
}

// Nullable returns true iff this Column may contain nil values
func (c *column) Nullable() bool {
	return c.nullable
}

// schema is an ordered mapping from column names to Columns.
// Mutating methods copy the receiver, leaving it unchanged.
type schema struct {
	cols   []*column
	byName map[string]int
}

// CreateSchema is a factory for Schemas
func CreateSchema() tabula.Schema {
	return &schema{
		cols:   []*column{},
		byName: make(map[string]int),
	}
}

// Build is a convenience factory which creates a Schema from a sequence of
// column descriptions, failing on the first duplicate name.
func Build(cols ...ColumnSpec) (tabula.Schema, error) {
	var s tabula.Schema = CreateSchema()
	var err error
	for _, c := range cols {
		s, err = s.CreateColumn(c.Name, c.Type, c.Nullable)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ColumnSpec describes a column to be created by Build
type ColumnSpec struct {
	Name     string
	Type     tabula.ColumnType
	Nullable bool
}

// Equals returns nil iff this and another Schema are equivalent,
// or an error describing the first difference
func (s *schema) Equals(otherSchema tabula.Schema) error {
	if s.NumColumns() != otherSchema.NumColumns() {
		return errors.SchemaMismatchError{Row: -1, Reason: fmt.Sprintf("schemas have unequal sizes %d and %d", s.NumColumns(), otherSchema.NumColumns())}
	}
	others := otherSchema.Columns()
	for i, col := range s.cols {
		other := others[i]
		if col.name != other.Name() {
			return errors.SchemaMismatchError{Column: col.name, Row: -1, Reason: fmt.Sprintf("column %d is named %s in the other schema", i, other.Name())}
		}
		if !tabula.TypesEqual(col.colType, other.Type()) {
			return errors.SchemaMismatchError{Column: col.name, Row: -1, Reason: fmt.Sprintf("types %s and %s do not match", col.colType.Name(), other.Type().Name())}
		}
		if col.nullable != other.Nullable() {
			return errors.SchemaMismatchError{Column: col.name, Row: -1, Reason: "nullability does not match"}
		}
	}
	return nil
}

// Clone returns a copy of this Schema
func (s *schema) Clone() tabula.Schema {
	newCols := make([]*column, len(s.cols))
	newByName := make(map[string]int, len(s.byName))
	for i, c := range s.cols {
		newCols[i] = c.Clone().(*column)
		newByName[c.name] = i
	}
	return &schema{cols: newCols, byName: newByName}
}

func (s *schema) clone() *schema {
	return s.Clone().(*schema)
}

// NumColumns returns the number of columns in this Schema
func (s *schema) NumColumns() int {
	return len(s.cols)
}

// GetOffset returns the Column with a particular name
func (s *schema) GetOffset(colName string) (offset tabula.Column, err error) {
	idx, ok := s.byName[colName]
	if !ok {
		return nil, errors.ColumnNotFoundError{Name: colName}
	}
	return s.cols[idx], nil
}

// HasColumn returns true iff this schema contains a column with the given name
func (s *schema) HasColumn(colName string) bool {
	_, ok := s.byName[colName]
	return ok
}

// CreateColumn defines a new column at the end of the Schema
func (s *schema) CreateColumn(colName string, columnType tabula.ColumnType, nullable bool) (tabula.Schema, error) {
	if len(colName) == 0 {
		return nil, errors.InvalidArgumentError{Argument: "colName", Reason: "column names must not be empty"}
	}
	if columnType == nil {
		return nil, errors.InvalidArgumentError{Argument: "columnType", Reason: fmt.Sprintf("column %s has no type", colName)}
	}
	if s.HasColumn(colName) {
		return nil, errors.SchemaMismatchError{Column: colName, Row: -1, Reason: "schema already contains a column with this name"}
	}
	newSchema := s.clone()
	newSchema.byName[colName] = len(newSchema.cols)
	newSchema.cols = append(newSchema.cols, &column{len(newSchema.cols), colName, columnType, nullable})
	return newSchema, nil
}

// ReplaceColumn changes the type and nullability of an existing column, keeping its position
func (s *schema) ReplaceColumn(colName string, columnType tabula.ColumnType, nullable bool) (tabula.Schema, error) {
	idx, ok := s.byName[colName]
	if !ok {
		return nil, errors.ColumnNotFoundError{Name: colName}
	}
	newSchema := s.clone()
	newSchema.cols[idx].colType = columnType
	newSchema.cols[idx].nullable = nullable
	return newSchema, nil
}

// RenameColumn renames a column within the Schema
func (s *schema) RenameColumn(oldName string, newName string) (tabula.Schema, error) {
	idx, ok := s.byName[oldName]
	if !ok {
		return nil, errors.ColumnNotFoundError{Name: oldName}
	}
	if oldName == newName {
		return s.Clone(), nil
	}
	if len(newName) == 0 {
		return nil, errors.InvalidArgumentError{Argument: "newName", Reason: "column names must not be empty"}
	}
	if s.HasColumn(newName) {
		return nil, errors.SchemaMismatchError{Column: newName, Row: -1, Reason: "schema already contains a column with this name"}
	}
	newSchema := s.clone()
	delete(newSchema.byName, oldName)
	newSchema.byName[newName] = idx
	newSchema.cols[idx].name = newName
	return newSchema, nil
}

// RemoveColumn removes a column from the Schema, shifting subsequent columns left.
// wasRemoved is false, and the returned Schema an unchanged copy, if the column does not exist.
func (s *schema) RemoveColumn(colName string) (tabula.Schema, bool) {
	idx, ok := s.byName[colName]
	if !ok {
		return s.Clone(), false
	}
	newSchema := &schema{
		cols:   make([]*column, 0, len(s.cols)-1),
		byName: make(map[string]int, len(s.cols)-1),
	}
	for i, c := range s.cols {
		if i == idx {
			continue
		}
		newSchema.byName[c.name] = len(newSchema.cols)
		newSchema.cols = append(newSchema.cols, &column{len(newSchema.cols), c.name, c.colType, c.nullable})
	}
	return newSchema, true
}

// ColumnNames returns the names in the schema, in index order
func (s *schema) ColumnNames() []string {
	names := make([]string, len(s.cols))
	for i, c := range s.cols {
		names[i] = c.name
	}
	return names
}

// ColumnTypes returns the types in the schema, in index order
func (s *schema) ColumnTypes() []tabula.ColumnType {
	types := make([]tabula.ColumnType, len(s.cols))
	for i, c := range s.cols {
		types[i] = c.colType
	}
	return types
}

// Columns returns the Columns in the schema, in index order
func (s *schema) Columns() []tabula.Column {
	cols := make([]tabula.Column, len(s.cols))
	for i, c := range s.cols {
		cols[i] = c
	}
	return cols
}

// ForEachColumn iterates over the columns in this Schema, in order of column index.
func (s *schema) ForEachColumn(fn func(name string, col tabula.Column) error) error {
	for _, c := range s.cols {
		if err := fn(c.name, c); err != nil {
			return err
		}
	}
	return nil
}

// ToDDL renders this Schema as a DDL string which ParseDDL accepts
func (s *schema) ToDDL() string {
	parts := make([]string, len(s.cols))
	for i, c := range s.cols {
		parts[i] = formatDDLColumn(c)
	}
	return strings.Join(parts, ", ")
}

func formatDDLColumn(c tabula.Column) string {
	name := c.Name()
	if needsQuoting(name) {
		name = "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	res := name + " " + c.Type().Name()
	if !c.Nullable() {
		res += " NOT NULL"
	}
	return res
}
