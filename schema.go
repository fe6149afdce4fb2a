package tabula

// Schema is an ordered mapping from column names to Columns.
// It allows one to obtain Columns by name, define new columns,
// remove columns, etc. Schemas are never modified in place:
// every mutating method returns a new Schema.
type Schema interface {
	Equals(otherSchema Schema) error
	Clone() Schema
	NumColumns() int
	GetOffset(colName string) (offset Column, err error)
	HasColumn(colName string) bool
	CreateColumn(colName string, columnType ColumnType, nullable bool) (newSchema Schema, err error)
	ReplaceColumn(colName string, columnType ColumnType, nullable bool) (newSchema Schema, err error)
	RenameColumn(oldName string, newName string) (newSchema Schema, err error)
	RemoveColumn(colName string) (newSchema Schema, wasRemoved bool)
	ColumnNames() []string
	ColumnTypes() []ColumnType
	Columns() []Column
	ForEachColumn(fn func(name string, col Column) error) error // iterates in index order
	ToDDL() string
}
