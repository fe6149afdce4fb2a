package tabula

// Column describes the position, type and nullability
// of a single named field in a Schema.
type Column interface {
	Clone() Column    // Clone returns a copy of this Column
	Index() int       // Index returns the index of this Column within a Schema
	Name() string     // Name returns the name of this Column
	Type() ColumnType // Type returns the ColumnType of this Column
	Nullable() bool   // Nullable returns true iff this Column may contain nil values
}
