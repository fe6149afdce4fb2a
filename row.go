package tabula

import "time"

// Row is a representation of a single row of columnar data (a slice of a Table),
// along with a reference to the Schema for that Row. Rows are read-only.
type Row interface {
	Schema() Schema                                 // Schema returns the schema of this Row
	Index() int                                     // Index returns the position of this Row within its Table
	Value(idx int) interface{}                      // Value returns the value at a column index, or nil
	Values() []interface{}                          // Values returns a copy of all values in this Row, in Schema order
	Get(colName string) (interface{}, error)        // Get returns the value of a column, which may be nil
	IsNil(colName string) (bool, error)             // IsNil returns true iff the given column value is nil in this row
	GetString(colName string) (string, error)       // GetString retrieves a single String value from this Row
	GetInteger(colName string) (int64, error)       // GetInteger retrieves a single Integer value from this Row
	GetDouble(colName string) (float64, error)      // GetDouble retrieves a single Double value from this Row
	GetBool(colName string) (bool, error)           // GetBool retrieves a single Boolean value from this Row
	GetDate(colName string) (time.Time, error)      // GetDate retrieves a single Date value from this Row
	GetArray(colName string) ([]interface{}, error) // GetArray retrieves a single Array value from this Row
	ToString() string                               // ToString returns a string representation of this Row
}
