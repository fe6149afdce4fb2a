package tabula

// A Table is an immutable, ordered collection of Rows
// conforming to a Schema. Tables are the unit all
// TableOperations consume and produce.
type Table interface {
	Schema() Schema                               // Schema returns the Schema of a Table
	NumRows() int                                 // NumRows returns the number of Rows in a Table
	GetRow(idx int) (Row, error)                  // GetRow retrieves a specific Row from a Table
	ForEachRow(fn func(row Row) error) error      // ForEachRow iterates over the Rows of a Table, in order
	Rows() [][]interface{}                        // Rows returns a copy of the values of every Row
	Column(colName string) ([]interface{}, error) // Column returns a copy of the values of a single column
	To(ops ...TableOperation) (Table, error)      // To is a "functional operations" factory method for Tables, chaining operations onto the current one.
}
