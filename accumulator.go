package tabula

// An Accumulator siphons values from Rows into a running result, such as a sum
// or a count. Accumulators are used by grouped aggregations, pivots and window
// functions. Accumulators filled from disjoint sets of Rows can be combined via
// Merge, which allows aggregation to proceed over chunks of a Table in parallel.
type Accumulator interface {
	Accumulate(row Row) error  // Accumulate adds a row to this Accumulator
	Merge(o Accumulator) error // Merge merges another Accumulator into this one
	Value() interface{}        // Value returns the current result of this Accumulator, which may be nil
}
