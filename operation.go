package tabula

// TableOperation - A generic Table transform, producing a new Table from an existing one.
// The input Table is never modified.
type TableOperation func(t Table) (Table, error)

// AccumulatorFactory is a function that produces a fresh Accumulator
type AccumulatorFactory func() Accumulator
