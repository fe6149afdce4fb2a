// Package tabula contains the core components of Tabula, an in-memory library for querying tabular data.
// This root package defines the types which are employed during the regular use of the library, as
// well as in its extension, and is an excellent overview of Tabula's key concepts: a Table is an
// immutable, ordered collection of Rows conforming to a Schema, and TableOperations (found in the
// operations/transform package) produce new Tables from existing ones.
package tabula
