package tabula

import "io"

// DataSourceParser is a parser which turns an encoded stream of data into
// rows conforming to a Schema. When schema is nil, the parser determines
// the Schema from the data itself.
type DataSourceParser interface {
	Parse(r io.Reader, schema Schema) (Schema, [][]interface{}, error)
}

// DataSourceWriter is the inverse of a DataSourceParser, encoding
// a Table onto a stream.
type DataSourceWriter interface {
	Write(w io.Writer, t Table) error
}
