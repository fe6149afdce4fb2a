package datasource

import (
	"log/slog"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/schema"
)

// Options configures a load
type Options struct {
	InferSchema bool          // Whether column types of delimited data are inferred. Otherwise, every column is a String.
	Header      bool          // Whether delimited data begins with a line of column names
	Multiline   bool          // Whether JSON data is a single document, rather than one object per line
	Schema      tabula.Schema // The Schema rows must conform to. Takes precedence over DDL.
	DDL         string        // The Schema rows must conform to, as DDL
	Delimiter   rune          // The delimiter of delimited data. Defaults to ,
	Comment     rune          // Lines of delimited data beginning with this character are ignored
	NilValue    string        // A string representing nil in delimited data, in addition to the empty string
	DateFormat  string        // The pattern of Date values in text formats, such as dd-MM-yyyy. Defaults to yyyy-MM-dd.
	Logger      *slog.Logger  // Receives debug messages about each load. Defaults to discarding them.
}

func (o Options) schema() (tabula.Schema, error) {
	if o.Schema != nil {
		return o.Schema, nil
	} else if len(o.DDL) > 0 {
		return schema.ParseDDL(o.DDL)
	}
	return nil, nil
}
