// Package source parses a sequence of named inputs into a single set of rows.
package source

import (
	"fmt"
	"io"

	"github.com/go-sif/tabula"
)

// Opener opens one named input
type Opener func(name string) (io.ReadCloser, error)

// Collect parses every input in order with the same parser. When s is nil,
// the Schema determined by the first input is used for the rest.
func Collect(names []string, open Opener, parser tabula.DataSourceParser, s tabula.Schema) (tabula.Schema, [][]interface{}, error) {
	all := [][]interface{}{}
	for _, name := range names {
		rc, err := open(name)
		if err != nil {
			return nil, nil, err
		}
		parsed, rows, err := parser.Parse(rc, s)
		cerr := rc.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", name, err)
		} else if cerr != nil {
			return nil, nil, fmt.Errorf("%s: %w", name, cerr)
		}
		if s == nil {
			s = parsed
		}
		all = append(all, rows...)
	}
	return s, all, nil
}
