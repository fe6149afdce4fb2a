package sql

import (
	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/catalog"
)

// Execute parses a SELECT statement and runs it against a view registered in cat
func Execute(cat *catalog.Catalog, query string) (tabula.Table, error) {
	q, err := Parse(query)
	if err != nil {
		return nil, err
	}
	view, err := cat.View(q.From)
	if err != nil {
		return nil, err
	}
	ops, err := q.Compile(view.Schema())
	if err != nil {
		return nil, err
	}
	return view.To(ops...)
}
