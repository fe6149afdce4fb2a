package util

import (
	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
)

// Collect copies up to collectionLimit Rows out of a Table, in order. A
// negative limit collects every Row.
func Collect(t tabula.Table, collectionLimit int) ([][]interface{}, error) {
	n := t.NumRows()
	if collectionLimit >= 0 && collectionLimit < n {
		n = collectionLimit
	}
	res := make([][]interface{}, 0, n)
	for i := 0; i < n; i++ {
		row, err := t.GetRow(i)
		if err != nil {
			return nil, err
		}
		res = append(res, row.Values())
	}
	return res, nil
}

// CollectColumn copies every value of a single column out of a Table, in order
func CollectColumn(t tabula.Table, colName string) ([]interface{}, error) {
	if !t.Schema().HasColumn(colName) {
		return nil, errors.ColumnNotFoundError{Name: colName}
	}
	return t.Column(colName)
}
