package transform

import (
	"github.com/go-sif/tabula"
	itable "github.com/go-sif/tabula/internal/table"
)

// RenameColumn renames an existing column
func RenameColumn(oldName string, newName string) tabula.TableOperation {
	return func(t tabula.Table) (tabula.Table, error) {
		newSchema, err := t.Schema().RenameColumn(oldName, newName)
		if err != nil {
			return nil, err
		}
		return itable.CreateTable(newSchema, itable.RawRows(t)), nil
	}
}
