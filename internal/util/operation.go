package util

import (
	"fmt"

	"github.com/go-sif/tabula"
)

// ScalarFunc is a single-value-in, single-value-out function
type ScalarFunc func(v interface{}) (interface{}, error)

// SafeScalarFunc wraps a ScalarFunc such that panics are recovered and nice error messages are constructed
func SafeScalarFunc(fn ScalarFunc) ScalarFunc {
	return func(v interface{}) (result interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				result = nil
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Panic: %w\nValue: %s\n%s", anErr, tabula.FormatValue(v), GetTrace())
				} else {
					err = fmt.Errorf("Panic: %v\nValue: %s\n%s", r, tabula.FormatValue(v), GetTrace())
				}
			}
		}()
		result, err = fn(v)
		return
	}
}

// SafeRowOperation wraps a per-Row evaluation such that panics are recovered and nice error messages are constructed
func SafeRowOperation(name string, fn func(row tabula.Row) (interface{}, error)) func(row tabula.Row) (interface{}, error) {
	return func(row tabula.Row) (result interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				result = nil
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("%s Panic: %w\nRow: %s\n%s", name, anErr, row.ToString(), GetTrace())
				} else {
					err = fmt.Errorf("%s Panic: %v\nRow: %s\n%s", name, r, row.ToString(), GetTrace())
				}
			}
		}()
		result, err = fn(row)
		return
	}
}
