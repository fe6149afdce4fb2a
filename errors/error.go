package errors

import (
	goerrors "errors"
	"fmt"
)

// NilValueError occurs when a value in a Row is null
type NilValueError struct{ Name string }

// Error returns a textual representation of this NilValueError
func (e NilValueError) Error() string {
	return fmt.Sprintf("Value for column %s is nil", e.Name)
}

// SchemaMismatchError occurs when a Row or Schema does not agree with an expected Schema.
// Row is -1 when the mismatch does not concern a specific Row.
type SchemaMismatchError struct {
	Column string
	Row    int
	Reason string
}

// Error returns a textual representation of this SchemaMismatchError
func (e SchemaMismatchError) Error() string {
	switch {
	case e.Row >= 0 && e.Column != "":
		return fmt.Sprintf("Schema mismatch in row %d, column %s: %s", e.Row, e.Column, e.Reason)
	case e.Row >= 0:
		return fmt.Sprintf("Schema mismatch in row %d: %s", e.Row, e.Reason)
	case e.Column != "":
		return fmt.Sprintf("Schema mismatch in column %s: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("Schema mismatch: %s", e.Reason)
}

// ColumnNotFoundError occurs when a column is referenced which does not exist in a Schema
type ColumnNotFoundError struct{ Name string }

// Error returns a textual representation of this ColumnNotFoundError
func (e ColumnNotFoundError) Error() string {
	return fmt.Sprintf("Schema does not contain column with name %s", e.Name)
}

// TypeError occurs when an operand or column has a type which is incompatible with an operation
type TypeError struct {
	Column   string
	Expected string
	Actual   string
}

// Error returns a textual representation of this TypeError
func (e TypeError) Error() string {
	return fmt.Sprintf("Column %s has type %s, expected %s", e.Column, e.Actual, e.Expected)
}

// CastError occurs when a value (or a type) has no defined conversion to a target type.
// Row is -1 for conversions rejected before any Row is evaluated.
type CastError struct {
	Value string
	From  string
	To    string
	Row   int
}

// Error returns a textual representation of this CastError
func (e CastError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("Cannot cast %s to %s", e.From, e.To)
	}
	return fmt.Sprintf("Cannot cast value %q of type %s to %s in row %d", e.Value, e.From, e.To, e.Row)
}

// InvalidArgumentError occurs when an operation receives an argument outside of its domain
type InvalidArgumentError struct {
	Argument string
	Reason   string
}

// Error returns a textual representation of this InvalidArgumentError
func (e InvalidArgumentError) Error() string {
	return fmt.Sprintf("Invalid argument %s: %s", e.Argument, e.Reason)
}

// DestinationExistsError occurs when writing to an existing destination in error-if-exists mode
type DestinationExistsError struct{ Path string }

// Error returns a textual representation of this DestinationExistsError
func (e DestinationExistsError) Error() string {
	return fmt.Sprintf("Destination %s already exists", e.Path)
}

// SourceNotFoundError occurs when a load or query references a source which does not exist
type SourceNotFoundError struct{ Path string }

// Error returns a textual representation of this SourceNotFoundError
func (e SourceNotFoundError) Error() string {
	return fmt.Sprintf("Source %s does not exist", e.Path)
}

// UDFError occurs when a user-defined function fails or panics while evaluating a Row
type UDFError struct {
	Name string
	Row  int
	Err  error
}

// Error returns a textual representation of this UDFError
func (e UDFError) Error() string {
	return fmt.Sprintf("UDF %s failed on row %d: %s", e.Name, e.Row, e.Err)
}

// Unwrap returns the error produced by the user-defined function
func (e UDFError) Unwrap() error {
	return e.Err
}

// IsSchemaMismatch returns true iff err is, or wraps, a SchemaMismatchError
func IsSchemaMismatch(err error) bool {
	var target SchemaMismatchError
	return goerrors.As(err, &target)
}

// IsColumnNotFound returns true iff err is, or wraps, a ColumnNotFoundError
func IsColumnNotFound(err error) bool {
	var target ColumnNotFoundError
	return goerrors.As(err, &target)
}

// IsTypeError returns true iff err is, or wraps, a TypeError
func IsTypeError(err error) bool {
	var target TypeError
	return goerrors.As(err, &target)
}

// IsCastError returns true iff err is, or wraps, a CastError
func IsCastError(err error) bool {
	var target CastError
	return goerrors.As(err, &target)
}

// IsInvalidArgument returns true iff err is, or wraps, an InvalidArgumentError
func IsInvalidArgument(err error) bool {
	var target InvalidArgumentError
	return goerrors.As(err, &target)
}

// IsDestinationExists returns true iff err is, or wraps, a DestinationExistsError
func IsDestinationExists(err error) bool {
	var target DestinationExistsError
	return goerrors.As(err, &target)
}

// IsSourceNotFound returns true iff err is, or wraps, a SourceNotFoundError
func IsSourceNotFound(err error) bool {
	var target SourceNotFoundError
	return goerrors.As(err, &target)
}

// IsUDFError returns true iff err is, or wraps, a UDFError
func IsUDFError(err error) bool {
	var target UDFError
	return goerrors.As(err, &target)
}

// IsNilValue returns true iff err is, or wraps, a NilValueError
func IsNilValue(err error) bool {
	var target NilValueError
	return goerrors.As(err, &target)
}
