// Package udf provides user-defined scalar functions, which may be referenced
// by name within Expressions once registered.
package udf

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	iutil "github.com/go-sif/tabula/internal/util"
)

// Func is a pure, single-value-in single-value-out function. It receives nil
// for nil input values, and may return nil.
type Func func(v interface{}) (interface{}, error)

type registration struct {
	fn         iutil.ScalarFunc
	returnType tabula.ColumnType
}

// A Registry maps names to user-defined functions. A Registry is safe for
// concurrent use.
type Registry struct {
	lock  sync.RWMutex
	funcs map[string]registration
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]registration)}
}

// Register adds a function to this Registry under a name, declaring the type
// of the values it returns
func (r *Registry) Register(name string, fn Func, returnType tabula.ColumnType) error {
	if len(name) == 0 {
		return errors.InvalidArgumentError{Argument: "name", Reason: "function names must not be empty"}
	}
	if fn == nil {
		return errors.InvalidArgumentError{Argument: "fn", Reason: fmt.Sprintf("function %s is nil", name)}
	}
	if returnType == nil {
		return errors.InvalidArgumentError{Argument: "returnType", Reason: fmt.Sprintf("function %s has no return type", name)}
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, exists := r.funcs[name]; exists {
		return errors.InvalidArgumentError{Argument: "name", Reason: fmt.Sprintf("a function named %s is already registered", name)}
	}
	r.funcs[name] = registration{fn: iutil.SafeScalarFunc(iutil.ScalarFunc(fn)), returnType: returnType}
	return nil
}

// Names returns the names of all registered functions, sorted
func (r *Registry) Names() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) lookup(name string) (registration, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	reg, ok := r.funcs[name]
	if !ok {
		return registration{}, errors.InvalidArgumentError{Argument: "name", Reason: fmt.Sprintf("no function named %s is registered", name)}
	}
	return reg, nil
}

// Call creates an Expression which applies a registered function to the value
// of another Expression. The function is looked up when the Expression is
// resolved.
func (r *Registry) Call(name string, arg tabula.Expression) *CallExpr {
	return &CallExpr{registry: r, name: name, arg: arg}
}

// CallExpr applies a user-defined function to the value of another Expression
type CallExpr struct {
	registry *Registry
	name     string
	arg      tabula.Expression
}

// Name returns a textual form of this Expression
func (e *CallExpr) Name() string {
	return fmt.Sprintf("%s(%s)", e.name, e.arg.Name())
}

// Resolve returns the declared return type of the function
func (e *CallExpr) Resolve(schema tabula.Schema) (tabula.ColumnType, error) {
	reg, err := e.registry.lookup(e.name)
	if err != nil {
		return nil, err
	}
	if _, err := e.arg.Resolve(schema); err != nil {
		return nil, err
	}
	return reg.returnType, nil
}

// Nullable returns true, since functions may return nil
func (e *CallExpr) Nullable(schema tabula.Schema) bool {
	return true
}

// Evaluate applies the function for a Row. Errors returned by the function,
// panics within it and results of the wrong type are reported as a UDFError
// naming the Row.
func (e *CallExpr) Evaluate(row tabula.Row) (interface{}, error) {
	reg, err := e.registry.lookup(e.name)
	if err != nil {
		return nil, err
	}
	v, err := e.arg.Evaluate(row)
	if err != nil {
		return nil, err
	}
	res, err := reg.fn(tabula.CopyValue(v))
	if err != nil {
		return nil, errors.UDFError{Name: e.name, Row: row.Index(), Err: err}
	}
	res, ok := tabula.NormalizeValue(res)
	if !ok || (res != nil && !reg.returnType.Accepts(res)) {
		return nil, errors.UDFError{Name: e.name, Row: row.Index(), Err: fmt.Errorf("returned %T, which is not a %s", res, reg.returnType.Name())}
	}
	return res, nil
}
