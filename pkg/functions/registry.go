// Package functions provides the registry of helper functions visible inside
// expressions.
//
// Helpers are called by bare name from an expression and are never prefixed
// with the scope during rewriting, so a template can mix scope data with Go
// code registered by the host.
//
// # Example
//
//	c := compiler.New(
//	    compiler.WithFunction("upper", strings.ToUpper),
//	    compiler.WithFunction("greet", functions.CustomFunc(func(args ...interface{}) (interface{}, error) {
//	        return fmt.Sprint("Hello, ", args[0], "!"), nil
//	    })),
//	)
//	expr, _ := c.Compile("upper(greet(name))", false)
//	v, _ := expr.Get(map[string]interface{}{"name": "World"})
//	// v == "HELLO, WORLD!"
package functions

import (
	"fmt"
	"reflect"
	"sort"
)

// CustomFunc is a helper that receives the evaluated arguments unconverted.
// It is called without reflection.
type CustomFunc func(args ...interface{}) (interface{}, error)

// FunctionDef describes a helper function. Fn is a CustomFunc or any Go
// function; plain Go functions are called through reflection with argument
// conversion and may return (), (v), (error) or (v, error).
type FunctionDef struct {
	// Name is the identifier used inside expressions.
	Name string
	// Fn is the implementation.
	Fn interface{}
}

// Registry is an immutable set of helper functions keyed by name.
// A nil *Registry is empty and valid.
type Registry struct {
	fns map[string]interface{}
}

// NewRegistry builds a registry from defs. Later definitions override
// earlier ones with the same name.
func NewRegistry(defs ...FunctionDef) (*Registry, error) {
	return (*Registry)(nil).With(defs...)
}

// With returns a new registry holding the receiver's functions plus defs.
// The receiver is left untouched.
func (r *Registry) With(defs ...FunctionDef) (*Registry, error) {
	fns := make(map[string]interface{}, r.Len()+len(defs))
	if r != nil {
		for name, fn := range r.fns {
			fns[name] = fn
		}
	}
	for _, def := range defs {
		if err := validate(def); err != nil {
			return nil, err
		}
		fns[def.Name] = def.Fn
	}
	return &Registry{fns: fns}, nil
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (interface{}, bool) {
	if r == nil {
		return nil, false
	}
	fn, ok := r.fns[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fns)
}

func validate(def FunctionDef) error {
	if !isIdentifier(def.Name) {
		return fmt.Errorf("functions: invalid name %q", def.Name)
	}
	if def.Fn == nil {
		return fmt.Errorf("functions: %s: nil implementation", def.Name)
	}
	if _, ok := def.Fn.(CustomFunc); ok {
		return nil
	}
	if reflect.TypeOf(def.Fn).Kind() != reflect.Func {
		return fmt.Errorf("functions: %s: %T is not a function", def.Name, def.Fn)
	}
	return nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
