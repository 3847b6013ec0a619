// Package types defines the data model shared by the expression compiler.
//
// This package contains type definitions for:
//   - Expression: a compiled, scope-bound evaluator unit
//   - Getter / Setter: the closures produced by the evaluator
//   - ASTNode: nodes of the parsed rewritten body
//   - Null: the null literal, distinct from the absence value nil
//   - Error: structured errors with codes
package types

// Getter reads the value of a compiled expression from a scope.
// A missing property anywhere in an accessor chain yields nil, not an error.
type Getter func(scope interface{}) (interface{}, error)

// Setter writes value into the location denoted by a compiled expression.
type Setter func(scope, value interface{}) error

// Expression represents a compiled expression.
//
// An Expression is immutable once built and safe for concurrent use by
// multiple goroutines evaluating against distinct scopes. It holds no
// reference to the per-compilation state used to build it.
type Expression struct {
	source string
	body   string
	paths  []string
	ast    *ASTNode
	get    Getter
	set    Setter
}

// NewExpression creates a new Expression from its parts. set may be nil.
func NewExpression(source, body string, paths []string, ast *ASTNode, get Getter, set Setter) *Expression {
	return &Expression{
		source: source,
		body:   body,
		paths:  paths,
		ast:    ast,
		get:    get,
		set:    set,
	}
}

// Get evaluates the expression against scope.
func (e *Expression) Get(scope interface{}) (interface{}, error) {
	return e.get(scope)
}

// Set assigns value to the location the expression denotes within scope.
// It returns ErrNoSetter if the expression carries no setter.
func (e *Expression) Set(scope, value interface{}) error {
	if e.set == nil {
		return ErrNoSetter
	}
	return e.set(scope, value)
}

// CanSet reports whether the expression carries a setter.
func (e *Expression) CanSet() bool {
	return e.set != nil
}

// Getter returns the getter closure.
func (e *Expression) Getter() Getter {
	return e.get
}

// Setter returns the setter closure, or nil.
func (e *Expression) Setter() Setter {
	return e.set
}

// WithSetter returns a copy of the expression carrying set.
// The receiver is left untouched.
func (e *Expression) WithSetter(set Setter) *Expression {
	c := *e
	c.set = set
	return &c
}

// Source returns the original, unmodified expression text.
func (e *Expression) Source() string {
	return e.source
}

// Body returns the rewritten body the evaluator was built from.
func (e *Expression) Body() string {
	return e.body
}

// Paths returns the accessor paths found in the source, in order of first
// appearance. The returned slice must not be modified.
func (e *Expression) Paths() []string {
	return e.paths
}

// AST returns the parsed body.
func (e *Expression) AST() *ASTNode {
	return e.ast
}

// String returns the original source of the expression.
func (e *Expression) String() string {
	return e.source
}
