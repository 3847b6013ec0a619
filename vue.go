// Package vue compiles template expressions into scope-bound evaluators.
//
// An expression is a JavaScript-like snippet as written inside a template,
// for example "user.first + ' ' + user.last" or "items.length > 0". Every
// accessor path it reads is resolved against a scope value supplied at
// evaluation time: a map, a struct or a pointer to one.
//
// # Quick Start
//
//	// Simple evaluation
//	v, err := vue.Eval("user.name", scope)
//
//	// Compile once, evaluate many times
//	expr, err := vue.Compile("items.length > 0", false)
//	v1, _ := expr.Get(scope1)
//	v2, _ := expr.Get(scope2)
//
//	// Two-way binding
//	expr, err = vue.Compile("form.email", true)
//	err = expr.Set(scope, "x@y.z")
//
// Compiled expressions are cached by text in a process-wide LRU cache of
// 1000 entries. Use package compiler directly for a private cache, helper
// functions or a custom logger.
//
// # More Information
//
// For detailed documentation, see:
//   - Compiler: github.com/jjsquad/vue/pkg/compiler
//   - Path extraction and rewriting: github.com/jjsquad/vue/pkg/paths
//   - Evaluator: github.com/jjsquad/vue/pkg/evaluator
//   - Types: github.com/jjsquad/vue/pkg/types
package vue

import (
	"fmt"
	"sync"

	"github.com/jjsquad/vue/pkg/compiler"
	"github.com/jjsquad/vue/pkg/types"
)

var (
	defaultOnce     sync.Once
	defaultCompiler *compiler.Compiler
)

// Version returns the current version of the module.
func Version() string {
	return "v0.1.0-dev"
}

// Default returns the process-wide compiler used by Compile and Eval.
func Default() *compiler.Compiler {
	defaultOnce.Do(func() {
		defaultCompiler = compiler.MustNew()
	})
	return defaultCompiler
}

// Compile compiles an expression with the default compiler. When needSet is
// true the result also carries a setter if the expression is assignable.
//
// The compiled expression is safe for concurrent use.
//
// Example:
//
//	expr, err := vue.Compile("a.b", true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = expr.Set(scope, 2)
func Compile(text string, needSet bool) (*types.Expression, error) {
	return Default().Compile(text, needSet)
}

// MustCompile is like Compile without a setter but panics if the expression
// cannot be compiled. It simplifies safe initialization of global variables.
func MustCompile(text string) *types.Expression {
	expr, err := Compile(text, false)
	if err != nil {
		panic(fmt.Sprintf("vue: Compile(%q): %v", text, err))
	}
	return expr
}

// Eval is a convenience function that compiles and evaluates an expression
// in a single call.
//
// Example:
//
//	v, err := vue.Eval("a + 1", map[string]interface{}{"a": 5})
//	// v == 6.0
func Eval(text string, scope interface{}) (interface{}, error) {
	return Default().Eval(text, scope)
}
