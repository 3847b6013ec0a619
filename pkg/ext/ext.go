// Package ext provides optional helper functions for template expressions,
// in the spirit of view-layer filters.
//
// The helpers live in sub-packages grouped by category:
//   - extstring   – capitalize, uppercase, camelCase, truncate, pluralize, …
//   - extnumeric  – currency, comma, bytes, ordinal, clamp, median
//   - extarray    – first, last, flatten, chunk, limitBy, filterBy, orderBy
//
// Registered helper names are reserved: a bare identifier with the same name
// in an expression calls the helper instead of reading the scope. Register
// only the categories a template needs.
//
// # Integration – all helpers at once
//
//	c, err := compiler.New(ext.WithAll())
//	expr, _ := c.Compile("currency(total, '€')", false)
//
// # Integration – by category
//
//	c, err := compiler.New(ext.WithString(), ext.WithArray())
//
// # Integration – single helper from a sub-package
//
//	import "github.com/jjsquad/vue/pkg/ext/extstring"
//
//	c, err := compiler.New(compiler.WithFunctions(extstring.Pluralize()))
package ext

import (
	"github.com/jjsquad/vue/pkg/compiler"
	"github.com/jjsquad/vue/pkg/ext/extarray"
	"github.com/jjsquad/vue/pkg/ext/extnumeric"
	"github.com/jjsquad/vue/pkg/ext/extstring"
	"github.com/jjsquad/vue/pkg/functions"
)

// All returns every helper definition.
func All() []functions.FunctionDef {
	var all []functions.FunctionDef
	all = append(all, extstring.All()...)
	all = append(all, extnumeric.All()...)
	all = append(all, extarray.All()...)
	return all
}

// WithAll returns a compiler option that registers every helper.
func WithAll() compiler.Option {
	return compiler.WithFunctions(All()...)
}

// WithString returns a compiler option for the string helpers.
func WithString() compiler.Option {
	return compiler.WithFunctions(extstring.All()...)
}

// WithNumeric returns a compiler option for the numeric helpers.
func WithNumeric() compiler.Option {
	return compiler.WithFunctions(extnumeric.All()...)
}

// WithArray returns a compiler option for the array helpers.
func WithArray() compiler.Option {
	return compiler.WithFunctions(extarray.All()...)
}
