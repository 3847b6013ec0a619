package parser

// Package parser turns a rewritten expression body into an AST.
//
// The parser uses a hand-written Pratt ("Top Down Operator Precedence")
// parser for a small JavaScript-like expression language: literals,
// identifier and member chains, calls, array and object literals, unary,
// binary, logical and conditional operators, and assignments.
//
// # Architecture
//
// The parser consists of two components:
//   - Lexer: Tokenizes the body into a stream of tokens
//   - Parser: Builds an Abstract Syntax Tree (AST) from tokens
//
// # Example
//
//	ast, err := parser.Parse("scope.a.b(scope.c) + 1")
//	if err != nil {
//	    log.Fatal(err)
//	}

import (
	"github.com/jjsquad/vue/pkg/types"
)

// Parse parses an expression body and returns the root AST node.
//
// If parsing fails, it returns a *types.Error with position information.
func Parse(body string, opts ...CompileOption) (*types.ASTNode, error) {
	p := NewParser(body, opts...)
	return p.Parse()
}

// CompileOption configures parsing behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// MaxDepth limits nesting depth to prevent stack overflow.
	MaxDepth int
}

// WithMaxDepth sets the maximum parsing depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}
