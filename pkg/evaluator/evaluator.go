// Package evaluator synthesizes getter and setter closures from rewritten
// expression bodies.
//
// A body is parsed once into an AST; the returned closures walk that AST
// against the scope bound to the identifier "scope" (also reachable as
// "this"). Operators follow JavaScript semantics for the subset the parser
// accepts:
//   - Member access on maps, slices, strings and Go structs (fields, then methods)
//   - Loose and strict equality, string concatenation with "+"
//   - Short-circuit && and || returning operand values
//   - Calls to helper functions, globals such as Math and JSON, and Go methods
//
// A missing property anywhere in an accessor chain evaluates to nil.
//
// # Example
//
//	get, _, err := evaluator.MakeGetter("scope.a.b + 1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v, _ := get(map[string]interface{}{"a": map[string]interface{}{"b": 2}})
//	// v == 3.0
//
// # Concurrency
//
// Getters and setters are safe for concurrent use. A setter mutates the
// scope it is given; callers synchronize access to shared scopes.
package evaluator

import (
	"log/slog"

	"github.com/jjsquad/vue/pkg/functions"
	"github.com/jjsquad/vue/pkg/parser"
	"github.com/jjsquad/vue/pkg/types"
)

// Identifiers bound to the scope during evaluation.
const (
	ScopeIdent = "scope"
	ThisIdent  = "this"
)

// Evaluator builds getters and setters for expression bodies.
// It is immutable after New and may be shared between goroutines.
type Evaluator struct {
	opts   Options
	logger *slog.Logger
}

// Options configures evaluator behavior.
type Options struct {
	// MaxDepth limits the nesting depth of parsed bodies.
	MaxDepth int
	// Functions are helper functions callable by name from expressions.
	Functions *functions.Registry
	// Debug enables debug logging of parsed bodies.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Options)

// WithMaxDepth sets the maximum nesting depth of a body.
func WithMaxDepth(depth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = depth
	}
}

// WithFunctions makes the functions of r callable from expressions.
func WithFunctions(r *functions.Registry) Option {
	return func(opts *Options) {
		opts.Functions = r
	}
}

// WithDebug enables debug logging.
func WithDebug(enabled bool) Option {
	return func(opts *Options) {
		opts.Debug = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// New creates a new Evaluator.
func New(opts ...Option) *Evaluator {
	options := Options{
		MaxDepth: 100,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	return &Evaluator{
		opts:   options,
		logger: options.Logger,
	}
}

// MakeGetter parses body with a default evaluator and returns its getter.
func MakeGetter(body string, opts ...Option) (types.Getter, *types.ASTNode, error) {
	return New(opts...).MakeGetter(body)
}

// MakeSetter parses body with a default evaluator and returns its setter.
func MakeSetter(body string, opts ...Option) (types.Setter, error) {
	return New(opts...).MakeSetter(body)
}

// Parse parses body with the evaluator's depth limit.
func (e *Evaluator) Parse(body string) (*types.ASTNode, error) {
	ast, err := parser.Parse(body, parser.WithMaxDepth(e.opts.MaxDepth))
	if err != nil {
		return nil, err
	}
	if e.opts.Debug {
		e.logger.Debug("parsed body", "body", body, "root", ast.Type)
	}
	return ast, nil
}

// MakeGetter parses body and returns a getter walking the resulting AST.
func (e *Evaluator) MakeGetter(body string) (types.Getter, *types.ASTNode, error) {
	ast, err := e.Parse(body)
	if err != nil {
		return nil, nil, err
	}
	return e.Getter(ast), ast, nil
}

// MakeSetter parses body and returns a setter assigning to the location the
// body denotes. It fails with ErrNotAssignable when the body is not a
// property reference rooted in the scope.
func (e *Evaluator) MakeSetter(body string) (types.Setter, error) {
	ast, err := e.Parse(body)
	if err != nil {
		return nil, err
	}
	return e.Setter(ast)
}

// Getter returns a getter for an already parsed body.
func (e *Evaluator) Getter(ast *types.ASTNode) types.Getter {
	return func(scope interface{}) (interface{}, error) {
		result, err := e.evalNode(ast, scope)
		if err != nil {
			return nil, err
		}
		return convertNullToNil(result), nil
	}
}

// Setter returns a setter for an already parsed body.
func (e *Evaluator) Setter(ast *types.ASTNode) (types.Setter, error) {
	if err := checkTarget(ast); err != nil {
		return nil, err
	}
	return func(scope, value interface{}) error {
		return e.assign(ast, scope, value)
	}, nil
}

// checkTarget verifies that node can be assigned to: a member access whose
// chain does not start at a global.
func checkTarget(node *types.ASTNode) error {
	if node == nil || node.Type != types.NodeMember {
		pos := -1
		if node != nil {
			pos = node.Position
		}
		return types.NewError(types.ErrNotAssignable, "Expression is not assignable", pos)
	}
	if root := node.Root(); root != nil && !isScopeIdent(root.StrValue) {
		return types.NewError(types.ErrNotAssignable,
			"Cannot assign to a property of "+root.StrValue, root.Position).WithToken(root.StrValue)
	}
	return nil
}

func isScopeIdent(name string) bool {
	return name == ScopeIdent || name == ThisIdent
}

// convertNullToNil converts a top-level null to nil, the single absence value
// seen by callers.
func convertNullToNil(value interface{}) interface{} {
	if _, ok := value.(types.Null); ok {
		return nil
	}
	return value
}
