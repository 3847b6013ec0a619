// Package compiler turns template expression text into cached, scope-bound
// evaluators.
//
// Compile runs the pipeline:
//  1. look the text up in the LRU cache
//  2. extract the accessor paths the text reads
//  3. rewrite every path to read from the scope (scope.a.b)
//  4. parse the rewritten body into a getter, and a setter when requested
//  5. store the compiled expression under the original text
//
// A text that fails to parse is reported once per Compile call on the
// configured logger and is never cached.
//
// # Example
//
//	c, _ := compiler.New(compiler.WithCacheSize(500))
//	expr, err := c.Compile("user.first + ' ' + user.last", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v, _ := expr.Get(scope)
package compiler

import (
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/jjsquad/vue/pkg/cache"
	"github.com/jjsquad/vue/pkg/evaluator"
	"github.com/jjsquad/vue/pkg/functions"
	"github.com/jjsquad/vue/pkg/paths"
	"github.com/jjsquad/vue/pkg/types"
)

// Compiler compiles expression text. It is safe for concurrent use.
type Compiler struct {
	opts      Options
	logger    *slog.Logger
	cache     *cache.Cache
	eval      *evaluator.Evaluator
	functions *functions.Registry
	reserved  func(string) bool
}

// Options configures a Compiler.
type Options struct {
	// Cache is the compilation cache. If nil, a new cache of CacheSize
	// entries is created.
	Cache *cache.Cache
	// CacheSize sets the capacity of the cache created when Cache is nil.
	// Defaults to cache.DefaultCapacity.
	CacheSize int
	// MaxDepth limits the nesting depth of expressions.
	MaxDepth int
	// Functions are helper functions callable from expressions by bare name.
	Functions []functions.FunctionDef
	// Debug enables debug logging of extracted paths and rewritten bodies.
	Debug bool
	// Logger receives diagnostics for expressions that fail to compile.
	Logger *slog.Logger
}

// Option configures a Compiler.
type Option func(*Options)

// WithCache sets the compilation cache, which may be shared by compilers
// with identical options.
func WithCache(c *cache.Cache) Option {
	return func(opts *Options) {
		opts.Cache = c
	}
}

// WithCacheSize sets the capacity of the compiler's own cache.
func WithCacheSize(size int) Option {
	return func(opts *Options) {
		opts.CacheSize = size
	}
}

// WithMaxDepth sets the maximum nesting depth of an expression.
func WithMaxDepth(depth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = depth
	}
}

// WithFunction registers a helper function. fn is a functions.CustomFunc or
// any Go function.
func WithFunction(name string, fn interface{}) Option {
	return WithFunctions(functions.FunctionDef{Name: name, Fn: fn})
}

// WithFunctions registers helper functions.
func WithFunctions(defs ...functions.FunctionDef) Option {
	return func(opts *Options) {
		opts.Functions = append(opts.Functions, defs...)
	}
}

// WithDebug enables debug logging.
func WithDebug(enabled bool) Option {
	return func(opts *Options) {
		opts.Debug = enabled
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// New creates a Compiler. It fails if a helper function is invalid.
func New(opts ...Option) (*Compiler, error) {
	options := Options{
		CacheSize: cache.DefaultCapacity,
		MaxDepth:  100,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	reg, err := functions.NewRegistry(options.Functions...)
	if err != nil {
		return nil, errors.Wrap(err, "compiler")
	}

	c := options.Cache
	if c == nil {
		c = cache.New(options.CacheSize)
	}

	return &Compiler{
		opts:   options,
		logger: options.Logger,
		cache:  c,
		eval: evaluator.New(
			evaluator.WithMaxDepth(options.MaxDepth),
			evaluator.WithFunctions(reg),
			evaluator.WithDebug(options.Debug),
			evaluator.WithLogger(options.Logger),
		),
		functions: reg,
		reserved:  paths.ReservedWith(reg.Names()...),
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Compiler {
	c, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Cache returns the compilation cache.
func (c *Compiler) Cache() *cache.Cache {
	return c.cache
}

// Functions returns the helper function registry.
func (c *Compiler) Functions() *functions.Registry {
	return c.functions
}

// Compile returns the compiled expression for text, building and caching it
// on first use. When needSet is true the result carries a setter if text
// denotes an assignable location; a cached expression compiled without one
// is replaced by a copy that has it.
//
// On a syntax error a diagnostic is logged and the error is returned; the
// failure is not cached.
func (c *Compiler) Compile(text string, needSet bool) (*types.Expression, error) {
	if expr, ok := c.cache.Get(text); ok {
		if c.opts.Debug {
			c.logger.Debug("cache hit", "expression", text)
		}
		if needSet && !expr.CanSet() {
			return c.addSetter(text, expr), nil
		}
		return expr, nil
	}

	expr, err := c.build(text, needSet)
	if err != nil {
		return nil, err
	}
	c.cache.Set(text, expr)
	return expr, nil
}

// Eval compiles text and evaluates it against scope.
func (c *Compiler) Eval(text string, scope interface{}) (interface{}, error) {
	expr, err := c.Compile(text, false)
	if err != nil {
		return nil, err
	}
	v, err := expr.Get(scope)
	if err != nil {
		return nil, errors.Wrapf(err, "evaluate %q", text)
	}
	return v, nil
}

// Paths returns the accessor paths text reads, as Compile would extract them.
func (c *Compiler) Paths(text string) []string {
	return paths.ExtractWith(text, c.reserved)
}

// Rewrite returns the body text compiles to.
func (c *Compiler) Rewrite(text string) string {
	body, _ := c.rewrite(text)
	return body
}

func (c *Compiler) rewrite(text string) (string, []string) {
	found := c.Paths(text)
	if len(found) == 0 {
		return strings.TrimSpace(text), nil
	}

	v := paths.AcquireVault()
	defer paths.ReleaseVault(v)
	return paths.Rewrite(text, found, v), found
}

func (c *Compiler) build(text string, needSet bool) (*types.Expression, error) {
	body, found := c.rewrite(text)
	if c.opts.Debug {
		c.logger.Debug("rewrote expression", "expression", text, "paths", found, "body", body)
	}

	get, ast, err := c.eval.MakeGetter(body)
	if err != nil {
		c.logger.Warn("invalid expression", "expression", text, "body", body, "error", err)
		return nil, errors.Wrapf(err, "compile %q", text)
	}

	var set types.Setter
	if needSet {
		set = c.makeSetter(text, body, ast)
	}
	return types.NewExpression(text, body, found, ast, get, set), nil
}

// addSetter replaces a cached expression by a copy carrying a setter.
func (c *Compiler) addSetter(text string, expr *types.Expression) *types.Expression {
	set := c.makeSetter(text, expr.Body(), expr.AST())
	if set == nil {
		return expr
	}
	withSet := expr.WithSetter(set)
	c.cache.Set(text, withSet)
	return withSet
}

// makeSetter builds a setter, logging a diagnostic and returning nil when
// the expression is not assignable.
func (c *Compiler) makeSetter(text, body string, ast *types.ASTNode) types.Setter {
	set, err := c.eval.Setter(ast)
	if err != nil {
		c.logger.Warn("invalid setter expression", "expression", text, "body", body, "error", err)
		return nil
	}
	return set
}
