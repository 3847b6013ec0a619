package compiler_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/matryer/is"

	"github.com/jjsquad/vue/pkg/cache"
	"github.com/jjsquad/vue/pkg/compiler"
	"github.com/jjsquad/vue/pkg/functions"
	"github.com/jjsquad/vue/pkg/types"
)

type obj = map[string]interface{}

// recorder is a slog.Handler that keeps every record it receives.
type recorder struct {
	mu      sync.Mutex
	records []slog.Record
}

func (r *recorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *recorder) Handle(_ context.Context, rec slog.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec.Clone())
	return nil
}

func (r *recorder) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *recorder) WithGroup(string) slog.Handler      { return r }

func (r *recorder) at(level slog.Level) []slog.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []slog.Record
	for _, rec := range r.records {
		if rec.Level == level {
			out = append(out, rec)
		}
	}
	return out
}

func attrs(rec slog.Record) map[string]string {
	m := map[string]string{}
	rec.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value.String()
		return true
	})
	return m
}

func newCompiler(t *testing.T, opts ...compiler.Option) (*compiler.Compiler, *recorder) {
	t.Helper()
	rec := &recorder{}
	c, err := compiler.New(append([]compiler.Option{compiler.WithLogger(slog.New(rec))}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return c, rec
}

func TestCompileEvaluates(t *testing.T) {
	is := is.New(t)
	c, _ := newCompiler(t)

	expr, err := c.Compile("1 + 1", false)
	is.NoErr(err)
	v, err := expr.Get(obj{})
	is.NoErr(err)
	is.Equal(v, 2.0)
	is.Equal(expr.Body(), "1 + 1")
	is.Equal(len(expr.Paths()), 0)

	expr, err = c.Compile("a + 1", false)
	is.NoErr(err)
	is.Equal(expr.Body(), "scope.a + 1")
	is.Equal(expr.Paths(), []string{"a"})

	v, err = expr.Get(obj{"a": 5})
	is.NoErr(err)
	is.Equal(v, 6.0)

	v, err = expr.Get(obj{"a": "x"})
	is.NoErr(err)
	is.Equal(v, "x1")

	expr, err = c.Compile("missing.path", false)
	is.NoErr(err)
	v, err = expr.Get(obj{})
	is.NoErr(err)
	is.Equal(v, nil)
}

func TestCompileSetter(t *testing.T) {
	is := is.New(t)
	c, rec := newCompiler(t)

	expr, err := c.Compile("a.b", true)
	is.NoErr(err)
	is.True(expr.CanSet())

	scope := obj{"a": obj{"b": 1}}
	is.NoErr(expr.Set(scope, 2))
	v, err := expr.Get(scope)
	is.NoErr(err)
	is.Equal(v, 2)
	is.Equal(len(rec.at(slog.LevelWarn)), 0)
}

func TestCompileWithoutSetter(t *testing.T) {
	is := is.New(t)
	c, _ := newCompiler(t)

	expr, err := c.Compile("a.b", false)
	is.NoErr(err)
	is.True(!expr.CanSet())
	is.True(errors.Is(expr.Set(obj{}, 1), types.ErrNoSetter))
}

func TestCompileCacheIdentity(t *testing.T) {
	is := is.New(t)
	c, _ := newCompiler(t)

	first, err := c.Compile("user.name", false)
	is.NoErr(err)
	second, err := c.Compile("user.name", false)
	is.NoErr(err)
	is.True(first == second)
	is.Equal(c.Cache().Stats().Hits, uint64(1))

	// Keys are the exact text.
	spaced, err := c.Compile(" user.name", false)
	is.NoErr(err)
	is.True(spaced != first)
	is.Equal(spaced.Body(), first.Body())
}

func TestCompileSyntaxError(t *testing.T) {
	is := is.New(t)
	c, rec := newCompiler(t)

	_, err := c.Compile("a +", false)
	is.True(err != nil)
	is.Equal(types.CodeOf(err), types.ErrSyntaxError)
	is.True(strings.Contains(err.Error(), `compile "a +"`))

	warnings := rec.at(slog.LevelWarn)
	is.Equal(len(warnings), 1) // exactly one diagnostic
	is.Equal(warnings[0].Message, "invalid expression")
	a := attrs(warnings[0])
	is.Equal(a["expression"], "a +")
	is.Equal(a["body"], "scope.a +")
	is.True(a["error"] != "")

	// Failures are not cached: compiling again reports again.
	is.Equal(c.Cache().Len(), 0)
	_, err = c.Compile("a +", false)
	is.True(err != nil)
	is.Equal(len(rec.at(slog.LevelWarn)), 2)
}

func TestCompileSetterUpgrade(t *testing.T) {
	is := is.New(t)
	c, _ := newCompiler(t)

	plain, err := c.Compile("a.b", false)
	is.NoErr(err)

	withSet, err := c.Compile("a.b", true)
	is.NoErr(err)
	is.True(withSet != plain)
	is.True(withSet.CanSet())
	is.True(!plain.CanSet()) // original untouched

	again, err := c.Compile("a.b", false)
	is.NoErr(err)
	is.True(again == withSet) // upgraded unit replaced the cached one
	is.Equal(c.Cache().Len(), 1)
}

func TestCompileInvalidSetter(t *testing.T) {
	is := is.New(t)
	c, rec := newCompiler(t)

	expr, err := c.Compile("a + 1", true)
	is.NoErr(err) // the getter is still usable
	is.True(!expr.CanSet())
	is.True(errors.Is(expr.Set(obj{}, 1), types.ErrNoSetter))

	v, err := expr.Get(obj{"a": 1})
	is.NoErr(err)
	is.Equal(v, 2.0)

	warnings := rec.at(slog.LevelWarn)
	is.Equal(len(warnings), 1)
	is.Equal(warnings[0].Message, "invalid setter expression")
	is.Equal(attrs(warnings[0])["expression"], "a + 1")
}

func TestCompileSetterInvocationFailure(t *testing.T) {
	is := is.New(t)
	c, _ := newCompiler(t)

	expr, err := c.Compile("a.b.c", true)
	is.NoErr(err)
	err = expr.Set(obj{}, 1)
	is.Equal(types.CodeOf(err), types.ErrCannotSet)
}

func TestCompileEvictionByAccess(t *testing.T) {
	is := is.New(t)
	const capacity = 4
	c, _ := newCompiler(t, compiler.WithCacheSize(capacity))

	var exprs []*types.Expression
	for i := 0; i < capacity; i++ {
		e, err := c.Compile(fmt.Sprintf("v%d + 1", i), false)
		is.NoErr(err)
		exprs = append(exprs, e)
	}

	// Touch the oldest, then overflow the cache by one.
	_, err := c.Compile("v0 + 1", false)
	is.NoErr(err)
	_, err = c.Compile("extra", false)
	is.NoErr(err)

	again, err := c.Compile("v0 + 1", false)
	is.NoErr(err)
	is.True(again == exprs[0]) // still cached

	again, err = c.Compile("v1 + 1", false)
	is.NoErr(err)
	is.True(again != exprs[1]) // evicted and rebuilt
}

func TestCompileSharedCache(t *testing.T) {
	is := is.New(t)

	shared := cache.New(8)
	a, _ := newCompiler(t, compiler.WithCache(shared))
	b, _ := newCompiler(t, compiler.WithCache(shared))

	first, err := a.Compile("x.y", false)
	is.NoErr(err)
	second, err := b.Compile("x.y", false)
	is.NoErr(err)
	is.True(first == second)
	is.True(a.Cache() == b.Cache())
}

func TestCompileFunctions(t *testing.T) {
	is := is.New(t)
	c, _ := newCompiler(t,
		compiler.WithFunction("upper", strings.ToUpper),
		compiler.WithFunctions(functions.FunctionDef{
			Name: "greet",
			Fn: functions.CustomFunc(func(args ...interface{}) (interface{}, error) {
				return fmt.Sprint("Hello, ", args[0], "!"), nil
			}),
		}),
	)

	is.Equal(c.Paths("upper(greet(name))"), []string{"name"})
	is.Equal(c.Rewrite("upper(greet(name))"), "upper(greet(scope.name))")

	v, err := c.Eval("upper(greet(name))", obj{"name": "World"})
	is.NoErr(err)
	is.Equal(v, "HELLO, WORLD!")
	is.Equal(c.Functions().Len(), 2)
}

func TestNewInvalidFunction(t *testing.T) {
	is := is.New(t)

	_, err := compiler.New(compiler.WithFunction("bad name", strings.ToUpper))
	is.True(err != nil)

	defer func() {
		is.True(recover() != nil)
	}()
	compiler.MustNew(compiler.WithFunction("f", 1))
}

func TestEvalError(t *testing.T) {
	is := is.New(t)
	c, _ := newCompiler(t)

	_, err := c.Eval("a()", obj{"a": 1})
	is.Equal(types.CodeOf(err), types.ErrInvokeNonFunction)
	is.True(strings.Contains(err.Error(), `evaluate "a()"`))
}

func TestCompileDebugLogging(t *testing.T) {
	is := is.New(t)
	c, rec := newCompiler(t, compiler.WithDebug(true))

	_, err := c.Compile("a.b", false)
	is.NoErr(err)
	_, err = c.Compile("a.b", false)
	is.NoErr(err)

	var messages []string
	for _, r := range rec.at(slog.LevelDebug) {
		messages = append(messages, r.Message)
	}
	is.True(strings.Contains(strings.Join(messages, ","), "rewrote expression"))
	is.True(strings.Contains(strings.Join(messages, ","), "cache hit"))
}

func TestCompileConcurrent(t *testing.T) {
	c, _ := newCompiler(t, compiler.WithCacheSize(16))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				n := (g + i) % 24
				expr, err := c.Compile(fmt.Sprintf("n%d * 2", n), i%3 == 0)
				if err != nil {
					t.Errorf("compile: %v", err)
					return
				}
				v, err := expr.Get(obj{fmt.Sprintf("n%d", n): n})
				if err != nil {
					t.Errorf("get: %v", err)
					return
				}
				if v != float64(n*2) {
					t.Errorf("n%d * 2 = %v", n, v)
				}
			}
		}(g)
	}
	wg.Wait()

	if c.Cache().Len() > 16 {
		t.Fatalf("cache exceeded capacity: %d", c.Cache().Len())
	}
}
