package compiler_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/jjsquad/vue/pkg/compiler"
)

var benchScope = map[string]interface{}{
	"user": map[string]interface{}{
		"first": "Ann",
		"last":  "Lee",
		"tags":  []interface{}{"a", "b", "c"},
	},
	"count": 3,
}

const benchExpression = "user.first + ' ' + user.last + (count > 2 ? ' (' + user.tags.length + ')' : '')"

func quietCompiler(b *testing.B) *compiler.Compiler {
	c, err := compiler.New(compiler.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		b.Fatal(err)
	}
	return c
}

// BenchmarkCompileCached measures a compile served from the cache.
func BenchmarkCompileCached(b *testing.B) {
	c := quietCompiler(b)
	if _, err := c.Compile(benchExpression, false); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Compile(benchExpression, false); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkCompileUncached measures the full extract, rewrite and parse path.
func BenchmarkCompileUncached(b *testing.B) {
	c := quietCompiler(b)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Cache().Clear()
		if _, err := c.Compile(benchExpression, false); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkGet measures evaluation of a compiled expression.
func BenchmarkGet(b *testing.B) {
	c := quietCompiler(b)
	expr, err := c.Compile(benchExpression, false)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := expr.Get(benchScope); err != nil {
				b.Error(err)
				return
			}
		}
	})
}
