package cache_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/matryer/is"

	"github.com/jjsquad/vue/pkg/cache"
	"github.com/jjsquad/vue/pkg/types"
)

func newExpr(source string) *types.Expression {
	get := func(interface{}) (interface{}, error) { return source, nil }
	return types.NewExpression(source, source, nil, nil, get, nil)
}

func TestCacheNew(t *testing.T) {
	is := is.New(t)

	c := cache.New(10)
	is.Equal(c.Len(), 0)
	is.Equal(c.Capacity(), 10)
}

func TestCacheDefaultCapacity(t *testing.T) {
	is := is.New(t)

	is.Equal(cache.New(0).Capacity(), 1000)
	is.Equal(cache.New(-5).Capacity(), cache.DefaultCapacity)
}

func TestCacheSetGet(t *testing.T) {
	is := is.New(t)

	c := cache.New(4)
	expr := newExpr("a.b")
	c.Set("a.b", expr)
	is.Equal(c.Len(), 1)

	got, ok := c.Get("a.b")
	is.True(ok)
	is.True(got == expr) // same pointer

	_, ok = c.Get("missing")
	is.True(!ok)
	is.Equal(c.Stats(), cache.Stats{Hits: 1, Misses: 1})
}

func TestCacheSetReplaces(t *testing.T) {
	is := is.New(t)

	c := cache.New(4)
	first, second := newExpr("x"), newExpr("x")
	c.Set("x", first)
	c.Set("x", second)

	got, _ := c.Get("x")
	is.True(got == second)
	is.Equal(c.Len(), 1)
}

func TestCacheLRUEviction(t *testing.T) {
	is := is.New(t)

	c := cache.New(3)
	for _, k := range []string{"a", "b", "c", "d"} {
		c.Set(k, newExpr(k))
	}
	is.Equal(c.Len(), 3)

	_, ok := c.Get("a")
	is.True(!ok) // oldest evicted
	_, ok = c.Get("d")
	is.True(ok)
	is.Equal(c.Stats().Evictions, uint64(1))
}

// Eviction follows access order: a re-read entry survives while the next
// oldest is evicted.
func TestCacheEvictionByAccess(t *testing.T) {
	is := is.New(t)

	const capacity = 5
	c := cache.New(capacity)
	for i := 0; i < capacity; i++ {
		k := fmt.Sprintf("e%d", i)
		c.Set(k, newExpr(k))
	}

	_, ok := c.Get("e0")
	is.True(ok)

	c.Set("new", newExpr("new"))

	_, ok = c.Get("e0")
	is.True(ok) // touched, kept
	_, ok = c.Get("e1")
	is.True(!ok) // second oldest, evicted
	is.Equal(c.Len(), capacity)
}

func TestCacheKeys(t *testing.T) {
	is := is.New(t)

	c := cache.New(3)
	c.Set("a", newExpr("a"))
	c.Set("b", newExpr("b"))
	c.Get("a")
	is.Equal(c.Keys(), []string{"a", "b"})
}

func TestCacheInvalidateAndClear(t *testing.T) {
	is := is.New(t)

	c := cache.New(4)
	c.Set("k", newExpr("k"))
	c.Set("j", newExpr("j"))

	c.Invalidate("k")
	_, ok := c.Get("k")
	is.True(!ok)
	is.Equal(c.Len(), 1)

	c.Clear()
	is.Equal(c.Len(), 0)
	is.Equal(c.Stats(), cache.Stats{})
}

func TestCacheGetOrCompile(t *testing.T) {
	is := is.New(t)

	c := cache.New(4)
	calls := 0
	compile := func() (*types.Expression, error) {
		calls++
		return newExpr("x"), nil
	}

	first, err := c.GetOrCompile("x", compile)
	is.NoErr(err)
	second, err := c.GetOrCompile("x", compile)
	is.NoErr(err)
	is.True(first == second)
	is.Equal(calls, 1)
}

func TestCacheGetOrCompileNoNegativeCaching(t *testing.T) {
	is := is.New(t)

	c := cache.New(4)
	fail := errors.New("bad")
	calls := 0
	compile := func() (*types.Expression, error) {
		calls++
		return nil, fail
	}

	_, err := c.GetOrCompile("bad", compile)
	is.True(errors.Is(err, fail))
	_, err = c.GetOrCompile("bad", compile)
	is.True(errors.Is(err, fail))
	is.Equal(calls, 2)
	is.Equal(c.Len(), 0)
}

func TestCacheConcurrent(t *testing.T) {
	c := cache.New(16)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				k := fmt.Sprintf("k%d", (g*7+i)%32)
				if _, ok := c.Get(k); !ok {
					c.Set(k, newExpr(k))
				}
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > c.Capacity() {
		t.Fatalf("cache grew past capacity: %d > %d", c.Len(), c.Capacity())
	}
	for _, k := range c.Keys() {
		expr, ok := c.Get(k)
		if !ok || expr.Source() != k {
			t.Fatalf("entry %q holds %v", k, expr)
		}
	}
}
