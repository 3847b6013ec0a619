// Package extarray provides list helpers for template expressions, such as
// the limitBy, filterBy and orderBy transforms applied to v-for sources.
package extarray

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jjsquad/vue/pkg/ext/extutil"
	"github.com/jjsquad/vue/pkg/functions"
)

// All returns all array helper definitions.
func All() []functions.FunctionDef {
	return []functions.FunctionDef{
		First(),
		Last(),
		Flatten(),
		Chunk(),
		LimitBy(),
		FilterBy(),
		OrderBy(),
	}
}

func def(name string, fn functions.CustomFunc) functions.FunctionDef {
	return functions.FunctionDef{Name: name, Fn: fn}
}

// First returns the definition for first(array).
func First() functions.FunctionDef {
	return def("first", func(args ...interface{}) (interface{}, error) {
		arr, err := extutil.ToArray(extutil.Arg(args, 0))
		if err != nil {
			return nil, fmt.Errorf("first: %w", err)
		}
		if len(arr) == 0 {
			return nil, nil
		}
		return arr[0], nil
	})
}

// Last returns the definition for last(array).
func Last() functions.FunctionDef {
	return def("last", func(args ...interface{}) (interface{}, error) {
		arr, err := extutil.ToArray(extutil.Arg(args, 0))
		if err != nil {
			return nil, fmt.Errorf("last: %w", err)
		}
		if len(arr) == 0 {
			return nil, nil
		}
		return arr[len(arr)-1], nil
	})
}

// Flatten returns the definition for flatten(array [, depth]).
// Without depth, flattens completely.
func Flatten() functions.FunctionDef {
	return def("flatten", func(args ...interface{}) (interface{}, error) {
		arr, err := extutil.ToArray(extutil.Arg(args, 0))
		if err != nil {
			return nil, fmt.Errorf("flatten: %w", err)
		}
		depth := -1
		if d := extutil.Arg(args, 1); d != nil {
			n, ok := extutil.ToInt(d)
			if !ok {
				return nil, fmt.Errorf("flatten: depth must be a number")
			}
			depth = n
		}
		return flattenArray(arr, depth), nil
	})
}

func flattenArray(arr []interface{}, depth int) []interface{} {
	result := make([]interface{}, 0, len(arr))
	for _, item := range arr {
		inner, ok := item.([]interface{})
		if !ok || depth == 0 {
			result = append(result, item)
			continue
		}
		next := depth - 1
		if depth < 0 {
			next = depth
		}
		result = append(result, flattenArray(inner, next)...)
	}
	return result
}

// Chunk returns the definition for chunk(array, size).
func Chunk() functions.FunctionDef {
	return def("chunk", func(args ...interface{}) (interface{}, error) {
		arr, err := extutil.ToArray(extutil.Arg(args, 0))
		if err != nil {
			return nil, fmt.Errorf("chunk: %w", err)
		}
		size, ok := extutil.ToInt(extutil.Arg(args, 1))
		if !ok || size <= 0 {
			return nil, fmt.Errorf("chunk: size must be a positive integer")
		}
		chunks := make([]interface{}, 0, (len(arr)+size-1)/size)
		for i := 0; i < len(arr); i += size {
			end := i + size
			if end > len(arr) {
				end = len(arr)
			}
			chunks = append(chunks, arr[i:end])
		}
		return chunks, nil
	})
}

// LimitBy returns the definition for limitBy(array, n [, offset]).
// A negative offset counts from the end.
func LimitBy() functions.FunctionDef {
	return def("limitBy", func(args ...interface{}) (interface{}, error) {
		arr, err := extutil.ToArray(extutil.Arg(args, 0))
		if err != nil {
			return nil, fmt.Errorf("limitBy: %w", err)
		}
		n, ok := extutil.ToInt(extutil.Arg(args, 1))
		if !ok {
			return nil, fmt.Errorf("limitBy: limit must be a number")
		}
		offset := 0
		if o := extutil.Arg(args, 2); o != nil {
			if offset, ok = extutil.ToInt(o); !ok {
				return nil, fmt.Errorf("limitBy: offset must be a number")
			}
		}
		start := normaliseIndex(offset, len(arr))
		end := start + n
		if n < 0 || end > len(arr) {
			end = len(arr)
		}
		return arr[start:end], nil
	})
}

// FilterBy returns the definition for filterBy(array, search [, key...]).
// An item matches when any of its scalar values, or of the named keys for
// map items, contains search case-insensitively. An empty search keeps every
// item.
func FilterBy() functions.FunctionDef {
	return def("filterBy", func(args ...interface{}) (interface{}, error) {
		arr, err := extutil.ToArray(extutil.Arg(args, 0))
		if err != nil {
			return nil, fmt.Errorf("filterBy: %w", err)
		}
		search := strings.ToLower(extutil.ToString(extutil.Arg(args, 1)))
		if search == "" {
			return arr, nil
		}
		var keys []string
		for _, k := range args[min(len(args), 2):] {
			keys = append(keys, extutil.ToString(k))
		}

		result := make([]interface{}, 0, len(arr))
		for _, item := range arr {
			if matches(item, search, keys) {
				result = append(result, item)
			}
		}
		return result, nil
	})
}

func matches(item interface{}, search string, keys []string) bool {
	if len(keys) > 0 {
		for _, k := range keys {
			if v, ok := extutil.Field(item, k); ok && contains(v, search) {
				return true
			}
		}
		return false
	}
	return contains(item, search)
}

func contains(v interface{}, search string) bool {
	switch x := v.(type) {
	case nil:
		return false
	case map[string]interface{}:
		for _, item := range x {
			if contains(item, search) {
				return true
			}
		}
		return false
	case []interface{}:
		for _, item := range x {
			if contains(item, search) {
				return true
			}
		}
		return false
	default:
		return strings.Contains(strings.ToLower(extutil.ToString(v)), search)
	}
}

// OrderBy returns the definition for orderBy(array [, key [, order]]).
// Items are compared by the named key, or by value when key is empty or
// omitted. A negative order sorts descending. The sort is stable and the
// input is not modified.
func OrderBy() functions.FunctionDef {
	return def("orderBy", func(args ...interface{}) (interface{}, error) {
		arr, err := extutil.ToArray(extutil.Arg(args, 0))
		if err != nil {
			return nil, fmt.Errorf("orderBy: %w", err)
		}
		key := extutil.ToString(extutil.Arg(args, 1))
		desc := false
		if o := extutil.Arg(args, 2); o != nil {
			n, err := extutil.ToFloat(o)
			if err != nil {
				return nil, fmt.Errorf("orderBy: order must be a number")
			}
			desc = n < 0
		}

		sortKey := func(item interface{}) interface{} {
			if key == "" {
				return item
			}
			v, _ := extutil.Field(item, key)
			return v
		}

		out := make([]interface{}, len(arr))
		copy(out, arr)
		sort.SliceStable(out, func(i, j int) bool {
			a, b := sortKey(out[i]), sortKey(out[j])
			if desc {
				return less(b, a)
			}
			return less(a, b)
		})
		return out, nil
	})
}

// less orders numbers numerically and everything else by its text.
func less(a, b interface{}) bool {
	_, aStr := a.(string)
	_, bStr := b.(string)
	if !aStr && !bStr {
		x, errA := extutil.ToFloat(a)
		y, errB := extutil.ToFloat(b)
		if errA == nil && errB == nil {
			return x < y
		}
	}
	return extutil.ToString(a) < extutil.ToString(b)
}

func normaliseIndex(idx, length int) int {
	if idx < 0 {
		idx = length + idx
	}
	if idx < 0 {
		idx = 0
	}
	if idx > length {
		idx = length
	}
	return idx
}
