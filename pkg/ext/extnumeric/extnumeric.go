// Package extnumeric provides number formatting and aggregate helpers for
// template expressions.
package extnumeric

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jjsquad/vue/pkg/ext/extutil"
	"github.com/jjsquad/vue/pkg/functions"
)

// All returns all numeric helper definitions.
func All() []functions.FunctionDef {
	return []functions.FunctionDef{
		Currency(),
		Comma(),
		Bytes(),
		Ordinal(),
		Clamp(),
		Median(),
	}
}

func def(name string, fn functions.CustomFunc) functions.FunctionDef {
	return functions.FunctionDef{Name: name, Fn: fn}
}

// finite converts v to a finite number, reporting false for anything else.
func finite(v interface{}) (float64, bool) {
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	f, err := extutil.ToFloat(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Currency returns the definition for currency(value [, symbol [, decimals]]).
// The symbol defaults to "$" and decimals to 2; the integer part is grouped
// by thousands. Values that are not finite numbers render as "".
func Currency() functions.FunctionDef {
	return def("currency", func(args ...interface{}) (interface{}, error) {
		v, ok := finite(extutil.Arg(args, 0))
		if !ok {
			return "", nil
		}
		symbol := "$"
		if s := extutil.Arg(args, 1); s != nil {
			symbol = extutil.ToString(s)
		}
		decimals := 2
		if d := extutil.Arg(args, 2); d != nil {
			n, ok := extutil.ToInt(d)
			if !ok || n < 0 {
				return nil, fmt.Errorf("currency: decimals must be a non-negative number")
			}
			decimals = n
		}

		sign := ""
		if v < 0 {
			sign = "-"
			v = -v
		}
		fixed := strconv.FormatFloat(v, 'f', decimals, 64)
		intPart, frac, _ := strings.Cut(fixed, ".")
		whole, _ := strconv.ParseFloat(intPart, 64)

		out := sign + symbol + humanize.Commaf(whole)
		if frac != "" {
			out += "." + frac
		}
		return out, nil
	})
}

// Comma returns the definition for comma(value).
// comma(1234567.5) renders "1,234,567.5".
func Comma() functions.FunctionDef {
	return def("comma", func(args ...interface{}) (interface{}, error) {
		v, ok := finite(extutil.Arg(args, 0))
		if !ok {
			return "", nil
		}
		return humanize.Commaf(v), nil
	})
}

// Bytes returns the definition for bytes(size).
// bytes(82854982) renders "83 MB".
func Bytes() functions.FunctionDef {
	return def("bytes", func(args ...interface{}) (interface{}, error) {
		v, ok := finite(extutil.Arg(args, 0))
		if !ok || v < 0 {
			return nil, fmt.Errorf("bytes: size must be a non-negative number")
		}
		return humanize.Bytes(uint64(v)), nil
	})
}

// Ordinal returns the definition for ordinal(n).
// ordinal(3) renders "3rd".
func Ordinal() functions.FunctionDef {
	return def("ordinal", func(args ...interface{}) (interface{}, error) {
		n, ok := extutil.ToInt(extutil.Arg(args, 0))
		if !ok {
			return nil, fmt.Errorf("ordinal: argument must be a number")
		}
		return humanize.Ordinal(n), nil
	})
}

// Clamp returns the definition for clamp(n, min, max).
func Clamp() functions.FunctionDef {
	return def("clamp", func(args ...interface{}) (interface{}, error) {
		var nums [3]float64
		for i := range nums {
			f, err := extutil.ToFloat(extutil.Arg(args, i))
			if err != nil {
				return nil, fmt.Errorf("clamp: %w", err)
			}
			nums[i] = f
		}
		n, lo, hi := nums[0], nums[1], nums[2]
		if n < lo {
			return lo, nil
		}
		if n > hi {
			return hi, nil
		}
		return n, nil
	})
}

// Median returns the definition for median(array).
// The median of an empty array is undefined.
func Median() functions.FunctionDef {
	return def("median", func(args ...interface{}) (interface{}, error) {
		arr, err := extutil.ToArray(extutil.Arg(args, 0))
		if err != nil {
			return nil, fmt.Errorf("median: %w", err)
		}
		if len(arr) == 0 {
			return nil, nil
		}
		sorted := make([]float64, len(arr))
		for i, item := range arr {
			if sorted[i], err = extutil.ToFloat(item); err != nil {
				return nil, fmt.Errorf("median: %w", err)
			}
		}
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			return (sorted[mid-1] + sorted[mid]) / 2, nil
		}
		return sorted[mid], nil
	})
}
