// Package extutil provides shared argument helpers for the ext sub-packages.
package extutil

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/jjsquad/vue/pkg/types"
)

// Arg returns args[i]. An omitted argument and null both read as nil.
func Arg(args []interface{}, i int) interface{} {
	if i >= len(args) {
		return nil
	}
	if _, ok := args[i].(types.Null); ok {
		return nil
	}
	return args[i]
}

// ToFloat converts a numeric argument of any Go numeric kind to float64.
func ToFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case nil:
		return 0, fmt.Errorf("expected a number, got undefined")
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}

// ToInt converts a numeric argument to int, truncating toward zero.
func ToInt(v interface{}) (int, bool) {
	f, err := ToFloat(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// ToString renders a scalar argument as text. Undefined and null render as
// the empty string.
func ToString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case fmt.Stringer:
		return s.String()
	}
	if f, err := ToFloat(v); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if reflect.ValueOf(v).Kind() == reflect.Ptr && reflect.ValueOf(v).IsNil() {
		return ""
	}
	return fmt.Sprint(v)
}

// ToArray converts a slice or array argument to []interface{}. Undefined
// yields an empty array.
func ToArray(v interface{}) ([]interface{}, error) {
	switch a := v.(type) {
	case nil:
		return []interface{}{}, nil
	case []interface{}:
		return a, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]interface{}, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected an array, got %T", v)
	}
}

// Field reads key from a map value. It reports false for anything that is
// not a string-keyed map or lacks the key.
func Field(v interface{}, key string) (interface{}, bool) {
	if m, ok := v.(map[string]interface{}); ok {
		val, ok := m[key]
		return val, ok
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	val := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !val.IsValid() {
		return nil, false
	}
	return val.Interface(), true
}
