package evaluator

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/jjsquad/vue/pkg/functions"
	"github.com/jjsquad/vue/pkg/types"
)

// isTruthy reports whether value is truthy: false, 0, NaN, "", null and
// undefined are falsy, everything else (including empty slices and maps)
// is truthy.
func isTruthy(value interface{}) bool {
	switch v := value.(type) {
	case nil, types.Null:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	case int:
		return v != 0
	}

	switch classify(value) {
	case classNull:
		return false
	case classBoolean:
		return reflect.ValueOf(value).Bool()
	case classNumber:
		f, _ := toFloat(value)
		return f != 0 && !math.IsNaN(f)
	case classString:
		return reflect.ValueOf(value).String() != ""
	default:
		return true
	}
}

// toFloat returns the value of a Go number of any kind as float64.
func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case int16:
		return float64(v), true
	case int8:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint8:
		return float64(v), true
	case float32:
		return float64(v), true
	case nil, bool, string, types.Null, map[string]interface{}, []interface{}:
		return 0, false
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// asString returns the value of a Go string of any named string type.
func asString(value interface{}) (string, bool) {
	if s, ok := value.(string); ok {
		return s, true
	}
	if value == nil {
		return "", false
	}
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// toNumber converts a value to a number: undefined is NaN, null and false
// are 0, true is 1, strings are parsed and anything unparsable is NaN.
func toNumber(value interface{}) float64 {
	if f, ok := toFloat(value); ok {
		return f
	}

	switch classify(value) {
	case classUndefined:
		return math.NaN()
	case classNull:
		return 0
	case classBoolean:
		if reflect.ValueOf(value).Bool() {
			return 1
		}
		return 0
	case classString:
		s, _ := asString(value)
		return parseNumber(s)
	case classObject:
		if p := toPrimitive(value); classify(p) == classString {
			return toNumber(p)
		}
	}
	return math.NaN()
}

// parseNumber converts the whole of s to a number the way Number(s) does.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		n, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}

	// strconv accepts forms such as "inf", "0x1p-2" and "1_000" that are
	// not numbers here.
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9', c == '.', c == 'e', c == 'E', c == '+', c == '-':
		default:
			return math.NaN()
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// formatNumber formats a number the way JavaScript's Number#toString does.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		digits := strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + exp[:1] + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// toString converts a value to its string form as String(value) would.
func toString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return "undefined"
	case types.Null:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatNumber(v)
	case []interface{}:
		return joinValues(v)
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	}

	switch classify(value) {
	case classNull:
		return "null"
	case classNumber:
		f, _ := toFloat(value)
		return formatNumber(f)
	case classString:
		s, _ := asString(value)
		return s
	case classBoolean:
		return strconv.FormatBool(reflect.ValueOf(value).Bool())
	case classFunction:
		return "function"
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		items := make([]interface{}, rv.Len())
		for i := range items {
			items[i] = fromReflect(rv.Index(i))
		}
		return joinValues(items)
	}
	return "[object Object]"
}

// joinValues joins array elements with commas; null and undefined elements
// become empty strings.
func joinValues(items []interface{}) string {
	buf := acquireBuf()
	defer releaseBuf(buf)

	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		if c := classify(item); c != classUndefined && c != classNull {
			buf.WriteString(toString(item))
		}
	}
	return buf.String()
}

// toPrimitive reduces arrays and objects to their string form and leaves
// primitive values untouched.
func toPrimitive(value interface{}) interface{} {
	switch classify(value) {
	case classObject, classFunction:
		return toString(value)
	default:
		return value
	}
}

// typeOf implements the typeof operator.
func typeOf(value interface{}) string {
	switch classify(value) {
	case classUndefined:
		return "undefined"
	case classBoolean:
		return "boolean"
	case classNumber:
		return "number"
	case classString:
		return "string"
	case classFunction:
		return "function"
	default:
		return "object"
	}
}

// isFunction reports whether value can be called from an expression.
func isFunction(value interface{}) bool {
	switch value.(type) {
	case builtinFunc, functions.CustomFunc:
		return true
	case nil:
		return false
	}
	rv := reflect.ValueOf(value)
	return rv.Kind() == reflect.Func && !rv.IsNil()
}

// propertyKey converts an evaluated computed property to a key string.
func propertyKey(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return toString(value)
}

// storable converts a value for storage in a map or slice built by the
// evaluator. Null is stored as a Go nil, which reads back as null.
func storable(value interface{}) interface{} {
	if _, ok := value.(types.Null); ok {
		return nil
	}
	return value
}

// normalize converts a stored Go value to its evaluator form: nil and typed
// nil pointers, maps, slices and functions read as null.
func normalize(value interface{}) interface{} {
	switch value.(type) {
	case nil:
		return types.NullValue
	case string, float64, bool, int, map[string]interface{}, []interface{}:
		return value
	}
	return fromReflect(reflect.ValueOf(value))
}

// fromReflect unwraps a reflect.Value read from a scope.
func fromReflect(v reflect.Value) interface{} {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return types.NullValue
		}
	}
	if !v.CanInterface() {
		return nil
	}
	return v.Interface()
}
