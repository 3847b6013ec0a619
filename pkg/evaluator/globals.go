package evaluator

import (
	"encoding/json"
	"math"
	"math/rand"
	"strings"

	"github.com/jjsquad/vue/pkg/types"
)

// globals are the identifiers every expression can reference without the
// scope prefix. The map and the objects in it are never mutated; assignment
// to a global is rejected by checkTarget.
var globals = map[string]interface{}{
	"Math":       mathObject,
	"JSON":       jsonObject,
	"NaN":        math.NaN(),
	"Infinity":   math.Inf(1),
	"isNaN":      builtinFunc(fnIsNaN),
	"isFinite":   builtinFunc(fnIsFinite),
	"parseInt":   builtinFunc(fnParseInt),
	"parseFloat": builtinFunc(fnParseFloat),
	"String":     builtinFunc(fnString),
	"Number":     builtinFunc(fnNumber),
	"Boolean":    builtinFunc(fnBoolean),
}

// GlobalNames returns the names of the built-in globals.
func GlobalNames() []string {
	names := make([]string, 0, len(globals))
	for name := range globals {
		names = append(names, name)
	}
	return names
}

var mathObject = map[string]interface{}{
	"PI":     math.Pi,
	"E":      math.E,
	"LN2":    math.Ln2,
	"LN10":   math.Ln10,
	"SQRT2":  math.Sqrt2,
	"abs":    math1(math.Abs),
	"ceil":   math1(math.Ceil),
	"floor":  math1(math.Floor),
	"sqrt":   math1(math.Sqrt),
	"trunc":  math1(math.Trunc),
	"log":    math1(math.Log),
	"exp":    math1(math.Exp),
	"round":  math1(jsRound),
	"sign":   math1(jsSign),
	"pow":    builtinFunc(fnPow),
	"max":    builtinFunc(fnMax),
	"min":    builtinFunc(fnMin),
	"random": builtinFunc(fnRandom),
}

var jsonObject = map[string]interface{}{
	"stringify": builtinFunc(fnStringify),
	"parse":     builtinFunc(fnParse),
}

// argNumber returns argument i as a number; a missing argument is NaN.
func argNumber(args []interface{}, i int) float64 {
	if i >= len(args) {
		return math.NaN()
	}
	return toNumber(args[i])
}

func math1(f func(float64) float64) builtinFunc {
	return func(args []interface{}) (interface{}, error) {
		return f(argNumber(args, 0)), nil
	}
}

// jsRound rounds half up, towards +Infinity.
func jsRound(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return math.Floor(x + 0.5)
}

func jsSign(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return x
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return x
	}
}

func fnPow(args []interface{}) (interface{}, error) {
	return math.Pow(argNumber(args, 0), argNumber(args, 1)), nil
}

func fnMax(args []interface{}) (interface{}, error) {
	result := math.Inf(-1)
	for i := range args {
		n := argNumber(args, i)
		if math.IsNaN(n) {
			return n, nil
		}
		result = math.Max(result, n)
	}
	return result, nil
}

func fnMin(args []interface{}) (interface{}, error) {
	result := math.Inf(1)
	for i := range args {
		n := argNumber(args, i)
		if math.IsNaN(n) {
			return n, nil
		}
		result = math.Min(result, n)
	}
	return result, nil
}

func fnRandom([]interface{}) (interface{}, error) {
	return rand.Float64(), nil
}

func fnIsNaN(args []interface{}) (interface{}, error) {
	return math.IsNaN(argNumber(args, 0)), nil
}

func fnIsFinite(args []interface{}) (interface{}, error) {
	n := argNumber(args, 0)
	return !math.IsNaN(n) && !math.IsInf(n, 0), nil
}

func fnString(args []interface{}) (interface{}, error) {
	if len(args) == 0 {
		return "", nil
	}
	return toString(args[0]), nil
}

func fnNumber(args []interface{}) (interface{}, error) {
	if len(args) == 0 {
		return 0.0, nil
	}
	return toNumber(args[0]), nil
}

func fnBoolean(args []interface{}) (interface{}, error) {
	return len(args) > 0 && isTruthy(args[0]), nil
}

const jsWhitespace = " \t\n\r\v\f"

// fnParseInt parses the longest integer prefix of its first argument in the
// given radix (2-36, default 10, or 16 for a 0x prefix).
func fnParseInt(args []interface{}) (interface{}, error) {
	var s string
	if len(args) > 0 {
		s = toString(args[0])
	}
	s = strings.TrimLeft(s, jsWhitespace)

	sign := 1.0
	if s != "" && (s[0] == '-' || s[0] == '+') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}

	radix := 0
	if len(args) > 1 {
		if r := toNumber(args[1]); !math.IsNaN(r) && !math.IsInf(r, 0) {
			radix = int(r)
		}
	}
	if radix != 0 && (radix < 2 || radix > 36) {
		return math.NaN(), nil
	}
	if (radix == 0 || radix == 16) && len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
		radix = 16
	}
	if radix == 0 {
		radix = 10
	}

	var result float64
	digits := 0
	for i := 0; i < len(s); i++ {
		d := digitValue(s[i])
		if d >= radix {
			break
		}
		result = result*float64(radix) + float64(d)
		digits++
	}
	if digits == 0 {
		return math.NaN(), nil
	}
	return sign * result, nil
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 99
	}
}

var floatPrefix = mustCompileRegex(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

// fnParseFloat parses the longest decimal prefix of its first argument.
func fnParseFloat(args []interface{}) (interface{}, error) {
	var s string
	if len(args) > 0 {
		s = toString(args[0])
	}
	m := floatPrefix.FindString(strings.TrimLeft(s, jsWhitespace))
	if m == "" {
		return math.NaN(), nil
	}
	return parseNumber(m), nil
}

// fnStringify implements JSON.stringify(value[, replacer[, indent]]).
// Functions and undefined stringify to undefined.
func fnStringify(args []interface{}) (interface{}, error) {
	if len(args) == 0 {
		return nil, nil
	}
	switch classify(args[0]) {
	case classUndefined, classFunction:
		return nil, nil
	}

	indent := ""
	if len(args) > 2 {
		switch v := args[2].(type) {
		case string:
			indent = v
		default:
			if n := toNumber(v); n >= 1 {
				indent = strings.Repeat(" ", int(math.Min(n, 10)))
			}
		}
	}

	buf := acquireBuf()
	defer releaseBuf(buf)

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(args[0]); err != nil {
		return nil, err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// fnParse implements JSON.parse(text).
func fnParse(args []interface{}) (interface{}, error) {
	var s string
	if len(args) > 0 {
		s = toString(args[0])
	}
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	if v == nil {
		return types.NullValue, nil
	}
	return v, nil
}

