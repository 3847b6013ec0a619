// Package extstring provides string formatting helpers for template
// expressions. Register them via compiler.WithFunctions or via the
// top-level ext.WithString() option.
package extstring

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/jjsquad/vue/pkg/ext/extutil"
	"github.com/jjsquad/vue/pkg/functions"
)

// All returns all string helper definitions.
func All() []functions.FunctionDef {
	return []functions.FunctionDef{
		Capitalize(),
		Uppercase(),
		Lowercase(),
		TitleCase(),
		CamelCase(),
		SnakeCase(),
		KebabCase(),
		Truncate(),
		Pluralize(),
		Repeat(),
	}
}

func def(name string, fn functions.CustomFunc) functions.FunctionDef {
	return functions.FunctionDef{Name: name, Fn: fn}
}

// Capitalize returns the definition for capitalize(value).
// Uppercases the first character and leaves the rest untouched.
func Capitalize() functions.FunctionDef {
	return def("capitalize", func(args ...interface{}) (interface{}, error) {
		str := extutil.ToString(extutil.Arg(args, 0))
		if str == "" {
			return str, nil
		}
		runes := []rune(str)
		runes[0] = unicode.ToUpper(runes[0])
		return string(runes), nil
	})
}

// Uppercase returns the definition for uppercase(value).
func Uppercase() functions.FunctionDef {
	return def("uppercase", func(args ...interface{}) (interface{}, error) {
		return strings.ToUpper(extutil.ToString(extutil.Arg(args, 0))), nil
	})
}

// Lowercase returns the definition for lowercase(value).
func Lowercase() functions.FunctionDef {
	return def("lowercase", func(args ...interface{}) (interface{}, error) {
		return strings.ToLower(extutil.ToString(extutil.Arg(args, 0))), nil
	})
}

// TitleCase returns the definition for titleCase(value).
// Uppercases the first character of each word.
func TitleCase() functions.FunctionDef {
	return def("titleCase", func(args ...interface{}) (interface{}, error) {
		words := strings.Fields(strings.ToLower(extutil.ToString(extutil.Arg(args, 0))))
		for i, w := range words {
			words[i] = upperFirst(w)
		}
		return strings.Join(words, " "), nil
	})
}

var splitWordsRe = regexp.MustCompile(`[_\-\s]+|([a-z0-9])([A-Z])`)

// splitIntoWords splits camelCase, snake_case, kebab-case and spaced text.
func splitIntoWords(str string) []string {
	expanded := splitWordsRe.ReplaceAllStringFunc(str, func(s string) string {
		if len(s) == 2 && unicode.IsUpper(rune(s[1])) && !unicode.IsUpper(rune(s[0])) {
			return string(s[0]) + " " + string(s[1])
		}
		return " "
	})
	return strings.Fields(expanded)
}

func upperFirst(w string) string {
	if w == "" {
		return w
	}
	runes := []rune(w)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// CamelCase returns the definition for camelCase(value).
func CamelCase() functions.FunctionDef {
	return def("camelCase", func(args ...interface{}) (interface{}, error) {
		words := splitIntoWords(extutil.ToString(extutil.Arg(args, 0)))
		if len(words) == 0 {
			return "", nil
		}
		var b strings.Builder
		b.WriteString(strings.ToLower(words[0]))
		for _, w := range words[1:] {
			b.WriteString(upperFirst(strings.ToLower(w)))
		}
		return b.String(), nil
	})
}

func joinLower(args []interface{}, sep string) string {
	words := splitIntoWords(extutil.ToString(extutil.Arg(args, 0)))
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, sep)
}

// SnakeCase returns the definition for snakeCase(value).
func SnakeCase() functions.FunctionDef {
	return def("snakeCase", func(args ...interface{}) (interface{}, error) {
		return joinLower(args, "_"), nil
	})
}

// KebabCase returns the definition for kebabCase(value).
func KebabCase() functions.FunctionDef {
	return def("kebabCase", func(args ...interface{}) (interface{}, error) {
		return joinLower(args, "-"), nil
	})
}

// Truncate returns the definition for truncate(value, length [, suffix]).
// Text longer than length runes is cut and suffixed, "..." by default.
func Truncate() functions.FunctionDef {
	return def("truncate", func(args ...interface{}) (interface{}, error) {
		str := extutil.ToString(extutil.Arg(args, 0))
		n, ok := extutil.ToInt(extutil.Arg(args, 1))
		if !ok || n < 0 {
			return nil, fmt.Errorf("truncate: length must be a non-negative number")
		}
		suffix := "..."
		if s := extutil.Arg(args, 2); s != nil {
			suffix = extutil.ToString(s)
		}
		runes := []rune(str)
		if len(runes) <= n {
			return str, nil
		}
		return string(runes[:n]) + suffix, nil
	})
}

// Pluralize returns the definition for pluralize(count, singular [, plural]).
// The plural form defaults to singular + "s".
func Pluralize() functions.FunctionDef {
	return def("pluralize", func(args ...interface{}) (interface{}, error) {
		count, err := extutil.ToFloat(extutil.Arg(args, 0))
		if err != nil {
			return nil, fmt.Errorf("pluralize: %w", err)
		}
		singular := extutil.ToString(extutil.Arg(args, 1))
		if count == 1 {
			return singular, nil
		}
		if p := extutil.Arg(args, 2); p != nil {
			return extutil.ToString(p), nil
		}
		return singular + "s", nil
	})
}

// Repeat returns the definition for repeat(value, n).
func Repeat() functions.FunctionDef {
	return def("repeat", func(args ...interface{}) (interface{}, error) {
		n, ok := extutil.ToInt(extutil.Arg(args, 1))
		if !ok || n < 0 {
			return nil, fmt.Errorf("repeat: count must be a non-negative integer")
		}
		return strings.Repeat(extutil.ToString(extutil.Arg(args, 0)), n), nil
	})
}
