package paths

// reservedWords are never treated as accessor paths: language keywords,
// future-reserved words, literal names and the globals the evaluator
// provides.
var reservedWords = map[string]struct{}{
	// keywords
	"break": {}, "case": {}, "catch": {}, "continue": {}, "debugger": {},
	"default": {}, "delete": {}, "do": {}, "else": {}, "finally": {},
	"for": {}, "function": {}, "if": {}, "in": {}, "instanceof": {},
	"new": {}, "return": {}, "switch": {}, "this": {}, "throw": {},
	"try": {}, "typeof": {}, "var": {}, "void": {}, "while": {}, "with": {},

	// future-reserved
	"abstract": {}, "boolean": {}, "byte": {}, "char": {}, "class": {},
	"const": {}, "double": {}, "enum": {}, "export": {}, "extends": {},
	"final": {}, "float": {}, "goto": {}, "implements": {}, "import": {},
	"int": {}, "interface": {}, "long": {}, "native": {}, "package": {},
	"private": {}, "protected": {}, "public": {}, "short": {}, "static": {},
	"super": {}, "synchronized": {}, "throws": {}, "transient": {},
	"volatile": {}, "arguments": {}, "let": {}, "yield": {},

	// literals
	"true": {}, "false": {}, "null": {}, "undefined": {},

	// globals
	"Math": {}, "JSON": {}, "NaN": {}, "Infinity": {}, "isNaN": {},
	"isFinite": {}, "parseInt": {}, "parseFloat": {}, "String": {},
	"Number": {}, "Boolean": {},
}

// IsReserved reports whether name is a reserved word or a built-in global.
func IsReserved(name string) bool {
	_, ok := reservedWords[name]
	return ok
}

// ReservedWith returns a classifier that also treats the given names as
// reserved. It is used for helper functions registered with the compiler.
func ReservedWith(extra ...string) func(string) bool {
	if len(extra) == 0 {
		return IsReserved
	}
	set := make(map[string]struct{}, len(extra))
	for _, name := range extra {
		set[name] = struct{}{}
	}
	return func(name string) bool {
		if _, ok := set[name]; ok {
			return true
		}
		return IsReserved(name)
	}
}
