// Package paths finds and rewrites the accessor paths of an expression.
//
// An accessor path is a property-access chain such as a.b, items.0.name or
// $refs.input that appears free in the expression text: not inside a string
// literal, not as an object-literal key, not a reserved word and not a
// number. Extract lists the paths; Rewrite prefixes each of them with the
// scope marker so the body can be evaluated against an arbitrary scope.
//
// # Example
//
//	paths.Extract("a.b + c")                       // ["a.b", "c"]
//	paths.Extract("{ name: foo }")                  // ["foo"]
//	v := paths.AcquireVault()
//	defer paths.ReleaseVault(v)
//	paths.Rewrite("a.b(c)", []string{"a.b", "c"}, v) // "scope.a.b(scope.c)"
//
// Computed members are scanned like any other text: in a[b.c] both a and
// b.c are reported as paths.
package paths

// Extract returns the distinct accessor paths of text in order of first
// appearance. extraReserved names are excluded in addition to the built-in
// reserved words. It returns nil when text contains no eligible path.
func Extract(text string, extraReserved ...string) []string {
	return ExtractWith(text, ReservedWith(extraReserved...))
}

// ExtractWith is like Extract with an explicit reserved-word classifier.
func ExtractWith(text string, isReserved func(string) bool) []string {
	var (
		out  []string
		seen map[string]struct{}
	)
	s := NewScanner(text, isReserved)
	for t := s.Next(); t.Kind != TokenEOF; t = s.Next() {
		if t.Kind != TokenPath {
			continue
		}
		if seen == nil {
			seen = make(map[string]struct{})
		}
		if _, dup := seen[t.Value]; dup {
			continue
		}
		seen[t.Value] = struct{}{}
		out = append(out, t.Value)
	}
	return out
}
