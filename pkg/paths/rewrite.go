package paths

import (
	"regexp"
	"strings"
)

// ScopeMarker is the identifier every rewritten path is prefixed with.
const ScopeMarker = "scope"

// Mask replaces string literals and object keys of text with vault markers
// and returns the masked text.
func Mask(text string, v *Vault) string {
	var b strings.Builder
	b.Grow(len(text))
	s := NewScanner(text, nil)
	for t := s.Next(); t.Kind != TokenEOF; t = s.Next() {
		switch t.Kind {
		case TokenString, TokenKey:
			b.WriteString(v.Save(t.Value))
		default:
			b.WriteString(t.Value)
		}
	}
	return b.String()
}

// Rewrite prefixes every whole-token occurrence of each path in text with
// the scope marker. String literals and object keys are protected through v
// while rewriting and restored afterwards. The result is trimmed.
//
// A single pass visits every path-shaped run of the masked text and
// rewrites the runs that equal one of paths, so a path that is a prefix of
// another (a and a.b), or of a keyword (i and in), never rewrites inside the
// longer token.
func Rewrite(text string, paths []string, v *Vault) string {
	masked := Mask(text, v)
	if len(paths) > 0 {
		masked = prefixPaths(masked, paths)
	}
	return strings.TrimSpace(v.RestoreAll(masked))
}

// wordRe matches a path-shaped run that starts at the beginning of the text
// or after a character that cannot belong to a path. Runs starting with a
// digit or a '.' (numbers, members of call results) never match.
var wordRe = regexp.MustCompile(`(?:^|[^$\w.])([$A-Za-z_][$\w.]*)`)

func prefixPaths(text string, paths []string) string {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}

	var b strings.Builder
	b.Grow(len(text) + len(paths)*(len(ScopeMarker)+1))
	last := 0
	for _, m := range wordRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[2], m[3]
		if _, ok := set[text[start:end]]; !ok {
			continue
		}
		b.WriteString(text[last:start])
		b.WriteString(ScopeMarker)
		b.WriteByte('.')
		b.WriteString(text[start:end])
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}
