package paths_test

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/jjsquad/vue/pkg/paths"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"member and identifier", "a.b + c", []string{"a.b", "c"}},
		{"string and number only", "'a.b' + 1", nil},
		{"object key excluded", "{ name: foo }", []string{"foo"}},
		{"typeof and string", "typeof a === 'undefined'", []string{"a"}},
		{"call", "a.b(c)", []string{"a.b", "c"}},
		{"dollar prefix", "$event.target.value", []string{"$event.target.value"}},
		{"dollar alone", "$index + 1", []string{"$index"}},
		{"numeric member", "items.0.name", []string{"items.0.name"}},
		{"duplicates removed", "a + a * b + a", []string{"a", "b"}},
		{"literals only", "1 + 2 * (3 - 4)", nil},
		{"keywords only", "true && !false || null === undefined", nil},
		{"global namespace", "Math.max(a, b)", []string{"a", "b"}},
		{"computed member", "a[b.c]", []string{"a", "b.c"}},
		{"double quoted", `msg + "hello world.x"`, []string{"msg"}},
		{"escaped quote in string", `'it\'s a.b' + c`, []string{"c"}},
		{"multiple keys", "{ a: x, b: y.z }", []string{"x", "y.z"}},
		{"nested object", "{ a: { b: c } }", []string{"c"}},
		{"ternary is not a key", "ok ? yes : no", []string{"ok", "yes", "no"}},
		{"ternary after comma", "f(a, b ? c : d)", []string{"f", "a", "b", "c", "d"}},
		{"ternary in array", "[a, b ? c : d]", []string{"a", "b", "c", "d"}},
		{"member of call result", "foo().bar", []string{"foo"}},
		{"member of index result", "list[0].name", []string{"list"}},
		{"float literal", "x * 1.5e3", []string{"x"}},
		{"this is reserved", "this.a + b", []string{"b"}},
		{"empty", "", nil},
		{"whitespace", "   ", nil},
		{"assignment", "count = count + 1", []string{"count"}},
		{"order of first appearance", "c + b + a + b", []string{"c", "b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paths.Extract(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractExtraReserved(t *testing.T) {
	got := paths.Extract("currency(price) + tax", "currency")
	want := []string{"price", "tax"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestScanKinds(t *testing.T) {
	tokens := paths.Scan(`{ k: 'v' } || 12 + typeof a.b`, nil)
	var kinds []paths.TokenKind
	var values []string
	for _, tok := range tokens {
		if tok.Kind == paths.TokenOther {
			continue
		}
		kinds = append(kinds, tok.Kind)
		values = append(values, tok.Value)
	}

	wantKinds := []paths.TokenKind{paths.TokenKey, paths.TokenString, paths.TokenNumber, paths.TokenKeyword, paths.TokenPath}
	wantValues := []string{"k", "'v'", "12", "typeof", "a.b"}
	if !reflect.DeepEqual(kinds, wantKinds) {
		t.Errorf("kinds = %v, want %v", kinds, wantKinds)
	}
	if !reflect.DeepEqual(values, wantValues) {
		t.Errorf("values = %q, want %q", values, wantValues)
	}
}

func TestScanUnterminatedString(t *testing.T) {
	tokens := paths.Scan(`a + 'oops`, nil)
	last := tokens[len(tokens)-1]
	if last.Kind != paths.TokenString || last.Value != `'oops` {
		t.Fatalf("last token = %v %q, want unterminated string", last.Kind, last.Value)
	}
}

func TestScanPositions(t *testing.T) {
	input := "ab + 'c'"
	for _, tok := range paths.Scan(input, nil) {
		if got := input[tok.Position : tok.Position+len(tok.Value)]; got != tok.Value {
			t.Errorf("token %q at %d does not match input %q", tok.Value, tok.Position, got)
		}
	}
}

func TestRewrite(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"call", "a.b(c)", "scope.a.b(scope.c)"},
		{"binary", "a.b + c", "scope.a.b + scope.c"},
		{"string untouched", "a + 'a.b'", "scope.a + 'a.b'"},
		{"object key untouched", "{ name: name }", "{ name: scope.name }"},
		{"prefix path", "a.b + a", "scope.a.b + scope.a"},
		{"dollar", "$event.x + $index", "scope.$event.x + scope.$index"},
		{"global untouched", "Math.max(a, 1)", "Math.max(scope.a, 1)"},
		{"member after call", "foo().foo", "scope.foo().foo"},
		{"computed", "a[b]", "scope.a[scope.b]"},
		{"trimmed", "  a  ", "scope.a"},
		{"newline in string", "a + 'x\ny'", `scope.a + 'x\ny'`},
		{"numbers untouched", "a1 + 1", "scope.a1 + 1"},
		{"keyword sharing a prefix", "i in items", "scope.i in scope.items"},
		{"typeof sharing a prefix", "t + typeof t", "scope.t + typeof scope.t"},
		{"longer path sharing a prefix", "ab + a", "scope.ab + scope.a"},
		{"no paths", "1 + 1", "1 + 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := paths.AcquireVault()
			defer paths.ReleaseVault(v)

			got := paths.Rewrite(tt.input, paths.Extract(tt.input), v)
			if got != tt.want {
				t.Errorf("Rewrite(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestVault(t *testing.T) {
	var v paths.Vault

	m0 := v.Save("'first'")
	m1 := v.Save("'line\nbreak'")
	if m0 != `"0"` || m1 != `"1"` {
		t.Fatalf("markers = %s %s, want \"0\" \"1\"", m0, m1)
	}
	if got, ok := v.Restore(m1); !ok || got != `'line\nbreak'` {
		t.Errorf("Restore(%s) = %q, %v", m1, got, ok)
	}
	if _, ok := v.Restore(`"7"`); ok {
		t.Error("expected unknown marker to fail")
	}
	if got := v.RestoreAll(`x(` + m0 + `, "9")`); got != `x('first', "9")` {
		t.Errorf("RestoreAll = %q", got)
	}

	v.Reset()
	if v.Len() != 0 {
		t.Errorf("Len after Reset = %d", v.Len())
	}
	if m := v.Save("k"); m != `"0"` {
		t.Errorf("indices must restart after Reset, got %s", m)
	}
}

func TestAcquireVaultIsEmpty(t *testing.T) {
	v := paths.AcquireVault()
	v.Save("'a'")
	paths.ReleaseVault(v)

	w := paths.AcquireVault()
	defer paths.ReleaseVault(w)
	if w.Len() != 0 {
		t.Fatalf("acquired vault holds %d entries", w.Len())
	}
}

func TestRewriteConcurrent(t *testing.T) {
	inputs := []string{"a.b + 'x'", "{ k: c } ", "d ? 'y' : e", "f('z', g)"}
	want := make([]string, len(inputs))
	for i, in := range inputs {
		v := paths.AcquireVault()
		want[i] = paths.Rewrite(in, paths.Extract(in), v)
		paths.ReleaseVault(v)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 200; n++ {
				i := n % len(inputs)
				v := paths.AcquireVault()
				got := paths.Rewrite(inputs[i], paths.Extract(inputs[i]), v)
				paths.ReleaseVault(v)
				if got != want[i] {
					t.Errorf("concurrent Rewrite(%q) = %q, want %q", inputs[i], got, want[i])
					return
				}
			}
		}()
	}
	wg.Wait()
}

func FuzzExtract(f *testing.F) {
	seeds := []string{
		`a.b + c`,
		`'a.b' + 1`,
		`{ name: foo }`,
		`typeof a === 'undefined'`,
		`a[b.c]`,
		`"unterminated`,
		`{{{ ,: }`,
		`$.$$`,
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		for _, p := range paths.Extract(input) {
			if p == "" || strings.HasPrefix(p, ".") {
				t.Fatalf("invalid path %q extracted from %q", p, input)
			}
		}
		v := paths.AcquireVault()
		_ = paths.Rewrite(input, paths.Extract(input), v)
		paths.ReleaseVault(v)
	})
}
