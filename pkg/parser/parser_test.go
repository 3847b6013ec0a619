package parser_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/jjsquad/vue/pkg/parser"
	"github.com/jjsquad/vue/pkg/types"
)

// render prints an AST in a compact prefix form used to compare shapes.
func render(n *types.ASTNode) string {
	if n == nil {
		return "<nil>"
	}
	switch n.Type {
	case types.NodeNumber:
		return strconv.FormatFloat(n.NumValue, 'f', -1, 64)
	case types.NodeString:
		return "'" + n.StrValue + "'"
	case types.NodeBoolean:
		if n.Value.(bool) {
			return "true"
		}
		return "false"
	case types.NodeNull:
		return "null"
	case types.NodeUndefined:
		return "undefined"
	case types.NodeIdentifier:
		return n.StrValue
	case types.NodeMember:
		if n.Computed {
			return render(n.LHS) + "[" + render(n.RHS) + "]"
		}
		return render(n.LHS) + "." + n.StrValue
	case types.NodeCall:
		args := make([]string, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = render(a)
		}
		return render(n.LHS) + "(" + strings.Join(args, ", ") + ")"
	case types.NodeUnary:
		return "(" + n.StrValue + " " + render(n.LHS) + ")"
	case types.NodeBinary, types.NodeLogical, types.NodeAssign:
		return "(" + render(n.LHS) + " " + n.StrValue + " " + render(n.RHS) + ")"
	case types.NodeCondition:
		return "(" + render(n.LHS) + " ? " + render(n.RHS) + " : " + render(n.Expressions[0]) + ")"
	case types.NodeArray:
		items := make([]string, len(n.Expressions))
		for i, e := range n.Expressions {
			items[i] = render(e)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case types.NodeObject:
		items := make([]string, len(n.Expressions))
		for i, e := range n.Expressions {
			items[i] = e.StrValue + ": " + render(e.RHS)
		}
		return "{" + strings.Join(items, ", ") + "}"
	default:
		return "?" + string(n.Type)
	}
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"scope.a.b(scope.c)", "scope.a.b(scope.c)"},
		{"scope.items.0.name", "scope.items.0.name"},
		{"scope.a[scope.b.c]", "scope.a[scope.b.c]"},
		{"typeof scope.a === 'undefined'", "((typeof scope.a) === 'undefined')"},
		{"!scope.a && scope.b || scope.c", "(((! scope.a) && scope.b) || scope.c)"},
		{"scope.a ? 1 : scope.b ? 2 : 3", "(scope.a ? 1 : (scope.b ? 2 : 3))"},
		{"scope.a = scope.b = 1", "(scope.a = (scope.b = 1))"},
		{"scope.n += 2", "(scope.n += 2)"},
		{"-scope.a.b", "(- scope.a.b)"},
		{"scope.a < 1 == true", "((scope.a < 1) == true)"},
		{"'k' in scope.o", "('k' in scope.o)"},
		{"[1, scope.a, ]", "[1, scope.a]"},
		{"{ name: scope.a, 'x y': 2, 3: null }", "{name: scope.a, x y: 2, 3: null}"},
		{".5 + 0x10", "(0.5 + 16)"},
		{"Math.max(1, 2)", "Math.max(1, 2)"},
		{"scope.f()()", "scope.f()()"},
		{"void 0", "(void 0)"},
		{"scope.a !== null", "(scope.a !== null)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ast, err := parser.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if got := render(ast); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseStrings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`'plain'`, "plain"},
		{`"double"`, "double"},
		{`'line\nbreak'`, "line\nbreak"},
		{`'it\'s'`, "it's"},
		{`'é\x41'`, "éA"},
		{`'😀'`, "😀"},
		{`'\d'`, "d"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ast, err := parser.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if ast.StrValue != tt.want {
				t.Errorf("got %q, want %q", ast.StrValue, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		code  types.ErrorCode
	}{
		{"", types.ErrEmptyExpression},
		{"   ", types.ErrEmptyExpression},
		{"scope.a +", types.ErrSyntaxError},
		{"scope.a scope.b", types.ErrSyntaxError},
		{"(scope.a", types.ErrExpectedToken},
		{"scope.f(1, 2", types.ErrExpectedToken},
		{"'open", types.ErrStringNotClosed},
		{"scope.a # 1", types.ErrUnexpectedChar},
		{"scope.a & 1", types.ErrUnexpectedChar},
		{"scope.a + 1 = 2", types.ErrNotAssignable},
		{"1 = 2", types.ErrNotAssignable},
		{"0x", types.ErrInvalidNumber},
		{"1e", types.ErrInvalidNumber},
		{"12abc", types.ErrInvalidNumber},
		{"'\\u12'", types.ErrUnsupportedEscape},
		{"scope.", types.ErrSyntaxError},
		{"{ a 1 }", types.ErrExpectedToken},
		{"a ? b", types.ErrExpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parser.Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q): expected error", tt.input)
			}
			if got := types.CodeOf(err); got != tt.code {
				t.Errorf("Parse(%q) code = %s, want %s (%v)", tt.input, got, tt.code, err)
			}
		})
	}
}

func TestParseMaxDepth(t *testing.T) {
	deep := strings.Repeat("(", 50) + "1" + strings.Repeat(")", 50)
	if _, err := parser.Parse(deep); err != nil {
		t.Fatalf("unexpected error at default depth: %v", err)
	}
	_, err := parser.Parse(deep, parser.WithMaxDepth(10))
	if got := types.CodeOf(err); got != types.ErrTooDeep {
		t.Fatalf("code = %s, want %s", got, types.ErrTooDeep)
	}
}

func TestLexerTokens(t *testing.T) {
	l := parser.NewLexer("scope.items.0 !== .5")
	want := []parser.TokenType{
		parser.TokenName, parser.TokenDot, parser.TokenName, parser.TokenDot,
		parser.TokenNumber, parser.TokenStrictNotEqual, parser.TokenNumber, parser.TokenEOF,
	}
	for i, tt := range want {
		tok := l.Next()
		if tok.Type != tt {
			t.Fatalf("token %d = %s (%q), want %s", i, tok.Type, tok.Value, tt)
		}
	}
}

func FuzzParse(f *testing.F) {
	seeds := []string{
		`scope.a.b + scope.c`,
		`scope.f(1, 'x', [2], {k: 3})`,
		`typeof scope.a === 'undefined'`,
		`scope.a ? scope.b : scope.c`,
		`(`,
		`scope.a[`,
		`'\u`,
		``,
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		_, _ = parser.Parse(input)
	})
}
