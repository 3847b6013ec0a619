package parser

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenString    // "hello" or 'hello'
	TokenNumber    // 123, 3.14, .5, 1e-10, 0x1f
	TokenBoolean   // true, false
	TokenNull      // null
	TokenUndefined // undefined
	TokenName      // identifier

	// Grouping symbols
	TokenBracketOpen  // [
	TokenBracketClose // ]
	TokenBraceOpen    // {
	TokenBraceClose   // }
	TokenParenOpen    // (
	TokenParenClose   // )

	// Basic symbols
	TokenDot      // .
	TokenComma    // ,
	TokenColon    // :
	TokenQuestion // ?

	// Arithmetic operators
	TokenPlus  // +
	TokenMinus // -
	TokenMult  // *
	TokenDiv   // /
	TokenMod   // %

	// Comparison operators
	TokenEqual          // ==
	TokenNotEqual       // !=
	TokenStrictEqual    // ===
	TokenStrictNotEqual // !==
	TokenLess           // <
	TokenLessEqual      // <=
	TokenGreater        // >
	TokenGreaterEqual   // >=

	// Logical operators
	TokenNot // !
	TokenAnd // &&
	TokenOr  // ||

	// Assignment operators
	TokenAssign      // =
	TokenPlusAssign  // +=
	TokenMinusAssign // -=
	TokenMultAssign  // *=
	TokenDivAssign   // /=

	// Keyword operators
	TokenTypeof // typeof
	TokenVoid   // void
	TokenIn     // in
)

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "(eof)"
	case TokenError:
		return "(error)"
	case TokenString:
		return "(string)"
	case TokenNumber:
		return "(number)"
	case TokenBoolean:
		return "(boolean)"
	case TokenNull:
		return "(null)"
	case TokenUndefined:
		return "(undefined)"
	case TokenName:
		return "(name)"
	case TokenBracketOpen:
		return "["
	case TokenBracketClose:
		return "]"
	case TokenBraceOpen:
		return "{"
	case TokenBraceClose:
		return "}"
	case TokenParenOpen:
		return "("
	case TokenParenClose:
		return ")"
	case TokenDot:
		return "."
	case TokenComma:
		return ","
	case TokenColon:
		return ":"
	case TokenQuestion:
		return "?"
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenMult:
		return "*"
	case TokenDiv:
		return "/"
	case TokenMod:
		return "%"
	case TokenEqual:
		return "=="
	case TokenNotEqual:
		return "!="
	case TokenStrictEqual:
		return "==="
	case TokenStrictNotEqual:
		return "!=="
	case TokenLess:
		return "<"
	case TokenLessEqual:
		return "<="
	case TokenGreater:
		return ">"
	case TokenGreaterEqual:
		return ">="
	case TokenNot:
		return "!"
	case TokenAnd:
		return "&&"
	case TokenOr:
		return "||"
	case TokenAssign:
		return "="
	case TokenPlusAssign:
		return "+="
	case TokenMinusAssign:
		return "-="
	case TokenMultAssign:
		return "*="
	case TokenDivAssign:
		return "/="
	case TokenTypeof:
		return "typeof"
	case TokenVoid:
		return "void"
	case TokenIn:
		return "in"
	default:
		return "(unknown)"
	}
}

// Token represents a lexical token of a rewritten body.
type Token struct {
	Type     TokenType // Type of the token
	Value    string    // Literal value of the token
	Position int       // Starting position in the input string
}

// symbols1 maps single-character symbols to token types.
var symbols1 = [...]TokenType{
	'[': TokenBracketOpen,
	']': TokenBracketClose,
	'{': TokenBraceOpen,
	'}': TokenBraceClose,
	'(': TokenParenOpen,
	')': TokenParenClose,
	'.': TokenDot,
	',': TokenComma,
	':': TokenColon,
	'?': TokenQuestion,
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenMult,
	'/': TokenDiv,
	'%': TokenMod,
	'!': TokenNot,
	'<': TokenLess,
	'>': TokenGreater,
	'=': TokenAssign,
}

// runeTokenType pairs a rune with its corresponding token type.
type runeTokenType struct {
	r  rune
	tt TokenType
}

// symbols2 maps two-character symbol sequences to token types.
// The key is the first character of the sequence.
var symbols2 = [...][]runeTokenType{
	'!': {{'=', TokenNotEqual}},
	'=': {{'=', TokenEqual}},
	'<': {{'=', TokenLessEqual}},
	'>': {{'=', TokenGreaterEqual}},
	'&': {{'&', TokenAnd}},
	'|': {{'|', TokenOr}},
	'+': {{'=', TokenPlusAssign}},
	'-': {{'=', TokenMinusAssign}},
	'*': {{'=', TokenMultAssign}},
	'/': {{'=', TokenDivAssign}},
}

// symbols3 upgrades a two-character equality operator followed by '='.
var symbols3 = map[TokenType]TokenType{
	TokenEqual:    TokenStrictEqual,
	TokenNotEqual: TokenStrictNotEqual,
}

const (
	symbol1Count = rune(len(symbols1))
	symbol2Count = rune(len(symbols2))
)

// lookupSymbol1 returns the token type for a single-character symbol.
// Returns 0 if the rune is not a valid symbol.
func lookupSymbol1(r rune) TokenType {
	if r < 0 || r >= symbol1Count {
		return 0
	}
	return symbols1[r]
}

// lookupSymbol2 returns possible two-character symbol completions.
// Returns nil if the rune cannot start a two-character symbol.
func lookupSymbol2(r rune) []runeTokenType {
	if r < 0 || r >= symbol2Count {
		return nil
	}
	return symbols2[r]
}

// lookupKeyword returns the token type for a keyword.
// Returns 0 if the string is not a recognized keyword.
func lookupKeyword(s string) TokenType {
	switch s {
	case "true", "false":
		return TokenBoolean
	case "null":
		return TokenNull
	case "undefined":
		return TokenUndefined
	case "typeof":
		return TokenTypeof
	case "void":
		return TokenVoid
	case "in":
		return TokenIn
	default:
		return 0
	}
}

// endsOperand reports whether a token of type tt can end an operand, in
// which case a following '.' is member access rather than the start of a
// number such as .5.
func endsOperand(tt TokenType) bool {
	switch tt {
	case TokenName, TokenNumber, TokenString, TokenBoolean, TokenNull,
		TokenUndefined, TokenParenClose, TokenBracketClose, TokenBraceClose:
		return true
	default:
		return false
	}
}
