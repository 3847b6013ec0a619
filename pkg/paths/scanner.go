package paths

import (
	"strings"
	"unicode/utf8"
)

const eof = -1

// TokenKind classifies a span of expression text.
type TokenKind uint8

const (
	TokenEOF     TokenKind = iota
	TokenOther             // operators, brackets, whitespace, punctuation
	TokenString            // 'single' or "double" quoted literal, quotes included
	TokenKey               // identifier used as an object-literal key
	TokenPath              // free accessor path: a, a.b, items.0.name, $event
	TokenKeyword           // reserved word or global, possibly with a member chain (Math.max)
	TokenNumber            // word starting with a digit
	TokenMember            // word starting with '.', continuing a call or index result
)

// String returns a string representation of the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "(eof)"
	case TokenOther:
		return "(other)"
	case TokenString:
		return "(string)"
	case TokenKey:
		return "(key)"
	case TokenPath:
		return "(path)"
	case TokenKeyword:
		return "(keyword)"
	case TokenNumber:
		return "(number)"
	case TokenMember:
		return "(member)"
	default:
		return "(unknown)"
	}
}

// Token is a classified span of the input.
type Token struct {
	Kind     TokenKind
	Value    string
	Position int
}

// Scanner splits expression text into classified tokens. It is a
// lightweight lexical classifier, not a grammar-aware parser: it only needs
// to tell accessor paths apart from literals, object keys, reserved words
// and numbers.
type Scanner struct {
	input    string
	length   int
	start    int
	current  int
	width    int
	reserved func(string) bool

	// brackets holds the currently open ( [ { characters.
	brackets []byte
	// lastSig is the last significant character seen before the current
	// token; words and strings record 'w'.
	lastSig byte
}

// NewScanner creates a scanner over input. isReserved decides whether a
// leading identifier is a reserved word; nil uses IsReserved.
func NewScanner(input string, isReserved func(string) bool) *Scanner {
	if isReserved == nil {
		isReserved = IsReserved
	}
	return &Scanner{
		input:    input,
		length:   len(input),
		reserved: isReserved,
	}
}

// Scan returns all tokens of input, excluding the final TokenEOF.
func Scan(input string, isReserved func(string) bool) []Token {
	s := NewScanner(input, isReserved)
	var tokens []Token
	for {
		t := s.Next()
		if t.Kind == TokenEOF {
			return tokens
		}
		tokens = append(tokens, t)
	}
}

// Next returns the next token. At the end of the input it returns TokenEOF
// for all subsequent calls.
func (s *Scanner) Next() Token {
	ch := s.nextRune()
	switch {
	case ch == eof:
		return Token{Kind: TokenEOF, Position: s.current}
	case ch == '"' || ch == '\'':
		return s.scanString(ch)
	case isPathChar(ch):
		s.backup()
		return s.scanWord()
	default:
		s.backup()
		return s.scanOther()
	}
}

// scanString reads a quoted literal. The opening quote has been consumed.
// An unterminated literal extends to the end of the input.
func (s *Scanner) scanString(quote rune) Token {
Loop:
	for {
		switch s.nextRune() {
		case quote, eof:
			break Loop
		case '\\':
			s.nextRune()
		}
	}
	s.lastSig = 'w'
	return s.newToken(TokenString)
}

// scanWord reads a maximal run of [A-Za-z0-9_$.] and classifies it.
func (s *Scanner) scanWord() Token {
	s.acceptAll(isPathChar)
	word := s.input[s.start:s.current]

	kind := TokenPath
	switch {
	case isDigit(rune(word[0])):
		kind = TokenNumber
	case word[0] == '.':
		kind = TokenMember
	case s.isObjectKey(word):
		kind = TokenKey
	case s.reserved(firstSegment(word)):
		kind = TokenKeyword
	}

	s.lastSig = 'w'
	return s.newToken(kind)
}

// scanOther reads a run of characters that cannot be part of a path,
// tracking bracket nesting and the last significant character.
func (s *Scanner) scanOther() Token {
	for {
		ch := s.nextRune()
		if ch == eof {
			break
		}
		if ch == '"' || ch == '\'' || isPathChar(ch) {
			s.backup()
			break
		}
		switch ch {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			continue
		case '(', '[', '{':
			s.brackets = append(s.brackets, byte(ch))
		case ')', ']', '}':
			if n := len(s.brackets); n > 0 {
				s.brackets = s.brackets[:n-1]
			}
		}
		if ch < utf8.RuneSelf {
			s.lastSig = byte(ch)
		} else {
			s.lastSig = '?'
		}
	}
	return s.newToken(TokenOther)
}

// isObjectKey reports whether word, just scanned, is a key of an object
// literal: the innermost open bracket is '{', the previous significant
// character is '{' or ',', and the next significant character is ':'.
func (s *Scanner) isObjectKey(word string) bool {
	if strings.IndexByte(word, '.') >= 0 {
		return false
	}
	n := len(s.brackets)
	if n == 0 || s.brackets[n-1] != '{' {
		return false
	}
	if s.lastSig != '{' && s.lastSig != ',' {
		return false
	}
	rest := strings.TrimLeft(s.input[s.current:], " \t\n\r\v\f")
	return strings.HasPrefix(rest, ":")
}

// Helper methods

func (s *Scanner) newToken(kind TokenKind) Token {
	t := Token{
		Kind:     kind,
		Value:    s.input[s.start:s.current],
		Position: s.start,
	}
	s.width = 0
	s.start = s.current
	return t
}

func (s *Scanner) nextRune() rune {
	if s.current >= s.length {
		s.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(s.input[s.current:])
	s.width = w
	s.current += w
	return r
}

func (s *Scanner) backup() {
	s.current -= s.width
}

func (s *Scanner) accept(isValid func(rune) bool) bool {
	if isValid(s.nextRune()) {
		return true
	}
	s.backup()
	return false
}

func (s *Scanner) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for s.accept(isValid) {
		matched = true
	}
	return matched
}

// Character classification functions

// isPathChar matches the characters an accessor path may contain: word
// characters, '$' and '.'.
func isPathChar(r rune) bool {
	return r == '$' || r == '.' || r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || isDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func firstSegment(word string) string {
	if i := strings.IndexByte(word, '.'); i >= 0 {
		return word[:i]
	}
	return word
}
