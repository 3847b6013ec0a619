package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/jjsquad/vue/pkg/types"
)

// Parser implements a recursive descent parser for expression bodies.
// It uses Pratt's "Top Down Operator Precedence" algorithm to handle
// operator precedence correctly.
type Parser struct {
	lexer   *Lexer
	arena   *types.NodeArena
	current Token
	prev    Token
	depth   int
	opts    CompileOptions
}

// NewParser creates a new parser for the given input string.
func NewParser(input string, opts ...CompileOption) *Parser {
	options := CompileOptions{
		MaxDepth: 100,
	}
	for _, opt := range opts {
		opt(&options)
	}

	p := &Parser{
		lexer: NewLexer(input),
		arena: types.NewNodeArena(),
		opts:  options,
	}

	// Read the first token
	p.advance()

	return p
}

// Parse parses the entire body and returns the root AST node.
func (p *Parser) Parse() (*types.ASTNode, error) {
	if p.current.Type == TokenError {
		return nil, p.lexer.Error()
	}

	if p.current.Type == TokenEOF {
		return nil, p.error(types.ErrEmptyExpression, "Empty expression")
	}

	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if p.current.Type != TokenEOF {
		return nil, p.unexpected()
	}

	return node, nil
}

// Operator precedence table (binding power)
// Higher values bind more tightly
var precedence = map[TokenType]int{
	TokenAssign:         10, // =
	TokenPlusAssign:     10, // +=
	TokenMinusAssign:    10, // -=
	TokenMultAssign:     10, // *=
	TokenDivAssign:      10, // /=
	TokenQuestion:       15, // ? :
	TokenOr:             20, // ||
	TokenAnd:            25, // &&
	TokenEqual:          40, // ==
	TokenNotEqual:       40, // !=
	TokenStrictEqual:    40, // ===
	TokenStrictNotEqual: 40, // !==
	TokenLess:           45, // <
	TokenLessEqual:      45, // <=
	TokenGreater:        45, // >
	TokenGreaterEqual:   45, // >=
	TokenIn:             45, // in
	TokenPlus:           50, // +
	TokenMinus:          50, // -
	TokenMult:           60, // *
	TokenDiv:            60, // /
	TokenMod:            60, // %
	TokenDot:            80, // .
	TokenBracketOpen:    80, // [
	TokenParenOpen:      80, // (
}

// unaryPrecedence is the binding power of prefix operators.
const unaryPrecedence = 70

// getPrecedence returns the precedence of a token type.
func (p *Parser) getPrecedence(tt TokenType) int {
	if prec, ok := precedence[tt]; ok {
		return prec
	}
	return 0
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.prev = p.current
	p.current = p.lexer.Next()
}

// expect checks if the current token matches the expected type and advances.
func (p *Parser) expect(tt TokenType) error {
	if p.current.Type != tt {
		if p.current.Type == TokenError {
			return p.lexer.Error()
		}
		return p.error(types.ErrExpectedToken, fmt.Sprintf("Expected %s but got %s", tt.String(), p.describe(p.current)))
	}
	p.advance()
	return nil
}

// error creates a parser error at the current token.
func (p *Parser) error(code types.ErrorCode, message string) error {
	return &types.Error{
		Code:     code,
		Message:  message,
		Position: p.current.Position,
		Token:    p.current.Value,
	}
}

// unexpected reports the current token as unexpected, preferring a pending
// lexer error.
func (p *Parser) unexpected() error {
	switch p.current.Type {
	case TokenError:
		return p.lexer.Error()
	case TokenEOF:
		return p.error(types.ErrSyntaxError, "Unexpected end of expression")
	default:
		return p.error(types.ErrSyntaxError, fmt.Sprintf("Unexpected token: %s", p.describe(p.current)))
	}
}

func (p *Parser) describe(t Token) string {
	switch t.Type {
	case TokenEOF:
		return "end of expression"
	case TokenName, TokenNumber:
		return t.Value
	case TokenString:
		return strconv.Quote(t.Value)
	default:
		return t.Type.String()
	}
}

func (p *Parser) node(nodeType types.NodeType, position int) *types.ASTNode {
	return p.arena.Alloc(nodeType, position)
}

// parseExpression parses an expression with operator precedence.
// rbp is the right binding power (minimum precedence).
func (p *Parser) parseExpression(rbp int) (*types.ASTNode, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		return nil, p.error(types.ErrTooDeep, "Expression nested too deeply")
	}

	// Parse prefix expression (nud - null denotation)
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	// Parse infix expressions while precedence allows (led - left denotation)
	for rbp < p.getPrecedence(p.current.Type) {
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

// parsePrefix parses a prefix expression (nud - null denotation).
func (p *Parser) parsePrefix() (*types.ASTNode, error) {
	token := p.current

	switch token.Type {
	case TokenString:
		return p.parseString()
	case TokenNumber:
		return p.parseNumber()
	case TokenBoolean:
		node := p.node(types.NodeBoolean, token.Position)
		node.Value = token.Value == "true"
		p.advance()
		return node, nil
	case TokenNull:
		node := p.node(types.NodeNull, token.Position)
		node.Value = types.NullValue
		p.advance()
		return node, nil
	case TokenUndefined:
		node := p.node(types.NodeUndefined, token.Position)
		p.advance()
		return node, nil
	case TokenName:
		node := p.node(types.NodeIdentifier, token.Position)
		node.StrValue = token.Value
		node.Value = token.Value
		p.advance()
		return node, nil
	case TokenNot, TokenMinus, TokenPlus, TokenTypeof, TokenVoid:
		return p.parseUnary()
	case TokenParenOpen:
		return p.parseGrouping()
	case TokenBracketOpen:
		return p.parseArrayLiteral()
	case TokenBraceOpen:
		return p.parseObjectLiteral()
	default:
		return nil, p.unexpected()
	}
}

// parseInfix parses an infix expression (led - left denotation).
func (p *Parser) parseInfix(left *types.ASTNode) (*types.ASTNode, error) {
	token := p.current

	switch token.Type {
	case TokenDot:
		return p.parseMember(left)
	case TokenBracketOpen:
		return p.parseComputedMember(left)
	case TokenParenOpen:
		return p.parseCall(left)
	case TokenQuestion:
		return p.parseConditional(left)
	case TokenAssign, TokenPlusAssign, TokenMinusAssign, TokenMultAssign, TokenDivAssign:
		return p.parseAssignment(left)
	case TokenAnd, TokenOr:
		return p.parseBinaryOp(left, types.NodeLogical)
	default:
		return p.parseBinaryOp(left, types.NodeBinary)
	}
}

// unescapeString processes escape sequences in a string literal.
// Handles standard escapes (\n, \t, ...), \xXX and \uXXXX including UTF-16
// surrogate pairs. Any other escaped character stands for itself.
func unescapeString(s string) (string, error) {
	if !strings.Contains(s, "\\") {
		return s, nil // Fast path: no escapes
	}

	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			result.WriteByte(s[i])
			continue
		}

		i++ // Skip backslash
		if i >= len(s) {
			return "", fmt.Errorf("invalid escape sequence at end of string")
		}

		switch s[i] {
		case 'n':
			result.WriteByte('\n')
		case 't':
			result.WriteByte('\t')
		case 'r':
			result.WriteByte('\r')
		case 'b':
			result.WriteByte('\b')
		case 'f':
			result.WriteByte('\f')
		case 'v':
			result.WriteByte('\v')
		case '0':
			result.WriteByte(0)
		case 'x':
			if i+2 >= len(s) {
				return "", fmt.Errorf("invalid \\x escape: not enough characters")
			}
			code, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return "", fmt.Errorf("invalid \\x escape: %s", s[i+1:i+3])
			}
			result.WriteRune(rune(code))
			i += 2
		case 'u':
			if i+4 >= len(s) {
				return "", fmt.Errorf("invalid \\u escape: not enough characters")
			}
			codePoint, err := strconv.ParseUint(s[i+1:i+5], 16, 16)
			if err != nil {
				return "", fmt.Errorf("invalid \\u escape: %s", s[i+1:i+5])
			}
			i += 4
			r := rune(codePoint)

			// High surrogate: combine with a following \uXXXX low surrogate
			if utf16.IsSurrogate(r) && i+6 < len(s) && s[i+1] == '\\' && s[i+2] == 'u' {
				if low, err := strconv.ParseUint(s[i+3:i+7], 16, 16); err == nil {
					if combined := utf16.DecodeRune(r, rune(low)); combined != unicode.ReplacementChar {
						result.WriteRune(combined)
						i += 6
						continue
					}
				}
			}
			result.WriteRune(r)
		default:
			result.WriteByte(s[i])
		}
	}

	return result.String(), nil
}

// parseString parses a string literal.
func (p *Parser) parseString() (*types.ASTNode, error) {
	node := p.node(types.NodeString, p.current.Position)

	unescaped, err := unescapeString(p.current.Value)
	if err != nil {
		return nil, p.error(types.ErrUnsupportedEscape, fmt.Sprintf("Invalid string literal: %v", err))
	}

	node.Value = unescaped
	node.StrValue = unescaped
	p.advance()
	return node, nil
}

// parseNumber parses a number literal.
func (p *Parser) parseNumber() (*types.ASTNode, error) {
	node := p.node(types.NodeNumber, p.current.Position)

	val, err := parseNumberLiteral(p.current.Value)
	if err != nil {
		return nil, p.error(types.ErrInvalidNumber, fmt.Sprintf("Invalid number: %s", p.current.Value))
	}

	node.Value = val
	node.NumValue = val
	p.advance()
	return node, nil
}

func parseNumberLiteral(s string) (float64, error) {
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		n, err := strconv.ParseUint(s[2:], 16, 64)
		return float64(n), err
	}
	return strconv.ParseFloat(s, 64)
}

// parseUnary parses a prefix operator: ! - + typeof void.
func (p *Parser) parseUnary() (*types.ASTNode, error) {
	op := p.current
	p.advance()

	operand, err := p.parseExpression(unaryPrecedence)
	if err != nil {
		return nil, err
	}

	node := p.node(types.NodeUnary, op.Position)
	node.StrValue = op.Type.String()
	node.Value = node.StrValue
	node.LHS = operand
	return node, nil
}

// parseGrouping parses a parenthesized expression.
func (p *Parser) parseGrouping() (*types.ASTNode, error) {
	p.advance() // Skip '('

	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseArrayLiteral parses an array literal [...].
func (p *Parser) parseArrayLiteral() (*types.ASTNode, error) {
	node := p.node(types.NodeArray, p.current.Position)
	p.advance() // Skip '['

	elements, err := p.parseList(TokenBracketClose)
	if err != nil {
		return nil, err
	}
	node.Expressions = elements
	return node, nil
}

// parseObjectLiteral parses an object literal {...}. Keys are identifiers,
// keywords, strings or numbers.
func (p *Parser) parseObjectLiteral() (*types.ASTNode, error) {
	node := p.node(types.NodeObject, p.current.Position)
	p.advance() // Skip '{'

	for p.current.Type != TokenBraceClose {
		key := p.current
		var name string
		switch key.Type {
		case TokenString:
			unescaped, err := unescapeString(key.Value)
			if err != nil {
				return nil, p.error(types.ErrUnsupportedEscape, fmt.Sprintf("Invalid string literal: %v", err))
			}
			name = unescaped
		case TokenNumber:
			val, err := parseNumberLiteral(key.Value)
			if err != nil {
				return nil, p.error(types.ErrInvalidNumber, fmt.Sprintf("Invalid number: %s", key.Value))
			}
			name = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			if !isPropertyName(key) {
				return nil, p.unexpected()
			}
			name = key.Value
		}
		p.advance()

		if err := p.expect(TokenColon); err != nil {
			return nil, err
		}

		value, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}

		pair := p.node(types.NodePair, key.Position)
		pair.StrValue = name
		pair.Value = name
		pair.RHS = value
		node.Expressions = append(node.Expressions, pair)

		if p.current.Type != TokenComma {
			break
		}
		p.advance() // Skip ',' (a trailing comma is allowed)
	}

	if err := p.expect(TokenBraceClose); err != nil {
		return nil, err
	}
	return node, nil
}

// parseList parses comma separated expressions up to and including the
// closing token. A trailing comma is allowed.
func (p *Parser) parseList(closing TokenType) ([]*types.ASTNode, error) {
	items := []*types.ASTNode{}
	for p.current.Type != closing {
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		items = append(items, expr)

		if p.current.Type != TokenComma {
			break
		}
		p.advance() // Skip ','
	}

	if err := p.expect(closing); err != nil {
		return nil, err
	}
	return items, nil
}

// parseMember parses a dotted member access: obj.name or obj.0
func (p *Parser) parseMember(object *types.ASTNode) (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance() // Skip '.'

	name := p.current
	switch {
	case isPropertyName(name):
	case name.Type == TokenNumber && isIndexLiteral(name.Value):
	default:
		return nil, p.unexpected()
	}
	p.advance()

	node := p.node(types.NodeMember, pos)
	node.LHS = object
	node.StrValue = name.Value
	node.Value = name.Value
	return node, nil
}

// parseComputedMember parses obj[expr].
func (p *Parser) parseComputedMember(object *types.ASTNode) (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance() // Skip '['

	property, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenBracketClose); err != nil {
		return nil, err
	}

	node := p.node(types.NodeMember, pos)
	node.LHS = object
	node.RHS = property
	node.Computed = true
	return node, nil
}

// parseCall parses a call: callee(args...)
func (p *Parser) parseCall(callee *types.ASTNode) (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance() // Skip '('

	args, err := p.parseList(TokenParenClose)
	if err != nil {
		return nil, err
	}

	node := p.node(types.NodeCall, pos)
	node.LHS = callee
	node.Arguments = args
	return node, nil
}

// parseConditional parses a conditional expression (cond ? then : else).
func (p *Parser) parseConditional(condition *types.ASTNode) (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance() // Skip '?'

	thenExpr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if err := p.expect(TokenColon); err != nil {
		return nil, err
	}

	// Right-associative: a ? b : c ? d : e
	elseExpr, err := p.parseExpression(precedence[TokenQuestion] - 1)
	if err != nil {
		return nil, err
	}

	node := p.node(types.NodeCondition, pos)
	node.LHS = condition
	node.RHS = thenExpr
	node.Expressions = []*types.ASTNode{elseExpr}
	return node, nil
}

// parseAssignment parses target = value and the compound forms.
// The target must be an identifier or member access.
func (p *Parser) parseAssignment(target *types.ASTNode) (*types.ASTNode, error) {
	op := p.current
	if !target.IsReference() {
		return nil, &types.Error{
			Code:     types.ErrNotAssignable,
			Message:  "Invalid left-hand side in assignment",
			Position: op.Position,
			Token:    op.Value,
		}
	}
	p.advance()

	// Right-associative: a = b = c
	value, err := p.parseExpression(precedence[op.Type] - 1)
	if err != nil {
		return nil, err
	}

	node := p.node(types.NodeAssign, op.Position)
	node.StrValue = op.Type.String()
	node.Value = node.StrValue
	node.LHS = target
	node.RHS = value
	return node, nil
}

// parseBinaryOp parses a binary or logical operator.
func (p *Parser) parseBinaryOp(left *types.ASTNode, nodeType types.NodeType) (*types.ASTNode, error) {
	op := p.current
	prec := p.getPrecedence(op.Type)
	p.advance()

	right, err := p.parseExpression(prec)
	if err != nil {
		return nil, err
	}

	node := p.node(nodeType, op.Position)
	node.StrValue = op.Type.String()
	node.Value = node.StrValue
	node.LHS = left
	node.RHS = right
	return node, nil
}

// isPropertyName reports whether t may name a property after '.' or as an
// object key: identifiers and keywords.
func isPropertyName(t Token) bool {
	switch t.Type {
	case TokenName, TokenBoolean, TokenNull, TokenUndefined, TokenTypeof, TokenVoid, TokenIn:
		return true
	default:
		return false
	}
}

func isIndexLiteral(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(rune(s[i])) {
			return false
		}
	}
	return s != ""
}
