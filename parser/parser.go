// Package parser implements a recursive-descent, precedence-climbing parser
// for minilang, turning a token stream into a typed *ast.Program.
//
// Unlike a Pratt-table engine, each precedence level of the grammar's fixed
// operator ladder (assignment -> logical-or -> ... -> unary -> primary) gets
// its own parse function; the grammar never introduces user-defined or
// runtime-variable precedence, so a ladder is the natural shape here.
package parser

import (
	"fmt"
	"reflect"

	"github.com/mlang-dev/mlang/ast"
	"github.com/mlang-dev/mlang/lexer"
)

// Parser turns a token stream into an AST, accumulating recoverable errors
// rather than aborting on the first one.
type Parser struct {
	l *lexer.Lexer

	curToken  lexer.Token
	peekToken lexer.Token

	errors []*ParserError
}

// New creates a Parser reading from l, priming the two-token lookahead.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every syntactic diagnostic accumulated so far.
func (p *Parser) Errors() []*ParserError { return p.errors }

// LexerErrors returns lexical diagnostics from the underlying scanner.
func (p *Parser) LexerErrors() []lexer.LexerError { return p.l.Errors() }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(tt lexer.TokenType) bool  { return p.curToken.Type == tt }
func (p *Parser) peekTokenIs(tt lexer.TokenType) bool { return p.peekToken.Type == tt }

// expectPeek advances past peekToken if it matches tt, else records an error
// and leaves the cursor unchanged.
func (p *Parser) expectPeek(tt lexer.TokenType) bool {
	if p.peekTokenIs(tt) {
		p.nextToken()
		return true
	}
	p.peekError(tt)
	return false
}

func (p *Parser) peekError(tt lexer.TokenType) {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead", tt, p.peekToken.Type)
	p.errors = append(p.errors, NewParserError(p.peekToken.Pos, p.peekToken.Length(), msg, ErrUnexpectedToken))
}

func (p *Parser) addError(msg, code string) {
	p.errors = append(p.errors, NewParserError(p.curToken.Pos, p.curToken.Length(), msg, code))
}

// synchronize advances the cursor after a parse error until it rests on a
// semicolon or closing brace, or on the last token before a closing brace or
// statement-starting keyword, so the caller's nextToken lands on the next
// construct and a single error doesn't derail the rest of the file (§4.2, §7).
var statementStarters = map[lexer.TokenType]bool{
	lexer.INT_TYPE: true, lexer.BIGINT_TYPE: true, lexer.FLOAT_TYPE: true,
	lexer.STRING_TYPE: true, lexer.CHAR_TYPE: true, lexer.BOOL_TYPE: true,
	lexer.ARRAY_TYPE: true, lexer.PRINT: true, lexer.IF: true, lexer.FOR: true,
	lexer.WHILE: true, lexer.RETURN: true, lexer.FUNCTION: true, lexer.LBRACE: true,
}

func (p *Parser) synchronize() {
	for !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.SEMICOLON) || p.curTokenIs(lexer.RBRACE) ||
			p.peekTokenIs(lexer.RBRACE) || statementStarters[p.peekToken.Type] {
			return
		}
		p.nextToken()
	}
}

// ParseProgram parses the whole input and returns the AST root. Errors are
// recorded on the Parser and recoverable: parsing continues past them.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	for !p.curTokenIs(lexer.EOF) {
		var decl ast.Statement
		if p.curTokenIs(lexer.FUNCTION) {
			decl = p.parseFunctionDecl()
		} else {
			decl = p.parseStatement()
		}
		if !isNilStatement(decl) {
			program.Declarations = append(program.Declarations, decl)
		}
		p.nextToken()
	}

	return program
}

// isNilStatement reports whether s is absent: a nil interface, or a nil node
// pointer, which is what a failed statement production returns.
func isNilStatement(s ast.Statement) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// parseType consumes the current type keyword token and returns the
// corresponding surface *ast.Type. It does not handle the `array` keyword,
// which is only ever a statement-leading token (§4.2's array-decl).
func (p *Parser) parseType() *ast.Type {
	var kind ast.TypeKind
	switch p.curToken.Type {
	case lexer.INT_TYPE:
		kind = ast.IntType
	case lexer.BIGINT_TYPE:
		kind = ast.BigIntType
	case lexer.FLOAT_TYPE:
		kind = ast.FloatType
	case lexer.STRING_TYPE:
		kind = ast.StringType
	case lexer.CHAR_TYPE:
		kind = ast.CharType
	case lexer.BOOL_TYPE:
		kind = ast.BoolType
	case lexer.VOID_TYPE:
		kind = ast.VoidType
	default:
		p.addError(fmt.Sprintf("expected a type, got %s instead", p.curToken.Type), ErrInvalidType)
		return nil
	}
	return &ast.Type{Kind: kind}
}

func isTypeToken(tt lexer.TokenType) bool {
	switch tt {
	case lexer.INT_TYPE, lexer.BIGINT_TYPE, lexer.FLOAT_TYPE, lexer.STRING_TYPE,
		lexer.CHAR_TYPE, lexer.BOOL_TYPE, lexer.VOID_TYPE:
		return true
	default:
		return false
	}
}

// parseFunctionDecl parses `"function" IDENT "(" params? ")" "->" type block`.
func (p *Parser) parseFunctionDecl() *ast.FunctionDecl {
	tok := p.curToken // FUNCTION

	if !p.expectPeek(lexer.IDENT) {
		p.synchronize()
		return nil
	}
	name := p.curToken.Literal

	if !p.expectPeek(lexer.LPAREN) {
		p.synchronize()
		return nil
	}

	var params []ast.Param
	if !p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		for {
			if !isTypeToken(p.curToken.Type) {
				p.addError(fmt.Sprintf("expected parameter type, got %s instead", p.curToken.Type), ErrInvalidType)
				p.synchronize()
				return nil
			}
			paramType := p.parseType()
			if !p.expectPeek(lexer.IDENT) {
				p.synchronize()
				return nil
			}
			params = append(params, ast.Param{Type: paramType, Name: p.curToken.Literal})

			if p.peekTokenIs(lexer.COMMA) {
				p.nextToken()
				p.nextToken()
				continue
			}
			break
		}
	}

	if !p.expectPeek(lexer.RPAREN) {
		p.synchronize()
		return nil
	}
	if !p.expectPeek(lexer.ARROW) {
		p.synchronize()
		return nil
	}
	p.nextToken()
	retType := p.parseType()

	proto := &ast.FunctionPrototype{Name: name, Params: params, ReturnType: retType}
	proto.Token = tok

	if !p.expectPeek(lexer.LBRACE) {
		p.synchronize()
		return nil
	}
	body := p.parseBlockStatement()

	decl := &ast.FunctionDecl{Prototype: proto, Body: body}
	decl.Token = tok
	return decl
}
