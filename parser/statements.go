package parser

import (
	"fmt"

	"github.com/mlang-dev/mlang/ast"
	"github.com/mlang-dev/mlang/lexer"
)

// parseStatement dispatches on the current token to one of the statement
// productions in §4.2's grammar.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.ARRAY_TYPE:
		return p.parseArrayDeclStatement()
	case lexer.PRINT:
		return p.parsePrintStatement()
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	default:
		if isTypeToken(p.curToken.Type) {
			return p.parseVarDeclStatement()
		}
		return p.parseExpressionStatement()
	}
}

// parseVarDeclStatement parses `type IDENT ("=" expression)? ";"`.
func (p *Parser) parseVarDeclStatement() *ast.VarDeclStatement {
	tok := p.curToken
	typ := p.parseType()
	if typ == nil {
		p.synchronize()
		return nil
	}

	if !p.expectPeek(lexer.IDENT) {
		p.synchronize()
		return nil
	}
	name := p.curToken.Literal

	stmt := &ast.VarDeclStatement{Type: typ, Name: name}
	stmt.Token = tok

	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		stmt.Initializer = p.parseExpression()
	}

	if !p.expectPeek(lexer.SEMICOLON) {
		p.synchronize()
		return nil
	}
	return stmt
}

// parseArrayDeclStatement parses
// `"array" type IDENT "[" INT "]" ("=" "{" expr-list? "}")? ";"`.
func (p *Parser) parseArrayDeclStatement() *ast.ArrayDeclStatement {
	tok := p.curToken // ARRAY_TYPE

	p.nextToken()
	elemType := p.parseType()
	if elemType == nil {
		p.synchronize()
		return nil
	}

	if !p.expectPeek(lexer.IDENT) {
		p.synchronize()
		return nil
	}
	name := p.curToken.Literal

	if !p.expectPeek(lexer.LBRACK) {
		p.synchronize()
		return nil
	}
	if !p.expectPeek(lexer.INT) {
		p.addError("expected an integer array size", ErrInvalidType)
		p.synchronize()
		return nil
	}
	size, err := lexer.ParseIntLiteral(p.curToken.Literal)
	if err != nil {
		p.addError("invalid array size literal: "+p.curToken.Literal, ErrInvalidType)
	}
	if !p.expectPeek(lexer.RBRACK) {
		p.synchronize()
		return nil
	}

	stmt := &ast.ArrayDeclStatement{ElemType: elemType, Name: name, Size: int(size)}
	stmt.Token = tok

	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken() // =
		if !p.expectPeek(lexer.LBRACE) {
			p.synchronize()
			return nil
		}
		if !p.peekTokenIs(lexer.RBRACE) {
			p.nextToken()
			stmt.Initializers = append(stmt.Initializers, p.parseExpression())
			for p.peekTokenIs(lexer.COMMA) {
				p.nextToken()
				p.nextToken()
				stmt.Initializers = append(stmt.Initializers, p.parseExpression())
			}
		}
		if !p.expectPeek(lexer.RBRACE) {
			p.synchronize()
			return nil
		}
	}

	if !p.expectPeek(lexer.SEMICOLON) {
		p.synchronize()
		return nil
	}
	return stmt
}

// parsePrintStatement parses `"print" "(" expression ")" ";"`.
func (p *Parser) parsePrintStatement() *ast.PrintStatement {
	tok := p.curToken

	if !p.expectPeek(lexer.LPAREN) {
		p.synchronize()
		return nil
	}
	p.nextToken()
	value := p.parseExpression()

	if !p.expectPeek(lexer.RPAREN) {
		p.synchronize()
		return nil
	}
	if !p.expectPeek(lexer.SEMICOLON) {
		p.synchronize()
		return nil
	}

	stmt := &ast.PrintStatement{Value: value}
	stmt.Token = tok
	return stmt
}

// parseBlockStatement parses `"{" statement* "}"`. curToken enters on `{`.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{}
	block.Token = p.curToken

	p.nextToken()
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if !isNilStatement(stmt) {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	if !p.curTokenIs(lexer.RBRACE) {
		p.addError("expected '}' to close block", ErrUnexpectedToken)
	}
	return block
}

// parseIfStatement parses `"if" "(" logical-or ")" statement ("else" statement)?`.
func (p *Parser) parseIfStatement() *ast.IfStatement {
	tok := p.curToken

	if !p.expectPeek(lexer.LPAREN) {
		p.synchronize()
		return nil
	}
	p.nextToken()
	cond := p.parseExpression()

	if !p.expectPeek(lexer.RPAREN) {
		p.synchronize()
		return nil
	}
	p.nextToken()
	thenStmt := p.parseStatement()

	stmt := &ast.IfStatement{Condition: cond, Then: thenStmt}
	stmt.Token = tok

	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		p.nextToken()
		stmt.Else = p.parseStatement()
	}
	return stmt
}

// parseWhileStatement parses `"while" "(" logical-or ")" statement`.
func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	tok := p.curToken

	if !p.expectPeek(lexer.LPAREN) {
		p.synchronize()
		return nil
	}
	p.nextToken()
	cond := p.parseExpression()

	if !p.expectPeek(lexer.RPAREN) {
		p.synchronize()
		return nil
	}
	p.nextToken()
	body := p.parseStatement()

	stmt := &ast.WhileStatement{Condition: cond, Body: body}
	stmt.Token = tok
	return stmt
}

// parseForStatement parses
// `"for" "(" (var-decl | expr-stmt | ";") expression? ";" expression? ")" statement`.
//
// The update clause is gated on `)`, not `}` — the original implementation's
// documented typo is fixed here per §9.
func (p *Parser) parseForStatement() *ast.ForStatement {
	tok := p.curToken

	if !p.expectPeek(lexer.LPAREN) {
		p.synchronize()
		return nil
	}

	stmt := &ast.ForStatement{}
	stmt.Token = tok

	p.nextToken()
	switch {
	case p.curTokenIs(lexer.SEMICOLON):
		// no initializer; the ';' itself is consumed as part of this branch
	case isTypeToken(p.curToken.Type):
		stmt.Init = p.parseVarDeclStatement() // consumes trailing ';'
	default:
		stmt.Init = p.parseExpressionStatement() // consumes trailing ';'
	}

	if !p.curTokenIs(lexer.SEMICOLON) {
		p.addError(fmt.Sprintf("expected ';' after for-loop initializer, got %s instead", p.curToken.Type), ErrUnexpectedToken)
	}

	if !p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
		stmt.Condition = p.parseExpression()
	}
	if !p.expectPeek(lexer.SEMICOLON) {
		p.synchronize()
		return nil
	}

	if !p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		stmt.Update = p.parseExpression()
	}
	if !p.expectPeek(lexer.RPAREN) {
		p.synchronize()
		return nil
	}

	p.nextToken()
	stmt.Body = p.parseStatement()
	return stmt
}

// parseReturnStatement parses `"return" expression ";"`.
func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	tok := p.curToken

	p.nextToken()
	value := p.parseExpression()

	if !p.expectPeek(lexer.SEMICOLON) {
		p.synchronize()
		return nil
	}

	stmt := &ast.ReturnStatement{Value: value}
	stmt.Token = tok
	return stmt
}

// parseExpressionStatement parses `expression ";"`. Entry: curToken is the
// first token of the expression. Exit: curToken is the trailing ';'.
func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	tok := p.curToken
	expr := p.parseExpression()

	if !p.expectPeek(lexer.SEMICOLON) {
		p.synchronize()
		return nil
	}

	stmt := &ast.ExpressionStatement{Expr: expr}
	stmt.Token = tok
	return stmt
}
