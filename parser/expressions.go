package parser

import (
	"fmt"

	"github.com/mlang-dev/mlang/ast"
	"github.com/mlang-dev/mlang/lexer"
)

// parseExpression is the entry point for the full precedence ladder,
// starting at assignment (the lowest-precedence production). Entry: curToken
// is the expression's first token. Exit: curToken is its last token.
func (p *Parser) parseExpression() ast.Expression {
	return p.parseAssignment()
}

// parseAssignment parses `logical-or ("=" expression)?`, right-associative.
// The left-hand side must be an Identifier or ArrayAccessExpression (§3.2).
func (p *Parser) parseAssignment() ast.Expression {
	left := p.parseLogicalOr()
	if left == nil {
		return nil
	}
	if !p.peekTokenIs(lexer.ASSIGN) {
		return left
	}

	switch left.(type) {
	case *ast.Identifier, *ast.ArrayAccessExpression:
	default:
		p.addError("invalid assignment target", ErrInvalidAssignTgt)
		return left
	}

	p.nextToken() // consume '='
	tok := p.curToken
	p.nextToken() // move to start of RHS
	value := p.parseExpression()

	assign := &ast.AssignmentExpression{Target: left, Value: value}
	assign.Token = tok
	return assign
}

func (p *Parser) parseLogicalOr() ast.Expression {
	left := p.parseLogicalAnd()
	for p.peekTokenIs(lexer.OR_OR) {
		p.nextToken()
		tok := p.curToken
		p.nextToken()
		right := p.parseLogicalAnd()
		bin := &ast.BinaryExpression{Op: ast.OpOr, Left: left, Right: right}
		bin.Token = tok
		left = bin
	}
	return left
}

func (p *Parser) parseLogicalAnd() ast.Expression {
	left := p.parseBitwiseOr()
	for p.peekTokenIs(lexer.AND_AND) {
		p.nextToken()
		tok := p.curToken
		p.nextToken()
		right := p.parseBitwiseOr()
		bin := &ast.BinaryExpression{Op: ast.OpAnd, Left: left, Right: right}
		bin.Token = tok
		left = bin
	}
	return left
}

func (p *Parser) parseBitwiseOr() ast.Expression {
	left := p.parseBitwiseXor()
	for p.peekTokenIs(lexer.PIPE) {
		p.nextToken()
		tok := p.curToken
		p.nextToken()
		right := p.parseBitwiseXor()
		bin := &ast.BinaryExpression{Op: ast.OpBitOr, Left: left, Right: right}
		bin.Token = tok
		left = bin
	}
	return left
}

func (p *Parser) parseBitwiseXor() ast.Expression {
	left := p.parseBitwiseAnd()
	for p.peekTokenIs(lexer.CARET) {
		p.nextToken()
		tok := p.curToken
		p.nextToken()
		right := p.parseBitwiseAnd()
		bin := &ast.BinaryExpression{Op: ast.OpBitXor, Left: left, Right: right}
		bin.Token = tok
		left = bin
	}
	return left
}

func (p *Parser) parseBitwiseAnd() ast.Expression {
	left := p.parseEquality()
	for p.peekTokenIs(lexer.AMP) {
		p.nextToken()
		tok := p.curToken
		p.nextToken()
		right := p.parseEquality()
		bin := &ast.BinaryExpression{Op: ast.OpBitAnd, Left: left, Right: right}
		bin.Token = tok
		left = bin
	}
	return left
}

var equalityOps = map[lexer.TokenType]ast.CompareOp{
	lexer.EQ:     ast.CmpEq,
	lexer.NOT_EQ: ast.CmpNe,
}

func (p *Parser) parseEquality() ast.Expression {
	left := p.parseComparison()
	for {
		op, ok := equalityOps[p.peekToken.Type]
		if !ok {
			break
		}
		p.nextToken()
		tok := p.curToken
		p.nextToken()
		right := p.parseComparison()
		cmp := &ast.ComparisonExpression{Op: op, Left: left, Right: right}
		cmp.Token = tok
		left = cmp
	}
	return left
}

var comparisonOps = map[lexer.TokenType]ast.CompareOp{
	lexer.GREATER: ast.CmpGt,
	lexer.GEQ:     ast.CmpGe,
	lexer.LESS:    ast.CmpLt,
	lexer.LEQ:     ast.CmpLe,
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseTerm()
	for {
		op, ok := comparisonOps[p.peekToken.Type]
		if !ok {
			break
		}
		p.nextToken()
		tok := p.curToken
		p.nextToken()
		right := p.parseTerm()
		cmp := &ast.ComparisonExpression{Op: op, Left: left, Right: right}
		cmp.Token = tok
		left = cmp
	}
	return left
}

var termOps = map[lexer.TokenType]ast.BinaryOp{
	lexer.PLUS:  ast.OpAdd,
	lexer.MINUS: ast.OpSub,
}

func (p *Parser) parseTerm() ast.Expression {
	left := p.parseFactor()
	for {
		op, ok := termOps[p.peekToken.Type]
		if !ok {
			break
		}
		p.nextToken()
		tok := p.curToken
		p.nextToken()
		right := p.parseFactor()
		bin := &ast.BinaryExpression{Op: op, Left: left, Right: right}
		bin.Token = tok
		left = bin
	}
	return left
}

var factorOps = map[lexer.TokenType]ast.BinaryOp{
	lexer.ASTERISK: ast.OpMul,
	lexer.SLASH:    ast.OpDiv,
	lexer.PERCENT:  ast.OpMod,
}

func (p *Parser) parseFactor() ast.Expression {
	left := p.parseUnary()
	for {
		op, ok := factorOps[p.peekToken.Type]
		if !ok {
			break
		}
		p.nextToken()
		tok := p.curToken
		p.nextToken()
		right := p.parseUnary()
		bin := &ast.BinaryExpression{Op: op, Left: left, Right: right}
		bin.Token = tok
		left = bin
	}
	return left
}

// parseUnary parses `("!" | "-") unary | primary`.
func (p *Parser) parseUnary() ast.Expression {
	switch p.curToken.Type {
	case lexer.BANG:
		tok := p.curToken
		p.nextToken()
		operand := p.parseUnary()
		u := &ast.UnaryExpression{Op: ast.UnaryNot, Operand: operand}
		u.Token = tok
		return u
	case lexer.MINUS:
		tok := p.curToken
		p.nextToken()
		operand := p.parseUnary()
		u := &ast.UnaryExpression{Op: ast.UnaryNeg, Operand: operand}
		u.Token = tok
		return u
	default:
		return p.parsePrimary()
	}
}

// parsePrimary parses literals, identifiers (with optional call or index
// suffix), and parenthesized subexpressions.
func (p *Parser) parsePrimary() ast.Expression {
	switch p.curToken.Type {
	case lexer.TRUE, lexer.FALSE:
		lit := &ast.BooleanLiteral{Value: p.curToken.Type == lexer.TRUE}
		lit.Token = p.curToken
		return lit
	case lexer.INT:
		v, err := lexer.ParseIntLiteral(p.curToken.Literal)
		if err != nil {
			p.addError("invalid integer literal: "+p.curToken.Literal, ErrNoPrimaryParse)
		}
		lit := &ast.IntegerLiteral{Value: v}
		lit.Token = p.curToken
		return lit
	case lexer.FLOAT:
		v, err := lexer.ParseFloatLiteral(p.curToken.Literal)
		if err != nil {
			p.addError("invalid float literal: "+p.curToken.Literal, ErrNoPrimaryParse)
		}
		lit := &ast.FloatLiteral{Value: v}
		lit.Token = p.curToken
		return lit
	case lexer.CHAR:
		var b byte
		if len(p.curToken.Literal) > 0 {
			b = p.curToken.Literal[0]
		}
		lit := &ast.CharacterLiteral{Value: b}
		lit.Token = p.curToken
		return lit
	case lexer.STRING:
		lit := &ast.StringLiteral{Value: p.curToken.Literal}
		lit.Token = p.curToken
		return lit
	case lexer.IDENT:
		return p.parseIdentifierExpression()
	case lexer.LPAREN:
		p.nextToken()
		expr := p.parseExpression()
		if !p.expectPeek(lexer.RPAREN) {
			return expr
		}
		return expr
	default:
		p.addError(fmt.Sprintf("no primary expression starts with %s", p.curToken.Type), ErrNoPrimaryParse)
		return nil
	}
}

// parseIdentifierExpression parses a bare identifier, a call
// (`IDENT "(" arg-list? ")"`), or an array access (`IDENT "[" expression "]"`).
func (p *Parser) parseIdentifierExpression() ast.Expression {
	identTok := p.curToken
	name := p.curToken.Literal

	switch {
	case p.peekTokenIs(lexer.LPAREN):
		p.nextToken() // '('
		call := &ast.CallExpression{Function: name}
		call.Token = identTok
		if !p.peekTokenIs(lexer.RPAREN) {
			p.nextToken()
			call.Args = append(call.Args, p.parseExpression())
			for p.peekTokenIs(lexer.COMMA) {
				p.nextToken()
				p.nextToken()
				call.Args = append(call.Args, p.parseExpression())
			}
		}
		if !p.expectPeek(lexer.RPAREN) {
			return call
		}
		return call
	case p.peekTokenIs(lexer.LBRACK):
		p.nextToken() // '['
		p.nextToken()
		index := p.parseExpression()
		access := &ast.ArrayAccessExpression{Array: ast.NewIdentifier(identTok), Index: index}
		access.Token = identTok
		if !p.expectPeek(lexer.RBRACK) {
			return access
		}
		return access
	default:
		return ast.NewIdentifier(identTok)
	}
}
