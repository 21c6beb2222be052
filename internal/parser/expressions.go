package parser

import (
	"github.com/funvibe/lamb/internal/ast"
	"github.com/funvibe/lamb/internal/diagnostics"
	"github.com/funvibe/lamb/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Node {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.addError(diagnostics.ErrP006, p.curToken,
			"expression too complex: recursion depth limit exceeded")
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}

	return leftExp
}

func (p *Parser) parseIdentifier() ast.Node {
	return ast.Var(p.curToken.Lexeme)
}

func (p *Parser) parseNumberLiteral() ast.Node {
	return ast.Num(p.curToken.Literal.(float64))
}

func (p *Parser) parseNil() ast.Node {
	return ast.Nil()
}

func (p *Parser) parseIllegal() ast.Node {
	p.illegalTokenError(p.curToken)
	return nil
}

func (p *Parser) parseGroupedExpression() ast.Node {
	p.nextToken() // consume '('
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

// parseLambdaExpression parses \x. body. The body extends as far right as
// possible but stops at ';;'.
func (p *Parser) parseLambdaExpression() ast.Node {
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	binder := p.curToken.Lexeme
	if !p.expectPeek(token.DOT) {
		return nil
	}
	p.nextToken()
	body := p.parseExpression(SEQUENCE)
	if body == nil {
		return nil
	}
	return ast.Lam(binder, body)
}

// parseLetExpression handles both let and letrec.
func (p *Parser) parseLetExpression() ast.Node {
	recursive := p.curTokenIs(token.LETREC)
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	binder := p.curToken.Lexeme
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	if !p.expectPeek(token.IN) {
		return nil
	}
	p.nextToken()
	body := p.parseExpression(SEQUENCE)
	if body == nil {
		return nil
	}
	if recursive {
		return ast.LetRec(binder, value, body)
	}
	return ast.Let(binder, value, body)
}

func (p *Parser) parseIfExpression() ast.Node {
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil || !p.expectPeek(token.THEN) {
		return nil
	}
	p.nextToken()
	then := p.parseExpression(LOWEST)
	if then == nil || !p.expectPeek(token.ELSE) {
		return nil
	}
	p.nextToken()
	els := p.parseExpression(SEQUENCE)
	if els == nil {
		return nil
	}
	return ast.If(cond, then, els)
}

// parseKeywordPrefix parses fix, hd and tl, which bind tighter than
// application: hd x y is (hd x) y.
func (p *Parser) parseKeywordPrefix() ast.Node {
	op := p.curToken.Type
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	switch op {
	case token.FIX:
		return ast.Fix(operand)
	case token.HD:
		return ast.Hd(operand)
	default:
		return ast.Tl(operand)
	}
}

func (p *Parser) parseLogExpression() ast.Node {
	p.nextToken()
	arg := p.parseExpression(PREFIX)
	if arg == nil || !p.expectPeek(token.BASE) {
		return nil
	}
	p.nextToken()
	base := p.parseExpression(PREFIX)
	if base == nil {
		return nil
	}
	return ast.Log(arg, base)
}

// parseNegation folds a minus sign directly before a number literal into a
// negative literal; any other operand becomes 0 - operand.
func (p *Parser) parseNegation() ast.Node {
	if p.peekTokenIs(token.NUMBER) {
		p.nextToken()
		return ast.Num(-p.curToken.Literal.(float64))
	}
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return ast.Minus(ast.Num(0), operand)
}

func (p *Parser) parseInfixExpression(left ast.Node) ast.Node {
	op := p.curToken.Type
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return binary(op, left, right)
}

// parseRightAssocInfixExpression parses ^, : and ;;.
// 1 : 2 : # parses as 1 : (2 : #)
func (p *Parser) parseRightAssocInfixExpression(left ast.Node) ast.Node {
	op := p.curToken.Type
	precedence := p.curPrecedence()
	p.nextToken()
	// Use precedence - 1 to make it right-associative
	right := p.parseExpression(precedence - 1)
	if right == nil {
		return nil
	}
	return binary(op, left, right)
}

// parseApplication is registered as the infix function of every token that
// can start an operand, so juxtaposition reads as left-associative
// application. curToken is already the first token of the argument.
func (p *Parser) parseApplication(fn ast.Node) ast.Node {
	arg := p.parseExpression(APPLY)
	if arg == nil {
		return nil
	}
	return ast.App(fn, arg)
}

func binary(op token.TokenType, left, right ast.Node) ast.Node {
	switch op {
	case token.PLUS:
		return ast.Plus(left, right)
	case token.MINUS:
		return ast.Minus(left, right)
	case token.ASTERISK:
		return ast.Multiply(left, right)
	case token.SLASH:
		return ast.Divide(left, right)
	case token.CARET:
		return ast.Power(left, right)
	case token.LTE:
		return ast.Leq(left, right)
	case token.EQ:
		return ast.Eq(left, right)
	case token.COLON:
		return ast.Cons(left, right)
	case token.SEQ:
		return ast.Prog(left, right)
	}
	panic("unhandled operator: " + string(op))
}
