package parser

import (
	"fmt"

	"github.com/funvibe/lamb/internal/ast"
	"github.com/funvibe/lamb/internal/diagnostics"
	"github.com/funvibe/lamb/internal/pipeline"
	"github.com/funvibe/lamb/internal/token"
)

// MaxRecursionDepth bounds expression nesting so hostile input cannot exhaust
// the goroutine stack.
const MaxRecursionDepth = 10000

const (
	_ int = iota
	LOWEST
	SEQUENCE // ;;
	CONS     // :
	COMPARE  // <= ==
	SUM      // + -
	PRODUCT  // * /
	POWER    // ^
	APPLY    // f x
	PREFIX   // fix x, hd x, tl x, log x base y, -x
)

var precedences = map[token.TokenType]int{
	token.SEQ:      SEQUENCE,
	token.COLON:    CONS,
	token.LTE:      COMPARE,
	token.EQ:       COMPARE,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.CARET:    POWER,
}

// operandStarts are the tokens that begin an application argument. A minus
// sign is always read as subtraction between operands.
var operandStarts = []token.TokenType{
	token.IDENT, token.NUMBER, token.NIL, token.LPAREN, token.BACKSLASH,
	token.FIX, token.HD, token.TL, token.LOG,
	token.LET, token.LETREC, token.IF,
}

type (
	prefixParseFn func() ast.Node
	infixParseFn  func(ast.Node) ast.Node
)

type Parser struct {
	stream pipeline.TokenStream
	ctx    *pipeline.PipelineContext

	curToken  token.Token
	peekToken token.Token

	depth int

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(stream pipeline.TokenStream, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{stream: stream, ctx: ctx}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:     p.parseIdentifier,
		token.NUMBER:    p.parseNumberLiteral,
		token.NIL:       p.parseNil,
		token.LPAREN:    p.parseGroupedExpression,
		token.BACKSLASH: p.parseLambdaExpression,
		token.LET:       p.parseLetExpression,
		token.LETREC:    p.parseLetExpression,
		token.IF:        p.parseIfExpression,
		token.FIX:       p.parseKeywordPrefix,
		token.HD:        p.parseKeywordPrefix,
		token.TL:        p.parseKeywordPrefix,
		token.LOG:       p.parseLogExpression,
		token.MINUS:     p.parseNegation,
		token.ILLEGAL:   p.parseIllegal,
	}

	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.PLUS:     p.parseInfixExpression,
		token.MINUS:    p.parseInfixExpression,
		token.ASTERISK: p.parseInfixExpression,
		token.SLASH:    p.parseInfixExpression,
		token.LTE:      p.parseInfixExpression,
		token.EQ:       p.parseInfixExpression,
		token.CARET:    p.parseRightAssocInfixExpression,
		token.COLON:    p.parseRightAssocInfixExpression,
		token.SEQ:      p.parseRightAssocInfixExpression,
	}
	for _, t := range operandStarts {
		p.infixParseFns[t] = p.parseApplication
	}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	return p
}

// ParseProgram parses a whole program. It returns nil when any error was
// recorded on the context.
func (p *Parser) ParseProgram() ast.Node {
	before := len(p.ctx.Errors)
	root := p.parseExpression(LOWEST)
	if len(p.ctx.Errors) > before {
		return nil
	}
	if !p.peekTokenIs(token.EOF) {
		if p.peekTokenIs(token.ILLEGAL) {
			p.illegalTokenError(p.peekToken)
		} else {
			p.addError(diagnostics.ErrP004, p.peekToken,
				fmt.Sprintf("unexpected %s after end of program", describe(p.peekToken)))
		}
		return nil
	}
	return root
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.stream.Next()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek advances when the next token has type t and records an error
// otherwise.
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	if _, ok := p.infixParseFns[p.peekToken.Type]; ok {
		return APPLY
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) addError(code diagnostics.ErrorCode, tok token.Token, msg string) {
	p.ctx.AddError(diagnostics.NewError(code, tok, msg))
}

func (p *Parser) peekError(t token.TokenType) {
	if p.peekTokenIs(token.ILLEGAL) {
		p.illegalTokenError(p.peekToken)
		return
	}
	p.addError(diagnostics.ErrP003, p.peekToken,
		fmt.Sprintf("expected %q, got %s", string(t), describe(p.peekToken)))
}

func (p *Parser) illegalTokenError(tok token.Token) {
	msg, _ := tok.Literal.(string)
	if msg == "" {
		msg = fmt.Sprintf("illegal token %q", tok.Lexeme)
	}
	p.addError(diagnostics.ErrP002, tok, msg)
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.addError(diagnostics.ErrP005, tok,
		fmt.Sprintf("expected an expression, got %s", describe(tok)))
}

func describe(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", tok.Lexeme)
}
