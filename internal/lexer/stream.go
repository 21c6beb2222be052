package lexer

import "github.com/funvibe/lamb/internal/token"

// TokenStream buffers tokens from a Lexer so the parser can look ahead.
type TokenStream struct {
	lexer  *Lexer
	buffer []token.Token
	done   bool
}

func NewTokenStream(l *Lexer) *TokenStream {
	return &TokenStream{lexer: l}
}

func (ts *TokenStream) fill(n int) {
	for len(ts.buffer) < n {
		if ts.done {
			// Keep answering EOF once the input is exhausted.
			ts.buffer = append(ts.buffer, ts.buffer[len(ts.buffer)-1])
			continue
		}
		tok := ts.lexer.NextToken()
		if tok.Type == token.EOF {
			ts.done = true
		}
		ts.buffer = append(ts.buffer, tok)
	}
}

func (ts *TokenStream) Next() token.Token {
	if len(ts.buffer) == 0 {
		if ts.done {
			return token.Token{Type: token.EOF, Line: ts.lexer.line, Column: ts.lexer.column}
		}
		ts.fill(1)
	}
	tok := ts.buffer[0]
	ts.buffer = ts.buffer[1:]
	if len(ts.buffer) == 0 && tok.Type == token.EOF {
		ts.buffer = append(ts.buffer, tok)
	}
	return tok
}
