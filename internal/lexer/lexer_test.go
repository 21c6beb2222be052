package lexer

import (
	"testing"

	"github.com/funvibe/lamb/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `letrec f = \n. if n <= 0 then 1 else n * f (n - 1)
in f 5 ;; hd (1 : #) == 2.5e1 // trailing comment
/* block
   comment */ log x base 2 ^ fix g'`

	tests := []struct {
		expectedType   token.TokenType
		expectedLexeme string
	}{
		{token.LETREC, "letrec"},
		{token.IDENT, "f"},
		{token.ASSIGN, "="},
		{token.BACKSLASH, "\\"},
		{token.IDENT, "n"},
		{token.DOT, "."},
		{token.IF, "if"},
		{token.IDENT, "n"},
		{token.LTE, "<="},
		{token.NUMBER, "0"},
		{token.THEN, "then"},
		{token.NUMBER, "1"},
		{token.ELSE, "else"},
		{token.IDENT, "n"},
		{token.ASTERISK, "*"},
		{token.IDENT, "f"},
		{token.LPAREN, "("},
		{token.IDENT, "n"},
		{token.MINUS, "-"},
		{token.NUMBER, "1"},
		{token.RPAREN, ")"},
		{token.IN, "in"},
		{token.IDENT, "f"},
		{token.NUMBER, "5"},
		{token.SEQ, ";;"},
		{token.HD, "hd"},
		{token.LPAREN, "("},
		{token.NUMBER, "1"},
		{token.COLON, ":"},
		{token.NIL, "#"},
		{token.RPAREN, ")"},
		{token.EQ, "=="},
		{token.NUMBER, "2.5e1"},
		{token.LOG, "log"},
		{token.IDENT, "x"},
		{token.BASE, "base"},
		{token.NUMBER, "2"},
		{token.CARET, "^"},
		{token.FIX, "fix"},
		{token.IDENT, "g'"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)", i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"42", 42},
		{"3.25", 3.25},
		{"1e3", 1000},
		{"2E-2", 0.02},
	}
	for _, tt := range tests {
		tok := New(tt.input).NextToken()
		if tok.Type != token.NUMBER {
			t.Fatalf("%q: got %s", tt.input, tok.Type)
		}
		if tok.Literal.(float64) != tt.want {
			t.Errorf("%q: got %v, want %v", tt.input, tok.Literal, tt.want)
		}
	}
}

func TestDotAfterNumberIsSeparateToken(t *testing.T) {
	l := New("1.x")
	if tok := l.NextToken(); tok.Type != token.NUMBER || tok.Lexeme != "1" {
		t.Fatalf("got %v", tok)
	}
	if tok := l.NextToken(); tok.Type != token.DOT {
		t.Fatalf("got %v", tok)
	}
}

func TestIllegalTokens(t *testing.T) {
	tests := []string{"Foo", "1e999", "<", ";", "$", "λ"}
	for _, input := range tests {
		tok := New(input).NextToken()
		if tok.Type != token.ILLEGAL {
			t.Errorf("%q: expected ILLEGAL, got %s", input, tok.Type)
			continue
		}
		if msg, _ := tok.Literal.(string); msg == "" {
			t.Errorf("%q: illegal token without message", input)
		}
	}
}

func TestPositions(t *testing.T) {
	l := New("x\n  <= y")
	l.NextToken()
	tok := l.NextToken()
	if tok.Line != 2 || tok.Column != 3 {
		t.Errorf("got %d:%d, want 2:3", tok.Line, tok.Column)
	}
}

func TestTokenStreamRepeatsEOF(t *testing.T) {
	ts := NewTokenStream(New("a b"))
	if ts.Next().Lexeme != "a" || ts.Next().Lexeme != "b" {
		t.Fatal("tokens out of order")
	}
	for i := 0; i < 3; i++ {
		if ts.Next().Type != token.EOF {
			t.Fatal("expected EOF to repeat")
		}
	}
}
