package token

import "fmt"

type TokenType string

// Token is a single lexical unit. Literal holds the decoded value
// (float64 for NUMBER, string otherwise).
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	IDENT  = "IDENT"
	NUMBER = "NUMBER"
	NIL    = "#"

	BACKSLASH = "\\"
	DOT       = "."
	ASSIGN    = "="
	PLUS      = "+"
	MINUS     = "-"
	ASTERISK  = "*"
	SLASH     = "/"
	CARET     = "^"
	LTE       = "<="
	EQ        = "=="
	COLON     = ":"
	SEQ       = ";;"
	LPAREN    = "("
	RPAREN    = ")"

	LET    = "LET"
	LETREC = "LETREC"
	IN     = "IN"
	IF     = "IF"
	THEN   = "THEN"
	ELSE   = "ELSE"
	FIX    = "FIX"
	HD     = "HD"
	TL     = "TL"
	LOG    = "LOG"
	BASE   = "BASE"
)

var keywords = map[string]TokenType{
	"let":    LET,
	"letrec": LETREC,
	"in":     IN,
	"if":     IF,
	"then":   THEN,
	"else":   ELSE,
	"fix":    FIX,
	"hd":     HD,
	"tl":     TL,
	"log":    LOG,
	"base":   BASE,
}

// LookupIdent returns the keyword token type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether name is reserved.
func IsKeyword(name string) bool {
	_, ok := keywords[name]
	return ok
}
