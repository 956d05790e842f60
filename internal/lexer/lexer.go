// Package lexer tokenizes morphism source text (SPEC_FULL.md §4.I). It is
// the in-scope replacement for what spec.md treated as an external
// collaborator.
package lexer

import (
	"strings"

	"github.com/jinnzest/morphc/internal/diagnostics"
)

type Kind int

const (
	Ident Kind = iota
	IntLit
	Fn
	Equals
	OpenParen
	CloseParen
	Arrow // <-
	Comma
	Colon
	NL
	EOF
)

type Token struct {
	Kind   Kind
	Text   string
	Line   int
	Column int
}

func (t Token) Pos() diagnostics.Pos { return diagnostics.Pos{Line: t.Line, Column: t.Column} }

func isIdentStart(r byte) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r byte) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func isDigit(r byte) bool { return r >= '0' && r <= '9' }

// Tokenize scans src into a token stream terminated by a single EOF token.
// Line comments start with '#' and run to end of line. Lines and columns are
// 1-based.
func Tokenize(src string) ([]Token, diagnostics.List) {
	var toks []Token
	var errs diagnostics.List
	line, col := 1, 1
	i := 0
	n := len(src)

	advance := func(k int) {
		for j := 0; j < k; j++ {
			if src[i+j] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		i += k
	}

	for i < n {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			advance(1)
		case c == '\n':
			toks = append(toks, Token{Kind: NL, Text: "\n", Line: line, Column: col})
			advance(1)
		case c == '#':
			j := strings.IndexByte(src[i:], '\n')
			if j < 0 {
				advance(n - i)
			} else {
				advance(j)
			}
		case c == '(':
			toks = append(toks, Token{Kind: OpenParen, Text: "(", Line: line, Column: col})
			advance(1)
		case c == ')':
			toks = append(toks, Token{Kind: CloseParen, Text: ")", Line: line, Column: col})
			advance(1)
		case c == '=':
			toks = append(toks, Token{Kind: Equals, Text: "=", Line: line, Column: col})
			advance(1)
		case c == ',':
			toks = append(toks, Token{Kind: Comma, Text: ",", Line: line, Column: col})
			advance(1)
		case c == ':':
			toks = append(toks, Token{Kind: Colon, Text: ":", Line: line, Column: col})
			advance(1)
		case c == '<' && i+1 < n && src[i+1] == '-':
			toks = append(toks, Token{Kind: Arrow, Text: "<-", Line: line, Column: col})
			advance(2)
		case isDigit(c) || (c == '-' && i+1 < n && isDigit(src[i+1])):
			start := i
			startLine, startCol := line, col
			advance(1)
			for i < n && isDigit(src[i]) {
				advance(1)
			}
			toks = append(toks, Token{Kind: IntLit, Text: src[start:i], Line: startLine, Column: startCol})
		case isIdentStart(c):
			start := i
			startLine, startCol := line, col
			for i < n && isIdentCont(src[i]) {
				advance(1)
			}
			text := src[start:i]
			kind := Ident
			if text == "fn" {
				kind = Fn
			}
			toks = append(toks, Token{Kind: kind, Text: text, Line: startLine, Column: startCol})
		default:
			errs = append(errs, diagnostics.At(diagnostics.CodeLex, diagnostics.Pos{Line: line, Column: col},
				"unexpected character '"+string(c)+"'"))
			advance(1)
		}
	}
	toks = append(toks, Token{Kind: EOF, Text: "", Line: line, Column: col})
	return toks, errs
}
