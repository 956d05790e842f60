// Package parser implements the morphism source parser (SPEC_FULL.md §4.I,
// §6 source grammar): a sequence of `fn <name> <arg>* = <expr>+`
// declarations over the token stream produced by internal/lexer.
package parser

import (
	"fmt"

	"github.com/jinnzest/morphc/internal/diagnostics"
	"github.com/jinnzest/morphc/internal/lexer"
)

type parser struct {
	toks []lexer.Token
	pos  int
	errs diagnostics.List
}

// Parse drives the token stream to completion using the iterative
// accumulator construct described in SPEC_FULL.md §4.I (a direct
// replacement for the original's generic `while_not_done_or_eof` driver):
// each step either advances past one `fn` declaration and appends it to the
// accumulator ("go on"), or, on EOF, is "done".
func Parse(toks []lexer.Token) ([]RawFunction, diagnostics.List) {
	p := &parser{toks: toks}
	var funcs []RawFunction
	for {
		p.skipNewlines()
		if p.at().Kind == lexer.EOF {
			return funcs, p.errs
		}
		fn, ok := p.parseFunction()
		if !ok {
			p.recoverToNextFn()
			continue
		}
		funcs = append(funcs, fn)
	}
}

func (p *parser) at() lexer.Token { return p.toks[p.pos] }

func (p *parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if t.Kind != lexer.EOF {
		p.pos++
	}
	return t
}

func (p *parser) skipNewlines() {
	for p.at().Kind == lexer.NL {
		p.advance()
	}
}

func (p *parser) errf(pos diagnostics.Pos, format string, args ...any) {
	p.errs = append(p.errs, diagnostics.At(diagnostics.CodeParse, pos, fmt.Sprintf(format, args...)))
}

func (p *parser) recoverToNextFn() {
	for p.at().Kind != lexer.EOF && p.at().Kind != lexer.Fn {
		p.advance()
	}
}

func (p *parser) parseFunction() (RawFunction, bool) {
	start := p.at()
	if start.Kind != lexer.Fn {
		p.errf(start.Pos(), "Expected: 'fn'\nGot: '%s'", start.Text)
		return RawFunction{}, false
	}
	p.advance()

	name := p.at()
	if name.Kind != lexer.Ident {
		p.errf(name.Pos(), "Expected: function name\nGot: '%s'", name.Text)
		return RawFunction{}, false
	}
	p.advance()

	var args []string
	for p.at().Kind == lexer.Ident {
		args = append(args, p.at().Text)
		p.advance()
	}

	if p.at().Kind != lexer.Equals {
		p.errf(p.at().Pos(), "Expected: '='\nGot: '%s'", p.at().Text)
		return RawFunction{}, false
	}
	p.advance()

	var body []Atom
	for p.at().Kind != lexer.NL && p.at().Kind != lexer.EOF {
		atom, ok := p.parseAtom()
		if !ok {
			return RawFunction{}, false
		}
		body = append(body, atom)
	}
	if len(body) == 0 {
		p.errf(p.at().Pos(), "Expected: at least one expression in function body\nGot: end of line")
		return RawFunction{}, false
	}

	return RawFunction{Name: name.Text, Args: args, Body: body, At: start.Pos()}, true
}

func (p *parser) parseAtom() (Atom, bool) {
	t := p.at()
	switch t.Kind {
	case lexer.IntLit:
		p.advance()
		return IntAtom{Value: t.Text, At: t.Pos()}, true
	case lexer.Ident:
		p.advance()
		return IdentAtom{Name: t.Text, At: t.Pos()}, true
	case lexer.OpenParen:
		p.advance()
		var items []Atom
		for p.at().Kind != lexer.CloseParen {
			if p.at().Kind == lexer.EOF || p.at().Kind == lexer.NL {
				p.errf(p.at().Pos(), "Expected: ')'\nGot: '%s'", p.at().Text)
				return nil, false
			}
			item, ok := p.parseAtom()
			if !ok {
				return nil, false
			}
			items = append(items, item)
		}
		p.advance() // consume ')'
		return ParenAtom{Items: items, At: t.Pos()}, true
	default:
		p.errf(t.Pos(), "Expected: expression\nGot: '%s'", t.Text)
		return nil, false
	}
}
