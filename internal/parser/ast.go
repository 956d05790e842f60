package parser

import "github.com/jinnzest/morphc/internal/diagnostics"

// Atom is one element of a function body before arity-driven resolution
// (SPEC_FULL.md §4.B input: "whitespace-separated atoms: identifiers,
// integer literals, or parenthesised sub-expressions"). Resolution into the
// real model.Expression tree — where an identifier either opens a call that
// consumes further atoms, becomes an argument reference, or is rejected — is
// the semantic tree builder's job (internal/resolver), not the parser's.
type Atom interface {
	isAtom()
	Pos() diagnostics.Pos
}

type IntAtom struct {
	Value string
	At    diagnostics.Pos
}

func (IntAtom) isAtom()                   {}
func (a IntAtom) Pos() diagnostics.Pos     { return a.At }

type IdentAtom struct {
	Name string
	At   diagnostics.Pos
}

func (IdentAtom) isAtom()               {}
func (a IdentAtom) Pos() diagnostics.Pos { return a.At }

// ParenAtom is a parenthesised sub-list. The resolver resolves its items as a
// sequence of their own: if they resolve to a single expression (for example
// a call headed by the first item that consumes the rest) that expression
// stands alone; otherwise the expressions become a SubExpression.
type ParenAtom struct {
	Items []Atom
	At    diagnostics.Pos
}

func (ParenAtom) isAtom()               {}
func (a ParenAtom) Pos() diagnostics.Pos { return a.At }

// RawFunction is one `fn <name> <arg>* = <atom>+` declaration.
type RawFunction struct {
	Name string
	Args []string
	Body []Atom
	At   diagnostics.Pos
}
