package lexer

import "testing"

func TestTokenizeBasicDeclaration(t *testing.T) {
	toks, errs := Tokenize("fn f a = println a\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	wantKinds := []Kind{Fn, Ident, Ident, Equals, Ident, Ident, NL, EOF}
	if len(toks) != len(wantKinds) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(wantKinds), toks)
	}
	for i, k := range wantKinds {
		if toks[i].Kind != k {
			t.Errorf("token %d: kind = %v, want %v (text %q)", i, toks[i].Kind, k, toks[i].Text)
		}
	}
}

func TestTokenizeSkipsComments(t *testing.T) {
	toks, errs := Tokenize("# a comment\nfn f = 1")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[0].Kind != NL {
		t.Fatalf("expected leading NL from the comment line, got %v", toks[0].Kind)
	}
}

func TestTokenizeArrowAndNegativeInt(t *testing.T) {
	toks, errs := Tokenize("a <- -5")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if toks[1].Kind != Arrow || toks[1].Text != "<-" {
		t.Fatalf("token 1 = %+v, want Arrow '<-'", toks[1])
	}
	if toks[2].Kind != IntLit || toks[2].Text != "-5" {
		t.Fatalf("token 2 = %+v, want IntLit '-5'", toks[2])
	}
}

func TestTokenizeReportsUnexpectedCharacter(t *testing.T) {
	_, errs := Tokenize("fn f = $")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one lex error, got %d", len(errs))
	}
}

func TestTokenizeLineColumnTracking(t *testing.T) {
	toks, _ := Tokenize("fn f =\n  1")
	var intTok Token
	for _, tok := range toks {
		if tok.Kind == IntLit {
			intTok = tok
		}
	}
	if intTok.Line != 2 || intTok.Column != 3 {
		t.Fatalf("IntLit position = %d:%d, want 2:3", intTok.Line, intTok.Column)
	}
}
