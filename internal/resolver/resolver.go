// Package resolver implements the semantic tree builder (SPEC_FULL.md
// §4.B): parser atoms become the real model.Expression tree, driven by each
// callee's known arity.
package resolver

import (
	"github.com/jinnzest/morphc/internal/diagnostics"
	"github.com/jinnzest/morphc/internal/model"
	"github.com/jinnzest/morphc/internal/parser"
)

// Build resolves rawFuncs into fully-typed Functions. externals supplies
// signatures for library stubs that exist outside the compilation unit; all
// signatures (external and local) are visible to every function body,
// permitting forward references, before any body is walked.
func Build(rawFuncs []parser.RawFunction, externals map[string]model.Signature) ([]model.Function, diagnostics.List) {
	sigs := make(map[string]model.Signature, len(externals)+len(rawFuncs))
	for name, sig := range externals {
		sigs[name] = sig
	}
	for _, rf := range rawFuncs {
		sigs[rf.Name] = model.Signature{Name: model.FuncName(rf.Name), Args: rf.Args}
	}

	var out []model.Function
	var errs diagnostics.List
	for _, rf := range rawFuncs {
		argSet := make(map[string]bool, len(rf.Args))
		for _, a := range rf.Args {
			argSet[a] = true
		}
		r := &resolution{sigs: sigs, args: argSet}
		body, ferrs := r.resolveSeq(rf.Body)
		errs = append(errs, ferrs...)
		if len(ferrs) > 0 {
			continue
		}
		out = append(out, model.Function{Name: model.FuncName(rf.Name), Args: rf.Args, Body: body})
	}
	return out, errs
}

type resolution struct {
	sigs map[string]model.Signature
	args map[string]bool
}

// cursor walks one atom sequence (a function body or a parenthesised
// sub-list); each is a fresh scope, since a call's arguments never reach
// past the list they were written in.
type cursor struct {
	atoms []parser.Atom
	pos   int
}

func (c *cursor) next() (parser.Atom, bool) {
	if c.pos >= len(c.atoms) {
		return nil, false
	}
	a := c.atoms[c.pos]
	c.pos++
	return a, true
}

// resolveSeq resolves a whole atom sequence into one or more expressions,
// combining more than one into a SubExpression (SPEC_FULL.md §3: "a sequence
// whose value is the last element's value").
func (r *resolution) resolveSeq(atoms []parser.Atom) (model.Expression, diagnostics.List) {
	c := &cursor{atoms: atoms}
	var exprs []model.Expression
	var errs diagnostics.List
	for c.pos < len(c.atoms) {
		e, ferrs := r.resolveOne(c)
		errs = append(errs, ferrs...)
		if len(ferrs) > 0 {
			return nil, errs
		}
		exprs = append(exprs, e)
	}
	if len(exprs) == 1 {
		return exprs[0], errs
	}
	return model.SubExpression{Elements: exprs}, errs
}

func (r *resolution) resolveOne(c *cursor) (model.Expression, diagnostics.List) {
	atom, ok := c.next()
	if !ok {
		return nil, diagnostics.List{diagnostics.New(diagnostics.CodeResolve, "unexpected end of expression")}
	}

	switch a := atom.(type) {
	case parser.IntAtom:
		return model.Constant{Value: a.Value}, nil

	case parser.ParenAtom:
		return r.resolveSeq(a.Items)

	case parser.IdentAtom:
		if sig, isFn := r.sigs[a.Name]; isFn {
			args := make([]model.Expression, sig.Arity())
			for i := 0; i < sig.Arity(); i++ {
				if c.pos >= len(c.atoms) {
					return nil, diagnostics.List{diagnostics.At(diagnostics.CodeResolve, a.At,
						"not enough arguments for function '"+a.Name+"'")}
				}
				arg, errs := r.resolveOne(c)
				if len(errs) > 0 {
					return nil, errs
				}
				args[i] = arg
			}
			return model.FunctionCall{Name: a.Name, Args: args}, nil
		}
		if r.args[a.Name] {
			return model.FunctionArgument{Name: a.Name}, nil
		}
		return nil, diagnostics.List{diagnostics.At(diagnostics.CodeResolve, a.At, "no function with name "+a.Name)}

	default:
		return nil, diagnostics.List{diagnostics.New(diagnostics.CodeResolve, "unknown atom kind")}
	}
}
