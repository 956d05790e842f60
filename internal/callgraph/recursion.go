// Package callgraph implements the recursion guard (SPEC_FULL.md §4.C):
// rejecting any call graph with a cycle before any analysis runs.
package callgraph

import "github.com/jinnzest/morphc/internal/diagnostics"
import "github.com/jinnzest/morphc/internal/model"

// Check walks every function's body depth-first, tracking the set of
// ancestor names on the current call path. A call whose name is already an
// ancestor closes a cycle and is reported by name; the walk descends into a
// cyclic call's own argument expressions (they terminate, being finite
// sub-trees of the current function) but not into the callee's body again,
// since that body is exactly what is already on the path.
//
// The walk covers FunctionCall nodes reached through SubExpression members
// and through nested call arguments, not only a head-to-head chain of
// top-level calls — see SPEC_FULL.md §4.C for why this is the intended
// reading of "DFS through FunctionCall nodes".
func Check(funcs []model.Function) diagnostics.List {
	byName := make(map[string]model.Function, len(funcs))
	for _, f := range funcs {
		byName[string(f.Name)] = f
	}

	var offenders []string
	seen := make(map[string]bool)

	for _, f := range funcs {
		ancestors := map[string]bool{string(f.Name): true}
		walk(f.Body, byName, ancestors, &offenders, seen)
	}

	if len(offenders) == 0 {
		return nil
	}
	errs := make(diagnostics.List, 0, len(offenders)+1)
	for _, name := range offenders {
		errs = append(errs, diagnostics.New(diagnostics.CodeRecursion, name))
	}
	errs = append(errs, diagnostics.New(diagnostics.CodeRecursion,
		"recursive functions are not supported yet but those functions are recursive:"))
	return errs
}

func walk(e model.Expression, byName map[string]model.Function, ancestors map[string]bool, offenders *[]string, seen map[string]bool) {
	switch v := e.(type) {
	case model.FunctionCall:
		if ancestors[v.Name] {
			if !seen[v.Name] {
				*offenders = append(*offenders, v.Name)
				seen[v.Name] = true
			}
			for _, a := range v.Args {
				walk(a, byName, ancestors, offenders, seen)
			}
			return
		}
		if callee, ok := byName[v.Name]; ok {
			ancestors[v.Name] = true
			walk(callee.Body, byName, ancestors, offenders, seen)
			delete(ancestors, v.Name)
		}
		for _, a := range v.Args {
			walk(a, byName, ancestors, offenders, seen)
		}
	case model.SubExpression:
		for _, el := range v.Elements {
			walk(el, byName, ancestors, offenders, seen)
		}
	}
}
