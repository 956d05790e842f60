// Package externals holds the built-in library stubs visible to every
// compilation unit: their signatures (for the semantic tree builder, §4.B)
// and their pre-seeded analytics (for the aspects, §4.F/§4.G "seed analytics
// with externals"). Spec scenario S2 is grounded on the single built-in this
// package supplies: println.
package externals

import (
	"github.com/jinnzest/morphc/internal/aspects"
	"github.com/jinnzest/morphc/internal/aspects/complexity"
	"github.com/jinnzest/morphc/internal/aspects/sideeffect"
	"github.com/jinnzest/morphc/internal/model"
)

// Library is the set of built-in functions available to every unit, outside
// the compilation unit's own source.
type Library struct {
	Sigs map[string]model.Signature

	// Analytics is keyed first by aspect name, then by external function
	// name, holding the pre-computed analytics value the orchestrator seeds
	// into that aspect's analytics map before inference runs.
	Analytics map[string]map[model.FuncName]aspects.Analytics
}

// Builtins returns the fixed set of built-in functions: currently just
// println, a single-argument function that writes to the console (spec S2).
func Builtins() *Library {
	const println = "println"
	return &Library{
		Sigs: map[string]model.Signature{
			println: {Name: model.FuncName(println), Args: []string{"arg1"}},
		},
		Analytics: map[string]map[model.FuncName]aspects.Analytics{
			sideeffect.AspectName: {
				model.FuncName(println): sideeffect.NewSet(sideeffect.ConsoleOutput),
			},
			complexity.AspectName: {
				model.FuncName(println): complexity.Map{"arg1": complexity.ON},
			},
		},
	}
}
