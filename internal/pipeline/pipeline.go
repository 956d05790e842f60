// Package pipeline provides the generic stage-runner the orchestrator (Component
// H) drives. Stages report diagnostics rather than panicking; unlike the
// original Pipeline.Run, which deliberately continued through every
// processor so an LSP client could collect diagnostics from all of them at
// once, this runner stops at the first stage that reports anything, per
// SPEC_FULL.md §7: "the orchestrator stops at the first stage that fails and
// returns its errors."
package pipeline

import "github.com/jinnzest/morphc/internal/diagnostics"

// Stage is one named step of the pipeline, parameterised over the caller's
// own mutable state type.
type Stage[S any] struct {
	Name string
	Run  func(*S) diagnostics.List
}

// Pipeline is a fixed sequence of Stages run against a single State value.
type Pipeline[S any] struct {
	stages []Stage[S]
}

func New[S any](stages ...Stage[S]) *Pipeline[S] {
	return &Pipeline[S]{stages: stages}
}

// Run executes each stage in order against state, stopping and returning the
// failing stage's name and diagnostics at the first non-empty result.
func (p *Pipeline[S]) Run(state *S) (failedStage string, errs diagnostics.List) {
	for _, s := range p.stages {
		if errs := s.Run(state); len(errs) > 0 {
			return s.Name, errs
		}
	}
	return "", nil
}
