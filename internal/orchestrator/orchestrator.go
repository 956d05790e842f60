// Package orchestrator implements Component H (SPEC_FULL.md §4.H): it drives
// every other component in the documented control-flow order for one
// compilation unit, checks constraints, and reports the result.
package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jinnzest/morphc/internal/aspects"
	"github.com/jinnzest/morphc/internal/aspects/complexity"
	"github.com/jinnzest/morphc/internal/aspects/sideeffect"
	"github.com/jinnzest/morphc/internal/buildcache"
	"github.com/jinnzest/morphc/internal/callgraph"
	"github.com/jinnzest/morphc/internal/config"
	"github.com/jinnzest/morphc/internal/diagnostics"
	"github.com/jinnzest/morphc/internal/externals"
	"github.com/jinnzest/morphc/internal/hashing"
	"github.com/jinnzest/morphc/internal/lexer"
	"github.com/jinnzest/morphc/internal/model"
	"github.com/jinnzest/morphc/internal/parser"
	"github.com/jinnzest/morphc/internal/persistence"
	"github.com/jinnzest/morphc/internal/pipeline"
	"github.com/jinnzest/morphc/internal/resolver"
)

// State is the orchestrator's own mutable working set, threaded through the
// pipeline's fatal stages; it is the reconstructed, domain-specific
// replacement for the teacher's absent PipelineContext collaborator.
type State struct {
	Cfg      *config.Config
	Registry *aspects.Registry
	Lib      *externals.Library
	Unit     string

	Src    string
	Tokens []lexer.Token
	Raw    []parser.RawFunction

	Funcs       []model.Function
	FuncsByName map[model.FuncName]model.Function
	Sigs        map[model.FuncName]model.Signature

	NewHashes map[model.FuncName]string
	OldHashes map[model.FuncName]string
	Renames   map[model.FuncName]model.FuncName

	Hints     map[string]map[model.FuncName]aspects.Hint
	Analytics map[string]map[model.FuncName]aspects.Analytics

	// PersistDiagnostics accumulates write-back failures, which are never
	// fatal but must still be reported, after constraint checks have run
	// (SPEC_FULL.md §4.H). Index failures are collected separately by
	// writeIndex.
	PersistDiagnostics diagnostics.List
}

// Result is the outcome of one Compile call.
type Result struct {
	RunID       string
	Funcs       []model.Function
	Diagnostics diagnostics.List
	Failed      bool
}

// Compile runs the full pipeline for unit against cfg, using registry's
// enabled aspects and lib's built-in stubs.
func Compile(cfg *config.Config, registry *aspects.Registry, lib *externals.Library, unit string) *Result {
	runID := uuid.New().String()

	if err := registry.PruneDisabledHintFiles(cfg); err != nil {
		return &Result{RunID: runID, Diagnostics: diagnostics.List{err}, Failed: true}
	}

	state := &State{Cfg: cfg, Registry: registry, Lib: lib, Unit: unit}
	pl := pipeline.New(
		pipeline.Stage[State]{Name: "read-source", Run: stageReadSource},
		pipeline.Stage[State]{Name: "tokenize", Run: stageTokenize},
		pipeline.Stage[State]{Name: "parse", Run: stageParse},
		pipeline.Stage[State]{Name: "resolve", Run: stageResolve},
		pipeline.Stage[State]{Name: "recursion-guard", Run: stageRecursion},
		pipeline.Stage[State]{Name: "hash", Run: stageHash},
		pipeline.Stage[State]{Name: "load", Run: stageLoad},
		pipeline.Stage[State]{Name: "remap", Run: stageRemap},
		pipeline.Stage[State]{Name: "invalidate", Run: stageInvalidate},
		pipeline.Stage[State]{Name: "seed-externals", Run: stageSeedExternals},
		pipeline.Stage[State]{Name: "default-hints", Run: stageDefaultHints},
		pipeline.Stage[State]{Name: "infer", Run: stageInfer},
		pipeline.Stage[State]{Name: "write-back", Run: stageWriteBack},
		pipeline.Stage[State]{Name: "check-constraints", Run: stageCheckConstraints},
	)

	if _, errs := pl.Run(state); len(errs) > 0 {
		final := append(diagnostics.List{}, errs...)
		final = append(final, state.PersistDiagnostics...)
		return &Result{RunID: runID, Diagnostics: final, Failed: true}
	}

	var idxErrs diagnostics.List
	if cfg.Index.Enabled {
		idxErrs = writeIndex(state)
	}

	final := append(diagnostics.List{}, state.PersistDiagnostics...)
	final = append(final, idxErrs...)
	return &Result{RunID: runID, Funcs: state.Funcs, Diagnostics: final}
}

func stageReadSource(s *State) diagnostics.List {
	data, err := os.ReadFile(s.Cfg.SourcePath(s.Unit))
	if err != nil {
		if os.IsNotExist(err) {
			s.Src = ""
			return nil
		}
		return diagnostics.List{diagnostics.New(diagnostics.CodeLex, "reading source: "+err.Error())}
	}
	s.Src = string(data)
	return nil
}

func stageTokenize(s *State) diagnostics.List {
	toks, errs := lexer.Tokenize(s.Src)
	s.Tokens = toks
	return errs
}

func stageParse(s *State) diagnostics.List {
	raw, errs := parser.Parse(s.Tokens)
	s.Raw = raw
	return errs
}

func stageResolve(s *State) diagnostics.List {
	funcs, errs := resolver.Build(s.Raw, s.Lib.Sigs)
	if len(errs) > 0 {
		return errs
	}
	s.Funcs = funcs
	s.FuncsByName = make(map[model.FuncName]model.Function, len(funcs))
	s.Sigs = make(map[model.FuncName]model.Signature, len(funcs)+len(s.Lib.Sigs))
	for name, sig := range s.Lib.Sigs {
		s.Sigs[model.FuncName(name)] = sig
	}
	for _, f := range funcs {
		s.FuncsByName[f.Name] = f
		s.Sigs[f.Name] = f.Signature()
	}
	return nil
}

func stageRecursion(s *State) diagnostics.List {
	return callgraph.Check(s.Funcs)
}

func stageHash(s *State) diagnostics.List {
	s.NewHashes = hashing.Compute(s.Funcs)

	old, errs := persistence.ReadHashes(s.Cfg.HashesPath(s.Unit))
	if len(errs) > 0 {
		return errs
	}
	s.OldHashes = old

	oldHashToName := make(map[string]string, len(old))
	for name, hash := range old {
		oldHashToName[hash] = string(name)
	}
	s.Renames = hashing.RenameMap(oldHashToName, s.NewHashes)
	return nil
}

func stageLoad(s *State) diagnostics.List {
	s.Hints = make(map[string]map[model.FuncName]aspects.Hint)
	s.Analytics = make(map[string]map[model.FuncName]aspects.Analytics)
	var errs diagnostics.List
	for _, asp := range s.Registry.Enabled() {
		hints, herrs := asp.ReadHints(s.Cfg)
		errs = append(errs, herrs...)
		s.Hints[asp.Name()] = hints

		an, aerrs := asp.ReadAnalytics(s.Cfg)
		errs = append(errs, aerrs...)
		s.Analytics[asp.Name()] = an
	}
	return errs
}

func stageRemap(s *State) diagnostics.List {
	for _, asp := range s.Registry.Enabled() {
		s.Hints[asp.Name()] = persistence.RemapKeys(s.Renames, s.Hints[asp.Name()])
		s.Analytics[asp.Name()] = persistence.RemapKeys(s.Renames, s.Analytics[asp.Name()])
	}
	return nil
}

func stageInvalidate(s *State) diagnostics.List {
	for _, asp := range s.Registry.Enabled() {
		s.Analytics[asp.Name()] = persistence.Invalidate(s.OldHashes, s.NewHashes, s.Renames, s.Analytics[asp.Name()])
	}
	return nil
}

func stageSeedExternals(s *State) diagnostics.List {
	for _, asp := range s.Registry.Enabled() {
		for name, val := range s.Lib.Analytics[asp.Name()] {
			if _, ok := s.Analytics[asp.Name()][name]; !ok {
				s.Analytics[asp.Name()][name] = val
			}
		}
	}
	return nil
}

func stageDefaultHints(s *State) diagnostics.List {
	for _, asp := range s.Registry.Enabled() {
		for _, f := range s.Funcs {
			if _, ok := s.Hints[asp.Name()][f.Name]; !ok {
				s.Hints[asp.Name()][f.Name] = asp.DefaultHint(f)
			}
		}
	}
	return nil
}

func stageInfer(s *State) diagnostics.List {
	ctx := &aspects.Context{Funcs: s.FuncsByName, Sigs: s.Sigs}
	for _, asp := range s.Registry.Enabled() {
		for _, f := range s.Funcs {
			asp.Infer(f, s.Analytics[asp.Name()], ctx)
		}
	}
	return nil
}

// stageWriteBack never stops the pipeline: write failures are stashed on
// PersistDiagnostics to be reported after the constraint check, per
// SPEC_FULL.md §4.H.
func stageWriteBack(s *State) diagnostics.List {
	if err := persistence.WriteHashes(s.Cfg.HashesPath(s.Unit), s.NewHashes); err != nil {
		s.PersistDiagnostics = append(s.PersistDiagnostics, err)
	}
	for _, asp := range s.Registry.Enabled() {
		if err := asp.WriteHints(s.Cfg, s.Hints[asp.Name()]); err != nil {
			s.PersistDiagnostics = append(s.PersistDiagnostics, err)
		}
		if err := asp.WriteAnalytics(s.Cfg, s.Analytics[asp.Name()]); err != nil {
			s.PersistDiagnostics = append(s.PersistDiagnostics, err)
		}
	}
	return nil
}

func stageCheckConstraints(s *State) diagnostics.List {
	var errs diagnostics.List
	for _, f := range s.Funcs {
		var parts []string
		for _, asp := range s.Registry.Enabled() {
			if msg := asp.Check(s.Hints[asp.Name()][f.Name], s.Analytics[asp.Name()][f.Name]); msg != "" {
				parts = append(parts, msg)
			}
		}
		if len(parts) > 0 {
			errs = append(errs, diagnostics.New(diagnostics.CodeConstraint,
				strings.Join(parts, ", ")+" for function '"+string(f.Name)+"'"))
		}
	}
	return errs
}

// writeIndex performs the best-effort post-success query-index upsert
// (SPEC_FULL.md §4.H, §2.2).
func writeIndex(s *State) diagnostics.List {
	ctx := context.Background()
	if err := os.MkdirAll(filepath.Dir(s.Cfg.IndexPath()), 0o755); err != nil {
		return diagnostics.List{diagnostics.New(diagnostics.CodeIndex, "creating index directory: "+err.Error())}
	}
	db, err := buildcache.Open(ctx, s.Cfg.IndexPath())
	if err != nil {
		return diagnostics.List{diagnostics.New(diagnostics.CodeIndex, "opening index: "+err.Error())}
	}
	defer db.Close()

	var errs diagnostics.List
	for _, f := range s.Funcs {
		var se sideeffect.Set
		if m, ok := s.Analytics[sideeffect.AspectName]; ok {
			se, _ = m[f.Name].(sideeffect.Set)
		}
		var cx complexity.Map
		if m, ok := s.Analytics[complexity.AspectName]; ok {
			cx, _ = m[f.Name].(complexity.Map)
		}
		if err := buildcache.Upsert(ctx, db, f.Signature(), se, cx); err != nil {
			errs = append(errs, diagnostics.New(diagnostics.CodeIndex, "indexing '"+string(f.Name)+"': "+err.Error()))
		}
	}
	return errs
}
