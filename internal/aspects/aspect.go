// Package aspects defines the open aspect registry (SPEC_FULL.md §4.A),
// reimplemented as a Go interface with dynamic dispatch plus a slice-backed
// registry rather than the original's closed tagged-variant encoding, per
// §9's explicit licence to do either.
package aspects

import (
	"github.com/jinnzest/morphc/internal/config"
	"github.com/jinnzest/morphc/internal/diagnostics"
	"github.com/jinnzest/morphc/internal/model"
)

// Hint is the marker interface for user-supplied per-aspect constraint data.
type Hint interface{ isHint() }

// Analytics is the marker interface for inferred per-aspect property data.
type Analytics interface{ isAnalytics() }

// Context is the shared, read-only state every aspect's Infer needs: the
// source functions available for recursive inference, and the full
// signature table (source plus external stubs) needed to resolve a callee's
// formal parameter names by position. Modelled as an explicit state struct in the style of the teacher's analyzer.InferenceContext, rather
// than a long parameter list.
type Context struct {
	Funcs map[model.FuncName]model.Function
	Sigs  map[model.FuncName]model.Signature
}

// Aspect is a pluggable static analysis with matching Hint and Analytics
// payloads (SPEC_FULL.md §4.A).
type Aspect interface {
	Name() string
	Enabled() bool

	ReadHints(cfg *config.Config) (map[model.FuncName]Hint, diagnostics.List)
	WriteHints(cfg *config.Config, hints map[model.FuncName]Hint) *diagnostics.Error

	ReadAnalytics(cfg *config.Config) (map[model.FuncName]Analytics, diagnostics.List)
	WriteAnalytics(cfg *config.Config, analytics map[model.FuncName]Analytics) *diagnostics.Error

	// Infer computes (and installs into analytics) the property for f,
	// recursing into ctx.Funcs as needed. Returns the value installed.
	Infer(f model.Function, analytics map[model.FuncName]Analytics, ctx *Context) Analytics

	// DefaultHint is the permissive default used when the user supplied none.
	DefaultHint(f model.Function) Hint

	// Check returns "" if hint and analytics are compatible, else a diagnostic.
	Check(hint Hint, an Analytics) string
}

// Registry is the static, build-time-enumerated set of aspects.
type Registry struct {
	aspects []Aspect
}

func NewRegistry(aspects ...Aspect) *Registry {
	return &Registry{aspects: aspects}
}

func (r *Registry) All() []Aspect { return r.aspects }

// Enabled returns only the aspects whose Enabled() is true.
func (r *Registry) Enabled() []Aspect {
	var out []Aspect
	for _, a := range r.aspects {
		if a.Enabled() {
			out = append(out, a)
		}
	}
	return out
}

// PruneDisabledHintFiles deletes any on-disk hint file belonging to an
// aspect that is not currently enabled, so the on-disk state never lags the
// enabled set (SPEC_FULL.md §4.A persistence side-effect).
func (r *Registry) PruneDisabledHintFiles(cfg *config.Config) *diagnostics.Error {
	for _, a := range r.aspects {
		if a.Enabled() {
			continue
		}
		path := cfg.HintsPath(a.Name())
		if err := removeIfExists(path); err != nil {
			return diagnostics.New(diagnostics.CodePersist, "removing disabled hint file "+path+": "+err.Error())
		}
	}
	return nil
}
