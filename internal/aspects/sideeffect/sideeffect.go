// Package sideeffect implements the side-effect tracking aspect
// (SPEC_FULL.md §4.F): a flow-insensitive union over the call graph, with
// set-union join over {None, ConsoleInput, ConsoleOutput}.
package sideeffect

import (
	"sort"
	"strings"

	"github.com/jinnzest/morphc/internal/aspects"
	"github.com/jinnzest/morphc/internal/config"
	"github.com/jinnzest/morphc/internal/diagnostics"
	"github.com/jinnzest/morphc/internal/model"
	"github.com/jinnzest/morphc/internal/persistence"
)

const AspectName = "side_effect"

type Effect string

const (
	None          Effect = "None"
	ConsoleInput  Effect = "ConsoleInput"
	ConsoleOutput Effect = "ConsoleOutput"
)

// Set is the side-effect analytics payload: a set over {None, ConsoleInput,
// ConsoleOutput} with the invariant that cardinality > 1 implies None is
// absent.
type Set map[Effect]bool

func (Set) isAnalytics() {}

func NewSet(effects ...Effect) Set {
	s := make(Set, len(effects))
	for _, e := range effects {
		s[e] = true
	}
	return s.normalize()
}

func (s Set) normalize() Set {
	if len(s) > 1 {
		delete(s, None)
	}
	return s
}

func (s Set) union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for e := range s {
		out[e] = true
	}
	for e := range other {
		out[e] = true
	}
	return out.normalize()
}

func (s Set) sortedNonNone() []string {
	var names []string
	for e := range s {
		if e == None {
			continue
		}
		names = append(names, displayEffect(e))
	}
	sort.Strings(names)
	return names
}

func displayEffect(e Effect) string {
	switch e {
	case ConsoleInput:
		return "console input"
	case ConsoleOutput:
		return "console output"
	default:
		return "no side effects"
	}
}

func parseEffect(s string) (Effect, bool) {
	switch s {
	case "console input":
		return ConsoleInput, true
	case "console output":
		return ConsoleOutput, true
	default:
		return "", false
	}
}

// DisplayAnalytics renders the analytics set as used in diagnostics and the
// analytics file's body grammar (SPEC_FULL.md §6, §4.H).
func (s Set) DisplayAnalytics() string {
	if len(s) == 0 || (len(s) == 1 && s[None]) {
		return "no side effects"
	}
	return "allowed side effects: " + strings.Join(s.sortedNonNone(), ", ")
}

// HintKind distinguishes the three hint shapes of SPEC_FULL.md §3.
type HintKind int

const (
	NoSideEffects HintKind = iota
	AnySideEffect
	Allowed
)

type Hint struct {
	Kind    HintKind
	Allowed Set
}

func (Hint) isHint() {}

func (h Hint) String() string {
	switch h.Kind {
	case NoSideEffects:
		return "no side effects"
	case AnySideEffect:
		return "any side effect"
	default:
		return "allowed side effects: " + h.Allowed.sortedNonNoneJoined()
	}
}

func (s Set) sortedNonNoneJoined() string { return strings.Join(s.sortedNonNone(), ", ") }

// Aspect implements aspects.Aspect for side-effect tracking. It carries
// per-run memoisation state (which functions have already been freshly
// inferred this run); a fresh Aspect is constructed for each compilation.
type Aspect struct {
	enabled  bool
	computed map[model.FuncName]bool
}

func New(enabled bool) *Aspect {
	return &Aspect{enabled: enabled, computed: map[model.FuncName]bool{}}
}

func (a *Aspect) Name() string   { return AspectName }
func (a *Aspect) Enabled() bool  { return a.enabled }

func (a *Aspect) DefaultHint(model.Function) aspects.Hint {
	return Hint{Kind: AnySideEffect}
}

// Infer walks f's body accumulating a side-effect set, recursing into
// not-yet-analysed source callees and folding in already-seeded externals.
// A callee that is neither a known source function nor already present in
// analytics indicates an earlier stage's invariant was violated and is a
// programmer error (SPEC_FULL.md §4.F, §7), not a user diagnostic.
func (a *Aspect) Infer(f model.Function, analytics map[model.FuncName]aspects.Analytics, ctx *aspects.Context) aspects.Analytics {
	if a.computed[f.Name] {
		return analytics[f.Name]
	}
	acc := NewSet(None)
	a.walk(f.Body, analytics, ctx, &acc)
	acc = acc.normalize()
	analytics[f.Name] = acc
	a.computed[f.Name] = true
	return acc
}

func (a *Aspect) walk(e model.Expression, analytics map[model.FuncName]aspects.Analytics, ctx *aspects.Context, acc *Set) {
	switch v := e.(type) {
	case model.Constant, model.FunctionArgument:
		(*acc)[None] = true

	case model.FunctionCall:
		var calleeSet Set
		if callee, ok := ctx.Funcs[model.FuncName(v.Name)]; ok {
			if !a.computed[callee.Name] {
				a.Infer(callee, analytics, ctx)
			}
			calleeSet, _ = analytics[callee.Name].(Set)
		} else if existing, ok := analytics[model.FuncName(v.Name)]; ok {
			calleeSet, _ = existing.(Set)
		} else {
			panic("side-effect analysis: '" + v.Name + "' is neither a source function nor a seeded external")
		}
		*acc = acc.union(calleeSet)
		for _, arg := range v.Args {
			a.walk(arg, analytics, ctx, acc)
		}

	case model.SubExpression:
		for _, el := range v.Elements {
			a.walk(el, analytics, ctx, acc)
		}
	}
}

// Check implements the constraint rules of SPEC_FULL.md §4.H.
func (a *Aspect) Check(hint aspects.Hint, an aspects.Analytics) string {
	h, _ := hint.(Hint)
	set, _ := an.(Set)

	switch h.Kind {
	case AnySideEffect:
		return ""
	case NoSideEffects:
		if len(set) == 0 || (len(set) == 1 && set[None]) {
			return ""
		}
	case Allowed:
		if setsEqual(set, h.Allowed) {
			return ""
		}
	}
	return "Expected: '" + h.String() + "'\nGot: '" + set.DisplayAnalytics() + "'"
}

func setsEqual(a, b Set) bool {
	if len(a) != len(b) {
		return false
	}
	for e := range a {
		if !b[e] {
			return false
		}
	}
	return true
}

// ReadHints parses the hints file body grammar:
// any | none | console input | console output | comma-separated list.
func (a *Aspect) ReadHints(cfg *config.Config) (map[model.FuncName]aspects.Hint, diagnostics.List) {
	lines, err := persistence.ReadLines(cfg.HintsPath(a.Name()))
	if err != nil {
		return nil, diagnostics.List{err}
	}
	out := make(map[model.FuncName]aspects.Hint, len(lines))
	var errs diagnostics.List
	for _, l := range lines {
		name, body, ok := persistence.SplitNameBody(l.Text, "<-")
		if !ok {
			errs = append(errs, diagnostics.At(diagnostics.CodePersist,
				diagnostics.Pos{Line: l.Number, Column: 1}, "Expected: '<-'\nGot: '"+l.Text+"'"))
			continue
		}
		h, perr := parseHintBody(body)
		if perr != "" {
			errs = append(errs, diagnostics.At(diagnostics.CodePersist,
				diagnostics.Pos{Line: l.Number, Column: 1}, perr))
			continue
		}
		out[model.FuncName(name)] = h
	}
	return out, errs
}

func parseHintBody(body string) (Hint, string) {
	switch body {
	case "any":
		return Hint{Kind: AnySideEffect}, ""
	case "none":
		return Hint{Kind: NoSideEffects}, ""
	}
	parts := strings.Split(body, ",")
	set := Set{}
	for _, p := range parts {
		e, ok := parseEffect(strings.TrimSpace(p))
		if !ok {
			return Hint{}, "Expected: 'any', 'none', or a console effect list\nGot: '" + body + "'"
		}
		set[e] = true
	}
	return Hint{Kind: Allowed, Allowed: set}, ""
}

func (a *Aspect) WriteHints(cfg *config.Config, hints map[model.FuncName]aspects.Hint) *diagnostics.Error {
	own := aspects.FilterHints(hints, func(h aspects.Hint) (Hint, bool) { v, ok := h.(Hint); return v, ok })
	if len(own) == 0 {
		return nil
	}
	names := aspects.SortedKeys(own)
	var sb strings.Builder
	for _, n := range names {
		h := own[n]
		var body string
		switch h.Kind {
		case Allowed:
			body = h.Allowed.sortedNonNoneJoined()
		case AnySideEffect:
			body = "any"
		default:
			body = "none"
		}
		sb.WriteString(string(n) + " <- " + body + "\n")
	}
	return persistence.WriteFile(cfg.HintsPath(a.Name()), sb.String())
}

// ReadAnalytics parses the analytics file body grammar:
// no side effects | allowed side effects: <list>.
func (a *Aspect) ReadAnalytics(cfg *config.Config) (map[model.FuncName]aspects.Analytics, diagnostics.List) {
	lines, err := persistence.ReadLines(cfg.AnalyticsPath(a.Name()))
	if err != nil {
		return nil, diagnostics.List{err}
	}
	out := make(map[model.FuncName]aspects.Analytics, len(lines))
	var errs diagnostics.List
	for _, l := range lines {
		if strings.HasPrefix(l.Text, "legenda:") {
			continue
		}
		name, body, ok := persistence.SplitNameBody(l.Text, "=")
		if !ok {
			errs = append(errs, diagnostics.At(diagnostics.CodePersist,
				diagnostics.Pos{Line: l.Number, Column: 1}, "Expected: '='\nGot: '"+l.Text+"'"))
			continue
		}
		set, perr := parseAnalyticsBody(body)
		if perr != "" {
			errs = append(errs, diagnostics.At(diagnostics.CodePersist,
				diagnostics.Pos{Line: l.Number, Column: 1}, perr))
			continue
		}
		out[model.FuncName(name)] = set
	}
	return out, errs
}

func parseAnalyticsBody(body string) (Set, string) {
	if body == "no side effects" {
		return NewSet(None), ""
	}
	const prefix = "allowed side effects:"
	if !strings.HasPrefix(body, prefix) {
		return nil, "Expected: 'no side effects' or 'allowed side effects: ...'\nGot: '" + body + "'"
	}
	rest := strings.TrimSpace(body[len(prefix):])
	set := Set{}
	for _, p := range strings.Split(rest, ",") {
		e, ok := parseEffect(strings.TrimSpace(p))
		if !ok {
			return nil, "Expected: console effect list\nGot: '" + body + "'"
		}
		set[e] = true
	}
	return set, ""
}

func (a *Aspect) WriteAnalytics(cfg *config.Config, analytics map[model.FuncName]aspects.Analytics) *diagnostics.Error {
	own := aspects.FilterAnalytics(analytics, func(v aspects.Analytics) (Set, bool) { s, ok := v.(Set); return s, ok })
	names := aspects.SortedKeys(own)
	var sb strings.Builder
	for _, n := range names {
		sb.WriteString(string(n) + " = " + own[n].DisplayAnalytics() + "\n")
	}
	sb.WriteString("legenda: side-effect sets are either 'no side effects' or 'allowed side effects: <console input|console output, ...>'\n")
	return persistence.WriteFile(cfg.AnalyticsPath(a.Name()), sb.String())
}
