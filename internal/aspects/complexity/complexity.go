// Package complexity implements the per-argument asymptotic complexity
// aspect (SPEC_FULL.md §4.G): a join-over-paths propagation through the call
// graph over the lattice O(c) < O(n) < O(n^2).
package complexity

import (
	"strings"

	"github.com/jinnzest/morphc/internal/aspects"
	"github.com/jinnzest/morphc/internal/config"
	"github.com/jinnzest/morphc/internal/diagnostics"
	"github.com/jinnzest/morphc/internal/model"
	"github.com/jinnzest/morphc/internal/persistence"
)

const AspectName = "complexity"

// Level is a point in the totally ordered lattice O(c) < O(n) < O(n^2).
type Level int

const (
	OC Level = iota
	ON
	ONSquare
)

func (l Level) String() string {
	switch l {
	case OC:
		return "O(c)"
	case ON:
		return "O(n)"
	default:
		return "O(n^2)"
	}
}

func join(a, b Level) Level {
	if a > b {
		return a
	}
	return b
}

// Map is the complexity analytics payload: argument identifier -> Level.
type Map map[string]Level

func (Map) isAnalytics() {}

// joinMaps computes the pointwise max of two maps; a key missing from one
// side takes the other side's value (SPEC_FULL.md §4.G).
func joinMaps(a, b Map) Map {
	out := make(Map, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if existing, ok := out[k]; ok {
			out[k] = join(existing, v)
		} else {
			out[k] = v
		}
	}
	return out
}

// HintSym is the per-argument hint symbol (SPEC_FULL.md §3).
type HintSym int

const (
	HintC HintSym = iota
	HintN
	HintAny
)

// Hint is a mapping from argument identifier to HintSym.
type Hint map[string]HintSym

func (Hint) isHint() {}

// Aspect implements aspects.Aspect for per-argument complexity. Like
// sideeffect.Aspect, it carries per-run memoisation state; a fresh Aspect is
// constructed for each compilation.
type Aspect struct {
	enabled  bool
	computed map[model.FuncName]bool
}

func New(enabled bool) *Aspect {
	return &Aspect{enabled: enabled, computed: map[model.FuncName]bool{}}
}

func (a *Aspect) Name() string  { return AspectName }
func (a *Aspect) Enabled() bool { return a.enabled }

func (a *Aspect) DefaultHint(f model.Function) aspects.Hint {
	h := make(Hint, len(f.Args))
	for _, arg := range f.Args {
		h[arg] = HintAny
	}
	return h
}

// Infer computes f's complexity map by joining the body's contribution with
// whatever complexity map was already seeded into analytics for f (a
// persisted value surviving invalidation, or an external stub), per
// SPEC_FULL.md §4.G "merge with any previously stored map for f".
func (a *Aspect) Infer(f model.Function, analytics map[model.FuncName]aspects.Analytics, ctx *aspects.Context) aspects.Analytics {
	if a.computed[f.Name] {
		return analytics[f.Name]
	}
	prior, _ := analytics[f.Name].(Map)

	body := a.walk(f.Body, f, analytics, ctx)
	final := joinMaps(body, prior)

	analytics[f.Name] = final
	a.computed[f.Name] = true
	return final
}

func (a *Aspect) walk(e model.Expression, f model.Function, analytics map[model.FuncName]aspects.Analytics, ctx *aspects.Context) Map {
	switch v := e.(type) {
	case model.Constant:
		out := make(Map, len(f.Args))
		for _, arg := range f.Args {
			out[arg] = OC
		}
		return out

	case model.FunctionArgument:
		return Map{v.Name: OC}

	case model.SubExpression:
		var out Map
		for _, el := range v.Elements {
			out = joinMaps(out, a.walk(el, f, analytics, ctx))
		}
		return out

	case model.FunctionCall:
		calleeMap := a.calleeMap(v, analytics, ctx)
		calleeSig, hasSig := ctx.Sigs[model.FuncName(v.Name)]
		out := Map{}
		if hasSig {
			for i, actual := range v.Args {
				if i >= calleeSig.Arity() {
					continue
				}
				formalName := calleeSig.Args[i]
				level, ok := calleeMap[formalName]
				if !ok {
					continue
				}
				for _, arg := range f.Args {
					if containsArg(actual, arg) {
						out = joinMaps(out, Map{arg: level})
					}
				}
			}
		}
		return out

	default:
		return Map{}
	}
}

func (a *Aspect) calleeMap(call model.FunctionCall, analytics map[model.FuncName]aspects.Analytics, ctx *aspects.Context) Map {
	if callee, ok := ctx.Funcs[model.FuncName(call.Name)]; ok {
		if !a.computed[callee.Name] {
			a.Infer(callee, analytics, ctx)
		}
		m, _ := analytics[callee.Name].(Map)
		return m
	}
	if existing, ok := analytics[model.FuncName(call.Name)]; ok {
		m, _ := existing.(Map)
		return m
	}
	return Map{}
}

// containsArg reports whether e textually contains FunctionArgument(name),
// recursing only into SubExpression children — not into nested FunctionCall
// argument lists. Preserved literally from the original prototype's
// expr_contains_arg (SPEC_FULL.md §4.G).
func containsArg(e model.Expression, name string) bool {
	switch v := e.(type) {
	case model.FunctionArgument:
		return v.Name == name
	case model.SubExpression:
		for _, el := range v.Elements {
			if containsArg(el, name) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Check implements the constraint rules of SPEC_FULL.md §4.H: sort both
// mappings by identifier, then compare pointwise.
func (a *Aspect) Check(hint aspects.Hint, an aspects.Analytics) string {
	h, _ := hint.(Hint)
	m, _ := an.(Map)

	args := make([]string, 0, len(h))
	for arg := range h {
		args = append(args, arg)
	}
	sortStrings(args)

	var diags []string
	for _, arg := range args {
		sym := h[arg]
		if sym == HintAny {
			continue
		}
		level := m[arg]
		switch sym {
		case HintC:
			if level != OC {
				diags = append(diags, "Maximum 'O(c)' is allowed for argument '"+arg+"' but got '"+level.String()+"'")
			}
		case HintN:
			if level == ONSquare {
				diags = append(diags, "Maximum 'O(n)' is allowed for argument '"+arg+"' but got '"+level.String()+"'")
			}
		}
	}
	return strings.Join(diags, ", ")
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func parseLevel(sym string) (Level, bool) {
	switch strings.TrimSpace(sym) {
	case "c":
		return OC, true
	case "n":
		return ON, true
	case "n^2":
		return ONSquare, true
	default:
		return 0, false
	}
}

func parseHintSym(sym string) (HintSym, bool) {
	switch strings.TrimSpace(sym) {
	case "c":
		return HintC, true
	case "n":
		return HintN, true
	case "any":
		return HintAny, true
	default:
		return 0, false
	}
}

// ReadHints parses the hints file body grammar: comma-separated
// "arg: (c|n|any)" (SPEC_FULL.md §6).
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
		if body == "" {
			out[model.FuncName(name)] = Hint{}
			continue
		}
		h := Hint{}
		bad := false
		for _, entry := range strings.Split(body, ",") {
			argSym, symText, ok := persistence.SplitNameBody(entry, ":")
			if !ok {
				errs = append(errs, diagnostics.At(diagnostics.CodePersist,
					diagnostics.Pos{Line: l.Number, Column: 1}, "Expected: ':'\nGot: '"+entry+"'"))
				bad = true
				break
			}
			sym, ok := parseHintSym(symText)
			if !ok {
				errs = append(errs, diagnostics.At(diagnostics.CodePersist,
					diagnostics.Pos{Line: l.Number, Column: 1}, "Expected: 'c', 'n', or 'any'\nGot: '"+symText+"'"))
				bad = true
				break
			}
			h[strings.TrimSpace(argSym)] = sym
		}
		if bad {
			continue
		}
		out[model.FuncName(name)] = h
	}
	return out, errs
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
		argNames := make([]string, 0, len(h))
		for arg := range h {
			argNames = append(argNames, arg)
		}
		sortStrings(argNames)
		parts := make([]string, len(argNames))
		for i, arg := range argNames {
			parts[i] = arg + ": " + hintSymText(h[arg])
		}
		sb.WriteString(string(n) + " <- " + strings.Join(parts, ", ") + "\n")
	}
	return persistence.WriteFile(cfg.HintsPath(a.Name()), sb.String())
}

func hintSymText(s HintSym) string {
	switch s {
	case HintC:
		return "c"
	case HintN:
		return "n"
	default:
		return "any"
	}
}

// ReadAnalytics parses the analytics file body grammar: comma-separated
// "arg is O(<c|n|n^2>)" (SPEC_FULL.md §6).
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
		if body == "" {
			out[model.FuncName(name)] = Map{}
			continue
		}
		m := Map{}
		bad := false
		for _, entry := range strings.Split(body, ",") {
			level, argName, perr := parseAnalyticsEntry(entry)
			if perr != "" {
				errs = append(errs, diagnostics.At(diagnostics.CodePersist,
					diagnostics.Pos{Line: l.Number, Column: 1}, perr))
				bad = true
				break
			}
			m[argName] = level
		}
		if bad {
			continue
		}
		out[model.FuncName(name)] = m
	}
	return out, errs
}

func parseAnalyticsEntry(entry string) (Level, string, string) {
	entry = strings.TrimSpace(entry)
	const mid = " is O("
	i := strings.Index(entry, mid)
	if i < 0 || !strings.HasSuffix(entry, ")") {
		return 0, "", "Expected: '<arg> is O(<c|n|n^2>)'\nGot: '" + entry + "'"
	}
	argName := entry[:i]
	sym := entry[i+len(mid) : len(entry)-1]
	level, ok := parseLevel(sym)
	if !ok {
		return 0, "", "Expected: 'c', 'n', or 'n^2'\nGot: '" + sym + "'"
	}
	return level, argName, ""
}

func (a *Aspect) WriteAnalytics(cfg *config.Config, analytics map[model.FuncName]aspects.Analytics) *diagnostics.Error {
	own := aspects.FilterAnalytics(analytics, func(v aspects.Analytics) (Map, bool) { m, ok := v.(Map); return m, ok })
	names := aspects.SortedKeys(own)
	var sb strings.Builder
	for _, n := range names {
		m := own[n]
		argNames := make([]string, 0, len(m))
		for arg := range m {
			argNames = append(argNames, arg)
		}
		sortStrings(argNames)
		parts := make([]string, len(argNames))
		for i, arg := range argNames {
			parts[i] = arg + " is " + analyticsLevelText(m[arg])
		}
		sb.WriteString(string(n) + " = " + strings.Join(parts, ", ") + "\n")
	}
	sb.WriteString("legenda: complexity values are 'arg is O(c|n|n^2)' per argument\n")
	return persistence.WriteFile(cfg.AnalyticsPath(a.Name()), sb.String())
}

func analyticsLevelText(l Level) string {
	switch l {
	case OC:
		return "O(c)"
	case ON:
		return "O(n)"
	default:
		return "O(n^2)"
	}
}
