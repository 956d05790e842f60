package complexity

import (
	"testing"

	"github.com/jinnzest/morphc/internal/aspects"
	"github.com/jinnzest/morphc/internal/config"
	"github.com/jinnzest/morphc/internal/model"
)

func funcsByName(funcs ...model.Function) map[model.FuncName]model.Function {
	out := make(map[model.FuncName]model.Function, len(funcs))
	for _, f := range funcs {
		out[f.Name] = f
	}
	return out
}

// S3 — fn f a = (a a): argument used twice in a sub-expression is still O(c).
func TestInferArgUsedTwiceIsStillConstant(t *testing.T) {
	f := model.Function{Name: "f", Args: []string{"a"}, Body: model.SubExpression{
		Elements: []model.Expression{model.FunctionArgument{Name: "a"}, model.FunctionArgument{Name: "a"}},
	}}
	a := New(true)
	analytics := map[model.FuncName]aspects.Analytics{}
	ctx := &aspects.Context{Funcs: funcsByName(f), Sigs: map[model.FuncName]model.Signature{"f": f.Signature()}}

	got := a.Infer(f, analytics, ctx).(Map)
	if got["a"] != OC {
		t.Fatalf("got[a] = %v, want O(c)", got["a"])
	}
}

// S4 — fn g a b = sub_func b a, where sub_func's stored complexity is
// {arg1: O(n), arg2: O(c)}. Inferred: {a: O(c), b: O(n)}.
func TestInferPropagatesThroughCallByPosition(t *testing.T) {
	g := model.Function{Name: "g", Args: []string{"a", "b"}, Body: model.FunctionCall{
		Name: "sub_func",
		Args: []model.Expression{model.FunctionArgument{Name: "b"}, model.FunctionArgument{Name: "a"}},
	}}
	a := New(true)
	analytics := map[model.FuncName]aspects.Analytics{
		"sub_func": Map{"arg1": ON, "arg2": OC},
	}
	ctx := &aspects.Context{
		Funcs: funcsByName(g),
		Sigs: map[model.FuncName]model.Signature{
			"g":        g.Signature(),
			"sub_func": {Name: "sub_func", Args: []string{"arg1", "arg2"}},
		},
	}

	got := a.Infer(g, analytics, ctx).(Map)
	if got["a"] != OC {
		t.Errorf("got[a] = %v, want O(c)", got["a"])
	}
	if got["b"] != ON {
		t.Errorf("got[b] = %v, want O(n)", got["b"])
	}
}

func TestInferMergesWithPriorStoredMap(t *testing.T) {
	f := model.Function{Name: "f", Args: []string{"a"}, Body: model.FunctionArgument{Name: "a"}}
	a := New(true)
	analytics := map[model.FuncName]aspects.Analytics{"f": Map{"a": ONSquare}}
	ctx := &aspects.Context{Funcs: funcsByName(f), Sigs: map[model.FuncName]model.Signature{"f": f.Signature()}}

	got := a.Infer(f, analytics, ctx).(Map)
	if got["a"] != ONSquare {
		t.Fatalf("got[a] = %v, want the prior O(n^2) to survive the pointwise-max merge", got["a"])
	}
}

func TestJoinIsLatticeMax(t *testing.T) {
	if join(OC, ON) != ON {
		t.Errorf("join(O(c), O(n)) = %v, want O(n)", join(OC, ON))
	}
	if join(ONSquare, ON) != ONSquare {
		t.Errorf("join(O(n^2), O(n)) = %v, want O(n^2)", join(ONSquare, ON))
	}
}

func TestContainsArgDoesNotRecurseIntoNestedCalls(t *testing.T) {
	// h (g a) — 'a' is reachable only through g's own argument list, not
	// through direct SubExpression/FunctionArgument structure.
	e := model.FunctionCall{Name: "h", Args: []model.Expression{
		model.FunctionCall{Name: "g", Args: []model.Expression{model.FunctionArgument{Name: "a"}}},
	}}
	if containsArg(e, "a") {
		t.Fatalf("containsArg must not recurse into nested FunctionCall argument lists")
	}
}

func TestCheckComplexityConstraints(t *testing.T) {
	a := New(true)
	msg := a.Check(Hint{"x": HintC}, Map{"x": ON})
	want := "Maximum 'O(c)' is allowed for argument 'x' but got 'O(n)'"
	if msg != want {
		t.Fatalf("Check() = %q, want %q", msg, want)
	}

	msg = a.Check(Hint{"x": HintN}, Map{"x": ONSquare})
	want = "Maximum 'O(n)' is allowed for argument 'x' but got 'O(n^2)'"
	if msg != want {
		t.Fatalf("Check() = %q, want %q", msg, want)
	}

	if msg := a.Check(Hint{"x": HintAny}, Map{"x": ONSquare}); msg != "" {
		t.Fatalf("Check() with HintAny = %q, want empty", msg)
	}
}

func TestHintsRoundTrip(t *testing.T) {
	cfg := &config.Config{Root: t.TempDir()}
	a := New(true)
	hints := map[model.FuncName]aspects.Hint{
		"f": Hint{"a": HintC, "b": HintAny},
	}
	if err := a.WriteHints(cfg, hints); err != nil {
		t.Fatalf("WriteHints: %v", err)
	}
	got, errs := a.ReadHints(cfg)
	if len(errs) != 0 {
		t.Fatalf("ReadHints errors: %v", errs)
	}
	h := got["f"].(Hint)
	if h["a"] != HintC || h["b"] != HintAny {
		t.Fatalf("round-tripped hint = %+v, want {a:c, b:any}", h)
	}
}

func TestAnalyticsRoundTrip(t *testing.T) {
	cfg := &config.Config{Root: t.TempDir()}
	a := New(true)
	analytics := map[model.FuncName]aspects.Analytics{
		"f": Map{"a": OC, "b": ONSquare},
	}
	if err := a.WriteAnalytics(cfg, analytics); err != nil {
		t.Fatalf("WriteAnalytics: %v", err)
	}
	got, errs := a.ReadAnalytics(cfg)
	if len(errs) != 0 {
		t.Fatalf("ReadAnalytics errors: %v", errs)
	}
	m := got["f"].(Map)
	if m["a"] != OC || m["b"] != ONSquare {
		t.Fatalf("round-tripped analytics = %+v, want {a:O(c), b:O(n^2)}", m)
	}
}
