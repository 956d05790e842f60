package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/jinnzest/morphc/internal/aspects"
	"github.com/jinnzest/morphc/internal/aspects/complexity"
	"github.com/jinnzest/morphc/internal/aspects/sideeffect"
	"github.com/jinnzest/morphc/internal/buildcache"
	"github.com/jinnzest/morphc/internal/config"
	"github.com/jinnzest/morphc/internal/externals"
	"github.com/jinnzest/morphc/internal/model"
	"github.com/jinnzest/morphc/internal/persistence"
)

func projectFromArchive(t *testing.T, archive string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	a := txtar.Parse([]byte(archive))
	if err := txtar.Write(a, dir); err != nil {
		t.Fatalf("extracting fixture archive: %v", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func freshRegistry(cfg *config.Config) *aspects.Registry {
	return aspects.NewRegistry(sideeffect.New(cfg.Aspects.SideEffect), complexity.New(cfg.Aspects.Complexity))
}

// S1 — fn f a = 1, with permissive defaults: compiles cleanly.
func TestCompileS1PureConstant(t *testing.T) {
	cfg := projectFromArchive(t, "-- src/main.astn --\nfn f a = 1\n")

	result := Compile(cfg, freshRegistry(cfg), externals.Builtins(), "main")
	require.Falsef(t, result.Failed, "unexpected failure: %v", result.Diagnostics)
	require.Len(t, result.Funcs, 1)
	require.Equal(t, model.FuncName("f"), result.Funcs[0].Name)
	require.NotEmpty(t, result.RunID)
}

// S2 — a NoSideEffects hint rejecting println's console output.
func TestCompileS2ConstraintViolation(t *testing.T) {
	cfg := projectFromArchive(t,
		"-- src/main.astn --\nfn f x = println x\n"+
			"-- hints/side_effect.hnt --\nf <- none\n")

	result := Compile(cfg, freshRegistry(cfg), externals.Builtins(), "main")
	if !result.Failed {
		t.Fatalf("expected a constraint violation, got success")
	}
	want := "Expected: 'no side effects'\nGot: 'allowed side effects: console output' for function 'f'"
	found := false
	for _, d := range result.Diagnostics {
		if d.Msg == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected diagnostic %q, got: %v", want, result.Diagnostics)
	}
}

// S6 — fn f = f is rejected before any analysis runs.
func TestCompileS6Recursion(t *testing.T) {
	cfg := projectFromArchive(t, "-- src/main.astn --\nfn f = f\n")

	result := Compile(cfg, freshRegistry(cfg), externals.Builtins(), "main")
	if !result.Failed {
		t.Fatalf("expected recursion to be rejected")
	}
	if len(result.Diagnostics) != 2 || result.Diagnostics[0].Msg != "f" {
		t.Fatalf("unexpected diagnostics: %v", result.Diagnostics)
	}
}

// S5 — renaming a function migrates its persisted hints/analytics to the new
// name across a second compilation of the same project.
func TestCompileS5RenameMigratesAnalytics(t *testing.T) {
	cfg := projectFromArchive(t, "-- src/main.astn --\nfn alpha x = 1\n")
	registry := freshRegistry(cfg)
	if result := Compile(cfg, registry, externals.Builtins(), "main"); result.Failed {
		t.Fatalf("first compile failed: %v", result.Diagnostics)
	}

	if err := persistence.WriteFile(cfg.SourcePath("main"), "fn beta x = 1\n"); err != nil {
		t.Fatalf("rewriting source: %v", err)
	}

	registry2 := freshRegistry(cfg)
	result := Compile(cfg, registry2, externals.Builtins(), "main")
	if result.Failed {
		t.Fatalf("second compile failed: %v", result.Diagnostics)
	}

	got, errs := sideeffect.New(true).ReadAnalytics(cfg)
	if len(errs) != 0 {
		t.Fatalf("ReadAnalytics errors: %v", errs)
	}
	if _, stillUnderOldName := got["alpha"]; stillUnderOldName {
		t.Fatalf("expected 'alpha' analytics to have migrated off the old name")
	}
	if _, underNewName := got["beta"]; !underNewName {
		t.Fatalf("expected 'beta' to carry the migrated analytics")
	}
}

// S7 — after a successful compile, the query index holds an entry for f
// without needing to touch src/, hints/, or analytics/.
func TestCompileS7QueryIndexRoundTrip(t *testing.T) {
	cfg := projectFromArchive(t, "-- src/main.astn --\nfn f a = 1\n")

	if result := Compile(cfg, freshRegistry(cfg), externals.Builtins(), "main"); result.Failed {
		t.Fatalf("compile failed: %v", result.Diagnostics)
	}

	ctx := context.Background()
	db, err := buildcache.Open(ctx, cfg.IndexPath())
	if err != nil {
		t.Fatalf("buildcache.Open: %v", err)
	}
	defer db.Close()

	entry, ok, err := buildcache.Query(ctx, db, "f")
	require.NoError(t, err)
	require.True(t, ok, "expected an index entry for 'f'")
	require.Equal(t, "no side effects", entry.SideEffect)
	require.Equal(t, "a is O(c)", entry.Complexity)
}
