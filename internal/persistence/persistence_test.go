package persistence

import (
	"path/filepath"
	"testing"

	"github.com/jinnzest/morphc/internal/model"
)

func TestReadLinesMissingFileIsEmptyNotError(t *testing.T) {
	lines, err := ReadLines(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil {
		t.Fatalf("missing file should not be an error, got: %v", err)
	}
	if lines != nil {
		t.Fatalf("expected nil lines for a missing file, got: %+v", lines)
	}
}

func TestSplitNameBody(t *testing.T) {
	name, body, ok := SplitNameBody("foo <- bar baz", "<-")
	if !ok || name != "foo" || body != "bar baz" {
		t.Fatalf("got (%q, %q, %v), want (foo, bar baz, true)", name, body, ok)
	}
	if _, _, ok := SplitNameBody("no separator here", "<-"); ok {
		t.Fatalf("expected ok=false when the separator is absent")
	}
}

// Invariant 5 — round trip: read(write(H)) = H, for hashes.
func TestHashesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hashes", "main.hsh")
	want := map[model.FuncName]string{"alpha": "deadbeef", "beta": "cafef00d"}

	if err := WriteHashes(path, want); err != nil {
		t.Fatalf("WriteHashes: %v", err)
	}
	got, errs := ReadHashes(path)
	if len(errs) != 0 {
		t.Fatalf("ReadHashes errors: %v", errs)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("got[%s] = %q, want %q", k, got[k], v)
		}
	}
}

func TestReadHashesReportsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.hsh")
	if err := WriteFile(path, "no-equals-sign-here\n"); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, errs := ReadHashes(path)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one malformed-line diagnostic, got %d", len(errs))
	}
}

func TestRemapKeysAppliesRenames(t *testing.T) {
	renames := map[model.FuncName]model.FuncName{"alpha": "beta"}
	m := map[model.FuncName]string{"alpha": "x", "gamma": "y"}

	out := RemapKeys(renames, m)
	if out["beta"] != "x" || out["gamma"] != "y" {
		t.Fatalf("unexpected remap result: %+v", out)
	}
	if _, stillPresent := out["alpha"]; stillPresent {
		t.Fatalf("old key 'alpha' should not survive the remap")
	}
}

// Invariant 7 — invalidation: a function whose hash changed loses its stored
// analytics; a function whose hash did not change keeps them.
func TestInvalidateDropsChangedKeepsUnchanged(t *testing.T) {
	oldHashes := map[model.FuncName]string{"same": "h1", "changed": "h2"}
	newHashes := map[model.FuncName]string{"same": "h1", "changed": "h2-new"}
	remapped := map[model.FuncName]string{"same": "payload-same", "changed": "payload-changed"}

	out := Invalidate(oldHashes, newHashes, nil, remapped)
	if out["same"] != "payload-same" {
		t.Fatalf("expected 'same' to survive invalidation, got: %+v", out)
	}
	if _, stillPresent := out["changed"]; stillPresent {
		t.Fatalf("expected 'changed' to be dropped by invalidation")
	}
}

// Invariant 6 — rename survival: a renamed function's analytics migrate.
func TestInvalidateKeepsRenamedEntries(t *testing.T) {
	oldHashes := map[model.FuncName]string{"alpha": "h1"}
	newHashes := map[model.FuncName]string{"beta": "h1"}
	renames := map[model.FuncName]model.FuncName{"alpha": "beta"}
	remapped := map[model.FuncName]string{"beta": "payload"}

	out := Invalidate(oldHashes, newHashes, renames, remapped)
	if out["beta"] != "payload" {
		t.Fatalf("expected renamed entry 'beta' to survive invalidation, got: %+v", out)
	}
}
