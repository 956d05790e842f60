package hashing

import "testing"
import "github.com/jinnzest/morphc/internal/model"

func call(name string, args ...model.Expression) model.FunctionCall {
	return model.FunctionCall{Name: name, Args: args}
}

// Invariant 1 — renaming an argument consistently leaves the hash unchanged.
func TestComputeIsInvariantUnderArgRename(t *testing.T) {
	f1 := model.Function{Name: "f", Args: []string{"a"}, Body: model.FunctionArgument{Name: "a"}}
	f2 := model.Function{Name: "f", Args: []string{"renamed"}, Body: model.FunctionArgument{Name: "renamed"}}

	h1 := Compute([]model.Function{f1})["f"]
	h2 := Compute([]model.Function{f2})["f"]
	if h1 != h2 {
		t.Fatalf("hashes differ after a consistent argument rename: %q vs %q", h1, h2)
	}
}

// Invariant 2 — changing a constant literal changes the hash.
func TestComputeIsSensitiveToConstantValue(t *testing.T) {
	f1 := model.Function{Name: "f", Body: model.Constant{Value: "1"}}
	f2 := model.Function{Name: "f", Body: model.Constant{Value: "2"}}

	h1 := Compute([]model.Function{f1})["f"]
	h2 := Compute([]model.Function{f2})["f"]
	if h1 == h2 {
		t.Fatalf("hashes are equal despite a different constant literal")
	}
}

func TestComputeHashesSharedCalleeCalledTwice(t *testing.T) {
	shared := model.Function{Name: "shared", Body: model.Constant{Value: "1"}}
	f := model.Function{Name: "f", Body: model.SubExpression{Elements: []model.Expression{
		call("shared"), call("shared"),
	}}}
	hashes := Compute([]model.Function{shared, f})
	if hashes["shared"] == "" || hashes["f"] == "" {
		t.Fatalf("expected non-empty hashes, got: %+v", hashes)
	}
}

func TestRenameMapMatchesEqualHashesUnequalNames(t *testing.T) {
	oldHashToName := map[string]string{"hash-x": "alpha"}
	newNameToHash := map[model.FuncName]string{"beta": "hash-x"}

	renames := RenameMap(oldHashToName, newNameToHash)
	if got := renames["alpha"]; got != "beta" {
		t.Fatalf("renames[alpha] = %q, want %q", got, "beta")
	}
}

func TestRenameMapOmitsUnchangedNames(t *testing.T) {
	oldHashToName := map[string]string{"hash-x": "alpha"}
	newNameToHash := map[model.FuncName]string{"alpha": "hash-x"}

	renames := RenameMap(oldHashToName, newNameToHash)
	if len(renames) != 0 {
		t.Fatalf("expected no renames when the name did not change, got: %+v", renames)
	}
}
