package persistence

import (
	"sort"

	"github.com/jinnzest/morphc/internal/diagnostics"
	"github.com/jinnzest/morphc/internal/model"
)

// ReadHashes parses a "name = hex-digest" file (SPEC_FULL.md §6).
func ReadHashes(path string) (map[model.FuncName]string, diagnostics.List) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, diagnostics.List{err}
	}
	out := make(map[model.FuncName]string, len(lines))
	var errs diagnostics.List
	for _, l := range lines {
		name, hash, ok := SplitNameBody(l.Text, "=")
		if !ok || name == "" || hash == "" {
			errs = append(errs, diagnostics.At(diagnostics.CodePersist,
				diagnostics.Pos{Line: l.Number, Column: 1},
				"Expected: '='\nGot: '"+l.Text+"'"))
			continue
		}
		out[model.FuncName(name)] = hash
	}
	return out, errs
}

// WriteHashes writes the hashes file in forward alphabetical order of
// function name (SPEC_FULL.md §4.E: a documented normalisation of the
// original's reverse-sort-plus-prepend, which produces the same order).
func WriteHashes(path string, hashes map[model.FuncName]string) *diagnostics.Error {
	names := make([]model.FuncName, 0, len(hashes))
	for n := range hashes {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return model.Less(names[i], names[j]) })

	var sb []byte
	for _, n := range names {
		sb = append(sb, []byte(string(n)+" = "+hashes[n]+"\n")...)
	}
	return WriteFile(path, string(sb))
}
