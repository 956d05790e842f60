package persistence

import "github.com/jinnzest/morphc/internal/model"

// RemapKeys applies an old-name → new-name substitution to the keys of a
// hints or analytics map (SPEC_FULL.md §4.E rename remap). Keys with no
// rename entry pass through unchanged.
func RemapKeys[V any](renames map[model.FuncName]model.FuncName, m map[model.FuncName]V) map[model.FuncName]V {
	out := make(map[model.FuncName]V, len(m))
	for k, v := range m {
		if newK, ok := renames[k]; ok {
			out[newK] = v
		} else {
			out[k] = v
		}
	}
	return out
}

// Invalidate drops entries whose (semantic-hash, name) pair — traced back to
// its pre-remap name — has no corresponding entry in the newly computed hash
// map (SPEC_FULL.md §4.E). A renamed function's old hash always equals its
// new hash by construction of RenameMap, so renamed entries always survive;
// an unrenamed function survives only if its hash is unchanged.
func Invalidate[V any](oldHashes, newHashes map[model.FuncName]string, renames map[model.FuncName]model.FuncName, remapped map[model.FuncName]V) map[model.FuncName]V {
	reverseRename := make(map[model.FuncName]model.FuncName, len(renames))
	for old, new := range renames {
		reverseRename[new] = old
	}

	out := make(map[model.FuncName]V, len(remapped))
	for name, v := range remapped {
		oldName := name
		if on, ok := reverseRename[name]; ok {
			oldName = on
		}
		oldHash, hadOld := oldHashes[oldName]
		newHash, hasNew := newHashes[name]
		if hadOld && hasNew && oldHash == newHash {
			out[name] = v
		}
	}
	return out
}
