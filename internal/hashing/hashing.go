// Package hashing implements the semantic hasher (SPEC_FULL.md §4.D): a
// structural digest per function, invariant under argument renaming.
//
// crypto/sha256 is used directly rather than a third-party hashing library.
// The original prototype reaches for Rust's `sha2` crate only because Rust's
// standard library ships no hash functions at all; Go's standard library
// does not have that gap, and no third-party library in the retrieved
// examples offers anything crypto/sha256 doesn't already (see DESIGN.md).
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/jinnzest/morphc/internal/model"
)

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

type hasher struct {
	byName map[model.FuncName]model.Function
	memo   map[model.FuncName]string
}

// Compute returns each function's semantic hash, memoising shared callees so
// each source function's body is only walked once per compilation unit.
func Compute(funcs []model.Function) map[model.FuncName]string {
	h := &hasher{
		byName: make(map[model.FuncName]model.Function, len(funcs)),
		memo:   make(map[model.FuncName]string, len(funcs)),
	}
	for _, f := range funcs {
		h.byName[f.Name] = f
	}
	out := make(map[model.FuncName]string, len(funcs))
	for _, f := range funcs {
		out[f.Name] = h.hashFunc(f)
	}
	return out
}

func (h *hasher) hashFunc(f model.Function) string {
	if v, ok := h.memo[f.Name]; ok {
		return v
	}
	v := h.hashExpr(f.Body, f)
	h.memo[f.Name] = v
	return v
}

func argPos(args []string, name string) int {
	for i, a := range args {
		if a == name {
			return i
		}
	}
	return -1
}

func (h *hasher) hashExpr(e model.Expression, f model.Function) string {
	switch v := e.(type) {
	case model.Constant:
		return digest(v.Value)

	case model.FunctionArgument:
		return digest("int_arg_" + strconv.Itoa(argPos(f.Args, v.Name)))

	case model.FunctionCall:
		if callee, ok := h.byName[model.FuncName(v.Name)]; ok {
			return h.hashFunc(callee)
		}
		if pos := argPos(f.Args, v.Name); pos >= 0 {
			return digest("int_arg_" + strconv.Itoa(pos))
		}
		return digest(v.Name)

	case model.SubExpression:
		parts := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			parts[i] = h.hashExpr(el, f)
		}
		return digest(strings.Join(parts, " "))

	default:
		return ""
	}
}

// RenameMap derives old-name → new-name from the hash→name map read from
// disk and the name→hash map just computed, matching on equal hashes and
// unequal names (SPEC_FULL.md §4.D).
func RenameMap(oldHashToName map[string]string, newNameToHash map[model.FuncName]string) map[model.FuncName]model.FuncName {
	newHashToName := make(map[string]model.FuncName, len(newNameToHash))
	for name, hash := range newNameToHash {
		newHashToName[hash] = name
	}
	renames := make(map[model.FuncName]model.FuncName)
	for hash, oldName := range oldHashToName {
		if newName, ok := newHashToName[hash]; ok && string(newName) != oldName {
			renames[model.FuncName(oldName)] = newName
		}
	}
	return renames
}
