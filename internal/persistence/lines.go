// Package persistence implements Component E (read/write hints, analytics,
// and hashes; rename-remap; invalidation) together with the line-grammar
// driver Component I specifies for the on-disk text formats of §6.
package persistence

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jinnzest/morphc/internal/diagnostics"
)

// Line is one non-blank line of a persisted file, numbered from 1 across the
// whole file (so diagnostics can point at the right line).
type Line struct {
	Number int
	Text   string
}

// ReadLines reads path and splits it into non-blank lines. A missing file is
// treated as empty input, not an error (SPEC_FULL.md §4.E); any other read
// failure is reported as a diagnostic with no source location.
func ReadLines(path string) ([]Line, *diagnostics.Error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, diagnostics.New(diagnostics.CodePersist, "reading "+path+": "+err.Error())
	}
	var lines []Line
	for i, raw := range strings.Split(string(data), "\n") {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		lines = append(lines, Line{Number: i + 1, Text: text})
	}
	return lines, nil
}

// WriteFile writes content to path, creating its parent directory if
// necessary. Unlike the original prototype's write_to_file (which panics on
// any failure), write failures here are reported as diagnostics and never
// stop the orchestrator from returning the analysis already computed in
// memory (SPEC_FULL.md §4.H, §5).
func WriteFile(path, content string) *diagnostics.Error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return diagnostics.New(diagnostics.CodePersist, "creating directory for "+path+": "+err.Error())
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return diagnostics.New(diagnostics.CodePersist, "writing "+path+": "+err.Error())
	}
	return nil
}

// SplitNameBody splits a "name <sep> body" line on the first occurrence of
// sep, trimming both sides. ok is false if sep does not occur.
func SplitNameBody(line, sep string) (name, body string, ok bool) {
	i := strings.Index(line, sep)
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+len(sep):]), true
}
