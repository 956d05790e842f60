// Package cliutil holds small CLI-facing helpers: a diagnostic printer that
// colourizes output only when stdout is a terminal, the same capability
// check the teacher performs before colourizing a language builtin's output.
package cliutil

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/jinnzest/morphc/internal/diagnostics"
)

const (
	red   = "\x1b[31m"
	reset = "\x1b[0m"
)

// Printer writes diagnostics to an output stream, most-recent-first
// (SPEC_FULL.md §6 "Errors printed to stdout with one line per error,
// ordered most-recent-first").
type Printer struct {
	w      io.Writer
	colour bool
}

// NewStdoutPrinter builds a Printer over os.Stdout, colourizing only if
// stdout is a terminal.
func NewStdoutPrinter() *Printer {
	return &Printer{w: os.Stdout, colour: isatty.IsTerminal(os.Stdout.Fd())}
}

// PrintDiagnostics writes one line per diagnostic, most recent (last
// produced) first.
func (p *Printer) PrintDiagnostics(runID string, errs diagnostics.List) {
	for i := len(errs) - 1; i >= 0; i-- {
		line := errs[i].Error()
		if p.colour {
			fmt.Fprintf(p.w, "%s[%s] %s%s\n", red, runID, line, reset)
		} else {
			fmt.Fprintf(p.w, "[%s] %s\n", runID, line)
		}
	}
}
