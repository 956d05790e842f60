// Package diagnostics holds the error taxonomy shared by every pipeline
// stage. Stages never panic across their own boundary (the one exception is
// documented on sideeffect.Aspect.Infer); they return a slice of *Error
// instead, which the orchestrator returns in its Result and the CLI prints to
// stdout.
package diagnostics

import "fmt"

// Code identifies which stage produced an Error and why, independent of its
// message text.
type Code string

const (
	CodeLex        Code = "LexError"
	CodeParse      Code = "ParseError"
	CodeResolve    Code = "ResolveError"
	CodeRecursion  Code = "RecursionError"
	CodePersist    Code = "PersistenceError"
	CodeConstraint Code = "ConstraintViolation"
	CodeIndex      Code = "IndexError"
)

// Pos is a source location. A zero value (Line == 0) means "no location",
// used for file-level I/O diagnostics.
type Pos struct {
	Line, Column int
}

func (p Pos) String() string {
	if p.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Error is the single concrete error type produced by every stage.
type Error struct {
	Code Code
	Msg  string
	At   Pos
}

func (e *Error) Error() string {
	if e.At.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s at %s", e.Msg, e.At)
}

func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func At(code Code, pos Pos, msg string) *Error {
	return &Error{Code: code, Msg: msg, At: pos}
}

// List is a non-empty-by-convention collection of stage errors. nil/empty
// means success.
type List []*Error

func (l List) Strings() []string {
	out := make([]string, len(l))
	for i, e := range l {
		out[i] = e.Error()
	}
	return out
}
