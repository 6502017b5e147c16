// Package reporter formats fatal compile/lowering diagnostics in the
// "file:line:col: error: message" shape of §6, with an optional caret or
// caret-tilde underline of the offending source line.
//
// Design Note 4 of spec.md rejects the two-global-pointer style (current
// filename, current source) that a naive port would reach for: a single
// *Reporter is constructed once per run and threaded through the parser and
// the lowering engine instead.
package reporter

import (
	"fmt"
	"strings"

	"github.com/monad-lang/monad/internal/token"
)

// Reporter carries the file name and source text a diagnostic needs to
// render its source-line excerpt, without any package-level mutable state.
type Reporter struct {
	File   string
	Source string
}

// New constructs a Reporter for one compilation unit or REPL line.
func New(file, source string) *Reporter {
	return &Reporter{File: file, Source: source}
}

// Diagnostic is a single fatal error: a position, a message, and an
// optional end column for a range underline.
type Diagnostic struct {
	Pos     token.Position
	EndCol  int // 0 if no end column is known
	Message string
}

// Errorf builds a Diagnostic at pos with a formatted message.
func (r *Reporter) Errorf(pos token.Position, format string, args ...any) *Diagnostic {
	return &Diagnostic{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// RangeErrorf builds a Diagnostic spanning pos.Column..endCol.
func (r *Reporter) RangeErrorf(pos token.Position, endCol int, format string, args ...any) *Diagnostic {
	return &Diagnostic{Pos: pos, EndCol: endCol, Message: fmt.Sprintf(format, args...)}
}

// Format renders d per §6: "<file>:<line>:<col>: error: <message>", followed
// by an indented rendering of the offending source line and a caret (or
// caret-tilde range when EndCol is known) when the source is available.
func (r *Reporter) Format(d *Diagnostic) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:%d:%d: error: %s", r.File, d.Pos.Line, d.Pos.Column, d.Message)

	line := r.sourceLine(d.Pos.Line)
	if line != "" {
		sb.WriteString("\n    ")
		sb.WriteString(line)
		sb.WriteString("\n    ")
		sb.WriteString(strings.Repeat(" ", max0(d.Pos.Column-1)))
		if d.EndCol > d.Pos.Column {
			sb.WriteString("^")
			sb.WriteString(strings.Repeat("~", d.EndCol-d.Pos.Column-1))
			sb.WriteString("~")
		} else {
			sb.WriteString("^")
		}
	}
	return sb.String()
}

func (r *Reporter) sourceLine(lineNum int) string {
	if r.Source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(r.Source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// Error is the fatal error type returned by parser and lowering APIs. It
// wraps a single Diagnostic, rendered through its Reporter.
type Error struct {
	Reporter   *Reporter
	Diagnostic *Diagnostic
}

func (e *Error) Error() string {
	return e.Reporter.Format(e.Diagnostic)
}

// Fail is a convenience constructor combining Errorf and wrapping into an
// error value. Lowering and parsing abort on the first such error: per §7
// recovery is never attempted.
func (r *Reporter) Fail(pos token.Position, format string, args ...any) error {
	return &Error{Reporter: r, Diagnostic: r.Errorf(pos, format, args...)}
}

// FailRange is Fail with an explicit end column, producing a tilde range
// underline instead of a single caret.
func (r *Reporter) FailRange(pos token.Position, endCol int, format string, args ...any) error {
	return &Error{Reporter: r, Diagnostic: r.RangeErrorf(pos, endCol, format, args...)}
}
