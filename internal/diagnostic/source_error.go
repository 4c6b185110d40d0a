package diagnostic

import (
	"fmt"
	"strings"
)

// SourceError renders one diagnostic against its originating source text for
// developer-facing CLI output: a "line:column: message [code]" header
// followed by the offending source line and a caret under the column.
//
// This is CLI-only tooling (cmd/calfront), never part of the diagnostic
// channel itself — the channel carries only the sanitized ParseError value;
// SourceError re-derives the source line from the file the CLI already has
// open, so it never needs the raw token value either.
type SourceError struct {
	Message string
	Line    int
	Column  int
	Code    string
}

// Format renders e against source, the full text of the file e was parsed
// from.
func (e SourceError) Format(source string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%d:%d: %s", e.Line, e.Column, e.Message)
	if e.Code != "" {
		fmt.Fprintf(&b, " [%s]", e.Code)
	}

	lines := strings.Split(source, "\n")
	if e.Line >= 1 && e.Line <= len(lines) {
		b.WriteString("\n")
		b.WriteString(lines[e.Line-1])
		b.WriteString("\n")
		if e.Column >= 1 {
			b.WriteString(strings.Repeat(" ", e.Column-1))
		}
		b.WriteString("^")
	}

	return b.String()
}
