package engine

import (
	"fmt"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/ebnflow/event"
)

// Pretty renders a parse error event as a human-readable, multi-line
// diagnostic with a source excerpt, given the full source bytes the
// engine was parsing (or as much of it as the caller retained). If source
// is nil or too short to cover ev's position, the source excerpt is
// omitted.
func Pretty(ev event.Error, source []byte) string {
	header := fmt.Sprintf("parse error at byte %d", ev.Position)
	if ev.Span != nil && ev.Span.HasPosition() {
		header = fmt.Sprintf("parse error at line %d, column %d", ev.Span.Line, ev.Span.Column)
	}
	if ev.RuleContext != "" {
		header += fmt.Sprintf(" (in rule %q)", ev.RuleContext)
	}

	body := rosed.Edit(ev.Message).Wrap(76).String()

	out := header + "\n    " + spaceIndentNewlines(body, 4)

	if excerpt := sourceExcerpt(source, ev.Position); excerpt != "" {
		out += "\n\n" + rosed.Edit(excerpt).Wrap(76).String()
	}

	if ev.Hint != "" {
		out += "\n\nhint: " + rosed.Edit(ev.Hint).Wrap(76).String()
	}

	return out
}

// sourceExcerpt returns the line containing pos plus a caret marker under
// the offending column, or "" if source doesn't reach that far.
func sourceExcerpt(source []byte, pos int) string {
	if len(source) == 0 || pos < 0 || pos > len(source) {
		return ""
	}

	lineStart := pos
	for lineStart > 0 && source[lineStart-1] != '\n' {
		lineStart--
	}
	lineEnd := pos
	for lineEnd < len(source) && source[lineEnd] != '\n' {
		lineEnd++
	}

	line := string(source[lineStart:lineEnd])
	caretCol := pos - lineStart
	caret := ""
	for i := 0; i < caretCol; i++ {
		caret += " "
	}
	caret += "^"

	return line + "\n" + caret
}

func spaceIndentNewlines(s string, indent int) string {
	pad := ""
	for i := 0; i < indent; i++ {
		pad += " "
	}
	out := ""
	for i, r := range s {
		out += string(r)
		if r == '\n' && i != len(s)-1 {
			out += pad
		}
	}
	return out
}
