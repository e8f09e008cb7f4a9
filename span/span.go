// Package span holds the byte-range-plus-position type shared by every other
// package in this module, and the LineColumnTracker used to resolve absolute
// byte offsets into 1-indexed (line, column) pairs as input streams in.
package span

import "fmt"

// Span is a half-open byte range [Start, End) within some source, optionally
// annotated with the 1-indexed line and column of Start. Line and Column are
// both zero when position information was never requested for this span.
type Span struct {
	Start  int
	End    int
	Line   int
	Column int
}

// New returns a Span with no position information attached.
func New(start, end int) Span {
	return Span{Start: start, End: end}
}

// WithPosition returns a Span carrying the given 1-indexed line and column.
func WithPosition(start, end int, line, column int) Span {
	return Span{Start: start, End: end, Line: line, Column: column}
}

// HasPosition reports whether this Span carries line/column information.
func (s Span) HasPosition() bool {
	return s.Line > 0
}

// Len returns the number of bytes spanned.
func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) String() string {
	if s.HasPosition() {
		return fmt.Sprintf("%d:%d[%d,%d)", s.Line, s.Column, s.Start, s.End)
	}
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}
