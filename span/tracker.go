package span

import "sort"

// LineColumnTracker maintains the byte offset of the start of every line seen
// so far in a stream, and resolves absolute byte offsets into (line, column)
// pairs without re-scanning previously-ingested bytes.
//
// Construct one with NewLineColumnTracker, which records that line 1 starts
// at offset 0. The zero value has no line-start entry and is not ready to
// use: LineColumn panics on it.
type LineColumnTracker struct {
	lineStarts []int // lineStarts[i] is the byte offset where line i+1 begins
	length     int
}

// NewLineColumnTracker returns a tracker ready to ingest bytes starting at
// offset 0.
func NewLineColumnTracker() *LineColumnTracker {
	return &LineColumnTracker{lineStarts: []int{0}}
}

// Extend scans chunk for newlines and records the start of every line found,
// treating chunk as beginning at the tracker's current length (i.e. chunks
// must be fed in stream order with no gaps or overlaps).
func (t *LineColumnTracker) Extend(chunk []byte) {
	base := t.length
	for i, b := range chunk {
		if b == '\n' {
			t.lineStarts = append(t.lineStarts, base+i+1)
		}
	}
	t.length += len(chunk)
}

// Len returns the total number of bytes ingested so far.
func (t *LineColumnTracker) Len() int {
	return t.length
}

// LineColumn resolves an absolute byte offset into a 1-indexed (line, column)
// pair. Offsets past the end of ingested input resolve against the last known
// line. Runs in O(log lines) via binary search.
func (t *LineColumnTracker) LineColumn(pos int) (line, column int) {
	// sort.Search finds the first index i such that lineStarts[i] > pos;
	// the line containing pos is the one immediately before that, including
	// when pos lands exactly on a line start.
	idx := sort.Search(len(t.lineStarts), func(i int) bool {
		return t.lineStarts[i] > pos
	})
	lineIdx := idx - 1
	if lineIdx < 0 {
		lineIdx = 0
	}
	line = lineIdx + 1
	lineStart := t.lineStarts[lineIdx]
	column = pos - lineStart + 1
	return line, column
}

// SpanWithPosition builds a Span over [start, end) with line/column resolved
// for start.
func (t *LineColumnTracker) SpanWithPosition(start, end int) Span {
	line, column := t.LineColumn(start)
	return WithPosition(start, end, line, column)
}
