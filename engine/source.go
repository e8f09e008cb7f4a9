package engine

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Source is the abstract byte source an Engine parses. Any io.Reader
// satisfies it directly; implement it over a socket, a file, or a chunked
// network stream to parse incrementally without buffering the whole input.
type Source = io.Reader

// newSanitizingReader runs src through the UTF-8 validating transform so
// malformed sequences are replaced with U+FFFD once, at ingestion, instead
// of being discovered (and fudged) at every rune decode downstream.
func newSanitizingReader(src io.Reader) io.Reader {
	return transform.NewReader(src, unicode.UTF8.NewDecoder())
}
