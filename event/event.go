// Package event defines the parse event stream produced by the engine: a
// tagged variant of rule start/end, matched tokens, and errors, emitted in
// the exact order the engine produces them.
package event

import "github.com/dekarrin/ebnflow/span"

// Event is the closed sum type of parse events. Concrete types: Start, End,
// Token, Error.
type Event interface {
	eventNode()
}

// Start marks the beginning of an attempt to match the named rule.
type Start struct {
	Rule string
}

func (Start) eventNode() {}

// End marks the successful completion of the named rule's match. Every
// Start(r) in a successful event stream has a matching End(r).
type End struct {
	Rule string
}

func (End) eventNode() {}

// TokenKind discriminates what matched to produce a Token event: a single
// character literal, a string literal, or a character class match (which
// carries the matched rune).
type TokenKind interface {
	tokenKind()
}

// CharKind is a single-character-literal match.
type CharKind rune

func (CharKind) tokenKind() {}

// StrKind is a string-literal match.
type StrKind string

func (StrKind) tokenKind() {}

// ClassKind is a character-class match, carrying the rune that matched.
type ClassKind rune

func (ClassKind) tokenKind() {}

// Token reports a successful terminal or character-class match.
type Token struct {
	Kind TokenKind
	Span span.Span
}

func (Token) eventNode() {}

// Error terminates the event stream: a parse could not proceed past
// Position. RuleContext is the name of the nearest enclosing still-open
// rule, if any. Hint is an optional suggestion for diagnostics output.
type Error struct {
	Message     string
	Position    int
	Span        *span.Span
	RuleContext string
	Hint        string
}

func (Error) eventNode() {}

func (e Error) Error() string {
	return e.Message
}
