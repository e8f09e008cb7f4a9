package ir

import "github.com/dekarrin/ebnflow/span"

// Production is the closed sum type of grammar productions. The concrete
// types implementing it are Sequence, Alternation, Group, Repeat, Terminal,
// Class, and Ref; no other type may implement it.
type Production interface {
	productionNode()
}

// Sequence matches each child production in order, failing if any child
// fails.
type Sequence struct {
	Items []Production
}

func (Sequence) productionNode() {}

// Alternation tries each child left-to-right at the same input position,
// succeeding on the first match and failing only if every child fails.
type Alternation struct {
	Items []Production
}

func (Alternation) productionNode() {}

// Group wraps a single production. Semantically identical to Inner;
// preserved only so a grammar built by a generator round-trips
// parenthesization for display purposes.
type Group struct {
	Inner Production
}

func (Group) productionNode() {}

// RepeatQuant is a repetition quantifier (min, max?). `?` is {0, 1}, `*` is
// {0, nil}, `+` is {1, nil}; general {m,n} is permitted directly.
type RepeatQuant struct {
	Min int
	Max *int // nil means unbounded
}

// Repeat matches Item repeatedly, Quant.Min to Quant.Max times.
type Repeat struct {
	Item  Production
	Quant RepeatQuant
}

func (Repeat) productionNode() {}

// TerminalKind discriminates between a single-character literal and a
// string literal, both matched exactly, byte-wise over UTF-8 characters.
type TerminalKind interface {
	terminalKind()
}

// CharLiteral matches exactly one rune.
type CharLiteral rune

func (CharLiteral) terminalKind() {}

// StrLiteral matches an exact string.
type StrLiteral string

func (StrLiteral) terminalKind() {}

// Terminal matches a single character or string literal exactly.
type Terminal struct {
	Kind TerminalKind
	Span *span.Span
}

func (Terminal) productionNode() {}

// CharRange is an inclusive rune range [Lo, Hi].
type CharRange struct {
	Lo, Hi rune
}

// CharClass matches exactly one character against a set of individual
// characters and/or inclusive ranges, optionally negated.
type CharClass struct {
	Negated bool
	Chars   []rune
	Ranges  []CharRange
}

// Matches reports whether r is a member of this character class, honoring
// Negated.
func (c CharClass) Matches(r rune) bool {
	member := false
	for _, ch := range c.Chars {
		if ch == r {
			member = true
			break
		}
	}
	if !member {
		for _, rg := range c.Ranges {
			if r >= rg.Lo && r <= rg.Hi {
				member = true
				break
			}
		}
	}
	if c.Negated {
		return !member
	}
	return member
}

// Class is a production that matches exactly one character belonging to a
// CharClass.
type Class struct {
	CharClass CharClass
	Span      *span.Span
}

func (Class) productionNode() {}

// Ref is a reference to another rule by name, resolved at parse time
// against the owning Grammar.
type Ref struct {
	Name string
	Span *span.Span
}

func (Ref) productionNode() {}
