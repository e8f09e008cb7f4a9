package ast

import (
	"fmt"

	"github.com/dekarrin/ebnflow/event"
	"github.com/dekarrin/ebnflow/span"
)

// Builder constructs an Ast incrementally from a sequence of pushes, pops,
// and terminal additions. It mirrors the shape of the engine's own frame
// stack: every Push opens a new collector level, every Pop closes the
// innermost one and appends the result to its parent.
type Builder struct {
	stack     [][]Node
	ruleNames []string
	metadata  Metadata
}

// NewBuilder returns an empty Builder ready to accept events.
func NewBuilder() *Builder {
	return &Builder{stack: [][]Node{nil}}
}

// AddTerminal appends a matched terminal to the innermost open level.
func (b *Builder) AddTerminal(value string, sp span.Span) {
	b.append(Terminal{Value: value, Span: sp})
	b.metadata.TokenCount++
}

func (b *Builder) append(n Node) {
	top := len(b.stack) - 1
	b.stack[top] = append(b.stack[top], n)
}

// PushSequence opens a new collector level for a Sequence production.
func (b *Builder) PushSequence() {
	b.stack = append(b.stack, nil)
}

// PopSequence closes the innermost level, wrapping it as a Sequence unless
// it collected exactly one node (which is appended directly, unwrapped).
func (b *Builder) PopSequence() (Node, bool) {
	nodes, sp, ok := b.popLevel()
	if !ok {
		return nil, false
	}
	n := collapseOrWrap(nodes, sp, func(ns []Node, s span.Span) Node {
		return Sequence{Nodes: ns, Span: s}
	})
	b.append(n)
	return n, true
}

// PushAlternation opens a new collector level for an Alternation
// production.
func (b *Builder) PushAlternation() {
	b.stack = append(b.stack, nil)
}

// PopAlternation closes the innermost level, wrapping it as an
// Alternation unless it collected exactly one node.
func (b *Builder) PopAlternation() (Node, bool) {
	nodes, sp, ok := b.popLevel()
	if !ok {
		return nil, false
	}
	n := collapseOrWrap(nodes, sp, func(ns []Node, s span.Span) Node {
		return Alternation{Nodes: ns, Span: s}
	})
	b.append(n)
	return n, true
}

// PushRepetition opens a new collector level for a Repeat production.
func (b *Builder) PushRepetition() {
	b.stack = append(b.stack, nil)
}

// PopRepetition closes the innermost level, always wrapping it as a
// Repetition (even a single iteration stays wrapped, unlike Sequence and
// Alternation, so callers can distinguish "matched once" from "not a
// repeat").
func (b *Builder) PopRepetition() (Node, bool) {
	nodes, sp, ok := b.popLevel()
	if !ok {
		return nil, false
	}
	n := Repetition{Nodes: nodes, Span: sp}
	b.append(n)
	return n, true
}

// PushRule opens a new collector level for the named rule's body.
func (b *Builder) PushRule(name string) {
	b.ruleNames = append(b.ruleNames, name)
	b.stack = append(b.stack, nil)
}

// PopRule closes the innermost level and wraps it as a Rule node, its body
// collapsed the same way PopSequence collapses (a rule body is an
// implicit sequence of whatever it matched).
func (b *Builder) PopRule() (Node, bool) {
	if len(b.ruleNames) == 0 {
		return nil, false
	}
	name := b.ruleNames[len(b.ruleNames)-1]
	b.ruleNames = b.ruleNames[:len(b.ruleNames)-1]

	nodes, sp, ok := b.popLevel()
	if !ok {
		return nil, false
	}
	inner := collapseOrWrap(nodes, sp, func(ns []Node, s span.Span) Node {
		return Sequence{Nodes: ns, Span: s}
	})
	n := Rule{Name: name, Node: inner, Span: sp}
	b.append(n)
	return n, true
}

// popLevel pops the innermost collector level and infers its span from
// its children's spans (the first child's start to the last child's end).
// An empty level has no children to infer a span from; callers get a
// zero-length span at position 0, which only arises from a degenerate
// zero-width match (an empty Repeat, say).
func (b *Builder) popLevel() ([]Node, span.Span, bool) {
	if len(b.stack) <= 1 {
		return nil, span.Span{}, false
	}
	nodes := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return nodes, spanOf(nodes), true
}

func spanOf(nodes []Node) span.Span {
	if len(nodes) == 0 {
		return span.Span{}
	}
	first := nodes[0].NodeSpan()
	last := nodes[len(nodes)-1].NodeSpan()
	return span.Span{Start: first.Start, End: last.End, Line: first.Line, Column: first.Column}
}

func collapseOrWrap(nodes []Node, sp span.Span, wrap func([]Node, span.Span) Node) Node {
	if len(nodes) == 1 {
		return nodes[0]
	}
	return wrap(nodes, sp)
}

// Build finalizes the tree. It is an error to call Build while any
// PushSequence/PushAlternation/PushRepetition/PushRule is still open.
func (b *Builder) Build(inputLength int) (*Ast, error) {
	if len(b.stack) != 1 {
		return nil, fmt.Errorf("invalid builder state: %d levels open, expected 1", len(b.stack))
	}
	nodes := b.stack[0]
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no nodes were added to the builder")
	}

	var root Node
	if len(nodes) == 1 {
		root = nodes[0]
	} else {
		root = Sequence{Nodes: nodes, Span: span.New(0, inputLength)}
	}

	b.metadata.InputLength = inputLength
	b.metadata.Success = true

	return &Ast{Root: root, Metadata: b.metadata}, nil
}

// BuildFromEvents drains an event source (anything with a NextEvent
// method matching *engine.Engine's) and constructs the resulting Ast,
// threading Start/End events into PushRule/PopRule and Token events into
// AddTerminal. inputLength is the total byte length of the source parsed,
// used for the root span if the stream never itself wraps everything in
// one node.
func BuildFromEvents(src EventSource, inputLength int) (*Ast, error) {
	b := NewBuilder()
	for {
		ev, err := src.NextEvent()
		if err != nil {
			break
		}
		switch v := ev.(type) {
		case event.Start:
			b.PushRule(v.Rule)
		case event.End:
			b.PopRule()
		case event.Token:
			b.AddTerminal(tokenText(v.Kind), v.Span)
		case event.Error:
			return nil, v
		}
	}
	return b.Build(inputLength)
}

// EventSource is satisfied by *engine.Engine; declared here (rather than
// imported) to keep this package from depending on engine's buffering and
// source-wrapping machinery when all it needs is the event stream.
type EventSource interface {
	NextEvent() (event.Event, error)
}

func tokenText(k event.TokenKind) string {
	switch v := k.(type) {
	case event.CharKind:
		return string(rune(v))
	case event.StrKind:
		return string(v)
	case event.ClassKind:
		return string(rune(v))
	}
	return ""
}
