// Package ast builds a complete, in-memory syntax tree from a grammar's
// parse event stream. It trades the engine's O(1) streaming memory for
// random access and repeated traversal: build an Ast when the input is
// small enough to hold entirely (typical source files, config documents),
// and fall back to driving engine.Engine directly for anything larger.
package ast

import "github.com/dekarrin/ebnflow/span"

// Node is the closed sum type of AST nodes: Terminal, Sequence,
// Alternation, Repetition, and Rule.
type Node interface {
	astNode()
	// NodeSpan returns the byte range this node covers.
	NodeSpan() span.Span
}

// Terminal is a single matched character or string literal.
type Terminal struct {
	Value string
	Span  span.Span
}

func (Terminal) astNode()                {}
func (t Terminal) NodeSpan() span.Span { return t.Span }

// Sequence holds the nodes matched by a Sequence production, in order.
type Sequence struct {
	Nodes []Node
	Span  span.Span
}

func (Sequence) astNode()                {}
func (s Sequence) NodeSpan() span.Span { return s.Span }

// Alternation holds the nodes collected for an Alternation production.
// Builder only ever constructs it with zero or more-than-one children; a
// single collected node collapses directly to that node (see Builder).
type Alternation struct {
	Nodes []Node
	Span  span.Span
}

func (Alternation) astNode()                {}
func (a Alternation) NodeSpan() span.Span { return a.Span }

// Repetition holds the nodes matched by each iteration of a Repeat
// production, in order. Unlike Sequence and Alternation, Repetition is
// never collapsed: a single-iteration repeat still wraps its one child so
// callers can tell "matched once" apart from "not a repeat at all".
type Repetition struct {
	Nodes []Node
	Span  span.Span
}

func (Repetition) astNode()                {}
func (r Repetition) NodeSpan() span.Span { return r.Span }

// Rule wraps the node produced by one rule reference's body.
type Rule struct {
	Name string
	Node Node
	Span span.Span
}

func (Rule) astNode()                {}
func (r Rule) NodeSpan() span.Span { return r.Span }

// Metadata carries summary information about a completed parse.
type Metadata struct {
	InputLength int
	TokenCount  int
	Success     bool
}

// Ast is a complete syntax tree produced from one parse.
type Ast struct {
	Root     Node
	Metadata Metadata
}

// Span returns the byte range of the whole tree.
func (a *Ast) Span() span.Span {
	return a.Root.NodeSpan()
}

// CollectTerminals returns the value of every Terminal in the tree, in
// left-to-right order.
func (a *Ast) CollectTerminals() []string {
	var out []string
	walkTerminals(a.Root, &out)
	return out
}

func walkTerminals(n Node, acc *[]string) {
	switch v := n.(type) {
	case Terminal:
		*acc = append(*acc, v.Value)
	case Sequence:
		for _, c := range v.Nodes {
			walkTerminals(c, acc)
		}
	case Alternation:
		for _, c := range v.Nodes {
			walkTerminals(c, acc)
		}
	case Repetition:
		for _, c := range v.Nodes {
			walkTerminals(c, acc)
		}
	case Rule:
		walkTerminals(v.Node, acc)
	}
}

// Depth returns the height of the tree: a single Terminal has depth 1.
func (a *Ast) Depth() int {
	return nodeDepth(a.Root)
}

func nodeDepth(n Node) int {
	switch v := n.(type) {
	case Terminal:
		return 1
	case Sequence:
		return 1 + maxChildDepth(v.Nodes)
	case Alternation:
		return 1 + maxChildDepth(v.Nodes)
	case Repetition:
		return 1 + maxChildDepth(v.Nodes)
	case Rule:
		return 1 + nodeDepth(v.Node)
	}
	return 0
}

func maxChildDepth(nodes []Node) int {
	max := 0
	for _, n := range nodes {
		if d := nodeDepth(n); d > max {
			max = d
		}
	}
	return max
}
